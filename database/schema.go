package database

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Bootstrap creates the tables this service owns if they are missing. Tags
// and variant options are stored as JSON text columns, same as the rest of
// the denormalized payloads.
func (c *Connection) Bootstrap() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS courses (
			id INT PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			description TEXT,
			instructor VARCHAR(128),
			category VARCHAR(64) NOT NULL,
			tags_json TEXT,
			level VARCHAR(32),
			price DOUBLE NOT NULL DEFAULT 0,
			rating DOUBLE NOT NULL DEFAULT 0,
			review_count INT NOT NULL DEFAULT 0,
			enroll_count INT NOT NULL DEFAULT 0,
			image VARCHAR(512),
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id INT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT,
			category VARCHAR(64) NOT NULL,
			tags_json TEXT,
			price DOUBLE NOT NULL DEFAULT 0,
			stock INT NOT NULL DEFAULT 0,
			is_in_stock TINYINT(1) NOT NULL DEFAULT 1,
			rating DOUBLE NOT NULL DEFAULT 0,
			review_count INT NOT NULL DEFAULT 0,
			image VARCHAR(512),
			options_json TEXT,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS members (
			id INT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(64) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL,
			name VARCHAR(128),
			passphrase CHAR(64) NOT NULL,
			is_active TINYINT(1) NOT NULL DEFAULT 1,
			joined_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS enrollments (
			id INT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(64) NOT NULL,
			course_id INT NOT NULL,
			progress INT NOT NULL DEFAULT 0,
			enrolled_at DATETIME NOT NULL,
			UNIQUE KEY uniq_enrollment (username, course_id)
		)`,
		`CREATE TABLE IF NOT EXISTS reviews (
			id INT AUTO_INCREMENT PRIMARY KEY,
			course_id INT NOT NULL,
			username VARCHAR(64) NOT NULL,
			rating INT NOT NULL,
			comment TEXT,
			created_at DATETIME NOT NULL,
			KEY idx_reviews_course (course_id)
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id CHAR(36) PRIMARY KEY,
			reference VARCHAR(32) NOT NULL,
			username VARCHAR(64),
			items_json TEXT NOT NULL,
			total_amount DOUBLE NOT NULL,
			status VARCHAR(16) NOT NULL,
			created_at DATETIME NOT NULL,
			KEY idx_orders_username (username)
		)`,
	}

	for _, stmt := range stmts {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		_, err := c.db.ExecContext(ctx, stmt)
		cancel()
		if err != nil {
			return fmt.Errorf("bootstrap schema: %v", err)
		}
	}

	log.Println("Database schema verified")
	return nil
}
