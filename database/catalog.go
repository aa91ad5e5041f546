package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"learnhub-storefront-api/models"
)

func (c *Connection) GetCourses() ([]models.Course, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := c.db.QueryContext(ctx, `
		SELECT id, title, description, instructor, category, tags_json,
		       level, price, rating, review_count, enroll_count, image, created_at
		FROM courses
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("error querying courses: %v", err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var course models.Course
		var tagsJSON sql.NullString
		if err := rows.Scan(&course.ID, &course.Title, &course.Description,
			&course.Instructor, &course.Category, &tagsJSON, &course.Level,
			&course.Price, &course.Rating, &course.ReviewCount,
			&course.EnrollCount, &course.Image, &course.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning course: %v", err)
		}
		course.Tags = parseTags(tagsJSON.String)
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

func (c *Connection) GetProducts() ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := c.db.QueryContext(ctx, `
		SELECT id, name, description, category, tags_json, price, stock,
		       is_in_stock, rating, review_count, image, options_json, created_at
		FROM products
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("error querying products: %v", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var product models.Product
		var tagsJSON, optionsJSON sql.NullString
		if err := rows.Scan(&product.ID, &product.Name, &product.Description,
			&product.Category, &tagsJSON, &product.Price, &product.Stock,
			&product.IsInStock, &product.Rating, &product.ReviewCount,
			&product.Image, &optionsJSON, &product.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning product: %v", err)
		}
		product.Tags = parseTags(tagsJSON.String)
		if optionsJSON.String != "" {
			if err := json.Unmarshal([]byte(optionsJSON.String), &product.Options); err != nil {
				log.Printf("Error parsing options json for product %d: %v", product.ID, err)
			}
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// SeedCatalog loads the fixture records into empty catalog tables so a fresh
// database serves the same data as the JSON feed.
func (c *Connection) SeedCatalog(courses []models.Course, products []models.Product) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var count int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses`).Scan(&count); err != nil {
		return fmt.Errorf("error counting courses: %v", err)
	}
	if count == 0 {
		for _, course := range courses {
			tagsJSON, _ := json.Marshal(course.Tags)
			_, err := c.db.ExecContext(ctx, `
				INSERT INTO courses (id, title, description, instructor, category,
					tags_json, level, price, rating, review_count, enroll_count, image, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, course.ID, course.Title, course.Description, course.Instructor,
				course.Category, string(tagsJSON), course.Level, course.Price,
				course.Rating, course.ReviewCount, course.EnrollCount,
				course.Image, course.CreatedAt)
			if err != nil {
				return fmt.Errorf("error seeding course %d: %v", course.ID, err)
			}
		}
		log.Printf("Seeded %d courses", len(courses))
	}

	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return fmt.Errorf("error counting products: %v", err)
	}
	if count == 0 {
		for _, product := range products {
			tagsJSON, _ := json.Marshal(product.Tags)
			optionsJSON, _ := json.Marshal(product.Options)
			_, err := c.db.ExecContext(ctx, `
				INSERT INTO products (id, name, description, category, tags_json,
					price, stock, is_in_stock, rating, review_count, image, options_json, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, product.ID, product.Name, product.Description, product.Category,
				string(tagsJSON), product.Price, product.Stock, product.IsInStock,
				product.Rating, product.ReviewCount, product.Image,
				string(optionsJSON), product.CreatedAt)
			if err != nil {
				return fmt.Errorf("error seeding product %d: %v", product.ID, err)
			}
		}
		log.Printf("Seeded %d products", len(products))
	}

	return nil
}

func parseTags(tagsJSON string) []string {
	if tagsJSON == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(tagsJSON), &tags); err != nil {
		log.Printf("Error parsing tags json: %v", err)
		return nil
	}
	return tags
}
