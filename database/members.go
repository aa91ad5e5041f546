package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"learnhub-storefront-api/models"
)

// GetMemberByCredentials resolves a member by username and hashed passphrase.
// Returns nil, nil when no member matches.
func (c *Connection) GetMemberByCredentials(username, hashedPassphrase string) (*models.Member, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var member models.Member
	err := c.db.QueryRowContext(ctx, `
		SELECT id, username, email, name, passphrase, is_active, joined_at
		FROM members
		WHERE username = ? AND passphrase = ?
	`, username, hashedPassphrase).Scan(&member.ID, &member.Username,
		&member.Email, &member.Name, &member.Passphrase, &member.IsActive,
		&member.JoinedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying member: %v", err)
	}
	return &member, nil
}

func (c *Connection) GetMemberByUsername(username string) (*models.Member, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var member models.Member
	err := c.db.QueryRowContext(ctx, `
		SELECT id, username, email, name, passphrase, is_active, joined_at
		FROM members
		WHERE username = ?
	`, username).Scan(&member.ID, &member.Username, &member.Email,
		&member.Name, &member.Passphrase, &member.IsActive, &member.JoinedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying member: %v", err)
	}
	return &member, nil
}

func (c *Connection) GetEnrollments(username string) ([]models.Enrollment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := c.db.QueryContext(ctx, `
		SELECT e.course_id, c.title, e.progress, e.enrolled_at
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.username = ?
		ORDER BY e.enrolled_at DESC
	`, username)
	if err != nil {
		return nil, fmt.Errorf("error querying enrollments: %v", err)
	}
	defer rows.Close()

	var enrollments []models.Enrollment
	for rows.Next() {
		var enrollment models.Enrollment
		if err := rows.Scan(&enrollment.CourseID, &enrollment.Title,
			&enrollment.Progress, &enrollment.EnrolledAt); err != nil {
			return nil, fmt.Errorf("error scanning enrollment: %v", err)
		}
		enrollments = append(enrollments, enrollment)
	}
	return enrollments, rows.Err()
}
