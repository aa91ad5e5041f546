package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"learnhub-storefront-api/models"
)

func (c *Connection) CreateReview(review models.Review) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := c.db.ExecContext(ctx, `
		INSERT INTO reviews (course_id, username, rating, comment, created_at)
		VALUES (?, ?, ?, ?, NOW())
	`, review.CourseID, review.Username, review.Rating, review.Comment)
	if err != nil {
		return 0, fmt.Errorf("error inserting review: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("error reading review id: %v", err)
	}
	return int(id), nil
}

func (c *Connection) GetReviewsByCourse(courseID int) ([]models.Review, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := c.db.QueryContext(ctx, `
		SELECT id, course_id, username, rating, comment, created_at
		FROM reviews
		WHERE course_id = ?
		ORDER BY created_at DESC
	`, courseID)
	if err != nil {
		return nil, fmt.Errorf("error querying reviews: %v", err)
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var review models.Review
		if err := rows.Scan(&review.ID, &review.CourseID, &review.Username,
			&review.Rating, &review.Comment, &review.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning review: %v", err)
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (c *Connection) GetReviewSummary(courseID int) (models.ReviewSummary, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	summary := models.ReviewSummary{CourseID: courseID}

	var avg sql.NullFloat64
	err := c.db.QueryRowContext(ctx, `
		SELECT AVG(rating), COUNT(*) FROM reviews WHERE course_id = ?
	`, courseID).Scan(&avg, &summary.ReviewCount)
	if err != nil {
		return summary, fmt.Errorf("error aggregating reviews: %v", err)
	}
	if avg.Valid {
		summary.AverageRating = avg.Float64
	}
	return summary, nil
}

func (c *Connection) CountReviewsByMember(username string) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var count int
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reviews WHERE username = ?`, username).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting reviews: %v", err)
	}
	return count, nil
}
