package models

import "time"

type Review struct {
	ID        int       `json:"id" db:"id"`
	CourseID  int       `json:"course_id" db:"course_id"`
	Username  string    `json:"username" db:"username"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type ReviewRequest struct {
	CourseID int    `json:"course_id"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

// ReviewSummary is the aggregate shown on course detail pages.
type ReviewSummary struct {
	CourseID      int     `json:"course_id"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}
