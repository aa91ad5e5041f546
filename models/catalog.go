package models

import "time"

// Kind values for CatalogItem
const (
	KindCourse  = "course"
	KindProduct = "product"
)

// Course difficulty levels, ordered from easiest to hardest
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

type Course struct {
	ID          int       `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Instructor  string    `json:"instructor" db:"instructor"`
	Category    string    `json:"category" db:"category"`
	Tags        []string  `json:"tags"`
	Level       string    `json:"level" db:"level"`
	Price       float64   `json:"price" db:"price"`
	Rating      float64   `json:"rating" db:"rating"`
	ReviewCount int       `json:"review_count" db:"review_count"`
	EnrollCount int       `json:"enroll_count" db:"enroll_count"`
	Image       string    `json:"image" db:"image"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type Product struct {
	ID          int                 `json:"id" db:"id"`
	Name        string              `json:"name" db:"name"`
	Description string              `json:"description" db:"description"`
	Category    string              `json:"category" db:"category"`
	Tags        []string            `json:"tags"`
	Price       float64             `json:"price" db:"price"`
	Stock       int                 `json:"stock" db:"stock"`
	IsInStock   bool                `json:"is_in_stock" db:"is_in_stock"`
	Rating      float64             `json:"rating" db:"rating"`
	ReviewCount int                 `json:"review_count" db:"review_count"`
	Image       string              `json:"image" db:"image"`
	Options     map[string][]string `json:"options,omitempty"`
	CreatedAt   time.Time           `json:"created_at" db:"created_at"`
}

// CatalogItem is the normalized read-only record the query and scoring layer
// works on. Courses and products are both projected into this shape so the
// search, sort and recommendation code does not care which kind it is.
type CatalogItem struct {
	ID          int       `json:"id"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Instructor  string    `json:"instructor,omitempty"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	Level       string    `json:"level,omitempty"`
	Price       float64   `json:"price"`
	Rating      float64   `json:"rating"`
	ReviewCount int       `json:"review_count"`
	EnrollCount int       `json:"enroll_count,omitempty"`
	Stock       int       `json:"stock,omitempty"`
	IsInStock   bool      `json:"is_in_stock"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
}

// CourseStock caps per-cart course quantities. Courses carry no physical
// inventory, so the cart's stock policy sees them as always available.
const CourseStock = 999

func (c Course) CatalogItem() CatalogItem {
	return CatalogItem{
		ID:          c.ID,
		Kind:        KindCourse,
		Title:       c.Title,
		Description: c.Description,
		Instructor:  c.Instructor,
		Category:    c.Category,
		Tags:        c.Tags,
		Level:       c.Level,
		Price:       c.Price,
		Rating:      c.Rating,
		ReviewCount: c.ReviewCount,
		EnrollCount: c.EnrollCount,
		Stock:       CourseStock,
		IsInStock:   true,
		Image:       c.Image,
		CreatedAt:   c.CreatedAt,
	}
}

func (p Product) CatalogItem() CatalogItem {
	return CatalogItem{
		ID:          p.ID,
		Kind:        KindProduct,
		Title:       p.Name,
		Description: p.Description,
		Category:    p.Category,
		Tags:        p.Tags,
		Price:       p.Price,
		Rating:      p.Rating,
		ReviewCount: p.ReviewCount,
		Stock:       p.Stock,
		IsInStock:   p.IsInStock,
		Image:       p.Image,
		CreatedAt:   p.CreatedAt,
	}
}

// LevelOrdinal maps a course level to its position on the difficulty scale.
// Unknown levels sit at the bottom.
func LevelOrdinal(level string) int {
	switch level {
	case LevelIntermediate:
		return 1
	case LevelAdvanced:
		return 2
	default:
		return 0
	}
}

// LevelRange is the distance between the easiest and hardest level.
const LevelRange = 2
