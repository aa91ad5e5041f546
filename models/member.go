package models

import "time"

// AuthRequest representa uma requisição de autenticação
type AuthRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthUser representa um membro autenticado
type AuthUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	IsActive int    `json:"is_active"`
}

type AuthResponse struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         AuthUser  `json:"user"`
}

type Member struct {
	ID         int       `json:"id" db:"id"`
	Username   string    `json:"username" db:"username"`
	Email      string    `json:"email" db:"email"`
	Name       string    `json:"name" db:"name"`
	Passphrase string    `json:"-" db:"passphrase"`
	IsActive   int       `json:"is_active" db:"is_active"`
	JoinedAt   time.Time `json:"joined_at" db:"joined_at"`
}

type Enrollment struct {
	CourseID   int       `json:"course_id" db:"course_id"`
	Title      string    `json:"title" db:"title"`
	Progress   int       `json:"progress" db:"progress"`
	EnrolledAt time.Time `json:"enrolled_at" db:"enrolled_at"`
}

// DashboardResponse é o payload do painel do membro
type DashboardResponse struct {
	User         AuthUser     `json:"user"`
	JoinedAt     string       `json:"joined_at"`
	Enrollments  []Enrollment `json:"enrollments"`
	RecentOrders []Order      `json:"recent_orders"`
	ReviewCount  int          `json:"review_count"`
}
