// Package model defines the core domain types for the formations backend.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Course levels as presented on the site.
const (
	LevelBeginner     = "Débutant"
	LevelIntermediate = "Intermédiaire"
	LevelAdvanced     = "Avancé"
)

// Levels lists the accepted course levels.
var Levels = []string{LevelBeginner, LevelIntermediate, LevelAdvanced}

// ValidLevel reports whether level is one of the accepted course levels.
func ValidLevel(level string) bool {
	for _, l := range Levels {
		if l == level {
			return true
		}
	}
	return false
}

// Course represents a formation with a finite number of seats.
// Seats is the only concurrency-sensitive field; it is decremented
// exclusively through CourseRepository.ReserveSeat.
type Course struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	Location    string          `json:"location"`
	Duration    string          `json:"duration"`
	Instructor  string          `json:"instructor"`
	Price       decimal.Decimal `json:"price"`
	Seats       int             `json:"seats"`
	Level       string          `json:"level"`
	Image       string          `json:"image,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// SoldOut returns true when no seats remain.
func (c *Course) SoldOut() bool {
	return c.Seats <= 0
}

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account able to enroll in courses and purchase invoices.
// Password holds the bcrypt hash and is never serialized.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Enrollment records that a user claimed a seat in a course. Course fields
// are denormalized at enrollment time so the record reflects point-in-time
// truth even if the course changes later. CourseSeats is the seat count
// before the decrement that this enrollment consumed.
type Enrollment struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	UserName         string          `json:"user_name"`
	UserEmail        string          `json:"user_email"`
	CourseID         string          `json:"formation_id"`
	CourseTitle      string          `json:"formation_title"`
	CourseDate       string          `json:"formation_date"`
	CourseLocation   string          `json:"formation_location"`
	CourseDuration   string          `json:"formation_duration"`
	CourseInstructor string          `json:"formation_instructor"`
	CoursePrice      decimal.Decimal `json:"formation_price"`
	CourseSeats      int             `json:"formation_seats"`
	CourseLevel      string          `json:"formation_level"`
	EnrolledAt       time.Time       `json:"enrolled_at"`
}

// ContactRequest is a message submitted through the public contact form.
type ContactRequest struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ─── Request / response payloads ─────────────────────────────────────────────

// SignupRequest is the payload for creating an account.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload for obtaining a token.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the issued token alongside the account.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// CreateCourseRequest is the payload for creating a formation.
type CreateCourseRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	Location    string          `json:"location"`
	Duration    string          `json:"duration"`
	Instructor  string          `json:"instructor"`
	Price       decimal.Decimal `json:"price"`
	Seats       int             `json:"seats"`
	Level       string          `json:"level"`
	Image       string          `json:"image"`
}

// CourseFilter narrows course listings.
type CourseFilter struct {
	Level    string
	Location string
	Search   string
	Limit    int
	Offset   int
}

// EnrollRequest is the payload for claiming a seat.
type EnrollRequest struct {
	FormationID string `json:"formationId"`
}

// ContactInput is the payload for the contact form.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Pagination echoes list paging back to the client.
type Pagination struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Pages  int `json:"pages"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
