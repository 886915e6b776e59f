// Package repository implements all database queries for the formations
// backend. It uses pgx directly (no ORM) for transparency and performance.
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrUserNotFound is returned when a referenced user does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrCourseNotFound is returned when a referenced course does not exist.
var ErrCourseNotFound = errors.New("formation not found")

// ErrInvoiceNotFound is returned when a requested invoice does not exist.
var ErrInvoiceNotFound = errors.New("invoice not found")

// ErrNoSeats is returned when a seat reservation fails. The course may be
// sold out or deleted; callers disambiguate with a follow-up GetByID.
var ErrNoSeats = errors.New("no seats available")

// ErrAlreadyEnrolled is returned when a (user, course) pair already holds
// an enrollment.
var ErrAlreadyEnrolled = errors.New("already enrolled in this formation")

// ErrEmailTaken is returned when an account already exists for an email.
var ErrEmailTaken = errors.New("email already registered")

// isUniqueViolation reports whether err is a PostgreSQL unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
