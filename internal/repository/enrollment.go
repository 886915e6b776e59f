package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zetoun-labs/formations-api/internal/model"
)

// EnrollmentRepository handles persistence for enrollments. It is the sole
// creator of enrollment rows; the unique (user_id, course_id) constraint
// guarantees at most one enrollment per pair even when concurrent requests
// slip past the application-level duplicate check.
type EnrollmentRepository struct {
	db *pgxpool.Pool
}

// NewEnrollmentRepository constructs an EnrollmentRepository.
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create inserts the enrollment, assigning it a UUID and timestamp.
// A duplicate (user, course) pair returns ErrAlreadyEnrolled.
func (r *EnrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	e.ID = uuid.New().String()

	err := r.db.QueryRow(ctx,
		`INSERT INTO enrollments (id, user_id, user_name, user_email,
			course_id, course_title, course_date, course_location, course_duration,
			course_instructor, course_price, course_seats, course_level)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING enrolled_at`,
		e.ID, e.UserID, e.UserName, e.UserEmail,
		e.CourseID, e.CourseTitle, e.CourseDate, e.CourseLocation, e.CourseDuration,
		e.CourseInstructor, e.CoursePrice, e.CourseSeats, e.CourseLevel,
	).Scan(&e.EnrolledAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyEnrolled
		}
		return fmt.Errorf("insert enrollment: %w", err)
	}
	return nil
}

// Exists reports whether the user already holds an enrollment for the course.
func (r *EnrollmentRepository) Exists(ctx context.Context, userID, courseID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM enrollments WHERE user_id = $1 AND course_id = $2)`,
		userID, courseID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return exists, nil
}

// ListByUser returns all enrollments held by a user, oldest first.
func (r *EnrollmentRepository) ListByUser(ctx context.Context, userID string) ([]model.Enrollment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, user_name, user_email,
			course_id, course_title, course_date, course_location, course_duration,
			course_instructor, course_price, course_seats, course_level, enrolled_at
		 FROM enrollments
		 WHERE user_id = $1
		 ORDER BY enrolled_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []model.Enrollment
	for rows.Next() {
		var e model.Enrollment
		err := rows.Scan(&e.ID, &e.UserID, &e.UserName, &e.UserEmail,
			&e.CourseID, &e.CourseTitle, &e.CourseDate, &e.CourseLocation, &e.CourseDuration,
			&e.CourseInstructor, &e.CoursePrice, &e.CourseSeats, &e.CourseLevel, &e.EnrolledAt)
		if err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}
