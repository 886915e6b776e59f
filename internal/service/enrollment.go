// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/zetoun-labs/formations-api/internal/model"
	"github.com/zetoun-labs/formations-api/internal/repository"
	"go.uber.org/zap"
)

// UserStore is the slice of the user repository the services need.
type UserStore interface {
	Create(ctx context.Context, name, email, hashedPassword string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// CourseStore is the slice of the course repository the services need.
// ReserveSeat is the capacity store's atomic conditional decrement.
type CourseStore interface {
	Create(ctx context.Context, req model.CreateCourseRequest) (*model.Course, error)
	List(ctx context.Context, filter model.CourseFilter) ([]model.Course, int, error)
	GetByID(ctx context.Context, id string) (*model.Course, error)
	GetByIDs(ctx context.Context, ids []string) ([]model.Course, error)
	ReserveSeat(ctx context.Context, id string) (*model.Course, error)
}

// EnrollmentStore is the slice of the enrollment repository the services need.
type EnrollmentStore interface {
	Create(ctx context.Context, e *model.Enrollment) error
	Exists(ctx context.Context, userID, courseID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]model.Enrollment, error)
}

// EnrollmentService registers users into courses while guaranteeing a
// course is never oversold and a user never enrolls twice.
type EnrollmentService struct {
	users       UserStore
	courses     CourseStore
	enrollments EnrollmentStore
	log         *zap.Logger
}

// NewEnrollmentService constructs an EnrollmentService with its dependencies.
func NewEnrollmentService(users UserStore, courses CourseStore, enrollments EnrollmentStore, log *zap.Logger) *EnrollmentService {
	return &EnrollmentService{users: users, courses: courses, enrollments: enrollments, log: log}
}

// Enroll claims one seat in the course for the user and records the
// enrollment with a snapshot of the course at the moment of commitment.
//
// The seat is consumed through the capacity store's atomic conditional
// decrement, so concurrent callers racing for the last seat are serialized
// by the database: exactly one wins, the rest get ErrNoSeats. A failed
// reservation is re-fetched to distinguish a concurrently deleted course
// from a sold-out one. No seat is consumed on any failure path before the
// reservation.
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID string) (*model.Enrollment, error) {
	if courseID == "" {
		return nil, fmt.Errorf("formation id is required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	s.log.Info("enrollment attempt",
		zap.String("user_id", userID),
		zap.String("formation_id", courseID),
		zap.String("formation_title", course.Title),
	)

	exists, err := s.enrollments.Exists(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("check existing enrollment: %w", err)
	}
	if exists {
		s.log.Warn("user already enrolled",
			zap.String("user_id", userID),
			zap.String("formation_id", courseID),
		)
		return nil, repository.ErrAlreadyEnrolled
	}

	reserved, err := s.courses.ReserveSeat(ctx, courseID)
	if err != nil {
		if !errors.Is(err, repository.ErrNoSeats) {
			return nil, fmt.Errorf("reserve seat: %w", err)
		}
		// The guard failed: either the course vanished since the lookup
		// above or it is sold out. Re-fetch to report the precise reason.
		if _, getErr := s.courses.GetByID(ctx, courseID); getErr != nil {
			return nil, getErr
		}
		s.log.Warn("formation sold out",
			zap.String("formation_id", courseID),
			zap.String("formation_title", course.Title),
			zap.String("user_id", userID),
		)
		return nil, repository.ErrNoSeats
	}

	s.log.Info("seat reserved",
		zap.String("formation_id", reserved.ID),
		zap.Int("seats_remaining", reserved.Seats),
	)

	// The snapshot stores the seat count before the decrement, so the
	// record reflects capacity at the moment of commitment.
	enrollment := &model.Enrollment{
		UserID:           user.ID,
		UserName:         user.Name,
		UserEmail:        user.Email,
		CourseID:         reserved.ID,
		CourseTitle:      reserved.Title,
		CourseDate:       reserved.Date,
		CourseLocation:   reserved.Location,
		CourseDuration:   reserved.Duration,
		CourseInstructor: reserved.Instructor,
		CoursePrice:      reserved.Price,
		CourseSeats:      reserved.Seats + 1,
		CourseLevel:      reserved.Level,
	}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		if errors.Is(err, repository.ErrAlreadyEnrolled) {
			// A concurrent request won the race between the duplicate
			// check and the insert; the unique constraint is authoritative.
			return nil, repository.ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("create enrollment: %w", err)
	}

	s.log.Info("user enrolled",
		zap.String("user_id", user.ID),
		zap.String("formation_id", reserved.ID),
		zap.String("enrollment_id", enrollment.ID),
	)
	return enrollment, nil
}

// ListForUser returns all enrollments held by the user.
func (s *EnrollmentService) ListForUser(ctx context.Context, userID string) ([]model.Enrollment, error) {
	return s.enrollments.ListByUser(ctx, userID)
}
