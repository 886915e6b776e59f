package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zetoun-labs/formations-api/internal/model"
	"go.uber.org/zap"
)

// CourseService orchestrates course catalog operations.
type CourseService struct {
	courses CourseStore
	log     *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(courses CourseStore, log *zap.Logger) *CourseService {
	return &CourseService{courses: courses, log: log}
}

// Create validates the request and delegates to the repository.
func (s *CourseService) Create(ctx context.Context, req model.CreateCourseRequest) (*model.Course, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Location = strings.TrimSpace(req.Location)
	req.Instructor = strings.TrimSpace(req.Instructor)

	switch {
	case req.Title == "":
		return nil, fmt.Errorf("formation title is required")
	case req.Description == "":
		return nil, fmt.Errorf("formation description is required")
	case req.Date == "":
		return nil, fmt.Errorf("formation date is required")
	case req.Location == "":
		return nil, fmt.Errorf("formation location is required")
	case req.Duration == "":
		return nil, fmt.Errorf("formation duration is required")
	case req.Instructor == "":
		return nil, fmt.Errorf("formation instructor is required")
	case req.Price.LessThan(decimal.Zero):
		return nil, fmt.Errorf("price cannot be negative")
	case req.Seats < 0:
		return nil, fmt.Errorf("seats cannot be negative")
	case !model.ValidLevel(req.Level):
		return nil, fmt.Errorf("level must be one of: %s", strings.Join(model.Levels, ", "))
	}

	course, err := s.courses.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.log.Info("formation created",
		zap.String("formation_id", course.ID),
		zap.String("title", course.Title),
		zap.Int("seats", course.Seats),
	)
	return course, nil
}

// List returns courses matching the filter with pagination metadata.
func (s *CourseService) List(ctx context.Context, filter model.CourseFilter) ([]model.Course, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.courses.List(ctx, filter)
}

// Get returns a single course by ID.
func (s *CourseService) Get(ctx context.Context, id string) (*model.Course, error) {
	if id == "" {
		return nil, fmt.Errorf("formation id is required")
	}
	return s.courses.GetByID(ctx, id)
}
