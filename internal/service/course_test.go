package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/zetoun-labs/formations-api/internal/model"
	"go.uber.org/zap"
)

func validCourseRequest() model.CreateCourseRequest {
	return model.CreateCourseRequest{
		Title:       "Administration Linux",
		Description: "Installation, configuration et maintenance de serveurs Linux.",
		Date:        "2026-10-12",
		Location:    "Kinshasa",
		Duration:    "5 jours",
		Instructor:  "J. Mbuyi",
		Price:       decimal.NewFromInt(250),
		Seats:       12,
		Level:       model.LevelIntermediate,
	}
}

func TestCreateCourse_Success(t *testing.T) {
	svc := NewCourseService(newMockCourseStore(), zap.NewNop())

	course, err := svc.Create(context.Background(), validCourseRequest())
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if course.ID == "" {
		t.Error("expected course to be assigned an id")
	}
	if course.Seats != 12 {
		t.Errorf("expected 12 seats, got %d", course.Seats)
	}
}

func TestCreateCourse_Validation(t *testing.T) {
	svc := NewCourseService(newMockCourseStore(), zap.NewNop())

	cases := []struct {
		name   string
		mutate func(*model.CreateCourseRequest)
	}{
		{"missing title", func(r *model.CreateCourseRequest) { r.Title = "  " }},
		{"missing description", func(r *model.CreateCourseRequest) { r.Description = "" }},
		{"missing date", func(r *model.CreateCourseRequest) { r.Date = "" }},
		{"missing location", func(r *model.CreateCourseRequest) { r.Location = "" }},
		{"missing duration", func(r *model.CreateCourseRequest) { r.Duration = "" }},
		{"missing instructor", func(r *model.CreateCourseRequest) { r.Instructor = "" }},
		{"negative price", func(r *model.CreateCourseRequest) { r.Price = decimal.NewFromInt(-1) }},
		{"negative seats", func(r *model.CreateCourseRequest) { r.Seats = -1 }},
		{"unknown level", func(r *model.CreateCourseRequest) { r.Level = "Expert" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCourseRequest()
			tc.mutate(&req)
			if _, err := svc.Create(context.Background(), req); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestListCourses_DefaultLimit(t *testing.T) {
	store := newMockCourseStore(testCourse(5))
	svc := NewCourseService(store, zap.NewNop())

	courses, total, err := svc.List(context.Background(), model.CourseFilter{Limit: 0, Offset: -3})
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if total != 1 || len(courses) != 1 {
		t.Errorf("expected 1 course, got %d (total %d)", len(courses), total)
	}
}
