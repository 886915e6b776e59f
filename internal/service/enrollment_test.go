package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/zetoun-labs/formations-api/internal/model"
	"github.com/zetoun-labs/formations-api/internal/repository"
	"go.uber.org/zap"
)

// Mock UserStore
type mockUserStore struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newMockUserStore(users ...*model.User) *mockUserStore {
	m := &mockUserStore{users: make(map[string]*model.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserStore) Create(ctx context.Context, name, email, hashedPassword string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return nil, repository.ErrEmailTaken
		}
	}
	id := "user-" + strconv.Itoa(len(m.users)+1)
	u := &model.User{ID: id, Name: name, Email: email, Password: hashedPassword, Role: model.RoleUser}
	m.users[id] = u
	return u, nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// Mock CourseStore
type mockCourseStore struct {
	mu      sync.Mutex
	courses map[string]*model.Course
}

func newMockCourseStore(courses ...*model.Course) *mockCourseStore {
	m := &mockCourseStore{courses: make(map[string]*model.Course)}
	for _, c := range courses {
		m.courses[c.ID] = c
	}
	return m
}

func (m *mockCourseStore) Create(ctx context.Context, req model.CreateCourseRequest) (*model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := &model.Course{
		ID:    "course-" + strconv.Itoa(len(m.courses)+1),
		Title: req.Title, Price: req.Price, Seats: req.Seats, Level: req.Level,
	}
	m.courses[c.ID] = c
	return c, nil
}

func (m *mockCourseStore) List(ctx context.Context, filter model.CourseFilter) ([]model.Course, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Course, 0, len(m.courses))
	for _, c := range m.courses {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (m *mockCourseStore) GetByID(ctx context.Context, id string) (*model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[id]
	if !ok {
		return nil, repository.ErrCourseNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *mockCourseStore) GetByIDs(ctx context.Context, ids []string) ([]model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Course
	for _, id := range ids {
		if c, ok := m.courses[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockCourseStore) ReserveSeat(ctx context.Context, id string) (*model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[id]
	if !ok || c.Seats <= 0 {
		return nil, repository.ErrNoSeats
	}
	c.Seats--
	cp := *c
	return &cp, nil
}

func (m *mockCourseStore) seats(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.courses[id].Seats
}

// Mock EnrollmentStore
type mockEnrollmentStore struct {
	mu          sync.Mutex
	enrollments map[string]*model.Enrollment // keyed userID/courseID
	// hideExisting makes Exists always report false, forcing the unique
	// constraint in Create to be the only duplicate guard.
	hideExisting bool
}

func newMockEnrollmentStore() *mockEnrollmentStore {
	return &mockEnrollmentStore{enrollments: make(map[string]*model.Enrollment)}
}

func enrollmentKey(userID, courseID string) string {
	return userID + "/" + courseID
}

func (m *mockEnrollmentStore) Create(ctx context.Context, e *model.Enrollment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := enrollmentKey(e.UserID, e.CourseID)
	if _, ok := m.enrollments[key]; ok {
		return repository.ErrAlreadyEnrolled
	}
	e.ID = "enrollment-" + strconv.Itoa(len(m.enrollments)+1)
	cp := *e
	m.enrollments[key] = &cp
	return nil
}

func (m *mockEnrollmentStore) Exists(ctx context.Context, userID, courseID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hideExisting {
		return false, nil
	}
	_, ok := m.enrollments[enrollmentKey(userID, courseID)]
	return ok, nil
}

func (m *mockEnrollmentStore) ListByUser(ctx context.Context, userID string) ([]model.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Enrollment
	for _, e := range m.enrollments {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func testUser() *model.User {
	return &model.User{ID: "user-1", Name: "Alice Kalonji", Email: "alice@example.com", Role: model.RoleUser}
}

func testCourse(seats int) *model.Course {
	return &model.Course{
		ID:         "course-1",
		Title:      "Administration Linux",
		Date:       "2026-10-12",
		Location:   "Kinshasa",
		Duration:   "5 jours",
		Instructor: "J. Mbuyi",
		Price:      decimal.NewFromInt(250),
		Seats:      seats,
		Level:      model.LevelIntermediate,
	}
}

func TestEnroll_Success(t *testing.T) {
	users := newMockUserStore(testUser())
	courses := newMockCourseStore(testCourse(5))
	enrollments := newMockEnrollmentStore()
	svc := NewEnrollmentService(users, courses, enrollments, zap.NewNop())

	enrollment, err := svc.Enroll(context.Background(), "user-1", "course-1")
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	if enrollment.ID == "" {
		t.Error("expected enrollment to be assigned an id")
	}
	// The snapshot records the seat count before the decrement.
	if enrollment.CourseSeats != 5 {
		t.Errorf("expected snapshot seats 5, got %d", enrollment.CourseSeats)
	}
	if enrollment.CourseTitle != "Administration Linux" {
		t.Errorf("unexpected snapshot title: %q", enrollment.CourseTitle)
	}
	if enrollment.UserEmail != "alice@example.com" {
		t.Errorf("unexpected snapshot email: %q", enrollment.UserEmail)
	}
	if got := courses.seats("course-1"); got != 4 {
		t.Errorf("expected 4 seats remaining, got %d", got)
	}
}

func TestEnroll_AlreadyEnrolled(t *testing.T) {
	users := newMockUserStore(testUser())
	courses := newMockCourseStore(testCourse(5))
	enrollments := newMockEnrollmentStore()
	svc := NewEnrollmentService(users, courses, enrollments, zap.NewNop())

	if _, err := svc.Enroll(context.Background(), "user-1", "course-1"); err != nil {
		t.Fatalf("first enrollment failed: %v", err)
	}

	_, err := svc.Enroll(context.Background(), "user-1", "course-1")
	if !errors.Is(err, repository.ErrAlreadyEnrolled) {
		t.Errorf("expected ErrAlreadyEnrolled, got: %v", err)
	}

	// The duplicate attempt must not consume a seat.
	if got := courses.seats("course-1"); got != 4 {
		t.Errorf("expected 4 seats remaining, got %d", got)
	}
}

func TestEnroll_DuplicateRace(t *testing.T) {
	users := newMockUserStore(testUser())
	courses := newMockCourseStore(testCourse(5))
	enrollments := newMockEnrollmentStore()
	enrollments.hideExisting = true
	svc := NewEnrollmentService(users, courses, enrollments, zap.NewNop())

	if _, err := svc.Enroll(context.Background(), "user-1", "course-1"); err != nil {
		t.Fatalf("first enrollment failed: %v", err)
	}

	// The pre-check misses the existing row; the unique constraint on the
	// insert is the authoritative guard.
	_, err := svc.Enroll(context.Background(), "user-1", "course-1")
	if !errors.Is(err, repository.ErrAlreadyEnrolled) {
		t.Errorf("expected ErrAlreadyEnrolled, got: %v", err)
	}
}

func TestEnroll_SoldOut(t *testing.T) {
	users := newMockUserStore(testUser())
	courses := newMockCourseStore(testCourse(0))
	enrollments := newMockEnrollmentStore()
	svc := NewEnrollmentService(users, courses, enrollments, zap.NewNop())

	_, err := svc.Enroll(context.Background(), "user-1", "course-1")
	if !errors.Is(err, repository.ErrNoSeats) {
		t.Errorf("expected ErrNoSeats, got: %v", err)
	}
}

func TestEnroll_CourseNotFound(t *testing.T) {
	users := newMockUserStore(testUser())
	courses := newMockCourseStore()
	enrollments := newMockEnrollmentStore()
	svc := NewEnrollmentService(users, courses, enrollments, zap.NewNop())

	_, err := svc.Enroll(context.Background(), "user-1", "missing")
	if !errors.Is(err, repository.ErrCourseNotFound) {
		t.Errorf("expected ErrCourseNotFound, got: %v", err)
	}
}

func TestEnroll_UserNotFound(t *testing.T) {
	users := newMockUserStore()
	courses := newMockCourseStore(testCourse(5))
	enrollments := newMockEnrollmentStore()
	svc := NewEnrollmentService(users, courses, enrollments, zap.NewNop())

	_, err := svc.Enroll(context.Background(), "ghost", "course-1")
	if !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got: %v", err)
	}
}

func TestEnroll_MissingCourseID(t *testing.T) {
	svc := NewEnrollmentService(newMockUserStore(testUser()), newMockCourseStore(), newMockEnrollmentStore(), zap.NewNop())

	if _, err := svc.Enroll(context.Background(), "user-1", ""); err == nil {
		t.Error("expected error for empty formation id")
	}
}

func TestEnroll_LastSeatRace(t *testing.T) {
	alice := testUser()
	bob := &model.User{ID: "user-2", Name: "Bob Ilunga", Email: "bob@example.com", Role: model.RoleUser}
	users := newMockUserStore(alice, bob)
	courses := newMockCourseStore(testCourse(1))
	enrollments := newMockEnrollmentStore()
	svc := NewEnrollmentService(users, courses, enrollments, zap.NewNop())

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, userID := range []string{"user-1", "user-2"} {
		wg.Add(1)
		go func(i int, userID string) {
			defer wg.Done()
			_, errs[i] = svc.Enroll(context.Background(), userID, "course-1")
		}(i, userID)
	}
	wg.Wait()

	var wins, soldOut int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, repository.ErrNoSeats):
			soldOut++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 || soldOut != 1 {
		t.Errorf("expected exactly 1 winner and 1 sold-out, got %d/%d", wins, soldOut)
	}
	if got := courses.seats("course-1"); got != 0 {
		t.Errorf("expected 0 seats remaining, got %d", got)
	}
}

func TestEnroll_NeverOversells(t *testing.T) {
	const seats = 5
	const contenders = 20

	var accounts []*model.User
	for i := 0; i < contenders; i++ {
		id := fmt.Sprintf("user-%d", i)
		accounts = append(accounts, &model.User{ID: id, Name: "User " + id, Email: id + "@example.com", Role: model.RoleUser})
	}
	users := newMockUserStore(accounts...)
	courses := newMockCourseStore(testCourse(seats))
	enrollments := newMockEnrollmentStore()
	svc := NewEnrollmentService(users, courses, enrollments, zap.NewNop())

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Enroll(context.Background(), accounts[i].ID, "course-1")
		}(i)
	}
	wg.Wait()

	var wins int
	for _, err := range errs {
		if err == nil {
			wins++
		} else if !errors.Is(err, repository.ErrNoSeats) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != seats {
		t.Errorf("expected exactly %d enrollments, got %d", seats, wins)
	}
	if got := courses.seats("course-1"); got != 0 {
		t.Errorf("expected 0 seats remaining, got %d", got)
	}
}
