package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zetoun-labs/formations-api/internal/model"
)

const courseColumns = `id, title, description, date, location, duration, instructor,
	price, seats, level, image, created_at, updated_at`

// CourseRepository handles persistence for courses. It is the sole owner
// of the seats counter: the only write path that touches seats is
// ReserveSeat.
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{db: db}
}

func scanCourse(row pgx.Row) (*model.Course, error) {
	var c model.Course
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Date, &c.Location, &c.Duration,
		&c.Instructor, &c.Price, &c.Seats, &c.Level, &c.Image, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new course and returns it with a generated UUID.
func (r *CourseRepository) Create(ctx context.Context, req model.CreateCourseRequest) (*model.Course, error) {
	now := time.Now().UTC()
	course := &model.Course{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
		Duration:    req.Duration,
		Instructor:  req.Instructor,
		Price:       req.Price,
		Seats:       req.Seats,
		Level:       req.Level,
		Image:       req.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO courses (id, title, description, date, location, duration, instructor,
			price, seats, level, image, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		course.ID, course.Title, course.Description, course.Date, course.Location,
		course.Duration, course.Instructor, course.Price, course.Seats, course.Level,
		course.Image, course.CreatedAt, course.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert course: %w", err)
	}
	return course, nil
}

// List returns courses matching the filter ordered by date, plus the total
// match count for pagination.
func (r *CourseRepository) List(ctx context.Context, filter model.CourseFilter) ([]model.Course, int, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Level != "" {
		conds = append(conds, "level = "+arg(filter.Level))
	}
	if filter.Location != "" {
		conds = append(conds, "location ILIKE "+arg("%"+filter.Location+"%"))
	}
	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		conds = append(conds, fmt.Sprintf("(title ILIKE %s OR description ILIKE %s)", p, p))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM courses"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	query := "SELECT " + courseColumns + " FROM courses" + where +
		" ORDER BY date ASC LIMIT " + arg(filter.Limit) + " OFFSET " + arg(filter.Offset)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, *c)
	}
	return courses, total, rows.Err()
}

// GetByID returns a single course or ErrCourseNotFound.
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*model.Course, error) {
	course, err := scanCourse(r.db.QueryRow(ctx,
		"SELECT "+courseColumns+" FROM courses WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	return course, nil
}

// GetByIDs returns all existing courses among ids. Missing identifiers are
// simply absent from the result; callers compare lengths.
func (r *CourseRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Course, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+courseColumns+" FROM courses WHERE id = ANY($1)", ids)
	if err != nil {
		return nil, fmt.Errorf("get courses: %w", err)
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

// ReserveSeat consumes one seat from the course and returns the
// post-decrement state.
//
// The decrement and its guard are a single statement, so two concurrent
// reservations can never both pass the seats > 0 check on the same seat:
// the row is updated only if a seat remains at the moment the update
// executes, and the database serializes the competing updates. Reading
// seats first and writing afterwards would allow both callers to observe
// the same free seat.
//
// A failed reservation returns ErrNoSeats whether the course is sold out
// or gone; callers that need to distinguish re-fetch with GetByID.
func (r *CourseRepository) ReserveSeat(ctx context.Context, id string) (*model.Course, error) {
	course, err := scanCourse(r.db.QueryRow(ctx,
		`UPDATE courses
		 SET seats = seats - 1, updated_at = now()
		 WHERE id = $1 AND seats > 0
		 RETURNING `+courseColumns,
		id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoSeats
		}
		return nil, fmt.Errorf("reserve seat: %w", err)
	}
	return course, nil
}
