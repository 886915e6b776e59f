package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zetoun-labs/formations-api/internal/model"
)

// ContactRepository handles persistence for contact form submissions.
type ContactRepository struct {
	db *pgxpool.Pool
}

// NewContactRepository constructs a ContactRepository.
func NewContactRepository(db *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create inserts a new contact request.
func (r *ContactRepository) Create(ctx context.Context, in model.ContactInput) (*model.ContactRequest, error) {
	req := &model.ContactRequest{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
		CreatedAt: time.Now().UTC(),
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO contact_requests (id, name, email, subject, message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		req.ID, req.Name, req.Email, req.Subject, req.Message, req.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert contact request: %w", err)
	}
	return req, nil
}
