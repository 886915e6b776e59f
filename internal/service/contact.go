package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/zetoun-labs/formations-api/internal/mail"
	"github.com/zetoun-labs/formations-api/internal/model"
	"go.uber.org/zap"
)

// ContactStore is the slice of the contact repository the service needs.
type ContactStore interface {
	Create(ctx context.Context, in model.ContactInput) (*model.ContactRequest, error)
}

// ContactNotifier delivers the emails triggered by a contact request.
type ContactNotifier interface {
	SendAdminNotification(ctx context.Context, p mail.ContactPayload) error
	SendClientConfirmation(ctx context.Context, p mail.ContactPayload) error
}

// ContactService records contact form submissions and notifies both sides.
type ContactService struct {
	contacts ContactStore
	notifier ContactNotifier
	log      *zap.Logger
}

// NewContactService constructs a ContactService.
func NewContactService(contacts ContactStore, notifier ContactNotifier, log *zap.Logger) *ContactService {
	return &ContactService{contacts: contacts, notifier: notifier, log: log}
}

// Create persists the request and fires the admin notification and client
// confirmation emails. Both are detached from the response path; their
// failures are logged and never surfaced.
func (s *ContactService) Create(ctx context.Context, in model.ContactInput) (*model.ContactRequest, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Subject = strings.TrimSpace(in.Subject)
	switch {
	case in.Name == "":
		return nil, fmt.Errorf("name is required")
	case !isValidEmail(in.Email):
		return nil, fmt.Errorf("email is not a valid address")
	case in.Subject == "":
		return nil, fmt.Errorf("subject is required")
	case strings.TrimSpace(in.Message) == "":
		return nil, fmt.Errorf("message is required")
	}

	req, err := s.contacts.Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create contact request: %w", err)
	}

	s.log.Info("contact request recorded",
		zap.String("contact_id", req.ID),
		zap.String("email", req.Email),
	)

	payload := mail.ContactPayload{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}
	go func(ctx context.Context) {
		if err := s.notifier.SendAdminNotification(ctx, payload); err != nil {
			s.log.Warn("admin notification email failed", zap.Error(err))
		}
		if err := s.notifier.SendClientConfirmation(ctx, payload); err != nil {
			s.log.Warn("client confirmation email failed", zap.String("email", req.Email), zap.Error(err))
		}
	}(context.WithoutCancel(ctx))

	return req, nil
}
