package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/zetoun-labs/formations-api/internal/mail"
	"github.com/zetoun-labs/formations-api/internal/model"
	"github.com/zetoun-labs/formations-api/internal/repository"
	"go.uber.org/zap"
)

// ErrNoItems is returned when an invoice request carries no line-items.
var ErrNoItems = errors.New("invoice must contain at least one item")

// ErrNotInvoiceOwner is returned when a caller reads or mutates an invoice
// they do not own and is not an admin.
var ErrNotInvoiceOwner = errors.New("not authorized to access this invoice")

const invoiceDueDays = 30

// InvoiceStore is the slice of the invoice repository the assembler needs.
type InvoiceStore interface {
	Create(ctx context.Context, inv *model.Invoice) error
	NumberExists(ctx context.Context, number string) (bool, error)
	GetByID(ctx context.Context, id string) (*model.Invoice, error)
	ListByUser(ctx context.Context, userID string, status model.InvoiceStatus, limit, offset int) ([]model.Invoice, int, error)
	Update(ctx context.Context, inv *model.Invoice) error
}

// Enroller registers a user into a course; the invoice assembler drives it
// once per line-item.
type Enroller interface {
	Enroll(ctx context.Context, userID, courseID string) (*model.Enrollment, error)
}

// InvoiceNotifier delivers the invoice confirmation email.
type InvoiceNotifier interface {
	SendInvoiceConfirmation(ctx context.Context, p mail.InvoicePayload) error
}

// InvoiceService assembles invoices: it validates the cart, allocates a
// unique invoice number, computes totals, persists the invoice and then
// drives enrollment per line-item with partial-failure tolerance.
type InvoiceService struct {
	users    UserStore
	courses  CourseStore
	invoices InvoiceStore
	enroller Enroller
	notifier InvoiceNotifier
	log      *zap.Logger
}

// NewInvoiceService constructs an InvoiceService with its dependencies.
func NewInvoiceService(users UserStore, courses CourseStore, invoices InvoiceStore, enroller Enroller, notifier InvoiceNotifier, log *zap.Logger) *InvoiceService {
	return &InvoiceService{
		users:    users,
		courses:  courses,
		invoices: invoices,
		enroller: enroller,
		notifier: notifier,
		log:      log,
	}
}

// CreateInvoice validates the request, persists the invoice and attempts to
// enroll the user into each billed course.
//
// The invoice is the durable record of the purchase and is saved before any
// enrollment is attempted; a line-item whose enrollment fails (already
// enrolled, sold out, store error) is still billed. Already-enrolled items
// are skipped silently, other failures are logged, and processing always
// continues with the remaining items in submitted order. The result carries
// the enrollments that succeeded so the caller can reconcile.
func (s *InvoiceService) CreateInvoice(ctx context.Context, userID string, req model.CreateInvoiceRequest) (*model.InvoiceResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(req.Items) == 0 {
		return nil, ErrNoItems
	}

	s.log.Info("invoice creation started",
		zap.String("user_id", userID),
		zap.Int("items", len(req.Items)),
	)

	items, err := s.resolveItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	number, err := s.uniqueNumber(ctx)
	if err != nil {
		return nil, err
	}

	invoice := &model.Invoice{
		Number:        number,
		UserID:        user.ID,
		Status:        model.InvoiceStatusPending,
		Items:         items,
		Tax:           req.Tax,
		Discount:      req.Discount,
		ClientInfo:    clientInfoFor(user, req.ClientInfo),
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		DueDate:       time.Now().UTC().AddDate(0, 0, invoiceDueDays),
	}
	if invoice.PaymentMethod == "" {
		invoice.PaymentMethod = model.PaymentOther
	}
	if !model.ValidPaymentMethod(invoice.PaymentMethod) {
		return nil, fmt.Errorf("invalid payment method %q", invoice.PaymentMethod)
	}
	invoice.ComputeTotals()

	if err := s.invoices.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	enrollments := s.enrollItems(ctx, user.ID, invoice)

	s.log.Info("invoice created",
		zap.String("invoice_id", invoice.ID),
		zap.String("invoice_number", invoice.Number),
		zap.String("user_id", user.ID),
		zap.String("total", invoice.Total.StringFixed(2)),
		zap.Int("enrollments", len(enrollments)),
	)

	// Confirmation mail is detached from the response path: it runs in its
	// own goroutine on an uncancellable context, and a delivery failure is
	// logged, never surfaced.
	go s.notifyInvoice(context.WithoutCancel(ctx), invoice)

	return &model.InvoiceResult{Invoice: invoice, Enrollments: enrollments}, nil
}

// resolveItems checks every referenced course exists before any mutation
// and materializes the line-items, defaulting title and price from the
// course when the request omits them.
func (s *InvoiceService) resolveItems(ctx context.Context, reqs []model.InvoiceItemRequest) ([]model.InvoiceItem, error) {
	ids := make([]string, 0, len(reqs))
	for _, item := range reqs {
		if item.FormationID == "" {
			return nil, fmt.Errorf("every item requires a formationId")
		}
		ids = append(ids, item.FormationID)
	}

	courses, err := s.courses.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve formations: %w", err)
	}
	byID := make(map[string]model.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	var missing []string
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		s.log.Warn("invoice references unknown formations", zap.Strings("formation_ids", missing))
		return nil, fmt.Errorf("%w: %s", repository.ErrCourseNotFound, strings.Join(missing, ", "))
	}

	items := make([]model.InvoiceItem, 0, len(reqs))
	for _, req := range reqs {
		course := byID[req.FormationID]
		item := model.InvoiceItem{
			CourseID: course.ID,
			Title:    course.Title,
			Price:    course.Price,
			Quantity: 1,
		}
		if req.Title != "" {
			item.Title = req.Title
		}
		if req.Price != nil {
			item.Price = *req.Price
		}
		if req.Quantity > 0 {
			item.Quantity = req.Quantity
		}
		items = append(items, item)
	}
	return items, nil
}

// uniqueNumber generates invoice numbers until one is free. The identifier
// space (time to the second plus a 3-digit random suffix) makes collisions
// vanishingly rare; the probe loop is a safety net, not a transactional
// guarantee.
func (s *InvoiceService) uniqueNumber(ctx context.Context) (string, error) {
	for {
		number := generateInvoiceNumber()
		exists, err := s.invoices.NumberExists(ctx, number)
		if err != nil {
			return "", fmt.Errorf("check invoice number: %w", err)
		}
		if !exists {
			return number, nil
		}
	}
}

// generateInvoiceNumber builds a human-readable number from the current
// timestamp and a random suffix, e.g. ZT260830154512042.
func generateInvoiceNumber() string {
	return fmt.Sprintf("ZT%s%03d", time.Now().Format("060102150405"), rand.Intn(1000))
}

// enrollItems attempts one enrollment per line-item, in submitted order,
// isolating each item's failure from the rest and from the invoice itself.
func (s *InvoiceService) enrollItems(ctx context.Context, userID string, invoice *model.Invoice) []model.Enrollment {
	var enrollments []model.Enrollment
	for _, item := range invoice.Items {
		enrollment, err := s.enroller.Enroll(ctx, userID, item.CourseID)
		if err != nil {
			if errors.Is(err, repository.ErrAlreadyEnrolled) {
				continue
			}
			s.log.Error("enrollment failed for invoice item",
				zap.String("invoice_number", invoice.Number),
				zap.String("formation_id", item.CourseID),
				zap.Error(err),
			)
			continue
		}
		enrollments = append(enrollments, *enrollment)
	}
	return enrollments
}

func (s *InvoiceService) notifyInvoice(ctx context.Context, invoice *model.Invoice) {
	lines := make([]mail.InvoiceLine, 0, len(invoice.Items))
	for i, item := range invoice.Items {
		lines = append(lines, mail.NewInvoiceLine(i+1, item.Title, item.Quantity, item.Price))
	}
	err := s.notifier.SendInvoiceConfirmation(ctx, mail.InvoicePayload{
		Number:      invoice.Number,
		ClientName:  invoice.ClientInfo.Name,
		ClientEmail: invoice.ClientInfo.Email,
		Lines:       lines,
		Total:       invoice.Total,
	})
	if err != nil {
		s.log.Error("invoice confirmation email failed",
			zap.String("invoice_number", invoice.Number),
			zap.String("client_email", invoice.ClientInfo.Email),
			zap.Error(err),
		)
	}
}

// clientInfoFor fills the contact snapshot, defaulting name and email to
// the account's own.
func clientInfoFor(user *model.User, info model.ClientInfo) model.ClientInfo {
	if info.Name == "" {
		info.Name = user.Name
	}
	if info.Email == "" {
		info.Email = user.Email
	}
	return info
}

// ListForUser returns the user's invoices with pagination metadata.
func (s *InvoiceService) ListForUser(ctx context.Context, userID string, status model.InvoiceStatus, limit, offset int) ([]model.Invoice, int, error) {
	if status != "" && !model.ValidInvoiceStatus(status) {
		return nil, 0, fmt.Errorf("invalid invoice status %q", status)
	}
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return s.invoices.ListByUser(ctx, userID, status, limit, offset)
}

// Get returns an invoice if the caller owns it or is an admin.
func (s *InvoiceService) Get(ctx context.Context, invoiceID, callerID string) (*model.Invoice, error) {
	invoice, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, invoice, callerID); err != nil {
		return nil, err
	}
	return invoice, nil
}

// UpdateStatus applies a status transition and payment metadata to an
// invoice owned by the caller (or any invoice, for admins). Moving to paid
// stamps paidAt and the payment date; moving to cancelled stamps
// cancelledAt.
func (s *InvoiceService) UpdateStatus(ctx context.Context, invoiceID, callerID string, req model.UpdateInvoiceStatusRequest) (*model.Invoice, error) {
	invoice, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, invoice, callerID); err != nil {
		return nil, err
	}

	if req.Status != "" {
		if !model.ValidInvoiceStatus(req.Status) {
			return nil, fmt.Errorf("invalid invoice status %q", req.Status)
		}
		invoice.Status = req.Status
		now := time.Now().UTC()
		switch req.Status {
		case model.InvoiceStatusPaid:
			invoice.PaidAt = &now
			if req.PaymentDate != nil {
				invoice.PaymentDate = req.PaymentDate
			} else {
				invoice.PaymentDate = &now
			}
		case model.InvoiceStatusCancelled:
			invoice.CancelledAt = &now
		}
	}
	if req.PaymentMethod != "" {
		if !model.ValidPaymentMethod(req.PaymentMethod) {
			return nil, fmt.Errorf("invalid payment method %q", req.PaymentMethod)
		}
		invoice.PaymentMethod = req.PaymentMethod
	}
	if req.PaymentReference != "" {
		invoice.PaymentReference = req.PaymentReference
	}
	if req.PaymentDate != nil {
		invoice.PaymentDate = req.PaymentDate
	}

	if err := s.invoices.Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("update invoice: %w", err)
	}
	return invoice, nil
}

func (s *InvoiceService) authorize(ctx context.Context, invoice *model.Invoice, callerID string) error {
	if invoice.UserID == callerID {
		return nil
	}
	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return err
	}
	if caller.Role != model.RoleAdmin {
		return ErrNotInvoiceOwner
	}
	return nil
}
