package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	maxAttempts = 3
	retryDelay  = 2 * time.Second
)

// ContactPayload carries the fields of a contact-form submission into the
// admin notification and client confirmation emails.
type ContactPayload struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// InvoiceLine is one rendered row of the invoice confirmation table.
type InvoiceLine struct {
	Index     int
	Title     string
	Quantity  int
	UnitPrice string
	LineTotal string
}

// InvoicePayload carries an invoice summary into the confirmation email.
type InvoicePayload struct {
	Number      string
	ClientName  string
	ClientEmail string
	Lines       []InvoiceLine
	Total       decimal.Decimal
}

// NewInvoiceLine builds a rendered line from raw item values.
func NewInvoiceLine(index int, title string, quantity int, unitPrice decimal.Decimal) InvoiceLine {
	return InvoiceLine{
		Index:     index,
		Title:     title,
		Quantity:  quantity,
		UnitPrice: unitPrice.StringFixed(2),
		LineTotal: unitPrice.Mul(decimal.NewFromInt(int64(quantity))).StringFixed(2),
	}
}

// Dispatcher renders and delivers transactional emails with bounded
// retries. Delivery failure after all attempts is returned to the caller;
// every call site in this codebase treats that error as non-fatal (logged,
// never propagated to the business outcome).
type Dispatcher struct {
	transport   Transport
	adminEmail  string
	frontendURL string
	log         *zap.Logger

	attempts int
	delay    time.Duration
}

// NewDispatcher constructs a Dispatcher with the default retry policy.
func NewDispatcher(transport Transport, adminEmail, frontendURL string, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		transport:   transport,
		adminEmail:  adminEmail,
		frontendURL: frontendURL,
		log:         log,
		attempts:    maxAttempts,
		delay:       retryDelay,
	}
}

// SendAdminNotification alerts the admin address about a new contact request.
func (d *Dispatcher) SendAdminNotification(ctx context.Context, p ContactPayload) error {
	body, err := render(adminNotificationTmpl, struct {
		ContactPayload
	}{p})
	if err != nil {
		return err
	}
	return d.sendWithRetry(ctx, Message{
		To:      d.adminEmail,
		Subject: fmt.Sprintf("[Nouvelle Demande Client] %s - %s", p.Subject, p.Name),
		HTML:    body,
	})
}

// SendClientConfirmation acknowledges a contact request to its author.
func (d *Dispatcher) SendClientConfirmation(ctx context.Context, p ContactPayload) error {
	body, err := render(clientConfirmationTmpl, struct {
		ContactPayload
		FrontendURL string
	}{p, d.frontendURL})
	if err != nil {
		return err
	}
	return d.sendWithRetry(ctx, Message{
		To:      p.Email,
		Subject: "Votre demande a été reçue - Zetoun Labs",
		HTML:    body,
	})
}

// SendInvoiceConfirmation sends the invoice summary to the billed client.
func (d *Dispatcher) SendInvoiceConfirmation(ctx context.Context, p InvoicePayload) error {
	body, err := render(invoiceConfirmationTmpl, struct {
		Number      string
		ClientName  string
		Lines       []InvoiceLine
		Total       string
		FrontendURL string
	}{p.Number, p.ClientName, p.Lines, p.Total.StringFixed(2), d.frontendURL})
	if err != nil {
		return err
	}
	return d.sendWithRetry(ctx, Message{
		To:      p.ClientEmail,
		Subject: fmt.Sprintf("Facture %s - Zetoun Labs", p.Number),
		HTML:    body,
	})
}

// sendWithRetry submits the message, retrying with linear backoff
// (delay × attempt index) until the attempt budget is exhausted.
func (d *Dispatcher) sendWithRetry(ctx context.Context, m Message) error {
	var lastErr error
	for attempt := 1; attempt <= d.attempts; attempt++ {
		lastErr = d.transport.Send(m)
		if lastErr == nil {
			return nil
		}
		d.log.Warn("email delivery attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", d.attempts),
			zap.String("to", m.To),
			zap.Error(lastErr),
		)
		if attempt < d.attempts {
			select {
			case <-time.After(d.delay * time.Duration(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("send email to %s: %w", m.To, lastErr)
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
