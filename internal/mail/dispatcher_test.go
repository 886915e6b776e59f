package mail

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Mock Transport
type mockTransport struct {
	mu   sync.Mutex
	sent []Message
	// failures makes the first N sends fail.
	failures int
	calls    int
}

func (m *mockTransport) Send(msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.calls <= m.failures {
		return errors.New("connection refused")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *mockTransport) last() Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

func newTestDispatcher(transport Transport) *Dispatcher {
	d := NewDispatcher(transport, "admin@zetounlabs.com", "https://www.zetounlabs.com", zap.NewNop())
	d.delay = time.Millisecond
	return d
}

func contactPayload() ContactPayload {
	return ContactPayload{
		Name:    "Alice Kalonji",
		Email:   "alice@example.com",
		Subject: "Formation Linux",
		Message: "Je souhaite m'inscrire à la prochaine session.",
	}
}

func TestSendAdminNotification(t *testing.T) {
	transport := &mockTransport{}
	d := newTestDispatcher(transport)

	if err := d.SendAdminNotification(context.Background(), contactPayload()); err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	msg := transport.last()
	if msg.To != "admin@zetounlabs.com" {
		t.Errorf("expected admin recipient, got %q", msg.To)
	}
	if !strings.Contains(msg.Subject, "Formation Linux") {
		t.Errorf("subject should carry the request subject: %q", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "alice@example.com") {
		t.Error("body should carry the sender address")
	}
}

func TestSendClientConfirmation(t *testing.T) {
	transport := &mockTransport{}
	d := newTestDispatcher(transport)

	if err := d.SendClientConfirmation(context.Background(), contactPayload()); err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	msg := transport.last()
	if msg.To != "alice@example.com" {
		t.Errorf("expected client recipient, got %q", msg.To)
	}
	if !strings.Contains(msg.HTML, "https://www.zetounlabs.com") {
		t.Error("body should carry the site link")
	}
}

func TestSend_EscapesHTML(t *testing.T) {
	transport := &mockTransport{}
	d := newTestDispatcher(transport)

	p := contactPayload()
	p.Message = `<script>alert("x")</script>`
	if err := d.SendAdminNotification(context.Background(), p); err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	body := transport.last().HTML
	if strings.Contains(body, "<script>") {
		t.Error("user input must not reach the body unescaped")
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Error("expected the payload to be HTML-escaped")
	}
}

func TestSendInvoiceConfirmation(t *testing.T) {
	transport := &mockTransport{}
	d := newTestDispatcher(transport)

	err := d.SendInvoiceConfirmation(context.Background(), InvoicePayload{
		Number:      "ZT260830154512042",
		ClientName:  "Alice Kalonji",
		ClientEmail: "alice@example.com",
		Lines: []InvoiceLine{
			NewInvoiceLine(1, "Administration Linux", 2, decimal.NewFromFloat(19.99)),
		},
		Total: decimal.NewFromFloat(39.98),
	})
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	msg := transport.last()
	if msg.To != "alice@example.com" {
		t.Errorf("expected client recipient, got %q", msg.To)
	}
	if !strings.Contains(msg.Subject, "ZT260830154512042") {
		t.Errorf("subject should carry the invoice number: %q", msg.Subject)
	}
	for _, want := range []string{"Administration Linux", "19.99", "39.98"} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestNewInvoiceLine(t *testing.T) {
	line := NewInvoiceLine(1, "Administration Linux", 3, decimal.NewFromFloat(19.99))
	if line.UnitPrice != "19.99" {
		t.Errorf("expected unit price 19.99, got %q", line.UnitPrice)
	}
	if line.LineTotal != "59.97" {
		t.Errorf("expected line total 59.97, got %q", line.LineTotal)
	}
}

func TestSendWithRetry_RecoversFromTransientFailure(t *testing.T) {
	transport := &mockTransport{failures: 2}
	d := newTestDispatcher(transport)

	if err := d.SendAdminNotification(context.Background(), contactPayload()); err != nil {
		t.Fatalf("expected third attempt to succeed, got error: %v", err)
	}
	if transport.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", transport.calls)
	}
}

func TestSendWithRetry_ExhaustsAttempts(t *testing.T) {
	transport := &mockTransport{failures: 10}
	d := newTestDispatcher(transport)

	err := d.SendAdminNotification(context.Background(), contactPayload())
	if err == nil {
		t.Fatal("expected error after attempt budget is spent")
	}
	if transport.calls != maxAttempts {
		t.Errorf("expected %d attempts, got %d", maxAttempts, transport.calls)
	}
}

func TestSendWithRetry_StopsOnCancelledContext(t *testing.T) {
	transport := &mockTransport{failures: 10}
	d := newTestDispatcher(transport)
	d.delay = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.SendAdminNotification(ctx, contactPayload())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got: %v", err)
	}
	if transport.calls != 1 {
		t.Errorf("expected a single attempt before bailing out, got %d", transport.calls)
	}
}
