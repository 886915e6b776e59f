package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
	InvoiceStatusRefunded  InvoiceStatus = "refunded"
)

// ValidInvoiceStatus reports whether s is a known invoice status.
func ValidInvoiceStatus(s InvoiceStatus) bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusCancelled, InvoiceStatusRefunded:
		return true
	}
	return false
}

// Payment methods accepted on invoices.
const (
	PaymentCash         = "cash"
	PaymentBankTransfer = "bank_transfer"
	PaymentMobileMoney  = "mobile_money"
	PaymentCard         = "card"
	PaymentOther        = "other"
)

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentBankTransfer, PaymentMobileMoney, PaymentCard, PaymentOther:
		return true
	}
	return false
}

// InvoiceItem is one course-and-quantity entry on an invoice.
// Immutable after the invoice is created.
type InvoiceItem struct {
	CourseID string          `json:"formationId"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Address is the postal part of the client contact snapshot.
type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

// ClientInfo is the contact snapshot frozen onto an invoice at creation.
type ClientInfo struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone,omitempty"`
	Address Address `json:"address"`
}

// Invoice aggregates one or more course purchases. Subtotal and Total are
// always recomputed from Items, Tax and Discount before persistence and
// never trusted from caller input.
type Invoice struct {
	ID               string          `json:"id"`
	Number           string          `json:"invoiceNumber"`
	UserID           string          `json:"user_id"`
	Status           InvoiceStatus   `json:"status"`
	Items            []InvoiceItem   `json:"items"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Tax              decimal.Decimal `json:"tax"`
	Discount         decimal.Decimal `json:"discount"`
	Total            decimal.Decimal `json:"total"`
	ClientInfo       ClientInfo      `json:"clientInfo"`
	PaymentMethod    string          `json:"paymentMethod"`
	PaymentDate      *time.Time      `json:"paymentDate,omitempty"`
	PaymentReference string          `json:"paymentReference,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	DueDate          time.Time       `json:"dueDate"`
	PaidAt           *time.Time      `json:"paidAt,omitempty"`
	CancelledAt      *time.Time      `json:"cancelledAt,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ComputeTotals recomputes Subtotal and Total from the current items,
// tax and discount.
func (inv *Invoice) ComputeTotals() {
	subtotal := decimal.Zero
	for _, item := range inv.Items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	inv.Subtotal = subtotal
	inv.Total = subtotal.Add(inv.Tax).Sub(inv.Discount)
}

// InvoiceItemRequest is one line-item in an invoice creation request.
// Title and Price are optional overrides; the referenced course supplies
// them when absent.
type InvoiceItemRequest struct {
	FormationID string           `json:"formationId"`
	Title       string           `json:"title"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    int              `json:"quantity"`
}

// CreateInvoiceRequest is the payload for creating an invoice.
type CreateInvoiceRequest struct {
	Items         []InvoiceItemRequest `json:"items"`
	ClientInfo    ClientInfo           `json:"clientInfo"`
	PaymentMethod string               `json:"paymentMethod"`
	Tax           decimal.Decimal      `json:"tax"`
	Discount      decimal.Decimal      `json:"discount"`
	Notes         string               `json:"notes"`
}

// UpdateInvoiceStatusRequest is the payload for invoice status transitions.
type UpdateInvoiceStatusRequest struct {
	Status           InvoiceStatus `json:"status"`
	PaymentMethod    string        `json:"paymentMethod"`
	PaymentReference string        `json:"paymentReference"`
	PaymentDate      *time.Time    `json:"paymentDate"`
}

// InvoiceResult is the outcome of invoice creation: the persisted invoice
// plus the enrollments that succeeded. Line-items whose enrollment failed
// are still billed; callers reconcile using Enrollments.
type InvoiceResult struct {
	Invoice     *Invoice     `json:"invoice"`
	Enrollments []Enrollment `json:"enrollments"`
}
