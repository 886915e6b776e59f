package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zetoun-labs/formations-api/internal/model"
)

const invoiceColumns = `id, invoice_number, user_id, status,
	subtotal, tax, discount, total,
	client_name, client_email, client_phone,
	client_street, client_city, client_postal_code, client_country,
	payment_method, payment_date, payment_reference, notes,
	due_date, paid_at, cancelled_at, created_at, updated_at`

// InvoiceRepository handles persistence for invoices and their line-items.
type InvoiceRepository struct {
	db *pgxpool.Pool
}

// NewInvoiceRepository constructs an InvoiceRepository.
func NewInvoiceRepository(db *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create persists the invoice and its line-items in one transaction,
// assigning the invoice a UUID and timestamps.
func (r *InvoiceRepository) Create(ctx context.Context, inv *model.Invoice) error {
	inv.ID = uuid.New().String()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO invoices (id, invoice_number, user_id, status,
			subtotal, tax, discount, total,
			client_name, client_email, client_phone,
			client_street, client_city, client_postal_code, client_country,
			payment_method, payment_reference, notes, due_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19)
		 RETURNING created_at, updated_at`,
		inv.ID, inv.Number, inv.UserID, inv.Status,
		inv.Subtotal, inv.Tax, inv.Discount, inv.Total,
		inv.ClientInfo.Name, inv.ClientInfo.Email, inv.ClientInfo.Phone,
		inv.ClientInfo.Address.Street, inv.ClientInfo.Address.City,
		inv.ClientInfo.Address.PostalCode, inv.ClientInfo.Address.Country,
		inv.PaymentMethod, inv.PaymentReference, inv.Notes, inv.DueDate,
	).Scan(&inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}

	for i, item := range inv.Items {
		_, err = tx.Exec(ctx,
			`INSERT INTO invoice_items (invoice_id, position, course_id, title, price, quantity)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			inv.ID, i, item.CourseID, item.Title, item.Price, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert invoice item: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NumberExists reports whether an invoice already holds the given number.
func (r *InvoiceRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM invoices WHERE invoice_number = $1)`, number,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check invoice number: %w", err)
	}
	return exists, nil
}

func scanInvoice(row pgx.Row) (*model.Invoice, error) {
	var inv model.Invoice
	err := row.Scan(&inv.ID, &inv.Number, &inv.UserID, &inv.Status,
		&inv.Subtotal, &inv.Tax, &inv.Discount, &inv.Total,
		&inv.ClientInfo.Name, &inv.ClientInfo.Email, &inv.ClientInfo.Phone,
		&inv.ClientInfo.Address.Street, &inv.ClientInfo.Address.City,
		&inv.ClientInfo.Address.PostalCode, &inv.ClientInfo.Address.Country,
		&inv.PaymentMethod, &inv.PaymentDate, &inv.PaymentReference, &inv.Notes,
		&inv.DueDate, &inv.PaidAt, &inv.CancelledAt, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetByID returns a single invoice with its line-items, or ErrInvoiceNotFound.
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*model.Invoice, error) {
	inv, err := scanInvoice(r.db.QueryRow(ctx,
		"SELECT "+invoiceColumns+" FROM invoices WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}

	items, err := r.itemsFor(ctx, []string{inv.ID})
	if err != nil {
		return nil, err
	}
	inv.Items = items[inv.ID]
	return inv, nil
}

// ListByUser returns the user's invoices, newest first, optionally filtered
// by status, plus the total match count for pagination.
func (r *InvoiceRepository) ListByUser(ctx context.Context, userID string, status model.InvoiceStatus, limit, offset int) ([]model.Invoice, int, error) {
	where := "WHERE user_id = $1"
	args := []any{userID}
	if status != "" {
		where += " AND status = $2"
		args = append(args, status)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM invoices "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM invoices %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		invoiceColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []model.Invoice
	var ids []string
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, *inv)
		ids = append(ids, inv.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if len(ids) > 0 {
		items, err := r.itemsFor(ctx, ids)
		if err != nil {
			return nil, 0, err
		}
		for i := range invoices {
			invoices[i].Items = items[invoices[i].ID]
		}
	}
	return invoices, total, nil
}

// Update persists the mutable invoice fields: status, payment metadata and
// lifecycle timestamps. Line-items are immutable and not touched.
func (r *InvoiceRepository) Update(ctx context.Context, inv *model.Invoice) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE invoices
		 SET status = $2, payment_method = $3, payment_date = $4, payment_reference = $5,
			paid_at = $6, cancelled_at = $7, updated_at = now()
		 WHERE id = $1`,
		inv.ID, inv.Status, inv.PaymentMethod, inv.PaymentDate, inv.PaymentReference,
		inv.PaidAt, inv.CancelledAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}

// itemsFor loads line-items for the given invoice IDs, keyed by invoice ID
// and ordered by position.
func (r *InvoiceRepository) itemsFor(ctx context.Context, invoiceIDs []string) (map[string][]model.InvoiceItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT invoice_id, course_id, title, price, quantity
		 FROM invoice_items
		 WHERE invoice_id = ANY($1)
		 ORDER BY invoice_id, position`,
		invoiceIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()

	items := make(map[string][]model.InvoiceItem)
	for rows.Next() {
		var invoiceID string
		var item model.InvoiceItem
		if err := rows.Scan(&invoiceID, &item.CourseID, &item.Title, &item.Price, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		items[invoiceID] = append(items[invoiceID], item)
	}
	return items, rows.Err()
}
