package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/zetoun-labs/formations-api/internal/model"
	"github.com/zetoun-labs/formations-api/internal/repository"
	"github.com/zetoun-labs/formations-api/internal/service"
)

// InvoiceHandler holds the HTTP handlers for invoices.
type InvoiceHandler struct {
	svc *service.InvoiceService
}

// NewInvoiceHandler constructs an InvoiceHandler.
func NewInvoiceHandler(svc *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{svc: svc}
}

// Create handles POST /invoices
// Persists the invoice, then attempts one enrollment per line-item; the
// response carries the invoice plus the enrollments that succeeded.
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateInvoiceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.svc.CreateInvoice(r.Context(), UserID(r.Context()), req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		case errors.Is(err, repository.ErrCourseNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNoItems):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	if result.Enrollments == nil {
		result.Enrollments = []model.Enrollment{}
	}

	writeJSON(w, http.StatusCreated, result)
}

// List handles GET /invoices
// Returns the caller's invoices, optionally filtered by status.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := model.InvoiceStatus(q.Get("status"))
	limit := queryInt(q.Get("limit"), 10)
	offset := queryInt(q.Get("offset"), 0)

	invoices, total, err := h.svc.ListForUser(r.Context(), UserID(r.Context()), status, limit, offset)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if invoices == nil {
		invoices = []model.Invoice{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"invoices":   invoices,
		"pagination": paginate(total, limit, offset),
	})
}

// Get handles GET /invoices/{id}
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"), UserID(r.Context()))
	if err != nil {
		h.writeInvoiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, invoice)
}

// UpdateStatus handles PATCH /invoices/{id}/status
func (h *InvoiceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateInvoiceStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	invoice, err := h.svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), UserID(r.Context()), req)
	if err != nil {
		h.writeInvoiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, invoice)
}

func (h *InvoiceHandler) writeInvoiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrInvoiceNotFound):
		writeError(w, http.StatusNotFound, "invoice not found")
	case errors.Is(err, repository.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrNotInvoiceOwner):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}
