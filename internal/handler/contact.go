package handler

import (
	"net/http"

	"github.com/zetoun-labs/formations-api/internal/model"
	"github.com/zetoun-labs/formations-api/internal/service"
)

// ContactHandler holds the HTTP handler for the public contact form.
type ContactHandler struct {
	svc *service.ContactService
}

// NewContactHandler constructs a ContactHandler.
func NewContactHandler(svc *service.ContactService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

// Create handles POST /contact
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.ContactInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	req, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"data":    req,
		"message": "your message has been recorded, we will get back to you shortly",
	})
}
