package handler

import (
	"errors"
	"net/http"

	"github.com/zetoun-labs/formations-api/internal/model"
	"github.com/zetoun-labs/formations-api/internal/repository"
	"github.com/zetoun-labs/formations-api/internal/service"
)

// EnrollmentHandler holds the HTTP handlers for enrollments.
type EnrollmentHandler struct {
	svc *service.EnrollmentService
}

// NewEnrollmentHandler constructs an EnrollmentHandler.
func NewEnrollmentHandler(svc *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{svc: svc}
}

// Enroll handles POST /enrollments
// Claims one seat in the requested formation for the authenticated user.
func (h *EnrollmentHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	var req model.EnrollRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	enrollment, err := h.svc.Enroll(r.Context(), UserID(r.Context()), req.FormationID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		case errors.Is(err, repository.ErrCourseNotFound):
			writeError(w, http.StatusNotFound, "formation not found")
		case errors.Is(err, repository.ErrAlreadyEnrolled):
			writeError(w, http.StatusConflict, "you are already enrolled in this formation")
		case errors.Is(err, repository.ErrNoSeats):
			writeError(w, http.StatusConflict, "no seats available for this formation")
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, enrollment)
}

// List handles GET /enrollments
// Returns all enrollments held by the authenticated user.
func (h *EnrollmentHandler) List(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.svc.ListForUser(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list enrollments")
		return
	}
	if enrollments == nil {
		enrollments = []model.Enrollment{}
	}

	writeJSON(w, http.StatusOK, enrollments)
}
