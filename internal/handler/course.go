package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/zetoun-labs/formations-api/internal/model"
	"github.com/zetoun-labs/formations-api/internal/repository"
	"github.com/zetoun-labs/formations-api/internal/service"
)

// CourseHandler holds the HTTP handlers for the course catalog.
type CourseHandler struct {
	svc *service.CourseService
}

// NewCourseHandler constructs a CourseHandler.
func NewCourseHandler(svc *service.CourseService) *CourseHandler {
	return &CourseHandler{svc: svc}
}

// Create handles POST /formations
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCourseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	course, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, course)
}

// List handles GET /formations
// Supports level, location and search filters plus limit/offset pagination.
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.CourseFilter{
		Level:    q.Get("level"),
		Location: q.Get("location"),
		Search:   q.Get("search"),
		Limit:    queryInt(q.Get("limit"), 10),
		Offset:   queryInt(q.Get("offset"), 0),
	}

	courses, total, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list formations")
		return
	}
	if courses == nil {
		courses = []model.Course{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"formations": courses,
		"pagination": paginate(total, filter.Limit, filter.Offset),
	})
}

// Get handles GET /formations/{id}
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	course, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			writeError(w, http.StatusNotFound, "formation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get formation")
		return
	}

	writeJSON(w, http.StatusOK, course)
}

func queryInt(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func paginate(total, limit, offset int) model.Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return model.Pagination{Total: total, Limit: limit, Offset: offset, Pages: pages}
}
