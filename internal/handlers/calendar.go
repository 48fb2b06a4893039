// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"instaplan/internal/models"
)

// CalendarRepository persists calendar events. *store.CalendarStore
// implements it.
type CalendarRepository interface {
	Create(ctx context.Context, e *models.CalendarEvent) (*models.CalendarEvent, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]models.CalendarEvent, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.CalendarEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.EventStatus) (*models.CalendarEvent, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// Calendar serves the content calendar endpoints. A nil repository means
// the database is disabled.
type Calendar struct {
	repo     CalendarRepository
	validate *validator.Validate
	now      func() time.Time
}

// NewCalendar creates the calendar handlers. repo may be nil.
func NewCalendar(repo CalendarRepository) *Calendar {
	return &Calendar{repo: repo, validate: newValidator(), now: time.Now}
}

type createEventRequest struct {
	Title  string             `json:"title" validate:"required,max=300"`
	Date   time.Time          `json:"date" validate:"required"`
	Type   models.PostType    `json:"type" validate:"required,oneof=carousel reel static"`
	Status models.EventStatus `json:"status" validate:"omitempty,oneof=planned created posted"`
	Post   *models.PostIdea   `json:"post"`
}

type updateStatusRequest struct {
	Status models.EventStatus `json:"status" validate:"required,oneof=planned created posted"`
}

// Create handles POST /api/calendar/events. Status defaults to planned.
func (h *Calendar) Create(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		databaseUnavailable(w)
		return
	}

	var req createEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Title = strings.TrimSpace(req.Title)

	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", validationMessages(err))
		return
	}

	event := &models.CalendarEvent{
		Title:  req.Title,
		Date:   req.Date,
		Type:   req.Type,
		Status: req.Status,
	}
	if req.Post != nil {
		event.Post = *req.Post
	} else {
		event.Post = models.PostIdea{Type: req.Type, Title: req.Title}
	}

	created, err := h.repo.Create(r.Context(), event)
	if err != nil {
		slog.Error("create calendar event failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to schedule post", nil)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// List handles GET /api/calendar/events?from=&to=. Both bounds are
// inclusive; missing bounds default to the current month.
func (h *Calendar) List(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		databaseUnavailable(w)
		return
	}

	now := h.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	from, ok := parseTimeParam(w, r, "from", monthStart)
	if !ok {
		return
	}
	to, ok := parseTimeParam(w, r, "to", monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond))
	if !ok {
		return
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "from must not be after to", nil)
		return
	}

	events, err := h.repo.ListBetween(r.Context(), from, to)
	if err != nil {
		slog.Error("list calendar events failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load calendar", nil)
		return
	}
	if events == nil {
		events = []models.CalendarEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

// UpdateStatus handles PATCH /api/calendar/events/{id}.
func (h *Calendar) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		databaseUnavailable(w)
		return
	}

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req updateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", validationMessages(err))
		return
	}

	event, err := h.repo.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		slog.Error("update calendar event failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update event", nil)
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "Event not found", nil)
		return
	}

	slog.Info("calendar event status changed", "id", id, "status", event.Status)
	writeJSON(w, http.StatusOK, event)
}

// Get handles GET /api/calendar/events/{id}.
func (h *Calendar) Get(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		databaseUnavailable(w)
		return
	}

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	event, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find calendar event failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load event", nil)
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "Event not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// Delete handles DELETE /api/calendar/events/{id}.
func (h *Calendar) Delete(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		databaseUnavailable(w)
		return
	}

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	deleted, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		slog.Error("delete calendar event failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete event", nil)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Event not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseTimeParam reads an RFC 3339 timestamp or a bare date from the query
// string. Bare dates used as "to" cover the whole day.
func parseTimeParam(w http.ResponseWriter, r *http.Request, key string, fallback time.Time) (time.Time, bool) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback, true
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		if key == "to" {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		return t, true
	}
	writeError(w, http.StatusBadRequest, "Invalid "+key+" parameter", "expected RFC 3339 timestamp or YYYY-MM-DD")
	return time.Time{}, false
}
