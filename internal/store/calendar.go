// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"instaplan/internal/models"
)

// CalendarStore handles calendar event database operations.
type CalendarStore struct {
	db *sql.DB
}

// NewCalendarStore creates a new CalendarStore with the given database connection.
func NewCalendarStore(db *sql.DB) *CalendarStore {
	return &CalendarStore{db: db}
}

const calendarColumns = `id, title, date, type, status, post, created_at`

func scanCalendarEvent(scanner interface{ Scan(...any) error }) (*models.CalendarEvent, error) {
	var e models.CalendarEvent
	var post []byte
	err := scanner.Scan(&e.ID, &e.Title, &e.Date, &e.Type, &e.Status, &post, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(post, &e.Post); err != nil {
		return nil, fmt.Errorf("decode post: %w", err)
	}
	return &e, nil
}

// Create inserts an event. An empty status defaults to planned.
func (s *CalendarStore) Create(ctx context.Context, e *models.CalendarEvent) (*models.CalendarEvent, error) {
	if e.Status == "" {
		e.Status = models.EventStatusPlanned
	}

	post, err := json.Marshal(e.Post)
	if err != nil {
		return nil, fmt.Errorf("create calendar event: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO calendar_events (title, date, type, status, post)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+calendarColumns,
		e.Title, e.Date, e.Type, e.Status, post,
	)
	created, err := scanCalendarEvent(row)
	if err != nil {
		return nil, fmt.Errorf("create calendar event: %w", err)
	}
	return created, nil
}

// FindByID retrieves an event by ID. Returns (nil, nil) when missing.
func (s *CalendarStore) FindByID(ctx context.Context, id uuid.UUID) (*models.CalendarEvent, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+calendarColumns+` FROM calendar_events WHERE id = $1`, id)
	e, err := scanCalendarEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find calendar event by id: %w", err)
	}
	return e, nil
}

// ListBetween returns events with from <= date <= to, ordered by date.
func (s *CalendarStore) ListBetween(ctx context.Context, from, to time.Time) ([]models.CalendarEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+calendarColumns+`
		FROM calendar_events
		WHERE date >= $1 AND date <= $2
		ORDER BY date, created_at
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("list calendar events: %w", err)
	}
	defer rows.Close()

	events := []models.CalendarEvent{}
	for rows.Next() {
		e, err := scanCalendarEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan calendar event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// UpdateStatus sets the status of an event and returns the updated row,
// or (nil, nil) when the event does not exist.
func (s *CalendarStore) UpdateStatus(ctx context.Context, id uuid.UUID, status models.EventStatus) (*models.CalendarEvent, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("update calendar event status: invalid status %q", status)
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE calendar_events SET status = $1 WHERE id = $2
		RETURNING `+calendarColumns, status, id)
	e, err := scanCalendarEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update calendar event status: %w", err)
	}
	return e, nil
}

// Delete removes an event. Returns false when no row matched.
func (s *CalendarStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM calendar_events WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete calendar event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete calendar event: %w", err)
	}
	return n > 0, nil
}
