// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test doubles for the handler tests.
// Integration tests against PostgreSQL skip when the database is unreachable.
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"instaplan/internal/database"
	"instaplan/internal/models"
)

// memCampaigns is an in-memory CampaignRepository.
type memCampaigns struct {
	mu    sync.Mutex
	items []models.Campaign
	err   error
}

func (m *memCampaigns) Create(_ context.Context, c *models.Campaign) (*models.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	saved := *c
	saved.ID = uuid.New()
	saved.CreatedAt = time.Now().UTC()
	m.items = append(m.items, saved)
	return &saved, nil
}

func (m *memCampaigns) FindByID(_ context.Context, id uuid.UUID) (*models.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, c := range m.items {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memCampaigns) List(_ context.Context, limit, offset int) ([]models.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	// Newest first, like the SQL store.
	var out []models.Campaign
	for i := len(m.items) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.items[i])
	}
	return out, nil
}

func (m *memCampaigns) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items), m.err
}

// memCalendar is an in-memory CalendarRepository.
type memCalendar struct {
	mu     sync.Mutex
	events map[uuid.UUID]models.CalendarEvent
	from   time.Time
	to     time.Time
}

func newMemCalendar() *memCalendar {
	return &memCalendar{events: make(map[uuid.UUID]models.CalendarEvent)}
}

func (m *memCalendar) Create(_ context.Context, e *models.CalendarEvent) (*models.CalendarEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := *e
	saved.ID = uuid.New()
	if saved.Status == "" {
		saved.Status = models.EventStatusPlanned
	}
	saved.CreatedAt = time.Now().UTC()
	m.events[saved.ID] = saved
	return &saved, nil
}

func (m *memCalendar) ListBetween(_ context.Context, from, to time.Time) ([]models.CalendarEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.from, m.to = from, to
	var out []models.CalendarEvent
	for _, e := range m.events {
		if !e.Date.Before(from) && !e.Date.After(to) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *memCalendar) FindByID(_ context.Context, id uuid.UUID) (*models.CalendarEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *memCalendar) UpdateStatus(_ context.Context, id uuid.UUID, status models.EventStatus) (*models.CalendarEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, nil
	}
	e.Status = status
	m.events[id] = e
	return &e, nil
}

func (m *memCalendar) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return false, nil
	}
	delete(m.events, id)
	return true, nil
}

var errStore = errors.New("connection reset by peer")

// jsonRequest builds a request with a JSON body.
func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeError decodes an error response body.
func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v (raw %q)", err, rec.Body.String())
	}
	return body
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "postgres://" + envOr("POSTGRES_USER", "instaplan") + ":" + envOr("POSTGRES_PASSWORD", "changeme") +
		"@" + envOr("POSTGRES_HOST", "localhost") + ":" + envOr("POSTGRES_PORT", "5432") +
		"/" + envOr("POSTGRES_DB", "instaplan") + "?sslmode=disable"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, dsn)
	if err != nil {
		t.Skipf("skipping: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}
