// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"instaplan/internal/models"
)

// Pagination defaults for GET /api/campaigns.
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// defaultNameLen bounds a campaign name derived from its description.
const defaultNameLen = 60

// CampaignRepository persists campaigns. *store.CampaignStore implements it.
type CampaignRepository interface {
	Create(ctx context.Context, c *models.Campaign) (*models.Campaign, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
	List(ctx context.Context, limit, offset int) ([]models.Campaign, error)
	Count(ctx context.Context) (int, error)
}

// Campaigns serves the saved-campaign endpoints. A nil repository means the
// database is disabled and every request gets a 503.
type Campaigns struct {
	repo     CampaignRepository
	validate *validator.Validate
}

// NewCampaigns creates the campaign handlers. repo may be nil.
func NewCampaigns(repo CampaignRepository) *Campaigns {
	return &Campaigns{repo: repo, validate: newValidator()}
}

type createCampaignRequest struct {
	Name               string            `json:"name" validate:"max=200"`
	ProductDescription string            `json:"productDescription" validate:"required,max=2000"`
	TargetAudience     string            `json:"targetAudience" validate:"required,max=500"`
	ContentPlan        string            `json:"contentPlan"`
	Posts              []models.PostIdea `json:"posts" validate:"required,min=1,dive"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

type campaignPage struct {
	Data       []models.Campaign `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

// Create handles POST /api/campaigns.
func (h *Campaigns) Create(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		databaseUnavailable(w)
		return
	}

	var req createCampaignRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.ProductDescription = strings.TrimSpace(req.ProductDescription)
	req.TargetAudience = strings.TrimSpace(req.TargetAudience)

	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", validationMessages(err))
		return
	}

	name := req.Name
	if name == "" {
		name = defaultCampaignName(req.ProductDescription)
	}

	created, err := h.repo.Create(r.Context(), &models.Campaign{
		Name:               name,
		ProductDescription: req.ProductDescription,
		TargetAudience:     req.TargetAudience,
		ContentPlan:        req.ContentPlan,
		Posts:              req.Posts,
	})
	if err != nil {
		slog.Error("create campaign failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save campaign", nil)
		return
	}

	slog.Info("campaign saved", "id", created.ID, "posts", len(created.Posts))
	writeJSON(w, http.StatusCreated, created)
}

// List handles GET /api/campaigns?page=&page_size=, newest first.
func (h *Campaigns) List(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		databaseUnavailable(w)
		return
	}

	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	size := queryInt(r, "page_size", defaultPageSize)
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	total, err := h.repo.Count(r.Context())
	if err != nil {
		slog.Error("count campaigns failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list campaigns", nil)
		return
	}

	items, err := h.repo.List(r.Context(), size, (page-1)*size)
	if err != nil {
		slog.Error("list campaigns failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list campaigns", nil)
		return
	}
	if items == nil {
		items = []models.Campaign{}
	}

	writeJSON(w, http.StatusOK, campaignPage{
		Data: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   size,
			Total:      total,
			TotalPages: (total + size - 1) / size,
		},
	})
}

// Get handles GET /api/campaigns/{id}.
func (h *Campaigns) Get(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		databaseUnavailable(w)
		return
	}

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	c, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find campaign failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load campaign", nil)
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "Campaign not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// defaultCampaignName shortens a product description into a name.
func defaultCampaignName(description string) string {
	if utf8.RuneCountInString(description) <= defaultNameLen {
		return description
	}
	runes := []rune(description)
	return strings.TrimSpace(string(runes[:defaultNameLen])) + "…"
}

// parseID reads the {id} URL parameter, writing a 400 when it is not a UUID.
func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id", nil)
		return uuid.Nil, false
	}
	return id, true
}

// queryInt reads an integer query parameter, returning fallback when it is
// absent or malformed.
func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
