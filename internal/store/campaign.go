// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store persists campaigns and calendar events in PostgreSQL.
// Post ideas are stored as JSONB next to their parent row.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"instaplan/internal/models"
)

// CampaignStore handles all campaign-related database operations.
type CampaignStore struct {
	db *sql.DB
}

// NewCampaignStore creates a new CampaignStore with the given database connection.
func NewCampaignStore(db *sql.DB) *CampaignStore {
	return &CampaignStore{db: db}
}

// campaignColumns lists the columns selected in campaign queries.
const campaignColumns = `id, name, product_description, target_audience, content_plan, posts, created_at`

// scanCampaign scans a campaign row from the result set.
func scanCampaign(scanner interface{ Scan(...any) error }) (*models.Campaign, error) {
	var c models.Campaign
	var posts []byte
	err := scanner.Scan(
		&c.ID, &c.Name, &c.ProductDescription, &c.TargetAudience, &c.ContentPlan, &posts, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(posts, &c.Posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return &c, nil
}

// Create inserts a campaign and returns it with the generated ID and
// creation time.
func (s *CampaignStore) Create(ctx context.Context, c *models.Campaign) (*models.Campaign, error) {
	posts, err := marshalPosts(c.Posts)
	if err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO campaigns (name, product_description, target_audience, content_plan, posts)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+campaignColumns,
		c.Name, c.ProductDescription, c.TargetAudience, c.ContentPlan, posts,
	)
	created, err := scanCampaign(row)
	if err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}
	return created, nil
}

// FindByID retrieves a single campaign by its UUID. Returns (nil, nil)
// when no campaign has that ID.
func (s *CampaignStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id)
	c, err := scanCampaign(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find campaign by id: %w", err)
	}
	return c, nil
}

// List returns campaigns newest first, with pagination.
func (s *CampaignStore) List(ctx context.Context, limit, offset int) ([]models.Campaign, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+campaignColumns+`
		FROM campaigns
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	items := []models.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Count returns the total number of campaigns.
func (s *CampaignStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM campaigns`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count campaigns: %w", err)
	}
	return count, nil
}

// marshalPosts encodes posts for the JSONB column. A nil slice is stored
// as an empty array so reads never yield null.
func marshalPosts(posts []models.PostIdea) ([]byte, error) {
	if posts == nil {
		posts = []models.PostIdea{}
	}
	return json.Marshal(posts)
}
