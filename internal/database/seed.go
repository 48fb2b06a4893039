// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
)

//go:embed seed/sample_campaign.json
var sampleCampaign []byte

type seedCampaign struct {
	Name               string          `json:"name"`
	ProductDescription string          `json:"productDescription"`
	TargetAudience     string          `json:"targetAudience"`
	ContentPlan        string          `json:"contentPlan"`
	Posts              json.RawMessage `json:"posts"`
}

// Seed inserts a sample campaign for local development when the campaigns
// table is empty, so the UI has something to show before the first
// generation.
func Seed(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM campaigns").Scan(&count); err != nil {
		return fmt.Errorf("seed check campaigns: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	var c seedCampaign
	if err := json.Unmarshal(sampleCampaign, &c); err != nil {
		return fmt.Errorf("seed decode sample: %w", err)
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO campaigns (name, product_description, target_audience, content_plan, posts)
		VALUES ($1, $2, $3, $4, $5)
	`, c.Name, c.ProductDescription, c.TargetAudience, c.ContentPlan, []byte(c.Posts))
	if err != nil {
		return fmt.Errorf("seed insert campaign: %w", err)
	}

	slog.Info("database seeded with sample campaign", "name", c.Name)
	return nil
}
