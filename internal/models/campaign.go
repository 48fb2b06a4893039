// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostType is the Instagram format of a post idea.
type PostType string

const (
	PostTypeCarousel PostType = "carousel"
	PostTypeReel     PostType = "reel"
	PostTypeStatic   PostType = "static"
)

// Valid reports whether t is one of the known post formats.
func (t PostType) Valid() bool {
	switch t {
	case PostTypeCarousel, PostTypeReel, PostTypeStatic:
		return true
	}
	return false
}

// PostIdea is a single generated post. Script is only filled for reels.
type PostIdea struct {
	Type        PostType `json:"type" validate:"required,oneof=carousel reel static"`
	Title       string   `json:"title"`
	Caption     string   `json:"caption"`
	Hook        string   `json:"hook"`
	CTA         string   `json:"cta"`
	Hashtags    []string `json:"hashtags"`
	ImagePrompt string   `json:"imagePrompt"`
	Script      string   `json:"script,omitempty"`
}

// CampaignInput is the user's brief for a generation request.
type CampaignInput struct {
	ProductDescription string `json:"productDescription" validate:"required"`
	TargetAudience     string `json:"targetAudience" validate:"required"`
}

// CampaignOutput is what the text provider produces: a short strategy and
// the post ideas, in the order the provider returned them.
type CampaignOutput struct {
	ContentPlan string     `json:"contentPlan"`
	Posts       []PostIdea `json:"posts"`
}

// CountByType tallies posts per format.
func (o *CampaignOutput) CountByType() map[PostType]int {
	counts := make(map[PostType]int, 3)
	for _, p := range o.Posts {
		counts[p.Type]++
	}
	return counts
}

// Campaign is a generated campaign saved by the user. Rows are never
// updated after insert.
type Campaign struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	ProductDescription string     `json:"productDescription"`
	TargetAudience     string     `json:"targetAudience"`
	ContentPlan        string     `json:"contentPlan"`
	Posts              []PostIdea `json:"posts"`
	CreatedAt          time.Time  `json:"created_at"`
}
