// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generator

import (
	"fmt"

	"instaplan/internal/ai"
	"instaplan/internal/models"
)

const campaignSystemPrompt = `You are an expert social media marketing strategist. You answer with a single JSON object and nothing else: no markdown, no commentary.`

// campaignPromptTemplate takes the product description and target audience.
const campaignPromptTemplate = `Create a comprehensive Instagram campaign for a founder/marketer.

Product: %s
Target Audience: %s

Generate:
1. A brief content plan (2-3 sentences) explaining the campaign strategy
2. Exactly 5 diverse post ideas with the following mix:
   - 2 carousel posts (educational/storytelling)
   - 2 static posts (quotes/announcements)
   - 1 reel idea (engaging/trending)

For each post, provide:
- A catchy title (max 10 words)
- A complete caption (80-120 words) with engaging hook
- A powerful hook (one sentence to grab attention)
- A clear CTA (one sentence call-to-action)
- 8-10 relevant hashtags (mix of popular and niche)
- A detailed image prompt (2-3 sentences describing composition, lighting, mood, colors, style)
- If the post type is "reel", a "script" field with a 30-60 second script including visual cues and spoken audio. Leave it empty for other types.

Make the content authentic, engaging, and tailored to the target audience. Focus on value-driven content that builds trust and drives engagement.

Respond with JSON of this shape:
{"contentPlan": "...", "posts": [{"type": "carousel|static|reel", "title": "...", "caption": "...", "hook": "...", "cta": "...", "hashtags": ["#..."], "imagePrompt": "...", "script": "..."}]}`

// imagePromptSuffix is appended to every image prompt before synthesis.
const imagePromptSuffix = ", professional photography, high quality, detailed, 4k, instagram worthy"

// CampaignPrompt renders the user prompt for a campaign request.
func CampaignPrompt(in models.CampaignInput) string {
	return fmt.Sprintf(campaignPromptTemplate, in.ProductDescription, in.TargetAudience)
}

// EnhanceImagePrompt appends the photographic quality modifiers.
func EnhanceImagePrompt(prompt string) string {
	return prompt + imagePromptSuffix
}

// CampaignSchema constrains structured output to the campaign shape.
var CampaignSchema = &ai.Schema{
	Type:     ai.TypeObject,
	Required: []string{"contentPlan", "posts"},
	Properties: map[string]*ai.Schema{
		"contentPlan": {Type: ai.TypeString, Description: "2-3 sentence campaign strategy"},
		"posts": {
			Type: ai.TypeArray,
			Items: &ai.Schema{
				Type:     ai.TypeObject,
				Required: []string{"type", "title", "caption", "hook", "cta", "hashtags", "imagePrompt"},
				Properties: map[string]*ai.Schema{
					"type": {
						Type: ai.TypeString,
						Enum: []string{string(models.PostTypeCarousel), string(models.PostTypeReel), string(models.PostTypeStatic)},
					},
					"title":       {Type: ai.TypeString},
					"caption":     {Type: ai.TypeString},
					"hook":        {Type: ai.TypeString},
					"cta":         {Type: ai.TypeString},
					"hashtags":    {Type: ai.TypeArray, Items: &ai.Schema{Type: ai.TypeString}},
					"imagePrompt": {Type: ai.TypeString},
					"script":      {Type: ai.TypeString, Nullable: true},
				},
			},
		},
	},
}
