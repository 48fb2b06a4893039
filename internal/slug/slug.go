// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug turns prompts and titles into short, URL-safe fragments used
// in object storage keys.
package slug

import (
	"regexp"
	"strings"
)

// DefaultMaxLen bounds slugs embedded in object keys.
const DefaultMaxLen = 48

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a slug from s. Any run of whitespace becomes a single
// hyphen. Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.Join(strings.Fields(strings.ToLower(s)), "-")
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Truncate slugs s and cuts the result to at most maxLen bytes, preferring
// to cut at a hyphen so words stay whole.
func Truncate(s string, maxLen int) string {
	result := Generate(s)
	if maxLen <= 0 || len(result) <= maxLen {
		return result
	}

	result = result[:maxLen]
	if i := strings.LastIndexByte(result, '-'); i > 0 {
		result = result[:i]
	}
	return strings.Trim(result, "-")
}
