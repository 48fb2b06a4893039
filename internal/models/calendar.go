// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus tracks a scheduled post through its lifecycle. Nothing moves
// an event between states automatically; the user does.
type EventStatus string

const (
	EventStatusPlanned EventStatus = "planned"
	EventStatusCreated EventStatus = "created"
	EventStatusPosted  EventStatus = "posted"
)

// Valid reports whether s is a known status.
func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusPlanned, EventStatusCreated, EventStatusPosted:
		return true
	}
	return false
}

// CalendarEvent is a post idea scheduled on the content calendar.
type CalendarEvent struct {
	ID        uuid.UUID   `json:"id"`
	Title     string      `json:"title"`
	Date      time.Time   `json:"date"`
	Type      PostType    `json:"type"`
	Status    EventStatus `json:"status"`
	Post      PostIdea    `json:"post"`
	CreatedAt time.Time   `json:"created_at"`
}
