package models

import (
	"time"

	"github.com/google/uuid"
)

// DebateStatus represents the lifecycle status of a debate
type DebateStatus string

const (
	DebateStatusPending  DebateStatus = "pending"
	DebateStatusAnalyzed DebateStatus = "analyzed"
	DebateStatusArchived DebateStatus = "archived"
)

// Debate represents a submitted conversation to be scored: the ordered
// comment thread plus the central question the two sides are arguing.
type Debate struct {
	ID              uuid.UUID    `json:"id"`
	Title           string       `json:"title"`
	CentralQuestion string       `json:"central_question"`
	ProPosition     string       `json:"pro_position"`
	ConPosition     string       `json:"con_position"`
	Status          DebateStatus `json:"status"`
	CommentCount    int          `json:"comment_count"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}
