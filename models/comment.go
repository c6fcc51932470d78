package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a single comment in a threaded conversation. Comments are
// immutable pipeline input: ids and parent references are caller-supplied
// and must be stable within a debate.
type Comment struct {
	ID         string    `json:"id"`
	DebateID   uuid.UUID `json:"debate_id"`
	Author     string    `json:"author"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
	ParentID   *string   `json:"parent_id,omitempty"`
	Engagement int       `json:"engagement"`
	CreatedAt  time.Time `json:"created_at"`
}
