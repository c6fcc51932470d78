package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AnalysisJobStatus represents the status of an analysis job
type AnalysisJobStatus string

const (
	JobStatusPending    AnalysisJobStatus = "pending"
	JobStatusInProgress AnalysisJobStatus = "in_progress"
	JobStatusCompleted  AnalysisJobStatus = "completed"
	JobStatusFailed     AnalysisJobStatus = "failed"
)

// AnalysisStage represents one pipeline stage in an analysis job
type AnalysisStage struct {
	Name        string `json:"name"`
	Status      string `json:"status"` // "pending", "in_progress", "completed", "degraded"
	Description string `json:"description,omitempty"`
}

// AnalysisStages represents the ordered list of pipeline stages
type AnalysisStages []AnalysisStage

// Value implements driver.Valuer for JSONB
func (s AnalysisStages) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB
func (s *AnalysisStages) Scan(value interface{}) error {
	if value == nil {
		*s = make(AnalysisStages, 0)
		return nil
	}

	// Handle different types that pgx might return for JSONB
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*s = make(AnalysisStages, 0)
		return nil
	}

	if len(bytes) == 0 {
		*s = make(AnalysisStages, 0)
		return nil
	}

	return json.Unmarshal(bytes, s)
}

// AnalysisJob tracks one background scoring run over a debate
type AnalysisJob struct {
	ID           uuid.UUID         `json:"id"`
	DebateID     uuid.UUID         `json:"debate_id"`
	Status       AnalysisJobStatus `json:"status"`
	CurrentStage *string           `json:"current_stage,omitempty"`
	Stages       AnalysisStages    `json:"stages"`
	ErrorMessage *string           `json:"error_message,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
}
