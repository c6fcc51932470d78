package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// VotingIssue is an issue that decided the outcome, ranked by weight
type VotingIssue struct {
	IssueID uuid.UUID `json:"issue_id"`
	Topic   string    `json:"topic"`
	Winner  Side      `json:"winner"`
	Weight  float64   `json:"weight"`
}

// Verdict is the final outcome of a scored debate. Points drive the
// win/loss decision; display scores are a separate 0-100 presentation of
// each side's performance and do not affect the winner.
type Verdict struct {
	IssuesWonByPro int     `json:"issues_won_by_pro"`
	IssuesWonByCon int     `json:"issues_won_by_con"`
	IssuesDrawn    int     `json:"issues_drawn"`
	ProImpactTotal float64 `json:"pro_impact_total"`
	ConImpactTotal float64 `json:"con_impact_total"`
	ProPoints      float64 `json:"pro_points"`
	ConPoints      float64 `json:"con_points"`
	Winner         Side    `json:"winner"`
	Confidence     float64 `json:"confidence"` // 0-95
	ProScore       float64 `json:"pro_score"`  // 0-100 display score
	ConScore       float64 `json:"con_score"`  // 0-100 display score
	Margin         float64 `json:"margin"`

	VotingIssues []VotingIssue  `json:"voting_issues"`
	Burden       BurdenAnalysis `json:"burden"`
	Summary      string         `json:"summary"`
	JudgeNotes   []string       `json:"judge_notes"`
}

// DebateAnalysis is the complete pipeline output for one debate: every
// intermediate record plus the verdict. This is what gets persisted and
// exported.
type DebateAnalysis struct {
	DebateID   uuid.UUID           `json:"debate_id"`
	Arguments  []*Argument         `json:"arguments"`
	Clashes    []*Clash            `json:"clashes"`
	Issues     []*Issue            `json:"issues"`
	Speakers   []SpeakerEvaluation `json:"speakers"`
	Verdict    Verdict             `json:"verdict"`
	AnalyzedAt time.Time           `json:"analyzed_at"`
}

// Value implements driver.Valuer for JSONB
func (d DebateAnalysis) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements sql.Scanner for JSONB
func (d *DebateAnalysis) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	if len(bytes) == 0 {
		return nil
	}

	return json.Unmarshal(bytes, d)
}

// VerdictRecord is the persisted form of a completed analysis
type VerdictRecord struct {
	ID        uuid.UUID      `json:"id"`
	DebateID  uuid.UUID      `json:"debate_id"`
	Winner    Side           `json:"winner"`
	Confidence float64       `json:"confidence"`
	Analysis  DebateAnalysis `json:"analysis"`
	CreatedAt time.Time      `json:"created_at"`
}
