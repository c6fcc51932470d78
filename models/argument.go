package models

import (
	"time"

	"github.com/google/uuid"
)

// Position represents which side of the central question an argument takes
type Position string

const (
	PositionPro Position = "pro"
	PositionCon Position = "con"
)

// Opposite returns the other side.
func (p Position) Opposite() Position {
	if p == PositionPro {
		return PositionCon
	}
	return PositionPro
}

// ArgumentStatus is the closed set of states an argument moves through.
// Transitions are one-way within a single pipeline run: initial assignment
// happens before clash evaluation, refinement happens once after it.
type ArgumentStatus string

const (
	StatusExtended  ArgumentStatus = "extended"
	StatusDropped   ArgumentStatus = "dropped"
	StatusRefuted   ArgumentStatus = "refuted"
	StatusTurned    ArgumentStatus = "turned"
	StatusConceded  ArgumentStatus = "conceded"
	StatusContested ArgumentStatus = "contested"
)

// WarrantType categorizes the supporting reasoning behind a claim
type WarrantType string

const (
	WarrantEmpirical    WarrantType = "empirical"
	WarrantTestimonial  WarrantType = "testimonial"
	WarrantAnalogical   WarrantType = "analogical"
	WarrantLogical      WarrantType = "logical"
	WarrantExperiential WarrantType = "experiential"
	WarrantNone         WarrantType = "none"
)

// WarrantQuality holds the warrant sub-scores, each bounded 0-10.
// Only populated when the argument actually has a warrant.
type WarrantQuality struct {
	SourceCredibility float64 `json:"source_credibility"`
	Recency           float64 `json:"recency"`
	Relevance         float64 `json:"relevance"`
	Sufficiency       float64 `json:"sufficiency"`
}

// ArgumentEvaluation is the per-argument scoring record, all scores
// bounded 0-10. A nil evaluation means the scoring batch failed and the
// argument is treated as neutral downstream.
type ArgumentEvaluation struct {
	ClaimClarity       float64         `json:"claim_clarity"`
	ClaimRelevance     float64         `json:"claim_relevance"`
	HasWarrant         bool            `json:"has_warrant"`
	WarrantType        WarrantType     `json:"warrant_type"`
	WarrantQuality     *WarrantQuality `json:"warrant_quality,omitempty"`
	ImpactMagnitude    float64         `json:"impact_magnitude"`
	ImpactProbability  float64         `json:"impact_probability"`
	ImpactTimeframe    string          `json:"impact_timeframe"`    // immediate|short_term|long_term
	ImpactReversible   string          `json:"impact_reversible"`   // reversible|irreversible|unknown
	InternalLink       float64         `json:"internal_link"`       // does the warrant support the claim
	Strength           float64         `json:"strength"`            // overall composite
}

// Argument is a typed claim/warrant/impact unit extracted from a comment.
// It is created by extraction and mutated in place by the linker, the
// evaluator and the status resolver; it is never destroyed within a run.
type Argument struct {
	ID              uuid.UUID           `json:"id"`
	SourceCommentID string              `json:"source_comment_id"`
	Author          string              `json:"author"`
	Position        Position            `json:"position"`
	Claim           string              `json:"claim"`
	Warrant         string              `json:"warrant,omitempty"`
	WarrantType     WarrantType         `json:"warrant_type"`
	Impact          string              `json:"impact,omitempty"`
	Concession      bool                `json:"concession"`
	RespondsTo      *uuid.UUID          `json:"responds_to,omitempty"`
	Responses       []uuid.UUID         `json:"responses,omitempty"`
	Status          ArgumentStatus      `json:"status"`
	Evaluation      *ArgumentEvaluation `json:"evaluation,omitempty"`
	Timestamp       time.Time           `json:"timestamp"` // copied from the source comment
}

// EvaluatedStrength returns the composite strength, zero when the
// argument was never evaluated.
func (a *Argument) EvaluatedStrength() float64 {
	if a.Evaluation == nil {
		return 0
	}
	return a.Evaluation.Strength
}
