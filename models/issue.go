package models

import "github.com/google/uuid"

// Side is the outcome of a contest between the two positions
type Side string

const (
	SidePro  Side = "pro"
	SideCon  Side = "con"
	SideDraw Side = "draw"
)

// Issue is a grouped sub-topic of contention. Every argument of a debate
// belongs to exactly one issue. Weight (0-10) estimates how directly the
// issue determines the answer to the central question.
type Issue struct {
	ID           uuid.UUID   `json:"id"`
	Topic        string      `json:"topic"`
	Description  string      `json:"description"`
	ProArguments []uuid.UUID `json:"pro_arguments"`
	ConArguments []uuid.UUID `json:"con_arguments"`
	Clashes      []uuid.UUID `json:"clashes"`
	DroppedByPro []uuid.UUID `json:"dropped_by_pro"`
	DroppedByCon []uuid.UUID `json:"dropped_by_con"`
	Winner       Side        `json:"winner"`
	ProPoints    float64     `json:"pro_points"`
	ConPoints    float64     `json:"con_points"`
	Weight       float64     `json:"weight"`
	Reasoning    string      `json:"reasoning"`
}
