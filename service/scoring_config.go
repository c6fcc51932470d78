package service

import "fmt"

// IssueWeights controls how much each signal contributes when issues are
// weighed for display purposes
type IssueWeights struct {
	ArgumentCount        float64 `json:"argument_count"`
	ImpactMagnitude      float64 `json:"impact_magnitude"`
	CentralityToQuestion float64 `json:"centrality_to_question"`
}

// SpeakerPointScale splits the 100 speaker points between the three
// World-Schools categories. The parts must sum to exactly 100.
type SpeakerPointScale struct {
	Content  float64 `json:"content"`
	Style    float64 `json:"style"`
	Strategy float64 `json:"strategy"`
}

// ScoringConfig holds every tunable of the scoring arithmetic. Construct
// via DefaultScoringConfig and validate with Validate before running a
// pipeline; invalid configuration fails fast instead of producing
// nonsensical scores.
type ScoringConfig struct {
	IssueWeights           IssueWeights      `json:"issue_weights"`
	DroppedArgumentPenalty float64           `json:"dropped_argument_penalty"`
	ClashQualityThreshold  float64           `json:"clash_quality_threshold"`
	DrawMarginThreshold    float64           `json:"draw_margin_threshold"`
	SpeakerPointScale      SpeakerPointScale `json:"speaker_point_scale"`
}

// DefaultScoringConfig returns the standard judging configuration
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		IssueWeights: IssueWeights{
			ArgumentCount:        0.2,
			ImpactMagnitude:      0.3,
			CentralityToQuestion: 0.5,
		},
		DroppedArgumentPenalty: 5,
		ClashQualityThreshold:  3,
		DrawMarginThreshold:    5,
		SpeakerPointScale: SpeakerPointScale{
			Content:  40,
			Style:    40,
			Strategy: 20,
		},
	}
}

// Validate checks ranges and sums; an error here means the configuration
// must not be used
func (c ScoringConfig) Validate() error {
	if c.DroppedArgumentPenalty < 0 {
		return fmt.Errorf("dropped_argument_penalty must be non-negative, got %v", c.DroppedArgumentPenalty)
	}
	if c.ClashQualityThreshold < 0 || c.ClashQualityThreshold > 10 {
		return fmt.Errorf("clash_quality_threshold must be in [0,10], got %v", c.ClashQualityThreshold)
	}
	if c.DrawMarginThreshold < 0 {
		return fmt.Errorf("draw_margin_threshold must be non-negative, got %v", c.DrawMarginThreshold)
	}
	if c.IssueWeights.ArgumentCount < 0 || c.IssueWeights.ImpactMagnitude < 0 || c.IssueWeights.CentralityToQuestion < 0 {
		return fmt.Errorf("issue weights must be non-negative")
	}
	weightSum := c.IssueWeights.ArgumentCount + c.IssueWeights.ImpactMagnitude + c.IssueWeights.CentralityToQuestion
	if weightSum <= 0 {
		return fmt.Errorf("issue weights must not all be zero")
	}
	scaleSum := c.SpeakerPointScale.Content + c.SpeakerPointScale.Style + c.SpeakerPointScale.Strategy
	if scaleSum != 100 {
		return fmt.Errorf("speaker point scale must sum to 100, got %v", scaleSum)
	}
	if c.SpeakerPointScale.Content < 0 || c.SpeakerPointScale.Style < 0 || c.SpeakerPointScale.Strategy < 0 {
		return fmt.Errorf("speaker point scale parts must be non-negative")
	}
	return nil
}
