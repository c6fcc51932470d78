package models

// SpeakerEvaluation scores one participant using a World-Schools-style
// rubric: content (0-40), style (0-40) and strategy (0-20) sum to the
// speaker points (max 100). Intellectual honesty is a separate 0-10 score
// and does not feed the points total.
type SpeakerEvaluation struct {
	Author              string   `json:"author"`
	Position            Position `json:"position"`
	Content             float64  `json:"content"`
	Style               float64  `json:"style"`
	Strategy            float64  `json:"strategy"`
	SpeakerPoints       float64  `json:"speaker_points"`
	IntellectualHonesty float64  `json:"intellectual_honesty"`
	Concessions         int      `json:"concessions"`
	Drops               int      `json:"drops"`
	ArgumentsMade       int      `json:"arguments_made"`
	ArgumentsWon        int      `json:"arguments_won"`
	ArgumentsLost       int      `json:"arguments_lost"`
}

// BurdenAnalysis captures the burden-of-proof reading of the central
// question: what each side had to prove, which side holds presumption if
// neither proves its burden, and whether each side met its burden.
type BurdenAnalysis struct {
	AffirmativeBurden string `json:"affirmative_burden"`
	NegativeBurden    string `json:"negative_burden"`
	Presumption       Side   `json:"presumption"`
	ProMetBurden      bool   `json:"pro_met_burden"`
	ConMetBurden      bool   `json:"con_met_burden"`
	Reasoning         string `json:"reasoning"`
}
