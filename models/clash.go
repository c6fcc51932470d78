package models

import "github.com/google/uuid"

// ClashType classifies how an attacking argument engages the one it
// responds to
type ClashType string

const (
	ClashDenial      ClashType = "denial"       // disputes the claim head-on
	ClashMitigation  ClashType = "mitigation"   // reduces the impact
	ClashTurn        ClashType = "turn"         // flips the impact against its owner
	ClashOutweigh    ClashType = "outweigh"     // concedes but claims bigger impact elsewhere
	ClashNoLink      ClashType = "no_link"      // attacks the warrant-claim link
	ClashCounterplan ClashType = "counterplan"  // offers an alternative
	ClashTalkingPast ClashType = "talking_past" // no real engagement, neither side credited
)

// ClashWinner identifies which side of a clash prevailed
type ClashWinner string

const (
	ClashWinnerAttacker ClashWinner = "attacker"
	ClashWinnerDefender ClashWinner = "defender"
	ClashWinnerDraw     ClashWinner = "draw"
)

// Clash is a head-to-head exchange between two arguments of opposite
// position where the attacker responds to the defender. Quality is 0-10
// and is forced to 0 for talking_past.
type Clash struct {
	ID         uuid.UUID   `json:"id"`
	AttackerID uuid.UUID   `json:"attacker_id"`
	DefenderID uuid.UUID   `json:"defender_id"`
	Type       ClashType   `json:"type"`
	Quality    float64     `json:"quality"`
	Winner     ClashWinner `json:"winner"`
	Reasoning  string      `json:"reasoning"`
}
