package service

import (
	"fmt"
	"time"

	"threadjudge-backend/models"

	"github.com/google/uuid"
)

// test fixtures shared across the service tests

var testEpoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// newTestArg builds a minimal argument posted minuteOffset minutes into
// the thread
func newTestArg(author string, pos models.Position, minuteOffset int) *models.Argument {
	return &models.Argument{
		ID:        uuid.New(),
		Author:    author,
		Position:  pos,
		Claim:     fmt.Sprintf("%s claim at minute %d", author, minuteOffset),
		Timestamp: testEpoch.Add(time.Duration(minuteOffset) * time.Minute),
	}
}

func linkPair(attacker, defender *models.Argument) {
	id := defender.ID
	attacker.RespondsTo = &id
	defender.Responses = append(defender.Responses, attacker.ID)
}

func newTestClash(attacker, defender *models.Argument, typ models.ClashType, quality float64, winner models.ClashWinner) *models.Clash {
	return &models.Clash{
		ID:         uuid.New(),
		AttackerID: attacker.ID,
		DefenderID: defender.ID,
		Type:       typ,
		Quality:    quality,
		Winner:     winner,
	}
}

func newTestDebate(question string) *models.Debate {
	return &models.Debate{
		ID:              uuid.New(),
		Title:           question,
		CentralQuestion: question,
		Status:          models.DebateStatusPending,
	}
}

func newTestComment(id, author, text string, parentID *string, minuteOffset int) *models.Comment {
	return &models.Comment{
		ID:        id,
		Author:    author,
		Text:      text,
		ParentID:  parentID,
		Timestamp: testEpoch.Add(time.Duration(minuteOffset) * time.Minute),
	}
}

func strPtr(s string) *string {
	return &s
}
