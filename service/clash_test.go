package service

import (
	"context"
	"testing"

	"threadjudge-backend/inference"
	"threadjudge-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateClashesFailedBatchStillYieldsRecords(t *testing.T) {
	pro := newTestArg("alice", models.PositionPro, 0)
	con := newTestArg("bob", models.PositionCon, 10)
	linkPair(con, pro)

	scorer, err := NewScorer(ScorerWithInferenceClient(failingClient()))
	require.NoError(t, err)

	clashes := scorer.evaluateClashes(context.Background(), newTestDebate("q"), []*models.Argument{pro, con})

	require.Len(t, clashes, 1)
	clash := clashes[0]
	assert.Equal(t, con.ID, clash.AttackerID)
	assert.Equal(t, pro.ID, clash.DefenderID)
	assert.Equal(t, models.ClashTalkingPast, clash.Type)
	assert.Equal(t, models.ClashWinnerDraw, clash.Winner)
	assert.Zero(t, clash.Quality)
}

func TestEvaluateClashesTalkingPastForcesZeroQuality(t *testing.T) {
	pro := newTestArg("alice", models.PositionPro, 0)
	con := newTestArg("bob", models.PositionCon, 10)
	linkPair(con, pro)

	client := &stubInferenceClient{fn: func(req inference.Request) inference.Response {
		return jsonResponse(map[string]interface{}{
			"clashes": []map[string]interface{}{{
				"attacker_id": con.ID.String(),
				"type":        "talking_past",
				"quality":     8,
				"winner":      "attacker",
			}},
		})
	}}
	scorer, err := NewScorer(ScorerWithInferenceClient(client))
	require.NoError(t, err)

	clashes := scorer.evaluateClashes(context.Background(), newTestDebate("q"), []*models.Argument{pro, con})

	require.Len(t, clashes, 1)
	assert.Equal(t, models.ClashTalkingPast, clashes[0].Type)
	assert.Zero(t, clashes[0].Quality)
	assert.Equal(t, models.ClashWinnerAttacker, clashes[0].Winner)
}

func TestEvaluateClashesNoLinkedPairs(t *testing.T) {
	pro := newTestArg("alice", models.PositionPro, 0)
	con := newTestArg("bob", models.PositionCon, 10)

	scorer, err := NewScorer(ScorerWithInferenceClient(failingClient()))
	require.NoError(t, err)

	clashes := scorer.evaluateClashes(context.Background(), newTestDebate("q"), []*models.Argument{pro, con})
	assert.Empty(t, clashes)
}

func TestNormalizeClashType(t *testing.T) {
	assert.Equal(t, models.ClashDenial, normalizeClashType(" Denial "))
	assert.Equal(t, models.ClashTurn, normalizeClashType("turn"))
	assert.Equal(t, models.ClashTalkingPast, normalizeClashType("ad hominem"))
	assert.Equal(t, models.ClashTalkingPast, normalizeClashType(""))
}

func TestNormalizeClashWinner(t *testing.T) {
	assert.Equal(t, models.ClashWinnerAttacker, normalizeClashWinner("Attacker"))
	assert.Equal(t, models.ClashWinnerDefender, normalizeClashWinner("defender"))
	assert.Equal(t, models.ClashWinnerDraw, normalizeClashWinner("tie"))
}
