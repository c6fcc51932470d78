package service

import (
	"fmt"
	"testing"

	"threadjudge-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wonIssue(winner models.Side, weight float64) *models.Issue {
	return &models.Issue{
		ID:     uuid.New(),
		Topic:  fmt.Sprintf("%s issue weight %.0f", winner, weight),
		Winner: winner,
		Weight: weight,
	}
}

func TestCalculateVerdictComposite(t *testing.T) {
	debate := newTestDebate("Should the city build the tramway?")
	issues := []*models.Issue{
		wonIssue(models.SidePro, 8),
		wonIssue(models.SideCon, 4),
		wonIssue(models.SideDraw, 2),
	}

	proArg := newTestArg("alice", models.PositionPro, 0)
	proArg.Status = models.StatusContested
	proArg.Evaluation = &models.ArgumentEvaluation{ImpactMagnitude: 6, ImpactProbability: 5}
	conArg := newTestArg("bob", models.PositionCon, 10)
	conArg.Status = models.StatusDropped
	args := []*models.Argument{proArg, conArg}

	v := calculateVerdict(DefaultScoringConfig(), debate, issues, args, nil, models.BurdenAnalysis{})

	assert.Equal(t, 1, v.IssuesWonByPro)
	assert.Equal(t, 1, v.IssuesWonByCon)
	assert.Equal(t, 1, v.IssuesDrawn)
	assert.Equal(t, 3.0, v.ProImpactTotal) // 6 * 5 / 10
	assert.Equal(t, 35.0, v.ProPoints)     // 20 + 5*3
	assert.Equal(t, 15.0, v.ConPoints)     // 20 - 5 for the drop
	assert.Equal(t, 20.0, v.Margin)
	assert.Equal(t, models.SidePro, v.Winner)
	assert.Equal(t, 90.0, v.Confidence) // 50 + 20/50*100
	assert.Contains(t, v.Summary, "Should the city build the tramway?")
}

func TestCalculateVerdictDefeatedArgumentsCarryNoImpact(t *testing.T) {
	debate := newTestDebate("q")
	eval := models.ArgumentEvaluation{ImpactMagnitude: 10, ImpactProbability: 10}

	for _, status := range []models.ArgumentStatus{models.StatusRefuted, models.StatusTurned, models.StatusConceded} {
		arg := newTestArg("alice", models.PositionPro, 0)
		arg.Status = status
		ev := eval
		arg.Evaluation = &ev

		v := calculateVerdict(DefaultScoringConfig(), debate, nil, []*models.Argument{arg}, nil, models.BurdenAnalysis{})
		assert.Zero(t, v.ProImpactTotal, "status %s", status)
	}
}

func TestCalculateVerdictBurdenBonusSingleSide(t *testing.T) {
	debate := newTestDebate("q")
	burden := models.BurdenAnalysis{ProMetBurden: true, ConMetBurden: false}

	v := calculateVerdict(DefaultScoringConfig(), debate, nil, nil, nil, burden)

	assert.Equal(t, 15.0, v.ProPoints)
	assert.Zero(t, v.ConPoints)
	assert.Equal(t, models.SidePro, v.Winner)
}

func TestCalculateVerdictPresumptionBonus(t *testing.T) {
	debate := newTestDebate("q")
	burden := models.BurdenAnalysis{Presumption: models.SideCon}

	v := calculateVerdict(DefaultScoringConfig(), debate, nil, nil, nil, burden)

	assert.Equal(t, 10.0, v.ConPoints)
	assert.Equal(t, models.SideCon, v.Winner)
}

func TestCalculateVerdictNoBonusWhenBothMeetBurden(t *testing.T) {
	debate := newTestDebate("q")
	burden := models.BurdenAnalysis{ProMetBurden: true, ConMetBurden: true, Presumption: models.SidePro}

	v := calculateVerdict(DefaultScoringConfig(), debate, nil, nil, nil, burden)

	assert.Zero(t, v.ProPoints)
	assert.Zero(t, v.ConPoints)
	assert.Equal(t, models.SideDraw, v.Winner)
}

func TestCalculateVerdictDrawConfidence(t *testing.T) {
	debate := newTestDebate("q")
	issues := []*models.Issue{
		wonIssue(models.SidePro, 5),
		wonIssue(models.SideCon, 5),
	}

	v := calculateVerdict(DefaultScoringConfig(), debate, issues, nil, nil, models.BurdenAnalysis{})

	assert.Equal(t, models.SideDraw, v.Winner)
	assert.Equal(t, 50.0, v.Confidence)
	assert.Nil(t, v.VotingIssues)
	assert.Contains(t, v.Summary, "neither side")
}

func TestCalculateVerdictConfidenceCapped(t *testing.T) {
	debate := newTestDebate("q")
	issues := []*models.Issue{wonIssue(models.SidePro, 5)}

	v := calculateVerdict(DefaultScoringConfig(), debate, issues, nil, nil, models.BurdenAnalysis{})

	// 20 vs 0 would put raw confidence at 150
	assert.Equal(t, models.SidePro, v.Winner)
	assert.Equal(t, 95.0, v.Confidence)
}

func TestCalculateVerdictNonPositiveTotalDefaultsConfidence(t *testing.T) {
	debate := newTestDebate("q")
	dropped := newTestArg("alice", models.PositionPro, 0)
	dropped.Status = models.StatusDropped

	v := calculateVerdict(DefaultScoringConfig(), debate, nil, []*models.Argument{dropped}, nil, models.BurdenAnalysis{})

	// pro -5 against con 0: con wins but the totals carry no information
	assert.Equal(t, models.SideCon, v.Winner)
	assert.Equal(t, 50.0, v.Confidence)
}

func TestDisplayScoresEvenSplitOnEmptyInput(t *testing.T) {
	pro, con := displayScores(models.Verdict{}, nil)
	assert.Equal(t, 50.0, pro)
	assert.Equal(t, 50.0, con)
}

func TestDisplayScoresWeighSpeakerAverages(t *testing.T) {
	speakers := []models.SpeakerEvaluation{
		{Author: "alice", Position: models.PositionPro, SpeakerPoints: 60},
		{Author: "bob", Position: models.PositionCon, SpeakerPoints: 40},
	}

	pro, con := displayScores(models.Verdict{}, speakers)

	// issue and impact ratios default to 0.5; speakers split 0.6/0.4
	assert.InDelta(t, 52.0, pro, 1e-9)
	assert.InDelta(t, 48.0, con, 1e-9)
	assert.InDelta(t, 100.0, pro+con, 1e-9)
}

func TestVotingIssuesTopFiveByWeight(t *testing.T) {
	var issues []*models.Issue
	for w := 1; w <= 7; w++ {
		issues = append(issues, wonIssue(models.SidePro, float64(w)))
	}
	issues = append(issues, wonIssue(models.SideCon, 10))

	voting := votingIssues(issues, models.SidePro)

	require.Len(t, voting, 5)
	assert.Equal(t, 7.0, voting[0].Weight)
	assert.Equal(t, 3.0, voting[4].Weight)
	for _, vi := range voting {
		assert.Equal(t, models.SidePro, vi.Winner)
	}
}
