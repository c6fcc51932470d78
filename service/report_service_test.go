package service

import (
	"testing"
	"time"

	"threadjudge-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestRenderTextReport(t *testing.T) {
	debate := newTestDebate("Should the city build the tramway?")
	analysis := &models.DebateAnalysis{
		DebateID:   debate.ID,
		AnalyzedAt: time.Date(2025, 3, 2, 9, 30, 0, 0, time.UTC),
		Issues: []*models.Issue{{
			Topic:     "Cost",
			Winner:    models.SideCon,
			ProPoints: 3,
			ConPoints: 11,
			Reasoning: "con takes this issue by 8.0 points.",
		}},
		Speakers: []models.SpeakerEvaluation{{
			Author:        "alice",
			Position:      models.PositionPro,
			Content:       30,
			Style:         28,
			Strategy:      12,
			SpeakerPoints: 70,
			ArgumentsMade: 3,
		}},
		Verdict: models.Verdict{
			Winner:     models.SideCon,
			Confidence: 72,
			ProPoints:  3,
			ConPoints:  23,
			Margin:     20,
			Summary:    "The con side prevails.",
			Burden: models.BurdenAnalysis{
				AffirmativeBurden: "show the tramway pays off",
				NegativeBurden:    "show the money is better spent elsewhere",
				ConMetBurden:      true,
			},
			VotingIssues: []models.VotingIssue{{Topic: "Cost", Winner: models.SideCon, Weight: 9}},
			JudgeNotes:   []string{"Issues: 0 won by pro, 1 by con, 0 drawn"},
		},
	}

	report := renderTextReport(debate, analysis)

	assert.Contains(t, report, "DEBATE JUDGMENT REPORT")
	assert.Contains(t, report, "Question: Should the city build the tramway?")
	assert.Contains(t, report, "Winner: con (confidence 72%)")
	assert.Contains(t, report, "VOTING ISSUES")
	assert.Contains(t, report, "1. Cost (weight 9.0)")
	assert.Contains(t, report, "- Cost: con (pro 3.0, con 11.0)")
	assert.Contains(t, report, "Pro had to prove: show the tramway pays off (met: false)")
	assert.Contains(t, report, "Con had to prove: show the money is better spent elsewhere (met: true)")
	assert.Contains(t, report, "- alice (pro): 70 points")
	assert.Contains(t, report, "JUDGE NOTES")
}

func TestRenderTextReportMinimalAnalysis(t *testing.T) {
	debate := newTestDebate("q")
	analysis := &models.DebateAnalysis{
		DebateID: debate.ID,
		Verdict:  models.Verdict{Winner: models.SideDraw, Confidence: 50, Summary: "Nobody carried it."},
	}

	report := renderTextReport(debate, analysis)

	assert.Contains(t, report, "Winner: draw")
	assert.NotContains(t, report, "VOTING ISSUES")
	assert.NotContains(t, report, "BURDENS")
	assert.NotContains(t, report, "SPEAKERS")
}
