package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"threadjudge-backend/inference"
	"threadjudge-backend/models"
)

const burdenSystemPrompt = `You are an expert debate judge analyzing burdens of proof.
Always respond with valid JSON.`

type burdenResponse struct {
	AffirmativeBurden string `json:"affirmative_burden"`
	NegativeBurden    string `json:"negative_burden"`
	Presumption       string `json:"presumption"`
	ProMetBurden      bool   `json:"pro_met_burden"`
	ConMetBurden      bool   `json:"con_met_burden"`
	Reasoning         string `json:"reasoning"`
}

// analyzeBurdens determines what each side had to prove and whether they
// proved it, given the issue outcomes and a sample of each side's
// arguments. One call, one object back. On failure the verdict proceeds
// with neither side credited a burden bonus and no presumption.
func (s *Scorer) analyzeBurdens(ctx context.Context, debate *models.Debate, issues []*models.Issue, args []*models.Argument) models.BurdenAnalysis {
	prompt := buildBurdenPrompt(debate, issues, args)

	resp := s.client.Generate(ctx, inference.Request{
		Prompt:       prompt,
		SystemPrompt: burdenSystemPrompt,
		MaxTokens:    2048,
		Temperature:  0.2,
	})
	if !resp.Success {
		log.Printf("Warning: burden analysis failed: %s", resp.Error)
		return fallbackBurden()
	}

	var parsed burdenResponse
	if !inference.ExtractJSON(resp.Text, &parsed) {
		log.Printf("Warning: burden analysis returned unparseable JSON")
		return fallbackBurden()
	}

	return models.BurdenAnalysis{
		AffirmativeBurden: strings.TrimSpace(parsed.AffirmativeBurden),
		NegativeBurden:    strings.TrimSpace(parsed.NegativeBurden),
		Presumption:       normalizePresumption(parsed.Presumption),
		ProMetBurden:      parsed.ProMetBurden,
		ConMetBurden:      parsed.ConMetBurden,
		Reasoning:         strings.TrimSpace(parsed.Reasoning),
	}
}

func fallbackBurden() models.BurdenAnalysis {
	return models.BurdenAnalysis{
		Presumption: models.SideDraw,
		Reasoning:   "Burden analysis unavailable; no burden bonus applied.",
	}
}

func normalizePresumption(raw string) models.Side {
	switch models.Side(strings.ToLower(strings.TrimSpace(raw))) {
	case models.SidePro:
		return models.SidePro
	case models.SideCon:
		return models.SideCon
	default:
		return models.SideDraw
	}
}

func buildBurdenPrompt(debate *models.Debate, issues []*models.Issue, args []*models.Argument) string {
	var issueBlock strings.Builder
	for _, issue := range issues {
		issueBlock.WriteString(fmt.Sprintf("- %s: winner %s (pro %.1f, con %.1f)\n",
			issue.Topic, issue.Winner, issue.ProPoints, issue.ConPoints))
	}

	var argBlock strings.Builder
	proSampled, conSampled := 0, 0
	for _, a := range args {
		if a.Position == models.PositionPro && proSampled < 5 {
			argBlock.WriteString(fmt.Sprintf("- (pro) %s\n", a.Claim))
			proSampled++
		}
		if a.Position == models.PositionCon && conSampled < 5 {
			argBlock.WriteString(fmt.Sprintf("- (con) %s\n", a.Claim))
			conSampled++
		}
	}

	proDef := debate.ProPosition
	if proDef == "" {
		proDef = "agrees with the central question"
	}
	conDef := debate.ConPosition
	if conDef == "" {
		conDef = "disagrees with the central question"
	}

	return fmt.Sprintf(`Analyze the burdens of proof in this debate.

CENTRAL QUESTION: %s

POSITIONS:
- pro: %s
- con: %s

ISSUE OUTCOMES:
%s
SAMPLE ARGUMENTS:
%s
TASK:
State what the affirmative (pro) side had to prove and what the
negative (con) side had to prove. Decide which side holds presumption
if neither proves its burden (or draw if genuinely neutral). Then judge
whether each side met its burden, given the issue outcomes above.

Return JSON:
{
  "affirmative_burden": "<what pro had to prove>",
  "negative_burden": "<what con had to prove>",
  "presumption": "<pro|con|draw>",
  "pro_met_burden": <bool>,
  "con_met_burden": <bool>,
  "reasoning": "<two or three sentences>"
}`, debate.CentralQuestion, proDef, conDef, issueBlock.String(), argBlock.String())
}
