package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"threadjudge-backend/inference"
	"threadjudge-backend/models"

	"github.com/google/uuid"
)

const issueGroupingSystemPrompt = `You are an expert debate judge. You group arguments into the
distinct issues a debate turns on. Always respond with valid JSON.`

type groupedIssue struct {
	Topic       string   `json:"topic"`
	Description string   `json:"description"`
	ArgumentIDs []string `json:"argument_ids"`
	Weight      float64  `json:"weight"`
}

type groupingResult struct {
	Issues []groupedIssue `json:"issues"`
}

// groupIssues partitions the arguments into two to six topical issues in
// a single inference call. Every argument lands in exactly one issue: an
// argument listed under several issues keeps its first assignment, and
// one the model forgot is appended to the first issue. Grouping failure
// falls back to a single issue holding everything at full weight.
func (s *Scorer) groupIssues(ctx context.Context, debate *models.Debate, args []*models.Argument) []*models.Issue {
	if len(args) == 0 {
		return nil
	}

	issues, err := s.groupIssuesOnce(ctx, debate, args)
	if err != nil || len(issues) == 0 {
		log.Printf("Warning: issue grouping failed, falling back to a single issue: %v", err)
		return []*models.Issue{fallbackIssue(debate, args)}
	}
	return issues
}

func (s *Scorer) groupIssuesOnce(ctx context.Context, debate *models.Debate, args []*models.Argument) ([]*models.Issue, error) {
	prompt := buildGroupingPrompt(debate, args)

	resp := s.client.Generate(ctx, inference.Request{
		Prompt:       prompt,
		SystemPrompt: issueGroupingSystemPrompt,
		MaxTokens:    4096,
		Temperature:  0.2,
	})
	if !resp.Success {
		return nil, fmt.Errorf("grouping call failed: %s", resp.Error)
	}

	var result groupingResult
	if !inference.ExtractJSON(resp.Text, &result) {
		return nil, fmt.Errorf("grouping returned unparseable JSON")
	}
	if len(result.Issues) < 2 || len(result.Issues) > 6 {
		return nil, fmt.Errorf("grouping returned %d issues, want 2-6", len(result.Issues))
	}

	argByID := argumentsByID(args)
	assigned := make(map[string]bool, len(args))

	issues := make([]*models.Issue, 0, len(result.Issues))
	for _, grouped := range result.Issues {
		issue := &models.Issue{
			ID:          uuid.New(),
			Topic:       strings.TrimSpace(grouped.Topic),
			Description: strings.TrimSpace(grouped.Description),
			Weight:      clampScore(grouped.Weight),
		}
		for _, rawID := range grouped.ArgumentIDs {
			arg, ok := argByID[rawID]
			if !ok || assigned[rawID] {
				continue
			}
			assigned[rawID] = true
			if arg.Position == models.PositionPro {
				issue.ProArguments = append(issue.ProArguments, arg.ID)
			} else {
				issue.ConArguments = append(issue.ConArguments, arg.ID)
			}
		}
		issues = append(issues, issue)
	}

	// arguments the model never placed still have to be judged somewhere
	for _, arg := range args {
		if assigned[arg.ID.String()] {
			continue
		}
		if arg.Position == models.PositionPro {
			issues[0].ProArguments = append(issues[0].ProArguments, arg.ID)
		} else {
			issues[0].ConArguments = append(issues[0].ConArguments, arg.ID)
		}
	}

	return issues, nil
}

func fallbackIssue(debate *models.Debate, args []*models.Argument) *models.Issue {
	issue := &models.Issue{
		ID:          uuid.New(),
		Topic:       debate.CentralQuestion,
		Description: "All arguments considered as a single issue",
		Weight:      10,
	}
	for _, arg := range args {
		if arg.Position == models.PositionPro {
			issue.ProArguments = append(issue.ProArguments, arg.ID)
		} else {
			issue.ConArguments = append(issue.ConArguments, arg.ID)
		}
	}
	return issue
}

func buildGroupingPrompt(debate *models.Debate, args []*models.Argument) string {
	var argBlock strings.Builder
	for _, a := range args {
		argBlock.WriteString(fmt.Sprintf("[%s] (%s) %s\n", a.ID, a.Position, a.Claim))
	}

	return fmt.Sprintf(`Group the arguments below into the distinct issues this debate turns on.

CENTRAL QUESTION: %s

ARGUMENTS:
%s
TASK:
Identify between 2 and 6 issues. Every argument id must appear under
exactly one issue. For each issue give a short topic label, a one-line
description, and a weight 0-10 for how directly the issue determines the
answer to the central question.

Return JSON:
{
  "issues": [
    {
      "topic": "<short label>",
      "description": "<one line>",
      "argument_ids": ["<id>", ...],
      "weight": <0-10>
    }
  ]
}`, debate.CentralQuestion, argBlock.String())
}

// attachIssueDetail fills in each issue's dropped-argument lists and its
// clash set. A clash belongs to the issue holding the defender's
// argument, so an exchange is always judged where the attacked point
// lives.
func attachIssueDetail(issues []*models.Issue, args []*models.Argument, clashes []*models.Clash) {
	argByID := make(map[uuid.UUID]*models.Argument, len(args))
	for _, a := range args {
		argByID[a.ID] = a
	}

	issueOfArg := make(map[uuid.UUID]*models.Issue, len(args))
	for _, issue := range issues {
		for _, id := range issue.ProArguments {
			issueOfArg[id] = issue
		}
		for _, id := range issue.ConArguments {
			issueOfArg[id] = issue
		}
	}

	for _, issue := range issues {
		for _, id := range append(append([]uuid.UUID{}, issue.ProArguments...), issue.ConArguments...) {
			arg := argByID[id]
			if arg == nil || arg.Status != models.StatusDropped {
				continue
			}
			if arg.Position == models.PositionPro {
				issue.DroppedByPro = append(issue.DroppedByPro, id)
			} else {
				issue.DroppedByCon = append(issue.DroppedByCon, id)
			}
		}
	}

	for _, clash := range clashes {
		issue := issueOfArg[clash.DefenderID]
		if issue == nil {
			continue
		}
		issue.Clashes = append(issue.Clashes, clash.ID)
	}
}

// issueFactor is one contribution to an issue's point tally, kept so the
// reasoning text can cite the largest swings
type issueFactor struct {
	text      string
	magnitude float64
}

// DetermineIssueWinners resolves who carried an issue. It is pure: the
// verdict is a function of the issue's members, their statuses and
// clashes, and the scoring configuration, with no inference involved.
//
// Scoring:
//   - each clash at or above the quality threshold credits the winning
//     side with its quality (halved for a successful defense); a won
//     turn additionally costs the defender's side 5 points
//   - talking_past clashes never score regardless of quality
//   - a dropped argument costs its side the dropped-argument penalty
//   - an extended argument earns its side 2 points
//   - each side's average argument strength is added once
//
// The issue is a draw when the margin is below the draw threshold.
func DetermineIssueWinners(issue *models.Issue, args []*models.Argument, clashes []*models.Clash, cfg ScoringConfig) {
	argByID := make(map[uuid.UUID]*models.Argument, len(args))
	for _, a := range args {
		argByID[a.ID] = a
	}
	clashByID := make(map[uuid.UUID]*models.Clash, len(clashes))
	for _, c := range clashes {
		clashByID[c.ID] = c
	}

	var proPoints, conPoints float64
	var factors []issueFactor

	addPoints := func(side models.Position, delta float64, text string) {
		if side == models.PositionPro {
			proPoints += delta
		} else {
			conPoints += delta
		}
		factors = append(factors, issueFactor{text: text, magnitude: math.Abs(delta)})
	}

	for _, clashID := range issue.Clashes {
		clash := clashByID[clashID]
		if clash == nil || clash.Type == models.ClashTalkingPast || clash.Quality < cfg.ClashQualityThreshold {
			continue
		}
		attacker := argByID[clash.AttackerID]
		defender := argByID[clash.DefenderID]
		if attacker == nil || defender == nil {
			continue
		}

		switch clash.Winner {
		case models.ClashWinnerAttacker:
			addPoints(attacker.Position, clash.Quality,
				fmt.Sprintf("%s won a %s clash (quality %.1f)", attacker.Position, clash.Type, clash.Quality))
			if clash.Type == models.ClashTurn {
				addPoints(defender.Position, -5,
					fmt.Sprintf("%s had an argument turned against them", defender.Position))
			}
		case models.ClashWinnerDefender:
			addPoints(defender.Position, clash.Quality*0.5,
				fmt.Sprintf("%s successfully defended (quality %.1f)", defender.Position, clash.Quality))
		}
	}

	memberIDs := append(append([]uuid.UUID{}, issue.ProArguments...), issue.ConArguments...)
	for _, id := range memberIDs {
		arg := argByID[id]
		if arg == nil {
			continue
		}
		switch arg.Status {
		case models.StatusDropped:
			addPoints(arg.Position, -cfg.DroppedArgumentPenalty,
				fmt.Sprintf("%s dropped an argument", arg.Position))
		case models.StatusExtended:
			addPoints(arg.Position, 2,
				fmt.Sprintf("%s extended an argument unanswered", arg.Position))
		}
	}

	if avg, ok := averageStrength(issue.ProArguments, argByID); ok {
		addPoints(models.PositionPro, avg, fmt.Sprintf("pro argument strength averaged %.1f", avg))
	}
	if avg, ok := averageStrength(issue.ConArguments, argByID); ok {
		addPoints(models.PositionCon, avg, fmt.Sprintf("con argument strength averaged %.1f", avg))
	}

	issue.ProPoints = proPoints
	issue.ConPoints = conPoints

	margin := math.Abs(proPoints - conPoints)
	switch {
	case margin < cfg.DrawMarginThreshold:
		issue.Winner = models.SideDraw
	case proPoints > conPoints:
		issue.Winner = models.SidePro
	default:
		issue.Winner = models.SideCon
	}

	issue.Reasoning = issueReasoning(issue.Winner, margin, factors)
}

// averageStrength returns the mean evaluated strength of the given
// arguments; unevaluated arguments count as zero
func averageStrength(ids []uuid.UUID, argByID map[uuid.UUID]*models.Argument) (float64, bool) {
	if len(ids) == 0 {
		return 0, false
	}
	var total float64
	for _, id := range ids {
		if arg := argByID[id]; arg != nil {
			total += arg.EvaluatedStrength()
		}
	}
	return total / float64(len(ids)), true
}

// issueReasoning cites the two or three largest contributing factors,
// keeping the text a deterministic function of the tally
func issueReasoning(winner models.Side, margin float64, factors []issueFactor) string {
	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].magnitude > factors[j].magnitude
	})
	limit := 3
	if len(factors) < limit {
		limit = len(factors)
	}
	cited := make([]string, 0, limit)
	for _, f := range factors[:limit] {
		cited = append(cited, f.text)
	}

	var verdict string
	switch winner {
	case models.SideDraw:
		verdict = fmt.Sprintf("Too close to call (margin %.1f)", margin)
	default:
		verdict = fmt.Sprintf("%s takes this issue by %.1f points", winner, margin)
	}
	if len(cited) == 0 {
		return verdict + "."
	}
	return verdict + ": " + strings.Join(cited, "; ") + "."
}
