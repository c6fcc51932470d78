package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"threadjudge-backend/inference"
	"threadjudge-backend/models"

	"github.com/google/uuid"
)

const clashBatchSize = 3

const clashSystemPrompt = `You are an expert debate judge. You classify how one argument attacks
another and decide which side wins the exchange. Always respond with valid JSON.`

// clashPair is an attacker/defender exchange awaiting classification
type clashPair struct {
	attacker *models.Argument
	defender *models.Argument
}

type evaluatedClash struct {
	AttackerID string  `json:"attacker_id"`
	Type       string  `json:"type"`
	Quality    float64 `json:"quality"`
	Winner     string  `json:"winner"`
	Reasoning  string  `json:"reasoning"`
}

type clashResult struct {
	Clashes []evaluatedClash `json:"clashes"`
}

// evaluateClashes classifies every linked attacker/defender pair. A pair
// in a failed batch still yields a clash record, classified as
// talking_past with a draw and zero quality, so the issue tally later
// sees every exchange.
func (s *Scorer) evaluateClashes(ctx context.Context, debate *models.Debate, args []*models.Argument) []*models.Clash {
	byID := make(map[uuid.UUID]*models.Argument, len(args))
	for _, a := range args {
		byID[a.ID] = a
	}

	var pairs []clashPair
	for _, a := range args {
		if a.RespondsTo == nil {
			continue
		}
		defender, ok := byID[*a.RespondsTo]
		if !ok || defender.Position == a.Position {
			continue
		}
		pairs = append(pairs, clashPair{attacker: a, defender: defender})
	}
	if len(pairs) == 0 {
		return nil
	}

	batchResults := runBatches(ctx, pairs, clashBatchSize, func(ctx context.Context, batch []clashPair) (map[string]evaluatedClash, error) {
		return s.evaluateClashBatch(ctx, debate, batch)
	})

	clashes := make([]*models.Clash, 0, len(pairs))
	batches := chunk(pairs, clashBatchSize)
	for i, batch := range batches {
		evals := batchResults[i]
		for _, pair := range batch {
			clash := &models.Clash{
				ID:         uuid.New(),
				AttackerID: pair.attacker.ID,
				DefenderID: pair.defender.ID,
				Type:       models.ClashTalkingPast,
				Quality:    0,
				Winner:     models.ClashWinnerDraw,
			}
			if eval, ok := evals[pair.attacker.ID.String()]; ok {
				clash.Type = normalizeClashType(eval.Type)
				clash.Winner = normalizeClashWinner(eval.Winner)
				clash.Reasoning = strings.TrimSpace(eval.Reasoning)
				if clash.Type == models.ClashTalkingPast {
					// arguments that never engage carry no clash weight
					clash.Quality = 0
				} else {
					clash.Quality = clampScore(eval.Quality)
				}
			}
			clashes = append(clashes, clash)
		}
	}
	return clashes
}

func (s *Scorer) evaluateClashBatch(ctx context.Context, debate *models.Debate, batch []clashPair) (map[string]evaluatedClash, error) {
	prompt := buildClashPrompt(debate, batch)

	resp := s.client.Generate(ctx, inference.Request{
		Prompt:       prompt,
		SystemPrompt: clashSystemPrompt,
		MaxTokens:    4096,
		Temperature:  0.1,
	})
	if !resp.Success {
		log.Printf("Warning: clash evaluation batch failed: %s", resp.Error)
		return nil, fmt.Errorf("clash batch failed: %s", resp.Error)
	}

	var result clashResult
	if !inference.ExtractJSON(resp.Text, &result) {
		log.Printf("Warning: clash evaluation returned unparseable JSON")
		return nil, fmt.Errorf("clash batch returned unparseable JSON")
	}

	evals := make(map[string]evaluatedClash, len(result.Clashes))
	for _, eval := range result.Clashes {
		evals[eval.AttackerID] = eval
	}
	return evals, nil
}

func buildClashPrompt(debate *models.Debate, batch []clashPair) string {
	var pairBlock strings.Builder
	for _, pair := range batch {
		pairBlock.WriteString(fmt.Sprintf("EXCHANGE (attacker %s):\n", pair.attacker.ID))
		pairBlock.WriteString(fmt.Sprintf("Defender (%s, by %s): %s\n", pair.defender.Position, pair.defender.Author, pair.defender.Claim))
		if pair.defender.Warrant != "" {
			pairBlock.WriteString(fmt.Sprintf("  Warrant: %s\n", pair.defender.Warrant))
		}
		pairBlock.WriteString(fmt.Sprintf("Attacker (%s, by %s): %s\n", pair.attacker.Position, pair.attacker.Author, pair.attacker.Claim))
		if pair.attacker.Warrant != "" {
			pairBlock.WriteString(fmt.Sprintf("  Warrant: %s\n", pair.attacker.Warrant))
		}
		pairBlock.WriteString("\n")
	}

	return fmt.Sprintf(`Judge each exchange below from a debate about this question.

CENTRAL QUESTION: %s

EXCHANGES:
%s
TASK:
For each exchange classify the attack:
- denial: disputes the claim or warrant head on
- mitigation: reduces the claim's force without denying it
- turn: flips the defender's point into support for the attacker's side
- outweigh: concedes the point but argues something else matters more
- no_link: argues the warrant does not support the claim
- counterplan: offers an alternative that removes the claim's force
- talking_past: does not actually engage the defender's point

Score quality 0-10 for how effective the attack is, pick the winner of
the exchange (attacker|defender|draw) and explain briefly.

Return JSON:
{
  "clashes": [
    {
      "attacker_id": "<id>",
      "type": "<denial|mitigation|turn|outweigh|no_link|counterplan|talking_past>",
      "quality": <0-10>,
      "winner": "<attacker|defender|draw>",
      "reasoning": "<one or two sentences>"
    }
  ]
}`, debate.CentralQuestion, pairBlock.String())
}

func normalizeClashType(raw string) models.ClashType {
	switch models.ClashType(strings.ToLower(strings.TrimSpace(raw))) {
	case models.ClashDenial:
		return models.ClashDenial
	case models.ClashMitigation:
		return models.ClashMitigation
	case models.ClashTurn:
		return models.ClashTurn
	case models.ClashOutweigh:
		return models.ClashOutweigh
	case models.ClashNoLink:
		return models.ClashNoLink
	case models.ClashCounterplan:
		return models.ClashCounterplan
	default:
		return models.ClashTalkingPast
	}
}

func normalizeClashWinner(raw string) models.ClashWinner {
	switch models.ClashWinner(strings.ToLower(strings.TrimSpace(raw))) {
	case models.ClashWinnerAttacker:
		return models.ClashWinnerAttacker
	case models.ClashWinnerDefender:
		return models.ClashWinnerDefender
	default:
		return models.ClashWinnerDraw
	}
}
