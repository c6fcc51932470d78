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

const speakerBatchSize = 3

const speakerSystemPrompt = `You are an expert debate judge scoring speakers on World-Schools
style rubrics. Always respond with valid JSON.`

// speakerRecord is the deterministic part of a speaker's evaluation,
// tallied from statuses and clash outcomes before the model scores them
type speakerRecord struct {
	author        string
	position      models.Position
	argumentsMade int
	argumentsWon  int
	argumentsLost int
	concessions   int
	drops         int
	claims        []string
}

type scoredSpeaker struct {
	Author              string  `json:"author"`
	Content             float64 `json:"content"`
	Style               float64 `json:"style"`
	Strategy            float64 `json:"strategy"`
	IntellectualHonesty float64 `json:"intellectual_honesty"`
}

type speakerResult struct {
	Evaluations []scoredSpeaker `json:"evaluations"`
}

// evaluateSpeakers scores every participating author. The win/loss/drop
// record is tallied deterministically from statuses and clashes; the
// model supplies the rubric scores. A speaker in a failed batch gets
// mid-range scores rather than none.
func (s *Scorer) evaluateSpeakers(ctx context.Context, debate *models.Debate, args []*models.Argument, clashes []*models.Clash) []models.SpeakerEvaluation {
	records := tallySpeakers(args, clashes)
	if len(records) == 0 {
		return nil
	}

	batchResults := runBatches(ctx, records, speakerBatchSize, func(ctx context.Context, batch []*speakerRecord) (map[string]scoredSpeaker, error) {
		return s.scoreSpeakerBatch(ctx, debate, batch)
	})

	scale := s.cfg.SpeakerPointScale
	evals := make([]models.SpeakerEvaluation, 0, len(records))
	batches := chunk(records, speakerBatchSize)
	for i, batch := range batches {
		scored := batchResults[i]
		for _, rec := range batch {
			eval := models.SpeakerEvaluation{
				Author:        rec.author,
				Position:      rec.position,
				ArgumentsMade: rec.argumentsMade,
				ArgumentsWon:  rec.argumentsWon,
				ArgumentsLost: rec.argumentsLost,
				Concessions:   rec.concessions,
				Drops:         rec.drops,
			}
			if sc, ok := scored[rec.author]; ok {
				eval.Content = clampRange(sc.Content, scale.Content)
				eval.Style = clampRange(sc.Style, scale.Style)
				eval.Strategy = clampRange(sc.Strategy, scale.Strategy)
				eval.IntellectualHonesty = clampScore(sc.IntellectualHonesty)
			} else {
				// mid-range fallback when the batch failed
				eval.Content = scale.Content / 2
				eval.Style = scale.Style / 2
				eval.Strategy = scale.Strategy / 2
				eval.IntellectualHonesty = 5
			}
			eval.SpeakerPoints = eval.Content + eval.Style + eval.Strategy
			evals = append(evals, eval)
		}
	}
	return evals
}

// tallySpeakers derives each author's record from argument statuses and
// clash outcomes, in first-appearance order
func tallySpeakers(args []*models.Argument, clashes []*models.Clash) []*speakerRecord {
	argByID := make(map[uuid.UUID]*models.Argument, len(args))
	for _, a := range args {
		argByID[a.ID] = a
	}

	byAuthor := make(map[string]*speakerRecord)
	var order []string
	recordFor := func(a *models.Argument) *speakerRecord {
		rec, ok := byAuthor[a.Author]
		if !ok {
			rec = &speakerRecord{author: a.Author, position: a.Position}
			byAuthor[a.Author] = rec
			order = append(order, a.Author)
		}
		return rec
	}

	for _, a := range args {
		rec := recordFor(a)
		rec.argumentsMade++
		if len(rec.claims) < 5 {
			rec.claims = append(rec.claims, a.Claim)
		}
		if a.Concession {
			rec.concessions++
		}
		if a.Status == models.StatusDropped {
			rec.drops++
		}
	}

	for _, clash := range clashes {
		attacker := argByID[clash.AttackerID]
		defender := argByID[clash.DefenderID]
		if attacker == nil || defender == nil {
			continue
		}
		switch clash.Winner {
		case models.ClashWinnerAttacker:
			byAuthor[attacker.Author].argumentsWon++
			byAuthor[defender.Author].argumentsLost++
		case models.ClashWinnerDefender:
			byAuthor[defender.Author].argumentsWon++
			byAuthor[attacker.Author].argumentsLost++
		}
	}

	records := make([]*speakerRecord, 0, len(order))
	for _, author := range order {
		records = append(records, byAuthor[author])
	}
	return records
}

func (s *Scorer) scoreSpeakerBatch(ctx context.Context, debate *models.Debate, batch []*speakerRecord) (map[string]scoredSpeaker, error) {
	prompt := buildSpeakerPrompt(debate, batch, s.cfg.SpeakerPointScale)

	resp := s.client.Generate(ctx, inference.Request{
		Prompt:       prompt,
		SystemPrompt: speakerSystemPrompt,
		MaxTokens:    4096,
		Temperature:  0.2,
	})
	if !resp.Success {
		log.Printf("Warning: speaker evaluation batch failed: %s", resp.Error)
		return nil, fmt.Errorf("speaker batch failed: %s", resp.Error)
	}

	var result speakerResult
	if !inference.ExtractJSON(resp.Text, &result) {
		log.Printf("Warning: speaker evaluation returned unparseable JSON")
		return nil, fmt.Errorf("speaker batch returned unparseable JSON")
	}

	scored := make(map[string]scoredSpeaker, len(result.Evaluations))
	for _, sc := range result.Evaluations {
		scored[sc.Author] = sc
	}
	return scored, nil
}

func buildSpeakerPrompt(debate *models.Debate, batch []*speakerRecord, scale SpeakerPointScale) string {
	var speakerBlock strings.Builder
	for _, rec := range batch {
		speakerBlock.WriteString(fmt.Sprintf("SPEAKER %s (%s): %d arguments, %d clash wins, %d clash losses, %d concessions, %d drops\n",
			rec.author, rec.position, rec.argumentsMade, rec.argumentsWon, rec.argumentsLost, rec.concessions, rec.drops))
		for _, claim := range rec.claims {
			speakerBlock.WriteString(fmt.Sprintf("  - %s\n", claim))
		}
		speakerBlock.WriteString("\n")
	}

	return fmt.Sprintf(`Score each speaker in this debate on World-Schools style rubrics.

CENTRAL QUESTION: %s

SPEAKERS:
%s
TASK:
Score content (0-%.0f, quality of arguments and evidence), style
(0-%.0f, clarity and persuasiveness of expression), strategy (0-%.0f,
engaging the right points and allocating effort well) and intellectual
honesty (0-10, conceding fairly and not misrepresenting opponents).
Weigh each speaker's clash record, concessions and drops.

Return JSON:
{
  "evaluations": [
    {
      "author": "<name>",
      "content": <0-%.0f>,
      "style": <0-%.0f>,
      "strategy": <0-%.0f>,
      "intellectual_honesty": <0-10>
    }
  ]
}`, debate.CentralQuestion, speakerBlock.String(),
		scale.Content, scale.Style, scale.Strategy,
		scale.Content, scale.Style, scale.Strategy)
}

// clampRange bounds a model-supplied score to [0, max]
func clampRange(v, max float64) float64 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
