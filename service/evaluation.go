package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"threadjudge-backend/inference"
	"threadjudge-backend/models"
)

const evaluationBatchSize = 3

const evaluationSystemPrompt = `You are an expert debate judge. You score arguments on clarity,
relevance, warrant quality and impact using 0-10 scales. Always respond with valid JSON.`

type evaluatedWarrantQuality struct {
	SourceCredibility float64 `json:"source_credibility"`
	Recency           float64 `json:"recency"`
	Relevance         float64 `json:"relevance"`
	Sufficiency       float64 `json:"sufficiency"`
}

type evaluatedArgument struct {
	ArgumentID        string                   `json:"argument_id"`
	ClaimClarity      float64                  `json:"claim_clarity"`
	ClaimRelevance    float64                  `json:"claim_relevance"`
	HasWarrant        bool                     `json:"has_warrant"`
	WarrantType       string                   `json:"warrant_type"`
	WarrantQuality    *evaluatedWarrantQuality `json:"warrant_quality"`
	ImpactMagnitude   float64                  `json:"impact_magnitude"`
	ImpactProbability float64                  `json:"impact_probability"`
	ImpactTimeframe   string                   `json:"impact_timeframe"`
	ImpactReversible  string                   `json:"impact_reversible"`
	InternalLink      float64                  `json:"internal_link"`
	Strength          float64                  `json:"strength"`
}

type evaluationResult struct {
	Evaluations []evaluatedArgument `json:"evaluations"`
}

// evaluateArguments scores arguments in batches of three. Failed batches
// leave their arguments with a nil evaluation record, which downstream
// scoring treats as neutral; the pipeline never aborts here.
func (s *Scorer) evaluateArguments(ctx context.Context, debate *models.Debate, args []*models.Argument) {
	byID := argumentsByID(args)

	batchResults := runBatches(ctx, args, evaluationBatchSize, func(ctx context.Context, batch []*models.Argument) ([]evaluatedArgument, error) {
		return s.evaluateBatch(ctx, debate, batch)
	})

	for _, evals := range batchResults {
		for _, eval := range evals {
			arg, ok := byID[eval.ArgumentID]
			if !ok {
				continue
			}
			record := &models.ArgumentEvaluation{
				ClaimClarity:      clampScore(eval.ClaimClarity),
				ClaimRelevance:    clampScore(eval.ClaimRelevance),
				HasWarrant:        eval.HasWarrant,
				WarrantType:       normalizeWarrantType(eval.WarrantType),
				ImpactMagnitude:   clampScore(eval.ImpactMagnitude),
				ImpactProbability: clampScore(eval.ImpactProbability),
				ImpactTimeframe:   normalizeCategory(eval.ImpactTimeframe, "immediate", "short_term", "long_term"),
				ImpactReversible:  normalizeCategory(eval.ImpactReversible, "reversible", "irreversible"),
				InternalLink:      clampScore(eval.InternalLink),
				Strength:          clampScore(eval.Strength),
			}
			if eval.HasWarrant && eval.WarrantQuality != nil {
				record.WarrantQuality = &models.WarrantQuality{
					SourceCredibility: clampScore(eval.WarrantQuality.SourceCredibility),
					Recency:           clampScore(eval.WarrantQuality.Recency),
					Relevance:         clampScore(eval.WarrantQuality.Relevance),
					Sufficiency:       clampScore(eval.WarrantQuality.Sufficiency),
				}
			}
			arg.Evaluation = record
		}
	}
}

func (s *Scorer) evaluateBatch(ctx context.Context, debate *models.Debate, batch []*models.Argument) ([]evaluatedArgument, error) {
	prompt := buildEvaluationPrompt(debate, batch)

	resp := s.client.Generate(ctx, inference.Request{
		Prompt:       prompt,
		SystemPrompt: evaluationSystemPrompt,
		MaxTokens:    4096,
		Temperature:  0.1,
	})
	if !resp.Success {
		log.Printf("Warning: argument evaluation batch failed: %s", resp.Error)
		return nil, fmt.Errorf("evaluation batch failed: %s", resp.Error)
	}

	var result evaluationResult
	if !inference.ExtractJSON(resp.Text, &result) {
		log.Printf("Warning: argument evaluation returned unparseable JSON")
		return nil, fmt.Errorf("evaluation batch returned unparseable JSON")
	}
	return result.Evaluations, nil
}

func buildEvaluationPrompt(debate *models.Debate, batch []*models.Argument) string {
	var argBlock strings.Builder
	for _, a := range batch {
		argBlock.WriteString(fmt.Sprintf("[%s] (%s, by %s)\nClaim: %s\n", a.ID, a.Position, a.Author, a.Claim))
		if a.Warrant != "" {
			argBlock.WriteString(fmt.Sprintf("Warrant (%s): %s\n", a.WarrantType, a.Warrant))
		} else {
			argBlock.WriteString("Warrant: none\n")
		}
		if a.Impact != "" {
			argBlock.WriteString(fmt.Sprintf("Impact: %s\n", a.Impact))
		} else {
			argBlock.WriteString("Impact: none stated\n")
		}
		argBlock.WriteString("\n")
	}

	return fmt.Sprintf(`Score each argument below against the central question.

CENTRAL QUESTION: %s

ARGUMENTS:
%s
TASK:
For each argument score, on 0-10 scales:
- claim_clarity: is the claim a single clear debatable assertion
- claim_relevance: how directly it bears on the central question
- warrant quality sub-scores (only when a warrant exists): source_credibility,
  recency, relevance, sufficiency
- impact_magnitude and impact_probability
- internal_link: does the warrant actually support the claim
- strength: overall composite

Also categorize impact_timeframe (immediate|short_term|long_term) and
impact_reversible (reversible|irreversible).

Return JSON:
{
  "evaluations": [
    {
      "argument_id": "<id>",
      "claim_clarity": <0-10>,
      "claim_relevance": <0-10>,
      "has_warrant": <bool>,
      "warrant_type": "<empirical|testimonial|analogical|logical|experiential|none>",
      "warrant_quality": {
        "source_credibility": <0-10>,
        "recency": <0-10>,
        "relevance": <0-10>,
        "sufficiency": <0-10>
      },
      "impact_magnitude": <0-10>,
      "impact_probability": <0-10>,
      "impact_timeframe": "<immediate|short_term|long_term>",
      "impact_reversible": "<reversible|irreversible>",
      "internal_link": <0-10>,
      "strength": <0-10>
    }
  ]
}`, debate.CentralQuestion, argBlock.String())
}

// clampScore bounds a model-supplied score to [0, 10]
func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

func normalizeCategory(raw string, allowed ...string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	for _, a := range allowed {
		if normalized == a {
			return a
		}
	}
	return "unknown"
}
