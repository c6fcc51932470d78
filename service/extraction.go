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

const extractionBatchSize = 5

const extractionSystemPrompt = `You are an expert debate analyst. You break comments down into
structured arguments using the claim/warrant/impact model. Always respond with valid JSON.`

// extractedArgument mirrors the JSON shape the model returns per argument
type extractedArgument struct {
	Claim           string `json:"claim"`
	Warrant         string `json:"warrant"`
	WarrantType     string `json:"warrant_type"`
	Impact          string `json:"impact"`
	Position        string `json:"position"`
	RespondsToQuote string `json:"responds_to_quote"`
	Concession      bool   `json:"concession"`
}

type extractionAnalysis struct {
	CommentID string              `json:"comment_id"`
	Arguments []extractedArgument `json:"arguments"`
}

type extractionResult struct {
	Analyses []extractionAnalysis `json:"analyses"`
}

// extractedBatch is one batch's output: the arguments plus their
// "responds to" quotes, kept out-of-band so scratch state never lives on
// the argument record itself
type extractedBatch struct {
	args   []*models.Argument
	quotes map[uuid.UUID]string
}

// extractArguments turns comments into typed arguments in batches of
// five. A failed batch contributes zero arguments; the pipeline carries
// on. Returns the arguments and the out-of-band quote map consumed by the
// response linker.
func (s *Scorer) extractArguments(ctx context.Context, debate *models.Debate, comments []*models.Comment) ([]*models.Argument, map[uuid.UUID]string) {
	commentByID := make(map[string]*models.Comment, len(comments))
	for _, c := range comments {
		commentByID[c.ID] = c
	}

	batchResults := runBatches(ctx, comments, extractionBatchSize, func(ctx context.Context, batch []*models.Comment) (extractedBatch, error) {
		return s.extractBatch(ctx, debate, batch)
	})

	args := make([]*models.Argument, 0)
	quotes := make(map[uuid.UUID]string)
	for _, batch := range batchResults {
		for _, a := range batch.args {
			if c, ok := commentByID[a.SourceCommentID]; ok {
				a.Timestamp = c.Timestamp
			}
			args = append(args, a)
		}
		for id, q := range batch.quotes {
			quotes[id] = q
		}
	}

	return args, quotes
}

func (s *Scorer) extractBatch(ctx context.Context, debate *models.Debate, batch []*models.Comment) (extractedBatch, error) {
	prompt := buildExtractionPrompt(debate, batch)

	resp := s.client.Generate(ctx, inference.Request{
		Prompt:       prompt,
		SystemPrompt: extractionSystemPrompt,
		MaxTokens:    4096,
		Temperature:  0.2,
	})
	if !resp.Success {
		log.Printf("Warning: argument extraction batch failed: %s", resp.Error)
		return extractedBatch{}, fmt.Errorf("extraction batch failed: %s", resp.Error)
	}

	var result extractionResult
	if !inference.ExtractJSON(resp.Text, &result) {
		log.Printf("Warning: argument extraction returned unparseable JSON")
		return extractedBatch{}, fmt.Errorf("extraction batch returned unparseable JSON")
	}

	out := extractedBatch{quotes: make(map[uuid.UUID]string)}
	for _, analysis := range result.Analyses {
		comment := findComment(batch, analysis.CommentID)
		if comment == nil {
			continue
		}
		for _, ext := range analysis.Arguments {
			claim := strings.TrimSpace(ext.Claim)
			if claim == "" {
				continue
			}
			position := models.Position(strings.ToLower(strings.TrimSpace(ext.Position)))
			if position != models.PositionPro && position != models.PositionCon {
				continue
			}
			arg := &models.Argument{
				ID:              uuid.New(),
				SourceCommentID: comment.ID,
				Author:          comment.Author,
				Position:        position,
				Claim:           claim,
				Warrant:         strings.TrimSpace(ext.Warrant),
				WarrantType:     normalizeWarrantType(ext.WarrantType),
				Impact:          strings.TrimSpace(ext.Impact),
				Concession:      ext.Concession,
			}
			if quote := strings.TrimSpace(ext.RespondsToQuote); quote != "" {
				out.quotes[arg.ID] = quote
			}
			out.args = append(out.args, arg)
		}
	}
	return out, nil
}

func findComment(batch []*models.Comment, id string) *models.Comment {
	for _, c := range batch {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func normalizeWarrantType(raw string) models.WarrantType {
	switch models.WarrantType(strings.ToLower(strings.TrimSpace(raw))) {
	case models.WarrantEmpirical:
		return models.WarrantEmpirical
	case models.WarrantTestimonial:
		return models.WarrantTestimonial
	case models.WarrantAnalogical:
		return models.WarrantAnalogical
	case models.WarrantLogical:
		return models.WarrantLogical
	case models.WarrantExperiential:
		return models.WarrantExperiential
	default:
		return models.WarrantNone
	}
}

func buildExtractionPrompt(debate *models.Debate, batch []*models.Comment) string {
	var commentBlock strings.Builder
	for _, c := range batch {
		parent := "none"
		if c.ParentID != nil {
			parent = *c.ParentID
		}
		commentBlock.WriteString(fmt.Sprintf("[%s] author: %s (parent: %s)\n%s\n\n", c.ID, c.Author, parent, c.Text))
	}

	proDef := debate.ProPosition
	if proDef == "" {
		proDef = "agrees with the central question"
	}
	conDef := debate.ConPosition
	if conDef == "" {
		conDef = "disagrees with the central question"
	}

	return fmt.Sprintf(`Extract the arguments from each comment below.

CENTRAL QUESTION: %s

POSITIONS:
- pro: %s
- con: %s

COMMENTS:
%s
TASK:
For every comment, extract zero or more arguments. An argument is a debatable
assertion (claim), optionally supported by reasoning or evidence (warrant) and
a statement of why it matters (impact). Classify each argument as pro or con
relative to the central question. Questions and bare agreement without new
reasoning are NOT arguments. If an argument directly replies to something the
parent comment said, quote the short phrase it addresses in responds_to_quote.
Mark explicit concessions ("you're right about X") with concession = true.

Return JSON:
{
  "analyses": [
    {
      "comment_id": "<id>",
      "arguments": [
        {
          "claim": "<single debatable assertion>",
          "warrant": "<supporting reasoning or evidence, empty if none>",
          "warrant_type": "<empirical|testimonial|analogical|logical|experiential|none>",
          "impact": "<why the claim matters, empty if none>",
          "position": "<pro|con>",
          "responds_to_quote": "<short quote from the parent argument this replies to, empty if none>",
          "concession": <bool>
        }
      ]
    }
  ]
}`, debate.CentralQuestion, proDef, conDef, commentBlock.String())
}
