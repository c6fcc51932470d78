package service

import (
	"strings"

	"threadjudge-backend/models"

	"github.com/google/uuid"
)

// overlapThreshold is the minimum bag-of-words overlap ratio for a
// response quote to count as a match
const overlapThreshold = 0.3

// linkResponses connects each argument to the opposing argument it
// replies to. For an argument whose source comment has a parent, the
// candidates are the parent comment's opposite-position arguments:
//
//   - with a response quote: substring containment against candidate
//     claims and warrants first, then bag-of-words overlap >= 0.3
//   - without a quote: a lone candidate links directly; among several the
//     one with highest evaluated strength wins (first in comment order on
//     ties, which is what happens on the initial pass where nothing has
//     been evaluated yet)
//
// Same-position arguments are never linked. Establishes RespondsTo on the
// child and appends to the parent's Responses list.
func linkResponses(args []*models.Argument, comments []*models.Comment, quotes map[uuid.UUID]string) {
	commentByID := make(map[string]*models.Comment, len(comments))
	for _, c := range comments {
		commentByID[c.ID] = c
	}

	argsByComment := make(map[string][]*models.Argument)
	for _, a := range args {
		argsByComment[a.SourceCommentID] = append(argsByComment[a.SourceCommentID], a)
	}

	argByID := make(map[uuid.UUID]*models.Argument, len(args))
	for _, a := range args {
		argByID[a.ID] = a
	}

	for _, arg := range args {
		comment, ok := commentByID[arg.SourceCommentID]
		if !ok || comment.ParentID == nil {
			continue
		}

		var candidates []*models.Argument
		for _, cand := range argsByComment[*comment.ParentID] {
			if cand.Position != arg.Position {
				candidates = append(candidates, cand)
			}
		}
		if len(candidates) == 0 {
			continue
		}

		var target *models.Argument
		if quote, ok := quotes[arg.ID]; ok {
			target = matchByQuote(quote, candidates)
		}
		if target == nil {
			target = strongestCandidate(candidates)
		}
		if target == nil {
			continue
		}

		id := target.ID
		arg.RespondsTo = &id
		target.Responses = append(target.Responses, arg.ID)
	}
}

// matchByQuote finds the candidate whose claim or warrant the quote was
// taken from: containment first, word overlap second
func matchByQuote(quote string, candidates []*models.Argument) *models.Argument {
	normalized := strings.ToLower(strings.TrimSpace(quote))
	if normalized == "" {
		return nil
	}

	for _, cand := range candidates {
		text := strings.ToLower(cand.Claim + " " + cand.Warrant)
		if strings.Contains(text, normalized) {
			return cand
		}
	}

	var best *models.Argument
	bestRatio := 0.0
	for _, cand := range candidates {
		ratio := wordOverlap(normalized, strings.ToLower(cand.Claim+" "+cand.Warrant))
		if ratio >= overlapThreshold && ratio > bestRatio {
			best = cand
			bestRatio = ratio
		}
	}
	return best
}

// wordOverlap returns the fraction of the quote's distinct words that
// appear in the candidate text
func wordOverlap(quote, text string) float64 {
	quoteWords := distinctWords(quote)
	if len(quoteWords) == 0 {
		return 0
	}
	textWords := distinctWords(text)

	shared := 0
	for w := range quoteWords {
		if _, ok := textWords[w]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(quoteWords))
}

func distinctWords(s string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.FieldsFunc(s, func(r rune) bool {
		return !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9')
	}) {
		if len(w) > 2 { // skip stopword-sized tokens
			words[strings.ToLower(w)] = struct{}{}
		}
	}
	return words
}

// strongestCandidate picks the structural-fallback link target: the lone
// candidate, or the one with the highest evaluated strength
func strongestCandidate(candidates []*models.Argument) *models.Argument {
	if len(candidates) == 1 {
		return candidates[0]
	}
	best := candidates[0]
	for _, cand := range candidates[1:] {
		if cand.EvaluatedStrength() > best.EvaluatedStrength() {
			best = cand
		}
	}
	return best
}
