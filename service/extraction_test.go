package service

import (
	"context"
	"testing"

	"threadjudge-backend/inference"
	"threadjudge-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractArgumentsFiltersAndTimestamps(t *testing.T) {
	comments := []*models.Comment{
		newTestComment("c1", "alice", "a long comment", nil, 0),
		newTestComment("c2", "bob", "another comment", nil, 10),
	}

	client := &stubInferenceClient{fn: func(req inference.Request) inference.Response {
		return jsonResponse(map[string]interface{}{
			"analyses": []map[string]interface{}{
				{"comment_id": "c1", "arguments": []map[string]interface{}{
					{"claim": "Budgets are finite", "position": "pro", "warrant_type": "logical", "responds_to_quote": "we can afford it"},
					{"claim": "", "position": "pro"},              // empty claim, skipped
					{"claim": "Some claim", "position": "maybe"},  // invalid position, skipped
				}},
				{"comment_id": "ghost", "arguments": []map[string]interface{}{
					{"claim": "Orphaned claim", "position": "con"}, // unknown comment, skipped
				}},
				{"comment_id": "c2", "arguments": []map[string]interface{}{
					{"claim": "Delay costs more", "position": "con", "concession": false},
				}},
			},
		})
	}}
	scorer, err := NewScorer(ScorerWithInferenceClient(client))
	require.NoError(t, err)

	args, quotes := scorer.extractArguments(context.Background(), newTestDebate("q"), comments)

	require.Len(t, args, 2)
	first, second := args[0], args[1]
	assert.Equal(t, "Budgets are finite", first.Claim)
	assert.Equal(t, "c1", first.SourceCommentID)
	assert.Equal(t, "alice", first.Author)
	assert.Equal(t, models.PositionPro, first.Position)
	assert.Equal(t, models.WarrantLogical, first.WarrantType)
	assert.Equal(t, comments[0].Timestamp, first.Timestamp)

	assert.Equal(t, "Delay costs more", second.Claim)
	assert.Equal(t, comments[1].Timestamp, second.Timestamp)

	require.Len(t, quotes, 1)
	assert.Equal(t, "we can afford it", quotes[first.ID])
}

func TestExtractArgumentsFailedBatchContributesNothing(t *testing.T) {
	comments := []*models.Comment{newTestComment("c1", "alice", "text", nil, 0)}

	scorer, err := NewScorer(ScorerWithInferenceClient(failingClient()))
	require.NoError(t, err)

	args, quotes := scorer.extractArguments(context.Background(), newTestDebate("q"), comments)
	assert.Empty(t, args)
	assert.Empty(t, quotes)
}
