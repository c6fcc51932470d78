package service

import (
	"testing"

	"threadjudge-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkResponsesByQuoteContainment(t *testing.T) {
	parent := newTestComment("c1", "alice", "two pro points", nil, 0)
	child := newTestComment("c2", "bob", "a rebuttal", strPtr("c1"), 10)

	taxCut := newTestArg("alice", models.PositionPro, 0)
	taxCut.SourceCommentID = "c1"
	taxCut.Claim = "Cutting taxes raises long run growth"
	jobs := newTestArg("alice", models.PositionPro, 0)
	jobs.SourceCommentID = "c1"
	jobs.Claim = "Employment is already at a record high"

	reply := newTestArg("bob", models.PositionCon, 10)
	reply.SourceCommentID = "c2"

	quotes := map[uuid.UUID]string{reply.ID: "raises long run growth"}
	linkResponses([]*models.Argument{taxCut, jobs, reply}, []*models.Comment{parent, child}, quotes)

	require.NotNil(t, reply.RespondsTo)
	assert.Equal(t, taxCut.ID, *reply.RespondsTo)
	assert.Equal(t, []uuid.UUID{reply.ID}, taxCut.Responses)
	assert.Empty(t, jobs.Responses)
}

func TestLinkResponsesByWordOverlap(t *testing.T) {
	parent := newTestComment("c1", "alice", "pro points", nil, 0)
	child := newTestComment("c2", "bob", "a rebuttal", strPtr("c1"), 10)

	climate := newTestArg("alice", models.PositionPro, 0)
	climate.SourceCommentID = "c1"
	climate.Claim = "Carbon pricing reduces national emissions substantially"
	unrelated := newTestArg("alice", models.PositionPro, 0)
	unrelated.SourceCommentID = "c1"
	unrelated.Claim = "Public transit deserves more funding"

	reply := newTestArg("bob", models.PositionCon, 10)
	reply.SourceCommentID = "c2"

	// Paraphrased rather than quoted verbatim: containment fails but most
	// of the distinct words appear in the climate claim
	quotes := map[uuid.UUID]string{reply.ID: "carbon pricing reduces emissions"}
	linkResponses([]*models.Argument{climate, unrelated, reply}, []*models.Comment{parent, child}, quotes)

	require.NotNil(t, reply.RespondsTo)
	assert.Equal(t, climate.ID, *reply.RespondsTo)
}

func TestLinkResponsesLoneCandidateWithoutQuote(t *testing.T) {
	parent := newTestComment("c1", "alice", "pro point", nil, 0)
	child := newTestComment("c2", "bob", "a rebuttal", strPtr("c1"), 10)

	pro := newTestArg("alice", models.PositionPro, 0)
	pro.SourceCommentID = "c1"
	reply := newTestArg("bob", models.PositionCon, 10)
	reply.SourceCommentID = "c2"

	linkResponses([]*models.Argument{pro, reply}, []*models.Comment{parent, child}, nil)

	require.NotNil(t, reply.RespondsTo)
	assert.Equal(t, pro.ID, *reply.RespondsTo)
}

func TestLinkResponsesUnmatchedQuoteFallsBackToStructure(t *testing.T) {
	parent := newTestComment("c1", "alice", "pro point", nil, 0)
	child := newTestComment("c2", "bob", "a rebuttal", strPtr("c1"), 10)

	pro := newTestArg("alice", models.PositionPro, 0)
	pro.SourceCommentID = "c1"
	reply := newTestArg("bob", models.PositionCon, 10)
	reply.SourceCommentID = "c2"

	quotes := map[uuid.UUID]string{reply.ID: "something nobody ever said"}
	linkResponses([]*models.Argument{pro, reply}, []*models.Comment{parent, child}, quotes)

	require.NotNil(t, reply.RespondsTo)
	assert.Equal(t, pro.ID, *reply.RespondsTo)
}

func TestLinkResponsesPrefersStrongestCandidate(t *testing.T) {
	parent := newTestComment("c1", "alice", "pro points", nil, 0)
	child := newTestComment("c2", "bob", "a rebuttal", strPtr("c1"), 10)

	weak := newTestArg("alice", models.PositionPro, 0)
	weak.SourceCommentID = "c1"
	weak.Evaluation = &models.ArgumentEvaluation{Strength: 3}
	strong := newTestArg("alice", models.PositionPro, 0)
	strong.SourceCommentID = "c1"
	strong.Evaluation = &models.ArgumentEvaluation{Strength: 8}

	reply := newTestArg("bob", models.PositionCon, 10)
	reply.SourceCommentID = "c2"

	linkResponses([]*models.Argument{weak, strong, reply}, []*models.Comment{parent, child}, nil)

	require.NotNil(t, reply.RespondsTo)
	assert.Equal(t, strong.ID, *reply.RespondsTo)
}

func TestLinkResponsesNeverLinksSamePosition(t *testing.T) {
	parent := newTestComment("c1", "alice", "pro point", nil, 0)
	child := newTestComment("c2", "carol", "agreement with more detail", strPtr("c1"), 10)

	pro := newTestArg("alice", models.PositionPro, 0)
	pro.SourceCommentID = "c1"
	support := newTestArg("carol", models.PositionPro, 10)
	support.SourceCommentID = "c2"

	linkResponses([]*models.Argument{pro, support}, []*models.Comment{parent, child}, nil)

	assert.Nil(t, support.RespondsTo)
	assert.Empty(t, pro.Responses)
}

func TestLinkResponsesTopLevelCommentsStayUnlinked(t *testing.T) {
	c1 := newTestComment("c1", "alice", "pro point", nil, 0)
	c2 := newTestComment("c2", "bob", "independent con point", nil, 10)

	pro := newTestArg("alice", models.PositionPro, 0)
	pro.SourceCommentID = "c1"
	con := newTestArg("bob", models.PositionCon, 10)
	con.SourceCommentID = "c2"

	linkResponses([]*models.Argument{pro, con}, []*models.Comment{c1, c2}, nil)

	assert.Nil(t, pro.RespondsTo)
	assert.Nil(t, con.RespondsTo)
}
