package service

import (
	"testing"

	"threadjudge-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildIssue collects the given arguments into a single issue with the
// given clashes attached
func buildIssue(args []*models.Argument, clashes []*models.Clash) *models.Issue {
	issue := &models.Issue{ID: uuid.New(), Topic: "test issue", Weight: 10}
	for _, a := range args {
		if a.Position == models.PositionPro {
			issue.ProArguments = append(issue.ProArguments, a.ID)
		} else {
			issue.ConArguments = append(issue.ConArguments, a.ID)
		}
	}
	for _, c := range clashes {
		issue.Clashes = append(issue.Clashes, c.ID)
	}
	return issue
}

func TestIssueWinnerExtendedVersusDropped(t *testing.T) {
	// One unanswered pro argument against one dropped con argument with
	// the default penalty of 5: +2 against -5 clears the draw margin
	pro := newTestArg("alice", models.PositionPro, 0)
	pro.Status = models.StatusExtended
	con := newTestArg("bob", models.PositionCon, 10)
	con.Status = models.StatusDropped

	args := []*models.Argument{pro, con}
	issue := buildIssue(args, nil)

	DetermineIssueWinners(issue, args, nil, DefaultScoringConfig())

	assert.Equal(t, 2.0, issue.ProPoints)
	assert.Equal(t, -5.0, issue.ConPoints)
	assert.Equal(t, models.SidePro, issue.Winner)
}

func TestIssueWinnerAlternatingClashesNarrowMargin(t *testing.T) {
	// Two decisive clashes of similar quality pull in opposite directions
	// and the 1-point margin falls inside the draw threshold
	pro1 := newTestArg("alice", models.PositionPro, 0)
	con1 := newTestArg("bob", models.PositionCon, 10)
	pro2 := newTestArg("alice", models.PositionPro, 20)
	con2 := newTestArg("bob", models.PositionCon, 30)
	args := []*models.Argument{pro1, con1, pro2, con2}
	for _, a := range args {
		a.Status = models.StatusContested
	}

	clash1 := newTestClash(con1, pro1, models.ClashDenial, 6, models.ClashWinnerAttacker)
	clash2 := newTestClash(pro2, con1, models.ClashDenial, 7, models.ClashWinnerAttacker)
	clashes := []*models.Clash{clash1, clash2}

	issue := buildIssue(args, clashes)
	DetermineIssueWinners(issue, args, clashes, DefaultScoringConfig())

	assert.Equal(t, 7.0, issue.ProPoints)
	assert.Equal(t, 6.0, issue.ConPoints)
	assert.Equal(t, models.SideDraw, issue.Winner)
	assert.Contains(t, issue.Reasoning, "Too close to call")
}

func TestIssueWinnerTalkingPastNeverScores(t *testing.T) {
	pro := newTestArg("alice", models.PositionPro, 0)
	con := newTestArg("bob", models.PositionCon, 10)
	args := []*models.Argument{pro, con}
	for _, a := range args {
		a.Status = models.StatusContested
	}

	clash := newTestClash(con, pro, models.ClashTalkingPast, 9, models.ClashWinnerAttacker)
	clashes := []*models.Clash{clash}

	issue := buildIssue(args, clashes)
	DetermineIssueWinners(issue, args, clashes, DefaultScoringConfig())

	assert.Zero(t, issue.ProPoints)
	assert.Zero(t, issue.ConPoints)
	assert.Equal(t, models.SideDraw, issue.Winner)
}

func TestIssueWinnerBelowQualityThresholdIgnored(t *testing.T) {
	pro := newTestArg("alice", models.PositionPro, 0)
	con := newTestArg("bob", models.PositionCon, 10)
	args := []*models.Argument{pro, con}
	for _, a := range args {
		a.Status = models.StatusContested
	}

	// quality 2 sits below the default threshold of 3
	clash := newTestClash(con, pro, models.ClashDenial, 2, models.ClashWinnerAttacker)
	clashes := []*models.Clash{clash}

	issue := buildIssue(args, clashes)
	DetermineIssueWinners(issue, args, clashes, DefaultScoringConfig())

	assert.Zero(t, issue.ConPoints)
}

func TestIssueWinnerSuccessfulDefenseHalfCredit(t *testing.T) {
	pro := newTestArg("alice", models.PositionPro, 0)
	con := newTestArg("bob", models.PositionCon, 10)
	args := []*models.Argument{pro, con}
	for _, a := range args {
		a.Status = models.StatusContested
	}

	clash := newTestClash(con, pro, models.ClashDenial, 8, models.ClashWinnerDefender)
	clashes := []*models.Clash{clash}

	issue := buildIssue(args, clashes)
	DetermineIssueWinners(issue, args, clashes, DefaultScoringConfig())

	assert.Equal(t, 4.0, issue.ProPoints)
	assert.Zero(t, issue.ConPoints)
}

func TestIssueWinnerWonTurnCostsDefenderFive(t *testing.T) {
	pro := newTestArg("alice", models.PositionPro, 0)
	con := newTestArg("bob", models.PositionCon, 10)
	args := []*models.Argument{pro, con}
	for _, a := range args {
		a.Status = models.StatusContested
	}

	clash := newTestClash(con, pro, models.ClashTurn, 6, models.ClashWinnerAttacker)
	clashes := []*models.Clash{clash}

	issue := buildIssue(args, clashes)
	DetermineIssueWinners(issue, args, clashes, DefaultScoringConfig())

	assert.Equal(t, 6.0, issue.ConPoints)
	assert.Equal(t, -5.0, issue.ProPoints)
	assert.Equal(t, models.SideCon, issue.Winner)
}

func TestIssueWinnerAddsAverageStrengthOncePerSide(t *testing.T) {
	pro1 := newTestArg("alice", models.PositionPro, 0)
	pro1.Status = models.StatusContested
	pro1.Evaluation = &models.ArgumentEvaluation{Strength: 8}
	pro2 := newTestArg("carol", models.PositionPro, 5)
	pro2.Status = models.StatusContested
	// pro2 unevaluated, counts as zero in the average
	con := newTestArg("bob", models.PositionCon, 10)
	con.Status = models.StatusContested
	con.Evaluation = &models.ArgumentEvaluation{Strength: 6}

	args := []*models.Argument{pro1, pro2, con}
	issue := buildIssue(args, nil)

	DetermineIssueWinners(issue, args, nil, DefaultScoringConfig())

	assert.Equal(t, 4.0, issue.ProPoints) // (8 + 0) / 2
	assert.Equal(t, 6.0, issue.ConPoints)
}

func TestIssueWinnerDeterministic(t *testing.T) {
	pro := newTestArg("alice", models.PositionPro, 0)
	pro.Status = models.StatusExtended
	con := newTestArg("bob", models.PositionCon, 10)
	con.Status = models.StatusDropped
	args := []*models.Argument{pro, con}

	first := buildIssue(args, nil)
	second := buildIssue(args, nil)
	DetermineIssueWinners(first, args, nil, DefaultScoringConfig())
	DetermineIssueWinners(second, args, nil, DefaultScoringConfig())

	assert.Equal(t, first.Winner, second.Winner)
	assert.Equal(t, first.ProPoints, second.ProPoints)
	assert.Equal(t, first.ConPoints, second.ConPoints)
	assert.Equal(t, first.Reasoning, second.Reasoning)
}

func TestAttachIssueDetail(t *testing.T) {
	pro := newTestArg("alice", models.PositionPro, 0)
	pro.Status = models.StatusContested
	con := newTestArg("bob", models.PositionCon, 10)
	con.Status = models.StatusDropped
	args := []*models.Argument{pro, con}

	clash := newTestClash(con, pro, models.ClashDenial, 5, models.ClashWinnerDraw)
	issue := buildIssue(args, nil)

	attachIssueDetail([]*models.Issue{issue}, args, []*models.Clash{clash})

	// the clash follows the defender's argument into its issue
	require.Len(t, issue.Clashes, 1)
	assert.Equal(t, clash.ID, issue.Clashes[0])
	assert.Equal(t, []uuid.UUID{con.ID}, issue.DroppedByCon)
	assert.Empty(t, issue.DroppedByPro)
}
