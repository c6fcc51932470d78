package service

import (
	"fmt"
	"math"
	"sort"

	"threadjudge-backend/models"
)

// calculateVerdict is the pure final stage: it turns issue outcomes,
// argument statuses, speaker points and the burden analysis into the
// composite verdict. No inference is involved, so identical inputs always
// produce the identical verdict.
func calculateVerdict(cfg ScoringConfig, debate *models.Debate, issues []*models.Issue, args []*models.Argument, speakers []models.SpeakerEvaluation, burden models.BurdenAnalysis) models.Verdict {
	v := models.Verdict{Burden: burden}

	for _, issue := range issues {
		switch issue.Winner {
		case models.SidePro:
			v.IssuesWonByPro++
		case models.SideCon:
			v.IssuesWonByCon++
		default:
			v.IssuesDrawn++
		}
	}

	var droppedByPro, droppedByCon int
	for _, arg := range args {
		dead := arg.Status == models.StatusRefuted ||
			arg.Status == models.StatusTurned ||
			arg.Status == models.StatusConceded
		impact := 0.0
		if !dead && arg.Evaluation != nil {
			impact = arg.Evaluation.ImpactMagnitude * arg.Evaluation.ImpactProbability / 10
		}
		if arg.Position == models.PositionPro {
			v.ProImpactTotal += impact
			if arg.Status == models.StatusDropped {
				droppedByPro++
			}
		} else {
			v.ConImpactTotal += impact
			if arg.Status == models.StatusDropped {
				droppedByCon++
			}
		}
	}

	v.ProPoints = 20*float64(v.IssuesWonByPro) + 5*v.ProImpactTotal - cfg.DroppedArgumentPenalty*float64(droppedByPro)
	v.ConPoints = 20*float64(v.IssuesWonByCon) + 5*v.ConImpactTotal - cfg.DroppedArgumentPenalty*float64(droppedByCon)

	switch {
	case burden.ProMetBurden && !burden.ConMetBurden:
		v.ProPoints += 15
	case burden.ConMetBurden && !burden.ProMetBurden:
		v.ConPoints += 15
	case !burden.ProMetBurden && !burden.ConMetBurden:
		switch burden.Presumption {
		case models.SidePro:
			v.ProPoints += 10
		case models.SideCon:
			v.ConPoints += 10
		}
	}

	diff := math.Abs(v.ProPoints - v.ConPoints)
	v.Margin = diff
	switch {
	case diff < cfg.DrawMarginThreshold:
		v.Winner = models.SideDraw
	case v.ProPoints > v.ConPoints:
		v.Winner = models.SidePro
	default:
		v.Winner = models.SideCon
	}

	if v.Winner == models.SideDraw {
		v.Confidence = math.Max(0, 50-diff)
	} else {
		total := v.ProPoints + v.ConPoints
		if total <= 0 {
			v.Confidence = 50
		} else {
			v.Confidence = math.Min(95, 50+diff/total*100)
		}
	}

	v.ProScore, v.ConScore = displayScores(v, speakers)
	v.VotingIssues = votingIssues(issues, v.Winner)
	v.Summary = verdictSummary(debate, v)
	v.JudgeNotes = judgeNotes(v, droppedByPro, droppedByCon)

	return v
}

// displayScores presents each side's performance on a 0-100 scale: 60%
// issue wins, 20% impact totals, 20% average speaker points. Purely
// presentational; the win/loss decision never consults these.
func displayScores(v models.Verdict, speakers []models.SpeakerEvaluation) (pro, con float64) {
	issuePro := ratio(float64(v.IssuesWonByPro), float64(v.IssuesWonByCon))
	impactPro := ratio(v.ProImpactTotal, v.ConImpactTotal)

	var proPoints, conPoints float64
	var proCount, conCount int
	for _, sp := range speakers {
		if sp.Position == models.PositionPro {
			proPoints += sp.SpeakerPoints
			proCount++
		} else {
			conPoints += sp.SpeakerPoints
			conCount++
		}
	}
	var proAvg, conAvg float64
	if proCount > 0 {
		proAvg = proPoints / float64(proCount)
	}
	if conCount > 0 {
		conAvg = conPoints / float64(conCount)
	}
	speakerPro := ratio(proAvg, conAvg)

	pro = 100 * (0.6*issuePro + 0.2*impactPro + 0.2*speakerPro)
	con = 100 * (0.6*(1-issuePro) + 0.2*(1-impactPro) + 0.2*(1-speakerPro))
	return pro, con
}

// ratio returns a's share of a+b, or an even split when both are zero
func ratio(a, b float64) float64 {
	if a+b <= 0 {
		return 0.5
	}
	return a / (a + b)
}

// votingIssues lists the issues that carried the outcome: those won by
// the overall winner, highest weight first, at most five
func votingIssues(issues []*models.Issue, winner models.Side) []models.VotingIssue {
	if winner == models.SideDraw {
		return nil
	}
	var voting []models.VotingIssue
	for _, issue := range issues {
		if issue.Winner != winner {
			continue
		}
		voting = append(voting, models.VotingIssue{
			IssueID: issue.ID,
			Topic:   issue.Topic,
			Winner:  issue.Winner,
			Weight:  issue.Weight,
		})
	}
	sort.SliceStable(voting, func(i, j int) bool {
		return voting[i].Weight > voting[j].Weight
	})
	if len(voting) > 5 {
		voting = voting[:5]
	}
	return voting
}

func verdictSummary(debate *models.Debate, v models.Verdict) string {
	switch v.Winner {
	case models.SideDraw:
		return fmt.Sprintf("On the question %q neither side established a decisive advantage: pro took %d issues, con took %d, with %d drawn (margin %.1f points).",
			debate.CentralQuestion, v.IssuesWonByPro, v.IssuesWonByCon, v.IssuesDrawn, v.Margin)
	default:
		return fmt.Sprintf("On the question %q the %s side prevails by %.1f points, winning %d of %d decided issues (confidence %.0f%%).",
			debate.CentralQuestion, v.Winner, v.Margin, wonBy(v, v.Winner), v.IssuesWonByPro+v.IssuesWonByCon, v.Confidence)
	}
}

func wonBy(v models.Verdict, side models.Side) int {
	if side == models.SidePro {
		return v.IssuesWonByPro
	}
	return v.IssuesWonByCon
}

// judgeNotes surfaces the structured facts a reader should check the
// verdict against
func judgeNotes(v models.Verdict, droppedByPro, droppedByCon int) []string {
	notes := []string{
		fmt.Sprintf("Issues: %d won by pro, %d by con, %d drawn", v.IssuesWonByPro, v.IssuesWonByCon, v.IssuesDrawn),
		fmt.Sprintf("Impact totals: pro %.1f, con %.1f", v.ProImpactTotal, v.ConImpactTotal),
	}
	if droppedByPro > 0 || droppedByCon > 0 {
		notes = append(notes, fmt.Sprintf("Dropped arguments: pro %d, con %d", droppedByPro, droppedByCon))
	}
	switch {
	case v.Burden.ProMetBurden && !v.Burden.ConMetBurden:
		notes = append(notes, "Pro met its burden of proof; con did not")
	case v.Burden.ConMetBurden && !v.Burden.ProMetBurden:
		notes = append(notes, "Con met its burden of proof; pro did not")
	case !v.Burden.ProMetBurden && !v.Burden.ConMetBurden && v.Burden.Presumption != models.SideDraw:
		notes = append(notes, fmt.Sprintf("Neither side met its burden; presumption favors %s", v.Burden.Presumption))
	}
	for _, issue := range v.VotingIssues {
		notes = append(notes, fmt.Sprintf("Voting issue: %s (weight %.1f)", issue.Topic, issue.Weight))
	}
	return notes
}
