package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"threadjudge-backend/inference"
	"threadjudge-backend/models"
)

// Stage names in pipeline order, also used for job progress tracking
const (
	StageExtraction = "Extracting Arguments"
	StageLinking    = "Linking Responses"
	StageEvaluation = "Evaluating Arguments"
	StageStatuses   = "Resolving Statuses"
	StageClashes    = "Evaluating Clashes"
	StageIssues     = "Grouping Issues"
	StageSpeakers   = "Evaluating Speakers"
	StageBurden     = "Analyzing Burdens"
	StageVerdict    = "Calculating Verdict"
)

// PipelineStages returns the stage names in execution order
func PipelineStages() []string {
	return []string{
		StageExtraction,
		StageLinking,
		StageEvaluation,
		StageStatuses,
		StageClashes,
		StageIssues,
		StageSpeakers,
		StageBurden,
		StageVerdict,
	}
}

// StageCallback receives progress notifications as the pipeline moves
// through its stages. status is "in_progress", "completed" or "degraded".
type StageCallback func(stage string, status string)

// Scorer runs the debate-scoring pipeline. The inference client is an
// explicit dependency so tests substitute a stub deterministically; there
// is no lazily constructed global client.
type Scorer struct {
	client  inference.Client
	cfg     ScoringConfig
	onStage StageCallback
}

// ScorerOption is a functional option for Scorer
type ScorerOption func(*Scorer)

// ScorerWithInferenceClient sets the inference client
func ScorerWithInferenceClient(client inference.Client) ScorerOption {
	return func(s *Scorer) {
		s.client = client
	}
}

// ScorerWithConfig sets the scoring configuration
func ScorerWithConfig(cfg ScoringConfig) ScorerOption {
	return func(s *Scorer) {
		s.cfg = cfg
	}
}

// ScorerWithStageCallback sets the progress callback
func ScorerWithStageCallback(cb StageCallback) ScorerOption {
	return func(s *Scorer) {
		s.onStage = cb
	}
}

var (
	ErrNoInferenceClient = errors.New("inference client not set")
	ErrNoComments        = errors.New("debate has no comments")
	ErrNoQuestion        = errors.New("debate has no central question")
)

// NewScorer creates a scorer. Invalid scoring configuration is rejected
// here rather than surfacing as nonsensical scores later.
func NewScorer(opts ...ScorerOption) (*Scorer, error) {
	s := &Scorer{cfg: DefaultScoringConfig()}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Config returns the active scoring configuration
func (s *Scorer) Config() ScoringConfig {
	return s.cfg
}

// withStageCallback returns a copy of the scorer reporting progress
// through cb, so concurrent jobs never share a callback
func (s *Scorer) withStageCallback(cb StageCallback) *Scorer {
	clone := *s
	clone.onStage = cb
	return &clone
}

func (s *Scorer) notify(stage, status string) {
	if s.onStage != nil {
		s.onStage(stage, status)
	}
}

// Analyze runs the full pipeline over a debate. It returns an error only
// for invalid input; inference failures degrade individual stages to their
// fallback values and the analysis always completes with a verdict. A
// fired ctx deadline short-circuits the remaining inference-backed stages
// to those same fallbacks.
func (s *Scorer) Analyze(ctx context.Context, debate *models.Debate, comments []*models.Comment) (*models.DebateAnalysis, error) {
	if s.client == nil {
		return nil, ErrNoInferenceClient
	}
	if debate == nil || debate.CentralQuestion == "" {
		return nil, ErrNoQuestion
	}
	if len(comments) == 0 {
		return nil, ErrNoComments
	}

	// Stable processing order regardless of caller ordering quirks
	ordered := make([]*models.Comment, len(comments))
	copy(ordered, comments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	s.notify(StageExtraction, "in_progress")
	args, quotes := s.extractArguments(ctx, debate, ordered)
	s.notify(StageExtraction, "completed")

	s.notify(StageLinking, "in_progress")
	linkResponses(args, ordered, quotes)
	s.notify(StageLinking, "completed")

	s.notify(StageEvaluation, "in_progress")
	s.evaluateArguments(ctx, debate, args)
	s.notify(StageEvaluation, "completed")

	s.notify(StageStatuses, "in_progress")
	resolveInitialStatuses(args)
	s.notify(StageStatuses, "completed")

	s.notify(StageClashes, "in_progress")
	clashes := s.evaluateClashes(ctx, debate, args)
	refineStatusesFromClashes(args, clashes)
	s.notify(StageClashes, "completed")

	s.notify(StageIssues, "in_progress")
	issues := s.groupIssues(ctx, debate, args)
	attachIssueDetail(issues, args, clashes)
	for _, issue := range issues {
		DetermineIssueWinners(issue, args, clashes, s.cfg)
	}
	s.notify(StageIssues, "completed")

	s.notify(StageSpeakers, "in_progress")
	speakers := s.evaluateSpeakers(ctx, debate, args, clashes)
	s.notify(StageSpeakers, "completed")

	s.notify(StageBurden, "in_progress")
	burden := s.analyzeBurdens(ctx, debate, issues, args)
	s.notify(StageBurden, "completed")

	s.notify(StageVerdict, "in_progress")
	verdict := calculateVerdict(s.cfg, debate, issues, args, speakers, burden)
	s.notify(StageVerdict, "completed")

	return &models.DebateAnalysis{
		DebateID:   debate.ID,
		Arguments:  args,
		Clashes:    clashes,
		Issues:     issues,
		Speakers:   speakers,
		Verdict:    verdict,
		AnalyzedAt: time.Now().UTC(),
	}, nil
}

// argumentsByID builds a lookup map; arguments are merged by stable id,
// never by shared mutable collections
func argumentsByID(args []*models.Argument) map[string]*models.Argument {
	m := make(map[string]*models.Argument, len(args))
	for _, a := range args {
		m[a.ID.String()] = a
	}
	return m
}
