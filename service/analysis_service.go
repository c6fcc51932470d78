package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"threadjudge-backend/models"
	"threadjudge-backend/repository"

	"github.com/google/uuid"
)

// AnalysisService runs debate scoring as background jobs
type AnalysisService struct {
	debateRepo  *repository.DebateRepository
	commentRepo *repository.CommentRepository
	jobRepo     *repository.AnalysisJobRepository
	verdictRepo *repository.VerdictRepository
	scorer      *Scorer

	// pipelineTimeout bounds one full analysis run; a fired deadline
	// degrades remaining stages to fallbacks rather than failing the job
	pipelineTimeout time.Duration
}

// AnalysisServiceOption is a functional option for AnalysisService
type AnalysisServiceOption func(*AnalysisService)

// AnalysisWithDebateRepository sets the debate repository
func AnalysisWithDebateRepository(repo *repository.DebateRepository) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.debateRepo = repo
	}
}

// AnalysisWithCommentRepository sets the comment repository
func AnalysisWithCommentRepository(repo *repository.CommentRepository) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.commentRepo = repo
	}
}

// AnalysisWithJobRepository sets the analysis job repository
func AnalysisWithJobRepository(repo *repository.AnalysisJobRepository) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.jobRepo = repo
	}
}

// AnalysisWithVerdictRepository sets the verdict repository
func AnalysisWithVerdictRepository(repo *repository.VerdictRepository) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.verdictRepo = repo
	}
}

// AnalysisWithScorer sets the scoring pipeline
func AnalysisWithScorer(scorer *Scorer) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.scorer = scorer
	}
}

// AnalysisWithPipelineTimeout sets the per-run deadline
func AnalysisWithPipelineTimeout(d time.Duration) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.pipelineTimeout = d
	}
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(opts ...AnalysisServiceOption) *AnalysisService {
	s := &AnalysisService{pipelineTimeout: 10 * time.Minute}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrDebateNotFound    = errors.New("debate not found")
	ErrJobNotFound       = errors.New("analysis job not found")
	ErrJobCreationFailed = errors.New("failed to create analysis job")
)

// StartAnalysisRequest represents a request to analyze a debate
type StartAnalysisRequest struct {
	DebateID uuid.UUID
}

// StartAnalysisResult represents the result of creating an analysis job
type StartAnalysisResult struct {
	JobID uuid.UUID
}

// GetJobStatusRequest represents a request to get job status
type GetJobStatusRequest struct {
	JobID uuid.UUID
}

// GetJobStatusResult represents the result of getting job status
type GetJobStatusResult struct {
	Job *models.AnalysisJob
}

// StartAnalysis creates an analysis job and returns immediately; the
// actual pipeline runs in the background via ProcessAnalysis
func (s *AnalysisService) StartAnalysis(
	ctx context.Context,
	req StartAnalysisRequest,
) (*StartAnalysisResult, error) {
	if s.debateRepo == nil {
		return nil, errors.New("debate repository not set")
	}
	if s.jobRepo == nil {
		return nil, errors.New("analysis job repository not set")
	}

	debate, err := s.debateRepo.GetByID(ctx, req.DebateID)
	if err != nil {
		return nil, ErrDebateNotFound
	}

	job := &models.AnalysisJob{
		ID:       uuid.New(),
		DebateID: debate.ID,
		Status:   models.JobStatusPending,
		Stages:   initialStages(),
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, ErrJobCreationFailed
	}

	return &StartAnalysisResult{JobID: job.ID}, nil
}

// GetJobStatus retrieves the status of an analysis job
func (s *AnalysisService) GetJobStatus(
	ctx context.Context,
	req GetJobStatusRequest,
) (*GetJobStatusResult, error) {
	if s.jobRepo == nil {
		return nil, errors.New("analysis job repository not set")
	}

	job, err := s.jobRepo.GetByID(ctx, req.JobID)
	if err != nil {
		return nil, ErrJobNotFound
	}

	return &GetJobStatusResult{Job: job}, nil
}

// initialStages builds the pending stage list in pipeline order
func initialStages() models.AnalysisStages {
	names := PipelineStages()
	stages := make(models.AnalysisStages, 0, len(names))
	for _, name := range names {
		stages = append(stages, models.AnalysisStage{
			Name:   name,
			Status: "pending",
		})
	}
	return stages
}

// ProcessAnalysis runs the scoring pipeline for a job. It is meant to run
// in a goroutine and can take a minute or more on long threads.
func (s *AnalysisService) ProcessAnalysis(ctx context.Context, jobID uuid.UUID) error {
	if s.jobRepo == nil {
		return errors.New("analysis job repository not set")
	}
	if s.debateRepo == nil || s.commentRepo == nil || s.verdictRepo == nil {
		return errors.New("repositories not set")
	}
	if s.scorer == nil {
		return errors.New("scorer not set")
	}

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to load analysis job: %w", err)
	}

	debate, err := s.debateRepo.GetByID(ctx, job.DebateID)
	if err != nil {
		s.markJobFailed(ctx, jobID, "failed to load debate: "+err.Error())
		return err
	}

	comments, err := s.commentRepo.GetByDebateID(ctx, job.DebateID)
	if err != nil {
		s.markJobFailed(ctx, jobID, "failed to load comments: "+err.Error())
		return err
	}

	if err := s.jobRepo.UpdateStatus(ctx, jobID, models.JobStatusInProgress); err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, s.pipelineTimeout)
	defer cancel()

	// progress callbacks write through to the job row so pollers see
	// stage-level progress; a failed write must not abort the pipeline
	scorer := s.scorer.withStageCallback(func(stage, status string) {
		if err := s.updateStageStatus(ctx, jobID, stage, status); err != nil {
			log.Printf("Warning: failed to update stage %q: %v", stage, err)
		}
	})

	analysis, err := scorer.Analyze(runCtx, debate, comments)
	if err != nil {
		s.markJobFailed(ctx, jobID, "analysis failed: "+err.Error())
		return err
	}

	record := &models.VerdictRecord{
		DebateID:   debate.ID,
		Winner:     analysis.Verdict.Winner,
		Confidence: analysis.Verdict.Confidence,
		Analysis:   *analysis,
	}
	if err := s.verdictRepo.Create(ctx, record); err != nil {
		s.markJobFailed(ctx, jobID, "failed to store verdict: "+err.Error())
		return err
	}

	if err := s.debateRepo.UpdateStatus(ctx, debate.ID, models.DebateStatusAnalyzed); err != nil {
		log.Printf("Warning: failed to mark debate analyzed: %v", err)
	}

	if err := s.jobRepo.Complete(ctx, jobID); err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}

	return nil
}

// updateStageStatus updates one stage's status in the job row
func (s *AnalysisService) updateStageStatus(ctx context.Context, jobID uuid.UUID, stageName, status string) error {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return err
	}

	stages := job.Stages
	var currentStage string
	if job.CurrentStage != nil {
		currentStage = *job.CurrentStage
	}

	for i := range stages {
		if stages[i].Name == stageName {
			stages[i].Status = status
			if status == "in_progress" {
				currentStage = stageName
			}
			break
		}
	}

	return s.jobRepo.UpdateProgress(ctx, jobID, currentStage, stages)
}

// markJobFailed marks a job as failed with an error message
func (s *AnalysisService) markJobFailed(ctx context.Context, jobID uuid.UUID, errorMessage string) {
	if err := s.jobRepo.Fail(ctx, jobID, errorMessage); err != nil {
		log.Printf("Warning: failed to mark job %s failed: %v", jobID, err)
	}
}
