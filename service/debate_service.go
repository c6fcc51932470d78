package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"threadjudge-backend/models"
	"threadjudge-backend/repository"

	"github.com/google/uuid"
)

// DebateService handles business logic for debates
type DebateService struct {
	debateRepo  *repository.DebateRepository
	commentRepo *repository.CommentRepository
	verdictRepo *repository.VerdictRepository
}

// DebateServiceOption is a functional option for DebateService
type DebateServiceOption func(*DebateService)

// WithDebateRepository sets the debate repository
func WithDebateRepository(repo *repository.DebateRepository) DebateServiceOption {
	return func(s *DebateService) {
		s.debateRepo = repo
	}
}

// WithCommentRepository sets the comment repository
func WithCommentRepository(repo *repository.CommentRepository) DebateServiceOption {
	return func(s *DebateService) {
		s.commentRepo = repo
	}
}

// WithVerdictRepository sets the verdict repository
func WithVerdictRepository(repo *repository.VerdictRepository) DebateServiceOption {
	return func(s *DebateService) {
		s.verdictRepo = repo
	}
}

// NewDebateService creates a new debate service
func NewDebateService(opts ...DebateServiceOption) *DebateService {
	s := &DebateService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrMissingQuestion    = errors.New("debate requires a central question")
	ErrMissingComments    = errors.New("debate requires at least one comment")
	ErrDuplicateCommentID = errors.New("comment ids must be unique within a debate")
	ErrUnknownParent      = errors.New("comment references an unknown parent")
	ErrVerdictNotFound    = errors.New("no verdict for this debate")
)

// CommentInput is one caller-supplied comment of a new debate
type CommentInput struct {
	ID         string    `json:"id"`
	Author     string    `json:"author"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
	ParentID   *string   `json:"parent_id,omitempty"`
	Engagement int       `json:"engagement"`
}

// CreateDebateRequest represents a request to create a debate
type CreateDebateRequest struct {
	Title           string
	CentralQuestion string
	ProPosition     string
	ConPosition     string
	Comments        []CommentInput
}

// CreateDebateResult represents the result of creating a debate
type CreateDebateResult struct {
	Debate *models.Debate
}

// CreateDebate validates and stores a debate with its comment thread.
// Comment ids must be unique within the debate and every parent
// reference must name an earlier-listed comment.
func (s *DebateService) CreateDebate(ctx context.Context, req CreateDebateRequest) (*CreateDebateResult, error) {
	if s.debateRepo == nil || s.commentRepo == nil {
		return nil, errors.New("repositories not set")
	}

	if strings.TrimSpace(req.CentralQuestion) == "" {
		return nil, ErrMissingQuestion
	}
	if len(req.Comments) == 0 {
		return nil, ErrMissingComments
	}

	seen := make(map[string]bool, len(req.Comments))
	for _, c := range req.Comments {
		if c.ID == "" || seen[c.ID] {
			return nil, ErrDuplicateCommentID
		}
		seen[c.ID] = true
	}
	for _, c := range req.Comments {
		if c.ParentID != nil && !seen[*c.ParentID] {
			return nil, fmt.Errorf("%w: %s -> %s", ErrUnknownParent, c.ID, *c.ParentID)
		}
	}

	debate := &models.Debate{
		Title:           strings.TrimSpace(req.Title),
		CentralQuestion: strings.TrimSpace(req.CentralQuestion),
		ProPosition:     strings.TrimSpace(req.ProPosition),
		ConPosition:     strings.TrimSpace(req.ConPosition),
		Status:          models.DebateStatusPending,
		CommentCount:    len(req.Comments),
	}
	if debate.Title == "" {
		debate.Title = debate.CentralQuestion
	}

	if err := s.debateRepo.Create(ctx, debate); err != nil {
		return nil, err
	}

	comments := make([]*models.Comment, 0, len(req.Comments))
	for _, in := range req.Comments {
		comments = append(comments, &models.Comment{
			ID:         in.ID,
			DebateID:   debate.ID,
			Author:     in.Author,
			Text:       in.Text,
			Timestamp:  in.Timestamp,
			ParentID:   in.ParentID,
			Engagement: in.Engagement,
		})
	}
	if err := s.commentRepo.CreateBatch(ctx, comments); err != nil {
		return nil, err
	}

	return &CreateDebateResult{Debate: debate}, nil
}

// GetDebateRequest represents a request to get a debate
type GetDebateRequest struct {
	ID uuid.UUID
}

// GetDebateResult represents the result of getting a debate
type GetDebateResult struct {
	Debate   *models.Debate
	Comments []*models.Comment
}

// GetDebate retrieves a debate with its comments
func (s *DebateService) GetDebate(ctx context.Context, req GetDebateRequest) (*GetDebateResult, error) {
	if s.debateRepo == nil || s.commentRepo == nil {
		return nil, errors.New("repositories not set")
	}

	debate, err := s.debateRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, ErrDebateNotFound
	}

	comments, err := s.commentRepo.GetByDebateID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	return &GetDebateResult{Debate: debate, Comments: comments}, nil
}

// ListDebatesRequest represents a request to list debates
type ListDebatesRequest struct {
	Limit  int
	Offset int
}

// ListDebatesResult represents the result of listing debates
type ListDebatesResult struct {
	Debates []*models.Debate
}

// ListDebates retrieves debates newest first
func (s *DebateService) ListDebates(ctx context.Context, req ListDebatesRequest) (*ListDebatesResult, error) {
	if s.debateRepo == nil {
		return nil, errors.New("debate repository not set")
	}

	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	debates, err := s.debateRepo.List(ctx, limit, req.Offset)
	if err != nil {
		return nil, err
	}

	return &ListDebatesResult{Debates: debates}, nil
}

// GetVerdictRequest represents a request to get a debate's verdict
type GetVerdictRequest struct {
	DebateID uuid.UUID
}

// GetVerdictResult represents the result of getting a verdict
type GetVerdictResult struct {
	Verdict *models.VerdictRecord
}

// GetVerdict retrieves the latest verdict for a debate
func (s *DebateService) GetVerdict(ctx context.Context, req GetVerdictRequest) (*GetVerdictResult, error) {
	if s.verdictRepo == nil {
		return nil, errors.New("verdict repository not set")
	}

	record, err := s.verdictRepo.GetByDebateID(ctx, req.DebateID)
	if err != nil {
		return nil, ErrVerdictNotFound
	}

	return &GetVerdictResult{Verdict: record}, nil
}
