package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"threadjudge-backend/models"
	"threadjudge-backend/repository"
	"threadjudge-backend/storage"

	"github.com/google/uuid"
)

// ReportService renders completed analyses into exportable judge reports
// and persists them to report storage
type ReportService struct {
	debateRepo  *repository.DebateRepository
	verdictRepo *repository.VerdictRepository
	store       storage.Storage
}

// ReportServiceOption is a functional option for ReportService
type ReportServiceOption func(*ReportService)

// ReportWithDebateRepository sets the debate repository
func ReportWithDebateRepository(repo *repository.DebateRepository) ReportServiceOption {
	return func(s *ReportService) {
		s.debateRepo = repo
	}
}

// ReportWithVerdictRepository sets the verdict repository
func ReportWithVerdictRepository(repo *repository.VerdictRepository) ReportServiceOption {
	return func(s *ReportService) {
		s.verdictRepo = repo
	}
}

// ReportWithStorage sets the report storage backend
func ReportWithStorage(store storage.Storage) ReportServiceOption {
	return func(s *ReportService) {
		s.store = store
	}
}

// NewReportService creates a new report service
func NewReportService(opts ...ReportServiceOption) *ReportService {
	s := &ReportService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReportFormat selects the export rendering
type ReportFormat string

const (
	ReportFormatJSON ReportFormat = "json"
	ReportFormatText ReportFormat = "text"
)

var ErrUnknownReportFormat = errors.New("unknown report format")

// ExportReportRequest represents a request to export a debate's report
type ExportReportRequest struct {
	DebateID uuid.UUID
	Format   ReportFormat
}

// ExportReportResult represents an exported report
type ExportReportResult struct {
	Key         string
	ContentType string
	Content     []byte
}

// ExportReport renders the debate's latest verdict in the requested
// format, stores it, and returns the rendered bytes so handlers can
// stream them without a second storage round trip.
func (s *ReportService) ExportReport(ctx context.Context, req ExportReportRequest) (*ExportReportResult, error) {
	if s.debateRepo == nil || s.verdictRepo == nil {
		return nil, errors.New("repositories not set")
	}
	if s.store == nil {
		return nil, errors.New("report storage not set")
	}

	debate, err := s.debateRepo.GetByID(ctx, req.DebateID)
	if err != nil {
		return nil, ErrDebateNotFound
	}

	record, err := s.verdictRepo.GetByDebateID(ctx, req.DebateID)
	if err != nil {
		return nil, ErrVerdictNotFound
	}

	var content []byte
	var contentType, ext string
	switch req.Format {
	case ReportFormatJSON, "":
		content, err = json.MarshalIndent(record.Analysis, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to render report: %w", err)
		}
		contentType, ext = "application/json", "json"
	case ReportFormatText:
		content = []byte(renderTextReport(debate, &record.Analysis))
		contentType, ext = "text/plain", "txt"
	default:
		return nil, ErrUnknownReportFormat
	}

	key := storage.BuildKey(debate.ID, uuid.New(), ext)
	if err := s.store.Put(ctx, key, contentType, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to store report: %w", err)
	}

	return &ExportReportResult{
		Key:         key,
		ContentType: contentType,
		Content:     content,
	}, nil
}

// renderTextReport assembles the human-readable judge report from the
// structured analysis
func renderTextReport(debate *models.Debate, analysis *models.DebateAnalysis) string {
	var b strings.Builder
	v := analysis.Verdict

	b.WriteString("DEBATE JUDGMENT REPORT\n\n")
	b.WriteString(fmt.Sprintf("Question: %s\n", debate.CentralQuestion))
	if debate.Title != "" && debate.Title != debate.CentralQuestion {
		b.WriteString(fmt.Sprintf("Title: %s\n", debate.Title))
	}
	b.WriteString(fmt.Sprintf("Analyzed: %s\n\n", analysis.AnalyzedAt.Format("2006-01-02 15:04 MST")))

	b.WriteString("VERDICT\n")
	b.WriteString(fmt.Sprintf("Winner: %s (confidence %.0f%%)\n", v.Winner, v.Confidence))
	b.WriteString(fmt.Sprintf("Points: pro %.1f, con %.1f (margin %.1f)\n", v.ProPoints, v.ConPoints, v.Margin))
	b.WriteString(fmt.Sprintf("Display scores: pro %.0f/100, con %.0f/100\n\n", v.ProScore, v.ConScore))
	b.WriteString(v.Summary + "\n\n")

	if len(v.VotingIssues) > 0 {
		b.WriteString("VOTING ISSUES\n")
		for i, vi := range v.VotingIssues {
			b.WriteString(fmt.Sprintf("%d. %s (weight %.1f)\n", i+1, vi.Topic, vi.Weight))
		}
		b.WriteString("\n")
	}

	b.WriteString("ISSUES\n")
	for _, issue := range analysis.Issues {
		b.WriteString(fmt.Sprintf("- %s: %s (pro %.1f, con %.1f)\n", issue.Topic, issue.Winner, issue.ProPoints, issue.ConPoints))
		if issue.Reasoning != "" {
			b.WriteString(fmt.Sprintf("  %s\n", issue.Reasoning))
		}
	}
	b.WriteString("\n")

	if v.Burden.AffirmativeBurden != "" || v.Burden.NegativeBurden != "" {
		b.WriteString("BURDENS\n")
		b.WriteString(fmt.Sprintf("Pro had to prove: %s (met: %t)\n", v.Burden.AffirmativeBurden, v.Burden.ProMetBurden))
		b.WriteString(fmt.Sprintf("Con had to prove: %s (met: %t)\n", v.Burden.NegativeBurden, v.Burden.ConMetBurden))
		if v.Burden.Reasoning != "" {
			b.WriteString(v.Burden.Reasoning + "\n")
		}
		b.WriteString("\n")
	}

	if len(analysis.Speakers) > 0 {
		b.WriteString("SPEAKERS\n")
		for _, sp := range analysis.Speakers {
			b.WriteString(fmt.Sprintf("- %s (%s): %.0f points (content %.0f, style %.0f, strategy %.0f), %d args, %d won, %d lost\n",
				sp.Author, sp.Position, sp.SpeakerPoints, sp.Content, sp.Style, sp.Strategy,
				sp.ArgumentsMade, sp.ArgumentsWon, sp.ArgumentsLost))
		}
		b.WriteString("\n")
	}

	if len(v.JudgeNotes) > 0 {
		b.WriteString("JUDGE NOTES\n")
		for _, note := range v.JudgeNotes {
			b.WriteString("- " + note + "\n")
		}
	}

	return b.String()
}
