package repository

import (
	"context"

	"threadjudge-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VerdictRepository handles database operations for persisted verdicts
type VerdictRepository struct {
	db *pgxpool.Pool
}

// NewVerdictRepository creates a new verdict repository
func NewVerdictRepository(db *pgxpool.Pool) *VerdictRepository {
	return &VerdictRepository{db: db}
}

// Create stores a completed analysis
func (r *VerdictRepository) Create(ctx context.Context, record *models.VerdictRecord) error {
	query := `
		INSERT INTO verdicts (
			debate_id, winner, confidence, analysis
		) VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRow(
		ctx, query,
		record.DebateID,
		record.Winner,
		record.Confidence,
		record.Analysis,
	).Scan(&record.ID, &record.CreatedAt)

	return err
}

// GetByDebateID retrieves the latest verdict for a debate
func (r *VerdictRepository) GetByDebateID(ctx context.Context, debateID uuid.UUID) (*models.VerdictRecord, error) {
	record := &models.VerdictRecord{}
	query := `
		SELECT id, debate_id, winner, confidence, analysis, created_at
		FROM verdicts
		WHERE debate_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	err := r.db.QueryRow(ctx, query, debateID).Scan(
		&record.ID,
		&record.DebateID,
		&record.Winner,
		&record.Confidence,
		&record.Analysis,
		&record.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return record, nil
}
