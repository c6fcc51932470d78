package repository

import (
	"context"

	"threadjudge-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DebateRepository handles database operations for debates
type DebateRepository struct {
	db *pgxpool.Pool
}

// NewDebateRepository creates a new debate repository
func NewDebateRepository(db *pgxpool.Pool) *DebateRepository {
	return &DebateRepository{db: db}
}

// Create creates a new debate
func (r *DebateRepository) Create(ctx context.Context, debate *models.Debate) error {
	query := `
		INSERT INTO debates (
			title, central_question, pro_position, con_position, status, comment_count
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		debate.Title,
		debate.CentralQuestion,
		debate.ProPosition,
		debate.ConPosition,
		debate.Status,
		debate.CommentCount,
	).Scan(&debate.ID, &debate.CreatedAt, &debate.UpdatedAt)

	return err
}

// GetByID retrieves a debate by ID
func (r *DebateRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Debate, error) {
	debate := &models.Debate{}
	query := `
		SELECT id, title, central_question, pro_position, con_position,
			status, comment_count, created_at, updated_at
		FROM debates
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&debate.ID,
		&debate.Title,
		&debate.CentralQuestion,
		&debate.ProPosition,
		&debate.ConPosition,
		&debate.Status,
		&debate.CommentCount,
		&debate.CreatedAt,
		&debate.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return debate, nil
}

// List retrieves debates newest first
func (r *DebateRepository) List(ctx context.Context, limit, offset int) ([]*models.Debate, error) {
	query := `
		SELECT id, title, central_question, pro_position, con_position,
			status, comment_count, created_at, updated_at
		FROM debates
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	debates := make([]*models.Debate, 0)
	for rows.Next() {
		debate := &models.Debate{}
		err := rows.Scan(
			&debate.ID,
			&debate.Title,
			&debate.CentralQuestion,
			&debate.ProPosition,
			&debate.ConPosition,
			&debate.Status,
			&debate.CommentCount,
			&debate.CreatedAt,
			&debate.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		debates = append(debates, debate)
	}

	return debates, rows.Err()
}

// UpdateStatus updates a debate's lifecycle status
func (r *DebateRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.DebateStatus) error {
	query := `
		UPDATE debates SET
			status = $2,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, status)
	return err
}

// Delete deletes a debate and its dependent rows
func (r *DebateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM debates WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id)
	return err
}
