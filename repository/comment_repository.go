package repository

import (
	"context"

	"threadjudge-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CommentRepository handles database operations for debate comments
type CommentRepository struct {
	db *pgxpool.Pool
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db}
}

// CreateBatch inserts a debate's comments in one transaction. Comment ids
// are caller-supplied and only unique within the debate.
func (r *CommentRepository) CreateBatch(ctx context.Context, comments []*models.Comment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO comments (
			id, debate_id, author, text, timestamp, parent_id, engagement
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, c := range comments {
		_, err := tx.Exec(
			ctx, query,
			c.ID,
			c.DebateID,
			c.Author,
			c.Text,
			c.Timestamp,
			c.ParentID,
			c.Engagement,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetByDebateID retrieves all comments of a debate in thread order
func (r *CommentRepository) GetByDebateID(ctx context.Context, debateID uuid.UUID) ([]*models.Comment, error) {
	query := `
		SELECT id, debate_id, author, text, timestamp, parent_id, engagement, created_at
		FROM comments
		WHERE debate_id = $1
		ORDER BY timestamp ASC`

	rows, err := r.db.Query(ctx, query, debateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]*models.Comment, 0)
	for rows.Next() {
		c := &models.Comment{}
		err := rows.Scan(
			&c.ID,
			&c.DebateID,
			&c.Author,
			&c.Text,
			&c.Timestamp,
			&c.ParentID,
			&c.Engagement,
			&c.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}
