package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mwhitfield/eightball/internal/models"
)

// DecisionRepository handles decision database operations
type DecisionRepository struct {
	db *DB
}

// NewDecisionRepository creates a new decision repository
func NewDecisionRepository(db *DB) *DecisionRepository {
	return &DecisionRepository{db: db}
}

// Create persists a new decision. The caller assigns the ID; created_at and
// seq are assigned here.
func (r *DecisionRepository) Create(ctx context.Context, decision *models.Decision) error {
	query := `
		INSERT INTO decisions (id, user_id, question, answer, mode, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, seq
	`

	err := r.db.QueryRowContext(ctx, query,
		decision.ID,
		decision.UserID,
		decision.Question,
		decision.Answer,
		decision.Mode,
		time.Now(),
	).Scan(&decision.CreatedAt, &decision.Seq)

	if err != nil {
		return fmt.Errorf("failed to create decision: %w", err)
	}

	return nil
}

// GetByID retrieves a decision by ID
func (r *DecisionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Decision, error) {
	decision := &models.Decision{}
	query := `
		SELECT id, user_id, question, answer, mode, created_at, seq
		FROM decisions
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&decision.ID,
		&decision.UserID,
		&decision.Question,
		&decision.Answer,
		&decision.Mode,
		&decision.CreatedAt,
		&decision.Seq,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("decision not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get decision: %w", err)
	}

	return decision, nil
}

// ListByUser retrieves one page of a user's decisions, newest first, with an
// optional mode filter. Returns the page and the total matching row count
// (counted before pagination).
func (r *DecisionRepository) ListByUser(ctx context.Context, userID uuid.UUID, mode *models.Mode, page, limit int) ([]*models.Decision, int, error) {
	where, args := historyFilter(userID, mode)

	countQuery := "SELECT COUNT(*) FROM decisions " + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count decisions: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, question, answer, mode, created_at, seq
		FROM decisions %s
		ORDER BY created_at DESC, seq DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query decisions: %w", err)
	}
	defer rows.Close()

	var decisions []*models.Decision
	for rows.Next() {
		decision := &models.Decision{}
		err := rows.Scan(
			&decision.ID,
			&decision.UserID,
			&decision.Question,
			&decision.Answer,
			&decision.Mode,
			&decision.CreatedAt,
			&decision.Seq,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan decision: %w", err)
		}
		decisions = append(decisions, decision)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating decisions: %w", err)
	}

	return decisions, total, nil
}

// historyFilter builds the WHERE clause shared by the page and count queries.
func historyFilter(userID uuid.UUID, mode *models.Mode) (string, []any) {
	where := "WHERE user_id = $1"
	args := []any{userID}
	if mode != nil {
		where += fmt.Sprintf(" AND mode = $%d", len(args)+1)
		args = append(args, string(*mode))
	}
	return where, args
}

// Delete deletes a decision by ID
func (r *DecisionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM decisions WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete decision: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("decision not found: %w", sql.ErrNoRows)
	}

	return nil
}

// DeleteByUser removes every decision owned by userID. Deleting zero rows is
// not an error.
func (r *DecisionRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM decisions WHERE user_id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear decisions: %w", err)
	}

	return nil
}
