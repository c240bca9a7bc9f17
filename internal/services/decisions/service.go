package decisions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mwhitfield/eightball/internal/database"
	"github.com/mwhitfield/eightball/internal/models"
	"github.com/mwhitfield/eightball/internal/services/ai"
	"github.com/mwhitfield/eightball/internal/validation"
)

const (
	// DefaultPageSize is the history page size when the caller does not supply one
	DefaultPageSize = 20
	// MaxPageSize caps the history page size
	MaxPageSize = 100
	// DefaultGenerationTimeout bounds a single call to the text generator
	DefaultGenerationTimeout = 10 * time.Second
)

// Pagination describes one page of a history listing
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// Service implements decision creation, history listing, and deletion
type Service struct {
	repo    database.DecisionRepositoryInterface
	gen     ai.Generator
	timeout time.Duration
	logger  *zap.Logger
}

// NewService creates a decision service. A zero timeout falls back to
// DefaultGenerationTimeout.
func NewService(repo database.DecisionRepositoryInterface, gen ai.Generator, timeout time.Duration, logger *zap.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	return &Service{
		repo:    repo,
		gen:     gen,
		timeout: timeout,
		logger:  logger,
	}
}

// Create asks the generator for an answer in the requested personality and
// persists the resulting decision. Nothing is written when generation fails.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, question, mode string) (*models.Decision, error) {
	question = validation.SanitizeText(question)
	if question == "" {
		return nil, ErrQuestionRequired
	}

	m := models.ModeNormal
	if mode != "" {
		parsed, ok := models.ParseMode(mode)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
		}
		m = parsed
	}

	prompt := ai.BuildPrompt(question, m)

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	answer, err := s.gen.Generate(genCtx, prompt)
	if err != nil {
		if ai.IsRateLimitError(err) {
			s.logger.Warn("decision_generation_rate_limited",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
		} else {
			s.logger.Error("decision_generation_failed",
				zap.String("user_id", userID.String()),
				zap.String("mode", string(m)),
				zap.Error(err),
			)
		}
		return nil, &GenerationError{Err: err}
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, &GenerationError{Err: ai.ErrEmptyResponse}
	}

	decision := &models.Decision{
		ID:       uuid.New(),
		UserID:   userID,
		Question: question,
		Answer:   answer,
		Mode:     m,
	}

	if err := s.repo.Create(ctx, decision); err != nil {
		return nil, fmt.Errorf("failed to store decision: %w", err)
	}

	s.logger.Info("decision_created",
		zap.String("decision_id", decision.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("mode", string(m)),
	)

	return decision, nil
}

// List returns one page of the user's decision history, most recent first.
// Out-of-range page and limit values are clamped rather than rejected, and
// an unrecognized mode filter is ignored so the unfiltered history is
// returned instead of an error.
func (s *Service) List(ctx context.Context, userID uuid.UUID, page, limit int, modeFilter string) ([]*models.Decision, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	var mode *models.Mode
	if modeFilter != "" {
		if parsed, ok := models.ParseMode(modeFilter); ok {
			mode = &parsed
		}
	}

	items, total, err := s.repo.ListByUser(ctx, userID, mode, page, limit)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("failed to list decisions: %w", err)
	}

	return items, Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// DeleteOne removes a single decision. Nonexistence is reported before
// ownership, so probing another user's decision IDs reveals only that a
// given ID does or does not exist.
func (s *Service) DeleteOne(ctx context.Context, userID, decisionID uuid.UUID) error {
	decision, err := s.repo.GetByID(ctx, decisionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrDecisionNotFound
		}
		return fmt.Errorf("failed to load decision: %w", err)
	}

	if decision.UserID != userID {
		return ErrNotDecisionOwner
	}

	if err := s.repo.Delete(ctx, decisionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrDecisionNotFound
		}
		return fmt.Errorf("failed to delete decision: %w", err)
	}

	s.logger.Info("decision_deleted",
		zap.String("decision_id", decisionID.String()),
		zap.String("user_id", userID.String()),
	)

	return nil
}

// DeleteAll removes every decision belonging to the user. Deleting an
// already-empty history succeeds.
func (s *Service) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete decisions: %w", err)
	}

	s.logger.Info("history_cleared",
		zap.String("user_id", userID.String()),
	)

	return nil
}
