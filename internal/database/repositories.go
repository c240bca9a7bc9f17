package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/mwhitfield/eightball/internal/models"
)

// DecisionRepositoryInterface defines the decision repository operations.
// This interface enables better testability by allowing mock implementations
type DecisionRepositoryInterface interface {
	Create(ctx context.Context, decision *models.Decision) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Decision, error)
	ListByUser(ctx context.Context, userID uuid.UUID, mode *models.Mode, page, limit int) ([]*models.Decision, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

// UserRepositoryInterface defines the user repository operations
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByProviderID(ctx context.Context, providerID string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Ensure concrete types implement the interfaces
var (
	_ DecisionRepositoryInterface = (*DecisionRepository)(nil)
	_ UserRepositoryInterface     = (*UserRepository)(nil)
)
