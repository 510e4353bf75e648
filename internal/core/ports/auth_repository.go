package ports

import (
	"context"

	"github.com/salestrack/salestrack-api/internal/core/domain"
)

// AuthRepository defines the interface for user credential persistence.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// IncrementTokenVersion atomically raises the user's token version by one
	// and returns the new value. Two concurrent calls never return the same value.
	IncrementTokenVersion(ctx context.Context, userID string) (int64, error)

	// GetTokenVersion returns the latest committed token version.
	GetTokenVersion(ctx context.Context, userID string) (int64, error)
}
