package ports

import (
	"context"

	"github.com/salestrack/salestrack-api/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Validate(ctx context.Context, token string) (*domain.Principal, error)
}
