package ports

import (
	"context"

	"github.com/Sukhirthan10/expense-tracker/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}
