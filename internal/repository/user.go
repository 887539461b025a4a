package repository

import (
	"context"

	"cashtrackr/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByToken(ctx context.Context, token string) (*domain.User, error)
	// EmailInUseByOther reports whether the email belongs to a user other
	// than excludeID.
	EmailInUseByOther(ctx context.Context, email string, excludeID int64) (bool, error)
	Update(ctx context.Context, user *domain.User) error
}
