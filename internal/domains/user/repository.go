package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence for user accounts
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, user *User) error
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}
