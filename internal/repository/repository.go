// Package repository declares the storage interfaces the service layer
// depends on. Concrete implementations live in subpackages (sqlite).
package repository

import (
	"context"

	"github.com/healthtrack/backend/internal/model"
)

// UserRepository persists user accounts.
//
// Create assigns ID and CreatedAt on the passed struct. A duplicate email
// must surface as apperror.ErrConflict — the UNIQUE constraint in the store
// is the authoritative uniqueness check, closing the window left by the
// service's friendlier pre-check.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// ActivityRepository persists activities. List and Stats are scoped to a
// single user; GetByID is not (ownership is the service's concern).
type ActivityRepository interface {
	Create(ctx context.Context, activity *model.Activity) error
	GetByID(ctx context.Context, id string) (*model.Activity, error)
	ListByUser(ctx context.Context, userID string) ([]model.Activity, error)
	Delete(ctx context.Context, id string) error
	StatsByUser(ctx context.Context, userID string) (*model.ActivityStats, error)
}
