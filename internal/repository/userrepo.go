// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/salesmatrix/sales-matrix/internal/model"
)

// UserRepository provides access to the server-side user directory.
type UserRepository interface {
	// Create inserts a new user.
	Create(ctx context.Context, u *model.User) error
	// GetByIdentifier loads a user by username or email.
	GetByIdentifier(ctx context.Context, identifier string) (*model.User, error)
	// List returns all users.
	List(ctx context.Context) ([]model.User, error)
	// Upsert overwrites the record keyed by username (mirror write).
	Upsert(ctx context.Context, u *model.User) error
}
