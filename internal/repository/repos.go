package repository

import (
	"context"
	"time"

	"github.com/salesmatrix/sales-matrix/internal/model"
)

// ProductRepository provides access to the mirrored catalog.
type ProductRepository interface {
	// List returns all products.
	List(ctx context.Context) ([]model.Product, error)
	// Upsert overwrites the record keyed by product ID (mirror write).
	Upsert(ctx context.Context, p *model.Product) error
}

// PasscodeRepository keeps at most one live code per email.
type PasscodeRepository interface {
	// Put stores the code for email, superseding any prior one.
	Put(ctx context.Context, email, code string, issuedAt, expiresAt time.Time) error
	// Get loads the live code for email.
	Get(ctx context.Context, email string) (code string, expiresAt time.Time, err error)
	// Delete removes the live code for email.
	Delete(ctx context.Context, email string) error
}

// PresenceRepository records heartbeat timestamps, last writer wins.
type PresenceRepository interface {
	// Set overwrites the heartbeat for username.
	Set(ctx context.Context, username string, at time.Time) error
	// Get returns the last heartbeat for username.
	Get(ctx context.Context, username string) (time.Time, error)
}

// AuditRepository appends audit trail records.
type AuditRepository interface {
	// Record inserts an audit entry.
	Record(ctx context.Context, rec *model.AuditRecord) error
}
