// Package remote is the best-effort client for the mirror service.
//
// Every call is idempotent at the record level (full overwrite of a keyed
// record). Failures come back as explicit errors (ErrRemoteUnavailable for
// network or missing configuration) and the local store stays authoritative;
// callers pick the fallback branch themselves.
package remote

import (
	"context"

	"github.com/salesmatrix/sales-matrix/internal/model"
)

// LoginResult is the directory's answer to a successful login.
type LoginResult struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Mirror is the capability set of the remote user/product/presence service.
type Mirror interface {
	// FetchUsers returns the remote user directory.
	FetchUsers(ctx context.Context) ([]model.User, error)
	// SaveUser overwrites the remote record keyed by username.
	SaveUser(ctx context.Context, u model.User) error
	// FetchProducts returns the remote catalog.
	FetchProducts(ctx context.Context) ([]model.Product, error)
	// SaveProduct overwrites the remote record keyed by product ID.
	SaveProduct(ctx context.Context, p model.Product) error
	// SetPresence records a liveness heartbeat for username.
	SetPresence(ctx context.Context, username string) error

	// Register creates an account in the remote directory.
	Register(ctx context.Context, username, email, password string) error
	// Login authenticates against the remote directory.
	Login(ctx context.Context, identifier, password string) (LoginResult, error)
	// SendOTP asks the delivery function to mail a passcode.
	SendOTP(ctx context.Context, email, code string) error
	// QueryAI forwards a message to the AI proxy and returns its reply.
	QueryAI(ctx context.Context, message string) (string, error)
}

// Disabled is the Mirror used when no endpoint is configured: every call
// degrades to the unavailable branch without touching the network.
type Disabled struct{}

var _ Mirror = Disabled{}
