// Package service contains the application services behind the mirror API.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/salesmatrix/sales-matrix/internal/errs"
	"github.com/salesmatrix/sales-matrix/internal/model"
	"github.com/salesmatrix/sales-matrix/internal/repository"
)

// DirectoryService registers and authenticates users of the remote directory.
type DirectoryService interface {
	// Register creates a new user.
	Register(ctx context.Context, username, email, password string) (userID string, err error)
	// Login authenticates by username or email and issues an access token.
	Login(ctx context.Context, identifier, password string) (token string, user model.User, err error)
}

type DirectoryServiceImpl struct {
	users     repository.UserRepository
	audit     repository.AuditRepository
	signKey   []byte
	accessTTL time.Duration
	validate  *validator.Validate
	now       func() time.Time
}

// NewDirectoryService constructs DirectoryService with required dependencies.
func NewDirectoryService(users repository.UserRepository, audit repository.AuditRepository, signKey []byte, accessTTL time.Duration) *DirectoryServiceImpl {
	return &DirectoryServiceImpl{
		users:     users,
		audit:     audit,
		signKey:   signKey,
		accessTTL: accessTTL,
		validate:  validator.New(),
		now:       time.Now,
	}
}

// Register validates input and creates the user record. Passwords are kept
// as received; this directory offers no hardening guarantees.
func (s *DirectoryServiceImpl) Register(ctx context.Context, username, email, password string) (string, error) {
	u := model.User{Username: username, Email: email, Password: password}
	if err := s.validate.Struct(u); err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrValidation, err)
	}
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	u.ID = id
	u.Role = "user"
	u.CreatedAt = s.now()
	if err := s.users.Create(ctx, &u); err != nil {
		return "", err
	}
	s.record(ctx, id, "register", username)
	return id.String(), nil
}

// Login compares credentials and issues a signed HS256 JWT.
func (s *DirectoryServiceImpl) Login(ctx context.Context, identifier, password string) (string, model.User, error) {
	if identifier == "" || password == "" {
		return "", model.User{}, errs.ErrValidation
	}
	u, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil || u.Password != password {
		if err != nil && !errors.Is(err, errs.ErrNotFound) {
			return "", model.User{}, err
		}
		// hide existence of the user on wrong password
		return "", model.User{}, errs.ErrUnauthorized
	}
	token, err := s.issueAccessToken(u.ID)
	if err != nil {
		return "", model.User{}, err
	}
	s.record(ctx, u.ID, "login", u.Username)
	return token, *u, nil
}

// issueAccessToken creates a signed HS256 JWT for the given subject.
func (s *DirectoryServiceImpl) issueAccessToken(userID uuid.UUID) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.signKey)
}

// record appends an audit row, best-effort.
func (s *DirectoryServiceImpl) record(ctx context.Context, userID uuid.UUID, action, meta string) {
	if s.audit == nil {
		return
	}
	id, err := uuid.NewV4()
	if err != nil {
		return
	}
	_ = s.audit.Record(ctx, &model.AuditRecord{
		ID:     id,
		UserID: userID,
		Action: action,
		Meta:   meta,
		Time:   s.now(),
	})
}
