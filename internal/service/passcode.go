package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/salesmatrix/sales-matrix/internal/errs"
	"github.com/salesmatrix/sales-matrix/internal/otp"
	"github.com/salesmatrix/sales-matrix/internal/repository"
)

// Mailer delivers a passcode to an email address.
type Mailer interface {
	Deliver(ctx context.Context, email, code string) error
}

// LogMailer is the fallback delivery channel: the code goes to the server
// log (operator/console) instead of a mailbox.
type LogMailer struct{ Log *zap.Logger }

func (m LogMailer) Deliver(_ context.Context, email, code string) error {
	m.Log.Info("otp issued", zap.String("email", email), zap.String("code", code))
	return nil
}

// PasscodeService is the server-side counterpart of the signup code flow.
type PasscodeService struct {
	codes  repository.PasscodeRepository
	mailer Mailer
	ttl    time.Duration
	log    *zap.Logger
	now    func() time.Time
}

// NewPasscodeService constructs PasscodeService with required dependencies.
func NewPasscodeService(codes repository.PasscodeRepository, mailer Mailer, log *zap.Logger) *PasscodeService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PasscodeService{codes: codes, mailer: mailer, ttl: otp.TTL, log: log, now: time.Now}
}

// Send issues a code for email (superseding any live one) and attempts
// delivery. Delivery failure is logged; the issued state stands.
func (s *PasscodeService) Send(ctx context.Context, email string) error {
	if email == "" {
		return errs.ErrValidation
	}
	code, err := otp.Generate()
	if err != nil {
		return err
	}
	now := s.now()
	if err := s.codes.Put(ctx, email, code, now, now.Add(s.ttl)); err != nil {
		return err
	}
	if err := s.mailer.Deliver(ctx, email, code); err != nil {
		s.log.Warn("otp delivery failed", zap.String("email", email), zap.Error(err))
	}
	return nil
}

// Store records a client-generated code (serverless-style delivery endpoint
// where the caller already holds the code) and delivers it.
func (s *PasscodeService) Store(ctx context.Context, email, code string) error {
	if email == "" || len(code) != 6 {
		return errs.ErrValidation
	}
	now := s.now()
	if err := s.codes.Put(ctx, email, code, now, now.Add(s.ttl)); err != nil {
		return err
	}
	if err := s.mailer.Deliver(ctx, email, code); err != nil {
		s.log.Warn("otp delivery failed", zap.String("email", email), zap.Error(err))
	}
	return nil
}

// Verify checks candidate for email, expiry before equality; single use.
func (s *PasscodeService) Verify(ctx context.Context, email, candidate string) error {
	code, expiresAt, err := s.codes.Get(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.ErrNotFound
		}
		return err
	}
	if s.now().After(expiresAt) {
		_ = s.codes.Delete(ctx, email)
		return errs.ErrCodeExpired
	}
	if code != candidate {
		return errs.ErrCodeMismatch
	}
	return s.codes.Delete(ctx, email)
}
