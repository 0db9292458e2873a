// Package otp issues and verifies the one-time passcodes gating signup.
package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/salesmatrix/sales-matrix/internal/errs"
	"github.com/salesmatrix/sales-matrix/internal/kvstore"
	"github.com/salesmatrix/sales-matrix/internal/model"
	"github.com/salesmatrix/sales-matrix/internal/remote"
)

// TTL is how long an issued code stays valid.
const TTL = 10 * time.Minute

// Flow manages at most one live code per email: issuing a new one supersedes
// the previous, verification is single-use.
type Flow struct {
	store  kvstore.Store
	mirror remote.Mirror
	log    *zap.Logger
	now    func() time.Time
}

// New constructs a Flow over the local store and the delivery channel.
func New(store kvstore.Store, mirror remote.Mirror, log *zap.Logger) *Flow {
	if log == nil {
		log = zap.NewNop()
	}
	return &Flow{store: store, mirror: mirror, log: log, now: time.Now}
}

// Generate returns a uniform random 6-digit code.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// Send issues a fresh code for email, overwriting any prior live code, and
// attempts best-effort remote delivery. The code is always returned to the
// caller as the fallback delivery channel (surfaced on the console when no
// mailer is reachable).
func (f *Flow) Send(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", errs.ErrValidation
	}
	code, err := Generate()
	if err != nil {
		return "", err
	}
	pc := model.Passcode{
		Email:    email,
		Code:     code,
		IssuedAt: f.now().UnixMilli(),
		TTL:      TTL.Milliseconds(),
	}
	if err := f.store.Set(kvstore.PrefixPasscode+email, pc); err != nil {
		return "", err
	}
	if err := f.mirror.SendOTP(ctx, email, code); err != nil {
		f.log.Debug("otp delivery failed, code returned to caller",
			zap.String("email", email), zap.Error(err))
	}
	return code, nil
}

// Verify checks candidate against the live code for email.
//
// Expiry is checked before equality, so a correct-but-late code reports
// ErrCodeExpired (and clears the state) rather than ErrCodeMismatch. A
// mismatch keeps the state so the user can retry; a match consumes it.
func (f *Flow) Verify(email, candidate string) error {
	key := kvstore.PrefixPasscode + email
	var pc model.Passcode
	if !f.store.Get(key, &pc) {
		return errs.ErrNotFound
	}
	if f.now().UnixMilli()-pc.IssuedAt > pc.TTL {
		_ = f.store.Delete(key)
		return errs.ErrCodeExpired
	}
	if pc.Code != candidate {
		return errs.ErrCodeMismatch
	}
	return f.store.Delete(key)
}

// Remaining reports how long the live code for email stays valid; zero when
// none is issued or it already lapsed.
func (f *Flow) Remaining(email string) time.Duration {
	var pc model.Passcode
	if !f.store.Get(kvstore.PrefixPasscode+email, &pc) {
		return 0
	}
	left := pc.TTL - (f.now().UnixMilli() - pc.IssuedAt)
	if left <= 0 {
		return 0
	}
	return time.Duration(left) * time.Millisecond
}
