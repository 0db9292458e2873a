// Package account implements signup, login and profile settings over the
// local store with best-effort remote mirroring.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/salesmatrix/sales-matrix/internal/errs"
	"github.com/salesmatrix/sales-matrix/internal/kvstore"
	"github.com/salesmatrix/sales-matrix/internal/model"
	"github.com/salesmatrix/sales-matrix/internal/otp"
	"github.com/salesmatrix/sales-matrix/internal/remote"
	"github.com/salesmatrix/sales-matrix/internal/session"
)

// MaxPictureBytes caps the profile picture data URI size.
const MaxPictureBytes = 5 << 20

// activityWindow is how many of the user's recent activities are shown.
const activityWindow = 15

type credentials struct {
	Username string `validate:"required,min=3,max=20"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// Service ties the local user collection, the session pointer, the passcode
// flow and the remote directory together.
type Service struct {
	store    kvstore.Store
	mirror   remote.Mirror
	sessions *session.Manager
	codes    *otp.Flow
	validate *validator.Validate
	log      *zap.Logger
	now      func() time.Time
}

// New constructs the account service.
func New(store kvstore.Store, mirror remote.Mirror, sessions *session.Manager, codes *otp.Flow, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:    store,
		mirror:   mirror,
		sessions: sessions,
		codes:    codes,
		validate: validator.New(),
		log:      log,
		now:      time.Now,
	}
}

// BeginSignup validates the signup input and issues a passcode for email.
// The code is returned so the caller can surface it when no mailer delivered it.
func (s *Service) BeginSignup(ctx context.Context, username, email, password string) (string, error) {
	if err := s.checkCredentials(username, email, password); err != nil {
		return "", err
	}
	if s.localUserExists(username) {
		return "", errs.ErrAlreadyExists
	}
	return s.codes.Send(ctx, email)
}

// CompleteSignup verifies the passcode and creates the account. Verification
// failures pass through (ErrNotFound, ErrCodeExpired, ErrCodeMismatch).
func (s *Service) CompleteSignup(ctx context.Context, username, email, password, code string) (model.User, error) {
	if err := s.codes.Verify(email, code); err != nil {
		return model.User{}, err
	}
	return s.Register(ctx, username, email, password)
}

// Register creates the account remote-first: when the directory is
// unreachable the user is saved locally and the session still opens (offline
// mode). A directory rejection other than unavailability aborts.
func (s *Service) Register(ctx context.Context, username, email, password string) (model.User, error) {
	if err := s.checkCredentials(username, email, password); err != nil {
		return model.User{}, err
	}

	err := s.mirror.Register(ctx, username, email, password)
	switch {
	case err == nil:
		// Registered remotely; pick up the issued token right away.
		if res, lerr := s.mirror.Login(ctx, username, password); lerr == nil {
			if serr := s.store.Set(kvstore.KeyAuthToken, res.Token); serr != nil {
				s.log.Warn("store auth token", zap.Error(serr))
			}
		}
	case errors.Is(err, errs.ErrRemoteUnavailable):
		s.log.Debug("registering locally, directory unreachable", zap.Error(err))
	default:
		return model.User{}, err
	}

	u, err := s.saveLocalUser(ctx, username, email, password)
	if err != nil {
		return model.User{}, err
	}
	if err := s.sessions.SetCurrent(u); err != nil {
		return model.User{}, err
	}
	s.LogActivity("Account created")
	return u, nil
}

// LogIn authenticates remote-first and falls back to the local collection
// when the directory is unreachable. On rejection the session is unchanged.
func (s *Service) LogIn(ctx context.Context, identifier, password string) (model.User, error) {
	if identifier == "" || password == "" {
		return model.User{}, errs.ErrValidation
	}

	res, err := s.mirror.Login(ctx, identifier, password)
	if err == nil {
		if serr := s.store.Set(kvstore.KeyAuthToken, res.Token); serr != nil {
			s.log.Warn("store auth token", zap.Error(serr))
		}
		u := res.User
		if u.Username == "" {
			u.Username = identifier
		}
		s.adoptUser(u)
		if err := s.sessions.SetCurrent(u); err != nil {
			return model.User{}, err
		}
		s.LogActivity("Logged in")
		return u, nil
	}
	if !errors.Is(err, errs.ErrRemoteUnavailable) {
		return model.User{}, err
	}

	// Offline: plaintext credential check against the local collection.
	for _, u := range s.localUsers() {
		if (u.Username == identifier || u.Email == identifier) && u.Password == password {
			if err := s.sessions.SetCurrent(u); err != nil {
				return model.User{}, err
			}
			s.LogActivity("Logged in (offline)")
			return u, nil
		}
	}
	return model.User{}, errs.ErrUnauthorized
}

// LogOut records the activity and clears the session pointer.
func (s *Service) LogOut() error {
	s.LogActivity("Logged out")
	return s.sessions.Logout()
}

// Users lists accounts, preferring the live directory and mirroring it to the
// local collection for offline use; otherwise the local collection stands.
func (s *Service) Users(ctx context.Context) []model.User {
	if users, err := s.mirror.FetchUsers(ctx); err == nil && len(users) > 0 {
		if serr := s.store.Set(kvstore.KeyUsers, users); serr != nil {
			s.log.Warn("mirror users locally", zap.Error(serr))
		}
		return users
	}
	return s.localUsers()
}

// UpdateUsername renames the current user, keeping usernames unique and
// moving the session pointer along.
func (s *Service) UpdateUsername(ctx context.Context, newName string) error {
	if err := s.validate.Var(newName, "required,min=3,max=20"); err != nil {
		return fmt.Errorf("%w: username must be 3-20 characters", errs.ErrValidation)
	}
	current, ok := s.sessions.Current()
	if !ok {
		return errs.ErrUnauthorized
	}
	users := s.localUsers()
	for _, u := range users {
		if u.Username == newName {
			return errs.ErrAlreadyExists
		}
	}
	s.LogActivity(fmt.Sprintf("Username changed from %s to %s", current.Username, newName))
	for i := range users {
		if users[i].Username == current.Username {
			users[i].Username = newName
			current = users[i]
		}
	}
	if err := s.saveUsers(ctx, users); err != nil {
		return err
	}
	return s.sessions.SetCurrent(current)
}

// UpdatePassword replaces the current user's password.
func (s *Service) UpdatePassword(ctx context.Context, newPassword string) error {
	if err := s.validate.Var(newPassword, "required,min=6"); err != nil {
		return fmt.Errorf("%w: password must be at least 6 characters", errs.ErrValidation)
	}
	current, ok := s.sessions.Current()
	if !ok {
		return errs.ErrUnauthorized
	}
	users := s.localUsers()
	for i := range users {
		if users[i].Username == current.Username {
			users[i].Password = newPassword
			current = users[i]
		}
	}
	if err := s.saveUsers(ctx, users); err != nil {
		return err
	}
	s.LogActivity("Password changed")
	return s.sessions.SetCurrent(current)
}

// UpdatePicture stores a profile picture data URI (image only, capped size).
func (s *Service) UpdatePicture(ctx context.Context, dataURI string) error {
	if !strings.HasPrefix(dataURI, "data:image/") {
		return fmt.Errorf("%w: not an image data URI", errs.ErrValidation)
	}
	if len(dataURI) > MaxPictureBytes {
		return fmt.Errorf("%w: picture too large", errs.ErrValidation)
	}
	current, ok := s.sessions.Current()
	if !ok {
		return errs.ErrUnauthorized
	}
	users := s.localUsers()
	for i := range users {
		if users[i].Username == current.Username {
			users[i].ProfilePic = dataURI
			current = users[i]
		}
	}
	if err := s.saveUsers(ctx, users); err != nil {
		return err
	}
	s.LogActivity("Changed profile picture")
	return s.sessions.SetCurrent(current)
}

// LogActivity appends an audit entry attributed to the current user. No-op
// without a session.
func (s *Service) LogActivity(action string) {
	name, ok := s.sessions.CurrentName()
	if !ok {
		return
	}
	var activities []model.Activity
	s.store.Get(kvstore.KeyActivities, &activities)
	activities = append(activities, model.Activity{
		User:   name,
		Action: action,
		Time:   s.now().UnixMilli(),
	})
	if err := s.store.Set(kvstore.KeyActivities, activities); err != nil {
		s.log.Warn("log activity", zap.Error(err))
	}
}

// Activities returns the current user's recent entries, newest first.
func (s *Service) Activities() []model.Activity {
	name, ok := s.sessions.CurrentName()
	if !ok {
		return nil
	}
	var all []model.Activity
	s.store.Get(kvstore.KeyActivities, &all)
	mine := make([]model.Activity, 0, activityWindow)
	for _, a := range all {
		if a.User == name {
			mine = append(mine, a)
		}
	}
	if len(mine) > activityWindow {
		mine = mine[len(mine)-activityWindow:]
	}
	for i, j := 0, len(mine)-1; i < j; i, j = i+1, j-1 {
		mine[i], mine[j] = mine[j], mine[i]
	}
	return mine
}

func (s *Service) checkCredentials(username, email, password string) error {
	in := credentials{Username: username, Email: email, Password: password}
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrValidation, err)
	}
	return nil
}

func (s *Service) localUsers() []model.User {
	var users []model.User
	s.store.Get(kvstore.KeyUsers, &users)
	return users
}

func (s *Service) localUserExists(username string) bool {
	for _, u := range s.localUsers() {
		if u.Username == username {
			return true
		}
	}
	return false
}

// saveLocalUser appends a fresh record to the local collection and mirrors it.
func (s *Service) saveLocalUser(ctx context.Context, username, email, password string) (model.User, error) {
	if s.localUserExists(username) {
		return model.User{}, errs.ErrAlreadyExists
	}
	id, err := uuid.NewV4()
	if err != nil {
		return model.User{}, err
	}
	u := model.User{
		ID:        id,
		Username:  username,
		Email:     email,
		Password:  password,
		Role:      "user",
		CreatedAt: s.now(),
	}
	users := append(s.localUsers(), u)
	if err := s.saveUsers(ctx, users); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// adoptUser ensures a remotely authenticated user exists in the local
// collection so scans (chat roster, session resolution) can see it.
func (s *Service) adoptUser(u model.User) {
	users := s.localUsers()
	for i := range users {
		if users[i].Username == u.Username {
			users[i] = u
			if err := s.store.Set(kvstore.KeyUsers, users); err != nil {
				s.log.Warn("save users", zap.Error(err))
			}
			return
		}
	}
	if err := s.store.Set(kvstore.KeyUsers, append(users, u)); err != nil {
		s.log.Warn("save users", zap.Error(err))
	}
}

// saveUsers writes the collection locally and pushes each record best-effort.
func (s *Service) saveUsers(ctx context.Context, users []model.User) error {
	if err := s.store.Set(kvstore.KeyUsers, users); err != nil {
		return err
	}
	for _, u := range users {
		if err := s.mirror.SaveUser(ctx, u); err != nil {
			s.log.Debug("mirror user", zap.String("user", u.Username), zap.Error(err))
		}
	}
	return nil
}
