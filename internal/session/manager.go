// Package session resolves the current user of this store.
package session

import (
	"github.com/salesmatrix/sales-matrix/internal/kvstore"
	"github.com/salesmatrix/sales-matrix/internal/model"
)

// Manager holds the single current-user pointer. At most one session exists
// per store; there is no expiry.
type Manager struct {
	store kvstore.Store
}

// New constructs a Manager over the given store.
func New(store kvstore.Store) *Manager { return &Manager{store: store} }

// Current resolves the full record of the logged-in user by scanning the user
// collection. A dangling pointer (record deleted or renamed underneath it)
// reads as no session.
func (m *Manager) Current() (model.User, bool) {
	name, ok := m.CurrentName()
	if !ok {
		return model.User{}, false
	}
	var users []model.User
	m.store.Get(kvstore.KeyUsers, &users)
	for _, u := range users {
		if u.Username == name {
			return u, true
		}
	}
	return model.User{}, false
}

// CurrentName returns just the session pointer.
func (m *Manager) CurrentName() (string, bool) {
	var name string
	if !m.store.Get(kvstore.KeyCurrentUser, &name) || name == "" {
		return "", false
	}
	return name, true
}

// SetCurrent writes the pointer and a denormalized copy of the user payload.
func (m *Manager) SetCurrent(u model.User) error {
	if err := m.store.Set(kvstore.KeyCurrentUser, u.Username); err != nil {
		return err
	}
	return m.store.Set(kvstore.KeyCurrentProfile, u)
}

// Logout clears the pointer and the auth token. The denormalized profile copy
// is left behind; it goes stale until the next login.
func (m *Manager) Logout() error {
	if err := m.store.Delete(kvstore.KeyCurrentUser); err != nil {
		return err
	}
	return m.store.Delete(kvstore.KeyAuthToken)
}
