// Package chat stores peer-to-peer conversations as ordered message logs.
package chat

import (
	"sort"
	"strings"
	"time"

	"github.com/salesmatrix/sales-matrix/internal/kvstore"
	"github.com/salesmatrix/sales-matrix/internal/model"
)

// Key derives the storage key for a participant pair. Usernames are sorted
// lexicographically so both sides address the same log regardless of who
// initiates: Key(a,b) == Key(b,a).
func Key(a, b string) string {
	names := []string{a, b}
	sort.Strings(names)
	return kvstore.PrefixChat + names[0] + "_" + names[1]
}

// Session reads and appends pair conversations in the local store.
type Session struct {
	store kvstore.Store
	now   func() time.Time
}

// New constructs a Session over the given store.
func New(store kvstore.Store) *Session {
	return &Session{store: store, now: time.Now}
}

// Send appends a message from sender to the pair log with peer. Empty or
// whitespace-only text is a silent no-op. The whole log is rewritten
// (read-modify-write); concurrent senders in other processes can race and
// lose a message, an accepted limitation.
func (s *Session) Send(sender, peer, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	key := Key(sender, peer)
	var msgs []model.ChatMessage
	s.store.Get(key, &msgs)
	msgs = append(msgs, model.ChatMessage{
		Sender: sender,
		Text:   text,
		Time:   s.now().UnixMilli(),
	})
	return s.store.Set(key, msgs)
}

// History returns the pair log in insertion (chronological) order.
func (s *Session) History(a, b string) []model.ChatMessage {
	var msgs []model.ChatMessage
	s.store.Get(Key(a, b), &msgs)
	return msgs
}

// SavedContacts returns the saved-contact usernames.
func (s *Session) SavedContacts() []string {
	var saved []string
	s.store.Get(kvstore.KeySavedContacts, &saved)
	return saved
}

// ToggleContact adds username to the saved list or removes it if present,
// reporting whether it is saved afterwards.
func (s *Session) ToggleContact(username string) (bool, error) {
	var saved []string
	s.store.Get(kvstore.KeySavedContacts, &saved)
	for i, name := range saved {
		if name == username {
			saved = append(saved[:i], saved[i+1:]...)
			return false, s.store.Set(kvstore.KeySavedContacts, saved)
		}
	}
	saved = append(saved, username)
	return true, s.store.Set(kvstore.KeySavedContacts, saved)
}
