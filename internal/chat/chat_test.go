package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/salesmatrix/sales-matrix/internal/kvstore"
)

func newSession(t *testing.T) (*Session, *time.Time) {
	t.Helper()
	s := New(kvstore.NewMemory())
	now := time.Now()
	s.now = func() time.Time { return now }
	return s, &now
}

func TestKey_Symmetric(t *testing.T) {
	t.Parallel()
	require.Equal(t, Key("bob", "alice"), Key("alice", "bob"))
	require.Equal(t, kvstore.PrefixChat+"alice_bob", Key("bob", "alice"))
}

func TestSession_SendAndHistoryBothViews(t *testing.T) {
	t.Parallel()
	s, now := newSession(t)

	require.NoError(t, s.Send("alice", "bob", "hi"))
	*now = now.Add(time.Second)
	require.NoError(t, s.Send("bob", "alice", "hello"))

	// both participants see the same ordered log
	h := s.History("alice", "bob")
	require.Len(t, h, 2)
	require.Equal(t, "alice", h[0].Sender)
	require.Equal(t, "hi", h[0].Text)
	require.Equal(t, "bob", h[1].Sender)
	require.Less(t, h[0].Time, h[1].Time)

	require.Equal(t, h, s.History("bob", "alice"))
}

func TestSession_EmptyTextIsNoOp(t *testing.T) {
	t.Parallel()
	s, _ := newSession(t)

	require.NoError(t, s.Send("alice", "bob", ""))
	require.NoError(t, s.Send("alice", "bob", "   \t"))
	require.Empty(t, s.History("alice", "bob"))
}

func TestSession_TrimsText(t *testing.T) {
	t.Parallel()
	s, _ := newSession(t)

	require.NoError(t, s.Send("alice", "bob", "  hi  "))
	h := s.History("alice", "bob")
	require.Len(t, h, 1)
	require.Equal(t, "hi", h[0].Text)
}

func TestSession_PairIsolation(t *testing.T) {
	t.Parallel()
	s, _ := newSession(t)

	require.NoError(t, s.Send("alice", "bob", "to bob"))
	require.NoError(t, s.Send("alice", "carol", "to carol"))

	require.Len(t, s.History("alice", "bob"), 1)
	require.Len(t, s.History("alice", "carol"), 1)
	require.Empty(t, s.History("bob", "carol"))
}

func TestSession_ToggleContact(t *testing.T) {
	t.Parallel()
	s, _ := newSession(t)

	saved, err := s.ToggleContact("bob")
	require.NoError(t, err)
	require.True(t, saved)
	require.Equal(t, []string{"bob"}, s.SavedContacts())

	saved, err = s.ToggleContact("bob")
	require.NoError(t, err)
	require.False(t, saved)
	require.Empty(t, s.SavedContacts())
}
