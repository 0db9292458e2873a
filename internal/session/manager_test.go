package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/salesmatrix/sales-matrix/internal/kvstore"
	"github.com/salesmatrix/sales-matrix/internal/model"
)

func TestManager_NoSession(t *testing.T) {
	t.Parallel()
	m := New(kvstore.NewMemory())

	_, ok := m.Current()
	require.False(t, ok)
	_, ok = m.CurrentName()
	require.False(t, ok)
}

func TestManager_SetCurrentAndResolve(t *testing.T) {
	t.Parallel()
	store := kvstore.NewMemory()
	m := New(store)

	alice := model.User{Username: "alice", Email: "a@b.c", Password: "secret1"}
	require.NoError(t, store.Set(kvstore.KeyUsers, []model.User{alice}))
	require.NoError(t, m.SetCurrent(alice))

	name, ok := m.CurrentName()
	require.True(t, ok)
	require.Equal(t, "alice", name)

	u, ok := m.Current()
	require.True(t, ok)
	require.Equal(t, "a@b.c", u.Email)

	// denormalized profile copy is written alongside the pointer
	var profile model.User
	require.True(t, store.Get(kvstore.KeyCurrentProfile, &profile))
	require.Equal(t, "alice", profile.Username)
}

func TestManager_DanglingPointerReadsAsNoSession(t *testing.T) {
	t.Parallel()
	store := kvstore.NewMemory()
	m := New(store)

	require.NoError(t, m.SetCurrent(model.User{Username: "ghost"}))

	// no matching record in the user collection
	_, ok := m.Current()
	require.False(t, ok)

	// the raw pointer still resolves
	name, ok := m.CurrentName()
	require.True(t, ok)
	require.Equal(t, "ghost", name)
}

func TestManager_Logout(t *testing.T) {
	t.Parallel()
	store := kvstore.NewMemory()
	m := New(store)

	alice := model.User{Username: "alice"}
	require.NoError(t, store.Set(kvstore.KeyUsers, []model.User{alice}))
	require.NoError(t, store.Set(kvstore.KeyAuthToken, "tok"))
	require.NoError(t, m.SetCurrent(alice))

	require.NoError(t, m.Logout())

	_, ok := m.CurrentName()
	require.False(t, ok)

	var tok string
	require.False(t, store.Get(kvstore.KeyAuthToken, &tok))

	// user records are untouched
	var users []model.User
	require.True(t, store.Get(kvstore.KeyUsers, &users))
	require.Len(t, users, 1)
}
