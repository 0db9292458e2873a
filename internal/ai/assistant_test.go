package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/salesmatrix/sales-matrix/internal/kvstore"
	"github.com/salesmatrix/sales-matrix/internal/remote"
)

type fakeAI struct {
	remote.Disabled
	reply string
	err   error
}

func (f *fakeAI) QueryAI(context.Context, string) (string, error) {
	return f.reply, f.err
}

func TestAssistant_RemoteReply(t *testing.T) {
	t.Parallel()
	a := New(kvstore.NewMemory(), &fakeAI{reply: "42"}, nil)

	require.Equal(t, "42", a.Ask(context.Background(), "meaning of life"))

	h := a.History()
	require.Len(t, h, 2)
	require.Equal(t, RoleUser, h[0].Role)
	require.Equal(t, "meaning of life", h[0].Text)
	require.Equal(t, RoleAssistant, h[1].Role)
	require.Equal(t, "42", h[1].Text)
}

func TestAssistant_FallbackWhenRemoteDown(t *testing.T) {
	t.Parallel()
	a := New(kvstore.NewMemory(), remote.Disabled{}, nil)

	reply := a.Ask(context.Background(), "hello there")
	require.Contains(t, reply, "Hello!")

	// both turns are still recorded
	require.Len(t, a.History(), 2)
}

func TestAssistant_FallbackWhenRemoteEmpty(t *testing.T) {
	t.Parallel()
	a := New(kvstore.NewMemory(), &fakeAI{reply: ""}, nil)

	reply := a.Ask(context.Background(), "how much does it cost")
	require.Contains(t, reply, "prices")
}

func TestAssistant_BlankInput(t *testing.T) {
	t.Parallel()
	a := New(kvstore.NewMemory(), remote.Disabled{}, nil)

	require.Equal(t, "Please type a question.", a.Ask(context.Background(), "   "))
	require.Empty(t, a.History())
}

func TestAssistant_ClearHistory(t *testing.T) {
	t.Parallel()
	a := New(kvstore.NewMemory(), &fakeAI{reply: "ok"}, nil)

	a.Ask(context.Background(), "q")
	require.NotEmpty(t, a.History())

	require.NoError(t, a.ClearHistory())
	require.Empty(t, a.History())
}

func TestFallback_Rules(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want string
	}{
		{"Hi!", "Hello!"},
		{"where is my order tracking", "order status"},
		{"add to cart please", "cart"},
		{"what is the price", "prices"},
		{"I want a refund", "returns/refunds"},
		{"need help", "support@salesmatrix.com"},
		{"gibberish xyz", "don't have that info"},
	}
	for _, tc := range cases {
		require.Contains(t, Fallback(tc.in), tc.want, "input %q", tc.in)
	}
}

func TestFallback_FirstRuleWins(t *testing.T) {
	t.Parallel()
	// mentions both greeting and cart; greeting rule is first
	require.Contains(t, Fallback("hello, what about my cart"), "Hello!")
}
