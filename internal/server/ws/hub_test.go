package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.Serve))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, wsURL, user string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?user="+user, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	// registration happens after the handshake, on the hub goroutine
	time.Sleep(50 * time.Millisecond)
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f Frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestHub_RoutesToRecipientAndEchoesSender(t *testing.T) {
	_, wsURL := startHub(t)

	alice := dial(t, wsURL, "alice")
	bob := dial(t, wsURL, "bob")

	require.NoError(t, alice.WriteJSON(Frame{To: "bob", Text: "hi"}))

	got := readFrame(t, bob)
	require.Equal(t, "alice", got.From)
	require.Equal(t, "bob", got.To)
	require.Equal(t, "hi", got.Text)
	require.NotZero(t, got.Time)

	// the sender's own connection receives the echo too
	echo := readFrame(t, alice)
	require.Equal(t, got.Text, echo.Text)
}

func TestHub_SenderIdentityComesFromConnection(t *testing.T) {
	_, wsURL := startHub(t)

	alice := dial(t, wsURL, "alice")
	bob := dial(t, wsURL, "bob")

	// a spoofed From is overwritten with the connection's username
	require.NoError(t, alice.WriteJSON(Frame{From: "mallory", To: "bob", Text: "hi"}))
	got := readFrame(t, bob)
	require.Equal(t, "alice", got.From)
}

func TestHub_DropsFramesToOfflineUsers(t *testing.T) {
	_, wsURL := startHub(t)

	alice := dial(t, wsURL, "alice")
	require.NoError(t, alice.WriteJSON(Frame{To: "nobody", Text: "hello?"}))

	// the connection stays healthy; a follow-up frame to a live peer works
	bob := dial(t, wsURL, "bob")
	require.NoError(t, alice.WriteJSON(Frame{To: "bob", Text: "second"}))
	got := readFrame(t, bob)
	require.Equal(t, "second", got.Text)
}

func TestHub_EmptyFramesIgnored(t *testing.T) {
	_, wsURL := startHub(t)

	alice := dial(t, wsURL, "alice")
	bob := dial(t, wsURL, "bob")

	require.NoError(t, alice.WriteJSON(Frame{To: "bob", Text: "   "}))
	require.NoError(t, alice.WriteJSON(Frame{To: "", Text: "no recipient"}))
	require.NoError(t, alice.WriteJSON(Frame{To: "bob", Text: "real"}))

	got := readFrame(t, bob)
	require.Equal(t, "real", got.Text)
}

func TestHub_ShutdownUnblocksConnections(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.Serve))
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	alice := dial(t, wsURL, "alice")
	cancel()

	// shutdown closes every send channel; the write pump turns that into a
	// close frame and the connection ends
	require.NoError(t, alice.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := alice.ReadMessage()
	require.Error(t, err)

	// a connection arriving after shutdown is closed instead of wedging
	// Serve on the register channel
	late, _, err := websocket.DefaultDialer.Dial(wsURL+"?user=bob", nil)
	require.NoError(t, err)
	defer late.Close()
	require.NoError(t, late.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = late.ReadMessage()
	require.Error(t, err)
}

func TestHub_RejectsMissingUser(t *testing.T) {
	_, wsURL := startHub(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
