package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, hub *Hub, streams ...string) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(streams, w, r)
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestPublishReachesSubscribers(t *testing.T) {
	hub := NewHub()
	conn := dial(t, hub, StreamNotifications)

	require.Eventually(t, func() bool { return hub.Subscribers(StreamNotifications) == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(StreamNotifications, "notification.created", map[string]string{"id": "n1"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, StreamNotifications, msg.Stream)
	require.Equal(t, "notification.created", msg.Event)
}

func TestControlMessagesChangeSubscriptions(t *testing.T) {
	hub := NewHub()
	conn := dial(t, hub)

	require.NoError(t, conn.WriteJSON(controlMessage{Action: "subscribe", Streams: []string{"LEASES", "unknown"}}))
	require.Eventually(t, func() bool { return hub.Subscribers(StreamLeases) == 1 }, time.Second, 10*time.Millisecond)
	require.Zero(t, hub.Subscribers("unknown"))

	require.NoError(t, conn.WriteJSON(controlMessage{Action: "unsubscribe", Streams: []string{StreamLeases}}))
	require.Eventually(t, func() bool { return hub.Subscribers(StreamLeases) == 0 }, time.Second, 10*time.Millisecond)
}

func TestDisconnectUnregisters(t *testing.T) {
	hub := NewHub()
	conn := dial(t, hub, StreamLeases)
	require.Eventually(t, func() bool { return hub.Subscribers(StreamLeases) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Subscribers(StreamLeases) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	hub := NewHub()
	hub.Publish(StreamLeases, "lease.updated", nil)

	var nilHub *Hub
	nilHub.Publish(StreamLeases, "lease.updated", nil)
}

func TestUniqueStreams(t *testing.T) {
	require.Equal(t, []string{"notifications", "leases"}, UniqueStreams([]string{" Notifications", "", "leases", "NOTIFICATIONS"}))
	require.True(t, IsKnownStream("Leases"))
	require.False(t, IsKnownStream("ssh"))
}

func TestSameOriginOrLoopback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://rooms.example.com/api/notifications/stream", nil)
	req.Host = "rooms.example.com"

	require.True(t, sameOriginOrLoopback(req))

	req.Header.Set("Origin", "https://rooms.example.com")
	require.True(t, sameOriginOrLoopback(req))

	req.Header.Set("Origin", "http://localhost:3000")
	require.True(t, sameOriginOrLoopback(req))

	req.Header.Set("Origin", "https://evil.example.org")
	require.False(t, sameOriginOrLoopback(req))
}
