package monitor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artikelku/internal/apperror"
	"artikelku/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// Helper to read one event from a websocket connection with a timeout.
func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()

	var event Event
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, p, err := conn.ReadMessage()
	require.NoError(t, err, "Failed to read message from WebSocket")
	require.NoError(t, json.Unmarshal(p, &event))

	return event
}

func TestNewEvent(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "http://example.com/articles/1", nil)
	req.Header.Set("User-Agent", "test-agent")

	appErr := apperror.Internal(errors.New("pq: connection refused"))
	event := NewEvent(req, appErr)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "error", event.Level)
	assert.Contains(t, event.Message, "pq: connection refused")
	assert.Equal(t, "http://example.com/articles/1", event.Request.URL)
	assert.Equal(t, http.MethodPatch, event.Request.Method)
	assert.Equal(t, "test-agent", event.Request.Headers["User-Agent"])
	assert.NotEmpty(t, event.Stacktrace)

	other := NewEvent(req, appErr)
	assert.NotEqual(t, event.ID, other.ID, "event ids must be unique")
}

func TestHubIntegration(t *testing.T) {
	// Stub collector records every submitted event.
	received := make(chan Event, 4)
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var event Event
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &event))
		received <- event
		w.WriteHeader(http.StatusAccepted)
	}))
	defer collector.Close()

	hub := NewHub(NewNotifier(collector.URL))
	go hub.Run()
	go hub.DeliverWorker()

	// Event stream endpoint.
	stream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, w, r)
	}))
	defer stream.Close()

	wsURL := "ws" + strings.TrimPrefix(stream.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err, "Subscriber failed to connect")
	defer conn.Close()

	// Give the hub a moment to process the registration.
	time.Sleep(100 * time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "http://example.com/articles", nil)
	event := NewEvent(req, apperror.Internal(errors.New("boom")))
	hub.Capture <- event

	streamed := readEvent(t, conn)
	assert.Equal(t, event.ID, streamed.ID)
	assert.Contains(t, streamed.Message, "boom")

	select {
	case delivered := <-received:
		assert.Equal(t, event.ID, delivered.ID)
		assert.Equal(t, "http://example.com/articles", delivered.Request.URL)
	case <-time.After(2 * time.Second):
		t.Fatal("collector never received the event")
	}
}

func TestHubWithoutNotifier(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	req := httptest.NewRequest(http.MethodGet, "http://example.com/articles", nil)

	// With no notifier and no subscribers, capture must not block.
	for i := 0; i < 10; i++ {
		select {
		case hub.Capture <- NewEvent(req, apperror.Internal(errors.New("boom"))):
		case <-time.After(time.Second):
			t.Fatal("capture blocked")
		}
	}
}

func TestNotifierRejectedSubmission(t *testing.T) {
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer collector.Close()

	notifier := NewNotifier(collector.URL)
	req := httptest.NewRequest(http.MethodGet, "http://example.com/articles", nil)
	err := notifier.Submit(NewEvent(req, apperror.Internal(errors.New("boom"))))
	assert.Error(t, err)
}
