package websocket

import (
	"testing"
	"time"

	"ai-studyguide-be/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func (h *Hub) clientCount(sessionId uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionId])
}

func TestNotifyProgressDeliversToClient(t *testing.T) {
	hub := NewHub(nil, nopLogger{})
	go hub.Run()

	sessionId := uuid.New()
	client := &Client{Hub: hub, SessionId: sessionId, Send: make(chan []byte, 256)}
	hub.register <- client

	require.Eventually(t, func() bool {
		return hub.clientCount(sessionId) == 1
	}, time.Second, 5*time.Millisecond)

	hub.NotifyProgress(sessionId, dto.ProgressEvent{SessionId: sessionId, State: "PROCESSING", Message: "extracting"})

	select {
	case msg := <-client.Send:
		assert.Contains(t, string(msg), `"type":"progress"`)
		assert.Contains(t, string(msg), `"extracting"`)
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}
}

// A client that stops draining its Send buffer must be dropped by Run,
// the only place allowed to close the channel. Closing at the send site
// as well used to panic the hub goroutine on the second close.
func TestNotifyProgressDropsSlowClient(t *testing.T) {
	hub := NewHub(nil, nopLogger{})
	go hub.Run()

	sessionId := uuid.New()
	slow := &Client{Hub: hub, SessionId: sessionId, Send: make(chan []byte, 1)}
	slow.Send <- []byte("backlog")
	hub.register <- slow

	require.Eventually(t, func() bool {
		return hub.clientCount(sessionId) == 1
	}, time.Second, 5*time.Millisecond)

	hub.NotifyProgress(sessionId, dto.ProgressEvent{SessionId: sessionId, State: "PROCESSING", Message: "detecting domain"})

	require.Eventually(t, func() bool {
		return hub.clientCount(sessionId) == 0
	}, time.Second, 5*time.Millisecond)

	// The channel is closed exactly once; draining the backlog reaches it.
	<-slow.Send
	_, open := <-slow.Send
	assert.False(t, open)

	// Later events for the session no longer see the dropped client.
	hub.NotifyProgress(sessionId, dto.ProgressEvent{SessionId: sessionId, State: "STUDY_TOPICS"})
	assert.Equal(t, 0, hub.clientCount(sessionId))
}
