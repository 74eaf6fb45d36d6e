package events

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	sharedEvents "github.com/davicafu/hexablog/internal/shared/domain/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	mu       sync.Mutex
	keys     []string
	payloads [][]byte
}

func (h *recordingHandler) HandleMessage(ctx context.Context, key string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.keys = append(h.keys, key)
	h.payloads = append(h.payloads, payload)
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.keys)
}

func TestInMemoryBus_RoutesByTopic(t *testing.T) {
	// Arrange
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus := NewInMemoryBus()
	posts := &recordingHandler{}
	chats := &recordingHandler{}
	bus.Consume(ctx, "posts", posts, zap.NewNop())
	bus.Consume(ctx, "chats", chats, zap.NewNop())

	evt := sharedEvents.NewIntegrationEvent("posts", "post.created", "42", time.Now(), json.RawMessage(`{"id":42}`))

	// Act
	require.NoError(t, bus.Publish(ctx, evt))

	// Assert
	assert.Eventually(t, func() bool { return posts.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, chats.count())

	posts.mu.Lock()
	defer posts.mu.Unlock()
	assert.Equal(t, "42", posts.keys[0])
	var got sharedEvents.IntegrationEvent
	require.NoError(t, json.Unmarshal(posts.payloads[0], &got))
	assert.Equal(t, "post.created", got.Type)
	assert.JSONEq(t, `{"id":42}`, string(got.Data))
}
