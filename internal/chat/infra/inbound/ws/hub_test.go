package ws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHub_JoinAfterDetachIsRefused(t *testing.T) {
	// Arrange
	hub := NewHub(zap.NewNop())
	c := newClient(hub, nil, 1, zap.NewNop())
	require.True(t, hub.join(c, "chat:1"))
	assert.Equal(t, 1, hub.RoomSize("chat:1"))

	// Act
	hub.detach(c)

	// Assert
	assert.False(t, hub.join(c, "chat:2"))
	assert.Zero(t, hub.RoomSize("chat:1"))
	assert.Zero(t, hub.RoomSize("chat:2"))
}

func TestHub_SlowClientDetachedByEmitStaysOut(t *testing.T) {
	// Arrange: un cliente con el buffer lleno y otro que emite
	hub := NewHub(zap.NewNop())
	slow := newClient(hub, nil, 1, zap.NewNop())
	sender := newClient(hub, nil, 2, zap.NewNop())
	require.True(t, hub.join(slow, "chat:1"))
	require.True(t, hub.join(sender, "chat:1"))
	for i := 0; i < sendBuffer; i++ {
		require.True(t, slow.enqueue([]byte("{}")))
	}

	// Act
	hub.Emit("chat:1", sender, EventReceiveMessage, map[string]string{"message": "hola"})

	// Assert
	require.Eventually(t, func() bool { return hub.RoomSize("chat:1") == 1 }, time.Second, 5*time.Millisecond)
	assert.False(t, hub.join(slow, "chat:1"))
	assert.Equal(t, 1, hub.RoomSize("chat:1"))
}
