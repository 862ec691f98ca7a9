package notifications

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub := NewHub()

	client, err := hub.Register(7, nil)
	require.NoError(t, err)
	assert.True(t, hub.IsOnline(7))
	assert.False(t, hub.IsOnline(8))

	hub.Broadcast(7, `{"type":"post_liked"}`)
	select {
	case msg := <-client.Send:
		assert.JSONEq(t, `{"type":"post_liked"}`, string(msg))
	default:
		t.Fatal("expected a message in the client buffer")
	}

	// Messages for other users never reach this client.
	hub.Broadcast(8, `{"type":"post_shared"}`)
	select {
	case msg := <-client.Send:
		t.Fatalf("unexpected message %s", msg)
	default:
	}

	hub.UnregisterClient(client)
	assert.False(t, hub.IsOnline(7))
}

func TestHub_PerUserConnectionLimit(t *testing.T) {
	hub := NewHub()

	for i := 0; i < maxConnsPerUser; i++ {
		_, err := hub.Register(7, nil)
		require.NoError(t, err)
	}

	_, err := hub.Register(7, nil)
	assert.Error(t, err)

	// Other users are unaffected.
	_, err = hub.Register(8, nil)
	assert.NoError(t, err)
}

func TestClient_TrySendDropsWhenFull(t *testing.T) {
	hub := NewHub()
	client, err := hub.Register(7, nil)
	require.NoError(t, err)

	for i := 0; i < cap(client.Send); i++ {
		client.Send <- []byte("x")
	}

	// Full buffer: message is dropped, drop notice cannot fit either.
	client.TrySend([]byte("overflow"))
	assert.Len(t, client.Send, cap(client.Send))
}

func TestHub_BroadcastAll(t *testing.T) {
	hub := NewHub()
	a, err := hub.Register(1, nil)
	require.NoError(t, err)
	b, err := hub.Register(2, nil)
	require.NoError(t, err)

	hub.BroadcastAll("ping")
	assert.Len(t, a.Send, 1)
	assert.Len(t, b.Send, 1)
}
