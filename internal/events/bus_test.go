package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"ripple/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, ch <-chan Engagement) Engagement {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Engagement{}
	}
}

func TestBus_PublishRoutesByName(t *testing.T) {
	t.Parallel()

	bus := NewBus(nil)
	liked := make(chan Engagement, 1)
	shared := make(chan Engagement, 1)

	bus.Subscribe("post.liked", func(_ context.Context, ev Engagement) { liked <- ev })
	bus.Subscribe("post.shared", func(_ context.Context, ev Engagement) { shared <- ev })

	bus.Publish(context.Background(), Engagement{
		Resource:   models.ResourcePost,
		ResourceID: 7,
		Verb:       VerbLiked,
		ActorID:    2,
		OwnerID:    1,
	})

	ev := waitFor(t, liked)
	assert.Equal(t, uint(7), ev.ResourceID)
	assert.Equal(t, "post.liked", ev.Name())
	assert.False(t, ev.OccurredAt.IsZero())

	select {
	case <-shared:
		t.Fatal("share handler should not have fired")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBus_SubscribeAllSeesEverything(t *testing.T) {
	t.Parallel()

	bus := NewBus(nil)
	var mu sync.Mutex
	var seen []string
	done := make(chan struct{}, 2)

	bus.SubscribeAll(func(_ context.Context, ev Engagement) {
		mu.Lock()
		seen = append(seen, ev.Name())
		mu.Unlock()
		done <- struct{}{}
	})

	bus.Publish(context.Background(), Engagement{Resource: models.ResourcePost, Verb: VerbLiked})
	bus.Publish(context.Background(), Engagement{Resource: models.ResourcePhoto, Verb: VerbCommented})

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"post.liked", "photo.commented"}, seen)
}

func TestBus_HandlerPanicDoesNotPropagate(t *testing.T) {
	t.Parallel()

	bus := NewBus(nil)
	ok := make(chan Engagement, 1)

	bus.Subscribe("post.liked", func(_ context.Context, _ Engagement) { panic("boom") })
	bus.Subscribe("post.liked", func(_ context.Context, ev Engagement) { ok <- ev })

	require.NotPanics(t, func() {
		bus.Publish(context.Background(), Engagement{Resource: models.ResourcePost, Verb: VerbLiked})
	})
	waitFor(t, ok)
}
