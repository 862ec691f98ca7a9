// Package events provides the in-process publish/subscribe bus that decouples
// the engagement services from notification and analytics consumers.
package events

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"ripple/internal/models"
	"ripple/internal/observability"
)

// Verb is the engagement action carried by an event.
type Verb string

const (
	VerbLiked     Verb = "liked"
	VerbCommented Verb = "commented"
	VerbShared    Verb = "shared"
	VerbReacted   Verb = "reacted"
	VerbReported  Verb = "reported"
	VerbPublished Verb = "published"
)

// Engagement is the typed payload attached to every engagement event.
type Engagement struct {
	Resource   models.ResourceType `json:"resource_type"`
	ResourceID uint                `json:"resource_id"`
	Verb       Verb                `json:"verb"`
	ActorID    uint                `json:"actor_id"`
	OwnerID    uint                `json:"owner_id"`
	OccurredAt time.Time           `json:"occurred_at"`
}

// Name returns the dotted event name, e.g. "post.liked".
func (e Engagement) Name() string {
	return string(e.Resource) + "." + string(e.Verb)
}

// Handler consumes an engagement event. Handlers run on their own goroutine;
// a panic in one handler never reaches the publisher.
type Handler func(ctx context.Context, ev Engagement)

// Bus is an in-process publish/subscribe channel for engagement events.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	all      []Handler
	logger   *slog.Logger
}

// NewBus creates an event bus that logs handler panics through logger.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Subscribe registers a handler for one event name ("post.liked").
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// SubscribeAll registers a handler for every engagement event.
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, h)
}

// Publish dispatches ev to all matching handlers asynchronously. Publish
// never blocks on consumers and never propagates their failures.
func (b *Bus) Publish(ctx context.Context, ev Engagement) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	observability.EngagementEventsPublished.WithLabelValues(ev.Name()).Inc()

	b.mu.RLock()
	matched := make([]Handler, 0, len(b.handlers[ev.Name()])+len(b.all))
	matched = append(matched, b.handlers[ev.Name()]...)
	matched = append(matched, b.all...)
	b.mu.RUnlock()

	for _, h := range matched {
		go b.run(ctx, h, ev)
	}
}

func (b *Bus) run(ctx context.Context, h Handler, ev Engagement) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panic",
				slog.String("event", ev.Name()),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()
	h(ctx, ev)
}
