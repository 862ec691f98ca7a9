package notifications

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"ripple/internal/events"
	"ripple/internal/middleware"
)

// Notification is the JSON frame sent to websocket clients.
type Notification struct {
	Type    string              `json:"type"`
	Payload NotificationPayload `json:"payload"`
}

// NotificationPayload describes who did what to which resource.
type NotificationPayload struct {
	ResourceType string    `json:"resource_type"`
	ResourceID   uint      `json:"resource_id"`
	ActorID      uint      `json:"actor_id"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// notifiableVerbs are the engagement verbs that become user notifications.
// Reports stay internal, and publish events have no separate audience.
var notifiableVerbs = map[events.Verb]bool{
	events.VerbLiked:     true,
	events.VerbCommented: true,
	events.VerbShared:    true,
	events.VerbReacted:   true,
}

// BridgeBus forwards engagement events from the in-process bus to the
// resource owner's Redis channel, where every instance's hub picks them up.
func BridgeBus(bus *events.Bus, notifier *Notifier) {
	bus.SubscribeAll(func(ctx context.Context, ev events.Engagement) {
		if !notifiableVerbs[ev.Verb] {
			return
		}
		// Services already suppress self-engagement events; this is the
		// delivery-side guarantee of the same rule.
		if ev.ActorID == ev.OwnerID {
			return
		}

		payload, err := EncodeNotification(ev)
		if err != nil {
			middleware.Logger.ErrorContext(ctx, "failed to encode notification",
				slog.String("event", ev.Name()), slog.Any("error", err))
			return
		}
		if err := notifier.PublishUser(ctx, ev.OwnerID, payload); err != nil {
			middleware.Logger.ErrorContext(ctx, "failed to publish notification",
				slog.String("event", ev.Name()), slog.Any("error", err))
		}
	})
}

// EncodeNotification renders an engagement event as the wire frame, e.g. a
// like on a post becomes type "post_liked".
func EncodeNotification(ev events.Engagement) (string, error) {
	frame := Notification{
		Type: string(ev.Resource) + "_" + string(ev.Verb),
		Payload: NotificationPayload{
			ResourceType: string(ev.Resource),
			ResourceID:   ev.ResourceID,
			ActorID:      ev.ActorID,
			OccurredAt:   ev.OccurredAt,
		},
	}
	data, err := json.Marshal(frame)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
