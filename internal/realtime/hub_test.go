package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcastsToTableSubscribers(t *testing.T) {
	hub := NewHub(nil, "", nil, zerolog.Nop())

	events, cleanup := hub.Subscribe("fees")
	defer cleanup()
	other, otherCleanup := hub.Subscribe("tests")
	defer otherCleanup()

	hub.Publish(context.Background(), "fees", ActionUpdate, "fee-1")

	select {
	case event := <-events:
		require.Equal(t, "fees", event.Table)
		require.Equal(t, ActionUpdate, event.Action)
		require.Equal(t, "fee-1", event.ID)
		require.False(t, event.SentAt.IsZero())
	case <-time.After(time.Second):
		t.Fatal("expected a fees event")
	}

	select {
	case event := <-other:
		t.Fatalf("tests subscriber received %v", event)
	default:
	}
}

func TestHubCleanupClosesChannel(t *testing.T) {
	hub := NewHub(nil, "", nil, zerolog.Nop())

	events, cleanup := hub.Subscribe("notifications")
	cleanup()

	_, open := <-events
	require.False(t, open)

	// Publishing after cleanup must not panic on the closed channel.
	hub.Publish(context.Background(), "notifications", ActionInsert, "")

	// Calling cleanup twice is safe.
	cleanup()
}

func TestHubDeliversRelayedEventOnce(t *testing.T) {
	hub := NewHub(nil, "", nil, zerolog.Nop())

	events, cleanup := hub.Subscribe("fees")
	defer cleanup()

	payload, err := json.Marshal(envelope{
		ID:     uuid.NewString(),
		Source: "other-node",
		Event:  Event{Table: "fees", Action: ActionUpdate, ID: "fee-1", SentAt: time.Now().UTC()},
	})
	require.NoError(t, err)

	// Both transports deliver the same envelope; one broadcast results.
	hub.handleRelayed(payload)
	hub.handleRelayed(payload)

	require.Len(t, events, 1)
	event := <-events
	require.Equal(t, "fee-1", event.ID)
}

func TestHubIgnoresOwnRelayedEvents(t *testing.T) {
	hub := NewHub(nil, "", nil, zerolog.Nop())

	events, cleanup := hub.Subscribe("fees")
	defer cleanup()

	payload, err := json.Marshal(envelope{
		ID:     uuid.NewString(),
		Source: hub.nodeID,
		Event:  Event{Table: "fees", Action: ActionInsert, SentAt: time.Now().UTC()},
	})
	require.NoError(t, err)

	hub.handleRelayed(payload)
	require.Empty(t, events)
}

func TestHubDropsEventsForSlowSubscribers(t *testing.T) {
	hub := NewHub(nil, "", nil, zerolog.Nop())

	events, cleanup := hub.Subscribe("classes")
	defer cleanup()

	// Overrun the buffer without reading; Publish must never block.
	for i := 0; i < subscriberBufferSize*2; i++ {
		hub.Publish(context.Background(), "classes", ActionInsert, "")
	}

	require.Len(t, events, subscriberBufferSize)
}
