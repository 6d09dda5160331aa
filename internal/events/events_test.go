package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSubscribe(t *testing.T) {
	bus := NewEventBus()

	var got []string
	bus.Subscribe(TypeReserveCreated, func(e Event) error {
		got = append(got, string(e.Payload))
		return nil
	})
	bus.Subscribe(TypeReserveCancelled, func(e Event) error {
		t.Fatal("wrong handler invoked")
		return nil
	})

	bus.Publish(Event{Type: TypeReserveCreated, Payload: []byte("one")})
	bus.Publish(Event{Type: TypeReserveCreated, Payload: []byte("two")})

	assert.Equal(t, []string{"one", "two"}, got)
}

func TestPublishJSON(t *testing.T) {
	bus := NewEventBus()

	var received Event
	bus.Subscribe(TypeReserveApproved, func(e Event) error {
		received = e
		return nil
	})

	err := bus.PublishJSON(TypeReserveApproved, map[string]interface{}{
		"code":   "abc-123",
		"status": "APROBADO",
	})
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(received.Payload, &payload))
	assert.Equal(t, "abc-123", payload["code"])
	assert.False(t, received.CreatedAt.IsZero())
}

func TestPublishNoSubscribers(t *testing.T) {
	bus := NewEventBus()
	// Must not panic.
	bus.Publish(Event{Type: TypeReserveCompleted})
}
