package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishReachesTypedSubscribers(t *testing.T) {
	bus := NewBus()

	var got []Event
	bus.Subscribe(ConflictCreated, func(evt Event) {
		got = append(got, evt)
	})
	bus.Subscribe(ReviewAssigned, func(evt Event) {
		t.Fatal("wrong subscriber invoked")
	})

	bus.Publish(ConflictCreated, "payload")

	assert.Len(t, got, 1)
	assert.Equal(t, ConflictCreated, got[0].Type)
	assert.Equal(t, "payload", got[0].Payload)
}

func TestSubscribeAllSeesEveryType(t *testing.T) {
	bus := NewBus()

	var types []Type
	bus.SubscribeAll(func(evt Event) {
		types = append(types, evt.Type)
	})

	bus.Publish(ConflictCreated, nil)
	bus.Publish(MetricsSampled, nil)

	assert.Equal(t, []Type{ConflictCreated, MetricsSampled}, types)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() {
		bus.Publish(TaskCoordinated, nil)
	})
}
