package eventbus

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	Value int
}

func TestPublish_DispatchesToMatchingHandler(t *testing.T) {
	bus := NewEventPublisher(logrus.New())

	received := 0
	bus.Subscribe(func(ev *testEvent) {
		received = ev.Value
	})

	bus.Publish(&testEvent{Value: 42})
	require.Equal(t, 42, received)
}

func TestPublish_SkipsNonMatchingHandler(t *testing.T) {
	bus := NewEventPublisher(logrus.New())

	called := false
	bus.Subscribe(func(ev *testEvent) {
		called = true
	})

	bus.Publish("not an event struct")
	require.False(t, called)
}

func TestPublish_RecoversFromPanickingHandler(t *testing.T) {
	bus := NewEventPublisher(logrus.New())

	bus.Subscribe(func(ev *testEvent) {
		panic("boom")
	})

	require.NotPanics(t, func() {
		bus.Publish(&testEvent{Value: 1})
	})
}

func TestUnsubscribe(t *testing.T) {
	bus := NewEventPublisher(logrus.New())

	handler := func(ev *testEvent) {}
	bus.Subscribe(handler)
	require.Equal(t, 1, bus.SubscribersCount())

	bus.Unsubscribe(handler)
	require.Equal(t, 0, bus.SubscribersCount())
}
