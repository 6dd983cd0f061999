package events

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testEvent struct {
	BaseEvent
	Value string
}

func (e testEvent) EventName() string { return "test.event" }

func TestPublishSync_DeliversToSubscribers(t *testing.T) {
	bus := NewInMemoryBus(nil)

	var got string
	bus.Subscribe("test.event", HandlerFunc(func(ctx context.Context, event Event) error {
		got = event.(testEvent).Value
		return nil
	}))

	err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent(), Value: "hello"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "hello" {
		t.Fatalf("expected handler to receive event value, got %q", got)
	}
}

func TestPublishSync_JoinsHandlerErrors(t *testing.T) {
	bus := NewInMemoryBus(nil)

	wantErr := errors.New("handler failed")
	bus.Subscribe("test.event", HandlerFunc(func(ctx context.Context, event Event) error {
		return wantErr
	}))
	bus.Subscribe("test.event", HandlerFunc(func(ctx context.Context, event Event) error {
		return nil
	}))

	err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent()})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected joined error to contain handler error, got %v", err)
	}
}

func TestPublishSync_NoSubscribersIsNoop(t *testing.T) {
	bus := NewInMemoryBus(nil)

	if err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent()}); err != nil {
		t.Fatalf("expected nil error with no subscribers, got %v", err)
	}
}

func TestPublish_RunsHandlersAsynchronously(t *testing.T) {
	bus := NewInMemoryBus(nil)

	done := make(chan string, 1)
	bus.Subscribe("test.event", HandlerFunc(func(ctx context.Context, event Event) error {
		done <- event.(testEvent).Value
		return nil
	}))

	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent(), Value: "async"})

	select {
	case got := <-done:
		if got != "async" {
			t.Fatalf("expected async handler to receive value, got %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler was not invoked")
	}
}
