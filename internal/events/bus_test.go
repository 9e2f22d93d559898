package events

import (
	"testing"

	"github.com/julianstephens/dayglow/internal/models"
)

func TestPublishOrder(t *testing.T) {
	bus := NewBus()
	var order []string

	bus.SubscribeAll(func(Event) { order = append(order, "all") })
	bus.Subscribe(TypeToast, func(Event) { order = append(order, "first") })
	bus.Subscribe(TypeToast, func(Event) { order = append(order, "second") })
	bus.Subscribe(TypeCheckinCompleted, func(Event) { order = append(order, "other") })

	bus.Publish(Toast{Level: ToastInfo, Text: "hi"})

	want := []string{"first", "second", "all"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestPublishDeliversPayload(t *testing.T) {
	bus := NewBus()
	var got CheckinCompleted
	bus.Subscribe(TypeCheckinCompleted, func(e Event) { got = e.(CheckinCompleted) })

	bus.Publish(CheckinCompleted{CheckIn: models.CheckIn{Date: "2026-10-14"}, Index: 72})

	if got.CheckIn.Date != "2026-10-14" || got.Index != 72 {
		t.Errorf("got %+v", got)
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0
	sub := bus.Subscribe(TypeToast, func(Event) { calls++ })
	_ = bus.Subscribe(TypeToast, func(Event) {})

	if !bus.Unsubscribe(sub) {
		t.Fatal("Unsubscribe returned false for a live subscription")
	}
	if bus.Unsubscribe(sub) {
		t.Error("second Unsubscribe should return false")
	}

	bus.Publish(Toast{})
	if calls != 0 {
		t.Errorf("removed handler was called %d times", calls)
	}
	if n := bus.SubscriptionCount(); n != 1 {
		t.Errorf("SubscriptionCount() = %d, want 1", n)
	}
}

func TestPanickingHandlerDoesNotStopDelivery(t *testing.T) {
	bus := NewBus()
	delivered := false

	bus.Subscribe(TypeMessageReceived, func(Event) { panic("boom") })
	bus.Subscribe(TypeMessageReceived, func(Event) { delivered = true })

	bus.Publish(MessageReceived{Message: models.CommunityMessage{RecipientID: "u1"}})

	if !delivered {
		t.Error("second handler was not called after first panicked")
	}
}

func TestMessageReceivedDirect(t *testing.T) {
	if !(MessageReceived{Message: models.CommunityMessage{RecipientID: "u1"}}).Direct() {
		t.Error("message with recipient should be direct")
	}
	if (MessageReceived{}).Direct() {
		t.Error("community post should not be direct")
	}
}
