package toast

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/dayglow/internal/events"
)

func TestDispatcherPublishesToasts(t *testing.T) {
	bus := events.NewBus()
	var got []events.Toast
	bus.Subscribe(events.TypeToast, func(e events.Event) {
		got = append(got, e.(events.Toast))
	})

	d := NewDispatcher(bus)
	d.Info("hello %s", "there")
	d.Success("saved")
	d.Warn("offline")
	d.Error("failed: %d", 3)

	want := []events.Toast{
		{Level: events.ToastInfo, Text: "hello there"},
		{Level: events.ToastSuccess, Text: "saved"},
		{Level: events.ToastWarn, Text: "offline"},
		{Level: events.ToastError, Text: "failed: 3"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d toasts, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("toast %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestNilDispatcherIsSilent(t *testing.T) {
	var d *Dispatcher
	d.Warn("nothing happens")
	NewDispatcher(nil).Info("nor here")
}

func TestHostRendersAndForwards(t *testing.T) {
	bus := events.NewBus()
	var out bytes.Buffer
	var forwarded []string
	h := &Host{
		Out: &out,
		Forward: func(_ context.Context, text string) error {
			forwarded = append(forwarded, text)
			return errors.New("tray not running")
		},
	}
	h.Attach(bus)

	NewDispatcher(bus).Success("Check-in saved")

	if !strings.Contains(out.String(), "Check-in saved") {
		t.Errorf("output = %q", out.String())
	}
	if len(forwarded) != 1 || forwarded[0] != "Check-in saved" {
		t.Errorf("forwarded = %v", forwarded)
	}

	h.Detach()
	NewDispatcher(bus).Info("after detach")
	if strings.Contains(out.String(), "after detach") {
		t.Error("host still rendering after Detach")
	}
	if bus.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount() = %d, want 0", bus.SubscriptionCount())
	}
}

func TestQuietHostOnlyForwards(t *testing.T) {
	bus := events.NewBus()
	var out bytes.Buffer
	calls := 0
	h := &Host{Out: &out, Quiet: true, Forward: func(context.Context, string) error { calls++; return nil }}
	h.Attach(bus)

	NewDispatcher(bus).Warn("x")
	if out.Len() != 0 || calls != 1 {
		t.Errorf("out = %q, forward calls = %d", out.String(), calls)
	}
}

func TestRenderUnknownLevel(t *testing.T) {
	got := Render(events.Toast{Level: "weird", Text: "msg"})
	if !strings.HasSuffix(got, "msg") {
		t.Errorf("Render() = %q", got)
	}
}
