// Package toast delivers short notifications through the event bus so any
// component holding a Dispatcher can raise one.
package toast

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/dayglow/internal/events"
	"github.com/julianstephens/dayglow/internal/logger"
)

// Dispatcher publishes toasts. A nil Dispatcher drops them.
type Dispatcher struct {
	bus *events.Bus
}

func NewDispatcher(bus *events.Bus) *Dispatcher {
	return &Dispatcher{bus: bus}
}

func (d *Dispatcher) Show(level events.ToastLevel, format string, args ...any) {
	if d == nil || d.bus == nil {
		return
	}
	d.bus.Publish(events.Toast{Level: level, Text: fmt.Sprintf(format, args...)})
}

func (d *Dispatcher) Info(format string, args ...any)    { d.Show(events.ToastInfo, format, args...) }
func (d *Dispatcher) Success(format string, args ...any) { d.Show(events.ToastSuccess, format, args...) }
func (d *Dispatcher) Warn(format string, args ...any)    { d.Show(events.ToastWarn, format, args...) }
func (d *Dispatcher) Error(format string, args ...any)   { d.Show(events.ToastError, format, args...) }

var (
	baseStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true)

	levelStyles = map[events.ToastLevel]lipgloss.Style{
		events.ToastInfo:    baseStyle.Foreground(lipgloss.Color("39")),
		events.ToastSuccess: baseStyle.Foreground(lipgloss.Color("42")),
		events.ToastWarn:    baseStyle.Foreground(lipgloss.Color("214")),
		events.ToastError:   baseStyle.Foreground(lipgloss.Color("196")),
	}

	levelIcons = map[events.ToastLevel]string{
		events.ToastInfo:    "i",
		events.ToastSuccess: "✓",
		events.ToastWarn:    "!",
		events.ToastError:   "✗",
	}
)

// Render formats a toast for the terminal.
func Render(t events.Toast) string {
	style, ok := levelStyles[t.Level]
	if !ok {
		style = levelStyles[events.ToastInfo]
	}
	icon := levelIcons[t.Level]
	if icon == "" {
		icon = levelIcons[events.ToastInfo]
	}
	return style.Render(icon) + t.Text
}

// ForwardFunc sends a toast's text to an out-of-process surface such as the tray.
type ForwardFunc func(ctx context.Context, text string) error

// Host renders toasts it receives from the bus and optionally forwards them.
type Host struct {
	Out     io.Writer
	Forward ForwardFunc
	// Quiet suppresses terminal output, e.g. when the daemon runs detached.
	Quiet bool

	mu  sync.Mutex
	sub *events.Subscription
	bus *events.Bus
}

// Attach subscribes the host to toast events on bus.
func (h *Host) Attach(bus *events.Bus) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := bus.Subscribe(events.TypeToast, func(e events.Event) {
		if t, ok := e.(events.Toast); ok {
			h.handle(t)
		}
	})
	h.sub, h.bus = &s, bus
}

// Detach stops receiving toasts.
func (h *Host) Detach() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sub != nil {
		h.bus.Unsubscribe(*h.sub)
		h.sub, h.bus = nil, nil
	}
}

func (h *Host) handle(t events.Toast) {
	if !h.Quiet && h.Out != nil {
		fmt.Fprintln(h.Out, Render(t))
	}
	if h.Forward != nil {
		if err := h.Forward(context.Background(), t.Text); err != nil {
			logger.Debug("Toast not forwarded", "error", err)
		}
	}
}
