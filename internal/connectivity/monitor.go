// Package connectivity tracks whether the backend is reachable.
package connectivity

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/julianstephens/dayglow/internal/constants"
	"github.com/julianstephens/dayglow/internal/events"
	"github.com/julianstephens/dayglow/internal/logger"
)

// ErrReconnectTimeout is returned by WaitForOnline when the backend stays
// unreachable for the whole wait.
var ErrReconnectTimeout = errors.New("still offline after waiting for the connection to return")

// Probe reports nil when the backend answered.
type Probe func(ctx context.Context) error

type Monitor struct {
	Probe    Probe
	Interval time.Duration
	Bus      *events.Bus

	mu      sync.Mutex
	online  bool
	known   bool
	waiters []chan struct{}
}

func New(probe Probe, bus *events.Bus) *Monitor {
	return &Monitor{Probe: probe, Interval: constants.OnlineCheckInterval, Bus: bus}
}

// Online reports the last observed state. Before the first probe the monitor
// assumes the backend is reachable.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.known || m.online
}

// Check probes once and records the result.
func (m *Monitor) Check(ctx context.Context) bool {
	err := m.Probe(ctx)
	if err != nil && ctx.Err() != nil {
		return m.Online()
	}
	online := err == nil
	if err != nil {
		logger.Debug("Backend probe failed", "error", err)
	}
	m.set(online)
	return online
}

func (m *Monitor) set(online bool) {
	m.mu.Lock()
	changed := !m.known || m.online != online
	wasKnown := m.known
	m.online, m.known = online, true
	var wake []chan struct{}
	if online {
		wake, m.waiters = m.waiters, nil
	}
	m.mu.Unlock()

	for _, ch := range wake {
		close(ch)
	}
	// The first observation only counts as a change when it is offline.
	if changed && (wasKnown || !online) {
		logger.Info("Connectivity changed", "online", online)
		if m.Bus != nil {
			m.Bus.Publish(events.ConnectivityChanged{Online: online})
		}
	}
}

// Run probes immediately and then every Interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	interval := m.Interval
	if interval <= 0 {
		interval = constants.OnlineCheckInterval
	}
	m.Check(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// WaitForOnline blocks until the monitor observes the backend online. A
// non-positive timeout uses constants.ReconnectTimeout.
func (m *Monitor) WaitForOnline(ctx context.Context, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = constants.ReconnectTimeout
	}

	m.mu.Lock()
	if !m.known || m.online {
		m.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	m.waiters = append(m.waiters, ch)
	m.mu.Unlock()

	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-ch:
		return nil
	case <-t.C:
		return ErrReconnectTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}
