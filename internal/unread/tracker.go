// Package unread keeps the on-device unread counters for messages.
package unread

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/julianstephens/dayglow/internal/events"
	"github.com/julianstephens/dayglow/internal/logger"
	"github.com/julianstephens/dayglow/internal/storage"
)

type Kind string

const (
	KindDM        Kind = "dm"
	KindCommunity Kind = "community"
)

var ErrUnknownKind = errors.New("unknown unread counter")

func (k Kind) key() (storage.Key, error) {
	switch k {
	case KindDM:
		return storage.KeyDMUnread, nil
	case KindCommunity:
		return storage.KeyCommunityUnread, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, string(k))
}

// Tracker reads and writes counters through a storage provider. Counters are
// authoritative only on this device.
type Tracker struct {
	store storage.Provider
	mu    sync.Mutex
}

func NewTracker(store storage.Provider) *Tracker {
	return &Tracker{store: store}
}

// Count returns the counter, 0 when unset or unparsable.
func (t *Tracker) Count(kind Kind) (int, error) {
	key, err := kind.key()
	if err != nil {
		return 0, err
	}
	v, err := t.store.GetValue(key)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, nil
	}
	return n, nil
}

// Increment adds one to the counter and returns the new value.
func (t *Tracker) Increment(kind Kind) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n, err := t.Count(kind)
	if err != nil {
		return 0, err
	}
	key, _ := kind.key()
	n++
	if err := t.store.SetValue(key, strconv.Itoa(n)); err != nil {
		return 0, err
	}
	return n, nil
}

// Reset sets the counter to zero, as when the user opens the matching view.
func (t *Tracker) Reset(kind Kind) error {
	key, err := kind.key()
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.SetValue(key, "0")
}

// LastSeen returns when direct messages were last viewed, zero if never.
func (t *Tracker) LastSeen() (time.Time, error) {
	v, err := t.store.GetValue(storage.KeyDMLastSeen)
	if errors.Is(err, storage.ErrNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, nil
	}
	return ts, nil
}

// MarkSeen records now as the DM last-seen time and clears the DM counter.
func (t *Tracker) MarkSeen(now time.Time) error {
	if err := t.store.SetValue(storage.KeyDMLastSeen, now.UTC().Format(time.RFC3339Nano)); err != nil {
		return err
	}
	return t.Reset(KindDM)
}

func (t *Tracker) NoteSeen() (bool, error) {
	v, err := t.store.GetValue(storage.KeyDashboardNoteSeen)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

func (t *Tracker) MarkNoteSeen() error {
	return t.store.SetValue(storage.KeyDashboardNoteSeen, "true")
}

// Attach counts inbound messages published on bus. Direct messages raise
// the dm counter, everything else the community counter.
func (t *Tracker) Attach(bus *events.Bus) events.Subscription {
	return bus.Subscribe(events.TypeMessageReceived, func(e events.Event) {
		msg, ok := e.(events.MessageReceived)
		if !ok {
			return
		}
		kind := KindCommunity
		if msg.Direct() {
			kind = KindDM
		}
		if _, err := t.Increment(kind); err != nil {
			logger.Warn("Failed to update unread counter", "kind", kind, "error", err)
		}
	})
}
