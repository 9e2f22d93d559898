// Package reminder nudges the user once a day when no check-in was submitted
// by the configured reminder time.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/dayglow/internal/constants"
	"github.com/julianstephens/dayglow/internal/logger"
	"github.com/julianstephens/dayglow/internal/storage"
)

// Message is the reminder text.
const Message = "Time for your daily check-in. How are you feeling today?"

// NotifyFunc delivers the reminder.
type NotifyFunc func(ctx context.Context, text string) error

type Reminder struct {
	Store  storage.Provider
	Notify NotifyFunc
	Now    func() time.Time
}

func (r *Reminder) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Check sends the reminder if it is due and reports whether it did.
func (r *Reminder) Check(ctx context.Context) (bool, error) {
	settings, err := r.Store.GetSettings()
	if err != nil {
		return false, err
	}
	if !settings.NotificationsEnabled {
		return false, nil
	}

	now := r.now().In(settings.Location())
	due, err := dueAt(now, settings.ReminderTime)
	if err != nil {
		return false, err
	}
	if now.Before(due) {
		return false, nil
	}

	today := now.Format(constants.DateFormat)
	for _, key := range []storage.Key{storage.KeyReminderSubmitted, storage.KeyReminderNotified} {
		v, err := r.Store.GetValue(key)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return false, err
		}
		if v == today {
			return false, nil
		}
	}

	if err := r.Notify(ctx, Message); err != nil {
		return false, fmt.Errorf("failed to send reminder: %w", err)
	}
	logger.Info("Reminder sent", "date", today)
	if err := r.Store.SetValue(storage.KeyReminderNotified, today); err != nil {
		return true, err
	}
	return true, nil
}

// dueAt returns today's reminder time in now's location.
func dueAt(now time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse(constants.TimeFormat, hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid reminder time %q: expected HH:MM", hhmm)
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, now.Location()), nil
}
