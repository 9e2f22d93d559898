// Package checkin runs the daily check-in workflow: validate, store locally,
// push to the backend, and announce the result.
package checkin

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/dayglow/internal/constants"
	"github.com/julianstephens/dayglow/internal/events"
	"github.com/julianstephens/dayglow/internal/logger"
	"github.com/julianstephens/dayglow/internal/models"
	"github.com/julianstephens/dayglow/internal/retry"
	"github.com/julianstephens/dayglow/internal/storage"
	"github.com/julianstephens/dayglow/internal/toast"
	"github.com/julianstephens/dayglow/internal/wellness"
)

// Result describes what Submit did.
type Result struct {
	CheckIn models.CheckIn
	Index   int
	Synced  bool
	Badges  []string
}

type Service struct {
	Store  storage.Provider
	Remote Remote // nil keeps everything local
	Bus    *events.Bus
	Toasts *toast.Dispatcher
	Now    func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Today returns the current date in the user's configured timezone.
func (s *Service) Today() string {
	loc := time.Local
	if settings, err := s.Store.GetSettings(); err == nil {
		loc = settings.Location()
	}
	return s.now().In(loc).Format(constants.DateFormat)
}

// Submit stores c and pushes it. An unreachable backend is not an error: the
// check-in stays queued for Sync and the result reports Synced false.
func (s *Service) Submit(ctx context.Context, c models.CheckIn) (Result, error) {
	if c.Date == "" {
		c.Date = s.Today()
	}
	if err := c.Validate(); err != nil {
		return Result{}, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := s.now().UTC()
	c.UpdatedAt = now
	c.SyncedAt = nil

	if existing, err := s.Store.GetCheckIn(c.Date); err == nil {
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
		c.RemoteID = existing.RemoteID
	} else if !errors.Is(err, storage.ErrNotFound) {
		return Result{}, err
	} else {
		c.CreatedAt = now
	}

	if err := s.Store.SaveCheckIn(c); err != nil {
		return Result{}, err
	}
	// Backdated check-ins leave today's reminder state alone.
	if c.Date == s.Today() {
		if err := s.Store.SetValue(storage.KeyReminderSubmitted, c.Date); err != nil {
			return Result{}, err
		}
	}

	res := Result{CheckIn: c, Index: wellness.Index(c)}
	logger.Info("Check-in saved", "date", c.Date, "index", res.Index)

	pushErr := s.push(ctx, &res.CheckIn)
	res.Synced = pushErr == nil && s.Remote != nil
	if res.Synced {
		res.Badges = s.awardStreakBadges(ctx, c.Date)
	}

	if s.Bus != nil {
		s.Bus.Publish(events.CheckinCompleted{CheckIn: res.CheckIn, Index: res.Index, Synced: res.Synced})
	}

	switch {
	case pushErr == nil:
		s.Toasts.Success("Check-in saved. Wellness Index %d", res.Index)
		for _, b := range res.Badges {
			s.Toasts.Success("Badge earned: %s", badgeName(b))
		}
	case retry.IsNetworkError(pushErr):
		s.Toasts.Warn("You're offline. Check-in saved and will sync later")
	default:
		s.Toasts.Error("Check-in saved locally but sync failed: %v", pushErr)
		return res, fmt.Errorf("failed to sync check-in: %w", pushErr)
	}
	return res, nil
}

// push sends one check-in and marks it synced. A nil Remote is a no-op.
func (s *Service) push(ctx context.Context, c *models.CheckIn) error {
	if s.Remote == nil {
		return nil
	}
	remote := models.RemoteCheckIn{
		Date:        c.Date,
		Ratings:     c.RatingMap(),
		Notes:       c.Notes,
		WellnessIdx: wellness.Index(*c),
	}

	var (
		saved models.RemoteCheckIn
		err   error
	)
	if c.RemoteID != "" {
		saved, err = s.Remote.UpdateCheckIn(ctx, c.RemoteID, remote)
	} else {
		saved, err = s.Remote.CreateCheckIn(ctx, remote)
	}
	if err != nil {
		logger.Warn("Check-in push failed", "date", c.Date, "error", err)
		return err
	}

	remoteID := saved.ID
	if remoteID == "" {
		remoteID = c.RemoteID
	}
	at := s.now().UTC()
	if err := s.Store.MarkCheckInSynced(c.ID, remoteID, at); err != nil {
		return err
	}
	c.RemoteID, c.SyncedAt = remoteID, &at
	return nil
}

// Sync pushes queued check-ins oldest first. It stops at the first network
// failure and returns how many were pushed.
func (s *Service) Sync(ctx context.Context) (int, error) {
	if s.Remote == nil {
		return 0, nil
	}
	pending, err := s.Store.ListUnsyncedCheckIns()
	if err != nil {
		return 0, err
	}
	synced := 0
	for i := range pending {
		if err := s.push(ctx, &pending[i]); err != nil {
			if synced > 0 {
				s.Toasts.Info("Synced %d queued check-ins", synced)
			}
			return synced, err
		}
		synced++
	}
	if synced > 0 {
		logger.Info("Queued check-ins synced", "count", synced)
		s.Toasts.Info("Synced %d queued check-ins", synced)
	}
	return synced, nil
}

func badgeKey(days int) storage.Key {
	return storage.Key("v1/badges/streak-" + strconv.Itoa(days))
}

func badgeCode(days int) string {
	return "streak-" + strconv.Itoa(days)
}

func badgeName(code string) string {
	var days int
	if _, err := fmt.Sscanf(code, "streak-%d", &days); err == nil {
		return fmt.Sprintf("%d-day streak", days)
	}
	return code
}

// awardStreakBadges grants each milestone once per device.
func (s *Service) awardStreakBadges(ctx context.Context, date string) []string {
	day, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return nil
	}
	history, err := s.Store.ListCheckIns("", date)
	if err != nil {
		logger.Warn("Failed to load history for badges", "error", err)
		return nil
	}
	streak := wellness.Streak(history, day)
	if !slices.Contains(constants.StreakMilestones, streak) {
		return nil
	}
	key := badgeKey(streak)
	if _, err := s.Store.GetValue(key); err == nil {
		return nil
	}

	code := badgeCode(streak)
	if err := s.Remote.AwardBadge(ctx, models.UserBadge{BadgeCode: code, AwardedAt: s.now().UTC()}); err != nil {
		logger.Warn("Failed to award badge", "badge", code, "error", err)
		return nil
	}
	if err := s.Store.SetValue(key, date); err != nil {
		logger.Warn("Failed to record badge", "badge", code, "error", err)
	}
	return []string{code}
}
