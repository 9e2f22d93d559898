package checkin

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/dayglow/internal/events"
	"github.com/julianstephens/dayglow/internal/models"
	"github.com/julianstephens/dayglow/internal/reminder"
	"github.com/julianstephens/dayglow/internal/storage"
	"github.com/julianstephens/dayglow/internal/storage/sqlite"
	"github.com/julianstephens/dayglow/internal/toast"
)

type fakeRemote struct {
	createErr error
	created   []models.RemoteCheckIn
	updated   map[string]models.RemoteCheckIn
	badges    []models.UserBadge
	nextID    int
}

func (f *fakeRemote) CreateCheckIn(_ context.Context, c models.RemoteCheckIn) (models.RemoteCheckIn, error) {
	if f.createErr != nil {
		return models.RemoteCheckIn{}, f.createErr
	}
	f.nextID++
	c.ID = "r" + string(rune('0'+f.nextID))
	f.created = append(f.created, c)
	return c, nil
}

func (f *fakeRemote) UpdateCheckIn(_ context.Context, id string, c models.RemoteCheckIn) (models.RemoteCheckIn, error) {
	if f.updated == nil {
		f.updated = map[string]models.RemoteCheckIn{}
	}
	c.ID = id
	f.updated[id] = c
	return c, nil
}

func (f *fakeRemote) AwardBadge(_ context.Context, b models.UserBadge) error {
	f.badges = append(f.badges, b)
	return nil
}

type netErr struct{}

func (netErr) Error() string      { return "Failed to fetch" }
func (netErr) NetworkError() bool { return true }

type harness struct {
	svc    *Service
	store  *sqlite.Store
	remote *fakeRemote
	toasts []events.Toast
	done   []events.CheckinCompleted
}

func newHarness(t *testing.T, now time.Time) *harness {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "dayglow.db"))
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	h := &harness{store: store, remote: &fakeRemote{}}
	bus := events.NewBus()
	bus.Subscribe(events.TypeToast, func(e events.Event) { h.toasts = append(h.toasts, e.(events.Toast)) })
	bus.Subscribe(events.TypeCheckinCompleted, func(e events.Event) { h.done = append(h.done, e.(events.CheckinCompleted)) })

	settings, _ := store.GetSettings()
	settings.Timezone = "UTC"
	if err := store.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}

	h.svc = &Service{
		Store:  store,
		Remote: h.remote,
		Bus:    bus,
		Toasts: toast.NewDispatcher(bus),
		Now:    func() time.Time { return now },
	}
	return h
}

func ratings(mood, sleep int) []models.Rating {
	return []models.Rating{
		{Category: models.CategoryMood, Value: mood},
		{Category: models.CategorySleep, Value: sleep},
	}
}

var june10 = time.Date(2024, 6, 10, 18, 0, 0, 0, time.UTC)

func TestSubmitStoresPushesAndAnnounces(t *testing.T) {
	h := newHarness(t, june10)

	res, err := h.svc.Submit(context.Background(), models.CheckIn{Ratings: ratings(8, 6)})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if res.CheckIn.Date != "2024-06-10" || res.CheckIn.ID == "" {
		t.Errorf("result check-in = %+v", res.CheckIn)
	}
	if !res.Synced || res.Index != 70 {
		t.Errorf("Synced = %v, Index = %d; want true, 70", res.Synced, res.Index)
	}

	stored, err := h.store.GetCheckIn("2024-06-10")
	if err != nil || !stored.Synced() || stored.RemoteID != "r1" {
		t.Errorf("stored = %+v, %v", stored, err)
	}
	if v, _ := h.store.GetValue(storage.KeyReminderSubmitted); v != "2024-06-10" {
		t.Errorf("submitted flag = %q", v)
	}
	if len(h.remote.created) != 1 || h.remote.created[0].Ratings["mood"] != 8 || h.remote.created[0].WellnessIdx != 70 {
		t.Errorf("remote created = %+v", h.remote.created)
	}
	if len(h.done) != 1 || !h.done[0].Synced {
		t.Errorf("completed events = %+v", h.done)
	}
	if len(h.toasts) != 1 || h.toasts[0].Level != events.ToastSuccess {
		t.Errorf("toasts = %+v", h.toasts)
	}
}

func TestSubmitRejectsInvalid(t *testing.T) {
	h := newHarness(t, june10)

	_, err := h.svc.Submit(context.Background(), models.CheckIn{Ratings: ratings(11, 5)})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := h.store.GetCheckIn("2024-06-10"); !errors.Is(err, storage.ErrNotFound) {
		t.Error("invalid check-in was stored")
	}
	if len(h.done) != 0 {
		t.Error("completed event published for invalid check-in")
	}
}

func TestSubmitOfflineQueues(t *testing.T) {
	h := newHarness(t, june10)
	h.remote.createErr = netErr{}

	res, err := h.svc.Submit(context.Background(), models.CheckIn{Ratings: ratings(5, 5)})
	if err != nil {
		t.Fatalf("offline Submit returned error: %v", err)
	}
	if res.Synced {
		t.Error("offline check-in reported synced")
	}
	pending, _ := h.store.ListUnsyncedCheckIns()
	if len(pending) != 1 {
		t.Errorf("pending = %d, want 1", len(pending))
	}
	if len(h.toasts) != 1 || h.toasts[0].Level != events.ToastWarn {
		t.Errorf("toasts = %+v", h.toasts)
	}
	if len(h.done) != 1 || h.done[0].Synced {
		t.Errorf("completed events = %+v", h.done)
	}

	h.remote.createErr = nil
	n, err := h.svc.Sync(context.Background())
	if err != nil || n != 1 {
		t.Fatalf("Sync = %d, %v; want 1", n, err)
	}
	if pending, _ := h.store.ListUnsyncedCheckIns(); len(pending) != 0 {
		t.Errorf("pending after Sync = %d", len(pending))
	}
}

func TestSubmitNonNetworkFailure(t *testing.T) {
	h := newHarness(t, june10)
	h.remote.createErr = errors.New("validation failed on server")

	_, err := h.svc.Submit(context.Background(), models.CheckIn{Ratings: ratings(5, 5)})
	if err == nil {
		t.Fatal("expected sync error")
	}
	if _, gerr := h.store.GetCheckIn("2024-06-10"); gerr != nil {
		t.Errorf("check-in should stay stored locally: %v", gerr)
	}
	if h.toasts[len(h.toasts)-1].Level != events.ToastError {
		t.Errorf("last toast = %+v", h.toasts[len(h.toasts)-1])
	}
}

func TestResubmitSameDayUpdatesRemote(t *testing.T) {
	h := newHarness(t, june10)
	ctx := context.Background()

	first, err := h.svc.Submit(ctx, models.CheckIn{Ratings: ratings(5, 5)})
	if err != nil {
		t.Fatal(err)
	}
	second, err := h.svc.Submit(ctx, models.CheckIn{Ratings: ratings(9, 9)})
	if err != nil {
		t.Fatal(err)
	}

	if second.CheckIn.ID != first.CheckIn.ID {
		t.Errorf("ID changed on resubmit: %s -> %s", first.CheckIn.ID, second.CheckIn.ID)
	}
	if len(h.remote.created) != 1 {
		t.Errorf("created %d remote records, want 1", len(h.remote.created))
	}
	if u, ok := h.remote.updated["r1"]; !ok || u.Ratings["mood"] != 9 {
		t.Errorf("updated = %+v", h.remote.updated)
	}
}

func TestStreakBadgeAwardedOnce(t *testing.T) {
	h := newHarness(t, june10)
	ctx := context.Background()

	for _, d := range []string{"2024-06-08", "2024-06-09"} {
		if _, err := h.svc.Submit(ctx, models.CheckIn{Date: d, Ratings: ratings(6, 6)}); err != nil {
			t.Fatal(err)
		}
	}
	res, err := h.svc.Submit(ctx, models.CheckIn{Date: "2024-06-10", Ratings: ratings(6, 6)})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Badges) != 1 || res.Badges[0] != "streak-3" {
		t.Fatalf("Badges = %v, want [streak-3]", res.Badges)
	}

	res, err = h.svc.Submit(ctx, models.CheckIn{Date: "2024-06-10", Ratings: ratings(7, 7)})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Badges) != 0 || len(h.remote.badges) != 1 {
		t.Errorf("badge awarded twice: result %v, remote %v", res.Badges, h.remote.badges)
	}
}

func TestBackdatedSubmitKeepsReminderFlag(t *testing.T) {
	h := newHarness(t, june10)
	ctx := context.Background()

	if _, err := h.svc.Submit(ctx, models.CheckIn{Ratings: ratings(6, 6)}); err != nil {
		t.Fatal(err)
	}
	if _, err := h.svc.Submit(ctx, models.CheckIn{Date: "2024-06-09", Ratings: ratings(5, 5)}); err != nil {
		t.Fatal(err)
	}
	if v, _ := h.store.GetValue(storage.KeyReminderSubmitted); v != "2024-06-10" {
		t.Errorf("submitted flag = %q, want 2024-06-10", v)
	}

	settings, _ := h.store.GetSettings()
	settings.ReminderTime = "17:00"
	if err := h.store.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}
	notified := false
	r := &reminder.Reminder{
		Store:  h.store,
		Notify: func(context.Context, string) error { notified = true; return nil },
		Now:    func() time.Time { return june10 },
	}
	sent, err := r.Check(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if sent || notified {
		t.Error("reminder fired although today's check-in was submitted")
	}
}

func TestBackdatedSubmitAloneDoesNotSetFlag(t *testing.T) {
	h := newHarness(t, june10)
	if _, err := h.svc.Submit(context.Background(), models.CheckIn{Date: "2024-06-08", Ratings: ratings(5, 5)}); err != nil {
		t.Fatal(err)
	}
	if _, err := h.store.GetValue(storage.KeyReminderSubmitted); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected no submitted flag for a backdated check-in, got %v", err)
	}
}

func TestLocalOnlyService(t *testing.T) {
	h := newHarness(t, june10)
	h.svc.Remote = nil

	res, err := h.svc.Submit(context.Background(), models.CheckIn{Ratings: ratings(4, 4)})
	if err != nil {
		t.Fatal(err)
	}
	if res.Synced {
		t.Error("local-only check-in reported synced")
	}
	if n, err := h.svc.Sync(context.Background()); n != 0 || err != nil {
		t.Errorf("Sync = %d, %v", n, err)
	}
}

func TestBadgeName(t *testing.T) {
	if got := badgeName("streak-7"); got != "7-day streak" {
		t.Errorf("badgeName = %q", got)
	}
	if got := badgeName("other"); got != "other" {
		t.Errorf("badgeName = %q", got)
	}
}
