package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/dayglow/internal/backup"
	"github.com/julianstephens/dayglow/internal/checkin"
	"github.com/julianstephens/dayglow/internal/connectivity"
	"github.com/julianstephens/dayglow/internal/events"
	"github.com/julianstephens/dayglow/internal/logger"
	"github.com/julianstephens/dayglow/internal/notifier"
	"github.com/julianstephens/dayglow/internal/reminder"
	"github.com/julianstephens/dayglow/internal/scheduler"
	"github.com/julianstephens/dayglow/internal/toast"
)

const pollBatch = 50

type DaemonCmd struct {
	Once          bool          `help:"Run each job once and exit."`
	ReminderCheck time.Duration `help:"How often to check whether the reminder is due." default:"1m"`
	PollInterval  time.Duration `help:"How often to poll community messages." default:"1m"`
	BackupAt      string        `help:"Daily sqlite backup time (HH:MM). Empty disables it." default:"03:00"`
	Quiet         bool          `help:"Do not print toasts to the terminal."`
}

// daemon holds the jobs wired for one run.
type daemon struct {
	ctx      *Context
	reminder *reminder.Reminder
	poller   *messagePoller
	monitor  *connectivity.Monitor
	checkins *checkin.Service
}

func (c *DaemonCmd) Run(ctx *Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	host := ctx.Host
	if host == nil {
		host = &toast.Host{Out: ctx.out()}
		host.Attach(ctx.Bus)
		defer host.Detach()
	}
	host.Quiet = c.Quiet
	if settings.NotificationsEnabled {
		host.Forward = notifier.New().Notify
	}

	sub := ctx.Tracker().Attach(ctx.Bus)
	defer ctx.Bus.Unsubscribe(sub)

	d := c.wire(ctx)
	if c.Once {
		return d.runOnce(ctx.context())
	}
	return d.run(ctx.context(), c, settings.Location())
}

func (c *DaemonCmd) wire(ctx *Context) *daemon {
	// Reminders go through the toast host, which forwards them to the tray.
	notify := func(_ context.Context, text string) error {
		ctx.Toasts.Info("%s", text)
		return nil
	}
	d := &daemon{
		ctx:      ctx,
		checkins: ctx.Checkins(),
		reminder: &reminder.Reminder{Store: ctx.Store, Notify: notify, Now: ctx.Now},
	}
	if client, err := ctx.RequireBackend(true); err == nil {
		d.poller = &messagePoller{
			store:    ctx.Store,
			messages: client.Messages(),
			me:       client.Auth().Me,
			bus:      ctx.Bus,
			limit:    pollBatch,
			now:      ctx.now,
		}
		d.monitor = connectivity.New(client.Ping, ctx.Bus)
	}
	return d
}

func (d *daemon) remind(ctx context.Context) error {
	_, err := d.reminder.Check(ctx)
	return err
}

func (d *daemon) poll(ctx context.Context) error {
	if d.monitor != nil && !d.monitor.Online() {
		return nil
	}
	return d.poller.Poll(ctx)
}

func (d *daemon) sync(ctx context.Context) {
	if _, err := d.checkins.Sync(ctx); err != nil {
		logger.Warn("Sync after reconnect failed", "error", err)
	}
}

func (d *daemon) runOnce(ctx context.Context) error {
	if err := d.remind(ctx); err != nil {
		return err
	}
	if d.poller == nil {
		return nil
	}
	if !d.monitor.Check(ctx) {
		d.ctx.println("Backend unreachable, skipping message poll and sync.")
		return nil
	}
	if err := d.poller.Poll(ctx); err != nil {
		return err
	}
	_, err := d.checkins.Sync(ctx)
	return err
}

func (d *daemon) run(ctx context.Context, c *DaemonCmd, loc *time.Location) error {
	sched := scheduler.New(ctx, loc)
	if _, err := sched.ScheduleInterval("reminder", c.ReminderCheck, d.remind); err != nil {
		return err
	}
	if s, err := d.ctx.SQLite(); err == nil && c.BackupAt != "" {
		mgr := backup.NewManager(s.GetConfigPath())
		if _, err := sched.ScheduleDaily("backup", c.BackupAt, func(context.Context) error {
			_, err := mgr.Create()
			return err
		}); err != nil {
			return err
		}
	}

	reconnected := make(chan struct{}, 1)
	if d.poller != nil {
		if _, err := sched.ScheduleInterval("messages", c.PollInterval, d.poll); err != nil {
			return err
		}
		sub := d.ctx.Bus.Subscribe(events.TypeConnectivityChanged, func(e events.Event) {
			changed, ok := e.(events.ConnectivityChanged)
			if !ok {
				return
			}
			if !changed.Online {
				d.ctx.Toasts.Warn("You are offline. Check-ins will sync when the connection returns.")
				return
			}
			d.ctx.Toasts.Success("Back online")
			select {
			case reconnected <- struct{}{}:
			default:
			}
		})
		defer d.ctx.Bus.Unsubscribe(sub)
		go d.monitor.Run(ctx)
	}

	sched.Start()
	defer sched.Stop()
	logger.Info("Daemon started", "jobs", sched.Entries(), "backend", d.poller != nil)

	// Flush anything queued while the daemon was not running.
	if d.poller != nil {
		d.sync(ctx)
	}
	for {
		select {
		case <-ctx.Done():
			logger.Info("Daemon stopping")
			return nil
		case <-reconnected:
			d.sync(ctx)
		}
	}
}
