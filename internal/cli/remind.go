package cli

import (
	"context"

	"github.com/julianstephens/dayglow/internal/notifier"
	"github.com/julianstephens/dayglow/internal/reminder"
)

// RemindCmd runs a single reminder check, for OS schedulers that start
// dayglow instead of keeping the daemon alive.
type RemindCmd struct {
	DryRun bool `help:"Print the reminder instead of sending it to the tray."`
}

func (c *RemindCmd) Run(ctx *Context) error {
	notify := notifier.New().Notify
	if c.DryRun {
		notify = func(_ context.Context, text string) error {
			ctx.println(text)
			return nil
		}
	}
	r := &reminder.Reminder{Store: ctx.Store, Notify: notify, Now: ctx.Now}
	sent, err := r.Check(ctx.context())
	if err != nil {
		return err
	}
	if !sent && c.DryRun {
		ctx.println("No reminder due.")
	}
	return nil
}

type NotifyCmd struct {
	Text string `arg:"" help:"Text to show in the tray app."`
}

func (c *NotifyCmd) Run(ctx *Context) error {
	return notifier.New().Notify(ctx.context(), c.Text)
}
