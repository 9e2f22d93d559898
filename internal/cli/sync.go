package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/dayglow/internal/connectivity"
)

type SyncCmd struct {
	Wait   time.Duration `help:"When offline, wait up to this long for the backend to return (0 uses the default reconnect timeout)." default:"0s"`
	NoWait bool          `help:"Fail immediately when the backend is unreachable."`
}

func (c *SyncCmd) Run(ctx *Context) error {
	client, err := ctx.RequireBackend(true)
	if err != nil {
		return err
	}
	pending, err := ctx.Store.ListUnsyncedCheckIns()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		ctx.println("Nothing to sync.")
		return nil
	}

	if !c.NoWait {
		monitor := connectivity.New(client.Ping, ctx.Bus)
		monitor.Interval = 2 * time.Second
		if !monitor.Check(ctx.context()) {
			ctx.println("Backend unreachable, waiting for the connection to return...")
			waitCtx, cancel := context.WithCancel(ctx.context())
			go monitor.Run(waitCtx)
			err := monitor.WaitForOnline(waitCtx, c.Wait)
			cancel()
			if err != nil {
				return err
			}
		}
	}

	synced, err := ctx.Checkins().Sync(ctx.context())
	if err != nil {
		return fmt.Errorf("synced %d of %d check-ins: %w", synced, len(pending), err)
	}
	ctx.printf("%s Synced %d check-in(s)\n", okStyle.Render("✓"), synced)
	return nil
}
