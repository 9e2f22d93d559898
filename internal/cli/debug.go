package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/dayglow/internal/storage"
)

type DebugCmd struct {
	DBPath      *DebugDBPathCmd      `cmd:"" help:"Show database path."`
	DumpCheckin *DebugDumpCheckinCmd `cmd:"" help:"Dump a stored check-in as JSON."`
	DumpKeys    *DebugDumpKeysCmd    `cmd:"" help:"Dump the versioned key/value store as JSON."`
}

func (c *Context) printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	c.println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	return ctx.printJSON(map[string]string{"path": ctx.Store.GetConfigPath()})
}

type DebugDumpCheckinCmd struct {
	Date string `arg:"" help:"Date of the check-in to dump (YYYY-MM-DD or 'today')."`
}

func (cmd *DebugDumpCheckinCmd) Run(ctx *Context) error {
	date, err := parseDate(cmd.Date, ctx.Today())
	if err != nil {
		return err
	}
	checkin, err := ctx.Store.GetCheckIn(date)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no check-in found for date: %s", date)
	}
	if err != nil {
		return fmt.Errorf("failed to get check-in: %w", err)
	}
	return ctx.printJSON(checkin)
}

type DebugDumpKeysCmd struct{}

func (cmd *DebugDumpKeysCmd) Run(ctx *Context) error {
	values, err := ctx.Store.ListValues()
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}
	return ctx.printJSON(values)
}
