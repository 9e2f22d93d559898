package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/dayglow/internal/backup"
	"github.com/julianstephens/dayglow/internal/keyring"
)

// ErrHealthCheckFailed is returned when any non-warning check fails.
var ErrHealthCheckFailed = errors.New("one or more health checks failed")

type DoctorCmd struct {
	Timeout time.Duration `help:"Timeout for the backend reachability check." default:"5s"`
}

type check struct {
	name   string
	warn   bool // failure is reported but does not fail the run
	needDB bool
	run    func() error
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	dbReachable := true
	checks := []check{
		{name: "Database reachable", run: func() error {
			err := checkDBReachable(ctx)
			dbReachable = err == nil
			return err
		}},
		{name: "Schema version", needDB: true, run: func() error { return checkSchemaVersion(ctx) }},
		{name: "Migrations complete", needDB: true, run: func() error { return checkMigrationsComplete(ctx) }},
		{name: "Stored data valid", needDB: true, run: func() error { return checkStoredData(ctx) }},
		{name: "Backups present", warn: true, run: func() error { return checkBackupsPresent(ctx) }},
		{name: "Keyring available", warn: true, run: checkKeyring},
		{name: "Backend reachable", warn: true, run: func() error { return checkBackend(ctx, cmd.Timeout) }},
		{name: "Clock/timezone", needDB: true, run: func() error { return checkClockTimezone(ctx) }},
	}

	hasError := false
	for _, c := range checks {
		var err error
		if c.needDB && !dbReachable {
			err = errSkipped
		} else {
			err = c.run()
		}
		switch {
		case err == nil:
			ctx.printf("%s %s: OK\n", okStyle.Render("✓"), c.name)
		case errors.Is(err, errSkipped):
			ctx.printf("%s %s: SKIPPED (database not reachable)\n", mutedStyle.Render("⊘"), c.name)
		case c.warn:
			ctx.printf("%s %s: WARNING\n", warnStyle.Render("⚠"), c.name)
			ctx.printf("   %v\n", err)
		default:
			ctx.printf("%s %s: FAIL\n", failStyle.Render("❌"), c.name)
			ctx.printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return ErrHealthCheckFailed
	}
	ctx.println("All diagnostics passed!")
	return nil
}

var errSkipped = errors.New("skipped")

func checkDBReachable(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if s, err := ctx.SQLite(); err == nil {
		db := s.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return nil
	}
	st, err := m.Migrations().Status()
	if err != nil {
		return err
	}
	if st.Current == 0 {
		return fmt.Errorf("database has no schema version, run 'dayglow init'")
	}
	return nil
}

func checkMigrationsComplete(ctx *Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return nil
	}
	st, err := m.Migrations().Status()
	if err != nil {
		return err
	}
	if !st.UpToDate() {
		return fmt.Errorf("%d migration(s) pending (current %d, latest %d), run 'dayglow migrate'",
			len(st.Pending), st.Current, st.Latest)
	}
	return nil
}

// checkStoredData validates every stored check-in and key.
func checkStoredData(ctx *Context) error {
	checkins, err := ctx.Store.ListCheckIns("", "")
	if err != nil {
		return fmt.Errorf("failed to list check-ins: %w", err)
	}
	var problems []error
	for _, c := range checkins {
		if err := c.Validate(); err != nil {
			problems = append(problems, fmt.Errorf("check-in %s: %w", c.Date, err))
		}
	}
	values, err := ctx.Store.ListValues()
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}
	for k := range values {
		if err := k.Validate(); err != nil {
			problems = append(problems, err)
		}
	}
	return errors.Join(problems...)
}

func checkBackupsPresent(ctx *Context) error {
	s, err := ctx.SQLite()
	if err != nil {
		return fmt.Errorf("backups are not managed for this store")
	}
	mgr := backup.NewManager(s.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found in %s", mgr.Dir())
	}
	return nil
}

func checkKeyring() error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkBackend(ctx *Context, timeout time.Duration) error {
	if ctx.Backend == nil {
		return ErrBackendNotConfigured
	}
	pingCtx, cancel := context.WithTimeout(ctx.context(), timeout)
	defer cancel()
	return ctx.Backend.Ping(pingCtx)
}

func checkClockTimezone(ctx *Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	if settings.Timezone != "" && settings.Timezone != "Local" {
		if _, err := time.LoadLocation(settings.Timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", settings.Timezone, err)
		}
	}
	if time.Now().Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", time.Now().Format(time.RFC3339))
	}
	return nil
}
