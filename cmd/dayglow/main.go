package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/dayglow/internal/backend"
	"github.com/julianstephens/dayglow/internal/cli"
	"github.com/julianstephens/dayglow/internal/constants"
	apperrors "github.com/julianstephens/dayglow/internal/errors"
	"github.com/julianstephens/dayglow/internal/events"
	"github.com/julianstephens/dayglow/internal/keyring"
	"github.com/julianstephens/dayglow/internal/logger"
	"github.com/julianstephens/dayglow/internal/storage"
	"github.com/julianstephens/dayglow/internal/storage/postgres"
	"github.com/julianstephens/dayglow/internal/storage/sqlite"
)

var CLI struct {
	Version    kong.VersionFlag
	DB         string `help:"SQLite path or PostgreSQL connection string. Defaults to the keyring connection string, then ${default_db}. Credentials must NOT be embedded on the command line." env:"DAYGLOW_DB"`
	Debug      bool   `help:"Enable debug logging to stderr." env:"DAYGLOW_DEBUG"`
	BackendURL string `help:"Backend base URL." env:"DAYGLOW_BACKEND_URL" default:"${backend_url}"`
	AppID      string `help:"Backend application ID." env:"DAYGLOW_APP_ID"`
	Token      string `help:"Backend token. Defaults to the one saved by 'dayglow login'." env:"DAYGLOW_TOKEN"`

	Init      cli.InitCmd      `cmd:"" help:"Initialize dayglow storage."`
	Migrate   cli.MigrateCmd   `cmd:"" help:"Run database migrations."`
	Doctor    cli.DoctorCmd    `cmd:"" help:"Run health checks and diagnostics."`
	Login     cli.LoginCmd     `cmd:"" help:"Log in to the backend."`
	Logout    cli.LogoutCmd    `cmd:"" help:"Forget the saved backend token."`
	Whoami    cli.WhoamiCmd    `cmd:"" help:"Show the logged-in account."`
	Checkin   cli.CheckinCmd   `cmd:"" help:"Submit today's check-in."`
	Sync      cli.SyncCmd      `cmd:"" help:"Push queued check-ins to the backend."`
	Index     cli.IndexCmd     `cmd:"" help:"Show the Wellness Index for a day."`
	Trends    cli.TrendsCmd    `cmd:"" help:"Show rating trends as sparklines."`
	Insights  cli.InsightsCmd  `cmd:"" help:"Show insights from recent check-ins." default:"1"`
	Tips      cli.TipsCmd      `cmd:"" help:"Suggest next steps for the lowest categories."`
	Inbox     cli.InboxCmd     `cmd:"" help:"Read community and direct messages."`
	Send      cli.SendCmd      `cmd:"" help:"Post a community or direct message."`
	Journal   cli.JournalCmd   `cmd:"" help:"Write and read journal entries."`
	Gratitude cli.GratitudeCmd `cmd:"" help:"Record things you are grateful for."`
	Cycle     cli.CycleCmd     `cmd:"" help:"Track your cycle."`
	Badges    cli.BadgesCmd    `cmd:"" help:"List earned badges."`
	Settings  cli.SettingsCmd  `cmd:"" help:"Show or change settings."`
	Import    cli.ImportCmd    `cmd:"" help:"Import a browser local storage export."`
	Backup    cli.BackupCmd    `cmd:"" help:"Manage database backups."`
	Keyring   cli.KeyringCmd   `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Serve     cli.ServeCmd     `cmd:"" help:"Run the check-in submission endpoint."`
	Daemon    cli.DaemonCmd    `cmd:"" help:"Run reminders, message polling and sync in the background."`
	DebugCmd  cli.DebugCmd     `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Remind    cli.RemindCmd    `cmd:"" hidden:"" help:"Run one reminder check (used by OS schedulers)."`
	Notify    cli.NotifyCmd    `cmd:"" hidden:"" help:"Send a notification to the tray app (used internally)."`
}

// commands that open the store themselves or never touch it.
var noPreload = map[string]bool{
	"init":    true,
	"migrate": true,
	"doctor":  true,
	"login":   true,
	"logout":  true,
	"whoami":  true,
	"keyring": true,
	"notify":  true,
}

// long-running commands mirror their logs to stderr.
var longRunning = map[string]bool{
	"daemon": true,
	"serve":  true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily wellness check-ins, insights and community from the terminal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(kong.JSON, constants.DefaultConfigFile),
		kong.Vars{
			"version":     constants.Version,
			"backend_url": constants.DefaultBackendURL,
			"default_db":  constants.DefaultConfigPath,
		},
	)

	apperrors.Boundary(os.Stderr, CLI.Debug, func() {
		apperrors.Fatal(run(ctx))
	})
}

func run(kctx *kong.Context) error {
	command := strings.Fields(kctx.Command())[0]

	store, configDir, err := openStore(CLI.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir, Stderr: longRunning[command]}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	if !noPreload[command] {
		if err := store.Load(); err != nil {
			return err
		}
	}

	client, err := newBackend()
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx := cli.NewContext(sigCtx, store, client)
	if CLI.Debug {
		events.Trace(appCtx.Bus)
	}
	return kctx.Run(appCtx)
}

// openStore picks postgres for connection strings and sqlite for everything
// else. It also returns the directory used for logs.
func openStore(dsn string) (storage.Provider, string, error) {
	defaultDir := expandHome(filepath.Dir(constants.DefaultConfigPath))

	fromKeyring := false
	if dsn == "" {
		if stored, err := keyring.GetConnectionString(); err == nil {
			dsn, fromKeyring = stored, true
		}
	}
	if dsn == "" {
		dsn = constants.DefaultConfigPath
	}

	if postgres.IsConnString(dsn) {
		// Credentials are only accepted from the keyring.
		if _, err := postgres.ValidateConnString(dsn); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) || !fromKeyring {
				if errors.Is(err, postgres.ErrEmbeddedCredentials) {
					return nil, "", fmt.Errorf("%w; store it with 'dayglow keyring set' or use PGPASSWORD/.pgpass instead", err)
				}
				return nil, "", err
			}
		}
		return postgres.New(dsn), defaultDir, nil
	}

	path := expandHome(dsn)
	return sqlite.NewStore(path), filepath.Dir(path), nil
}

func newBackend() (*backend.Client, error) {
	if CLI.AppID == "" {
		return nil, nil
	}
	token := CLI.Token
	if token == "" {
		if stored, err := keyring.GetToken(); err == nil {
			token = stored
		}
	}
	return backend.New(backend.Config{BaseURL: CLI.BackendURL, AppID: CLI.AppID, Token: token})
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
