package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/dayglow/internal/backend"
	"github.com/julianstephens/dayglow/internal/backup"
	"github.com/julianstephens/dayglow/internal/checkin"
	"github.com/julianstephens/dayglow/internal/constants"
	"github.com/julianstephens/dayglow/internal/events"
	"github.com/julianstephens/dayglow/internal/logger"
	"github.com/julianstephens/dayglow/internal/migration"
	"github.com/julianstephens/dayglow/internal/storage"
	"github.com/julianstephens/dayglow/internal/storage/sqlite"
	"github.com/julianstephens/dayglow/internal/toast"
	"github.com/julianstephens/dayglow/internal/unread"
)

var (
	ErrBackendNotConfigured = errors.New("backend not configured, pass --app-id or set DAYGLOW_APP_ID")
	ErrNotLoggedIn          = errors.New("not logged in, run 'dayglow login' first")
	ErrSQLiteOnly           = errors.New("this command only supports the sqlite store")
)

type Context struct {
	Ctx     context.Context
	Store   storage.Provider
	Backend *backend.Client // nil when no app id is configured
	Bus     *events.Bus
	Toasts  *toast.Dispatcher
	Host    *toast.Host // renders toasts; nil in tests
	Out     io.Writer
	Now     func() time.Time
}

// NewContext wires a bus, a toast dispatcher and a stderr toast host around store.
func NewContext(ctx context.Context, store storage.Provider, client *backend.Client) *Context {
	bus := events.NewBus()
	host := &toast.Host{Out: os.Stderr}
	host.Attach(bus)
	return &Context{
		Ctx:     ctx,
		Store:   store,
		Backend: client,
		Bus:     bus,
		Toasts:  toast.NewDispatcher(bus),
		Host:    host,
		Out:     os.Stdout,
		Now:     time.Now,
	}
}

func (c *Context) context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

// Location returns the configured timezone, falling back to local time.
func (c *Context) Location() *time.Location {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return time.Local
	}
	return settings.Location()
}

// Today returns today's date in the configured timezone.
func (c *Context) Today() string {
	return c.now().In(c.Location()).Format(constants.DateFormat)
}

// RequireBackend returns the backend client, optionally requiring a token.
func (c *Context) RequireBackend(authenticated bool) (*backend.Client, error) {
	if c.Backend == nil {
		return nil, ErrBackendNotConfigured
	}
	if authenticated && !c.Backend.HasToken() {
		return nil, ErrNotLoggedIn
	}
	return c.Backend, nil
}

// Checkins builds the check-in service. Without a logged-in backend it stays local.
func (c *Context) Checkins() *checkin.Service {
	svc := &checkin.Service{
		Store:  c.Store,
		Bus:    c.Bus,
		Toasts: c.Toasts,
		Now:    c.Now,
	}
	if c.Backend != nil && c.Backend.HasToken() {
		svc.Remote = checkin.NewRemote(c.Backend)
	}
	return svc
}

func (c *Context) Tracker() *unread.Tracker {
	return unread.NewTracker(c.Store)
}

// SQLite returns the sqlite store or ErrSQLiteOnly.
func (c *Context) SQLite() (*sqlite.Store, error) {
	s, ok := c.Store.(*sqlite.Store)
	if !ok {
		return nil, ErrSQLiteOnly
	}
	return s, nil
}

// migrator is implemented by both stores.
type migrator interface {
	Migrations() *migration.Runner
}

// PerformAutomaticBackup snapshots a sqlite database and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	s, err := c.SQLite()
	if err != nil {
		return
	}
	if _, err := backup.NewManager(s.GetConfigPath()).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

func parseDate(s string, today string) (string, error) {
	if s == "" || s == "today" {
		return today, nil
	}
	if _, err := time.Parse(constants.DateFormat, s); err != nil {
		return "", fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD or 'today')", s)
	}
	return s, nil
}

// window returns the inclusive date range of the last days days ending today.
func (c *Context) window(days int) (from, to string) {
	end := c.now().In(c.Location())
	start := end.AddDate(0, 0, -(days - 1))
	return start.Format(constants.DateFormat), end.Format(constants.DateFormat)
}
