// Package notifier forwards short messages to the dayglow-tray desktop app.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/dayglow/internal/constants"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
	// trayHost is where the tray listens; tests point it at httptest.
	trayHost = "127.0.0.1"
)

var (
	// ErrTrayNotRunning is returned when no live tray process owns the lockfile.
	ErrTrayNotRunning = errors.New("dayglow-tray is not running")
	// ErrMalformedLockfile is returned when the lockfile is not port|pid|secret.
	ErrMalformedLockfile = errors.New("tray lockfile is malformed")
)

// Payload is the body the tray webhook accepts.
type Payload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

// Lockfile is the content the tray writes on startup.
type Lockfile struct {
	Port   int
	PID    int
	Secret string
}

type Notifier struct {
	client *http.Client
}

func New() *Notifier {
	return &Notifier{client: &http.Client{Timeout: 5 * time.Second}}
}

// Notify posts text to the running tray app.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	dir, err := TrayConfigDir()
	if err != nil {
		return err
	}
	lock, err := ReadLockfile(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}
	if err := validateProcess(lock.PID); err != nil {
		return err
	}
	return n.send(ctx, lock, Payload{Text: text, DurationMs: constants.NotificationDurationMs})
}

// TrayConfigDir returns the tray app's config directory, honoring a custom
// lockfile_dir from its settings.json.
func TrayConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	trayDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayDir, "settings.json"))
	if err != nil {
		return trayDir, nil
	}
	var settings struct {
		Settings struct {
			LockfileDir string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &settings); err == nil && settings.Settings.LockfileDir != "" {
		return settings.Settings.LockfileDir, nil
	}
	return trayDir, nil
}

// ReadLockfile parses a port|pid|secret lockfile.
func ReadLockfile(path string) (Lockfile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Lockfile{}, ErrTrayNotRunning
	}
	return ParseLockfile(string(content))
}

func ParseLockfile(content string) (Lockfile, error) {
	parts := strings.Split(strings.TrimSpace(content), "|")
	if len(parts) != 3 {
		return Lockfile{}, fmt.Errorf("%w: expected port|pid|secret", ErrMalformedLockfile)
	}
	port, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Lockfile{}, fmt.Errorf("%w: invalid port", ErrMalformedLockfile)
	}
	if port < 1 || port > 65535 {
		return Lockfile{}, fmt.Errorf("%w: port %d is outside 1-65535", ErrMalformedLockfile, port)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || pid <= 0 {
		return Lockfile{}, fmt.Errorf("%w: invalid process id", ErrMalformedLockfile)
	}
	secret := strings.TrimSpace(parts[2])
	if secret == "" {
		return Lockfile{}, fmt.Errorf("%w: empty secret", ErrMalformedLockfile)
	}
	return Lockfile{Port: port, PID: pid, Secret: secret}, nil
}

func validateProcess(pid int) error {
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayExecutablePrefix) {
		return fmt.Errorf("%w: process %d is %s", ErrTrayNotRunning, pid, process.Executable())
	}
	return nil
}

func (n *Notifier) send(ctx context.Context, lock Lockfile, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("http://%s:%d", trayHost, lock.Port)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Dayglow-Secret", lock.Secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
}
