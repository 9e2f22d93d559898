package storage

import (
	"errors"
	"time"

	"github.com/julianstephens/dayglow/internal/models"
)

var (
	// ErrNotFound is returned when a key or record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotInitialized is returned by Load before `dayglow init` has run.
	ErrNotInitialized = errors.New("storage not initialized, run 'dayglow init' first")
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Versioned key/value state
	GetValue(key Key) (string, error)
	SetValue(key Key, value string) error
	DeleteValue(key Key) error
	ListValues() (map[Key]string, error)

	// Check-ins
	SaveCheckIn(models.CheckIn) error
	GetCheckIn(date string) (models.CheckIn, error)
	// ListCheckIns returns check-ins with from <= date <= to, oldest first.
	// Empty bounds are open.
	ListCheckIns(from, to string) ([]models.CheckIn, error)
	ListUnsyncedCheckIns() ([]models.CheckIn, error)
	MarkCheckInSynced(id, remoteID string, at time.Time) error

	// Utils
	GetConfigPath() string
}
