package storage

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// KeySchemaVersion is the newest key layout this binary reads and writes.
const KeySchemaVersion = 1

// Key is a versioned state key of the form v<N>/<area>/<name>.
type Key string

// Known keys.
const (
	KeyDMLastSeen          Key = "v1/dm/last_seen"
	KeyDMUnread            Key = "v1/dm/unread"
	KeyCommunityUnread     Key = "v1/community/unread"
	KeyDashboardNoteSeen   Key = "v1/dashboard/note_seen"
	KeyReminderSubmitted   Key = "v1/reminder/submitted_date"
	KeyReminderNotified    Key = "v1/reminder/notified_date"
	KeyCommunityLastPolled Key = "v1/community/last_polled"
)

var (
	// ErrInvalidKey is returned for keys outside the v<N>/<area>/<name> layout.
	ErrInvalidKey = errors.New("invalid state key")
	// ErrKeyFromFuture is returned for keys written by a newer schema version.
	ErrKeyFromFuture = errors.New("state key uses a newer schema version")
)

// Version parses the schema version prefix of the key.
func (k Key) Version() (int, error) {
	parts := strings.Split(string(k), "/")
	if len(parts) < 3 || !strings.HasPrefix(parts[0], "v") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidKey, string(k))
	}
	for _, p := range parts[1:] {
		if p == "" {
			return 0, fmt.Errorf("%w: %q has an empty segment", ErrInvalidKey, string(k))
		}
	}
	v, err := strconv.Atoi(parts[0][1:])
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%w: %q has a bad version", ErrInvalidKey, string(k))
	}
	return v, nil
}

// Validate checks the key layout and rejects versions newer than KeySchemaVersion.
func (k Key) Validate() error {
	v, err := k.Version()
	if err != nil {
		return err
	}
	if v > KeySchemaVersion {
		return fmt.Errorf("%w: %q (supported %d)", ErrKeyFromFuture, string(k), KeySchemaVersion)
	}
	return nil
}

// legacyKeys maps unversioned keys from the browser client's local storage
// onto the v1 layout.
var legacyKeys = map[string]Key{
	"dm_last_seen":           KeyDMLastSeen,
	"dm_unread_count":        KeyDMUnread,
	"community_unread_count": KeyCommunityUnread,
	"dashboard_note_seen":    KeyDashboardNoteSeen,
	"checkin_submitted_date": KeyReminderSubmitted,
}

// MigrateLegacyKey returns the v1 key for a legacy name.
func MigrateLegacyKey(name string) (Key, bool) {
	k, ok := legacyKeys[name]
	return k, ok
}

// ImportResult summarizes an ImportLegacy run.
type ImportResult struct {
	Imported int
	Skipped  []string
}

// ImportLegacy writes an exported local-storage map into the provider.
// Legacy names are renamed to v1 keys, versioned keys are validated and kept,
// anything else is skipped. Existing values are overwritten (last write wins).
func ImportLegacy(p Provider, values map[string]string) (ImportResult, error) {
	var res ImportResult
	for name, value := range values {
		key, ok := MigrateLegacyKey(name)
		if !ok {
			key = Key(name)
			if err := key.Validate(); err != nil {
				res.Skipped = append(res.Skipped, name)
				continue
			}
		}
		if err := p.SetValue(key, value); err != nil {
			return res, fmt.Errorf("failed to import %s: %w", name, err)
		}
		res.Imported++
	}
	return res, nil
}
