package storage

import (
	"errors"
	"sort"
	"testing"
)

func TestKeyValidate(t *testing.T) {
	tests := []struct {
		key     Key
		version int
		wantErr error
	}{
		{KeyDMUnread, 1, nil},
		{"v1/a/b/c", 1, nil},
		{"v2/dm/unread", 2, ErrKeyFromFuture},
		{"dm_unread_count", 0, ErrInvalidKey},
		{"v0/dm/unread", 0, ErrInvalidKey},
		{"vx/dm/unread", 0, ErrInvalidKey},
		{"v1/dm", 0, ErrInvalidKey},
		{"v1//unread", 0, ErrInvalidKey},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			err := tt.key.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
			if tt.version > 0 {
				if v, _ := tt.key.Version(); v != tt.version {
					t.Errorf("Version() = %d, want %d", v, tt.version)
				}
			}
		})
	}
}

func TestMigrateLegacyKey(t *testing.T) {
	if k, ok := MigrateLegacyKey("dm_last_seen"); !ok || k != KeyDMLastSeen {
		t.Errorf("MigrateLegacyKey(dm_last_seen) = %q, %v", k, ok)
	}
	if _, ok := MigrateLegacyKey("unknown"); ok {
		t.Error("unknown legacy key should not migrate")
	}
	for name, key := range legacyKeys {
		if err := key.Validate(); err != nil {
			t.Errorf("legacy mapping %s -> %s is invalid: %v", name, key, err)
		}
	}
}

type memProvider struct {
	Provider
	values map[Key]string
	fail   error
}

func (m *memProvider) SetValue(k Key, v string) error {
	if m.fail != nil {
		return m.fail
	}
	m.values[k] = v
	return nil
}

func TestImportLegacy(t *testing.T) {
	p := &memProvider{values: map[Key]string{}}
	res, err := ImportLegacy(p, map[string]string{
		"community_unread_count": "5",
		"dashboard_note_seen":    "true",
		"v1/custom/flag":         "x",
		"v3/custom/flag":         "y",
		"random":                 "z",
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Imported != 3 {
		t.Errorf("Imported = %d, want 3", res.Imported)
	}
	sort.Strings(res.Skipped)
	if len(res.Skipped) != 2 || res.Skipped[0] != "random" || res.Skipped[1] != "v3/custom/flag" {
		t.Errorf("Skipped = %v", res.Skipped)
	}
	if p.values[KeyCommunityUnread] != "5" || p.values[KeyDashboardNoteSeen] != "true" {
		t.Errorf("values = %v", p.values)
	}
}

func TestImportLegacyStopsOnWriteError(t *testing.T) {
	boom := errors.New("disk full")
	p := &memProvider{values: map[Key]string{}, fail: boom}
	_, err := ImportLegacy(p, map[string]string{"dm_unread_count": "1"})
	if !errors.Is(err, boom) {
		t.Errorf("ImportLegacy() = %v, want wrapped %v", err, boom)
	}
}
