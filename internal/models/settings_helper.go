package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/dayglow/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingReminderTime:
			settings.ReminderTime = value
		case constants.SettingNotificationsEnabled:
			settings.NotificationsEnabled = value == "true"
		case constants.SettingTipsLimit:
			if _, err := fmt.Sscanf(value, "%d", &settings.TipsLimit); err != nil {
				return Settings{}, fmt.Errorf("parsing tips_limit: %w", err)
			}
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingDisplayName:
			settings.DisplayName = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingReminderTime:         settings.ReminderTime,
		constants.SettingNotificationsEnabled: fmt.Sprintf("%v", settings.NotificationsEnabled),
		constants.SettingTipsLimit:            fmt.Sprintf("%d", settings.TipsLimit),
		constants.SettingTimezone:             settings.Timezone,
		constants.SettingDisplayName:          settings.DisplayName,
	}
}

// DefaultSettings returns the settings written on first init.
func DefaultSettings() Settings {
	return Settings{
		ReminderTime:         constants.DefaultReminderTime,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
		TipsLimit:            constants.DefaultTipsLimit,
		Timezone:             constants.DefaultTimezone,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.ReminderTime == "" {
		settings.ReminderTime = constants.DefaultReminderTime
	}
	if settings.TipsLimit <= 0 {
		settings.TipsLimit = constants.DefaultTipsLimit
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
}

// Location resolves the configured timezone, falling back to time.Local.
func (s Settings) Location() *time.Location {
	if s.Timezone == "" || s.Timezone == constants.DefaultTimezone {
		return time.Local
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
