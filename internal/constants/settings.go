package constants

const (
	// General Settings
	SettingReminderTime         = "reminder_time"
	SettingNotificationsEnabled = "notifications_enabled"
	SettingTipsLimit            = "tips_limit"
	SettingTimezone             = "timezone"
	SettingDisplayName          = "display_name"

	// Default Settings Values
	DefaultReminderTime         = "20:00"
	DefaultNotificationsEnabled = true
	DefaultTipsLimit            = 3
	DefaultTimezone             = "Local" // Use system local timezone by default
)
