package constants

import "time"

const (
	AppName            = "dayglow"
	DefaultKeyringUser = "backend-token"
	DSNKeyringUser     = "database-connection"
	DefaultConfigPath  = "~/.config/dayglow/dayglow.db"
	DefaultConfigFile  = "~/.config/dayglow/config.json"
	DefaultBackendURL  = "https://api.dayglow.app"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Retry constants
	DefaultRetries    = 3
	DefaultRetryDelay = 500 * time.Millisecond

	// Connectivity constants
	OnlineCheckInterval = 15 * time.Second
	ReconnectTimeout    = 30 * time.Second
	MessagePollInterval = time.Minute

	// Notify constants
	NotifierLockfileName   = "dayglow-tray.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "app.dayglow.tray"
	TrayExecutablePrefix   = "dayglow-tray"

	// Rating bounds for check-in categories
	MinRating = 1
	MaxRating = 10

	// CheckinType is the payload type accepted by the submission endpoint
	CheckinType = "daily-checkin"
)

// Streak milestones that award a badge.
var StreakMilestones = []int{3, 7, 30}
