package models

// Settings represents application-wide settings
type Settings struct {
	ReminderTime         string `json:"reminder_time"`         // local time of the daily check-in reminder, e.g. "20:00"
	NotificationsEnabled bool   `json:"notifications_enabled"` // whether reminders and toasts reach the desktop notifier
	TipsLimit            int    `json:"tips_limit"`            // how many lowest categories the tip selector returns
	Timezone             string `json:"timezone"`              // IANA timezone name or "Local"
	DisplayName          string `json:"display_name"`          // name shown on community messages
}
