package models

import "time"

// Entity names used by the backend-as-a-service.
const (
	EntityCheckIn          = "CheckIn"
	EntityJournalEntry     = "JournalEntry"
	EntityPositiveEntry    = "PositiveEntry"
	EntityBadge            = "Badge"
	EntityUserBadge        = "UserBadge"
	EntityCommunityMessage = "CommunityMessage"
	EntityCycleLog         = "CycleLog"
	EntityUser             = "User"
)

// User is the authenticated account as reported by the backend.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	DisplayName string    `json:"display_name,omitempty"`
	Role        string    `json:"role,omitempty"`
	CreatedDate time.Time `json:"created_date"`
}

// RemoteCheckIn is the backend shape of a check-in record.
type RemoteCheckIn struct {
	ID          string         `json:"id,omitempty"`
	Date        string         `json:"date"`
	Ratings     map[string]int `json:"ratings"`
	Notes       string         `json:"notes,omitempty"`
	WellnessIdx int            `json:"wellness_index"`
	CreatedBy   string         `json:"created_by,omitempty"`
	CreatedDate time.Time      `json:"created_date,omitempty"`
}

// JournalEntry is a free-text private journal note.
type JournalEntry struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title,omitempty"`
	Content     string    `json:"content"`
	Mood        int       `json:"mood,omitempty"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedDate time.Time `json:"created_date,omitempty"`
}

// PositiveEntry records something the user is grateful for.
type PositiveEntry struct {
	ID          string    `json:"id,omitempty"`
	Text        string    `json:"text"`
	Date        string    `json:"date"`
	CreatedDate time.Time `json:"created_date,omitempty"`
}

// Badge is a catalog entry describing an achievement.
type Badge struct {
	ID          string `json:"id,omitempty"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UserBadge links a badge to the user that earned it.
type UserBadge struct {
	ID          string    `json:"id,omitempty"`
	BadgeCode   string    `json:"badge_code"`
	UserID      string    `json:"user_id,omitempty"`
	AwardedAt   time.Time `json:"awarded_at"`
	CreatedDate time.Time `json:"created_date,omitempty"`
}

// CommunityMessage is a message posted to the community feed or sent directly.
type CommunityMessage struct {
	ID          string    `json:"id,omitempty"`
	SenderID    string    `json:"sender_id,omitempty"`
	SenderName  string    `json:"sender_name,omitempty"`
	RecipientID string    `json:"recipient_id,omitempty"` // empty for community posts
	Text        string    `json:"text"`
	CreatedDate time.Time `json:"created_date,omitempty"`
}

// Direct reports whether the message was addressed to a single recipient.
func (m CommunityMessage) Direct() bool {
	return m.RecipientID != ""
}

// CycleLog is a menstrual cycle tracking entry.
type CycleLog struct {
	ID          string    `json:"id,omitempty"`
	Date        string    `json:"date"`
	Flow        string    `json:"flow"`
	Symptoms    []string  `json:"symptoms,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedDate time.Time `json:"created_date,omitempty"`
}

// Flow levels for cycle logs.
const (
	FlowNone   = "none"
	FlowLight  = "light"
	FlowMedium = "medium"
	FlowHeavy  = "heavy"
)
