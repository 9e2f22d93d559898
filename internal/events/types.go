package events

import "github.com/julianstephens/dayglow/internal/models"

const wildcard = "*"

// Event type names.
const (
	TypeCheckinCompleted    = "checkin.completed"
	TypeMessageReceived     = "message.received"
	TypeConnectivityChanged = "connectivity.changed"
	TypeToast               = "toast"
)

// Event is anything that can be published on a Bus.
type Event interface {
	EventType() string
}

// CheckinCompleted is published after a check-in is stored locally.
type CheckinCompleted struct {
	CheckIn models.CheckIn
	Index   int
	Synced  bool
}

func (CheckinCompleted) EventType() string { return TypeCheckinCompleted }

// MessageReceived is published for each inbound community message.
type MessageReceived struct {
	Message models.CommunityMessage
}

func (MessageReceived) EventType() string { return TypeMessageReceived }

// Direct reports whether the message was a direct message.
func (e MessageReceived) Direct() bool { return e.Message.Direct() }

// ConnectivityChanged is published when the backend becomes reachable or unreachable.
type ConnectivityChanged struct {
	Online bool
}

func (ConnectivityChanged) EventType() string { return TypeConnectivityChanged }

// ToastLevel grades a toast notification.
type ToastLevel string

const (
	ToastInfo    ToastLevel = "info"
	ToastSuccess ToastLevel = "success"
	ToastWarn    ToastLevel = "warn"
	ToastError   ToastLevel = "error"
)

// Toast is a short user-facing notification.
type Toast struct {
	Level ToastLevel
	Text  string
}

func (Toast) EventType() string { return TypeToast }
