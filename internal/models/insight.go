package models

import "fmt"

// Severity grades how urgently an insight should be read.
type Severity string

const (
	SeverityInfo Severity = "info"
	SeverityTip  Severity = "tip"
	SeverityWarn Severity = "warn"
)

// Valid reports whether s is one of the enumerated severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityTip, SeverityWarn:
		return true
	}
	return false
}

// Rank orders severities with warn first.
func (s Severity) Rank() int {
	switch s {
	case SeverityWarn:
		return 0
	case SeverityTip:
		return 1
	default:
		return 2
	}
}

// ParseSeverity converts a string into a Severity.
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(s)
	if !sev.Valid() {
		return "", fmt.Errorf("invalid severity %q: must be info, tip or warn", s)
	}
	return sev, nil
}

// CTA is an optional call to action attached to an insight.
type CTA struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// Insight is a display-only message built from check-in history.
type Insight struct {
	ID       string   `json:"id"`
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	CTA      *CTA     `json:"cta,omitempty"`
}
