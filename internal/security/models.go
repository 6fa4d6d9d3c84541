package security

import "time"

// Mode selects between the sandbox's two rendering behaviors. Vulnerable
// mode passes untrusted text through untouched; secure mode escapes it at
// render time.
type Mode string

const (
	ModeVulnerable Mode = "vulnerable"
	ModeSecure     Mode = "secure"
)

// ParseMode normalizes a configured mode string. Anything other than
// "secure" maps to vulnerable, the sandbox's boot default.
func ParseMode(s string) Mode {
	if s == string(ModeSecure) {
		return ModeSecure
	}
	return ModeVulnerable
}

// LogCategory classifies audit log entries.
type LogCategory string

const (
	CategoryInfo    LogCategory = "info"
	CategoryWarning LogCategory = "warning"
	CategoryError   LogCategory = "error"
)

// LogEntry is a single audit log record. Immutable once created.
type LogEntry struct {
	ID        string      `json:"id"`
	Message   string      `json:"message"`
	Category  LogCategory `json:"category"`
	Timestamp time.Time   `json:"timestamp"`
}
