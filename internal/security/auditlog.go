package security

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// maxLogEntries caps the audit log; the oldest entry is silently dropped
// once the cap is reached. Eviction is not an error.
const maxLogEntries = 100

// AuditLog is a bounded, most-recent-first event record. It observes the
// system passively and is independent of the security mode. Safe for
// concurrent use.
type AuditLog struct {
	mu      sync.RWMutex
	entries []LogEntry
}

func NewAuditLog() *AuditLog {
	return &AuditLog{entries: make([]LogEntry, 0, maxLogEntries)}
}

// Append inserts a new entry at the front. Beyond capacity the oldest entry
// is dropped.
func (l *AuditLog) Append(message string, category LogCategory) LogEntry {
	entry := LogEntry{
		ID:        uuid.NewString(),
		Message:   message,
		Category:  category,
		Timestamp: time.Now(),
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]LogEntry{entry}, l.entries...)
	if len(l.entries) > maxLogEntries {
		l.entries = l.entries[:maxLogEntries]
	}
	return entry
}

// Clear replaces the log with a single synthetic entry announcing the reset.
func (l *AuditLog) Clear() {
	entry := LogEntry{
		ID:        uuid.NewString(),
		Message:   "[System] Console cleared.",
		Category:  CategoryInfo,
		Timestamp: time.Now(),
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = []LogEntry{entry}
}

// Entries returns a snapshot of the log, most recent first.
func (l *AuditLog) Entries() []LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]LogEntry{}, l.entries...)
}

// Len reports the current number of entries.
func (l *AuditLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
