package security

import (
	"strings"
	"sync"

	"vulnshop/internal/security/metrics"
)

// escaper rewrites the five reserved markup characters to their named
// entities in a single pass, so already-escaped text is not escaped again.
// Entity spellings match what browsers produce for inert text.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// Controller holds the current security mode and exposes the escaping
// transform. State is per-instance: construct one per server or per test,
// never share implicitly.
type Controller struct {
	mu      sync.RWMutex
	mode    Mode
	log     *AuditLog
	metrics *metrics.Metrics
}

// NewController builds a controller starting in the given mode, recording
// transitions to log. The starter entries mirror the operator console the
// sandbox boots with.
func NewController(initial Mode, log *AuditLog, m *metrics.Metrics) *Controller {
	c := &Controller{mode: initial, log: log, metrics: m}

	log.Append("[System] Security console initialized. This console logs XSS attempts and system events.", CategoryInfo)
	if initial == ModeVulnerable {
		log.Append("[Warning] Security is currently in VULNERABLE mode. Toggle the security switch to enable protections.", CategoryWarning)
	}
	return c
}

// Mode returns the current mode. No side effects.
func (c *Controller) Mode() Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

// Toggle flips the mode, appends exactly one log entry describing the new
// state, and returns the new mode.
func (c *Controller) Toggle() Mode {
	c.mu.Lock()
	if c.mode == ModeVulnerable {
		c.mode = ModeSecure
	} else {
		c.mode = ModeVulnerable
	}
	newMode := c.mode
	c.mu.Unlock()

	if newMode == ModeSecure {
		c.log.Append("[System] Security mode activated. Input sanitization enabled.", CategoryInfo)
	} else {
		c.log.Append("[Warning] Security mode deactivated. Site is now vulnerable to XSS attacks.", CategoryWarning)
	}
	c.metrics.IncrementToggle(string(newMode))
	return newMode
}

// Sanitize is a pure function of (mode, input). In secure mode the five
// reserved characters are escaped once; in vulnerable mode input is returned
// unchanged, byte for byte. It never writes to the audit log.
func (c *Controller) Sanitize(input string) string {
	if c.Mode() == ModeSecure {
		return escaper.Replace(input)
	}
	return input
}

// Log exposes the audit log backing this controller.
func (c *Controller) Log() *AuditLog {
	return c.log
}
