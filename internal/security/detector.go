package security

import (
	"fmt"
	"strings"

	"vulnshop/internal/security/metrics"
)

// Surface names an untrusted-input submission path. The detector tags log
// entries with the attack class each surface is exposed to.
type Surface string

const (
	SurfaceSearch   Surface = "search"
	SurfaceReview   Surface = "review"
	SurfaceCartNote Surface = "cart_note"
)

// markers are the substrings characteristic of injected markup: a script
// delimiter, an inline event-handler assignment, and the javascript: URI
// scheme. Matching is case-insensitive.
var markers = []string{"<script", "onerror=", "javascript:"}

// Detector scans submitted text for injection markers and records matches in
// the audit log. It runs unconditionally, in both modes: the log observes
// attempted attacks whether or not the defense is active.
type Detector struct {
	log     *AuditLog
	metrics *metrics.Metrics
}

func NewDetector(log *AuditLog, m *metrics.Metrics) *Detector {
	return &Detector{log: log, metrics: m}
}

// Scan inspects every input and appends one error entry per surface hit.
// Returns true when a marker was found.
func (d *Detector) Scan(surface Surface, inputs ...string) bool {
	for _, input := range inputs {
		if !suspicious(input) {
			continue
		}
		d.log.Append(d.message(surface, input), CategoryError)
		d.metrics.IncrementInjectionAttempt(string(surface))
		return true
	}
	return false
}

func suspicious(input string) bool {
	lowered := strings.ToLower(input)
	for _, marker := range markers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

func (d *Detector) message(surface Surface, input string) string {
	switch surface {
	case SurfaceSearch:
		return fmt.Sprintf("[Alert] Potential Reflected XSS detected in search query: %q", input)
	case SurfaceReview:
		return "[Alert] Potential Stored XSS detected in review submission"
	case SurfaceCartNote:
		return "[Alert] Potential DOM-based XSS detected in cart note"
	default:
		return fmt.Sprintf("[Alert] Potential XSS detected in %s", surface)
	}
}
