package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetector_Scan(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"script tag", `<script>alert('XSS')</script>`, true},
		{"uppercase script tag", `<SCRIPT>alert(1)</SCRIPT>`, true},
		{"inline event handler", `<img src=x onerror=alert(1)>`, true},
		{"javascript uri", `javascript:alert(1)`, true},
		{"plain text", "great headphones", false},
		{"angle brackets without markers", "a < b > c", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := NewAuditLog()
			d := NewDetector(log, nil)

			got := d.Scan(SurfaceSearch, tt.input)

			assert.Equal(t, tt.want, got)
			if tt.want {
				entries := log.Entries()
				require.Len(t, entries, 1)
				assert.Equal(t, CategoryError, entries[0].Category)
				assert.Contains(t, entries[0].Message, "Reflected XSS")
			} else {
				assert.Zero(t, log.Len(), "clean input must not be logged")
			}
		})
	}
}

func TestDetector_ScanMultipleInputs(t *testing.T) {
	log := NewAuditLog()
	d := NewDetector(log, nil)

	// One entry per surface hit, even when several fields are tainted.
	hit := d.Scan(SurfaceReview, "clean title", `<script>a</script>`, `<script>b</script>`)

	assert.True(t, hit)
	assert.Equal(t, 1, log.Len())
	assert.Contains(t, log.Entries()[0].Message, "Stored XSS")
}

func TestDetector_SurfaceMessages(t *testing.T) {
	log := NewAuditLog()
	d := NewDetector(log, nil)

	d.Scan(SurfaceCartNote, `javascript:void(0)`)

	require.Equal(t, 1, log.Len())
	assert.Contains(t, log.Entries()[0].Message, "DOM-based XSS")
}

func TestDetector_RunsRegardlessOfMode(t *testing.T) {
	// The detector has no mode dependency at all: it takes only the log.
	// This test documents that submissions are recorded even when the
	// escaping defense is active.
	log := NewAuditLog()
	c := NewController(ModeSecure, log, nil)
	d := NewDetector(log, nil)

	before := log.Len()
	d.Scan(SurfaceSearch, `<script>alert(1)</script>`)

	assert.Equal(t, before+1, log.Len())
	assert.Equal(t, ModeSecure, c.Mode())
}
