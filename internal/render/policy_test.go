package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vulnshop/internal/commerce"
	"vulnshop/internal/commerce/service"
	"vulnshop/internal/security"
)

func newPolicy(t *testing.T, mode security.Mode) (*Policy, *security.Controller) {
	t.Helper()
	controller := security.NewController(mode, security.NewAuditLog(), nil)
	return NewPolicy(controller), controller
}

func TestPolicy_ModeGovernsRendering(t *testing.T) {
	payload := `<img src=x onerror=alert(1)>`
	policy, controller := newPolicy(t, security.ModeVulnerable)

	assert.Equal(t, payload, policy.Text(payload), "vulnerable mode renders raw")

	controller.Toggle()
	require.Equal(t, security.ModeSecure, controller.Mode())
	assert.Equal(t, "&lt;img src=x onerror=alert(1)&gt;", policy.Text(payload))

	controller.Toggle()
	assert.Equal(t, payload, policy.Text(payload), "toggling back re-exposes the raw payload")
}

func TestPolicy_ReviewFields(t *testing.T) {
	policy, _ := newPolicy(t, security.ModeSecure)

	review := commerce.Review{
		ID:        3,
		ProductID: 1,
		Username:  `<b>mallory</b>`,
		Title:     `"quoted"`,
		Content:   `<script>steal()</script>`,
		Rating:    5,
	}
	rendered := policy.Review(review)

	assert.Equal(t, "&lt;b&gt;mallory&lt;/b&gt;", rendered.Username)
	assert.Equal(t, "&quot;quoted&quot;", rendered.Title)
	assert.Equal(t, "&lt;script&gt;steal()&lt;/script&gt;", rendered.Content)
	assert.Equal(t, 5, rendered.Rating)
	assert.Equal(t, 3, rendered.ID)

	assert.Equal(t, `<script>steal()</script>`, review.Content, "the input value is untouched")
}

func TestPolicy_CartNote(t *testing.T) {
	policy, controller := newPolicy(t, security.ModeVulnerable)

	entry := service.CartEntry{
		CartItem: commerce.CartItem{ID: 1, UserID: 7, ProductID: 2, Quantity: 1, Note: `<svg onload=alert(1)>`},
	}

	raw := policy.CartEntry(entry)
	assert.Equal(t, `<svg onload=alert(1)>`, raw.Note)

	controller.Toggle()
	escaped := policy.CartEntry(entry)
	assert.Equal(t, "&lt;svg onload=alert(1)&gt;", escaped.Note)
	assert.Equal(t, entry.Quantity, escaped.Quantity)
}

func TestPolicy_Collections(t *testing.T) {
	policy, _ := newPolicy(t, security.ModeSecure)

	reviews := policy.Reviews([]commerce.Review{
		{Content: "<i>a</i>"},
		{Content: "plain"},
	})
	require.Len(t, reviews, 2)
	assert.Equal(t, "&lt;i&gt;a&lt;/i&gt;", reviews[0].Content)
	assert.Equal(t, "plain", reviews[1].Content)

	entries := policy.CartEntries([]service.CartEntry{
		{CartItem: commerce.CartItem{Note: "<u>n</u>"}},
	})
	require.Len(t, entries, 1)
	assert.Equal(t, "&lt;u&gt;n&lt;/u&gt;", entries[0].Note)
}
