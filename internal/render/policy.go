package render

import (
	"vulnshop/internal/commerce"
	"vulnshop/internal/commerce/service"
)

// Sanitizer is the mode-dependent escaping transform. In vulnerable mode it
// is the identity function.
type Sanitizer interface {
	Sanitize(string) string
}

// Policy applies the active sanitization mode to user-authored text at the
// moment it enters a response. It never rewrites stored data: the same row
// renders differently before and after a mode toggle.
type Policy struct {
	sanitizer Sanitizer
}

func NewPolicy(s Sanitizer) *Policy {
	return &Policy{sanitizer: s}
}

// Text renders a single user-authored string.
func (p *Policy) Text(s string) string {
	return p.sanitizer.Sanitize(s)
}

// Review renders the user-authored review fields. Rating and identifiers
// pass through untouched.
func (p *Policy) Review(r commerce.Review) commerce.Review {
	r.Username = p.sanitizer.Sanitize(r.Username)
	r.Title = p.sanitizer.Sanitize(r.Title)
	r.Content = p.sanitizer.Sanitize(r.Content)
	return r
}

func (p *Policy) Reviews(reviews []commerce.Review) []commerce.Review {
	rendered := make([]commerce.Review, len(reviews))
	for i, r := range reviews {
		rendered[i] = p.Review(r)
	}
	return rendered
}

// CartEntry renders the note, the only user-authored field on a cart row.
func (p *Policy) CartEntry(e service.CartEntry) service.CartEntry {
	e.Note = p.sanitizer.Sanitize(e.Note)
	return e
}

func (p *Policy) CartEntries(entries []service.CartEntry) []service.CartEntry {
	rendered := make([]service.CartEntry, len(entries))
	for i, e := range entries {
		rendered[i] = p.CartEntry(e)
	}
	return rendered
}
