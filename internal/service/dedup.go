package service

import (
	"strings"
	"time"

	"github.com/portalhomehub/portal-backend/internal/domain"
)

// Dedup defaults. Autosave fires on a timer while the user types; these
// tunables bound how far back we look for the row the save belongs to.
const (
	DefaultDedupWindow        = 10 * time.Minute
	DefaultDedupMaxCandidates = 5
)

// DefaultGenericMarkers are substrings that mark a title as auto-generated
// rather than user-chosen.
var DefaultGenericMarkers = []string{"Untitled", "Property -"}

// DedupPolicy decides whether a create request is really a re-save of an
// existing draft. The heuristic favors precision: it only suppresses when
// the same logical submission is clearly being re-saved, and accepts that
// two identical generic drafts in the same window will be merged.
type DedupPolicy struct {
	Window         time.Duration
	MaxCandidates  int
	GenericMarkers []string
}

// NewDedupPolicy builds a policy, falling back to defaults for zero values.
func NewDedupPolicy(window time.Duration, maxCandidates int, markers []string) DedupPolicy {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	if maxCandidates <= 0 {
		maxCandidates = DefaultDedupMaxCandidates
	}
	if len(markers) == 0 {
		markers = DefaultGenericMarkers
	}
	return DedupPolicy{
		Window:         window,
		MaxCandidates:  maxCandidates,
		GenericMarkers: markers,
	}
}

// IsGenericTitle reports whether a title carries no dedup signal: empty,
// whitespace, or containing one of the generic markers.
func (p DedupPolicy) IsGenericTitle(title string) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return true
	}
	for _, marker := range p.GenericMarkers {
		if strings.Contains(title, marker) {
			return true
		}
	}
	return false
}

// SameListing reports whether two payloads describe the same in-progress
// submission: price, bedrooms, bathrooms, region and property_type must all
// match exactly, a field absent on both sides counts as a match.
func SameListing(a, b *domain.ListingPayload) bool {
	if a == nil || b == nil {
		return a == b
	}
	return sameNumber(a.Price, b.Price) &&
		sameNumber(a.Bedrooms, b.Bedrooms) &&
		sameNumber(a.Bathrooms, b.Bathrooms) &&
		a.Region == b.Region &&
		a.PropertyType == b.PropertyType
}

func sameNumber(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
