package errors

import (
	"math"
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// MaxNodeIDLength bounds node identifiers in scenes and snapshots.
const MaxNodeIDLength = 128

// ValidateNodeID validates a node identifier from a scene file or request.
// Identifiers end up in SVG text, DOT sources and log lines, so the rules are
// conservative:
//   - No empty ids
//   - No control characters
//   - No quotes, angle brackets or backslashes
//   - Maximum length of MaxNodeIDLength characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidScene, "node id cannot be empty")
	}

	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidScene, "node id too long (max %d characters)", MaxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidScene, "node id contains invalid control characters")
		}
	}

	if i := strings.IndexAny(id, "\"'<>\\"); i >= 0 {
		return New(ErrCodeInvalidScene, "node id contains invalid character %q", id[i])
	}

	return nil
}

// snapshotIDRegex matches the canonical UUID form used for snapshot ids.
var snapshotIDRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidateSnapshotID validates a snapshot id taken from a URL or CLI flag.
func ValidateSnapshotID(id string) error {
	if !snapshotIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid snapshot id: %q", id)
	}
	return nil
}

func finite(v [3]float64) bool {
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// ValidateAnchor checks that every component of an anchor lies in [0, 1].
func ValidateAnchor(field string, v [3]float64) error {
	if !finite(v) {
		return New(ErrCodeInvalidScene, "%s must be finite", field)
	}
	for _, f := range v {
		if f < 0 || f > 1 {
			return New(ErrCodeInvalidScene, "%s must be within [0, 1], got %v", field, v)
		}
	}
	return nil
}

// ValidateSize checks that every component of a size is non-negative.
func ValidateSize(field string, v [3]float64) error {
	if !finite(v) {
		return New(ErrCodeInvalidScene, "%s must be finite", field)
	}
	for _, f := range v {
		if f < 0 {
			return New(ErrCodeInvalidScene, "%s must be non-negative, got %v", field, v)
		}
	}
	return nil
}

// ValidateConstraint checks a size constraint, where each component is
// either non-negative or exactly -1 (unset).
func ValidateConstraint(field string, v [3]float64) error {
	if !finite(v) {
		return New(ErrCodeInvalidScene, "%s must be finite", field)
	}
	for _, f := range v {
		if f < 0 && f != -1 {
			return New(ErrCodeInvalidScene, "%s components must be >= 0 or -1, got %v", field, v)
		}
	}
	return nil
}

// ValidateAspectRatio checks that a ratio is positive and finite.
func ValidateAspectRatio(r float64) error {
	if math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
		return New(ErrCodeInvalidBehavior, "aspect_ratio must be positive, got %v", r)
	}
	return nil
}

// ValidateDimension checks a single width or height override: finite and
// non-negative. Zero means "not set".
func ValidateDimension(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be finite, got %v", field, v)
	}
	if v < 0 {
		return New(ErrCodeInvalidInput, "%s must be non-negative, got %v", field, v)
	}
	return nil
}

// ValidateTicks checks a requested tick count against an upper bound.
func ValidateTicks(n, limit int) error {
	if n < 1 || n > limit {
		return New(ErrCodeInvalidInput, "ticks must be between 1 and %d, got %d", limit, n)
	}
	return nil
}

// ValidateFormat checks that format is one of allowed (case-insensitive).
func ValidateFormat(format string, allowed ...string) error {
	if slices.Contains(allowed, strings.ToLower(format)) {
		return nil
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
}
