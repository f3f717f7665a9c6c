package querypath

import (
	"fmt"
	"strings"
)

// Casing selects how raw segments are mapped to stored document keys.
type Casing int

const (
	// CasingCapitalize upper-cases the first character of every segment.
	// The housing dataset stores PascalCase keys (CSDUID, Dimensions, Value).
	CasingCapitalize Casing = iota

	// CasingPreserve uses segments exactly as given.
	CasingPreserve
)

// String returns the configuration name of the casing.
func (c Casing) String() string {
	switch c {
	case CasingCapitalize:
		return "capitalize"
	case CasingPreserve:
		return "preserve"
	default:
		return fmt.Sprintf("Casing(%d)", int(c))
	}
}

// ParseCasing converts a configuration value to a Casing.
// The empty string selects CasingCapitalize.
func ParseCasing(s string) (Casing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "capitalize":
		return CasingCapitalize, nil
	case "preserve":
		return CasingPreserve, nil
	default:
		return 0, fmt.Errorf("unknown key casing %q: must be capitalize or preserve", s)
	}
}

// Normalizer maps raw paths onto stored key casing.
// The zero value capitalizes. Normalizer is safe for concurrent use.
type Normalizer struct {
	Casing Casing
}

// Segment normalizes a single segment.
func (n Normalizer) Segment(seg string) string {
	if n.Casing == CasingPreserve {
		return seg
	}
	return Capitalize(seg)
}

// Path returns the normalized, dot-joined form of p.
func (n Normalizer) Path(p Path) string {
	out := make([]string, len(p.segments))
	for i, seg := range p.segments {
		out[i] = n.Segment(seg)
	}
	return strings.Join(out, Separator)
}

// OutputAlias returns the normalized output key of p, used as the SQL column alias.
func (n Normalizer) OutputAlias(p Path) string {
	return n.Segment(p.OutputKey())
}

// Normalize parses raw and returns its normalized form.
func (n Normalizer) Normalize(raw string) (string, error) {
	p, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return n.Path(p), nil
}

// OutputKey parses raw and returns its last raw segment.
func OutputKey(raw string) (string, error) {
	p, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return p.OutputKey(), nil
}
