// Package milestones resolves the many spellings a task can use to reference a
// milestone ("7", "007", "m-7", "M-007", "Release 7") to one canonical milestone id.
package milestones

import "strings"

// NormalizeKey turns a milestone value into its comparison key: trimmed and
// lowercased. Blank input yields "".
func NormalizeKey(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	return strings.ToLower(trimmed)
}

// RefKind classifies a milestone reference before lookup.
type RefKind int

const (
	RefEmpty    RefKind = iota // blank
	RefNumeric                 // "7", "007"
	RefPrefixed                // "m-7", "M-007"
	RefRaw                     // anything else: a title or an unknown id
)

func (k RefKind) String() string {
	switch k {
	case RefEmpty:
		return "empty"
	case RefNumeric:
		return "numeric"
	case RefPrefixed:
		return "prefixed"
	default:
		return "raw"
	}
}

// Ref is a parsed milestone reference.
type Ref struct {
	Kind RefKind
	// Number is the numeric part with leading zeros stripped ("007" -> "7").
	// Set for RefNumeric and RefPrefixed only.
	Number string
	// Raw is the trimmed input, original case preserved.
	Raw string
	// Key is NormalizeKey(Raw).
	Key string
}

// ParseRef classifies value as empty, bare number, m-prefixed number or raw text.
func ParseRef(value string) Ref {
	raw := strings.TrimSpace(value)
	key := NormalizeKey(raw)
	if key == "" {
		return Ref{Kind: RefEmpty}
	}
	if isDigits(key) {
		return Ref{Kind: RefNumeric, Number: stripZeros(key), Raw: raw, Key: key}
	}
	if digits, ok := strings.CutPrefix(key, "m-"); ok && isDigits(digits) {
		return Ref{Kind: RefPrefixed, Number: stripZeros(digits), Raw: raw, Key: key}
	}
	return Ref{Kind: RefRaw, Raw: raw, Key: key}
}

// IsNumbered reports whether the reference carries a milestone number.
func (r Ref) IsNumbered() bool {
	return r.Kind == RefNumeric || r.Kind == RefPrefixed
}

// PrefixedKey returns the canonical "m-<n>" key for numbered refs, "" otherwise.
func (r Ref) PrefixedKey() string {
	if !r.IsNumbered() {
		return ""
	}
	return "m-" + r.Number
}

// idKeys returns every alias key an id registers, the raw key first. Only
// m-prefixed ids add the "m-<n>" and "<n>" variants; a bare numeric id
// registers itself alone.
func (r Ref) idKeys() []string {
	switch r.Kind {
	case RefEmpty:
		return nil
	case RefPrefixed:
		keys := []string{r.Key}
		for _, k := range []string{r.PrefixedKey(), r.Number} {
			if k != r.Key {
				keys = append(keys, k)
			}
		}
		return keys
	default:
		return []string{r.Key}
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func stripZeros(digits string) string {
	trimmed := strings.TrimLeft(digits, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}
