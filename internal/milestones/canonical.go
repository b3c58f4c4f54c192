package milestones

import (
	"strings"

	"github.com/backlog-md/board/internal/types"
)

// Canonicalize resolves a raw task milestone value against the alias map.
//
// Blank input returns "". A direct key hit returns the mapped id. Numbered
// values ("7", "007", "m-007") also try "m-<n>" and "<n>". Anything else is
// returned trimmed and otherwise unchanged so unknown milestones still form
// their own lane.
func (m *AliasMap) Canonicalize(raw string) string {
	if entry, ok := m.resolve(raw); ok {
		return entry.ID
	}
	return ParseRef(raw).Raw
}

// resolve finds the alias entry raw canonicalizes through, if any.
func (m *AliasMap) resolve(raw string) (Alias, bool) {
	if m == nil {
		return Alias{}, false
	}
	ref := ParseRef(raw)
	keys := []string{ref.Key}
	if ref.IsNumbered() {
		keys = append(keys, ref.PrefixedKey(), ref.Number)
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if entry, ok := m.entries[key]; ok {
			return entry, true
		}
	}
	return Alias{}, false
}

// Canonicalize is shorthand for aliases.Canonicalize(raw).
func Canonicalize(raw string, aliases *AliasMap) string {
	return aliases.Canonicalize(raw)
}

// CanonicalKey returns NormalizeKey(Canonicalize(raw)).
func (m *AliasMap) CanonicalKey(raw string) string {
	return NormalizeKey(m.Canonicalize(raw))
}

// ArchivedKeys is the set of canonical keys that belong to archived milestones.
type ArchivedKeys map[string]bool

// Has reports whether key (already normalized) is archived.
func (a ArchivedKeys) Has(key string) bool {
	return key != "" && a[key]
}

// CollectArchivedKeys gathers the keys of archived milestones: each archived
// entity id, and each explicitly listed archived id in both its raw and
// canonical form. A canonical form owned by an active milestone is left out,
// so an archived id that lost its aliases never hides the active winner.
func CollectArchivedKeys(archived []types.Milestone, archivedIDs []string, aliases *AliasMap) ArchivedKeys {
	keys := make(ArchivedKeys)
	add := func(value string) {
		if key := NormalizeKey(value); key != "" {
			keys[key] = true
		}
	}
	addWithCanonical := func(value string) {
		add(value)
		if entry, ok := aliases.resolve(value); !ok || entry.Archived {
			add(aliases.Canonicalize(value))
		}
	}
	for _, ms := range archived {
		addWithCanonical(ms.ID)
	}
	for _, id := range archivedIDs {
		addWithCanonical(id)
	}
	return keys
}

// Label returns the display label for a milestone value: the title of the
// first entity whose id matches, else the value itself.
func Label(value string, entities ...[]types.Milestone) string {
	key := NormalizeKey(value)
	if key == "" {
		return ""
	}
	for _, set := range entities {
		for _, ms := range set {
			if NormalizeKey(ms.ID) == key {
				if title := strings.TrimSpace(ms.Title); title != "" {
					return title
				}
				return strings.TrimSpace(ms.ID)
			}
		}
	}
	return strings.TrimSpace(value)
}

// CollectIDs returns the canonical milestone values referenced by the config
// list followed by the tasks, deduplicated by key in first-seen order.
func CollectIDs(configIDs []string, tasks []types.Task, aliases *AliasMap) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(raw string) {
		canonical := aliases.Canonicalize(raw)
		key := NormalizeKey(canonical)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, canonical)
	}
	for _, id := range configIDs {
		add(id)
	}
	for _, task := range tasks {
		add(task.Milestone)
	}
	return out
}
