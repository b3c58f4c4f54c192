package milestones

import (
	"fmt"
	"strings"

	"github.com/backlog-md/board/internal/types"
)

// AliasSource records how an alias key was derived.
type AliasSource string

const (
	SourceID    AliasSource = "id"
	SourceTitle AliasSource = "title"
)

// Alias is one entry of an AliasMap.
type Alias struct {
	Key      string      `json:"key"`
	ID       string      `json:"id"`
	Source   AliasSource `json:"source"`
	Archived bool        `json:"archived,omitempty"`
}

// CollisionReason explains why an alias was not registered.
type CollisionReason string

const (
	// ReasonTitleIsID: the title equals an id-derived key of some milestone.
	ReasonTitleIsID CollisionReason = "title-matches-id"
	// ReasonDuplicateActiveTitle: two active milestones share the title.
	ReasonDuplicateActiveTitle CollisionReason = "duplicate-active-title"
	// ReasonDuplicateArchivedTitle: two archived milestones share the title.
	ReasonDuplicateArchivedTitle CollisionReason = "duplicate-archived-title"
	// ReasonArchivedTitleInUse: an archived title is also an active title.
	ReasonArchivedTitleInUse CollisionReason = "archived-title-in-use"
	// ReasonIDConflict: two ids derive the same key; the loser is listed last.
	ReasonIDConflict CollisionReason = "id-conflict"
)

// Collision describes an alias that was dropped. MilestoneIDs lists every
// milestone that wanted the key.
type Collision struct {
	Key          string          `json:"key"`
	Reason       CollisionReason `json:"reason"`
	MilestoneIDs []string        `json:"milestoneIds"`
}

func (c Collision) String() string {
	return fmt.Sprintf("%s: %q claimed by %s", c.Reason, c.Key, strings.Join(c.MilestoneIDs, ", "))
}

// AliasMap maps normalized alias keys to canonical milestone ids. Build one
// per snapshot with BuildAliasMap; a nil *AliasMap behaves as an empty map.
type AliasMap struct {
	entries    map[string]Alias
	order      []string
	collisions []Collision
}

type claim struct {
	key      string
	id       string
	source   AliasSource
	archived bool
}

// BuildAliasMap registers every alias form of the given milestones.
//
// Id-derived keys (raw id, plus "m-<n>" and "<n>" for m-prefixed ids) come
// first, active before archived. Titles are added afterwards and only when unambiguous: not equal
// to any id-derived key, unique within their set, and (for archived titles)
// not used by an active milestone.
func BuildAliasMap(active, archived []types.Milestone) *AliasMap {
	m := &AliasMap{entries: make(map[string]Alias)}

	var claims []claim
	reserved := make(map[string]bool)
	for _, set := range []struct {
		milestones []types.Milestone
		archived   bool
	}{{active, false}, {archived, true}} {
		for _, ms := range set.milestones {
			id := strings.TrimSpace(ms.ID)
			for _, key := range ParseRef(id).idKeys() {
				reserved[key] = true
				claims = append(claims, claim{key: key, id: id, source: SourceID, archived: set.archived})
			}
		}
	}

	activeTitles := titleOwners(active)
	archivedTitles := titleOwners(archived)

	for _, key := range activeTitles.order {
		owners := activeTitles.ids[key]
		switch {
		case reserved[key]:
			m.collide(key, ReasonTitleIsID, owners...)
		case len(owners) > 1:
			m.collide(key, ReasonDuplicateActiveTitle, owners...)
		default:
			claims = append(claims, claim{key: key, id: owners[0], source: SourceTitle})
		}
	}
	for _, key := range archivedTitles.order {
		owners := archivedTitles.ids[key]
		switch {
		case len(activeTitles.ids[key]) > 0:
			m.collide(key, ReasonArchivedTitleInUse, append(append([]string{}, activeTitles.ids[key]...), owners...)...)
		case reserved[key]:
			m.collide(key, ReasonTitleIsID, owners...)
		case len(owners) > 1:
			m.collide(key, ReasonDuplicateArchivedTitle, owners...)
		default:
			claims = append(claims, claim{key: key, id: owners[0], source: SourceTitle, archived: true})
		}
	}

	for _, c := range claims {
		m.apply(c)
	}
	m.flatten()
	return m
}

// apply registers c unless the key is taken. The first claim wins, so ids
// beat titles and active milestones beat archived ones.
func (m *AliasMap) apply(c claim) {
	existing, ok := m.entries[c.key]
	if !ok {
		m.entries[c.key] = Alias{Key: c.key, ID: c.id, Source: c.source, Archived: c.archived}
		m.order = append(m.order, c.key)
		return
	}
	if strings.EqualFold(existing.ID, c.id) {
		return
	}
	m.collide(c.key, ReasonIDConflict, existing.ID, c.id)
}

// flatten rewrites every target to a fixed point so that canonicalizing a
// canonical id returns it unchanged. A target only moves when its own raw key
// was won by another milestone (id "m-5" next to an earlier "m-05").
func (m *AliasMap) flatten() {
	for _, key := range m.order {
		entry := m.entries[key]
		for hops := 0; hops < 4; hops++ {
			next, ok := m.entries[NormalizeKey(entry.ID)]
			if !ok || next.ID == entry.ID {
				break
			}
			entry.ID = next.ID
			entry.Archived = next.Archived
		}
		m.entries[key] = entry
	}
}

func (m *AliasMap) collide(key string, reason CollisionReason, ids ...string) {
	m.collisions = append(m.collisions, Collision{Key: key, Reason: reason, MilestoneIDs: ids})
}

// Lookup returns the canonical id registered for an already-normalized key.
func (m *AliasMap) Lookup(key string) (string, bool) {
	if m == nil || key == "" {
		return "", false
	}
	entry, ok := m.entries[key]
	return entry.ID, ok
}

// Len returns the number of registered keys.
func (m *AliasMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// Entries returns the aliases in registration order.
func (m *AliasMap) Entries() []Alias {
	if m == nil {
		return nil
	}
	out := make([]Alias, 0, len(m.order))
	for _, key := range m.order {
		out = append(out, m.entries[key])
	}
	return out
}

// Collisions returns the aliases that were dropped or lost a conflict while
// building the map.
func (m *AliasMap) Collisions() []Collision {
	if m == nil {
		return nil
	}
	return append([]Collision(nil), m.collisions...)
}

type titleIndex struct {
	order []string
	ids   map[string][]string
}

func titleOwners(milestones []types.Milestone) titleIndex {
	idx := titleIndex{ids: make(map[string][]string)}
	for _, ms := range milestones {
		key := NormalizeKey(ms.Title)
		if key == "" || strings.TrimSpace(ms.ID) == "" {
			continue
		}
		if _, seen := idx.ids[key]; !seen {
			idx.order = append(idx.order, key)
		}
		idx.ids[key] = append(idx.ids[key], strings.TrimSpace(ms.ID))
	}
	return idx
}
