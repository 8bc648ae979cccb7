package mapdata

import (
	"sort"
	"strconv"
	"strings"
)

// Entry is implemented by configuration records that have an id and a name.
type Entry interface {
	EntryID() int
	EntryName() string
}

// Table resolves references against one kind of configuration entry. It is
// immutable once built.
type Table[E Entry] struct {
	byID     map[int]E
	nameToID map[string]int
	foldToID map[string]int
}

// NewTable builds lookup maps from a name→entry configuration mapping. Both
// the mapping key and the entry's own name resolve to its id.
func NewTable[E Entry](entries map[string]E) Table[E] {
	t := Table[E]{
		byID:     make(map[int]E, len(entries)),
		nameToID: make(map[string]int, len(entries)),
		foldToID: make(map[string]int, len(entries)),
	}
	// Sorted for a stable winner when two names fold to the same key.
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		e := entries[name]
		t.byID[e.EntryID()] = e
		for _, n := range []string{name, e.EntryName()} {
			if n == "" {
				continue
			}
			t.nameToID[n] = e.EntryID()
			if _, ok := t.foldToID[strings.ToLower(n)]; !ok {
				t.foldToID[strings.ToLower(n)] = e.EntryID()
			}
		}
	}
	return t
}

// ByID returns the entry with the given id.
func (t Table[E]) ByID(id int) (E, bool) {
	e, ok := t.byID[id]
	return e, ok
}

// IDOf resolves a reference to an id. Names are matched exactly first, then
// case-insensitively, then as a numeric id.
func (t Table[E]) IDOf(ref Ref) (int, bool) {
	if ref.Name == "" {
		_, ok := t.byID[ref.ID]
		return ref.ID, ok
	}
	if id, ok := t.nameToID[ref.Name]; ok {
		return id, true
	}
	if id, ok := t.foldToID[strings.ToLower(ref.Name)]; ok {
		return id, true
	}
	if id, err := strconv.Atoi(ref.Name); err == nil {
		if _, ok := t.byID[id]; ok {
			return id, true
		}
	}
	return 0, false
}

// Resolve returns the entry a reference points at.
func (t Table[E]) Resolve(ref Ref) (E, bool) {
	id, ok := t.IDOf(ref)
	if !ok {
		var zero E
		return zero, false
	}
	return t.ByID(id)
}

// Entries returns every entry ordered by id.
func (t Table[E]) Entries() []E {
	out := make([]E, 0, len(t.byID))
	for _, e := range t.byID {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryID() < out[j].EntryID() })
	return out
}

// Len is the number of distinct ids.
func (t Table[E]) Len() int { return len(t.byID) }

// Catalog bundles the terrain and tag tables for one engine instance.
type Catalog struct {
	Terrains Table[TerrainEntry]
	Tags     Table[TagEntry]
}

// NewCatalog builds both tables. Call again whenever configuration changes.
func NewCatalog(terrains map[string]TerrainEntry, tags map[string]TagEntry) *Catalog {
	return &Catalog{
		Terrains: NewTable(terrains),
		Tags:     NewTable(tags),
	}
}

// TerrainOf resolves the terrain id of a hex record.
func (c *Catalog) TerrainOf(h HexData) (int, bool) {
	if h.Type.IsZero() {
		return 0, false
	}
	return c.Terrains.IDOf(h.Type)
}
