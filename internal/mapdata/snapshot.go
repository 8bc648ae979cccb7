package mapdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/Garsondee/hexmap/internal/hexgrid"
)

// ErrMalformedKey marks a snapshot key that is not a valid in-grid "col_row".
var ErrMalformedKey = errors.New("malformed hex key")

// Snapshot is a full copy of the map state handed to the engine.
type Snapshot struct {
	Hexes   map[string]HexData
	Markers map[string]HexMarkerData
	Paths   []MapPath
}

// Issue records one snapshot entry that was skipped.
type Issue struct {
	Section string // hexes, markers, paths
	Key     string
	Err     error
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s[%s]: %v", i.Section, i.Key, i.Err)
}

func (i Issue) Unwrap() error { return i.Err }

type wireSnapshot struct {
	Hexes   map[string]json.RawMessage `json:"hexes"`
	Markers map[string]json.RawMessage `json:"markers"`
	Paths   []json.RawMessage          `json:"paths"`
}

// DecodeSnapshot reads a JSON snapshot. Entries that fail to decode, carry a
// malformed key or fall outside grid are skipped and reported as issues; only
// a document-level syntax error is returned as err.
func DecodeSnapshot(r io.Reader, grid hexgrid.Grid) (*Snapshot, []Issue, error) {
	var w wireSnapshot
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, nil, fmt.Errorf("decode snapshot: %w", err)
	}
	snap := &Snapshot{
		Hexes:   make(map[string]HexData, len(w.Hexes)),
		Markers: make(map[string]HexMarkerData, len(w.Markers)),
	}
	var issues []Issue

	for _, key := range sortedKeys(w.Hexes) {
		if _, err := CheckKey(key, grid); err != nil {
			issues = append(issues, Issue{Section: "hexes", Key: key, Err: err})
			continue
		}
		var h HexData
		if err := json.Unmarshal(w.Hexes[key], &h); err != nil {
			issues = append(issues, Issue{Section: "hexes", Key: key, Err: err})
			continue
		}
		snap.Hexes[key] = h
	}

	for _, key := range sortedKeys(w.Markers) {
		if _, err := CheckKey(key, grid); err != nil {
			issues = append(issues, Issue{Section: "markers", Key: key, Err: err})
			continue
		}
		var wm wireMarker
		if err := json.Unmarshal(w.Markers[key], &wm); err != nil {
			issues = append(issues, Issue{Section: "markers", Key: key, Err: err})
			continue
		}
		m, errs := wm.decode()
		for _, err := range errs {
			issues = append(issues, Issue{Section: "markers", Key: key, Err: err})
		}
		snap.Markers[key] = m
	}

	for i, raw := range w.Paths {
		var p MapPath
		if err := json.Unmarshal(raw, &p); err != nil {
			issues = append(issues, Issue{Section: "paths", Key: fmt.Sprint(i), Err: err})
			continue
		}
		p.Points = FinitePoints(p.Points)
		snap.Paths = append(snap.Paths, p)
	}
	return snap, issues, nil
}

// LoadSnapshot opens and decodes a snapshot file.
func LoadSnapshot(path string, grid hexgrid.Grid) (*Snapshot, []Issue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return DecodeSnapshot(f, grid)
}

// EncodeSnapshot writes snap as indented JSON.
func EncodeSnapshot(w io.Writer, snap *Snapshot) error {
	out := struct {
		Hexes   map[string]HexData    `json:"hexes"`
		Markers map[string]wireMarker `json:"markers,omitempty"`
		Paths   []MapPath             `json:"paths,omitempty"`
	}{
		Hexes:   snap.Hexes,
		Markers: make(map[string]wireMarker, len(snap.Markers)),
		Paths:   snap.Paths,
	}
	for key, m := range snap.Markers {
		wm := wireMarker{HasHiddenItems: m.HasHiddenItems}
		for _, icon := range m.Icons {
			b := icon.Base()
			wm.Icons = append(wm.Icons, wireIcon{Kind: icon.Kind().String(), Type: b.Type, Order: b.Order, Hidden: b.Hidden})
		}
		out.Markers[key] = wm
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// CheckKey parses key and verifies it lies inside grid.
func CheckKey(key string, grid hexgrid.Grid) (hexgrid.Coord, error) {
	c, err := hexgrid.ParseKey(key)
	if err != nil {
		return hexgrid.Coord{}, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}
	if !grid.Contains(c) {
		return hexgrid.Coord{}, fmt.Errorf("%w: %s outside %dx%d", ErrMalformedKey, key, grid.W, grid.H)
	}
	return c, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
