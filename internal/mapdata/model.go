// Package mapdata holds the records the map engine renders: hex snapshots,
// terrain and tag configuration, marker overlays and vector paths. Records
// arrive as full snapshots from external storage and are treated read-only.
package mapdata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Ref points at a terrain or tag either by numeric id or, for legacy
// records, by name.
type Ref struct {
	ID   int
	Name string
}

// IDRef builds a numeric reference.
func IDRef(id int) Ref { return Ref{ID: id} }

// NameRef builds a legacy name reference.
func NameRef(name string) Ref { return Ref{Name: name} }

// IsZero reports an absent reference.
func (r Ref) IsZero() bool { return r.ID == 0 && r.Name == "" }

func (r Ref) String() string {
	if r.Name != "" {
		return r.Name
	}
	return strconv.Itoa(r.ID)
}

// UnmarshalJSON accepts a number, a string or null.
func (r *Ref) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*r = Ref{}
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = Ref{Name: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("ref: want number or string, got %s", b)
	}
	id, err := refID(n)
	if err != nil {
		return err
	}
	*r = Ref{ID: id}
	return nil
}

// maxExactID is the largest magnitude a float64 holds without rounding.
const maxExactID = 1 << 53

// refID accepts integral numbers only; "3" and "3.0" are id 3, "3.7" is an
// error.
func refID(n json.Number) (int, error) {
	if i, err := n.Int64(); err == nil {
		if i < math.MinInt || i > math.MaxInt {
			return 0, fmt.Errorf("ref: id %s out of range", n)
		}
		return int(i), nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > maxExactID {
		return 0, fmt.Errorf("ref: id %s is not an integer", n)
	}
	return int(f), nil
}

// MarshalJSON writes ids as numbers and names as strings.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.Name != "" {
		return json.Marshal(r.Name)
	}
	if r.ID == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

// HexData is one hex record from the snapshot.
type HexData struct {
	Type           Ref   `json:"type"`
	MainTag        *Ref  `json:"mainTag,omitempty"`
	MainTagPrivate bool  `json:"mainTagPrivate,omitempty"`
	Tags           []Ref `json:"tags,omitempty"`
}

// TerrainEntry configures one terrain kind.
type TerrainEntry struct {
	ID      int     `json:"id" yaml:"id"`
	Name    string  `json:"name,omitempty" yaml:"name,omitempty"`
	Color   string  `json:"color" yaml:"color"`
	Texture string  `json:"texture,omitempty" yaml:"texture,omitempty"`
	Scale   float64 `json:"scale,omitempty" yaml:"scale,omitempty"`
}

func (e TerrainEntry) EntryID() int      { return e.ID }
func (e TerrainEntry) EntryName() string { return e.Name }

// RGBA is the flat fill colour, grey when the configured value is unusable.
func (e TerrainEntry) RGBA() color.RGBA {
	return ParseColor(e.Color, color.RGBA{R: 128, G: 128, B: 128, A: 255})
}

// TextureScale is the texture scale factor, 1 when unset.
func (e TerrainEntry) TextureScale() float64 {
	if e.Scale <= 0 {
		return 1
	}
	return e.Scale
}

// TagEntry configures one per-hex overlay tag icon.
type TagEntry struct {
	ID    int    `json:"id" yaml:"id"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Icon  string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

func (e TagEntry) EntryID() int      { return e.ID }
func (e TagEntry) EntryName() string { return e.Name }

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa", returning fallback on
// anything else.
func ParseColor(s string, fallback color.RGBA) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) == 6 {
		s += "ff"
	}
	if len(s) != 8 {
		return fallback
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallback
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}

// Role is the viewer's permission level.
type Role string

const (
	RolePlayer Role = "player"
	RoleDM     Role = "dm"
	RoleAdmin  Role = "admin"
)

// Privileged reports whether the role may see hidden content.
func (r Role) Privileged() bool {
	return r == RoleDM || r == RoleAdmin
}

// ParseRole maps a role string; unknown values fall back to player.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleDM:
		return RoleDM
	case RoleAdmin:
		return RoleAdmin
	default:
		return RolePlayer
	}
}
