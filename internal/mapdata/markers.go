package mapdata

import (
	"errors"
	"fmt"
)

// ErrUnknownKind is returned when an icon entry carries an unrecognised kind.
var ErrUnknownKind = errors.New("unknown icon kind")

// IconKind classifies overlay icon entries. The numeric order is the draw
// priority: locations first, notes last.
type IconKind int

const (
	KindLocation IconKind = iota
	KindFeature
	KindMarker
	KindNote
)

// IconKinds lists every kind in priority order.
var IconKinds = []IconKind{KindLocation, KindFeature, KindMarker, KindNote}

func (k IconKind) String() string {
	switch k {
	case KindLocation:
		return "location"
	case KindFeature:
		return "feature"
	case KindMarker:
		return "marker"
	case KindNote:
		return "note"
	}
	return fmt.Sprintf("IconKind(%d)", int(k))
}

// ParseIconKind maps the wire name of a kind.
func ParseIconKind(s string) (IconKind, error) {
	for _, k := range IconKinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// IconEntry is one overlay item on a hex. The set of implementations is
// closed: LocationIcon, FeatureIcon, MarkerIcon and NoteIcon.
type IconEntry interface {
	Kind() IconKind
	Base() IconBase
	isIconEntry()
}

// IconBase carries the fields shared by every icon kind.
type IconBase struct {
	Type   string
	Order  *int
	Hidden bool
}

func (b IconBase) Base() IconBase { return b }

type (
	LocationIcon struct{ IconBase }
	FeatureIcon  struct{ IconBase }
	MarkerIcon   struct{ IconBase }
	NoteIcon     struct{ IconBase }
)

func (LocationIcon) Kind() IconKind { return KindLocation }
func (FeatureIcon) Kind() IconKind  { return KindFeature }
func (MarkerIcon) Kind() IconKind   { return KindMarker }
func (NoteIcon) Kind() IconKind     { return KindNote }

// The marker sits on the variants, not on IconBase, so embedding IconBase
// elsewhere does not produce an IconEntry.
func (LocationIcon) isIconEntry() {}
func (FeatureIcon) isIconEntry()  {}
func (MarkerIcon) isIconEntry()   {}
func (NoteIcon) isIconEntry()     {}

// NewIcon builds the variant for kind.
func NewIcon(kind IconKind, base IconBase) (IconEntry, error) {
	switch kind {
	case KindLocation:
		return LocationIcon{base}, nil
	case KindFeature:
		return FeatureIcon{base}, nil
	case KindMarker:
		return MarkerIcon{base}, nil
	case KindNote:
		return NoteIcon{base}, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownKind, kind)
}

// HexMarkerData aggregates the overlay icons placed on one hex.
type HexMarkerData struct {
	Icons          []IconEntry
	HasHiddenItems bool
}

type wireIcon struct {
	Kind   string `json:"kind"`
	Type   string `json:"type"`
	Order  *int   `json:"order,omitempty"`
	Hidden bool   `json:"hidden,omitempty"`
}

type wireMarker struct {
	Icons          []wireIcon `json:"icons"`
	HasHiddenItems bool       `json:"hasHiddenItems,omitempty"`
}

// decode converts the wire form, dropping entries with unknown kinds and
// returning one error per dropped entry.
func (w wireMarker) decode() (HexMarkerData, []error) {
	out := HexMarkerData{HasHiddenItems: w.HasHiddenItems}
	var errs []error
	for i, wi := range w.Icons {
		kind, err := ParseIconKind(wi.Kind)
		if err != nil {
			errs = append(errs, fmt.Errorf("icon %d: %w", i, err))
			continue
		}
		icon, err := NewIcon(kind, IconBase{Type: wi.Type, Order: wi.Order, Hidden: wi.Hidden})
		if err != nil {
			errs = append(errs, fmt.Errorf("icon %d: %w", i, err))
			continue
		}
		out.Icons = append(out.Icons, icon)
		if wi.Hidden {
			out.HasHiddenItems = true
		}
	}
	return out, errs
}
