package assets

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Garsondee/hexmap/internal/mapdata"
)

// Class groups cached images.
type Class int

const (
	ClassTerrain Class = iota
	ClassTag
	ClassOverlay
)

// Key identifies one cached image. Terrains and tags use ID, overlays use
// Kind and Type.
type Key struct {
	Class Class
	ID    int
	Kind  mapdata.IconKind
	Type  string
}

func TerrainKey(id int) Key { return Key{Class: ClassTerrain, ID: id} }
func TagKey(id int) Key     { return Key{Class: ClassTag, ID: id} }
func OverlayKey(kind mapdata.IconKind, typ string) Key {
	return Key{Class: ClassOverlay, Kind: kind, Type: typ}
}

func (k Key) String() string {
	switch k.Class {
	case ClassTerrain:
		return fmt.Sprintf("terrain/%d", k.ID)
	case ClassTag:
		return fmt.Sprintf("tag/%d", k.ID)
	default:
		return fmt.Sprintf("overlay/%s/%s", k.Kind, k.Type)
	}
}

// Job is one image to load.
type Job struct {
	Key Key
	Src string
}

// RemoteConfig switches the loader to remote URLs. Terrain and tag URLs come
// from the catalog entries; overlay URLs from Overlays[kind][type].
type RemoteConfig struct {
	Overlays map[mapdata.IconKind]map[string]string
}

// RemoteFromConfig extracts the overlay URL table of a configuration file.
// Unknown kinds were already rejected when the file was parsed.
func RemoteFromConfig(cfg *mapdata.Config) *RemoteConfig {
	rc := &RemoteConfig{Overlays: make(map[mapdata.IconKind]map[string]string)}
	for kindName, types := range cfg.Overlays {
		kind, err := mapdata.ParseIconKind(kindName)
		if err != nil {
			continue
		}
		rc.Overlays[kind] = types
	}
	return rc
}

// localOverlays is the built-in icon set shipped next to the binary.
var localOverlays = map[mapdata.IconKind][]string{
	mapdata.KindLocation: {"town", "city", "village", "castle", "dungeon", "ruins", "temple", "camp"},
	mapdata.KindFeature:  {"cave", "tower", "bridge", "shrine", "mine", "portal"},
	mapdata.KindMarker:   {"quest", "danger", "treasure", "party"},
	mapdata.KindNote:     {"note", "rumour", "secret"},
}

// Plan lists the images to load. With remote set, sources are the configured
// URLs; otherwise the local fallback path table is used.
func Plan(cat *mapdata.Catalog, remote *RemoteConfig) []Job {
	var jobs []Job
	if remote != nil {
		for _, e := range cat.Terrains.Entries() {
			if e.Texture != "" {
				jobs = append(jobs, Job{Key: TerrainKey(e.ID), Src: e.Texture})
			}
		}
		for _, e := range cat.Tags.Entries() {
			if e.Icon != "" {
				jobs = append(jobs, Job{Key: TagKey(e.ID), Src: e.Icon})
			}
		}
		for _, kind := range mapdata.IconKinds {
			types := remote.Overlays[kind]
			names := make([]string, 0, len(types))
			for typ := range types {
				names = append(names, typ)
			}
			sort.Strings(names)
			for _, typ := range names {
				if types[typ] != "" {
					jobs = append(jobs, Job{Key: OverlayKey(kind, typ), Src: types[typ]})
				}
			}
		}
		return jobs
	}

	for _, e := range cat.Terrains.Entries() {
		jobs = append(jobs, Job{Key: TerrainKey(e.ID), Src: "terrain/" + slug(e.Name) + ".png"})
	}
	for _, e := range cat.Tags.Entries() {
		jobs = append(jobs, Job{Key: TagKey(e.ID), Src: "tags/" + slug(e.Name) + ".png"})
	}
	for _, kind := range mapdata.IconKinds {
		for _, typ := range localOverlays[kind] {
			jobs = append(jobs, Job{Key: OverlayKey(kind, typ), Src: "icons/" + kind.String() + "/" + typ + ".png"})
		}
	}
	return jobs
}

func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}
