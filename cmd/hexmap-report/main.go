// Package main prints a headless summary of a hex map: terrain coverage,
// terrain seams and the snapshot records that would be skipped.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Garsondee/hexmap/internal/hexgrid"
	"github.com/Garsondee/hexmap/internal/mapdata"
	"github.com/Garsondee/hexmap/internal/render"
)

// report is the computed summary of one map.
type report struct {
	grid hexgrid.Grid

	hexes      int
	empty      int
	unresolved int
	terrain    map[string]int

	// seams counts terrain boundaries per "a|b" pair (names sorted).
	seams map[string]int
	// spills counts, per terrain, the seams it bleeds across.
	spills map[string]int

	markers map[mapdata.IconKind]int
	hidden  int
	paths   map[mapdata.PathType]int
	issues  []mapdata.Issue
}

func main() {
	var configPath, snapshotPath string
	cmd := &cobra.Command{
		Use:          "hexmap-report",
		Short:        "Print terrain, seam and validation statistics for a hex map",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := mapdata.LoadConfig(configPath)
			if err != nil {
				return err
			}
			snap, issues, err := mapdata.LoadSnapshot(snapshotPath, cfg.Grid.Grid())
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), buildReport(cfg, snap, issues))
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "map config file (YAML)")
	cmd.Flags().StringVarP(&snapshotPath, "snapshot", "s", "", "map snapshot file (JSON)")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("snapshot")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func buildReport(cfg *mapdata.Config, snap *mapdata.Snapshot, issues []mapdata.Issue) report {
	grid := cfg.Grid.Grid()
	cat := cfg.Catalog()
	r := report{
		grid:    grid,
		terrain: make(map[string]int),
		seams:   make(map[string]int),
		spills:  make(map[string]int),
		markers: make(map[mapdata.IconKind]int),
		paths:   make(map[mapdata.PathType]int),
		issues:  issues,
	}

	ids := make(map[hexgrid.Coord]int, len(snap.Hexes))
	for key, h := range snap.Hexes {
		c, err := mapdata.CheckKey(key, grid)
		if err != nil {
			continue
		}
		r.hexes++
		id, ok := cat.TerrainOf(h)
		if !ok {
			if h.Type.IsZero() {
				r.empty++
			} else {
				r.unresolved++
			}
			continue
		}
		ids[c] = id
		r.terrain[terrainName(cat, id)]++
	}
	r.empty += grid.W*grid.H - r.hexes

	terrainOf := func(c hexgrid.Coord) (int, bool) {
		id, ok := ids[c]
		return id, ok
	}
	for _, e := range render.BlendEdges(grid, terrainOf) {
		ta, tb := ids[e.A], ids[e.B]
		r.seams[pairKey(terrainName(cat, ta), terrainName(cat, tb))]++
		bl := render.BuildBlend(grid, e, ta, tb)
		r.spills[terrainName(cat, bl.SourceTerrain)]++
	}

	for _, m := range snap.Markers {
		for _, icon := range m.Icons {
			r.markers[icon.Kind()]++
		}
		if m.HasHiddenItems {
			r.hidden++
		}
	}
	for _, p := range snap.Paths {
		r.paths[p.Type]++
	}
	return r
}

func terrainName(cat *mapdata.Catalog, id int) string {
	if t, ok := cat.Terrains.ByID(id); ok && t.Name != "" {
		return t.Name
	}
	return fmt.Sprintf("#%d", id)
}

func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

func sortedCounts[K ~string | ~int](m map[K]int) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

func printReport(w io.Writer, r report) {
	fmt.Fprintf(w, "=== Hex Map Report ===\n")
	fmt.Fprintf(w, "grid=%dx%d hex_size=%.1f hexes=%d empty=%d unresolved=%d\n\n",
		r.grid.W, r.grid.H, r.grid.Size, r.hexes, r.empty, r.unresolved)

	fmt.Fprintf(w, "-- terrain --\n")
	total := r.grid.W * r.grid.H
	for _, name := range sortedCounts(r.terrain) {
		fmt.Fprintf(w, "  %-16s %5d  %5.1f%%\n", name, r.terrain[name], 100*float64(r.terrain[name])/float64(total))
	}

	fmt.Fprintf(w, "\n-- seams --\n")
	if len(r.seams) == 0 {
		fmt.Fprintf(w, "  none\n")
	}
	for _, pair := range sortedCounts(r.seams) {
		fmt.Fprintf(w, "  %-32s %5d\n", strings.ReplaceAll(pair, "|", " / "), r.seams[pair])
	}
	for _, name := range sortedCounts(r.spills) {
		fmt.Fprintf(w, "  spills from %-20s %5d\n", name, r.spills[name])
	}

	fmt.Fprintf(w, "\n-- overlays --\n")
	kinds := make([]mapdata.IconKind, 0, len(r.markers))
	for k := range r.markers {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, k := range kinds {
		fmt.Fprintf(w, "  %-16s %5d\n", k, r.markers[k])
	}
	fmt.Fprintf(w, "  hexes with hidden items: %d\n", r.hidden)
	for _, t := range sortedCounts(r.paths) {
		fmt.Fprintf(w, "  path %-11s %5d\n", t, r.paths[t])
	}

	fmt.Fprintf(w, "\n-- skipped records (%d) --\n", len(r.issues))
	for _, is := range r.issues {
		fmt.Fprintf(w, "  %s\n", is.Error())
	}
}
