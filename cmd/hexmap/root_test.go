package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/cobra"

	"github.com/Garsondee/hexmap/internal/config"
	"github.com/Garsondee/hexmap/internal/mapdata"
)

type parsedCmd struct {
	cmd *cobra.Command
	f   flags
}

// parsedRoot parses args and copies the flag values the way RunE sees them.
func parsedRoot(t *testing.T, args ...string) parsedCmd {
	t.Helper()
	cmd := newRootCmd()
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("parse flags %v: %v", args, err)
	}
	f := flags{}
	f.config, _ = cmd.Flags().GetString("config")
	f.role, _ = cmd.Flags().GetString("role")
	f.width, _ = cmd.Flags().GetInt("width")
	f.height, _ = cmd.Flags().GetInt("height")
	return parsedCmd{cmd: cmd, f: f}
}

func TestApplyFlags_OnlyChangedFlagsOverride(t *testing.T) {
	p := parsedRoot(t, "--role", "dm", "-c", "world.yaml", "--width", "900")
	cfg, err := config.LoadViewerFrom(map[string]string{
		"HEXMAP_CONFIG": "env.yaml",
		"HEXMAP_AUTHOR": "alice",
		"HEXMAP_HEIGHT": "700",
	})
	if err != nil {
		t.Fatalf("load env: %v", err)
	}

	applyFlags(p.cmd, p.f, &cfg)

	if cfg.ConfigPath != "world.yaml" {
		t.Fatalf("expected flag config path, got %q", cfg.ConfigPath)
	}
	if cfg.ViewerRole() != mapdata.RoleDM {
		t.Fatalf("expected dm role, got %q", cfg.ViewerRole())
	}
	if cfg.Width != 900 {
		t.Fatalf("expected width 900 from flag, got %d", cfg.Width)
	}
	if cfg.Height != 700 || cfg.Author != "alice" {
		t.Fatalf("unset flags must keep env values, got height=%d author=%q", cfg.Height, cfg.Author)
	}
}

func TestResolveConfig_FlagRepairsInvalidEnv(t *testing.T) {
	env := map[string]string{"HEXMAP_WIDTH": "0"}

	cfg, err := config.LoadViewerFrom(env)
	if err != nil {
		t.Fatalf("loading env must not range-check: %v", err)
	}
	p := parsedRoot(t, "--width", "800")
	cfg, err = resolveConfig(p.cmd, p.f, cfg)
	if err != nil {
		t.Fatalf("--width 800 should override HEXMAP_WIDTH=0, got %v", err)
	}
	if cfg.Width != 800 {
		t.Fatalf("expected width 800, got %d", cfg.Width)
	}

	cfg, _ = config.LoadViewerFrom(env)
	_, err = resolveConfig(parsedRoot(t).cmd, flags{}, cfg)
	if err == nil || !strings.Contains(err.Error(), "window size") {
		t.Fatalf("expected window size error without the flag, got %v", err)
	}
}

func TestLoadMap(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "map.yaml")
	snapPath := filepath.Join(dir, "snap.json")
	if err := os.WriteFile(cfgPath, []byte(`
grid: {width: 4, height: 4, hexSize: 20}
terrains:
  Forest: {id: 3, color: "#2f5d2a"}
`), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(snapPath, []byte(`{
  "hexes": {"1_1": {"type": "Forest"}, "9_9": {"type": 3}, "bad": {"type": 3}}
}`), 0o600); err != nil {
		t.Fatal(err)
	}

	log, hook := test.NewNullLogger()
	mapCfg, snap, err := loadMap(config.Viewer{ConfigPath: cfgPath, SnapshotPath: snapPath}, log)
	if err != nil {
		t.Fatalf("loadMap: %v", err)
	}
	if mapCfg.Grid.Width != 4 {
		t.Fatalf("expected grid width 4, got %d", mapCfg.Grid.Width)
	}
	if len(snap.Hexes) != 1 {
		t.Fatalf("expected 1 valid hex, got %d", len(snap.Hexes))
	}
	if n := len(hook.AllEntries()); n != 2 {
		t.Fatalf("expected out-of-grid and malformed keys to be logged, got %d entries", n)
	}

	if _, _, err := loadMap(config.Viewer{ConfigPath: filepath.Join(dir, "missing.yaml")}, log); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestLoadMap_Defaults(t *testing.T) {
	log, hook := test.NewNullLogger()
	mapCfg, snap, err := loadMap(config.Viewer{}, log)
	if err != nil {
		t.Fatalf("loadMap: %v", err)
	}
	if w := mapCfg.Grid.Grid().W; w != 50 {
		t.Fatalf("expected default grid width 50, got %d", w)
	}
	if len(snap.Hexes) != 0 {
		t.Fatalf("expected empty snapshot, got %d hexes", len(snap.Hexes))
	}
	if n := len(hook.AllEntries()); n != 1 {
		t.Fatalf("expected one warning, got %d", n)
	}
}
