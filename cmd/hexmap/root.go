package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Garsondee/hexmap/internal/assets"
	"github.com/Garsondee/hexmap/internal/config"
	"github.com/Garsondee/hexmap/internal/engine"
	"github.com/Garsondee/hexmap/internal/logger"
	"github.com/Garsondee/hexmap/internal/mapdata"
	"github.com/Garsondee/hexmap/internal/render"
	"github.com/Garsondee/hexmap/internal/viewer"
)

type flags struct {
	config    string
	snapshot  string
	assetRoot string
	remote    bool
	role      string
	author    string
	width     int
	height    int
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "hexmap",
		Short: "Interactive hex map viewer",
		Long: `hexmap opens a window showing a hex map described by a YAML config and a
JSON snapshot. Every flag can also be set with a HEXMAP_* environment variable.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadViewer()
			if err != nil {
				return err
			}
			if cfg, err = resolveConfig(cmd, f, cfg); err != nil {
				return err
			}
			return run(cfg)
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&f.config, "config", "c", "", "map config file (YAML)")
	fs.StringVarP(&f.snapshot, "snapshot", "s", "", "map snapshot file (JSON)")
	fs.StringVar(&f.assetRoot, "assets", "assets", "directory for local fallback images")
	fs.BoolVar(&f.remote, "remote", false, "load images from the URLs in the config file")
	fs.StringVar(&f.role, "role", "player", "viewer role: player, dm or admin")
	fs.StringVar(&f.author, "author", "local", "author recorded on new paths")
	fs.IntVar(&f.width, "width", 1280, "window width")
	fs.IntVar(&f.height, "height", 800, "window height")
	fs.StringVar(&f.logLevel, "log-level", "info", "log level")
	fs.StringVar(&f.logFormat, "log-format", "text", "log format: text or json")
	return cmd
}

// applyFlags overrides cfg with the flags set explicitly on the command line.
func applyFlags(cmd *cobra.Command, f flags, cfg *config.Viewer) {
	fs := cmd.Flags()
	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	set("config", func() { cfg.ConfigPath = f.config })
	set("snapshot", func() { cfg.SnapshotPath = f.snapshot })
	set("assets", func() { cfg.AssetRoot = f.assetRoot })
	set("remote", func() { cfg.Remote = f.remote })
	set("role", func() { cfg.Role = f.role })
	set("author", func() { cfg.Author = f.author })
	set("width", func() { cfg.Width = f.width })
	set("height", func() { cfg.Height = f.height })
	set("log-level", func() { cfg.LogLevel = f.logLevel })
	set("log-format", func() { cfg.LogFormat = f.logFormat })
}

// resolveConfig applies the flags over the environment settings and only
// then range-checks the result.
func resolveConfig(cmd *cobra.Command, f flags, cfg config.Viewer) (config.Viewer, error) {
	applyFlags(cmd, f, &cfg)
	if err := cfg.Validate(); err != nil {
		return config.Viewer{}, err
	}
	return cfg, nil
}

// loadMap reads the config and snapshot files. Both are optional; skipped
// snapshot records are logged.
func loadMap(cfg config.Viewer, log logrus.FieldLogger) (*mapdata.Config, *mapdata.Snapshot, error) {
	mapCfg := &mapdata.Config{}
	if cfg.ConfigPath != "" {
		var err error
		if mapCfg, err = mapdata.LoadConfig(cfg.ConfigPath); err != nil {
			return nil, nil, err
		}
	} else {
		log.Warn("no map config given; drawing an empty default grid")
	}

	snap := &mapdata.Snapshot{}
	if cfg.SnapshotPath != "" {
		s, issues, err := mapdata.LoadSnapshot(cfg.SnapshotPath, mapCfg.Grid.Grid())
		if err != nil {
			return nil, nil, err
		}
		for _, is := range issues {
			log.WithFields(logrus.Fields{"section": is.Section, "key": is.Key}).
				WithError(is.Err).Warn("skipped snapshot record")
		}
		snap = s
	}
	return mapCfg, snap, nil
}

func run(cfg config.Viewer) error {
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	mapCfg, snap, err := loadMap(cfg, log)
	if err != nil {
		return err
	}

	canvas, err := render.NewEbitenCanvas(cfg.Width, cfg.Height)
	if err != nil {
		return fmt.Errorf("create canvas: %w", err)
	}
	v, err := viewer.New(viewer.Options{
		Engine: engine.Options{
			Canvas:   canvas,
			Grid:     mapCfg.Grid,
			Terrains: mapCfg.Terrains,
			Tags:     mapCfg.Tags,
			Fetcher: assets.AutoFetcher{
				Remote: assets.NewHTTPFetcher(cfg.FetchTimeout),
				Local:  assets.FileFetcher{Root: cfg.AssetRoot},
			},
			PatternSize: cfg.PatternSize,
			Parallelism: cfg.Parallelism,
		},
		Snapshot: snap,
		Role:     cfg.ViewerRole(),
		Author:   cfg.Author,
		Log:      log,
	})
	if err != nil {
		return err
	}
	defer v.Close()

	if cfg.Remote {
		if err := v.Engine().LoadIconImages(assets.RemoteFromConfig(mapCfg)); err != nil {
			return fmt.Errorf("load remote images: %w", err)
		}
	}

	ebiten.SetWindowTitle("Hex Map")
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	// The viewer blits a full-window canvas each frame.
	ebiten.SetScreenClearedEveryFrame(false)
	if err := ebiten.RunGame(v); err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	return nil
}
