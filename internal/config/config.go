// Package config reads viewer settings from HEXMAP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/Garsondee/hexmap/internal/mapdata"
)

// Viewer configures cmd/hexmap. Command-line flags override these values.
type Viewer struct {
	ConfigPath   string `env:"HEXMAP_CONFIG"`
	SnapshotPath string `env:"HEXMAP_SNAPSHOT"`
	// AssetRoot is the directory local fallback image paths resolve against.
	AssetRoot string `env:"HEXMAP_ASSET_ROOT" envDefault:"assets"`
	// Remote switches image loading to the URLs in the config file.
	Remote bool   `env:"HEXMAP_REMOTE"`
	Role   string `env:"HEXMAP_ROLE" envDefault:"player"`
	Author string `env:"HEXMAP_AUTHOR" envDefault:"local"`

	Width  int `env:"HEXMAP_WIDTH" envDefault:"1280"`
	Height int `env:"HEXMAP_HEIGHT" envDefault:"800"`

	FetchTimeout time.Duration `env:"HEXMAP_FETCH_TIMEOUT" envDefault:"10s"`
	Parallelism  int           `env:"HEXMAP_FETCH_PARALLELISM" envDefault:"8"`
	PatternSize  int           `env:"HEXMAP_PATTERN_SIZE" envDefault:"256"`

	LogLevel  string `env:"HEXMAP_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"HEXMAP_LOG_FORMAT" envDefault:"text"`
}

// ParseEnv fills target from the process environment.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadViewer reads the viewer settings from the process environment. Values
// are not range-checked; call Validate once overrides have been applied.
func LoadViewer() (Viewer, error) {
	var v Viewer
	if err := ParseEnv(&v); err != nil {
		return Viewer{}, err
	}
	return v, nil
}

// LoadViewerFrom is LoadViewer with an explicit environment.
func LoadViewerFrom(environ map[string]string) (Viewer, error) {
	var v Viewer
	if err := env.ParseWithOptions(&v, env.Options{Environment: environ}); err != nil {
		return Viewer{}, fmt.Errorf("parse env: %w", err)
	}
	return v, nil
}

// Validate checks ranges that would otherwise fail later and less clearly.
func (v Viewer) Validate() error {
	var errs []error
	if v.Width <= 0 || v.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", v.Width, v.Height))
	}
	if v.FetchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("fetch timeout %v must be positive", v.FetchTimeout))
	}
	if v.Parallelism <= 0 {
		errs = append(errs, fmt.Errorf("fetch parallelism %d must be positive", v.Parallelism))
	}
	if v.PatternSize < 8 {
		errs = append(errs, fmt.Errorf("pattern size %d is below 8", v.PatternSize))
	}
	return errors.Join(errs...)
}

// ViewerRole is the parsed role; unknown values mean player.
func (v Viewer) ViewerRole() mapdata.Role { return mapdata.ParseRole(v.Role) }
