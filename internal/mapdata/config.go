package mapdata

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Garsondee/hexmap/internal/hexgrid"
)

// GridConfig is the lattice section of the configuration file.
type GridConfig struct {
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	HexSize float64 `yaml:"hexSize"`
}

// Grid converts to the coordinate engine's type, applying 50×50 at size 40
// for missing values.
func (g GridConfig) Grid() hexgrid.Grid {
	out := hexgrid.Grid{W: g.Width, H: g.Height, Size: g.HexSize}
	if out.W <= 0 {
		out.W = 50
	}
	if out.H <= 0 {
		out.H = 50
	}
	if out.Size <= 0 {
		out.Size = 40
	}
	return out
}

// Config is the map configuration document: grid, terrain and tag tables and
// the remote overlay icon URLs keyed by kind then type.
type Config struct {
	Grid     GridConfig                   `yaml:"grid"`
	Terrains map[string]TerrainEntry      `yaml:"terrains"`
	Tags     map[string]TagEntry          `yaml:"tags"`
	Overlays map[string]map[string]string `yaml:"overlays"`
}

// ParseConfig decodes a YAML configuration document. Entry names default to
// their mapping key.
func ParseConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	for name, e := range cfg.Terrains {
		if e.Name == "" {
			e.Name = name
			cfg.Terrains[name] = e
		}
	}
	for name, e := range cfg.Tags {
		if e.Name == "" {
			e.Name = name
			cfg.Tags[name] = e
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig reads a configuration file.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return ParseConfig(f)
}

func (c *Config) validate() error {
	seen := make(map[int]string)
	for name, e := range c.Terrains {
		if e.ID <= 0 {
			return fmt.Errorf("terrain %q: id must be positive", name)
		}
		if other, dup := seen[e.ID]; dup {
			return fmt.Errorf("terrain %q: id %d already used by %q", name, e.ID, other)
		}
		seen[e.ID] = name
	}
	clear(seen)
	for name, e := range c.Tags {
		if e.ID <= 0 {
			return fmt.Errorf("tag %q: id must be positive", name)
		}
		if other, dup := seen[e.ID]; dup {
			return fmt.Errorf("tag %q: id %d already used by %q", name, e.ID, other)
		}
		seen[e.ID] = name
	}
	for kind := range c.Overlays {
		if _, err := ParseIconKind(kind); err != nil {
			return fmt.Errorf("overlays: %w", err)
		}
	}
	return nil
}

// Catalog builds the lookup tables for this configuration.
func (c *Config) Catalog() *Catalog {
	return NewCatalog(c.Terrains, c.Tags)
}
