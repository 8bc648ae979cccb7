package mapdata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const configDoc = `
grid:
  width: 30
  height: 20
terrains:
  Forest:
    id: 3
    color: "#2f5d2a"
    texture: https://cdn.example.com/forest.png
  Water:
    id: 2
    color: "#2d5f8b"
    scale: 2
tags:
  Castle:
    id: 1
    icon: https://cdn.example.com/castle.png
overlays:
  location:
    town: https://cdn.example.com/town.png
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(configDoc))
	require.NoError(t, err)

	g := cfg.Grid.Grid()
	assert.Equal(t, 30, g.W)
	assert.Equal(t, 20, g.H)
	assert.Equal(t, 40.0, g.Size, "hex size defaults")

	assert.Equal(t, "Forest", cfg.Terrains["Forest"].Name)
	assert.Equal(t, 2.0, cfg.Terrains["Water"].TextureScale())
	assert.Equal(t, 1.0, cfg.Terrains["Forest"].TextureScale())

	cat := cfg.Catalog()
	id, ok := cat.Terrains.IDOf(NameRef("Water"))
	require.True(t, ok)
	assert.Equal(t, 2, id)
	assert.Equal(t, "https://cdn.example.com/town.png", cfg.Overlays["location"]["town"])
}

func TestParseConfig_Rejects(t *testing.T) {
	cases := map[string]string{
		"duplicate terrain id": "terrains:\n  A: {id: 1}\n  B: {id: 1}\n",
		"zero tag id":          "tags:\n  A: {id: 0}\n",
		"unknown overlay kind": "overlays:\n  dragon: {red: x.png}\n",
		"bad yaml":             "grid: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestParseConfig_Empty(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Grid.Grid().W)
}
