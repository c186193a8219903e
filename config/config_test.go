package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/sketch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sketch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 32, cfg.Life.Width)
	assert.Equal(t, 0.39, cfg.Life.Density)
	assert.Equal(t, 20, cfg.Window.FPS)
	assert.Equal(t, sketch.Background, cfg.Window.Background.Color())
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
window:
  title: Game Of Life
  fps: 30
life:
  width: 64
  seed: 42
shapes:
  fill: [255, 0, 0]
  items:
    - kind: square
      points: [[-0.5, 0.5]]
      width: 1
`))
	require.NoError(t, err)

	assert.Equal(t, "Game Of Life", cfg.Window.Title)
	assert.Equal(t, 30, cfg.Window.FPS)
	assert.Equal(t, 600, cfg.Window.Height, "unset fields keep defaults")
	assert.True(t, cfg.Window.Continuous)
	assert.Equal(t, 64, cfg.Life.Width)
	assert.Equal(t, 32, cfg.Life.Height)
	assert.Equal(t, uint64(42), cfg.Life.Seed)
	assert.Equal(t, RGB{255, 0, 0}, cfg.Shapes.Fill)
	require.Len(t, cfg.Shapes.Items, 1)
	assert.Equal(t, float32(1), cfg.Shapes.Items[0].Width)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("window:\n  colour: [1, 2, 3]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"window size", func(c *Config) { c.Window.Width = 0 }, "window size"},
		{"negative fps", func(c *Config) { c.Window.FPS = -1 }, "fps"},
		{"life grid", func(c *Config) { c.Life.Height = -3 }, "life grid"},
		{"density", func(c *Config) { c.Life.Density = 1.5 }, "density"},
		{"unknown kind", func(c *Config) { c.Shapes.Items = []Shape{{Kind: "circle"}} }, `unknown kind "circle"`},
		{"point count", func(c *Config) {
			c.Shapes.Items = []Shape{{Kind: KindTriangle, Points: [][2]float32{{0, 0}}}}
		}, "needs 3 points"},
		{"negative stroke", func(c *Config) {
			c.Shapes.Items = []Shape{{Kind: KindLine, Points: [][2]float32{{0, 0}, {1, 1}}, Stroke: -1}}
		}, "stroke"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Window.Width = 0
	cfg.Life.Density = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window size")
	assert.Contains(t, err.Error(), "density")
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "life:\n  density: 0.5\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Life.Density)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := writeFile(t, "life:\n  density: 2\n")
	_, err = Load(bad)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.True(t, strings.HasPrefix(err.Error(), bad))
}

func TestLoadTooLarge(t *testing.T) {
	path := writeFile(t, "#"+strings.Repeat("x", maxConfigSize))
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrTooLarge)
}
