package app

import (
	"github.com/gogpu/sketch"
)

// DefaultFPS is the default cap on simulation updates per second.
const DefaultFPS = 20

// Config describes the application window.
type Config struct {
	// Title is the window title.
	Title string

	// Width and Height are the initial window size in pixels.
	Width  int
	Height int

	// FPS caps scene updates per second. Zero or negative disables the cap.
	// Rendering itself happens on every redraw.
	FPS int

	// Background is the clear color of every frame.
	Background sketch.Color

	// Continuous requests redraws as fast as the display allows. When false
	// the window redraws only while an animation is running.
	Continuous bool
}

// DefaultConfig returns an 800x600 window at 20 updates per second.
func DefaultConfig() Config {
	return Config{
		Title:      "sketch",
		Width:      800,
		Height:     600,
		FPS:        DefaultFPS,
		Background: sketch.Background,
		Continuous: true,
	}
}

// WithTitle returns a copy of c with the given title.
func (c Config) WithTitle(title string) Config {
	c.Title = title
	return c
}

// WithSize returns a copy of c with the given window size.
func (c Config) WithSize(width, height int) Config {
	c.Width, c.Height = width, height
	return c
}
