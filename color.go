package sketch

import (
	"image/color"

	"github.com/chewxy/math32"
)

// Color is a straight-alpha color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// Common colors.
var (
	// Background is the dark clear color used by the windowed scenes.
	Background = RGB8(10, 12, 28)

	// CellColor is the fill color of live Game of Life cells and the default
	// fill color of shapes.
	CellColor = FromSRGBA(0.8, 0.8, 0.5, 1)
)

// FromSRGBA creates a color from sRGB components in [0, 1].
func FromSRGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// RGB8 creates an opaque color from 8-bit sRGB components.
func RGB8(r, g, b uint8) Color {
	return Color{
		R: float32(r) / 255,
		G: float32(g) / 255,
		B: float32(b) / 255,
		A: 1,
	}
}

// Linear converts the sRGB color components to linear light.
// Alpha is left untouched.
func (c Color) Linear() Color {
	return Color{R: srgbToLinear(c.R), G: srgbToLinear(c.G), B: srgbToLinear(c.B), A: c.A}
}

// Premultiplied returns the color with RGB multiplied by alpha.
func (c Color) Premultiplied() [4]float32 {
	return [4]float32{c.R * c.A, c.G * c.A, c.B * c.A, c.A}
}

// NRGBA converts the color to the standard library representation.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R)*255 + 0.5), //nolint:gosec // clamped to [0, 255]
		G: uint8(clamp01(c.G)*255 + 0.5), //nolint:gosec // clamped to [0, 255]
		B: uint8(clamp01(c.B)*255 + 0.5), //nolint:gosec // clamped to [0, 255]
		A: uint8(clamp01(c.A)*255 + 0.5), //nolint:gosec // clamped to [0, 255]
	}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

func srgbToLinear(v float32) float32 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math32.Pow((v+0.055)/1.055, 2.4)
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}
