// Package software draws sketch geometry on the CPU.
//
// It mirrors the GPU shape pipeline closely enough for previews and
// headless snapshots: coordinates are normalized device coordinates with y
// pointing up, and triangles wound clockwise are culled the way the GPU
// pipeline culls back faces.
package software

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"github.com/gogpu/sketch"
	"golang.org/x/image/vector"
)

// ErrInvalidSize is returned for a non-positive image size.
var ErrInvalidSize = errors.New("software: image size must be positive")

// Stats reports what Rasterize did with the triangles of a render state.
type Stats struct {
	Drawn  int
	Culled int
}

// ToPixel maps a point in normalized device coordinates to pixel
// coordinates of a width x height image.
func ToPixel(p sketch.Point2, width, height int) (x, y float32) {
	x = (p.X + 1) / 2 * float32(width)
	y = (1 - p.Y) / 2 * float32(height)
	return x, y
}

// FrontFacing reports whether the triangle is counter-clockwise in
// normalized device coordinates. Degenerate triangles are not front
// facing.
func FrontFacing(p0, p1, p2 sketch.Point2) bool {
	return p1.Sub(p0).Cross(p2.Sub(p0)) > 0
}

// Rasterize draws every front-facing triangle of rs with fill over a
// background of bg.
func Rasterize(rs *sketch.RenderState, width, height int, fill, bg color.Color) (*image.RGBA, error) {
	img, _, err := RasterizeStats(rs, width, height, fill, bg)
	return img, err
}

// RasterizeStats is Rasterize that also reports culling statistics.
func RasterizeStats(rs *sketch.RenderState, width, height int, fill, bg color.Color) (*image.RGBA, Stats, error) {
	var stats Stats
	if width <= 0 || height <= 0 {
		return nil, stats, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	r := vector.NewRasterizer(width, height)
	r.DrawOp = draw.Over
	for i := range rs.TriangleCount() {
		p0, p1, p2 := rs.Triangle(i)
		if !FrontFacing(p0, p1, p2) {
			stats.Culled++
			continue
		}
		r.MoveTo(ToPixel(p0, width, height))
		r.LineTo(ToPixel(p1, width, height))
		r.LineTo(ToPixel(p2, width, height))
		r.ClosePath()
		stats.Drawn++
	}
	if stats.Drawn > 0 {
		r.Draw(img, img.Bounds(), image.NewUniform(fill), image.Point{})
	}
	sketch.Logger().Debug("software: rasterized",
		"width", width, "height", height, "drawn", stats.Drawn, "culled", stats.Culled)
	return img, stats, nil
}

// SavePNG writes img to path as a PNG file.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("software: encode %s: %w", path, err)
	}
	return f.Close()
}
