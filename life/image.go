package life

import (
	"image"
	"image/color"
	"image/draw"
)

// Image renders the current generation with cellPx pixels per cell.
// Row 0 of the grid is drawn at the bottom so the picture matches the
// windowed scene.
func (g *Grid) Image(cellPx int, live, dead color.Color) *image.RGBA {
	if cellPx < 1 {
		cellPx = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, g.width*cellPx, g.height*cellPx))
	draw.Draw(img, img.Bounds(), image.NewUniform(dead), image.Point{}, draw.Src)
	src := image.NewUniform(live)
	for y := 0; y < g.height; y++ {
		top := (g.height - 1 - y) * cellPx
		for x := 0; x < g.width; x++ {
			if !g.Alive(x, y) {
				continue
			}
			r := image.Rect(x*cellPx, top, (x+1)*cellPx, top+cellPx)
			draw.Draw(img, r, src, image.Point{}, draw.Src)
		}
	}
	return img
}
