package life

import (
	"encoding/binary"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkgroups(t *testing.T) {
	tests := []struct {
		n, size, want uint32
	}{
		{32, 8, 4},
		{33, 8, 5},
		{1, 8, 1},
		{0, 8, 0},
		{7, 8, 1},
		{64, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Workgroups(tt.n, tt.size), "Workgroups(%d, %d)", tt.n, tt.size)
	}
}

func TestUniformBytes(t *testing.T) {
	buf := UniformBytes(32, 16)
	require.Len(t, buf, UniformSize)
	assert.Equal(t, float32(32), math.Float32frombits(binary.LittleEndian.Uint32(buf[0:])))
	assert.Equal(t, float32(16), math.Float32frombits(binary.LittleEndian.Uint32(buf[4:])))
	assert.Equal(t, make([]byte, 8), buf[8:])
}

func TestCellBytesRoundTrip(t *testing.T) {
	cells := []uint32{1, 0, 0, 1, 1}
	buf := CellBytes(cells)
	assert.Len(t, buf, 20)
	assert.Equal(t, []byte{1, 0, 0, 0}, buf[:4])
	assert.Equal(t, cells, CellsFromBytes(buf))
}

func TestGrid_Image(t *testing.T) {
	g, err := NewGrid(3, 2)
	require.NoError(t, err)
	g.Set(0, 0, true)

	live := color.NRGBA{R: 255, A: 255}
	dead := color.NRGBA{B: 255, A: 255}
	img := g.Image(4, live, dead)

	assert.Equal(t, 12, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())
	// Row 0 is at the bottom of the picture.
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(1, 7))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, img.RGBAAt(1, 1))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, img.RGBAAt(5, 7))
}
