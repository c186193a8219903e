package life

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGrid(t *testing.T, w, h int, live ...[2]int) *Grid {
	t.Helper()
	g, err := NewGrid(w, h)
	require.NoError(t, err)
	for _, c := range live {
		g.Set(c[0], c[1], true)
	}
	return g
}

func liveCells(g *Grid) [][2]int {
	var out [][2]int
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if g.Alive(x, y) {
				out = append(out, [2]int{x, y})
			}
		}
	}
	return out
}

func TestNewGrid(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		err  bool
	}{
		{"square", 32, 32, false},
		{"rect", 7, 3, false},
		{"single", 1, 1, false},
		{"zero width", 0, 4, true},
		{"negative height", 4, -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGrid(tt.w, tt.h)
			if tt.err {
				assert.True(t, errors.Is(err, ErrInvalidSize))
				assert.Nil(t, g)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.w*tt.h, g.Len())
			assert.Equal(t, 0, g.Population())
			assert.Equal(t, 0, g.Parity())
		})
	}
}

func TestGrid_IndexWraps(t *testing.T) {
	g := newGrid(t, 4, 3)
	assert.Equal(t, 0, g.Index(0, 0))
	assert.Equal(t, 5, g.Index(1, 1))
	assert.Equal(t, g.Index(3, 2), g.Index(-1, -1))
	assert.Equal(t, g.Index(0, 0), g.Index(4, 3))
}

func TestGrid_Blinker(t *testing.T) {
	g := newGrid(t, 5, 5, [2]int{1, 2}, [2]int{2, 2}, [2]int{3, 2})

	g.Step()
	assert.ElementsMatch(t, [][2]int{{2, 1}, {2, 2}, {2, 3}}, liveCells(g))
	assert.Equal(t, 1, g.Parity())
	assert.Equal(t, uint64(1), g.Generation())

	g.Step()
	assert.ElementsMatch(t, [][2]int{{1, 2}, {2, 2}, {3, 2}}, liveCells(g))
	assert.Equal(t, 0, g.Parity())
}

func TestGrid_BlockIsStill(t *testing.T) {
	block := [][2]int{{1, 1}, {2, 1}, {1, 2}, {2, 2}}
	g := newGrid(t, 4, 4, block...)
	g.StepN(5)
	assert.ElementsMatch(t, block, liveCells(g))
}

func TestGrid_LonelyCellDies(t *testing.T) {
	g := newGrid(t, 4, 4, [2]int{1, 1})
	g.Step()
	assert.Equal(t, 0, g.Population())
}

func TestGrid_OvercrowdedCellDies(t *testing.T) {
	// Center cell has four neighbors.
	g := newGrid(t, 5, 5, [2]int{2, 2}, [2]int{1, 2}, [2]int{3, 2}, [2]int{2, 1}, [2]int{2, 3})
	assert.Equal(t, 4, g.Neighbors(2, 2))
	g.Step()
	assert.False(t, g.Alive(2, 2))
}

func TestGrid_NeighborsWrap(t *testing.T) {
	g := newGrid(t, 4, 4, [2]int{3, 3}, [2]int{0, 3}, [2]int{3, 0})
	assert.Equal(t, 3, g.Neighbors(0, 0))
}

func TestGrid_GliderWrapsAround(t *testing.T) {
	glider := [][2]int{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}}
	g := newGrid(t, 6, 6, glider...)

	// A glider translates by one cell diagonally every four generations,
	// so after 4*size generations it is back where it started.
	g.StepN(24)
	assert.ElementsMatch(t, glider, liveCells(g))
	assert.Equal(t, 5, g.Population())
}

func TestGrid_StepWritesOtherBuffer(t *testing.T) {
	g := newGrid(t, 5, 5, [2]int{1, 2}, [2]int{2, 2}, [2]int{3, 2})
	before := append([]uint32(nil), g.Buffers()[0]...)

	g.Step()

	assert.Equal(t, before, g.Buffers()[0], "step must not modify the buffer it reads")
	assert.Equal(t, g.Buffers()[1], g.Current())
}

func TestGrid_Seed(t *testing.T) {
	g := newGrid(t, DefaultGridSize, DefaultGridSize)
	require.NoError(t, g.SeedFromSeed(42, DefaultDensity))

	pop := g.Population()
	frac := float64(pop) / float64(g.Len())
	assert.InDelta(t, DefaultDensity, frac, 0.08)
	assert.Equal(t, g.Buffers()[0], g.Buffers()[1])
	assert.Equal(t, 0, g.Parity())
	assert.Equal(t, uint64(0), g.Generation())

	other := newGrid(t, DefaultGridSize, DefaultGridSize)
	require.NoError(t, other.SeedFromSeed(42, DefaultDensity))
	assert.True(t, g.Equal(other), "same seed must produce the same grid")
}

func TestResolveSeed(t *testing.T) {
	assert.Equal(t, uint64(42), ResolveSeed(42))
	a, b := ResolveSeed(0), ResolveSeed(0)
	assert.NotZero(t, a)
	assert.NotEqual(t, a, b, "zero picks a fresh seed each time")
}

func TestGrid_SeedResetsParity(t *testing.T) {
	g := newGrid(t, 8, 8)
	require.NoError(t, g.SeedFromSeed(1, 0.5))
	g.Step()
	require.Equal(t, 1, g.Parity())

	require.NoError(t, g.Seed(rand.New(rand.NewPCG(2, 3)), 0.5))
	assert.Equal(t, 0, g.Parity())
	assert.Equal(t, uint64(0), g.Generation())
}

func TestGrid_SeedDensityBounds(t *testing.T) {
	g := newGrid(t, 4, 4)

	require.NoError(t, g.SeedFromSeed(7, 0))
	assert.Equal(t, 0, g.Population())

	require.NoError(t, g.SeedFromSeed(7, 1))
	assert.Equal(t, 16, g.Population())

	for _, d := range []float64{-0.1, 1.1, math.NaN()} {
		assert.True(t, errors.Is(g.SeedFromSeed(7, d), ErrInvalidDensity), "density %v", d)
	}
}

func TestGrid_LoadCurrentAndDiff(t *testing.T) {
	g := newGrid(t, 3, 2)
	err := g.LoadCurrent([]uint32{1, 0, 5, 0, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 0, 1, 0, 0, 1}, g.Current())
	assert.Equal(t, []int{1, 5}, g.Diff([]uint32{1, 1, 1, 0, 0, 0}))

	assert.True(t, errors.Is(g.LoadCurrent([]uint32{1}), ErrSizeMismatch))
}

func TestGrid_CloneIsIndependent(t *testing.T) {
	g := newGrid(t, 4, 4, [2]int{1, 1})
	c := g.Clone()
	c.Set(2, 2, true)
	assert.False(t, g.Alive(2, 2))
	assert.True(t, c.Alive(1, 1))
	assert.False(t, g.Equal(c))
}

func BenchmarkGrid_Step(b *testing.B) {
	g, _ := NewGrid(128, 128)
	_ = g.SeedFromSeed(1, DefaultDensity)
	b.ResetTimer()
	for b.Loop() {
		g.Step()
	}
}
