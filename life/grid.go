// Package life implements the host side of the Game of Life scene: the
// double-buffered cell grid, random seeding, and a CPU reference of the
// compute shader's step.
//
// The grid stores cells as uint32 values (0 dead, 1 alive) so that both
// buffers can be uploaded to GPU storage buffers unchanged. A parity bit
// names the buffer holding the current generation; Step reads buffer p,
// writes buffer 1-p, then flips the parity. The GPU renderer follows the
// same convention so the CPU grid can be used to verify it.
package life

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/gogpu/sketch"
)

const (
	// DefaultGridSize is the side length of the default square grid.
	DefaultGridSize = 32

	// DefaultDensity is the probability that a seeded cell starts alive.
	DefaultDensity = 0.39

	// WorkgroupSize is the side of the compute shader's 2D workgroup.
	WorkgroupSize = 8
)

var (
	// ErrInvalidSize is returned for non-positive grid dimensions.
	ErrInvalidSize = errors.New("life: grid dimensions must be positive")

	// ErrInvalidDensity is returned for a density outside [0, 1].
	ErrInvalidDensity = errors.New("life: density must be within [0, 1]")

	// ErrSizeMismatch is returned when loading cells of the wrong length.
	ErrSizeMismatch = errors.New("life: cell count does not match grid size")
)

// Grid is a toroidal Game of Life board with two cell buffers.
type Grid struct {
	width, height int
	cells         [2][]uint32
	parity        uint8
	generation    uint64
}

// NewGrid creates an all-dead grid.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	n := width * height
	return &Grid{
		width:  width,
		height: height,
		cells:  [2][]uint32{make([]uint32, n), make([]uint32, n)},
	}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Len returns the number of cells.
func (g *Grid) Len() int { return g.width * g.height }

// Parity returns the index of the buffer holding the current generation.
func (g *Grid) Parity() int { return int(g.parity) }

// Generation returns the number of steps taken since the last seed.
func (g *Grid) Generation() uint64 { return g.generation }

// Current returns the current generation. The slice aliases grid storage.
func (g *Grid) Current() []uint32 { return g.cells[g.parity] }

// Buffers returns both cell buffers in index order. Buffer Parity() is the
// current generation.
func (g *Grid) Buffers() [2][]uint32 { return g.cells }

// Index returns the flat index of cell (x, y), wrapping both coordinates.
// Cells are stored row-major starting at the bottom-left, matching the
// instance ordering of the render shader.
func (g *Grid) Index(x, y int) int {
	return wrap(y, g.height)*g.width + wrap(x, g.width)
}

// Alive reports whether cell (x, y) is alive in the current generation.
func (g *Grid) Alive(x, y int) bool {
	return g.cells[g.parity][g.Index(x, y)] != 0
}

// Set sets cell (x, y) of the current generation.
func (g *Grid) Set(x, y int, alive bool) {
	var v uint32
	if alive {
		v = 1
	}
	g.cells[g.parity][g.Index(x, y)] = v
}

// Neighbors returns the number of live neighbors of (x, y).
func (g *Grid) Neighbors(x, y int) int {
	cur := g.cells[g.parity]
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n += int(cur[g.Index(x+dx, y+dy)])
		}
	}
	return n
}

// Population returns the number of live cells.
func (g *Grid) Population() int {
	n := 0
	for _, c := range g.cells[g.parity] {
		n += int(c)
	}
	return n
}

// Step advances one generation: buffer Parity() is read, buffer
// 1-Parity() is written, and the parity flips.
//
// A live cell with two neighbors survives, any cell with three neighbors is
// alive, and every other cell is dead.
func (g *Grid) Step() {
	g.stepRows(0, g.height)
	g.flip()
}

// stepRows writes the next generation of rows [y0, y1) into the back
// buffer. Rows are independent, so disjoint ranges may run concurrently.
func (g *Grid) stepRows(y0, y1 int) {
	in := g.cells[g.parity]
	out := g.cells[1-g.parity]
	for y := y0; y < y1; y++ {
		for x := 0; x < g.width; x++ {
			i := y*g.width + x
			switch g.Neighbors(x, y) {
			case 2:
				out[i] = in[i]
			case 3:
				out[i] = 1
			default:
				out[i] = 0
			}
		}
	}
}

func (g *Grid) flip() {
	g.parity = 1 - g.parity
	g.generation++
}

// StepN advances n generations.
func (g *Grid) StepN(n int) {
	for range n {
		g.Step()
	}
}

// Seed fills both buffers with the same random generation, each cell alive
// with probability density, and resets the parity and generation counter.
func (g *Grid) Seed(rng *rand.Rand, density float64) error {
	if density < 0 || density > 1 || density != density {
		return fmt.Errorf("%w: %v", ErrInvalidDensity, density)
	}
	cur := g.cells[0]
	for i := range cur {
		if rng.Float64() < density {
			cur[i] = 1
		} else {
			cur[i] = 0
		}
	}
	copy(g.cells[1], cur)
	g.parity = 0
	g.generation = 0
	sketch.Logger().Debug("life: seeded grid",
		"width", g.width, "height", g.height, "density", density, "population", g.Population())
	return nil
}

// ResolveSeed returns seed, or a random non-zero seed when seed is 0.
func ResolveSeed(seed uint64) uint64 {
	for seed == 0 {
		seed = rand.Uint64()
	}
	return seed
}

// SeedFromSeed seeds the grid from a deterministic PCG source.
func (g *Grid) SeedFromSeed(seed uint64, density float64) error {
	return g.Seed(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), density)
}

// LoadCurrent replaces the current generation with cells.
func (g *Grid) LoadCurrent(cells []uint32) error {
	if len(cells) != g.Len() {
		return fmt.Errorf("%w: got %d, want %d", ErrSizeMismatch, len(cells), g.Len())
	}
	for i, c := range cells {
		if c != 0 {
			c = 1
		}
		g.cells[g.parity][i] = c
	}
	return nil
}

// Equal reports whether both grids have the same size and current
// generation. Parity and generation counters are ignored.
func (g *Grid) Equal(other *Grid) bool {
	if g.width != other.width || g.height != other.height {
		return false
	}
	a, b := g.Current(), other.Current()
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Diff returns the indices where the current generation differs from cells.
func (g *Grid) Diff(cells []uint32) []int {
	cur := g.Current()
	var diff []int
	for i := range min(len(cur), len(cells)) {
		if cur[i] != cells[i] {
			diff = append(diff, i)
		}
	}
	return diff
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := &Grid{
		width:      g.width,
		height:     g.height,
		parity:     g.parity,
		generation: g.generation,
	}
	for i := range g.cells {
		c.cells[i] = append([]uint32(nil), g.cells[i]...)
	}
	return c
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
