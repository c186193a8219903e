package life

import (
	"github.com/gogpu/sketch/internal/parallel"
)

// parallelMinCells is the grid size below which Stepper.Step runs on the
// calling goroutine.
const parallelMinCells = 64 * 64

// Stepper advances grids on a pool of worker goroutines, one band of rows
// per worker. It is the CPU counterpart of the compute dispatch for grids
// too large to step serially at frame rate.
type Stepper struct {
	pool *parallel.Pool
}

// NewStepper starts a stepper with the given number of workers. Zero or
// negative uses GOMAXPROCS.
func NewStepper(workers int) *Stepper {
	return &Stepper{pool: parallel.NewPool(workers)}
}

// Step advances g by one generation. The result is identical to g.Step.
func (s *Stepper) Step(g *Grid) {
	if g.Len() < parallelMinCells || s.pool.Workers() == 1 {
		g.Step()
		return
	}
	s.pool.ForBands(g.height, g.stepRows)
	g.flip()
}

// StepN advances g by n generations.
func (s *Stepper) StepN(g *Grid, n int) {
	for range n {
		s.Step(g)
	}
}

// Close stops the workers.
func (s *Stepper) Close() { s.pool.Close() }
