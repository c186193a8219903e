package app

import (
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/internal/gpu"
	"github.com/gogpu/sketch/life"
	"github.com/gogpu/wgpu/hal"
)

// Pauser is implemented by scenes whose updates can be suspended.
type Pauser interface {
	TogglePause() bool
}

// Reseeder is implemented by scenes that can restart from a new random
// state.
type Reseeder interface {
	Reseed()
}

// surfaceView extracts the hal texture view from the value handed out by
// the window.
func surfaceView(view any) (hal.TextureView, error) {
	hv, ok := view.(hal.TextureView)
	if !ok || hv == nil {
		return nil, fmt.Errorf("%w: got %T", gpu.ErrNilView, view)
	}
	return hv, nil
}

// ShapesScene draws a fixed RenderState.
type ShapesScene struct {
	state *sketch.RenderState
	fill  sketch.Color
	clear sketch.Color

	renderer *gpu.ShapeRenderer
	frame    *gpu.Frame
}

// NewShapesScene creates a scene drawing rs filled with fill on clear.
func NewShapesScene(rs *sketch.RenderState, fill, clear sketch.Color) *ShapesScene {
	return &ShapesScene{state: rs, fill: fill, clear: clear}
}

// Init uploads the render state.
func (s *ShapesScene) Init(dev *gpu.Device) error {
	r, err := gpu.NewShapeRenderer(dev)
	if err != nil {
		return err
	}
	if err := r.Upload(s.state, s.fill); err != nil {
		r.Destroy()
		return err
	}
	s.renderer = r
	s.frame = gpu.NewFrame(dev, s.clear)
	return nil
}

// Update does nothing; the geometry is static.
func (s *ShapesScene) Update(time.Time) {}

// Render draws the shapes.
func (s *ShapesScene) Render(view any, _, _ int) error {
	hv, err := surfaceView(view)
	if err != nil {
		return err
	}
	return s.frame.Render(hv, nil, s.renderer)
}

// Destroy releases the GPU buffers.
func (s *ShapesScene) Destroy() {
	if s.renderer != nil {
		s.renderer.Destroy()
		s.renderer = nil
	}
}

// LifeConfig configures the Game of Life scene.
type LifeConfig struct {
	Width, Height int
	Density       float64

	// Seed seeds the first generation. Zero picks a random seed.
	Seed uint64
}

// DefaultLifeConfig returns a 32x32 grid at the default density.
func DefaultLifeConfig() LifeConfig {
	return LifeConfig{
		Width:   life.DefaultGridSize,
		Height:  life.DefaultGridSize,
		Density: life.DefaultDensity,
	}
}

// LifeScene runs the Game of Life on the GPU, advancing one generation
// each time the frame limiter allows it.
type LifeScene struct {
	cfg     LifeConfig
	clear   sketch.Color
	limiter *FrameLimiter
	rng     *rand.Rand

	grid     *life.Grid
	renderer *gpu.LifeRenderer
	frame    *gpu.Frame

	paused  atomic.Bool
	reseed  atomic.Bool
	pending int
}

// NewLifeScene creates a Life scene stepping at most fps times a second.
func NewLifeScene(cfg LifeConfig, fps int, clear sketch.Color) *LifeScene {
	seed := life.ResolveSeed(cfg.Seed)
	return &LifeScene{
		cfg:     cfg,
		clear:   clear,
		limiter: NewFrameLimiter(fps),
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Init seeds the grid and creates the GPU pipelines.
func (s *LifeScene) Init(dev *gpu.Device) error {
	grid, err := life.NewGrid(s.cfg.Width, s.cfg.Height)
	if err != nil {
		return err
	}
	if err := grid.Seed(s.rng, s.cfg.Density); err != nil {
		return err
	}
	r, err := gpu.NewLifeRenderer(dev, grid)
	if err != nil {
		return err
	}
	s.grid = grid
	s.renderer = r
	s.frame = gpu.NewFrame(dev, s.clear)
	return nil
}

// Update schedules a generation when the scene is running and the limiter
// allows it, and applies a pending reseed.
func (s *LifeScene) Update(now time.Time) {
	if s.reseed.Swap(false) {
		s.applyReseed()
	}
	if s.paused.Load() {
		return
	}
	if s.limiter.Allow(now) {
		s.pending++
	}
}

func (s *LifeScene) applyReseed() {
	if s.grid == nil {
		return
	}
	if err := s.grid.Seed(s.rng, s.cfg.Density); err != nil {
		sketch.Logger().Error("life: reseed", "err", err)
		return
	}
	s.pending = 0
	s.limiter.Reset()
	if s.renderer != nil {
		if err := s.renderer.Upload(s.grid); err != nil {
			sketch.Logger().Error("life: upload reseeded grid", "err", err)
		}
	}
	sketch.Logger().Info("life: reseeded", "population", s.grid.Population())
}

// Render encodes the scheduled generations and draws the current one.
func (s *LifeScene) Render(view any, _, _ int) error {
	hv, err := surfaceView(view)
	if err != nil {
		return err
	}
	var compute func(hal.CommandEncoder)
	steps := s.pending
	if steps > 0 {
		compute = func(encoder hal.CommandEncoder) {
			for range steps {
				s.renderer.EncodeStep(encoder)
			}
		}
		s.pending = 0
	}
	err = s.frame.Render(hv, compute, s.renderer)
	if compute != nil {
		s.settle(steps, err)
	}
	return err
}

// settle commits the generations encoded by Render, or on failure rolls
// them back and schedules them again.
func (s *LifeScene) settle(steps int, err error) {
	if err != nil {
		s.renderer.Rollback()
		s.pending += steps
		return
	}
	s.renderer.Commit()
}

// Destroy releases the GPU resources.
func (s *LifeScene) Destroy() {
	if s.renderer != nil {
		s.renderer.Destroy()
		s.renderer = nil
	}
}

// TogglePause pauses or resumes the simulation and reports whether it is
// now paused.
func (s *LifeScene) TogglePause() bool {
	for {
		old := s.paused.Load()
		if s.paused.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Paused reports whether the simulation is paused.
func (s *LifeScene) Paused() bool { return s.paused.Load() }

// Reseed requests a new random generation on the next update.
func (s *LifeScene) Reseed() { s.reseed.Store(true) }

// Generation returns the number of generations computed on the GPU.
func (s *LifeScene) Generation() uint64 {
	if s.renderer == nil {
		return 0
	}
	return s.renderer.Generation()
}
