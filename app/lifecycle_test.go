package app

import (
	"errors"
	"testing"
	"time"

	"github.com/gogpu/sketch/internal/gpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScene records lifecycle calls.
type fakeScene struct {
	initErr   error
	renderErr error

	inits, updates, renders, destroys int
	lastW, lastH                      int
	lastView                          any
	dev                               *gpu.Device
}

func (s *fakeScene) Init(dev *gpu.Device) error {
	s.inits++
	if s.initErr != nil {
		return s.initErr
	}
	s.dev = dev
	return nil
}

func (s *fakeScene) Update(time.Time) { s.updates++ }

func (s *fakeScene) Render(view any, w, h int) error {
	s.renders++
	s.lastView, s.lastW, s.lastH = view, w, h
	return s.renderErr
}

func (s *fakeScene) Destroy() { s.destroys++ }

// fakeSource hands out empty devices and counts acquisitions.
type fakeSource struct {
	err   error
	calls int
}

func (f *fakeSource) acquire() (*gpu.Device, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &gpu.Device{}, nil
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "State(7)", State(7).String())
}

func TestLifecycle_LazyInit(t *testing.T) {
	scene := &fakeScene{}
	src := &fakeSource{}
	lc := NewLifecycle(scene, src.acquire)
	assert.Equal(t, StateUninitialized, lc.State())
	assert.Equal(t, 0, src.calls, "device must not be acquired before the first frame")

	require.NoError(t, lc.Draw(time.Now(), "view", 800, 600))
	assert.Equal(t, StateReady, lc.State())
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, 1, scene.inits)
	assert.Equal(t, 1, scene.renders)
	assert.Equal(t, "view", scene.lastView)

	require.NoError(t, lc.Draw(time.Now(), "view", 800, 600))
	assert.Equal(t, 1, src.calls, "device is acquired once")
	assert.Equal(t, 1, scene.inits)
	assert.Equal(t, 2, scene.updates)
	assert.Equal(t, uint64(2), lc.Frames())
}

func TestLifecycle_AcquireFailureStaysUninitialized(t *testing.T) {
	scene := &fakeScene{}
	src := &fakeSource{err: gpu.ErrNoAdapter}
	lc := NewLifecycle(scene, src.acquire)

	err := lc.Draw(time.Now(), nil, 800, 600)
	assert.ErrorIs(t, err, gpu.ErrNoAdapter)
	assert.Equal(t, StateUninitialized, lc.State())
	assert.Equal(t, 0, scene.inits)

	// The next frame retries.
	src.err = nil
	require.NoError(t, lc.Draw(time.Now(), nil, 800, 600))
	assert.Equal(t, StateReady, lc.State())
	assert.Equal(t, 2, src.calls)
}

func TestLifecycle_SceneInitFailure(t *testing.T) {
	initErr := errors.New("boom")
	scene := &fakeScene{initErr: initErr}
	lc := NewLifecycle(scene, (&fakeSource{}).acquire)

	err := lc.Draw(time.Now(), nil, 10, 10)
	assert.ErrorIs(t, err, initErr)
	assert.Equal(t, StateUninitialized, lc.State())
	assert.Equal(t, 0, scene.renders)
}

func TestLifecycle_SkipsZeroSize(t *testing.T) {
	scene := &fakeScene{}
	src := &fakeSource{}
	lc := NewLifecycle(scene, src.acquire)

	for _, sz := range [][2]int{{0, 600}, {800, 0}, {-1, -1}} {
		require.NoError(t, lc.Draw(time.Now(), nil, sz[0], sz[1]))
	}
	assert.Equal(t, 0, src.calls)
	assert.Equal(t, 0, scene.renders)
	assert.Equal(t, StateUninitialized, lc.State())
}

func TestLifecycle_TracksResize(t *testing.T) {
	scene := &fakeScene{}
	lc := NewLifecycle(scene, (&fakeSource{}).acquire)

	require.NoError(t, lc.Draw(time.Now(), nil, 800, 600))
	require.NoError(t, lc.Draw(time.Now(), nil, 1024, 768))
	w, h := lc.Size()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)
	assert.Equal(t, 1024, scene.lastW)
	assert.Equal(t, 768, scene.lastH)
}

func TestLifecycle_RenderError(t *testing.T) {
	scene := &fakeScene{renderErr: gpu.ErrNilView}
	lc := NewLifecycle(scene, (&fakeSource{}).acquire)

	err := lc.Draw(time.Now(), nil, 8, 8)
	assert.ErrorIs(t, err, gpu.ErrNilView)
	assert.Equal(t, StateReady, lc.State())
	assert.Equal(t, uint64(0), lc.Frames())
}

func TestLifecycle_Close(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		scene := &fakeScene{}
		lc := NewLifecycle(scene, (&fakeSource{}).acquire)
		require.NoError(t, lc.Draw(time.Now(), nil, 8, 8))

		require.NoError(t, lc.Close())
		assert.Equal(t, StateClosed, lc.State())
		assert.Equal(t, 1, scene.destroys)

		assert.ErrorIs(t, lc.Close(), ErrClosed)
		assert.ErrorIs(t, lc.Draw(time.Now(), nil, 8, 8), ErrClosed)
		assert.Equal(t, 1, scene.destroys, "destroy runs once")
		assert.Equal(t, 1, scene.renders)
	})

	t.Run("uninitialized", func(t *testing.T) {
		scene := &fakeScene{}
		src := &fakeSource{}
		lc := NewLifecycle(scene, src.acquire)

		require.NoError(t, lc.Close())
		assert.Equal(t, StateClosed, lc.State())
		assert.Equal(t, 0, scene.destroys)
		assert.ErrorIs(t, lc.Draw(time.Now(), nil, 8, 8), ErrClosed)
		assert.Equal(t, 0, src.calls)
	})
}
