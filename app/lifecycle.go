package app

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/internal/gpu"
)

// Lifecycle errors.
var (
	// ErrClosed is returned by every call after Close.
	ErrClosed = errors.New("app: closed")

	// ErrNoProvider is returned when the window has no GPU device yet.
	ErrNoProvider = errors.New("app: GPU context provider not available")
)

// State is the lifecycle state of an application.
type State int32

const (
	// StateUninitialized means no GPU resources exist yet.
	StateUninitialized State = iota

	// StateReady means the device is acquired and the scene initialized.
	StateReady

	// StateClosed means all resources have been released.
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Scene is the content drawn by an application.
//
// Init is called once, on the first frame with a usable device. Update and
// Render are called on every frame afterwards. Destroy releases the
// scene's GPU resources and is called at most once.
type Scene interface {
	Init(dev *gpu.Device) error
	Update(now time.Time)
	Render(view any, width, height int) error
	Destroy()
}

// DeviceSource acquires the GPU device on first use.
type DeviceSource func() (*gpu.Device, error)

// Lifecycle owns the device and scene and moves them through
// StateUninitialized, StateReady and StateClosed.
//
// GPU resources exist only in StateReady. A failed initialization leaves
// the lifecycle uninitialized so the next frame retries.
type Lifecycle struct {
	mu      sync.Mutex
	state   State
	acquire DeviceSource
	scene   Scene
	dev     *gpu.Device

	width, height int
	frames        uint64
}

// NewLifecycle creates an uninitialized lifecycle for scene.
func NewLifecycle(scene Scene, acquire DeviceSource) *Lifecycle {
	return &Lifecycle{scene: scene, acquire: acquire}
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Frames returns the number of frames rendered.
func (l *Lifecycle) Frames() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

// Size returns the size of the last rendered frame.
func (l *Lifecycle) Size() (width, height int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.width, l.height
}

// Draw renders one frame, initializing the device and scene first if
// needed. Zero-sized frames (minimized windows) are skipped.
func (l *Lifecycle) Draw(now time.Time, view any, width, height int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == StateClosed {
		return ErrClosed
	}
	if width <= 0 || height <= 0 {
		return nil
	}
	if l.state == StateUninitialized {
		if err := l.initLocked(); err != nil {
			return err
		}
	}
	if width != l.width || height != l.height {
		sketch.Logger().Info("app: resize", "from_w", l.width, "from_h", l.height, "to_w", width, "to_h", height)
		l.width, l.height = width, height
	}

	l.scene.Update(now)
	if err := l.scene.Render(view, width, height); err != nil {
		return fmt.Errorf("app: render frame %d: %w", l.frames, err)
	}
	l.frames++
	return nil
}

func (l *Lifecycle) initLocked() error {
	dev, err := l.acquire()
	if err != nil {
		return fmt.Errorf("app: acquire device: %w", err)
	}
	if err := l.scene.Init(dev); err != nil {
		dev.Close()
		return fmt.Errorf("app: init scene: %w", err)
	}
	l.dev = dev
	l.state = StateReady
	sketch.Logger().Info("app: ready", "device", dev.Name())
	return nil
}

// Close releases the scene and device. Closing an uninitialized lifecycle
// only changes its state; closing twice returns ErrClosed.
func (l *Lifecycle) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case StateClosed:
		return ErrClosed
	case StateReady:
		l.scene.Destroy()
		l.dev.Close()
		l.dev = nil
	}
	l.state = StateClosed
	sketch.Logger().Info("app: closed", "frames", l.frames)
	return nil
}
