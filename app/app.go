// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package app runs a sketch scene in a gogpu window.
//
// The window owns the event loop. Every redraw goes through a Lifecycle,
// which acquires the window's GPU device on the first usable frame,
// initializes the scene, and renders it. Space pauses and resumes scenes
// implementing Pauser; R restarts scenes implementing Reseeder.
package app

import (
	"time"

	"github.com/gogpu/gogpu"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/internal/gpu"
)

// App binds a scene to a gogpu window.
type App struct {
	cfg   Config
	scene Scene
	lc    *Lifecycle

	window *gogpu.App
	anim   *gogpu.AnimationToken
}

// New creates an application for scene. The window is created by Run.
func New(cfg Config, scene Scene) *App {
	a := &App{cfg: cfg, scene: scene}
	a.lc = NewLifecycle(scene, a.acquireDevice)
	return a
}

// Lifecycle returns the application lifecycle.
func (a *App) Lifecycle() *Lifecycle { return a.lc }

func (a *App) acquireDevice() (*gpu.Device, error) {
	if a.window == nil {
		return nil, ErrNoProvider
	}
	provider := a.window.GPUContextProvider()
	if provider == nil {
		return nil, ErrNoProvider
	}
	return gpu.DeviceFromProvider(provider)
}

// Run opens the window and blocks until it is closed.
func (a *App) Run() error {
	if a.lc.State() == StateClosed {
		return ErrClosed
	}
	a.window = gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle(a.cfg.Title).
		WithSize(a.cfg.Width, a.cfg.Height).
		WithContinuousRender(a.cfg.Continuous))

	a.window.OnDraw(func(dc *gogpu.Context) {
		if !a.cfg.Continuous && a.anim == nil {
			a.anim = a.window.StartAnimation()
		}
		var view any = dc.SurfaceView()
		if err := a.lc.Draw(time.Now(), view, dc.Width(), dc.Height()); err != nil {
			sketch.Logger().Error("app: draw", "err", err)
		}
	})

	a.window.EventSource().OnKeyPress(func(key gpucontext.Key, _ gpucontext.Modifiers) {
		a.HandleKey(key)
	})

	a.window.OnClose(func() {
		if a.anim != nil {
			a.anim.Stop()
			a.anim = nil
		}
		if err := a.lc.Close(); err != nil {
			sketch.Logger().Warn("app: close", "err", err)
		}
	})

	sketch.Logger().Info("app: run", "title", a.cfg.Title, "width", a.cfg.Width, "height", a.cfg.Height, "fps", a.cfg.FPS)
	return a.window.Run()
}

// HandleKey applies the key bindings to the scene. It reports whether the
// key was handled.
func (a *App) HandleKey(key gpucontext.Key) bool {
	switch key {
	case gpucontext.KeySpace:
		p, ok := a.scene.(Pauser)
		if !ok {
			return false
		}
		paused := p.TogglePause()
		sketch.Logger().Info("app: pause toggled", "paused", paused)
		return true
	case gpucontext.KeyR:
		r, ok := a.scene.(Reseeder)
		if !ok {
			return false
		}
		r.Reseed()
		sketch.Logger().Info("app: reseed requested")
		return true
	default:
		return false
	}
}
