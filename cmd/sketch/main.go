// Command sketch opens the shapes or Game of Life scene in a window, or
// renders either one to a PNG file without a window.
//
// Usage:
//
//	sketch -mode shapes
//	sketch -mode life -config sketch.yaml
//	sketch -mode life -headless -steps 50 -seed 7 -out life.png
//	sketch -mode life -headless -gpu-compare
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/app"
	"github.com/gogpu/sketch/config"
	"github.com/gogpu/sketch/internal/gpu"
	"github.com/gogpu/sketch/life"
	"github.com/gogpu/sketch/software"
)

const (
	modeShapes = "shapes"
	modeLife   = "life"

	// cellPixels is the size of one cell in headless Life images.
	cellPixels = 16
)

type options struct {
	configPath string
	mode       string
	headless   bool
	out        string
	steps      int
	seed       uint64
	grid       int
	gpuCompare bool
	workers    int
	verbose    bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "YAML config file")
	flag.StringVar(&opts.mode, "mode", modeShapes, "scene to run: shapes or life")
	flag.BoolVar(&opts.headless, "headless", false, "render to a PNG file instead of a window")
	flag.StringVar(&opts.out, "out", "sketch.png", "output file for -headless")
	flag.IntVar(&opts.steps, "steps", 10, "generations to compute for -headless life")
	flag.Uint64Var(&opts.seed, "seed", 0, "random seed for life (0 uses the config seed; a zero config seed picks one at random)")
	flag.IntVar(&opts.grid, "grid", 0, "square life grid size (0 uses the config size)")
	flag.BoolVar(&opts.gpuCompare, "gpu-compare", false, "check headless life against the GPU compute shader")
	flag.IntVar(&opts.workers, "workers", 0, "CPU workers for -headless life (0 uses GOMAXPROCS)")
	flag.BoolVar(&opts.verbose, "v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	sketch.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(opts); err != nil {
		sketch.Logger().Error("sketch failed", "err", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if opts.seed != 0 {
		cfg.Life.Seed = opts.seed
	}
	if opts.grid > 0 {
		cfg.Life.Width, cfg.Life.Height = opts.grid, opts.grid
	}

	switch opts.mode {
	case modeShapes:
		rs := sketch.NewRenderState()
		if err := cfg.Shapes.Build(rs); err != nil {
			return err
		}
		if opts.headless {
			return renderShapes(cfg, rs, opts.out)
		}
		scene := app.NewShapesScene(rs, cfg.Shapes.Fill.Color(), cfg.Window.Background.Color())
		return app.New(appConfig(cfg), scene).Run()
	case modeLife:
		if opts.headless {
			return renderLife(cfg, opts)
		}
		scene := app.NewLifeScene(app.LifeConfig{
			Width:   cfg.Life.Width,
			Height:  cfg.Life.Height,
			Density: cfg.Life.Density,
			Seed:    cfg.Life.Seed,
		}, cfg.Window.FPS, cfg.Window.Background.Color())
		return app.New(appConfig(cfg), scene).Run()
	default:
		return fmt.Errorf("unknown mode %q (want %s or %s)", opts.mode, modeShapes, modeLife)
	}
}

func appConfig(cfg config.Config) app.Config {
	return app.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		FPS:        cfg.Window.FPS,
		Background: cfg.Window.Background.Color(),
		Continuous: cfg.Window.Continuous,
	}
}

func renderShapes(cfg config.Config, rs *sketch.RenderState, out string) error {
	img, stats, err := software.RasterizeStats(rs, cfg.Window.Width, cfg.Window.Height,
		cfg.Shapes.Fill.Color(), cfg.Window.Background.Color())
	if err != nil {
		return err
	}
	if err := software.SavePNG(img, out); err != nil {
		return err
	}
	sketch.Logger().Info("shapes written", "path", out, "triangles", stats.Drawn, "culled", stats.Culled)
	return nil
}

func renderLife(cfg config.Config, opts options) error {
	grid, err := life.NewGrid(cfg.Life.Width, cfg.Life.Height)
	if err != nil {
		return err
	}
	seed := life.ResolveSeed(cfg.Life.Seed)
	if err := grid.SeedFromSeed(seed, cfg.Life.Density); err != nil {
		return err
	}
	sketch.Logger().Info("life seeded", "seed", seed, "density", cfg.Life.Density)

	if opts.gpuCompare {
		if err := compareGPU(grid, opts.steps); err != nil {
			return err
		}
	}

	stepper := life.NewStepper(opts.workers)
	stepper.StepN(grid, opts.steps)
	stepper.Close()

	img := grid.Image(cellPixels, sketch.CellColor, cfg.Window.Background.Color())
	if err := software.SavePNG(img, opts.out); err != nil {
		return err
	}
	sketch.Logger().Info("life written", "path", opts.out,
		"generation", grid.Generation(), "population", grid.Population())
	return nil
}

var errGPUMismatch = errors.New("GPU and CPU generations differ")

// compareGPU runs steps generations of grid on the GPU and on a CPU copy
// and reports any cell that differs.
func compareGPU(grid *life.Grid, steps int) error {
	dev, err := gpu.OpenStandalone()
	if err != nil {
		return fmt.Errorf("gpu-compare: %w", err)
	}
	defer dev.Close()

	r, err := gpu.NewLifeRenderer(dev, grid)
	if err != nil {
		return fmt.Errorf("gpu-compare: %w", err)
	}
	defer r.Destroy()

	got, err := r.Simulate(steps)
	if err != nil {
		return fmt.Errorf("gpu-compare: %w", err)
	}
	want := grid.Clone()
	want.StepN(steps)
	if diff := want.Diff(got); len(diff) > 0 {
		return fmt.Errorf("%w: %d cells after %d steps, first at index %d",
			errGPUMismatch, len(diff), steps, diff[0])
	}
	sketch.Logger().Info("gpu-compare: match", "device", dev.Name(), "steps", steps, "cells", grid.Len())
	return nil
}
