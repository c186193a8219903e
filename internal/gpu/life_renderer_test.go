// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"testing"

	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/life"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDevice opens a standalone device or skips the test.
func openTestDevice(t *testing.T) *Device {
	t.Helper()
	dev, err := OpenStandalone()
	if err != nil {
		t.Skipf("GPU not available: %v (expected in CI/test environments)", err)
	}
	t.Cleanup(dev.Close)
	return dev
}

// TestLifeRenderer_MatchesCPU runs the compute pipeline and the CPU
// reference from the same seed and compares the current generation after
// each batch of steps.
func TestLifeRenderer_MatchesCPU(t *testing.T) {
	dev := openTestDevice(t)

	sizes := []struct{ w, h int }{
		{life.DefaultGridSize, life.DefaultGridSize},
		{13, 10}, // not a multiple of the workgroup size
	}
	for _, sz := range sizes {
		grid, err := life.NewGrid(sz.w, sz.h)
		require.NoError(t, err)
		require.NoError(t, grid.SeedFromSeed(7, life.DefaultDensity))

		r, err := NewLifeRenderer(dev, grid)
		require.NoError(t, err)

		got, err := r.Simulate(0)
		require.NoError(t, err)
		assert.Empty(t, grid.Diff(got), "initial upload %dx%d", sz.w, sz.h)

		for _, steps := range []int{1, 4, 11} {
			grid.StepN(steps)
			got, err := r.Simulate(steps)
			require.NoError(t, err)
			assert.Empty(t, grid.Diff(got), "%dx%d generation %d", sz.w, sz.h, grid.Generation())
			assert.Equal(t, grid.Parity(), r.Parity())
			assert.Equal(t, grid.Generation(), r.Generation())
		}
		r.Destroy()
		r.Destroy()
	}
}

func TestLifeRenderer_UploadSizeMismatch(t *testing.T) {
	dev := openTestDevice(t)

	grid, err := life.NewGrid(8, 8)
	require.NoError(t, err)
	r, err := NewLifeRenderer(dev, grid)
	require.NoError(t, err)
	defer r.Destroy()

	other, err := life.NewGrid(4, 4)
	require.NoError(t, err)
	assert.ErrorIs(t, r.Upload(other), ErrGridMismatch)
}

func TestShapeRenderer_Upload(t *testing.T) {
	dev := openTestDevice(t)

	r, err := NewShapeRenderer(dev)
	require.NoError(t, err)
	defer r.Destroy()

	empty := sketch.NewRenderState()
	require.NoError(t, r.Upload(empty, sketch.CellColor))
	assert.Equal(t, uint32(0), r.IndexCount())

	rs := sketch.NewRenderState()
	require.NoError(t, rs.DrawSquare(sketch.Pt2(-0.8, 0.8), 0.4))
	require.NoError(t, rs.DrawTriangleCCW(sketch.Pt2(0, 0), sketch.Pt2(0.4, 0), sketch.Pt2(0.4, 0.4)))
	require.NoError(t, r.Upload(rs, sketch.CellColor))
	assert.Equal(t, uint32(9), r.IndexCount())
	assert.True(t, rs.Frozen())
}
