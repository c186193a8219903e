// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/life"
	"github.com/gogpu/wgpu/hal"
)

// ErrGridMismatch is returned when uploading a grid of a different size
// than the renderer was created for.
var ErrGridMismatch = errors.New("gpu: grid size does not match renderer")

// cellQuadHalfSize is the half extent of the cell quad before it is scaled
// into its grid slot. Values below 1 leave a gap between cells.
const cellQuadHalfSize float32 = 0.8

// LifeRenderer steps a Game of Life grid with a compute shader and draws
// it as one instanced quad per cell.
//
// Bind group layout (shared by both pipelines):
//
//	Binding 0: grid uniform (vertex + compute)
//	Binding 1: current cells, read-only storage (vertex + compute)
//	Binding 2: next cells, storage (compute)
//
// Bind group i binds buffer i at binding 1 and buffer 1-i at binding 2.
type LifeRenderer struct {
	dev *Device

	width, height int
	cellBytes     uint64
	steps         stepState

	computeShader   hal.ShaderModule
	renderShader    hal.ShaderModule
	bindLayout      hal.BindGroupLayout
	pipeLayout      hal.PipelineLayout
	computePipeline hal.ComputePipeline
	renderPipeline  hal.RenderPipeline

	uniformBuf hal.Buffer
	cellBufs   [2]hal.Buffer
	bindGroups [2]hal.BindGroup
	quadVerts  hal.Buffer
	quadIdx    hal.Buffer
	quadCount  uint32
}

// NewLifeRenderer creates the compute and render pipelines for grid and
// uploads its cells.
func NewLifeRenderer(dev *Device, grid *life.Grid) (*LifeRenderer, error) {
	if err := dev.ready(); err != nil {
		return nil, err
	}
	r := &LifeRenderer{
		dev:       dev,
		width:     grid.Width(),
		height:    grid.Height(),
		cellBytes: uint64(grid.Len()) * 4, //nolint:gosec // grid size is positive
	}
	if err := r.createPipelines(); err != nil {
		r.Destroy()
		return nil, err
	}
	if err := r.createBuffers(); err != nil {
		r.Destroy()
		return nil, err
	}
	if err := r.Upload(grid); err != nil {
		r.Destroy()
		return nil, err
	}
	slogger().Info("life renderer ready", "width", r.width, "height", r.height,
		"workgroups_x", r.workgroupsX(), "workgroups_y", r.workgroupsY())
	return r, nil
}

func (r *LifeRenderer) createPipelines() error {
	device := r.dev.device

	computeShader, err := createShaderModule(device, "life_compute", lifeComputeShaderSource)
	if err != nil {
		return err
	}
	r.computeShader = computeShader

	renderShader, err := createShaderModule(device, "life_render", lifeRenderShaderSource)
	if err != nil {
		return err
	}
	r.renderShader = renderShader

	bindLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "life_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageCompute,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageCompute,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageCompute,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create life bind group layout: %w", err)
	}
	r.bindLayout = bindLayout

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "life_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create life pipeline layout: %w", err)
	}
	r.pipeLayout = pipeLayout

	computePipeline, err := device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   "life_compute_pipeline",
		Layout:  r.pipeLayout,
		Compute: hal.ComputeState{Module: r.computeShader, EntryPoint: computeEntryPoint},
	})
	if err != nil {
		return fmt.Errorf("create life compute pipeline: %w", err)
	}
	r.computePipeline = computePipeline

	renderPipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "life_render_pipeline",
		Layout: r.pipeLayout,
		Vertex: hal.VertexState{
			Module:     r.renderShader,
			EntryPoint: vertexEntryPoint,
			Buffers:    positionVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     r.renderShader,
			EntryPoint: fragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{Format: r.dev.format, WriteMask: gputypes.ColorWriteMaskAll},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create life render pipeline: %w", err)
	}
	r.renderPipeline = renderPipeline
	return nil
}

func (r *LifeRenderer) createBuffers() error {
	device := r.dev.device

	uniformBuf, err := r.dev.uploadBuffer("life_grid", life.UniformBytes(r.width, r.height),
		gputypes.BufferUsageUniform)
	if err != nil {
		return err
	}
	r.uniformBuf = uniformBuf

	for i := range r.cellBufs {
		buf, err := r.dev.createBuffer(fmt.Sprintf("life_cells_%d", i), r.cellBytes,
			gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst|gputypes.BufferUsageCopySrc)
		if err != nil {
			return err
		}
		r.cellBufs[i] = buf
	}

	for i := range r.bindGroups {
		in, out := r.cellBufs[i], r.cellBufs[1-i]
		bg, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:  fmt.Sprintf("life_bind_%d", i),
			Layout: r.bindLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{Buffer: r.uniformBuf.NativeHandle(), Offset: 0, Size: life.UniformSize}},
				{Binding: 1, Resource: gputypes.BufferBinding{Buffer: in.NativeHandle(), Offset: 0, Size: r.cellBytes}},
				{Binding: 2, Resource: gputypes.BufferBinding{Buffer: out.NativeHandle(), Offset: 0, Size: r.cellBytes}},
			},
		})
		if err != nil {
			return fmt.Errorf("create life bind group %d: %w", i, err)
		}
		r.bindGroups[i] = bg
	}

	quad := sketch.NewRenderState()
	if err := quad.DrawSquare(sketch.Pt2(-cellQuadHalfSize, cellQuadHalfSize), 2*cellQuadHalfSize); err != nil {
		return fmt.Errorf("build cell quad: %w", err)
	}
	quad.Freeze()
	if r.quadVerts, err = r.dev.uploadBuffer("life_quad_vertices", quad.VertexBytes(), gputypes.BufferUsageVertex); err != nil {
		return err
	}
	if r.quadIdx, err = r.dev.uploadBuffer("life_quad_indices", quad.IndexBytes(), gputypes.BufferUsageIndex); err != nil {
		return err
	}
	r.quadCount = uint32(quad.IndexCount()) //nolint:gosec // six indices
	return nil
}

// Upload copies both cell buffers of grid to the GPU and adopts its parity.
func (r *LifeRenderer) Upload(grid *life.Grid) error {
	if err := r.dev.ready(); err != nil {
		return err
	}
	if grid.Width() != r.width || grid.Height() != r.height {
		return fmt.Errorf("%w: grid %dx%d, renderer %dx%d",
			ErrGridMismatch, grid.Width(), grid.Height(), r.width, r.height)
	}
	bufs := grid.Buffers()
	for i := range bufs {
		r.dev.queue.WriteBuffer(r.cellBufs[i], 0, life.CellBytes(bufs[i]))
	}
	r.steps.reset(grid.Parity(), grid.Generation())
	return nil
}

// Size returns the grid dimensions.
func (r *LifeRenderer) Size() (width, height int) { return r.width, r.height }

// Parity returns the index of the buffer holding the current generation.
// Recorded but uncommitted steps are not included.
func (r *LifeRenderer) Parity() int { return r.steps.parity }

// Generation returns the number of generations computed since the last
// upload, offset by the uploaded grid's generation.
func (r *LifeRenderer) Generation() uint64 { return r.steps.generation }

// PendingSteps returns the number of steps recorded since the last Commit
// or Rollback.
func (r *LifeRenderer) PendingSteps() int { return r.steps.pending }

// Commit makes the recorded steps current. Call it once the command buffer
// holding them has been submitted and completed.
func (r *LifeRenderer) Commit() { r.steps.commit() }

// Rollback forgets the recorded steps after a failed submit, so the
// current buffer is again the one the GPU last finished writing.
func (r *LifeRenderer) Rollback() { r.steps.rollback() }

func (r *LifeRenderer) workgroupsX() uint32 {
	return life.Workgroups(uint32(r.width), life.WorkgroupSize) //nolint:gosec // positive grid width
}

func (r *LifeRenderer) workgroupsY() uint32 {
	return life.Workgroups(uint32(r.height), life.WorkgroupSize) //nolint:gosec // positive grid height
}

// EncodeStep records one generation into encoder. The step reads the
// buffer the previously recorded commands leave current and writes the
// other one. Parity and Generation change only on Commit.
func (r *LifeRenderer) EncodeStep(encoder hal.CommandEncoder) {
	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "life_step"})
	pass.SetPipeline(r.computePipeline)
	pass.SetBindGroup(0, r.bindGroups[r.steps.record()], nil)
	pass.Dispatch(r.workgroupsX(), r.workgroupsY(), 1)
	pass.End()
}

// RecordDraws draws into an open render pass the generation left by the
// steps recorded so far.
func (r *LifeRenderer) RecordDraws(rp hal.RenderPassEncoder) {
	if r.renderPipeline == nil {
		return
	}
	rp.SetPipeline(r.renderPipeline)
	rp.SetBindGroup(0, r.bindGroups[r.steps.recorded], nil)
	rp.SetVertexBuffer(0, r.quadVerts, 0)
	rp.SetIndexBuffer(r.quadIdx, gputypes.IndexFormatUint16, 0)
	rp.DrawIndexed(r.quadCount, uint32(r.width*r.height), 0, 0, 0) //nolint:gosec // positive grid size
}

// Simulate runs steps generations without rendering and returns the
// current generation read back from the GPU.
func (r *LifeRenderer) Simulate(steps int) ([]uint32, error) {
	if err := r.dev.ready(); err != nil {
		return nil, err
	}
	if steps > 0 {
		err := r.dev.submit("life_simulate", func(encoder hal.CommandEncoder) error {
			for range steps {
				r.EncodeStep(encoder)
			}
			return nil
		})
		if err != nil {
			r.Rollback()
			return nil, fmt.Errorf("simulate %d steps: %w", steps, err)
		}
		r.Commit()
	}
	return r.ReadCurrent()
}

// ReadCurrent copies the current cell buffer to a staging buffer and
// returns its contents.
func (r *LifeRenderer) ReadCurrent() ([]uint32, error) {
	if err := r.dev.ready(); err != nil {
		return nil, err
	}
	staging, err := r.dev.createBuffer("life_staging", r.cellBytes,
		gputypes.BufferUsageMapRead|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	defer r.dev.device.DestroyBuffer(staging)

	current := r.cellBufs[r.steps.parity]
	err = r.dev.submit("life_readback", func(encoder hal.CommandEncoder) error {
		encoder.CopyBufferToBuffer(current, staging, []hal.BufferCopy{
			{SrcOffset: 0, DstOffset: 0, Size: r.cellBytes},
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read cells: %w", err)
	}

	readback := make([]byte, r.cellBytes)
	if err := r.dev.queue.ReadBuffer(staging, 0, readback); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}
	return life.CellsFromBytes(readback), nil
}

// Destroy releases all GPU resources in reverse creation order. Safe to
// call more than once.
func (r *LifeRenderer) Destroy() {
	if r.dev == nil || r.dev.device == nil {
		return
	}
	device := r.dev.device
	for _, buf := range []*hal.Buffer{&r.quadIdx, &r.quadVerts} {
		if *buf != nil {
			device.DestroyBuffer(*buf)
			*buf = nil
		}
	}
	for i := range r.bindGroups {
		if r.bindGroups[i] != nil {
			device.DestroyBindGroup(r.bindGroups[i])
			r.bindGroups[i] = nil
		}
	}
	for i := range r.cellBufs {
		if r.cellBufs[i] != nil {
			device.DestroyBuffer(r.cellBufs[i])
			r.cellBufs[i] = nil
		}
	}
	if r.uniformBuf != nil {
		device.DestroyBuffer(r.uniformBuf)
		r.uniformBuf = nil
	}
	if r.renderPipeline != nil {
		device.DestroyRenderPipeline(r.renderPipeline)
		r.renderPipeline = nil
	}
	if r.computePipeline != nil {
		device.DestroyComputePipeline(r.computePipeline)
		r.computePipeline = nil
	}
	if r.pipeLayout != nil {
		device.DestroyPipelineLayout(r.pipeLayout)
		r.pipeLayout = nil
	}
	if r.bindLayout != nil {
		device.DestroyBindGroupLayout(r.bindLayout)
		r.bindLayout = nil
	}
	if r.renderShader != nil {
		device.DestroyShaderModule(r.renderShader)
		r.renderShader = nil
	}
	if r.computeShader != nil {
		device.DestroyShaderModule(r.computeShader)
		r.computeShader = nil
	}
}

// stepState tracks which cell buffer holds the current generation. Steps
// recorded into a command buffer take effect only when committed.
type stepState struct {
	parity     int
	generation uint64

	// recorded is the current buffer as seen by the commands recorded so
	// far; pending counts the steps between parity and recorded.
	recorded int
	pending  int
}

func (s *stepState) reset(parity int, generation uint64) {
	*s = stepState{parity: parity, generation: generation, recorded: parity}
}

// record registers one more recorded step and returns the buffer it reads.
func (s *stepState) record() int {
	read := s.recorded
	s.recorded = 1 - read
	s.pending++
	return read
}

func (s *stepState) commit() {
	s.parity = s.recorded
	s.generation += uint64(s.pending) //nolint:gosec // pending is non-negative
	s.pending = 0
}

func (s *stepState) rollback() {
	s.recorded = s.parity
	s.pending = 0
}
