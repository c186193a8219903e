// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/sketch"
	"github.com/gogpu/wgpu/hal"
)

// shapeVertexStride is the byte stride per vertex: position (vec2<f32>).
const shapeVertexStride = 8

// fillUniformSize is the byte size of the fill uniform: color (vec4<f32>).
const fillUniformSize = 16

// ShapeRenderer draws the geometry of one RenderState with a single
// indexed draw call.
//
// The state is uploaded once by Upload, which freezes it. Triangles are
// expected in counter-clockwise order; the pipeline culls back faces.
type ShapeRenderer struct {
	dev *Device

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline

	uniformBuf hal.Buffer
	bindGroup  hal.BindGroup
	vertBuf    hal.Buffer
	idxBuf     hal.Buffer
	indexCount uint32
}

// NewShapeRenderer creates the shape pipeline targeting the device's
// surface format.
func NewShapeRenderer(dev *Device) (*ShapeRenderer, error) {
	if err := dev.ready(); err != nil {
		return nil, err
	}
	r := &ShapeRenderer{dev: dev}
	if err := r.createPipeline(); err != nil {
		r.Destroy()
		return nil, err
	}
	return r, nil
}

func (r *ShapeRenderer) createPipeline() error {
	device := r.dev.device

	shader, err := createShaderModule(device, "shapes", shapesShaderSource)
	if err != nil {
		return err
	}
	r.shader = shader

	bindLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "shapes_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageFragment, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
		},
	})
	if err != nil {
		return fmt.Errorf("create shapes bind group layout: %w", err)
	}
	r.bindLayout = bindLayout

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "shapes_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create shapes pipeline layout: %w", err)
	}
	r.pipeLayout = pipeLayout

	pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "shapes_pipeline",
		Layout: r.pipeLayout,
		Vertex: hal.VertexState{
			Module:     r.shader,
			EntryPoint: vertexEntryPoint,
			Buffers:    positionVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     r.shader,
			EntryPoint: fragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{Format: r.dev.format, WriteMask: gputypes.ColorWriteMaskAll},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  gputypes.CullModeBack,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create shapes pipeline: %w", err)
	}
	r.pipeline = pipeline

	uniformBuf, err := r.dev.createBuffer("shapes_fill", fillUniformSize,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	r.uniformBuf = uniformBuf

	bindGroup, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "shapes_bind",
		Layout: r.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: r.uniformBuf.NativeHandle(), Offset: 0, Size: fillUniformSize}},
		},
	})
	if err != nil {
		return fmt.Errorf("create shapes bind group: %w", err)
	}
	r.bindGroup = bindGroup
	return nil
}

// Upload freezes rs and copies its vertices and indices to GPU buffers,
// replacing any previous upload. An empty state uploads nothing and makes
// RecordDraws a no-op.
func (r *ShapeRenderer) Upload(rs *sketch.RenderState, fill sketch.Color) error {
	if err := r.dev.ready(); err != nil {
		return err
	}
	rs.Freeze()
	r.releaseGeometry()
	r.dev.queue.WriteBuffer(r.uniformBuf, 0, fillUniformBytes(fill))

	if rs.IsEmpty() {
		slogger().Debug("shapes: empty render state, nothing to upload")
		return nil
	}

	vertBuf, err := r.dev.uploadBuffer("shapes_vertices", rs.VertexBytes(), gputypes.BufferUsageVertex)
	if err != nil {
		return err
	}
	idxBuf, err := r.dev.uploadBuffer("shapes_indices", rs.IndexBytes(), gputypes.BufferUsageIndex)
	if err != nil {
		r.dev.device.DestroyBuffer(vertBuf)
		return err
	}
	r.vertBuf = vertBuf
	r.idxBuf = idxBuf
	r.indexCount = uint32(rs.IndexCount()) //nolint:gosec // bounded by MaxVertices

	slogger().Debug("shapes: uploaded",
		"vertices", rs.VertexCount(), "indices", rs.IndexCount(), "primitives", rs.PrimitiveCount)
	return nil
}

// IndexCount returns the number of indices of the last upload.
func (r *ShapeRenderer) IndexCount() uint32 { return r.indexCount }

// RecordDraws records the shape draw call into an open render pass.
func (r *ShapeRenderer) RecordDraws(rp hal.RenderPassEncoder) {
	if r.indexCount == 0 || r.pipeline == nil {
		return
	}
	rp.SetPipeline(r.pipeline)
	rp.SetBindGroup(0, r.bindGroup, nil)
	rp.SetVertexBuffer(0, r.vertBuf, 0)
	rp.SetIndexBuffer(r.idxBuf, gputypes.IndexFormatUint16, 0)
	rp.DrawIndexed(r.indexCount, 1, 0, 0, 0)
}

// Destroy releases all GPU resources. Safe to call more than once.
func (r *ShapeRenderer) Destroy() {
	if r.dev == nil || r.dev.device == nil {
		return
	}
	device := r.dev.device
	r.releaseGeometry()
	if r.bindGroup != nil {
		device.DestroyBindGroup(r.bindGroup)
		r.bindGroup = nil
	}
	if r.uniformBuf != nil {
		device.DestroyBuffer(r.uniformBuf)
		r.uniformBuf = nil
	}
	if r.pipeline != nil {
		device.DestroyRenderPipeline(r.pipeline)
		r.pipeline = nil
	}
	if r.pipeLayout != nil {
		device.DestroyPipelineLayout(r.pipeLayout)
		r.pipeLayout = nil
	}
	if r.bindLayout != nil {
		device.DestroyBindGroupLayout(r.bindLayout)
		r.bindLayout = nil
	}
	if r.shader != nil {
		device.DestroyShaderModule(r.shader)
		r.shader = nil
	}
}

func (r *ShapeRenderer) releaseGeometry() {
	if r.vertBuf != nil {
		r.dev.device.DestroyBuffer(r.vertBuf)
		r.vertBuf = nil
	}
	if r.idxBuf != nil {
		r.dev.device.DestroyBuffer(r.idxBuf)
		r.idxBuf = nil
	}
	r.indexCount = 0
}

// positionVertexLayout describes a buffer of tightly packed vec2<f32>
// positions at shader location 0.
func positionVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: shapeVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			},
		},
	}
}

// fillUniformBytes encodes a color as vec4<f32>.
func fillUniformBytes(c sketch.Color) []byte {
	buf := make([]byte, fillUniformSize)
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(c.R))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(c.G))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(c.B))
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(c.A))
	return buf
}
