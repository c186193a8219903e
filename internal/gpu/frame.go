// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/sketch"
	"github.com/gogpu/wgpu/hal"
)

// Recorder records draw calls into an open render pass.
type Recorder interface {
	RecordDraws(rp hal.RenderPassEncoder)
}

// Frame encodes and submits one frame: optional compute work followed by a
// single render pass that clears the target view.
type Frame struct {
	dev   *Device
	clear sketch.Color
	count uint64
}

// NewFrame creates a frame encoder clearing to clear.
func NewFrame(dev *Device, clear sketch.Color) *Frame {
	return &Frame{dev: dev, clear: clear}
}

// SetClearColor changes the clear color for subsequent frames.
func (f *Frame) SetClearColor(c sketch.Color) { f.clear = c }

// Count returns the number of frames submitted.
func (f *Frame) Count() uint64 { return f.count }

// Render encodes compute (if non-nil) and then a render pass on view in
// which every recorder draws in order. It returns once the GPU has
// finished the frame.
func (f *Frame) Render(view hal.TextureView, compute func(hal.CommandEncoder), recorders ...Recorder) error {
	if view == nil {
		return ErrNilView
	}
	err := f.dev.submit("frame", func(encoder hal.CommandEncoder) error {
		if compute != nil {
			compute(encoder)
		}
		rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
			Label: "frame_pass",
			ColorAttachments: []hal.RenderPassColorAttachment{{
				View:       view,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: clearValue(f.clear),
			}},
		})
		for _, rec := range recorders {
			if rec != nil {
				rec.RecordDraws(rp)
			}
		}
		rp.End()
		return nil
	})
	if err != nil {
		return err
	}
	f.count++
	return nil
}

// clearValue converts c to a render pass clear value. The surface format
// is not sRGB, so components are passed through unchanged.
func clearValue(c sketch.Color) gputypes.Color {
	return gputypes.Color{
		R: float64(c.R),
		G: float64(c.G),
		B: float64(c.B),
		A: float64(c.A),
	}
}
