// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu drives the WebGPU side of the sketch scenes through
// gogpu/wgpu/hal.
//
// # Architecture
//
//	Device          hal instance/device/queue, standalone or shared with a window
//	ShapeRenderer   one RenderState uploaded as vertex + uint16 index buffers
//	LifeRenderer    compute pipeline stepping the cell grid, instanced quad pipeline drawing it
//	Frame           one command encoder per frame: optional compute work, then a
//	                render pass that clears to the background color
//
// Shaders are embedded WGSL compiled to SPIR-V with gogpu/naga before the
// shader modules are created.
//
// # Double buffering
//
// The Life renderer keeps two storage buffers and two bind groups. Bind
// group p reads buffer p and writes buffer 1-p. A compute step always uses
// the bind group of the current parity and then flips it, so the render
// pass that follows draws the generation just produced. The CPU reference
// in package life uses the same convention, which lets tests compare the
// two buffer for buffer.
//
// # Synchronization
//
// Every submission waits on a fence before returning, so at most one frame
// is in flight and buffers may be rewritten safely between frames.
package gpu
