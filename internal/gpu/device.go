// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// GPU errors.
var (
	// ErrBackendUnavailable is returned when no Vulkan hal backend is registered.
	ErrBackendUnavailable = errors.New("gpu: vulkan backend not available")

	// ErrNoAdapter is returned when the instance exposes no adapters.
	ErrNoAdapter = errors.New("gpu: no GPU adapters found")

	// ErrProviderNotHal is returned when a device provider does not expose
	// hal.Device and hal.Queue.
	ErrProviderNotHal = errors.New("gpu: provider does not expose HAL device and queue")

	// ErrNotInitialized is returned when using a released device or renderer.
	ErrNotInitialized = errors.New("gpu: not initialized")

	// ErrNilView is returned when a frame is rendered without a target view.
	ErrNilView = errors.New("gpu: nil target view")

	// ErrFenceTimeout is returned when submitted work does not finish in
	// time.
	ErrFenceTimeout = errors.New("gpu: fence timeout")
)

// fenceTimeout bounds every wait for submitted GPU work.
const fenceTimeout = 5 * time.Second

// DefaultSurfaceFormat is the color format used when a provider does not
// report its surface format.
const DefaultSurfaceFormat = gputypes.TextureFormatBGRA8Unorm

// Device wraps a hal device and queue.
//
// A standalone device owns its instance and device and destroys them on
// Close. A device obtained from a provider shares the window's device and
// Close leaves it alone.
type Device struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	name     string
	format   gputypes.TextureFormat
	external bool
}

// OpenStandalone creates a Vulkan instance and opens the first discrete or
// integrated adapter, falling back to the first adapter reported.
func OpenStandalone() (*Device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, ErrBackendUnavailable
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("gpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: open device: %w", err)
	}
	slogger().Info("opened standalone device", "adapter", selected.Info.Name)
	return &Device{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		name:     selected.Info.Name,
		format:   DefaultSurfaceFormat,
	}, nil
}

// DeviceFromProvider wraps the device shared by a window. The provider must
// implement HalDevice() any and HalQueue() any returning hal.Device and
// hal.Queue. If it also reports SurfaceFormat, that format is used for
// render pipelines.
func DeviceFromProvider(provider any) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrProviderNotHal
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is %T", ErrProviderNotHal, hp.HalDevice())
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is %T", ErrProviderNotHal, hp.HalQueue())
	}

	format := DefaultSurfaceFormat
	if fp, ok := provider.(interface{ SurfaceFormat() gputypes.TextureFormat }); ok {
		if f := fp.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
			format = f
		}
	}
	slogger().Info("using shared device", "format", format)
	return &Device{
		device:   device,
		queue:    queue,
		name:     "shared",
		format:   format,
		external: true,
	}, nil
}

// Name returns the adapter name, or "shared" for provider devices.
func (d *Device) Name() string { return d.name }

// External reports whether the device is owned by someone else.
func (d *Device) External() bool { return d.external }

// SurfaceFormat returns the color format render pipelines target.
func (d *Device) SurfaceFormat() gputypes.TextureFormat { return d.format }

// Close releases the device if it is owned. Safe to call more than once.
func (d *Device) Close() {
	if d.device == nil {
		return
	}
	if !d.external {
		d.device.Destroy()
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	d.device = nil
	d.queue = nil
	d.instance = nil
}

func (d *Device) ready() error {
	if d == nil || d.device == nil {
		return ErrNotInitialized
	}
	return nil
}

// createBuffer creates an empty GPU buffer.
func (d *Device) createBuffer(label string, size uint64, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return buf, nil
}

// uploadBuffer creates a GPU buffer and uploads data.
func (d *Device) uploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := d.createBuffer(label, uint64(len(data)), usage|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	d.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// submit encodes work with fn, submits it and waits on a fence.
func (d *Device) submit(label string, fn func(encoder hal.CommandEncoder) error) error {
	if err := d.ready(); err != nil {
		return err
	}
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label + "_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	cmdBuf, err := encode(encoder, label, fn)
	if err != nil {
		return err
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	return fenceResult(d.device.Wait(fence, 1, fenceTimeout))
}

// encodingSession is the part of hal.CommandEncoder that brackets
// recording.
type encodingSession interface {
	BeginEncoding(label string) error
	EndEncoding() (hal.CommandBuffer, error)
	DiscardEncoding()
}

// encode records fn into encoder. If fn fails the recording is discarded
// and no command buffer is returned.
func encode[E encodingSession](encoder E, label string, fn func(E) error) (hal.CommandBuffer, error) {
	if err := encoder.BeginEncoding(label); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}
	if err := fn(encoder); err != nil {
		encoder.DiscardEncoding()
		return nil, err
	}
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	return cmdBuf, nil
}

// fenceResult converts the outcome of a fence wait into an error.
func fenceResult(signaled bool, err error) error {
	if err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if !signaled {
		return fmt.Errorf("%w after %v", ErrFenceTimeout, fenceTimeout)
	}
	return nil
}
