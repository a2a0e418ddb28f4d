// Package gpu renders the sprite batch through WebGPU. It mirrors the opengl
// package: a static quad in vertex slot 0 and one instance buffer per batch
// channel in slots 1 to 3.
package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Device is the adapter, device and configured surface of one window.
type Device struct {
	Surface *wgpu.Surface
	Adapter *wgpu.Adapter
	Device  *wgpu.Device
	Queue   *wgpu.Queue
	Config  *wgpu.SurfaceConfiguration
}

// NewDevice wraps win, which must have been created with the NoAPI client
// hint, into a configured surface.
func NewDevice(win *glfw.Window, vsync bool) (*Device, error) {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(win))
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		surface.Release()
		return nil, fmt.Errorf("gpu: request adapter: %w", err)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Leafy Device",
	})
	if err != nil {
		adapter.Release()
		surface.Release()
		return nil, fmt.Errorf("gpu: request device: %w", err)
	}

	width, height := win.GetFramebufferSize()
	caps := surface.GetCapabilities(adapter)
	presentMode := wgpu.PresentModeFifo
	if !vsync {
		presentMode = wgpu.PresentModeImmediate
		for _, m := range caps.PresentModes {
			if m == wgpu.PresentModeMailbox {
				presentMode = m
				break
			}
		}
	}
	config := &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(max(width, 1)),
		Height:      uint32(max(height, 1)),
		PresentMode: presentMode,
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, device, config)

	return &Device{
		Surface: surface,
		Adapter: adapter,
		Device:  device,
		Queue:   device.GetQueue(),
		Config:  config,
	}, nil
}

// Reconfigure resizes the swapchain. Zero sizes (minimized windows) are ignored.
func (d *Device) Reconfigure(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	d.Config.Width = uint32(width)
	d.Config.Height = uint32(height)
	d.Surface.Configure(d.Adapter, d.Device, d.Config)
}

func (d *Device) Release() {
	if d.Queue != nil {
		d.Queue.Release()
	}
	if d.Device != nil {
		d.Device.Release()
	}
	if d.Adapter != nil {
		d.Adapter.Release()
	}
	if d.Surface != nil {
		d.Surface.Release()
	}
	*d = Device{}
}
