// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gogpu/fieldcanvas/field"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu"
	"github.com/gogpu/wgpu/hal"
)

// ErrNoHALDevice is returned when a device provider does not expose HAL types.
var ErrNoHALDevice = errors.New("shader: provider does not expose a HAL device")

// halDevicer is implemented by *wgpu.Device.
type halDevicer interface {
	HalDevice() hal.Device
}

// DeviceFrom extracts the HAL device from a device provider. It accepts
// providers with a HalDevice() any method and gpucontext providers whose
// Device() is a *wgpu.Device, as gogpu's GPU context returns.
func DeviceFrom(provider any) (hal.Device, error) {
	if hp, ok := provider.(interface{ HalDevice() any }); ok {
		device, ok := hp.HalDevice().(hal.Device)
		if !ok || device == nil {
			return nil, fmt.Errorf("%w: HalDevice is %T", ErrNoHALDevice, hp.HalDevice())
		}
		return device, nil
	}

	dp, ok := provider.(interface{ Device() gpucontext.Device })
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNoHALDevice, provider)
	}
	var device hal.Device
	switch dev := dp.Device().(type) {
	case *wgpu.Device:
		if dev != nil {
			device = dev.HalDevice()
		}
	case halDevicer:
		device = dev.HalDevice()
	default:
		return nil, fmt.Errorf("%w: Device is %T", ErrNoHALDevice, dev)
	}
	if device == nil {
		return nil, fmt.Errorf("%w: device has no HAL backend", ErrNoHALDevice)
	}
	return device, nil
}

// Compile compiles every shader needed by anim through c and returns the
// SPIR-V words keyed by shader name.
func Compile(c *Cache, anim field.Animation) (map[string][]uint32, error) {
	srcs, err := Sources(anim)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]uint32, len(srcs))
	for _, name := range sortedKeys(srcs) {
		words, err := c.SPIRV(name, srcs[name])
		if err != nil {
			return nil, err
		}
		out[name] = words
	}
	return out, nil
}

// Set owns the HAL shader modules of one canvas.
type Set struct {
	device  hal.Device
	modules map[string]hal.ShaderModule
}

// Build compiles the shaders of anim and creates a module for each on device.
// On failure every module created so far is destroyed.
func Build(device hal.Device, c *Cache, anim field.Animation) (*Set, error) {
	code, err := Compile(c, anim)
	if err != nil {
		return nil, err
	}
	s := &Set{device: device, modules: make(map[string]hal.ShaderModule, len(code))}
	for _, name := range sortedKeys(code) {
		m, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
			Label: name,
			Source: hal.ShaderSource{
				SPIRV: code[name],
			},
		})
		if err != nil {
			s.Destroy()
			return nil, fmt.Errorf("shader: create module %s: %w", name, err)
		}
		s.modules[name] = m
	}
	Logger().Debug("shader: modules created", "animation", anim.String(), "count", len(s.modules))
	return s, nil
}

// Module returns the module for a shader name, or nil.
func (s *Set) Module(name string) hal.ShaderModule {
	if s == nil {
		return nil
	}
	return s.modules[name]
}

// Len returns the number of live modules.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.modules)
}

// Destroy releases every module. Safe to call more than once.
func (s *Set) Destroy() {
	if s == nil || s.device == nil {
		return
	}
	for name, m := range s.modules {
		if m != nil {
			s.device.DestroyShaderModule(m)
		}
		delete(s.modules, name)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
