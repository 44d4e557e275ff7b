package engine

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Register the Vulkan backend via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// CreateDevice selects and opens a device. When a device was injected
// with WithDevice, selection is skipped (idempotent reuse).
//
// Hardware adapters are filtered by a case-insensitive substring match
// against the adapter-name policy; CPU adapters are considered only under
// the software-adapter policy. The op's own UseSoftwareAdapter/AdapterName
// take precedence over the engine options.
func (e *Engine) CreateDevice() error {
	if err := e.requireState(StateUninitialized); err != nil {
		return err
	}
	if e.device == nil {
		if err := e.openDevice(); err != nil {
			return err
		}
	}
	e.state = StateDeviceReady
	return nil
}

func (e *Engine) openDevice() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("%w: vulkan backend not available", ErrNoAdapter)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("engine: create instance: %w", err)
	}
	e.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("%w: none enumerated", ErrNoAdapter)
	}

	software := e.opts.softwareAdapter
	name := e.opts.adapterName
	if e.op != nil {
		software = software || e.op.UseSoftwareAdapter
		if e.op.AdapterName != "" {
			name = e.op.AdapterName
		}
	}

	selected := selectAdapter(adapters, software, name)
	if selected == nil {
		return fmt.Errorf("%w: software=%v name=%q", ErrNoAdapter, software, name)
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return e.deviceError("open device", err)
	}
	e.device = openDev.Device
	e.queue = openDev.Queue
	e.log.Info("adapter selected",
		"name", selected.Info.Name,
		"type", selected.Info.DeviceType,
		"software", software)
	return nil
}

func selectAdapter(adapters []hal.ExposedAdapter, software bool, name string) *hal.ExposedAdapter {
	for i := range adapters {
		hw := adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU
		if software {
			if !hw {
				return &adapters[i]
			}
			continue
		}
		if !hw {
			continue
		}
		if name != "" && !strings.Contains(
			strings.ToLower(adapters[i].Info.Name), strings.ToLower(name)) {
			continue
		}
		return &adapters[i]
	}
	return nil
}

// deviceError wraps a device-level failure, diagnosing device-loss with a
// best-effort reason. Diagnosis is purely for richer messages; there is no
// recovery.
func (e *Engine) deviceError(what string, err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "lost") || strings.Contains(msg, "removed") {
		e.log.Warn("device removed", "during", what, "reason", err)
		return fmt.Errorf("%w: during %s: %v", ErrDeviceRemoved, what, err)
	}
	return fmt.Errorf("engine: %s: %w", what, err)
}
