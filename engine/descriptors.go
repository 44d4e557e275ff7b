package engine

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/shaderop"
)

// descriptorEntry is the runtime view created for one declared descriptor:
// the resolved resource, the optional UAV counter resource, and, for
// texture resources, the HAL texture view.
type descriptorEntry struct {
	spec    *shaderop.ShaderOpDescriptor
	res     *resourceData
	counter *resourceData
	view    hal.TextureView
}

// heapData is the runtime state of one declared descriptor heap.
type heapData struct {
	spec    *shaderop.ShaderOpDescriptorHeap
	entries []descriptorEntry
}

// CreateDescriptorHeaps resolves every declared descriptor against the
// materialized resources and creates the matching views at sequential
// offsets. A descriptor naming an unknown resource is an invalid-argument
// failure.
func (e *Engine) CreateDescriptorHeaps() error {
	if err := e.requireState(StateResourcesReady); err != nil {
		return err
	}
	for i := range e.op.DescriptorHeaps {
		h := &e.op.DescriptorHeaps[i]
		count := h.NumDescriptors
		if count == 0 {
			count = uint32(len(h.Descriptors))
		}
		if uint32(len(h.Descriptors)) > count {
			return fmt.Errorf("%w: heap %q declares %d descriptors but NumDescriptors=%d",
				shaderop.ErrInvalidArgument, h.Name, len(h.Descriptors), count)
		}
		hd := &heapData{spec: h}
		for j := range h.Descriptors {
			desc := &h.Descriptors[j]
			entry, err := e.createDescriptor(desc)
			if err != nil {
				return err
			}
			hd.entries = append(hd.entries, entry)
		}
		e.heaps[h.Name] = hd
		e.log.Debug("descriptor heap ready",
			"name", h.Name, "type", h.Type, "descriptors", len(hd.entries))
	}
	e.state = StateDescriptorsReady
	return nil
}

func (e *Engine) createDescriptor(desc *shaderop.ShaderOpDescriptor) (descriptorEntry, error) {
	entry := descriptorEntry{spec: desc}
	res, ok := e.resources[desc.ResName]
	if !ok {
		return entry, fmt.Errorf("%w: descriptor %q references missing resource %q",
			shaderop.ErrInvalidArgument, desc.Name, desc.ResName)
	}
	entry.res = res

	if desc.CounterName != "" {
		counter, ok := e.resources[desc.CounterName]
		if !ok {
			return entry, fmt.Errorf("%w: descriptor %q references missing counter resource %q",
				shaderop.ErrInvalidArgument, desc.Name, desc.CounterName)
		}
		entry.counter = counter
	}

	// Buffer descriptors bind the buffer directly; texture descriptors
	// need a view over the texture.
	if !res.isBuffer {
		view, err := e.device.CreateTextureView(res.texture, &hal.TextureViewDescriptor{
			Label: desc.Kind + " view for " + desc.ResName,
		})
		if err != nil {
			return entry, e.deviceError(fmt.Sprintf("create view for %q", desc.ResName), err)
		}
		entry.view = view
	}
	return entry, nil
}

// findDescriptor returns the first descriptor entry bound to the named
// resource across all heaps, or nil.
func (e *Engine) findDescriptor(resName string) *descriptorEntry {
	for _, hd := range e.heaps {
		for i := range hd.entries {
			if hd.entries[i].spec.ResName == resName {
				return &hd.entries[i]
			}
		}
	}
	return nil
}

func (e *Engine) destroyHeaps() {
	if e.device == nil {
		return
	}
	for name, hd := range e.heaps {
		for _, entry := range hd.entries {
			if entry.view != nil {
				e.device.DestroyTextureView(entry.view)
			}
		}
		delete(e.heaps, name)
	}
}
