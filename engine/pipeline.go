package engine

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/shaderop"
	"github.com/gogpu/shaderop/rootsig"
)

// pipelineState holds everything CreatePipelineState produces: shader
// modules, one bind group layout and bind group per root value, the
// pipeline layout, and either a compute or a render pipeline. Layouts and
// groups are indexed by resolved root slot, not declaration order.
type pipelineState struct {
	modules   []hal.ShaderModule
	slots     []uint32
	bgLayouts []hal.BindGroupLayout
	layout    hal.PipelineLayout
	compute   hal.ComputePipeline
	render    hal.RenderPipeline
	groups    []hal.BindGroup
}

// rootValueSlots resolves each root value's bind group slot. Explicit
// indices may permute the declared order but must cover 0..n-1 exactly
// once; a sparse assignment has no representable pipeline layout.
func rootValueSlots(values []shaderop.ShaderOpRootValue) ([]uint32, error) {
	slots := make([]uint32, len(values))
	owner := make(map[uint32]int, len(values))
	for i := range values {
		slot := values[i].EffectiveIndex(i)
		if slot >= uint32(len(values)) {
			return nil, fmt.Errorf("%w: root value %d binds slot %d past the last slot %d",
				shaderop.ErrInvalidArgument, i, slot, len(values)-1)
		}
		if prev, dup := owner[slot]; dup {
			return nil, fmt.Errorf("%w: root values %d and %d both bind slot %d",
				shaderop.ErrInvalidArgument, prev, i, slot)
		}
		owner[slot] = i
		slots[i] = slot
	}
	return slots, nil
}

// CreatePipelineState parses the root signature, compiles the declared
// shaders, and builds the pipeline. Each root value becomes one bind
// group; its layout is derived from the bound resource's transition
// state (constant-buffer states bind uniform, unordered-access binds
// writable storage, everything else binds read-only).
func (e *Engine) CreatePipelineState() error {
	if err := e.requireState(StateDescriptorsReady); err != nil {
		return err
	}
	if strings.TrimSpace(e.op.RootSignature) == "" {
		return fmt.Errorf("%w: shader op %q has no root signature", shaderop.ErrInvalidArgument, e.op.Name)
	}
	sig, err := rootsig.Parse(e.op.RootSignature)
	if err != nil {
		return err
	}
	e.sig = sig

	slots, err := rootValueSlots(e.op.RootValues)
	if err != nil {
		return err
	}
	e.pipeline.slots = slots

	if err := e.compileShaders(); err != nil {
		return err
	}

	visibility := gputypes.ShaderStageVertex | gputypes.ShaderStageFragment
	if e.op.IsCompute() {
		visibility = gputypes.ShaderStageCompute
	}
	if err := e.createBindGroupLayouts(visibility); err != nil {
		return err
	}

	layout, err := e.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            e.op.Name + " layout",
		BindGroupLayouts: e.pipeline.bgLayouts,
	})
	if err != nil {
		return e.deviceError("create pipeline layout", err)
	}
	e.pipeline.layout = layout

	if e.op.IsCompute() {
		err = e.createComputePipeline()
	} else {
		err = e.createRenderPipeline()
	}
	if err != nil {
		return err
	}

	if err := e.createBindGroups(); err != nil {
		return err
	}
	e.state = StatePipelineReady
	return nil
}

func (e *Engine) compileShaders() error {
	for i := range e.op.Shaders {
		s := &e.op.Shaders[i]
		if _, done := e.compiled[s.Name]; done {
			continue
		}
		spv := s.Compiled
		if len(spv) == 0 {
			var err error
			spv, err = e.compiler.Compile(s.Name, s.EntryPoint, s.Target, s.Text)
			if err != nil {
				return err
			}
		}
		e.compiled[s.Name] = spv
		e.log.Debug("shader compiled", "name", s.Name, "target", s.Target, "spirv_bytes", len(spv))
	}
	return nil
}

func (e *Engine) shaderModule(name string) (hal.ShaderModule, error) {
	sh := e.op.GetShaderByName(name)
	if sh == nil {
		return nil, fmt.Errorf("%w: shader %q is not declared", shaderop.ErrInvalidArgument, name)
	}
	spv, ok := e.compiled[name]
	if !ok {
		return nil, fmt.Errorf("%w: shader %q was not compiled", shaderop.ErrInvalidArgument, name)
	}
	words, err := spirvWords(spv)
	if err != nil {
		return nil, err
	}
	mod, err := e.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  name,
		Source: hal.ShaderSource{SPIRV: words},
	})
	if err != nil {
		return nil, e.deviceError(fmt.Sprintf("create shader module %q", name), err)
	}
	e.pipeline.modules = append(e.pipeline.modules, mod)
	return mod, nil
}

func (e *Engine) createBindGroupLayouts(visibility gputypes.ShaderStage) error {
	e.pipeline.bgLayouts = make([]hal.BindGroupLayout, len(e.op.RootValues))
	for i := range e.op.RootValues {
		rv := &e.op.RootValues[i]
		slot := e.pipeline.slots[i]
		var entries []gputypes.BindGroupLayoutEntry
		var err error
		if rv.HeapName != "" {
			entries, err = e.heapLayoutEntries(rv.HeapName, visibility)
		} else {
			entries, err = e.rootLayoutEntry(rv.ResName, visibility)
		}
		if err != nil {
			return err
		}
		bgl, err := e.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("%s group %d", e.op.Name, slot),
			Entries: entries,
		})
		if err != nil {
			return e.deviceError(fmt.Sprintf("create bind group layout %d", slot), err)
		}
		e.pipeline.bgLayouts[slot] = bgl
	}
	return nil
}

// rootLayoutEntry builds the single-entry layout for a root value that
// binds a resource directly at the root.
func (e *Engine) rootLayoutEntry(resName string, visibility gputypes.ShaderStage) ([]gputypes.BindGroupLayoutEntry, error) {
	res, ok := e.resources[resName]
	if !ok {
		return nil, fmt.Errorf("%w: root value references missing resource %q",
			shaderop.ErrInvalidArgument, resName)
	}
	if !res.isBuffer {
		return nil, fmt.Errorf("%w: root value resource %q must be a buffer",
			shaderop.ErrInvalidArgument, resName)
	}
	return []gputypes.BindGroupLayoutEntry{{
		Binding:    0,
		Visibility: visibility,
		Buffer:     &gputypes.BufferBindingLayout{Type: bufferBindingType(res.spec)},
	}}, nil
}

func (e *Engine) heapLayoutEntries(heapName string, visibility gputypes.ShaderStage) ([]gputypes.BindGroupLayoutEntry, error) {
	hd, ok := e.heaps[heapName]
	if !ok {
		return nil, fmt.Errorf("%w: root value references missing descriptor heap %q",
			shaderop.ErrInvalidArgument, heapName)
	}
	entries := make([]gputypes.BindGroupLayoutEntry, 0, len(hd.entries))
	for j := range hd.entries {
		de := &hd.entries[j]
		entry := gputypes.BindGroupLayoutEntry{
			Binding:    uint32(j),
			Visibility: visibility,
		}
		switch {
		case de.spec.Kind == "CBV":
			entry.Buffer = &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}
		case de.res.isBuffer && de.spec.Kind == "UAV":
			entry.Buffer = &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}
		case de.res.isBuffer:
			entry.Buffer = &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}
		case de.spec.Kind == "UAV":
			entry.StorageTexture = &gputypes.StorageTextureBindingLayout{
				Access:        gputypes.StorageTextureAccessReadWrite,
				Format:        de.res.texFormat,
				ViewDimension: gputypes.TextureViewDimension2D,
			}
		default:
			entry.Texture = &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// bufferBindingType picks the buffer binding flavor from the state a
// resource transitions to for shader access.
func bufferBindingType(r *shaderop.ShaderOpResource) gputypes.BufferBindingType {
	switch {
	case r.TransitionTo&shaderop.ResourceStateVertexAndConstantBuffer != 0:
		return gputypes.BufferBindingTypeUniform
	case r.TransitionTo&shaderop.ResourceStateUnorderedAccess != 0:
		return gputypes.BufferBindingTypeStorage
	default:
		return gputypes.BufferBindingTypeReadOnlyStorage
	}
}

func (e *Engine) createBindGroups() error {
	e.pipeline.groups = make([]hal.BindGroup, len(e.op.RootValues))
	for i := range e.op.RootValues {
		rv := &e.op.RootValues[i]
		slot := e.pipeline.slots[i]
		var entries []gputypes.BindGroupEntry
		if rv.HeapName != "" {
			hd := e.heaps[rv.HeapName]
			for j := range hd.entries {
				entries = append(entries, bindGroupEntry(uint32(j), &hd.entries[j]))
			}
		} else {
			res := e.resources[rv.ResName]
			entries = append(entries, gputypes.BindGroupEntry{
				Binding: 0,
				Resource: gputypes.BufferBinding{
					Buffer: res.buffer.NativeHandle(),
					Offset: 0,
					Size:   res.byteSize,
				},
			})
		}
		bg, err := e.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:   fmt.Sprintf("%s group %d", e.op.Name, slot),
			Layout:  e.pipeline.bgLayouts[slot],
			Entries: entries,
		})
		if err != nil {
			return e.deviceError(fmt.Sprintf("create bind group %d", slot), err)
		}
		e.pipeline.groups[slot] = bg
	}
	return nil
}

func bindGroupEntry(binding uint32, de *descriptorEntry) gputypes.BindGroupEntry {
	entry := gputypes.BindGroupEntry{Binding: binding}
	if de.res.isBuffer {
		entry.Resource = gputypes.BufferBinding{
			Buffer: de.res.buffer.NativeHandle(),
			Offset: 0,
			Size:   de.res.byteSize,
		}
	} else {
		entry.Resource = gputypes.TextureViewBinding{
			TextureView: de.view.NativeHandle(),
		}
	}
	return entry
}

func (e *Engine) createComputePipeline() error {
	mod, err := e.shaderModule(e.op.CS)
	if err != nil {
		return err
	}
	sh := e.op.GetShaderByName(e.op.CS)
	pipe, err := e.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   e.op.Name,
		Layout:  e.pipeline.layout,
		Compute: hal.ComputeState{Module: mod, EntryPoint: sh.EntryPoint},
	})
	if err != nil {
		return e.deviceError("create compute pipeline", err)
	}
	e.pipeline.compute = pipe
	return nil
}

func (e *Engine) createRenderPipeline() error {
	if e.op.VS == "" || e.op.PS == "" {
		return fmt.Errorf("%w: graphics shader op %q needs both VS and PS",
			shaderop.ErrInvalidArgument, e.op.Name)
	}
	vsMod, err := e.shaderModule(e.op.VS)
	if err != nil {
		return err
	}
	psMod, err := e.shaderModule(e.op.PS)
	if err != nil {
		return err
	}
	vs := e.op.GetShaderByName(e.op.VS)
	ps := e.op.GetShaderByName(e.op.PS)

	vbuffers, err := e.vertexBufferLayout()
	if err != nil {
		return err
	}
	targets, err := e.colorTargets()
	if err != nil {
		return err
	}

	pipe, err := e.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  e.op.Name,
		Layout: e.pipeline.layout,
		Vertex: hal.VertexState{
			Module:     vsMod,
			EntryPoint: vs.EntryPoint,
			Buffers:    vbuffers,
		},
		Fragment: &hal.FragmentState{
			Module:     psMod,
			EntryPoint: ps.EntryPoint,
			Targets:    targets,
		},
		Primitive: gputypes.PrimitiveState{
			Topology: e.op.PrimitiveTopology,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  uint64(e.op.SampleMask),
		},
	})
	if err != nil {
		return e.deviceError("create render pipeline", err)
	}
	e.pipeline.render = pipe
	return nil
}

// vertexBufferLayout flattens the declared input elements into a single
// interleaved vertex buffer layout. An append-aligned offset continues
// from the end of the previous element.
func (e *Engine) vertexBufferLayout() ([]gputypes.VertexBufferLayout, error) {
	if len(e.op.InputElements) == 0 {
		return nil, nil
	}
	var attrs []gputypes.VertexAttribute
	var offset uint32
	for i := range e.op.InputElements {
		el := &e.op.InputElements[i]
		format, size, err := mapVertexFormat(el.Format)
		if err != nil {
			return nil, fmt.Errorf("input element %q: %w", el.SemanticName, err)
		}
		if el.AlignedByteOffset != shaderop.AlignedByteOffsetAppend {
			offset = el.AlignedByteOffset
		}
		attrs = append(attrs, gputypes.VertexAttribute{
			Format:         format,
			Offset:         uint64(offset),
			ShaderLocation: uint32(i),
		})
		offset += size
	}
	return []gputypes.VertexBufferLayout{{
		ArrayStride: uint64(offset),
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes:  attrs,
	}}, nil
}

func (e *Engine) colorTargets() ([]gputypes.ColorTargetState, error) {
	targets := make([]gputypes.ColorTargetState, 0, len(e.op.RenderTargets))
	for _, name := range e.op.RenderTargets {
		res, ok := e.resources[name]
		if !ok {
			return nil, fmt.Errorf("%w: render target %q is not a declared resource",
				shaderop.ErrInvalidArgument, name)
		}
		if res.isBuffer {
			return nil, fmt.Errorf("%w: render target %q must be a texture",
				shaderop.ErrInvalidArgument, name)
		}
		targets = append(targets, gputypes.ColorTargetState{
			Format:    res.texFormat,
			WriteMask: gputypes.ColorWriteMaskAll,
		})
	}
	return targets, nil
}

func (e *Engine) destroyPipeline() {
	if e.device == nil {
		return
	}
	for _, bg := range e.pipeline.groups {
		if bg != nil {
			e.device.DestroyBindGroup(bg)
		}
	}
	if e.pipeline.compute != nil {
		e.device.DestroyComputePipeline(e.pipeline.compute)
	}
	if e.pipeline.render != nil {
		e.device.DestroyRenderPipeline(e.pipeline.render)
	}
	if e.pipeline.layout != nil {
		e.device.DestroyPipelineLayout(e.pipeline.layout)
	}
	for _, bgl := range e.pipeline.bgLayouts {
		if bgl != nil {
			e.device.DestroyBindGroupLayout(bgl)
		}
	}
	for _, mod := range e.pipeline.modules {
		e.device.DestroyShaderModule(mod)
	}
	e.pipeline = pipelineState{}
}
