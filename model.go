package shaderop

import (
	"strings"

	"github.com/gogpu/gputypes"
)

// SampleDesc is the multisample count/quality pair of a resource.
type SampleDesc struct {
	Count   uint32
	Quality uint32
}

// HeapProperties describes the memory heap a resource is committed to.
type HeapProperties struct {
	Type                 HeapType
	CPUPageProperty      CPUPageProperty
	MemoryPoolPreference MemoryPool
	CreationNodeMask     uint32
	VisibleNodeMask      uint32
}

// ResourceDesc is the shape of one GPU allocation.
type ResourceDesc struct {
	Dimension        ResourceDimension
	Alignment        uint64
	Width            uint64
	Height           uint32
	DepthOrArraySize uint16
	MipLevels        uint16
	Format           Format
	SampleDesc       SampleDesc
	Layout           TextureLayout
	Flags            ResourceFlags
}

// InitKind is the initialization policy of a resource.
type InitKind int

const (
	// InitNone leaves the resource contents undefined.
	InitNone InitKind = iota
	// InitZero fills the resource with zero bytes.
	InitZero
	// InitByName invokes the caller-supplied init callback with the
	// resource name and a mutable byte buffer.
	InitByName
	// InitFromBytes uses the float literals parsed from the element body.
	InitFromBytes
)

// ParseInitKind resolves an Init attribute value. Absent ("") and an
// explicit "none" both mean none.
func ParseInitKind(s string) (InitKind, bool) {
	switch {
	case s == "" || strings.EqualFold(s, "none"):
		return InitNone, true
	case strings.EqualFold(s, "zero"):
		return InitZero, true
	case strings.EqualFold(s, "byname"):
		return InitByName, true
	case strings.EqualFold(s, "frombytes"):
		return InitFromBytes, true
	}
	return InitNone, false
}

// ShaderOpResource describes one GPU allocation: its shape, heap, initial
// and target states, and initialization policy.
//
// Buffers are normalized at parse time: Height, DepthOrArraySize, and
// MipLevels are 1, Format is UNKNOWN, SampleDesc is {1,0}, and Layout is
// ROW_MAJOR regardless of supplied attributes.
type ShaderOpResource struct {
	Name                 string
	Init                 InitKind
	ReadBack             bool
	HeapProperties       HeapProperties
	HeapFlags            HeapFlags
	Desc                 ResourceDesc
	InitialResourceState ResourceState
	TransitionTo         ResourceState
	// InitBytes is the literal initializer payload (InitFromBytes), four
	// little-endian float32 bytes per parsed token.
	InitBytes []byte
}

// ShaderOpDescriptor is one typed view within a descriptor heap. Kind is
// one of "UAV", "SRV", "RTV", "CBV" (canonicalized at parse time). The UAV
// view description is decoded once at parse time into UAVDesc.
type ShaderOpDescriptor struct {
	Name        string
	ResName     string
	CounterName string
	Kind        string
	UAVDesc     UAVViewDesc
}

// ShaderOpDescriptorHeap is a named heap of descriptors. NumDescriptors
// defaults to the number of declared descriptors when zero.
type ShaderOpDescriptorHeap struct {
	Name           string
	Flags          DescriptorHeapFlags
	NodeMask       uint32
	NumDescriptors uint32
	Type           DescriptorHeapType
	Descriptors    []ShaderOpDescriptor
}

// GetDescriptorByResName returns the first descriptor bound to the named
// resource, or nil.
func (h *ShaderOpDescriptorHeap) GetDescriptorByResName(name string) *ShaderOpDescriptor {
	for i := range h.Descriptors {
		if h.Descriptors[i].ResName == name {
			return &h.Descriptors[i]
		}
	}
	return nil
}

// ShaderOpRootValue binds a root-signature slot to either a resource
// (direct view) or a descriptor heap (table). Exactly one of ResName and
// HeapName is set. An Index of zero means the value's positional order.
type ShaderOpRootValue struct {
	ResName  string
	HeapName string
	Index    uint32
}

// EffectiveIndex resolves the root parameter slot for a value at position
// pos in the declared order.
func (v *ShaderOpRootValue) EffectiveIndex(pos int) uint32 {
	if v.Index == 0 {
		return uint32(pos)
	}
	return v.Index
}

// ShaderOpShader is one shader stage: a name, an entry point (default
// "main"), a target profile string such as "cs_6_0", and the source text,
// carried either in the element body or a Text attribute.
type ShaderOpShader struct {
	Name       string
	EntryPoint string
	Target     string
	Text       string
	// Compiled, when non-empty, is a precompiled SPIR-V binary supplied
	// programmatically. The engine uses it as-is and skips compilation.
	Compiled []byte
}

// InputElementDesc is one element of the vertex input layout.
// AlignedByteOffsetAppend as the offset means append-aligned placement.
type InputElementDesc struct {
	SemanticName         string
	SemanticIndex        uint32
	Format               Format
	InputSlot            uint32
	AlignedByteOffset    uint32
	InputSlotClass       InputClassification
	InstanceDataStepRate uint32
}

// AlignedByteOffsetAppend is the sentinel offset requesting append-aligned
// element placement.
const AlignedByteOffsetAppend uint32 = 0xffffffff

// ShaderOp is one declarative test scenario: resources, descriptor heaps,
// root-value bindings, shaders, and execution parameters. It is built once
// by the parser (or programmatically) and is logically immutable while an
// engine runs it; all mutable runtime state lives in the engine.
type ShaderOp struct {
	Name    string
	CS      string
	VS      string
	PS      string
	Strings *StringTable

	DispatchX uint32
	DispatchY uint32
	DispatchZ uint32

	// UseSoftwareAdapter requests the CPU/emulated adapter rather than
	// enumerated hardware. AdapterName, when set, is matched
	// case-insensitively as a substring against hardware adapter names.
	UseSoftwareAdapter bool
	AdapterName        string

	PrimitiveTopology gputypes.PrimitiveTopology
	SampleMask        uint32

	InputElements   []InputElementDesc
	Shaders         []ShaderOpShader
	RootSignature   string
	RenderTargets   []string
	Resources       []ShaderOpResource
	DescriptorHeaps []ShaderOpDescriptorHeap
	RootValues      []ShaderOpRootValue
}

// NewShaderOp returns an op with an empty intern table and the documented
// defaults: dispatch 1x1x1, triangle-list topology, all-ones sample mask.
func NewShaderOp() *ShaderOp {
	return &ShaderOp{
		Strings:           NewStringTable(),
		DispatchX:         1,
		DispatchY:         1,
		DispatchZ:         1,
		PrimitiveTopology: gputypes.PrimitiveTopologyTriangleList,
		SampleMask:        0xffffffff,
	}
}

// IsCompute reports whether the op runs the compute pipeline. A compute
// shader takes precedence: when both CS and VS/PS are set, the op runs as
// compute.
func (op *ShaderOp) IsCompute() bool {
	return op.CS != ""
}

// GetResourceByName returns the declared resource with the given name,
// or nil.
func (op *ShaderOp) GetResourceByName(name string) *ShaderOpResource {
	for i := range op.Resources {
		if op.Resources[i].Name == name {
			return &op.Resources[i]
		}
	}
	return nil
}

// GetDescriptorHeapByName returns the declared heap with the given name,
// or nil.
func (op *ShaderOp) GetDescriptorHeapByName(name string) *ShaderOpDescriptorHeap {
	for i := range op.DescriptorHeaps {
		if op.DescriptorHeaps[i].Name == name {
			return &op.DescriptorHeaps[i]
		}
	}
	return nil
}

// GetShaderByName returns the declared shader with the given name, or nil.
func (op *ShaderOp) GetShaderByName(name string) *ShaderOpShader {
	for i := range op.Shaders {
		if op.Shaders[i].Name == name {
			return &op.Shaders[i]
		}
	}
	return nil
}

// GetShaderText returns the source text of a shader stage.
func (op *ShaderOp) GetShaderText(s *ShaderOpShader) string {
	return s.Text
}

// ShaderOpSet is the root unit of a parsed document: one or more ops.
type ShaderOpSet struct {
	ShaderOps []*ShaderOp
}

// GetShaderOp looks up an op by name, case-insensitively. Returns nil when
// no op matches.
func (s *ShaderOpSet) GetShaderOp(name string) *ShaderOp {
	for _, op := range s.ShaderOps {
		if strings.EqualFold(op.Name, name) {
			return op
		}
	}
	return nil
}
