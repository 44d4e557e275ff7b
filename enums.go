package shaderop

import (
	"fmt"
	"strings"
)

// ParserEnumKind selects one of the fixed name tables used to resolve
// enum-valued attributes in op descriptions.
type ParserEnumKind int

const (
	EnumInputClassification ParserEnumKind = iota
	EnumFormat
	EnumHeapType
	EnumCPUPageProperty
	EnumMemoryPool
	EnumResourceDimension
	EnumTextureLayout
	EnumResourceFlags
	EnumHeapFlags
	EnumResourceState
	EnumDescriptorHeapType
	EnumDescriptorHeapFlags
	EnumUAVDimension
)

// InputClassification selects per-vertex or per-instance stepping for an
// input layout element.
type InputClassification uint32

const (
	InputPerVertex   InputClassification = 0
	InputPerInstance InputClassification = 1
)

// Format is a texel/element format, using the conventional DXGI numeric
// values so that op descriptions written against that naming resolve
// unchanged.
type Format uint32

const (
	FormatUnknown                Format = 0
	FormatR32G32B32A32Typeless   Format = 1
	FormatR32G32B32A32Float      Format = 2
	FormatR32G32B32A32UInt       Format = 3
	FormatR32G32B32A32SInt       Format = 4
	FormatR32G32B32Typeless      Format = 5
	FormatR32G32B32Float         Format = 6
	FormatR32G32B32UInt          Format = 7
	FormatR32G32B32SInt          Format = 8
	FormatR16G16B16A16Typeless   Format = 9
	FormatR16G16B16A16Float      Format = 10
	FormatR16G16B16A16UNorm      Format = 11
	FormatR16G16B16A16UInt       Format = 12
	FormatR16G16B16A16SNorm      Format = 13
	FormatR16G16B16A16SInt       Format = 14
	FormatR32G32Typeless         Format = 15
	FormatR32G32Float            Format = 16
	FormatR32G32UInt             Format = 17
	FormatR32G32SInt             Format = 18
	FormatR32G8X24Typeless       Format = 19
	FormatD32FloatS8X24UInt      Format = 20
	FormatR32FloatX8X24Typeless  Format = 21
	FormatX32TypelessG8X24UInt   Format = 22
	FormatR10G10B10A2Typeless    Format = 23
	FormatR10G10B10A2UNorm       Format = 24
	FormatR10G10B10A2UInt        Format = 25
	FormatR11G11B10Float         Format = 26
	FormatR8G8B8A8Typeless       Format = 27
	FormatR8G8B8A8UNorm          Format = 28
	FormatR8G8B8A8UNormSRGB      Format = 29
	FormatR8G8B8A8UInt           Format = 30
	FormatR8G8B8A8SNorm          Format = 31
	FormatR8G8B8A8SInt           Format = 32
	FormatR16G16Typeless         Format = 33
	FormatR16G16Float            Format = 34
	FormatR16G16UNorm            Format = 35
	FormatR16G16UInt             Format = 36
	FormatR16G16SNorm            Format = 37
	FormatR16G16SInt             Format = 38
	FormatR32Typeless            Format = 39
	FormatD32Float               Format = 40
	FormatR32Float               Format = 41
	FormatR32UInt                Format = 42
	FormatR32SInt                Format = 43
	FormatR24G8Typeless          Format = 44
	FormatD24UNormS8UInt         Format = 45
	FormatR24UNormX8Typeless     Format = 46
	FormatX24TypelessG8UInt      Format = 47
	FormatR8G8Typeless           Format = 48
	FormatR8G8UNorm              Format = 49
	FormatR8G8UInt               Format = 50
	FormatR8G8SNorm              Format = 51
	FormatR8G8SInt               Format = 52
	FormatR16Typeless            Format = 53
	FormatR16Float               Format = 54
	FormatD16UNorm               Format = 55
	FormatR16UNorm               Format = 56
	FormatR16UInt                Format = 57
	FormatR16SNorm               Format = 58
	FormatR16SInt                Format = 59
	FormatR8Typeless             Format = 60
	FormatR8UNorm                Format = 61
	FormatR8UInt                 Format = 62
	FormatR8SNorm                Format = 63
	FormatR8SInt                 Format = 64
	FormatA8UNorm                Format = 65
	FormatR1UNorm                Format = 66
	FormatR9G9B9E5SharedExp      Format = 67
	FormatR8G8B8G8UNorm          Format = 68
	FormatG8R8G8B8UNorm          Format = 69
	FormatBC1Typeless            Format = 70
	FormatBC1UNorm               Format = 71
	FormatBC1UNormSRGB           Format = 72
	FormatBC2Typeless            Format = 73
	FormatBC2UNorm               Format = 74
	FormatBC2UNormSRGB           Format = 75
	FormatBC3Typeless            Format = 76
	FormatBC3UNorm               Format = 77
	FormatBC3UNormSRGB           Format = 78
	FormatBC4Typeless            Format = 79
	FormatBC4UNorm               Format = 80
	FormatBC4SNorm               Format = 81
	FormatBC5Typeless            Format = 82
	FormatBC5UNorm               Format = 83
	FormatBC5SNorm               Format = 84
	FormatB5G6R5UNorm            Format = 85
	FormatB5G5R5A1UNorm          Format = 86
	FormatB8G8R8A8UNorm          Format = 87
	FormatB8G8R8X8UNorm          Format = 88
	FormatR10G10B10XRBiasA2UNorm Format = 89
	FormatB8G8R8A8Typeless       Format = 90
	FormatB8G8R8A8UNormSRGB      Format = 91
	FormatB8G8R8X8Typeless       Format = 92
	FormatB8G8R8X8UNormSRGB      Format = 93
	FormatBC6HTypeless           Format = 94
	FormatBC6HUF16               Format = 95
	FormatBC6HSF16               Format = 96
	FormatBC7Typeless            Format = 97
	FormatBC7UNorm               Format = 98
	FormatBC7UNormSRGB           Format = 99
	FormatAYUV                   Format = 100
	FormatY410                   Format = 101
	FormatY416                   Format = 102
	FormatNV12                   Format = 103
	FormatP010                   Format = 104
	FormatP016                   Format = 105
	Format420Opaque              Format = 106
	FormatYUY2                   Format = 107
	FormatY210                   Format = 108
	FormatY216                   Format = 109
	FormatNV11                   Format = 110
	FormatAI44                   Format = 111
	FormatIA44                   Format = 112
	FormatP8                     Format = 113
	FormatA8P8                   Format = 114
	FormatB4G4R4A4UNorm          Format = 115
	FormatP208                   Format = 130
	FormatV208                   Format = 131
	FormatV408                   Format = 132
)

// HeapType selects the memory heap a resource is committed to.
type HeapType uint32

const (
	HeapTypeDefault  HeapType = 1
	HeapTypeUpload   HeapType = 2
	HeapTypeReadback HeapType = 3
	HeapTypeCustom   HeapType = 4
)

// CPUPageProperty is the CPU page property for custom heaps.
type CPUPageProperty uint32

const (
	CPUPageUnknown      CPUPageProperty = 0
	CPUPageNotAvailable CPUPageProperty = 1
	CPUPageWriteCombine CPUPageProperty = 2
	CPUPageWriteBack    CPUPageProperty = 3
)

// MemoryPool is the memory pool preference for custom heaps.
type MemoryPool uint32

const (
	MemoryPoolUnknown MemoryPool = 0
	MemoryPoolL0      MemoryPool = 1
	MemoryPoolL1      MemoryPool = 2
)

// ResourceDimension is the shape class of a resource.
type ResourceDimension uint32

const (
	ResourceDimensionUnknown   ResourceDimension = 0
	ResourceDimensionBuffer    ResourceDimension = 1
	ResourceDimensionTexture1D ResourceDimension = 2
	ResourceDimensionTexture2D ResourceDimension = 3
	ResourceDimensionTexture3D ResourceDimension = 4
)

// TextureLayout is the texel memory layout of a texture resource.
type TextureLayout uint32

const (
	TextureLayoutUnknown          TextureLayout = 0
	TextureLayoutRowMajor         TextureLayout = 1
	TextureLayoutUndefinedSwizzle TextureLayout = 2
	TextureLayoutStandardSwizzle  TextureLayout = 3
)

// ResourceFlags are resource creation flags (bit set).
type ResourceFlags uint32

const (
	ResourceFlagNone                    ResourceFlags = 0
	ResourceFlagAllowRenderTarget       ResourceFlags = 0x1
	ResourceFlagAllowDepthStencil       ResourceFlags = 0x2
	ResourceFlagAllowUnorderedAccess    ResourceFlags = 0x4
	ResourceFlagDenyShaderResource      ResourceFlags = 0x8
	ResourceFlagAllowCrossAdapter       ResourceFlags = 0x10
	ResourceFlagAllowSimultaneousAccess ResourceFlags = 0x20
)

// HeapFlags are heap creation flags (bit set).
type HeapFlags uint32

const (
	HeapFlagNone                       HeapFlags = 0
	HeapFlagShared                     HeapFlags = 0x1
	HeapFlagDenyBuffers                HeapFlags = 0x4
	HeapFlagAllowDisplay               HeapFlags = 0x8
	HeapFlagSharedCrossAdapter         HeapFlags = 0x20
	HeapFlagDenyRTDSTextures           HeapFlags = 0x40
	HeapFlagDenyNonRTDSTextures        HeapFlags = 0x80
	HeapFlagAllowAllBuffersAndTextures HeapFlags = 0
	HeapFlagAllowOnlyBuffers           HeapFlags = 0xc0
	HeapFlagAllowOnlyNonRTDSTextures   HeapFlags = 0x44
	HeapFlagAllowOnlyRTDSTextures      HeapFlags = 0x84
)

// ResourceState is a resource usage state (bit set). States drive both
// barrier recording and the root-value binding-kind selection.
type ResourceState uint32

const (
	ResourceStateCommon                  ResourceState = 0
	ResourceStateVertexAndConstantBuffer ResourceState = 0x1
	ResourceStateIndexBuffer             ResourceState = 0x2
	ResourceStateRenderTarget            ResourceState = 0x4
	ResourceStateUnorderedAccess         ResourceState = 0x8
	ResourceStateDepthWrite              ResourceState = 0x10
	ResourceStateDepthRead               ResourceState = 0x20
	ResourceStateNonPixelShaderResource  ResourceState = 0x40
	ResourceStatePixelShaderResource     ResourceState = 0x80
	ResourceStateStreamOut               ResourceState = 0x100
	ResourceStateIndirectArgument        ResourceState = 0x200
	ResourceStateCopyDest                ResourceState = 0x400
	ResourceStateCopySource              ResourceState = 0x800
	ResourceStateResolveDest             ResourceState = 0x1000
	ResourceStateResolveSource           ResourceState = 0x2000
	ResourceStateGenericRead             ResourceState = 0xac3
	ResourceStatePresent                 ResourceState = 0
	ResourceStatePredication             ResourceState = 0x200
)

// DescriptorHeapType is the class of views a descriptor heap holds.
type DescriptorHeapType uint32

const (
	DescriptorHeapCBVSRVUAV DescriptorHeapType = 0
	DescriptorHeapSampler   DescriptorHeapType = 1
	DescriptorHeapRTV       DescriptorHeapType = 2
	DescriptorHeapDSV       DescriptorHeapType = 3
)

// DescriptorHeapFlags are descriptor heap creation flags.
type DescriptorHeapFlags uint32

const (
	DescriptorHeapFlagNone          DescriptorHeapFlags = 0
	DescriptorHeapFlagShaderVisible DescriptorHeapFlags = 1
)

// UAVDimension is the view dimension of an unordered-access descriptor.
type UAVDimension uint32

const (
	UAVDimensionUnknown        UAVDimension = 0
	UAVDimensionBuffer         UAVDimension = 1
	UAVDimensionTexture1D      UAVDimension = 2
	UAVDimensionTexture1DArray UAVDimension = 3
	UAVDimensionTexture2D      UAVDimension = 4
	UAVDimensionTexture2DArray UAVDimension = 5
	UAVDimensionTexture3D      UAVDimension = 8
)

type enumEntry struct {
	name  string
	value uint32
}

var inputClassificationTable = []enumEntry{
	{"INSTANCE", uint32(InputPerInstance)},
	{"VERTEX", uint32(InputPerVertex)},
}

var formatTable = []enumEntry{
	{"UNKNOWN", uint32(FormatUnknown)},
	{"R32G32B32A32_TYPELESS", uint32(FormatR32G32B32A32Typeless)},
	{"R32G32B32A32_FLOAT", uint32(FormatR32G32B32A32Float)},
	{"R32G32B32A32_UINT", uint32(FormatR32G32B32A32UInt)},
	{"R32G32B32A32_SINT", uint32(FormatR32G32B32A32SInt)},
	{"R32G32B32_TYPELESS", uint32(FormatR32G32B32Typeless)},
	{"R32G32B32_FLOAT", uint32(FormatR32G32B32Float)},
	{"R32G32B32_UINT", uint32(FormatR32G32B32UInt)},
	{"R32G32B32_SINT", uint32(FormatR32G32B32SInt)},
	{"R16G16B16A16_TYPELESS", uint32(FormatR16G16B16A16Typeless)},
	{"R16G16B16A16_FLOAT", uint32(FormatR16G16B16A16Float)},
	{"R16G16B16A16_UNORM", uint32(FormatR16G16B16A16UNorm)},
	{"R16G16B16A16_UINT", uint32(FormatR16G16B16A16UInt)},
	{"R16G16B16A16_SNORM", uint32(FormatR16G16B16A16SNorm)},
	{"R16G16B16A16_SINT", uint32(FormatR16G16B16A16SInt)},
	{"R32G32_TYPELESS", uint32(FormatR32G32Typeless)},
	{"R32G32_FLOAT", uint32(FormatR32G32Float)},
	{"R32G32_UINT", uint32(FormatR32G32UInt)},
	{"R32G32_SINT", uint32(FormatR32G32SInt)},
	{"R32G8X24_TYPELESS", uint32(FormatR32G8X24Typeless)},
	{"D32_FLOAT_S8X24_UINT", uint32(FormatD32FloatS8X24UInt)},
	{"R32_FLOAT_X8X24_TYPELESS", uint32(FormatR32FloatX8X24Typeless)},
	{"X32_TYPELESS_G8X24_UINT", uint32(FormatX32TypelessG8X24UInt)},
	{"R10G10B10A2_TYPELESS", uint32(FormatR10G10B10A2Typeless)},
	{"R10G10B10A2_UNORM", uint32(FormatR10G10B10A2UNorm)},
	{"R10G10B10A2_UINT", uint32(FormatR10G10B10A2UInt)},
	{"R11G11B10_FLOAT", uint32(FormatR11G11B10Float)},
	{"R8G8B8A8_TYPELESS", uint32(FormatR8G8B8A8Typeless)},
	{"R8G8B8A8_UNORM", uint32(FormatR8G8B8A8UNorm)},
	{"R8G8B8A8_UNORM_SRGB", uint32(FormatR8G8B8A8UNormSRGB)},
	{"R8G8B8A8_UINT", uint32(FormatR8G8B8A8UInt)},
	{"R8G8B8A8_SNORM", uint32(FormatR8G8B8A8SNorm)},
	{"R8G8B8A8_SINT", uint32(FormatR8G8B8A8SInt)},
	{"R16G16_TYPELESS", uint32(FormatR16G16Typeless)},
	{"R16G16_FLOAT", uint32(FormatR16G16Float)},
	{"R16G16_UNORM", uint32(FormatR16G16UNorm)},
	{"R16G16_UINT", uint32(FormatR16G16UInt)},
	{"R16G16_SNORM", uint32(FormatR16G16SNorm)},
	{"R16G16_SINT", uint32(FormatR16G16SInt)},
	{"R32_TYPELESS", uint32(FormatR32Typeless)},
	{"D32_FLOAT", uint32(FormatD32Float)},
	{"R32_FLOAT", uint32(FormatR32Float)},
	{"R32_UINT", uint32(FormatR32UInt)},
	{"R32_SINT", uint32(FormatR32SInt)},
	{"R24G8_TYPELESS", uint32(FormatR24G8Typeless)},
	{"D24_UNORM_S8_UINT", uint32(FormatD24UNormS8UInt)},
	{"R24_UNORM_X8_TYPELESS", uint32(FormatR24UNormX8Typeless)},
	{"X24_TYPELESS_G8_UINT", uint32(FormatX24TypelessG8UInt)},
	{"R8G8_TYPELESS", uint32(FormatR8G8Typeless)},
	{"R8G8_UNORM", uint32(FormatR8G8UNorm)},
	{"R8G8_UINT", uint32(FormatR8G8UInt)},
	{"R8G8_SNORM", uint32(FormatR8G8SNorm)},
	{"R8G8_SINT", uint32(FormatR8G8SInt)},
	{"R16_TYPELESS", uint32(FormatR16Typeless)},
	{"R16_FLOAT", uint32(FormatR16Float)},
	{"D16_UNORM", uint32(FormatD16UNorm)},
	{"R16_UNORM", uint32(FormatR16UNorm)},
	{"R16_UINT", uint32(FormatR16UInt)},
	{"R16_SNORM", uint32(FormatR16SNorm)},
	{"R16_SINT", uint32(FormatR16SInt)},
	{"R8_TYPELESS", uint32(FormatR8Typeless)},
	{"R8_UNORM", uint32(FormatR8UNorm)},
	{"R8_UINT", uint32(FormatR8UInt)},
	{"R8_SNORM", uint32(FormatR8SNorm)},
	{"R8_SINT", uint32(FormatR8SInt)},
	{"A8_UNORM", uint32(FormatA8UNorm)},
	{"R1_UNORM", uint32(FormatR1UNorm)},
	{"R9G9B9E5_SHAREDEXP", uint32(FormatR9G9B9E5SharedExp)},
	{"R8G8_B8G8_UNORM", uint32(FormatR8G8B8G8UNorm)},
	{"G8R8_G8B8_UNORM", uint32(FormatG8R8G8B8UNorm)},
	{"BC1_TYPELESS", uint32(FormatBC1Typeless)},
	{"BC1_UNORM", uint32(FormatBC1UNorm)},
	{"BC1_UNORM_SRGB", uint32(FormatBC1UNormSRGB)},
	{"BC2_TYPELESS", uint32(FormatBC2Typeless)},
	{"BC2_UNORM", uint32(FormatBC2UNorm)},
	{"BC2_UNORM_SRGB", uint32(FormatBC2UNormSRGB)},
	{"BC3_TYPELESS", uint32(FormatBC3Typeless)},
	{"BC3_UNORM", uint32(FormatBC3UNorm)},
	{"BC3_UNORM_SRGB", uint32(FormatBC3UNormSRGB)},
	{"BC4_TYPELESS", uint32(FormatBC4Typeless)},
	{"BC4_UNORM", uint32(FormatBC4UNorm)},
	{"BC4_SNORM", uint32(FormatBC4SNorm)},
	{"BC5_TYPELESS", uint32(FormatBC5Typeless)},
	{"BC5_UNORM", uint32(FormatBC5UNorm)},
	{"BC5_SNORM", uint32(FormatBC5SNorm)},
	{"B5G6R5_UNORM", uint32(FormatB5G6R5UNorm)},
	{"B5G5R5A1_UNORM", uint32(FormatB5G5R5A1UNorm)},
	{"B8G8R8A8_UNORM", uint32(FormatB8G8R8A8UNorm)},
	{"B8G8R8X8_UNORM", uint32(FormatB8G8R8X8UNorm)},
	{"R10G10B10_XR_BIAS_A2_UNORM", uint32(FormatR10G10B10XRBiasA2UNorm)},
	{"B8G8R8A8_TYPELESS", uint32(FormatB8G8R8A8Typeless)},
	{"B8G8R8A8_UNORM_SRGB", uint32(FormatB8G8R8A8UNormSRGB)},
	{"B8G8R8X8_TYPELESS", uint32(FormatB8G8R8X8Typeless)},
	{"B8G8R8X8_UNORM_SRGB", uint32(FormatB8G8R8X8UNormSRGB)},
	{"BC6H_TYPELESS", uint32(FormatBC6HTypeless)},
	{"BC6H_UF16", uint32(FormatBC6HUF16)},
	{"BC6H_SF16", uint32(FormatBC6HSF16)},
	{"BC7_TYPELESS", uint32(FormatBC7Typeless)},
	{"BC7_UNORM", uint32(FormatBC7UNorm)},
	{"BC7_UNORM_SRGB", uint32(FormatBC7UNormSRGB)},
	{"AYUV", uint32(FormatAYUV)},
	{"Y410", uint32(FormatY410)},
	{"Y416", uint32(FormatY416)},
	{"NV12", uint32(FormatNV12)},
	{"P010", uint32(FormatP010)},
	{"P016", uint32(FormatP016)},
	{"420_OPAQUE", uint32(Format420Opaque)},
	{"YUY2", uint32(FormatYUY2)},
	{"Y210", uint32(FormatY210)},
	{"Y216", uint32(FormatY216)},
	{"NV11", uint32(FormatNV11)},
	{"AI44", uint32(FormatAI44)},
	{"IA44", uint32(FormatIA44)},
	{"P8", uint32(FormatP8)},
	{"A8P8", uint32(FormatA8P8)},
	{"B4G4R4A4_UNORM", uint32(FormatB4G4R4A4UNorm)},
	{"P208", uint32(FormatP208)},
	{"V208", uint32(FormatV208)},
	{"V408", uint32(FormatV408)},
}

var heapTypeTable = []enumEntry{
	{"DEFAULT", uint32(HeapTypeDefault)},
	{"UPLOAD", uint32(HeapTypeUpload)},
	{"READBACK", uint32(HeapTypeReadback)},
	{"CUSTOM", uint32(HeapTypeCustom)},
}

var cpuPagePropertyTable = []enumEntry{
	{"UNKNOWN", uint32(CPUPageUnknown)},
	{"NOT_AVAILABLE", uint32(CPUPageNotAvailable)},
	{"WRITE_COMBINE", uint32(CPUPageWriteCombine)},
	{"WRITE_BACK", uint32(CPUPageWriteBack)},
}

var memoryPoolTable = []enumEntry{
	{"UNKNOWN", uint32(MemoryPoolUnknown)},
	{"L0", uint32(MemoryPoolL0)},
	{"L1", uint32(MemoryPoolL1)},
}

var resourceDimensionTable = []enumEntry{
	{"UNKNOWN", uint32(ResourceDimensionUnknown)},
	{"BUFFER", uint32(ResourceDimensionBuffer)},
	{"TEXTURE1D", uint32(ResourceDimensionTexture1D)},
	{"TEXTURE2D", uint32(ResourceDimensionTexture2D)},
	{"TEXTURE3D", uint32(ResourceDimensionTexture3D)},
}

var textureLayoutTable = []enumEntry{
	{"UNKNOWN", uint32(TextureLayoutUnknown)},
	{"ROW_MAJOR", uint32(TextureLayoutRowMajor)},
	{"UNDEFINED_SWIZZLE", uint32(TextureLayoutUndefinedSwizzle)},
	{"STANDARD_SWIZZLE", uint32(TextureLayoutStandardSwizzle)},
}

var resourceFlagTable = []enumEntry{
	{"NONE", uint32(ResourceFlagNone)},
	{"ALLOW_RENDER_TARGET", uint32(ResourceFlagAllowRenderTarget)},
	{"ALLOW_DEPTH_STENCIL", uint32(ResourceFlagAllowDepthStencil)},
	{"ALLOW_UNORDERED_ACCESS", uint32(ResourceFlagAllowUnorderedAccess)},
	{"DENY_SHADER_RESOURCE", uint32(ResourceFlagDenyShaderResource)},
	{"ALLOW_CROSS_ADAPTER", uint32(ResourceFlagAllowCrossAdapter)},
	{"ALLOW_SIMULTANEOUS_ACCESS", uint32(ResourceFlagAllowSimultaneousAccess)},
}

var heapFlagTable = []enumEntry{
	{"NONE", uint32(HeapFlagNone)},
	{"SHARED", uint32(HeapFlagShared)},
	{"DENY_BUFFERS", uint32(HeapFlagDenyBuffers)},
	{"ALLOW_DISPLAY", uint32(HeapFlagAllowDisplay)},
	{"SHARED_CROSS_ADAPTER", uint32(HeapFlagSharedCrossAdapter)},
	{"DENY_RT_DS_TEXTURES", uint32(HeapFlagDenyRTDSTextures)},
	{"DENY_NON_RT_DS_TEXTURES", uint32(HeapFlagDenyNonRTDSTextures)},
	{"ALLOW_ALL_BUFFERS_AND_TEXTURES", uint32(HeapFlagAllowAllBuffersAndTextures)},
	{"ALLOW_ONLY_BUFFERS", uint32(HeapFlagAllowOnlyBuffers)},
	{"ALLOW_ONLY_NON_RT_DS_TEXTURES", uint32(HeapFlagAllowOnlyNonRTDSTextures)},
	{"ALLOW_ONLY_RT_DS_TEXTURES", uint32(HeapFlagAllowOnlyRTDSTextures)},
}

var resourceStateTable = []enumEntry{
	{"COMMON", uint32(ResourceStateCommon)},
	{"VERTEX_AND_CONSTANT_BUFFER", uint32(ResourceStateVertexAndConstantBuffer)},
	{"INDEX_BUFFER", uint32(ResourceStateIndexBuffer)},
	{"RENDER_TARGET", uint32(ResourceStateRenderTarget)},
	{"UNORDERED_ACCESS", uint32(ResourceStateUnorderedAccess)},
	{"DEPTH_WRITE", uint32(ResourceStateDepthWrite)},
	{"DEPTH_READ", uint32(ResourceStateDepthRead)},
	{"NON_PIXEL_SHADER_RESOURCE", uint32(ResourceStateNonPixelShaderResource)},
	{"PIXEL_SHADER_RESOURCE", uint32(ResourceStatePixelShaderResource)},
	{"STREAM_OUT", uint32(ResourceStateStreamOut)},
	{"INDIRECT_ARGUMENT", uint32(ResourceStateIndirectArgument)},
	{"COPY_DEST", uint32(ResourceStateCopyDest)},
	{"COPY_SOURCE", uint32(ResourceStateCopySource)},
	{"RESOLVE_DEST", uint32(ResourceStateResolveDest)},
	{"RESOLVE_SOURCE", uint32(ResourceStateResolveSource)},
	{"GENERIC_READ", uint32(ResourceStateGenericRead)},
	{"PRESENT", uint32(ResourceStatePresent)},
	{"PREDICATION", uint32(ResourceStatePredication)},
}

var descriptorHeapTypeTable = []enumEntry{
	{"CBV_SRV_UAV", uint32(DescriptorHeapCBVSRVUAV)},
	{"SAMPLER", uint32(DescriptorHeapSampler)},
	{"RTV", uint32(DescriptorHeapRTV)},
	{"DSV", uint32(DescriptorHeapDSV)},
}

var descriptorHeapFlagTable = []enumEntry{
	{"NONE", uint32(DescriptorHeapFlagNone)},
	{"SHADER_VISIBLE", uint32(DescriptorHeapFlagShaderVisible)},
}

var uavDimensionTable = []enumEntry{
	{"UNKNOWN", uint32(UAVDimensionUnknown)},
	{"BUFFER", uint32(UAVDimensionBuffer)},
	{"TEXTURE1D", uint32(UAVDimensionTexture1D)},
	{"TEXTURE1DARRAY", uint32(UAVDimensionTexture1DArray)},
	{"TEXTURE2D", uint32(UAVDimensionTexture2D)},
	{"TEXTURE2DARRAY", uint32(UAVDimensionTexture2DArray)},
	{"TEXTURE3D", uint32(UAVDimensionTexture3D)},
}

var parserEnumTables = map[ParserEnumKind][]enumEntry{
	EnumInputClassification: inputClassificationTable,
	EnumFormat:              formatTable,
	EnumHeapType:            heapTypeTable,
	EnumCPUPageProperty:     cpuPagePropertyTable,
	EnumMemoryPool:          memoryPoolTable,
	EnumResourceDimension:   resourceDimensionTable,
	EnumTextureLayout:       textureLayoutTable,
	EnumResourceFlags:       resourceFlagTable,
	EnumHeapFlags:           heapFlagTable,
	EnumResourceState:       resourceStateTable,
	EnumDescriptorHeapType:  descriptorHeapTypeTable,
	EnumDescriptorHeapFlags: descriptorHeapFlagTable,
	EnumUAVDimension:        uavDimensionTable,
}

// enumPrefix returns the conventional prefix stripped before matching names
// of the given kind. Only formats carry one ("DXGI_FORMAT_R32_FLOAT" and
// "R32_FLOAT" resolve identically).
func enumPrefix(k ParserEnumKind) string {
	if k == EnumFormat {
		return "DXGI_FORMAT_"
	}
	return ""
}

// LookupEnum resolves name against the table for kind. Matching is
// case-insensitive; an optional conventional prefix is stripped first.
// An unmatched name is an invalid-argument error carrying the name.
func LookupEnum(kind ParserEnumKind, name string) (uint32, error) {
	table, ok := parserEnumTables[kind]
	if !ok {
		return 0, fmt.Errorf("%w: unknown enum kind %d", ErrInvalidArgument, kind)
	}
	if p := enumPrefix(kind); p != "" && len(name) > len(p) && strings.EqualFold(name[:len(p)], p) {
		name = name[len(p):]
	}
	for _, e := range table {
		if strings.EqualFold(e.name, name) {
			return e.value, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown enum name %q", ErrInvalidArgument, name)
}

// EnumName returns the canonical name for value within the table for kind,
// or "" when the value has no entry. The first table entry wins for values
// that alias (PRESENT aliases COMMON, PREDICATION aliases INDIRECT_ARGUMENT).
func EnumName(kind ParserEnumKind, value uint32) string {
	for _, e := range parserEnumTables[kind] {
		if e.value == value {
			return e.name
		}
	}
	return ""
}
