package shaderop

import "fmt"

// FormatByteSize returns the byte width of one element of the given format.
// Block-compressed, video, and palette formats have no per-element byte
// width and report an invalid-argument error.
func FormatByteSize(f Format) (uint32, error) {
	switch f {
	case FormatR32G32B32A32Typeless, FormatR32G32B32A32Float,
		FormatR32G32B32A32UInt, FormatR32G32B32A32SInt:
		return 16, nil
	case FormatR32G32B32Typeless, FormatR32G32B32Float,
		FormatR32G32B32UInt, FormatR32G32B32SInt:
		return 12, nil
	case FormatR16G16B16A16Typeless, FormatR16G16B16A16Float,
		FormatR16G16B16A16UNorm, FormatR16G16B16A16UInt,
		FormatR16G16B16A16SNorm, FormatR16G16B16A16SInt,
		FormatR32G32Typeless, FormatR32G32Float,
		FormatR32G32UInt, FormatR32G32SInt,
		FormatR32G8X24Typeless:
		return 8, nil
	case FormatD32FloatS8X24UInt, FormatR32FloatX8X24Typeless,
		FormatX32TypelessG8X24UInt,
		FormatR10G10B10A2Typeless, FormatR10G10B10A2UNorm,
		FormatR10G10B10A2UInt, FormatR11G11B10Float,
		FormatR8G8B8A8Typeless, FormatR8G8B8A8UNorm,
		FormatR8G8B8A8UNormSRGB, FormatR8G8B8A8UInt,
		FormatR8G8B8A8SNorm, FormatR8G8B8A8SInt,
		FormatR16G16Typeless, FormatR16G16Float, FormatR16G16UNorm,
		FormatR16G16UInt, FormatR16G16SNorm, FormatR16G16SInt,
		FormatR32Typeless, FormatD32Float, FormatR32Float,
		FormatR32UInt, FormatR32SInt,
		FormatR24G8Typeless, FormatD24UNormS8UInt,
		FormatR24UNormX8Typeless, FormatX24TypelessG8UInt:
		return 4, nil
	case FormatR8G8Typeless, FormatR8G8UNorm, FormatR8G8UInt,
		FormatR8G8SNorm, FormatR8G8SInt,
		FormatR16Typeless, FormatR16Float, FormatD16UNorm,
		FormatR16UNorm, FormatR16UInt, FormatR16SNorm, FormatR16SInt:
		return 2, nil
	case FormatR8Typeless, FormatR8UNorm, FormatR8UInt,
		FormatR8SNorm, FormatR8SInt, FormatA8UNorm, FormatR1UNorm:
		return 1, nil
	default:
		return 0, fmt.Errorf("%w: format %s has no per-element byte size",
			ErrInvalidArgument, f)
	}
}

// String returns the canonical format name, or a numeric form for values
// outside the name table.
func (f Format) String() string {
	if n := EnumName(EnumFormat, uint32(f)); n != "" {
		return n
	}
	return fmt.Sprintf("FORMAT(%d)", uint32(f))
}
