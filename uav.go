package shaderop

// UAVBufferFlags are buffer UAV view flags.
type UAVBufferFlags uint32

const (
	UAVBufferFlagNone UAVBufferFlags = 0
	UAVBufferFlagRaw  UAVBufferFlags = 1
)

// UAVViewDesc describes an unordered-access view as a tagged variant over
// the view dimension. Exactly the fields of the active variant are
// meaningful; the parser decodes the dimension-specific attribute set once,
// and descriptor creation switches exhaustively on Dimension.
type UAVViewDesc struct {
	Format    Format
	Dimension UAVDimension

	Buffer         UAVBufferDesc
	Texture1D      UAVTexture1DDesc
	Texture1DArray UAVTexture1DArrayDesc
	Texture2D      UAVTexture2DDesc
	Texture2DArray UAVTexture2DArrayDesc
	Texture3D      UAVTexture3DDesc
}

// UAVBufferDesc is the BUFFER variant.
type UAVBufferDesc struct {
	FirstElement         uint64
	NumElements          uint32
	StructureByteStride  uint32
	CounterOffsetInBytes uint64
	Flags                UAVBufferFlags
}

// UAVTexture1DDesc is the TEXTURE1D variant.
type UAVTexture1DDesc struct {
	MipSlice uint32
}

// UAVTexture1DArrayDesc is the TEXTURE1DARRAY variant.
type UAVTexture1DArrayDesc struct {
	MipSlice        uint32
	FirstArraySlice uint32
	ArraySize       uint32
}

// UAVTexture2DDesc is the TEXTURE2D variant.
type UAVTexture2DDesc struct {
	MipSlice   uint32
	PlaneSlice uint32
}

// UAVTexture2DArrayDesc is the TEXTURE2DARRAY variant.
type UAVTexture2DArrayDesc struct {
	MipSlice        uint32
	FirstArraySlice uint32
	ArraySize       uint32
	PlaneSlice      uint32
}

// UAVTexture3DDesc is the TEXTURE3D variant.
type UAVTexture3DDesc struct {
	MipSlice    uint32
	FirstWSlice uint32
	WSize       uint32
}
