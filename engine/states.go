package engine

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderop"
)

// textureUsage maps a declared resource state to the HAL texture usage used
// for barrier transitions.
func textureUsage(s shaderop.ResourceState) gputypes.TextureUsage {
	switch {
	case s&shaderop.ResourceStateRenderTarget != 0:
		return gputypes.TextureUsageRenderAttachment
	case s&shaderop.ResourceStateUnorderedAccess != 0:
		return gputypes.TextureUsageStorageBinding
	case s&shaderop.ResourceStateCopySource != 0:
		return gputypes.TextureUsageCopySrc
	case s&shaderop.ResourceStateCopyDest != 0:
		return gputypes.TextureUsageCopyDst
	case s&(shaderop.ResourceStateNonPixelShaderResource|
		shaderop.ResourceStatePixelShaderResource|
		shaderop.ResourceStateGenericRead) != 0:
		return gputypes.TextureUsageTextureBinding
	default:
		// COMMON / PRESENT.
		return gputypes.TextureUsageCopySrc
	}
}

// textureCreationUsage is the union of every usage a resource can reach
// during a run: its declared states plus upload and readback copies.
func textureCreationUsage(r *shaderop.ShaderOpResource) gputypes.TextureUsage {
	u := textureUsage(r.InitialResourceState) | textureUsage(r.TransitionTo)
	u |= gputypes.TextureUsageCopyDst
	if r.ReadBack {
		u |= gputypes.TextureUsageCopySrc
	}
	if r.Desc.Flags&shaderop.ResourceFlagAllowRenderTarget != 0 {
		u |= gputypes.TextureUsageRenderAttachment
	}
	if r.Desc.Flags&shaderop.ResourceFlagAllowUnorderedAccess != 0 {
		u |= gputypes.TextureUsageStorageBinding
	}
	return u
}

// bufferCreationUsage derives a buffer's usage flags from its declared
// states and flags. Upload and readback always require the copy usages.
func bufferCreationUsage(r *shaderop.ShaderOpResource) gputypes.BufferUsage {
	u := gputypes.BufferUsageCopyDst | gputypes.BufferUsageCopySrc
	states := r.InitialResourceState | r.TransitionTo
	if states&shaderop.ResourceStateVertexAndConstantBuffer != 0 {
		u |= gputypes.BufferUsageUniform | gputypes.BufferUsageVertex
	}
	if states&shaderop.ResourceStateUnorderedAccess != 0 ||
		r.Desc.Flags&shaderop.ResourceFlagAllowUnorderedAccess != 0 {
		u |= gputypes.BufferUsageStorage
	}
	if states&(shaderop.ResourceStateNonPixelShaderResource|
		shaderop.ResourceStatePixelShaderResource|
		shaderop.ResourceStateGenericRead) != 0 {
		u |= gputypes.BufferUsageStorage
	}
	if states&shaderop.ResourceStateIndexBuffer != 0 {
		u |= gputypes.BufferUsageIndex
	}
	return u
}

// mapTextureFormat maps the declarative format onto the HAL texture format
// set. Only formats the HAL renders and copies are accepted.
func mapTextureFormat(f shaderop.Format) (gputypes.TextureFormat, error) {
	switch f {
	case shaderop.FormatR8G8B8A8UNorm, shaderop.FormatR8G8B8A8Typeless:
		return gputypes.TextureFormatRGBA8Unorm, nil
	case shaderop.FormatR8G8B8A8UNormSRGB:
		return gputypes.TextureFormatRGBA8UnormSrgb, nil
	case shaderop.FormatB8G8R8A8UNorm, shaderop.FormatB8G8R8A8Typeless:
		return gputypes.TextureFormatBGRA8Unorm, nil
	case shaderop.FormatB8G8R8A8UNormSRGB:
		return gputypes.TextureFormatBGRA8UnormSrgb, nil
	case shaderop.FormatR8UNorm, shaderop.FormatR8Typeless:
		return gputypes.TextureFormatR8Unorm, nil
	case shaderop.FormatR32Float, shaderop.FormatR32Typeless:
		return gputypes.TextureFormatR32Float, nil
	case shaderop.FormatR32G32Float:
		return gputypes.TextureFormatRG32Float, nil
	case shaderop.FormatR32G32B32A32Float:
		return gputypes.TextureFormatRGBA32Float, nil
	default:
		return gputypes.TextureFormatUndefined,
			fmt.Errorf("%w: texture format %s is not supported by the device layer",
				shaderop.ErrInvalidArgument, f)
	}
}

// mapVertexFormat maps an input-element format to the HAL vertex format and
// its byte size.
func mapVertexFormat(f shaderop.Format) (gputypes.VertexFormat, uint32, error) {
	switch f {
	case shaderop.FormatR32Float:
		return gputypes.VertexFormatFloat32, 4, nil
	case shaderop.FormatR32G32Float:
		return gputypes.VertexFormatFloat32x2, 8, nil
	case shaderop.FormatR32G32B32Float:
		return gputypes.VertexFormatFloat32x3, 12, nil
	case shaderop.FormatR32G32B32A32Float:
		return gputypes.VertexFormatFloat32x4, 16, nil
	default:
		return 0, 0, fmt.Errorf("%w: vertex format %s is not supported",
			shaderop.ErrInvalidArgument, f)
	}
}
