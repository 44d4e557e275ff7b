package engine

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/shaderop"
)

// Default names backfilled into a scenario that renders into an
// externally supplied target.
const (
	renderTargetName     = "RTarget"
	renderTargetHeapName = "RtvHeap"
)

// SetupRenderTarget wires an externally owned texture into op as its
// render target. The texture is registered under the name "RTarget"; a
// matching resource declaration, RTV heap, and render-target entry are
// backfilled into op when absent. The engine never destroys the texture.
//
// Use together with WithDevice when the caller owns the swap chain.
func (e *Engine) SetupRenderTarget(op *shaderop.ShaderOp, texture hal.Texture, format gputypes.TextureFormat, width, height uint32) error {
	if err := e.requireState(StateUninitialized); err != nil {
		return err
	}
	if texture == nil || width == 0 || height == 0 {
		return fmt.Errorf("%w: render target needs a texture and nonzero extent", shaderop.ErrInvalidArgument)
	}
	declFormat, elem := declaredFormat(format)

	if op.GetResourceByName(renderTargetName) == nil {
		op.Resources = append(op.Resources, shaderop.ShaderOpResource{
			Name: renderTargetName,
			Init: shaderop.InitNone,
			Desc: shaderop.ResourceDesc{
				Dimension: shaderop.ResourceDimensionTexture2D,
				Width:     uint64(width),
				Height:    height,
				MipLevels: 1,
				Format:    declFormat,
				SampleDesc: shaderop.SampleDesc{
					Count: 1,
				},
				Flags: shaderop.ResourceFlagAllowRenderTarget,
			},
			InitialResourceState: shaderop.ResourceStateRenderTarget,
			TransitionTo:         shaderop.ResourceStateRenderTarget,
		})
	}
	if len(op.RenderTargets) == 0 {
		op.RenderTargets = append(op.RenderTargets, renderTargetName)
	}
	if op.GetDescriptorHeapByName(renderTargetHeapName) == nil {
		op.DescriptorHeaps = append(op.DescriptorHeaps, shaderop.ShaderOpDescriptorHeap{
			Name:  renderTargetHeapName,
			Type:  shaderop.DescriptorHeapRTV,
			Flags: shaderop.DescriptorHeapFlagNone,
			Descriptors: []shaderop.ShaderOpDescriptor{{
				Name:    renderTargetName,
				ResName: renderTargetName,
				Kind:    "RTV",
			}},
		})
	}

	spec := op.GetResourceByName(renderTargetName)
	e.resources[renderTargetName] = &resourceData{
		spec:      spec,
		texture:   texture,
		state:     shaderop.ResourceStateRenderTarget,
		byteSize:  uint64(width) * uint64(height) * uint64(elem),
		texFormat: format,
		rowPitch:  (width*elem + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1),
		external:  true,
	}
	return nil
}

// PresentRenderTarget transitions the external render target out of
// attachment usage so the caller can copy or present it, and waits for
// the transition to complete.
func (e *Engine) PresentRenderTarget() error {
	if e.state != StateExecuted && e.state != StateReadBackComplete {
		return fmt.Errorf("%w: in %s, want %s or %s",
			ErrState, e.state, StateExecuted, StateReadBackComplete)
	}
	d, ok := e.resources[renderTargetName]
	if !ok || d.texture == nil {
		return fmt.Errorf("%w: no render target registered", shaderop.ErrNotFound)
	}
	usage := textureUsage(d.state)
	if usage == gputypes.TextureUsageCopySrc {
		return nil
	}
	encoder, err := e.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "shaderop_present"})
	if err != nil {
		return e.deviceError("create present encoder", err)
	}
	if err := encoder.BeginEncoding("shaderop_present"); err != nil {
		return e.deviceError("begin present encoding", err)
	}
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: d.texture,
		Usage: hal.TextureUsageTransition{
			OldUsage: usage,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return e.deviceError("end present encoding", err)
	}
	if err := e.submitAndWait(cmdBuf); err != nil {
		return err
	}
	d.state = shaderop.ResourceStateCopySource
	return nil
}

// declaredFormat maps a HAL texture format back to the declared format
// dialect for the backfilled resource record.
func declaredFormat(f gputypes.TextureFormat) (shaderop.Format, uint32) {
	switch f {
	case gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb:
		return shaderop.FormatB8G8R8A8UNorm, 4
	case gputypes.TextureFormatR8Unorm:
		return shaderop.FormatR8UNorm, 1
	case gputypes.TextureFormatR32Float:
		return shaderop.FormatR32Float, 4
	case gputypes.TextureFormatRG32Float:
		return shaderop.FormatR32G32Float, 8
	case gputypes.TextureFormatRGBA32Float:
		return shaderop.FormatR32G32B32A32Float, 16
	default:
		return shaderop.FormatR8G8B8A8UNorm, 4
	}
}
