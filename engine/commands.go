package engine

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/shaderop"
)

// renderClearColor is the background every render target is cleared to
// before the draw.
var renderClearColor = gputypes.Color{R: 0, G: 0.2, B: 0.4, A: 1}

// vertexBufferName is the resource a graphics scenario supplies its
// vertices in.
const vertexBufferName = "VBuffer"

// CreateCommandList allocates the command encoder the run phase records
// into.
func (e *Engine) CreateCommandList() error {
	if err := e.requireState(StatePipelineReady); err != nil {
		return err
	}
	label := "shaderop_graphics"
	if e.op.IsCompute() {
		label = "shaderop_compute"
	}
	encoder, err := e.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return e.deviceError("create command encoder", err)
	}
	e.encoder = encoder
	e.state = StateCommandListReady
	return nil
}

// RunCommandList records the dispatch or draw, submits it, and blocks
// until it completes. Compute scenarios run one dispatch with the declared
// thread-group counts; graphics scenarios clear every render target and
// draw the whole vertex buffer as a non-indexed triangle list.
func (e *Engine) RunCommandList() error {
	if err := e.requireState(StateCommandListReady); err != nil {
		return err
	}
	if err := e.encoder.BeginEncoding(e.op.Name); err != nil {
		return e.deviceError("begin encoding", err)
	}
	var err error
	if e.op.IsCompute() {
		err = e.recordCompute()
	} else {
		err = e.recordGraphics()
	}
	if err != nil {
		e.encoder.DiscardEncoding()
		return err
	}
	cmdBuf, err := e.encoder.EndEncoding()
	if err != nil {
		return e.deviceError("end encoding", err)
	}
	if err := e.submitAndWait(cmdBuf); err != nil {
		return err
	}
	e.state = StateExecuted
	return nil
}

func (e *Engine) recordCompute() error {
	pass := e.encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: e.op.Name})
	pass.SetPipeline(e.pipeline.compute)
	for i, bg := range e.pipeline.groups {
		pass.SetBindGroup(uint32(i), bg, nil)
	}
	pass.Dispatch(e.op.DispatchX, e.op.DispatchY, e.op.DispatchZ)
	pass.End()
	e.recordDispatch(e.op.DispatchX, e.op.DispatchY, e.op.DispatchZ)
	e.log.Debug("dispatch recorded",
		"x", e.op.DispatchX, "y", e.op.DispatchY, "z", e.op.DispatchZ)
	return nil
}

func (e *Engine) recordGraphics() error {
	if len(e.op.RenderTargets) == 0 {
		return fmt.Errorf("%w: graphics shader op %q declares no render targets",
			shaderop.ErrInvalidArgument, e.op.Name)
	}

	attachments := make([]hal.RenderPassColorAttachment, 0, len(e.op.RenderTargets))
	var barriers []hal.TextureBarrier
	for _, name := range e.op.RenderTargets {
		res := e.resources[name]
		view, err := e.renderTargetView(res)
		if err != nil {
			return err
		}
		if usage := textureUsage(res.state); usage != gputypes.TextureUsageRenderAttachment {
			barriers = append(barriers, hal.TextureBarrier{
				Texture: res.texture,
				Usage: hal.TextureUsageTransition{
					OldUsage: usage,
					NewUsage: gputypes.TextureUsageRenderAttachment,
				},
			})
			res.state = shaderop.ResourceStateRenderTarget
		}
		attachments = append(attachments, hal.RenderPassColorAttachment{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: renderClearColor,
		})
	}
	if len(barriers) > 0 {
		e.encoder.TransitionTextures(barriers)
	}

	vertexCount := uint32(3)
	var vbuf hal.Buffer
	if len(e.op.InputElements) > 0 {
		vres, ok := e.resources[vertexBufferName]
		if !ok || !vres.isBuffer {
			return fmt.Errorf("%w: graphics shader op %q needs a %q buffer resource",
				shaderop.ErrInvalidArgument, e.op.Name, vertexBufferName)
		}
		stride, err := e.vertexStride()
		if err != nil {
			return err
		}
		vbuf = vres.buffer
		vertexCount = uint32(vres.byteSize / uint64(stride))
	}

	rp := e.encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label:            e.op.Name,
		ColorAttachments: attachments,
	})
	rp.SetPipeline(e.pipeline.render)
	for i, bg := range e.pipeline.groups {
		rp.SetBindGroup(uint32(i), bg, nil)
	}
	if vbuf != nil {
		rp.SetVertexBuffer(0, vbuf, 0)
	}
	rp.Draw(vertexCount, 1, 0, 0)
	rp.End()
	e.recordDraw(vertexCount, 1)
	e.log.Debug("draw recorded", "vertices", vertexCount, "targets", len(attachments))
	return nil
}

// renderTargetView returns the view to attach for a render target,
// reusing a declared RTV descriptor's view when one exists.
func (e *Engine) renderTargetView(res *resourceData) (hal.TextureView, error) {
	if de := e.findDescriptor(res.spec.Name); de != nil && de.view != nil {
		return de.view, nil
	}
	if res.rtView != nil {
		return res.rtView, nil
	}
	view, err := e.device.CreateTextureView(res.texture, &hal.TextureViewDescriptor{
		Label: res.spec.Name + " rtv",
	})
	if err != nil {
		return nil, e.deviceError(fmt.Sprintf("create render target view for %q", res.spec.Name), err)
	}
	res.rtView = view
	return view, nil
}

func (e *Engine) vertexStride() (uint32, error) {
	var stride uint32
	for i := range e.op.InputElements {
		_, size, err := mapVertexFormat(e.op.InputElements[i].Format)
		if err != nil {
			return 0, err
		}
		stride += size
	}
	if stride == 0 {
		return 0, fmt.Errorf("%w: input layout has zero stride", shaderop.ErrInvalidArgument)
	}
	return stride, nil
}
