package engine

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/shaderop"
)

// copyPitchAlignment is the row-pitch granularity required for
// texture-to-buffer copies.
const copyPitchAlignment = 256

// textureExtent resolves a texture's height and depth-or-array-layer
// counts, backfilling zero values to 1.
func textureExtent(r *shaderop.ShaderOpResource) (height, depth uint32) {
	height = r.Desc.Height
	if height == 0 {
		height = 1
	}
	depth = uint32(r.Desc.DepthOrArraySize)
	if depth == 0 {
		depth = 1
	}
	return height, depth
}

// resourceData is the live runtime state of one declared resource, keyed
// by the resource name in the engine's map.
type resourceData struct {
	spec     *shaderop.ShaderOpResource
	isBuffer bool
	buffer   hal.Buffer
	texture  hal.Texture
	// state tracks the resource's current declared state across barriers.
	state shaderop.ResourceState
	// byteSize is the tight full-resource byte extent.
	byteSize uint64
	// texFormat and rowPitch are set for textures; rowPitch is the
	// 256-aligned bytes-per-row used for readback copies.
	texFormat gputypes.TextureFormat
	rowPitch  uint32
	readback  hal.Buffer
	// readbackSize may exceed byteSize for textures due to row padding.
	readbackSize uint64
	// rtView is created lazily when the resource is used as a render
	// target without a declared RTV descriptor.
	rtView hal.TextureView
	// external resources (injected render targets) are not destroyed.
	external bool
}

// CreateResources materializes every declared resource: byte-size
// resolution, allocation, initializer upload through transient staging,
// paired readback allocation, and the initial-to-target state transition.
// Everything is recorded into one command batch, submitted, and waited on;
// staging buffers live until the wait completes.
func (e *Engine) CreateResources() error {
	if err := e.requireState(StateDeviceReady); err != nil {
		return err
	}
	encoder, err := e.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "shaderop_resources",
	})
	if err != nil {
		return e.deviceError("create command encoder", err)
	}
	if err := encoder.BeginEncoding("shaderop_resources"); err != nil {
		return e.deviceError("begin encoding", err)
	}

	var stagings []hal.Buffer
	defer func() {
		for _, s := range stagings {
			e.device.DestroyBuffer(s)
		}
	}()

	for i := range e.op.Resources {
		r := &e.op.Resources[i]
		if _, ok := e.resources[r.Name]; ok {
			// Already materialized (externally supplied render target).
			continue
		}
		d, staging, err := e.createResource(encoder, r)
		if err != nil {
			encoder.DiscardEncoding()
			return err
		}
		if staging != nil {
			stagings = append(stagings, staging)
		}
		e.resources[r.Name] = d
	}

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return e.deviceError("end encoding", err)
	}
	if err := e.submitAndWait(cmdBuf); err != nil {
		return err
	}

	// Fresh statistics slot for this run.
	e.stats = PipelineStatistics{}
	e.state = StateResourcesReady
	return nil
}

func (e *Engine) createResource(encoder hal.CommandEncoder, r *shaderop.ShaderOpResource) (*resourceData, hal.Buffer, error) {
	d := &resourceData{
		spec:     r,
		isBuffer: r.Desc.Dimension == shaderop.ResourceDimensionBuffer,
		state:    r.InitialResourceState,
	}

	values, width, err := e.resolveInit(r, d.isBuffer)
	if err != nil {
		return nil, nil, err
	}

	if d.isBuffer {
		d.byteSize = width
	} else {
		elem, err := shaderop.FormatByteSize(r.Desc.Format)
		if err != nil {
			return nil, nil, fmt.Errorf("resource %q: %w", r.Name, err)
		}
		height, depth := textureExtent(r)
		d.byteSize = width * uint64(height) * uint64(depth) * uint64(elem)
	}
	if d.byteSize == 0 {
		return nil, nil, fmt.Errorf("%w: resource %q has no resolvable byte size",
			shaderop.ErrInvalidArgument, r.Name)
	}
	e.log.Debug("create resource",
		"name", r.Name, "buffer", d.isBuffer, "bytes", d.byteSize)

	var staging hal.Buffer
	if d.isBuffer {
		buf, err := e.device.CreateBuffer(&hal.BufferDescriptor{
			Label: r.Name,
			Size:  d.byteSize,
			Usage: bufferCreationUsage(r),
		})
		if err != nil {
			return nil, nil, e.deviceError(fmt.Sprintf("create buffer %q", r.Name), err)
		}
		d.buffer = buf
		if values != nil {
			staging, err = e.uploadBuffer(encoder, r.Name, buf, values)
			if err != nil {
				return nil, nil, err
			}
		}
	} else {
		if err := e.createTexture(d, r, uint32(width)); err != nil {
			return nil, nil, err
		}
		if values != nil {
			e.uploadTexture(d, r, values, uint32(width))
		}
	}

	if r.ReadBack {
		if err := e.createReadback(d, r); err != nil {
			return nil, nil, err
		}
	}

	if r.TransitionTo != d.state {
		if !d.isBuffer {
			encoder.TransitionTextures([]hal.TextureBarrier{{
				Texture: d.texture,
				Usage: hal.TextureUsageTransition{
					OldUsage: textureUsage(d.state),
					NewUsage: textureUsage(r.TransitionTo),
				},
			}})
		}
		d.state = r.TransitionTo
	}
	return d, staging, nil
}

// resolveInit computes the resolved width and, when the resource declares
// an initializer, the populated byte payload. Width resolution order:
// explicit attribute, then initializer payload length, then format × dims.
func (e *Engine) resolveInit(r *shaderop.ShaderOpResource, isBuffer bool) ([]byte, uint64, error) {
	width := r.Desc.Width
	if r.Init == shaderop.InitNone {
		return nil, width, nil
	}

	if width == 0 && r.Init == shaderop.InitFromBytes {
		n := uint64(len(r.InitBytes))
		if isBuffer {
			width = n
		} else if r.Desc.Dimension == shaderop.ResourceDimensionTexture1D {
			elem, err := shaderop.FormatByteSize(r.Desc.Format)
			if err != nil {
				return nil, 0, fmt.Errorf("resource %q: %w", r.Name, err)
			}
			width = n / uint64(elem)
		}
	}

	var size uint64
	if isBuffer {
		size = width
	} else {
		elem, err := shaderop.FormatByteSize(r.Desc.Format)
		if err != nil {
			return nil, 0, fmt.Errorf("resource %q: %w", r.Name, err)
		}
		height, depth := textureExtent(r)
		size = width * uint64(height) * uint64(depth) * uint64(elem)
	}
	values := make([]byte, size)

	switch r.Init {
	case shaderop.InitZero:
		// Already zero.
	case shaderop.InitByName:
		if e.opts.initFn == nil {
			return nil, 0, fmt.Errorf("%w: resource %q declares Init=\"byname\" but no init callback is set",
				shaderop.ErrInvalidArgument, r.Name)
		}
		values = e.opts.initFn(r.Name, values)
		if isBuffer {
			// The callback may resize a buffer, which resizes the resource.
			width = uint64(len(values))
		}
	case shaderop.InitFromBytes:
		values = r.InitBytes
	}
	return values, width, nil
}

func (e *Engine) uploadBuffer(encoder hal.CommandEncoder, name string, dst hal.Buffer, values []byte) (hal.Buffer, error) {
	staging, err := e.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "upload for " + name,
		Size:  uint64(len(values)),
		Usage: gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, e.deviceError(fmt.Sprintf("create upload buffer for %q", name), err)
	}
	e.queue.WriteBuffer(staging, 0, values)
	encoder.CopyBufferToBuffer(staging, dst, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: uint64(len(values))},
	})
	return staging, nil
}

func (e *Engine) createTexture(d *resourceData, r *shaderop.ShaderOpResource, width uint32) error {
	format, err := mapTextureFormat(r.Desc.Format)
	if err != nil {
		return fmt.Errorf("resource %q: %w", r.Name, err)
	}
	d.texFormat = format

	mips := uint32(r.Desc.MipLevels)
	if mips == 0 {
		mips = 1
	}
	var dim gputypes.TextureDimension
	height, depth := textureExtent(r)
	switch r.Desc.Dimension {
	case shaderop.ResourceDimensionTexture1D:
		dim = gputypes.TextureDimension1D
	case shaderop.ResourceDimensionTexture3D:
		dim = gputypes.TextureDimension3D
	default:
		dim = gputypes.TextureDimension2D
	}

	tex, err := e.device.CreateTexture(&hal.TextureDescriptor{
		Label:         r.Name,
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: depth},
		MipLevelCount: mips,
		SampleCount:   r.Desc.SampleDesc.Count,
		Dimension:     dim,
		Format:        format,
		Usage:         textureCreationUsage(r),
	})
	if err != nil {
		return e.deviceError(fmt.Sprintf("create texture %q", r.Name), err)
	}
	d.texture = tex

	elem, _ := shaderop.FormatByteSize(r.Desc.Format)
	bytesPerRow := width * elem
	d.rowPitch = (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	return nil
}

// uploadTexture writes initial texel data through the queue; the write is
// ordered before this phase's submission.
func (e *Engine) uploadTexture(d *resourceData, r *shaderop.ShaderOpResource, values []byte, width uint32) {
	elem, _ := shaderop.FormatByteSize(r.Desc.Format)
	height, depth := textureExtent(r)
	e.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: d.texture, MipLevel: 0},
		values,
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: width * elem, RowsPerImage: height},
		&hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: depth},
	)
}

func (e *Engine) createReadback(d *resourceData, r *shaderop.ShaderOpResource) error {
	size := d.byteSize
	if !d.isBuffer {
		height, depth := textureExtent(r)
		size = uint64(d.rowPitch) * uint64(height) * uint64(depth)
	}
	buf, err := e.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "readback for " + r.Name,
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return e.deviceError(fmt.Sprintf("create readback buffer for %q", r.Name), err)
	}
	d.readback = buf
	d.readbackSize = size
	return nil
}

func (e *Engine) destroyResources() {
	if e.device == nil {
		return
	}
	for name, d := range e.resources {
		if d.readback != nil {
			e.device.DestroyBuffer(d.readback)
		}
		if d.rtView != nil {
			e.device.DestroyTextureView(d.rtView)
		}
		if d.external {
			continue
		}
		if d.buffer != nil {
			e.device.DestroyBuffer(d.buffer)
		}
		if d.texture != nil {
			e.device.DestroyTexture(d.texture)
		}
		delete(e.resources, name)
	}
}
