package engine

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/x448/float16"

	"github.com/gogpu/shaderop"
)

// MappedData is the CPU copy of one read-back resource. The bytes are
// tightly packed; texture row padding is stripped during readback.
type MappedData struct {
	name  string
	bytes []byte
}

// Name returns the resource the data was read from.
func (m *MappedData) Name() string { return m.name }

// Bytes returns the raw readback bytes. The slice is owned by the
// engine and stays valid until Close.
func (m *MappedData) Bytes() []byte { return m.bytes }

// Floats reinterprets the data as 32-bit floats.
func (m *MappedData) Floats() []float32 {
	out := make([]float32, len(m.bytes)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(m.bytes[i*4:]))
	}
	return out
}

// Uint32s reinterprets the data as 32-bit unsigned integers.
func (m *MappedData) Uint32s() []uint32 {
	out := make([]uint32, len(m.bytes)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(m.bytes[i*4:])
	}
	return out
}

// Float16s reinterprets the data as IEEE half-precision floats.
func (m *MappedData) Float16s() []float16.Float16 {
	out := make([]float16.Float16, len(m.bytes)/2)
	for i := range out {
		out[i] = float16.Frombits(binary.LittleEndian.Uint16(m.bytes[i*2:]))
	}
	return out
}

// Dump formats the data as hex words for debug logging.
func (m *MappedData) Dump() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%d bytes)", m.name, len(m.bytes))
	for i, w := range m.Uint32s() {
		if i%8 == 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, " %08x", w)
	}
	return sb.String()
}

// CopyBackResources copies every resource marked for readback into its
// staging buffer, waits for the copy, and maps the results. Texture rows
// are compacted from the copy pitch to their tight width.
func (e *Engine) CopyBackResources() error {
	if err := e.requireState(StateExecuted); err != nil {
		return err
	}
	var pending []*resourceData
	for _, d := range e.resources {
		if d.readback != nil {
			pending = append(pending, d)
		}
	}
	if len(pending) > 0 {
		if err := e.recordReadbackCopies(pending); err != nil {
			return err
		}
		for _, d := range pending {
			if err := e.mapReadback(d); err != nil {
				return err
			}
		}
	}
	e.state = StateReadBackComplete
	return nil
}

func (e *Engine) recordReadbackCopies(pending []*resourceData) error {
	encoder, err := e.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "shaderop_readback"})
	if err != nil {
		return e.deviceError("create readback encoder", err)
	}
	if err := encoder.BeginEncoding("shaderop_readback"); err != nil {
		return e.deviceError("begin readback encoding", err)
	}
	for _, d := range pending {
		if d.isBuffer {
			encoder.CopyBufferToBuffer(d.buffer, d.readback, []hal.BufferCopy{{
				SrcOffset: 0, DstOffset: 0, Size: d.byteSize,
			}})
			continue
		}
		if usage := textureUsage(d.state); usage != gputypes.TextureUsageCopySrc {
			encoder.TransitionTextures([]hal.TextureBarrier{{
				Texture: d.texture,
				Usage: hal.TextureUsageTransition{
					OldUsage: usage,
					NewUsage: gputypes.TextureUsageCopySrc,
				},
			}})
			d.state = shaderop.ResourceStateCopySource
		}
		height, depth := textureExtent(d.spec)
		encoder.CopyTextureToBuffer(d.texture, d.readback, []hal.BufferTextureCopy{{
			BufferLayout: hal.ImageDataLayout{
				Offset:       0,
				BytesPerRow:  d.rowPitch,
				RowsPerImage: height,
			},
			TextureBase: hal.ImageCopyTexture{Texture: d.texture, MipLevel: 0},
			Size: hal.Extent3D{
				Width:              uint32(d.spec.Desc.Width),
				Height:             height,
				DepthOrArrayLayers: depth,
			},
		}})
	}
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return e.deviceError("end readback encoding", err)
	}
	return e.submitAndWait(cmdBuf)
}

// mapReadback maps the staging buffer and stores a tight CPU copy. The
// batch that wrote the buffer has already drained, so the mapped range is
// stable for the duration of the copy.
func (e *Engine) mapReadback(d *resourceData) error {
	name := d.spec.Name
	mapping, err := e.device.MapBuffer(d.readback, 0, d.readbackSize)
	if err != nil {
		return e.deviceError(fmt.Sprintf("map readback for %q", name), err)
	}
	raw := make([]byte, d.readbackSize)
	copy(raw, unsafe.Slice((*byte)(mapping.Ptr), d.readbackSize))
	if err := e.device.UnmapBuffer(d.readback); err != nil {
		return e.deviceError(fmt.Sprintf("unmap readback for %q", name), err)
	}
	data := raw
	if !d.isBuffer {
		data = compactRows(raw, d)
	}
	e.readbacks[name] = &MappedData{name: name, bytes: data}
	e.log.Debug("resource read back", "name", name, "bytes", len(data))
	return nil
}

// compactRows strips the copy-pitch padding from each texture row. Rows
// run through every slice or array layer.
func compactRows(raw []byte, d *resourceData) []byte {
	elem, err := shaderop.FormatByteSize(d.spec.Desc.Format)
	if err != nil {
		return raw
	}
	tight := uint32(d.spec.Desc.Width) * elem
	height, depth := textureExtent(d.spec)
	rows := uint64(height) * uint64(depth)
	if tight == d.rowPitch {
		return raw[:uint64(tight)*rows]
	}
	out := make([]byte, 0, uint64(tight)*rows)
	for row := uint64(0); row < rows; row++ {
		start := row * uint64(d.rowPitch)
		out = append(out, raw[start:start+uint64(tight)]...)
	}
	return out
}

// ReadBackData returns the mapped bytes of a read-back resource.
func (e *Engine) ReadBackData(name string) (*MappedData, error) {
	m, ok := e.readbacks[name]
	if !ok {
		return nil, fmt.Errorf("%w: no readback data for resource %q", shaderop.ErrNotFound, name)
	}
	return m, nil
}
