package engine

import (
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/x448/float16"

	"github.com/gogpu/shaderop"
)

func TestMappedDataConversions(t *testing.T) {
	raw := make([]byte, 8)
	binary.LittleEndian.PutUint32(raw, math.Float32bits(1.5))
	binary.LittleEndian.PutUint32(raw[4:], math.Float32bits(-2))
	m := &MappedData{name: "Out", bytes: raw}

	if m.Name() != "Out" {
		t.Errorf("Name() = %q", m.Name())
	}
	if got := m.Floats(); len(got) != 2 || got[0] != 1.5 || got[1] != -2 {
		t.Errorf("Floats() = %v, want [1.5 -2]", got)
	}
	if got := m.Uint32s(); len(got) != 2 || got[0] != math.Float32bits(1.5) {
		t.Errorf("Uint32s() = %#x", got)
	}
	if got := m.Bytes(); len(got) != 8 {
		t.Errorf("Bytes() length = %d, want 8", len(got))
	}
}

func TestMappedDataFloat16s(t *testing.T) {
	raw := make([]byte, 4)
	binary.LittleEndian.PutUint16(raw, float16.Fromfloat32(0.5).Bits())
	binary.LittleEndian.PutUint16(raw[2:], float16.Fromfloat32(-1).Bits())
	m := &MappedData{bytes: raw}

	got := m.Float16s()
	if len(got) != 2 {
		t.Fatalf("Float16s() length = %d, want 2", len(got))
	}
	if got[0].Float32() != 0.5 || got[1].Float32() != -1 {
		t.Errorf("Float16s() = %v, %v, want 0.5, -1", got[0].Float32(), got[1].Float32())
	}
}

func TestMappedDataDump(t *testing.T) {
	m := &MappedData{name: "Buf", bytes: []byte{0xef, 0xbe, 0xad, 0xde}}
	dump := m.Dump()
	if !strings.Contains(dump, "Buf") || !strings.Contains(dump, "deadbeef") {
		t.Errorf("Dump() = %q", dump)
	}
}

func TestCompactRows(t *testing.T) {
	// A 2x2 R32_FLOAT texture: 8 tight bytes per row, 256-byte pitch.
	d := &resourceData{
		spec: &shaderop.ShaderOpResource{
			Desc: shaderop.ResourceDesc{
				Width:  2,
				Height: 2,
				Format: shaderop.FormatR32Float,
			},
		},
		rowPitch: 256,
	}
	raw := make([]byte, 512)
	for i := range 8 {
		raw[i] = byte(i + 1)        // row 0
		raw[256+i] = byte(i + 0x11) // row 1
	}

	got := compactRows(raw, d)
	if len(got) != 16 {
		t.Fatalf("compacted to %d bytes, want 16", len(got))
	}
	if got[0] != 1 || got[7] != 8 || got[8] != 0x11 || got[15] != 0x18 {
		t.Errorf("compacted bytes = %x", got)
	}
}

func TestCompactRowsArrayLayers(t *testing.T) {
	// A 2x2 R32_FLOAT texture with two array layers: 8 rows of padded
	// data in all, compacting to 4 tight rows per layer.
	d := &resourceData{
		spec: &shaderop.ShaderOpResource{
			Desc: shaderop.ResourceDesc{
				Width:            2,
				Height:           2,
				DepthOrArraySize: 2,
				Format:           shaderop.FormatR32Float,
			},
		},
		rowPitch: 256,
	}
	raw := make([]byte, 256*4)
	for row := 0; row < 4; row++ {
		for i := 0; i < 8; i++ {
			raw[row*256+i] = byte(row*0x10 + i + 1)
		}
	}

	got := compactRows(raw, d)
	if len(got) != 32 {
		t.Fatalf("compacted to %d bytes, want 32", len(got))
	}
	if got[0] != 0x01 || got[8] != 0x11 || got[16] != 0x21 || got[24] != 0x31 {
		t.Errorf("row starts = %x %x %x %x", got[0], got[8], got[16], got[24])
	}
}

func TestCompactRowsTightPitch(t *testing.T) {
	d := &resourceData{
		spec: &shaderop.ShaderOpResource{
			Desc: shaderop.ResourceDesc{
				Width:  4,
				Height: 1,
				Format: shaderop.FormatR32Float,
			},
		},
		rowPitch: 16,
	}
	raw := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	got := compactRows(raw, d)
	if len(got) != 16 {
		t.Errorf("tight-pitch compaction changed length to %d", len(got))
	}
}

func TestReadBackDataMissing(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, err := e.ReadBackData("nothing"); !errors.Is(err, shaderop.ErrNotFound) {
		t.Errorf("ReadBackData() error = %v, want ErrNotFound", err)
	}
}
