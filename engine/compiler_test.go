package engine

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gogpu/shaderop"
)

const testComputeWGSL = `
@group(0) @binding(0) var<storage, read_write> data: array<u32, 64>;

@compute @workgroup_size(1)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    data[gid.x] = gid.x;
}
`

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

func TestNagaCompilerModern(t *testing.T) {
	c := NewNagaCompiler()
	spv, err := c.Compile("cs", "main", "cs_6_0", testComputeWGSL)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if len(spv) == 0 || len(spv)%4 != 0 {
		t.Fatalf("SPIR-V blob of %d bytes", len(spv))
	}
	if got := binary.LittleEndian.Uint32(spv); got != spirvMagic {
		t.Errorf("SPIR-V magic = %#x, want %#x", got, spirvMagic)
	}
}

func TestNagaCompilerLegacy(t *testing.T) {
	c := NewNagaCompiler()
	spv, err := c.Compile("cs", "main", "cs_5_1", testComputeWGSL)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if got := binary.LittleEndian.Uint32(spv); got != spirvMagic {
		t.Errorf("SPIR-V magic = %#x, want %#x", got, spirvMagic)
	}
}

func TestNagaCompilerMissingEntryPoint(t *testing.T) {
	c := NewNagaCompiler()
	_, err := c.Compile("cs", "not_there", "cs_6_0", testComputeWGSL)
	if !errors.Is(err, shaderop.ErrInvalidArgument) {
		t.Errorf("Compile() error = %v, want ErrInvalidArgument", err)
	}
}

func TestNagaCompilerEmptySource(t *testing.T) {
	c := NewNagaCompiler()
	_, err := c.Compile("cs", "main", "cs_6_0", "")
	if !errors.Is(err, shaderop.ErrInvalidArgument) {
		t.Errorf("Compile() error = %v, want ErrInvalidArgument", err)
	}
}

func TestNagaCompilerParseError(t *testing.T) {
	c := NewNagaCompiler()
	if _, err := c.Compile("cs", "main", "cs_6_0", "not wgsl at all"); err == nil {
		t.Error("Compile() of invalid source should fail")
	}
}

func TestSpirvWords(t *testing.T) {
	spv := []byte{0x03, 0x02, 0x23, 0x07, 0x00, 0x01, 0x00, 0x00}
	words, err := spirvWords(spv)
	if err != nil {
		t.Fatalf("spirvWords() error: %v", err)
	}
	if len(words) != 2 || words[0] != spirvMagic || words[1] != 0x00000100 {
		t.Errorf("spirvWords() = %#x", words)
	}
}

func TestSpirvWordsBadLength(t *testing.T) {
	for _, blob := range [][]byte{nil, {1, 2, 3}} {
		if _, err := spirvWords(blob); !errors.Is(err, shaderop.ErrInvalidArgument) {
			t.Errorf("spirvWords(%d bytes) error = %v, want ErrInvalidArgument", len(blob), err)
		}
	}
}
