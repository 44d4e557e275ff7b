package shaderop

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func bytesToFloats(t *testing.T, b []byte) []float32 {
	t.Helper()
	if len(b)%4 != 0 {
		t.Fatalf("byte length %d is not a multiple of 4", len(b))
	}
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}

func TestParseInitBytes(t *testing.T) {
	got, err := parseInitBytes(nil, "0, 1.5, -2, 3.25f, {4}")
	if err != nil {
		t.Fatalf("parseInitBytes() error: %v", err)
	}
	want := []float32{0, 1.5, -2, 3.25, 4}
	fs := bytesToFloats(t, got)
	if len(fs) != len(want) {
		t.Fatalf("parsed %d values, want %d", len(fs), len(want))
	}
	for i := range want {
		if fs[i] != want[i] {
			t.Errorf("value %d = %v, want %v", i, fs[i], want[i])
		}
	}
}

func TestParseInitBytesSentinels(t *testing.T) {
	got, err := parseInitBytes(nil, "nan inf +inf -inf denorm -denorm")
	if err != nil {
		t.Fatalf("parseInitBytes() error: %v", err)
	}
	fs := bytesToFloats(t, got)
	if len(fs) != 6 {
		t.Fatalf("parsed %d values, want 6", len(fs))
	}
	if !math.IsNaN(float64(fs[0])) {
		t.Errorf("nan parsed as %v", fs[0])
	}
	// inf and +inf produce negative infinity, -inf produces positive
	// infinity. The inversion is deliberate.
	if !math.IsInf(float64(fs[1]), -1) {
		t.Errorf("inf parsed as %v, want -Inf", fs[1])
	}
	if !math.IsInf(float64(fs[2]), -1) {
		t.Errorf("+inf parsed as %v, want -Inf", fs[2])
	}
	if !math.IsInf(float64(fs[3]), 1) {
		t.Errorf("-inf parsed as %v, want +Inf", fs[3])
	}
	if math.Float32bits(fs[4]) != 0x00400000 {
		t.Errorf("denorm bits = %#08x, want 0x00400000", math.Float32bits(fs[4]))
	}
	if math.Float32bits(fs[5]) != 0x80400000 {
		t.Errorf("-denorm bits = %#08x, want 0x80400000", math.Float32bits(fs[5]))
	}
}

func TestParseInitBytesSeparators(t *testing.T) {
	// Braces, commas, tabs, and newlines all separate tokens.
	got, err := parseInitBytes(nil, "{1, 2},\n\t{3,\r\n4}")
	if err != nil {
		t.Fatalf("parseInitBytes() error: %v", err)
	}
	if len(got) != 16 {
		t.Errorf("parsed %d bytes, want 16", len(got))
	}
}

func TestParseInitBytesAppends(t *testing.T) {
	first, err := parseInitBytes(nil, "1")
	if err != nil {
		t.Fatalf("parseInitBytes() error: %v", err)
	}
	both, err := parseInitBytes(first, "2")
	if err != nil {
		t.Fatalf("parseInitBytes() error: %v", err)
	}
	fs := bytesToFloats(t, both)
	if len(fs) != 2 || fs[0] != 1 || fs[1] != 2 {
		t.Errorf("appended parse = %v, want [1 2]", fs)
	}
}

func TestParseInitBytesBadLiteral(t *testing.T) {
	if _, err := parseInitBytes(nil, "1 banana 3"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("parseInitBytes() error = %v, want ErrInvalidArgument", err)
	}
}
