package rootsig

import (
	"errors"
	"testing"
)

func TestParseRootViews(t *testing.T) {
	sig, err := Parse("RootFlags(ALLOW_INPUT_ASSEMBLER_INPUT_LAYOUT), CBV(b0), SRV(t1, space=2), UAV(u3, visibility=SHADER_VISIBILITY_PIXEL)")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(sig.Flags) != 1 || sig.Flags[0] != "ALLOW_INPUT_ASSEMBLER_INPUT_LAYOUT" {
		t.Errorf("Flags = %v", sig.Flags)
	}
	if sig.NumSlots() != 3 {
		t.Fatalf("NumSlots() = %d, want 3", sig.NumSlots())
	}

	want := []Param{
		{Kind: KindCBV, Register: 0},
		{Kind: KindSRV, Register: 1, Space: 2},
		{Kind: KindUAV, Register: 3, Visibility: "SHADER_VISIBILITY_PIXEL"},
	}
	for i, w := range want {
		got := sig.Params[i]
		if got.Kind != w.Kind || got.Register != w.Register ||
			got.Space != w.Space || got.Visibility != w.Visibility {
			t.Errorf("param %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestParseDescriptorTable(t *testing.T) {
	sig, err := Parse("DescriptorTable(SRV(t0, numDescriptors=4), UAV(u1, space=1), visibility=SHADER_VISIBILITY_ALL)")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if sig.NumSlots() != 1 {
		t.Fatalf("NumSlots() = %d, want 1", sig.NumSlots())
	}
	p := sig.Params[0]
	if p.Kind != KindTable {
		t.Errorf("Kind = %v, want table", p.Kind)
	}
	if p.Visibility != "SHADER_VISIBILITY_ALL" {
		t.Errorf("Visibility = %q", p.Visibility)
	}
	if len(p.Ranges) != 2 {
		t.Fatalf("ranges = %d, want 2", len(p.Ranges))
	}
	if r := p.Ranges[0]; r.Kind != KindSRV || r.BaseRegister != 0 || r.NumDescriptors != 4 {
		t.Errorf("range 0 = %+v", r)
	}
	if r := p.Ranges[1]; r.Kind != KindUAV || r.BaseRegister != 1 || r.Space != 1 || r.NumDescriptors != 1 {
		t.Errorf("range 1 = %+v", r)
	}
}

func TestParseRootFlagsZero(t *testing.T) {
	sig, err := Parse("RootFlags(0), UAV(u0)")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(sig.Flags) != 0 {
		t.Errorf("Flags = %v, want none", sig.Flags)
	}
	if sig.NumSlots() != 1 {
		t.Errorf("NumSlots() = %d, want 1", sig.NumSlots())
	}
}

func TestParseRootFlagsCombined(t *testing.T) {
	sig, err := Parse("RootFlags(DENY_VERTEX_SHADER_ROOT_ACCESS | DENY_HULL_SHADER_ROOT_ACCESS)")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(sig.Flags) != 2 {
		t.Errorf("Flags = %v, want 2 entries", sig.Flags)
	}
}

func TestParseCaseInsensitive(t *testing.T) {
	sig, err := Parse("cbv(B0), descriptortable(srv(T2))")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if sig.NumSlots() != 2 {
		t.Fatalf("NumSlots() = %d, want 2", sig.NumSlots())
	}
	if sig.Params[0].Kind != KindCBV || sig.Params[1].Ranges[0].Kind != KindSRV {
		t.Errorf("params = %+v", sig.Params)
	}
}

func TestParseStaticSamplerIgnored(t *testing.T) {
	sig, err := Parse("UAV(u0), StaticSampler(s0, filter=FILTER_MIN_MAG_MIP_LINEAR)")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	// Static samplers occupy no root slot.
	if sig.NumSlots() != 1 {
		t.Errorf("NumSlots() = %d, want 1", sig.NumSlots())
	}
}

func TestParseEmpty(t *testing.T) {
	sig, err := Parse("")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if sig.NumSlots() != 0 || len(sig.Flags) != 0 {
		t.Errorf("empty signature = %+v", sig)
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"unknown parameter", "Bogus(b0)"},
		{"register class mismatch", "CBV(t0)"},
		{"missing register", "UAV()"},
		{"bad register number", "CBV(bx)"},
		{"missing paren", "CBV(b0"},
		{"missing comma", "CBV(b0) UAV(u0)"},
		{"bad table entry", "DescriptorTable(RootFlags(0))"},
		{"unterminated sampler", "StaticSampler(s0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.text); !errors.Is(err, ErrSyntax) {
				t.Errorf("Parse(%q) error = %v, want ErrSyntax", tt.text, err)
			}
		})
	}
}

func TestParamKindString(t *testing.T) {
	tests := []struct {
		kind ParamKind
		want string
	}{
		{KindCBV, "CBV"},
		{KindSRV, "SRV"},
		{KindUAV, "UAV"},
		{KindSampler, "Sampler"},
		{KindTable, "DescriptorTable"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%v.String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}
