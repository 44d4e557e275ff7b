package engine

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/gogpu/shaderop"
)

// failCompiler fails every compilation, so any test using it proves the
// compiler was never invoked.
type failCompiler struct{}

func (failCompiler) Compile(name, entry, target, source string) ([]byte, error) {
	return nil, fmt.Errorf("unexpected compile of %q", name)
}

func TestCompileShadersPrecompiled(t *testing.T) {
	pre := []byte{0x03, 0x02, 0x23, 0x07, 0, 0, 1, 0}
	e, err := New(WithCompiler(failCompiler{}))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	op := shaderop.NewShaderOp()
	op.Shaders = []shaderop.ShaderOpShader{{
		Name:       "CS",
		EntryPoint: "main",
		Target:     "cs_6_0",
		Compiled:   pre,
	}}
	e.op = op

	if err := e.compileShaders(); err != nil {
		t.Fatalf("compileShaders() error: %v", err)
	}
	if got := e.compiled["CS"]; !bytes.Equal(got, pre) {
		t.Errorf("compiled[CS] = %x, want %x", got, pre)
	}
}

// An empty Compiled slice falls through to the compiler.
func TestCompileShadersEmptyBinary(t *testing.T) {
	e, err := New(WithCompiler(failCompiler{}))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	op := shaderop.NewShaderOp()
	op.Shaders = []shaderop.ShaderOpShader{{Name: "CS", Target: "cs_6_0"}}
	e.op = op

	if err := e.compileShaders(); err == nil {
		t.Error("compileShaders() succeeded for a shader with no binary and no text")
	}
}

func TestRootValueSlots(t *testing.T) {
	tests := []struct {
		name   string
		values []shaderop.ShaderOpRootValue
		want   []uint32
	}{
		{
			name: "positional",
			values: []shaderop.ShaderOpRootValue{
				{ResName: "A"}, {ResName: "B"}, {ResName: "C"},
			},
			want: []uint32{0, 1, 2},
		},
		{
			name: "explicit permutation",
			values: []shaderop.ShaderOpRootValue{
				{ResName: "A"}, {ResName: "B", Index: 2}, {ResName: "C", Index: 1},
			},
			want: []uint32{0, 2, 1},
		},
		{
			name: "explicit matches position",
			values: []shaderop.ShaderOpRootValue{
				{ResName: "A"}, {ResName: "B", Index: 1},
			},
			want: []uint32{0, 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rootValueSlots(tt.values)
			if err != nil {
				t.Fatalf("rootValueSlots() error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("rootValueSlots() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("slot[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRootValueSlotsConflicts(t *testing.T) {
	tests := []struct {
		name   string
		values []shaderop.ShaderOpRootValue
	}{
		{
			// Position 1 defaults to slot 1, which A claimed explicitly.
			name: "duplicate slot",
			values: []shaderop.ShaderOpRootValue{
				{ResName: "A", Index: 1}, {ResName: "B"},
			},
		},
		{
			name: "slot past the last",
			values: []shaderop.ShaderOpRootValue{
				{ResName: "A", Index: 3}, {ResName: "B"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := rootValueSlots(tt.values); !errors.Is(err, shaderop.ErrInvalidArgument) {
				t.Errorf("rootValueSlots() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}
