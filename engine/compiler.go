package engine

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/spirv"

	"github.com/gogpu/shaderop"
)

// Compiler turns shader source text into SPIR-V. Implementations are
// keyed by the declared target profile so a scenario can carry shaders
// for more than one compiler generation.
type Compiler interface {
	// Compile builds the named shader. target is the declared profile
	// string (for example "cs_6_0"); entry is the entry point name.
	Compile(name, entry, target, source string) ([]byte, error)
}

// NagaCompiler compiles WGSL shader text through the naga front end.
// Modern profiles (major version 6 and up) run the staged
// parse/lower/emit pipeline; older profiles use the one-shot path.
type NagaCompiler struct {
	opts spirv.Options
}

// NewNagaCompiler returns a compiler with default SPIR-V emission options.
func NewNagaCompiler() *NagaCompiler {
	return &NagaCompiler{opts: spirv.DefaultOptions()}
}

func (c *NagaCompiler) Compile(name, entry, target, source string) ([]byte, error) {
	if source == "" {
		return nil, fmt.Errorf("%w: shader %q has no source text", shaderop.ErrInvalidArgument, name)
	}
	if !shaderop.TargetModern(target) {
		spv, err := naga.Compile(source)
		if err != nil {
			return nil, fmt.Errorf("engine: compile shader %q: %w", name, err)
		}
		return spv, nil
	}
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("engine: parse shader %q: %w", name, err)
	}
	ir, err := naga.Lower(ast)
	if err != nil {
		return nil, fmt.Errorf("engine: lower shader %q: %w", name, err)
	}
	found := entry == ""
	for _, ep := range ir.EntryPoints {
		if ep.Name == entry {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: shader %q has no entry point %q",
			shaderop.ErrInvalidArgument, name, entry)
	}
	backend := spirv.NewBackend(c.opts)
	spv, err := backend.Compile(ir)
	if err != nil {
		return nil, fmt.Errorf("engine: compile shader %q: %w", name, err)
	}
	return spv, nil
}

// spirvWords reinterprets a little-endian SPIR-V byte stream as the
// 32-bit word slice the HAL shader descriptor wants.
func spirvWords(spv []byte) ([]uint32, error) {
	if len(spv) == 0 || len(spv)%4 != 0 {
		return nil, fmt.Errorf("%w: SPIR-V blob of %d bytes", shaderop.ErrInvalidArgument, len(spv))
	}
	words := make([]uint32, len(spv)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spv[i*4:])
	}
	return words, nil
}
