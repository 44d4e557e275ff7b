// Package shaderop drives declarative GPU test scenarios ("shader ops").
//
// A shader op is an XML document describing resources, descriptor heaps,
// root-signature bindings, and shader stages. Parse turns the document into
// a ShaderOpSet; the engine subpackage executes one ShaderOp against a GPU
// device through the gogpu wgpu HAL and exposes readback buffers for
// verification.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/shaderop"
//	    "github.com/gogpu/shaderop/engine"
//	)
//
//	set, err := shaderop.ParseShaderOpSet(strings.NewReader(xmlText))
//	if err != nil { ... }
//	op := set.GetShaderOp("WriteConstant")
//
//	eng, err := engine.New()
//	if err != nil { ... }
//	defer eng.Close()
//	if err := eng.Run(op); err != nil { ... }
//
//	data, err := eng.ReadBackData("UAVBuffer")
//	floats := data.Floats()
//
// # Execution model
//
// Execution is one-shot and fully synchronous: each phase records GPU
// commands, submits them as a single batch, and blocks until the batch
// completes before the next phase begins. There is no frame loop
// and no concurrent submission; determinism is the point.
//
// # Logging
//
// The package produces no log output by default. Call SetLogger to enable
// diagnostics, or pass engine.WithLogger for a per-engine logger.
package shaderop
