// Command shaderop runs one declared shader scenario from an XML file
// and dumps the read-back resources.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/shaderop"
	"github.com/gogpu/shaderop/engine"
)

func main() {
	var (
		opName   = flag.String("op", "", "shader op name to run (default: first in the file)")
		adapter  = flag.String("adapter", "", "substring match for the adapter to use")
		software = flag.Bool("software", false, "prefer a software adapter")
		verbose  = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: shaderop [flags] <scenario.xml>\n")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if *verbose {
		shaderop.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatalf("open scenario: %v", err)
	}
	set, err := shaderop.ParseShaderOpSet(f)
	f.Close()
	if err != nil {
		log.Fatalf("parse scenario: %v", err)
	}
	if len(set.ShaderOps) == 0 {
		log.Fatalf("no shader ops in %s", flag.Arg(0))
	}

	op := set.ShaderOps[0]
	if *opName != "" {
		if op = set.GetShaderOp(*opName); op == nil {
			log.Fatalf("shader op %q not found", *opName)
		}
	}

	opts := []engine.Option{
		engine.WithAdapterName(*adapter),
	}
	if *software {
		opts = append(opts, engine.WithSoftwareAdapter())
	}
	eng, err := engine.New(opts...)
	if err != nil {
		log.Fatalf("create engine: %v", err)
	}
	defer eng.Close()

	if err := eng.Run(op); err != nil {
		log.Fatalf("run %q: %v", op.Name, err)
	}

	dumped := 0
	for i := range op.Resources {
		r := &op.Resources[i]
		if !r.ReadBack {
			continue
		}
		data, err := eng.ReadBackData(r.Name)
		if err != nil {
			log.Fatalf("readback %q: %v", r.Name, err)
		}
		fmt.Println(data.Dump())
		dumped++
	}
	if dumped == 0 {
		fmt.Printf("%s: completed, no resources marked for readback\n", op.Name)
	}
	stats := eng.PipelineStats()
	if stats.CSInvocations > 0 {
		fmt.Printf("compute groups: %d\n", stats.CSInvocations)
	}
	if stats.IAVertices > 0 {
		fmt.Printf("vertices: %d primitives: %d\n", stats.IAVertices, stats.IAPrimitives)
	}
}
