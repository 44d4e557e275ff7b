// Package engine executes parsed shader ops against a GPU device.
//
// An Engine owns all mutable runtime state for one run: live resources and
// their current states, descriptor views, compiled shader binaries, and the
// submission index that serializes command batches. The declarative
// ShaderOp it runs is never mutated.
//
// Execution is a strict linear state machine:
//
//	Uninitialized → DeviceReady → ResourcesReady → DescriptorsReady →
//	PipelineReady → CommandListReady → Executed → ReadBackComplete
//
// Run drives all phases in order. Each phase records GPU commands, submits
// them as one batch, and blocks until the batch completes before
// returning, so results are deterministic. An Engine is single-threaded
// and runs one op; create a fresh Engine per run.
package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/shaderop"
	"github.com/gogpu/shaderop/rootsig"
)

// State identifies the engine's position in the run state machine.
type State int

const (
	StateUninitialized State = iota
	StateDeviceReady
	StateResourcesReady
	StateDescriptorsReady
	StatePipelineReady
	StateCommandListReady
	StateExecuted
	StateReadBackComplete
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateDeviceReady:
		return "DeviceReady"
	case StateResourcesReady:
		return "ResourcesReady"
	case StateDescriptorsReady:
		return "DescriptorsReady"
	case StatePipelineReady:
		return "PipelineReady"
	case StateCommandListReady:
		return "CommandListReady"
	case StateExecuted:
		return "Executed"
	case StateReadBackComplete:
		return "ReadBackComplete"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Sentinel errors for the run state machine and the device path.
var (
	// ErrState reports a phase invoked out of order or re-entered.
	ErrState = errors.New("engine: invalid state for operation")

	// ErrNoAdapter reports that adapter selection matched nothing.
	ErrNoAdapter = errors.New("engine: no matching GPU adapter")

	// ErrDeviceRemoved reports a device-loss condition. The wrapped message
	// carries the best-effort removal reason.
	ErrDeviceRemoved = errors.New("engine: device removed")
)

// InitFunc fills a by-name-initialized resource. It receives the resource
// name and the initializer buffer sized to the declared width, and returns
// the buffer to upload; returning a different length resizes a buffer
// resource accordingly.
type InitFunc func(name string, data []byte) []byte

// Option configures an Engine.
type Option func(*options)

type options struct {
	logger          *slog.Logger
	adapterName     string
	softwareAdapter bool
	device          hal.Device
	queue           hal.Queue
	compiler        Compiler
	initFn          InitFunc
}

// WithLogger gives the engine its own logger instead of the package-wide
// one set via shaderop.SetLogger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithAdapterName selects hardware adapters whose reported name contains
// the given substring (case-insensitive). An op's own AdapterName, when
// set, takes precedence.
func WithAdapterName(name string) Option {
	return func(o *options) { o.adapterName = name }
}

// WithSoftwareAdapter selects a CPU/emulated adapter instead of hardware.
func WithSoftwareAdapter() Option {
	return func(o *options) { o.softwareAdapter = true }
}

// WithDevice injects an externally owned device/queue pair. CreateDevice
// becomes a no-op and Close will not destroy the device.
func WithDevice(device hal.Device, queue hal.Queue) Option {
	return func(o *options) {
		o.device = device
		o.queue = queue
	}
}

// WithCompiler replaces the default naga-backed shader compiler.
func WithCompiler(c Compiler) Option {
	return func(o *options) { o.compiler = c }
}

// WithInitFunc supplies the by-name resource initialization callback.
func WithInitFunc(fn InitFunc) Option {
	return func(o *options) { o.initFn = fn }
}

// Engine executes one ShaderOp. All fields are owned by the single
// goroutine driving the run; the engine takes no locks.
type Engine struct {
	log      *slog.Logger
	opts     options
	compiler Compiler

	op *shaderop.ShaderOp

	instance       hal.Instance
	device         hal.Device
	queue          hal.Queue
	externalDevice bool
	lastSubmission uint64

	state State

	resources map[string]*resourceData
	heaps     map[string]*heapData
	compiled  map[string][]byte
	readbacks map[string]*MappedData

	sig      *rootsig.Signature
	pipeline pipelineState

	encoder hal.CommandEncoder

	stats PipelineStatistics
}

// New creates an engine. Device creation is deferred to the CreateDevice
// phase (or skipped entirely when WithDevice injected one).
func New(opts ...Option) (*Engine, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	e := &Engine{
		opts:      o,
		resources: make(map[string]*resourceData),
		heaps:     make(map[string]*heapData),
		compiled:  make(map[string][]byte),
		readbacks: make(map[string]*MappedData),
	}
	e.log = o.logger
	if e.log == nil {
		e.log = shaderop.Logger()
	}
	e.compiler = o.compiler
	if e.compiler == nil {
		e.compiler = NewNagaCompiler()
	}
	if o.device != nil {
		e.device = o.device
		e.queue = o.queue
		e.externalDevice = true
	}
	return e, nil
}

// Run executes op through all phases in order. Any failure aborts the run
// immediately; the engine is not reusable after a failed run.
func (e *Engine) Run(op *shaderop.ShaderOp) error {
	e.op = op
	if err := e.CreateDevice(); err != nil {
		return err
	}
	if err := e.CreateResources(); err != nil {
		return err
	}
	if err := e.CreateDescriptorHeaps(); err != nil {
		return err
	}
	if err := e.CreatePipelineState(); err != nil {
		return err
	}
	if err := e.CreateCommandList(); err != nil {
		return err
	}
	if err := e.RunCommandList(); err != nil {
		return err
	}
	return e.CopyBackResources()
}

// State returns the engine's current phase.
func (e *Engine) State() State { return e.state }

// requireState guards each phase's precondition.
func (e *Engine) requireState(want State) error {
	if e.state != want {
		return fmt.Errorf("%w: in %s, want %s", ErrState, e.state, want)
	}
	return nil
}

// submitAndWait submits cmdBuf as one batch and blocks until the device
// drains. Submission indices increase monotonically; after the idle wait
// the queue must report the batch complete.
func (e *Engine) submitAndWait(cmdBuf hal.CommandBuffer) error {
	defer e.device.FreeCommandBuffer(cmdBuf)
	index, err := e.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return e.deviceError("submit", err)
	}
	if err := e.device.WaitIdle(); err != nil {
		return e.deviceError("wait idle", err)
	}
	if completed := e.queue.PollCompleted(); completed < index {
		return fmt.Errorf("engine: submission %d did not complete (highest completed %d)", index, completed)
	}
	e.lastSubmission = index
	e.log.Debug("batch complete", "submission", index)
	return nil
}

// Close releases all runtime state. Externally injected devices are left
// alive; everything the engine created is destroyed.
func (e *Engine) Close() {
	e.destroyPipeline()
	e.destroyHeaps()
	e.destroyResources()
	if !e.externalDevice {
		if e.device != nil {
			e.device.Destroy()
			e.device = nil
		}
		if e.instance != nil {
			e.instance.Destroy()
			e.instance = nil
		}
	}
	e.state = StateUninitialized
}
