package sandbox

import (
	"context"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/biancatoto3/blockstep/pkg/domain"
	"github.com/biancatoto3/blockstep/pkg/ports"
)

// callStackSize bounds recursion inside a program. Demo programs are flat;
// anything deep enough to hit this is a runaway.
const callStackSize = 128

// Selected standard libraries opened inside the sandbox. os and io stay out;
// the program reaches the host only through the API table.
var openLibs = []struct {
	name string
	fn   lua.LGFunction
}{
	{lua.LoadLibName, lua.OpenPackage}, // must come first per gopher-lua docs
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
}

// Globals removed after the libraries are opened. They load code from
// outside the program, which the sandbox does not allow.
var blockedGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"print", // only reachable as an explicit API binding
}

// Factory builds sandboxed evaluators. One factory serves many runs; every
// run gets a fresh VM.
type Factory struct {
	timeout time.Duration
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithRunTimeout bounds the total VM time of one program. Zero means no
// bound. Programs exceeding it fault on their next slice.
func WithRunTimeout(d time.Duration) FactoryOption {
	return func(f *Factory) {
		f.timeout = d
	}
}

// NewFactory creates a Factory.
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// New constructs an evaluator for the program bound to the given API table.
// It fails fast: missing host bindings and syntax errors surface here, before
// the first slice runs.
func (f *Factory) New(program domain.Program, api *domain.APITable) (ports.Evaluator, error) {
	if api == nil {
		api = domain.NewAPITable()
	}
	if err := api.Validate(program.Requires); err != nil {
		return nil, err
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs:  true,
		CallStackSize: callStackSize,
	})

	m := &Machine{root: L}
	if f.timeout > 0 {
		m.ctx, m.cancel = context.WithTimeout(context.Background(), f.timeout)
		L.SetContext(m.ctx)
	} else {
		m.ctx, m.cancel = context.WithCancel(context.Background())
	}

	if err := openSelectedLibs(L); err != nil {
		m.cancel()
		L.Close()
		return nil, fmt.Errorf("failed to initialize sandbox: %w", err)
	}
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}

	// Install the full API surface. Everything in the table is callable,
	// nothing else is.
	for _, name := range api.Names() {
		if fn, ok := api.Sync(name); ok {
			L.SetGlobal(name, L.NewFunction(m.bindSync(name, fn)))
			continue
		}
		if fn, ok := api.Async(name); ok {
			L.SetGlobal(name, L.NewFunction(m.bindAsync(name, fn)))
		}
	}

	fn, err := L.LoadString(program.Source)
	if err != nil {
		m.cancel()
		L.Close()
		return nil, fmt.Errorf("program does not compile: %w", err)
	}
	m.fn = fn
	m.thread, _ = L.NewThread()

	return m, nil
}

func openSelectedLibs(L *lua.LState) error {
	for _, lib := range openLibs {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			return fmt.Errorf("open %s: %w", lib.name, err)
		}
	}
	return nil
}
