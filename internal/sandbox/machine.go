package sandbox

import (
	"context"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/biancatoto3/blockstep/pkg/domain"
)

// Machine is one sandboxed program instance on a gopher-lua VM. The program
// body runs as a coroutine so the host can execute it slice by slice: async
// host calls yield the coroutine, and the next resumption carries the
// continuation's result back in.
//
// A Machine is driven by a single goroutine (the execution loop). Only the
// pending-continuation slot is touched from other goroutines, through the
// Continuation handed to async host functions.
type Machine struct {
	root   *lua.LState
	thread *lua.LState
	fn     *lua.LFunction

	ctx    context.Context
	cancel context.CancelFunc

	pending *pendingCall
	done    bool
	closed  bool
}

// pendingCall is the landing slot for one async host call result. complete
// may be called from any goroutine, at any time, at most once with effect;
// late or duplicate calls are dropped.
type pendingCall struct {
	mu     sync.Mutex
	fired  bool
	result any
}

func (p *pendingCall) complete(result any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fired {
		return
	}
	p.fired = true
	p.result = result
}

func (p *pendingCall) take() (any, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result, p.fired
}

// ResumeOnce executes at most one slice of the program.
//
// While an async host call is outstanding and its continuation has not fired
// yet, ResumeOnce returns StepBlocked without touching the VM. Once the
// result landed, the coroutine is resumed with it.
func (m *Machine) ResumeOnce() (domain.StepStatus, error) {
	if m.closed || m.done {
		return domain.StepComplete, nil
	}

	var resumeArgs []lua.LValue
	if m.pending != nil {
		result, fired := m.pending.take()
		if !fired {
			return domain.StepBlocked, nil
		}
		m.pending = nil
		if lv := toLua(m.root, result); lv != lua.LNil {
			resumeArgs = append(resumeArgs, lv)
		}
	}

	st, err, _ := m.root.Resume(m.thread, m.fn, resumeArgs...)
	switch st {
	case lua.ResumeYield:
		return domain.StepBlocked, nil
	case lua.ResumeOK:
		m.done = true
		return domain.StepComplete, nil
	default:
		m.done = true
		return "", &domain.FaultError{Detail: err.Error(), Err: err}
	}
}

// Close releases the VM. Safe to call more than once. Continuations firing
// after Close hit a detached slot and are dropped.
func (m *Machine) Close() {
	if m.closed {
		return
	}
	m.closed = true
	if m.cancel != nil {
		m.cancel()
	}
	m.root.Close()
}

// bindSync wraps a synchronous host function as a Lua global. The program
// resumes with the returned value immediately.
func (m *Machine) bindSync(name string, fn domain.SyncFunc) lua.LGFunction {
	return func(ls *lua.LState) int {
		args := popArgs(ls)
		result, err := fn(m.ctx, args)
		if err != nil {
			ls.RaiseError("%s: %v", name, err)
			return 0
		}
		if result == nil {
			return 0
		}
		ls.Push(toLua(ls, result))
		return 1
	}
}

// bindAsync wraps an asynchronous host function. The call parks its result
// slot on the machine and yields; the loop resumes the coroutine after the
// continuation fires. A continuation that fires before the host function
// returns short-circuits without yielding.
func (m *Machine) bindAsync(name string, fn domain.AsyncFunc) lua.LGFunction {
	return func(ls *lua.LState) int {
		args := popArgs(ls)
		pending := &pendingCall{}
		if err := fn(m.ctx, args, pending.complete); err != nil {
			ls.RaiseError("%s: %v", name, err)
			return 0
		}
		if result, fired := pending.take(); fired {
			if result == nil {
				return 0
			}
			ls.Push(toLua(ls, result))
			return 1
		}
		m.pending = pending
		return ls.Yield()
	}
}

// popArgs converts the Lua call arguments to plain Go values.
func popArgs(ls *lua.LState) []any {
	n := ls.GetTop()
	if n == 0 {
		return nil
	}
	args := make([]any, 0, n)
	for i := 1; i <= n; i++ {
		args = append(args, toGo(ls.Get(i)))
	}
	return args
}

func toGo(v lua.LValue) any {
	switch lv := v.(type) {
	case lua.LNumber:
		return float64(lv)
	case lua.LString:
		return string(lv)
	case lua.LBool:
		return bool(lv)
	case *lua.LNilType:
		return nil
	default:
		return lv.String()
	}
}

func toLua(ls *lua.LState, v any) lua.LValue {
	switch gv := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(gv)
	case int:
		return lua.LNumber(gv)
	case int64:
		return lua.LNumber(gv)
	case float64:
		return lua.LNumber(gv)
	case string:
		return lua.LString(gv)
	default:
		return lua.LString(fmt.Sprintf("%v", gv))
	}
}
