// Package plugin runs user-supplied Lua lifecycle hooks.
//
// A hook script may define any of the global functions on_narrow(source,
// language), on_sync(source), and on_widen(source). Absent functions are
// skipped; a failing hook is logged and never propagates into the
// session state machine.
//
// gopher-lua's LState is not goroutine-safe, so all Lua work is
// marshalled onto a single worker goroutine through a buffered queue.
package plugin

import (
	"sync"

	"github.com/tliron/commonlog"
	lua "github.com/yuin/gopher-lua"
)

// queueSize bounds buffered hook invocations. Hooks that cannot keep up
// are dropped rather than stalling the session event path.
const queueSize = 64

// Hooks dispatches session lifecycle events to a Lua script. It
// implements the narrow package's Notifier interface.
type Hooks struct {
	queue chan func(*lua.LState)
	done  chan struct{}
	log   commonlog.Logger

	closeOnce sync.Once
}

// Load compiles and runs the hook script at path, then starts the worker
// goroutine that owns the Lua state.
func Load(path string) (*Hooks, error) {
	L := lua.NewState()
	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, err
	}

	h := &Hooks{
		queue: make(chan func(*lua.LState), queueSize),
		done:  make(chan struct{}),
		log:   commonlog.GetLogger("narrowd.plugin"),
	}
	go h.run(L)
	return h, nil
}

// Close stops the worker and releases the Lua state. Queued hook calls
// still run before the state is closed.
func (h *Hooks) Close() {
	h.closeOnce.Do(func() {
		close(h.queue)
		<-h.done
	})
}

// NarrowStarted invokes on_narrow(source, language).
func (h *Hooks) NarrowStarted(source, language string) {
	h.call("on_narrow", lua.LString(source), lua.LString(language))
}

// Synced invokes on_sync(source).
func (h *Hooks) Synced(source string) {
	h.call("on_sync", lua.LString(source))
}

// Widened invokes on_widen(source).
func (h *Hooks) Widened(source string) {
	h.call("on_widen", lua.LString(source))
}

// run owns the Lua state; every operation on it happens here.
func (h *Hooks) run(L *lua.LState) {
	defer close(h.done)
	defer L.Close()
	for fn := range h.queue {
		h.invoke(L, fn)
	}
}

// invoke runs one queued operation with panic recovery, so a hostile
// script cannot take the server down.
func (h *Hooks) invoke(L *lua.LState, fn func(*lua.LState)) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Errorf("hook panic: %v", r)
		}
	}()
	fn(L)
}

// call enqueues a Lua function invocation without blocking the caller.
func (h *Hooks) call(name string, args ...lua.LValue) {
	op := func(L *lua.LState) {
		fn := L.GetGlobal(name)
		if fn.Type() != lua.LTFunction {
			return
		}
		if err := L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...); err != nil {
			h.log.Warningf("hook %s failed: %v", name, err)
		}
	}

	defer func() {
		// Enqueueing on a closed queue loses the race with Close; the
		// event is dropped, which is the documented behavior.
		if recover() != nil {
			h.log.Debugf("hook %s dropped after close", name)
		}
	}()
	select {
	case h.queue <- op:
	default:
		h.log.Warningf("hook %s dropped, queue full", name)
	}
}
