package mirror

// HookResult indicates what action the dispatcher should take after a hook
// returns.
type HookResult int

const (
	// HookResultContinue tells the dispatcher to continue normally.
	HookResultContinue HookResult = iota

	// HookResultAbort tells the dispatcher to abandon the operation.
	// The abort is surfaced as a TypeError.
	HookResultAbort
)

// DispatchHook is the interface for dispatch instrumentation.
// The dispatcher calls these methods around every reflective routine.
// Can be used to build tracers, access monitors, test probes, etc.
//
// For convenience, embed BaseDispatchHook to get no-op implementations
// of all methods, then override only the ones you need.
type DispatchHook interface {
	// BeforeOp is called before any validation of the routine's arguments.
	// target is the raw argument 0 as passed by the caller.
	BeforeOp(rt *Runtime, op Op, target Value) HookResult

	// AfterOp is called after the routine completed without propagating a
	// failure. result is the value the routine returns (for suppressing
	// routines this is the final boolean).
	AfterOp(rt *Runtime, op Op, result Value)

	// OnSuppressed is called when a suppressing routine consumed a
	// delegate failure and is about to report false.
	OnSuppressed(rt *Runtime, op Op)
}

// BaseDispatchHook provides no-op implementations of all DispatchHook
// methods. Embed this struct and override only the methods you need.
//
// Example:
//
//	type MyHook struct {
//	    mirror.BaseDispatchHook
//	}
//
//	func (h *MyHook) BeforeOp(rt *mirror.Runtime, op mirror.Op, target mirror.Value) mirror.HookResult {
//	    // your implementation
//	    return mirror.HookResultContinue
//	}
type BaseDispatchHook struct{}

func (BaseDispatchHook) BeforeOp(rt *Runtime, op Op, target Value) HookResult {
	return HookResultContinue
}

func (BaseDispatchHook) AfterOp(rt *Runtime, op Op, result Value) {}

func (BaseDispatchHook) OnSuppressed(rt *Runtime, op Op) {}

// SetDispatchHook installs a dispatch hook on the runtime, replacing any
// previously installed one. Passing nil removes the hook.
func (r *Runtime) SetDispatchHook(hook DispatchHook) {
	r.hook = hook
}

// GetDispatchHook returns the currently installed dispatch hook, or nil.
func (r *Runtime) GetDispatchHook() DispatchHook {
	return r.hook
}
