package mirror

import (
	"testing"
)

// testHook is a mock dispatch hook for testing
type testHook struct {
	beforeOp     func(rt *Runtime, op Op, target Value) HookResult
	afterOp      func(rt *Runtime, op Op, result Value)
	onSuppressed func(rt *Runtime, op Op)
}

func (h *testHook) BeforeOp(rt *Runtime, op Op, target Value) HookResult {
	if h.beforeOp != nil {
		return h.beforeOp(rt, op, target)
	}
	return HookResultContinue
}

func (h *testHook) AfterOp(rt *Runtime, op Op, result Value) {
	if h.afterOp != nil {
		h.afterOp(rt, op, result)
	}
}

func (h *testHook) OnSuppressed(rt *Runtime, op Op) {
	if h.onSuppressed != nil {
		h.onSuppressed(rt, op)
	}
}

func TestDispatchHookInterfaceCompiles(t *testing.T) {
	// Verify the interface compiles and both implementations satisfy it
	var _ DispatchHook = (*testHook)(nil)
	var _ DispatchHook = BaseDispatchHook{}
}

func TestDispatchHookAttachDetach(t *testing.T) {
	rt := New()
	h := &testHook{}

	if rt.GetDispatchHook() != nil {
		t.Error("Expected nil hook initially")
	}

	rt.SetDispatchHook(h)
	if rt.GetDispatchHook() != h {
		t.Error("Expected hook to be attached")
	}

	rt.SetDispatchHook(nil)
	if rt.GetDispatchHook() != nil {
		t.Error("Expected hook to be detached")
	}
}

func TestDispatchHookSequence(t *testing.T) {
	rt := New()
	target := rt.NewObject()
	if err := target.Set("x", 42); err != nil {
		t.Fatal(err)
	}

	var events []string
	var seenTarget, seenResult Value
	rt.SetDispatchHook(&testHook{
		beforeOp: func(_ *Runtime, op Op, target Value) HookResult {
			events = append(events, "before:"+op.String())
			seenTarget = target
			return HookResultContinue
		},
		afterOp: func(_ *Runtime, op Op, result Value) {
			events = append(events, "after:"+op.String())
			seenResult = result
		},
	})

	v := testDispatch(t, rt, OpGet, target, newStringValue("x"))
	if !v.StrictEquals(valueInt(42)) {
		t.Fatalf("Unexpected value: %v", v)
	}

	if len(events) != 2 || events[0] != "before:get" || events[1] != "after:get" {
		t.Fatalf("Unexpected events: %v", events)
	}
	if !seenTarget.SameAs(target) {
		t.Error("BeforeOp did not receive the target")
	}
	if !seenResult.StrictEquals(valueInt(42)) {
		t.Error("AfterOp did not receive the result")
	}
}

func TestDispatchHookAbort(t *testing.T) {
	rt := New()
	target := rt.NewObject()
	rt.SetDispatchHook(&testHook{
		beforeOp: func(_ *Runtime, op Op, _ Value) HookResult {
			if op == OpSet {
				return HookResultAbort
			}
			return HookResultContinue
		},
	})

	_, err := rt.Dispatch(OpSet, nil, target, newStringValue("x"), valueInt(1))
	if err == nil {
		t.Fatal("expected an error")
	}
	if err.Error() != "TypeError: set dispatch aborted by hook" {
		t.Fatalf("Unexpected error: %v", err)
	}
	if target.Has("x") {
		t.Fatal("the aborted operation still ran")
	}

	// other routines are unaffected
	testDispatch(t, rt, OpGet, target, newStringValue("x"))
}

func TestDispatchHookBeforeValidation(t *testing.T) {
	rt := New()
	var seenTarget Value
	var called bool
	rt.SetDispatchHook(&testHook{
		beforeOp: func(_ *Runtime, op Op, target Value) HookResult {
			called = true
			seenTarget = target
			return HookResultContinue
		},
	})

	// the hook observes the raw argument even when validation then fails
	_, err := rt.Dispatch(OpGet, nil, valueInt(1), newStringValue("x"))
	if err == nil {
		t.Fatal("expected an error")
	}
	if !called {
		t.Fatal("BeforeOp was not called")
	}
	if !seenTarget.StrictEquals(valueInt(1)) {
		t.Fatalf("Unexpected target: %v", seenTarget)
	}
}

func TestDispatchHookOnSuppressed(t *testing.T) {
	rt := New()
	target := rt.NewObject()
	if err := target.DefineDataProperty("pinned", valueInt(1), FLAG_FALSE, FLAG_FALSE, FLAG_FALSE); err != nil {
		t.Fatal(err)
	}

	var suppressed []string
	var afterResult Value
	rt.SetDispatchHook(&testHook{
		afterOp: func(_ *Runtime, op Op, result Value) {
			afterResult = result
		},
		onSuppressed: func(_ *Runtime, op Op) {
			suppressed = append(suppressed, op.String())
		},
	})

	descr := rt.NewObject()
	if err := descr.Set("value", 2); err != nil {
		t.Fatal(err)
	}
	v := testDispatch(t, rt, OpDefineProperty, target, newStringValue("pinned"), descr)
	if v != valueFalse {
		t.Fatal("expected false")
	}
	if len(suppressed) != 1 || suppressed[0] != "defineProperty" {
		t.Fatalf("Unexpected suppressed events: %v", suppressed)
	}
	if afterResult != valueFalse {
		t.Fatal("AfterOp did not see the final boolean")
	}

	// a successful suppressing routine does not report a suppression
	suppressed = nil
	v = testDispatch(t, rt, OpSetPrototypeOf, target, _null)
	if v != valueTrue {
		t.Fatal("expected true")
	}
	if len(suppressed) != 0 {
		t.Fatalf("Unexpected suppressed events: %v", suppressed)
	}
}

func TestWithDispatchHook(t *testing.T) {
	var ops []Op
	h := &testHook{
		afterOp: func(_ *Runtime, op Op, _ Value) {
			ops = append(ops, op)
		},
	}
	rt := New(WithDispatchHook(h))
	if rt.GetDispatchHook() != h {
		t.Fatal("the option did not install the hook")
	}

	testDispatch(t, rt, OpIsExtensible, rt.NewObject())
	if len(ops) != 1 || ops[0] != OpIsExtensible {
		t.Fatalf("Unexpected ops: %v", ops)
	}
}

// countingHook demonstrates the embedding pattern: only the methods of
// interest are overridden.
type countingHook struct {
	BaseDispatchHook
	count int
}

func (h *countingHook) AfterOp(rt *Runtime, op Op, result Value) {
	h.count++
}

func TestBaseDispatchHookEmbedding(t *testing.T) {
	rt := New()
	h := &countingHook{}
	rt.SetDispatchHook(h)

	target := rt.NewObject()
	testDispatch(t, rt, OpIsExtensible, target)
	testDispatch(t, rt, OpPreventExtensions, target)

	if h.count != 2 {
		t.Fatalf("Unexpected count: %d", h.count)
	}
}
