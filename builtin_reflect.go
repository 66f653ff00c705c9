package mirror

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Op identifies a reflective routine. The values are stable and index the
// routine table.
type Op int

const (
	OpGet Op = iota
	OpSet
	OpHas
	OpDeleteProperty
	OpOwnKeys
	OpGetPrototypeOf
	OpSetPrototypeOf
	OpApply
	OpConstruct
	OpDefineProperty
	OpGetOwnPropertyDescriptor
	OpIsExtensible
	OpPreventExtensions

	opCount
)

func (op Op) String() string {
	if op >= 0 && op < opCount {
		return reflectRoutines[op].name
	}
	return "unknown"
}

// reflectRoutine describes one reflective routine: its name (also the
// property name on the Reflect object), its function length, how argument 0
// is validated (ctor selects constructor capability instead of the plain
// object check), whether a property key is derived from argument 1 before
// the handler runs, and whether delegate failures are suppressed into a
// boolean result.
type reflectRoutine struct {
	name     string
	length   int
	ctor     bool
	key      bool
	suppress bool
	handler  func(*Runtime, *Object, Value, FunctionCall) Value
}

var reflectRoutines = [opCount]reflectRoutine{
	OpGet:                      {name: "get", length: 2, key: true, handler: (*Runtime).builtin_reflect_get},
	OpSet:                      {name: "set", length: 3, key: true, handler: (*Runtime).builtin_reflect_set},
	OpHas:                      {name: "has", length: 2, key: true, handler: (*Runtime).builtin_reflect_has},
	OpDeleteProperty:           {name: "deleteProperty", length: 2, key: true, handler: (*Runtime).builtin_reflect_deleteProperty},
	OpOwnKeys:                  {name: "ownKeys", length: 1, handler: (*Runtime).builtin_reflect_ownKeys},
	OpGetPrototypeOf:           {name: "getPrototypeOf", length: 1, handler: (*Runtime).builtin_reflect_getPrototypeOf},
	OpSetPrototypeOf:           {name: "setPrototypeOf", length: 2, suppress: true, handler: (*Runtime).builtin_reflect_setPrototypeOf},
	OpApply:                    {name: "apply", length: 3, handler: (*Runtime).builtin_reflect_apply},
	OpConstruct:                {name: "construct", length: 2, ctor: true, handler: (*Runtime).builtin_reflect_construct},
	OpDefineProperty:           {name: "defineProperty", length: 3, key: true, suppress: true, handler: (*Runtime).builtin_reflect_defineProperty},
	OpGetOwnPropertyDescriptor: {name: "getOwnPropertyDescriptor", length: 2, key: true, handler: (*Runtime).builtin_reflect_getOwnPropertyDescriptor},
	OpIsExtensible:             {name: "isExtensible", length: 1, handler: (*Runtime).builtin_reflect_isExtensible},
	OpPreventExtensions:        {name: "preventExtensions", length: 1, handler: (*Runtime).builtin_reflect_preventExtensions},
}

func (r *Runtime) requireObject(v Value) *Object {
	if obj, ok := v.(*Object); ok {
		return obj
	}
	panic(r.NewTypeError("Argument is not an Object."))
}

// toConstructor returns v as an object after asserting construct capability.
func (r *Runtime) toConstructor(v Value) *Object {
	if obj, ok := v.(*Object); ok {
		if obj.self.assertConstructor() != nil {
			return obj
		}
	}
	panic(r.NewTypeError("Target is not a constructor"))
}

// Dispatch invokes the reflective routine identified by op. this is
// accepted for call-shape symmetry with the namespace object but ignored
// (the routines are this-insensitive); args become the routine's argument
// list, with undefined substituted for omitted trailing arguments. Engine
// failures are returned as *Exception.
func (r *Runtime) Dispatch(op Op, this Value, args ...Value) (ret Value, err error) {
	if op < 0 || op >= opCount {
		return nil, fmt.Errorf("invalid routine identifier %d", int(op))
	}
	ex := r.try(func() {
		ret = r.dispatchReflect(op, FunctionCall{This: nilSafe(this), Arguments: args})
	})
	if ex != nil {
		return nil, ex
	}
	return ret, nil
}

// dispatchReflect is the single pipeline behind both call surfaces:
// validate argument 0 per the routine's group, derive the property key
// where declared, then run the handler, suppressing delegate failures
// into a boolean for the routines marked so.
func (r *Runtime) dispatchReflect(op Op, call FunctionCall) Value {
	routine := &reflectRoutines[op]

	if hook := r.hook; hook != nil {
		if res := hook.BeforeOp(r, op, call.Argument(0)); res == HookResultAbort {
			panic(r.NewTypeError("%s dispatch aborted by hook", routine.name))
		}
	}

	if atomic.LoadInt32(&globalProfiler.enabled) == 1 {
		start := time.Now()
		defer func() {
			globalProfiler.p.record(op, time.Since(start))
		}()
	}

	var target *Object
	if routine.ctor {
		target = r.toConstructor(call.Argument(0))
	} else {
		target = r.requireObject(call.Argument(0))
	}

	var key Value
	if routine.key {
		key = toPropertyKey(call.Argument(1))
	}

	var ret Value
	if routine.suppress {
		if r.suppressedResult(func() {
			routine.handler(r, target, key, call)
		}) {
			ret = valueTrue
		} else {
			if hook := r.hook; hook != nil {
				hook.OnSuppressed(r, op)
			}
			ret = valueFalse
		}
	} else {
		ret = routine.handler(r, target, key, call)
	}

	if hook := r.hook; hook != nil {
		hook.AfterOp(r, op, ret)
	}
	return ret
}

// suppressedResult runs the delegate and reports whether it completed.
// Engine failures are consumed and discarded without logging; any other
// panic value keeps unwinding.
func (r *Runtime) suppressedResult(f func()) (completed bool) {
	defer func() {
		if x := recover(); x != nil {
			// exceptionFromPanic re-panics values that are not engine
			// failures
			r.exceptionFromPanic(x)
			completed = false
		}
	}()
	f()
	return true
}

func (r *Runtime) builtin_reflect_get(target *Object, key Value, call FunctionCall) Value {
	receiver := Value(target)
	if len(call.Arguments) > 2 {
		receiver = call.Arguments[2]
	}
	return nilSafe(target.get(key, receiver))
}

func (r *Runtime) builtin_reflect_set(target *Object, key Value, call FunctionCall) Value {
	receiver := Value(target)
	if len(call.Arguments) > 3 {
		receiver = call.Arguments[3]
	}
	return r.toBoolean(target.set(key, call.Argument(2), receiver, false))
}

func (r *Runtime) builtin_reflect_has(target *Object, key Value, call FunctionCall) Value {
	return r.toBoolean(target.hasProperty(key))
}

func (r *Runtime) builtin_reflect_deleteProperty(target *Object, key Value, call FunctionCall) Value {
	return r.toBoolean(target.delete(key, false))
}

func (r *Runtime) builtin_reflect_ownKeys(target *Object, key Value, call FunctionCall) Value {
	return r.newArrayValues(target.self.keys(true, nil))
}

func (r *Runtime) builtin_reflect_getPrototypeOf(target *Object, key Value, call FunctionCall) Value {
	if proto := target.self.proto(); proto != nil {
		return proto
	}
	return _null
}

func (r *Runtime) builtin_reflect_setPrototypeOf(target *Object, key Value, call FunctionCall) Value {
	var proto *Object
	if arg := call.Argument(1); arg != _null {
		if obj, ok := arg.(*Object); ok {
			proto = obj
		} else {
			panic(r.NewTypeError("Object prototype may only be an Object or null: %s", arg.String()))
		}
	}
	target.self.setProto(proto, true)
	return valueTrue
}

func (r *Runtime) builtin_reflect_apply(target *Object, key Value, call FunctionCall) Value {
	f, ok := target.self.assertCallable()
	if !ok {
		panic(r.NewTypeError("Argument 'this' is not a function."))
	}
	var args []Value
	if arg := call.Argument(2); arg != _undefined && arg != _null {
		args = r.createListFromArrayLike(arg)
	}
	return nilSafe(f(FunctionCall{
		This:      call.Argument(1),
		Arguments: args,
	}))
}

func (r *Runtime) builtin_reflect_construct(target *Object, key Value, call FunctionCall) Value {
	newTarget := target
	if len(call.Arguments) > 2 {
		newTarget = r.toConstructor(call.Arguments[2])
	}
	if len(call.Arguments) < 2 {
		panic(r.NewTypeError("Reflect.construct requires the second argument be an object"))
	}
	args := r.createListFromArrayLike(call.Arguments[1])
	return target.self.assertConstructor()(args, newTarget)
}

func (r *Runtime) builtin_reflect_defineProperty(target *Object, key Value, call FunctionCall) Value {
	descr := r.toPropertyDescriptor(call.Argument(2))
	target.defineOwnProperty(key, descr, true)
	return valueTrue
}

func (r *Runtime) builtin_reflect_getOwnPropertyDescriptor(target *Object, key Value, call FunctionCall) Value {
	return r.valuePropToDescriptorObject(target.getOwnProp(key))
}

func (r *Runtime) builtin_reflect_isExtensible(target *Object, key Value, call FunctionCall) Value {
	return r.toBoolean(target.self.isExtensible())
}

func (r *Runtime) builtin_reflect_preventExtensions(target *Object, key Value, call FunctionCall) Value {
	return r.toBoolean(target.self.preventExtensions(false))
}

func (r *Runtime) newReflectFunc(op Op) *Object {
	routine := &reflectRoutines[op]
	return r.newNativeFunc(func(call FunctionCall) Value {
		return r.dispatchReflect(op, call)
	}, routine.name, routine.length)
}

// ReflectObject returns the Reflect namespace object. Its function
// properties bind the routine identifiers to the same pipeline Dispatch
// uses. The object is initialized lazily on first property access.
func (r *Runtime) ReflectObject() *Object {
	return r.global.Reflect
}

func (r *Runtime) createReflect(val *Object) objectImpl {
	o := newBaseObjectObj(val, r.global.ObjectPrototype, classObject)

	for op := OpGet; op < opCount; op++ {
		routine := &reflectRoutines[op]
		o._putProp(routine.name, r.newReflectFunc(op), true, false, true)
	}
	o._putSym(SymToStringTag, valueProp(newStringValue("Reflect"), false, false, true))

	return o
}

func (r *Runtime) initReflect() {
	r.global.Reflect = r.newLazyObject(r.createReflect)
	r.addToGlobal("Reflect", r.global.Reflect)
}
