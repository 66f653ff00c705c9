package mirror

import "reflect"

type baseFuncObject struct {
	baseObject

	nameProp, lenProp valueProperty
}

// nativeFuncObject is a function backed by a Go closure. construct is nil
// for functions that cannot be used as constructors.
type nativeFuncObject struct {
	baseFuncObject

	f         func(FunctionCall) Value
	construct func(args []Value, newTarget *Object) *Object
}

func (f *nativeFuncObject) export() interface{} {
	return f.f
}

func (f *nativeFuncObject) exportType() reflect.Type {
	return reflect.TypeOf(f.f)
}

func (f *nativeFuncObject) assertCallable() (func(FunctionCall) Value, bool) {
	if f.f != nil {
		return f.f, true
	}
	return nil, false
}

func (f *nativeFuncObject) assertConstructor() func(args []Value, newTarget *Object) *Object {
	return f.construct
}

func (f *baseFuncObject) init(name string, length int) {
	f.baseObject.init()

	f.nameProp.configurable = true
	f.nameProp.value = newStringValue(name)
	f._put("name", &f.nameProp)

	f.lenProp.configurable = true
	f.lenProp.value = intToValue(int64(length))
	f._put("length", &f.lenProp)
}

// getPrototypeFromCtor resolves the prototype for a newly constructed object
// from newTarget's "prototype" property, falling back to defProto when it is
// not an object. Passing a nil newTarget is equivalent to passing defCtor.
func (r *Runtime) getPrototypeFromCtor(newTarget, defCtor, defProto *Object) *Object {
	if newTarget == defCtor {
		return defProto
	}
	if newTarget != nil {
		if proto, ok := newTarget.self.getStr("prototype", nil).(*Object); ok {
			return proto
		}
	}
	return defProto
}

func (f *baseFuncObject) createInstance(newTarget *Object) *Object {
	r := f.val.runtime
	proto := r.getPrototypeFromCtor(newTarget, nil, r.global.ObjectPrototype)
	return r.newBaseObject(proto, classObject).val
}

// defaultConstruct implements the ordinary [[Construct]] behaviour for
// native constructors: create the instance from newTarget's prototype, run
// the function with it as this, and let an object return value override it.
func (f *baseFuncObject) defaultConstruct(call func(ConstructorCall) Value, args []Value, newTarget *Object) *Object {
	if newTarget == nil {
		newTarget = f.val
	}
	obj := f.createInstance(newTarget)
	ret := call(ConstructorCall{
		This:      obj,
		NewTarget: newTarget,
		Arguments: args,
	})

	if ret, ok := ret.(*Object); ok {
		return ret
	}
	return obj
}
