package mirror

import (
	"fmt"
	"math"
	"math/bits"
	"strconv"
)

const maxInt = 1 << 53

type global struct {
	Reflect *Object

	ObjectPrototype    *Object
	FunctionPrototype  *Object
	ArrayPrototype     *Object
	ErrorPrototype     *Object
	TypeErrorPrototype *Object
}

// Runtime hosts the object model and the reflection dispatcher. It is not
// goroutine-safe: a Runtime and all Values derived from it may only be used
// by a single goroutine at a time.
type Runtime struct {
	global       global
	globalObject *Object

	hook DispatchHook
}

// New creates a Runtime configured by the supplied options.
func New(opts ...Option) *Runtime {
	o := defaultOptions
	for _, opt := range opts {
		opt.apply(&o)
	}
	r := &Runtime{
		hook: o.hook,
	}
	r.init()
	return r
}

func (r *Runtime) init() {
	r.global.ObjectPrototype = r.newBaseObject(nil, classObject).val

	funcProto := &Object{runtime: r}
	funcProtoImpl := &nativeFuncObject{
		baseFuncObject: baseFuncObject{
			baseObject: baseObject{
				class:      classFunction,
				val:        funcProto,
				prototype:  r.global.ObjectPrototype,
				extensible: true,
			},
		},
		f: func(FunctionCall) Value {
			return _undefined
		},
	}
	funcProto.self = funcProtoImpl
	funcProtoImpl.init("", 0)
	r.global.FunctionPrototype = funcProto

	o := r.global.ObjectPrototype.self
	o._putProp("hasOwnProperty", r.newNativeFunc(r.objectproto_hasOwnProperty, "hasOwnProperty", 1), true, false, true)
	o._putProp("toString", r.newNativeFunc(r.objectproto_toString, "toString", 0), true, false, true)
	o._putProp("valueOf", r.newNativeFunc(r.objectproto_valueOf, "valueOf", 0), true, false, true)

	r.global.ArrayPrototype = r.newArrayObject(nil, r.global.ObjectPrototype).val

	r.initErrors()

	r.globalObject = r.NewObject()
	r.initReflect()
}

func (r *Runtime) initErrors() {
	errProto := r.newBaseObject(r.global.ObjectPrototype, classObject)
	errProto._putProp("name", newStringValue("Error"), true, false, true)
	errProto._putProp("message", stringEmpty, true, false, true)
	errProto._putProp("toString", r.newNativeFunc(r.error_toString, "toString", 0), true, false, true)
	r.global.ErrorPrototype = errProto.val

	typeErrProto := r.newBaseObject(r.global.ErrorPrototype, classObject)
	typeErrProto._putProp("name", newStringValue("TypeError"), true, false, true)
	r.global.TypeErrorPrototype = typeErrProto.val
}

// Exception is an engine failure. It wraps the thrown value, usually an
// Error object.
type Exception struct {
	val Value
}

func (e *Exception) Value() Value {
	return e.val
}

func (e *Exception) Error() string {
	if e == nil || e.val == nil {
		return "<nil>"
	}
	return e.val.String()
}

// exceptionFromPanic converts a recovered panic value into an *Exception.
// Raw typeError panics (thrown by code with no Runtime at hand, such as the
// Symbol conversions) are materialized into TypeError objects here. Panic
// values that are not engine failures keep unwinding.
func (r *Runtime) exceptionFromPanic(x interface{}) *Exception {
	switch x1 := x.(type) {
	case *Exception:
		return x1
	case typeError:
		return &Exception{val: r.NewTypeError(string(x1))}
	case Value:
		return &Exception{val: x1}
	default:
		panic(x)
	}
}

// try runs f, converting an engine failure panic into an *Exception.
func (r *Runtime) try(f func()) (ex *Exception) {
	defer func() {
		if x := recover(); x != nil {
			ex = r.exceptionFromPanic(x)
		}
	}()
	f()
	return
}

// tryFunc is the runtime-less variant of try used by the Object methods.
// A raw typeError cannot be turned into a proper Error object here, so it
// is carried as a plain string value.
func tryFunc(f func()) (err error) {
	defer func() {
		if x := recover(); x != nil {
			switch x1 := x.(type) {
			case *Exception:
				err = x1
			case typeError:
				err = &Exception{val: newStringValue("TypeError: " + string(x1))}
			case Value:
				err = &Exception{val: x1}
			default:
				panic(x)
			}
		}
	}()
	f()
	return
}

func (r *Runtime) typeErrorResult(throw bool, args ...interface{}) {
	if throw {
		panic(r.NewTypeError(args...))
	}
}

func (r *Runtime) newError(proto *Object, format string, args ...interface{}) *Object {
	msg := fmt.Sprintf(format, args...)
	o := r.newBaseObject(proto, classError)
	o._putProp("message", newStringValue(msg), true, false, true)
	return o.val
}

// NewTypeError creates a TypeError object with a formatted message.
func (r *Runtime) NewTypeError(args ...interface{}) *Object {
	msg := ""
	if len(args) > 0 {
		f, _ := args[0].(string)
		msg = fmt.Sprintf(f, args[1:]...)
	}
	return r.newError(r.global.TypeErrorPrototype, "%s", msg)
}

func newBaseObjectObj(obj, proto *Object, class string) *baseObject {
	o := &baseObject{
		class:      class,
		val:        obj,
		prototype:  proto,
		extensible: true,
	}
	obj.self = o
	o.init()
	return o
}

func (r *Runtime) newBaseObject(proto *Object, class string) *baseObject {
	return newBaseObjectObj(&Object{runtime: r}, proto, class)
}

// NewObject creates a plain object inheriting from the runtime's Object
// prototype.
func (r *Runtime) NewObject() *Object {
	return r.newBaseObject(r.global.ObjectPrototype, classObject).val
}

// CreateObject creates a plain object with the given prototype, which may be
// nil.
func (r *Runtime) CreateObject(proto *Object) *Object {
	return r.newBaseObject(proto, classObject).val
}

func (r *Runtime) newPrimitiveObject(value Value, proto *Object, class string) *Object {
	v := &Object{runtime: r}
	o := &primitiveValueObject{}
	o.class = class
	o.val = v
	o.prototype = proto
	o.extensible = true
	v.self = o
	o.pValue = value
	o.init()
	return v
}

func (r *Runtime) newArrayObject(values []Value, proto *Object) *arrayObject {
	v := &Object{runtime: r}
	a := &arrayObject{
		baseObject: baseObject{
			class:      classArray,
			val:        v,
			prototype:  proto,
			extensible: true,
		},
	}
	v.self = a
	a.init()
	a.values = values
	a.length = int64(len(values))
	return a
}

func (r *Runtime) newArrayValues(values []Value) *Object {
	return r.newArrayObject(values, r.global.ArrayPrototype).val
}

// NewArray creates an array populated with the given items (converted with
// ToValue).
func (r *Runtime) NewArray(items ...interface{}) *Object {
	values := make([]Value, len(items))
	for i, item := range items {
		values[i] = r.ToValue(item)
	}
	return r.newArrayValues(values)
}

func (r *Runtime) newNativeFunc(call func(FunctionCall) Value, name string, length int) *Object {
	v := &Object{runtime: r}
	f := &nativeFuncObject{
		baseFuncObject: baseFuncObject{
			baseObject: baseObject{
				class:      classFunction,
				val:        v,
				prototype:  r.global.FunctionPrototype,
				extensible: true,
			},
		},
		f: call,
	}
	v.self = f
	f.init(name, length)
	return v
}

func (r *Runtime) newNativeConstructor(call func(ConstructorCall) Value, name string, length int) *Object {
	v := &Object{runtime: r}
	f := &nativeFuncObject{
		baseFuncObject: baseFuncObject{
			baseObject: baseObject{
				class:      classFunction,
				val:        v,
				prototype:  r.global.FunctionPrototype,
				extensible: true,
			},
		},
	}
	f.f = func(c FunctionCall) Value {
		thisObj, _ := c.This.(*Object)
		if thisObj != nil {
			res := call(ConstructorCall{
				This:      thisObj,
				Arguments: c.Arguments,
			})
			if res == nil {
				return _undefined
			}
			return res
		}
		return f.defaultConstruct(call, c.Arguments, nil)
	}
	f.construct = func(args []Value, newTarget *Object) *Object {
		return f.defaultConstruct(call, args, newTarget)
	}
	v.self = f
	f.init(name, length)

	proto := r.NewObject()
	proto.self._putProp("constructor", v, true, false, true)
	f._putProp("prototype", proto, true, false, false)

	return v
}

// NewNativeFunction creates a function object backed by fn. The result is
// callable but cannot be used as a constructor.
func (r *Runtime) NewNativeFunction(name string, length int, fn func(FunctionCall) Value) *Object {
	return r.newNativeFunc(fn, name, length)
}

// NewConstructor creates a constructor function object backed by fn. When
// constructed, fn receives a freshly created instance whose prototype is
// resolved from the new target; a returned object overrides the instance.
func (r *Runtime) NewConstructor(name string, length int, fn func(ConstructorCall) Value) *Object {
	return r.newNativeConstructor(fn, name, length)
}

func (r *Runtime) newLazyObject(create func(*Object) objectImpl) *Object {
	val := &Object{runtime: r}
	o := &lazyObject{
		val:    val,
		create: create,
	}
	val.self = o
	return val
}

// GlobalObject returns the global object.
func (r *Runtime) GlobalObject() *Object {
	return r.globalObject
}

func (r *Runtime) addToGlobal(name string, value Value) {
	r.globalObject.self._putProp(name, value, true, false, true)
}

func (r *Runtime) toObject(v Value, args ...interface{}) *Object {
	if obj, ok := v.(*Object); ok {
		return obj
	}
	if len(args) > 0 {
		panic(r.NewTypeError(args...))
	}
	panic(r.NewTypeError("Value is not an object: %s", v.String()))
}

func (r *Runtime) toBoolean(b bool) Value {
	if b {
		return valueTrue
	}
	return valueFalse
}

// ToValue converts a Go value into a Value. Maps and slices are wrapped,
// not copied: changes to the Go value are visible through the resulting
// object and vice versa.
func (r *Runtime) ToValue(i interface{}) Value {
	switch i := i.(type) {
	case nil:
		return _null
	case *Object:
		if i == nil {
			return _null
		}
		if i.runtime != nil && i.runtime != r {
			panic(r.NewTypeError("Illegal runtime transition of an Object"))
		}
		return i
	case Value:
		return i
	case string:
		return newStringValue(i)
	case bool:
		if i {
			return valueTrue
		}
		return valueFalse
	case func(FunctionCall) Value:
		return r.newNativeFunc(i, "", 0)
	case func(ConstructorCall) Value:
		return r.newNativeConstructor(i, "", 0)
	case int:
		return intToValue(int64(i))
	case int8:
		return intToValue(int64(i))
	case int16:
		return intToValue(int64(i))
	case int32:
		return intToValue(int64(i))
	case int64:
		return intToValue(i)
	case uint:
		if uint64(i) <= math.MaxInt64 {
			return intToValue(int64(i))
		}
		return floatToValue(float64(i))
	case uint8:
		return intToValue(int64(i))
	case uint16:
		return intToValue(int64(i))
	case uint32:
		return intToValue(int64(i))
	case uint64:
		if i <= math.MaxInt64 {
			return intToValue(int64(i))
		}
		return floatToValue(float64(i))
	case float32:
		return floatToValue(float64(i))
	case float64:
		return floatToValue(i)
	case map[string]interface{}:
		if i == nil {
			return _null
		}
		obj := &Object{runtime: r}
		m := &objectGoMapSimple{
			baseObject: baseObject{
				val:        obj,
				extensible: true,
			},
			data: i,
		}
		obj.self = m
		m.init()
		return obj
	case []interface{}:
		return r.newObjectGoSlice(&i).val
	case *[]interface{}:
		if i == nil {
			return _null
		}
		return r.newObjectGoSlice(i).val
	case []Value:
		return r.newArrayValues(i)
	}

	panic(r.NewTypeError("Could not convert %T to a value", i))
}

// createListFromArrayLike materializes an array-like value into a slice.
// The slice is local to one dispatch activation and is never retained.
func (r *Runtime) createListFromArrayLike(a Value) []Value {
	o := r.toObject(a, "Argument is not an Object.")
	if arr, ok := o.self.(*arrayObject); ok {
		if v := arr.plainValues(); v != nil {
			return v
		}
	}
	l := toLength(o.self.getStr("length", nil))
	res := make([]Value, 0, l)
	for k := int64(0); k < l; k++ {
		res = append(res, nilSafe(o.self.getStr(strconv.FormatInt(k, 10), nil)))
	}
	return res
}

func toLength(v Value) int64 {
	if v == nil {
		return 0
	}
	i := v.ToInteger()
	if i < 0 {
		return 0
	}
	if i >= maxInt {
		return maxInt - 1
	}
	return i
}

func toIntStrict(i int64) int {
	if bits.UintSize == 32 {
		if i > math.MaxInt32 || i < math.MinInt32 {
			panic(typeError("Integer value overflows 32-bit int"))
		}
	}
	return int(i)
}

// toPropertyKey derives a property key from an arbitrary value: a Symbol
// passes through unchanged, anything else goes through the string-hinted
// primitive conversion, which may run user code and fail.
func toPropertyKey(key Value) Value {
	return key.ToString()
}

func (r *Runtime) toPropertyDescriptor(v Value) (ret PropertyDescriptor) {
	if o, ok := v.(*Object); ok {
		descr := o.self

		ret.Value = descr.getStr("value", nil)

		if p := descr.getStr("writable", nil); p != nil {
			ret.Writable = ToFlag(p.ToBoolean())
		}
		if p := descr.getStr("enumerable", nil); p != nil {
			ret.Enumerable = ToFlag(p.ToBoolean())
		}
		if p := descr.getStr("configurable", nil); p != nil {
			ret.Configurable = ToFlag(p.ToBoolean())
		}

		ret.Getter = descr.getStr("get", nil)
		ret.Setter = descr.getStr("set", nil)

		if ret.Getter != nil && ret.Getter != _undefined {
			if _, ok := r.toObject(ret.Getter).self.assertCallable(); !ok {
				panic(r.NewTypeError("Getter must be a function: %s", ret.Getter.String()))
			}
		}

		if ret.Setter != nil && ret.Setter != _undefined {
			if _, ok := r.toObject(ret.Setter).self.assertCallable(); !ok {
				panic(r.NewTypeError("Setter must be a function: %s", ret.Setter.String()))
			}
		}

		if (ret.Getter != nil || ret.Setter != nil) && (ret.Value != nil || ret.Writable != FLAG_NOT_SET) {
			panic(r.NewTypeError("Invalid property descriptor. Cannot both specify accessors and a value or writable attribute"))
		}
		return
	}

	panic(r.NewTypeError("Property description must be an object: %s", v.String()))
}

func (r *Runtime) checkHostObjectPropertyDescr(name string, descr PropertyDescriptor, throw bool) bool {
	if descr.Getter != nil || descr.Setter != nil {
		r.typeErrorResult(throw, "Host objects do not support accessor properties")
		return false
	}
	if descr.Writable == FLAG_FALSE {
		r.typeErrorResult(throw, "Host object field %s cannot be made read-only", name)
		return false
	}
	if descr.Configurable == FLAG_FALSE {
		r.typeErrorResult(throw, "Host object field %s cannot be made non-configurable", name)
		return false
	}
	return true
}

func nilSafe(v Value) Value {
	if v != nil {
		return v
	}
	return _undefined
}

// Undefined returns the undefined value.
func Undefined() Value {
	return _undefined
}

// Null returns the null value.
func Null() Value {
	return _null
}

// IsUndefined reports whether v is the undefined value.
func IsUndefined(v Value) bool {
	return v == _undefined
}

// IsNull reports whether v is the null value.
func IsNull(v Value) bool {
	return v == _null
}

func (r *Runtime) objectproto_hasOwnProperty(call FunctionCall) Value {
	key := toPropertyKey(call.Argument(0))
	o := call.This.ToObject(r)
	return r.toBoolean(o.hasOwnProperty(key))
}

func (r *Runtime) objectproto_toString(call FunctionCall) Value {
	switch o := call.This.(type) {
	case valueUndefined:
		return valueString("[object Undefined]")
	case valueNull:
		return valueString("[object Null]")
	default:
		obj := o.ToObject(r)
		clsName := obj.self.className()
		if tag, ok := obj.self.getSym(SymToStringTag, nil).(valueString); ok {
			clsName = string(tag)
		}
		return newStringValue(fmt.Sprintf("[object %s]", clsName))
	}
}

func (r *Runtime) objectproto_valueOf(call FunctionCall) Value {
	return call.This.ToObject(r)
}

func (r *Runtime) error_toString(call FunctionCall) Value {
	var nameStr, msgStr valueString
	obj := r.toObject(call.This).self
	if name := obj.getStr("name", nil); name != nil && name != _undefined {
		nameStr = name.toString()
	} else {
		nameStr = "Error"
	}
	if msg := obj.getStr("message", nil); msg != nil && msg != _undefined {
		msgStr = msg.toString()
	}
	if len(nameStr) == 0 {
		return msgStr
	}
	if len(msgStr) == 0 {
		return nameStr
	}
	return nameStr + ": " + msgStr
}
