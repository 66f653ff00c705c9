package mirror

import (
	"reflect"
	"strconv"
)

/*
ReadonlyObject is an interface representing a handler for a readonly Object. Such an object can be created
using the Runtime.NewReadonlyObject() method.

Note that Runtime.ToValue() does not have any special treatment for ReadonlyObject. The only way to create
a readonly object is by using the Runtime.NewReadonlyObject() method. This is done deliberately to avoid
silent code breaks when this interface changes.
*/
type ReadonlyObject interface {
	// Get a property value for the key. May return nil if the property does not exist.
	Get(key string) Value
	// Has should return true if and only if the property exists.
	Has(key string) bool
	// Keys returns a list of all existing property keys. There are no checks for duplicates or to make sure
	// that the order conforms to https://262.ecma-international.org/#sec-ordinaryownpropertykeys
	Keys() []string
}

/*
DynamicObject is an interface representing a handler for a dynamic Object. Such an object can be created
using the Runtime.NewDynamicObject() method.

Note that Runtime.ToValue() does not have any special treatment for DynamicObject. The only way to create
a dynamic object is by using the Runtime.NewDynamicObject() method. This is done deliberately to avoid
silent code breaks when this interface changes.
*/
type DynamicObject interface {
	ReadonlyObject
	// Set a property value for the key. Return true if success, false otherwise.
	Set(key string, val Value) bool
	// Delete the property for the key. Returns true on success (note, that includes missing property).
	Delete(key string) bool
}

/*
ReadonlyArray is an interface representing a handler for a readonly array Object. Such an object can be
created using the Runtime.NewReadonlyArray() method.

Any integer property key or a string property key that can be parsed into an int value (including negative
ones) is treated as an index and passed to the trap methods of the ReadonlyArray. Note this is different
from regular arrays which only support positive indexes up to 2^32-1.

ReadonlyArray cannot be sparse, i.e. hasOwnProperty(num) will return true for num >= 0 && num < Len().

Note that Runtime.ToValue() does not have any special treatment for ReadonlyArray. The only way to create
a readonly array is by using the Runtime.NewReadonlyArray() method. This is done deliberately to avoid
silent code breaks when this interface changes.
*/
type ReadonlyArray interface {
	// Len returns the current array length.
	Len() int
	// Get an item at index idx. Note that idx may be any integer, negative or beyond the current length.
	Get(idx int) Value
}

/*
DynamicArray is an interface representing a handler for a dynamic array Object. Such an object can be
created using the Runtime.NewDynamicArray() method.

Any integer property key or a string property key that can be parsed into an int value (including negative
ones) is treated as an index and passed to the trap methods of the DynamicArray. Note this is different
from regular arrays which only support positive indexes up to 2^32-1.

DynamicArray cannot be sparse, i.e. hasOwnProperty(num) will return true for num >= 0 && num < Len().
Deleting such a property is equivalent to setting it to undefined. Note that this creates a slight
peculiarity because hasOwnProperty() will still return true, even after deletion.

Note that Runtime.ToValue() does not have any special treatment for DynamicArray. The only way to create
a dynamic array is by using the Runtime.NewDynamicArray() method. This is done deliberately to avoid
silent code breaks when this interface changes.
*/
type DynamicArray interface {
	ReadonlyArray
	// Set an item at index idx. Note that idx may be any integer, negative or beyond the current length.
	// The expected behaviour when it's beyond length is that the array's length is increased to accommodate
	// the item. All elements in the 'new' section of the array should be zeroed.
	Set(idx int, val Value) bool
	// SetLen is called when the array's 'length' property is changed. If the length is increased all
	// elements in the 'new' section of the array should be zeroed.
	SetLen(int) bool
}

type baseDynamicObject struct {
	val       *Object
	prototype *Object
}

type readonlyObject struct {
	baseDynamicObject
	d        ReadonlyObject
	readonly bool
}

func (o *readonlyObject) getDynamicObject() (do DynamicObject, ok bool) {
	do, ok = o.d.(DynamicObject)
	return
}

type dynamicObject struct {
	readonlyObject
	d DynamicObject
}

type readonlyArray struct {
	baseDynamicObject
	a        ReadonlyArray
	readonly bool
}

func (a *readonlyArray) getDynamicArray() (da DynamicArray, ok bool) {
	da, ok = a.a.(DynamicArray)
	return
}

type dynamicArray struct {
	readonlyArray
	a DynamicArray
}

/*
NewReadonlyObject creates an Object backed by the provided ReadonlyObject handler.

All properties of this Object are Writable, Enumerable and Configurable data properties. Any attempt to
define a property that does not conform to this will fail, as will any attempt to set or delete an
existing property.

The Object is always extensible and cannot be made non-extensible, a preventExtensions dispatch on it
fails.

The Object's prototype is initially set to Object.prototype, but can be changed using regular mechanisms
(Object.SetPrototype() or a setPrototypeOf dispatch).

The Object cannot have own Symbol properties, however its prototype can. If you need toString tagging for
example, you could create a regular object, set SymToStringTag on that object and then use it as a
prototype. See TestDynamicObjectCustomProto for more details.

Export() returns the original ReadonlyObject.
*/
func (r *Runtime) NewReadonlyObject(d ReadonlyObject) *Object {
	v := &Object{runtime: r}
	o := &readonlyObject{
		readonly: true,
		d:        d,
		baseDynamicObject: baseDynamicObject{
			val:       v,
			prototype: r.global.ObjectPrototype,
		},
	}
	v.self = o
	return v
}

/*
NewDynamicObject creates an Object backed by the provided DynamicObject handler.

All properties of this Object are Writable, Enumerable and Configurable data properties. Any attempt to
define a property that does not conform to this will fail.

The Object is always extensible and cannot be made non-extensible, a preventExtensions dispatch on it
fails.

The Object's prototype is initially set to Object.prototype, but can be changed using regular mechanisms
(Object.SetPrototype() or a setPrototypeOf dispatch).

The Object cannot have own Symbol properties, however its prototype can. If you need toString tagging for
example, you could create a regular object, set SymToStringTag on that object and then use it as a
prototype. See TestDynamicObjectCustomProto for more details.

Export() returns the original DynamicObject.

This mechanism is similar to ECMAScript Proxy, however because all properties are enumerable and the
object is always extensible there is no need for invariant checks which removes the need to have a target
object and makes it a lot more efficient.
*/
func (r *Runtime) NewDynamicObject(d DynamicObject) *Object {
	v := &Object{runtime: r}
	o := &dynamicObject{
		d: d,
		readonlyObject: readonlyObject{
			d: d,
			baseDynamicObject: baseDynamicObject{
				val:       v,
				prototype: r.global.ObjectPrototype,
			},
		},
	}
	v.self = o
	return v
}

/*
NewReadonlyArray creates an array Object backed by the provided ReadonlyArray handler.
It is similar to NewReadonlyObject, the differences are:

- the Object is an array (its class is "Array" and it has the 'length' property).

- the prototype will be initially set to Array.prototype.

- the Object cannot have any own string properties except for the 'length'.
*/
func (r *Runtime) NewReadonlyArray(a ReadonlyArray) *Object {
	v := &Object{runtime: r}
	o := &readonlyArray{
		readonly: true,
		a:        a,
		baseDynamicObject: baseDynamicObject{
			val:       v,
			prototype: r.global.ArrayPrototype,
		},
	}
	v.self = o
	return v
}

/*
NewDynamicArray creates an array Object backed by the provided DynamicArray handler.
It is similar to NewDynamicObject, the differences are:

- the Object is an array (its class is "Array" and it has the 'length' property).

- the prototype will be initially set to Array.prototype.

- the Object cannot have any own string properties except for the 'length'.
*/
func (r *Runtime) NewDynamicArray(a DynamicArray) *Object {
	v := &Object{runtime: r}
	o := &dynamicArray{
		a: a,
		readonlyArray: readonlyArray{
			a: a,
			baseDynamicObject: baseDynamicObject{
				val:       v,
				prototype: r.global.ArrayPrototype,
			},
		},
	}
	v.self = o
	return v
}

func (*readonlyObject) className() string {
	return classObject
}

func (o *baseDynamicObject) getParentStr(p string, receiver Value) Value {
	if proto := o.prototype; proto != nil {
		if receiver == nil {
			return proto.self.getStr(p, o.val)
		}
		return proto.self.getStr(p, receiver)
	}
	return nil
}

func (o *readonlyObject) getStr(p string, receiver Value) Value {
	prop := o.d.Get(p)
	if prop == nil {
		return o.getParentStr(p, receiver)
	}
	return prop
}

func (o *baseDynamicObject) getSym(p *Symbol, receiver Value) Value {
	if proto := o.prototype; proto != nil {
		if receiver == nil {
			return proto.self.getSym(p, o.val)
		}
		return proto.self.getSym(p, receiver)
	}
	return nil
}

func (o *readonlyObject) getOwnPropStr(u string) Value {
	return o.d.Get(u)
}

func (*baseDynamicObject) getOwnPropSym(*Symbol) Value {
	return nil
}

func (o *readonlyObject) _set(prop string, v Value, throw bool) bool {
	if do, ok := o.getDynamicObject(); ok && !o.readonly {
		if do.Set(prop, v) {
			return true
		}
		o.val.runtime.typeErrorResult(throw, "'Set' on a dynamic object returned false")
		return false
	}
	o.val.runtime.typeErrorResult(throw, "Cannot set property %q of a readonly object", prop)
	return false
}

func (o *baseDynamicObject) _setSym(throw bool) {
	o.val.runtime.typeErrorResult(throw, "Dynamic objects do not support Symbol properties")
}

func (o *readonlyObject) setOwnStr(p string, v Value, throw bool) bool {
	if !o.d.Has(p) {
		if proto := o.prototype; proto != nil {
			// we know it's foreign because prototype loops are not allowed
			if res, handled := proto.self.setForeignStr(p, v, o.val, throw); handled {
				return res
			}
		}
	}
	return o._set(p, v, throw)
}

func (o *baseDynamicObject) setOwnSym(s *Symbol, v Value, throw bool) bool {
	if proto := o.prototype; proto != nil {
		// we know it's foreign because prototype loops are not allowed
		if res, handled := proto.self.setForeignSym(s, v, o.val, throw); handled {
			return res
		}
	}
	o._setSym(throw)
	return false
}

func (o *baseDynamicObject) setParentForeignStr(p string, v, receiver Value, throw bool) (res bool, handled bool) {
	if proto := o.prototype; proto != nil {
		if receiver != Value(proto) {
			return proto.self.setForeignStr(p, v, receiver, throw)
		}
		return proto.self.setOwnStr(p, v, throw), true
	}
	return false, false
}

func (o *readonlyObject) setForeignStr(p string, v, receiver Value, throw bool) (res bool, handled bool) {
	if !o.d.Has(p) {
		return o.setParentForeignStr(p, v, receiver, throw)
	}
	return false, false
}

func (o *baseDynamicObject) setForeignSym(s *Symbol, v, receiver Value, throw bool) (res bool, handled bool) {
	if proto := o.prototype; proto != nil {
		if receiver != Value(proto) {
			return proto.self.setForeignSym(s, v, receiver, throw)
		}
		return proto.self.setOwnSym(s, v, throw), true
	}
	return false, false
}

func (o *readonlyObject) hasPropertyStr(u string) bool {
	if o.hasOwnPropertyStr(u) {
		return true
	}
	if proto := o.prototype; proto != nil {
		return proto.self.hasPropertyStr(u)
	}
	return false
}

func (o *baseDynamicObject) hasPropertySym(s *Symbol) bool {
	if proto := o.prototype; proto != nil {
		return proto.self.hasPropertySym(s)
	}
	return false
}

func (o *readonlyObject) hasOwnPropertyStr(u string) bool {
	return o.d.Has(u)
}

func (*baseDynamicObject) hasOwnPropertySym(_ *Symbol) bool {
	return false
}

func (o *baseDynamicObject) checkDynamicObjectPropertyDescr(name string, descr PropertyDescriptor, throw bool) bool {
	if descr.Getter != nil || descr.Setter != nil {
		o.val.runtime.typeErrorResult(throw, "Dynamic objects do not support accessor properties")
		return false
	}
	if descr.Writable == FLAG_FALSE {
		o.val.runtime.typeErrorResult(throw, "Dynamic object field %q cannot be made read-only", name)
		return false
	}
	if descr.Enumerable == FLAG_FALSE {
		o.val.runtime.typeErrorResult(throw, "Dynamic object field %q cannot be made non-enumerable", name)
		return false
	}
	if descr.Configurable == FLAG_FALSE {
		o.val.runtime.typeErrorResult(throw, "Dynamic object field %q cannot be made non-configurable", name)
		return false
	}
	return true
}

func (o *readonlyObject) defineOwnPropertyStr(name string, desc PropertyDescriptor, throw bool) bool {
	if o.checkDynamicObjectPropertyDescr(name, desc, throw) {
		return o._set(name, desc.Value, throw)
	}
	return false
}

func (o *baseDynamicObject) defineOwnPropertySym(name *Symbol, desc PropertyDescriptor, throw bool) bool {
	o._setSym(throw)
	return false
}

func (o *readonlyObject) _delete(prop string, throw bool) bool {
	if do, ok := o.getDynamicObject(); ok && !o.readonly {
		if do.Delete(prop) {
			return true
		}
		o.val.runtime.typeErrorResult(throw, "'Delete' on a dynamic object returned false")
		return false
	}
	if o.d.Has(prop) {
		o.val.runtime.typeErrorResult(throw, "Cannot delete property %q of a readonly object", prop)
		return false
	}
	return true
}

func (o *readonlyObject) deleteStr(name string, throw bool) bool {
	return o._delete(name, throw)
}

func (*baseDynamicObject) deleteSym(_ *Symbol, _ bool) bool {
	return true
}

func (o *baseDynamicObject) assertCallable() (call func(FunctionCall) Value, ok bool) {
	return nil, false
}

func (*baseDynamicObject) assertConstructor() func(args []Value, newTarget *Object) *Object {
	return nil
}

func (o *baseDynamicObject) proto() *Object {
	return o.prototype
}

func (o *baseDynamicObject) setProto(proto *Object, throw bool) bool {
	o.prototype = proto
	return true
}

func (*baseDynamicObject) isExtensible() bool {
	return true
}

func (o *baseDynamicObject) preventExtensions(throw bool) bool {
	o.val.runtime.typeErrorResult(throw, "Cannot make a dynamic object non-extensible")
	return false
}

func (o *readonlyObject) export() interface{} {
	return o.d
}

func (o *readonlyObject) exportType() reflect.Type {
	return reflect.TypeOf(o.d)
}

func (o *readonlyObject) equal(impl objectImpl) bool {
	if other, ok := impl.(*readonlyObject); ok {
		return o.d == other.d
	}
	return false
}

func (o *dynamicObject) equal(impl objectImpl) bool {
	if other, ok := impl.(*dynamicObject); ok {
		return o.d == other.d
	}
	return false
}

func (o *readonlyObject) stringKeys(all bool, accum []Value) []Value {
	keys := o.d.Keys()
	if l := len(accum) + len(keys); l > cap(accum) {
		oldAccum := accum
		accum = make([]Value, len(accum), l)
		copy(accum, oldAccum)
	}
	for _, key := range keys {
		accum = append(accum, newStringValue(key))
	}
	return accum
}

func (*baseDynamicObject) symbols(all bool, accum []Value) []Value {
	return accum
}

func (o *readonlyObject) keys(all bool, accum []Value) []Value {
	return o.stringKeys(all, accum)
}

func (*baseDynamicObject) _putProp(name string, value Value, writable, enumerable, configurable bool) Value {
	return nil
}

func (*baseDynamicObject) _putSym(s *Symbol, prop Value) {
}

func (a *readonlyArray) className() string {
	return classArray
}

func (a *readonlyArray) getStr(p string, receiver Value) Value {
	if p == "length" {
		return intToValue(int64(a.a.Len()))
	}
	if idx, ok := strToInt(p); ok {
		return a.a.Get(idx)
	}
	return a.getParentStr(p, receiver)
}

func (a *readonlyArray) getOwnPropStr(u string) Value {
	if u == "length" {
		return &valueProperty{
			value:    intToValue(int64(a.a.Len())),
			writable: true,
		}
	}
	if idx, ok := strToInt(u); ok {
		return a.a.Get(idx)
	}
	return nil
}

func (a *readonlyArray) _setLen(v Value, throw bool) bool {
	if da, ok := a.getDynamicArray(); ok && !a.readonly {
		if da.SetLen(toIntStrict(v.ToInteger())) {
			return true
		}
		a.val.runtime.typeErrorResult(throw, "'SetLen' on a dynamic array returned false")
		return false
	}
	a.val.runtime.typeErrorResult(throw, "Cannot set length of a readonly array")
	return false
}

func (a *readonlyArray) _setIdx(idx int, v Value, throw bool) bool {
	if da, ok := a.getDynamicArray(); ok && !a.readonly {
		if da.Set(idx, v) {
			return true
		}
		a.val.runtime.typeErrorResult(throw, "'Set' on a dynamic array returned false")
		return false
	}
	a.val.runtime.typeErrorResult(throw, "Cannot set property %d of a readonly array", idx)
	return false
}

func (a *readonlyArray) setOwnStr(p string, v Value, throw bool) bool {
	if p == "length" {
		return a._setLen(v, throw)
	}
	if idx, ok := strToInt(p); ok {
		return a._setIdx(idx, v, throw)
	}
	a.val.runtime.typeErrorResult(throw, "Cannot set property %q on a dynamic array", p)
	return false
}

func (a *readonlyArray) setForeignStr(p string, v, receiver Value, throw bool) (res bool, handled bool) {
	return a.setParentForeignStr(p, v, receiver, throw)
}

func (a *readonlyArray) hasPropertyStr(u string) bool {
	if a.hasOwnPropertyStr(u) {
		return true
	}
	if proto := a.prototype; proto != nil {
		return proto.self.hasPropertyStr(u)
	}
	return false
}

func (a *readonlyArray) _has(idx int) bool {
	return idx >= 0 && idx < a.a.Len()
}

func (a *readonlyArray) hasOwnPropertyStr(u string) bool {
	if u == "length" {
		return true
	}
	if idx, ok := strToInt(u); ok {
		return a._has(idx)
	}
	return false
}

func (a *readonlyArray) defineOwnPropertyStr(name string, desc PropertyDescriptor, throw bool) bool {
	if a.checkDynamicObjectPropertyDescr(name, desc, throw) {
		if idx, ok := strToInt(name); ok {
			return a._setIdx(idx, desc.Value, throw)
		}
		a.val.runtime.typeErrorResult(throw, "Cannot define property %q on a dynamic array", name)
	}
	return false
}

func (a *readonlyArray) _delete(idx int, throw bool) bool {
	if a._has(idx) {
		return a._setIdx(idx, _undefined, throw)
	}
	return true
}

func (a *readonlyArray) deleteStr(name string, throw bool) bool {
	if idx, ok := strToInt(name); ok {
		return a._delete(idx, throw)
	}
	if a.hasOwnPropertyStr(name) {
		a.val.runtime.typeErrorResult(throw, "Cannot delete property %q on a dynamic array", name)
		return false
	}
	return true
}

func (a *readonlyArray) export() interface{} {
	return a.a
}

func (a *readonlyArray) exportType() reflect.Type {
	return reflect.TypeOf(a.a)
}

func (a *readonlyArray) equal(impl objectImpl) bool {
	if other, ok := impl.(*readonlyArray); ok {
		return a == other
	}
	return false
}

func (a *dynamicArray) equal(impl objectImpl) bool {
	if other, ok := impl.(*dynamicArray); ok {
		return a == other
	}
	return false
}

func (a *readonlyArray) stringKeys(all bool, accum []Value) []Value {
	al := a.a.Len()
	l := len(accum) + al
	if all {
		l++
	}
	if l > cap(accum) {
		oldAccum := accum
		accum = make([]Value, len(oldAccum), l)
		copy(accum, oldAccum)
	}
	for i := 0; i < al; i++ {
		accum = append(accum, valueString(strconv.Itoa(i)))
	}
	if all {
		accum = append(accum, valueString("length"))
	}
	return accum
}

func (a *readonlyArray) keys(all bool, accum []Value) []Value {
	return a.stringKeys(all, accum)
}
