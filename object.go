package mirror

import (
	"fmt"
	"reflect"
)

const (
	classObject   = "Object"
	classArray    = "Array"
	classFunction = "Function"
	classNumber   = "Number"
	classString   = "String"
	classBoolean  = "Boolean"
	classError    = "Error"
	classSymbol   = "Symbol"
)

const (
	hintDefault valueString = "default"
	hintNumber  valueString = "number"
	hintString  valueString = "string"
)

// Object is the ordinary object value. The actual behaviour is provided by
// self which can be swapped (see lazyObject).
type Object struct {
	runtime *Runtime
	self    objectImpl
}

// Flag represents a boolean value which may not be set (see
// PropertyDescriptor).
type Flag int

const (
	FLAG_NOT_SET Flag = iota
	FLAG_FALSE
	FLAG_TRUE
)

func (f Flag) Bool() bool {
	return f == FLAG_TRUE
}

func ToFlag(b bool) Flag {
	if b {
		return FLAG_TRUE
	}
	return FLAG_FALSE
}

// PropertyDescriptor is the parsed form of a property descriptor object.
// A nil Value, Getter or Setter means the corresponding field is absent.
type PropertyDescriptor struct {
	jsDescriptor *Object

	Value Value

	Writable, Configurable, Enumerable Flag

	Getter, Setter Value
}

func (p *PropertyDescriptor) Empty() bool {
	var empty PropertyDescriptor
	return *p == empty
}

func (p *PropertyDescriptor) IsAccessor() bool {
	return p.Setter != nil || p.Getter != nil
}

func (p *PropertyDescriptor) IsData() bool {
	return p.Value != nil || p.Writable != FLAG_NOT_SET
}

func (p *PropertyDescriptor) IsGeneric() bool {
	return !p.IsAccessor() && !p.IsData()
}

func (p *PropertyDescriptor) toValue(r *Runtime) Value {
	if p.jsDescriptor != nil {
		return p.jsDescriptor
	}
	if p.Empty() {
		return _undefined
	}
	o := r.NewObject()
	s := o.self

	if p.Value != nil {
		s._putProp("value", p.Value, true, true, true)
	}

	if p.Writable != FLAG_NOT_SET {
		s._putProp("writable", valueBool(p.Writable.Bool()), true, true, true)
	}

	if p.Getter != nil {
		s._putProp("get", p.Getter, true, true, true)
	}
	if p.Setter != nil {
		s._putProp("set", p.Setter, true, true, true)
	}

	if p.Enumerable != FLAG_NOT_SET {
		s._putProp("enumerable", valueBool(p.Enumerable.Bool()), true, true, true)
	}
	if p.Configurable != FLAG_NOT_SET {
		s._putProp("configurable", valueBool(p.Configurable.Bool()), true, true, true)
	}

	return o
}

// objectImpl is the interface the property operations are dispatched
// through. String-keyed and symbol-keyed variants are kept separate so that
// the key does not need to be re-examined on every step of a prototype walk.
type objectImpl interface {
	className() string

	getStr(name string, receiver Value) Value
	getSym(s *Symbol, receiver Value) Value

	getOwnPropStr(name string) Value
	getOwnPropSym(s *Symbol) Value

	setOwnStr(name string, val Value, throw bool) bool
	setOwnSym(s *Symbol, val Value, throw bool) bool

	setForeignStr(name string, val, receiver Value, throw bool) (res bool, handled bool)
	setForeignSym(s *Symbol, val, receiver Value, throw bool) (res bool, handled bool)

	hasPropertyStr(name string) bool
	hasPropertySym(s *Symbol) bool

	hasOwnPropertyStr(name string) bool
	hasOwnPropertySym(s *Symbol) bool

	defineOwnPropertyStr(name string, desc PropertyDescriptor, throw bool) bool
	defineOwnPropertySym(s *Symbol, desc PropertyDescriptor, throw bool) bool

	deleteStr(name string, throw bool) bool
	deleteSym(s *Symbol, throw bool) bool

	assertCallable() (call func(FunctionCall) Value, ok bool)
	assertConstructor() func(args []Value, newTarget *Object) *Object

	proto() *Object
	setProto(proto *Object, throw bool) bool
	isExtensible() bool
	preventExtensions(throw bool) bool

	export() interface{}
	exportType() reflect.Type
	equal(objectImpl) bool

	stringKeys(all bool, accum []Value) []Value
	symbols(all bool, accum []Value) []Value
	keys(all bool, accum []Value) []Value

	_putProp(name string, value Value, writable, enumerable, configurable bool) Value
	_putSym(s *Symbol, prop Value)
}

// baseObject is the ordinary object implementation. String keys preserve
// insertion order through propNames, symbol keys through symNames.
type baseObject struct {
	class      string
	val        *Object
	prototype  *Object
	extensible bool

	values    map[string]Value
	propNames []string

	symNames  []*Symbol
	symValues map[*Symbol]Value
}

type FunctionCall struct {
	This      Value
	Arguments []Value
}

type ConstructorCall struct {
	This      *Object
	NewTarget *Object
	Arguments []Value
}

func (f FunctionCall) Argument(idx int) Value {
	if idx < len(f.Arguments) {
		return f.Arguments[idx]
	}
	return _undefined
}

func (f ConstructorCall) Argument(idx int) Value {
	if idx < len(f.Arguments) {
		return f.Arguments[idx]
	}
	return _undefined
}

func (o *baseObject) init() {
	o.values = make(map[string]Value)
}

func (o *baseObject) className() string {
	return o.class
}

func (o *baseObject) proto() *Object {
	return o.prototype
}

func (o *baseObject) setProto(proto *Object, throw bool) bool {
	current := o.prototype
	if current == proto {
		return true
	}
	if !o.extensible {
		o.val.runtime.typeErrorResult(throw, "%s is not extensible", o.val)
		return false
	}
	for p := proto; p != nil; p = p.self.proto() {
		if p == o.val {
			o.val.runtime.typeErrorResult(throw, "Cyclic __proto__ value")
			return false
		}
	}
	o.prototype = proto
	return true
}

func (o *baseObject) isExtensible() bool {
	return o.extensible
}

func (o *baseObject) preventExtensions(bool) bool {
	o.extensible = false
	return true
}

func (o *baseObject) getStr(name string, receiver Value) Value {
	prop := o.values[name]
	if prop == nil {
		if proto := o.prototype; proto != nil {
			if receiver == nil {
				return proto.self.getStr(name, o.val)
			}
			return proto.self.getStr(name, receiver)
		}
	}
	if prop, ok := prop.(*valueProperty); ok {
		if receiver == nil {
			return prop.get(o.val)
		}
		return prop.get(receiver)
	}
	return prop
}

func (o *baseObject) getSym(s *Symbol, receiver Value) Value {
	prop := o.symValues[s]
	if prop == nil {
		if proto := o.prototype; proto != nil {
			if receiver == nil {
				return proto.self.getSym(s, o.val)
			}
			return proto.self.getSym(s, receiver)
		}
	}
	if prop, ok := prop.(*valueProperty); ok {
		if receiver == nil {
			return prop.get(o.val)
		}
		return prop.get(receiver)
	}
	return prop
}

func (o *baseObject) getOwnPropStr(name string) Value {
	return o.values[name]
}

func (o *baseObject) getOwnPropSym(s *Symbol) Value {
	return o.symValues[s]
}

func (o *baseObject) hasPropertyStr(name string) bool {
	if o.val.self.hasOwnPropertyStr(name) {
		return true
	}
	if proto := o.prototype; proto != nil {
		return proto.self.hasPropertyStr(name)
	}
	return false
}

func (o *baseObject) hasPropertySym(s *Symbol) bool {
	if o.val.self.hasOwnPropertySym(s) {
		return true
	}
	if proto := o.prototype; proto != nil {
		return proto.self.hasPropertySym(s)
	}
	return false
}

func (o *baseObject) hasOwnPropertyStr(name string) bool {
	_, exists := o.values[name]
	return exists
}

func (o *baseObject) hasOwnPropertySym(s *Symbol) bool {
	_, exists := o.symValues[s]
	return exists
}

func (o *baseObject) setOwnStr(name string, val Value, throw bool) bool {
	ownDesc := o.values[name]
	if ownDesc == nil {
		if proto := o.prototype; proto != nil {
			// the property might be a setter further up the chain
			if res, handled := proto.self.setForeignStr(name, val, o.val, throw); handled {
				return res
			}
		}
		if !o.extensible {
			o.val.runtime.typeErrorResult(throw, "Cannot add property %s, object is not extensible", name)
			return false
		}
		o.values[name] = val
		o.propNames = append(o.propNames, name)
		return true
	}
	if prop, ok := ownDesc.(*valueProperty); ok {
		if !prop.isWritable() {
			o.val.runtime.typeErrorResult(throw, "Cannot assign to read only property '%s'", name)
			return false
		}
		prop.set(o.val, val)
		return true
	}
	o.values[name] = val
	return true
}

func (o *baseObject) setOwnSym(s *Symbol, val Value, throw bool) bool {
	ownDesc := o.symValues[s]
	if ownDesc == nil {
		if proto := o.prototype; proto != nil {
			if res, handled := proto.self.setForeignSym(s, val, o.val, throw); handled {
				return res
			}
		}
		if !o.extensible {
			o.val.runtime.typeErrorResult(throw, "Cannot add property %s, object is not extensible", s.descString())
			return false
		}
		o._putSym(s, val)
		return true
	}
	if prop, ok := ownDesc.(*valueProperty); ok {
		if !prop.isWritable() {
			o.val.runtime.typeErrorResult(throw, "Cannot assign to read only property '%s'", s.descString())
			return false
		}
		prop.set(o.val, val)
		return true
	}
	o.symValues[s] = val
	return true
}

func (o *baseObject) _setForeignProp(name string, prop, val, receiver Value, throw bool) (bool, bool) {
	if prop != nil {
		if prop, ok := prop.(*valueProperty); ok {
			if !prop.isWritable() {
				o.val.runtime.typeErrorResult(throw, "Cannot assign to read only property '%s'", name)
				return false, true
			}
			if prop.setterFunc != nil {
				prop.set(receiver, val)
				return true, true
			}
		}
	}
	return false, false
}

func (o *baseObject) _setForeignStr(name string, prop, val, receiver Value, throw bool) (bool, bool) {
	if prop == nil {
		if proto := o.prototype; proto != nil {
			if receiver != Value(proto) {
				return proto.self.setForeignStr(name, val, receiver, throw)
			}
			return proto.self.setOwnStr(name, val, throw), true
		}
	}
	return o._setForeignProp(name, prop, val, receiver, throw)
}

func (o *baseObject) setForeignStr(name string, val, receiver Value, throw bool) (bool, bool) {
	return o._setForeignStr(name, o.values[name], val, receiver, throw)
}

func (o *baseObject) setForeignSym(s *Symbol, val, receiver Value, throw bool) (bool, bool) {
	prop := o.symValues[s]
	if prop == nil {
		if proto := o.prototype; proto != nil {
			if receiver != Value(proto) {
				return proto.self.setForeignSym(s, val, receiver, throw)
			}
			return proto.self.setOwnSym(s, val, throw), true
		}
	}
	return o._setForeignProp(s.descString(), prop, val, receiver, throw)
}

func (o *baseObject) checkDeleteProp(name string, prop *valueProperty, throw bool) bool {
	if !prop.configurable {
		o.val.runtime.typeErrorResult(throw, "Cannot delete property '%s'", name)
		return false
	}
	return true
}

func (o *baseObject) checkDelete(name string, val Value, throw bool) bool {
	if val, ok := val.(*valueProperty); ok {
		return o.checkDeleteProp(name, val, throw)
	}
	return true
}

func (o *baseObject) _delete(name string) {
	delete(o.values, name)
	for i, n := range o.propNames {
		if n == name {
			copy(o.propNames[i:], o.propNames[i+1:])
			o.propNames = o.propNames[:len(o.propNames)-1]
			break
		}
	}
}

func (o *baseObject) deleteStr(name string, throw bool) bool {
	if val, exists := o.values[name]; exists {
		if !o.checkDelete(name, val, throw) {
			return false
		}
		o._delete(name)
	}
	return true
}

func (o *baseObject) deleteSym(s *Symbol, throw bool) bool {
	if val, exists := o.symValues[s]; exists {
		if !o.checkDelete(s.descString(), val, throw) {
			return false
		}
		delete(o.symValues, s)
		for i, s1 := range o.symNames {
			if s1 == s {
				copy(o.symNames[i:], o.symNames[i+1:])
				o.symNames = o.symNames[:len(o.symNames)-1]
				break
			}
		}
	}
	return true
}

func (o *baseObject) _defineOwnProperty(name string, existingValue Value, descr PropertyDescriptor, throw bool) (val Value, ok bool) {
	getterObj, _ := descr.Getter.(*Object)
	setterObj, _ := descr.Setter.(*Object)

	var existing *valueProperty

	if existingValue == nil {
		if !o.extensible {
			o.val.runtime.typeErrorResult(throw, "Cannot define property %s, object is not extensible", name)
			return nil, false
		}
		existing = &valueProperty{}
	} else {
		if existing, _ = existingValue.(*valueProperty); existing == nil {
			existing = &valueProperty{
				writable:     true,
				enumerable:   true,
				configurable: true,
				value:        existingValue,
			}
		}

		if !existing.configurable {
			if descr.Configurable == FLAG_TRUE {
				goto Reject
			}
			if descr.Enumerable != FLAG_NOT_SET && descr.Enumerable.Bool() != existing.enumerable {
				goto Reject
			}
		}
		if existing.accessor && descr.Value != nil || !existing.accessor && (getterObj != nil || setterObj != nil) {
			if !existing.configurable {
				goto Reject
			}
		} else if existing.accessor {
			if !existing.configurable {
				if descr.Getter != nil && existing.getterFunc != getterObj {
					goto Reject
				}
				if descr.Setter != nil && existing.setterFunc != setterObj {
					goto Reject
				}
			}
		} else {
			if !existing.configurable {
				if !existing.writable {
					if descr.Writable == FLAG_TRUE {
						goto Reject
					}
					if descr.Value != nil && !descr.Value.SameAs(existing.value) {
						goto Reject
					}
				}
			}
		}
	}

	if descr.Writable == FLAG_TRUE && descr.Enumerable == FLAG_TRUE && descr.Configurable == FLAG_TRUE && descr.Value != nil {
		return descr.Value, true
	}

	if descr.Writable != FLAG_NOT_SET {
		existing.writable = descr.Writable.Bool()
	}
	if descr.Enumerable != FLAG_NOT_SET {
		existing.enumerable = descr.Enumerable.Bool()
	}
	if descr.Configurable != FLAG_NOT_SET {
		existing.configurable = descr.Configurable.Bool()
	}

	if descr.Value != nil {
		existing.value = descr.Value
		existing.getterFunc = nil
		existing.setterFunc = nil
	}

	if descr.Value != nil || descr.Writable != FLAG_NOT_SET {
		existing.accessor = false
	}

	if descr.Getter != nil {
		existing.getterFunc = propGetter(o.val, descr.Getter, o.val.runtime)
		existing.value = nil
		existing.accessor = true
	}

	if descr.Setter != nil {
		existing.setterFunc = propSetter(o.val, descr.Setter, o.val.runtime)
		existing.value = nil
		existing.accessor = true
	}

	if !existing.accessor && existing.value == nil {
		existing.value = _undefined
	}

	return existing, true

Reject:
	o.val.runtime.typeErrorResult(throw, "Cannot redefine property: %s", name)
	return nil, false
}

func (o *baseObject) defineOwnPropertyStr(name string, descr PropertyDescriptor, throw bool) bool {
	existingVal := o.values[name]
	if v, ok := o._defineOwnProperty(name, existingVal, descr, throw); ok {
		o.values[name] = v
		if existingVal == nil {
			o.propNames = append(o.propNames, name)
		}
		return true
	}
	return false
}

func (o *baseObject) defineOwnPropertySym(s *Symbol, descr PropertyDescriptor, throw bool) bool {
	existingVal := o.symValues[s]
	if v, ok := o._defineOwnProperty(s.descString(), existingVal, descr, throw); ok {
		if existingVal == nil {
			o._putSym(s, v)
		} else {
			o.symValues[s] = v
		}
		return true
	}
	return false
}

func (o *baseObject) _put(name string, v Value) {
	if _, exists := o.values[name]; !exists {
		o.propNames = append(o.propNames, name)
	}
	o.values[name] = v
}

func valueProp(value Value, writable, enumerable, configurable bool) Value {
	if writable && enumerable && configurable {
		return value
	}
	return &valueProperty{
		value:        value,
		writable:     writable,
		enumerable:   enumerable,
		configurable: configurable,
	}
}

func (o *baseObject) _putProp(name string, value Value, writable, enumerable, configurable bool) Value {
	prop := valueProp(value, writable, enumerable, configurable)
	o._put(name, prop)
	return prop
}

func (o *baseObject) _putSym(s *Symbol, prop Value) {
	if o.symValues == nil {
		o.symValues = make(map[*Symbol]Value)
	}
	if _, exists := o.symValues[s]; !exists {
		o.symNames = append(o.symNames, s)
	}
	o.symValues[s] = prop
}

func (o *baseObject) assertCallable() (func(FunctionCall) Value, bool) {
	return nil, false
}

func (o *baseObject) assertConstructor() func(args []Value, newTarget *Object) *Object {
	return nil
}

func (o *baseObject) stringKeys(all bool, accum []Value) []Value {
	for _, k := range o.propNames {
		if !all {
			if prop, ok := o.values[k].(*valueProperty); ok && !prop.enumerable {
				continue
			}
		}
		accum = append(accum, newStringValue(k))
	}
	return accum
}

func (o *baseObject) symbols(all bool, accum []Value) []Value {
	for _, s := range o.symNames {
		if !all {
			if prop, ok := o.symValues[s].(*valueProperty); ok && !prop.enumerable {
				continue
			}
		}
		accum = append(accum, s)
	}
	return accum
}

func (o *baseObject) keys(all bool, accum []Value) []Value {
	return o.symbols(all, o.val.self.stringKeys(all, accum))
}

func (o *baseObject) export() interface{} {
	m := make(map[string]interface{})
	for _, itemName := range o.propNames {
		v := o.getStr(itemName, nil)
		if v != nil {
			m[itemName] = v.Export()
		} else {
			m[itemName] = nil
		}
	}
	return m
}

func (o *baseObject) exportType() reflect.Type {
	return reflectTypeMap
}

func (o *baseObject) equal(objectImpl) bool {
	// identity is handled by the caller
	return false
}

// primitiveValueObject wraps a primitive when it needs to act as an object.
type primitiveValueObject struct {
	baseObject
	pValue Value
}

func (o *primitiveValueObject) export() interface{} {
	return o.pValue.Export()
}

func (o *primitiveValueObject) exportType() reflect.Type {
	return o.pValue.ExportType()
}

func (o *primitiveValueObject) equal(other objectImpl) bool {
	if other, ok := other.(*primitiveValueObject); ok {
		return o.pValue.SameAs(other.pValue)
	}
	return false
}

func (o *Object) get(p Value, receiver Value) Value {
	switch p := p.(type) {
	case *Symbol:
		return o.self.getSym(p, receiver)
	default:
		return o.self.getStr(p.String(), receiver)
	}
}

func (o *Object) getOwnProp(p Value) Value {
	switch p := p.(type) {
	case *Symbol:
		return o.self.getOwnPropSym(p)
	default:
		return o.self.getOwnPropStr(p.String())
	}
}

func (o *Object) hasOwnProperty(p Value) bool {
	switch p := p.(type) {
	case *Symbol:
		return o.self.hasOwnPropertySym(p)
	default:
		return o.self.hasOwnPropertyStr(p.String())
	}
}

func (o *Object) hasProperty(p Value) bool {
	switch p := p.(type) {
	case *Symbol:
		return o.self.hasPropertySym(p)
	default:
		return o.self.hasPropertyStr(p.String())
	}
}

func (o *Object) setStr(name string, val, receiver Value, throw bool) bool {
	if receiver == Value(o) {
		return o.self.setOwnStr(name, val, throw)
	}
	if res, handled := o.self.setForeignStr(name, val, receiver, throw); handled {
		return res
	}
	robj, ok := receiver.(*Object)
	if !ok {
		o.runtime.typeErrorResult(throw, "Receiver is not an object: %v", receiver)
		return false
	}
	if prop := robj.self.getOwnPropStr(name); prop != nil {
		if desc, ok := prop.(*valueProperty); ok {
			if desc.accessor {
				o.runtime.typeErrorResult(throw, "Receiver property %s is an accessor", name)
				return false
			}
			if !desc.writable {
				o.runtime.typeErrorResult(throw, "Cannot assign to read only property '%s'", name)
				return false
			}
		}
		return robj.self.defineOwnPropertyStr(name, PropertyDescriptor{Value: val}, throw)
	}
	return robj.self.defineOwnPropertyStr(name, PropertyDescriptor{
		Value:        val,
		Writable:     FLAG_TRUE,
		Enumerable:   FLAG_TRUE,
		Configurable: FLAG_TRUE,
	}, throw)
}

func (o *Object) setSym(s *Symbol, val, receiver Value, throw bool) bool {
	if receiver == Value(o) {
		return o.self.setOwnSym(s, val, throw)
	}
	if res, handled := o.self.setForeignSym(s, val, receiver, throw); handled {
		return res
	}
	robj, ok := receiver.(*Object)
	if !ok {
		o.runtime.typeErrorResult(throw, "Receiver is not an object: %v", receiver)
		return false
	}
	if prop := robj.self.getOwnPropSym(s); prop != nil {
		if desc, ok := prop.(*valueProperty); ok {
			if desc.accessor {
				o.runtime.typeErrorResult(throw, "Receiver property %s is an accessor", s.descString())
				return false
			}
			if !desc.writable {
				o.runtime.typeErrorResult(throw, "Cannot assign to read only property '%s'", s.descString())
				return false
			}
		}
		return robj.self.defineOwnPropertySym(s, PropertyDescriptor{Value: val}, throw)
	}
	return robj.self.defineOwnPropertySym(s, PropertyDescriptor{
		Value:        val,
		Writable:     FLAG_TRUE,
		Enumerable:   FLAG_TRUE,
		Configurable: FLAG_TRUE,
	}, throw)
}

func (o *Object) set(name Value, val, receiver Value, throw bool) bool {
	switch name := name.(type) {
	case *Symbol:
		return o.setSym(name, val, receiver, throw)
	default:
		return o.setStr(name.String(), val, receiver, throw)
	}
}

func (o *Object) delete(p Value, throw bool) bool {
	switch p := p.(type) {
	case *Symbol:
		return o.self.deleteSym(p, throw)
	default:
		return o.self.deleteStr(p.String(), throw)
	}
}

func (o *Object) defineOwnProperty(p Value, desc PropertyDescriptor, throw bool) bool {
	switch p := p.(type) {
	case *Symbol:
		return o.self.defineOwnPropertySym(p, desc, throw)
	default:
		return o.self.defineOwnPropertyStr(p.String(), desc, throw)
	}
}

func (o *Object) tryExoticToPrimitive(hint valueString) Value {
	exoticToPrimitive := toMethod(o.self.getSym(SymToPrimitive, nil))
	if exoticToPrimitive != nil {
		ret := exoticToPrimitive(FunctionCall{
			This:      o,
			Arguments: []Value{hint},
		})
		if _, fail := ret.(*Object); !fail {
			return ret
		}
		panic(o.runtime.NewTypeError("Cannot convert object to primitive value"))
	}
	return nil
}

func (o *Object) tryPrimitive(methodName string) Value {
	if method, ok := o.self.getStr(methodName, nil).(*Object); ok {
		if call, ok := method.self.assertCallable(); ok {
			v := call(FunctionCall{
				This: o,
			})
			if _, fail := v.(*Object); !fail {
				return v
			}
		}
	}
	return nil
}

func (o *Object) genericToPrimitiveNumber() Value {
	if v := o.tryPrimitive("valueOf"); v != nil {
		return v
	}
	if v := o.tryPrimitive("toString"); v != nil {
		return v
	}
	panic(o.runtime.NewTypeError("Could not convert %s to primitive", o.self.className()))
}

func (o *Object) toPrimitiveNumber() Value {
	if v := o.tryExoticToPrimitive(hintNumber); v != nil {
		return v
	}
	return o.genericToPrimitiveNumber()
}

func (o *Object) toPrimitiveString() Value {
	if v := o.tryExoticToPrimitive(hintString); v != nil {
		return v
	}
	if v := o.tryPrimitive("toString"); v != nil {
		return v
	}
	if v := o.tryPrimitive("valueOf"); v != nil {
		return v
	}
	panic(o.runtime.NewTypeError("Could not convert %s to primitive", o.self.className()))
}

func (o *Object) toPrimitive() Value {
	if v := o.tryExoticToPrimitive(hintDefault); v != nil {
		return v
	}
	return o.genericToPrimitiveNumber()
}

func toMethod(v Value) func(FunctionCall) Value {
	if v == nil || IsUndefined(v) || IsNull(v) {
		return nil
	}
	if obj, ok := v.(*Object); ok {
		if call, ok := obj.self.assertCallable(); ok {
			return call
		}
	}
	panic(typeError(fmt.Sprintf("%s is not a method", v.String())))
}

func (r *Runtime) valuePropToDescriptorObject(desc Value) Value {
	if desc == nil {
		return _undefined
	}
	var writable, configurable, enumerable, accessor bool
	var getter, setter Value
	var value Value
	if v, ok := desc.(*valueProperty); ok {
		writable = v.writable
		configurable = v.configurable
		enumerable = v.enumerable
		accessor = v.accessor
		value = v.value
		if v.getterFunc != nil {
			getter = v.getterFunc
		}
		if v.setterFunc != nil {
			setter = v.setterFunc
		}
	} else {
		writable = true
		configurable = true
		enumerable = true
		value = desc
	}

	ret := r.NewObject()
	obj := ret.self
	if !accessor {
		obj._putProp("value", nilSafe(value), true, true, true)
		obj._putProp("writable", r.toBoolean(writable), true, true, true)
	} else {
		obj._putProp("get", nilSafe(getter), true, true, true)
		obj._putProp("set", nilSafe(setter), true, true, true)
	}
	obj._putProp("enumerable", r.toBoolean(enumerable), true, true, true)
	obj._putProp("configurable", r.toBoolean(configurable), true, true, true)

	return ret
}

// Get returns the value of the named string property following the prototype
// chain.
func (o *Object) Get(name string) Value {
	return o.self.getStr(name, nil)
}

// GetSymbol is like Get for symbol-keyed properties.
func (o *Object) GetSymbol(s *Symbol) Value {
	return o.self.getSym(s, nil)
}

// Set assigns the named own property. It returns an error if the assignment
// failed (for example because the property is read-only).
func (o *Object) Set(name string, value interface{}) error {
	return tryFunc(func() {
		o.self.setOwnStr(name, o.runtime.ToValue(value), true)
	})
}

// SetSymbol is like Set for symbol-keyed properties.
func (o *Object) SetSymbol(s *Symbol, value interface{}) error {
	return tryFunc(func() {
		o.self.setOwnSym(s, o.runtime.ToValue(value), true)
	})
}

// Has reports whether the named property exists on the object or its
// prototype chain.
func (o *Object) Has(name string) bool {
	return o.self.hasPropertyStr(name)
}

// Delete removes the named own property. It returns an error if the property
// exists and is not configurable.
func (o *Object) Delete(name string) error {
	return tryFunc(func() {
		o.self.deleteStr(name, true)
	})
}

// DeleteSymbol is like Delete for symbol-keyed properties.
func (o *Object) DeleteSymbol(s *Symbol) error {
	return tryFunc(func() {
		o.self.deleteSym(s, true)
	})
}

// Keys returns the enumerable own string keys in insertion order.
func (o *Object) Keys() (keys []string) {
	vals := o.self.stringKeys(false, nil)
	keys = make([]string, 0, len(vals))
	for _, v := range vals {
		keys = append(keys, v.String())
	}
	return
}

// Symbols returns the own symbol keys in definition order.
func (o *Object) Symbols() []*Symbol {
	vals := o.self.symbols(true, nil)
	ret := make([]*Symbol, 0, len(vals))
	for _, v := range vals {
		if s, ok := v.(*Symbol); ok {
			ret = append(ret, s)
		}
	}
	return ret
}

// DefineDataProperty is a Go-friendly version of defineProperty for data
// properties.
func (o *Object) DefineDataProperty(name string, value Value, writable, configurable, enumerable Flag) error {
	return tryFunc(func() {
		o.self.defineOwnPropertyStr(name, PropertyDescriptor{
			Value:        value,
			Writable:     writable,
			Configurable: configurable,
			Enumerable:   enumerable,
		}, true)
	})
}

// DefineAccessorProperty is a Go-friendly version of defineProperty for
// accessor properties.
func (o *Object) DefineAccessorProperty(name string, getter, setter Value, configurable, enumerable Flag) error {
	return tryFunc(func() {
		o.self.defineOwnPropertyStr(name, PropertyDescriptor{
			Getter:       getter,
			Setter:       setter,
			Configurable: configurable,
			Enumerable:   enumerable,
		}, true)
	})
}

// DefineDataPropertySymbol is like DefineDataProperty for symbol keys.
func (o *Object) DefineDataPropertySymbol(s *Symbol, value Value, writable, configurable, enumerable Flag) error {
	return tryFunc(func() {
		o.self.defineOwnPropertySym(s, PropertyDescriptor{
			Value:        value,
			Writable:     writable,
			Configurable: configurable,
			Enumerable:   enumerable,
		}, true)
	})
}

// Prototype returns the prototype or nil.
func (o *Object) Prototype() *Object {
	return o.self.proto()
}

// SetPrototype sets the prototype. Passing nil makes the object
// prototype-less.
func (o *Object) SetPrototype(proto *Object) error {
	return tryFunc(func() {
		o.self.setProto(proto, true)
	})
}

// Runtime returns the runtime the object belongs to.
func (o *Object) Runtime() *Runtime {
	return o.runtime
}
