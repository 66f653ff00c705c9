package mirror

import "reflect"

// lazyObject defers the construction of a builtin until its first use. The
// first method call runs create and swaps the real implementation in.
type lazyObject struct {
	val    *Object
	create func(*Object) objectImpl
}

func (o *lazyObject) className() string {
	obj := o.create(o.val)
	o.val.self = obj
	return obj.className()
}

func (o *lazyObject) getStr(name string, receiver Value) Value {
	obj := o.create(o.val)
	o.val.self = obj
	return obj.getStr(name, receiver)
}

func (o *lazyObject) getSym(s *Symbol, receiver Value) Value {
	obj := o.create(o.val)
	o.val.self = obj
	return obj.getSym(s, receiver)
}

func (o *lazyObject) getOwnPropStr(name string) Value {
	obj := o.create(o.val)
	o.val.self = obj
	return obj.getOwnPropStr(name)
}

func (o *lazyObject) getOwnPropSym(s *Symbol) Value {
	obj := o.create(o.val)
	o.val.self = obj
	return obj.getOwnPropSym(s)
}

func (o *lazyObject) setOwnStr(name string, val Value, throw bool) bool {
	obj := o.create(o.val)
	o.val.self = obj
	return obj.setOwnStr(name, val, throw)
}

func (o *lazyObject) setOwnSym(s *Symbol, val Value, throw bool) bool {
	obj := o.create(o.val)
	o.val.self = obj
	return obj.setOwnSym(s, val, throw)
}

func (o *lazyObject) setForeignStr(name string, val, receiver Value, throw bool) (bool, bool) {
	obj := o.create(o.val)
	o.val.self = obj
	return obj.setForeignStr(name, val, receiver, throw)
}

func (o *lazyObject) setForeignSym(s *Symbol, val, receiver Value, throw bool) (bool, bool) {
	obj := o.create(o.val)
	o.val.self = obj
	return obj.setForeignSym(s, val, receiver, throw)
}

func (o *lazyObject) hasPropertyStr(name string) bool {
	obj := o.create(o.val)
	o.val.self = obj
	return obj.hasPropertyStr(name)
}

func (o *lazyObject) hasPropertySym(s *Symbol) bool {
	obj := o.create(o.val)
	o.val.self = obj
	return obj.hasPropertySym(s)
}

func (o *lazyObject) hasOwnPropertyStr(name string) bool {
	obj := o.create(o.val)
	o.val.self = obj
	return obj.hasOwnPropertyStr(name)
}

func (o *lazyObject) hasOwnPropertySym(s *Symbol) bool {
	obj := o.create(o.val)
	o.val.self = obj
	return obj.hasOwnPropertySym(s)
}

func (o *lazyObject) defineOwnPropertyStr(name string, desc PropertyDescriptor, throw bool) bool {
	obj := o.create(o.val)
	o.val.self = obj
	return obj.defineOwnPropertyStr(name, desc, throw)
}

func (o *lazyObject) defineOwnPropertySym(s *Symbol, desc PropertyDescriptor, throw bool) bool {
	obj := o.create(o.val)
	o.val.self = obj
	return obj.defineOwnPropertySym(s, desc, throw)
}

func (o *lazyObject) deleteStr(name string, throw bool) bool {
	obj := o.create(o.val)
	o.val.self = obj
	return obj.deleteStr(name, throw)
}

func (o *lazyObject) deleteSym(s *Symbol, throw bool) bool {
	obj := o.create(o.val)
	o.val.self = obj
	return obj.deleteSym(s, throw)
}

func (o *lazyObject) assertCallable() (call func(FunctionCall) Value, ok bool) {
	obj := o.create(o.val)
	o.val.self = obj
	return obj.assertCallable()
}

func (o *lazyObject) assertConstructor() func(args []Value, newTarget *Object) *Object {
	obj := o.create(o.val)
	o.val.self = obj
	return obj.assertConstructor()
}

func (o *lazyObject) proto() *Object {
	obj := o.create(o.val)
	o.val.self = obj
	return obj.proto()
}

func (o *lazyObject) setProto(proto *Object, throw bool) bool {
	obj := o.create(o.val)
	o.val.self = obj
	return obj.setProto(proto, throw)
}

func (o *lazyObject) isExtensible() bool {
	obj := o.create(o.val)
	o.val.self = obj
	return obj.isExtensible()
}

func (o *lazyObject) preventExtensions(throw bool) bool {
	obj := o.create(o.val)
	o.val.self = obj
	return obj.preventExtensions(throw)
}

func (o *lazyObject) export() interface{} {
	obj := o.create(o.val)
	o.val.self = obj
	return obj.export()
}

func (o *lazyObject) exportType() reflect.Type {
	obj := o.create(o.val)
	o.val.self = obj
	return obj.exportType()
}

func (o *lazyObject) equal(other objectImpl) bool {
	obj := o.create(o.val)
	o.val.self = obj
	return obj.equal(other)
}

func (o *lazyObject) stringKeys(all bool, accum []Value) []Value {
	obj := o.create(o.val)
	o.val.self = obj
	return obj.stringKeys(all, accum)
}

func (o *lazyObject) symbols(all bool, accum []Value) []Value {
	obj := o.create(o.val)
	o.val.self = obj
	return obj.symbols(all, accum)
}

func (o *lazyObject) keys(all bool, accum []Value) []Value {
	obj := o.create(o.val)
	o.val.self = obj
	return obj.keys(all, accum)
}

func (o *lazyObject) _putProp(string, Value, bool, bool, bool) Value {
	panic("cannot use _putProp() in lazy object")
}

func (o *lazyObject) _putSym(*Symbol, Value) {
	panic("cannot use _putSym() in lazy object")
}
