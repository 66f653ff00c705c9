package mirror

import (
	"reflect"
	"strconv"
)

// objectGoSlice wraps a Go []interface{} as an array-like object. The slice
// is shared, not copied, so changes made through either side are visible to
// the other. Elements holding nil read as null.
type objectGoSlice struct {
	baseObject
	data       *[]interface{}
	lengthProp valueProperty
}

func (r *Runtime) newObjectGoSlice(data *[]interface{}) *objectGoSlice {
	obj := &Object{runtime: r}
	a := &objectGoSlice{
		baseObject: baseObject{
			val: obj,
		},
		data: data,
	}
	obj.self = a
	a.init()
	return a
}

func (o *objectGoSlice) init() {
	o.baseObject.init()
	o.class = classArray
	o.prototype = o.val.runtime.global.ArrayPrototype
	o.lengthProp.writable = true
	o.extensible = true
	o.updateLen()
	o.baseObject._put("length", &o.lengthProp)
}

func (o *objectGoSlice) updateLen() {
	o.lengthProp.value = intToValue(int64(len(*o.data)))
}

func (o *objectGoSlice) _getIdx(idx int) Value {
	if idx < len(*o.data) {
		return o.val.runtime.ToValue((*o.data)[idx])
	}
	return nil
}

func (o *objectGoSlice) _getStr(name string) Value {
	if idx, ok := strToInt(name); ok && idx >= 0 {
		return o._getIdx(idx)
	}
	return nil
}

func (o *objectGoSlice) getStr(name string, receiver Value) Value {
	if v := o._getStr(name); v != nil {
		return v
	}
	if name == "length" {
		o.updateLen()
	}
	return o.baseObject.getStr(name, receiver)
}

func (o *objectGoSlice) getOwnPropStr(name string) Value {
	if idx, ok := strToInt(name); ok && idx >= 0 {
		if v := o._getIdx(idx); v != nil {
			return &valueProperty{
				value:      v,
				writable:   true,
				enumerable: true,
			}
		}
		return nil
	}
	if name == "length" {
		o.updateLen()
		return &o.lengthProp
	}
	return nil
}

func (o *objectGoSlice) grow(size int) {
	oldcap := cap(*o.data)
	if oldcap < size {
		n := make([]interface{}, size, growCap(size, len(*o.data), oldcap))
		copy(n, *o.data)
		*o.data = n
	} else {
		tail := (*o.data)[len(*o.data):size]
		for k := range tail {
			tail[k] = nil
		}
		*o.data = (*o.data)[:size]
	}
	o.updateLen()
}

func (o *objectGoSlice) shrink(size int) {
	tail := (*o.data)[size:]
	for k := range tail {
		tail[k] = nil
	}
	*o.data = (*o.data)[:size]
	o.updateLen()
}

func (o *objectGoSlice) putIdx(idx int, v Value, throw bool) bool {
	if idx >= len(*o.data) {
		o.grow(idx + 1)
	}
	(*o.data)[idx] = v.Export()
	return true
}

func (o *objectGoSlice) putLength(v Value, throw bool) bool {
	newLen := toIntStrict(toLength(v))
	curLen := len(*o.data)
	if newLen > curLen {
		o.grow(newLen)
	} else if newLen < curLen {
		o.shrink(newLen)
	}
	return true
}

func (o *objectGoSlice) setOwnStr(name string, val Value, throw bool) bool {
	if idx, ok := strToInt(name); ok && idx >= 0 {
		return o.putIdx(idx, val, throw)
	}
	if name == "length" {
		return o.putLength(val, throw)
	}
	if res, handled := o._setForeignStr(name, nil, val, o.val, throw); handled {
		return res
	}
	o.val.runtime.typeErrorResult(throw, "Can't set property '%s' on Go slice", name)
	return false
}

func (o *objectGoSlice) setForeignStr(name string, val, receiver Value, throw bool) (bool, bool) {
	return o._setForeignStr(name, nil, val, receiver, throw)
}

func (o *objectGoSlice) _hasIdx(idx int) bool {
	return idx < len(*o.data)
}

func (o *objectGoSlice) hasOwnPropertyStr(name string) bool {
	if idx, ok := strToInt(name); ok && idx >= 0 {
		return o._hasIdx(idx)
	}
	return name == "length"
}

func (o *objectGoSlice) defineOwnPropertyStr(name string, descr PropertyDescriptor, throw bool) bool {
	if idx, ok := strToInt(name); ok && idx >= 0 {
		if !o.val.runtime.checkHostObjectPropertyDescr(name, descr, throw) {
			return false
		}
		val := descr.Value
		if val == nil {
			val = _undefined
		}
		return o.putIdx(idx, val, throw)
	}
	o.val.runtime.typeErrorResult(throw, "Cannot define property '%s' on a Go slice", name)
	return false
}

func (o *objectGoSlice) deleteStr(name string, throw bool) bool {
	if idx, ok := strToInt(name); ok && idx >= 0 && idx < len(*o.data) {
		(*o.data)[idx] = nil
		return true
	}
	return o.baseObject.deleteStr(name, throw)
}

func (o *objectGoSlice) stringKeys(_ bool, accum []Value) []Value {
	for i := range *o.data {
		accum = append(accum, valueString(strconv.Itoa(i)))
	}
	return accum
}

func (o *objectGoSlice) export() interface{} {
	return *o.data
}

func (o *objectGoSlice) exportType() reflect.Type {
	return reflectTypeArray
}

func (o *objectGoSlice) equal(other objectImpl) bool {
	if other, ok := other.(*objectGoSlice); ok {
		return o.data == other.data
	}
	return false
}
