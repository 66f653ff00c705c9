package mirror

import (
	"math"
	"reflect"
	"strconv"
)

// arrayObject is a dense array. values holds either a plain Value, a
// *valueProperty or nil for a hole. Non-index properties live in the
// embedded baseObject.
type arrayObject struct {
	baseObject
	values     []Value
	length     int64
	lengthProp valueProperty
}

func (a *arrayObject) init() {
	a.baseObject.init()
	a.lengthProp.writable = true
	a._put("length", &a.lengthProp)
}

func strToIdx(s string) (int64, bool) {
	if s == "" {
		return -1, false
	}
	if s == "0" {
		return 0, true
	}
	if s[0] < '1' || s[0] > '9' {
		return -1, false
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil || i < 0 || i >= math.MaxUint32 {
		return -1, false
	}
	return i, true
}

func (a *arrayObject) _setLengthInt(l int64, throw bool) bool {
	if l >= 0 && l <= math.MaxUint32 {
		ret := true
		if l < a.length {
			// a non-configurable element stops the truncation
			for i := int64(len(a.values)) - 1; i >= l; i-- {
				if prop, ok := a.values[i].(*valueProperty); ok && !prop.configurable {
					l = i + 1
					ret = false
					break
				}
			}
			if int64(len(a.values)) > l {
				a.values = a.values[:l]
			}
		}
		a.length = l
		if !ret {
			a.val.runtime.typeErrorResult(throw, "Cannot redefine property: length")
		}
		return ret
	}
	panic(a.val.runtime.newError(a.val.runtime.global.TypeErrorPrototype, "Invalid array length"))
}

func (a *arrayObject) setLength(v Value, throw bool) bool {
	l := v.ToInteger()
	if float64(l) != v.ToFloat() {
		panic(a.val.runtime.newError(a.val.runtime.global.TypeErrorPrototype, "Invalid array length"))
	}
	if !a.lengthProp.writable {
		a.val.runtime.typeErrorResult(throw, "length is not writable")
		return false
	}
	return a._setLengthInt(l, throw)
}

func (a *arrayObject) getIdx(idx int64) Value {
	if idx >= 0 && idx < int64(len(a.values)) {
		return a.values[idx]
	}
	return nil
}

func (a *arrayObject) getStr(name string, receiver Value) Value {
	if idx, ok := strToIdx(name); ok {
		prop := a.getIdx(idx)
		if prop == nil {
			if proto := a.prototype; proto != nil {
				if receiver == nil {
					return proto.self.getStr(name, a.val)
				}
				return proto.self.getStr(name, receiver)
			}
		}
		if prop, ok := prop.(*valueProperty); ok {
			if receiver == nil {
				return prop.get(a.val)
			}
			return prop.get(receiver)
		}
		return prop
	}
	if name == "length" {
		return a.getLength()
	}
	return a.baseObject.getStr(name, receiver)
}

func (a *arrayObject) getOwnPropStr(name string) Value {
	if idx, ok := strToIdx(name); ok {
		return a.getIdx(idx)
	}
	if name == "length" {
		return a.getLengthProp()
	}
	return a.baseObject.getOwnPropStr(name)
}

func (a *arrayObject) getLengthProp() *valueProperty {
	a.lengthProp.value = intToValue(a.length)
	return &a.lengthProp
}

func (a *arrayObject) getLength() Value {
	return intToValue(a.length)
}

func (a *arrayObject) setOwnStr(name string, val Value, throw bool) bool {
	if idx, ok := strToIdx(name); ok {
		return a.setOwnIdx(idx, val, throw)
	}
	if name == "length" {
		return a.setLength(val, throw)
	}
	return a.baseObject.setOwnStr(name, val, throw)
}

func (a *arrayObject) setOwnIdx(idx int64, val Value, throw bool) bool {
	var prop Value
	if idx < int64(len(a.values)) {
		prop = a.values[idx]
	}
	if prop == nil {
		if proto := a.prototype; proto != nil {
			if res, handled := proto.self.setForeignStr(strconv.FormatInt(idx, 10), val, a.val, throw); handled {
				return res
			}
		}
		if !a.extensible {
			a.val.runtime.typeErrorResult(throw, "Cannot add property %d, object is not extensible", idx)
			return false
		}
		if idx >= a.length {
			if !a.lengthProp.writable {
				a.val.runtime.typeErrorResult(throw, "length is not writable")
				return false
			}
			a.length = idx + 1
		}
		a.expand(idx)
		a.values[idx] = val
		return true
	}
	if prop, ok := prop.(*valueProperty); ok {
		if !prop.isWritable() {
			a.val.runtime.typeErrorResult(throw, "Cannot assign to read only property '%d'", idx)
			return false
		}
		prop.set(a.val, val)
		return true
	}
	a.values[idx] = val
	return true
}

func (a *arrayObject) setForeignStr(name string, val, receiver Value, throw bool) (bool, bool) {
	if idx, ok := strToIdx(name); ok {
		var prop Value
		if idx < int64(len(a.values)) {
			prop = a.values[idx]
		}
		if prop == nil {
			if proto := a.prototype; proto != nil {
				if receiver != Value(proto) {
					return proto.self.setForeignStr(name, val, receiver, throw)
				}
				return proto.self.setOwnStr(name, val, throw), true
			}
		}
		return a._setForeignProp(name, prop, val, receiver, throw)
	}
	return a.baseObject.setForeignStr(name, val, receiver, throw)
}

func (a *arrayObject) expand(idx int64) {
	if idx >= int64(len(a.values)) {
		if idx >= int64(cap(a.values)) {
			newValues := make([]Value, idx+1, growCap(int(idx)+1, len(a.values), cap(a.values)))
			copy(newValues, a.values)
			a.values = newValues
		} else {
			a.values = a.values[:idx+1]
		}
	}
}

func growCap(newSize, oldSize, oldCap int) int {
	if oldCap == 0 {
		return newSize
	}
	newCap := oldCap
	for newCap < newSize {
		newCap += newCap / 2
		if newCap < 8 {
			newCap = 8
		}
	}
	return newCap
}

func (a *arrayObject) hasOwnPropertyStr(name string) bool {
	if idx, ok := strToIdx(name); ok {
		return idx < int64(len(a.values)) && a.values[idx] != nil
	}
	if name == "length" {
		return true
	}
	return a.baseObject.hasOwnPropertyStr(name)
}

func (a *arrayObject) defineOwnPropertyStr(name string, descr PropertyDescriptor, throw bool) bool {
	if idx, ok := strToIdx(name); ok {
		var existing Value
		if idx < int64(len(a.values)) {
			existing = a.values[idx]
		}
		prop, ok := a._defineOwnProperty(name, existing, descr, throw)
		if !ok {
			return false
		}
		if idx >= a.length {
			if !a.lengthProp.writable {
				a.val.runtime.typeErrorResult(throw, "length is not writable")
				return false
			}
			a.length = idx + 1
		}
		a.expand(idx)
		a.values[idx] = prop
		return true
	}
	if name == "length" {
		if descr.Value != nil {
			return a.setLength(descr.Value, throw)
		}
		if descr.Writable == FLAG_FALSE {
			a.lengthProp.writable = false
		}
		return true
	}
	return a.baseObject.defineOwnPropertyStr(name, descr, throw)
}

func (a *arrayObject) deleteStr(name string, throw bool) bool {
	if idx, ok := strToIdx(name); ok {
		if idx < int64(len(a.values)) {
			if v := a.values[idx]; v != nil {
				if !a.checkDelete(name, v, throw) {
					return false
				}
				a.values[idx] = nil
			}
		}
		return true
	}
	if name == "length" {
		a.val.runtime.typeErrorResult(throw, "Cannot delete property 'length'")
		return false
	}
	return a.baseObject.deleteStr(name, throw)
}

func (a *arrayObject) stringKeys(all bool, accum []Value) []Value {
	for i, v := range a.values {
		if v == nil {
			continue
		}
		if !all {
			if prop, ok := v.(*valueProperty); ok && !prop.enumerable {
				continue
			}
		}
		accum = append(accum, newStringValue(strconv.Itoa(i)))
	}
	return a.baseObject.stringKeys(all, accum)
}

// plainValues returns the backing slice if it holds nothing but plain
// values (no holes, no accessors), allowing callers to skip per-element
// property reads. Returns nil otherwise.
func (a *arrayObject) plainValues() []Value {
	if a.length != int64(len(a.values)) {
		return nil
	}
	for _, v := range a.values {
		if v == nil {
			return nil
		}
		if _, ok := v.(*valueProperty); ok {
			return nil
		}
	}
	return a.values
}

func (a *arrayObject) export() interface{} {
	arr := make([]interface{}, a.length)
	for i, v := range a.values {
		if v != nil {
			if prop, ok := v.(*valueProperty); ok {
				v = prop.get(a.val)
			}
			arr[i] = v.Export()
		}
	}
	return arr
}

func (a *arrayObject) exportType() reflect.Type {
	return reflectTypeArray
}
