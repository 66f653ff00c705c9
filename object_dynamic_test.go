package mirror

import (
	"sort"
	"testing"
)

type testDynObject struct {
	r *Runtime
	m map[string]Value
}

func (t *testDynObject) Get(key string) Value {
	return t.m[key]
}

func (t *testDynObject) Set(key string, val Value) bool {
	t.m[key] = val
	return true
}

func (t *testDynObject) Has(key string) bool {
	_, exists := t.m[key]
	return exists
}

func (t *testDynObject) Delete(key string) bool {
	delete(t.m, key)
	return true
}

func (t *testDynObject) Keys() []string {
	keys := make([]string, 0, len(t.m))
	for k := range t.m {
		keys = append(keys, k)
	}
	return keys
}

type testRoObject struct {
	m map[string]Value
}

func (t *testRoObject) Get(key string) Value {
	return t.m[key]
}

func (t *testRoObject) Has(key string) bool {
	_, exists := t.m[key]
	return exists
}

func (t *testRoObject) Keys() []string {
	keys := make([]string, 0, len(t.m))
	for k := range t.m {
		keys = append(keys, k)
	}
	return keys
}

type testDynArray struct {
	r *Runtime
	a []Value
}

func (t *testDynArray) Len() int {
	return len(t.a)
}

func (t *testDynArray) Get(idx int) Value {
	if idx < 0 {
		idx += len(t.a)
	}
	if idx >= 0 && idx < len(t.a) {
		return t.a[idx]
	}
	return nil
}

func (t *testDynArray) expand(newLen int) {
	if newLen > cap(t.a) {
		a := make([]Value, newLen)
		copy(a, t.a)
		t.a = a
	} else {
		t.a = t.a[:newLen]
	}
}

func (t *testDynArray) Set(idx int, val Value) bool {
	if idx < 0 {
		idx += len(t.a)
	}
	if idx < 0 {
		return false
	}
	if idx >= len(t.a) {
		t.expand(idx + 1)
	}
	t.a[idx] = val
	return true
}

func (t *testDynArray) SetLen(i int) bool {
	if i > len(t.a) {
		t.expand(i)
		return true
	}
	if i < 0 {
		return false
	}
	if i < len(t.a) {
		tail := t.a[i:len(t.a)]
		for j := range tail {
			tail[j] = nil
		}
		t.a = t.a[:i]
	}
	return true
}

type testRoArray struct {
	a []Value
}

func (t *testRoArray) Len() int {
	return len(t.a)
}

func (t *testRoArray) Get(idx int) Value {
	if idx >= 0 && idx < len(t.a) {
		return t.a[idx]
	}
	return nil
}

func TestDynamicObject(t *testing.T) {
	vm := New()
	dynObj := &testDynObject{
		r: vm,
		m: make(map[string]Value),
	}
	o := vm.NewDynamicObject(dynObj)

	if err := o.Set("test", 42); err != nil {
		t.Fatal(err)
	}
	if !o.Has("test") {
		t.Fatal("'test' not in o")
	}
	if v := o.Get("test"); !v.StrictEquals(valueInt(42)) {
		t.Fatalf("Unexpected value: %v", v)
	}

	v, err := vm.Dispatch(OpGetOwnPropertyDescriptor, nil, o, newStringValue("test"))
	if err != nil {
		t.Fatal(err)
	}
	desc := v.(*Object)
	if !desc.Get("value").StrictEquals(valueInt(42)) {
		t.Fatal("wrong descriptor value")
	}
	for _, attr := range []string{"writable", "enumerable", "configurable"} {
		if desc.Get(attr) != valueTrue {
			t.Fatalf("%s is not true", attr)
		}
	}

	// properties of a dynamic object cannot be locked down
	if err := o.DefineDataProperty("test1", valueInt(0), FLAG_FALSE, FLAG_TRUE, FLAG_FALSE); err == nil {
		t.Fatal("expected an error")
	}

	if keys := o.Keys(); len(keys) != 1 || keys[0] != "test" {
		t.Fatalf("Unexpected keys: %v", keys)
	}

	if err := o.Delete("test"); err != nil {
		t.Fatal(err)
	}
	if o.Has("test") {
		t.Fatal("'test' still in o after delete")
	}

	// the prototype is visible and replaceable
	if o.Prototype() != vm.global.ObjectPrototype {
		t.Fatal("unexpected prototype")
	}
	if err := o.SetPrototype(nil); err != nil {
		t.Fatal(err)
	}
	if o.Prototype() != nil {
		t.Fatal("prototype not cleared")
	}
}

func TestDynamicObjectCustomProto(t *testing.T) {
	vm := New()
	m := make(map[string]Value)
	dynObj := &testDynObject{
		r: vm,
		m: m,
	}
	o := vm.NewDynamicObject(dynObj)

	proto := vm.NewObject()
	if err := proto.Set("getTest", vm.NewNativeFunction("getTest", 0, func(call FunctionCall) Value {
		this := call.This.(*Object)
		return this.Get("test")
	})); err != nil {
		t.Fatal(err)
	}
	if err := proto.SetSymbol(SymToStringTag, "Custom"); err != nil {
		t.Fatal(err)
	}
	if err := o.SetPrototype(proto); err != nil {
		t.Fatal(err)
	}

	m["test"] = valueInt(41)

	fn, ok := o.Get("getTest").(*Object)
	if !ok {
		t.Fatal("getTest is not inherited")
	}
	call, ok := fn.self.assertCallable()
	if !ok {
		t.Fatal("getTest is not callable")
	}
	if v := call(FunctionCall{This: o}); !v.StrictEquals(valueInt(41)) {
		t.Fatalf("Unexpected value: %v", v)
	}

	// symbol properties resolve through the prototype
	if v := o.GetSymbol(SymToStringTag); v == nil || v.String() != "Custom" {
		t.Fatalf("Unexpected tag: %v", v)
	}
	if s := o.String(); s != "[object Custom]" {
		t.Fatalf("Unexpected string conversion: %s", s)
	}
}

func TestDynamicObjectReflect(t *testing.T) {
	vm := New()
	dynObj := &testDynObject{
		r: vm,
		m: make(map[string]Value),
	}
	o := vm.NewDynamicObject(dynObj)

	v := testDispatch(t, vm, OpSet, o, newStringValue("x"), valueInt(1))
	if v != valueTrue {
		t.Fatal("set failed")
	}
	v = testDispatch(t, vm, OpGet, o, newStringValue("x"))
	if !v.StrictEquals(valueInt(1)) {
		t.Fatalf("Unexpected value: %v", v)
	}
	v = testDispatch(t, vm, OpHas, o, newStringValue("x"))
	if v != valueTrue {
		t.Fatal("has failed")
	}

	// the object refuses extensibility changes rather than failing hard
	v = testDispatch(t, vm, OpPreventExtensions, o)
	if v != valueFalse {
		t.Fatal("preventExtensions did not report false")
	}
	v = testDispatch(t, vm, OpIsExtensible, o)
	if v != valueTrue {
		t.Fatal("the object is no longer extensible")
	}

	// symbol-keyed writes are refused, reads resolve to undefined
	v = testDispatch(t, vm, OpSet, o, NewSymbol("s"), valueInt(1))
	if v != valueFalse {
		t.Fatal("symbol set did not report false")
	}
	v = testDispatch(t, vm, OpGet, o, NewSymbol("s"))
	if !IsUndefined(v) {
		t.Fatalf("Unexpected value: %v", v)
	}

	v = testDispatch(t, vm, OpDeleteProperty, o, newStringValue("x"))
	if v != valueTrue {
		t.Fatal("delete failed")
	}
	if o.Has("x") {
		t.Fatal("'x' still present after delete")
	}
}

func TestDynamicObjectOwnKeys(t *testing.T) {
	vm := New()
	dynObj := &testDynObject{
		r: vm,
		m: map[string]Value{
			"a": valueInt(1),
			"b": valueInt(2),
			"c": valueInt(3),
		},
	}
	o := vm.NewDynamicObject(dynObj)

	v := testDispatch(t, vm, OpOwnKeys, o)
	arr := v.(*Object)
	l := arr.Get("length").ToInteger()
	if l != 3 {
		t.Fatalf("Unexpected length: %d", l)
	}
	var keys []string
	for i := int64(0); i < l; i++ {
		keys = append(keys, arr.Get(valueInt(i).String()).String())
	}
	sort.Strings(keys)
	if keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
		t.Fatalf("Unexpected keys: %v", keys)
	}
}

func TestReadonlyObject(t *testing.T) {
	vm := New()
	roObj := &testRoObject{
		m: map[string]Value{
			"ro": valueInt(1),
		},
	}
	o := vm.NewReadonlyObject(roObj)

	if v := o.Get("ro"); !v.StrictEquals(valueInt(1)) {
		t.Fatalf("Unexpected value: %v", v)
	}
	if !o.Has("ro") {
		t.Fatal("'ro' not in o")
	}

	if err := o.Set("ro", 2); err == nil {
		t.Fatal("expected an error")
	} else if err.Error() != `TypeError: Cannot set property "ro" of a readonly object` {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := o.Set("new", 1); err == nil {
		t.Fatal("expected an error")
	}
	if err := o.Delete("ro"); err == nil {
		t.Fatal("expected an error")
	} else if err.Error() != `TypeError: Cannot delete property "ro" of a readonly object` {
		t.Fatalf("Unexpected error: %v", err)
	}

	// deleting a property it never had succeeds
	if err := o.Delete("missing"); err != nil {
		t.Fatal(err)
	}

	// through the dispatcher the refusals come back as false
	v := testDispatch(t, vm, OpSet, o, newStringValue("ro"), valueInt(2))
	if v != valueFalse {
		t.Fatal("set did not report false")
	}
	v = testDispatch(t, vm, OpDeleteProperty, o, newStringValue("ro"))
	if v != valueFalse {
		t.Fatal("delete did not report false")
	}
	if v := o.Get("ro"); !v.StrictEquals(valueInt(1)) {
		t.Fatalf("value changed: %v", v)
	}

	if o.Export() != roObj {
		t.Fatal("Export returned a different handler")
	}
}

func TestDynamicArray(t *testing.T) {
	vm := New()
	dynArr := &testDynArray{
		r: vm,
	}
	a := vm.NewDynamicArray(dynArr)

	if v := a.Get("length"); !v.StrictEquals(valueInt(0)) {
		t.Fatalf("Unexpected length: %v", v)
	}

	v := testDispatch(t, vm, OpSet, a, newStringValue("0"), valueInt(10))
	if v != valueTrue {
		t.Fatal("set 0 failed")
	}
	v = testDispatch(t, vm, OpSet, a, newStringValue("2"), valueInt(30))
	if v != valueTrue {
		t.Fatal("set 2 failed")
	}
	if v := a.Get("length"); !v.StrictEquals(valueInt(3)) {
		t.Fatalf("Unexpected length: %v", v)
	}
	if v := a.Get("0"); !v.StrictEquals(valueInt(10)) {
		t.Fatalf("Unexpected a[0]: %v", v)
	}
	if v := a.Get("2"); !v.StrictEquals(valueInt(30)) {
		t.Fatalf("Unexpected a[2]: %v", v)
	}

	// negative indices address from the end
	if v := a.Get("-1"); !v.StrictEquals(valueInt(30)) {
		t.Fatalf("Unexpected a[-1]: %v", v)
	}

	// shrinking through the length property
	v = testDispatch(t, vm, OpSet, a, newStringValue("length"), valueInt(1))
	if v != valueTrue {
		t.Fatal("set length failed")
	}
	if dynArr.Len() != 1 {
		t.Fatalf("Unexpected handler length: %d", dynArr.Len())
	}

	// non-index keys have no home on a dynamic array
	v = testDispatch(t, vm, OpSet, a, newStringValue("foo"), valueInt(1))
	if v != valueFalse {
		t.Fatal("set foo did not report false")
	}

	// deleting an existing index stores undefined, the slot remains
	v = testDispatch(t, vm, OpDeleteProperty, a, newStringValue("0"))
	if v != valueTrue {
		t.Fatal("delete 0 failed")
	}
	if !a.Has("0") {
		t.Fatal("dense array lost a slot after delete")
	}
	if v := a.Get("0"); !IsUndefined(v) {
		t.Fatalf("Unexpected a[0] after delete: %v", v)
	}
}

func TestDynamicArrayOwnKeys(t *testing.T) {
	vm := New()
	dynArr := &testDynArray{
		r: vm,
		a: []Value{valueInt(1), valueInt(2)},
	}
	a := vm.NewDynamicArray(dynArr)

	v := testDispatch(t, vm, OpOwnKeys, a)
	arr := v.(*Object)
	if l := arr.Get("length").ToInteger(); l != 3 {
		t.Fatalf("Unexpected length: %d", l)
	}
	for i, expected := range []string{"0", "1", "length"} {
		if s := arr.Get(valueInt(int64(i)).String()).String(); s != expected {
			t.Fatalf("keys[%d] = %q, expected %q", i, s, expected)
		}
	}
}

func TestReadonlyArray(t *testing.T) {
	vm := New()
	roArr := &testRoArray{
		a: []Value{newStringValue("one"), newStringValue("two")},
	}
	a := vm.NewReadonlyArray(roArr)

	if v := a.Get("length"); !v.StrictEquals(valueInt(2)) {
		t.Fatalf("Unexpected length: %v", v)
	}
	if v := a.Get("1"); v.String() != "two" {
		t.Fatalf("Unexpected a[1]: %v", v)
	}
	if !a.Has("0") || a.Has("2") {
		t.Fatal("unexpected index presence")
	}

	v := testDispatch(t, vm, OpSet, a, newStringValue("0"), valueInt(1))
	if v != valueFalse {
		t.Fatal("set did not report false")
	}
	v = testDispatch(t, vm, OpSet, a, newStringValue("length"), valueInt(0))
	if v != valueFalse {
		t.Fatal("set length did not report false")
	}
	if err := a.Set("0", 1); err == nil {
		t.Fatal("expected an error")
	} else if err.Error() != "TypeError: Cannot set property 0 of a readonly array" {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(roArr.a) != 2 {
		t.Fatal("the handler data changed")
	}
}

func TestDynamicArrayLengthDescriptor(t *testing.T) {
	vm := New()
	dynArr := &testDynArray{
		r: vm,
		a: []Value{valueInt(1)},
	}
	a := vm.NewDynamicArray(dynArr)

	v := testDispatch(t, vm, OpGetOwnPropertyDescriptor, a, newStringValue("length"))
	desc := v.(*Object)
	if !desc.Get("value").StrictEquals(valueInt(1)) {
		t.Fatal("wrong length value")
	}
	if desc.Get("writable") != valueTrue {
		t.Fatal("length is not writable")
	}
	if desc.Get("enumerable") != valueFalse || desc.Get("configurable") != valueFalse {
		t.Fatal("length must be neither enumerable nor configurable")
	}
}
