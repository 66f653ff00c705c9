package mirror

import (
	"math"
	"strconv"
	"testing"
)

func TestToValuePrimitives(t *testing.T) {
	r := New()
	for _, tc := range []struct {
		in       interface{}
		expected Value
	}{
		{nil, _null},
		{true, valueTrue},
		{false, valueFalse},
		{"s", newStringValue("s")},
		{int(1), valueInt(1)},
		{int8(2), valueInt(2)},
		{int16(3), valueInt(3)},
		{int32(4), valueInt(4)},
		{int64(5), valueInt(5)},
		{uint(6), valueInt(6)},
		{uint8(7), valueInt(7)},
		{uint16(8), valueInt(8)},
		{uint32(9), valueInt(9)},
		{uint64(10), valueInt(10)},
		{float32(1.5), valueFloat(1.5)},
		{float64(2.5), valueFloat(2.5)},
	} {
		if v := r.ToValue(tc.in); v != tc.expected {
			t.Fatalf("%v (%T): expected %v, got %v", tc.in, tc.in, tc.expected, v)
		}
	}

	// values above the int64 range downgrade to floats
	if v := r.ToValue(uint64(math.MaxUint64)); v != valueFloat(float64(math.MaxUint64)) {
		t.Fatalf("Unexpected value: %v", v)
	}
}

func TestToValuePassThrough(t *testing.T) {
	r := New()
	o := r.NewObject()
	if v := r.ToValue(o); v != Value(o) {
		t.Fatal("an object must pass through unchanged")
	}
	var nilObj *Object
	if v := r.ToValue(nilObj); v != _null {
		t.Fatalf("a nil object must read as null, got %v", v)
	}
	val := valueInt(5)
	if v := r.ToValue(val); v != Value(val) {
		t.Fatal("a Value must pass through unchanged")
	}
}

func TestToValueFunctions(t *testing.T) {
	r := New()
	fn := r.ToValue(func(call FunctionCall) Value {
		return valueInt(1)
	})
	fnObj, ok := fn.(*Object)
	if !ok {
		t.Fatalf("Unexpected value: %v", fn)
	}
	if _, callable := fnObj.self.assertCallable(); !callable {
		t.Fatal("the wrapped function is not callable")
	}
	if fnObj.self.assertConstructor() != nil {
		t.Fatal("a plain function must not construct")
	}

	ctor := r.ToValue(func(call ConstructorCall) Value {
		return nil
	})
	ctorObj := ctor.(*Object)
	if ctorObj.self.assertConstructor() == nil {
		t.Fatal("the wrapped constructor must construct")
	}
}

func TestToValueComposites(t *testing.T) {
	r := New()
	if _, ok := r.ToValue(map[string]interface{}{}).(*Object); !ok {
		t.Fatal("a map must convert to an object")
	}
	var nilMap map[string]interface{}
	if v := r.ToValue(nilMap); v != _null {
		t.Fatalf("a nil map must read as null, got %v", v)
	}

	if _, ok := r.ToValue([]interface{}{1}).(*Object); !ok {
		t.Fatal("a slice must convert to an object")
	}
	var nilSlicePtr *[]interface{}
	if v := r.ToValue(nilSlicePtr); v != _null {
		t.Fatalf("a nil slice pointer must read as null, got %v", v)
	}

	arr := r.ToValue([]Value{valueInt(1), valueInt(2)})
	arrObj, ok := arr.(*Object)
	if !ok {
		t.Fatalf("Unexpected value: %v", arr)
	}
	if l := arrObj.Get("length").ToInteger(); l != 2 {
		t.Fatalf("Unexpected length: %d", l)
	}
	if _, ok := arrObj.self.(*arrayObject); !ok {
		t.Fatalf("Unexpected object kind: %T", arrObj.self)
	}
}

func TestToValueUnsupported(t *testing.T) {
	r := New()
	ex := r.try(func() {
		r.ToValue(struct{}{})
	})
	if ex == nil {
		t.Fatal("expected an error")
	}
	if msg := ex.Error(); msg != "TypeError: Could not convert struct {} to a value" {
		t.Fatalf("Unexpected error: %q", msg)
	}
}

func TestRuntimeTransition(t *testing.T) {
	r1 := New()
	r2 := New()
	o := r1.NewObject()

	ex := r2.try(func() {
		r2.ToValue(o)
	})
	if ex == nil {
		t.Fatal("expected an error")
	}
	if msg := ex.Error(); msg != "TypeError: Illegal runtime transition of an Object" {
		t.Fatalf("Unexpected error: %q", msg)
	}

	// the owning runtime accepts it, runtime-less objects are fine anywhere
	if v := r1.ToValue(o); v != Value(o) {
		t.Fatal("the owning runtime must accept its object")
	}
}

func TestNewTypeError(t *testing.T) {
	r := New()
	err := &Exception{val: r.NewTypeError("%s of %d", "out", 10)}
	if msg := err.Error(); msg != "TypeError: out of 10" {
		t.Fatalf("Unexpected message: %q", msg)
	}

	// no arguments leaves the message empty, toString falls back to the name
	err = &Exception{val: r.NewTypeError()}
	if msg := err.Error(); msg != "TypeError" {
		t.Fatalf("Unexpected message: %q", msg)
	}

	obj := r.NewTypeError("boom")
	if name := obj.Get("name").String(); name != "TypeError" {
		t.Fatalf("Unexpected name: %q", name)
	}
	if m := obj.Get("message").String(); m != "boom" {
		t.Fatalf("Unexpected message: %q", m)
	}
}

func TestErrorToStringFallbacks(t *testing.T) {
	r := New()

	// a bare error object renders as its name
	o := r.CreateObject(r.global.ErrorPrototype)
	if s := o.String(); s != "Error" {
		t.Fatalf("Unexpected rendering: %q", s)
	}

	// an empty name leaves just the message
	if err := o.Set("name", ""); err != nil {
		t.Fatal(err)
	}
	if err := o.Set("message", "boom"); err != nil {
		t.Fatal(err)
	}
	if s := o.String(); s != "boom" {
		t.Fatalf("Unexpected rendering: %q", s)
	}

	// name and message joined with a colon
	if err := o.Set("name", "CustomError"); err != nil {
		t.Fatal(err)
	}
	if s := o.String(); s != "CustomError: boom" {
		t.Fatalf("Unexpected rendering: %q", s)
	}
}

func TestException(t *testing.T) {
	var nilEx *Exception
	if s := nilEx.Error(); s != "<nil>" {
		t.Fatalf("Unexpected nil rendering: %q", s)
	}
	if s := (&Exception{}).Error(); s != "<nil>" {
		t.Fatalf("Unexpected empty rendering: %q", s)
	}

	v := valueInt(5)
	ex := &Exception{val: v}
	if ex.Value() != Value(v) {
		t.Fatal("Value must return the thrown value")
	}
	if s := ex.Error(); s != "5" {
		t.Fatalf("Unexpected rendering: %q", s)
	}
}

func TestTryRecovery(t *testing.T) {
	r := New()

	// a thrown Value is wrapped
	ex := r.try(func() {
		panic(Value(valueInt(42)))
	})
	if ex == nil || ex.Value().ToInteger() != 42 {
		t.Fatalf("Unexpected exception: %v", ex)
	}

	// a raw conversion failure is materialized into a TypeError object
	ex = r.try(func() {
		panic(typeError("bad conversion"))
	})
	if ex == nil {
		t.Fatal("expected an exception")
	}
	if msg := ex.Error(); msg != "TypeError: bad conversion" {
		t.Fatalf("Unexpected error: %q", msg)
	}
	obj, ok := ex.Value().(*Object)
	if !ok {
		t.Fatalf("Unexpected exception value: %v", ex.Value())
	}
	if name := obj.Get("name").String(); name != "TypeError" {
		t.Fatalf("Unexpected name: %q", name)
	}

	// unrelated panics keep unwinding
	defer func() {
		if recover() == nil {
			t.Fatal("the panic must not be swallowed")
		}
	}()
	r.try(func() {
		panic("unrelated")
	})
}

func TestGlobalObject(t *testing.T) {
	r := New()
	global := r.GlobalObject()
	if global == nil {
		t.Fatal("no global object")
	}
	if v := global.Get("Reflect"); v == nil {
		t.Fatal("the reflection namespace is not installed")
	}

	// the global object is an ordinary extensible object
	if err := global.Set("answer", 42); err != nil {
		t.Fatal(err)
	}
	if v := global.Get("answer").ToInteger(); v != 42 {
		t.Fatalf("Unexpected value: %d", v)
	}
}

func TestArgumentListLengthCoercion(t *testing.T) {
	r := New()
	fn := r.ToValue(func(call FunctionCall) Value {
		return valueInt(int64(len(call.Arguments)))
	})

	// a negative length clamps to zero
	argsObj := r.NewObject()
	if err := argsObj.Set("length", -5); err != nil {
		t.Fatal(err)
	}
	if res := testDispatch(t, r, OpApply, fn, _undefined, argsObj); res.ToInteger() != 0 {
		t.Fatalf("Unexpected argument count: %v", res)
	}

	// a fractional length truncates
	argsObj = r.NewObject()
	for i, v := range []string{"a", "b", "c"} {
		if err := argsObj.Set(strconv.Itoa(i), v); err != nil {
			t.Fatal(err)
		}
	}
	if err := argsObj.Set("length", 2.7); err != nil {
		t.Fatal(err)
	}
	if res := testDispatch(t, r, OpApply, fn, _undefined, argsObj); res.ToInteger() != 2 {
		t.Fatalf("Unexpected argument count: %v", res)
	}

	// a missing length means no arguments
	argsObj = r.NewObject()
	if res := testDispatch(t, r, OpApply, fn, _undefined, argsObj); res.ToInteger() != 0 {
		t.Fatalf("Unexpected argument count: %v", res)
	}
}

func TestPropertyDescriptorParsing(t *testing.T) {
	r := New()

	for _, tc := range []struct {
		name     string
		key      string
		val      interface{}
		expected string
	}{
		{"getter", "get", 42, "TypeError: Getter must be a function: 42"},
		{"setter", "set", 42, "TypeError: Setter must be a function: 42"},
	} {
		descr := r.NewObject()
		if err := descr.Set(tc.key, tc.val); err != nil {
			t.Fatal(err)
		}
		ex := r.try(func() {
			r.toPropertyDescriptor(descr)
		})
		if ex == nil {
			t.Fatalf("%s: expected an error", tc.name)
		}
		if msg := ex.Error(); msg != tc.expected {
			t.Fatalf("%s: unexpected error: %q", tc.name, msg)
		}
	}

	// accessors cannot be combined with a value
	descr := r.NewObject()
	if err := descr.Set("get", r.ToValue(func(call FunctionCall) Value { return _undefined })); err != nil {
		t.Fatal(err)
	}
	if err := descr.Set("value", 1); err != nil {
		t.Fatal(err)
	}
	ex := r.try(func() {
		r.toPropertyDescriptor(descr)
	})
	if ex == nil {
		t.Fatal("expected an error")
	}
	if msg := ex.Error(); msg != "TypeError: Invalid property descriptor. Cannot both specify accessors and a value or writable attribute" {
		t.Fatalf("Unexpected error: %q", msg)
	}

	// the descriptor must be an object to begin with
	ex = r.try(func() {
		r.toPropertyDescriptor(valueInt(1))
	})
	if ex == nil {
		t.Fatal("expected an error")
	}
	if msg := ex.Error(); msg != "TypeError: Property description must be an object: 1" {
		t.Fatalf("Unexpected error: %q", msg)
	}
}
