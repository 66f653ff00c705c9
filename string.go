package mirror

import (
	"math"
	"reflect"
	"strconv"
	"strings"
)

const (
	stringEmpty     valueString = ""
	stringTrue      valueString = "true"
	stringFalse     valueString = "false"
	stringNull      valueString = "null"
	stringUndefined valueString = "undefined"
)

// valueString is the string primitive. Unlike the engines this model was
// carved out of it keeps a single representation backed by a Go string.
type valueString string

func newStringValue(s string) valueString {
	return valueString(s)
}

func (s valueString) ToInteger() int64 {
	return int64(s.ToFloat())
}

func (s valueString) toString() valueString {
	return s
}

func (s valueString) ToString() Value {
	return s
}

func (s valueString) String() string {
	return string(s)
}

func (s valueString) ToFloat() float64 {
	t := strings.TrimSpace(string(s))
	if t == "" {
		return 0
	}
	switch t {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if strings.HasPrefix(t, "0x") || strings.HasPrefix(t, "0X") {
		if i, err := strconv.ParseInt(t[2:], 16, 64); err == nil {
			return float64(i)
		}
		return math.NaN()
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func (s valueString) ToNumber() Value {
	f := s.ToFloat()
	if math.IsNaN(f) {
		return _NaN
	}
	if i := int64(f); float64(i) == f {
		return intToValue(i)
	}
	return floatToValue(f)
}

func (s valueString) ToBoolean() bool {
	return len(s) > 0
}

func (s valueString) ToObject(r *Runtime) *Object {
	return r.newPrimitiveObject(s, r.global.ObjectPrototype, classString)
}

func (s valueString) SameAs(other Value) bool {
	if o, ok := other.(valueString); ok {
		return s == o
	}
	return false
}

func (s valueString) Equals(other Value) bool {
	switch o := other.(type) {
	case valueString:
		return s == o
	case valueInt, valueFloat, valueBool:
		return s.ToFloat() == o.ToFloat()
	case *Object:
		return s.Equals(o.toPrimitive())
	}
	return false
}

func (s valueString) StrictEquals(other Value) bool {
	if o, ok := other.(valueString); ok {
		return s == o
	}
	return false
}

func (s valueString) Export() interface{} {
	return string(s)
}

func (s valueString) ExportType() reflect.Type {
	return reflectTypeString
}

// strToInt converts a property key to an integer if it is the canonical
// representation of one (which excludes leading zeroes, a '+' sign and "-0").
func strToInt(s string) (int, bool) {
	if s == "0" {
		return 0, true
	}
	t := s
	if len(t) > 0 && t[0] == '-' {
		t = t[1:]
	}
	if len(t) == 0 || t[0] < '1' || t[0] > '9' {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}
