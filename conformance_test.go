package mirror

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// The files under testdata describe dispatch conformance cases: which
// routine to run, what to pass and what must come out, either a value or
// a failure. They keep the argument validation and failure policy matrix
// out of the Go sources.

type conformanceNegative struct {
	Type    string `yaml:"type"`
	Message string `yaml:"message"`
}

type conformanceCase struct {
	Name   string               `yaml:"name"`
	Op     string               `yaml:"op"`
	Target string               `yaml:"target"`
	Args   []string             `yaml:"args"`
	Result string               `yaml:"result"`
	Error  *conformanceNegative `yaml:"error"`
}

type conformanceFile struct {
	Description string            `yaml:"description"`
	Tests       []conformanceCase `yaml:"tests"`
}

func opByName(name string) (Op, bool) {
	for op := OpGet; op < opCount; op++ {
		if reflectRoutines[op].name == name {
			return op, true
		}
	}
	return 0, false
}

// conformanceValue builds the value a target or argument spec describes.
// Property keys are plain strings; everything else uses a "@" prefix.
func conformanceValue(r *Runtime, spec string) (Value, error) {
	if !strings.HasPrefix(spec, "@") {
		return newStringValue(spec), nil
	}
	switch {
	case spec == "@undefined":
		return _undefined, nil
	case spec == "@null":
		return _null, nil
	case spec == "@true":
		return valueTrue, nil
	case spec == "@false":
		return valueFalse, nil
	case spec == "@string":
		return newStringValue("s"), nil
	case spec == "@symbol":
		return NewSymbol("s"), nil
	case strings.HasPrefix(spec, "@num:"):
		n, err := strconv.ParseInt(spec[len("@num:"):], 10, 64)
		if err != nil {
			return nil, err
		}
		return intToValue(n), nil
	case spec == "@object":
		o := r.NewObject()
		if err := o.Set("x", 1); err != nil {
			return nil, err
		}
		return o, nil
	case spec == "@protoless":
		return r.CreateObject(nil), nil
	case spec == "@frozen":
		o := r.NewObject()
		if err := o.DefineDataProperty("pinned", valueInt(1), FLAG_FALSE, FLAG_FALSE, FLAG_FALSE); err != nil {
			return nil, err
		}
		o.self.preventExtensions(true)
		return o, nil
	case spec == "@array":
		return r.NewArray(10, 20), nil
	case spec == "@function":
		return r.NewNativeFunction("f", 0, func(call FunctionCall) Value {
			return intToValue(int64(len(call.Arguments)))
		}), nil
	case spec == "@constructor":
		return r.NewConstructor("C", 0, func(call ConstructorCall) Value {
			return nil
		}), nil
	case spec == "@descr":
		o := r.NewObject()
		if err := o.Set("value", 1); err != nil {
			return nil, err
		}
		if err := o.Set("configurable", true); err != nil {
			return nil, err
		}
		return o, nil
	}
	return nil, fmt.Errorf("unknown value spec %q", spec)
}

func runConformanceCase(t *testing.T, tc conformanceCase) {
	op, ok := opByName(tc.Op)
	if !ok {
		t.Fatalf("unknown routine %q", tc.Op)
	}

	r := New()
	args := make([]Value, 0, len(tc.Args)+1)
	target, err := conformanceValue(r, tc.Target)
	if err != nil {
		t.Fatal(err)
	}
	args = append(args, target)
	for _, spec := range tc.Args {
		arg, err := conformanceValue(r, spec)
		if err != nil {
			t.Fatal(err)
		}
		args = append(args, arg)
	}

	ret, err := r.Dispatch(op, nil, args...)

	if tc.Error != nil {
		if err == nil {
			t.Fatalf("expected a %s, got %v", tc.Error.Type, ret)
		}
		ex, ok := err.(*Exception)
		if !ok {
			t.Fatalf("error is not an *Exception: %T", err)
		}
		if expected := tc.Error.Type + ": " + tc.Error.Message; err.Error() != expected {
			t.Fatalf("expected error %q, got %q", expected, err.Error())
		}
		errObj, ok := ex.Value().(*Object)
		if !ok {
			t.Fatalf("the thrown value is not an object: %v", ex.Value())
		}
		if name := errObj.Get("name").String(); name != tc.Error.Type {
			t.Fatalf("expected a %s, got %s", tc.Error.Type, name)
		}
		return
	}

	if err != nil {
		t.Fatal(err)
	}
	if tc.Result != "" {
		if s := ret.String(); s != tc.Result {
			t.Fatalf("expected %q, got %q", tc.Result, s)
		}
	}
}

func TestDispatchConformance(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.yml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no conformance files found")
	}

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			t.Fatal(err)
		}
		var cf conformanceFile
		if err := yaml.Unmarshal(data, &cf); err != nil {
			t.Fatalf("%s: %v", file, err)
		}
		if len(cf.Tests) == 0 {
			t.Fatalf("%s: no tests", file)
		}
		name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		t.Run(name, func(t *testing.T) {
			for _, tc := range cf.Tests {
				tc := tc
				t.Run(tc.Name, func(t *testing.T) {
					runConformanceCase(t, tc)
				})
			}
		})
	}
}
