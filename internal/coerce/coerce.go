// Package coerce turns arbitrary caller-supplied values into well-formed
// states, parameters and counts. Nothing here returns an error: every
// malformed value is padded, truncated or replaced by a default, and the
// branch that was taken is reported as an [Outcome].
package coerce

import (
	"math"
	"reflect"
	"strings"

	"github.com/spf13/cast"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

// Outcome records how an input was normalized.
type Outcome int

const (
	// Exact means the input already had the right length.
	Exact Outcome = iota
	// Padded means missing trailing components came from the default.
	Padded
	// Truncated means extra trailing components were dropped.
	Truncated
	// Defaulted means the input was absent or not numeric and the
	// default replaced it entirely.
	Defaulted
)

func (o Outcome) String() string {
	switch o {
	case Exact:
		return "exact"
	case Padded:
		return "padded"
	case Truncated:
		return "truncated"
	case Defaulted:
		return "defaulted"
	}
	return "unknown"
}

// State normalizes input to exactly len(def) components.
//
// Absent input yields the default. Scalars become one-element vectors and
// nested slices of any rank are flattened row-major. A short result is
// right-padded from def, a long one truncated. If any element fails numeric
// conversion the whole input is replaced by def.
func State(input any, def dynamo.State) (dynamo.State, Outcome) {
	flat, ok := Flatten(input)
	if !ok {
		return def.Clone(), Defaulted
	}
	return Fit(flat, def)
}

// Fit pads or truncates an already numeric vector against def.
func Fit(flat []float64, def dynamo.State) (dynamo.State, Outcome) {
	d := len(def)
	out := make(dynamo.State, d)
	switch {
	case len(flat) == d:
		copy(out, flat)
		return out, Exact
	case len(flat) > d:
		copy(out, flat[:d])
		return out, Truncated
	default:
		copy(out, flat)
		copy(out[len(flat):], def[len(flat):])
		return out, Padded
	}
}

// Flatten converts input to a flat numeric slice. It reports false for
// absent input or anything that is not numeric all the way down.
func Flatten(input any) ([]float64, bool) {
	switch v := input.(type) {
	case nil:
		return nil, false
	case dynamo.State:
		return append([]float64(nil), v...), true
	case []float64:
		return append([]float64(nil), v...), true
	}

	rv := reflect.ValueOf(input)
	out := make([]float64, 0, 4)
	if !flattenValue(rv, &out, 0) {
		return nil, false
	}
	return out, true
}

// maxDepth bounds container and pointer nesting. Self-referential values
// exceed it and are treated as non-numeric.
const maxDepth = 64

func flattenValue(rv reflect.Value, out *[]float64, depth int) bool {
	if depth > maxDepth {
		return false
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return false
		}
		return flattenValue(rv.Elem(), out, depth+1)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			// []byte is text, not a vector of bytes.
			f, ok := scalar(reflect.ValueOf(string(rv.Bytes())))
			if !ok {
				return false
			}
			*out = append(*out, f)
			return true
		}
		for i := 0; i < rv.Len(); i++ {
			if !flattenValue(rv.Index(i), out, depth+1) {
				return false
			}
		}
		return true
	default:
		f, ok := scalar(rv)
		if !ok {
			return false
		}
		*out = append(*out, f)
		return true
	}
}

// Float converts a scalar (number, bool or numeric text) to float64.
// Nil, containers and structs fail.
func Float(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	for depth := 0; rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface; depth++ {
		if rv.IsNil() || depth > maxDepth {
			return 0, false
		}
		rv = rv.Elem()
	}
	return scalar(rv)
}

func scalar(rv reflect.Value) (float64, bool) {
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Bool:
		if rv.Bool() {
			return 1, true
		}
		return 0, true
	case reflect.String:
		text := strings.TrimSpace(rv.String())
		if text == "" {
			return 0, false
		}
		f, err := cast.ToFloat64E(text)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Param converts v to a float, falling back to def on any failure.
func Param(v any, def float64) float64 {
	f, ok := Float(v)
	if !ok {
		return def
	}
	return f
}

// Params overlays the convertible overrides on defaults. Unknown keys are
// ignored and unconvertible values keep their default. The returned set
// always has exactly the keys of defaults.
func Params(overrides map[string]any, defaults dynamo.Params) dynamo.Params {
	out := defaults.Clone()
	for name, raw := range overrides {
		def, known := defaults[name]
		if !known {
			continue
		}
		out[name] = Param(raw, def)
	}
	return out
}

// Count converts an iteration count to a non-negative integer. Numbers are
// rounded to the nearest integer; negatives, NaN, infinities and anything
// non-numeric become zero.
func Count(v any) int {
	f, ok := Float(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Round(f)
	if f <= 0 {
		return 0
	}
	if f >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}
