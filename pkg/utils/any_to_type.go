package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
)

// AnyToType reads an action input as T. Besides a plain assertion it copies any slice into
// []any and moves numbers between Go kinds when no digits are lost: 2.0 reads as int, 2.5 and
// values outside the range of T do not. Every other kind change is refused.
func AnyToType[T any](input any) (T, error) {
	var zero T
	if input == nil {
		return zero, nil
	}
	if result, ok := input.(T); ok {
		return result, nil
	}

	target := reflect.TypeOf(zero)
	if target == nil {
		return zero, mismatch[T](input)
	}

	if _, ok := any(zero).([]any); ok {
		v := reflect.ValueOf(input)
		if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
			return zero, mismatch[T](input)
		}
		items := make([]any, v.Len())
		for i := range items {
			items[i] = v.Index(i).Interface()
		}
		return any(items).(T), nil
	}

	number, ok := ToNumber(input)
	if !ok || !isNumericKind(target.Kind()) {
		return zero, mismatch[T](input)
	}
	out := reflect.New(target).Elem()
	if err := setNumber(out, number); err != nil {
		return zero, fmt.Errorf("cannot read %v as %T: %w", input, zero, err)
	}
	return out.Interface().(T), nil
}

func mismatch[T any](input any) error {
	var zero T
	return fmt.Errorf("type mismatch: expected %T, got %T", zero, input)
}

// setNumber stores number in out, refusing fractions for integer kinds and values that overflow.
func setNumber(out reflect.Value, number Number) error {
	switch out.Kind() {
	case reflect.Float32, reflect.Float64:
		f := number.AsFloat()
		if out.OverflowFloat(f) {
			return fmt.Errorf("out of range")
		}
		out.SetFloat(f)
		return nil
	}

	whole := number.Int
	if number.IsFloat {
		f := number.Float
		if f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
			return fmt.Errorf("not a whole number in range")
		}
		whole = int64(f)
	}

	switch out.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if whole < 0 || out.OverflowUint(uint64(whole)) {
			return fmt.Errorf("out of range")
		}
		out.SetUint(uint64(whole))
	default:
		if out.OverflowInt(whole) {
			return fmt.Errorf("out of range")
		}
		out.SetInt(whole)
	}
	return nil
}

// Number is a numeric value split into its integral or floating representation.
type Number struct {
	Int     int64
	Float   float64
	IsFloat bool
}

// AsFloat returns the number as a float64.
func (n Number) AsFloat() float64 {
	if n.IsFloat {
		return n.Float
	}
	return float64(n.Int)
}

// ToNumber extracts the numeric value of any Go number kind or of a json.Number.
// Unsigned values above math.MaxInt64 are reported as floats.
func ToNumber(input any) (Number, bool) {
	switch n := input.(type) {
	case nil:
		return Number{}, false
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return Number{Int: i}, true
		}
		if f, err := n.Float64(); err == nil {
			return Number{Float: f, IsFloat: true}, true
		}
		return Number{}, false
	}

	v := reflect.ValueOf(input)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number{Int: v.Int()}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := v.Uint()
		if u > math.MaxInt64 {
			return Number{Float: float64(u), IsFloat: true}, true
		}
		return Number{Int: int64(u)}, true
	case reflect.Float32, reflect.Float64:
		return Number{Float: v.Float(), IsFloat: true}, true
	}

	return Number{}, false
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
