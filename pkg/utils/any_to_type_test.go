package utils

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnyToType(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		read     func(any) (any, error)
		input    any
		expected any
		wantErr  bool
	}{
		{name: "nil reads as zero", read: as[string], input: nil, expected: ""},
		{name: "same type", read: as[string], input: "Ada", expected: "Ada"},
		{name: "no string from number", read: as[string], input: 1, wantErr: true},
		{name: "whole float to int", read: as[int], input: 2.0, expected: 2},
		{name: "fraction to int", read: as[int], input: 2.5, wantErr: true},
		{name: "long to int", read: as[int], input: int64(7), expected: 7},
		{name: "long beyond int32", read: as[int32], input: int64(math.MaxInt32) + 1, wantErr: true},
		{name: "negative to uint", read: as[uint8], input: -1, wantErr: true},
		{name: "int to float", read: as[float64], input: 3, expected: 3.0},
		{name: "json number to float", read: as[float64], input: json.Number("1.25"), expected: 1.25},
		{name: "json number to long", read: as[int64], input: json.Number("9007199254740993"), expected: int64(9007199254740993)},
		{name: "bool is not a number", read: as[int], input: true, wantErr: true},
		{name: "string slice to items", read: as[[]any], input: []string{"a", "b"}, expected: []any{"a", "b"}},
		{name: "array to items", read: as[[]any], input: [2]int{1, 2}, expected: []any{1, 2}},
		{name: "scalar is not a slice", read: as[[]any], input: "a,b", wantErr: true},
		{name: "time", read: as[time.Time], input: day, expected: day},
		{name: "no time from text", read: as[time.Time], input: "2024-03-01", wantErr: true},
		{name: "object", read: as[map[string]any], input: map[string]any{"a": 1}, expected: map[string]any{"a": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.read(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func as[T any](input any) (any, error) {
	return AnyToType[T](input)
}

func TestToNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected Number
		ok       bool
	}{
		{name: "int", input: 3, expected: Number{Int: 3}, ok: true},
		{name: "int8", input: int8(-3), expected: Number{Int: -3}, ok: true},
		{name: "uint", input: uint16(7), expected: Number{Int: 7}, ok: true},
		{name: "uint beyond long", input: uint64(math.MaxUint64), expected: Number{Float: math.MaxUint64, IsFloat: true}, ok: true},
		{name: "float", input: 3.5, expected: Number{Float: 3.5, IsFloat: true}, ok: true},
		{name: "float32", input: float32(0.5), expected: Number{Float: 0.5, IsFloat: true}, ok: true},
		{name: "json integer", input: json.Number("-12"), expected: Number{Int: -12}, ok: true},
		{name: "json fraction", input: json.Number("0.5"), expected: Number{Float: 0.5, IsFloat: true}, ok: true},
		{name: "json overflow", input: json.Number("1e400"), ok: false},
		{name: "string", input: "3", ok: false},
		{name: "nil", input: nil, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			number, ok := ToNumber(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, number)
		})
	}
}
