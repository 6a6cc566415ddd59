package number

import (
	"testing"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 {
	return &f
}

func TestNumberActions(t *testing.T) {
	tests := []struct {
		name     string
		factory  func(key string, args any) (models.Action, error)
		args     any
		input    any
		expected any
	}{
		{name: "round to 0 decimal places", factory: NewNumberRoundAction, args: NumberRoundArguments{Precision: 0}, input: 12.5, expected: 13.0},
		{name: "round to 2 decimal places", factory: NewNumberRoundAction, args: NumberRoundArguments{Precision: 2}, input: 12.345, expected: 12.35},
		{name: "round without arguments", factory: NewNumberRoundAction, input: 3.99, expected: 4.0},
		{name: "ceiling", factory: NewNumberCeilingAction, input: 3.01, expected: 4.0},
		{name: "floor", factory: NewNumberFloorAction, input: 3.99, expected: 3.0},
		{name: "floor negative", factory: NewNumberFloorAction, input: -3.01, expected: -4.0},
		{name: "abs", factory: NewNumberAbsAction, input: -7.5, expected: 7.5},
		{name: "add", factory: NewNumberAddAction, args: NumberOperandArguments{Value: ptr(2)}, input: 40.0, expected: 42.0},
		{name: "add zero", factory: NewNumberAddAction, args: map[string]any{"value": 0}, input: 40.0, expected: 40.0},
		{name: "subtract", factory: NewNumberSubtractAction, args: NumberOperandArguments{Value: ptr(2)}, input: 40.0, expected: 38.0},
		{name: "multiply", factory: NewNumberMultiplyAction, args: NumberOperandArguments{Value: ptr(1.5)}, input: 4.0, expected: 6.0},
		{name: "divide", factory: NewNumberDivideAction, args: NumberOperandArguments{Value: ptr(4)}, input: 10.0, expected: 2.5},
		{name: "modulus", factory: NewNumberModulusAction, args: NumberOperandArguments{Value: ptr(3)}, input: 10.0, expected: 1.0},
		{name: "clamp above", factory: NewNumberClampAction, args: NumberClampArguments{Min: ptr(0), Max: ptr(10)}, input: 12.0, expected: 10.0},
		{name: "clamp below", factory: NewNumberClampAction, args: NumberClampArguments{Min: ptr(0), Max: ptr(10)}, input: -2.0, expected: 0.0},
		{name: "clamp inside", factory: NewNumberClampAction, args: NumberClampArguments{Min: ptr(0), Max: ptr(10)}, input: 5.0, expected: 5.0},
		{name: "sum", factory: NewNumberSumAction, input: []any{1.0, 2.5, nil, 3.5}, expected: 7.0},
		{name: "sum empty", factory: NewNumberSumAction, input: []any{}, expected: 0.0},
		{name: "average", factory: NewNumberAverageAction, input: []any{1.0, 2.0, 6.0}, expected: 3.0},
		{name: "average empty", factory: NewNumberAverageAction, input: []any{}, expected: nil},
		{name: "max", factory: NewNumberMaxAction, input: []any{1.0, 9.0, 6.0}, expected: 9.0},
		{name: "min", factory: NewNumberMinAction, input: []any{4.0, -9.0, 6.0}, expected: -9.0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			action, err := test.factory(test.name, test.args)
			require.NoError(t, err)

			result, err := action.Execute(test.input)
			require.NoError(t, err)
			assert.Equal(t, test.expected, result)
		})
	}
}

func TestNumberActionErrors(t *testing.T) {
	t.Run("should fail to divide by zero", func(t *testing.T) {
		action, err := NewNumberDivideAction("divide", NumberOperandArguments{Value: ptr(0)})
		require.NoError(t, err)

		_, err = action.Execute(1.0)
		assert.EqualError(t, err, "action 'divide': division by zero")
	})

	t.Run("should require an operand", func(t *testing.T) {
		_, err := NewNumberAddAction("add", nil)
		assert.Error(t, err)
	})

	t.Run("should reject an inverted clamp range", func(t *testing.T) {
		_, err := NewNumberClampAction("clamp", NumberClampArguments{Min: ptr(5), Max: ptr(1)})
		assert.Error(t, err)
	})

	t.Run("should report the bad element of a collection", func(t *testing.T) {
		action, err := NewNumberSumAction("sum", nil)
		require.NoError(t, err)

		_, err = action.Execute([]any{1.0, "two"})
		assert.ErrorContains(t, err, "item 1")
	})
}
