package number

import (
	"math"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type NumberOperandArguments struct {
	Value *float64 `json:"value" validate:"required"`
}

type operator func(a, b float64) (float64, error)

func NewNumberAddAction(key string, args any) (models.Action, error) {
	return newNumberArithmeticAction(key, args, func(a, b float64) (float64, error) {
		return a + b, nil
	})
}

func NewNumberSubtractAction(key string, args any) (models.Action, error) {
	return newNumberArithmeticAction(key, args, func(a, b float64) (float64, error) {
		return a - b, nil
	})
}

func NewNumberMultiplyAction(key string, args any) (models.Action, error) {
	return newNumberArithmeticAction(key, args, func(a, b float64) (float64, error) {
		return a * b, nil
	})
}

func NewNumberDivideAction(key string, args any) (models.Action, error) {
	return newNumberArithmeticAction(key, args, func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, errors.NewMappingError("division by zero")
		}
		return a / b, nil
	})
}

func NewNumberModulusAction(key string, args any) (models.Action, error) {
	return newNumberArithmeticAction(key, args, func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, errors.NewMappingError("modulus by zero")
		}
		return math.Mod(a, b), nil
	})
}

func newNumberArithmeticAction(key string, args any, op operator) (models.Action, error) {
	parsedArgs, err := utils.ValidateArguments[NumberOperandArguments](args)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(key)
	}

	return &NumberArithmeticAction{
		key:     key,
		operand: *parsedArgs.Value,
		op:      op,
	}, nil
}

type NumberArithmeticAction struct {
	key     string
	operand float64
	op      operator
}

func (a *NumberArithmeticAction) GetName() string {
	return a.key
}

func (a *NumberArithmeticAction) Execute(input any) (any, error) {
	num, err := utils.AnyToType[float64](input)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(a.key)
	}

	result, err := a.op(num, a.operand)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(a.key)
	}
	return result, nil
}
