package number

import (
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type NumberClampArguments struct {
	Min *float64 `json:"min" validate:"required"`
	Max *float64 `json:"max" validate:"required"`
}

func NewNumberClampAction(key string, args any) (models.Action, error) {
	parsedArgs, err := utils.ValidateArguments[NumberClampArguments](args)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(key)
	}

	if *parsedArgs.Min > *parsedArgs.Max {
		return nil, errors.NewMappingErrorf("min %v is greater than max %v", *parsedArgs.Min, *parsedArgs.Max).AddAction(key)
	}

	return &NumberClampAction{
		key: key,
		min: *parsedArgs.Min,
		max: *parsedArgs.Max,
	}, nil
}

type NumberClampAction struct {
	key string
	min float64
	max float64
}

func (a *NumberClampAction) GetName() string {
	return a.key
}

func (a *NumberClampAction) Execute(input any) (any, error) {
	num, err := utils.AnyToType[float64](input)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(a.key)
	}

	return max(a.min, min(a.max, num)), nil
}
