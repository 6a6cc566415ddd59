package number

import (
	"math"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

func NewNumberAbsAction(key string, _ any) (models.Action, error) {
	return &NumberAbsAction{key: key}, nil
}

type NumberAbsAction struct {
	key string
}

func (a *NumberAbsAction) GetName() string {
	return a.key
}

func (a *NumberAbsAction) Execute(input any) (any, error) {
	num, err := utils.AnyToType[float64](input)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(a.key)
	}

	return math.Abs(num), nil
}
