package number

import (
	"math"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type NumberRoundArguments struct {
	Precision int `json:"precision" validate:"min=0,max=15"`
}

type roundMode int

const (
	roundNearest roundMode = iota
	roundUp
	roundDown
)

func NewNumberRoundAction(key string, args any) (models.Action, error) {
	return newNumberRoundAction(key, args, roundNearest)
}

func NewNumberCeilingAction(key string, args any) (models.Action, error) {
	return newNumberRoundAction(key, args, roundUp)
}

func NewNumberFloorAction(key string, args any) (models.Action, error) {
	return newNumberRoundAction(key, args, roundDown)
}

func newNumberRoundAction(key string, args any, mode roundMode) (models.Action, error) {
	parsedArgs, err := utils.ValidateArguments[NumberRoundArguments](args)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(key)
	}

	return &NumberRoundAction{
		key:       key,
		precision: parsedArgs.Precision,
		mode:      mode,
	}, nil
}

type NumberRoundAction struct {
	key       string
	precision int
	mode      roundMode
}

func (a *NumberRoundAction) GetName() string {
	return a.key
}

func (a *NumberRoundAction) Execute(input any) (any, error) {
	num, err := utils.AnyToType[float64](input)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(a.key)
	}

	scale := math.Pow(10, float64(a.precision))
	switch a.mode {
	case roundUp:
		return math.Ceil(num*scale) / scale, nil
	case roundDown:
		return math.Floor(num*scale) / scale, nil
	default:
		return math.Round(num*scale) / scale, nil
	}
}
