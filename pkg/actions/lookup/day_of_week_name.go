package lookup

import (
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

var dayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

type DayOfWeekNameArguments struct {
	Fallback string `json:"fallback"` // returned for numbers outside 1..7, default "Unknown"
}

func NewDayOfWeekNameAction(key string, args any) (models.Action, error) {
	parsedArgs, err := utils.ValidateArguments[DayOfWeekNameArguments](args)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(key)
	}

	if parsedArgs.Fallback == "" {
		parsedArgs.Fallback = "Unknown"
	}

	return &DayOfWeekNameAction{
		key:      key,
		fallback: parsedArgs.Fallback,
	}, nil
}

// DayOfWeekNameAction maps 1..7 to Sunday..Saturday. It never fails on an out of range number.
type DayOfWeekNameAction struct {
	key      string
	fallback string
}

func (a *DayOfWeekNameAction) GetName() string {
	return a.key
}

func (a *DayOfWeekNameAction) Execute(input any) (any, error) {
	day, err := utils.AnyToType[int](input)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(a.key)
	}

	if day < 1 || day > len(dayNames) {
		return a.fallback, nil
	}
	return dayNames[day-1], nil
}
