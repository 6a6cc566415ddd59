package date

import (
	"time"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type datePart func(t time.Time) int

// NewDateDayOfWeekAction returns 1 for Sunday through 7 for Saturday.
func NewDateDayOfWeekAction(key string, _ any) (models.Action, error) {
	return &DatePartAction{key: key, part: func(t time.Time) int {
		return int(t.Weekday()) + 1
	}}, nil
}

func NewDateDayOfMonthAction(key string, _ any) (models.Action, error) {
	return &DatePartAction{key: key, part: func(t time.Time) int {
		return t.Day()
	}}, nil
}

func NewDateDayOfYearAction(key string, _ any) (models.Action, error) {
	return &DatePartAction{key: key, part: func(t time.Time) int {
		return t.YearDay()
	}}, nil
}

func NewDateYearAction(key string, _ any) (models.Action, error) {
	return &DatePartAction{key: key, part: func(t time.Time) int {
		return t.Year()
	}}, nil
}

// NewDateMonthAction returns 1 for January through 12 for December.
func NewDateMonthAction(key string, _ any) (models.Action, error) {
	return &DatePartAction{key: key, part: func(t time.Time) int {
		return int(t.Month())
	}}, nil
}

// DatePartAction extracts one calendar component in the value's own location.
type DatePartAction struct {
	key  string
	part datePart
}

func (a *DatePartAction) GetName() string {
	return a.key
}

func (a *DatePartAction) Execute(input any) (any, error) {
	t, err := utils.AnyToType[time.Time](input)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(a.key)
	}

	return a.part(t), nil
}
