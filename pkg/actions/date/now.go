package date

import (
	"time"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

// Now is the clock used by the now action.
var Now = time.Now

type DateNowArguments struct {
	Timezone string `json:"timezone" validate:"omitempty"` // e.g. "America/New_York", default UTC
}

// NewDateNowAction ignores its input and produces the current time.
func NewDateNowAction(key string, args any) (models.Action, error) {
	parsedArgs, err := utils.ValidateArguments[DateNowArguments](args)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(key)
	}

	location, err := loadLocation(parsedArgs.Timezone)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(key)
	}
	if location == nil {
		location = time.UTC
	}

	return &DateNowAction{
		key:      key,
		location: location,
	}, nil
}

type DateNowAction struct {
	key      string
	location *time.Location
}

func (a *DateNowAction) GetName() string {
	return a.key
}

func (a *DateNowAction) Execute(_ any) (any, error) {
	return Now().In(a.location), nil
}
