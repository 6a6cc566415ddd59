package date

import (
	"time"

	"github.com/Ramsey-B/fern/pkg/conversion"
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type DateFormatArguments struct {
	Format   string `json:"format" validate:"required"`    // Go layout or alias such as "date" or "rfc3339"
	Timezone string `json:"timezone" validate:"omitempty"` // Convert to timezone before formatting
}

func NewDateFormatAction(key string, args any) (models.Action, error) {
	parsedArgs, err := utils.ValidateArguments[DateFormatArguments](args)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(key)
	}

	location, err := loadLocation(parsedArgs.Timezone)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(key)
	}

	return &DateFormatAction{
		key:      key,
		layout:   conversion.ResolveLayout(parsedArgs.Format),
		location: location,
	}, nil
}

type DateFormatAction struct {
	key      string
	layout   string
	location *time.Location
}

func (a *DateFormatAction) GetName() string {
	return a.key
}

func (a *DateFormatAction) Execute(input any) (any, error) {
	t, err := utils.AnyToType[time.Time](input)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(a.key)
	}

	if a.location != nil {
		t = t.In(a.location)
	}
	return t.Format(a.layout), nil
}

// loadLocation returns nil for an empty timezone.
func loadLocation(timezone string) (*time.Location, error) {
	if timezone == "" {
		return nil, nil
	}
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, errors.NewMappingErrorf("invalid timezone '%s': %w", timezone, err)
	}
	return location, nil
}
