package date

import (
	"time"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type DateAddArguments struct {
	Years   int `json:"years"`
	Months  int `json:"months"`
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

type DateAddDaysArguments struct {
	Days *int `json:"days" validate:"required"`
}

func NewDateAddAction(key string, args any) (models.Action, error) {
	parsedArgs, err := utils.ValidateArguments[DateAddArguments](args)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(key)
	}

	return &DateAddAction{
		key:        key,
		parsedArgs: parsedArgs,
	}, nil
}

func NewDateAddDaysAction(key string, args any) (models.Action, error) {
	parsedArgs, err := utils.ValidateArguments[DateAddDaysArguments](args)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(key)
	}

	return &DateAddAction{
		key:        key,
		parsedArgs: DateAddArguments{Days: *parsedArgs.Days},
	}, nil
}

type DateAddAction struct {
	key        string
	parsedArgs DateAddArguments
}

func (a *DateAddAction) GetName() string {
	return a.key
}

func (a *DateAddAction) Execute(input any) (any, error) {
	t, err := utils.AnyToType[time.Time](input)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(a.key)
	}

	args := a.parsedArgs
	t = t.AddDate(args.Years, args.Months, args.Days)
	return t.Add(time.Duration(args.Hours)*time.Hour +
		time.Duration(args.Minutes)*time.Minute +
		time.Duration(args.Seconds)*time.Second), nil
}
