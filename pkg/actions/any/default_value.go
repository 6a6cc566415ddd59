package any

import (
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type DefaultValueArguments struct {
	Default any `json:"default" validate:"required"` // Default value if input is nil/empty
}

func NewDefaultValueAction(key string, args any) (models.Action, error) {
	parsedArgs, err := utils.ValidateArguments[DefaultValueArguments](args)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(key)
	}

	return &DefaultValueAction{
		key:        key,
		parsedArgs: parsedArgs,
	}, nil
}

type DefaultValueAction struct {
	key        string
	parsedArgs DefaultValueArguments
}

func (a *DefaultValueAction) GetName() string {
	return a.key
}

func (a *DefaultValueAction) Execute(input any) (any, error) {
	if isEmpty(input) {
		return a.parsedArgs.Default, nil
	}
	return input, nil
}
