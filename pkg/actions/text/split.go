package text

import (
	"strings"

	"github.com/Gobusters/ectolinq"
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type TextSplitArguments struct {
	Separator string `json:"separator"` // empty splits into characters
	SkipEmpty bool   `json:"skip_empty"`
}

func NewTextSplitAction(key string, args any) (models.Action, error) {
	parsedArgs, err := utils.ValidateArguments[TextSplitArguments](args)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(key)
	}

	return &TextSplitAction{
		key:        key,
		parsedArgs: parsedArgs,
	}, nil
}

type TextSplitAction struct {
	key        string
	parsedArgs TextSplitArguments
}

func (a *TextSplitAction) GetName() string {
	return a.key
}

func (a *TextSplitAction) Execute(input any) (any, error) {
	text, err := utils.AnyToType[string](input)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(a.key)
	}

	parts := strings.Split(text, a.parsedArgs.Separator)
	if a.parsedArgs.SkipEmpty {
		parts = ectolinq.Filter(parts, func(part string) bool {
			return part != ""
		})
	}

	return ectolinq.Map(parts, func(part string) any {
		return part
	}), nil
}
