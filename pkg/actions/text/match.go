package text

import (
	"strings"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type TextMatchArguments struct {
	Value      string `json:"value" validate:"required"`
	IgnoreCase bool   `json:"ignore_case"`
}

type matcher func(s, substr string) bool

func NewTextStartsWithAction(key string, args any) (models.Action, error) {
	return newTextMatchAction(key, args, strings.HasPrefix)
}

func NewTextEndsWithAction(key string, args any) (models.Action, error) {
	return newTextMatchAction(key, args, strings.HasSuffix)
}

func NewTextContainsAction(key string, args any) (models.Action, error) {
	return newTextMatchAction(key, args, strings.Contains)
}

func newTextMatchAction(key string, args any, match matcher) (models.Action, error) {
	parsedArgs, err := utils.ValidateArguments[TextMatchArguments](args)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(key)
	}

	return &TextMatchAction{
		key:        key,
		parsedArgs: parsedArgs,
		match:      match,
	}, nil
}

type TextMatchAction struct {
	key        string
	parsedArgs TextMatchArguments
	match      matcher
}

func (a *TextMatchAction) GetName() string {
	return a.key
}

func (a *TextMatchAction) Execute(input any) (any, error) {
	text, err := utils.AnyToType[string](input)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(a.key)
	}

	value := a.parsedArgs.Value
	if a.parsedArgs.IgnoreCase {
		text = strings.ToLower(text)
		value = strings.ToLower(value)
	}
	return a.match(text, value), nil
}
