package text

import (
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type TextConcatArguments struct {
	Value string `json:"value" validate:"required"`
}

// NewTextAppendAction adds the argument value after the text.
func NewTextAppendAction(key string, args any) (models.Action, error) {
	return newTextConcatAction(key, args, false)
}

// NewTextPrependAction adds the argument value before the text.
func NewTextPrependAction(key string, args any) (models.Action, error) {
	return newTextConcatAction(key, args, true)
}

func newTextConcatAction(key string, args any, prepend bool) (models.Action, error) {
	parsedArgs, err := utils.ValidateArguments[TextConcatArguments](args)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(key)
	}

	return &TextConcatAction{
		key:        key,
		parsedArgs: parsedArgs,
		prepend:    prepend,
	}, nil
}

type TextConcatAction struct {
	key        string
	parsedArgs TextConcatArguments
	prepend    bool
}

func (a *TextConcatAction) GetName() string {
	return a.key
}

func (a *TextConcatAction) Execute(input any) (any, error) {
	text, err := utils.AnyToType[string](input)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(a.key)
	}

	if a.prepend {
		return a.parsedArgs.Value + text, nil
	}
	return text + a.parsedArgs.Value, nil
}
