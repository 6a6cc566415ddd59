package text

import (
	"unicode/utf8"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

func NewTextLengthAction(key string, _ any) (models.Action, error) {
	return &TextLengthAction{key: key}, nil
}

type TextLengthAction struct {
	key string
}

func (a *TextLengthAction) GetName() string {
	return a.key
}

func (a *TextLengthAction) Execute(input any) (any, error) {
	text, err := utils.AnyToType[string](input)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(a.key)
	}

	return utf8.RuneCountInString(text), nil
}
