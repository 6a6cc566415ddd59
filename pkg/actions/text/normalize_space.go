package text

import (
	"strings"
	"unicode"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

func isSpace(r rune) bool {
	return unicode.IsSpace(r)
}

// NewTextNormalizeSpaceAction trims the text and collapses inner whitespace runs into one space.
func NewTextNormalizeSpaceAction(key string, _ any) (models.Action, error) {
	return &TextNormalizeSpaceAction{key: key}, nil
}

type TextNormalizeSpaceAction struct {
	key string
}

func (a *TextNormalizeSpaceAction) GetName() string {
	return a.key
}

func (a *TextNormalizeSpaceAction) Execute(input any) (any, error) {
	text, err := utils.AnyToType[string](input)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(a.key)
	}

	return strings.Join(strings.FieldsFunc(text, isSpace), " "), nil
}
