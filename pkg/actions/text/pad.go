package text

import (
	"strings"
	"unicode/utf8"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type TextPadArguments struct {
	Length int    `json:"length" validate:"required,min=1"`                 // Target length
	Char   string `json:"char" validate:"omitempty"`                        // Padding character (default: space)
	Side   string `json:"side" validate:"omitempty,oneof=left right both"` // default: right
}

func NewTextPadAction(key string, args any) (models.Action, error) {
	parsedArgs, err := utils.ValidateArguments[TextPadArguments](args)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(key)
	}

	if parsedArgs.Char == "" {
		parsedArgs.Char = " "
	}
	if parsedArgs.Side == "" {
		parsedArgs.Side = "right"
	}

	return &TextPadAction{
		key:        key,
		parsedArgs: parsedArgs,
	}, nil
}

type TextPadAction struct {
	key        string
	parsedArgs TextPadArguments
}

func (a *TextPadAction) GetName() string {
	return a.key
}

func (a *TextPadAction) Execute(input any) (any, error) {
	text, err := utils.AnyToType[string](input)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(a.key)
	}

	padLen := a.parsedArgs.Length - utf8.RuneCountInString(text)
	if padLen <= 0 {
		return text, nil
	}

	switch a.parsedArgs.Side {
	case "left":
		return strings.Repeat(a.parsedArgs.Char, padLen) + text, nil
	case "both":
		leftPad := padLen / 2
		return strings.Repeat(a.parsedArgs.Char, leftPad) + text + strings.Repeat(a.parsedArgs.Char, padLen-leftPad), nil
	default:
		return text + strings.Repeat(a.parsedArgs.Char, padLen), nil
	}
}
