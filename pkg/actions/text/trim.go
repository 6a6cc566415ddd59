package text

import (
	"strings"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type TextTrimArguments struct {
	Cutset string `json:"cutset" validate:"omitempty"` // Characters to trim (default: whitespace)
	Side   string `json:"side" validate:"omitempty,oneof=left right both"`
}

func NewTextTrimAction(key string, args any) (models.Action, error) {
	parsedArgs, err := utils.ValidateArguments[TextTrimArguments](args)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(key)
	}

	return &TextTrimAction{
		key:        key,
		parsedArgs: parsedArgs,
	}, nil
}

type TextTrimAction struct {
	key        string
	parsedArgs TextTrimArguments
}

func (a *TextTrimAction) GetName() string {
	return a.key
}

func (a *TextTrimAction) Execute(input any) (any, error) {
	text, err := utils.AnyToType[string](input)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(a.key)
	}

	if a.parsedArgs.Cutset == "" {
		switch a.parsedArgs.Side {
		case "left":
			return strings.TrimLeftFunc(text, isSpace), nil
		case "right":
			return strings.TrimRightFunc(text, isSpace), nil
		default:
			return strings.TrimSpace(text), nil
		}
	}

	switch a.parsedArgs.Side {
	case "left":
		return strings.TrimLeft(text, a.parsedArgs.Cutset), nil
	case "right":
		return strings.TrimRight(text, a.parsedArgs.Cutset), nil
	default:
		return strings.Trim(text, a.parsedArgs.Cutset), nil
	}
}
