package text

import (
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type TextSubstringArguments struct {
	Start int  `json:"start" validate:"min=0"`
	End   *int `json:"end" validate:"omitempty,min=0"` // exclusive, defaults to the end of the text
}

func NewTextSubstringAction(key string, args any) (models.Action, error) {
	parsedArgs, err := utils.ValidateArguments[TextSubstringArguments](args)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(key)
	}

	if parsedArgs.End != nil && *parsedArgs.End < parsedArgs.Start {
		return nil, errors.NewMappingErrorf("end %d is before start %d", *parsedArgs.End, parsedArgs.Start).AddAction(key)
	}

	return &TextSubstringAction{
		key:        key,
		parsedArgs: parsedArgs,
	}, nil
}

type TextSubstringAction struct {
	key        string
	parsedArgs TextSubstringArguments
}

func (a *TextSubstringAction) GetName() string {
	return a.key
}

// Execute works on runes. Indexes past the end of the text are clamped.
func (a *TextSubstringAction) Execute(input any) (any, error) {
	text, err := utils.AnyToType[string](input)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(a.key)
	}

	runes := []rune(text)
	start := min(a.parsedArgs.Start, len(runes))
	end := len(runes)
	if a.parsedArgs.End != nil {
		end = min(*a.parsedArgs.End, len(runes))
	}
	return string(runes[start:end]), nil
}
