package text

import (
	"regexp"
	"strings"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type TextReplaceArguments struct {
	Old   string `json:"old" validate:"required"`
	New   string `json:"new"`
	Count int    `json:"count" validate:"omitempty,min=1"` // 0 replaces all
}

func NewTextReplaceAction(key string, args any) (models.Action, error) {
	parsedArgs, err := utils.ValidateArguments[TextReplaceArguments](args)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(key)
	}

	return &TextReplaceAction{
		key:        key,
		parsedArgs: parsedArgs,
	}, nil
}

type TextReplaceAction struct {
	key        string
	parsedArgs TextReplaceArguments
}

func (a *TextReplaceAction) GetName() string {
	return a.key
}

func (a *TextReplaceAction) Execute(input any) (any, error) {
	text, err := utils.AnyToType[string](input)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(a.key)
	}

	count := a.parsedArgs.Count
	if count == 0 {
		count = -1
	}
	return strings.Replace(text, a.parsedArgs.Old, a.parsedArgs.New, count), nil
}

type TextRegexReplaceArguments struct {
	Pattern     string `json:"pattern" validate:"required"`
	Replacement string `json:"replacement"` // supports $1 style group references
}

func NewTextRegexReplaceAction(key string, args any) (models.Action, error) {
	parsedArgs, err := utils.ValidateArguments[TextRegexReplaceArguments](args)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(key)
	}

	pattern, err := regexp.Compile(parsedArgs.Pattern)
	if err != nil {
		return nil, errors.NewMappingErrorf("invalid pattern '%s': %w", parsedArgs.Pattern, err).AddAction(key)
	}

	return &TextRegexReplaceAction{
		key:         key,
		pattern:     pattern,
		replacement: parsedArgs.Replacement,
	}, nil
}

type TextRegexReplaceAction struct {
	key         string
	pattern     *regexp.Regexp
	replacement string
}

func (a *TextRegexReplaceAction) GetName() string {
	return a.key
}

func (a *TextRegexReplaceAction) Execute(input any) (any, error) {
	text, err := utils.AnyToType[string](input)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(a.key)
	}

	return a.pattern.ReplaceAllString(text, a.replacement), nil
}
