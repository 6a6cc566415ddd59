package text

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type caseMode int

const (
	caseUpper caseMode = iota
	caseLower
	caseCapitalize
)

func NewTextToUpperAction(key string, _ any) (models.Action, error) {
	return &TextCaseAction{key: key, mode: caseUpper}, nil
}

func NewTextToLowerAction(key string, _ any) (models.Action, error) {
	return &TextCaseAction{key: key, mode: caseLower}, nil
}

// NewTextCapitalizeAction upper cases the first letter only.
func NewTextCapitalizeAction(key string, _ any) (models.Action, error) {
	return &TextCaseAction{key: key, mode: caseCapitalize}, nil
}

type TextCaseAction struct {
	key  string
	mode caseMode
}

func (a *TextCaseAction) GetName() string {
	return a.key
}

func (a *TextCaseAction) Execute(input any) (any, error) {
	text, err := utils.AnyToType[string](input)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(a.key)
	}

	switch a.mode {
	case caseUpper:
		return strings.ToUpper(text), nil
	case caseLower:
		return strings.ToLower(text), nil
	}

	first, size := utf8.DecodeRuneInString(text)
	if first == utf8.RuneError {
		return text, nil
	}
	return string(unicode.ToUpper(first)) + text[size:], nil
}
