package object

import (
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
	"github.com/jmespath/go-jmespath"
)

type ObjectQueryArguments struct {
	Expression string `json:"expression" validate:"required"` // JMESPath expression, e.g. "items[?qty > `1`].sku"
	Default    any    `json:"default"`                        // returned when the expression matches nothing
}

func NewObjectQueryAction(key string, args any) (models.Action, error) {
	parsedArgs, err := utils.ValidateArguments[ObjectQueryArguments](args)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(key)
	}

	compiled, err := jmespath.Compile(parsedArgs.Expression)
	if err != nil {
		return nil, errors.NewMappingErrorf("invalid expression %q: %w", parsedArgs.Expression, err).AddAction(key)
	}

	return &ObjectQueryAction{
		key:        key,
		compiled:   compiled,
		parsedArgs: parsedArgs,
	}, nil
}

// ObjectQueryAction evaluates a compiled JMESPath expression against a COMPLEX value.
type ObjectQueryAction struct {
	key        string
	compiled   *jmespath.JMESPath
	parsedArgs ObjectQueryArguments
}

func (a *ObjectQueryAction) GetName() string {
	return a.key
}

func (a *ObjectQueryAction) Execute(input any) (any, error) {
	result, err := a.compiled.Search(input)
	if err != nil {
		return nil, errors.NewMappingErrorf("failed to evaluate expression %q: %w", a.parsedArgs.Expression, err).AddAction(a.key)
	}

	if result == nil {
		return a.parsedArgs.Default, nil
	}
	return result, nil
}
