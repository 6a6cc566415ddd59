package collection

import (
	"fmt"
	"strings"

	"github.com/Gobusters/ectolinq"
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type CollectionJoinArguments struct {
	Separator string `json:"separator"`
	SkipEmpty bool   `json:"skip_empty"`
}

func NewCollectionJoinAction(key string, args any) (models.Action, error) {
	parsedArgs, err := utils.ValidateArguments[CollectionJoinArguments](args)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(key)
	}

	return &CollectionJoinAction{
		key:        key,
		parsedArgs: parsedArgs,
	}, nil
}

// CollectionJoinAction joins a whole collection into one string. Nil elements join as empty strings.
type CollectionJoinAction struct {
	key        string
	parsedArgs CollectionJoinArguments
}

func (a *CollectionJoinAction) GetName() string {
	return a.key
}

func (a *CollectionJoinAction) Execute(input any) (any, error) {
	items, err := utils.AnyToType[[]any](input)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(a.key)
	}

	parts := ectolinq.Map(items, func(item any) string {
		if item == nil {
			return ""
		}
		if s, ok := item.(string); ok {
			return s
		}
		return fmt.Sprint(item)
	})
	if a.parsedArgs.SkipEmpty {
		parts = ectolinq.Filter(parts, func(part string) bool {
			return part != ""
		})
	}

	return strings.Join(parts, a.parsedArgs.Separator), nil
}
