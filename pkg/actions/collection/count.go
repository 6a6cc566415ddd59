package collection

import (
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type CollectionCountArguments struct {
	SkipNil bool `json:"skip_nil"`
}

func NewCollectionCountAction(key string, args any) (models.Action, error) {
	parsedArgs, err := utils.ValidateArguments[CollectionCountArguments](args)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(key)
	}

	return &CollectionCountAction{
		key:        key,
		parsedArgs: parsedArgs,
	}, nil
}

type CollectionCountAction struct {
	key        string
	parsedArgs CollectionCountArguments
}

func (a *CollectionCountAction) GetName() string {
	return a.key
}

func (a *CollectionCountAction) Execute(input any) (any, error) {
	items, err := utils.AnyToType[[]any](input)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(a.key)
	}

	if !a.parsedArgs.SkipNil {
		return len(items), nil
	}

	count := 0
	for _, item := range items {
		if item != nil {
			count++
		}
	}
	return count, nil
}
