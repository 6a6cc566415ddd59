package collection

import (
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type CollectionItemAtArguments struct {
	Index int `json:"index"` // negative indexes count from the end
}

func NewCollectionItemAtAction(key string, args any) (models.Action, error) {
	parsedArgs, err := utils.ValidateArguments[CollectionItemAtArguments](args)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(key)
	}

	return &CollectionItemAtAction{key: key, index: parsedArgs.Index}, nil
}

func NewCollectionFirstAction(key string, _ any) (models.Action, error) {
	return &CollectionItemAtAction{key: key, index: 0}, nil
}

func NewCollectionLastAction(key string, _ any) (models.Action, error) {
	return &CollectionItemAtAction{key: key, index: -1}, nil
}

// CollectionItemAtAction picks one element. An index outside the collection yields nil.
type CollectionItemAtAction struct {
	key   string
	index int
}

func (a *CollectionItemAtAction) GetName() string {
	return a.key
}

func (a *CollectionItemAtAction) Execute(input any) (any, error) {
	items, err := utils.AnyToType[[]any](input)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(a.key)
	}

	index := a.index
	if index < 0 {
		index += len(items)
	}
	if index < 0 || index >= len(items) {
		return nil, nil
	}
	return items[index], nil
}
