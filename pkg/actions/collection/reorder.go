package collection

import (
	"fmt"
	"slices"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

func NewCollectionReverseAction(key string, _ any) (models.Action, error) {
	return &CollectionReverseAction{key: key}, nil
}

type CollectionReverseAction struct {
	key string
}

func (a *CollectionReverseAction) GetName() string {
	return a.key
}

func (a *CollectionReverseAction) Execute(input any) (any, error) {
	items, err := utils.AnyToType[[]any](input)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(a.key)
	}

	reversed := slices.Clone(items)
	slices.Reverse(reversed)
	return reversed, nil
}

func NewCollectionDistinctAction(key string, _ any) (models.Action, error) {
	return &CollectionDistinctAction{key: key}, nil
}

// CollectionDistinctAction keeps the first occurrence of every value, compared by type and printed form.
type CollectionDistinctAction struct {
	key string
}

func (a *CollectionDistinctAction) GetName() string {
	return a.key
}

func (a *CollectionDistinctAction) Execute(input any) (any, error) {
	items, err := utils.AnyToType[[]any](input)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(a.key)
	}

	seen := map[string]bool{}
	distinct := make([]any, 0, len(items))
	for _, item := range items {
		key := fmt.Sprintf("%T:%v", item, item)
		if seen[key] {
			continue
		}
		seen[key] = true
		distinct = append(distinct, item)
	}
	return distinct, nil
}
