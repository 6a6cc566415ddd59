package object

import (
	"sort"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

// NewObjectKeysAction lists the keys of an object in sorted order.
func NewObjectKeysAction(key string, _ any) (models.Action, error) {
	return &ObjectKeysAction{key: key}, nil
}

type ObjectKeysAction struct {
	key string
}

func (a *ObjectKeysAction) GetName() string {
	return a.key
}

func (a *ObjectKeysAction) Execute(input any) (any, error) {
	object, err := utils.AnyToType[map[string]any](input)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(a.key)
	}

	keys := make([]string, 0, len(object))
	for k := range object {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]any, len(keys))
	for i, k := range keys {
		result[i] = k
	}
	return result, nil
}
