package any

import (
	"reflect"
	"strings"

	"github.com/Ramsey-B/fern/pkg/models"
)

func NewIsEmptyAction(key string, _ any) (models.Action, error) {
	return &IsEmptyAction{key: key}, nil
}

// IsEmptyAction reports nil, blank strings and empty collections as empty. Zero numbers are not empty.
type IsEmptyAction struct {
	key string
}

func (a *IsEmptyAction) GetName() string {
	return a.key
}

func (a *IsEmptyAction) Execute(input any) (any, error) {
	return isEmpty(input), nil
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	}
	return false
}
