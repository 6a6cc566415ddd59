package any

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

func NewToStringAction(key string, _ any) (models.Action, error) {
	return &ToStringAction{key: key}, nil
}

// ToStringAction renders scalars in their canonical form and collections or objects as JSON.
type ToStringAction struct {
	key string
}

func (a *ToStringAction) GetName() string {
	return a.key
}

func (a *ToStringAction) Execute(input any) (any, error) {
	switch v := input.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case rune:
		return string(v), nil
	case time.Time:
		return v.Format(time.RFC3339Nano), nil
	case []any, map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, errors.WrapMappingError(err).AddAction(a.key)
		}
		return string(b), nil
	}

	if number, ok := utils.ToNumber(input); ok {
		if number.IsFloat {
			return strconv.FormatFloat(number.Float, 'f', -1, 64), nil
		}
		return strconv.FormatInt(number.Int, 10), nil
	}
	return fmt.Sprint(input), nil
}
