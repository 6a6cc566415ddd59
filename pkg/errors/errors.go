package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
)

// MappingError is a failure scoped to a mapping, and optionally to a field and an action within it.
type MappingError struct {
	Mapping   string
	Field     string
	Action    string
	itemIndex *int
	Message   string
	cause     error
}

func NewMappingError(msg string) *MappingError {
	return &MappingError{
		Message: msg,
	}
}

func WrapMappingError(e error) *MappingError {
	if e == nil {
		return nil
	}

	var mappingError *MappingError
	if stderrors.As(e, &mappingError) {
		return mappingError
	}

	return &MappingError{
		Message: e.Error(),
		cause:   e,
	}
}

// NewMappingErrorf creates a new MappingError with a formatted message.
// A %w directive keeps the wrapped error reachable through errors.Is and errors.As.
func NewMappingErrorf(format string, args ...any) *MappingError {
	err := fmt.Errorf(format, args...)
	return &MappingError{
		Message: err.Error(),
		cause:   stderrors.Unwrap(err),
	}
}

func (e *MappingError) Error() string {
	path := []string{}
	if e.Mapping != "" {
		path = append(path, fmt.Sprintf("mapping '%s'", e.Mapping))
	}
	if e.Field != "" {
		path = append(path, fmt.Sprintf("field '%s'", e.Field))
	}
	if e.Action != "" {
		path = append(path, fmt.Sprintf("action '%s'", e.Action))
	}
	if e.itemIndex != nil {
		path = append(path, fmt.Sprintf("item %d", *e.itemIndex))
	}

	if len(path) == 0 {
		return e.Message
	}

	return strings.Join(path, " -> ") + ": " + e.Message
}

func (e *MappingError) Unwrap() error {
	return e.cause
}

func (e *MappingError) AddMapping(mappingID string) *MappingError {
	e.Mapping = mappingID
	return e
}

func (e *MappingError) AddField(field string) *MappingError {
	e.Field = field
	return e
}

func (e *MappingError) AddAction(actionName string) *MappingError {
	e.Action = actionName
	return e
}

func (e *MappingError) AddItemIndex(itemIndex int) *MappingError {
	e.itemIndex = &itemIndex
	return e
}

func (e *MappingError) ItemIndex() (int, bool) {
	if e.itemIndex == nil {
		return 0, false
	}
	return *e.itemIndex, true
}

func (e *MappingError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusBadRequest, e.Error()).AddMetaValue("mapping_id", e.Mapping).AddMetaValue("field", e.Field).AddMetaValue("action", e.Action)
}

func IsMappingError(err error) bool {
	var mappingError *MappingError
	return stderrors.As(err, &mappingError)
}
