package utils

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by the keys they carry in a mapping definition.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		// an empty name keeps the Go field name
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseArguments converts action arguments to T. Arguments that are not already a T are
// round-tripped through JSON, so map keys follow the json tags of T.
func ParseArguments[T any](args any) (T, error) {
	var result T
	if arg, ok := args.(T); ok {
		return arg, nil
	}

	data, err := json.Marshal(args)
	if err != nil {
		return result, errors.NewMappingErrorf("arguments of type %T cannot be read: %w", args, err)
	}
	if err = json.Unmarshal(data, &result); err != nil {
		return result, errors.NewMappingErrorf("arguments %s are not a valid %T: %w", data, result, err)
	}
	return result, nil
}

// ValidateArguments parses action arguments and checks their validate tags.
func ValidateArguments[T any](args any) (T, error) {
	result, err := ParseArguments[T](args)
	if err != nil {
		return result, err
	}
	return Validate(result)
}

func Validate[T any](value T) (T, error) {
	if err := validate.Struct(value); err != nil {
		return value, ValidationErrorToString(value, err)
	}
	return value, nil
}

func ValidateValue(value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		return ValidationErrorToString(value, err)
	}
	return nil
}

// ValidationErrorToString folds validator failures into one MappingError naming every
// offending key, e.g. "invalid models.Field: 'doc_id' failed 'required'".
func ValidationErrorToString(input any, err error) error {
	var failures validator.ValidationErrors
	if !stderrors.As(err, &failures) {
		return errors.WrapMappingError(err)
	}

	parts := make([]string, 0, len(failures))
	for _, failure := range failures {
		part := fmt.Sprintf("'%s' failed '%s'", failureKey(failure), failure.Tag())
		if failure.Param() != "" {
			part += fmt.Sprintf(" (%s)", failure.Param())
		}
		parts = append(parts, part)
	}
	return errors.NewMappingError(fmt.Sprintf("invalid %T: %s", input, strings.Join(parts, "; ")))
}

// failureKey drops the root type from the namespace so nested keys read "actions[0].name".
func failureKey(failure validator.FieldError) string {
	if _, key, ok := strings.Cut(failure.Namespace(), "."); ok && key != "" {
		return key
	}
	if failure.Field() != "" {
		return failure.Field()
	}
	return "value"
}
