package errors

import (
	stderrors "errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// ErrUnsupportedConversion is returned when no converter or numeric cast exists for a type pair.
var ErrUnsupportedConversion = stderrors.New("unsupported conversion")

// ConfigurationError reports a bad registration, a missing module or a malformed mapping definition.
// Execution never starts when one is returned.
type ConfigurationError struct {
	Message string
	cause   error
}

func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

func WrapConfigurationError(err error, msg string) *ConfigurationError {
	return &ConfigurationError{Message: msg, cause: pkgerrors.Wrap(err, msg)}
}

func (e *ConfigurationError) Error() string {
	if e.cause != nil {
		return "configuration error: " + e.cause.Error()
	}
	return "configuration error: " + e.Message
}

func (e *ConfigurationError) Unwrap() error {
	return e.cause
}

// MappingExecutionError is a failure while one mapping was processed.
// It is recorded as an audit and never stops the session.
type MappingExecutionError struct {
	MappingID string
	Phase     string
	Err       *MappingError
}

func NewMappingExecutionError(mappingID, phase string, err error) *MappingExecutionError {
	return &MappingExecutionError{
		MappingID: mappingID,
		Phase:     phase,
		Err:       WrapMappingError(err).AddMapping(mappingID),
	}
}

func (e *MappingExecutionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err.Error())
}

func (e *MappingExecutionError) Unwrap() error {
	return e.Err
}

// FatalPipelineError aborts a session. It is the only error returned from processing.
type FatalPipelineError struct {
	Phase  string
	Module string
	cause  error
}

func NewFatalPipelineError(phase, module string, err error) *FatalPipelineError {
	cause := pkgerrors.Wrapf(err, "%s failed during %s", module, phase)
	if err == nil {
		cause = pkgerrors.Errorf("%s failed during %s", module, phase)
	}

	return &FatalPipelineError{
		Phase:  phase,
		Module: module,
		cause:  cause,
	}
}

func (e *FatalPipelineError) Error() string {
	return "fatal pipeline error: " + e.cause.Error()
}

func (e *FatalPipelineError) Unwrap() error {
	return e.cause
}

// ConversionError reports a value that could not be converted between two field types.
type ConversionError struct {
	Value  any
	Source string
	Target string
	cause  error
}

func NewConversionError(value any, source, target string, err error) *ConversionError {
	return &ConversionError{Value: value, Source: source, Target: target, cause: err}
}

func (e *ConversionError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("unable to convert %v from %s to %s", e.Value, e.Source, e.Target)
	}
	return fmt.Sprintf("unable to convert %v from %s to %s: %s", e.Value, e.Source, e.Target, e.cause.Error())
}

func (e *ConversionError) Unwrap() error {
	return e.cause
}

func IsFatal(err error) bool {
	var fatal *FatalPipelineError
	return stderrors.As(err, &fatal)
}

func IsConfigurationError(err error) bool {
	var configErr *ConfigurationError
	return stderrors.As(err, &configErr)
}
