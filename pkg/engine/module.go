package engine

import (
	"context"

	"github.com/Gobusters/ectolinq"
	"github.com/Ramsey-B/fern/pkg/models"
)

// Mode is the role a module plays for a document.
type Mode string

const (
	ModeSource Mode = "SOURCE"
	ModeTarget Mode = "TARGET"
)

// ModeOf returns the mode a data source needs from its module.
func ModeOf(ds models.DataSource) Mode {
	if ds.Type == models.DataSourceTarget {
		return ModeTarget
	}
	return ModeSource
}

// Metadata describes a module implementation.
type Metadata struct {
	Name        string
	Scheme      string
	Modes       []Mode
	DataFormats []string
	// FieldTypes lists the supported field types. Empty means every declarable type.
	FieldTypes []models.FieldType
}

// Module is a format plugin bound to one document of one session.
//
// The pipeline calls the lifecycle callbacks once per session and the data callbacks
// (ProcessInputMapping, ProcessInputActions, ProcessOutputMapping, ProcessOutputActions,
// WriteTargetValue) once per field of every mapping that references the module's document.
// The field in progress is available from Session.Head.
//
// ProcessInputMapping reads the head's source field from the document and stores it with
// Session.SetFieldValue; leaving the value nil reports a missing value. WriteTargetValue writes
// the head's target field value, already converted to the declared type, into the document.
type Module interface {
	Metadata() Metadata
	ListSupportedModes() []Mode
	IsSupportedField(field *models.Field) bool

	ProcessPreValidation(ctx context.Context, session *Session) error
	ProcessPreInputExecution(ctx context.Context, session *Session) error
	ProcessInputMapping(ctx context.Context, session *Session) error
	ProcessInputActions(ctx context.Context, session *Session) error
	ProcessPostInputExecution(ctx context.Context, session *Session) error
	ProcessPreOutputExecution(ctx context.Context, session *Session) error
	ProcessOutputMapping(ctx context.Context, session *Session) error
	ProcessOutputActions(ctx context.Context, session *Session) error
	ProcessPostOutputExecution(ctx context.Context, session *Session) error
	ProcessPostValidation(ctx context.Context, session *Session) error

	WriteTargetValue(ctx context.Context, session *Session) error
}

// Inspector is implemented by modules that can describe a document as a field tree.
type Inspector interface {
	Inspect(document any) ([]*models.Field, error)
}

// BaseModule implements every callback as a no-op. Embed it and override what the format needs.
type BaseModule struct {
	Meta Metadata
}

func (b *BaseModule) Metadata() Metadata {
	return b.Meta
}

func (b *BaseModule) ListSupportedModes() []Mode {
	return b.Meta.Modes
}

// IsSupportedField accepts fields whose type is listed in Meta.FieldTypes, or every declarable
// type other than UNSUPPORTED when none are listed.
func (b *BaseModule) IsSupportedField(field *models.Field) bool {
	if field == nil || field.Type == models.FieldTypeUnsupported || !field.Type.IsValid() {
		return false
	}
	return len(b.Meta.FieldTypes) == 0 || ectolinq.Contains(b.Meta.FieldTypes, field.Type)
}

func (b *BaseModule) ProcessPreValidation(ctx context.Context, session *Session) error {
	return nil
}

func (b *BaseModule) ProcessPreInputExecution(ctx context.Context, session *Session) error {
	return nil
}

func (b *BaseModule) ProcessInputMapping(ctx context.Context, session *Session) error {
	return nil
}

func (b *BaseModule) ProcessInputActions(ctx context.Context, session *Session) error {
	return nil
}

func (b *BaseModule) ProcessPostInputExecution(ctx context.Context, session *Session) error {
	return nil
}

func (b *BaseModule) ProcessPreOutputExecution(ctx context.Context, session *Session) error {
	return nil
}

func (b *BaseModule) ProcessOutputMapping(ctx context.Context, session *Session) error {
	return nil
}

func (b *BaseModule) ProcessOutputActions(ctx context.Context, session *Session) error {
	return nil
}

func (b *BaseModule) ProcessPostOutputExecution(ctx context.Context, session *Session) error {
	return nil
}

func (b *BaseModule) ProcessPostValidation(ctx context.Context, session *Session) error {
	return nil
}

func (b *BaseModule) WriteTargetValue(ctx context.Context, session *Session) error {
	return nil
}

func supportsMode(modes []Mode, mode Mode) bool {
	return ectolinq.Contains(modes, mode)
}

// unwrapper is implemented by decorators around a module.
type unwrapper interface {
	Unwrap() Module
}

// Unwrap strips every decorator from m.
func Unwrap(m Module) Module {
	for {
		u, ok := m.(unwrapper)
		if !ok {
			return m
		}
		m = u.Unwrap()
	}
}

// AsInspector returns the inspector behind m, if the module implements one.
func AsInspector(m Module) (Inspector, bool) {
	inspector, ok := Unwrap(m).(Inspector)
	return inspector, ok
}
