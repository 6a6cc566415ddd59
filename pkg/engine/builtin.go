package engine

import (
	"context"
	"fmt"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/validation"
)

// constantsModule serves the read-only DOC.Constants document.
type constantsModule struct {
	BaseModule
}

func newConstantsModule() Module {
	return &constantsModule{BaseModule: BaseModule{Meta: Metadata{
		Name:   "constants",
		Scheme: "constant",
		Modes:  []Mode{ModeSource},
	}}}
}

func (m *constantsModule) ProcessInputMapping(ctx context.Context, session *Session) error {
	field := session.Head().SourceField
	name := validation.BuiltinName(field.Path)
	constant, ok := session.Definition().Constant(name)
	if !ok {
		return fmt.Errorf("constant '%s' is not declared", name)
	}

	value, err := session.Conversions().ConvertValue(constant.Value, models.FieldTypeString, constant.Type)
	if err != nil {
		return err
	}
	return session.SetFieldValue(field, value.Value)
}

// propertiesModule serves the DOC.Properties document. Reads see session values first and
// declared values second; writes set session values.
type propertiesModule struct {
	BaseModule
}

func newPropertiesModule() Module {
	return &propertiesModule{BaseModule: BaseModule{Meta: Metadata{
		Name:   "properties",
		Scheme: "property",
		Modes:  []Mode{ModeSource, ModeTarget},
	}}}
}

func (m *propertiesModule) ProcessInputMapping(ctx context.Context, session *Session) error {
	field := session.Head().SourceField
	value, ok := session.Property(validation.BuiltinName(field.Path))
	if !ok {
		return nil
	}
	return session.SetFieldValue(field, value)
}

func (m *propertiesModule) WriteTargetValue(ctx context.Context, session *Session) error {
	field := session.Head().TargetField
	session.SetProperty(validation.BuiltinName(field.Path), field.Value)
	return nil
}
