// Package structmodule reads native Go values (structs, maps and slices) as source documents.
package structmodule

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"

	"github.com/Ramsey-B/fern/pkg/engine"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/path"
)

const (
	Scheme     = "struct"
	DataFormat = "application/x-go-value"
)

func Registration() engine.Registration {
	return engine.Registration{
		Scheme:      Scheme,
		Factory:     New,
		Modes:       []engine.Mode{engine.ModeSource},
		DataFormats: []string{DataFormat},
	}
}

// Module serves one Go value of one session. It is read only.
type Module struct {
	engine.BaseModule
	docID string
	root  reflect.Value
	paths map[string]path.Path
}

func New(ds models.DataSource) (engine.Module, error) {
	if engine.ModeOf(ds) != engine.ModeSource {
		return nil, fmt.Errorf("the %s module cannot write '%s'", Scheme, ds.ID)
	}
	return &Module{
		BaseModule: engine.BaseModule{Meta: Metadata()},
		docID:      ds.ID,
		paths:      map[string]path.Path{},
	}, nil
}

func Metadata() engine.Metadata {
	return engine.Metadata{
		Name:        "struct",
		Scheme:      Scheme,
		Modes:       []engine.Mode{engine.ModeSource},
		DataFormats: []string{DataFormat},
		FieldTypes: []models.FieldType{
			models.FieldTypeString, models.FieldTypeBoolean, models.FieldTypeByte, models.FieldTypeChar,
			models.FieldTypeDouble, models.FieldTypeFloat, models.FieldTypeInteger, models.FieldTypeLong,
			models.FieldTypeShort, models.FieldTypeDate, models.FieldTypeTime, models.FieldTypeDateTime,
			models.FieldTypeDateTimeTZ, models.FieldTypeComplex,
		},
	}
}

func (m *Module) IsSupportedField(field *models.Field) bool {
	if !m.BaseModule.IsSupportedField(field) {
		return false
	}
	_, err := m.path(field.Path)
	return err == nil
}

func (m *Module) ProcessPreInputExecution(ctx context.Context, session *engine.Session) error {
	document, ok := session.SourceDocument(m.docID)
	if !ok {
		return fmt.Errorf("no document is bound to '%s'", m.docID)
	}
	m.root = reflect.ValueOf(document)
	return nil
}

func (m *Module) ProcessInputMapping(ctx context.Context, session *engine.Session) error {
	field := session.Head().SourceField
	p, err := m.path(field.Path)
	if err != nil {
		return err
	}

	value, err := lookup(m.root, p.Segments())
	if err != nil {
		if stderrors.Is(err, path.ErrNotFound) || stderrors.Is(err, path.ErrIndexOutOfBounds) {
			field.Value = nil
			return nil
		}
		return fmt.Errorf("'%s': %w", p.String(), err)
	}
	return session.SetFieldValue(field, normalize(value))
}

func (m *Module) path(expr string) (path.Path, error) {
	if p, ok := m.paths[expr]; ok {
		return p, nil
	}
	p, err := path.Parse(expr)
	if err != nil {
		return path.Path{}, err
	}
	m.paths[expr] = p
	return p, nil
}
