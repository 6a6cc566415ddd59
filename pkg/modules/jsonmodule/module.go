// Package jsonmodule reads and writes JSON documents.
//
// A document is bound to a session either as a decoded tree (map[string]any / []any) or as
// raw JSON ([]byte, json.RawMessage or string). Target documents are published in the form
// they were bound in; an unbound target is published as a tree.
package jsonmodule

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/Ramsey-B/fern/pkg/conversion"
	"github.com/Ramsey-B/fern/pkg/engine"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/path"
)

const (
	Scheme     = "json"
	DataFormat = "application/json"
)

// Registration registers the module for the "json" scheme in both modes.
func Registration() engine.Registration {
	return engine.Registration{
		Scheme:      Scheme,
		Factory:     New,
		Modes:       []engine.Mode{engine.ModeSource, engine.ModeTarget},
		DataFormats: []string{DataFormat},
	}
}

// Module serves one JSON document of one session.
type Module struct {
	engine.BaseModule
	docID string
	mode  engine.Mode
	tree  any
	raw   bool
	paths map[string]path.Path
}

func New(ds models.DataSource) (engine.Module, error) {
	return &Module{
		BaseModule: engine.BaseModule{Meta: Metadata()},
		docID:      ds.ID,
		mode:       engine.ModeOf(ds),
		paths:      map[string]path.Path{},
	}, nil
}

func Metadata() engine.Metadata {
	return engine.Metadata{
		Name:        "json",
		Scheme:      Scheme,
		Modes:       []engine.Mode{engine.ModeSource, engine.ModeTarget},
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
	tree, _, err := decode(document)
	if err != nil {
		return err
	}
	m.tree = tree
	return nil
}

func (m *Module) ProcessInputMapping(ctx context.Context, session *engine.Session) error {
	field := session.Head().SourceField
	p, err := m.path(field.Path)
	if err != nil {
		return err
	}

	value, err := path.Get(m.tree, p)
	if err != nil {
		// a missing value is resolved by the pipeline from the field default
		if stderrors.Is(err, path.ErrNotFound) || stderrors.Is(err, path.ErrIndexOutOfBounds) {
			field.Value = nil
			return nil
		}
		return err
	}
	return session.SetFieldValue(field, leafNumbers(value))
}

func (m *Module) ProcessPreOutputExecution(ctx context.Context, session *engine.Session) error {
	document, _ := session.TargetDocument(m.docID)
	tree, raw, err := decode(document)
	if err != nil {
		return err
	}
	m.tree = tree
	m.raw = raw
	return nil
}

func (m *Module) ProcessOutputMapping(ctx context.Context, session *engine.Session) error {
	field := session.Head().TargetField
	if _, err := m.path(field.Path); err != nil {
		field.Status = models.FieldStatusUnsupported
		return err
	}
	return nil
}

func (m *Module) WriteTargetValue(ctx context.Context, session *engine.Session) error {
	field := session.Head().TargetField
	p, err := m.path(field.Path)
	if err != nil {
		return err
	}

	root, err := path.Set(m.tree, p, toJSONValue(field.Value, field))
	if err != nil {
		return err
	}
	m.tree = root
	return nil
}

func (m *Module) ProcessPostOutputExecution(ctx context.Context, session *engine.Session) error {
	if !m.raw {
		return session.SetTargetDocument(m.docID, m.tree)
	}
	data, err := json.Marshal(m.tree)
	if err != nil {
		return err
	}
	return session.SetTargetDocument(m.docID, data)
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

// decode returns the tree of a bound document and whether it was bound as raw JSON.
func decode(document any) (any, bool, error) {
	var data []byte
	switch d := document.(type) {
	case nil:
		return nil, false, nil
	case []byte:
		data = d
	case json.RawMessage:
		data = d
	case string:
		data = []byte(d)
	case map[string]any, []any:
		return d, false, nil
	default:
		return nil, false, fmt.Errorf("unsupported JSON document type %T", document)
	}

	if len(data) == 0 {
		return nil, true, nil
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var tree any
	if err := decoder.Decode(&tree); err != nil {
		return nil, true, fmt.Errorf("invalid JSON document: %w", err)
	}
	if rest := bytes.TrimSpace(data[decoder.InputOffset():]); len(rest) > 0 {
		return nil, true, fmt.Errorf("invalid JSON document: trailing data after the root value")
	}
	return numbers(tree), true, nil
}

// numbers replaces the json.Number leaves of a freshly decoded tree in place. Integers that
// fit in 64 bits become int64 so LONG values keep every digit; the rest become float64, or
// keep their text when they overflow a float64.
func numbers(node any) any {
	switch n := node.(type) {
	case json.Number:
		return number(n)
	case map[string]any:
		for key, value := range n {
			n[key] = numbers(value)
		}
	case []any:
		for i, value := range n {
			n[i] = numbers(value)
		}
	}
	return node
}

func number(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

// leafNumbers converts json.Number values of a tree bound by the caller without touching it.
func leafNumbers(value any) any {
	switch v := value.(type) {
	case json.Number:
		return number(v)
	case []any:
		var items []any
		for i, item := range v {
			n, ok := item.(json.Number)
			if !ok {
				continue
			}
			if items == nil {
				items = append([]any(nil), v...)
			}
			items[i] = number(n)
		}
		if items != nil {
			return items
		}
	}
	return value
}

// toJSONValue renders values that encoding/json would misrepresent: characters become strings
// and date/time values use the field layout.
func toJSONValue(value any, field *models.Field) any {
	switch v := value.(type) {
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = toJSONValue(item, field)
		}
		return items
	case rune:
		if field.Type == models.FieldTypeChar {
			return string(v)
		}
	case time.Time:
		layout := conversion.ResolveLayout(field.Format)
		if layout == "" {
			layout = conversion.DefaultLayout(field.Type)
		}
		return v.Format(layout)
	}
	return value
}
