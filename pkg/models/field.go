package models

import (
	"fmt"
)

// FieldStatus reports whether a module could resolve a field.
type FieldStatus string

const (
	FieldStatusSupported   FieldStatus = "SUPPORTED"
	FieldStatusUnsupported FieldStatus = "UNSUPPORTED"
	FieldStatusError       FieldStatus = "ERROR"
)

// Field is a typed, addressable element of a document.
//
// In a mapping definition a Field is a reference: DocID and Path locate the element and Type
// declares what the engine converts the value to. During a session the engine works on clones
// of these references and fills in Value and Status.
//
// Example:
//
//	{
//	  "doc_id": "order",
//	  "path": "/order/items[]/price",
//	  "type": "DOUBLE",
//	  "collection_type": "LIST"
//	}
// MaxFieldIndex is the highest position a COMBINE source or SEPARATE target may take.
const MaxFieldIndex = 4096

type Field struct {
	DocID          string             `json:"doc_id" yaml:"doc_id" validate:"required"`
	Path           string             `json:"path" yaml:"path" validate:"required"`
	Name           string             `json:"name,omitempty" yaml:"name,omitempty"`
	Type           FieldType          `json:"type" yaml:"type" validate:"required"`
	CollectionType CollectionType     `json:"collection_type,omitempty" yaml:"collection_type,omitempty"`
	Format         string             `json:"format,omitempty" yaml:"format,omitempty"` // date/time layout
	Index          *int               `json:"index,omitempty" yaml:"index,omitempty"`   // position for COMBINE/SEPARATE
	Required       bool               `json:"required,omitempty" yaml:"required,omitempty"`
	Default        any                `json:"default,omitempty" yaml:"default,omitempty"`
	Actions        []ActionDefinition `json:"actions,omitempty" yaml:"actions,omitempty" validate:"omitempty,dive"`
	Fields         []*Field           `json:"fields,omitempty" yaml:"fields,omitempty"` // children, populated by inspection

	Value  any         `json:"value,omitempty" yaml:"value,omitempty"`
	Status FieldStatus `json:"status,omitempty" yaml:"status,omitempty"`
}

// Signature returns the declared type and collection shape of the field.
func (f *Field) Signature() Signature {
	collection := f.CollectionType
	if collection == "" {
		collection = CollectionNone
	}
	return Signature{Type: f.Type, Collection: collection}
}

func (f *Field) IsCollection() bool {
	return f.CollectionType.IsCollection()
}

// SetValue stores value on the field if it is assignable to the declared type.
// Otherwise the field is marked ERROR and holds no value.
func (f *Field) SetValue(value any) error {
	if !IsAssignable(value, f.Type, f.Signature().Collection) {
		f.Value = nil
		f.Status = FieldStatusError
		return fmt.Errorf("value of type %T is not assignable to %s", value, f.Signature())
	}

	f.Value = value
	if f.Status == "" || f.Status == FieldStatusError {
		f.Status = FieldStatusSupported
	}
	return nil
}

// Key identifies the field within a session.
func (f *Field) Key() string {
	return f.DocID + ":" + f.Path
}

// Clone returns a deep copy of the reference without its runtime value.
func (f *Field) Clone() *Field {
	if f == nil {
		return nil
	}

	clone := *f
	clone.Value = nil
	clone.Status = ""
	if f.Index != nil {
		index := *f.Index
		clone.Index = &index
	}
	clone.Actions = append([]ActionDefinition(nil), f.Actions...)
	if f.Fields != nil {
		clone.Fields = make([]*Field, len(f.Fields))
		for i, child := range f.Fields {
			clone.Fields[i] = child.Clone()
		}
	}

	return &clone
}

func (f *Field) String() string {
	return fmt.Sprintf("%s%s (%s)", f.DocID, f.Path, f.Signature())
}
