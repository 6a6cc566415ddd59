package structmodule

import (
	"reflect"
	"strings"
	"time"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/path"
)

var timeType = reflect.TypeOf(time.Time{})

// Inspect describes the type of document as a field tree. Exported fields are named after
// their json tag when present. Recursive types are cut at the first repetition.
func (m *Module) Inspect(document any) ([]*models.Field, error) {
	t := reflect.TypeOf(document)
	if t == nil {
		return nil, nil
	}
	return inspectType(t, path.New(), map[reflect.Type]bool{}), nil
}

func inspectType(t reflect.Type, parent path.Path, seen map[reflect.Type]bool) []*models.Field {
	t = deref(t)
	if t.Kind() != reflect.Struct || t == timeType || seen[t] {
		return nil
	}
	seen[t] = true
	defer delete(seen, t)

	fields := []*models.Field{}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := fieldName(sf)
		if name == "-" {
			continue
		}
		fields = append(fields, inspectField(name, sf.Type, parent, seen))
	}
	return fields
}

func inspectField(name string, t reflect.Type, parent path.Path, seen map[reflect.Type]bool) *models.Field {
	t = deref(t)
	field := &models.Field{Name: name, Status: models.FieldStatusSupported, CollectionType: models.CollectionNone}

	var segment path.Segment
	switch {
	case t.Kind() == reflect.Slice && t.Elem().Kind() != reflect.Uint8, t.Kind() == reflect.Array:
		segment = path.IndexedSegment(name, models.CollectionList, -1)
		field.CollectionType = models.CollectionList
		t = deref(t.Elem())
	case t.Kind() == reflect.Map && t.Key().Kind() == reflect.String:
		segment = path.IndexedSegment(name, models.CollectionMap, -1)
		field.CollectionType = models.CollectionMap
		t = deref(t.Elem())
	default:
		segment = path.NewSegment(name)
		if parent.HasWildcard() {
			field.CollectionType = models.CollectionList
		}
	}

	p := parent.Append(segment)
	field.Path = p.String()
	field.Type = typeOf(t)
	if field.Type == models.FieldTypeUnsupported {
		field.Status = models.FieldStatusUnsupported
	}
	field.Fields = inspectType(t, p, seen)
	return field
}

func fieldName(sf reflect.StructField) string {
	tag, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if tag != "" {
		return tag
	}
	return sf.Name
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// typeOf maps a Go type to the field type of its normalized values.
func typeOf(t reflect.Type) models.FieldType {
	if t == timeType {
		return models.FieldTypeDateTime
	}
	switch t.Kind() {
	case reflect.String:
		return models.FieldTypeString
	case reflect.Bool:
		return models.FieldTypeBoolean
	case reflect.Int8:
		return models.FieldTypeByte
	case reflect.Int16:
		return models.FieldTypeShort
	// rune is an alias of int32 so characters cannot be told apart from numbers here
	case reflect.Int, reflect.Int32:
		return models.FieldTypeInteger
	case reflect.Int64, reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return models.FieldTypeLong
	case reflect.Float32:
		return models.FieldTypeFloat
	case reflect.Float64:
		return models.FieldTypeDouble
	case reflect.Struct, reflect.Map, reflect.Interface:
		return models.FieldTypeComplex
	}
	return models.FieldTypeUnsupported
}
