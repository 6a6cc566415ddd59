package jsonmodule

import (
	"sort"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/path"
)

// Inspect describes a JSON instance document as a field tree. Arrays are described by their
// first element and addressed with a wildcard index.
func (m *Module) Inspect(document any) ([]*models.Field, error) {
	tree, _, err := decode(document)
	if err != nil {
		return nil, err
	}
	return inspectNode(tree, path.New()), nil
}

func inspectNode(node any, parent path.Path) []*models.Field {
	object, ok := node.(map[string]any)
	if !ok {
		return nil
	}

	keys := make([]string, 0, len(object))
	for key := range object {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fields := make([]*models.Field, 0, len(keys))
	for _, key := range keys {
		fields = append(fields, inspectField(key, object[key], parent))
	}
	return fields
}

func inspectField(name string, value any, parent path.Path) *models.Field {
	field := &models.Field{Name: name, Status: models.FieldStatusSupported, CollectionType: models.CollectionNone}

	items, isArray := value.([]any)
	if isArray {
		p := parent.Append(path.IndexedSegment(name, models.CollectionArray, -1))
		field.Path = p.String()
		field.CollectionType = models.CollectionArray
		field.Type = models.FieldTypeAny
		for _, item := range items {
			if item != nil {
				field.Type = jsonType(item)
				field.Fields = inspectNode(item, p)
				break
			}
		}
		if field.Type == models.FieldTypeAny {
			field.Type = models.FieldTypeUnsupported
			field.Status = models.FieldStatusUnsupported
		}
		return field
	}

	p := parent.Append(path.NewSegment(name))
	field.Path = p.String()
	field.Type = jsonType(value)
	// one value per element of an enclosing array
	if parent.HasWildcard() {
		field.CollectionType = models.CollectionArray
	}
	field.Fields = inspectNode(value, p)
	if field.Type == models.FieldTypeUnsupported {
		field.Status = models.FieldStatusUnsupported
	}
	return field
}

// jsonType maps a decoded JSON value to a field type. Nulls carry no type information.
func jsonType(value any) models.FieldType {
	switch value.(type) {
	case nil:
		return models.FieldTypeUnsupported
	case float64:
		return models.FieldTypeDouble
	case int64:
		return models.FieldTypeLong
	case map[string]any:
		return models.FieldTypeComplex
	}
	return models.TypeOf(value)
}
