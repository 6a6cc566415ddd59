package engine

import (
	"fmt"
	"strings"

	"github.com/Ramsey-B/fern/pkg/actions"
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
)

var stringSignature = models.Signature{Type: models.FieldTypeString, Collection: models.CollectionNone}

// position returns the slot of a COMBINE source or SEPARATE target: its index, or its
// declaration order when no index is set.
func position(field *models.Field, declared int) int {
	if field.Index != nil {
		return *field.Index
	}
	return declared
}

func delimiterOf(mapping *models.Mapping) (string, error) {
	delimiter, ok := mapping.ResolveDelimiter()
	if !ok {
		if mapping.Delimiter == "" {
			return "", errors.NewMappingError(fmt.Sprintf("%s mapping has no delimiter", mapping.Type))
		}
		return "", errors.NewMappingError(fmt.Sprintf("unknown delimiter '%s'", mapping.Delimiter))
	}
	return delimiter, nil
}

// combine joins the source values into one string. Sources are placed at their index; empty
// slots become empty strings. A collection source is joined element by element.
func (c *Context) combine(mapping *models.Mapping, values []actions.Value) (actions.Value, error) {
	delimiter, err := delimiterOf(mapping)
	if err != nil {
		return actions.Value{}, err
	}

	slots := map[int]string{}
	last := -1
	for i, value := range values {
		slot := position(mapping.Sources[i], i)
		if slot < 0 {
			return actions.Value{}, errors.NewMappingError(fmt.Sprintf("negative index %d", slot)).AddField(mapping.Sources[i].Key())
		}
		if slot > models.MaxFieldIndex {
			return actions.Value{}, errors.NewMappingError(fmt.Sprintf("index %d exceeds the maximum of %d", slot, models.MaxFieldIndex)).AddField(mapping.Sources[i].Key())
		}
		text, err := c.stringify(value, delimiter)
		if err != nil {
			return actions.Value{}, errors.WrapMappingError(err).AddField(mapping.Sources[i].Key())
		}
		slots[slot] = text
		if slot > last {
			last = slot
		}
	}

	parts := make([]string, last+1)
	for slot, text := range slots {
		parts[slot] = text
	}
	return actions.Value{Value: strings.Join(parts, delimiter), Signature: stringSignature}, nil
}

// separate splits the value and hands part i to the target at slot i. Targets without a part
// receive no value and are not written.
func (c *Context) separate(mapping *models.Mapping, value actions.Value) ([]actions.Value, error) {
	delimiter, err := delimiterOf(mapping)
	if err != nil {
		return nil, err
	}

	values := make([]actions.Value, len(mapping.Targets))
	if value.Value == nil {
		return values, nil
	}
	if isCollection(value) {
		return nil, errors.NewMappingError("a collection value cannot be separated")
	}

	text, err := c.stringify(value, delimiter)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(text, delimiter)
	for i, target := range mapping.Targets {
		if target == nil {
			continue
		}
		slot := position(target, i)
		if slot >= 0 && slot < len(parts) {
			values[i] = actions.Value{Value: parts[slot], Signature: stringSignature}
		}
	}
	return values, nil
}

// lookup translates the value through the mapping's lookup table, element by element for
// collections. A value without entry becomes nil and is reported as a warning.
func (c *Context) lookup(session *Session, mapping *models.Mapping, value actions.Value) (actions.Value, error) {
	table, ok := session.definition.LookupTable(mapping.LookupTableName)
	if !ok {
		return actions.Value{}, errors.NewMappingError(fmt.Sprintf("lookup table '%s' is not declared", mapping.LookupTableName))
	}
	if value.Value == nil {
		return actions.Value{Signature: stringSignature}, nil
	}

	translate := func(item any) (any, error) {
		if item == nil {
			return nil, nil
		}
		key, err := c.stringify(actions.Value{Value: item, Signature: models.SignatureOf(item), Format: value.Format, Pattern: value.Pattern}, "")
		if err != nil {
			return nil, err
		}
		target, found := table.Find(key)
		if !found {
			session.AddAudit(models.StatusWarn, fmt.Sprintf("lookup table '%s' has no entry for '%s'", table.Name, key))
			return nil, nil
		}
		return target, nil
	}

	items, ok := value.Value.([]any)
	if !ok {
		translated, err := translate(value.Value)
		return actions.Value{Value: translated, Signature: stringSignature}, err
	}

	translated := make([]any, len(items))
	for i, item := range items {
		result, err := translate(item)
		if err != nil {
			return actions.Value{}, errors.WrapMappingError(err).AddItemIndex(i)
		}
		translated[i] = result
	}
	return actions.Value{Value: translated, Signature: models.Signature{Type: models.FieldTypeString, Collection: models.CollectionList}}, nil
}

// stringify converts a value to text. Collections are joined with delimiter, nil elements
// become empty strings.
func (c *Context) stringify(value actions.Value, delimiter string) (string, error) {
	if value.Value == nil {
		return "", nil
	}
	if items, ok := value.Value.([]any); ok {
		parts := make([]string, len(items))
		for i, item := range items {
			text, err := c.stringify(actions.Value{Value: item, Signature: models.SignatureOf(item), Format: value.Format, Pattern: value.Pattern}, delimiter)
			if err != nil {
				return "", errors.WrapMappingError(err).AddItemIndex(i)
			}
			parts[i] = text
		}
		return strings.Join(parts, delimiter), nil
	}

	converted, _, err := c.processor.Convert(value, stringSignature)
	if err != nil {
		return "", err
	}
	text, _ := converted.Value.(string)
	return text, nil
}
