package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected FieldType
	}{
		{name: "string", value: "test", expected: FieldTypeString},
		{name: "bool", value: true, expected: FieldTypeBoolean},
		{name: "byte", value: int8(1), expected: FieldTypeByte},
		{name: "char", value: 'a', expected: FieldTypeChar},
		{name: "short", value: int16(1), expected: FieldTypeShort},
		{name: "integer", value: 1, expected: FieldTypeInteger},
		{name: "long", value: int64(1), expected: FieldTypeLong},
		{name: "float", value: float32(1.5), expected: FieldTypeFloat},
		{name: "double", value: 1.5, expected: FieldTypeDouble},
		{name: "date time", value: time.Now(), expected: FieldTypeDateTime},
		{name: "object", value: map[string]any{"a": 1}, expected: FieldTypeComplex},
		{name: "struct", value: struct{ A int }{A: 1}, expected: FieldTypeComplex},
		{name: "channel", value: make(chan int), expected: FieldTypeUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TypeOf(tt.value))
		})
	}
}

func TestIsAssignable(t *testing.T) {
	t.Run("nil is always assignable", func(t *testing.T) {
		assert.True(t, IsAssignable(nil, FieldTypeInteger, CollectionNone))
	})

	t.Run("scalar", func(t *testing.T) {
		assert.True(t, IsAssignable(3, FieldTypeInteger, CollectionNone))
		assert.False(t, IsAssignable(3.0, FieldTypeInteger, CollectionNone))
		assert.False(t, IsAssignable("3", FieldTypeInteger, ""))
	})

	t.Run("list", func(t *testing.T) {
		assert.True(t, IsAssignable([]any{"a", nil, "b"}, FieldTypeString, CollectionList))
		assert.False(t, IsAssignable([]any{"a", 1}, FieldTypeString, CollectionArray))
		assert.False(t, IsAssignable("a", FieldTypeString, CollectionList))
	})

	t.Run("map", func(t *testing.T) {
		assert.True(t, IsAssignable(map[string]any{"a": 1}, FieldTypeInteger, CollectionMap))
		assert.False(t, IsAssignable(map[string]any{"a": "1"}, FieldTypeInteger, CollectionMap))
	})
}

func TestFieldSetValue(t *testing.T) {
	t.Run("assignable value", func(t *testing.T) {
		field := &Field{DocID: "doc", Path: "/a", Type: FieldTypeString}
		assert.NoError(t, field.SetValue("hello"))
		assert.Equal(t, "hello", field.Value)
		assert.Equal(t, FieldStatusSupported, field.Status)
	})

	t.Run("unassignable value marks the field as error", func(t *testing.T) {
		field := &Field{DocID: "doc", Path: "/a", Type: FieldTypeInteger}
		assert.Error(t, field.SetValue("hello"))
		assert.Nil(t, field.Value)
		assert.Equal(t, FieldStatusError, field.Status)
	})
}

func TestMappingResolveDelimiter(t *testing.T) {
	tests := []struct {
		name     string
		mapping  Mapping
		expected string
		ok       bool
	}{
		{name: "named", mapping: Mapping{Delimiter: "COMMA"}, expected: ",", ok: true},
		{name: "custom wins", mapping: Mapping{Delimiter: "COMMA", DelimiterString: "::"}, expected: "::", ok: true},
		{name: "unknown name", mapping: Mapping{Delimiter: "WAVE"}, expected: "", ok: false},
		{name: "missing", mapping: Mapping{}, expected: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delimiter, ok := tt.mapping.ResolveDelimiter()
			assert.Equal(t, tt.expected, delimiter)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestMappingDefinitionClone(t *testing.T) {
	index := 1
	def := &MappingDefinition{
		Name: "orders",
		Mappings: []Mapping{
			{
				Type:    MappingTypeMap,
				Sources: []*Field{{DocID: "src", Path: "/a", Type: FieldTypeString, Index: &index}},
				Targets: []*Field{{DocID: "tgt", Path: "/b", Type: FieldTypeString}},
			},
		},
	}

	clone := def.Clone()
	clone.Mappings[0].Sources[0].Path = "/changed"
	*clone.Mappings[0].Sources[0].Index = 5

	assert.Equal(t, "/a", def.Mappings[0].Sources[0].Path)
	assert.Equal(t, 1, *def.Mappings[0].Sources[0].Index)
	assert.Equal(t, "mapping-1", def.Mappings[0].Identifier(0))
}
