package structmodule

import (
	"testing"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type node struct {
	Name     string  `json:"name"`
	Children []*node `json:"children"`
	Skipped  string  `json:"-"`
	internal int
}

func TestInspect(t *testing.T) {
	module, err := New(models.DataSource{ID: "person", URI: "struct:person", Type: models.DataSourceSource})
	require.NoError(t, err)

	fields, err := module.(*Module).Inspect(&person{})
	require.NoError(t, err)

	byName := map[string]*models.Field{}
	for _, field := range fields {
		byName[field.Name] = field
	}
	require.Len(t, byName, 9)

	tests := []struct {
		name       string
		path       string
		fieldType  models.FieldType
		collection models.CollectionType
	}{
		{name: "first", path: "/first", fieldType: models.FieldTypeString, collection: models.CollectionNone},
		{name: "Last", path: "/Last", fieldType: models.FieldTypeString, collection: models.CollectionNone},
		{name: "age", path: "/age", fieldType: models.FieldTypeInteger, collection: models.CollectionNone},
		{name: "born", path: "/born", fieldType: models.FieldTypeDateTime, collection: models.CollectionNone},
		{name: "tags", path: "/tags<>", fieldType: models.FieldTypeString, collection: models.CollectionList},
		{name: "address", path: "/address", fieldType: models.FieldTypeComplex, collection: models.CollectionNone},
		{name: "scores", path: "/scores{}", fieldType: models.FieldTypeDouble, collection: models.CollectionMap},
		{name: "orders", path: "/orders<>", fieldType: models.FieldTypeComplex, collection: models.CollectionList},
		{name: "extra", path: "/extra", fieldType: models.FieldTypeComplex, collection: models.CollectionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, ok := byName[tt.name]
			require.True(t, ok)
			assert.Equal(t, tt.path, field.Path)
			assert.Equal(t, tt.fieldType, field.Type)
			assert.Equal(t, tt.collection, field.CollectionType)
			assert.Equal(t, models.FieldStatusSupported, field.Status)
		})
	}

	city := byName["address"].Fields
	require.Len(t, city, 1)
	assert.Equal(t, "/address/city", city[0].Path)

	lines := byName["orders"].Fields[1]
	assert.Equal(t, "/orders<>/lines<>", lines.Path)
	require.Len(t, lines.Fields, 2)
	assert.Equal(t, "/orders<>/lines<>/quantity", lines.Fields[1].Path)
	assert.Equal(t, models.FieldTypeLong, lines.Fields[1].Type)
	assert.Equal(t, models.CollectionList, lines.Fields[1].CollectionType)
}

func TestInspectRecursiveType(t *testing.T) {
	module, err := New(models.DataSource{ID: "tree", URI: "struct:tree", Type: models.DataSourceSource})
	require.NoError(t, err)

	fields, err := module.(*Module).Inspect(node{})
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "/children<>", fields[1].Path)
	assert.Empty(t, fields[1].Fields)
}
