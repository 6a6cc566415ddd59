package path

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	document := map[string]any{
		"order": map[string]any{
			"id": "A-1",
			"lines": []any{
				map[string]any{"sku": "x", "tags": []any{"a", "b"}},
				map[string]any{"sku": "y", "tags": []any{"c"}},
			},
			"attrs": map[string]any{"color": "red", "size": "L"},
			"note":  nil,
		},
	}

	t.Run("should return the value of a nested key", func(t *testing.T) {
		value, err := Get(document, MustParse("/order/id"))
		require.NoError(t, err)
		assert.Equal(t, "A-1", value)
	})

	t.Run("should return an explicit null", func(t *testing.T) {
		value, err := Get(document, MustParse("/order/note"))
		require.NoError(t, err)
		assert.Nil(t, value)
	})

	t.Run("should index into collections", func(t *testing.T) {
		value, err := Get(document, MustParse("/order/lines[1]/sku"))
		require.NoError(t, err)
		assert.Equal(t, "y", value)
	})

	t.Run("should aggregate wildcards", func(t *testing.T) {
		value, err := Get(document, MustParse("/order/lines[]/sku"))
		require.NoError(t, err)
		assert.Equal(t, []any{"x", "y"}, value)
	})

	t.Run("should flatten nested wildcards", func(t *testing.T) {
		value, err := Get(document, MustParse("/order/lines[]/tags[]"))
		require.NoError(t, err)
		assert.Equal(t, []any{"a", "b", "c"}, value)
	})

	t.Run("should read map entries", func(t *testing.T) {
		value, err := Get(document, MustParse("/order/attrs{color}"))
		require.NoError(t, err)
		assert.Equal(t, "red", value)
	})

	t.Run("should return an error for missing keys", func(t *testing.T) {
		_, err := Get(document, MustParse("/order/missing"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("should return an error for out of bounds indexes", func(t *testing.T) {
		_, err := Get(document, MustParse("/order/lines[5]/sku"))
		assert.ErrorIs(t, err, ErrIndexOutOfBounds)
	})

	t.Run("should return an error when indexing a scalar", func(t *testing.T) {
		_, err := Get(document, MustParse("/order/id[0]"))
		assert.ErrorIs(t, err, ErrInvalidIndexUsage)
	})
}

func TestSet(t *testing.T) {
	t.Run("should create intermediate objects", func(t *testing.T) {
		root, err := Set(nil, MustParse("/contact/name/first"), "Ada")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"contact": map[string]any{"name": map[string]any{"first": "Ada"}}}, root)
	})

	t.Run("should keep existing siblings", func(t *testing.T) {
		root := map[string]any{"contact": map[string]any{"last": "Lovelace"}}
		updated, err := Set(root, MustParse("/contact/first"), "Ada")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"contact": map[string]any{"first": "Ada", "last": "Lovelace"}}, updated)
	})

	t.Run("should grow collections", func(t *testing.T) {
		root, err := Set(nil, MustParse("/lines[2]/sku"), "z")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"lines": []any{nil, nil, map[string]any{"sku": "z"}}}, root)
	})

	t.Run("should spread values over a wildcard", func(t *testing.T) {
		root, err := Set(map[string]any{}, MustParse("/lines[]/sku"), []any{"x", "y"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"lines": []any{map[string]any{"sku": "x"}, map[string]any{"sku": "y"}}}, root)
	})

	t.Run("should spread maps over a map wildcard", func(t *testing.T) {
		root, err := Set(nil, MustParse("/attrs{}"), map[string]any{"a": 1, "b": 2})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"attrs": map[string]any{"a": 1, "b": 2}}, root)
	})

	t.Run("should reject scalars for wildcards", func(t *testing.T) {
		_, err := Set(nil, MustParse("/lines[]/sku"), "x")
		assert.ErrorIs(t, err, ErrInvalidIndexUsage)
	})

	t.Run("should reject writing through a scalar", func(t *testing.T) {
		_, err := Set(map[string]any{"a": "text"}, MustParse("/a/b"), 1)
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("should replace the root", func(t *testing.T) {
		root, err := Set(nil, New(), "value")
		require.NoError(t, err)
		assert.Equal(t, "value", root)
	})
}
