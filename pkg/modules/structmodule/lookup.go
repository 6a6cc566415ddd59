package structmodule

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/path"
)

var ErrNonStringMapKey = errors.New("map key type is not string")

// lookup resolves segments against a Go value. Struct fields match by name or json tag,
// ignoring case. Wildcard segments aggregate every element, flattening nested wildcards.
func lookup(value reflect.Value, segments []path.Segment) (reflect.Value, error) {
	value = indirect(value)
	if len(segments) == 0 {
		return value, nil
	}
	if !value.IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: nil value", path.ErrNotFound)
	}

	segment := segments[0]
	rest := segments[1:]
	current := value
	if segment.Name != "" {
		child, err := valueByName(value, segment.Name)
		if err != nil {
			return reflect.Value{}, err
		}
		current = indirect(child)
	}

	if segment.IsCollection() && !current.IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: '%s' is nil", path.ErrNotFound, segment.Name)
	}
	if segment.IsCollection() && (current.Kind() == reflect.Slice || current.Kind() == reflect.Map) && current.IsNil() {
		return reflect.Value{}, fmt.Errorf("%w: '%s' is nil", path.ErrNotFound, segment.Name)
	}

	switch segment.Collection {
	case models.CollectionArray, models.CollectionList:
		if current.Kind() != reflect.Slice && current.Kind() != reflect.Array {
			return reflect.Value{}, fmt.Errorf("%w: '%s' is not a collection", path.ErrInvalidIndexUsage, segment.Name)
		}
		if segment.Index >= 0 {
			if segment.Index >= current.Len() {
				return reflect.Value{}, fmt.Errorf("%w: '%s' has %d elements", path.ErrIndexOutOfBounds, segment.String(), current.Len())
			}
			return lookup(current.Index(segment.Index), rest)
		}
		items := make([]reflect.Value, current.Len())
		for i := range items {
			items[i] = current.Index(i)
		}
		return aggregate(items, rest)
	case models.CollectionMap:
		if current.Kind() != reflect.Map {
			return reflect.Value{}, fmt.Errorf("%w: '%s' is not a map", path.ErrInvalidIndexUsage, segment.Name)
		}
		if segment.HasKey() {
			child, err := valueByName(current, segment.Key)
			if err != nil {
				return reflect.Value{}, err
			}
			return lookup(child, rest)
		}
		if len(rest) == 0 {
			return current, nil
		}
		keys := current.MapKeys()
		items := make([]reflect.Value, len(keys))
		for i, key := range sortedKeys(keys) {
			items[i] = current.MapIndex(key)
		}
		return aggregate(items, rest)
	}

	return lookup(current, rest)
}

func aggregate(items []reflect.Value, rest []path.Segment) (reflect.Value, error) {
	nested := path.New(rest...).HasWildcard()
	values := make([]any, 0, len(items))
	for i, item := range items {
		value, err := lookup(item, rest)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
		}
		normalized := normalize(value)
		if inner, ok := normalized.([]any); ok && nested {
			values = append(values, inner...)
			continue
		}
		values = append(values, normalized)
	}
	return reflect.ValueOf(values), nil
}

func valueByName(v reflect.Value, key string) (reflect.Value, error) {
	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		if sf, ok := t.FieldByName(key); ok && sf.IsExported() {
			return v.FieldByIndex(sf.Index), nil
		}
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			tag, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if strings.EqualFold(field.Name, key) || (tag != "" && tag == key) {
				return v.Field(i), nil
			}
		}
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, ErrNonStringMapKey
		}
		if value := v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key())); value.IsValid() {
			return value, nil
		}
	default:
		return reflect.Value{}, fmt.Errorf("%w: expected a struct or map at '%s', got %s", path.ErrTypeMismatch, key, v.Kind())
	}

	return reflect.Value{}, fmt.Errorf("%w: unable to find the key '%s'", path.ErrNotFound, key)
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func sortedKeys(keys []reflect.Value) []reflect.Value {
	sorted := append([]reflect.Value(nil), keys...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].String() < sorted[j].String()
	})
	return sorted
}

// normalize converts a reflected value into the representation the engine uses for field values.
// Unsigned integers become int64, slices become []any and string keyed maps become map[string]any.
// Structs are kept as is and typed as COMPLEX.
func normalize(v reflect.Value) any {
	v = indirect(v)
	if !v.IsValid() {
		return nil
	}
	if t, ok := v.Interface().(time.Time); ok {
		return t
	}

	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int32:
		// int32 values are numbers; a CHAR field converts them to characters
		return int(v.Int())
	case reflect.Int8:
		return int8(v.Int())
	case reflect.Int16:
		return int16(v.Int())
	case reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := v.Uint()
		if u > math.MaxInt64 {
			return float64(u)
		}
		return int64(u)
	case reflect.Float32:
		return float32(v.Float())
	case reflect.Float64:
		return v.Float()
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return nil
		}
		items := make([]any, v.Len())
		for i := range items {
			items[i] = normalize(v.Index(i))
		}
		return items
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return v.Interface()
		}
		entries := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			entries[iter.Key().String()] = normalize(iter.Value())
		}
		return entries
	}
	return v.Interface()
}
