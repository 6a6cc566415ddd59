package models

import (
	"fmt"
	"reflect"
	"time"
)

// FieldType is the declared primitive type of a field or of an action's input/output.
type FieldType string

const (
	FieldTypeString      FieldType = "STRING"
	FieldTypeBoolean     FieldType = "BOOLEAN"
	FieldTypeByte        FieldType = "BYTE"
	FieldTypeChar        FieldType = "CHAR"
	FieldTypeDouble      FieldType = "DOUBLE"
	FieldTypeFloat       FieldType = "FLOAT"
	FieldTypeInteger     FieldType = "INTEGER"
	FieldTypeLong        FieldType = "LONG"
	FieldTypeShort       FieldType = "SHORT"
	FieldTypeDate        FieldType = "DATE"
	FieldTypeTime        FieldType = "TIME"
	FieldTypeDateTime    FieldType = "DATE_TIME"
	FieldTypeDateTimeTZ  FieldType = "DATE_TIME_TZ"
	FieldTypeComplex     FieldType = "COMPLEX"
	FieldTypeUnsupported FieldType = "UNSUPPORTED"

	// FieldTypeAny only appears in action signatures; it accepts every value as is.
	FieldTypeAny FieldType = "ANY"
)

// FieldTypes lists every declarable field type.
var FieldTypes = []FieldType{
	FieldTypeString, FieldTypeBoolean, FieldTypeByte, FieldTypeChar, FieldTypeDouble, FieldTypeFloat,
	FieldTypeInteger, FieldTypeLong, FieldTypeShort, FieldTypeDate, FieldTypeTime, FieldTypeDateTime,
	FieldTypeDateTimeTZ, FieldTypeComplex, FieldTypeUnsupported,
}

func (t FieldType) IsNumeric() bool {
	switch t {
	case FieldTypeByte, FieldTypeShort, FieldTypeInteger, FieldTypeLong, FieldTypeFloat, FieldTypeDouble:
		return true
	}
	return false
}

func (t FieldType) IsIntegral() bool {
	switch t {
	case FieldTypeByte, FieldTypeShort, FieldTypeInteger, FieldTypeLong:
		return true
	}
	return false
}

func (t FieldType) IsDateTime() bool {
	switch t {
	case FieldTypeDate, FieldTypeTime, FieldTypeDateTime, FieldTypeDateTimeTZ:
		return true
	}
	return false
}

// IsPrimitive reports whether t is a scalar type that the conversion service handles.
func (t FieldType) IsPrimitive() bool {
	return t == FieldTypeString || t == FieldTypeBoolean || t == FieldTypeChar || t.IsNumeric() || t.IsDateTime()
}

func (t FieldType) IsValid() bool {
	if t == FieldTypeAny {
		return true
	}
	for _, ft := range FieldTypes {
		if ft == t {
			return true
		}
	}
	return false
}

// CollectionType is the collection shape of a field value.
type CollectionType string

const (
	CollectionNone  CollectionType = "NONE"
	CollectionArray CollectionType = "ARRAY"
	CollectionList  CollectionType = "LIST"
	CollectionMap   CollectionType = "MAP"
)

// IsCollection reports whether c holds more than a single value. The empty value means NONE.
func (c CollectionType) IsCollection() bool {
	return c == CollectionArray || c == CollectionList || c == CollectionMap
}

func (c CollectionType) IsValid() bool {
	switch c {
	case "", CollectionNone, CollectionArray, CollectionList, CollectionMap:
		return true
	}
	return false
}

// Signature is the type and collection shape an action accepts or produces.
type Signature struct {
	Type       FieldType      `json:"type" yaml:"type"`
	Collection CollectionType `json:"collection,omitempty" yaml:"collection,omitempty"`
}

func (s Signature) IsCollection() bool {
	return s.Collection.IsCollection()
}

func (s Signature) String() string {
	if s.IsCollection() {
		return fmt.Sprintf("%s[%s]", s.Collection, s.Type)
	}
	return string(s.Type)
}

// IsType reports whether a single (non-collection) value is a valid Go representation of t.
func IsType(value any, t FieldType) bool {
	switch t {
	case FieldTypeAny:
		return true
	case FieldTypeString:
		_, ok := value.(string)
		return ok
	case FieldTypeBoolean:
		_, ok := value.(bool)
		return ok
	case FieldTypeByte:
		_, ok := value.(int8)
		return ok
	case FieldTypeChar:
		_, ok := value.(rune)
		return ok
	case FieldTypeShort:
		_, ok := value.(int16)
		return ok
	case FieldTypeInteger:
		_, ok := value.(int)
		return ok
	case FieldTypeLong:
		_, ok := value.(int64)
		return ok
	case FieldTypeFloat:
		_, ok := value.(float32)
		return ok
	case FieldTypeDouble:
		_, ok := value.(float64)
		return ok
	case FieldTypeDate, FieldTypeTime, FieldTypeDateTime, FieldTypeDateTimeTZ:
		_, ok := value.(time.Time)
		return ok
	case FieldTypeComplex:
		if _, ok := value.(map[string]any); ok {
			return true
		}
		rv := reflect.ValueOf(value)
		for rv.Kind() == reflect.Ptr && !rv.IsNil() {
			rv = rv.Elem()
		}
		if rv.Kind() == reflect.Struct {
			_, isTime := rv.Interface().(time.Time)
			return !isTime
		}
		return rv.Kind() == reflect.Map
	}
	return false
}

// IsAssignable reports whether value can be stored in a field of type t with collection shape c.
// A nil value is always assignable.
func IsAssignable(value any, t FieldType, c CollectionType) bool {
	if value == nil {
		return true
	}

	switch c {
	case CollectionArray, CollectionList:
		items, ok := value.([]any)
		if !ok {
			return false
		}
		for _, item := range items {
			if item != nil && !IsType(item, t) {
				return false
			}
		}
		return true
	case CollectionMap:
		entries, ok := value.(map[string]any)
		if !ok {
			return false
		}
		for _, entry := range entries {
			if entry != nil && !IsType(entry, t) {
				return false
			}
		}
		return true
	}

	return IsType(value, t)
}

// TypeOf infers the field type of a single value. Values without a canonical representation are UNSUPPORTED.
func TypeOf(value any) FieldType {
	switch value.(type) {
	case nil:
		return FieldTypeAny
	case string:
		return FieldTypeString
	case bool:
		return FieldTypeBoolean
	case int8:
		return FieldTypeByte
	case rune:
		return FieldTypeChar
	case int16:
		return FieldTypeShort
	case int:
		return FieldTypeInteger
	case int64:
		return FieldTypeLong
	case float32:
		return FieldTypeFloat
	case float64:
		return FieldTypeDouble
	case time.Time:
		return FieldTypeDateTime
	}

	if IsType(value, FieldTypeComplex) {
		return FieldTypeComplex
	}

	return FieldTypeUnsupported
}

// SignatureOf infers the signature of a value, looking at the first non-nil element of collections.
func SignatureOf(value any) Signature {
	switch v := value.(type) {
	case []any:
		for _, item := range v {
			if item != nil {
				return Signature{Type: TypeOf(item), Collection: CollectionList}
			}
		}
		return Signature{Type: FieldTypeAny, Collection: CollectionList}
	case map[string]any:
		return Signature{Type: FieldTypeComplex, Collection: CollectionNone}
	}

	return Signature{Type: TypeOf(value), Collection: CollectionNone}
}

// GetDefault returns the zero value used for t when a field has no value.
func GetDefault(t FieldType) any {
	switch t {
	case FieldTypeString:
		return ""
	case FieldTypeBoolean:
		return false
	case FieldTypeByte:
		return int8(0)
	case FieldTypeChar:
		return rune(0)
	case FieldTypeShort:
		return int16(0)
	case FieldTypeInteger:
		return 0
	case FieldTypeLong:
		return int64(0)
	case FieldTypeFloat:
		return float32(0)
	case FieldTypeDouble:
		return 0.0
	case FieldTypeDate, FieldTypeTime, FieldTypeDateTime, FieldTypeDateTimeTZ:
		return time.Time{}
	case FieldTypeComplex:
		return map[string]any{}
	}

	return nil
}
