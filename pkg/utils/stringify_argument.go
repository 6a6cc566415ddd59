package utils

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// StringifyArgument renders action arguments as "key=value" pairs for messages.
// Map keys are sorted; struct fields use their json names. Empty arguments render as "".
func StringifyArgument(argument any) string {
	if argument == nil {
		return ""
	}

	v := reflect.ValueOf(argument)
	if !v.IsValid() || v.IsZero() {
		return ""
	}

	if argumentMap, ok := argument.(map[string]any); ok {
		keys := make([]string, 0, len(argumentMap))
		for key := range argumentMap {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		parts := make([]string, len(keys))
		for i, key := range keys {
			parts[i] = fmt.Sprintf("%s=%v", key, argumentMap[key])
		}
		return strings.Join(parts, ",")
	}

	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return fmt.Sprintf("%v", argument)
	}

	t := v.Type()
	parts := []string{}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			name = field.Name
		}
		parts = append(parts, fmt.Sprintf("%s=%v", name, v.Field(i).Interface()))
	}
	return strings.Join(parts, ",")
}
