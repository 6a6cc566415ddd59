package path

import (
	"fmt"
	"sort"

	"github.com/Ramsey-B/fern/pkg/models"
)

// Get resolves p against a document tree made of map[string]any and []any nodes.
//
// Wildcard segments aggregate every element into a []any. Nested wildcards are flattened
// into one slice, so "/orders[]/lines[]/sku" returns every sku of every order.
func Get(document any, p Path) (any, error) {
	value, err := getNode(document, p.segments)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", p.String(), err)
	}
	return value, nil
}

func getNode(node any, segments []Segment) (any, error) {
	if len(segments) == 0 {
		return node, nil
	}

	segment := segments[0]
	rest := segments[1:]
	current := node
	if segment.Name != "" {
		object, ok := node.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: expected an object at '%s', got %T", ErrTypeMismatch, segment.Name, node)
		}
		child, exists := object[segment.Name]
		if !exists {
			return nil, fmt.Errorf("%w: unable to find the key '%s'", ErrNotFound, segment.Name)
		}
		current = child
	}

	switch segment.Collection {
	case models.CollectionArray, models.CollectionList:
		items, ok := current.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: '%s' is not a collection", ErrInvalidIndexUsage, segment.Name)
		}
		if segment.Index >= 0 {
			if segment.Index >= len(items) {
				return nil, fmt.Errorf("%w: '%s' has %d elements", ErrIndexOutOfBounds, segment.String(), len(items))
			}
			return getNode(items[segment.Index], rest)
		}
		return aggregate(items, rest)
	case models.CollectionMap:
		entries, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: '%s' is not a map", ErrInvalidIndexUsage, segment.Name)
		}
		if segment.HasKey() {
			child, exists := entries[segment.Key]
			if !exists {
				return nil, fmt.Errorf("%w: unable to find the key '%s'", ErrNotFound, segment.Key)
			}
			return getNode(child, rest)
		}
		if len(rest) == 0 {
			return entries, nil
		}
		keys := make([]string, 0, len(entries))
		for key := range entries {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		items := make([]any, len(keys))
		for i, key := range keys {
			items[i] = entries[key]
		}
		return aggregate(items, rest)
	}

	return getNode(current, rest)
}

func aggregate(items []any, rest []Segment) (any, error) {
	nested := New(rest...).HasWildcard()
	values := make([]any, 0, len(items))
	for i, item := range items {
		value, err := getNode(item, rest)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		if inner, ok := value.([]any); ok && nested {
			values = append(values, inner...)
			continue
		}
		values = append(values, value)
	}
	return values, nil
}

// Set writes value at p, creating intermediate objects and collections, and returns the
// possibly replaced root. A wildcard path expects a []any (or a map[string]any for a map
// wildcard) and writes element i to position i.
func Set(document any, p Path, value any) (any, error) {
	if p.HasWildcard() {
		return setWildcard(document, p, value)
	}

	root, err := setNode(document, p.segments, value)
	if err != nil {
		return document, fmt.Errorf("'%s': %w", p.String(), err)
	}
	return root, nil
}

func setWildcard(document any, p Path, value any) (any, error) {
	if p.Collection() == models.CollectionMap {
		entries, ok := value.(map[string]any)
		if !ok {
			return document, fmt.Errorf("'%s': %w: expected a map value, got %T", p.String(), ErrInvalidIndexUsage, value)
		}
		keys := make([]string, 0, len(entries))
		for key := range entries {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			keyed, err := p.WithKey(key)
			if err != nil {
				return document, err
			}
			if document, err = Set(document, keyed, entries[key]); err != nil {
				return document, err
			}
		}
		return document, nil
	}

	items, ok := value.([]any)
	if !ok {
		return document, fmt.Errorf("'%s': %w: expected a collection value, got %T", p.String(), ErrInvalidIndexUsage, value)
	}
	for i, item := range items {
		indexed, err := p.WithIndex(i)
		if err != nil {
			return document, err
		}
		if document, err = Set(document, indexed, item); err != nil {
			return document, err
		}
	}
	return document, nil
}

func setNode(node any, segments []Segment, value any) (any, error) {
	if len(segments) == 0 {
		return value, nil
	}

	segment := segments[0]
	if segment.Name == "" {
		return setIndexed(node, segment, segments[1:], value)
	}

	object, ok := node.(map[string]any)
	if node == nil {
		object, ok = map[string]any{}, true
	}
	if !ok {
		return nil, fmt.Errorf("%w: expected an object at '%s', got %T", ErrTypeMismatch, segment.Name, node)
	}

	child, err := setIndexed(object[segment.Name], segment, segments[1:], value)
	if err != nil {
		return nil, err
	}
	object[segment.Name] = child
	return object, nil
}

func setIndexed(node any, segment Segment, rest []Segment, value any) (any, error) {
	switch segment.Collection {
	case models.CollectionArray, models.CollectionList:
		items, ok := node.([]any)
		if node == nil {
			ok = true
		}
		if !ok {
			return nil, fmt.Errorf("%w: '%s' is not a collection", ErrInvalidIndexUsage, segment.Name)
		}
		if segment.Index < 0 {
			return nil, fmt.Errorf("%w: '%s' has no index", ErrInvalidIndexUsage, segment.String())
		}
		for len(items) <= segment.Index {
			items = append(items, nil)
		}
		child, err := setNode(items[segment.Index], rest, value)
		if err != nil {
			return nil, err
		}
		items[segment.Index] = child
		return items, nil
	case models.CollectionMap:
		entries, ok := node.(map[string]any)
		if node == nil {
			entries, ok = map[string]any{}, true
		}
		if !ok {
			return nil, fmt.Errorf("%w: '%s' is not a map", ErrInvalidIndexUsage, segment.Name)
		}
		if !segment.HasKey() {
			return nil, fmt.Errorf("%w: '%s' has no key", ErrInvalidIndexUsage, segment.String())
		}
		child, err := setNode(entries[segment.Key], rest, value)
		if err != nil {
			return nil, err
		}
		entries[segment.Key] = child
		return entries, nil
	}

	return setNode(node, rest, value)
}
