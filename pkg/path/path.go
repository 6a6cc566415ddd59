// Package path parses and renders field paths.
//
// # Syntax
//
// A path is a list of segments separated by "/". Each segment is an element name optionally
// followed by a collection index:
//
//	/order/id              plain elements
//	/order/lines[2]/sku    array element 2
//	/order/notes<0>        list element 0
//	/order/attrs{color}    map entry "color"
//	/order/lines[]/sku     every element of the array (wildcard)
//
// A segment may have an empty name when the current node itself is the collection, so
// "/[0]/id" addresses the first element of a top-level array.
package path

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Ramsey-B/fern/pkg/models"
)

const (
	Separator = "/"

	ArrayOpenChar  = '['
	ArrayCloseChar = ']'
	ListOpenChar   = '<'
	ListCloseChar  = '>'
	MapOpenChar    = '{'
	MapCloseChar   = '}'
)

var (
	ErrMalformedIndex    = errors.New("malformed index key")
	ErrInvalidIndexUsage = errors.New("invalid index key usage")
	ErrIndexOutOfBounds  = errors.New("index out of bounds")
	ErrEmptySegment      = errors.New("empty path segment")
	ErrNotFound          = errors.New("path not found")
	ErrTypeMismatch      = errors.New("unexpected node type")
)

// Segment is one element of a path.
type Segment struct {
	Name       string
	Collection models.CollectionType
	// Index is the array/list position, -1 when unset.
	Index int
	Key   string
	// keyed is true for a map segment with an explicit key.
	keyed bool
}

// NewSegment returns a segment without collection index.
func NewSegment(name string) Segment {
	return Segment{Name: name, Collection: models.CollectionNone, Index: -1}
}

// IndexedSegment returns an array or list segment. index -1 selects every element.
func IndexedSegment(name string, collection models.CollectionType, index int) Segment {
	return Segment{Name: name, Collection: collection, Index: index}
}

// KeyedSegment returns a map segment with an explicit key.
func KeyedSegment(name, key string) Segment {
	return Segment{Name: name, Collection: models.CollectionMap, Index: -1, Key: key, keyed: true}
}

func (s Segment) IsCollection() bool {
	return s.Collection.IsCollection()
}

// IsWildcard reports whether the segment selects every element of its collection.
func (s Segment) IsWildcard() bool {
	if s.Collection == models.CollectionMap {
		return !s.keyed
	}
	return s.IsCollection() && s.Index < 0
}

func (s Segment) HasKey() bool {
	return s.keyed
}

func (s Segment) String() string {
	switch s.Collection {
	case models.CollectionArray:
		return s.Name + string(ArrayOpenChar) + indexString(s.Index) + string(ArrayCloseChar)
	case models.CollectionList:
		return s.Name + string(ListOpenChar) + indexString(s.Index) + string(ListCloseChar)
	case models.CollectionMap:
		return s.Name + string(MapOpenChar) + s.Key + string(MapCloseChar)
	}
	return s.Name
}

func indexString(index int) string {
	if index < 0 {
		return ""
	}
	return strconv.Itoa(index)
}

// Path is an immutable, parsed field path.
type Path struct {
	segments []Segment
}

// New builds a path from segments.
func New(segments ...Segment) Path {
	return Path{segments: append([]Segment(nil), segments...)}
}

// Parse parses a path expression. The leading separator is optional.
func Parse(expr string) (Path, error) {
	expr = strings.TrimSpace(expr)
	expr = strings.TrimPrefix(expr, Separator)
	if expr == "" {
		return Path{}, nil
	}

	parts := strings.Split(expr, Separator)
	segments := make([]Segment, 0, len(parts))
	for i, part := range parts {
		// a single trailing separator is tolerated
		if part == "" && i == len(parts)-1 && i > 0 {
			break
		}
		segment, err := parseSegment(part)
		if err != nil {
			return Path{}, fmt.Errorf("segment %d of '%s': %w", i, expr, err)
		}
		segments = append(segments, segment)
	}

	return Path{segments: segments}, nil
}

// MustParse is like Parse but panics on malformed expressions. Use it for literals only.
func MustParse(expr string) Path {
	p, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return p
}

func parseSegment(s string) (Segment, error) {
	if s == "" {
		return Segment{}, ErrEmptySegment
	}

	start := strings.IndexAny(s, "[<{")
	if start == -1 {
		if strings.ContainsAny(s, "]>}") {
			return Segment{}, ErrMalformedIndex
		}
		return NewSegment(s), nil
	}

	name := s[:start]
	open := s[start]
	var closeChar byte
	var collection models.CollectionType
	switch open {
	case ArrayOpenChar:
		closeChar, collection = ArrayCloseChar, models.CollectionArray
	case ListOpenChar:
		closeChar, collection = ListCloseChar, models.CollectionList
	default:
		closeChar, collection = MapCloseChar, models.CollectionMap
	}

	// the index must close the segment
	if s[len(s)-1] != closeChar || len(s)-start < 2 {
		return Segment{}, ErrMalformedIndex
	}
	inner := s[start+1 : len(s)-1]
	if strings.ContainsAny(inner, "[]<>{}") {
		return Segment{}, ErrMalformedIndex
	}

	if collection == models.CollectionMap {
		if inner == "" {
			return Segment{Name: name, Collection: collection, Index: -1}, nil
		}
		return KeyedSegment(name, inner), nil
	}

	// "*" is accepted as a wildcard alongside the empty index
	if inner == "" || inner == "*" {
		return IndexedSegment(name, collection, -1), nil
	}

	index, err := strconv.Atoi(inner)
	if err != nil || index < 0 {
		return Segment{}, ErrMalformedIndex
	}

	return IndexedSegment(name, collection, index), nil
}

func (p Path) String() string {
	if len(p.segments) == 0 {
		return Separator
	}

	parts := make([]string, len(p.segments))
	for i, segment := range p.segments {
		parts[i] = segment.String()
	}
	return Separator + strings.Join(parts, Separator)
}

// Segments returns a copy of the path segments.
func (p Path) Segments() []Segment {
	return append([]Segment(nil), p.segments...)
}

func (p Path) Len() int {
	return len(p.segments)
}

func (p Path) IsRoot() bool {
	return len(p.segments) == 0
}

// Last returns the final segment.
func (p Path) Last() (Segment, bool) {
	if len(p.segments) == 0 {
		return Segment{}, false
	}
	return p.segments[len(p.segments)-1], true
}

// FieldName returns the name of the final segment, or "" for the root.
func (p Path) FieldName() string {
	last, _ := p.Last()
	return last.Name
}

// Parent returns the path without its final segment. The parent of the root is the root.
func (p Path) Parent() Path {
	if len(p.segments) == 0 {
		return p
	}
	return New(p.segments[:len(p.segments)-1]...)
}

func (p Path) Append(segments ...Segment) Path {
	return New(append(p.Segments(), segments...)...)
}

// HasWildcard reports whether any segment selects every element of a collection.
func (p Path) HasWildcard() bool {
	return p.WildcardCount() > 0
}

func (p Path) WildcardCount() int {
	count := 0
	for _, segment := range p.segments {
		if segment.IsWildcard() {
			count++
		}
	}
	return count
}

// Collection returns the collection shape of the first wildcard segment, or NONE.
func (p Path) Collection() models.CollectionType {
	for _, segment := range p.segments {
		if segment.IsWildcard() {
			return segment.Collection
		}
	}
	return models.CollectionNone
}

// WithIndex fills the first wildcard array or list segment with index.
func (p Path) WithIndex(index int) (Path, error) {
	segments := p.Segments()
	for i, segment := range segments {
		if !segment.IsWildcard() {
			continue
		}
		if segment.Collection == models.CollectionMap {
			return Path{}, fmt.Errorf("%w: map segment '%s' needs a key", ErrInvalidIndexUsage, segment.Name)
		}
		segments[i].Index = index
		return Path{segments: segments}, nil
	}
	return Path{}, fmt.Errorf("%w: '%s' has no wildcard", ErrInvalidIndexUsage, p.String())
}

// WithKey fills the first wildcard map segment with key.
func (p Path) WithKey(key string) (Path, error) {
	segments := p.Segments()
	for i, segment := range segments {
		if !segment.IsWildcard() {
			continue
		}
		if segment.Collection != models.CollectionMap {
			return Path{}, fmt.Errorf("%w: '%s' is not a map segment", ErrInvalidIndexUsage, segment.Name)
		}
		segments[i] = KeyedSegment(segment.Name, key)
		return Path{segments: segments}, nil
	}
	return Path{}, fmt.Errorf("%w: '%s' has no wildcard", ErrInvalidIndexUsage, p.String())
}
