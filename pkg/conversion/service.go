// Package conversion coerces values between field types.
//
// A Service is an immutable snapshot of the conversion matrix. Build one with NewBuilder or
// Default, pass it to every session that needs it, and publish a new snapshot (With) to add
// converters later. Lookups never take locks.
//
// Resolution order for Convert:
//  1. identical source and target types return the value unchanged
//  2. the most concrete registered entry for the type pair; entries qualified with the
//     source or target document format win over generic ones
//  3. a numeric cast when both types are numeric, truncating and flagging lossy results
//  4. otherwise ErrUnsupportedConversion
package conversion

import (
	"fmt"
	"sort"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
)

// Request describes one conversion.
type Request struct {
	Value        any
	SourceType   models.FieldType
	TargetType   models.FieldType
	SourceFormat string
	TargetFormat string
	// Pattern is the date/time layout of the string side, if any.
	Pattern string
}

// Result is a converted value. Lossy is set when information was dropped (truncation, overflow).
type Result struct {
	Value any
	Lossy bool
}

// Converter converts req.Value. Converters must be pure and must not panic.
type Converter func(req Request) (Result, error)

// Entry registers a converter for a type pair, optionally restricted to document formats.
type Entry struct {
	Name         string
	Source       models.FieldType
	Target       models.FieldType
	SourceFormat string
	TargetFormat string
	Converter    Converter
}

// Concreteness scores how specific an entry is. Higher scores win.
func (e Entry) Concreteness() int {
	score := 0
	if e.SourceFormat != "" {
		score++
	}
	if e.TargetFormat != "" {
		score++
	}
	return score
}

func (e Entry) matches(req Request) bool {
	return (e.SourceFormat == "" || e.SourceFormat == req.SourceFormat) &&
		(e.TargetFormat == "" || e.TargetFormat == req.TargetFormat)
}

type pair struct {
	source models.FieldType
	target models.FieldType
}

// Service is an immutable conversion matrix.
type Service struct {
	entries map[pair][]Entry
}

// Builder collects entries for a new Service.
type Builder struct {
	entries []Entry
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Register adds entries. An entry with the same type pair and formats as an earlier one replaces it.
func (b *Builder) Register(entries ...Entry) *Builder {
	b.entries = append(b.entries, entries...)
	return b
}

// Build returns the immutable snapshot.
func (b *Builder) Build() *Service {
	service := &Service{entries: map[pair][]Entry{}}
	for _, entry := range b.entries {
		service.add(entry)
	}
	for key := range service.entries {
		candidates := service.entries[key]
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Concreteness() > candidates[j].Concreteness()
		})
	}
	return service
}

func (s *Service) add(entry Entry) {
	key := pair{source: entry.Source, target: entry.Target}
	candidates := s.entries[key]
	for i, existing := range candidates {
		if existing.SourceFormat == entry.SourceFormat && existing.TargetFormat == entry.TargetFormat {
			candidates[i] = entry
			return
		}
	}
	s.entries[key] = append(candidates, entry)
}

// Default returns a Service holding the built-in converters.
func Default() *Service {
	return NewBuilder().Register(builtins()...).Build()
}

// With returns a new snapshot holding the entries of s plus entries.
func (s *Service) With(entries ...Entry) *Service {
	builder := NewBuilder().Register(s.Entries()...)
	return builder.Register(entries...).Build()
}

// Entries returns every registered entry.
func (s *Service) Entries() []Entry {
	keys := make([]pair, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].source != keys[j].source {
			return keys[i].source < keys[j].source
		}
		return keys[i].target < keys[j].target
	})

	entries := []Entry{}
	for _, key := range keys {
		entries = append(entries, s.entries[key]...)
	}
	return entries
}

// Lookup returns the most concrete entry that applies to req.
func (s *Service) Lookup(req Request) (Entry, bool) {
	for _, entry := range s.entries[pair{source: req.SourceType, target: req.TargetType}] {
		if entry.matches(req) {
			return entry, true
		}
	}
	return Entry{}, false
}

// Convert converts req.Value from req.SourceType to req.TargetType.
func (s *Service) Convert(req Request) (Result, error) {
	if req.Value == nil {
		return Result{}, nil
	}

	// an untyped source takes the type of its value
	if req.SourceType == "" || req.SourceType == models.FieldTypeAny {
		req.SourceType = models.TypeOf(req.Value)
	}

	if req.SourceType == req.TargetType || req.TargetType == "" || req.TargetType == models.FieldTypeAny {
		return Result{Value: req.Value}, nil
	}

	if entry, ok := s.Lookup(req); ok {
		return invoke(entry, req)
	}

	if req.SourceType.IsNumeric() && req.TargetType.IsNumeric() {
		return CastNumeric(req.Value, req.TargetType)
	}

	return Result{}, errors.NewConversionError(req.Value, string(req.SourceType), string(req.TargetType), errors.ErrUnsupportedConversion)
}

// ConvertValue is Convert without format qualifiers or pattern.
func (s *Service) ConvertValue(value any, sourceType, targetType models.FieldType) (Result, error) {
	return s.Convert(Request{Value: value, SourceType: sourceType, TargetType: targetType})
}

// CanConvert reports whether some conversion path exists between the two types.
func (s *Service) CanConvert(sourceType, targetType models.FieldType) bool {
	if sourceType == targetType || sourceType == models.FieldTypeAny || targetType == models.FieldTypeAny {
		return true
	}
	if len(s.entries[pair{source: sourceType, target: targetType}]) > 0 {
		return true
	}
	return sourceType.IsNumeric() && targetType.IsNumeric()
}

func invoke(entry Entry, req Request) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{}
			err = errors.NewConversionError(req.Value, string(req.SourceType), string(req.TargetType), fmt.Errorf("converter %s panicked: %v", entry.Name, r))
		}
	}()

	result, err = entry.Converter(req)
	if err != nil {
		return Result{}, errors.NewConversionError(req.Value, string(req.SourceType), string(req.TargetType), err)
	}
	return result, nil
}
