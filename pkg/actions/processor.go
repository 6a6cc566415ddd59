package actions

import (
	"fmt"

	"github.com/Ramsey-B/fern/pkg/actions/registry"
	"github.com/Ramsey-B/fern/pkg/conversion"
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
)

// Value is a value in transit together with its signature.
// Pattern is the date/time layout of string values, if known.
type Value struct {
	Value     any
	Signature models.Signature
	Format    string
	Pattern   string
}

// LossyConversion describes a conversion that dropped information while adapting a value.
type LossyConversion struct {
	Action string
	From   models.FieldType
	To     models.FieldType
	Value  any
	Index  *int
}

func (l LossyConversion) String() string {
	msg := fmt.Sprintf("lossy conversion of %v from %s to %s", l.Value, l.From, l.To)
	if l.Action != "" {
		msg += fmt.Sprintf(" for action '%s'", l.Action)
	}
	if l.Index != nil {
		msg += fmt.Sprintf(" at item %d", *l.Index)
	}
	return msg
}

// Result is the output of a chain.
type Result struct {
	Value
	Lossy []LossyConversion
}

// Processor applies ordered action chains.
type Processor struct {
	registry    *registry.Registry
	conversions *conversion.Service
}

func NewProcessor(reg *registry.Registry, conversions *conversion.Service) *Processor {
	return &Processor{
		registry:    reg,
		conversions: conversions,
	}
}

func (p *Processor) Registry() *registry.Registry {
	return p.registry
}

func (p *Processor) Conversions() *conversion.Service {
	return p.conversions
}

// Apply runs definitions left to right. Every action consumes the output of the previous one,
// adapted to its declared input type by the conversion service.
//
// Actions with a scalar input run once per element of a collection value. Actions with a
// collection input receive the whole collection; a scalar is handed to them as a one element list.
// A nil value skips every action except those accepting ANY.
func (p *Processor) Apply(definitions []models.ActionDefinition, input Value) (Result, error) {
	result := Result{Value: input}
	for _, definition := range definitions {
		descriptor, action, err := p.registry.Resolve(definition)
		if err != nil {
			return result, err
		}

		next, lossy, err := p.execute(descriptor, action, result.Value)
		result.Lossy = append(result.Lossy, lossy...)
		if err != nil {
			return result, err
		}
		result.Value = next
	}
	return result, nil
}

// Convert adapts a value to signature, element by element for collections.
func (p *Processor) Convert(value Value, target models.Signature) (Value, []LossyConversion, error) {
	return p.adapt("", value, target, "")
}

// ConvertFor is Convert for a value written to a document of targetFormat, so converters
// registered for that format take part.
func (p *Processor) ConvertFor(value Value, target models.Signature, targetFormat string) (Value, []LossyConversion, error) {
	return p.adapt("", value, target, targetFormat)
}

func (p *Processor) execute(descriptor registry.Descriptor, action models.Action, in Value) (Value, []LossyConversion, error) {
	out := Value{Signature: descriptor.Output, Format: in.Format}

	if in.Value == nil && descriptor.Input.Type != models.FieldTypeAny {
		return out, nil, nil
	}

	if descriptor.Input.IsCollection() || !isCollectionValue(in.Value) {
		adapted, lossy, err := p.adapt(descriptor.Name, in, descriptor.Input, "")
		if err != nil {
			return out, lossy, errors.WrapMappingError(err).AddAction(descriptor.Name)
		}
		value, err := invoke(action, adapted.Value)
		if err != nil {
			return out, lossy, errors.WrapMappingError(err).AddAction(descriptor.Name)
		}
		out.Value = value
		out.Signature = inferOutput(descriptor.Output, value)
		return out, lossy, nil
	}

	// scalar action over a collection: once per element
	items := elements(in.Value)
	results := make([]any, len(items))
	lossy := []LossyConversion{}
	elementIn := Value{Signature: models.Signature{Type: in.Signature.Type, Collection: models.CollectionNone}, Format: in.Format, Pattern: in.Pattern}
	for i, item := range items {
		if item == nil && descriptor.Input.Type != models.FieldTypeAny {
			continue
		}
		elementIn.Value = item
		adapted, itemLossy, err := p.adapt(descriptor.Name, elementIn, descriptor.Input, "")
		for _, l := range itemLossy {
			index := i
			l.Index = &index
			lossy = append(lossy, l)
		}
		if err != nil {
			return out, lossy, errors.WrapMappingError(err).AddAction(descriptor.Name).AddItemIndex(i)
		}
		value, err := invoke(action, adapted.Value)
		if err != nil {
			return out, lossy, errors.WrapMappingError(err).AddAction(descriptor.Name).AddItemIndex(i)
		}
		results[i] = value
	}

	out.Value = results
	out.Signature = models.Signature{Type: inferOutput(descriptor.Output, firstNonNil(results)).Type, Collection: models.CollectionList}
	return out, lossy, nil
}

// adapt converts value to target, element by element when target is a collection.
func (p *Processor) adapt(actionName string, value Value, target models.Signature, targetFormat string) (Value, []LossyConversion, error) {
	if !target.IsCollection() {
		converted, lossy, err := p.convertOne(actionName, value.Value, value.Signature.Type, target.Type, value, targetFormat)
		if err != nil {
			return value, nil, err
		}
		var reports []LossyConversion
		if lossy != nil {
			reports = append(reports, *lossy)
		}
		return Value{Value: converted, Signature: target, Format: value.Format}, reports, nil
	}

	items := elements(value.Value)

	converted := make([]any, len(items))
	reports := []LossyConversion{}
	for i, item := range items {
		c, lossy, err := p.convertOne(actionName, item, value.Signature.Type, target.Type, value, targetFormat)
		if err != nil {
			return value, reports, errors.WrapMappingError(err).AddItemIndex(i)
		}
		if lossy != nil {
			index := i
			lossy.Index = &index
			reports = append(reports, *lossy)
		}
		converted[i] = c
	}
	return Value{Value: converted, Signature: target, Format: value.Format}, reports, nil
}

func (p *Processor) convertOne(actionName string, value any, source, target models.FieldType, context Value, targetFormat string) (any, *LossyConversion, error) {
	if value == nil {
		return nil, nil, nil
	}

	// trust the runtime representation over a stale declared type
	if source == "" || source == models.FieldTypeAny || !models.IsType(value, source) {
		source = models.TypeOf(value)
	}

	result, err := p.conversions.Convert(conversion.Request{
		Value:        value,
		SourceType:   source,
		TargetType:   target,
		SourceFormat: context.Format,
		TargetFormat: targetFormat,
		Pattern:      context.Pattern,
	})
	if err != nil {
		return nil, nil, err
	}
	if result.Lossy {
		return result.Value, &LossyConversion{Action: actionName, From: source, To: target, Value: value}, nil
	}
	return result.Value, nil, nil
}

func invoke(action models.Action, input any) (output any, err error) {
	defer func() {
		if r := recover(); r != nil {
			output = nil
			err = errors.NewMappingError(fmt.Sprintf("action panicked: %v", r))
		}
	}()

	return action.Execute(input)
}

func inferOutput(declared models.Signature, value any) models.Signature {
	if declared.Type != models.FieldTypeAny || value == nil {
		return declared
	}
	return models.SignatureOf(value)
}

func isCollectionValue(value any) bool {
	_, ok := value.([]any)
	return ok
}

// elements returns the items of a list, or value as a one element list.
func elements(value any) []any {
	if items, ok := value.([]any); ok {
		return items
	}
	return []any{value}
}

func firstNonNil(items []any) any {
	for _, item := range items {
		if item != nil {
			return item
		}
	}
	return nil
}
