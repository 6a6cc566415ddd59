package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/Ramsey-B/fern/pkg/actions"
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/validation"
)

// mappingState carries one mapping from the input phases to the output phases.
type mappingState struct {
	position int
	id       string
	mapping  *models.Mapping
	value    actions.Value
	failed   bool
	written  map[*models.Field]bool
}

// Process runs every phase against session and mutates it in place: target documents are
// written, audits and validations are appended.
//
// A failing mapping is audited and the next mapping runs. Only a failing lifecycle callback
// stops processing; it is returned as a *errors.FatalPipelineError. Errors in pre-validation
// skip execution without returning an error. The context is used for tracing and logging only.
func (c *Context) Process(ctx context.Context, session *Session) (err error) {
	if err := c.owns(session); err != nil {
		return err
	}
	if session.processed {
		return errors.NewFatalPipelineError(PhasePreValidation.String(), "engine", fmt.Errorf("session %s has already been processed, create a new session", session.id))
	}
	session.processed = true

	ctx, span := tracing.StartSpan(ctx, "engine.Process", c.spanAttributes(session)...)
	defer func() { tracing.EndSpan(span, err) }()
	start := time.Now()

	if err := c.preValidate(ctx, session); err != nil {
		return err
	}
	blocking := session.validations.Count(models.StatusError)
	if c.strict {
		blocking += session.validations.Count(models.StatusWarn)
	}
	if blocking > 0 {
		session.phase = PhasePreValidation
		session.addAudit(models.Audit{Status: models.StatusError, Message: fmt.Sprintf("Aborting due to %d pre-validation error(s)", blocking)})
		c.logger.WithContext(ctx).WithFields(map[string]any{
			"session_id": session.id,
			"errors":     blocking,
		}).Warn("Mapping definition failed pre-validation")
		return nil
	}

	if err := c.runLifecycle(ctx, session, PhasePreInputExecution, session.sources, Module.ProcessPreInputExecution); err != nil {
		return err
	}

	states := make([]*mappingState, len(session.definition.Mappings))
	for i := range session.definition.Mappings {
		mapping := &session.definition.Mappings[i]
		states[i] = &mappingState{position: i, id: mapping.Identifier(i), mapping: mapping, written: map[*models.Field]bool{}}
	}

	c.runMappings(ctx, session, "engine.input", states, c.processInput)

	if err := c.runLifecycle(ctx, session, PhasePostInputExecution, session.sources, Module.ProcessPostInputExecution); err != nil {
		return err
	}
	if err := c.runLifecycle(ctx, session, PhasePreOutputExecution, session.targets, Module.ProcessPreOutputExecution); err != nil {
		return err
	}

	c.runMappings(ctx, session, "engine.output", states, c.processOutput)

	if err := c.runLifecycle(ctx, session, PhasePostOutputExecution, session.targets, Module.ProcessPostOutputExecution); err != nil {
		return err
	}
	if err := c.runLifecycle(ctx, session, PhasePostValidation, session.allModules(), Module.ProcessPostValidation); err != nil {
		return err
	}
	session.outcomes = c.outcomes(session, states)
	session.validations = append(session.validations, c.validator.ValidateSession(session.definition, session.outcomes)...)

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"session_id":  session.id,
		"mappings":    len(states),
		"errors":      session.ErrorCount(),
		"warnings":    session.WarnCount(),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Infof("Processed mapping definition %s", c.definition.Name)

	return nil
}

type mappingStep func(ctx context.Context, session *Session, state *mappingState) error

// runMappings runs step for every mapping that has not failed yet, in declaration order.
func (c *Context) runMappings(ctx context.Context, session *Session, spanName string, states []*mappingState, step mappingStep) {
	ctx, span := tracing.StartSpan(ctx, spanName)
	defer span.End()

	for _, state := range states {
		if state.failed {
			continue
		}
		session.head = &Head{MappingID: state.id, Position: state.position, Mapping: state.mapping}
		if err := step(ctx, session, state); err != nil {
			c.fail(ctx, session, state, err)
		}
		session.head = nil
	}
}

// fail records the one ERROR audit of a failed mapping and leaves its unwritten targets unset.
func (c *Context) fail(ctx context.Context, session *Session, state *mappingState, err error) {
	state.failed = true
	execErr := errors.NewMappingExecutionError(state.id, session.phase.String(), err)

	audit := models.Audit{Status: models.StatusError, Message: execErr.Error(), MappingID: state.id}
	if field := session.headField(); field != nil {
		audit.DocID = field.DocID
		audit.Path = field.Path
	}
	session.addAudit(audit)

	for _, target := range state.mapping.Targets {
		if target != nil && !state.written[target] {
			target.Value = nil
			target.Status = models.FieldStatusUnsupported
		}
	}

	c.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
		"session_id": session.id,
		"mapping_id": state.id,
		"phase":      session.phase,
	}).Warn("Mapping failed")
}

func (c *Context) module(session *Session, field *models.Field) (Module, error) {
	if field == nil {
		return nil, errors.NewMappingError("field reference is null")
	}
	module, ok := session.modules[field.DocID]
	if !ok {
		return nil, errors.NewMappingError(fmt.Sprintf("no module is bound to document '%s'", field.DocID)).AddField(field.Key())
	}
	if !module.IsSupportedField(field) {
		field.Status = models.FieldStatusUnsupported
		return nil, errors.NewMappingError(fmt.Sprintf("field type %s is not supported by the module", field.Signature())).AddField(field.Key())
	}
	return module, nil
}

// processInput reads the source fields and applies the source side actions.
func (c *Context) processInput(ctx context.Context, session *Session, state *mappingState) error {
	sources := state.mapping.Sources
	if len(sources) == 0 {
		return errors.NewMappingError("mapping has no source field")
	}

	session.phase = PhaseInputMapping
	for _, field := range sources {
		module, err := c.module(session, field)
		if err != nil {
			return err
		}
		session.head.SourceField = field
		if err := safeCall(func() error { return module.ProcessInputMapping(ctx, session) }); err != nil {
			return errors.WrapMappingError(err).AddField(field.Key())
		}
		if field.Value != nil {
			continue
		}
		if field.Default == nil {
			return errors.NewMappingError(fmt.Sprintf("no value found at '%s'", field.Path)).AddField(field.Key())
		}
		if err := session.SetFieldValue(field, field.Default); err != nil {
			return errors.WrapMappingError(err).AddField(field.Key())
		}
	}

	session.phase = PhaseInputActions
	values := make([]actions.Value, len(sources))
	for i, field := range sources {
		module := session.modules[field.DocID]
		session.head.SourceField = field
		if err := safeCall(func() error { return module.ProcessInputActions(ctx, session) }); err != nil {
			return errors.WrapMappingError(err).AddField(field.Key())
		}

		result, err := c.processor.Apply(field.Actions, actions.Value{
			Value:     field.Value,
			Signature: field.Signature(),
			Format:    session.formatOf(field.DocID),
			Pattern:   field.Format,
		})
		session.reportLossy(field, result.Lossy)
		if err != nil {
			return errors.WrapMappingError(err).AddField(field.Key())
		}
		values[i] = result.Value
	}

	var value actions.Value
	var err error
	switch state.mapping.Type {
	case models.MappingTypeCombine:
		value, err = c.combine(state.mapping, values)
	case models.MappingTypeLookup:
		value, err = c.lookup(session, state.mapping, values[0])
	default:
		value = values[0]
	}
	if err != nil {
		return err
	}

	session.head.SourceField = nil
	result, err := c.processor.Apply(state.mapping.Actions, value)
	session.reportLossy(nil, result.Lossy)
	if err != nil {
		return err
	}
	state.value = result.Value
	return nil
}

// processOutput resolves the target fields, applies the target side actions and writes the values.
// Every target is resolved and converted before the first one is written.
func (c *Context) processOutput(ctx context.Context, session *Session, state *mappingState) error {
	targets := state.mapping.Targets
	if len(targets) == 0 {
		return errors.NewMappingError("mapping has no target field")
	}

	session.phase = PhaseOutputMapping
	values := make([]actions.Value, len(targets))
	if state.mapping.Type == models.MappingTypeSeparate {
		separated, err := c.separate(state.mapping, state.value)
		if err != nil {
			return err
		}
		values = separated
	} else {
		for i := range targets {
			values[i] = state.value
		}
	}

	modules := make([]Module, len(targets))
	for i, target := range targets {
		module, err := c.module(session, target)
		if err != nil {
			return err
		}
		modules[i] = module
		session.head.TargetField = target
		if err := safeCall(func() error { return module.ProcessOutputMapping(ctx, session) }); err != nil {
			return errors.WrapMappingError(err).AddField(target.Key())
		}
		if target.Status == models.FieldStatusUnsupported {
			return errors.NewMappingError("target field could not be resolved").AddField(target.Key())
		}
	}

	session.phase = PhaseOutputActions
	pending := []int{}
	for i, target := range targets {
		session.head.TargetField = target
		if err := safeCall(func() error { return modules[i].ProcessOutputActions(ctx, session) }); err != nil {
			return errors.WrapMappingError(err).AddField(target.Key())
		}

		result, err := c.processor.Apply(target.Actions, values[i])
		session.reportLossy(target, result.Lossy)
		if err != nil {
			return errors.WrapMappingError(err).AddField(target.Key())
		}
		if result.Value.Value == nil {
			continue
		}

		converted, err := c.convertForTarget(session, target, result.Value)
		if err != nil {
			return errors.WrapMappingError(err).AddField(target.Key())
		}
		if err := target.SetValue(converted); err != nil {
			return errors.WrapMappingError(err).AddField(target.Key())
		}
		pending = append(pending, i)
	}

	for _, i := range pending {
		target := targets[i]
		session.head.TargetField = target
		if err := safeCall(func() error { return modules[i].WriteTargetValue(ctx, session) }); err != nil {
			return errors.WrapMappingError(err).AddField(target.Key())
		}
		state.written[target] = true
	}
	return nil
}

// convertForTarget converts the final value of a chain to the declared shape of target.
func (c *Context) convertForTarget(session *Session, target *models.Field, value actions.Value) (any, error) {
	signature := target.Signature()
	if signature.Collection == models.CollectionMap {
		if _, ok := value.Value.(map[string]any); !ok {
			return nil, fmt.Errorf("a %T cannot be written to the map field", value.Value)
		}
		return value.Value, nil
	}
	if isCollection(value) && !signature.IsCollection() {
		return nil, fmt.Errorf("a collection cannot be written to the %s field", signature)
	}
	if signature.Type == models.FieldTypeComplex && models.IsType(value.Value, models.FieldTypeComplex) {
		return value.Value, nil
	}

	converted, lossy, err := c.processor.ConvertFor(value, signature, session.formatOf(target.DocID))
	session.reportLossy(target, lossy)
	if err != nil {
		return nil, err
	}
	return converted.Value, nil
}

func isCollection(value actions.Value) bool {
	_, ok := value.Value.([]any)
	return ok
}

// outcomes summarizes every target field for post-validation.
func (c *Context) outcomes(session *Session, states []*mappingState) []validation.TargetState {
	outcomes := []validation.TargetState{}
	for _, state := range states {
		for _, target := range state.mapping.Targets {
			if target == nil {
				continue
			}
			supported := false
			if module, ok := session.modules[target.DocID]; ok {
				supported = module.IsSupportedField(target)
			}
			outcomes = append(outcomes, validation.TargetState{
				MappingID: state.id,
				Field:     target,
				Written:   state.written[target],
				Supported: supported,
			})
		}
	}
	return outcomes
}
