package engine

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/actions"
	"github.com/Ramsey-B/fern/pkg/conversion"
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/validation"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// Context executes one mapping definition. It is immutable and may be shared by
// sessions running in different goroutines.
type Context struct {
	definition  *models.MappingDefinition
	modules     *ModuleRegistry
	conversions *conversion.Service
	processor   *actions.Processor
	validator   *validation.Validator
	strict      bool
	logger      ectologger.Logger
}

// Definition returns a copy of the mapping definition.
func (c *Context) Definition() *models.MappingDefinition {
	return c.definition.Clone()
}

// CreateSession returns a new session with fresh module instances, one per data source.
func (c *Context) CreateSession() (*Session, error) {
	id := uuid.NewString()
	session := &Session{
		id:         id,
		context:    c,
		definition: c.definition.Clone(),
		logger:     c.logger.WithFields(map[string]any{"session_id": id, "definition": c.definition.Name}),
		documents:  map[string]any{},
		properties: map[string]any{},
		modules:    map[string]Module{},
	}

	for _, ds := range session.definition.DataSources {
		module, err := c.modules.instantiate(ds)
		if err != nil {
			return nil, err
		}
		session.modules[ds.ID] = module
		if ModeOf(ds) == ModeTarget {
			session.targets = append(session.targets, ds.ID)
		} else {
			session.sources = append(session.sources, ds.ID)
		}
	}

	session.modules[models.ConstantsDocID] = newConstantsModule()
	session.modules[models.PropertiesDocID] = newPropertiesModule()
	session.sources = append(session.sources, models.ConstantsDocID, models.PropertiesDocID)
	session.targets = append(session.targets, models.PropertiesDocID)

	return session, nil
}

// ProcessValidation runs the validation phases only: the definition checks and the modules'
// validation callbacks. No document is read or written.
func (c *Context) ProcessValidation(ctx context.Context, session *Session) (err error) {
	if err := c.owns(session); err != nil {
		return err
	}

	ctx, span := tracing.StartSpan(ctx, "engine.ProcessValidation", c.spanAttributes(session)...)
	defer func() { tracing.EndSpan(span, err) }()

	if err := c.preValidate(ctx, session); err != nil {
		return err
	}
	return c.runLifecycle(ctx, session, PhasePostValidation, session.allModules(), Module.ProcessPostValidation)
}

// owns rejects sessions created by another context.
func (c *Context) owns(session *Session) error {
	if session == nil {
		return errors.NewFatalPipelineError(PhasePreValidation.String(), "engine", fmt.Errorf("session is nil"))
	}
	if session.context != c {
		return errors.NewFatalPipelineError(PhasePreValidation.String(), "engine", fmt.Errorf("session %s was created by another context", session.id))
	}
	return nil
}

func (c *Context) spanAttributes(session *Session) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("fern.definition", c.definition.Name),
		attribute.String("fern.session_id", session.id),
	}
}

// preValidate validates the definition once per session and runs the modules' pre-validation.
func (c *Context) preValidate(ctx context.Context, session *Session) error {
	if session.validated {
		return nil
	}
	session.validated = true

	session.phase = PhasePreValidation
	findings := c.validator.ValidateDefinition(session.definition)
	session.validations = append(session.validations, findings...)

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"session_id": session.id,
		"errors":     findings.Count(models.StatusError),
		"warnings":   findings.Count(models.StatusWarn),
	}).Debug("Validated mapping definition")

	return c.runLifecycle(ctx, session, PhasePreValidation, session.allModules(), Module.ProcessPreValidation)
}

type lifecycleCallback func(Module, context.Context, *Session) error

// runLifecycle calls a lifecycle callback on every module in docIDs. The first failure is
// audited and returned as a fatal error.
func (c *Context) runLifecycle(ctx context.Context, session *Session, phase Phase, docIDs []string, callback lifecycleCallback) (err error) {
	session.phase = phase
	ctx, span := tracing.StartSpan(ctx, "engine."+phase.String())
	defer func() { tracing.EndSpan(span, err) }()

	for _, docID := range docIDs {
		module := session.modules[docID]
		if cbErr := safeCall(func() error { return callback(module, ctx, session) }); cbErr != nil {
			fatal := errors.NewFatalPipelineError(phase.String(), moduleName(docID, module), cbErr)
			session.addAudit(models.Audit{Status: models.StatusError, Message: fatal.Error(), Phase: phase.String(), DocID: docID})
			c.logger.WithContext(ctx).WithError(cbErr).WithFields(map[string]any{
				"session_id": session.id,
				"doc_id":     docID,
				"phase":      phase,
			}).Error("Module lifecycle callback failed")
			return fatal
		}
	}
	return nil
}

// safeCall turns a panic in fn into an error.
func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func moduleName(docID string, module Module) string {
	name := Unwrap(module).Metadata().Name
	if name == "" {
		return docID
	}
	return fmt.Sprintf("%s(%s)", name, docID)
}
