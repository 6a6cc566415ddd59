package mapping

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/internal/repositories/definition"
	"github.com/Ramsey-B/fern/pkg/actions/registry"
	"github.com/Ramsey-B/fern/pkg/engine"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/processor"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/pkg/errors"
)

type DefinitionRepository interface {
	Get(ctx context.Context, name string) (*models.MappingDefinition, error)
	List(ctx context.Context) ([]definition.Summary, error)
}

// Service validates and runs stored definitions.
type Service struct {
	logger    ectologger.Logger
	repo      DefinitionRepository
	factory   *engine.Factory
	contexts  *processor.ContextCache
	processor *processor.Processor
}

func NewService(logger ectologger.Logger, repo DefinitionRepository, factory *engine.Factory, proc *processor.Processor, cacheTTL time.Duration) *Service {
	loader := processor.DefinitionLoaderFunc(repo.Get)
	return &Service{
		logger:    logger,
		repo:      repo,
		factory:   factory,
		contexts:  processor.NewContextCache(loader, factory, processor.ContextCacheConfig{TTL: cacheTTL}),
		processor: proc,
	}
}

// Validate returns the findings of the definition named name, including the checks of its modules.
func (s *Service) Validate(ctx context.Context, name string) (models.Validations, error) {
	ctx, span := tracing.StartSpan(ctx, "mapping.Validate")
	defer span.End()

	mappingContext, err := s.context(ctx, name)
	if err != nil {
		return nil, err
	}
	session, err := mappingContext.CreateSession()
	if err != nil {
		return nil, err
	}
	if err := mappingContext.ProcessValidation(ctx, session); err != nil {
		return nil, err
	}

	validations := session.Validations()
	s.logger.WithContext(ctx).WithFields(map[string]any{
		"definition": name,
		"errors":     validations.Count(models.StatusError),
		"warnings":   validations.Count(models.StatusWarn),
	}).Info("validated mapping definition")
	return validations, nil
}

// Process runs jobs through the definition named name.
func (s *Service) Process(ctx context.Context, name string, jobs []processor.Job) ([]processor.Result, error) {
	ctx, span := tracing.StartSpan(ctx, "mapping.Process")
	defer span.End()

	if len(jobs) == 0 {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "at least one job is required")
	}

	mappingContext, err := s.context(ctx, name)
	if err != nil {
		return nil, err
	}

	results := s.processor.ProcessBatch(ctx, mappingContext, jobs)
	s.logger.WithContext(ctx).WithFields(map[string]any{
		"definition": name,
		"jobs":       len(jobs),
	}).Info("processed mapping jobs")
	return results, nil
}

// Inspect describes document as the field tree of the module registered for scheme.
func (s *Service) Inspect(ctx context.Context, scheme string, document any) ([]*models.Field, error) {
	_, span := tracing.StartSpan(ctx, "mapping.Inspect")
	defer span.End()

	if scheme == "" {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "scheme is required")
	}
	if _, ok := s.factory.Modules().Lookup(scheme); !ok {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "no module registered for scheme %s", scheme)
	}

	fields, err := s.factory.Modules().Inspect(scheme, document)
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return fields, nil
}

func (s *Service) Definitions(ctx context.Context) ([]definition.Summary, error) {
	return s.repo.List(ctx)
}

func (s *Service) Actions() []registry.Descriptor {
	return s.factory.Actions().Descriptors()
}

func (s *Service) context(ctx context.Context, name string) (*engine.Context, error) {
	if name == "" {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "definition name is required")
	}
	mappingContext, err := s.contexts.Get(ctx, name)
	if err != nil {
		// keep the status of repository errors
		if cause := errors.Cause(err); httperror.IsHTTPError(cause) {
			return nil, cause
		}
		return nil, httperror.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return mappingContext, nil
}
