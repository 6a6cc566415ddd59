package engine

import (
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/actions"
	"github.com/Ramsey-B/fern/pkg/actions/registry"
	"github.com/Ramsey-B/fern/pkg/conversion"
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/validation"
)

// Factory creates contexts from mapping definitions. It holds the process wide services every
// context shares: the module registry, the conversion matrix and the action registry.
type Factory struct {
	logger      ectologger.Logger
	modules     *ModuleRegistry
	conversions *conversion.Service
	actions     *registry.Registry
	validator   *validation.Validator
	strict      bool
	initErr     error
}

type Option func(*Factory)

func WithModuleRegistry(modules *ModuleRegistry) Option {
	return func(f *Factory) {
		f.modules = modules
	}
}

func WithConversions(conversions *conversion.Service) Option {
	return func(f *Factory) {
		f.conversions = conversions
	}
}

func WithActionRegistry(actionRegistry *registry.Registry) Option {
	return func(f *Factory) {
		f.actions = actionRegistry
	}
}

func WithValidator(validator *validation.Validator) Option {
	return func(f *Factory) {
		f.validator = validator
	}
}

// WithStrictValidation makes pre-validation warnings abort processing like errors do.
func WithStrictValidation(strict bool) Option {
	return func(f *Factory) {
		f.strict = strict
	}
}

func NewFactory(logger ectologger.Logger, opts ...Option) *Factory {
	f := &Factory{logger: logger}
	for _, opt := range opts {
		opt(f)
	}

	if f.logger == nil {
		f.logger = ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	}
	if f.modules == nil {
		f.modules, _ = NewModuleRegistry()
	}
	if f.conversions == nil {
		f.conversions = conversion.Default()
	}
	if f.actions == nil {
		f.actions, f.initErr = actions.NewRegistry()
	}
	return f
}

func (f *Factory) Modules() *ModuleRegistry {
	return f.modules
}

func (f *Factory) Conversions() *conversion.Service {
	return f.conversions
}

func (f *Factory) Actions() *registry.Registry {
	return f.actions
}

// CreateContext checks that every data source of def can be served by a registered module and
// returns a context holding a private copy of def.
// Structural problems inside the mappings are left to pre-validation.
func (f *Factory) CreateContext(def *models.MappingDefinition) (*Context, error) {
	if def == nil {
		return nil, errors.NewConfigurationError("mapping definition is nil")
	}

	if f.initErr != nil {
		return nil, errors.WrapConfigurationError(f.initErr, "unable to build the action registry")
	}

	definition := def.Clone()
	seen := map[string]bool{}
	for _, ds := range definition.DataSources {
		if ds.ID == "" {
			return nil, errors.NewConfigurationError("data source '%s' has no id", ds.URI)
		}
		if models.IsBuiltinDocID(ds.ID) {
			return nil, errors.NewConfigurationError("data source id '%s' is reserved", ds.ID)
		}
		if seen[ds.ID] {
			return nil, errors.NewConfigurationError("duplicate data source id '%s'", ds.ID)
		}
		seen[ds.ID] = true

		if err := f.modules.validate(ds); err != nil {
			return nil, err
		}
	}

	validator := f.validator
	if validator == nil {
		validator = validation.NewValidator(f.actions, f.conversions)
	}

	return &Context{
		definition:  definition,
		modules:     f.modules,
		conversions: f.conversions,
		processor:   actions.NewProcessor(f.actions, f.conversions),
		validator:   validator,
		strict:      f.strict,
		logger:      f.logger,
	}, nil
}
