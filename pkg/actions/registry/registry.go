package registry

import (
	"sort"
	"strings"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
)

// ActionFactory builds an action from its name and raw arguments.
type ActionFactory func(name string, args any) (models.Action, error)

// Descriptor registers an action under a name with its type signature.
//
// An Input with a collection shape means the action receives the whole collection;
// scalar inputs are applied to every element of a collection value.
type Descriptor struct {
	Name        string           `json:"name"`
	Title       string           `json:"title,omitempty"`
	Description string           `json:"description,omitempty"`
	Input       models.Signature `json:"input"`
	Output      models.Signature `json:"output"`
	Factory     ActionFactory    `json:"-"`
}

// Plugin supplies user defined actions.
type Plugin interface {
	Actions() []Descriptor
}

// PluginFunc adapts a function to Plugin.
type PluginFunc func() []Descriptor

func (f PluginFunc) Actions() []Descriptor {
	return f()
}

// Registry is an immutable set of action descriptors keyed by name.
type Registry struct {
	descriptors map[string]Descriptor
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// New builds a registry. Names are case insensitive and must be unique.
func New(descriptors ...Descriptor) (*Registry, error) {
	r := &Registry{descriptors: make(map[string]Descriptor, len(descriptors))}
	for _, descriptor := range descriptors {
		if err := r.add(descriptor); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) add(descriptor Descriptor) error {
	name := normalize(descriptor.Name)
	if name == "" {
		return errors.NewConfigurationError("action descriptor has no name")
	}
	if descriptor.Factory == nil {
		return errors.NewConfigurationError("action '%s' has no factory", name)
	}
	if _, exists := r.descriptors[name]; exists {
		return errors.NewConfigurationError("action '%s' is already registered", name)
	}
	if descriptor.Input.Collection == "" {
		descriptor.Input.Collection = models.CollectionNone
	}
	if descriptor.Output.Collection == "" {
		descriptor.Output.Collection = models.CollectionNone
	}
	descriptor.Name = name
	r.descriptors[name] = descriptor
	return nil
}

// With returns a new registry holding the descriptors of r plus those of plugins.
func (r *Registry) With(plugins ...Plugin) (*Registry, error) {
	descriptors := r.Descriptors()
	for _, plugin := range plugins {
		descriptors = append(descriptors, plugin.Actions()...)
	}
	return New(descriptors...)
}

func (r *Registry) Lookup(name string) (Descriptor, bool) {
	descriptor, ok := r.descriptors[normalize(name)]
	return descriptor, ok
}

// Resolve finds the descriptor for definition and constructs the action.
func (r *Registry) Resolve(definition models.ActionDefinition) (Descriptor, models.Action, error) {
	descriptor, ok := r.Lookup(definition.Name)
	if !ok {
		return Descriptor{}, nil, errors.NewMappingError("action not found").AddAction(definition.Name)
	}

	action, err := descriptor.Factory(descriptor.Name, definition.Arguments)
	if err != nil {
		return descriptor, nil, errors.WrapMappingError(err).AddAction(descriptor.Name)
	}
	if action == nil {
		return descriptor, nil, errors.NewMappingError("factory returned no action").AddAction(descriptor.Name)
	}
	return descriptor, action, nil
}

// Descriptors returns every descriptor sorted by name.
func (r *Registry) Descriptors() []Descriptor {
	descriptors := make([]Descriptor, 0, len(r.descriptors))
	for _, descriptor := range r.descriptors {
		descriptors = append(descriptors, descriptor)
	}
	sort.Slice(descriptors, func(i, j int) bool {
		return descriptors[i].Name < descriptors[j].Name
	})
	return descriptors
}

func (r *Registry) Len() int {
	return len(r.descriptors)
}
