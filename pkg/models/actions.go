package models

// ActionDefinition selects a registered action and its arguments.
//
// Example:
//
//	{
//	  "name": "trim",          // The action's registered name
//	  "arguments": {}          // Static arguments (varies by action)
//	}
//
// With arguments (e.g., for append):
//
//	{
//	  "name": "append",
//	  "arguments": {"value": "!"}
//	}
type ActionDefinition struct {
	Name      string `json:"name" yaml:"name" validate:"required"`
	Arguments any    `json:"arguments,omitempty" yaml:"arguments,omitempty"`
}

// Action is a constructed, ready to run transformation.
// Execute receives a value already converted to the action's declared input type.
type Action interface {
	GetName() string
	Execute(input any) (any, error)
}
