package validation

import (
	"fmt"

	"github.com/Ramsey-B/fern/pkg/models"
)

// TargetState is the outcome of one target field of a processed session.
type TargetState struct {
	MappingID string
	Field     *models.Field
	Written   bool
	// Supported is the owning module's answer to IsSupportedField.
	Supported bool
}

// ValidateSession checks the state left behind by processing: required targets must have been
// written, and fields a module claims to support must not be left UNSUPPORTED.
func (v *Validator) ValidateSession(def *models.MappingDefinition, targets []TargetState) models.Validations {
	findings := models.Validations{}
	for _, target := range targets {
		if target.Field == nil {
			continue
		}
		if target.Field.Required && !target.Written {
			findings = append(findings, models.Validation{
				Status:  models.StatusError,
				Scope:   models.ScopeField,
				ID:      target.Field.Key(),
				Message: fmt.Sprintf("required field %s of mapping '%s' was not written", target.Field.Key(), target.MappingID),
			})
		}
		if target.Field.Status == models.FieldStatusUnsupported && target.Supported {
			findings = append(findings, models.Validation{
				Status:  models.StatusWarn,
				Scope:   models.ScopeField,
				ID:      target.Field.Key(),
				Message: fmt.Sprintf("field %s of mapping '%s' was left unsupported", target.Field.Key(), target.MappingID),
			})
		}
	}
	return findings
}
