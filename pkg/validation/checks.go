package validation

import (
	"fmt"

	"github.com/Ramsey-B/fern/pkg/actions"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/path"
	"github.com/Ramsey-B/fern/pkg/utils"
)

func mappingError(id, format string, args ...any) models.Validation {
	return models.Validation{Status: models.StatusError, Scope: models.ScopeMapping, ID: id, Message: fmt.Sprintf(format, args...)}
}

func fieldFinding(status models.Status, field *models.Field, format string, args ...any) models.Validation {
	return models.Validation{Status: status, Scope: models.ScopeField, ID: field.Key(), Message: fmt.Sprintf(format, args...)}
}

func checkCardinality(def *models.MappingDefinition, mapping *models.Mapping, id string) models.Validations {
	findings := models.Validations{}
	sources, targets := len(mapping.Sources), len(mapping.Targets)

	switch mapping.Type {
	case models.MappingTypeMap:
		if sources != 1 || targets != 1 {
			findings = append(findings, mappingError(id, "MAP mapping needs exactly one source and one target, got %d and %d", sources, targets))
		}
	case models.MappingTypeCombine:
		if sources < 1 || targets != 1 {
			findings = append(findings, mappingError(id, "COMBINE mapping needs at least one source and exactly one target, got %d and %d", sources, targets))
		}
		findings = append(findings, checkStrategy(mapping, id, mapping.Sources)...)
	case models.MappingTypeSeparate:
		if sources != 1 || targets < 1 {
			findings = append(findings, mappingError(id, "SEPARATE mapping needs exactly one source and at least one target, got %d and %d", sources, targets))
		}
		findings = append(findings, checkStrategy(mapping, id, mapping.Targets)...)
	case models.MappingTypeLookup:
		if sources != 1 || targets != 1 {
			findings = append(findings, mappingError(id, "LOOKUP mapping needs exactly one source and one target, got %d and %d", sources, targets))
		}
		if mapping.LookupTableName == "" {
			findings = append(findings, mappingError(id, "LOOKUP mapping has no lookup table"))
		} else if _, ok := def.LookupTable(mapping.LookupTableName); !ok {
			findings = append(findings, mappingError(id, "lookup table '%s' is not declared", mapping.LookupTableName))
		}
	default:
		findings = append(findings, mappingError(id, "unknown mapping type '%s'", mapping.Type))
	}

	return findings
}

// checkStrategy validates the delimiter and index assignment of COMBINE and SEPARATE mappings.
func checkStrategy(mapping *models.Mapping, id string, indexed []*models.Field) models.Validations {
	findings := models.Validations{}
	if _, ok := mapping.ResolveDelimiter(); !ok {
		if mapping.Delimiter == "" {
			findings = append(findings, mappingError(id, "%s mapping needs a delimiter", mapping.Type))
		} else {
			findings = append(findings, mappingError(id, "unknown delimiter '%s'", mapping.Delimiter))
		}
	}

	seen := map[int]bool{}
	for _, field := range indexed {
		if field == nil || field.Index == nil {
			continue
		}
		index := *field.Index
		if index < 0 {
			findings = append(findings, mappingError(id, "field %s has negative index %d", field.Key(), index))
			continue
		}
		if index > models.MaxFieldIndex {
			findings = append(findings, mappingError(id, "field %s index %d exceeds the maximum of %d", field.Key(), index, models.MaxFieldIndex))
			continue
		}
		if seen[index] {
			findings = append(findings, mappingError(id, "index %d is assigned to more than one field", index))
		}
		seen[index] = true
	}
	return findings
}

func checkFieldRef(def *models.MappingDefinition, field *models.Field, direction models.DataSourceType) models.Validations {
	if field == nil {
		return models.Validations{{Status: models.StatusError, Scope: models.ScopeField, Message: fmt.Sprintf("%s field reference is null", direction)}}
	}

	findings := models.Validations{}
	if _, err := utils.Validate(*field); err != nil {
		findings = append(findings, fieldFinding(models.StatusError, field, "%s", err.Error()))
	}
	if field.Type != "" && (!field.Type.IsValid() || field.Type == models.FieldTypeAny || field.Type == models.FieldTypeUnsupported) {
		findings = append(findings, fieldFinding(models.StatusError, field, "field type '%s' cannot be mapped", field.Type))
	}
	if !field.CollectionType.IsValid() {
		findings = append(findings, fieldFinding(models.StatusError, field, "unknown collection type '%s'", field.CollectionType))
	}

	p, err := path.Parse(field.Path)
	if err != nil {
		findings = append(findings, fieldFinding(models.StatusError, field, "invalid path: %s", err.Error()))
	} else if p.HasWildcard() && !field.IsCollection() {
		findings = append(findings, fieldFinding(models.StatusError, field, "path '%s' selects a collection but the field is not a collection", field.Path))
	}

	switch field.DocID {
	case "":
		// reported by the struct validation
	case models.ConstantsDocID:
		if direction == models.DataSourceTarget {
			findings = append(findings, fieldFinding(models.StatusError, field, "constants are read only"))
		} else if _, ok := def.Constant(BuiltinName(field.Path)); !ok {
			findings = append(findings, fieldFinding(models.StatusError, field, "constant '%s' is not declared", BuiltinName(field.Path)))
		}
	case models.PropertiesDocID:
		if _, ok := def.Property(BuiltinName(field.Path)); !ok {
			findings = append(findings, fieldFinding(models.StatusWarn, field, "property '%s' is not declared and must be set on the session", BuiltinName(field.Path)))
		}
	default:
		ds, ok := def.DataSource(field.DocID)
		if !ok {
			findings = append(findings, fieldFinding(models.StatusError, field, "document '%s' is not declared", field.DocID))
		} else if ds.Type != direction {
			findings = append(findings, fieldFinding(models.StatusError, field, "document '%s' is a %s and cannot be used as a %s", field.DocID, ds.Type, direction))
		}
	}

	return findings
}

// checkChains type checks the source, mapping and target action chains of a mapping as one flow.
func (v *Validator) checkChains(mapping *models.Mapping, id string) models.Validations {
	if v.actions == nil || v.conversions == nil {
		return nil
	}

	findings := models.Validations{}
	report := func(where string, issues []actions.ChainIssue) {
		for _, issue := range issues {
			findings = append(findings, models.Validation{Status: issue.Status, Scope: models.ScopeMapping, ID: id, Message: where + ": " + issue.Message})
		}
	}

	outputs := []models.Signature{}
	for _, source := range mapping.Sources {
		if source == nil || !source.Type.IsValid() {
			continue
		}
		report("source "+source.Key(), actions.CheckChain(v.actions, v.conversions, source.Signature(), source.Actions, nil))
		outputs = append(outputs, actions.ResolveSignature(v.actions, source.Signature(), source.Actions))
	}
	if len(outputs) == 0 {
		return findings
	}

	str := models.Signature{Type: models.FieldTypeString, Collection: models.CollectionNone}
	running := outputs[0]
	switch mapping.Type {
	case models.MappingTypeCombine, models.MappingTypeLookup:
		for _, output := range outputs {
			if !v.conversions.CanConvert(output.Type, models.FieldTypeString) {
				findings = append(findings, mappingError(id, "%s mapping cannot use a %s source", mapping.Type, output))
			}
		}
		if mapping.Type == models.MappingTypeLookup {
			running = models.Signature{Type: models.FieldTypeString, Collection: running.Collection}
		} else {
			running = str
		}
	}

	report("mapping", actions.CheckChain(v.actions, v.conversions, running, mapping.Actions, nil))
	running = actions.ResolveSignature(v.actions, running, mapping.Actions)

	if mapping.Type == models.MappingTypeSeparate {
		if running.IsCollection() || !v.conversions.CanConvert(running.Type, models.FieldTypeString) {
			findings = append(findings, mappingError(id, "SEPARATE mapping cannot split a %s value", running))
		}
		running = str
	}

	for _, target := range mapping.Targets {
		if target == nil || !target.Type.IsValid() {
			continue
		}
		output := target.Signature()
		report("target "+target.Key(), actions.CheckChain(v.actions, v.conversions, running, target.Actions, &output))
	}
	return findings
}
