// Package validation finds problems in mapping definitions and processed sessions.
//
// Every check is independent and adds zero or more findings; a failing check never hides the
// findings of another. Problems that make execution impossible are ERROR, recoverable oddities
// are WARN and observations are INFO.
package validation

import (
	"fmt"
	"strings"

	"github.com/Gobusters/ectolinq"
	"github.com/Ramsey-B/fern/pkg/actions/registry"
	"github.com/Ramsey-B/fern/pkg/conversion"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/path"
	"github.com/Ramsey-B/fern/pkg/utils"
)

// EmptyNameMessage is reported when a mapping definition has no name.
const EmptyNameMessage = "Mapping name must not be null nor empty"

type Validator struct {
	actions     *registry.Registry
	conversions *conversion.Service
}

func NewValidator(actionRegistry *registry.Registry, conversions *conversion.Service) *Validator {
	return &Validator{
		actions:     actionRegistry,
		conversions: conversions,
	}
}

type check func(def *models.MappingDefinition) models.Validations

// ValidateDefinition runs the structural checks against def without touching any document.
func (v *Validator) ValidateDefinition(def *models.MappingDefinition) models.Validations {
	if def == nil {
		return models.Validations{{Status: models.StatusError, Scope: models.ScopeAll, Message: "Mapping definition must not be null"}}
	}

	checks := []check{
		v.checkName,
		v.checkDataSources,
		v.checkMappingIDs,
		v.checkMappings,
		v.checkDeclarations,
		v.checkUsage,
	}

	findings := models.Validations{}
	for _, c := range checks {
		findings = append(findings, c(def)...)
	}
	return findings
}

func (v *Validator) checkName(def *models.MappingDefinition) models.Validations {
	if ectolinq.IsEmpty(strings.TrimSpace(def.Name)) {
		return models.Validations{{Status: models.StatusError, Scope: models.ScopeMapping, Message: EmptyNameMessage}}
	}
	return nil
}

func (v *Validator) checkDataSources(def *models.MappingDefinition) models.Validations {
	findings := models.Validations{}
	seen := map[string]bool{}
	for _, ds := range def.DataSources {
		if _, err := utils.Validate(ds); err != nil {
			findings = append(findings, models.Validation{Status: models.StatusError, Scope: models.ScopeDataSource, ID: ds.ID, Message: err.Error()})
		}
		if models.IsBuiltinDocID(ds.ID) {
			findings = append(findings, models.Validation{Status: models.StatusError, Scope: models.ScopeDataSource, ID: ds.ID, Message: fmt.Sprintf("data source id '%s' is reserved", ds.ID)})
		}
		if ds.ID != "" && seen[ds.ID] {
			findings = append(findings, models.Validation{Status: models.StatusError, Scope: models.ScopeDataSource, ID: ds.ID, Message: fmt.Sprintf("duplicate data source id '%s'", ds.ID)})
		}
		seen[ds.ID] = true
	}
	return findings
}

func (v *Validator) checkMappingIDs(def *models.MappingDefinition) models.Validations {
	findings := models.Validations{}
	seen := map[string]bool{}
	for _, mapping := range def.Mappings {
		if mapping.ID == "" {
			continue
		}
		if seen[mapping.ID] {
			findings = append(findings, models.Validation{Status: models.StatusError, Scope: models.ScopeMapping, ID: mapping.ID, Message: fmt.Sprintf("duplicate mapping id '%s'", mapping.ID)})
		}
		seen[mapping.ID] = true
	}
	return findings
}

func (v *Validator) checkMappings(def *models.MappingDefinition) models.Validations {
	findings := models.Validations{}
	for i := range def.Mappings {
		mapping := &def.Mappings[i]
		id := mapping.Identifier(i)
		findings = append(findings, checkCardinality(def, mapping, id)...)
		for _, field := range mapping.Sources {
			findings = append(findings, checkFieldRef(def, field, models.DataSourceSource)...)
		}
		for _, field := range mapping.Targets {
			findings = append(findings, checkFieldRef(def, field, models.DataSourceTarget)...)
		}
		findings = append(findings, v.checkChains(mapping, id)...)
	}
	return findings
}

func (v *Validator) checkDeclarations(def *models.MappingDefinition) models.Validations {
	findings := models.Validations{}
	for _, property := range def.Properties {
		if _, err := utils.Validate(property); err != nil {
			findings = append(findings, models.Validation{Status: models.StatusError, Scope: models.ScopeProperty, ID: property.Name, Message: err.Error()})
		} else if !property.Type.IsPrimitive() {
			findings = append(findings, models.Validation{Status: models.StatusError, Scope: models.ScopeProperty, ID: property.Name, Message: fmt.Sprintf("property type %s is not a primitive type", property.Type)})
		}
	}
	for _, constant := range def.Constants {
		if _, err := utils.Validate(constant); err != nil {
			findings = append(findings, models.Validation{Status: models.StatusError, Scope: models.ScopeConstant, ID: constant.Name, Message: err.Error()})
			continue
		}
		if !constant.Type.IsPrimitive() {
			findings = append(findings, models.Validation{Status: models.StatusError, Scope: models.ScopeConstant, ID: constant.Name, Message: fmt.Sprintf("constant type %s is not a primitive type", constant.Type)})
			continue
		}
		if _, err := v.conversions.ConvertValue(constant.Value, models.FieldTypeString, constant.Type); err != nil {
			findings = append(findings, models.Validation{Status: models.StatusError, Scope: models.ScopeConstant, ID: constant.Name, Message: err.Error()})
		}
	}
	for _, table := range def.LookupTables {
		if _, err := utils.Validate(table); err != nil {
			findings = append(findings, models.Validation{Status: models.StatusError, Scope: models.ScopeLookupTable, ID: table.Name, Message: err.Error()})
		}
		seen := map[string]bool{}
		for _, entry := range table.Entries {
			if seen[entry.SourceValue] {
				findings = append(findings, models.Validation{Status: models.StatusWarn, Scope: models.ScopeLookupTable, ID: table.Name, Message: fmt.Sprintf("duplicate lookup entry '%s', the first one wins", entry.SourceValue)})
			}
			seen[entry.SourceValue] = true
		}
	}
	return findings
}

// checkUsage reports declarations that no mapping references.
func (v *Validator) checkUsage(def *models.MappingDefinition) models.Validations {
	referenced := map[string]bool{}
	tables := map[string]bool{}
	for _, mapping := range def.Mappings {
		for _, field := range append(append([]*models.Field{}, mapping.Sources...), mapping.Targets...) {
			if field != nil && models.IsBuiltinDocID(field.DocID) {
				referenced[field.DocID+":"+BuiltinName(field.Path)] = true
			}
		}
		if mapping.Type == models.MappingTypeLookup {
			tables[mapping.LookupTableName] = true
		}
	}

	findings := models.Validations{}
	for _, property := range def.Properties {
		if !referenced[models.PropertiesDocID+":"+property.Name] {
			findings = append(findings, models.Validation{Status: models.StatusWarn, Scope: models.ScopeProperty, ID: property.Name, Message: fmt.Sprintf("property '%s' is never used", property.Name)})
		}
	}
	for _, constant := range def.Constants {
		if !referenced[models.ConstantsDocID+":"+constant.Name] {
			findings = append(findings, models.Validation{Status: models.StatusInfo, Scope: models.ScopeConstant, ID: constant.Name, Message: fmt.Sprintf("constant '%s' is never used", constant.Name)})
		}
	}
	for _, table := range def.LookupTables {
		if !tables[table.Name] {
			findings = append(findings, models.Validation{Status: models.StatusInfo, Scope: models.ScopeLookupTable, ID: table.Name, Message: fmt.Sprintf("lookup table '%s' is never used", table.Name)})
		}
	}
	return findings
}

// BuiltinName returns the property or constant name addressed by a path of a built-in document,
// so "/rate" and "rate" both name the "rate" property.
func BuiltinName(expr string) string {
	p, err := path.Parse(expr)
	if err != nil {
		return strings.TrimPrefix(expr, path.Separator)
	}
	return p.FieldName()
}
