package validation

import (
	"testing"

	"github.com/Ramsey-B/fern/pkg/actions"
	"github.com/Ramsey-B/fern/pkg/conversion"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator(t *testing.T) *Validator {
	reg, err := actions.NewRegistry()
	require.NoError(t, err)
	return NewValidator(reg, conversion.Default())
}

func in(p string, fieldType models.FieldType) *models.Field {
	return &models.Field{DocID: "in", Path: p, Type: fieldType}
}

func out(p string, fieldType models.FieldType) *models.Field {
	return &models.Field{DocID: "out", Path: p, Type: fieldType}
}

func validDefinition() *models.MappingDefinition {
	return &models.MappingDefinition{
		Name: "valid",
		DataSources: []models.DataSource{
			{ID: "in", URI: "json:in", Type: models.DataSourceSource},
			{ID: "out", URI: "json:out", Type: models.DataSourceTarget},
		},
		Mappings: []models.Mapping{{
			Type:    models.MappingTypeMap,
			Sources: []*models.Field{in("/a", models.FieldTypeString)},
			Targets: []*models.Field{out("/b", models.FieldTypeString)},
		}},
	}
}

func index(i int) *int {
	return &i
}

func TestValidDefinition(t *testing.T) {
	assert.Empty(t, newTestValidator(t).ValidateDefinition(validDefinition()))
}

func TestNilDefinition(t *testing.T) {
	findings := newTestValidator(t).ValidateDefinition(nil)
	require.Len(t, findings, 1)
	assert.Equal(t, models.ScopeAll, findings[0].Scope)
}

func TestValidateDefinition(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(def *models.MappingDefinition)
		status  models.Status
		scope   models.ValidationScope
		message string
	}{
		{
			name:    "empty name",
			modify:  func(def *models.MappingDefinition) { def.Name = "" },
			status:  models.StatusError,
			scope:   models.ScopeMapping,
			message: EmptyNameMessage,
		},
		{
			name: "reserved data source id",
			modify: func(def *models.MappingDefinition) {
				def.DataSources = append(def.DataSources, models.DataSource{ID: models.PropertiesDocID, URI: "json:p", Type: models.DataSourceTarget})
			},
			status:  models.StatusError,
			scope:   models.ScopeDataSource,
			message: "is reserved",
		},
		{
			name: "duplicate data source id",
			modify: func(def *models.MappingDefinition) {
				def.DataSources = append(def.DataSources, models.DataSource{ID: "in", URI: "json:x", Type: models.DataSourceSource})
			},
			status:  models.StatusError,
			scope:   models.ScopeDataSource,
			message: "duplicate data source id 'in'",
		},
		{
			name: "duplicate mapping id",
			modify: func(def *models.MappingDefinition) {
				def.Mappings[0].ID = "m"
				def.Mappings = append(def.Mappings, def.Mappings[0].Clone())
			},
			status:  models.StatusError,
			scope:   models.ScopeMapping,
			message: "duplicate mapping id 'm'",
		},
		{
			name: "map with two targets",
			modify: func(def *models.MappingDefinition) {
				def.Mappings[0].Targets = append(def.Mappings[0].Targets, out("/c", models.FieldTypeString))
			},
			status:  models.StatusError,
			scope:   models.ScopeMapping,
			message: "MAP mapping needs exactly one source and one target, got 1 and 2",
		},
		{
			name:    "combine without delimiter",
			modify:  func(def *models.MappingDefinition) { def.Mappings[0].Type = models.MappingTypeCombine },
			status:  models.StatusError,
			scope:   models.ScopeMapping,
			message: "COMBINE mapping needs a delimiter",
		},
		{
			name: "unknown delimiter",
			modify: func(def *models.MappingDefinition) {
				def.Mappings[0].Type = models.MappingTypeSeparate
				def.Mappings[0].Delimiter = "HASH"
			},
			status:  models.StatusError,
			scope:   models.ScopeMapping,
			message: "unknown delimiter 'HASH'",
		},
		{
			name: "duplicate index",
			modify: func(def *models.MappingDefinition) {
				second := in("/c", models.FieldTypeString)
				second.Index = index(0)
				def.Mappings[0].Sources[0].Index = index(0)
				def.Mappings[0].Sources = append(def.Mappings[0].Sources, second)
				def.Mappings[0].Type = models.MappingTypeCombine
				def.Mappings[0].Delimiter = "SPACE"
			},
			status:  models.StatusError,
			scope:   models.ScopeMapping,
			message: "index 0 is assigned to more than one field",
		},
		{
			name: "index beyond the maximum",
			modify: func(def *models.MappingDefinition) {
				def.Mappings[0].Sources[0].Index = index(1 << 20)
				def.Mappings[0].Type = models.MappingTypeCombine
				def.Mappings[0].Delimiter = "SPACE"
			},
			status:  models.StatusError,
			scope:   models.ScopeMapping,
			message: "exceeds the maximum of 4096",
		},
		{
			name: "undeclared lookup table",
			modify: func(def *models.MappingDefinition) {
				def.Mappings[0].Type = models.MappingTypeLookup
				def.Mappings[0].LookupTableName = "colors"
			},
			status:  models.StatusError,
			scope:   models.ScopeMapping,
			message: "lookup table 'colors' is not declared",
		},
		{
			name:    "unknown mapping type",
			modify:  func(def *models.MappingDefinition) { def.Mappings[0].Type = "MERGE" },
			status:  models.StatusError,
			scope:   models.ScopeMapping,
			message: "unknown mapping type 'MERGE'",
		},
		{
			name:    "wildcard on a scalar field",
			modify:  func(def *models.MappingDefinition) { def.Mappings[0].Sources[0].Path = "/a[]" },
			status:  models.StatusError,
			scope:   models.ScopeField,
			message: "selects a collection",
		},
		{
			name:    "unmappable type",
			modify:  func(def *models.MappingDefinition) { def.Mappings[0].Sources[0].Type = models.FieldTypeAny },
			status:  models.StatusError,
			scope:   models.ScopeField,
			message: "field type 'ANY' cannot be mapped",
		},
		{
			name: "constant as target",
			modify: func(def *models.MappingDefinition) {
				def.Mappings[0].Targets[0] = &models.Field{DocID: models.ConstantsDocID, Path: "/x", Type: models.FieldTypeString}
			},
			status:  models.StatusError,
			scope:   models.ScopeField,
			message: "constants are read only",
		},
		{
			name: "undeclared constant",
			modify: func(def *models.MappingDefinition) {
				def.Mappings[0].Sources[0] = &models.Field{DocID: models.ConstantsDocID, Path: "/x", Type: models.FieldTypeString}
			},
			status:  models.StatusError,
			scope:   models.ScopeField,
			message: "constant 'x' is not declared",
		},
		{
			name: "undeclared property",
			modify: func(def *models.MappingDefinition) {
				def.Mappings[0].Sources[0] = &models.Field{DocID: models.PropertiesDocID, Path: "/tenant", Type: models.FieldTypeString}
			},
			status:  models.StatusWarn,
			scope:   models.ScopeField,
			message: "property 'tenant' is not declared",
		},
		{
			name:    "undeclared document",
			modify:  func(def *models.MappingDefinition) { def.Mappings[0].Targets[0].DocID = "nowhere" },
			status:  models.StatusError,
			scope:   models.ScopeField,
			message: "document 'nowhere' is not declared",
		},
		{
			name:    "target document used as source",
			modify:  func(def *models.MappingDefinition) { def.Mappings[0].Sources[0].DocID = "out" },
			status:  models.StatusError,
			scope:   models.ScopeField,
			message: "is a TARGET and cannot be used as a SOURCE",
		},
		{
			name: "unknown action",
			modify: func(def *models.MappingDefinition) {
				def.Mappings[0].Sources[0].Actions = []models.ActionDefinition{{Name: "explode"}}
			},
			status:  models.StatusError,
			scope:   models.ScopeMapping,
			message: "action 'explode' is not registered",
		},
		{
			name: "invalid action arguments",
			modify: func(def *models.MappingDefinition) {
				def.Mappings[0].Targets[0].Actions = []models.ActionDefinition{{Name: "append"}}
			},
			status:  models.StatusError,
			scope:   models.ScopeMapping,
			message: "invalid arguments",
		},
		{
			name: "narrowing conversion",
			modify: func(def *models.MappingDefinition) {
				def.Mappings[0].Sources[0].Type = models.FieldTypeDouble
				def.Mappings[0].Targets[0].Type = models.FieldTypeInteger
			},
			status:  models.StatusWarn,
			scope:   models.ScopeMapping,
			message: "conversion may lose precision",
		},
		{
			name: "impossible conversion",
			modify: func(def *models.MappingDefinition) {
				def.Mappings[0].Sources[0].Type = models.FieldTypeBoolean
				def.Mappings[0].Targets[0].Type = models.FieldTypeDate
			},
			status:  models.StatusError,
			scope:   models.ScopeMapping,
			message: "no conversion exists",
		},
		{
			name: "collection into a scalar",
			modify: func(def *models.MappingDefinition) {
				def.Mappings[0].Sources[0].Path = "/a[]"
				def.Mappings[0].Sources[0].CollectionType = models.CollectionArray
			},
			status:  models.StatusError,
			scope:   models.ScopeMapping,
			message: "chain produces",
		},
		{
			name: "unused property",
			modify: func(def *models.MappingDefinition) {
				def.Properties = []models.Property{{Name: "p", Type: models.FieldTypeString}}
			},
			status:  models.StatusWarn,
			scope:   models.ScopeProperty,
			message: "property 'p' is never used",
		},
		{
			name: "unused constant",
			modify: func(def *models.MappingDefinition) {
				def.Constants = []models.Constant{{Name: "c", Value: "1", Type: models.FieldTypeInteger}}
			},
			status:  models.StatusInfo,
			scope:   models.ScopeConstant,
			message: "constant 'c' is never used",
		},
		{
			name: "unused lookup table",
			modify: func(def *models.MappingDefinition) {
				def.LookupTables = []models.LookupTable{{Name: "colors"}}
			},
			status:  models.StatusInfo,
			scope:   models.ScopeLookupTable,
			message: "lookup table 'colors' is never used",
		},
		{
			name: "duplicate lookup entry",
			modify: func(def *models.MappingDefinition) {
				def.Mappings[0].Type = models.MappingTypeLookup
				def.Mappings[0].LookupTableName = "colors"
				def.LookupTables = []models.LookupTable{{Name: "colors", Entries: []models.LookupEntry{
					{SourceValue: "r", TargetValue: "red"},
					{SourceValue: "r", TargetValue: "rouge"},
				}}}
			},
			status:  models.StatusWarn,
			scope:   models.ScopeLookupTable,
			message: "duplicate lookup entry 'r'",
		},
		{
			name: "constant that does not convert",
			modify: func(def *models.MappingDefinition) {
				def.Constants = []models.Constant{{Name: "n", Value: "abc", Type: models.FieldTypeInteger}}
				def.Mappings[0].Sources[0] = &models.Field{DocID: models.ConstantsDocID, Path: "/n", Type: models.FieldTypeInteger}
			},
			status:  models.StatusError,
			scope:   models.ScopeConstant,
			message: "unable to convert abc",
		},
	}

	validator := newTestValidator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := validDefinition()
			tt.modify(def)

			findings := validator.ValidateDefinition(def)
			require.Len(t, findings, 1, findings)
			assert.Equal(t, tt.status, findings[0].Status)
			assert.Equal(t, tt.scope, findings[0].Scope)
			assert.Contains(t, findings[0].Message, tt.message)
		})
	}
}

func TestValidateSession(t *testing.T) {
	required := out("/id", models.FieldTypeString)
	required.Required = true
	abandoned := out("/name", models.FieldTypeString)
	abandoned.Status = models.FieldStatusUnsupported
	unknown := out("/blob", models.FieldTypeString)
	unknown.Status = models.FieldStatusUnsupported

	findings := newTestValidator(t).ValidateSession(validDefinition(), []TargetState{
		{MappingID: "m1", Field: required, Written: false, Supported: true},
		{MappingID: "m2", Field: abandoned, Written: false, Supported: true},
		{MappingID: "m3", Field: unknown, Written: false, Supported: false},
		{MappingID: "m4", Field: out("/ok", models.FieldTypeString), Written: true, Supported: true},
		{MappingID: "m5"},
	})

	require.Len(t, findings, 2)
	assert.Equal(t, models.StatusError, findings[0].Status)
	assert.Equal(t, "out:/id", findings[0].ID)
	assert.Contains(t, findings[0].Message, "'m1'")
	assert.Equal(t, models.StatusWarn, findings[1].Status)
	assert.Equal(t, "out:/name", findings[1].ID)
}

func TestBuiltinName(t *testing.T) {
	tests := map[string]string{
		"/rate":     "rate",
		"rate":      "rate",
		"/a/b":      "b",
		"/tags<0>":  "tags",
		"/attrs{k}": "attrs",
	}
	for expr, expected := range tests {
		t.Run(expr, func(t *testing.T) {
			assert.Equal(t, expected, BuiltinName(expr))
		})
	}
}
