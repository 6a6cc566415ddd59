package models

import "fmt"

// MappingType describes how source fields relate to target fields.
type MappingType string

const (
	// MappingTypeMap copies one source field into one target field.
	MappingTypeMap MappingType = "MAP"
	// MappingTypeCombine joins many source fields into one target field.
	MappingTypeCombine MappingType = "COMBINE"
	// MappingTypeSeparate splits one source field into many target fields.
	MappingTypeSeparate MappingType = "SEPARATE"
	// MappingTypeLookup translates one source value through a lookup table.
	MappingTypeLookup MappingType = "LOOKUP"
)

// Delimiters maps the named delimiters accepted by COMBINE and SEPARATE mappings.
var Delimiters = map[string]string{
	"SPACE":      " ",
	"COMMA":      ",",
	"DASH":       "-",
	"COLON":      ":",
	"SEMICOLON":  ";",
	"SLASH":      "/",
	"PERIOD":     ".",
	"UNDERSCORE": "_",
	"PIPE":       "|",
	"TAB":        "\t",
	"AMPERSAND":  "&",
}

// Mapping relates source fields to target fields.
//
// Example (COMBINE):
//
//	{
//	  "id": "full-name",
//	  "type": "COMBINE",
//	  "delimiter": "SPACE",
//	  "sources": [
//	    {"doc_id": "person", "path": "/first", "type": "STRING", "index": 0},
//	    {"doc_id": "person", "path": "/last", "type": "STRING", "index": 1}
//	  ],
//	  "targets": [{"doc_id": "contact", "path": "/name", "type": "STRING"}]
//	}
type Mapping struct {
	ID              string             `json:"id,omitempty" yaml:"id,omitempty"`
	Description     string             `json:"description,omitempty" yaml:"description,omitempty"`
	Type            MappingType        `json:"type" yaml:"type" validate:"required,oneof=MAP COMBINE SEPARATE LOOKUP"`
	Sources         []*Field           `json:"sources" yaml:"sources"`
	Targets         []*Field           `json:"targets" yaml:"targets"`
	Actions         []ActionDefinition `json:"actions,omitempty" yaml:"actions,omitempty"`
	Delimiter       string             `json:"delimiter,omitempty" yaml:"delimiter,omitempty"`
	DelimiterString string             `json:"delimiter_string,omitempty" yaml:"delimiter_string,omitempty"`
	LookupTableName string             `json:"lookup_table_name,omitempty" yaml:"lookup_table_name,omitempty"`
}

// Identifier returns the mapping id, or a positional id when none was declared.
// position is zero based.
func (m *Mapping) Identifier(position int) string {
	if m.ID != "" {
		return m.ID
	}
	return fmt.Sprintf("mapping-%d", position+1)
}

// ResolveDelimiter returns the delimiter of a COMBINE or SEPARATE mapping.
// DelimiterString takes precedence over the named Delimiter.
func (m *Mapping) ResolveDelimiter() (string, bool) {
	if m.DelimiterString != "" {
		return m.DelimiterString, true
	}
	if m.Delimiter == "" {
		return "", false
	}
	delimiter, ok := Delimiters[m.Delimiter]
	return delimiter, ok
}

// Property is a named value exposed through the DOC.Properties document.
// Values set on a session override the declared value.
type Property struct {
	Name  string    `json:"name" yaml:"name" validate:"required"`
	Value any       `json:"value,omitempty" yaml:"value,omitempty"`
	Type  FieldType `json:"type" yaml:"type" validate:"required"`
}

// Constant is a named read-only value exposed through the DOC.Constants document.
type Constant struct {
	Name  string    `json:"name" yaml:"name" validate:"required"`
	Value string    `json:"value" yaml:"value"`
	Type  FieldType `json:"type" yaml:"type" validate:"required"`
}

// LookupEntry translates one source value into one target value.
type LookupEntry struct {
	SourceValue string `json:"source_value" yaml:"source_value"`
	TargetValue string `json:"target_value" yaml:"target_value"`
}

// LookupTable is the value table used by LOOKUP mappings.
type LookupTable struct {
	Name    string        `json:"name" yaml:"name" validate:"required"`
	Entries []LookupEntry `json:"entries" yaml:"entries"`
}

// Find returns the target value registered for source.
func (t LookupTable) Find(source string) (string, bool) {
	for _, entry := range t.Entries {
		if entry.SourceValue == source {
			return entry.TargetValue, true
		}
	}
	return "", false
}

// MappingDefinition is the full set of mappings executed together.
type MappingDefinition struct {
	Name         string        `json:"name" yaml:"name"`
	Description  string        `json:"description,omitempty" yaml:"description,omitempty"`
	DataSources  []DataSource  `json:"data_sources" yaml:"data_sources"`
	Mappings     []Mapping     `json:"mappings" yaml:"mappings"`
	Properties   []Property    `json:"properties,omitempty" yaml:"properties,omitempty"`
	Constants    []Constant    `json:"constants,omitempty" yaml:"constants,omitempty"`
	LookupTables []LookupTable `json:"lookup_tables,omitempty" yaml:"lookup_tables,omitempty"`
}

// DataSource returns the data source declared for docID.
func (d *MappingDefinition) DataSource(docID string) (DataSource, bool) {
	for _, ds := range d.DataSources {
		if ds.ID == docID {
			return ds, true
		}
	}
	return DataSource{}, false
}

func (d *MappingDefinition) LookupTable(name string) (LookupTable, bool) {
	for _, table := range d.LookupTables {
		if table.Name == name {
			return table, true
		}
	}
	return LookupTable{}, false
}

func (d *MappingDefinition) Property(name string) (Property, bool) {
	for _, property := range d.Properties {
		if property.Name == name {
			return property, true
		}
	}
	return Property{}, false
}

func (d *MappingDefinition) Constant(name string) (Constant, bool) {
	for _, constant := range d.Constants {
		if constant.Name == name {
			return constant, true
		}
	}
	return Constant{}, false
}

// Clone returns a deep copy of the definition. Field values are not copied.
func (d *MappingDefinition) Clone() *MappingDefinition {
	if d == nil {
		return nil
	}

	clone := *d
	clone.DataSources = append([]DataSource(nil), d.DataSources...)
	clone.Properties = append([]Property(nil), d.Properties...)
	clone.Constants = append([]Constant(nil), d.Constants...)
	clone.LookupTables = make([]LookupTable, len(d.LookupTables))
	for i, table := range d.LookupTables {
		table.Entries = append([]LookupEntry(nil), table.Entries...)
		clone.LookupTables[i] = table
	}
	clone.Mappings = make([]Mapping, len(d.Mappings))
	for i, mapping := range d.Mappings {
		clone.Mappings[i] = mapping.Clone()
	}

	return &clone
}

// Clone returns a deep copy of the mapping with cloned field references.
func (m Mapping) Clone() Mapping {
	clone := m
	clone.Actions = append([]ActionDefinition(nil), m.Actions...)
	clone.Sources = cloneFields(m.Sources)
	clone.Targets = cloneFields(m.Targets)
	return clone
}

func cloneFields(fields []*Field) []*Field {
	if fields == nil {
		return nil
	}
	clones := make([]*Field, len(fields))
	for i, field := range fields {
		clones[i] = field.Clone()
	}
	return clones
}
