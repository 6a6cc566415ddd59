package models

import "strings"

// DataSourceType says whether a document is read from or written to.
type DataSourceType string

const (
	DataSourceSource DataSourceType = "SOURCE"
	DataSourceTarget DataSourceType = "TARGET"
)

// Reserved document ids for the built-in constant and property documents.
const (
	ConstantsDocID  = "DOC.Constants"
	PropertiesDocID = "DOC.Properties"
)

// DataSource binds a document id to a format.
// The URI scheme (the text before the first ':') selects the module registration.
//
// Example:
//
//	{"id": "order", "uri": "json:order-v1", "type": "SOURCE"}
type DataSource struct {
	ID   string         `json:"id" yaml:"id" validate:"required"`
	URI  string         `json:"uri" yaml:"uri" validate:"required"`
	Type DataSourceType `json:"type" yaml:"type" validate:"required,oneof=SOURCE TARGET"`
	Name string         `json:"name,omitempty" yaml:"name,omitempty"`
}

// Scheme returns the format identifier of the data source.
func (d DataSource) Scheme() string {
	scheme, _, _ := strings.Cut(d.URI, ":")
	return strings.ToLower(scheme)
}

// IsBuiltinDocID reports whether docID names a document the engine provides itself.
func IsBuiltinDocID(docID string) bool {
	return docID == ConstantsDocID || docID == PropertiesDocID
}
