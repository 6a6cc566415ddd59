package models

import "time"

// Status is the severity of an audit or validation record.
type Status string

const (
	StatusError Status = "ERROR"
	StatusWarn  Status = "WARN"
	StatusInfo  Status = "INFO"
)

// Audit records something that happened while a session was processed.
// Audits are append only.
type Audit struct {
	ID        string    `json:"id"`
	Status    Status    `json:"status"`
	Message   string    `json:"message"`
	Phase     string    `json:"phase,omitempty"`
	MappingID string    `json:"mapping_id,omitempty"`
	DocID     string    `json:"doc_id,omitempty"`
	Path      string    `json:"path,omitempty"`
	Value     string    `json:"value,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ValidationScope names the part of a mapping definition a validation refers to.
type ValidationScope string

const (
	ScopeAll         ValidationScope = "ALL"
	ScopeDataSource  ValidationScope = "DATA_SOURCE"
	ScopeMapping     ValidationScope = "MAPPING"
	ScopeField       ValidationScope = "FIELD"
	ScopeProperty    ValidationScope = "PROPERTY"
	ScopeConstant    ValidationScope = "CONSTANT"
	ScopeLookupTable ValidationScope = "LOOKUP_TABLE"
)

// Validation is a finding about a mapping definition or about the state of a processed session.
type Validation struct {
	Status  Status          `json:"status"`
	Scope   ValidationScope `json:"scope"`
	ID      string          `json:"id,omitempty"`
	Message string          `json:"message"`
}

// Validations is a list of findings.
type Validations []Validation

func (v Validations) Count(status Status) int {
	count := 0
	for _, validation := range v {
		if validation.Status == status {
			count++
		}
	}
	return count
}

func (v Validations) HasErrors() bool {
	return v.Count(StatusError) > 0
}
