package engine

import (
	"fmt"
	"time"

	"github.com/Gobusters/ectolinq"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/actions"
	"github.com/Ramsey-B/fern/pkg/conversion"
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/validation"
	"github.com/google/uuid"
)

// Head points at the mapping and fields the pipeline is working on.
type Head struct {
	MappingID   string
	Position    int
	Mapping     *models.Mapping
	SourceField *models.Field
	TargetField *models.Field
}

// Session holds the documents, properties and findings of one execution of a mapping definition.
// A session is processed once; create a new one to run the definition again.
// Sessions are not safe for concurrent use.
type Session struct {
	id         string
	context    *Context
	definition *models.MappingDefinition
	logger     ectologger.Logger

	documents  map[string]any
	properties map[string]any
	modules    map[string]Module
	sources    []string
	targets    []string

	audits      []models.Audit
	validations models.Validations
	outcomes    []validation.TargetState

	head      *Head
	phase     Phase
	validated bool
	processed bool
}

func (s *Session) ID() string {
	return s.id
}

// Definition returns the session's copy of the mapping definition. Callers must not modify it.
func (s *Session) Definition() *models.MappingDefinition {
	return s.definition
}

func (s *Session) Logger() ectologger.Logger {
	return s.logger
}

func (s *Session) Conversions() *conversion.Service {
	return s.context.conversions
}

// Phase returns the phase in progress, or the last one that ran.
func (s *Session) Phase() Phase {
	return s.phase
}

// Head returns the mapping in progress. It is nil outside of the data phases.
func (s *Session) Head() *Head {
	return s.head
}

// Module returns the module bound to docID.
func (s *Session) Module(docID string) (Module, bool) {
	module, ok := s.modules[docID]
	return module, ok
}

// SetSourceDocument binds the document read by the SOURCE data source docID.
func (s *Session) SetSourceDocument(docID string, document any) error {
	return s.bind(docID, models.DataSourceSource, document)
}

// SetTargetDocument binds the document written by the TARGET data source docID.
// Target modules also use it to publish the finished document.
func (s *Session) SetTargetDocument(docID string, document any) error {
	return s.bind(docID, models.DataSourceTarget, document)
}

func (s *Session) bind(docID string, direction models.DataSourceType, document any) error {
	ds, ok := s.definition.DataSource(docID)
	if !ok {
		return errors.NewConfigurationError("document '%s' is not declared", docID)
	}
	if ds.Type != direction {
		return errors.NewConfigurationError("document '%s' is a %s document", docID, ds.Type)
	}
	s.documents[docID] = document
	return nil
}

func (s *Session) SourceDocument(docID string) (any, bool) {
	return s.document(docID, models.DataSourceSource)
}

func (s *Session) TargetDocument(docID string) (any, bool) {
	return s.document(docID, models.DataSourceTarget)
}

func (s *Session) document(docID string, direction models.DataSourceType) (any, bool) {
	ds, ok := s.definition.DataSource(docID)
	if !ok || ds.Type != direction {
		return nil, false
	}
	document, ok := s.documents[docID]
	return document, ok
}

// SetProperty sets a runtime property. It overrides the value declared in the definition.
func (s *Session) SetProperty(name string, value any) {
	s.properties[name] = value
}

// Property returns the runtime value of a property, or its declared value.
func (s *Session) Property(name string) (any, bool) {
	if value, ok := s.properties[name]; ok {
		return value, true
	}
	if property, ok := s.definition.Property(name); ok && property.Value != nil {
		return property.Value, true
	}
	return nil, false
}

// SetFieldValue converts raw to the declared type of field and stores it.
// A nil raw value leaves the field without value. Lossy conversions are audited as warnings.
func (s *Session) SetFieldValue(field *models.Field, raw any) error {
	if raw == nil {
		field.Value = nil
		return nil
	}

	target := field.Signature()
	value := actions.Value{Value: raw, Signature: models.SignatureOf(raw), Format: s.formatOf(field.DocID), Pattern: field.Format}
	if target.Collection == models.CollectionMap || (target.Type == models.FieldTypeComplex && models.IsType(raw, models.FieldTypeComplex)) {
		return field.SetValue(raw)
	}
	if value.Signature.IsCollection() && !target.IsCollection() {
		field.Status = models.FieldStatusError
		return fmt.Errorf("a collection cannot be stored in the %s field %s", target, field.Key())
	}

	converted, lossy, err := s.context.processor.Convert(value, target)
	s.reportLossy(field, lossy)
	if err != nil {
		field.Status = models.FieldStatusError
		return err
	}
	return field.SetValue(converted.Value)
}

// AddAudit records a finding about the field in progress.
func (s *Session) AddAudit(status models.Status, message string) {
	audit := models.Audit{Status: status, Message: message}
	if s.head != nil {
		audit.MappingID = s.head.MappingID
		if field := s.headField(); field != nil {
			audit.DocID = field.DocID
			audit.Path = field.Path
		}
	}
	s.addAudit(audit)
}

func (s *Session) addAudit(audit models.Audit) {
	audit.ID = uuid.NewString()
	audit.Timestamp = time.Now().UTC()
	if audit.Phase == "" {
		audit.Phase = s.phase.String()
	}
	s.audits = append(s.audits, audit)
}

func (s *Session) reportLossy(field *models.Field, lossy []actions.LossyConversion) {
	for _, l := range lossy {
		audit := models.Audit{Status: models.StatusWarn, Message: l.String(), Value: fmt.Sprint(l.Value)}
		if s.head != nil {
			audit.MappingID = s.head.MappingID
		}
		if field != nil {
			audit.DocID = field.DocID
			audit.Path = field.Path
		}
		s.addAudit(audit)
	}
}

// headField returns the field in progress for the current phase.
func (s *Session) headField() *models.Field {
	if s.head == nil {
		return nil
	}
	switch s.phase {
	case PhaseOutputMapping, PhaseOutputActions:
		if s.head.TargetField != nil {
			return s.head.TargetField
		}
	}
	return s.head.SourceField
}

func (s *Session) formatOf(docID string) string {
	if ds, ok := s.definition.DataSource(docID); ok {
		return ds.Scheme()
	}
	return ""
}

// Audits returns a copy of the audit list.
func (s *Session) Audits() []models.Audit {
	return append([]models.Audit(nil), s.audits...)
}

// Validations returns a copy of the validation list.
func (s *Session) Validations() models.Validations {
	return append(models.Validations(nil), s.validations...)
}

func (s *Session) HasValidationErrors() bool {
	return s.validations.HasErrors()
}

func (s *Session) countAudits(status models.Status) int {
	return len(ectolinq.Filter(s.audits, func(audit models.Audit) bool {
		return audit.Status == status
	}))
}

func (s *Session) ErrorCount() int {
	return s.countAudits(models.StatusError)
}

func (s *Session) WarnCount() int {
	return s.countAudits(models.StatusWarn)
}

func (s *Session) HasErrors() bool {
	return s.ErrorCount() > 0
}

func (s *Session) HasWarns() bool {
	return s.WarnCount() > 0
}

// allModules returns every bound document id, sources first, without duplicates.
func (s *Session) allModules() []string {
	seen := map[string]bool{}
	docIDs := []string{}
	for _, docID := range append(append([]string{}, s.sources...), s.targets...) {
		if !seen[docID] {
			seen[docID] = true
			docIDs = append(docIDs, docID)
		}
	}
	return docIDs
}
