package actions

import (
	"fmt"

	"github.com/Ramsey-B/fern/pkg/actions/registry"
	"github.com/Ramsey-B/fern/pkg/conversion"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

// ChainIssue is a static finding about an action chain.
type ChainIssue struct {
	Status   models.Status
	Action   string
	Position int
	Message  string
}

// CheckChain type checks definitions against an input signature without running them.
// When output is not nil the final signature is checked against it too.
// Unknown actions, invalid arguments and impossible conversions are errors;
// narrowing conversions are warnings.
func CheckChain(reg *registry.Registry, conversions *conversion.Service, input models.Signature, definitions []models.ActionDefinition, output *models.Signature) []ChainIssue {
	issues := []ChainIssue{}
	running := input
	known := true

	for position, definition := range definitions {
		descriptor, ok := reg.Lookup(definition.Name)
		if !ok {
			issues = append(issues, ChainIssue{Status: models.StatusError, Action: definition.Name, Position: position, Message: fmt.Sprintf("action '%s' is not registered", definition.Name)})
			known = false
			continue
		}

		if _, err := descriptor.Factory(descriptor.Name, definition.Arguments); err != nil {
			message := "invalid arguments"
			if args := utils.StringifyArgument(definition.Arguments); args != "" {
				message += " {" + args + "}"
			}
			issues = append(issues, ChainIssue{Status: models.StatusError, Action: descriptor.Name, Position: position, Message: fmt.Sprintf("%s: %s", message, err.Error())})
		}

		if known {
			if issue, ok := checkStep(conversions, running.Type, descriptor.Input.Type); ok {
				issue.Action = descriptor.Name
				issue.Position = position
				issue.Message = fmt.Sprintf("action '%s' expects %s but receives %s: %s", descriptor.Name, descriptor.Input, running, issue.Message)
				issues = append(issues, issue)
			}
		}

		// a scalar action over a collection keeps the collection shape
		next := descriptor.Output
		if running.IsCollection() && !descriptor.Input.IsCollection() {
			next.Collection = models.CollectionList
		}
		running = next
		known = running.Type != models.FieldTypeAny
	}

	if output == nil || !known {
		return issues
	}

	if running.IsCollection() && !output.IsCollection() {
		issues = append(issues, ChainIssue{Status: models.StatusError, Position: len(definitions), Message: fmt.Sprintf("chain produces %s but the target is %s", running, *output)})
		return issues
	}
	if issue, ok := checkStep(conversions, running.Type, output.Type); ok {
		issue.Position = len(definitions)
		issue.Message = fmt.Sprintf("chain produces %s but the target is %s: %s", running, *output, issue.Message)
		issues = append(issues, issue)
	}
	return issues
}

// ResolveSignature returns the signature a chain produces for input without constructing any action.
// Unknown actions leave the running signature unchanged.
func ResolveSignature(reg *registry.Registry, input models.Signature, definitions []models.ActionDefinition) models.Signature {
	running := input
	for _, definition := range definitions {
		descriptor, ok := reg.Lookup(definition.Name)
		if !ok {
			continue
		}
		next := descriptor.Output
		if running.IsCollection() && !descriptor.Input.IsCollection() {
			next.Collection = models.CollectionList
		}
		running = next
	}
	return running
}

func checkStep(conversions *conversion.Service, from, to models.FieldType) (ChainIssue, bool) {
	if from == models.FieldTypeAny || to == models.FieldTypeAny || from == to {
		return ChainIssue{}, false
	}
	if !conversions.CanConvert(from, to) {
		return ChainIssue{Status: models.StatusError, Message: "no conversion exists"}, true
	}
	if conversion.IsNarrowing(from, to) {
		return ChainIssue{Status: models.StatusWarn, Message: "conversion may lose precision"}, true
	}
	return ChainIssue{}, false
}
