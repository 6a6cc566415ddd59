package engine

// Phase is a stage of the processing pipeline. Phases run strictly in declaration order.
type Phase string

const (
	PhasePreValidation       Phase = "PRE_VALIDATION"
	PhasePreInputExecution   Phase = "PRE_INPUT_EXECUTION"
	PhaseInputMapping        Phase = "INPUT_MAPPING"
	PhaseInputActions        Phase = "INPUT_ACTIONS"
	PhasePostInputExecution  Phase = "POST_INPUT_EXECUTION"
	PhasePreOutputExecution  Phase = "PRE_OUTPUT_EXECUTION"
	PhaseOutputMapping       Phase = "OUTPUT_MAPPING"
	PhaseOutputActions       Phase = "OUTPUT_ACTIONS"
	PhasePostOutputExecution Phase = "POST_OUTPUT_EXECUTION"
	PhasePostValidation      Phase = "POST_VALIDATION"
)

// Phases lists every phase in execution order.
var Phases = []Phase{
	PhasePreValidation,
	PhasePreInputExecution,
	PhaseInputMapping,
	PhaseInputActions,
	PhasePostInputExecution,
	PhasePreOutputExecution,
	PhaseOutputMapping,
	PhaseOutputActions,
	PhasePostOutputExecution,
	PhasePostValidation,
}

// IsData reports whether the phase runs once per mapping. Failures in data phases are scoped to
// the mapping; failures in the other (lifecycle) phases abort the session.
func (p Phase) IsData() bool {
	switch p {
	case PhaseInputMapping, PhaseInputActions, PhaseOutputMapping, PhaseOutputActions:
		return true
	}
	return false
}

func (p Phase) String() string {
	return string(p)
}
