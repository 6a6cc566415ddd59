package actions

import (
	"testing"

	"github.com/Ramsey-B/fern/pkg/actions/registry"
	"github.com/Ramsey-B/fern/pkg/conversion"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shoutAction struct{}

func (shoutAction) GetName() string { return "shout" }

func (shoutAction) Execute(input any) (any, error) {
	return input.(string) + "!!!", nil
}

type explodingAction struct{}

func (explodingAction) GetName() string { return "explode" }

func (explodingAction) Execute(_ any) (any, error) {
	panic("boom")
}

var testPlugin = registry.PluginFunc(func() []registry.Descriptor {
	return []registry.Descriptor{
		{
			Name:   "shout",
			Input:  models.Signature{Type: models.FieldTypeString},
			Output: models.Signature{Type: models.FieldTypeString},
			Factory: func(_ string, _ any) (models.Action, error) {
				return shoutAction{}, nil
			},
		},
		{
			Name:   "explode",
			Input:  models.Signature{Type: models.FieldTypeString},
			Output: models.Signature{Type: models.FieldTypeString},
			Factory: func(_ string, _ any) (models.Action, error) {
				return explodingAction{}, nil
			},
		},
	}
})

func newTestProcessor(t *testing.T) *Processor {
	reg, err := NewRegistry(testPlugin)
	require.NoError(t, err)
	return NewProcessor(reg, conversion.Default())
}

func def(name string, args ...any) models.ActionDefinition {
	definition := models.ActionDefinition{Name: name}
	if len(args) > 0 {
		definition.Arguments = args[0]
	}
	return definition
}

func stringValue(value any) Value {
	return Value{Value: value, Signature: models.Signature{Type: models.FieldTypeString, Collection: models.CollectionNone}}
}

func TestRegistry(t *testing.T) {
	t.Run("should resolve built-in and plugin actions through the same path", func(t *testing.T) {
		reg, err := NewRegistry(testPlugin)
		require.NoError(t, err)

		descriptor, action, err := reg.Resolve(def("TRIM"))
		require.NoError(t, err)
		assert.Equal(t, TextTrimAction, descriptor.Name)
		assert.Equal(t, TextTrimAction, action.GetName())

		_, action, err = reg.Resolve(def("shout"))
		require.NoError(t, err)
		assert.Equal(t, "shout", action.GetName())
	})

	t.Run("should reject duplicate names", func(t *testing.T) {
		_, err := NewRegistry(registry.PluginFunc(func() []registry.Descriptor {
			return []registry.Descriptor{{Name: TextTrimAction, Factory: func(string, any) (models.Action, error) { return shoutAction{}, nil }}}
		}))
		assert.Error(t, err)
	})

	t.Run("should report unknown actions", func(t *testing.T) {
		reg, err := NewRegistry()
		require.NoError(t, err)

		_, _, err = reg.Resolve(def("nope"))
		assert.EqualError(t, err, "action 'nope': action not found")
	})

	t.Run("should report invalid arguments", func(t *testing.T) {
		reg, err := NewRegistry()
		require.NoError(t, err)

		_, _, err = reg.Resolve(def(TextAppendAction))
		assert.Error(t, err)
	})

	t.Run("should keep snapshots independent", func(t *testing.T) {
		base, err := NewRegistry()
		require.NoError(t, err)
		extended, err := base.With(testPlugin)
		require.NoError(t, err)

		_, ok := base.Lookup("shout")
		assert.False(t, ok)
		_, ok = extended.Lookup("shout")
		assert.True(t, ok)
		assert.Equal(t, base.Len()+2, extended.Len())
	})
}

func TestProcessorOrder(t *testing.T) {
	processor := newTestProcessor(t)

	result, err := processor.Apply([]models.ActionDefinition{def(TextTrimAction), def(TextAppendAction, map[string]any{"value": "!"})}, stringValue("  hi  "))
	require.NoError(t, err)
	assert.Equal(t, "hi!", result.Value.Value)

	result, err = processor.Apply([]models.ActionDefinition{def(TextAppendAction, map[string]any{"value": "!"}), def(TextTrimAction)}, stringValue("  hi  "))
	require.NoError(t, err)
	assert.Equal(t, "hi  !", result.Value.Value)

	result, err = processor.Apply([]models.ActionDefinition{def(TextTrimAction), def(TextToUpperAction)}, stringValue("  hello  "))
	require.NoError(t, err)
	assert.Equal(t, "HELLO", result.Value.Value)
}

func TestProcessorConvertsBetweenActions(t *testing.T) {
	processor := newTestProcessor(t)

	t.Run("should adapt the running value to each action's input type", func(t *testing.T) {
		// "7" -> 7.0 -> 14.0 -> "14" -> "14!"
		result, err := processor.Apply([]models.ActionDefinition{
			def(NumberMultiplyAction, map[string]any{"value": 2}),
			def(TextAppendAction, map[string]any{"value": "!"}),
		}, stringValue("7"))
		require.NoError(t, err)
		assert.Equal(t, "14!", result.Value.Value)
		assert.Equal(t, models.FieldTypeString, result.Signature.Type)
	})

	t.Run("should report lossy conversions", func(t *testing.T) {
		result, err := processor.Apply([]models.ActionDefinition{def(LookupDayOfWeekNameAction)}, Value{
			Value:     3.99,
			Signature: models.Signature{Type: models.FieldTypeDouble},
		})
		require.NoError(t, err)
		assert.Equal(t, "Tuesday", result.Value.Value)
		require.Len(t, result.Lossy, 1)
		assert.Equal(t, models.FieldTypeDouble, result.Lossy[0].From)
		assert.Equal(t, models.FieldTypeInteger, result.Lossy[0].To)
	})

	t.Run("should fail when no conversion exists", func(t *testing.T) {
		_, err := processor.Apply([]models.ActionDefinition{def(DateYearAction)}, Value{
			Value:     true,
			Signature: models.Signature{Type: models.FieldTypeBoolean},
		})
		assert.ErrorContains(t, err, "action 'year'")
	})
}

func TestProcessorCollections(t *testing.T) {
	processor := newTestProcessor(t)
	names := Value{Value: []any{" ada ", nil, "grace"}, Signature: models.Signature{Type: models.FieldTypeString, Collection: models.CollectionList}}

	t.Run("should apply scalar actions to every element", func(t *testing.T) {
		result, err := processor.Apply([]models.ActionDefinition{def(TextTrimAction), def(TextCapitalizeAction)}, names)
		require.NoError(t, err)
		assert.Equal(t, []any{"Ada", nil, "Grace"}, result.Value.Value)
		assert.Equal(t, models.CollectionList, result.Signature.Collection)
	})

	t.Run("should hand the whole collection to collection actions", func(t *testing.T) {
		result, err := processor.Apply([]models.ActionDefinition{def(TextTrimAction), def(CollectionJoinAction, map[string]any{"separator": ",", "skip_empty": true})}, names)
		require.NoError(t, err)
		assert.Equal(t, "ada,grace", result.Value.Value)
		assert.False(t, result.Signature.IsCollection())
	})

	t.Run("should wrap a scalar for collection actions", func(t *testing.T) {
		result, err := processor.Apply([]models.ActionDefinition{def(CollectionCountAction)}, stringValue("solo"))
		require.NoError(t, err)
		assert.Equal(t, 1, result.Value.Value)
	})

	t.Run("should convert collection elements", func(t *testing.T) {
		result, err := processor.Apply([]models.ActionDefinition{def(NumberSumAction)}, Value{
			Value:     []any{"1.5", "2", nil},
			Signature: models.Signature{Type: models.FieldTypeString, Collection: models.CollectionList},
		})
		require.NoError(t, err)
		assert.Equal(t, 3.5, result.Value.Value)
	})

	t.Run("should report the failing element", func(t *testing.T) {
		_, err := processor.Apply([]models.ActionDefinition{def(NumberAbsAction)}, Value{
			Value:     []any{"1", "x"},
			Signature: models.Signature{Type: models.FieldTypeString, Collection: models.CollectionList},
		})
		assert.ErrorContains(t, err, "item 1")
	})
}

func TestProcessorNilAndPanics(t *testing.T) {
	processor := newTestProcessor(t)

	t.Run("should pass nil through typed actions", func(t *testing.T) {
		result, err := processor.Apply([]models.ActionDefinition{def(TextToUpperAction)}, stringValue(nil))
		require.NoError(t, err)
		assert.Nil(t, result.Value.Value)
	})

	t.Run("should hand nil to actions accepting anything", func(t *testing.T) {
		result, err := processor.Apply([]models.ActionDefinition{def(AnyDefaultValueAction, map[string]any{"default": "none"})}, stringValue(nil))
		require.NoError(t, err)
		assert.Equal(t, "none", result.Value.Value)
	})

	t.Run("should recover a panicking action", func(t *testing.T) {
		_, err := processor.Apply([]models.ActionDefinition{def("explode")}, stringValue("x"))
		assert.EqualError(t, err, "action 'explode': action panicked: boom")
	})
}

func TestCheckChain(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)
	conversions := conversion.Default()
	stringSig := models.Signature{Type: models.FieldTypeString, Collection: models.CollectionNone}
	intSig := models.Signature{Type: models.FieldTypeInteger, Collection: models.CollectionNone}

	tests := []struct {
		name     string
		input    models.Signature
		chain    []models.ActionDefinition
		output   *models.Signature
		statuses []models.Status
	}{
		{name: "valid chain", input: stringSig, chain: []models.ActionDefinition{def(TextTrimAction), def(TextLengthAction)}, output: &intSig},
		{name: "unknown action", input: stringSig, chain: []models.ActionDefinition{def("nope")}, statuses: []models.Status{models.StatusError}},
		{name: "invalid arguments", input: stringSig, chain: []models.ActionDefinition{def(TextPadAction)}, statuses: []models.Status{models.StatusError}},
		{name: "impossible input", input: models.Signature{Type: models.FieldTypeBoolean}, chain: []models.ActionDefinition{def(DateYearAction)}, statuses: []models.Status{models.StatusError}},
		{name: "narrowing output", input: models.Signature{Type: models.FieldTypeDouble}, chain: []models.ActionDefinition{def(NumberRoundAction)}, output: &intSig, statuses: []models.Status{models.StatusWarn}},
		{name: "collection into scalar", input: stringSig, chain: []models.ActionDefinition{def(TextSplitAction)}, output: &stringSig, statuses: []models.Status{models.StatusError}},
		{name: "collection joined into scalar", input: stringSig, chain: []models.ActionDefinition{def(TextSplitAction), def(CollectionJoinAction)}, output: &stringSig},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			issues := CheckChain(reg, conversions, test.input, test.chain, test.output)
			statuses := []models.Status{}
			for _, issue := range issues {
				statuses = append(statuses, issue.Status)
			}
			assert.ElementsMatch(t, test.statuses, statuses)
		})
	}
}
