package text

import (
	"testing"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type factory func(key string, args any) (models.Action, error)

func TestTextActions(t *testing.T) {
	end := 3

	tests := []struct {
		name     string
		factory  factory
		args     any
		input    any
		expected any
	}{
		{name: "trim", factory: NewTextTrimAction, input: "  hi  ", expected: "hi"},
		{name: "trim left", factory: NewTextTrimAction, args: TextTrimArguments{Side: "left"}, input: "  hi  ", expected: "hi  "},
		{name: "trim cutset", factory: NewTextTrimAction, args: map[string]any{"cutset": "-"}, input: "--hi--", expected: "hi"},
		{name: "normalize space", factory: NewTextNormalizeSpaceAction, input: "  a \t b\n c ", expected: "a b c"},
		{name: "to upper", factory: NewTextToUpperAction, input: "hello", expected: "HELLO"},
		{name: "to lower", factory: NewTextToLowerAction, input: "HeLLo", expected: "hello"},
		{name: "capitalize", factory: NewTextCapitalizeAction, input: "élan vital", expected: "Élan vital"},
		{name: "capitalize empty", factory: NewTextCapitalizeAction, input: "", expected: ""},
		{name: "append", factory: NewTextAppendAction, args: TextConcatArguments{Value: "!"}, input: "hi", expected: "hi!"},
		{name: "prepend", factory: NewTextPrependAction, args: map[string]any{"value": "Mr. "}, input: "Smith", expected: "Mr. Smith"},
		{name: "pad right", factory: NewTextPadAction, args: TextPadArguments{Length: 5, Char: "*"}, input: "ab", expected: "ab***"},
		{name: "pad left", factory: NewTextPadAction, args: TextPadArguments{Length: 4, Char: "0", Side: "left"}, input: "7", expected: "0007"},
		{name: "pad both", factory: NewTextPadAction, args: TextPadArguments{Length: 5, Side: "both"}, input: "ab", expected: " ab  "},
		{name: "pad longer text", factory: NewTextPadAction, args: TextPadArguments{Length: 2}, input: "abc", expected: "abc"},
		{name: "replace all", factory: NewTextReplaceAction, args: TextReplaceArguments{Old: "a", New: "o"}, input: "banana", expected: "bonono"},
		{name: "replace once", factory: NewTextReplaceAction, args: TextReplaceArguments{Old: "a", New: "o", Count: 1}, input: "banana", expected: "bonana"},
		{name: "regex replace", factory: NewTextRegexReplaceAction, args: TextRegexReplaceArguments{Pattern: `(\d+)-(\d+)`, Replacement: "$2-$1"}, input: "12-34", expected: "34-12"},
		{name: "substring", factory: NewTextSubstringAction, args: TextSubstringArguments{Start: 1, End: &end}, input: "hello", expected: "el"},
		{name: "substring clamps", factory: NewTextSubstringAction, args: TextSubstringArguments{Start: 3}, input: "héllo", expected: "lo"},
		{name: "length", factory: NewTextLengthAction, input: "héllo", expected: 5},
		{name: "split", factory: NewTextSplitAction, args: TextSplitArguments{Separator: ","}, input: "a,b,,c", expected: []any{"a", "b", "", "c"}},
		{name: "split skip empty", factory: NewTextSplitAction, args: TextSplitArguments{Separator: ",", SkipEmpty: true}, input: "a,b,,c", expected: []any{"a", "b", "c"}},
		{name: "split characters", factory: NewTextSplitAction, args: TextSplitArguments{}, input: "abc", expected: []any{"a", "b", "c"}},
		{name: "starts with", factory: NewTextStartsWithAction, args: TextMatchArguments{Value: "he"}, input: "hello", expected: true},
		{name: "ends with ignore case", factory: NewTextEndsWithAction, args: TextMatchArguments{Value: "LO", IgnoreCase: true}, input: "hello", expected: true},
		{name: "contains", factory: NewTextContainsAction, args: TextMatchArguments{Value: "xyz"}, input: "hello", expected: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			action, err := test.factory(test.name, test.args)
			require.NoError(t, err)
			assert.Equal(t, test.name, action.GetName())

			result, err := action.Execute(test.input)
			require.NoError(t, err)
			assert.Equal(t, test.expected, result)
		})
	}
}

func TestTextActionArguments(t *testing.T) {
	t.Run("should reject append without a value", func(t *testing.T) {
		_, err := NewTextAppendAction("append", nil)
		assert.Error(t, err)
	})

	t.Run("should reject arguments of the wrong type", func(t *testing.T) {
		_, err := NewTextPadAction("pad", map[string]any{"length": "wide"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "action 'pad'")
	})

	t.Run("should reject an invalid pattern", func(t *testing.T) {
		_, err := NewTextRegexReplaceAction("regex_replace", TextRegexReplaceArguments{Pattern: "("})
		assert.Error(t, err)
	})

	t.Run("should reject end before start", func(t *testing.T) {
		end := 1
		_, err := NewTextSubstringAction("substring", TextSubstringArguments{Start: 2, End: &end})
		assert.Error(t, err)
	})

	t.Run("should reject input that is not text", func(t *testing.T) {
		action, err := NewTextToUpperAction("to_upper", nil)
		require.NoError(t, err)

		_, err = action.Execute(12)
		assert.Error(t, err)
	})
}

func TestActionOrder(t *testing.T) {
	trim, err := NewTextTrimAction("trim", nil)
	require.NoError(t, err)
	bang, err := NewTextAppendAction("append", TextConcatArguments{Value: "!"})
	require.NoError(t, err)

	run := func(chain ...models.Action) any {
		var value any = "  hi  "
		for _, action := range chain {
			value, err = action.Execute(value)
			require.NoError(t, err)
		}
		return value
	}

	assert.Equal(t, "hi!", run(trim, bang))
	assert.Equal(t, "hi  !", run(bang, trim))
}
