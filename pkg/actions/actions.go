package actions

import (
	anyaction "github.com/Ramsey-B/fern/pkg/actions/any"
	"github.com/Ramsey-B/fern/pkg/actions/collection"
	"github.com/Ramsey-B/fern/pkg/actions/date"
	"github.com/Ramsey-B/fern/pkg/actions/lookup"
	"github.com/Ramsey-B/fern/pkg/actions/number"
	"github.com/Ramsey-B/fern/pkg/actions/object"
	"github.com/Ramsey-B/fern/pkg/actions/registry"
	"github.com/Ramsey-B/fern/pkg/actions/text"
	"github.com/Ramsey-B/fern/pkg/models"
)

const (
	// Text Action Keys
	TextTrimAction           = "trim"
	TextToUpperAction        = "to_upper"
	TextToLowerAction        = "to_lower"
	TextCapitalizeAction     = "capitalize"
	TextAppendAction         = "append"
	TextPrependAction        = "prepend"
	TextPadAction            = "pad"
	TextReplaceAction        = "replace"
	TextRegexReplaceAction   = "regex_replace"
	TextSubstringAction      = "substring"
	TextLengthAction         = "length"
	TextSplitAction          = "split"
	TextStartsWithAction     = "starts_with"
	TextEndsWithAction       = "ends_with"
	TextContainsAction       = "contains"
	TextNormalizeSpaceAction = "normalize_space"

	// Number Action Keys
	NumberRoundAction    = "round"
	NumberCeilingAction  = "ceiling"
	NumberFloorAction    = "floor"
	NumberAbsAction      = "abs"
	NumberAddAction      = "add"
	NumberSubtractAction = "subtract"
	NumberMultiplyAction = "multiply"
	NumberDivideAction   = "divide"
	NumberModulusAction  = "modulus"
	NumberClampAction    = "clamp"
	NumberSumAction      = "sum"
	NumberAverageAction  = "average"
	NumberMaxAction      = "max"
	NumberMinAction      = "min"

	// Date Action Keys
	DateDayOfWeekAction  = "day_of_week"
	DateDayOfMonthAction = "day_of_month"
	DateDayOfYearAction  = "day_of_year"
	DateYearAction       = "year"
	DateMonthAction      = "month"
	DateAddAction        = "date_add"
	DateAddDaysAction    = "add_days"
	DateFormatAction     = "format"
	DateNowAction        = "now"

	// Lookup Action Keys
	LookupDayOfWeekNameAction = "day_of_week_name"

	// Collection Action Keys
	CollectionCountAction    = "count"
	CollectionJoinAction     = "join"
	CollectionItemAtAction   = "item_at"
	CollectionFirstAction    = "first"
	CollectionLastAction     = "last"
	CollectionReverseAction  = "reverse"
	CollectionDistinctAction = "distinct"

	// Any Action Keys
	AnyDefaultValueAction = "default_value"
	AnyIsEmptyAction      = "is_empty"
	AnyToStringAction     = "to_string"

	// Object Action Keys
	ObjectQueryAction = "query"
	ObjectKeysAction  = "keys"
)

func scalar(t models.FieldType) models.Signature {
	return models.Signature{Type: t, Collection: models.CollectionNone}
}

func list(t models.FieldType) models.Signature {
	return models.Signature{Type: t, Collection: models.CollectionList}
}

var (
	str      = scalar(models.FieldTypeString)
	boolean  = scalar(models.FieldTypeBoolean)
	integer  = scalar(models.FieldTypeInteger)
	double   = scalar(models.FieldTypeDouble)
	datetime = scalar(models.FieldTypeDateTimeTZ)
	anything = scalar(models.FieldTypeAny)
	obj      = scalar(models.FieldTypeComplex)
	anyList  = list(models.FieldTypeAny)
)

// Builtins returns the descriptors of every built-in action.
func Builtins() []registry.Descriptor {
	return []registry.Descriptor{
		{Name: TextTrimAction, Title: "Trim", Description: "Removes leading and trailing whitespace or cutset characters", Input: str, Output: str, Factory: text.NewTextTrimAction},
		{Name: TextToUpperAction, Title: "Uppercase", Input: str, Output: str, Factory: text.NewTextToUpperAction},
		{Name: TextToLowerAction, Title: "Lowercase", Input: str, Output: str, Factory: text.NewTextToLowerAction},
		{Name: TextCapitalizeAction, Title: "Capitalize", Description: "Upper cases the first letter", Input: str, Output: str, Factory: text.NewTextCapitalizeAction},
		{Name: TextAppendAction, Title: "Append", Input: str, Output: str, Factory: text.NewTextAppendAction},
		{Name: TextPrependAction, Title: "Prepend", Input: str, Output: str, Factory: text.NewTextPrependAction},
		{Name: TextPadAction, Title: "Pad", Description: "Pads the text to a length", Input: str, Output: str, Factory: text.NewTextPadAction},
		{Name: TextReplaceAction, Title: "Replace", Input: str, Output: str, Factory: text.NewTextReplaceAction},
		{Name: TextRegexReplaceAction, Title: "Regex Replace", Input: str, Output: str, Factory: text.NewTextRegexReplaceAction},
		{Name: TextSubstringAction, Title: "Substring", Input: str, Output: str, Factory: text.NewTextSubstringAction},
		{Name: TextLengthAction, Title: "Length", Input: str, Output: integer, Factory: text.NewTextLengthAction},
		{Name: TextSplitAction, Title: "Split", Description: "Splits the text into a collection", Input: str, Output: list(models.FieldTypeString), Factory: text.NewTextSplitAction},
		{Name: TextStartsWithAction, Title: "Starts With", Input: str, Output: boolean, Factory: text.NewTextStartsWithAction},
		{Name: TextEndsWithAction, Title: "Ends With", Input: str, Output: boolean, Factory: text.NewTextEndsWithAction},
		{Name: TextContainsAction, Title: "Contains", Input: str, Output: boolean, Factory: text.NewTextContainsAction},
		{Name: TextNormalizeSpaceAction, Title: "Normalize Space", Input: str, Output: str, Factory: text.NewTextNormalizeSpaceAction},

		{Name: NumberRoundAction, Title: "Round", Input: double, Output: double, Factory: number.NewNumberRoundAction},
		{Name: NumberCeilingAction, Title: "Ceiling", Input: double, Output: double, Factory: number.NewNumberCeilingAction},
		{Name: NumberFloorAction, Title: "Floor", Input: double, Output: double, Factory: number.NewNumberFloorAction},
		{Name: NumberAbsAction, Title: "Absolute Value", Input: double, Output: double, Factory: number.NewNumberAbsAction},
		{Name: NumberAddAction, Title: "Add", Input: double, Output: double, Factory: number.NewNumberAddAction},
		{Name: NumberSubtractAction, Title: "Subtract", Input: double, Output: double, Factory: number.NewNumberSubtractAction},
		{Name: NumberMultiplyAction, Title: "Multiply", Input: double, Output: double, Factory: number.NewNumberMultiplyAction},
		{Name: NumberDivideAction, Title: "Divide", Input: double, Output: double, Factory: number.NewNumberDivideAction},
		{Name: NumberModulusAction, Title: "Modulus", Input: double, Output: double, Factory: number.NewNumberModulusAction},
		{Name: NumberClampAction, Title: "Clamp", Input: double, Output: double, Factory: number.NewNumberClampAction},
		{Name: NumberSumAction, Title: "Sum", Input: list(models.FieldTypeDouble), Output: double, Factory: number.NewNumberSumAction},
		{Name: NumberAverageAction, Title: "Average", Input: list(models.FieldTypeDouble), Output: double, Factory: number.NewNumberAverageAction},
		{Name: NumberMaxAction, Title: "Maximum", Input: list(models.FieldTypeDouble), Output: double, Factory: number.NewNumberMaxAction},
		{Name: NumberMinAction, Title: "Minimum", Input: list(models.FieldTypeDouble), Output: double, Factory: number.NewNumberMinAction},

		{Name: DateDayOfWeekAction, Title: "Day Of Week", Description: "1 (Sunday) to 7 (Saturday)", Input: datetime, Output: integer, Factory: date.NewDateDayOfWeekAction},
		{Name: DateDayOfMonthAction, Title: "Day Of Month", Input: datetime, Output: integer, Factory: date.NewDateDayOfMonthAction},
		{Name: DateDayOfYearAction, Title: "Day Of Year", Input: datetime, Output: integer, Factory: date.NewDateDayOfYearAction},
		{Name: DateYearAction, Title: "Year", Input: datetime, Output: integer, Factory: date.NewDateYearAction},
		{Name: DateMonthAction, Title: "Month", Input: datetime, Output: integer, Factory: date.NewDateMonthAction},
		{Name: DateAddAction, Title: "Add To Date", Input: datetime, Output: datetime, Factory: date.NewDateAddAction},
		{Name: DateAddDaysAction, Title: "Add Days", Input: datetime, Output: datetime, Factory: date.NewDateAddDaysAction},
		{Name: DateFormatAction, Title: "Format Date", Input: datetime, Output: str, Factory: date.NewDateFormatAction},
		{Name: DateNowAction, Title: "Current Date Time", Input: anything, Output: datetime, Factory: date.NewDateNowAction},

		{Name: LookupDayOfWeekNameAction, Title: "Day Of Week Name", Description: "1..7 to Sunday..Saturday, otherwise the fallback", Input: integer, Output: str, Factory: lookup.NewDayOfWeekNameAction},

		{Name: CollectionCountAction, Title: "Count", Input: anyList, Output: integer, Factory: collection.NewCollectionCountAction},
		{Name: CollectionJoinAction, Title: "Join", Input: anyList, Output: str, Factory: collection.NewCollectionJoinAction},
		{Name: CollectionItemAtAction, Title: "Item At", Input: anyList, Output: anything, Factory: collection.NewCollectionItemAtAction},
		{Name: CollectionFirstAction, Title: "First", Input: anyList, Output: anything, Factory: collection.NewCollectionFirstAction},
		{Name: CollectionLastAction, Title: "Last", Input: anyList, Output: anything, Factory: collection.NewCollectionLastAction},
		{Name: CollectionReverseAction, Title: "Reverse", Input: anyList, Output: anyList, Factory: collection.NewCollectionReverseAction},
		{Name: CollectionDistinctAction, Title: "Distinct", Input: anyList, Output: anyList, Factory: collection.NewCollectionDistinctAction},

		{Name: AnyDefaultValueAction, Title: "Default Value", Input: anything, Output: anything, Factory: anyaction.NewDefaultValueAction},
		{Name: AnyIsEmptyAction, Title: "Is Empty", Input: anything, Output: boolean, Factory: anyaction.NewIsEmptyAction},
		{Name: AnyToStringAction, Title: "To String", Input: anything, Output: str, Factory: anyaction.NewToStringAction},

		{Name: ObjectQueryAction, Title: "Query", Description: "Evaluates a JMESPath expression", Input: obj, Output: anything, Factory: object.NewObjectQueryAction},
		{Name: ObjectKeysAction, Title: "Keys", Input: obj, Output: list(models.FieldTypeString), Factory: object.NewObjectKeysAction},
	}
}

// NewRegistry returns a registry holding the built-in actions plus the actions of plugins.
func NewRegistry(plugins ...registry.Plugin) (*registry.Registry, error) {
	builtins, err := registry.New(Builtins()...)
	if err != nil {
		return nil, err
	}
	return builtins.With(plugins...)
}
