package conversion

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

var numericTypes = []models.FieldType{
	models.FieldTypeByte, models.FieldTypeShort, models.FieldTypeInteger,
	models.FieldTypeLong, models.FieldTypeFloat, models.FieldTypeDouble,
}

var dateTypes = []models.FieldType{
	models.FieldTypeDate, models.FieldTypeTime, models.FieldTypeDateTime, models.FieldTypeDateTimeTZ,
}

func builtins() []Entry {
	entries := []Entry{
		{Name: "string_to_boolean", Source: models.FieldTypeString, Target: models.FieldTypeBoolean, Converter: stringToBoolean},
		{Name: "string_to_char", Source: models.FieldTypeString, Target: models.FieldTypeChar, Converter: stringToChar},
		{Name: "string_to_complex", Source: models.FieldTypeString, Target: models.FieldTypeComplex, Converter: stringToComplex},
		{Name: "boolean_to_string", Source: models.FieldTypeBoolean, Target: models.FieldTypeString, Converter: toString},
		{Name: "char_to_string", Source: models.FieldTypeChar, Target: models.FieldTypeString, Converter: charToString},
		{Name: "complex_to_string", Source: models.FieldTypeComplex, Target: models.FieldTypeString, Converter: complexToString},
		{Name: "long_to_date_time", Source: models.FieldTypeLong, Target: models.FieldTypeDateTime, Converter: epochToTime},
		{Name: "long_to_date_time_tz", Source: models.FieldTypeLong, Target: models.FieldTypeDateTimeTZ, Converter: epochToTime},
		{Name: "long_to_date", Source: models.FieldTypeLong, Target: models.FieldTypeDate, Converter: epochToTime},
	}

	for _, numeric := range numericTypes {
		entries = append(entries,
			Entry{Name: "string_to_" + lower(numeric), Source: models.FieldTypeString, Target: numeric, Converter: stringToNumber},
			Entry{Name: lower(numeric) + "_to_string", Source: numeric, Target: models.FieldTypeString, Converter: toString},
			Entry{Name: "boolean_to_" + lower(numeric), Source: models.FieldTypeBoolean, Target: numeric, Converter: booleanToNumber},
			Entry{Name: lower(numeric) + "_to_boolean", Source: numeric, Target: models.FieldTypeBoolean, Converter: numberToBoolean},
		)
		if numeric.IsIntegral() {
			entries = append(entries,
				Entry{Name: "char_to_" + lower(numeric), Source: models.FieldTypeChar, Target: numeric, Converter: charToNumber},
				Entry{Name: lower(numeric) + "_to_char", Source: numeric, Target: models.FieldTypeChar, Converter: numberToChar},
			)
		}
	}

	for _, dateType := range dateTypes {
		entries = append(entries,
			Entry{Name: "string_to_" + lower(dateType), Source: models.FieldTypeString, Target: dateType, Converter: stringToTime},
			Entry{Name: lower(dateType) + "_to_string", Source: dateType, Target: models.FieldTypeString, Converter: timeToString},
			Entry{Name: lower(dateType) + "_to_long", Source: dateType, Target: models.FieldTypeLong, Converter: timeToEpoch},
		)
		for _, other := range dateTypes {
			if other != dateType {
				entries = append(entries, Entry{Name: lower(dateType) + "_to_" + lower(other), Source: dateType, Target: other, Converter: timeToTime})
			}
		}
	}

	return entries
}

func lower(t models.FieldType) string {
	return strings.ToLower(string(t))
}

func stringValue(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

func stringToBoolean(req Request) (Result, error) {
	switch strings.ToLower(strings.TrimSpace(stringValue(req.Value))) {
	case "true", "t", "1", "yes", "y", "on":
		return Result{Value: true}, nil
	case "false", "f", "0", "no", "n", "off", "":
		return Result{Value: false}, nil
	}
	return Result{}, fmt.Errorf("'%v' is not a boolean", req.Value)
}

func stringToChar(req Request) (Result, error) {
	s := stringValue(req.Value)
	if s == "" {
		return Result{}, fmt.Errorf("empty string has no character")
	}
	r, size := utf8.DecodeRuneInString(s)
	return Result{Value: r, Lossy: size != len(s)}, nil
}

func stringToComplex(req Request) (Result, error) {
	var object map[string]any
	if err := json.Unmarshal([]byte(stringValue(req.Value)), &object); err != nil {
		return Result{}, err
	}
	return Result{Value: object}, nil
}

func stringToNumber(req Request) (Result, error) {
	s := strings.TrimSpace(stringValue(req.Value))
	if s == "" {
		return Result{}, fmt.Errorf("empty string is not a number")
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return CastNumeric(i, req.TargetType)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Result{}, fmt.Errorf("'%s' is not a number", s)
	}
	return CastNumeric(f, req.TargetType)
}

func toString(req Request) (Result, error) {
	switch v := req.Value.(type) {
	case string:
		return Result{Value: v}, nil
	case bool:
		return Result{Value: strconv.FormatBool(v)}, nil
	case float32:
		return Result{Value: strconv.FormatFloat(float64(v), 'f', -1, 32)}, nil
	case float64:
		return Result{Value: strconv.FormatFloat(v, 'f', -1, 64)}, nil
	}

	if number, ok := utils.ToNumber(req.Value); ok {
		if number.IsFloat {
			return Result{Value: strconv.FormatFloat(number.Float, 'f', -1, 64)}, nil
		}
		return Result{Value: strconv.FormatInt(number.Int, 10)}, nil
	}
	return Result{Value: fmt.Sprint(req.Value)}, nil
}

func charToString(req Request) (Result, error) {
	if r, ok := req.Value.(rune); ok {
		return Result{Value: string(r)}, nil
	}
	return Result{Value: stringValue(req.Value)}, nil
}

func complexToString(req Request) (Result, error) {
	b, err := json.Marshal(req.Value)
	if err != nil {
		return Result{}, err
	}
	return Result{Value: string(b)}, nil
}

func booleanToNumber(req Request) (Result, error) {
	b, ok := req.Value.(bool)
	if !ok {
		return Result{}, fmt.Errorf("%T is not a boolean", req.Value)
	}
	if b {
		return CastNumeric(1, req.TargetType)
	}
	return CastNumeric(0, req.TargetType)
}

func numberToBoolean(req Request) (Result, error) {
	number, ok := utils.ToNumber(req.Value)
	if !ok {
		return Result{}, fmt.Errorf("%T is not a number", req.Value)
	}
	return Result{Value: number.AsFloat() != 0}, nil
}

func charToNumber(req Request) (Result, error) {
	r, ok := req.Value.(rune)
	if !ok {
		return Result{}, fmt.Errorf("%T is not a character", req.Value)
	}
	return CastNumeric(int64(r), req.TargetType)
}

func numberToChar(req Request) (Result, error) {
	number, ok := utils.ToNumber(req.Value)
	if !ok || number.IsFloat {
		return Result{}, fmt.Errorf("%v is not an integral number", req.Value)
	}
	r := rune(number.Int)
	if int64(r) != number.Int || !utf8.ValidRune(r) {
		return Result{}, fmt.Errorf("%d is not a valid character", number.Int)
	}
	return Result{Value: r}, nil
}

func stringToTime(req Request) (Result, error) {
	parsed, err := ParseTime(strings.TrimSpace(stringValue(req.Value)), req.Pattern)
	if err != nil {
		return Result{}, err
	}
	if req.TargetType == models.FieldTypeDateTimeTZ {
		return Result{Value: parsed}, nil
	}
	truncated, lossy := truncateTo(parsed, req.TargetType)
	return Result{Value: truncated, Lossy: lossy}, nil
}

func timeToString(req Request) (Result, error) {
	t, ok := req.Value.(time.Time)
	if !ok {
		return Result{}, fmt.Errorf("%T is not a time", req.Value)
	}
	layout := DefaultLayout(req.SourceType)
	if req.Pattern != "" {
		layout = ResolveLayout(req.Pattern)
	}
	return Result{Value: t.Format(layout)}, nil
}

func timeToEpoch(req Request) (Result, error) {
	t, ok := req.Value.(time.Time)
	if !ok {
		return Result{}, fmt.Errorf("%T is not a time", req.Value)
	}
	return Result{Value: t.UnixMilli()}, nil
}

func epochToTime(req Request) (Result, error) {
	number, ok := utils.ToNumber(req.Value)
	if !ok {
		return Result{}, fmt.Errorf("%T is not a number", req.Value)
	}
	millis := number.Int
	fractional := false
	if number.IsFloat {
		if math.IsNaN(number.Float) || math.IsInf(number.Float, 0) || number.Float >= math.MaxInt64 || number.Float < math.MinInt64 {
			return Result{}, fmt.Errorf("%v is not a valid epoch", req.Value)
		}
		millis = int64(number.Float)
		fractional = number.Float != math.Trunc(number.Float)
	}
	truncated, lossy := truncateTo(time.UnixMilli(millis).UTC(), req.TargetType)
	return Result{Value: truncated, Lossy: lossy || fractional}, nil
}

func timeToTime(req Request) (Result, error) {
	t, ok := req.Value.(time.Time)
	if !ok {
		return Result{}, fmt.Errorf("%T is not a time", req.Value)
	}
	truncated, lossy := truncateTo(t, req.TargetType)
	return Result{Value: truncated, Lossy: lossy}, nil
}
