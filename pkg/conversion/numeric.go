package conversion

import (
	"fmt"
	"math"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

// numeric width ranks used to detect narrowing casts statically
var numericRank = map[models.FieldType]int{
	models.FieldTypeByte:    1,
	models.FieldTypeShort:   2,
	models.FieldTypeInteger: 3,
	models.FieldTypeLong:    4,
	models.FieldTypeFloat:   5,
	models.FieldTypeDouble:  6,
}

// IsNarrowing reports whether a cast from source to target can lose information.
func IsNarrowing(source, target models.FieldType) bool {
	if !source.IsNumeric() || !target.IsNumeric() || source == target {
		return false
	}
	if target.IsIntegral() && !source.IsIntegral() {
		return true
	}
	// float32 cannot hold every int32 and float64 cannot hold every int64
	if source == models.FieldTypeLong && !target.IsIntegral() {
		return true
	}
	if source == models.FieldTypeInteger && target == models.FieldTypeFloat {
		return true
	}
	return numericRank[target] < numericRank[source]
}

// CastNumeric casts any Go number to the representation of target.
// Floating values are truncated toward zero and integral values wrap to the target width;
// both cases succeed with Lossy set. INTEGER uses the 32-bit range.
func CastNumeric(value any, target models.FieldType) (Result, error) {
	number, ok := utils.ToNumber(value)
	if !ok {
		return Result{}, errors.NewConversionError(value, fmt.Sprintf("%T", value), string(target), fmt.Errorf("not a number"))
	}

	switch target {
	case models.FieldTypeFloat:
		f := number.AsFloat()
		narrowed := float32(f)
		if number.IsFloat {
			return Result{Value: narrowed, Lossy: !math.IsNaN(f) && float64(narrowed) != f}, nil
		}
		return Result{Value: narrowed, Lossy: int64(narrowed) != number.Int}, nil
	case models.FieldTypeDouble:
		if number.IsFloat {
			return Result{Value: number.Float}, nil
		}
		f := float64(number.Int)
		return Result{Value: f, Lossy: int64(f) != number.Int}, nil
	}

	if !target.IsIntegral() {
		return Result{}, errors.NewConversionError(value, fmt.Sprintf("%T", value), string(target), errors.ErrUnsupportedConversion)
	}

	whole := number.Int
	lossy := false
	if number.IsFloat {
		f := number.Float
		if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
			return Result{}, errors.NewConversionError(value, "DOUBLE", string(target), fmt.Errorf("value out of range"))
		}
		truncated := math.Trunc(f)
		lossy = truncated != f
		whole = int64(truncated)
	}

	switch target {
	case models.FieldTypeByte:
		narrowed := int8(whole)
		return Result{Value: narrowed, Lossy: lossy || int64(narrowed) != whole}, nil
	case models.FieldTypeShort:
		narrowed := int16(whole)
		return Result{Value: narrowed, Lossy: lossy || int64(narrowed) != whole}, nil
	case models.FieldTypeInteger:
		narrowed := int32(whole)
		return Result{Value: int(narrowed), Lossy: lossy || int64(narrowed) != whole}, nil
	default:
		return Result{Value: whole, Lossy: lossy}, nil
	}
}
