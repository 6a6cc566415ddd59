package number

import (
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type aggregator func(numbers []float64) any

// NewNumberSumAction adds every number of a collection. An empty collection sums to 0.
func NewNumberSumAction(key string, _ any) (models.Action, error) {
	return &NumberAggregateAction{key: key, aggregate: func(numbers []float64) any {
		total := 0.0
		for _, n := range numbers {
			total += n
		}
		return total
	}}, nil
}

// NewNumberAverageAction returns nil for an empty collection.
func NewNumberAverageAction(key string, _ any) (models.Action, error) {
	return &NumberAggregateAction{key: key, aggregate: func(numbers []float64) any {
		if len(numbers) == 0 {
			return nil
		}
		total := 0.0
		for _, n := range numbers {
			total += n
		}
		return total / float64(len(numbers))
	}}, nil
}

func NewNumberMaxAction(key string, _ any) (models.Action, error) {
	return &NumberAggregateAction{key: key, aggregate: func(numbers []float64) any {
		if len(numbers) == 0 {
			return nil
		}
		result := numbers[0]
		for _, n := range numbers[1:] {
			result = max(result, n)
		}
		return result
	}}, nil
}

func NewNumberMinAction(key string, _ any) (models.Action, error) {
	return &NumberAggregateAction{key: key, aggregate: func(numbers []float64) any {
		if len(numbers) == 0 {
			return nil
		}
		result := numbers[0]
		for _, n := range numbers[1:] {
			result = min(result, n)
		}
		return result
	}}, nil
}

// NumberAggregateAction reduces a whole collection of numbers. Nil elements are skipped.
type NumberAggregateAction struct {
	key       string
	aggregate aggregator
}

func (a *NumberAggregateAction) GetName() string {
	return a.key
}

func (a *NumberAggregateAction) Execute(input any) (any, error) {
	items, err := utils.AnyToType[[]any](input)
	if err != nil {
		return nil, errors.WrapMappingError(err).AddAction(a.key)
	}

	numbers := make([]float64, 0, len(items))
	for i, item := range items {
		if item == nil {
			continue
		}
		num, err := utils.AnyToType[float64](item)
		if err != nil {
			return nil, errors.WrapMappingError(err).AddAction(a.key).AddItemIndex(i)
		}
		numbers = append(numbers, num)
	}

	return a.aggregate(numbers), nil
}
