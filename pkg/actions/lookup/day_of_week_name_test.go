package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayOfWeekNameAction(t *testing.T) {
	action, err := NewDayOfWeekNameAction("day_of_week_name", DayOfWeekNameArguments{Fallback: "Funday"})
	require.NoError(t, err)

	expected := []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	for i, name := range expected {
		result, err := action.Execute(i + 1)
		require.NoError(t, err)
		assert.Equal(t, name, result)
	}

	for _, day := range []int{0, 8, -1, 100} {
		result, err := action.Execute(day)
		require.NoError(t, err)
		assert.Equal(t, "Funday", result)
	}
}

func TestDayOfWeekNameDefaultFallback(t *testing.T) {
	action, err := NewDayOfWeekNameAction("day_of_week_name", nil)
	require.NoError(t, err)

	result, err := action.Execute(int64(9))
	require.NoError(t, err)
	assert.Equal(t, "Unknown", result)
}
