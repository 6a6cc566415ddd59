package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct {
	BaseModule
}

func (m *failingWriter) WriteTargetValue(_ context.Context, _ *Session) error {
	return fmt.Errorf("disk full")
}

// stepClock advances by the next duration on every second call.
func stepClock(steps ...time.Duration) func() time.Time {
	now := time.Unix(0, 0)
	calls := 0
	return func() time.Time {
		if calls%2 == 1 && len(steps) > 0 {
			now = now.Add(steps[0])
			steps = steps[1:]
		}
		calls++
		return now
	}
}

func TestInstrumentedModule(t *testing.T) {
	stats := NewStatistics()
	module := &instrumentedModule{Module: &failingWriter{}, stats: stats, now: stepClock(5*time.Millisecond, 2*time.Millisecond, 9*time.Millisecond)}

	require.NoError(t, module.ProcessInputMapping(context.Background(), nil))
	require.NoError(t, module.ProcessInputMapping(context.Background(), nil))
	require.Error(t, module.WriteTargetValue(context.Background(), nil))

	snapshot := stats.Snapshot()
	assert.Equal(t, RoleSnapshot{
		Invocations:  2,
		Successes:    2,
		MinLatency:   2 * time.Millisecond,
		MaxLatency:   5 * time.Millisecond,
		TotalLatency: 7 * time.Millisecond,
	}, snapshot.Source)
	assert.Equal(t, RoleSnapshot{
		Invocations:  1,
		Errors:       1,
		MinLatency:   9 * time.Millisecond,
		MaxLatency:   9 * time.Millisecond,
		TotalLatency: 9 * time.Millisecond,
	}, snapshot.Target)

	assert.Equal(t, StatisticsSnapshot{}, stats.Snapshot())
	assert.Same(t, module.Module, Unwrap(module))
}

func TestStatisticsConcurrentRecords(t *testing.T) {
	stats := NewStatistics()

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(latency time.Duration) {
			defer wg.Done()
			stats.RecordSource(latency, nil)
			stats.RecordTarget(latency, fmt.Errorf("failed"))
		}(time.Duration(i) * time.Microsecond)
	}
	wg.Wait()

	snapshot := stats.Snapshot()
	assert.Equal(t, int64(50), snapshot.Source.Invocations)
	assert.Equal(t, int64(50), snapshot.Source.Successes)
	assert.Equal(t, int64(50), snapshot.Target.Errors)
	assert.Equal(t, time.Microsecond, snapshot.Source.MinLatency)
	assert.Equal(t, 50*time.Microsecond, snapshot.Target.MaxLatency)
	assert.Equal(t, 1275*time.Microsecond, snapshot.Source.TotalLatency)
}

func TestStatisticsKeepsZeroMinimum(t *testing.T) {
	stats := NewStatistics()
	stats.RecordSource(0, nil)
	stats.RecordSource(3*time.Millisecond, nil)

	snapshot := stats.Snapshot()
	assert.Equal(t, time.Duration(0), snapshot.Source.MinLatency)
	assert.Equal(t, 3*time.Millisecond, snapshot.Source.MaxLatency)

	stats.RecordSource(4*time.Millisecond, nil)
	assert.Equal(t, 4*time.Millisecond, stats.Snapshot().Source.MinLatency)
}
