package engine

import (
	"context"
	"sync/atomic"
	"time"
)

// RoleSnapshot holds the counters of one role at the time of a snapshot.
type RoleSnapshot struct {
	Invocations  int64         `json:"invocations"`
	Successes    int64         `json:"successes"`
	Errors       int64         `json:"errors"`
	MinLatency   time.Duration `json:"min_latency"`
	MaxLatency   time.Duration `json:"max_latency"`
	TotalLatency time.Duration `json:"total_latency"`
}

// StatisticsSnapshot is a point in time copy of a module's counters.
type StatisticsSnapshot struct {
	Source RoleSnapshot `json:"source"`
	Target RoleSnapshot `json:"target"`
}

type roleCounters struct {
	invocations  atomic.Int64
	successes    atomic.Int64
	errors       atomic.Int64
	minLatency   atomic.Int64
	maxLatency   atomic.Int64
	totalLatency atomic.Int64
}

func (c *roleCounters) record(latency time.Duration, err error) {
	c.invocations.Add(1)
	if err != nil {
		c.errors.Add(1)
	} else {
		c.successes.Add(1)
	}

	nanos := max(int64(latency), 0)
	c.totalLatency.Add(nanos)
	// minLatency holds the minimum plus one so that zero means no sample since the last reset
	for {
		current := c.minLatency.Load()
		if current != 0 && current <= nanos+1 {
			break
		}
		if c.minLatency.CompareAndSwap(current, nanos+1) {
			break
		}
	}
	for {
		current := c.maxLatency.Load()
		if current >= nanos || c.maxLatency.CompareAndSwap(current, nanos) {
			break
		}
	}
}

func (c *roleCounters) drain() RoleSnapshot {
	return RoleSnapshot{
		Invocations:  c.invocations.Swap(0),
		Successes:    c.successes.Swap(0),
		Errors:       c.errors.Swap(0),
		MinLatency:   time.Duration(max(c.minLatency.Swap(0)-1, 0)),
		MaxLatency:   time.Duration(c.maxLatency.Swap(0)),
		TotalLatency: time.Duration(c.totalLatency.Swap(0)),
	}
}

// Statistics counts module executions for the source and target roles independently.
// It is shared by every instance created from one registration and is safe for concurrent use.
type Statistics struct {
	source roleCounters
	target roleCounters
}

func NewStatistics() *Statistics {
	return &Statistics{}
}

func (s *Statistics) RecordSource(latency time.Duration, err error) {
	s.source.record(latency, err)
}

func (s *Statistics) RecordTarget(latency time.Duration, err error) {
	s.target.record(latency, err)
}

// Snapshot returns the counters and resets them. Each counter is reset atomically on its own;
// a record racing with a snapshot lands in either this snapshot or the next.
func (s *Statistics) Snapshot() StatisticsSnapshot {
	return StatisticsSnapshot{
		Source: s.source.drain(),
		Target: s.target.drain(),
	}
}

// instrumentedModule counts source reads and target writes of the wrapped module.
type instrumentedModule struct {
	Module
	stats *Statistics
	now   func() time.Time
}

func instrument(m Module, stats *Statistics) Module {
	return &instrumentedModule{Module: m, stats: stats, now: time.Now}
}

func (m *instrumentedModule) Unwrap() Module {
	return m.Module
}

func (m *instrumentedModule) ProcessInputMapping(ctx context.Context, session *Session) error {
	start := m.now()
	err := m.Module.ProcessInputMapping(ctx, session)
	m.stats.RecordSource(m.now().Sub(start), err)
	return err
}

func (m *instrumentedModule) WriteTargetValue(ctx context.Context, session *Session) error {
	start := m.now()
	err := m.Module.WriteTargetValue(ctx, session)
	m.stats.RecordTarget(m.now().Sub(start), err)
	return err
}
