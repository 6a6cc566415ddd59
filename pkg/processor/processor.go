// Package processor runs batches of document sets through a mapping context with a pool of workers.
package processor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/engine"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// Job is one set of documents processed by one session.
type Job struct {
	ID         string
	Sources    map[string]any
	Targets    map[string]any
	Properties map[string]any
}

// Result is the outcome of one job. Session is nil when the job never started.
type Result struct {
	JobID    string
	Session  *engine.Session
	Targets  map[string]any
	Error    error
	Duration time.Duration
}

// Failed reports a fatal pipeline error or a job that could not start.
func (r Result) Failed() bool {
	return r.Error != nil
}

// SessionObserver is notified after every processed session.
type SessionObserver interface {
	ObserveSession(session *engine.Session, elapsed time.Duration, err error)
}

type ProcessorConfig struct {
	// WorkerCount is the number of sessions processed in parallel
	WorkerCount int

	// ProcessTimeout bounds a whole batch. Jobs not started when it expires fail with the
	// context error; a running session always completes.
	ProcessTimeout time.Duration
}

func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		WorkerCount:    4,
		ProcessTimeout: 30 * time.Second,
	}
}

// Processor fans jobs out over sessions of one mapping context.
type Processor struct {
	config   ProcessorConfig
	logger   ectologger.Logger
	observer SessionObserver

	mu             sync.Mutex
	jobsProcessed  int64
	jobsFailed     int64
	jobsWithErrors int64
}

func NewProcessor(config ProcessorConfig, logger ectologger.Logger) *Processor {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}
	return &Processor{
		config: config,
		logger: logger,
	}
}

// SetObserver registers an observer, such as the metrics exporter.
func (p *Processor) SetObserver(observer SessionObserver) {
	p.observer = observer
}

// ProcessBatch processes every job and returns the results in job order.
func (p *Processor) ProcessBatch(ctx context.Context, mappingContext *engine.Context, jobs []Job) []Result {
	ctx, span := tracing.StartSpan(ctx, "processor.ProcessBatch", attribute.Int("jobs", len(jobs)))
	defer span.End()

	if p.config.ProcessTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.ProcessTimeout)
		defer cancel()
	}

	results := make([]Result, len(jobs))
	queue := make(chan int)
	var wg sync.WaitGroup

	workers := min(p.config.WorkerCount, len(jobs))
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range queue {
				results[i] = p.ProcessJob(ctx, mappingContext, withID(jobs[i], i))
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)
	wg.Wait()

	return results
}

func withID(job Job, position int) Job {
	if job.ID == "" {
		job.ID = fmt.Sprintf("job-%d", position+1)
	}
	return job
}

// ProcessJob runs one job through a fresh session.
func (p *Processor) ProcessJob(ctx context.Context, mappingContext *engine.Context, job Job) Result {
	start := time.Now()
	result := Result{JobID: job.ID}

	if err := ctx.Err(); err != nil {
		result.Error = errors.Wrapf(err, "job %s not started", job.ID)
		p.record(result)
		return result
	}

	session, err := p.prepare(mappingContext, job)
	if err != nil {
		result.Error = errors.Wrapf(err, "job %s", job.ID)
		p.record(result)
		return result
	}
	result.Session = session

	err = mappingContext.Process(ctx, session)
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = err
	}
	result.Targets = targets(session.Definition(), session)

	if p.observer != nil {
		p.observer.ObserveSession(session, result.Duration, err)
	}

	p.logger.WithContext(ctx).WithFields(map[string]any{
		"job_id":      job.ID,
		"session_id":  session.ID(),
		"errors":      session.ErrorCount(),
		"warnings":    session.WarnCount(),
		"duration_ms": result.Duration.Milliseconds(),
	}).Debug("Processed job")

	p.record(result)
	return result
}

func (p *Processor) prepare(mappingContext *engine.Context, job Job) (*engine.Session, error) {
	session, err := mappingContext.CreateSession()
	if err != nil {
		return nil, err
	}
	for docID, document := range job.Sources {
		if err := session.SetSourceDocument(docID, document); err != nil {
			return nil, err
		}
	}
	for docID, document := range job.Targets {
		if err := session.SetTargetDocument(docID, document); err != nil {
			return nil, err
		}
	}
	for name, value := range job.Properties {
		session.SetProperty(name, value)
	}
	return session, nil
}

func targets(def *models.MappingDefinition, session *engine.Session) map[string]any {
	out := map[string]any{}
	for _, ds := range def.DataSources {
		if ds.Type != models.DataSourceTarget {
			continue
		}
		if document, ok := session.TargetDocument(ds.ID); ok {
			out[ds.ID] = document
		}
	}
	return out
}

func (p *Processor) record(result Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobsProcessed++
	switch {
	case result.Failed():
		p.jobsFailed++
	case result.Session != nil && result.Session.HasErrors():
		p.jobsWithErrors++
	}
}

type Stats struct {
	JobsProcessed  int64
	JobsFailed     int64
	JobsWithErrors int64
}

func (p *Processor) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		JobsProcessed:  p.jobsProcessed,
		JobsFailed:     p.jobsFailed,
		JobsWithErrors: p.jobsWithErrors,
	}
}
