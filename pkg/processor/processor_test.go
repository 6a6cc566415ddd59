package processor

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/engine"
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/modules/jsonmodule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noopLogger = ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})

func greetingDefinition() *models.MappingDefinition {
	return &models.MappingDefinition{
		Name: "greeting",
		DataSources: []models.DataSource{
			{ID: "in", URI: "json:in", Type: models.DataSourceSource},
			{ID: "out", URI: "json:out", Type: models.DataSourceTarget},
		},
		Mappings: []models.Mapping{
			{
				Type:    models.MappingTypeMap,
				Sources: []*models.Field{{DocID: "in", Path: "/name", Type: models.FieldTypeString}},
				Targets: []*models.Field{{
					DocID:   "out",
					Path:    "/greeting",
					Type:    models.FieldTypeString,
					Actions: []models.ActionDefinition{{Name: "prepend", Arguments: map[string]any{"value": "Hello "}}},
				}},
			},
			{
				Type:    models.MappingTypeMap,
				Sources: []*models.Field{{DocID: models.PropertiesDocID, Path: "/run", Type: models.FieldTypeString}},
				Targets: []*models.Field{{DocID: "out", Path: "/run", Type: models.FieldTypeString}},
			},
		},
		Properties: []models.Property{{Name: "run", Type: models.FieldTypeString, Value: "default"}},
	}
}

func newFactory(t *testing.T) *engine.Factory {
	modules, err := engine.NewModuleRegistry(jsonmodule.Registration())
	require.NoError(t, err)
	return engine.NewFactory(noopLogger, engine.WithModuleRegistry(modules))
}

func newContext(t *testing.T) *engine.Context {
	mappingContext, err := newFactory(t).CreateContext(greetingDefinition())
	require.NoError(t, err)
	return mappingContext
}

type recordingObserver struct {
	mu       sync.Mutex
	sessions int
	fatal    int
}

func (o *recordingObserver) ObserveSession(_ *engine.Session, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sessions++
	if err != nil {
		o.fatal++
	}
}

func TestProcessBatch(t *testing.T) {
	p := NewProcessor(ProcessorConfig{WorkerCount: 3}, noopLogger)
	observer := &recordingObserver{}
	p.SetObserver(observer)

	jobs := make([]Job, 10)
	for i := range jobs {
		jobs[i] = Job{Sources: map[string]any{"in": fmt.Sprintf(`{"name":"user %d"}`, i)}}
	}
	jobs[4].ID = "custom"
	jobs[4].Properties = map[string]any{"run": "override"}

	results := p.ProcessBatch(context.Background(), newContext(t), jobs)
	require.Len(t, results, 10)

	for i, result := range results {
		require.NoError(t, result.Error)
		require.NotNil(t, result.Session)
		out, ok := result.Targets["out"].(map[string]any)
		require.True(t, ok, "job %d", i)
		assert.Equal(t, fmt.Sprintf("Hello user %d", i), out["greeting"])
	}
	assert.Equal(t, "job-1", results[0].JobID)
	assert.Equal(t, "custom", results[4].JobID)
	assert.Equal(t, "override", results[4].Targets["out"].(map[string]any)["run"])
	assert.Equal(t, "default", results[5].Targets["out"].(map[string]any)["run"])

	assert.Equal(t, 10, observer.sessions)
	assert.Zero(t, observer.fatal)
	assert.Equal(t, Stats{JobsProcessed: 10}, p.Stats())
}

func TestProcessJobFailures(t *testing.T) {
	p := NewProcessor(DefaultProcessorConfig(), noopLogger)
	mappingContext := newContext(t)

	undeclared := p.ProcessJob(context.Background(), mappingContext, Job{ID: "a", Sources: map[string]any{"missing": "{}"}})
	require.Error(t, undeclared.Error)
	assert.Nil(t, undeclared.Session)
	var configErr *errors.ConfigurationError
	assert.ErrorAs(t, undeclared.Error, &configErr)

	// no source bound: the module fails before input
	unbound := p.ProcessJob(context.Background(), mappingContext, Job{ID: "b"})
	require.Error(t, unbound.Error)
	require.NotNil(t, unbound.Session)
	var fatal *errors.FatalPipelineError
	assert.ErrorAs(t, unbound.Error, &fatal)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cancelled := p.ProcessJob(ctx, mappingContext, Job{ID: "c", Sources: map[string]any{"in": `{}`}})
	assert.ErrorIs(t, cancelled.Error, context.Canceled)

	assert.Equal(t, Stats{JobsProcessed: 3, JobsFailed: 3}, p.Stats())
}

func TestProcessBatchEmpty(t *testing.T) {
	p := NewProcessor(ProcessorConfig{}, noopLogger)
	assert.Empty(t, p.ProcessBatch(context.Background(), newContext(t), nil))
}

type countingLoader struct {
	mu    sync.Mutex
	loads map[string]int
}

func (l *countingLoader) LoadDefinition(_ context.Context, key string) (*models.MappingDefinition, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loads == nil {
		l.loads = map[string]int{}
	}
	l.loads[key]++
	if key == "broken" {
		return nil, fmt.Errorf("no such definition")
	}
	def := greetingDefinition()
	def.Name = key
	return def, nil
}

func TestContextCache(t *testing.T) {
	loader := &countingLoader{}
	cache := NewContextCache(loader, newFactory(t), ContextCacheConfig{MaxSize: 2, TTL: time.Minute})
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	first, err := cache.Get(context.Background(), "a")
	require.NoError(t, err)
	again, err := cache.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, "a", first.Definition().Name)
	assert.Equal(t, 1, loader.loads["a"])

	now = now.Add(2 * time.Minute)
	expired, err := cache.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.NotSame(t, first, expired)
	assert.Equal(t, 2, loader.loads["a"])

	now = now.Add(time.Second)
	_, err = cache.Get(context.Background(), "b")
	require.NoError(t, err)
	now = now.Add(time.Second)
	_, err = cache.Get(context.Background(), "c")
	require.NoError(t, err)

	// "a" expires first and is evicted
	stats := cache.Stats()
	assert.Equal(t, 2, stats.Size)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(4), stats.Misses)
	_, err = cache.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 3, loader.loads["a"])

	_, err = cache.Get(context.Background(), "broken")
	assert.ErrorContains(t, err, "failed to load definition broken")

	cache.Invalidate("c")
	cache.Clear()
	assert.Zero(t, cache.Stats().Size)
}

func TestContextCacheRejectsInvalidDefinition(t *testing.T) {
	loader := DefinitionLoaderFunc(func(_ context.Context, _ string) (*models.MappingDefinition, error) {
		def := greetingDefinition()
		def.DataSources[0].URI = "xml:in"
		return def, nil
	})
	cache := NewContextCache(loader, newFactory(t), DefaultContextCacheConfig())

	_, err := cache.Get(context.Background(), "xml")
	assert.ErrorContains(t, err, "failed to create context for definition xml")
	assert.Zero(t, cache.Stats().Size)
}
