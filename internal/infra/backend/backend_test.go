package backend

import (
	"context"
	"sync"
	"time"

	"polysum/internal/budget"
	"polysum/internal/domain/entity"
)

type fakeMetrics struct {
	mu          sync.Mutex
	generations []bool
	lengths     []int
}

func (f *fakeMetrics) RecordGeneration(_ string, success bool, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generations = append(f.generations, success)
}

func (f *fakeMetrics) RecordOutputLength(_ string, length int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lengths = append(f.lengths, length)
}

// quiet replaces the guard's sleeper and metrics so tests run instantly.
func quiet(g *guard) *fakeMetrics {
	m := &fakeMetrics{}
	g.metrics = m
	g.retryConfig.Sleep = func(context.Context, time.Duration) error { return nil }
	return m
}

func testParams() budget.GenerationParams {
	return budget.TokenBudget{
		MinNewTokens:      96,
		MaxNewTokens:      120,
		LengthPenalty:     1.05,
		NoRepeatNgramSize: 3,
		Target:            120,
	}.Params()
}

func testConfig(kind Kind) Config {
	cfg := DefaultConfig(entity.LangEnglish)
	cfg.Kind = kind
	return cfg
}
