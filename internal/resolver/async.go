package resolver

import (
	"context"
	"sync"
)

// Sink receives resolver answers keyed by normalized link key.
type Sink interface {
	ApplyResolutions(statuses map[string]bool) bool
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(statuses map[string]bool) bool

// ApplyResolutions calls f(statuses).
func (f SinkFunc) ApplyResolutions(statuses map[string]bool) bool {
	return f(statuses)
}

type lookupFunc func(ctx context.Context, keys []string) (map[string]bool, error)

// async runs lookups in the background and delivers their answers.
type async struct {
	sink Sink
	wg   sync.WaitGroup

	mu      sync.Mutex
	lastErr error
}

func (a *async) deliver(ctx context.Context, keys []string, lookup lookupFunc) {
	batch := make([]string, len(keys))
	copy(batch, keys)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		answers, err := lookup(ctx, batch)
		if err != nil {
			tracer().Errorf("lookup of %d keys: %v", len(batch), err)
			a.mu.Lock()
			a.lastErr = err
			a.mu.Unlock()
		}
		if len(answers) == 0 {
			return
		}
		changed := a.sink.ApplyResolutions(answers)
		tracer().Debugf("delivered %d answers, changed: %v", len(answers), changed)
	}()
}

// Wait blocks until every lookup started so far has been delivered.
func (a *async) Wait() {
	a.wg.Wait()
}

// Err returns the error of the last failed lookup.
func (a *async) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}
