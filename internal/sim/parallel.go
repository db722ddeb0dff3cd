package sim

import (
	"context"
	"sync"
)

// Ensemble runs independent bodies concurrently. Bodies share nothing, so
// each goroutine owns its state; metrics and observers are not attached.
type Ensemble struct {
	integrator func() Integrator
}

func NewEnsemble(integrator func() Integrator) *Ensemble {
	return &Ensemble{integrator: integrator}
}

func (e *Ensemble) Run(ctx context.Context, bodies []Body, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(bodies))
	errs := make([]error, len(bodies))

	var wg sync.WaitGroup
	for i := range bodies {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			s := New(e.integrator())
			results[idx], errs[idx] = s.Run(ctx, bodies[idx], cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
