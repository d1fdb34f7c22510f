// Package collector discovers risk-relevant events for a ticker and turns
// them into normalized signal records for the scoring core.
package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stockradar/stockradar/internal/signal"
)

// Collector is a pluggable upstream provider producing signals for one
// ticker within a time window.
type Collector interface {
	Name() string
	Collect(ctx context.Context, ticker string, from, to time.Time) ([]signal.Signal, error)
}

// Registry keeps track of available collectors and fans a ticker out to all
// of them.
type Registry struct {
	collectors []Collector
}

// NewRegistry builds a registry with the provided collectors.
func NewRegistry(collectors ...Collector) (*Registry, error) {
	if len(collectors) == 0 {
		return nil, errors.New("collector: at least one collector is required")
	}
	return &Registry{collectors: collectors}, nil
}

// Add registers a new collector instance.
func (r *Registry) Add(c Collector) {
	r.collectors = append(r.collectors, c)
}

// CollectAll aggregates signals from every registered collector, preserving
// registration order. A failure from any collector fails the whole ticker;
// callers isolate that failure per entity.
func (r *Registry) CollectAll(ctx context.Context, ticker string, from, to time.Time) ([]signal.Signal, error) {
	var results []signal.Signal
	for _, c := range r.collectors {
		signals, err := c.Collect(ctx, ticker, from, to)
		if err != nil {
			return nil, fmt.Errorf("collect from %s: %w", c.Name(), err)
		}
		results = append(results, signals...)
	}
	return results, nil
}
