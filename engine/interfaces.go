package engine

import (
	"context"
	"time"

	"rankboard/core"
)

// Source supplies an unordered roster. Implementations return fresh records
// in their stored order.
type Source interface {
	Load(ctx context.Context) ([]*core.Record, error)
}

// Observer receives operation timings. metrics.Metrics implements it.
type Observer interface {
	ObserveSort(size int, took time.Duration)
	ObserveUpdate(outcome string, took time.Duration)
}

// Update outcomes reported to an Observer.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
)

type nopObserver struct{}

func (nopObserver) ObserveSort(int, time.Duration)      {}
func (nopObserver) ObserveUpdate(string, time.Duration) {}
