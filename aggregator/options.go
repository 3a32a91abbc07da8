package aggregator

import (
	"github.com/MrLipa/oasaggregate"
)

// DefaultConcurrency is the number of documents fetched in parallel.
const DefaultConcurrency = 4

// Option is a function that configures an Aggregator
type Option func(*Aggregator)

// WithFetcher sets the collaborator used to retrieve documents.
// The default is fetcher.New().
func WithFetcher(f DocumentFetcher) Option {
	return func(a *Aggregator) {
		if f != nil {
			a.fetcher = f
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l oasaggregate.Logger) Option {
	return func(a *Aggregator) {
		a.logger = l
	}
}

// WithConcurrency bounds the number of parallel fetches in ProcessAll.
// 1 fetches sequentially; values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n >= 1 {
			a.concurrency = n
		}
	}
}

// WithStrategy sets the collision strategy used by ProcessAll.
func WithStrategy(s CollisionStrategy) Option {
	return func(a *Aggregator) {
		if s != "" {
			a.strategy = s
		}
	}
}

// WithMetrics sets a recorder notified of every source outcome and of the
// final aggregate.
func WithMetrics(m MetricsRecorder) Option {
	return func(a *Aggregator) {
		a.metrics = m
	}
}
