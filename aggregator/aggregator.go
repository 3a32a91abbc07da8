package aggregator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MrLipa/oasaggregate"
	"github.com/MrLipa/oasaggregate/document"
	"github.com/MrLipa/oasaggregate/fetcher"
	"github.com/MrLipa/oasaggregate/internal/httputil"
	"github.com/MrLipa/oasaggregate/registry"
)

// DocumentFetcher retrieves and decodes one service document.
// *fetcher.Fetcher is the production implementation.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) (*document.Source, error)
}

// MetricsRecorder receives run instrumentation.
type MetricsRecorder interface {
	ObserveSource(outcome Outcome, elapsed time.Duration)
	ObserveAggregate(stats document.Stats)
}

// Outcome is the terminal state of one source in a run.
type Outcome string

const (
	// OutcomeSuccess means the source was fetched and folded.
	OutcomeSuccess Outcome = "success"
	// OutcomeFailure means the source contributed nothing.
	OutcomeFailure Outcome = "failure"
)

// Result reports what happened to one registry entry.
type Result struct {
	Source   string        `json:"source"`
	URL      string        `json:"url"`
	Outcome  Outcome       `json:"outcome"`
	Detail   string        `json:"detail"`
	Err      error         `json:"-"`
	Duration time.Duration `json:"duration"`
	// Collisions counts keys this source overwrote (or, with
	// StrategyAcceptLeft, left alone) in the aggregate.
	Collisions int `json:"collisions,omitempty"`
}

// Succeeded reports whether the source was folded.
func (r Result) Succeeded() bool {
	return r.Outcome == OutcomeSuccess
}

// String returns the human-readable detail line.
func (r Result) String() string {
	return r.Detail
}

// Report is the outcome of a ProcessAll run.
type Report struct {
	// RunID identifies the run in logs.
	RunID string
	// Document is the aggregate, holding contributions of every source
	// that succeeded.
	Document *document.Aggregate
	// Results has one entry per input entry, in input order.
	Results   []Result
	Succeeded int
	Failed    int
	Stats     document.Stats
	Elapsed   time.Duration
}

// Aggregator is the merge engine. It is safe for concurrent use; each
// ProcessAll call owns its own Accumulator.
type Aggregator struct {
	fetcher     DocumentFetcher
	logger      oasaggregate.Logger
	concurrency int
	strategy    CollisionStrategy
	metrics     MetricsRecorder
}

// New creates an Aggregator.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		fetcher:     fetcher.New(),
		concurrency: DefaultConcurrency,
		strategy:    StrategyAcceptRight,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Aggregator) log() oasaggregate.Logger {
	return oasaggregate.OrNop(a.logger)
}

// fetched is the outcome of the fetch half of a merge.
type fetched struct {
	src     *document.Source
	err     error
	elapsed time.Duration
}

// MergeOne fetches entry's document and folds it into acc. It never
// returns an error: every failure, including a malformed entry, becomes a
// failure Result and leaves acc untouched.
func (a *Aggregator) MergeOne(ctx context.Context, entry registry.SourceEntry, acc *Accumulator) Result {
	if err := entry.Validate(); err != nil {
		return a.finish(a.log(), entry, fetched{err: err}, acc)
	}
	return a.finish(a.log(), entry, a.fetch(ctx, a.log(), entry), acc)
}

func (a *Aggregator) fetch(ctx context.Context, log oasaggregate.Logger, entry registry.SourceEntry) fetched {
	log.Debug("fetching document", "source", entry.Name, "url", entry.URL)
	start := time.Now()
	src, err := a.fetcher.Fetch(ctx, entry.URL)
	return fetched{src: src, err: err, elapsed: time.Since(start)}
}

// finish folds a fetched document (or reports its failure) and builds the
// entry's Result.
func (a *Aggregator) finish(log oasaggregate.Logger, entry registry.SourceEntry, f fetched, acc *Accumulator) Result {
	log = log.With("source", entry.Name)
	res := Result{Source: entry.Name, URL: entry.URL, Duration: f.elapsed}

	var base string
	err := f.err
	if err == nil {
		base, err = httputil.BaseURL(entry.URL)
	}
	if err != nil {
		res.Outcome = OutcomeFailure
		res.Err = err
		res.Detail = fmt.Sprintf("Error fetching/merging %s: %v", entry.Name, err)
		log.Warn("source failed", "url", entry.URL, "error", err)
		a.observe(res)
		return res
	}

	server := document.Server{URL: base, Description: "Generated server url for " + entry.Name}
	collisions := acc.Fold(server, f.src)
	for _, c := range collisions {
		log.Debug("key collision", "kind", string(c.Kind), "parent", c.Parent, "key", c.Key)
	}

	res.Outcome = OutcomeSuccess
	res.Collisions = len(collisions)
	res.Detail = "Successfully merged " + entry.Name
	log.Info("source merged", "paths", len(f.src.Paths), "collisions", len(collisions), "elapsed", f.elapsed)
	a.observe(res)
	return res
}

func (a *Aggregator) observe(res Result) {
	if a.metrics != nil {
		a.metrics.ObserveSource(res.Outcome, res.Duration)
	}
}

// ProcessAll aggregates the documents of entries into a new aggregate
// headed by info.
//
// Entries are validated first; a malformed entry returns a
// *oaserrors.ConfigError before anything is fetched. Otherwise the error is
// nil and the Report holds exactly one Result per entry, in input order.
// Documents are fetched in parallel (see WithConcurrency) but folded in
// input order, so collisions resolve the same way on every run.
func (a *Aggregator) ProcessAll(ctx context.Context, info document.Info, entries []registry.SourceEntry) (*Report, error) {
	if err := registry.ValidateEntries(entries); err != nil {
		return nil, err
	}

	start := time.Now()
	runID := uuid.NewString()
	log := a.log().With("run_id", runID)
	log.Info("aggregation started", "sources", len(entries), "concurrency", a.concurrency)

	outcomes := make([]fetched, len(entries))
	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, entry := range entries {
		g.Go(func() error {
			outcomes[i] = a.fetch(ctx, log, entry)
			return nil
		})
	}
	_ = g.Wait()

	acc := NewAccumulator(info, a.strategy)
	report := &Report{
		RunID:   runID,
		Results: make([]Result, len(entries)),
	}
	for i, entry := range entries {
		res := a.finish(log, entry, outcomes[i], acc)
		if res.Succeeded() {
			report.Succeeded++
		} else {
			report.Failed++
		}
		report.Results[i] = res
	}

	report.Document = acc.Document()
	report.Stats = report.Document.Stats()
	report.Elapsed = time.Since(start)
	if a.metrics != nil {
		a.metrics.ObserveAggregate(report.Stats)
	}

	log.Info("aggregation finished",
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"paths", report.Stats.PathCount,
		"servers", report.Stats.ServerCount,
		"elapsed", report.Elapsed)
	return report, nil
}
