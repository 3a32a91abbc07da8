// Package oasaggregate merges the OpenAPI documents published by a fleet of
// independently running microservices into a single document for one API
// explorer.
//
// # Overview
//
// The module is split into small packages:
//
//   - registry: the static list of services (name + document URL) to query
//   - fetcher: fetches and decodes one service's OpenAPI JSON document
//   - aggregator: folds every fetched document into one aggregate document
//   - document: the document model shared by the packages above
//   - oaserrors: typed errors for fetch, response, decode and config failures
//
// # Quick Start
//
//	reg := registry.Default()
//	agg := aggregator.New(aggregator.WithConcurrency(4))
//	report, err := agg.ProcessAll(ctx, reg.Info, reg.Entries())
//	if err != nil {
//		log.Fatal(err) // malformed registry
//	}
//	for _, r := range report.Results {
//		fmt.Println(r.Detail)
//	}
//	data, _ := report.Document.MarshalIndent()
//
// # Merge rules
//
// Sources are folded in registry order. Paths and components use a
// two-level last-wins overwrite: a path (or component category) already in
// the aggregate keeps its other keys, and each incoming key replaces the
// existing one. Servers are de-duplicated by URL.
//
// One unreachable or malformed service never aborts a run: it yields a
// failure result and contributes nothing to the aggregate.
package oasaggregate
