// Package aggregator is the merge engine: it fetches each registered
// service document and folds it into one aggregate OpenAPI document.
//
// # Partial failure
//
// A source that cannot be fetched, answers with a non-2xx status, or
// returns something that is not an OpenAPI document yields a failure
// [Result] and contributes nothing. The run always completes and always
// returns one Result per source, in registry order.
//
// # Merge rules
//
// The aggregate is owned by an [Accumulator], which serializes folds. A
// fold applies a two-level overwrite:
//
//   - paths: an unseen path is inserted; for a known path each incoming key
//     (get, post, parameters, ...) replaces the same key and every other
//     key is kept
//   - components: an unseen category is inserted; for a known category each
//     incoming definition replaces the same-named one
//
// With the default [StrategyAcceptRight], the source folded later wins a
// collision. Sources are folded in registry order even when fetched in
// parallel. Servers are listed once per distinct scheme://host:port.
//
// # Example
//
//	agg := aggregator.New(
//	    aggregator.WithConcurrency(4),
//	    aggregator.WithLogger(oasaggregate.NewSlogAdapter(nil)),
//	)
//	report, err := agg.ProcessAll(ctx, reg.Info, reg.Entries())
//	if err != nil {
//	    return err // malformed registry
//	}
//	for _, r := range report.Results {
//	    fmt.Println(r.Detail)
//	}
package aggregator
