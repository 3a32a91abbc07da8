// Package oaserrors provides structured error types for oasaggregate.
//
// Import path: github.com/MrLipa/oasaggregate/oaserrors
//
// # Error Types
//
//   - [FetchError]: transport failures (DNS, connection refused, timeout)
//   - [ResponseError]: non-2xx HTTP responses
//   - [DecodeError]: invalid JSON/YAML or a document without a paths object
//   - [ConfigError]: malformed registry entries and invalid options
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrFetch]: Matches any [FetchError]
//   - [ErrResponse]: Matches any [ResponseError]
//   - [ErrDecode]: Matches any [DecodeError]
//   - [ErrConfig]: Matches any [ConfigError]
//
// The first three are per-service and recoverable: the aggregator turns
// them into a failure result and moves on. A [ConfigError] stops a run
// before anything is fetched.
//
// # Error Chaining
//
// FetchError, DecodeError and ConfigError carry a Cause and implement
// Unwrap(), so the standard error chain reaches the root cause:
//
//	var fetchErr *oaserrors.FetchError
//	if errors.As(err, &fetchErr) && errors.Is(fetchErr, context.DeadlineExceeded) {
//	    // the service did not answer in time
//	}
package oaserrors
