// Package httputil provides HTTP client plumbing for outgoing service calls.
//
// # Overview
//
//   - [NewClient]: an *http.Client whose transport is traced with
//     OpenTelemetry and reports to the observability HTTP hooks
//   - [Retry]: bounded retry with exponential backoff
//
// # Retry
//
// [Retry] only repeats errors wrapped in [RetryableError]; everything else
// is returned immediately. Callers decide what is transient:
//
//	err := httputil.Retry(ctx, attempts, time.Second, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
//
// With attempts set to 1 the call runs exactly once.
package httputil
