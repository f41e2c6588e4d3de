// Package httputil fetches builder-emitted graphs over HTTP.
//
// # Overview
//
// Graphs usually live on disk next to the build, but CI systems and
// shared debugging workflows serve them over HTTP instead. This package
// provides the small amount of infrastructure that needs:
//
//   - [Fetch]: GET a graph's JSON with sensible timeouts
//   - [Retry]: Automatic retry with exponential backoff
//
// # Retry
//
// [Retry] re-runs an operation when it fails with a transient error:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Only errors wrapped in [RetryableError] are retried; everything else
// (notably 4xx responses) fails immediately. The delay doubles after each
// failed attempt.
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Request timeout: 30 seconds
//   - Max retries: 3
//   - Base backoff: 1 second
//
// Construct a [Client] directly to override any of them.
package httputil
