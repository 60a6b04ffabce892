// Package retry retries transient failures with exponential backoff.
//
// [Do] runs an operation until it succeeds, the attempt budget is spent, the
// context ends, or the operation returns an error wrapped with [Fatal]. The
// management API client uses it for idempotent reads.
package retry
