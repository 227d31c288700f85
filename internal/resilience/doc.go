// Package resilience groups the fault-tolerance helpers used by outbound
// provider calls and the job queue:
//
//   - circuitbreaker: per-provider breakers over github.com/sony/gobreaker
//   - retry: exponential backoff with jitter and permanent-error marking
package resilience
