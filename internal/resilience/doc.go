// Package resilience groups the fault-tolerance helpers used around every
// outbound call: circuitbreaker (sony/gobreaker wrappers for backends, the
// cache database and article fetching) and retry (linear or exponential
// backoff with pluggable error classification).
package resilience
