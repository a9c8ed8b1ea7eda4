// Package redis provides the Redis client and the presence cache mirroring
// which users currently hold a live connection on which instance.
//
// The client carries a metrics hook and a circuit breaker hook; when Redis is
// unhealthy the presence mirror degrades silently, never the push path.
package redis
