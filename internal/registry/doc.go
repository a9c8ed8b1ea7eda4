// Package registry implements the per-user connection registry using the actor
// pattern.
//
// A single goroutine owns the user-to-connection map and processes typed
// commands from a channel (no mutexes). Per-connection write goroutines with
// buffered send channels keep pushes to one user in submission order and keep
// a slow client from ever blocking the actor.
package registry
