// Package domain holds the core types shared across the notification service:
// the persisted notification record, the wire envelopes exchanged over the
// WebSocket channel, and the interfaces the delivery layer is built against.
package domain
