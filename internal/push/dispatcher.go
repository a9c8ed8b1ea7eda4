// Package push implements the best-effort delivery dispatcher for the live
// notification channel.
package push

import (
	"errors"

	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/domain"
	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/logging"
	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/metrics"
	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/registry"
)

const (
	outcomeDelivered = "delivered"
	outcomeMiss      = "miss"
	outcomeFailed    = "failed"
)

// Dispatcher pushes notifications to a user's registered connection.
// Fire-and-forget, at-most-once: no queueing, no retries. Durability lives in
// the notification store; the push is only a latency optimization.
type Dispatcher struct {
	registry *registry.Registry
}

func NewDispatcher(reg *registry.Registry) *Dispatcher {
	return &Dispatcher{registry: reg}
}

var _ domain.Dispatcher = (*Dispatcher)(nil)

// Push delivers notification to userID's live connection if one is open and
// writable. A missing or dead connection is a normal, silent outcome: the
// client picks the record up on its next poll.
func (d *Dispatcher) Push(userID string, notification *domain.Notification) {
	client := d.registry.Lookup(userID)
	if client == nil {
		metrics.PushesTotal.WithLabelValues(outcomeMiss).Inc()
		return
	}

	data, err := domain.EncodePush(notification)
	if err != nil {
		logging.WithUser(userID).Error("Failed to encode push envelope", "error", err)
		metrics.PushesTotal.WithLabelValues(outcomeFailed).Inc()
		return
	}

	if err := client.Send(data); err != nil {
		// Treated like a lookup miss, but the entry is known dead: evict it
		// so later pushes short-circuit.
		if errors.Is(err, registry.ErrSendBufferFull) {
			logging.WithUser(userID).Warn("Evicting slow client")
			metrics.SlowClientsEvicted.Inc()
		}
		d.registry.Unregister(userID, client)
		metrics.PushesTotal.WithLabelValues(outcomeFailed).Inc()
		return
	}

	metrics.PushesTotal.WithLabelValues(outcomeDelivered).Inc()
}
