package registry

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/metrics"
)

const (
	commandTimeout = 5 * time.Second
	stopTimeout    = 10 * time.Second

	defaultRefreshInterval = 30 * time.Second
	eventBufferSize        = 256
)

// registryCmd is the command interface for the Registry actor.
type registryCmd interface{ isRegistryCmd() }

type baseRegistryCmd struct{}

func (baseRegistryCmd) isRegistryCmd() {}

type registerCmd struct {
	baseRegistryCmd
	userID string
	client *Client
}

type unregisterCmd struct {
	baseRegistryCmd
	userID string
	client *Client
}

type lookupCmd struct {
	baseRegistryCmd
	userID       string
	replyChannel chan *Client
}

type clientCountCmd struct {
	baseRegistryCmd
	replyChannel chan int
}

type stopCmd struct {
	baseRegistryCmd
}

// registryEvent is a membership change handed to the callback goroutine.
type registryEvent struct {
	userID     string
	registered bool
}

// Registry is the single source of truth for which live connection, if any,
// currently represents a user. At most one entry per user id; a later
// registration silently supersedes the prior one.
type Registry struct {
	cmdCh           chan registryCmd
	clock           clockwork.Clock
	entries         map[string]*Client
	onRegister      func(userID string)
	onUnregister    func(userID string)
	refreshInterval time.Duration
	eventCh         chan registryEvent
	eventsDone      chan struct{}
	done            chan struct{}
}

// NewRegistry creates the registry and starts its actor goroutine.
//
// onRegister fires when a user gains a registered connection and then
// periodically (every refreshInterval) while the user stays registered, so
// mirrors like the presence store can refresh TTLs. onUnregister fires when a
// user loses its registered connection. Neither fires when one connection
// merely replaces another for the same user. Both run on a single dedicated
// goroutine, in the order the actor processed the changes.
func NewRegistry(clock clockwork.Clock, onRegister, onUnregister func(userID string), refreshInterval time.Duration) *Registry {
	if refreshInterval <= 0 {
		refreshInterval = defaultRefreshInterval
	}
	r := &Registry{
		cmdCh:           make(chan registryCmd, 256),
		clock:           clock,
		entries:         make(map[string]*Client),
		onRegister:      onRegister,
		onUnregister:    onUnregister,
		refreshInterval: refreshInterval,
		eventCh:         make(chan registryEvent, eventBufferSize),
		eventsDone:      make(chan struct{}),
		done:            make(chan struct{}),
	}
	go r.dispatchEvents()
	go r.run()
	return r
}

// Register stores client as the live connection for userID. Unconditional
// upsert: any previous entry is superseded but its socket is left to its own
// close handler, which will no-op thanks to the compare-and-delete guard.
func (r *Registry) Register(userID string, client *Client) {
	r.cmdCh <- registerCmd{userID: userID, client: client}
}

// Unregister removes the entry for userID only if it still belongs to client.
// A stale close handler racing a rapid reconnect therefore never evicts the
// newer connection. No-op when absent.
func (r *Registry) Unregister(userID string, client *Client) {
	r.cmdCh <- unregisterCmd{userID: userID, client: client}
}

// Lookup returns the registered connection for userID, or nil. Commands are
// serialized, so a Lookup issued after a Register observes it.
func (r *Registry) Lookup(userID string) *Client {
	replyCh := make(chan *Client, 1)
	r.cmdCh <- lookupCmd{userID: userID, replyChannel: replyCh}

	timer := r.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case client := <-replyCh:
		return client
	case <-timer.Chan():
		slog.Warn("Registry lookup timed out", "timeout", commandTimeout)
		return nil
	}
}

// ClientCount returns the number of registered connections, or -1 on timeout.
func (r *Registry) ClientCount() int {
	replyCh := make(chan int, 1)
	r.cmdCh <- clientCountCmd{replyChannel: replyCh}

	timer := r.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case count := <-replyCh:
		return count
	case <-timer.Chan():
		slog.Warn("Registry client count timed out", "timeout", commandTimeout)
		return -1
	}
}

// Stop shuts down the registry, closing all registered connections. Blocks
// until the actor goroutine has exited or the stop timeout is reached.
func (r *Registry) Stop() {
	r.cmdCh <- stopCmd{}

	timeout := r.clock.NewTimer(stopTimeout)
	defer timeout.Stop()

	select {
	case <-r.done:
		slog.Info("Registry stopped gracefully")
	case <-timeout.Chan():
		slog.Warn("Registry stop timeout exceeded", "timeout", stopTimeout)
	}
}

func (r *Registry) run() {
	defer close(r.done)

	depthTicker := r.clock.NewTicker(1 * time.Second)
	defer depthTicker.Stop()

	refreshTicker := r.clock.NewTicker(r.refreshInterval)
	defer refreshTicker.Stop()

	for {
		select {
		case <-depthTicker.Chan():
			metrics.RegistryCommandChannelDepth.Set(float64(len(r.cmdCh)))

		case <-refreshTicker.Chan():
			for userID := range r.entries {
				r.emit(userID, true)
			}

		case cmd := <-r.cmdCh:
			switch c := cmd.(type) {
			case registerCmd:
				r.handleRegister(c)
			case unregisterCmd:
				r.handleUnregister(c)
			case lookupCmd:
				c.replyChannel <- r.entries[c.userID]
			case clientCountCmd:
				c.replyChannel <- len(r.entries)
			case stopCmd:
				r.handleStop()
				return
			default:
				slog.Warn("Registry received unknown command type", "command_type", fmt.Sprintf("%T", cmd))
			}
		}
	}
}

// dispatchEvents invokes the membership callbacks one at a time, in the order
// the actor emitted them. A disconnect's onUnregister therefore can never
// overtake a rapid reconnect's onRegister.
func (r *Registry) dispatchEvents() {
	defer close(r.eventsDone)

	for event := range r.eventCh {
		if event.registered {
			if r.onRegister != nil {
				r.onRegister(event.userID)
			}
		} else if r.onUnregister != nil {
			r.onUnregister(event.userID)
		}
	}
}

// emit hands an event to the callback goroutine without blocking the actor.
// Mirrors fed by these events are best-effort, so a full backlog drops the
// event rather than stalling command processing.
func (r *Registry) emit(userID string, registered bool) {
	select {
	case r.eventCh <- registryEvent{userID: userID, registered: registered}:
	default:
		slog.Warn("Registry event dropped, callback backlog full", "user_id", userID, "registered", registered)
	}
}

func (r *Registry) handleRegister(c registerCmd) {
	prev, exists := r.entries[c.userID]
	if exists && prev == c.client {
		// Re-auth on the same socket; nothing changed.
		return
	}

	r.entries[c.userID] = c.client

	if exists {
		// The superseded socket is not closed here; its own close handler
		// runs eventually and the compare-and-delete guard makes it a no-op.
		metrics.RegistryReplacedConnections.Inc()
		slog.Info("Connection replaced for user", "user_id", c.userID)
	} else {
		r.emit(c.userID, true)
		slog.Debug("Connection registered", "user_id", c.userID, "total_clients", len(r.entries))
	}

	metrics.RegistryConnectedClients.Set(float64(len(r.entries)))
}

func (r *Registry) handleUnregister(c unregisterCmd) {
	current, exists := r.entries[c.userID]
	if !exists {
		return
	}

	// Compare-and-delete: a close handler only removes its own entry.
	if current != c.client {
		slog.Debug("Skipping unregister for superseded connection", "user_id", c.userID)
		return
	}

	delete(r.entries, c.userID)
	metrics.RegistryConnectedClients.Set(float64(len(r.entries)))

	r.emit(c.userID, false)

	slog.Debug("Connection unregistered", "user_id", c.userID, "total_clients", len(r.entries))
}

func (r *Registry) handleStop() {
	slog.Info("Registry shutting down", "total_clients", len(r.entries))

	for userID, client := range r.entries {
		client.StopGraceful("Server shutting down")
		delete(r.entries, userID)
	}
	metrics.RegistryConnectedClients.Set(0)

	// Let in-flight callbacks finish so presence cleanup is not cut short.
	close(r.eventCh)
	<-r.eventsDone
}
