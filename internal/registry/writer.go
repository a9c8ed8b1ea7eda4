package registry

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/metrics"
)

const (
	writeDeadline     = 5 * time.Second
	pingInterval      = 30 * time.Second
	pongDeadline      = 60 * time.Second
	messageBufferSize = 16
)

var (
	// ErrClientStopped is returned by Send after the client's writer has shut down.
	ErrClientStopped = errors.New("client stopped")

	// ErrSendBufferFull is returned by Send when the client cannot keep up.
	ErrSendBufferFull = errors.New("send buffer full")
)

// Client wraps a live WebSocket connection with a dedicated write goroutine.
// All frames go through the buffered send channel, so writes submitted for one
// connection are delivered in submission order.
type Client struct {
	connection  *websocket.Conn
	clock       clockwork.Clock
	sendChannel chan []byte
	doneChannel chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

// NewClient starts the write goroutine for a freshly upgraded connection.
func NewClient(connection *websocket.Conn, clock clockwork.Clock) *Client {
	c := &Client{
		connection:  connection,
		clock:       clock,
		sendChannel: make(chan []byte, messageBufferSize),
		doneChannel: make(chan struct{}),
	}
	c.configurePongHandler()
	c.wg.Add(1)
	go c.run()
	return c
}

func (c *Client) run() {
	ticker := c.clock.NewTicker(pingInterval)
	defer ticker.Stop()
	defer c.wg.Done()

	for {
		select {
		case msg, ok := <-c.sendChannel:
			if !ok {
				return
			}
			start := c.clock.Now()
			c.updateWriteDeadline()
			if err := c.connection.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
			metrics.WebSocketMessageSendDuration.Observe(c.clock.Since(start).Seconds())
		case <-ticker.Chan():
			c.updateWriteDeadline()
			if err := c.connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				metrics.WebSocketPingFailures.Inc()
				return
			}
		case <-c.doneChannel:
			return
		}
	}
}

// Send enqueues a frame for delivery. It never blocks: a stopped client or a
// full buffer yields an error the caller treats as a dead connection.
func (c *Client) Send(msg []byte) error {
	select {
	case <-c.doneChannel:
		return ErrClientStopped
	default:
	}

	select {
	case c.sendChannel <- msg:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Stop terminates the write goroutine and closes the underlying connection.
func (c *Client) Stop() {
	c.stopOnce.Do(func() {
		close(c.doneChannel)
		_ = c.connection.Close()
	})
	c.wg.Wait()
}

// StopGraceful sends a close frame with reason before closing. Used during
// server shutdown.
func (c *Client) StopGraceful(reason string) {
	c.stopOnce.Do(func() {
		close(c.doneChannel)

		// Wait for the write goroutine to exit so the close frame is not a
		// concurrent write.
		c.wg.Wait()

		closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
		c.updateWriteDeadline()
		_ = c.connection.WriteMessage(websocket.CloseMessage, closeMsg)
		_ = c.connection.Close()
	})
	c.wg.Wait()
}

// RestoreReadDeadline re-arms the keepalive read deadline. The WebSocket
// handler tightens the deadline during the auth grace period and calls this
// once the handshake completes.
func (c *Client) RestoreReadDeadline() {
	c.updateReadDeadline()
}

func (c *Client) configurePongHandler() {
	c.updateReadDeadline()
	c.connection.SetPongHandler(func(string) error {
		c.updateReadDeadline()
		return nil
	})
}

func (c *Client) updateWriteDeadline() {
	_ = c.connection.SetWriteDeadline(c.clock.Now().Add(writeDeadline))
}

func (c *Client) updateReadDeadline() {
	_ = c.connection.SetReadDeadline(c.clock.Now().Add(pongDeadline))
}
