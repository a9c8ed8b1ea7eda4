package push

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/domain"
	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/registry"
)

func newTestClient(t *testing.T) (*registry.Client, *ws.Conn) {
	t.Helper()

	upgrader := ws.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	serverConnCh := make(chan *ws.Conn, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		serverConnCh <- conn
	}))
	t.Cleanup(server.Close)

	dialed, _, err := ws.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { dialed.Close() })

	serverConn := <-serverConnCh
	client := registry.NewClient(serverConn, clockwork.NewRealClock())
	t.Cleanup(client.Stop)

	return client, dialed
}

func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.NewRegistry(clockwork.NewRealClock(), nil, nil, time.Minute)
	t.Cleanup(reg.Stop)
	return reg
}

func testNotification(message string) *domain.Notification {
	return &domain.Notification{
		ID:        uuid.New(),
		UserID:    "u1",
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}

func readEnvelope(t *testing.T, conn *ws.Conn) domain.PushEnvelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var envelope domain.PushEnvelope
	require.NoError(t, json.Unmarshal(payload, &envelope))
	return envelope
}

func TestDispatcher_PushDeliversToRegisteredClient(t *testing.T) {
	reg := newTestRegistry(t)
	dispatcher := NewDispatcher(reg)
	client, dialed := newTestClient(t)
	reg.Register("u1", client)

	notification := testNotification("job match found")
	dispatcher.Push("u1", notification)

	envelope := readEnvelope(t, dialed)
	assert.Equal(t, domain.MessageTypeNotification, envelope.Type)
	assert.Equal(t, notification.ID, envelope.Data.ID)
	assert.Equal(t, "job match found", envelope.Data.Message)
}

func TestDispatcher_PushPreservesOrder(t *testing.T) {
	reg := newTestRegistry(t)
	dispatcher := NewDispatcher(reg)
	client, dialed := newTestClient(t)
	reg.Register("u1", client)

	dispatcher.Push("u1", testNotification("first"))
	dispatcher.Push("u1", testNotification("second"))
	dispatcher.Push("u1", testNotification("third"))

	assert.Equal(t, "first", readEnvelope(t, dialed).Data.Message)
	assert.Equal(t, "second", readEnvelope(t, dialed).Data.Message)
	assert.Equal(t, "third", readEnvelope(t, dialed).Data.Message)
}

func TestDispatcher_PushWithoutConnectionIsSilent(t *testing.T) {
	reg := newTestRegistry(t)
	dispatcher := NewDispatcher(reg)

	// Must neither panic nor block; the record waits for the next poll.
	dispatcher.Push("offline-user", testNotification("hello"))
}

func TestDispatcher_PushGoesToNewestConnectionOnly(t *testing.T) {
	reg := newTestRegistry(t)
	dispatcher := NewDispatcher(reg)
	oldClient, oldDialed := newTestClient(t)
	newClient, newDialed := newTestClient(t)

	reg.Register("u1", oldClient)
	reg.Register("u1", newClient)

	dispatcher.Push("u1", testNotification("for the new tab"))

	assert.Equal(t, "for the new tab", readEnvelope(t, newDialed).Data.Message)

	_ = oldDialed.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err := oldDialed.ReadMessage()
	assert.Error(t, err, "superseded connection must not receive the push")
}

func TestDispatcher_PushEvictsDeadConnection(t *testing.T) {
	reg := newTestRegistry(t)
	dispatcher := NewDispatcher(reg)
	client, _ := newTestClient(t)
	reg.Register("u1", client)

	client.Stop()
	dispatcher.Push("u1", testNotification("into the void"))

	assert.Nil(t, reg.Lookup("u1"))
}
