package server

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/auth"
	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/config"
	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/domain"
	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/notify"
	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/push"
	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/registry"
)

const testSecret = "unit-test-secret-0123456789abcdef"

// memoryRepo is an in-memory NotificationRepository for handler tests.
type memoryRepo struct {
	mu      sync.Mutex
	records []domain.Notification
	err     error
}

func (m *memoryRepo) Insert(_ context.Context, userID, message string) (*domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	n := domain.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	m.records = append(m.records, n)
	return &n, nil
}

func (m *memoryRepo) ListByUser(_ context.Context, userID string) ([]domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	result := make([]domain.Notification, 0)
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].UserID == userID {
			result = append(result, m.records[i])
		}
	}
	return result, nil
}

func (m *memoryRepo) MarkRead(_ context.Context, userID string, id uuid.UUID) (*domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.records {
		if m.records[i].ID == id && m.records[i].UserID == userID {
			m.records[i].Read = true
			n := m.records[i]
			return &n, nil
		}
	}
	return nil, domain.ErrNotificationNotFound
}

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:                  "development",
		Port:                    "0",
		AppURL:                  "http://localhost:5173",
		JWTSecret:               testSecret,
		AuthGracePeriod:         10 * time.Second,
		PresenceTTL:             90 * time.Second,
		MaxWebSocketConnections: 100,
		MaxConnectionsPerIP:     20,
		ConnectionRatePerSecond: 100,
		ConnectionRateBurst:     100,
	}
}

type testEnv struct {
	srv      *Server
	registry *registry.Registry
	service  *notify.Service
	verifier *auth.Verifier
	repo     *memoryRepo
}

func newTestEnv(t *testing.T, mutate func(*config.Config)) *testEnv {
	t.Helper()

	cfg := testConfig()
	if mutate != nil {
		mutate(cfg)
	}

	reg := registry.NewRegistry(clockwork.NewRealClock(), nil, nil, time.Minute)
	t.Cleanup(reg.Stop)

	repo := &memoryRepo{}
	service := notify.NewService(repo, push.NewDispatcher(reg))
	verifier := auth.NewVerifier(cfg.JWTSecret)

	srv := NewServer(cfg, service, reg, verifier, clockwork.NewRealClock(), nil, nil)

	return &testEnv{srv: srv, registry: reg, service: service, verifier: verifier, repo: repo}
}

func signToken(t *testing.T, verifier *auth.Verifier, userID string) string {
	t.Helper()
	token, err := verifier.Sign(userID, time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}
