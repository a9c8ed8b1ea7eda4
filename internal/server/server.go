package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/auth"
	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/config"
	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/notify"
	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/registry"
)

// redisHealthChecker is a minimal interface for Redis health checks
type redisHealthChecker interface {
	Ping(ctx context.Context) *goredis.StatusCmd
}

// postgresHealthChecker is a minimal interface for PostgreSQL health checks
type postgresHealthChecker interface {
	Ping(ctx context.Context) error
}

type Server struct {
	echo          *echo.Echo
	config        *config.Config
	notifications *notify.Service
	registry      *registry.Registry
	verifier      *auth.Verifier
	clock         clockwork.Clock
	limits        *ConnectionLimits
	upgrader      websocket.Upgrader
	db            *pgxpool.Pool
	redisClient   *goredis.Client
	startTime     time.Time

	// overridable in tests
	redisHealthCheck    redisHealthChecker
	postgresHealthCheck postgresHealthChecker
}

func NewServer(
	cfg *config.Config,
	notifications *notify.Service,
	reg *registry.Registry,
	verifier *auth.Verifier,
	clock clockwork.Clock,
	db *pgxpool.Pool,
	redisClient *goredis.Client,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	srv := &Server{
		echo:          e,
		config:        cfg,
		notifications: notifications,
		registry:      reg,
		verifier:      verifier,
		clock:         clock,
		limits: NewConnectionLimits(
			cfg.MaxWebSocketConnections,
			cfg.MaxConnectionsPerIP,
			cfg.ConnectionRatePerSecond,
			cfg.ConnectionRateBurst,
		),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     NewCheckOrigin(cfg.AppURL, cfg.IsDevelopment()),
		},
		db:          db,
		redisClient: redisClient,
		startTime:   time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
