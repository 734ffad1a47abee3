package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"cosmossdk.io/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/paw-chain/swapbook/api/health"
	"github.com/paw-chain/swapbook/x/atomicswap/snapshot"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Server serves read-only order book queries over HTTP
type Server struct {
	router   *gin.Engine
	handler  http.Handler
	config   *Config
	snap     *snapshot.Snapshot
	health   *health.HealthChecker
	logger   log.Logger
	source   string
	loadedAt time.Time
}

// Config holds server configuration
type Config struct {
	Host            string
	Port            string
	CORSOrigins     []string
	RateLimitRPS    int
	MaxBodyBytes    int64
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	HealthCacheTTL  time.Duration
	MetricsEnabled  bool
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		Host:            "127.0.0.1",
		Port:            "1317",
		CORSOrigins:     []string{"http://localhost:3000"},
		RateLimitRPS:    50,
		MaxBodyBytes:    64 << 10,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		HealthCacheTTL:  5 * time.Second,
		MetricsEnabled:  true,
	}
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// NewServer creates a server answering queries against snap. source names
// the file the snapshot was loaded from.
func NewServer(snap *snapshot.Snapshot, source string, config *Config, logger log.Logger) (*Server, error) {
	if snap == nil {
		return nil, errors.New("snapshot is required")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}

	s := &Server{
		config:   config,
		snap:     snap,
		health:   health.NewHealthChecker(Version, config.HealthCacheTTL),
		logger:   logger.With("module", "api"),
		source:   source,
		loadedAt: time.Now().UTC(),
	}
	s.health.RegisterCheck("store", health.StatsCheck(snap.Stats))

	s.setupRouter()

	s.handler = s.router
	if len(config.CORSOrigins) > 0 {
		s.handler = cors.New(cors.Options{
			AllowedOrigins: config.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		}).Handler(s.router)
	}

	return s, nil
}

// setupRouter configures the Gin router with all routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)
	s.router = gin.New()

	// Recovery runs first so it sees panics from every later handler.
	s.router.Use(gin.Recovery())
	s.router.Use(SecurityHeadersMiddleware())
	s.router.Use(RequestSizeLimitMiddleware(s.config.MaxBodyBytes))
	s.router.Use(RequestIDMiddleware())
	s.router.Use(LoggerMiddleware(s.logger))
	s.router.Use(MetricsMiddleware())
	if s.config.RateLimitRPS > 0 {
		s.router.Use(RateLimitMiddleware(s.config.RateLimitRPS))
	}

	s.router.GET("/health", s.health.HealthHandler)
	s.router.GET("/health/live", s.health.LivenessHandler)
	s.router.GET("/health/ready", s.health.ReadinessHandler)
	if s.config.MetricsEnabled {
		s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	s.registerRoutes()
}

// Handler returns the HTTP handler, CORS included.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr(),
		Handler:           s.handler,
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.config.WriteTimeout,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting swapbook API server", "addr", srv.Addr, "snapshot", s.source)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down swapbook API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
