// Package httpapi exposes the photoframe service over HTTP: route wiring,
// the identity middleware chain, and thin handlers delegating to the
// application services.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/photoframe/internal/logging"
	"github.com/dmitrijs2005/photoframe/internal/server/config"
	"github.com/dmitrijs2005/photoframe/internal/server/ratelimit"
	"github.com/dmitrijs2005/photoframe/internal/server/services"
	"github.com/gin-gonic/gin"
)

type Server struct {
	address   string
	logger    logging.Logger
	users     *services.UserService
	photos    *services.PhotoService
	limiter   *ratelimit.Limiter
	jwtSecret []byte
	engine    *gin.Engine
}

func NewServer(cfg *config.Config, l logging.Logger, us *services.UserService, ps *services.PhotoService) *Server {
	s := &Server{
		address:   cfg.EndpointAddr,
		logger:    l.With("module", "http_server"),
		users:     us,
		photos:    ps,
		limiter:   ratelimit.New(ratelimit.NewMemoryStore(), cfg.UploadRateLimit, cfg.UploadRateWindow),
		jwtSecret: []byte(cfg.SecretKey),
	}
	s.engine = s.buildRouter(cfg)
	return s
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
