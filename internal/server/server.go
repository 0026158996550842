package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/iudanet/tvsync/internal/server/handlers"
	"github.com/iudanet/tvsync/internal/server/middleware"
	"github.com/iudanet/tvsync/internal/server/storage"
)

// Options параметры HTTP сервера
type Options struct {
	StartedAt time.Time
	// Journal может быть nil: тогда /leader-history отвечает 503
	Journal         storage.LeaderJournal
	Store           handlers.StateStore
	Elector         handlers.LeaderElector
	Leaders         handlers.LeaderReader
	Addr            string
	Version         string
	ShutdownTimeout time.Duration
	// RateLimit запросов в минуту с одного IP, 0 отключает лимит
	RateLimit int
}

// Server HTTP сервер синхронизации вкладок
type Server struct {
	httpServer      *http.Server
	limiter         *middleware.RateLimiter
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

// New собирает маршруты и цепочку middleware
func New(logger *slog.Logger, opts Options) *Server {
	startedAt := opts.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	healthHandler := handlers.NewHealthHandler(logger, opts.Leaders, startedAt)
	stateHandler := handlers.NewStateHandler(logger, opts.Store)
	leaderHandler := handlers.NewLeaderHandler(logger, opts.Elector, opts.Journal)
	infoHandler := handlers.NewInfoHandler(logger, opts.Leaders, opts.Version)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /sync-state", stateHandler.GetState)
	mux.HandleFunc("POST /sync-state", stateHandler.UpdateState)
	mux.HandleFunc("POST /claim-leader", leaderHandler.ClaimLeader)
	mux.HandleFunc("GET /leader-history", leaderHandler.History)
	mux.HandleFunc("GET /{$}", infoHandler.Info)
	// Все остальное, включая неверный метод на известном пути
	mux.HandleFunc("/", handlers.NotFound(logger))

	s := &Server{
		logger:          logger,
		shutdownTimeout: opts.ShutdownTimeout,
	}

	// Цепочка собирается изнутри наружу:
	// Recovery -> CORS -> Logging -> RateLimit -> mux
	var handler http.Handler = mux
	if opts.RateLimit > 0 {
		s.limiter = middleware.NewRateLimiter(opts.RateLimit, time.Minute)
		handler = middleware.RateLimitMiddleware(s.limiter, logger)(handler)
	}
	handler = middleware.LoggingWithSkip(logger, []string{"/health"})(handler)
	handler = middleware.CORSMiddleware()(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)

	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s
}

// Handler возвращает корневой http.Handler (для тестов через httptest)
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run слушает Addr до отмены ctx, затем останавливает сервер
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve обслуживает готовый listener до отмены ctx
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.stopLimiter()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server", "timeout", s.shutdownTimeout)

	shutdownCtx := context.Background()
	if s.shutdownTimeout > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(shutdownCtx, s.shutdownTimeout)
		defer cancel()
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	// Serve вернул ErrServerClosed, канал закрыт
	<-errCh
	s.logger.Info("Server stopped")
	return nil
}

func (s *Server) stopLimiter() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}
