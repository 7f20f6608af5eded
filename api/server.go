package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/thisisjab/arrowjq/engine"
)

type server struct {
	cfg    Config
	logger *slog.Logger
	engine *engine.Engine
}

func NewServer(cfg Config, logger *slog.Logger, eng *engine.Engine) (*server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if eng == nil {
		return nil, errors.New("no batch engine is configured")
	}

	return &server{
		cfg:    cfg,
		logger: logger,
		engine: eng,
	}, nil
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/healthcheck", s.healthCheckHandler)
	mux.HandleFunc("POST /api/translate", s.translateHandler)
	mux.HandleFunc("POST /api/translate/batch", s.translateBatchHandler)

	return s.requestIDMiddleware(s.recoverPanicMiddleware(s.requestLoggerMiddleware(s.corsMiddleware(mux))))
}

// Serve runs the server until ctx is done, then shuts it down gracefully.
func (s *server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:     s.cfg.Addr,
		Handler:  s.routes(),
		ErrorLog: slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info("shutting down server", "addr", s.cfg.Addr)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		shutdownErr <- srv.Shutdown(shutdownCtx)
	}()

	var serverErr error
	if s.cfg.CertFile != "" && s.cfg.KeyFile != "" {
		s.logger.Info("starting server with TLS", "addr", s.cfg.Addr)
		serverErr = srv.ListenAndServeTLS(s.cfg.CertFile, s.cfg.KeyFile)
	} else {
		s.logger.Info("starting server without TLS", "addr", s.cfg.Addr)
		serverErr = srv.ListenAndServe()
	}

	if serverErr != nil && !errors.Is(serverErr, http.ErrServerClosed) {
		return serverErr
	}

	if err := <-shutdownErr; err != nil {
		s.logger.Error("failed to shutdown server", "addr", s.cfg.Addr, "error", err)
		return err
	}

	return nil
}
