package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/config"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/queue/scheduler"
)

// Server owns the HTTP listener and the background job scheduler and ties
// their lifecycles together: both start with Run and both stop on the first
// shutdown signal or listener failure.
type Server struct {
	configProvider *config.Provider
	handler        http.Handler
	scheduler      *scheduler.Scheduler
	logger         *slog.Logger
}

func NewServer(configProvider *config.Provider, handler http.Handler, scheduler *scheduler.Scheduler, logger *slog.Logger) *Server {
	return &Server{
		configProvider: configProvider,
		handler:        handler,
		scheduler:      scheduler,
		logger:         logger,
	}
}

// Run starts the HTTP server and the scheduler and blocks until shutdown
// completes. SIGHUP reloads the configuration file in place; SIGINT, SIGQUIT
// and SIGTERM shut down gracefully. It returns the error that caused the
// shutdown, or nil on a clean signal-initiated stop.
func (s *Server) Run() error {
	cfg := s.configProvider.Get().Server

	s.logger.Info("server configuration",
		"addr", cfg.Addr,
		"tls", cfg.EnableTLS,
		"read_timeout", cfg.ReadTimeout.Duration,
		"read_header_timeout", cfg.ReadHeaderTimeout.Duration,
		"write_timeout", cfg.WriteTimeout.Duration,
		"idle_timeout", cfg.IdleTimeout.Duration,
		"shutdown_timeout", cfg.ShutdownGracefulTimeout.Duration,
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.handler,
		ReadTimeout:       cfg.ReadTimeout.Duration,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout.Duration,
		WriteTimeout:      cfg.WriteTimeout.Duration,
		IdleTimeout:       cfg.IdleTimeout.Duration,
	}

	serverError := make(chan error, 1)
	go func() {
		var err error
		if cfg.EnableTLS {
			s.logger.Info("starting HTTPS server", "addr", cfg.Addr)
			err = srv.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
		} else {
			s.logger.Info("starting HTTP server", "addr", cfg.Addr)
			err = srv.ListenAndServe()
		}
		if err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	s.scheduler.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)

	var runErr error
loop:
	for {
		select {
		case sig := <-sigCh:
			// SIGHUP is the operator path for picking up config file edits
			// without dropping connections.
			if sig == syscall.SIGHUP {
				if err := config.Reload(s.configProvider, s.logger); err != nil {
					s.logger.Error("config reload failed", "err", err)
				}
				continue
			}
			s.logger.Info("received shutdown signal, shutting down gracefully", "signal", sig)
			break loop
		case err := <-serverError:
			s.logger.Error("server error, initiating shutdown", "err", err)
			runErr = err
			break loop
		}
	}

	// Restore default signal behavior so a second signal kills immediately.
	signal.Stop(sigCh)

	gracefulCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownGracefulTimeout.Duration)
	defer cancelShutdown()

	shutdownGroup, _ := errgroup.WithContext(gracefulCtx)

	shutdownGroup.Go(func() error {
		if err := srv.Shutdown(gracefulCtx); err != nil {
			s.logger.Error("http server shutdown error", "err", err)
			return err
		}
		s.logger.Info("http server stopped gracefully")
		return nil
	})

	shutdownGroup.Go(func() error {
		if err := s.scheduler.Stop(gracefulCtx); err != nil {
			s.logger.Error("scheduler shutdown error", "err", err)
			return err
		}
		return nil
	})

	if err := shutdownGroup.Wait(); err != nil {
		if runErr == nil {
			runErr = err
		}
		return runErr
	}

	s.logger.Info("all systems stopped gracefully")
	return runErr
}
