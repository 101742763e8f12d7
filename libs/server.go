package libs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// GracefulShutdown serves until SIGINT/SIGTERM or until ctx is cancelled,
// then gives in-flight requests up to timeout to finish.
func GracefulShutdown(ctx context.Context, server *http.Server, timeout time.Duration) error {
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("[LB:Server:Start] - HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-serveErr:
		if ok {
			slog.Error("[LB:Server:Start] - HTTP server failed", "error", err)
			return err
		}
		return nil
	case <-sigCtx.Done():
	}

	slog.Info("[LB:Server:Shutdown] - Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("[LB:Server:Shutdown] - Shutdown did not complete", "error", err)
		return err
	}

	slog.Info("[LB:Server:Shutdown] - HTTP server stopped")
	return nil
}
