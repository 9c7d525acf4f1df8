package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/specialistvlad/talegrid/internal/ctxlog"
	"github.com/specialistvlad/talegrid/internal/game"
	"github.com/specialistvlad/talegrid/internal/input"
	"github.com/specialistvlad/talegrid/internal/sessionstore"
	"github.com/specialistvlad/talegrid/internal/state"
	"github.com/specialistvlad/talegrid/internal/telemetry"
	"github.com/specialistvlad/talegrid/internal/transport/socketio"
)

// Run plays a console session reading player lines from in, or serves
// sessions over socket.io when a serve address is configured. It releases
// every resource of the app before returning.
func (a *App) Run(ctx context.Context, in io.Reader) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	defer a.closeAll()

	shutdown, err := telemetry.Setup(ctx, a.config.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		if err := shutdown(context.WithoutCancel(ctx)); err != nil {
			a.logger.Warn("Tracing shutdown failed.", "error", err)
		}
	}()

	a.startHealthCheckServer()
	defer func() {
		if err := a.closeHealthCheckServer(); err != nil {
			a.logger.Error("Health check server shutdown failed.", "error", err)
		}
	}()

	if a.config.ServeAddr != "" {
		return a.serve(ctx)
	}
	return a.playConsole(ctx, in)
}

// playConsole plays one session: lines of in are the player's input and the
// narration goes to the app's output.
func (a *App) playConsole(ctx context.Context, in io.Reader) error {
	sink := game.SinkFunc(func(_ context.Context, text string) error {
		_, err := fmt.Fprintf(a.outW, "\n%s\n", text)
		return err
	})
	s := a.game.Session("", input.FromReader(in), sink)

	a.logger.Info("🚀 Starting console session.", "session", s.ID)
	st, err := s.Run(ctx)
	if st != nil && a.config.SnapshotPath != "" {
		if serr := writeSnapshot(a.config.SnapshotPath, s.ID, st); serr != nil {
			a.logger.Error("Failed to write session snapshot.", "path", a.config.SnapshotPath, "error", serr)
		} else {
			a.logger.Info("💾 Session snapshot written.", "path", a.config.SnapshotPath)
		}
	}
	if errors.Is(err, input.ErrSessionTerminated) {
		a.logger.Info("🏁 Input closed, session over.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("session failed: %w", err)
	}
	a.logger.Info("🏁 Session finished.", "character", st.Character.Name)
	return nil
}

func writeSnapshot(path, id string, st *state.SessionState) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return sessionstore.WriteSnapshot(f, id, st)
}

// serve runs the socket.io server until ctx is cancelled.
func (a *App) serve(ctx context.Context) error {
	srv := socketio.NewServer(ctx, a.game)
	mux := http.NewServeMux()
	mux.Handle(socketio.Path, srv.Handler())

	httpSrv := &http.Server{Addr: a.config.ServeAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("🔌 Socket.io server starting.", "address", a.config.ServeAddr, "path", socketio.Path)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		srv.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("socket.io server failed: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("🔌 Shutting down socket.io server.")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	err := httpSrv.Shutdown(shutdownCtx)
	srv.Close()
	if err != nil {
		return fmt.Errorf("socket.io server shutdown: %w", err)
	}
	return nil
}
