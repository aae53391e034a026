package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"playmaker/internal/api"
	"playmaker/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Serve runs the HTTP backend until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	hub := api.NewHub()
	emitter := service.MultiEmitter{service.LogEmitter{}, hub}

	roster := a.RosterService(emitter)
	if err := a.StartRoster(ctx, roster); err != nil {
		return err
	}
	if roster != nil {
		defer roster.Stop()
	}

	srv := api.NewServer(a.tactics, roster, hub, a.RendererOptions()...)

	ln, err := net.Listen("tcp", a.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.cfg.Server.Addr, err)
	}

	if a.cfg.Server.Advertise {
		if stop, err := advertise(ln.Addr()); err != nil {
			log.Printf("[MDNS] Not advertising: %v", err)
		} else {
			defer stop()
		}
	}

	watcher := newTacticWatcher(a.tactics, hub, hub, 2*time.Second)
	watcher.Start(ctx)
	defer watcher.Stop()

	httpSrv := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.Serve(ln) }()
	log.Printf("[API] Listening on %s", ln.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("[API] Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		// hijacked websocket connections are not drained by Shutdown
		return httpSrv.Close()
	}
	return nil
}

func advertise(addr net.Addr) (stop func(), err error) {
	port, err := api.PortOf(addr)
	if err != nil {
		return nil, err
	}
	m, err := api.Advertise(port)
	if err != nil {
		return nil, err
	}
	log.Printf("[MDNS] Advertising %s on port %d", api.ServiceType, port)
	return func() { _ = m.Shutdown() }, nil
}
