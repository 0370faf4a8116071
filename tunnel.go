package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/wricardo/gridduel/game/config"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

var errNoNgrokToken = errors.New("ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")

// ngrokEndpoint returns the tunnel configuration for cfg
func ngrokEndpoint(cfg *config.Config) (ngrokConfig.Tunnel, error) {
	if cfg.NgrokAuthToken == "" {
		return nil, errNoNgrokToken
	}
	if cfg.NgrokDomain != "" {
		log.Printf("Using custom ngrok domain: %s", cfg.NgrokDomain)
		return ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.NgrokDomain)), nil
	}
	return ngrokConfig.HTTPEndpoint(), nil
}

// runTunnel serves handler through an ngrok tunnel until ctx is cancelled
func runTunnel(ctx context.Context, cfg *config.Config, handler http.Handler) error {
	tunnel, err := ngrokEndpoint(cfg)
	if err != nil {
		return err
	}

	log.Println("Starting ngrok tunnel...")
	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(cfg.NgrokAuthToken))
	if err != nil {
		return fmt.Errorf("failed to start ngrok tunnel: %w", err)
	}

	ngrokURL := tun.URL()
	log.Printf("🚀 Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)
	if cfg.StaticDir != "" {
		log.Printf("  Game UI (ngrok): %s/", ngrokURL)
	}

	srv := &http.Server{Handler: handler}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	if err := srv.Serve(tun); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("ngrok server error: %w", err)
	}
	log.Println("Ngrok tunnel closed")
	return nil
}
