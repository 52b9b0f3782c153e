package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SupeeerMario/LowKey/internal/auth"
	"github.com/SupeeerMario/LowKey/internal/server"
	"github.com/SupeeerMario/LowKey/internal/sessions"
	"github.com/SupeeerMario/LowKey/internal/shared"
	"github.com/SupeeerMario/LowKey/internal/spotify"
	"github.com/urfave/cli/v3"
)

// Serve runs the relay HTTP server until interrupted.
//
// Startup aborts when provider credentials are missing; the process must not
// run partially configured.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	if err := config.Credentials.Spotify.Validate(); err != nil {
		return fmt.Errorf("cannot start relay: %w", err)
	}

	tokenClient, err := auth.NewTokenClient(config.Credentials.Spotify, r.httpClient)
	if err != nil {
		return fmt.Errorf("failed to create token client: %w", err)
	}

	var store auth.Store
	switch config.Sessions.Store {
	case "", shared.SessionStoreCookie:
		store = auth.NewCookieStore(config.Server.SecureCookies)
	case shared.SessionStoreDatabase:
		db, err := shared.NewDatabase(config.Database)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		if err := shared.RunMigrations(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		store = sessions.NewStore(db, config.Server.SecureCookies)
	default:
		return fmt.Errorf("%w: unknown session store %q", shared.ErrInvalidConfig, config.Sessions.Store)
	}

	manager := auth.NewManager(store, tokenClient, r.logger)
	apiClient := spotify.NewClient("", r.httpClient)

	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger))
	router.Handler(server.NewAuthHandler(tokenClient, store, r.logger))
	router.Handler(server.NewSpotifyHandler(manager, apiClient, r.logger))
	router.Handler(server.NewStatusHandler())

	httpServer := &http.Server{
		Addr:    config.Server.Addr(),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("relay listening at %v (sessions: %v)", httpServer.Addr, storeName(config))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	r.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(shutdownCtx)
}

func storeName(config *shared.Config) string {
	if config.Sessions.Store == "" {
		return shared.SessionStoreCookie
	}
	return config.Sessions.Store
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the Spotify relay server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Serve,
	}
}
