package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/radioclub/internal/db"
	"github.com/radioclub/internal/router"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if appConfig.GinMode != "" {
			gin.SetMode(appConfig.GinMode)
		}
		if err := db.Init(appConfig.DatabasePath); err != nil {
			return fmt.Errorf("initialize database: %w", err)
		}
		if created, err := db.EnsureUser(db.DB, appConfig.SuperRootUserName, "", appConfig.SuperRootPassword); err != nil {
			return fmt.Errorf("ensure super root user: %w", err)
		} else if created {
			logger.Info("created super root user", "username", appConfig.SuperRootUserName)
		}

		r, err := router.SetupRouter(appConfig, router.Options{DB: db.DB, Logger: logger})
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              appConfig.ListenAddr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", "addr", appConfig.ListenAddr, "base_url", appConfig.SiteBaseURL)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}
