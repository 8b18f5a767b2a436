package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/stitts-dev/nba-lineup/internal/api"
	"github.com/stitts-dev/nba-lineup/pkg/logger"
)

var serveRequestTimeout time.Duration

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve lineup optimization and projection over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("port", "", "listen port")
	serveCmd.Flags().DurationVar(&serveRequestTimeout, "request-timeout", 30*time.Second, "time limit for one optimization")
	bindFlag(serveCmd.Flags().Lookup("port"), "PORT")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logger.WithComponent("server")

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	rt := newRuntime(ctx, cfg)
	defer rt.Close()

	opts := api.RouterOptions{
		Rules:   rt.rules(),
		Solver:  rt.solverOptions(),
		Model:   rt.model(),
		Timeout: serveRequestTimeout,
	}
	store, err := rt.directoryStore()
	if err != nil {
		log.WithError(err).Warn("directory database unavailable, directory routes disabled")
	} else {
		opts.Directory = store
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           api.NewRouter(opts, logger.WithComponent("api")),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      serveRequestTimeout + 10*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
