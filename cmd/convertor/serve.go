package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/artgav/amnola-tpp-convertor/internal/api"
	"github.com/artgav/amnola-tpp-convertor/internal/pipeline"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the conversion pipeline over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateServer(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// The server has no terminal, so a missing token is an error here.
		p, ledger, err := newProcessor(ctx, cfg.UploadEnabled, false)
		if err != nil {
			return err
		}
		defer ledger.Close()

		orch := pipeline.NewOrchestrator(p, cfg.WorkerCount, cfg.MaxQueueSize, cfg.JobTTL, log)
		orch.Start(context.WithoutCancel(ctx))

		srv := api.NewServer(orch, ledger, log, cfg)
		httpServer := &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      srv,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("starting convertor", "port", cfg.Port, "upload", cfg.UploadEnabled)
			errCh <- httpServer.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			orch.Stop()
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		// Graceful shutdown.
		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err = httpServer.Shutdown(shutdownCtx)
		orch.Stop()
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
