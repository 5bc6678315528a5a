package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joelkehle/veridian-reports/internal/funnel"
	"github.com/joelkehle/veridian-reports/internal/httpapi"
	"github.com/joelkehle/veridian-reports/internal/report"
	"github.com/joelkehle/veridian-reports/internal/store"
)

const shutdownGrace = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st, err := store.NewSQLiteStore(cfg.Database.Path, store.Config{})
		if err != nil {
			return err
		}
		defer st.Close()

		gen, err := report.NewGenerator(ctx, cfg.Generation.Options(), logger)
		if err != nil {
			return err
		}
		arch, err := newArchiver(ctx)
		if err != nil {
			return err
		}
		svc := funnel.New(st, gen, newRenderer(), arch, logger.Named("funnel"))

		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           httpapi.NewServer(svc, logger.Named("http")),
			ReadHeaderTimeout: 10 * time.Second,
		}
		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.ListenAndServe()
		}()
		logger.Info("veridian listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("db", cfg.Database.Path),
			zap.String("provider", cfg.Generation.Provider),
			zap.Bool("archive", arch != nil),
		)

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("listen: %w", err)
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}
