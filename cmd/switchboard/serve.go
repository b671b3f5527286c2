package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aretw0/switchboard/internal/cli"
	sbhttp "github.com/aretw0/switchboard/pkg/adapters/http"
	"github.com/aretw0/switchboard/pkg/service"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve [workflow|dir]",
	Short: "Start the HTTP API",
	Long: `Serves sessions over a JSON HTTP API with Server-Sent Events.
The argument is a workflow document, a directory of documents served by
name, or "sample:<name>". It defaults to the configured workflows directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, stack, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer stack.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		lib, def, err := cli.OpenLibrary(ctx, librarySource(args, cfg))
		if err != nil {
			return err
		}
		svc, err := service.New(service.Config{
			Engine:          stack.Engine,
			Workflows:       lib,
			DefaultWorkflow: def,
			Sessions:        stack.Sessions,
			Logger:          logger,
		})
		if err != nil {
			return err
		}

		opts := []sbhttp.Option{sbhttp.WithLogger(logger)}
		if stack.Registry != nil {
			opts = append(opts, sbhttp.WithMetrics(promhttp.HandlerFor(stack.Registry, promhttp.HandlerOpts{})))
		}

		addr := cfg.HTTP.Addr
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			addr = a
		}
		srv := &http.Server{
			Addr:              addr,
			Handler:           sbhttp.NewHandler(svc, opts...),
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("http server listening", "addr", addr, "default_workflow", def)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
			logger.Info("shutting down http server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
				return srv.Close()
			}
			logger.Info("http server stopped")
			return nil
		}
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides http.addr)")
	rootCmd.AddCommand(serveCmd)
}
