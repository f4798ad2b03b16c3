package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/angeloszaimis/uwsgicfg/config"
	"github.com/angeloszaimis/uwsgicfg/internal/httpserver"
	"github.com/angeloszaimis/uwsgicfg/internal/preview"
)

var serveCmd = &cobra.Command{
	Use:   "serve <document>",
	Short: "Preview the document's static-map mounts over local HTTP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(args[0])
		if err != nil {
			return err
		}

		if cfg.HTTP == "" {
			return fmt.Errorf("preview needs an http endpoint in the document")
		}

		if len(cfg.StaticMaps) == 0 {
			log.Warn("document has no static-map entries; only the index will respond")
		}

		handler := preview.NewHandler(log, cfg)

		srv, err := httpserver.New(cfg.HTTP, handler, cfg.HarakiriTimeout())
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		srvErrCh := make(chan error, 1)

		go func() {
			srvErrCh <- srv.Start()
		}()

		log.Info("preview listening", "addr", cfg.HTTP, "mounts", len(cfg.StaticMaps))

		select {
		case <-ctx.Done():
			log.Info("shutting down gracefully...")
			if err := srv.Shutdown(context.Background()); err != nil {
				log.Error("error during shutdown", "err", err)
			}
			return nil

		case err := <-srvErrCh:
			return err
		}
	},
}
