package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/truthguard/truthguard/internal/server"
)

// serveCmd runs the HTTP validation API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the validation API server",
	Long: `Start the HTTP server exposing the validation pipeline.

Endpoints:
  POST /v1/validate    validate one AI response
  GET  /v1/audit/{id}  retrieve the audit trail for an interaction
  GET  /healthz        liveness check`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if addr := viper.GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		validator, auditor, closeFn, err := buildPipeline(cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		srv := server.New(cfg.Server.Addr, validator, auditor)

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case <-stop:
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	_ = viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}
