package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/biancatoto3/blockstep"
	httpAdapter "github.com/biancatoto3/blockstep/internal/adapters/http"
	"github.com/biancatoto3/blockstep/internal/adapters/lesson"
	"github.com/biancatoto3/blockstep/internal/logging"
	"github.com/biancatoto3/blockstep/pkg/domain"
	"github.com/biancatoto3/blockstep/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the engine behind a JSON API with a live event stream, a built-in
demo page on /, and Prometheus metrics on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		lessonsDir, _ := cmd.Flags().GetString("lessons-dir")

		logger := logging.NewJSON(slog.LevelInfo)

		// The broker must exist before the engine so runs stream from the start.
		broker := httpAdapter.NewBroker()
		metrics := observability.NewMetrics()

		engine := blockstep.New(
			blockstep.WithLogger(logger),
			blockstep.WithNotifier(broker.Notifier()),
			blockstep.WithLifecycleHooks(domain.CombineHooks(broker.Hooks(), metrics.Hooks())),
		)

		serverOpts := []httpAdapter.ServerOption{
			httpAdapter.WithBroker(broker),
			httpAdapter.WithMetrics(metrics.Handler()),
			httpAdapter.WithLogger(logger),
		}
		if lessonsDir != "" {
			src, err := lesson.Open(lessonsDir)
			if err != nil {
				fmt.Printf("Warning: lessons disabled: %v\n", err)
			} else {
				serverOpts = append(serverOpts, httpAdapter.WithLessons(src))
			}
		}

		handler := httpAdapter.NewHandler(engine, serverOpts...)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Blockstep Server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			// Error when starting HTTP server.
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			engine.Cancel()

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Blockstep Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("lessons-dir", "", "Directory containing lesson files (optional)")
}
