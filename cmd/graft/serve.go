package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/graft/internal/cli"
	"github.com/aretw0/graft/pkg/adapters/httpapi"
	"github.com/aretw0/graft/pkg/observability"
	"github.com/aretw0/graft/pkg/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Starts an HTTP server exposing the compile, generate and validate
pipeline, a workflow store and optional Prometheus metrics.

Without --redis workflows are kept in memory and lost on restart.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetInt("port")
		redisAddr, _ := cmd.Flags().GetString("redis")
		redisPassword, _ := cmd.Flags().GetString("redis-password")
		redisDB, _ := cmd.Flags().GetInt("redis-db")
		withMetrics, _ := cmd.Flags().GetBool("metrics")
		debug, _ := cmd.Flags().GetBool("debug")

		logger := cli.NewLogger(debug)

		var st store.Store
		if redisAddr != "" {
			st = store.NewRedis(redisAddr, redisPassword, redisDB)
			logger.Info("using redis store", "address", redisAddr)
		} else {
			st = store.NewMemory()
			logger.Info("using in-memory store")
		}
		defer st.Close()

		opts := []httpapi.Option{
			httpapi.WithStore(st),
			httpapi.WithLogger(logger),
		}
		if withMetrics {
			opts = append(opts, httpapi.WithMetrics(observability.NewMetrics()))
		}

		handler := httpapi.NewHandler(newEngine(cmd), opts...)
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("http server listening", "port", port)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if err != nil && err != http.ErrServerClosed {
				fmt.Fprintf(os.Stderr, "server error: %v\n", err)
				os.Exit(1)
			}
		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				srv.Close()
				fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
				os.Exit(1)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for the workflow store (host:port)")
	serveCmd.Flags().String("redis-password", "", "Redis password")
	serveCmd.Flags().Int("redis-db", 0, "Redis database number")
	serveCmd.Flags().Bool("metrics", false, "Expose Prometheus metrics on /metrics")
}
