package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Anwitht21/book-extraction/internal/handlers"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the book processing API server",
		Long: `Starts the HTTP API on the specified port.

The API accepts book cover uploads, looks books up by ISBN, and serves
preview text for title/author queries.`,
		Example: `  # Start server on default port 8888
  bookscan serve

  # Start server on custom port
  bookscan serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := assemble()
			if err != nil {
				return err
			}
			handler := handlers.New(deps.Pipeline, deps.GoogleBooks, deps.Extractor)

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/upload", handler.HandleUpload)
			mux.HandleFunc("/api/book/preview", handler.HandleBookPreview)
			mux.HandleFunc("/api/book/", handler.HandleBook)
			mux.HandleFunc("/api/results", handler.HandleResults)
			mux.HandleFunc("/api/results/", handler.HandleResultDetail)
			mux.HandleFunc("/healthcheck", handler.HandleHealthCheck)

			addr := ":" + port
			server := &http.Server{
				Addr:    addr,
				Handler: mux,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Book processing API available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")

	return cmd
}
