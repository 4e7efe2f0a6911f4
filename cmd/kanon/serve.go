package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	json "github.com/goccy/go-json"
	"github.com/reoring/kanon"
	"github.com/reoring/kanon/middleware"
	"github.com/spf13/cobra"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		addr     string
		maxBody  int64
		allowDup bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an HTTP endpoint that validates JSON request bodies",
		Long: `Starts an HTTP server with the compiled schema:

  POST /validate   200 {"data": <validated body>} or 4xx {"issue": {...}}
  GET  /healthz    204`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := root.logger(cmd)
			s, err := root.load(log, true)
			if err != nil {
				return err
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           newValidationHandler(s, middleware.Options{MaxBodyBytes: maxBody, Logger: log, AllowDuplicateKeys: allowDup}),
				ReadHeaderTimeout: 5 * time.Second,
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe() }()
			log.Info("listening", "addr", addr)

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}
			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().Int64Var(&maxBody, "max-body", middleware.DefaultMaxBodyBytes, "maximum request body size in bytes")
	cmd.Flags().BoolVar(&allowDup, "allow-duplicate-keys", false, "accept bodies that repeat an object key (last value wins)")
	return cmd
}

func newValidationHandler(s kanon.Schema, opts middleware.Options) http.Handler {
	mux := http.NewServeMux()
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, _ := middleware.ParsedFromContext(r.Context())
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": v})
	})
	mux.Handle("POST /validate", middleware.Validate(s, opts)(ok))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	return mux
}
