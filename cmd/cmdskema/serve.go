package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/reoring/cmdskema"
	"github.com/reoring/cmdskema/declfile"
	"github.com/reoring/cmdskema/middleware"
	"github.com/reoring/cmdskema/router"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Parse interaction payloads posted over HTTP",
	Long: `Serve POST /interactions: every payload is parsed against the declaration
file and answered with the parsed value, or a 400 carrying the error code.
The file is watched and reloaded in place. Prometheus metrics are served on
/metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		h, err := declfile.NewHolder(cfg.File, logger)
		if err != nil {
			return err
		}
		defer h.Stop()
		if err := h.WatchFile(); err != nil {
			return err
		}

		mux := http.NewServeMux()
		mux.Handle("/interactions", middleware.Interactions(h, http.HandlerFunc(echoValue), middleware.WithMetrics(router.NewMetrics())))
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			middleware.WriteJSON(w, http.StatusOK, map[string]any{"commands": len(h.Get().Commands())})
		})
		srv := &http.Server{Addr: serveAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		errCh := make(chan error, 1)
		go func() {
			logger.Info().Str("addr", serveAddr).Msg("serving interactions")
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func echoValue(w http.ResponseWriter, r *http.Request) {
	v, _ := middleware.ValueFromContext(r.Context())
	in, _ := middleware.InteractionFromContext(r.Context())
	logger.Debug().Str("command", in.Name).Strs("path", v.Path()).Msg("interaction parsed")
	middleware.WriteJSON(w, http.StatusOK, struct {
		ID    string          `json:"id,omitempty"`
		Path  []string        `json:"path"`
		Value *cmdskema.Value `json:"value"`
	}{in.ID, v.Path(), v})
}
