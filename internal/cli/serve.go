package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/nodeflow/nodeflow/pkg/choreo"
	"github.com/nodeflow/nodeflow/pkg/httputil"
)

func newServeCmd() *cobra.Command {
	var (
		cfgPath  string
		modeName string
		seedFile string
		seed     uint64
		addr     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Stream choreography and expose the live snapshot over HTTP",
		Long: `Serve runs the streaming choreography in the background and exposes the
current renderable snapshot at GET /graph. The endpoint is read-only;
nothing observed over HTTP feeds back into the engine.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			engine, _, err := newEngine(cfgPath, modeName, seedFile, seed, logger)
			if err != nil {
				return err
			}

			engine.StartStreaming()
			defer engine.StopStreaming()

			srv := &http.Server{
				Addr:              addr,
				Handler:           newRouter(engine),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errc := make(chan error, 1)
			go func() {
				logger.Info("serving", "addr", addr)
				errc <- srv.ListenAndServe()
			}()

			select {
			case <-cmd.Context().Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "nodeflow.toml", "path to optional TOML config")
	cmd.Flags().StringVar(&modeName, "mode", "streaming", "choreography mode (randomize or streaming)")
	cmd.Flags().StringVar(&seedFile, "seed-file", "", "JSON graph to seed the topology")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 uses the config seed)")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}

// newRouter builds the read-only snapshot API.
func newRouter(engine *choreo.Choreographer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/graph", func(w http.ResponseWriter, req *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, engine.Snapshot())
	})
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
