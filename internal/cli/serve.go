package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/storyflow/storyflow/pkg/errors"
	"github.com/storyflow/storyflow/pkg/flow"
	"github.com/storyflow/storyflow/pkg/flow/store"
	"github.com/storyflow/storyflow/pkg/pipeline"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		ephemeral bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP API",
		Long: `Run the layout HTTP API.

The server exposes flow storage and the layout pipeline over REST:

  GET    /healthz                      liveness check
  GET    /api/flows                    list stored flows
  GET    /api/flows/{id}               fetch a flow document
  PUT    /api/flows/{id}               create or replace a flow
  DELETE /api/flows/{id}               delete a flow
  GET    /api/flows/{id}/render        render a stored flow (format query param)
  POST   /api/layout                   lay out a flow (stored or inline)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, ephemeral)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, then :8799)")
	cmd.Flags().BoolVar(&ephemeral, "ephemeral", false, "keep flows in memory only (useful for demos and tests)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, ephemeral bool) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	var runner *pipeline.Runner
	if ephemeral {
		runner = pipeline.NewRunner(store.NewMemoryStore(), nil, nil, c.Logger)
	} else {
		runner, err = c.newRunner(ctx, false)
		if err != nil {
			return fmt.Errorf("initialize runner: %w", err)
		}
	}
	defer runner.Close(context.Background())

	srv := &http.Server{
		Addr:              addr,
		Handler:           newAPIHandler(runner, c.Logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// layoutRequest is the POST /api/layout body: pipeline options plus an
// optional inline flow document that bypasses the store.
type layoutRequest struct {
	pipeline.Options
	Flow *flow.Flow `json:"flow,omitempty"`
}

// layoutResponse is the POST /api/layout reply. Artifacts for binary
// formats are base64-encoded by encoding/json.
type layoutResponse struct {
	Flow       *flow.Flow        `json:"flow"`
	FlowHash   string            `json:"flow_hash"`
	LayoutHash string            `json:"layout_hash"`
	Cached     bool              `json:"cached"`
	Artifacts  map[string][]byte `json:"artifacts,omitempty"`
}

// newAPIHandler builds the chi router for the layout API.
func newAPIHandler(runner *pipeline.Runner, logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/flows", handleListFlows(runner))
		r.Get("/flows/{id}", handleGetFlow(runner))
		r.Put("/flows/{id}", handlePutFlow(runner))
		r.Delete("/flows/{id}", handleDeleteFlow(runner))
		r.Get("/flows/{id}/render", handleRenderFlow(runner))
		r.Post("/layout", handleLayout(runner))
	})

	return r
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			next.ServeHTTP(ww, req)
			logger.Debug("request",
				"method", req.Method,
				"path", req.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).Round(time.Microsecond),
			)
		})
	}
}

func handleListFlows(runner *pipeline.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		summaries, err := runner.Store.List(req.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, summaries)
	}
}

func handleGetFlow(runner *pipeline.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		f, err := runner.Store.Load(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, f)
	}
}

func handlePutFlow(runner *pipeline.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var f flow.Flow
		if err := json.NewDecoder(req.Body).Decode(&f); err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode flow document"))
			return
		}
		// The URL is authoritative for the flow id.
		f.ID = chi.URLParam(req, "id")
		if err := runner.Store.Save(req.Context(), &f); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": f.ID})
	}
}

func handleDeleteFlow(runner *pipeline.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := runner.Store.Delete(req.Context(), chi.URLParam(req, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleRenderFlow(runner *pipeline.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		format := req.URL.Query().Get("format")
		if format == "" {
			format = pipeline.FormatSVG
		}
		opts := pipeline.Options{
			FlowID:   chi.URLParam(req, "id"),
			Formats:  []string{format},
			Detailed: req.URL.Query().Get("detailed") == "true",
			Refresh:  req.URL.Query().Get("refresh") == "true",
		}
		result, err := runner.Execute(req.Context(), opts)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", contentType(format))
		w.WriteHeader(http.StatusOK)
		w.Write(result.Artifacts[format])
	}
}

func handleLayout(runner *pipeline.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body layoutRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode layout request"))
			return
		}
		opts := body.Options
		opts.Flow = body.Flow

		result, err := runner.Execute(req.Context(), opts)
		if err != nil {
			writeError(w, err)
			return
		}

		resp := layoutResponse{
			Flow:       result.Laid,
			FlowHash:   result.FlowHash,
			LayoutHash: result.LayoutHash,
			Cached:     result.CacheInfo.LayoutHit,
		}
		// The laid-out flow is already in the response; only extra
		// formats are attached as artifacts.
		for format, data := range result.Artifacts {
			if format == pipeline.FormatJSON {
				continue
			}
			if resp.Artifacts == nil {
				resp.Artifacts = make(map[string][]byte)
			}
			resp.Artifacts[format] = data
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz"
	default:
		return "application/json"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the JSON error envelope returned by all API endpoints.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	var body errorBody
	body.Error.Code = string(errors.GetCode(err))
	body.Error.Message = errors.UserMessage(err)
	writeJSON(w, statusFor(errors.GetCode(err)), body)
}

// statusFor maps machine-readable error codes to HTTP status codes.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeNotFound, errors.ErrCodeFlowNotFound,
		errors.ErrCodeNodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFlow,
		errors.ErrCodeInvalidNode, errors.ErrCodeInvalidEdge,
		errors.ErrCodeInvalidSlot, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeConflict:
		return http.StatusConflict
	case errors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
