// Package server exposes the rendered map and its underlying data over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/choromap/internal/config"
	"github.com/sells-group/choromap/internal/pipeline"
	"github.com/sells-group/choromap/internal/render"
	"github.com/sells-group/choromap/internal/store"
)

// Server serves the rendered artifacts of a single pipeline run. The store is
// optional; without it the run history endpoints respond 404.
type Server struct {
	cfg  *config.Config
	pipe *pipeline.Pipeline
	st   store.Store

	mapPNG       []byte
	legendPNG    []byte
	countiesJSON []byte
	summaryJSON  []byte
}

// New creates a Server.
func New(cfg *config.Config, pipe *pipeline.Pipeline, st store.Store) *Server {
	return &Server{cfg: cfg, pipe: pipe, st: st}
}

// Prepare runs the pipeline once and caches every artifact the handlers
// serve.
func (s *Server) Prepare(ctx context.Context) error {
	summary, err := s.pipe.Run(ctx)
	if err != nil {
		return err
	}

	s.mapPNG, err = os.ReadFile(summary.OutputPath)
	if err != nil {
		return eris.Wrapf(err, "server: read map %s", summary.OutputPath)
	}

	s.summaryJSON, err = json.Marshal(summary)
	if err != nil {
		return eris.Wrap(err, "server: marshal summary")
	}

	s.countiesJSON, err = s.pipe.EncodeCounties(ctx)
	if err != nil {
		return err
	}

	pal, err := s.pipe.Palette()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	legend := render.Legend(pal, s.cfg.Legend.XLabel, s.cfg.Legend.YLabel)
	if err := png.Encode(&buf, legend); err != nil {
		return eris.Wrap(err, "server: encode legend")
	}
	s.legendPNG = buf.Bytes()

	return nil
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/map.png", serveBytes("image/png", func() []byte { return s.mapPNG }))
	r.Get("/legend.png", serveBytes("image/png", func() []byte { return s.legendPNG }))
	r.Get("/counties.json", serveBytes("application/geo+json", func() []byte { return s.countiesJSON }))
	r.Get("/summary.json", serveBytes("application/json", func() []byte { return s.summaryJSON }))

	r.Get("/runs", s.handleListRuns)
	r.Get("/runs/{id}", s.handleGetRun)

	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server", zap.String("component", "server"))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	zap.L().Info("starting server",
		zap.String("component", "server"),
		zap.Int("port", s.cfg.Server.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server: listen")
	}
	return nil
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.st == nil {
		http.Error(w, `{"error":"run history not enabled"}`, http.StatusNotFound)
		return
	}

	runs, err := s.st.ListRuns(r.Context(), store.RunFilter{
		Status: store.RunStatus(r.URL.Query().Get("status")),
	})
	if err != nil {
		zap.L().Error("list runs failed", zap.String("component", "server"), zap.Error(err))
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.st == nil {
		http.Error(w, `{"error":"run history not enabled"}`, http.StatusNotFound)
		return
	}

	id := chi.URLParam(r, "id")
	run, err := s.st.GetRun(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"run not found"}`, http.StatusNotFound)
		return
	}

	assignments, err := s.st.ListAssignments(r.Context(), id)
	if err != nil {
		zap.L().Error("list assignments failed", zap.String("component", "server"), zap.Error(err))
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run":         run,
		"assignments": assignments,
	})
}

func serveBytes(contentType string, data func() []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		body := data()
		if len(body) == 0 {
			http.Error(w, `{"error":"not ready"}`, http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestLogger logs each request with method, path, and duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("request",
			zap.String("component", "server"),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}
