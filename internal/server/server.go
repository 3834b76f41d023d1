// Package server exposes the layout engine over HTTP for browser renderers.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/antopolskiy/kanban-layout/internal/board"
	"github.com/antopolskiy/kanban-layout/internal/clierr"
	"github.com/antopolskiy/kanban-layout/internal/layout"
	"github.com/antopolskiy/kanban-layout/internal/output"
)

const (
	maxBodyBytes      = 1 << 20
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server handles layout requests.
type Server struct {
	opts   layout.LayoutOptions
	logger *log.Logger
	router chi.Router
}

// New creates a server that fills omitted request options from opts.
func New(opts layout.LayoutOptions, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{opts: opts, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.layout)
		r.Post("/analyze", s.analyze)
		r.Post("/distribute", s.distribute)
		r.Get("/classify", s.classify)
	})
	return r
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

// logRequests logs one line per request through the server's logger.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// BoardInput is a board as sent by a client.
type BoardInput struct {
	Name    string          `json:"name"`
	Columns []layout.Column `json:"columns"`
}

// LayoutRequest is the body of POST /v1/layout. Omitted options keep the
// server's configured values.
type LayoutRequest struct {
	Board    BoardInput           `json:"board"`
	Viewport layout.Viewport      `json:"viewport"`
	Options  layout.LayoutOptions `json:"options"`
}

func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	req := LayoutRequest{Options: s.opts}
	if !s.decode(w, r, &req) {
		return
	}
	if err := validateOptions(req.Options); err != nil {
		s.writeError(w, err)
		return
	}
	snap, err := board.New(req.Board.Name, req.Board.Columns)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, output.NewLayoutReport(snap.Name, snap.Columns, req.Viewport, req.Options))
}

// AnalyzeRequest is the body of POST /v1/analyze.
type AnalyzeRequest struct {
	Columns []layout.Column    `json:"columns"`
	Width   layout.WidthConfig `json:"width"`
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	req := AnalyzeRequest{Width: s.opts.Width}
	if !s.decode(w, r, &req) {
		return
	}
	if err := validateWidth(req.Width); err != nil {
		s.writeError(w, err)
		return
	}
	snap, err := board.New("", req.Columns)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, output.NewMetricsRows(snap.Columns, req.Width))
}

// DistributeRequest is the body of POST /v1/distribute.
type DistributeRequest struct {
	Columns   []layout.Column    `json:"columns"`
	Available int                `json:"available"`
	Width     layout.WidthConfig `json:"width"`
}

func (s *Server) distribute(w http.ResponseWriter, r *http.Request) {
	req := DistributeRequest{Width: s.opts.Width}
	if !s.decode(w, r, &req) {
		return
	}
	if err := validateWidth(req.Width); err != nil {
		s.writeError(w, err)
		return
	}
	snap, err := board.New("", req.Columns)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, output.NewWidthReport(snap.Columns, req.Available, req.Width))
}

func (s *Server) classify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	columns, err := intParam(q.Get("columns"), "columns")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if columns < 0 {
		s.writeError(w, clierr.Newf(clierr.InvalidInput, "invalid columns %d", columns).
			WithDetails(map[string]any{"columns": columns}))
		return
	}
	// Negative widths are valid input; they classify as a zero-width stack.
	width, err := intParam(q.Get("viewport"), "viewport")
	if err != nil {
		s.writeError(w, err)
		return
	}
	vp := layout.Viewport{
		Width:     width,
		Mobile:    boolParam(q.Get("mobile")),
		Landscape: boolParam(q.Get("landscape")),
	}

	writeJSON(w, http.StatusOK, output.NewClassifyReport(columns, vp, s.opts))
}

// decode reads a JSON body into v, writing a 400 response on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		s.writeError(w, clierr.Newf(clierr.InvalidInput, "invalid request body: %v", err))
		return false
	}
	return true
}

func validateOptions(opts layout.LayoutOptions) error {
	if err := validateWidth(opts.Width); err != nil {
		return err
	}
	if opts.MinColumnWidth < 1 {
		return clierr.New(clierr.InvalidInput, "options.min_column_width must be >= 1")
	}
	if opts.Gap < 0 || opts.Padding < 0 {
		return clierr.New(clierr.InvalidInput, "options.gap and options.padding must be >= 0")
	}
	return nil
}

func validateWidth(cfg layout.WidthConfig) error {
	if err := cfg.Validate(); err != nil {
		return clierr.New(clierr.InvalidInput, err.Error())
	}
	return nil
}

func intParam(v, name string) (int, error) {
	if v == "" {
		return 0, clierr.Newf(clierr.InvalidInput, "missing %s parameter", name)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, clierr.Newf(clierr.InvalidInput, "invalid %s %q", name, v).
			WithDetails(map[string]any{name: v})
	}
	return n, nil
}

func boolParam(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = output.JSON(w, v)
}

// writeError renders err in the CLI's JSON error envelope. Coded errors are
// client errors; anything else is a 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		output.JSONError(w, cliErr.Code, cliErr.Message, cliErr.Details)
		return
	}
	s.logger.Error("request failed", "err", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	output.JSONError(w, clierr.InternalError, err.Error(), nil)
}
