// Package server exposes the placement pipeline over HTTP.
//
// The API is small:
//
//	POST /v1/place   body: scene (JSON, or YAML with a yaml content type)
//	GET  /healthz
//
// POST /v1/place answers with the placement document by default. The
// format query parameter selects another artifact (svg or png), and the
// geometry, obstacles, scale and refresh parameters map onto the pipeline
// options of the same name.
//
// Every request carries an X-Request-ID. When the client does not send one
// a random UUID is assigned.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/maplabel/pkg/buildinfo"
	"github.com/matzehuels/maplabel/pkg/errors"
	pkgio "github.com/matzehuels/maplabel/pkg/io"
	"github.com/matzehuels/maplabel/pkg/observability"
	"github.com/matzehuels/maplabel/pkg/pipeline"
	"github.com/matzehuels/maplabel/pkg/render/sink"
)

const (
	// DefaultAddr is the listen address used when none is configured.
	DefaultAddr = ":8080"

	// DefaultMaxBodySize caps the size of an uploaded scene.
	DefaultMaxBodySize = 8 << 20

	// RequestIDHeader carries the request identifier in both directions.
	RequestIDHeader = "X-Request-ID"

	requestTimeout  = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

var contentTypes = map[string]string{
	sink.FormatSVG:  "image/svg+xml",
	sink.FormatPNG:  "image/png",
	sink.FormatJSON: "application/json",
}

// Server serves the placement API. It is safe for concurrent use; every
// request runs its own placement.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	maxBody int64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxBodySize limits uploaded scenes to n bytes.
func WithMaxBodySize(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// New creates a server backed by runner. A nil runner places without a
// cache.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, nil)
	}
	s := &Server{runner: runner, logger: runner.Logger, maxBody: DefaultMaxBodySize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/place", s.place)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// Handlers
// =============================================================================

// healthBody is the response of GET /healthz.
type healthBody struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthBody{Status: "ok", Info: buildinfo.Get()})
}

func (s *Server) place(w http.ResponseWriter, r *http.Request) {
	opts, err := placeOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	sc, err := pkgio.Read(body, sceneFormat(r.Header.Get("Content-Type")))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			err = errors.Wrap(errors.ErrCodeInvalidInput, err, "scene exceeds %d bytes", s.maxBody)
		}
		s.fail(w, r, err)
		return
	}
	opts.Scene = sc

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	format := opts.Formats[0]
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Scene-Hash", result.SceneHash)
	w.Header().Set("X-Cache", cacheStatus(result.CacheInfo))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// placeOptions maps query parameters onto pipeline options.
func placeOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{Formats: []string{sink.FormatJSON}}
	if f := q.Get("format"); f != "" {
		opts.Formats = []string{f}
	}
	if err := sink.ValidateFormats(opts.Formats); err != nil {
		return opts, err
	}

	var err error
	if opts.Geometry, err = boolParam(q.Get("geometry")); err != nil {
		return opts, err
	}
	if opts.Obstacles, err = boolParam(q.Get("obstacles")); err != nil {
		return opts, err
	}
	if opts.Refresh, err = boolParam(q.Get("refresh")); err != nil {
		return opts, err
	}
	if v := q.Get("scale"); v != "" {
		scale, perr := strconv.ParseFloat(v, 64)
		if perr != nil || scale <= 0 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid scale %q", v)
		}
		opts.Scale = scale
	}
	return opts, nil
}

func boolParam(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "invalid boolean %q", v)
	}
	return b, nil
}

func sceneFormat(contentType string) string {
	if strings.Contains(contentType, "yaml") {
		return pkgio.FormatYAML
	}
	return pkgio.FormatJSON
}

func cacheStatus(info pipeline.CacheInfo) string {
	if info.PlaceHit && info.RenderHit {
		return "hit"
	}
	return "miss"
}

// =============================================================================
// Errors
// =============================================================================

type errorBody struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		if code == "" {
			code = errors.ErrCodeInternal
		}
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", RequestID(r.Context()), "err", err)
		msg = "internal error"
	}
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	writeJSON(w, status, errorBody{Error: msg, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
