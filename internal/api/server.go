package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pbaille/dewey/internal/daily"
	"github.com/pbaille/dewey/internal/domain"
)

// Server handles HTTP requests for the daily section API
type Server struct {
	daily  *daily.Service
	addr   string
	logger *zap.Logger

	// ShutdownTimeout bounds graceful shutdown in Run
	ShutdownTimeout time.Duration

	now func() time.Time
}

// New creates a new API server
func New(svc *daily.Service, addr string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		daily:           svc,
		addr:            addr,
		logger:          logger,
		ShutdownTimeout: 10 * time.Second,
		now:             time.Now,
	}
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Daily section
	mux.HandleFunc("GET /{$}", s.getDaily)
	mux.HandleFunc("GET /daily", s.getDaily)

	// Health check
	mux.HandleFunc("GET /health", s.health)

	return s.withRequestLog(withCORS(mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("starting server", zap.String("addr", s.addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// withCORS adds CORS headers for the display client
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestLog tags each request with an ID and logs it once done
func (s *Server) withRequestLog(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		h.ServeHTTP(rec, r)

		s.logger.Info("request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) getDaily(w http.ResponseWriter, r *http.Request) {
	opts, err := parseRevealOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := s.now().UTC()
	resp, err := s.daily.BuildAt(now, opts)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidParameter) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("build daily response", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	setCacheHeaders(w, now, daily.NextChange(now, opts))
	writeJSON(w, http.StatusOK, resp)
}

func parseRevealOptions(r *http.Request) (daily.RevealOptions, error) {
	var opts daily.RevealOptions
	q := r.URL.Query()

	if h := q.Get("hint"); h != "" {
		n, err := strconv.Atoi(h)
		if err != nil {
			return opts, fmt.Errorf("%w: hint must be an integer", domain.ErrInvalidParameter)
		}
		opts.Hint = &n
	}

	if f := q.Get("full"); f != "" {
		full, err := strconv.ParseBool(f)
		if err != nil {
			return opts, fmt.Errorf("%w: full must be a boolean", domain.ErrInvalidParameter)
		}
		opts.Full = full
	}

	return opts, nil
}

// setCacheHeaders lets shared caches keep the response until it can change
func setCacheHeaders(w http.ResponseWriter, now, until time.Time) {
	maxAge := int(until.Sub(now).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}

	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAge))
	w.Header().Set("Expires", until.UTC().Format(http.TimeFormat))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Vary", "hint, full")
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
