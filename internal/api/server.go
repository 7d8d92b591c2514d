// ABOUTME: HTTP API server exposing check-ins, workouts, meals, and insights.
// ABOUTME: Routes with gorilla/mux behind request ID, logging, metrics, and timeout middleware.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/harperreed/wellsync/internal/insights"
	"github.com/harperreed/wellsync/internal/storage"
	"github.com/harperreed/wellsync/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// DefaultRequestTimeout bounds each API request.
const DefaultRequestTimeout = 10 * time.Second

// Options configures a Server. Service and Reader are required.
type Options struct {
	Addr           string
	Service        *insights.Service
	Reader         storage.SignalReader
	Logger         zerolog.Logger
	Metrics        *telemetry.Metrics
	Gatherer       prometheus.Gatherer
	RequestTimeout time.Duration
}

// Server is the wellsync HTTP API.
type Server struct {
	router  *mux.Router
	server  *http.Server
	svc     *insights.Service
	reader  storage.SignalReader
	logger  zerolog.Logger
	metrics *telemetry.Metrics
	timeout time.Duration
}

// NewServer builds the router and the underlying http.Server.
func NewServer(opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		router:  mux.NewRouter(),
		svc:     opts.Service,
		reader:  opts.Reader,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		timeout: opts.RequestTimeout,
	}
	s.setupRoutes(opts.Gatherer)

	s.server = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      opts.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes(gatherer prometheus.Gatherer) {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.requestLoggingMiddleware)
	s.router.Use(s.metricsMiddleware)

	s.router.HandleFunc("/health", s.health).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(s.timeoutMiddleware)
	api.Use(jsonContentTypeMiddleware)
	api.Use(s.userMiddleware)

	api.HandleFunc("/checkins", s.createCheckIn).Methods(http.MethodPost)
	api.HandleFunc("/checkins", s.listCheckIns).Methods(http.MethodGet)
	api.HandleFunc("/checkins/{date}", s.deleteCheckIn).Methods(http.MethodDelete)

	api.HandleFunc("/workouts", s.createWorkout).Methods(http.MethodPost)
	api.HandleFunc("/workouts", s.listWorkouts).Methods(http.MethodGet)
	api.HandleFunc("/workouts/{id}", s.deleteWorkout).Methods(http.MethodDelete)

	api.HandleFunc("/meals", s.createMeal).Methods(http.MethodPost)
	api.HandleFunc("/meals", s.listMeals).Methods(http.MethodGet)
	api.HandleFunc("/meals/{id}", s.deleteMeal).Methods(http.MethodDelete)

	api.HandleFunc("/readiness/{date}", s.getReadiness).Methods(http.MethodGet)
	api.HandleFunc("/insights", s.getInsights).Methods(http.MethodGet)
	api.HandleFunc("/trends", s.getTrends).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(s.notFound)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("http server listening")
		errCh <- s.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info().Msg("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()[:8]
		}
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		s.logger.Info().
			Str("request_id", RequestIDFrom(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		s.metrics.HTTPRequest(route, r.Method, strconv.Itoa(wrapper.statusCode), time.Since(start))
	})
}

func (s *Server) timeoutMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userMiddleware requires the X-User-ID header and scopes the request to it.
func (s *Server) userMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(UserHeader)
		if userID == "" {
			writeError(w, r, http.StatusUnauthorized, "missing_user", "The "+UserHeader+" header is required")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

func jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// responseWrapper captures HTTP status codes for logging.
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
