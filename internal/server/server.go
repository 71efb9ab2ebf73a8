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

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/careers-portal/internal/apply"
	"github.com/jonathan/careers-portal/internal/careers"
	"github.com/jonathan/careers-portal/internal/config"
	"github.com/jonathan/careers-portal/internal/logging"
	"github.com/jonathan/careers-portal/internal/metrics"
	"github.com/jonathan/careers-portal/internal/server/middleware"
	"github.com/jonathan/careers-portal/internal/server/ratelimit"
	"github.com/jonathan/careers-portal/internal/session"
	"github.com/jonathan/careers-portal/internal/types"
)

// Remote is the talent-acquisition API as used by the portal.
type Remote interface {
	careers.JobSource
	apply.Remote
	Register(ctx context.Context, req types.RegisterRequest) (*types.StatusResponse, error)
	Login(ctx context.Context, req types.LoginRequest) (*types.LoginResponse, error)
	UpdateProfile(ctx context.Context, token string, u types.ProfileUpdate) (*types.StatusResponse, error)
}

// Options are the dependencies of a Server.
type Options struct {
	Config *config.Config
	Remote Remote
	Store  session.Store
	Logger *logging.Logger
}

// Server represents the portal HTTP server
type Server struct {
	cfg         *config.Config
	httpServer  *http.Server
	store       session.Store
	catalog     *careers.Catalog
	sessions    *session.Coordinator
	dialogs     *apply.Dialogs
	gate        *apply.Gate
	tokens      *TokenService
	rateLimiter *ratelimit.Limiter
	authHandler *AuthHandler
	profiles    *ProfileHandler
	log         *logging.Logger
}

// New creates a new server instance
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("server config is required")
	}
	if opts.Remote == nil {
		return nil, fmt.Errorf("remote API client is required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}
	cfg := opts.Config

	s := &Server{
		cfg:         cfg,
		store:       opts.Store,
		log:         log,
		catalog:     careers.NewCatalog(opts.Remote, cfg.Catalog.PageSize, log),
		sessions:    session.NewCoordinator(opts.Store, log),
		dialogs:     apply.NewDialogs(opts.Remote, cfg.Apply.MaxImageBytes, log),
		tokens:      NewTokenService(cfg.Session.Secret, cfg.Session.TTL),
		rateLimiter: ratelimit.NewLimiter(ratelimit.FromConfig(cfg.RateLimit)),
	}
	s.gate = apply.NewGate(s.sessions, s.dialogs, log)
	s.authHandler = NewAuthHandler(opts.Remote, s.sessions, s.gate, s.dialogs, cfg.Candidate, log)
	s.profiles = NewProfileHandler(opts.Remote, s.sessions, cfg.API.ImageBaseURL, log)

	// Portal routes need a visitor session
	app := http.NewServeMux()
	app.HandleFunc("GET /jobs", s.handleListJobs)
	app.HandleFunc("GET /jobs/{id}", s.handleGetJob)
	app.HandleFunc("POST /jobs/{id}/apply", s.handleApply)

	app.HandleFunc("GET /apply", s.handleDialog)
	app.HandleFunc("POST /apply/submit", s.handleSubmit)
	app.HandleFunc("POST /apply/close", s.handleCloseDialog)

	app.HandleFunc("POST /auth/register", s.authHandler.Register)
	app.HandleFunc("POST /auth/login", s.authHandler.Login)
	app.HandleFunc("POST /auth/logout", s.authHandler.Logout)
	app.HandleFunc("GET /auth/session", s.authHandler.Session)

	app.HandleFunc("GET /profile", s.profiles.Get)
	app.HandleFunc("PUT /profile", s.profiles.Update)

	cookie := middleware.CookieConfig{
		Name:   cfg.Session.CookieName,
		MaxAge: cfg.Session.CookieMaxAge(),
		Secure: cfg.Session.SecureCookie,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/", middleware.Session(s.tokens, cookie, log)(app))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Catalog returns the server's job collection.
func (s *Server) Catalog() *careers.Catalog {
	return s.catalog
}

// Start serves until ctx is cancelled, then shuts down gracefully. The job
// collection refresher and the janitor run alongside the listener.
func (s *Server) Start(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.catalog.Run(gCtx, s.cfg.Catalog.RefreshInterval)
		return nil
	})
	g.Go(func() error {
		s.janitor(gCtx, s.cfg.RateLimit.CleanupInterval)
		return nil
	})
	g.Go(func() error {
		s.log.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		s.log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()
	s.Close()
	s.log.Info("server stopped")
	return err
}

// Close releases background resources.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if err := s.store.Close(); err != nil {
		s.log.Warn("failed to close session store", "error", err)
	}
}

// janitor drops idle dialogs and expired in-memory sessions.
func (s *Server) janitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			dialogs := s.dialogs.Sweep(s.cfg.Session.TTL)
			sessions := 0
			if mem, ok := s.store.(*session.MemoryStore); ok {
				sessions = mem.Sweep()
			}
			if dialogs > 0 || sessions > 0 {
				s.log.Debug("swept idle state", "dialogs", dialogs, "sessions", sessions)
			}
		}
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(extractClientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging adds request logging and HTTP metrics
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		metrics.HTTPRequests.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method).Observe(elapsed.Seconds())
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", elapsed,
			"remote", r.RemoteAddr,
		)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"catalog_version": s.catalog.Version(),
	})
}

// jsonResponse writes a JSON response
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// errorResponse writes an error JSON response
func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, errorBody{Error: message})
}

// writeError maps err to a status and a visitor-safe body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, s.log, err)
}

func writeError(w http.ResponseWriter, r *http.Request, log *logging.Logger, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	} else {
		log.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}

	body := errorBody{Error: publicMessage(err)}
	var fieldErrs types.FieldErrors
	if errors.As(err, &fieldErrs) {
		body.Errors = fieldErrs
	}
	jsonResponse(w, status, body)
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &ErrBadRequest{Message: "Invalid request body"}
	}
	return nil
}

// sessionID returns the visitor session id set by the session middleware.
func sessionID(r *http.Request) (string, error) {
	id, err := middleware.GetSessionID(r)
	if err != nil {
		return "", fmt.Errorf("no visitor session: %w", err)
	}
	return id, nil
}

// extractClientID extracts the client identifier from the request.
// It uses the IP address from RemoteAddr.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds())
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.log.Warn("rate limit exceeded", "limit", info.Limit, "reset", info.ResetTime.Format(time.RFC3339))
	jsonResponse(w, http.StatusTooManyRequests, response)
}
