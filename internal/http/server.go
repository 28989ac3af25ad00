package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"budgetdash/internal/aggregate"
	"budgetdash/internal/cache"
	"budgetdash/internal/log"
	"budgetdash/internal/middleware/ratelimit"
	"budgetdash/internal/middleware/security"
	"budgetdash/internal/middleware/trace"
	"budgetdash/internal/services"
)

// ServerConfig tunes the API server.
type ServerConfig struct {
	RecentLimit       int
	CacheTTL          time.Duration
	RequestsPerMinute int
	Logger            *log.Logger
}

type Server struct {
	http.Server
	service *services.LedgerService
	hub     *Hub

	recentLimit int
	dashboards  *cache.LRUCache[aggregate.Summary]
	caches      *cache.Manager

	rateLimiter *ratelimit.Limiter
	detector    *security.Detector
	tracer      *trace.Middleware
	logger      *log.Logger

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
// hub must be the broadcaster the service was built with.
func NewServer(addr string, svc *services.LedgerService, hub *Hub, cfg ServerConfig) *Server {
	if cfg.RecentLimit < 1 {
		cfg.RecentLimit = aggregate.DefaultRecentLimit
	}
	if hub == nil {
		hub = NewHub()
	}

	s := &Server{
		service:     svc,
		hub:         hub,
		recentLimit: cfg.RecentLimit,
		dashboards:  cache.NewLRUCache[aggregate.Summary](64, cfg.CacheTTL),
		caches:      cache.NewManager(),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RequestsPerMinute}),
		detector:    security.NewDetector(),
		logger:      cfg.Logger,
	}
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP, cfg.Logger)
	s.caches.Register(s.dashboards)
	if cfg.CacheTTL > 0 {
		s.caches.StartCleanup(cfg.CacheTTL)
	}

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	if s.logger != nil {
		r.Use(log.Middleware(s.logger))
	}
	r.Use(s.tracer.Middleware)
	r.Use(log.RequestIDMiddleware(trace.RequestID))
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(s.detector.Middleware(false))

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/ws", s.hub.ServeWS)
	r.Get("/debug/metrics", s.handleMetrics)

	r.Route("/api", func(r chi.Router) {
		r.Use(log.ComponentMiddleware(log.ComponentHTTP))
		r.Use(s.rateLimiter.Middleware(s.detector.ExtractClientIP, handleRateLimited,
			http.MethodPost, http.MethodPut, http.MethodDelete))

		r.Get("/transactions", s.handleListTransactions)
		r.Post("/transactions", s.handleAddTransaction)
		r.Put("/transactions/{id}", s.handleUpdateTransaction)
		r.Delete("/transactions/{id}", s.handleRemoveTransaction)

		r.Get("/categories", s.handleListCategories)
		r.Post("/categories", s.handleAddCategory)
		r.Put("/categories/{name}/budget", s.handleSetCategoryBudget)
		r.Get("/categories/{name}/status", s.handleCategoryStatus)

		r.Put("/budget", s.handleSetMonthlyBudget)
		r.Get("/dashboard", s.handleDashboard)

		r.Post("/reset", s.handleReset)
		r.Post("/demo", s.handleLoadDemo)
		r.Post("/import", s.handleImport)
		r.Post("/reports/export", s.handleExportReport)
	})

	return r
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.caches.Stop()
		s.rateLimiter.Stop()
		s.hub.Close(ctx)
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleRateLimited(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.").Write(w)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.service.Ping(ctx); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// serverMetrics is the body of GET /debug/metrics.
type serverMetrics struct {
	Revision  uint64                    `json:"revision"`
	Clients   int                       `json:"ws_clients"`
	Requests  trace.Metrics             `json:"requests"`
	RateLimit ratelimit.Metrics         `json:"rate_limit"`
	Security  security.DetectionMetrics `json:"security"`
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	rev, err := s.service.Revision(r.Context())
	if err != nil {
		s.fail(w, r, log.OpRead, err)
		return
	}
	NewJSONResponse().Body(serverMetrics{
		Revision:  rev,
		Clients:   s.hub.ClientCount(),
		Requests:  s.tracer.GetMetrics(),
		RateLimit: s.rateLimiter.GetMetrics(),
		Security:  s.detector.GetMetrics(),
	}).Write(w)
}
