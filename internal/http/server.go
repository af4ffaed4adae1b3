package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"spendlog/internal/cache"
	"spendlog/internal/charts"
	"spendlog/internal/core"
	"spendlog/internal/ledger"
	applog "spendlog/internal/log"
	"spendlog/internal/middleware/ratelimit"
	"spendlog/internal/middleware/security"
	"spendlog/internal/middleware/trace"
	appweb "spendlog/web"
)

// appMetrics tracks application-level counters exposed on /metrics.
type appMetrics struct {
	uptime        time.Time
	totalExpenses int64
	cacheHits     int64
	cacheMisses   int64
}

// Server wires the ledger behind the HTTP surface: the expense form,
// the overview partial, the JSON series API and the operational endpoints.
type Server struct {
	http.Server

	ledger    *ledger.Ledger
	templates *template.Template
	logger    *applog.Logger
	slogger   *applog.StructuredLogger

	// deckMu keeps a render and its fragment reads atomic; concurrent
	// builds for different criteria share the renderer's targets.
	deckMu   sync.Mutex
	renderer *charts.HTMLRenderer
	deck     *charts.Deck

	// Overview views are cached per filter criteria and invalidated
	// wholesale whenever an expense is added.
	overviewCache *cache.LRUCache[overviewView]
	seriesCache   *cache.LRUCache[core.ChartSeries]
	cacheManager  *cache.Manager

	// Deduplicates concurrent overview recomputes for the same criteria.
	overviewGroup singleflight.Group

	rateLimiter     *ratelimit.Limiter
	securityHeaders *security.HeadersMiddleware
	detector        *security.Detector
	traceMiddleware *trace.Middleware

	metrics      appMetrics
	shutdownOnce sync.Once
}

// Options tunes server construction.
type Options struct {
	CacheTTL time.Duration
	Logger   *applog.Logger
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, led *ledger.Ledger, opts Options) *Server {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.ComponentHTTP, slog.LevelInfo)
	}

	mux := http.NewServeMux()
	renderer := charts.NewHTMLRenderer()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		ledger:          led,
		logger:          opts.Logger,
		slogger:         applog.NewStructuredLogger(opts.Logger),
		renderer:        renderer,
		deck:            charts.NewDeck(renderer),
		overviewCache:   cache.NewLRUCache[overviewView](100, opts.CacheTTL),
		seriesCache:     cache.NewLRUCache[core.ChartSeries](100, opts.CacheTTL),
		cacheManager:    cache.NewManager(),
		rateLimiter:     ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		securityHeaders: security.NewHeadersMiddleware(security.DefaultHeadersConfig()),
		detector:        security.NewDetector(),
		metrics:         appMetrics{uptime: time.Now()},
	}
	s.traceMiddleware = trace.NewMiddleware(s.detector.ExtractClientIP)

	s.cacheManager.Register(s.overviewCache)
	s.cacheManager.Register(s.seriesCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.Handle("/", s.wrap(http.HandlerFunc(s.handleIndex)))
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.Handle("/expenses", s.wrap(http.HandlerFunc(s.handleCreateExpense)))
	mux.Handle("/ui/overview", s.wrap(http.HandlerFunc(s.handleOverview)))
	mux.Handle("/api/series", s.wrap(http.HandlerFunc(s.handleSeries)))

	return s
}

// wrap applies the standard middleware chain: tracing, security headers,
// suspicious request flagging and rate limiting on mutations.
func (s *Server) wrap(next http.Handler) http.Handler {
	limited := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Flagged requests are only counted, never blocked
		if s.detector.DetectSuspiciousRequest(r) {
			slog.WarnContext(r.Context(), "Suspicious request detected",
				"path", r.URL.Path,
				"client_ip", s.detector.ExtractClientIP(r))
		}

		if r.Method == http.MethodPost && !s.rateLimiter.Allow(s.detector.ExtractClientIP(r)) {
			slog.WarnContext(r.Context(), "Rate limit exceeded",
				"client_ip", s.detector.ExtractClientIP(r),
				"path", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})

	return applog.Middleware(s.logger)(s.traceMiddleware.Middleware(s.securityHeaders.Middleware(limited)))
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		s.deck.Destroy()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// invalidateViews drops every cached overview and series. Any filter
// combination may include the new record, so per-key invalidation is
// not worth the bookkeeping.
func (s *Server) invalidateViews() {
	s.overviewCache.Clear()
	s.seriesCache.Clear()
}

func (s *Server) cacheKey(criteria core.FilterCriteria) string {
	return criteria.Category + "|" + string(criteria.Period)
}

func (s *Server) recordCacheHit() {
	atomic.AddInt64(&s.metrics.cacheHits, 1)
}

func (s *Server) recordCacheMiss() {
	atomic.AddInt64(&s.metrics.cacheMisses, 1)
}
