package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	applog "findash/internal/log"
	"findash/internal/middleware/ratelimit"
	"findash/internal/middleware/security"
	"findash/internal/middleware/trace"
	"findash/internal/services"
	"findash/internal/sheets"
	appweb "findash/web"
)

// TableCache is the table source of the dashboard plus the ability to drop a
// cached sheet. *services.TableProvider implements it.
type TableCache interface {
	services.TableSource
	Invalidate(sheet string)
}

var _ TableCache = (*services.TableProvider)(nil)

// Options wires the server to the pipeline.
type Options struct {
	Addr      string
	Dashboard *services.DashboardService
	Tables    TableCache
	// Publisher is optional; without it refresh only drops the local cache.
	Publisher      sheets.RefreshPublisher
	Logger         *applog.Logger
	ShareBaseURL   string
	RateLimit      ratelimit.Config
	RequestTimeout time.Duration
}

// Server serves the dashboard page, its JSON API and the exports.
type Server struct {
	http.Server
	templates      *template.Template
	dashboard      *services.DashboardService
	tables         TableCache
	publisher      sheets.RefreshPublisher
	logger         *applog.Logger
	views          *applog.StructuredLogger
	shareBaseURL   string
	requestTimeout time.Duration

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = applog.Discard()
	}
	logger = logger.WithComponent(applog.ComponentHTTP)
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 7 * time.Second
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	detector := security.NewDetector()
	s := &Server{
		templates:      t,
		dashboard:      opts.Dashboard,
		tables:         opts.Tables,
		publisher:      opts.Publisher,
		logger:         logger,
		views:          applog.NewStructuredLogger(logger.WithComponent(applog.ComponentPipeline)),
		shareBaseURL:   opts.ShareBaseURL,
		requestTimeout: opts.RequestTimeout,
		limiter:        ratelimit.NewLimiter(opts.RateLimit),
		detector:       detector,
		tracer:         trace.NewMiddleware(logger, detector.ExtractClientIP),
	}

	mux := http.NewServeMux()

	sub, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, err
	}
	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(
		http.StripPrefix("/static/", http.FileServer(http.FS(sub)))))

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	limited := s.limiter.Middleware(detector.ExtractClientIP, s.onRateLimit)
	route := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, limited(security.NoStoreMiddleware(h)))
	}
	route("GET /{$}", s.handleIndex)
	route("GET /api/summary", s.handleSummary)
	route("GET /api/records", s.handleRecords)
	route("GET /api/series", s.handleSeries)
	route("GET /export.csv", s.handleExportCSV)
	route("GET /export.xlsx", s.handleExportXLSX)
	route("POST /api/refresh", s.handleRefresh)

	var handler http.Handler = mux
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = trace.LoggerMiddleware(logger)(handler)
	handler = s.tracer.Middleware(handler)
	handler = detector.Middleware(logger)(handler)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Shutdown gracefully shuts down the server and its background goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.detector.ExtractClientIP(r),
		applog.FieldPath, r.URL.Path)
	http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports ready once the dashboard sheet can be loaded.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	if _, err := s.tables.Table(ctx, s.dashboard.Sheet()); err != nil {
		status, _ := classifyError(err)
		if status < http.StatusInternalServerError {
			status = http.StatusServiceUnavailable
		}
		applog.FromContext(ctx).WarnContext(ctx, "Readiness check failed", applog.FieldError, err, applog.FieldSheet, s.dashboard.Sheet())
		http.Error(w, "not ready", status)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
