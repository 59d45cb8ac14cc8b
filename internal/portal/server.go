package portal

import (
	"log/slog"
	"net/http"

	campusAuth "github.com/MrEthical07/campusAuth"
	"github.com/MrEthical07/campusAuth/metrics/export/prometheus"
	"github.com/MrEthical07/campusAuth/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server holds the HTTP dependencies of the portal.
type Server struct {
	engine  *campusAuth.Engine
	toasts  *Toasts
	logger  *slog.Logger
	origins []string
	otel    http.Handler
}

// NewServer wires a portal server. The engine should be built with a
// [RequestNavigator] so that form posts can answer with the requested redirect.
func NewServer(engine *campusAuth.Engine, toasts *Toasts, logger *slog.Logger, corsOrigins []string) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if toasts == nil {
		toasts = NewToasts(1)
	}
	return &Server{
		engine:  engine,
		toasts:  toasts,
		logger:  logger,
		origins: corsOrigins,
	}
}

// WithOTelHandler mounts h on /metrics/otel.
func (s *Server) WithOTelHandler(h http.Handler) *Server {
	s.otel = h
	return s
}

// publicViews maps every public page of the route table to its view name.
var publicViews = map[string]string{
	"/":            "home",
	"/events":      "events",
	"/internships": "internships",
	"/exam-cell":   "exam-cell",
	"/about":       "about",
}

// dashboardViews names the view rendered on each role dashboard.
var dashboardViews = map[string]string{
	"/dashboard/student":    "student-dashboard",
	"/dashboard/committee":  "committee-dashboard",
	"/dashboard/internship": "internship-dashboard",
	"/dashboard/exam-cell":  "exam-cell-dashboard",
}

// Router builds the chi router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	for path, view := range publicViews {
		r.Get(path, s.handleView(view))
	}
	r.Get("/login", s.handleLoginPage)

	guard := middleware.RouteGuard(s.engine)
	for _, route := range s.engine.Routes().Routes() {
		if route.Public {
			continue
		}
		view, ok := dashboardViews[route.Path]
		if !ok {
			view = "restricted"
		}
		r.With(guard).Get(route.Path, s.handleView(view))
	}

	r.Post("/login", s.handleLogin)
	r.Post("/register", s.handleRegister)
	r.Post("/logout", s.handleLogout)

	r.Route("/api", func(r chi.Router) {
		r.Get("/session", s.handleSession)
		r.Get("/notifications", s.handleNotifications)
	})
	r.Method(http.MethodGet, "/metrics", prometheus.NewPrometheusExporter(s.engine).Handler())
	if s.otel != nil {
		r.Method(http.MethodGet, "/metrics/otel", s.otel)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, view{View: "not-found", Path: r.URL.Path})
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.DebugContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}
