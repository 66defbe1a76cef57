package transporthttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// intentPaths all accept the same writer contract; the two aliases are kept
// for older landing page builds.
var intentPaths = []string{"/intake-intent", "/intents", "/interest"}

func (d *ServerDeps) Router() http.Handler {
	if d.Service == nil {
		panic("transporthttp.Router: nil service")
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(RequestID)
	r.Use(AccessLog(d.Metrics))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.Cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", d.HandleHealthz)
	r.Get("/readyz", d.HandleReadyz)
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	r.Get("/impact-signals", d.HandleGetSignals)
	r.Get("/intake-feed", d.HandleGetFeed)
	r.Get("/intake-pulse", d.HandleGetPulse)
	r.Get("/intake-timeline", d.HandleGetTimeline)

	r.Group(func(r chi.Router) {
		if d.Cfg.RateLimitEnabled {
			r.Use(httprate.LimitByIP(d.Cfg.RateLimitWritesPerMin, time.Minute))
		}
		r.Use(BodyLimit(d.Cfg.MaxBodyBytes))
		r.Use(RequireJSON)
		for _, p := range intentPaths {
			r.Post(p, d.HandlePostIntent)
		}
	})

	return r
}
