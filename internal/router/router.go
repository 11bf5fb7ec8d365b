package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/concreteguy/homepage/internal/setup"
	mw "github.com/concreteguy/homepage/internal/middleware"
	"github.com/concreteguy/homepage/internal/middleware/metrics"
)

// New creates the chi router with all routes.
// Order: metrics, security headers, session resolution, visit log.
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()
	h := deps.Handler
	authMw := deps.AuthMiddleware
	csrfCfg := mw.CSRFConfig{SecureCookies: deps.Public.SecureCookies}

	r.Use(metrics.Middleware)
	r.Use(mw.SecurityHeadersWithCSP(deps.Public.SecureCookies, mw.DefaultCSP))
	r.Use(authMw.LoadSession())
	r.Use(deps.VisitLog.Middleware(mw.SessionIDFromRequest))

	r.NotFound(h.NotFoundHandler)

	// Assets and probes
	r.Handle("/static/*", h.StaticHandler())
	r.Get("/favicon.ico", h.FaviconHandler)
	r.Get("/404_pic", h.NotFoundPicHandler)
	r.Get("/robots.txt", h.RobotsHandler)
	r.Get("/sitemap.xml", h.SitemapHandler)
	r.Get("/health", h.Health)
	if deps.Public.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Contact form: posted from the static frontend, so CORS instead of CSRF
	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: deps.Public.AllowedOrigins,
			AllowedMethods: []string{http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         300,
		}))
		r.With(mw.LimitByIP(deps.MessageLimiter)).Post("/message", h.MessagePostHandler)
		r.Options("/message", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})

	// Pages
	r.Group(func(r chi.Router) {
		r.Use(mw.GenerateCSRFToken(csrfCfg))

		r.Get("/", h.IndexGetHandler)
		r.Get("/blogs", h.BlogsGetHandler)
		r.Get("/about", h.AboutGetHandler)
		r.Get("/videos", h.VideosGetHandler)
		r.Get("/post/{id}", h.PostGetHandler)

		r.Get("/login", h.LoginGetHandler)
		r.With(mw.LimitByIP(deps.LoginLimiter)).Post("/login", h.LoginPostHandler)

		r.Group(func(r chi.Router) {
			r.Use(authMw.NeedAuth())
			r.Get("/logout", h.LogoutHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMw.AdminOrHome())
			r.Get("/dashboard", h.MessagesGetHandler)
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(authMw.AdminOnly())
			r.Use(mw.ValidateCSRFToken())

			r.Get("/create", h.CreateGetHandler)
			r.Post("/create", h.CreatePostHandler)
			r.Get("/update/{id}", h.UpdateGetHandler)
			r.Post("/update/{id}", h.UpdatePostHandler)
			r.Get("/delete/{id}", h.DeleteHandler)

			r.Get("/view_messages", h.MessagesGetHandler)
			r.Get("/message/{id}/edit", h.EditMessageGetHandler)
			r.Post("/message/{id}/edit", h.EditMessagePostHandler)
			r.Post("/message/{id}/delete", h.DeleteMessagePostHandler)
		})
	})

	return r
}
