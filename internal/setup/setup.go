package setup

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/concreteguy/homepage/internal/config"
	"github.com/concreteguy/homepage/internal/handler"
	"github.com/concreteguy/homepage/internal/jwt"
	"github.com/concreteguy/homepage/internal/logger"
	"github.com/concreteguy/homepage/internal/markdown"
	mw "github.com/concreteguy/homepage/internal/middleware"
	"github.com/concreteguy/homepage/internal/middleware/ratelimiter"
	"github.com/concreteguy/homepage/internal/service"
	"github.com/concreteguy/homepage/internal/storage/pg"
	"github.com/concreteguy/homepage/internal/visitlog"
)

const (
	baseTemplate = "base.html"

	// idle rate limiter buckets are dropped after this long
	limiterExpiration = time.Hour
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Public         config.Public
	Storage        *pg.Storage
	Handler        *handler.Handler
	AuthMiddleware *mw.Auth
	Jwt            jwt.JwtService
	VisitLog       *visitlog.Logger
	LoginLimiter   *ratelimiter.UserRateLimiter
	MessageLimiter *ratelimiter.UserRateLimiter
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	templates, err := loadTemplates(cfg.Public.TemplatesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	storage, err := pg.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	visits, err := visitlog.Open(cfg.Public.VisitLogPath)
	if err != nil {
		storage.Cleanup()
		return nil, err
	}

	jwtService := jwt.New(cfg.JwtKey())

	auth := service.NewAuth(storage, &cfg.Public)
	blog := service.NewBlog(storage)
	message := service.NewMessage(storage)

	authMw := mw.NewAuth(jwtService, auth, cfg.Public.SecureCookies)
	h := handler.New(templates, cfg.Public, markdown.New(), auth, blog, message, authMw, storage)

	return &Dependencies{
		Public:         cfg.Public,
		Storage:        storage,
		Handler:        h,
		AuthMiddleware: authMw,
		Jwt:            jwtService,
		VisitLog:       visits,
		LoginLimiter:   ratelimiter.NewUserRateLimiter(cfg.Public.LoginRateLimit.Rate, cfg.Public.LoginRateLimit.Burst, limiterExpiration),
		MessageLimiter: ratelimiter.NewUserRateLimiter(cfg.Public.MessageRateLimit.Rate, cfg.Public.MessageRateLimit.Burst, limiterExpiration),
	}, nil
}

// Cleanup releases everything SetupDependencies opened.
func (d *Dependencies) Cleanup() {
	if d.LoginLimiter != nil {
		d.LoginLimiter.Stop()
	}
	if d.MessageLimiter != nil {
		d.MessageLimiter.Stop()
	}
	if d.VisitLog != nil {
		if err := d.VisitLog.Close(); err != nil {
			logger.Log.Error("closing visit log", "error", err)
		}
	}
	if d.Storage != nil {
		if err := d.Storage.Cleanup(); err != nil {
			logger.Log.Error("closing database", "error", err)
		}
	}
}

func formatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

var templateFuncs = template.FuncMap{
	"formatDate": formatDate,
}

// loadTemplates parses every page in tmplPath together with the base layout.
// Pages are keyed by file name.
func loadTemplates(tmplPath string) (map[string]*template.Template, error) {
	files, err := os.ReadDir(tmplPath)
	if err != nil {
		return nil, err
	}

	templates := make(map[string]*template.Template)
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".html" || f.Name() == baseTemplate {
			continue
		}
		tmpl, err := template.New(baseTemplate).Funcs(templateFuncs).ParseFiles(
			filepath.Join(tmplPath, baseTemplate),
			filepath.Join(tmplPath, f.Name()),
		)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", f.Name(), err)
		}
		templates[f.Name()] = tmpl
	}
	return templates, nil
}
