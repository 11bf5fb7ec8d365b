package handler

import (
	"context"
	"html/template"
	"net/http"

	"github.com/concreteguy/homepage/internal/config"
	"github.com/concreteguy/homepage/internal/domain"
	"github.com/concreteguy/homepage/internal/markdown"
	"github.com/concreteguy/homepage/internal/service"
)

// SessionCookies issues and clears the session cookie.
type SessionCookies interface {
	SetSessionCookie(w http.ResponseWriter, session domain.Session) error
	ClearSessionCookie(w http.ResponseWriter)
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Templates     map[string]*template.Template
	Public        config.Public
	TextProcessor *markdown.TextProcessor

	auth    service.AuthService
	blog    service.BlogService
	message service.MessageService
	cookies SessionCookies
	health  HealthChecker
}

func New(
	templates map[string]*template.Template,
	publicCfg config.Public,
	textProcessor *markdown.TextProcessor,
	auth service.AuthService,
	blog service.BlogService,
	message service.MessageService,
	cookies SessionCookies,
	health HealthChecker,
) *Handler {
	return &Handler{
		Templates:     templates,
		Public:        publicCfg,
		TextProcessor: textProcessor,
		auth:          auth,
		blog:          blog,
		message:       message,
		cookies:       cookies,
		health:        health,
	}
}
