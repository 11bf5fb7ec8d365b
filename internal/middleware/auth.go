package middleware

import (
	"context"
	"net/http"

	"github.com/concreteguy/homepage/internal/domain"
	internal_errors "github.com/concreteguy/homepage/internal/errors"
	"github.com/concreteguy/homepage/internal/jwt"
	"github.com/concreteguy/homepage/internal/logger"
)

const SessionCookieName = "session"

const msgLoginRequired = "Please log in to continue."

var msgNotAuthorized = internal_errors.AuthorizationDenied.Message

// SessionResolver maps a session id to its user, nil for dead sessions.
type SessionResolver interface {
	CurrentUser(id domain.SessionId) (*domain.User, error)
}

// Key to store the request context in the request's context.Context
type key int

const requestContextKey key = 0

// Auth holds dependencies for authentication middleware
type Auth struct {
	jwtService    jwt.JwtService
	sessions      SessionResolver
	secureCookies bool
}

func NewAuth(jwtService jwt.JwtService, sessions SessionResolver, secureCookies bool) *Auth {
	return &Auth{
		jwtService:    jwtService,
		sessions:      sessions,
		secureCookies: secureCookies,
	}
}

// LoadSession resolves the session cookie once per request and stores the
// result for the handlers. It never rejects a request: anything that does not
// resolve to a live session becomes an anonymous context.
func (a *Auth) LoadSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rc := a.resolve(w, r)
			ctx := context.WithValue(r.Context(), requestContextKey, rc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (a *Auth) resolve(w http.ResponseWriter, r *http.Request) domain.RequestContext {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return domain.RequestContext{}
	}

	sid, err := a.jwtService.DecodeToken(cookie.Value)
	if err != nil {
		logger.Log.Debug("discarding invalid session cookie", "error", err)
		a.ClearSessionCookie(w)
		return domain.RequestContext{}
	}

	user, err := a.sessions.CurrentUser(sid)
	if err != nil {
		logger.Log.Error("failed to resolve session", "error", err)
		return domain.RequestContext{}
	}
	if user == nil {
		a.ClearSessionCookie(w)
		return domain.RequestContext{}
	}

	return domain.RequestContext{
		Session: &domain.Session{Id: sid, UserId: user.Id},
		User:    user,
	}
}

// NeedAuth redirects anonymous visitors to the login page.
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !GetRequestContext(r).Authenticated() {
				a.redirectToLogin(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly behaves like NeedAuth and additionally sends non-admin users home.
func (a *Auth) AdminOnly() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rc := GetRequestContext(r)
			if !rc.Authenticated() {
				a.redirectToLogin(w, r)
				return
			}
			if !rc.IsAdmin() {
				logger.Log.Info("non-admin denied", "user_id", rc.User.Id, "path", r.URL.Path)
				SetFlash(w, FlashError, msgNotAuthorized, a.secureCookies)
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminOrHome sends every non-admin, anonymous visitors included, back to the
// home page with a warning. Used for the dashboard.
func (a *Auth) AdminOrHome() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !GetRequestContext(r).IsAdmin() {
				SetFlash(w, FlashError, msgNotAuthorized, a.secureCookies)
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (a *Auth) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	SetFlash(w, FlashError, msgLoginRequired, a.secureCookies)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// SetSessionCookie signs the session id into the session cookie.
func (a *Auth) SetSessionCookie(w http.ResponseWriter, session domain.Session) error {
	token, err := a.jwtService.NewToken(session)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (a *Auth) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetRequestContext returns what LoadSession resolved, or an anonymous context.
func GetRequestContext(r *http.Request) domain.RequestContext {
	rc, _ := r.Context().Value(requestContextKey).(domain.RequestContext)
	return rc
}

// GetUserFromContext retrieves the current user, nil for anonymous visitors.
func GetUserFromContext(r *http.Request) *domain.User {
	return GetRequestContext(r).User
}

// SessionIDFromRequest is the resolved session id as a string, "" if none.
func SessionIDFromRequest(r *http.Request) string {
	rc := GetRequestContext(r)
	if rc.Session == nil {
		return ""
	}
	return rc.Session.Id.String()
}

// WithRequestContext attaches rc to ctx. Used by tests and tools that
// bypass LoadSession.
func WithRequestContext(ctx context.Context, rc domain.RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey, rc)
}
