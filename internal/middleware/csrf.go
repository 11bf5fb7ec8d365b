package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"

	"github.com/concreteguy/homepage/internal/logger"
)

// CSRFFormField is the hidden input every admin form carries. The cookie
// uses the same name.
const CSRFFormField = "csrf_token"

const (
	csrfTokenBytes = 32
	csrfCookieTTL  = 24 * 60 * 60
)

type csrfKey struct{}

// CSRFConfig controls the token cookie.
type CSRFConfig struct {
	SecureCookies bool
}

// GenerateCSRFToken makes sure the visitor has a token cookie and exposes the
// token to templates through the request context.
func GenerateCSRFToken(cfg CSRFConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := csrfCookieValue(r)
			if token == "" {
				var err error
				if token, err = newCSRFToken(); err != nil {
					logger.Log.Error("generating csrf token", "error", err)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     CSRFFormField,
					Value:    token,
					Path:     "/",
					MaxAge:   csrfCookieTTL,
					HttpOnly: true,
					Secure:   cfg.SecureCookies,
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfKey{}, token)))
		})
	}
}

// ValidateCSRFToken checks the double-submitted token on form posts. Safe
// methods pass through untouched.
func ValidateCSRFToken() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			expected := csrfCookieValue(r)
			if expected == "" {
				logger.Log.Warn("csrf cookie missing", "path", r.URL.Path)
				http.Error(w, "CSRF token missing", http.StatusForbidden)
				return
			}
			if err := r.ParseForm(); err != nil {
				logger.Log.Warn("parsing form for csrf check", "path", r.URL.Path, "error", err)
				http.Error(w, "Invalid form data", http.StatusBadRequest)
				return
			}
			got := r.PostFormValue(CSRFFormField)
			if got == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(got)) != 1 {
				logger.Log.Warn("csrf token mismatch", "path", r.URL.Path)
				http.Error(w, "CSRF token invalid", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetCSRFTokenFromContext returns the token set by GenerateCSRFToken, or "".
func GetCSRFTokenFromContext(r *http.Request) string {
	token, _ := r.Context().Value(csrfKey{}).(string)
	return token
}

func csrfCookieValue(r *http.Request) string {
	c, err := r.Cookie(CSRFFormField)
	if err != nil {
		return ""
	}
	return c.Value
}

func newCSRFToken() (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
