package handler

import (
	"net/http"

	"github.com/concreteguy/homepage/internal/domain"
	internal_errors "github.com/concreteguy/homepage/internal/errors"
	"github.com/concreteguy/homepage/internal/logger"
	mw "github.com/concreteguy/homepage/internal/middleware"
	"github.com/concreteguy/homepage/internal/middleware/metrics"
)

func (h *Handler) LoginGetHandler(w http.ResponseWriter, r *http.Request) {
	if mw.GetRequestContext(r).Authenticated() {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	h.renderTemplate(w, r, "login.html", nil)
}

func (h *Handler) LoginPostHandler(w http.ResponseWriter, r *http.Request) {
	if mw.GetRequestContext(r).Authenticated() {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	form := parseLoginForm(r)
	if msg := validateForm(form); msg != "" {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		h.redirectWithFlash(w, r, "/login", mw.FlashError, internal_errors.InvalidCredentials.Message)
		return
	}

	session, err := h.auth.Login(domain.Credentials{Username: form.Username, Password: form.Password})
	if err != nil {
		if internal_errors.IsUnauthorized(err) {
			metrics.LoginAttempts.WithLabelValues("failure").Inc()
			h.redirectWithFlash(w, r, "/login", mw.FlashError, internal_errors.InvalidCredentials.Message)
			return
		}
		h.internalError(w, r, "login failed", err)
		return
	}

	if err := h.cookies.SetSessionCookie(w, session); err != nil {
		h.internalError(w, r, "setting session cookie", err)
		return
	}
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if rc := mw.GetRequestContext(r); rc.Session != nil {
		if err := h.auth.Logout(rc.Session.Id); err != nil {
			logger.Log.Error("deleting session", "error", err)
		} else {
			logger.Log.Info("user logged out", "user_id", rc.Session.UserId)
		}
	}
	h.cookies.ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
