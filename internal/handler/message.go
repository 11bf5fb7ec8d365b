package handler

import (
	"net/http"

	"github.com/concreteguy/homepage/internal/domain"
	internal_errors "github.com/concreteguy/homepage/internal/errors"
	"github.com/concreteguy/homepage/internal/logger"
	mw "github.com/concreteguy/homepage/internal/middleware"
	"github.com/concreteguy/homepage/internal/middleware/metrics"
)

const (
	messageNotFound = "Message not found."
	dashboardURL    = "/dashboard"
)

// MessagePostHandler accepts the public contact form. It answers in plain
// text because the form posts from the static frontend.
func (h *Handler) MessagePostHandler(w http.ResponseWriter, r *http.Request) {
	form := parseMessageForm(r)
	if msg := validateForm(form); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	message, err := h.message.Submit(form.Name, form.Email, form.Message)
	if err != nil {
		if internal_errors.IsValidation(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Log.Error("storing message", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	metrics.MessagesSubmitted.Inc()
	logger.Log.Info("message received", "message_id", message.Id)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Message sent!"))
}

// MessagesGetHandler lists all messages. Serves both /dashboard and /view_messages.
func (h *Handler) MessagesGetHandler(w http.ResponseWriter, r *http.Request) {
	messages, err := h.message.List()
	if err != nil {
		h.internalError(w, r, "listing messages", err)
		return
	}

	var templateData struct {
		Messages []domain.Message
	}
	templateData.Messages = messages

	h.renderTemplate(w, r, "view_messages.html", templateData)
}

type editMessagePage struct {
	Id int64
	messageForm
}

func (h *Handler) EditMessageGetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.redirectWithFlash(w, r, dashboardURL, mw.FlashError, messageNotFound)
		return
	}

	message, err := h.message.Get(id)
	if err != nil {
		if internal_errors.IsNotFound(err) {
			h.redirectWithFlash(w, r, dashboardURL, mw.FlashError, messageNotFound)
			return
		}
		h.internalError(w, r, "getting message", err)
		return
	}

	h.renderTemplate(w, r, "edit_message.html", editMessagePage{Id: message.Id, messageForm: messageFormFrom(message)})
}

func (h *Handler) EditMessagePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.redirectWithFlash(w, r, dashboardURL, mw.FlashError, messageNotFound)
		return
	}

	message, err := h.message.Get(id)
	if err != nil {
		if internal_errors.IsNotFound(err) {
			h.redirectWithFlash(w, r, dashboardURL, mw.FlashError, messageNotFound)
			return
		}
		h.internalError(w, r, "getting message", err)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.redirectWithFlash(w, r, dashboardURL, mw.FlashError, "Invalid form data.")
		return
	}
	form := messageFormFrom(message)
	form.overlay(r)
	page := editMessagePage{Id: id, messageForm: form}
	if msg := validateForm(form); msg != "" {
		h.renderTemplateWithError(w, r, "edit_message.html", http.StatusBadRequest, page, msg)
		return
	}

	if _, err := h.message.Edit(id, form.Name, form.Email, form.Message); err != nil {
		switch {
		case internal_errors.IsNotFound(err):
			h.redirectWithFlash(w, r, dashboardURL, mw.FlashError, messageNotFound)
		case internal_errors.IsValidation(err):
			h.renderTemplateWithError(w, r, "edit_message.html", http.StatusBadRequest, page, err.Error())
		default:
			h.internalError(w, r, "editing message", err)
		}
		return
	}

	logger.Log.Info("message updated", "message_id", id)
	h.redirectWithFlash(w, r, dashboardURL, mw.FlashSuccess, "Message updated.")
}

func (h *Handler) DeleteMessagePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.redirectWithFlash(w, r, dashboardURL, mw.FlashError, messageNotFound)
		return
	}

	if err := h.message.Delete(id); err != nil {
		if internal_errors.IsNotFound(err) {
			h.redirectWithFlash(w, r, dashboardURL, mw.FlashError, messageNotFound)
			return
		}
		h.internalError(w, r, "deleting message", err)
		return
	}

	logger.Log.Info("message deleted", "message_id", id)
	h.redirectWithFlash(w, r, dashboardURL, mw.FlashSuccess, "Message deleted.")
}
