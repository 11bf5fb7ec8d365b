package handler

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/concreteguy/homepage/internal/domain"
	"github.com/concreteguy/homepage/internal/logger"
	mw "github.com/concreteguy/homepage/internal/middleware"
)

// CommonTemplateData holds fields that are common to all page templates.
// Available in templates as .Common via the TemplateData wrapper.
type CommonTemplateData struct {
	Error     string
	Success   string
	User      *domain.User
	CSRFToken string
}

// TemplateData wraps page-specific data with common template data.
// Templates access page data via .Data and common data via .Common.
type TemplateData struct {
	Data   any
	Common CommonTemplateData
}

type errorPage struct {
	Code    int
	Message string
}

// postView is a post with its Markdown body rendered to sanitized HTML.
type postView struct {
	domain.Post
	HTML    template.HTML
	Excerpt template.HTML
}

const excerptLength = 300

func (h *Handler) renderPost(post domain.Post) postView {
	return postView{
		Post:    post,
		HTML:    h.TextProcessor.Render(string(post.Body)),
		Excerpt: h.TextProcessor.Excerpt(string(post.Body), excerptLength),
	}
}

func (h *Handler) renderPosts(posts []domain.Post) []postView {
	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, h.renderPost(p))
	}
	return views
}

// initCommonTemplateData consumes pending flash notices, so it must run
// before any header is written.
func (h *Handler) initCommonTemplateData(w http.ResponseWriter, r *http.Request) CommonTemplateData {
	return CommonTemplateData{
		Error:     mw.PopFlash(w, r, mw.FlashError),
		Success:   mw.PopFlash(w, r, mw.FlashSuccess),
		User:      mw.GetUserFromContext(r),
		CSRFToken: mw.GetCSRFTokenFromContext(r),
	}
}

func (h *Handler) renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	h.renderTemplateWithError(w, r, name, http.StatusOK, data, "")
}

// renderTemplateWithError renders name with the given status. A non-empty
// errMsg replaces any flash error.
func (h *Handler) renderTemplateWithError(w http.ResponseWriter, r *http.Request, name string, status int, data any, errMsg string) {
	tmpl, ok := h.Templates[name]
	if !ok {
		logger.Log.Error("template not found", "template", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	common := h.initCommonTemplateData(w, r)
	if errMsg != "" {
		common.Error = errMsg
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, TemplateData{Data: data, Common: common}); err != nil {
		logger.Log.Error("error executing template", "template", name, "error", err)
		if name != errorTemplate {
			h.renderError(w, r, http.StatusInternalServerError)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

const errorTemplate = "error.html"

// renderError renders the error page. Details never reach the visitor.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int) {
	msg := "Something went wrong. Please try again later."
	if status == http.StatusNotFound {
		msg = "The page you are looking for does not exist."
	}
	h.renderTemplateWithError(w, r, errorTemplate, status, errorPage{Code: status, Message: msg}, "")
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logger.Log.Error(msg, "path", r.URL.Path, "error", err)
	h.renderError(w, r, http.StatusInternalServerError)
}

func (h *Handler) setFlash(w http.ResponseWriter, name, message string) {
	mw.SetFlash(w, name, message, h.Public.SecureCookies)
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, url, name, message string) {
	h.setFlash(w, name, message)
	http.Redirect(w, r, url, http.StatusSeeOther)
}
