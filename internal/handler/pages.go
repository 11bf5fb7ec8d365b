package handler

import (
	"net/http"
	"path"
)

func (h *Handler) AboutGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "about.html", nil)
}

func (h *Handler) VideosGetHandler(w http.ResponseWriter, r *http.Request) {
	var templateData struct {
		Videos []string
	}
	templateData.Videos = staticURLs(h.Public.Videos)
	h.renderTemplate(w, r, "videos.html", templateData)
}

// NotFoundHandler renders the error page for unknown routes.
func (h *Handler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound)
}

// staticURLs maps paths relative to the static directory to URLs.
func staticURLs(files []string) []string {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		urls = append(urls, path.Join("/static", f))
	}
	return urls
}
