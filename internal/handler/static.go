package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const (
	staticCacheControl = "public, max-age=604800"

	faviconFile = "img/favicon.jpg"
	notFoundPic = "img/laptop.gif"
	robotsFile  = "robots.txt"
	sitemapFile = "sitemap.xml"
)

// StaticHandler serves the static directory under /static/ with a one week
// cache lifetime. Directory listings are not served.
func (h *Handler) StaticHandler() http.Handler {
	fs := http.StripPrefix("/static/", http.FileServer(http.Dir(h.Public.StaticDir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			h.renderError(w, r, http.StatusNotFound)
			return
		}
		w.Header().Set("Cache-Control", staticCacheControl)
		fs.ServeHTTP(w, r)
	})
}

func (h *Handler) serveStaticFile(w http.ResponseWriter, r *http.Request, name string) {
	full := filepath.Join(h.Public.StaticDir, filepath.FromSlash(name))
	if info, err := os.Stat(full); err != nil || info.IsDir() {
		h.renderError(w, r, http.StatusNotFound)
		return
	}
	http.ServeFile(w, r, full)
}

func (h *Handler) FaviconHandler(w http.ResponseWriter, r *http.Request) {
	h.serveStaticFile(w, r, faviconFile)
}

func (h *Handler) NotFoundPicHandler(w http.ResponseWriter, r *http.Request) {
	h.serveStaticFile(w, r, notFoundPic)
}

func (h *Handler) RobotsHandler(w http.ResponseWriter, r *http.Request) {
	h.serveStaticFile(w, r, robotsFile)
}

func (h *Handler) SitemapHandler(w http.ResponseWriter, r *http.Request) {
	h.serveStaticFile(w, r, sitemapFile)
}
