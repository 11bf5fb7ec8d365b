package handler

import (
	"fmt"
	"net/http"

	internal_errors "github.com/concreteguy/homepage/internal/errors"
	"github.com/concreteguy/homepage/internal/logger"
	mw "github.com/concreteguy/homepage/internal/middleware"
)

const postNotFound = "Post not found."

func (h *Handler) IndexGetHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blog.List()
	if err != nil {
		h.internalError(w, r, "listing posts", err)
		return
	}

	var templateData struct {
		Posts  []postView
		Videos []string
	}
	templateData.Posts = h.renderPosts(posts)
	templateData.Videos = staticURLs(h.Public.FeaturedVideos)

	h.renderTemplate(w, r, "index.html", templateData)
}

func (h *Handler) BlogsGetHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blog.List()
	if err != nil {
		h.internalError(w, r, "listing posts", err)
		return
	}

	var templateData struct {
		Posts []postView
	}
	templateData.Posts = h.renderPosts(posts)

	h.renderTemplate(w, r, "blog.html", templateData)
}

func (h *Handler) PostGetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.renderError(w, r, http.StatusNotFound)
		return
	}

	post, err := h.blog.Get(id)
	if err != nil {
		if internal_errors.IsNotFound(err) {
			h.renderError(w, r, http.StatusNotFound)
			return
		}
		h.internalError(w, r, "getting post", err)
		return
	}

	h.renderTemplate(w, r, "post.html", h.renderPost(post))
}

func (h *Handler) CreateGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "create.html", postForm{})
}

func (h *Handler) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	form := parsePostForm(r)
	if msg := validateForm(form); msg != "" {
		h.renderTemplateWithError(w, r, "create.html", http.StatusBadRequest, form, msg)
		return
	}

	post, err := h.blog.Create(form.Title, form.Content)
	if err != nil {
		if internal_errors.IsValidation(err) {
			h.renderTemplateWithError(w, r, "create.html", http.StatusBadRequest, form, err.Error())
			return
		}
		h.internalError(w, r, "creating post", err)
		return
	}

	logger.Log.Info("post created", "post_id", post.Id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type updatePage struct {
	Id int64
	postForm
}

func (h *Handler) UpdateGetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.redirectWithFlash(w, r, "/", mw.FlashError, postNotFound)
		return
	}

	post, err := h.blog.Get(id)
	if err != nil {
		if internal_errors.IsNotFound(err) {
			h.redirectWithFlash(w, r, "/", mw.FlashError, postNotFound)
			return
		}
		h.internalError(w, r, "getting post", err)
		return
	}

	h.renderTemplate(w, r, "update.html", updatePage{Id: post.Id, postForm: postForm{Title: post.Title, Content: post.Body}})
}

func (h *Handler) UpdatePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.redirectWithFlash(w, r, "/", mw.FlashError, postNotFound)
		return
	}

	form := parsePostForm(r)
	page := updatePage{Id: id, postForm: form}
	if msg := validateForm(form); msg != "" {
		h.renderTemplateWithError(w, r, "update.html", http.StatusBadRequest, page, msg)
		return
	}

	if _, err := h.blog.Update(id, form.Title, form.Content); err != nil {
		switch {
		case internal_errors.IsNotFound(err):
			h.redirectWithFlash(w, r, "/", mw.FlashError, postNotFound)
		case internal_errors.IsValidation(err):
			h.renderTemplateWithError(w, r, "update.html", http.StatusBadRequest, page, err.Error())
		default:
			h.internalError(w, r, "updating post", err)
		}
		return
	}

	logger.Log.Info("post updated", "post_id", id)
	http.Redirect(w, r, fmt.Sprintf("/post/%d", id), http.StatusSeeOther)
}

func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.redirectWithFlash(w, r, "/", mw.FlashError, postNotFound)
		return
	}

	if err := h.blog.Delete(id); err != nil {
		if internal_errors.IsNotFound(err) {
			h.redirectWithFlash(w, r, "/", mw.FlashError, postNotFound)
			return
		}
		h.internalError(w, r, "deleting post", err)
		return
	}

	logger.Log.Info("post deleted", "post_id", id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
