package service

import (
	"strings"

	"github.com/concreteguy/homepage/internal/domain"
	"github.com/concreteguy/homepage/internal/errors"
)

type BlogService interface {
	List() ([]domain.Post, error)
	Get(id domain.PostId) (domain.Post, error)
	Create(title domain.PostTitle, body domain.PostBody) (domain.Post, error)
	Update(id domain.PostId, title domain.PostTitle, body domain.PostBody) (domain.Post, error)
	Delete(id domain.PostId) error
}

type BlogStorage interface {
	Posts() ([]domain.Post, error)
	Post(id domain.PostId) (domain.Post, error)
	CreatePost(data domain.PostCreationData) (domain.Post, error)
	UpdatePost(data domain.PostUpdateData) (domain.Post, error)
	DeletePost(id domain.PostId) error
}

type Blog struct {
	storage BlogStorage
}

func NewBlog(storage BlogStorage) *Blog {
	return &Blog{storage: storage}
}

// List returns all posts ordered by id, oldest first.
func (b *Blog) List() ([]domain.Post, error) {
	return b.storage.Posts()
}

func (b *Blog) Get(id domain.PostId) (domain.Post, error) {
	return b.storage.Post(id)
}

func (b *Blog) Create(title domain.PostTitle, body domain.PostBody) (domain.Post, error) {
	if err := validatePost(title, body); err != nil {
		return domain.Post{}, err
	}
	return b.storage.CreatePost(domain.PostCreationData{Title: strings.TrimSpace(title), Body: body})
}

func (b *Blog) Update(id domain.PostId, title domain.PostTitle, body domain.PostBody) (domain.Post, error) {
	if err := validatePost(title, body); err != nil {
		return domain.Post{}, err
	}
	return b.storage.UpdatePost(domain.PostUpdateData{Id: id, Title: strings.TrimSpace(title), Body: body})
}

// Delete reports NotFound for an unknown id.
func (b *Blog) Delete(id domain.PostId) error {
	return b.storage.DeletePost(id)
}

func validatePost(title domain.PostTitle, body domain.PostBody) error {
	if strings.TrimSpace(title) == "" {
		return errors.ValidationError("Title is required.")
	}
	if strings.TrimSpace(body) == "" {
		return errors.ValidationError("Content is required.")
	}
	return nil
}
