package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/concreteguy/homepage/internal/domain"
	internal_errors "github.com/concreteguy/homepage/internal/errors"
)

const postColumns = "id, title, body, created_at, updated_at"

// Posts returns every post in insertion order.
func (s *Storage) Posts() ([]domain.Post, error) {
	rows, err := s.db.Query("SELECT " + postColumns + " FROM posts ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.Id, &p.Title, &p.Body, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return posts, nil
}

func (s *Storage) Post(id domain.PostId) (domain.Post, error) {
	return s.post(s.db, id)
}

func (s *Storage) CreatePost(data domain.PostCreationData) (domain.Post, error) {
	var post domain.Post
	err := s.withTx(func(tx *sql.Tx) error {
		var id domain.PostId
		err := tx.QueryRow("INSERT INTO posts(title, body) VALUES($1, $2) RETURNING id", data.Title, data.Body).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to insert post: %w", err)
		}
		post, err = s.post(tx, id)
		return err
	})
	return post, err
}

func (s *Storage) UpdatePost(data domain.PostUpdateData) (domain.Post, error) {
	var post domain.Post
	err := s.withTx(func(tx *sql.Tx) error {
		result, err := tx.Exec("UPDATE posts SET title = $1, body = $2, updated_at = NOW() WHERE id = $3",
			data.Title, data.Body, data.Id)
		if err != nil {
			return fmt.Errorf("failed to update post: %w", err)
		}
		if err := checkAffected(result, internal_errors.NotFound("Post")); err != nil {
			return err
		}
		post, err = s.post(tx, data.Id)
		return err
	})
	return post, err
}

func (s *Storage) DeletePost(id domain.PostId) error {
	return s.withTx(func(tx *sql.Tx) error {
		result, err := tx.Exec("DELETE FROM posts WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("failed to delete post: %w", err)
		}
		return checkAffected(result, internal_errors.NotFound("Post"))
	})
}

func (s *Storage) post(q Querier, id domain.PostId) (domain.Post, error) {
	var p domain.Post
	err := q.QueryRow("SELECT "+postColumns+" FROM posts WHERE id = $1", id).
		Scan(&p.Id, &p.Title, &p.Body, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Post{}, internal_errors.NotFound("Post")
		}
		return domain.Post{}, fmt.Errorf("failed to query post: %w", err)
	}
	return p, nil
}
