package pg

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/concreteguy/homepage/internal/domain"
	internal_errors "github.com/concreteguy/homepage/internal/errors"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// =========================================================================
// Public Methods (satisfy service.AuthStorage)
// =========================================================================

// SaveUser inserts a user. A taken username yields a 409 error.
func (s *Storage) SaveUser(user domain.User) (domain.UserId, error) {
	var id domain.UserId
	err := s.withTx(func(tx *sql.Tx) error {
		var err error
		id, err = s.saveUser(tx, user)
		return err
	})
	return id, err
}

func (s *Storage) User(username domain.Username) (domain.User, error) {
	return s.user(s.db, username)
}

func (s *Storage) SaveSession(session domain.Session) error {
	return s.withTx(func(tx *sql.Tx) error {
		return s.saveSession(tx, session)
	})
}

// SessionUser returns the session and the user it belongs to. Expired
// sessions are returned as well; the caller decides what expiry means.
func (s *Storage) SessionUser(id domain.SessionId) (domain.Session, domain.User, error) {
	return s.sessionUser(s.db, id)
}

// DeleteSession removes the session. A missing row is not an error.
func (s *Storage) DeleteSession(id domain.SessionId) error {
	return s.withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec("DELETE FROM sessions WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		return nil
	})
}

// =========================================================================
// Internal Methods
// =========================================================================

func (s *Storage) saveUser(q Querier, user domain.User) (domain.UserId, error) {
	var id domain.UserId
	err := q.QueryRow("INSERT INTO users(username, password_hash, is_admin) VALUES($1, $2, $3) RETURNING id",
		user.Username, user.PassHash, user.Admin).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return -1, &internal_errors.ErrorWithStatusCode{Message: "Username already taken", StatusCode: http.StatusConflict}
		}
		return -1, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func (s *Storage) user(q Querier, username domain.Username) (domain.User, error) {
	var user domain.User
	err := q.QueryRow("SELECT id, username, password_hash, is_admin, created_at FROM users WHERE username = $1", username).
		Scan(&user.Id, &user.Username, &user.PassHash, &user.Admin, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User")
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (s *Storage) saveSession(q Querier, session domain.Session) error {
	_, err := q.Exec("INSERT INTO sessions(id, user_id, created_at, expires_at) VALUES($1, $2, $3, $4)",
		session.Id, session.UserId, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (s *Storage) sessionUser(q Querier, id domain.SessionId) (domain.Session, domain.User, error) {
	var (
		session domain.Session
		user    domain.User
	)
	err := q.QueryRow(`
        SELECT s.id, s.user_id, s.created_at, s.expires_at,
               u.id, u.username, u.password_hash, u.is_admin, u.created_at
        FROM sessions s
        JOIN users u ON u.id = s.user_id
        WHERE s.id = $1`, id).
		Scan(&session.Id, &session.UserId, &session.CreatedAt, &session.ExpiresAt,
			&user.Id, &user.Username, &user.PassHash, &user.Admin, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Session{}, domain.User{}, internal_errors.NotFound("Session")
		}
		return domain.Session{}, domain.User{}, fmt.Errorf("failed to query session: %w", err)
	}
	return session, user, nil
}
