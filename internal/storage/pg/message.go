package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/concreteguy/homepage/internal/domain"
	internal_errors "github.com/concreteguy/homepage/internal/errors"
)

const messageColumns = "id, name, email, text, created_at, updated_at"

func (s *Storage) Messages() ([]domain.Message, error) {
	rows, err := s.db.Query("SELECT " + messageColumns + " FROM messages ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.Id, &m.Name, &m.Email, &m.Text, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}
	return messages, nil
}

func (s *Storage) Message(id domain.MsgId) (domain.Message, error) {
	return s.message(s.db, id)
}

func (s *Storage) CreateMessage(data domain.MessageCreationData) (domain.Message, error) {
	var msg domain.Message
	err := s.withTx(func(tx *sql.Tx) error {
		var id domain.MsgId
		err := tx.QueryRow("INSERT INTO messages(name, email, text) VALUES($1, $2, $3) RETURNING id",
			data.Name, data.Email, data.Text).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}
		msg, err = s.message(tx, id)
		return err
	})
	return msg, err
}

func (s *Storage) UpdateMessage(data domain.MessageUpdateData) (domain.Message, error) {
	var msg domain.Message
	err := s.withTx(func(tx *sql.Tx) error {
		result, err := tx.Exec("UPDATE messages SET name = $1, email = $2, text = $3, updated_at = NOW() WHERE id = $4",
			data.Name, data.Email, data.Text, data.Id)
		if err != nil {
			return fmt.Errorf("failed to update message: %w", err)
		}
		if err := checkAffected(result, internal_errors.NotFound("Message")); err != nil {
			return err
		}
		msg, err = s.message(tx, data.Id)
		return err
	})
	return msg, err
}

func (s *Storage) DeleteMessage(id domain.MsgId) error {
	return s.withTx(func(tx *sql.Tx) error {
		result, err := tx.Exec("DELETE FROM messages WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("failed to delete message: %w", err)
		}
		return checkAffected(result, internal_errors.NotFound("Message"))
	})
}

func (s *Storage) message(q Querier, id domain.MsgId) (domain.Message, error) {
	var m domain.Message
	err := q.QueryRow("SELECT "+messageColumns+" FROM messages WHERE id = $1", id).
		Scan(&m.Id, &m.Name, &m.Email, &m.Text, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Message{}, internal_errors.NotFound("Message")
		}
		return domain.Message{}, fmt.Errorf("failed to query message: %w", err)
	}
	return m, nil
}
