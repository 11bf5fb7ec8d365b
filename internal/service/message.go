package service

import (
	"strings"

	"github.com/concreteguy/homepage/internal/domain"
	"github.com/concreteguy/homepage/internal/errors"
)

type MessageService interface {
	Submit(name, email string, text domain.MsgText) (domain.Message, error)
	List() ([]domain.Message, error)
	Get(id domain.MsgId) (domain.Message, error)
	Edit(id domain.MsgId, name, email string, text domain.MsgText) (domain.Message, error)
	Delete(id domain.MsgId) error
}

type MessageStorage interface {
	Messages() ([]domain.Message, error)
	Message(id domain.MsgId) (domain.Message, error)
	CreateMessage(data domain.MessageCreationData) (domain.Message, error)
	UpdateMessage(data domain.MessageUpdateData) (domain.Message, error)
	DeleteMessage(id domain.MsgId) error
}

type Message struct {
	storage MessageStorage
}

func NewMessage(storage MessageStorage) *Message {
	return &Message{storage: storage}
}

// Submit stores a contact-form message. Only presence is checked.
func (m *Message) Submit(name, email string, text domain.MsgText) (domain.Message, error) {
	if err := validateMessage(name, email, text); err != nil {
		return domain.Message{}, err
	}
	return m.storage.CreateMessage(domain.MessageCreationData{Name: name, Email: email, Text: text})
}

func (m *Message) List() ([]domain.Message, error) {
	return m.storage.Messages()
}

func (m *Message) Get(id domain.MsgId) (domain.Message, error) {
	return m.storage.Message(id)
}

// Edit replaces name, email and text of an existing message.
func (m *Message) Edit(id domain.MsgId, name, email string, text domain.MsgText) (domain.Message, error) {
	if err := validateMessage(name, email, text); err != nil {
		return domain.Message{}, err
	}
	return m.storage.UpdateMessage(domain.MessageUpdateData{Id: id, Name: name, Email: email, Text: text})
}

func (m *Message) Delete(id domain.MsgId) error {
	return m.storage.DeleteMessage(id)
}

func validateMessage(name, email string, text domain.MsgText) error {
	switch {
	case strings.TrimSpace(name) == "":
		return errors.ValidationError("Name is required.")
	case strings.TrimSpace(email) == "":
		return errors.ValidationError("Email is required.")
	case strings.TrimSpace(text) == "":
		return errors.ValidationError("Message is required.")
	}
	return nil
}
