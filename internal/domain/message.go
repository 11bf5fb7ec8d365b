package domain

import "time"

// Message is a contact-form submission.
type Message struct {
	Id        MsgId
	Name      string
	Email     string
	Text      MsgText
	CreatedAt time.Time
	UpdatedAt time.Time
}

type MessageCreationData struct {
	Name  string
	Email string
	Text  MsgText
}

type MessageUpdateData struct {
	Id    MsgId
	Name  string
	Email string
	Text  MsgText
}
