package domain

import "github.com/google/uuid"

type (
	Username  = string
	Password  = string
	UserId    = int64
	SessionId = uuid.UUID

	PostId    = int64
	PostTitle = string
	PostBody  = string

	MsgId   = int64
	MsgText = string
)
