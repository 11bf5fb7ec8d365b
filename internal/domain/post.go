package domain

import "time"

type Post struct {
	Id        PostId
	Title     PostTitle
	Body      PostBody
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PostCreationData struct {
	Title PostTitle
	Body  PostBody
}

type PostUpdateData struct {
	Id    PostId
	Title PostTitle
	Body  PostBody
}
