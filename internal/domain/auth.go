package domain

import "time"

type User struct {
	Id        UserId
	Username  Username
	PassHash  string
	Admin     bool
	CreatedAt time.Time
}

type Credentials struct {
	Username Username
	Password Password
}

// Session is the server-side record behind the session cookie.
type Session struct {
	Id        SessionId
	UserId    UserId
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// RequestContext is resolved once per request and carried in the request context.
// Both fields are nil for anonymous visitors.
type RequestContext struct {
	Session *Session
	User    *User
}

func (rc RequestContext) Authenticated() bool {
	return rc.User != nil
}

func (rc RequestContext) IsAdmin() bool {
	return rc.User != nil && rc.User.Admin
}
