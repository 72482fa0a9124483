package models

import "time"

// Session ties an opaque bearer token to a user. A user may hold any number
// of live sessions at once.
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
