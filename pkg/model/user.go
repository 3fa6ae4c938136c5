package model

import (
	"context"
	"time"
)

// User domain object defining a registered user. Users create events and join
// the attendee sets of events; they are never deleted.
type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Email     string    `gorm:"index;unique" json:"email"`
	Name      string    `json:"name"`
	Password  string    `json:"-"`
}

type ctxKey int

var userKey ctxKey

// NewContextWithUser returns a new [context.Context] that carries the user.
func NewContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext returns the user stored in the ctx, if any. Public HTTP
// routes do not put a user in the context.
func GetUserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userKey).(*User)
	return user, ok
}
