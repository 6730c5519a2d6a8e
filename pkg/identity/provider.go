package identity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

// Metadata is the profile data the provider keeps next to the credentials.
type Metadata struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type Session struct {
	AccessToken string    `json:"access_token"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	Metadata    Metadata  `json:"metadata"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type SessionEventKind string

const (
	SessionSignedIn  SessionEventKind = "signed_in"
	SessionSignedUp  SessionEventKind = "signed_up"
	SessionSignedOut SessionEventKind = "signed_out"
)

type SessionEvent struct {
	Kind    SessionEventKind
	Session *Session
}

// Provider is the identity and session backend. Its errors are opaque to callers beyond the
// package sentinels.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string, meta Metadata) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
	GetSession(ctx context.Context, accessToken string) (*Session, error)
	OnSessionChange(fn func(SessionEvent)) (cancel func())
}
