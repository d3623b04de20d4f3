package models

import "time"

// Session is one authentication window for a client.
// Created inactive; becomes active only after OTP validation.
// A client has at most one live session at any moment.
type Session struct {
	ID        int       `json:"id"`
	ClientID  int       `json:"client_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsLive reports whether the session is usable at the given instant:
// active flag set and expiry strictly in the future.
func (s *Session) IsLive(now time.Time) bool {
	return s.IsActive && s.ExpiresAt.After(now)
}

type SessionCreateRequest struct {
	ClientID int `json:"client_id" binding:"required"`
}
