package models

import "time"

// OTP is the 5-digit code bound 1:1 to a session. A new issuance expires
// the previous row instead of deleting it, so the history stays auditable.
// The code itself is never serialized; handlers expose metadata only.
type OTP struct {
	ID        int       `json:"id"`
	SessionID int       `json:"session_id"`
	Code      string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
