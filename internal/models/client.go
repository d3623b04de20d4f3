package models

import "time"

// Client represents a requester (citizen) identified by email and/or phone.
// At least one of the two must be present; both are unique when set.
type Client struct {
	ID        int       `json:"id"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Identifier returns the email when present, otherwise the phone.
// Used as the subject of the session token.
func (c *Client) Identifier() string {
	if c.Email != nil && *c.Email != "" {
		return *c.Email
	}
	if c.Phone != nil {
		return *c.Phone
	}
	return ""
}

type ClientCreateRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}
