package models

import "time"

// Motif is a catalogued rejection reason attached to refused demandes.
type Motif struct {
	ID          int       `json:"id"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
