package models

import "time"

type Role struct {
	ID        int       `json:"id"`
	Nom       string    `json:"nom"`
	CreatedAt time.Time `json:"created_at"`
}

// Permission is a named capability; granted to roles and, additionally,
// to individual users.
type Permission struct {
	ID        int       `json:"id"`
	Code      string    `json:"code"`
	Libelle   string    `json:"libelle"`
	CreatedAt time.Time `json:"created_at"`
}
