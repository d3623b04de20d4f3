package models

import "time"

// Document is the produced/attached file for a demande (1:1).
type Document struct {
	ID        int       `json:"id"`
	DemandeID int       `json:"demande_id"`
	FilePath  string    `json:"file_path"`
	FileType  string    `json:"file_type"`
	FileSize  int64     `json:"file_size"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
