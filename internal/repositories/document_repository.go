package repositories

import (
	"database/sql"
	"fmt"

	"etatcivil/internal/models"
)

type DocumentRepository struct {
	DB *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{DB: db}
}

func (r *DocumentRepository) Create(doc *models.Document) error {
	const q = `
		INSERT INTO documents (demande_id, file_path, file_type, file_size, checksum, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	if err := r.DB.QueryRow(q,
		doc.DemandeID, doc.FilePath, doc.FileType, doc.FileSize, doc.Checksum,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(id int) (*models.Document, error) {
	const q = `
		SELECT id, demande_id, file_path, file_type, file_size, checksum, created_at, updated_at
		FROM documents
		WHERE id = $1
	`
	return r.scanOne(r.DB.QueryRow(q, id))
}

func (r *DocumentRepository) GetByDemandeID(demandeID int) (*models.Document, error) {
	const q = `
		SELECT id, demande_id, file_path, file_type, file_size, checksum, created_at, updated_at
		FROM documents
		WHERE demande_id = $1
	`
	return r.scanOne(r.DB.QueryRow(q, demandeID))
}

func (r *DocumentRepository) scanOne(row *sql.Row) (*models.Document, error) {
	var d models.Document
	if err := row.Scan(&d.ID, &d.DemandeID, &d.FilePath, &d.FileType, &d.FileSize, &d.Checksum, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &d, nil
}

func (r *DocumentRepository) Delete(id int) error {
	if _, err := r.DB.Exec(`DELETE FROM documents WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}
