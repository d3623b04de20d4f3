package repositories

import (
	"database/sql"
	"fmt"

	"etatcivil/internal/models"
)

type MotifRepository struct {
	DB *sql.DB
}

func NewMotifRepository(db *sql.DB) *MotifRepository {
	return &MotifRepository{DB: db}
}

func (r *MotifRepository) Create(m *models.Motif) error {
	const q = `
		INSERT INTO motifs_demandes (code, description, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`
	if err := r.DB.QueryRow(q, m.Code, m.Description).Scan(&m.ID, &m.CreatedAt); err != nil {
		return fmt.Errorf("create motif: %w", err)
	}
	return nil
}

func (r *MotifRepository) GetByID(id int) (*models.Motif, error) {
	const q = `SELECT id, code, description, created_at FROM motifs_demandes WHERE id = $1`
	var m models.Motif
	if err := r.DB.QueryRow(q, id).Scan(&m.ID, &m.Code, &m.Description, &m.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get motif: %w", err)
	}
	return &m, nil
}

func (r *MotifRepository) List() ([]*models.Motif, error) {
	rows, err := r.DB.Query(`SELECT id, code, description, created_at FROM motifs_demandes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list motifs: %w", err)
	}
	defer rows.Close()

	var res []*models.Motif
	for rows.Next() {
		var m models.Motif
		if err := rows.Scan(&m.ID, &m.Code, &m.Description, &m.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &m)
	}
	return res, rows.Err()
}

func (r *MotifRepository) Update(m *models.Motif) error {
	if _, err := r.DB.Exec(`UPDATE motifs_demandes SET code = $1, description = $2 WHERE id = $3`, m.Code, m.Description, m.ID); err != nil {
		return fmt.Errorf("update motif: %w", err)
	}
	return nil
}

func (r *MotifRepository) Delete(id int) error {
	if _, err := r.DB.Exec(`DELETE FROM motifs_demandes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete motif: %w", err)
	}
	return nil
}
