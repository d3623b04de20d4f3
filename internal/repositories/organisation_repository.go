package repositories

import (
	"database/sql"
	"fmt"

	"etatcivil/internal/models"
)

type OrganisationRepository struct {
	DB *sql.DB
}

func NewOrganisationRepository(db *sql.DB) *OrganisationRepository {
	return &OrganisationRepository{DB: db}
}

func (r *OrganisationRepository) Create(o *models.Organisation) error {
	const q = `
		INSERT INTO organisations (nom, reference, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	if err := r.DB.QueryRow(q, o.Nom, o.Reference).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return fmt.Errorf("create organisation: %w", err)
	}
	return nil
}

func (r *OrganisationRepository) GetByID(id int) (*models.Organisation, error) {
	const q = `SELECT id, nom, reference, created_at, updated_at FROM organisations WHERE id = $1`
	var o models.Organisation
	if err := r.DB.QueryRow(q, id).Scan(&o.ID, &o.Nom, &o.Reference, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get organisation: %w", err)
	}
	return &o, nil
}

func (r *OrganisationRepository) List() ([]*models.Organisation, error) {
	rows, err := r.DB.Query(`SELECT id, nom, reference, created_at, updated_at FROM organisations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list organisations: %w", err)
	}
	defer rows.Close()

	var res []*models.Organisation
	for rows.Next() {
		var o models.Organisation
		if err := rows.Scan(&o.ID, &o.Nom, &o.Reference, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, &o)
	}
	return res, rows.Err()
}

func (r *OrganisationRepository) Delete(id int) error {
	if _, err := r.DB.Exec(`DELETE FROM organisations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete organisation: %w", err)
	}
	return nil
}
