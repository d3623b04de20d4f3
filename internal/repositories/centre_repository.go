package repositories

import (
	"database/sql"
	"fmt"

	"etatcivil/internal/models"
)

type CentreRepository struct {
	DB *sql.DB
}

func NewCentreRepository(db *sql.DB) *CentreRepository {
	return &CentreRepository{DB: db}
}

func (r *CentreRepository) Create(c *models.CentreEtatCivil) error {
	const q = `
		INSERT INTO centres_etat_civil (reference, nom, adresse, email, telephone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	if err := r.DB.QueryRow(q, c.Reference, c.Nom, c.Adresse, c.Email, c.Telephone).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return fmt.Errorf("create centre: %w", err)
	}
	return nil
}

func (r *CentreRepository) GetByID(id int) (*models.CentreEtatCivil, error) {
	const q = `
		SELECT id, reference, nom, adresse, email, telephone, created_at, updated_at
		FROM centres_etat_civil
		WHERE id = $1
	`
	var c models.CentreEtatCivil
	if err := r.DB.QueryRow(q, id).Scan(&c.ID, &c.Reference, &c.Nom, &c.Adresse, &c.Email, &c.Telephone, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get centre: %w", err)
	}
	return &c, nil
}

func (r *CentreRepository) GetByReference(reference string) (*models.CentreEtatCivil, error) {
	const q = `
		SELECT id, reference, nom, adresse, email, telephone, created_at, updated_at
		FROM centres_etat_civil
		WHERE reference = $1
	`
	var c models.CentreEtatCivil
	if err := r.DB.QueryRow(q, reference).Scan(&c.ID, &c.Reference, &c.Nom, &c.Adresse, &c.Email, &c.Telephone, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get centre by reference: %w", err)
	}
	return &c, nil
}

func (r *CentreRepository) List(limit, offset int) ([]*models.CentreEtatCivil, error) {
	const q = `
		SELECT id, reference, nom, adresse, email, telephone, created_at, updated_at
		FROM centres_etat_civil
		ORDER BY nom
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.Query(q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list centres: %w", err)
	}
	defer rows.Close()

	var res []*models.CentreEtatCivil
	for rows.Next() {
		var c models.CentreEtatCivil
		if err := rows.Scan(&c.ID, &c.Reference, &c.Nom, &c.Adresse, &c.Email, &c.Telephone, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, &c)
	}
	return res, rows.Err()
}

func (r *CentreRepository) Update(c *models.CentreEtatCivil) error {
	const q = `
		UPDATE centres_etat_civil
		SET nom = $1, adresse = $2, email = $3, telephone = $4, updated_at = NOW()
		WHERE id = $5
	`
	if _, err := r.DB.Exec(q, c.Nom, c.Adresse, c.Email, c.Telephone, c.ID); err != nil {
		return fmt.Errorf("update centre: %w", err)
	}
	return nil
}

func (r *CentreRepository) Delete(id int) error {
	if _, err := r.DB.Exec(`DELETE FROM centres_etat_civil WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete centre: %w", err)
	}
	return nil
}
