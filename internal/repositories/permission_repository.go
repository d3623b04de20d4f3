package repositories

import (
	"database/sql"
	"fmt"

	"etatcivil/internal/models"
)

type PermissionRepository interface {
	Create(p *models.Permission) error
	GetByID(id int) (*models.Permission, error)
	List() ([]*models.Permission, error)
	Delete(id int) error
	// CodesForUser returns the union of role-level and user-level permission
	// codes for the given staff member.
	CodesForUser(userID int) ([]string, error)
}

type permissionRepository struct {
	DB *sql.DB
}

func NewPermissionRepository(db *sql.DB) PermissionRepository {
	return &permissionRepository{DB: db}
}

func (r *permissionRepository) Create(p *models.Permission) error {
	const q = `
		INSERT INTO permissions (code, libelle, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`
	if err := r.DB.QueryRow(q, p.Code, p.Libelle).Scan(&p.ID, &p.CreatedAt); err != nil {
		return fmt.Errorf("create permission: %w", err)
	}
	return nil
}

func (r *permissionRepository) GetByID(id int) (*models.Permission, error) {
	const q = `SELECT id, code, libelle, created_at FROM permissions WHERE id = $1`
	var p models.Permission
	if err := r.DB.QueryRow(q, id).Scan(&p.ID, &p.Code, &p.Libelle, &p.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get permission: %w", err)
	}
	return &p, nil
}

func (r *permissionRepository) List() ([]*models.Permission, error) {
	rows, err := r.DB.Query(`SELECT id, code, libelle, created_at FROM permissions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	defer rows.Close()

	var res []*models.Permission
	for rows.Next() {
		var p models.Permission
		if err := rows.Scan(&p.ID, &p.Code, &p.Libelle, &p.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &p)
	}
	return res, rows.Err()
}

func (r *permissionRepository) Delete(id int) error {
	if _, err := r.DB.Exec(`DELETE FROM permissions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}
	return nil
}

func (r *permissionRepository) CodesForUser(userID int) ([]string, error) {
	const q = `
		SELECT p.code
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		JOIN utilisateurs u ON u.role_id = rp.role_id
		WHERE u.id = $1
		UNION
		SELECT p.code
		FROM permissions p
		JOIN utilisateur_permissions up ON up.permission_id = p.id
		WHERE up.utilisateur_id = $1
	`
	rows, err := r.DB.Query(q, userID)
	if err != nil {
		return nil, fmt.Errorf("permissions for user: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}
	return codes, rows.Err()
}
