package repositories

import (
	"database/sql"
	"fmt"

	"etatcivil/internal/models"
)

type RoleRepository struct {
	DB *sql.DB
}

func NewRoleRepository(db *sql.DB) *RoleRepository {
	return &RoleRepository{DB: db}
}

func (r *RoleRepository) Create(role *models.Role) error {
	const q = `
		INSERT INTO roles (nom, created_at)
		VALUES ($1, NOW())
		RETURNING id, created_at
	`
	if err := r.DB.QueryRow(q, role.Nom).Scan(&role.ID, &role.CreatedAt); err != nil {
		return fmt.Errorf("create role: %w", err)
	}
	return nil
}

func (r *RoleRepository) GetByID(id int) (*models.Role, error) {
	const q = `SELECT id, nom, created_at FROM roles WHERE id = $1`
	var role models.Role
	if err := r.DB.QueryRow(q, id).Scan(&role.ID, &role.Nom, &role.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	return &role, nil
}

func (r *RoleRepository) List() ([]*models.Role, error) {
	rows, err := r.DB.Query(`SELECT id, nom, created_at FROM roles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var res []*models.Role
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.ID, &role.Nom, &role.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &role)
	}
	return res, rows.Err()
}

func (r *RoleRepository) Update(role *models.Role) error {
	if _, err := r.DB.Exec(`UPDATE roles SET nom = $1 WHERE id = $2`, role.Nom, role.ID); err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	return nil
}

func (r *RoleRepository) Delete(id int) error {
	if _, err := r.DB.Exec(`DELETE FROM roles WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	return nil
}

// GrantPermission attaches a permission to the role; duplicate grants are ignored.
func (r *RoleRepository) GrantPermission(roleID, permissionID int) error {
	const q = `
		INSERT INTO role_permissions (role_id, permission_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	if _, err := r.DB.Exec(q, roleID, permissionID); err != nil {
		return fmt.Errorf("grant permission: %w", err)
	}
	return nil
}

func (r *RoleRepository) RevokePermission(roleID, permissionID int) error {
	const q = `DELETE FROM role_permissions WHERE role_id = $1 AND permission_id = $2`
	if _, err := r.DB.Exec(q, roleID, permissionID); err != nil {
		return fmt.Errorf("revoke permission: %w", err)
	}
	return nil
}
