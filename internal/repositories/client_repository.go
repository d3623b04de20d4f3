package repositories

import (
	"database/sql"
	"fmt"

	"etatcivil/internal/models"
)

type ClientRepository interface {
	Create(client *models.Client) error
	GetByID(id int) (*models.Client, error)
	GetByEmail(email string) (*models.Client, error)
	GetByPhone(phone string) (*models.Client, error)
	List(limit, offset int) ([]*models.Client, error)
	Delete(id int) error
}

type clientRepository struct {
	DB *sql.DB
}

func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{DB: db}
}

func (r *clientRepository) Create(client *models.Client) error {
	const q = `
		INSERT INTO clients (email, phone, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`
	if err := r.DB.QueryRow(q, client.Email, client.Phone).Scan(&client.ID, &client.CreatedAt); err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

func (r *clientRepository) GetByID(id int) (*models.Client, error) {
	return r.getBy("id = $1", id)
}

func (r *clientRepository) GetByEmail(email string) (*models.Client, error) {
	return r.getBy("email = $1", email)
}

func (r *clientRepository) GetByPhone(phone string) (*models.Client, error) {
	return r.getBy("phone = $1", phone)
}

func (r *clientRepository) getBy(where string, arg interface{}) (*models.Client, error) {
	q := `
		SELECT id, email, phone, created_at
		FROM clients
		WHERE ` + where
	var c models.Client
	if err := r.DB.QueryRow(q, arg).Scan(&c.ID, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &c, nil
}

func (r *clientRepository) List(limit, offset int) ([]*models.Client, error) {
	const q = `
		SELECT id, email, phone, created_at
		FROM clients
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.Query(q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var res []*models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &c)
	}
	return res, rows.Err()
}

func (r *clientRepository) Delete(id int) error {
	if _, err := r.DB.Exec(`DELETE FROM clients WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}
