package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"etatcivil/internal/models"
)

type SessionRepository interface {
	Create(session *models.Session) error
	GetByID(id int) (*models.Session, error)
	// GetLiveByClient returns the session with is_active AND expires_at > now,
	// or nil when the client has no live session.
	GetLiveByClient(clientID int, now time.Time) (*models.Session, error)
	ListByClient(clientID int) ([]*models.Session, error)
	List() ([]*models.Session, error)
	// SupersedeAllByClient forces every session of the client inactive with
	// the given past expiry. Returns the number of rows touched.
	SupersedeAllByClient(clientID int, expiresAt time.Time) (int64, error)
	// Activate flips the session active with the new expiry; it is the last
	// write of the activation sequence.
	Activate(id int, expiresAt time.Time) error
	Delete(id int) error
}

type sessionRepository struct {
	DB *sql.DB
}

func NewSessionRepository(db *sql.DB) SessionRepository {
	return &sessionRepository{DB: db}
}

func (r *sessionRepository) Create(s *models.Session) error {
	const q = `
		INSERT INTO sessions (client_id, is_active, created_at, expires_at)
		VALUES ($1, $2, NOW(), $3)
		RETURNING id, created_at
	`
	if err := r.DB.QueryRow(q, s.ClientID, s.IsActive, s.ExpiresAt).Scan(&s.ID, &s.CreatedAt); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *sessionRepository) GetByID(id int) (*models.Session, error) {
	const q = `
		SELECT id, client_id, is_active, created_at, expires_at
		FROM sessions
		WHERE id = $1
	`
	var s models.Session
	if err := r.DB.QueryRow(q, id).Scan(&s.ID, &s.ClientID, &s.IsActive, &s.CreatedAt, &s.ExpiresAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

func (r *sessionRepository) GetLiveByClient(clientID int, now time.Time) (*models.Session, error) {
	const q = `
		SELECT id, client_id, is_active, created_at, expires_at
		FROM sessions
		WHERE client_id = $1 AND is_active = TRUE AND expires_at > $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	var s models.Session
	if err := r.DB.QueryRow(q, clientID, now).Scan(&s.ID, &s.ClientID, &s.IsActive, &s.CreatedAt, &s.ExpiresAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get live session: %w", err)
	}
	return &s, nil
}

func (r *sessionRepository) ListByClient(clientID int) ([]*models.Session, error) {
	const q = `
		SELECT id, client_id, is_active, created_at, expires_at
		FROM sessions
		WHERE client_id = $1
		ORDER BY created_at DESC
	`
	return r.queryList(q, clientID)
}

func (r *sessionRepository) List() ([]*models.Session, error) {
	const q = `
		SELECT id, client_id, is_active, created_at, expires_at
		FROM sessions
		ORDER BY created_at DESC
	`
	return r.queryList(q)
}

func (r *sessionRepository) queryList(q string, args ...interface{}) ([]*models.Session, error) {
	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var res []*models.Session
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(&s.ID, &s.ClientID, &s.IsActive, &s.CreatedAt, &s.ExpiresAt); err != nil {
			return nil, err
		}
		res = append(res, &s)
	}
	return res, rows.Err()
}

func (r *sessionRepository) SupersedeAllByClient(clientID int, expiresAt time.Time) (int64, error) {
	const q = `
		UPDATE sessions
		SET is_active = FALSE, expires_at = $2
		WHERE client_id = $1 AND is_active = TRUE
	`
	res, err := r.DB.Exec(q, clientID, expiresAt)
	if err != nil {
		return 0, fmt.Errorf("supersede sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *sessionRepository) Activate(id int, expiresAt time.Time) error {
	const q = `
		UPDATE sessions
		SET is_active = TRUE, expires_at = $2
		WHERE id = $1
	`
	if _, err := r.DB.Exec(q, id, expiresAt); err != nil {
		return fmt.Errorf("activate session: %w", err)
	}
	return nil
}

func (r *sessionRepository) Delete(id int) error {
	if _, err := r.DB.Exec(`DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
