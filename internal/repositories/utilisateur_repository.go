package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"etatcivil/internal/models"
)

type UtilisateurRepository interface {
	Create(u *models.Utilisateur) error
	GetByID(id int) (*models.Utilisateur, error)
	GetByEmail(email string) (*models.Utilisateur, error)
	List(limit, offset int) ([]*models.Utilisateur, error)
	ListByCentre(centreID int) ([]*models.Utilisateur, error)
	ListByOrganisation(organisationID int) ([]*models.Utilisateur, error)
	Update(u *models.Utilisateur) error
	UpdateStatus(id int, status models.StatusCompte) error
	AffecterCentre(userID, centreID, affecteParID int, at time.Time) error
	UpdateTelegramChat(userID int, chatID *int64) error
	Delete(id int) error
}

type utilisateurRepository struct {
	DB *sql.DB
}

func NewUtilisateurRepository(db *sql.DB) UtilisateurRepository {
	return &utilisateurRepository{DB: db}
}

const utilisateurColumns = `
	id, nom, prenom, email, mot_de_passe_hash, status, role_id, organisation_id,
	centre_id, affecte_par_id, date_affectation, telegram_chat_id, created_at, updated_at`

func (r *utilisateurRepository) Create(u *models.Utilisateur) error {
	const q = `
		INSERT INTO utilisateurs (
			nom, prenom, email, mot_de_passe_hash, status, role_id,
			organisation_id, centre_id, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	if err := r.DB.QueryRow(q,
		u.Nom, u.Prenom, u.Email, u.MotDePasseHash, u.Status,
		u.RoleID, u.OrganisationID, u.CentreID,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return fmt.Errorf("create utilisateur: %w", err)
	}
	return nil
}

func (r *utilisateurRepository) scan(row interface{ Scan(...interface{}) error }) (*models.Utilisateur, error) {
	var u models.Utilisateur
	err := row.Scan(
		&u.ID, &u.Nom, &u.Prenom, &u.Email, &u.MotDePasseHash, &u.Status,
		&u.RoleID, &u.OrganisationID, &u.CentreID, &u.AffecteParID,
		&u.DateAffectation, &u.TelegramChatID, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *utilisateurRepository) getBy(where string, arg interface{}) (*models.Utilisateur, error) {
	q := `SELECT` + utilisateurColumns + ` FROM utilisateurs WHERE ` + where
	u, err := r.scan(r.DB.QueryRow(q, arg))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get utilisateur: %w", err)
	}
	return u, nil
}

func (r *utilisateurRepository) GetByID(id int) (*models.Utilisateur, error) {
	return r.getBy("id = $1", id)
}

func (r *utilisateurRepository) GetByEmail(email string) (*models.Utilisateur, error) {
	return r.getBy("email = $1", email)
}

func (r *utilisateurRepository) queryList(q string, args ...interface{}) ([]*models.Utilisateur, error) {
	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list utilisateurs: %w", err)
	}
	defer rows.Close()

	var res []*models.Utilisateur
	for rows.Next() {
		u, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

func (r *utilisateurRepository) List(limit, offset int) ([]*models.Utilisateur, error) {
	q := `SELECT` + utilisateurColumns + ` FROM utilisateurs ORDER BY id LIMIT $1 OFFSET $2`
	return r.queryList(q, limit, offset)
}

func (r *utilisateurRepository) ListByCentre(centreID int) ([]*models.Utilisateur, error) {
	q := `SELECT` + utilisateurColumns + ` FROM utilisateurs WHERE centre_id = $1 ORDER BY id`
	return r.queryList(q, centreID)
}

func (r *utilisateurRepository) ListByOrganisation(organisationID int) ([]*models.Utilisateur, error) {
	q := `SELECT` + utilisateurColumns + ` FROM utilisateurs WHERE organisation_id = $1 ORDER BY id`
	return r.queryList(q, organisationID)
}

func (r *utilisateurRepository) Update(u *models.Utilisateur) error {
	const q = `
		UPDATE utilisateurs
		SET nom = $1, prenom = $2, email = $3, role_id = $4,
		    organisation_id = $5, updated_at = NOW()
		WHERE id = $6
	`
	if _, err := r.DB.Exec(q, u.Nom, u.Prenom, u.Email, u.RoleID, u.OrganisationID, u.ID); err != nil {
		return fmt.Errorf("update utilisateur: %w", err)
	}
	return nil
}

func (r *utilisateurRepository) UpdateStatus(id int, status models.StatusCompte) error {
	const q = `UPDATE utilisateurs SET status = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.DB.Exec(q, id, status); err != nil {
		return fmt.Errorf("update utilisateur status: %w", err)
	}
	return nil
}

func (r *utilisateurRepository) AffecterCentre(userID, centreID, affecteParID int, at time.Time) error {
	const q = `
		UPDATE utilisateurs
		SET centre_id = $2, affecte_par_id = $3, date_affectation = $4, updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.DB.Exec(q, userID, centreID, affecteParID, at); err != nil {
		return fmt.Errorf("affecter centre: %w", err)
	}
	return nil
}

func (r *utilisateurRepository) UpdateTelegramChat(userID int, chatID *int64) error {
	const q = `UPDATE utilisateurs SET telegram_chat_id = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.DB.Exec(q, userID, chatID); err != nil {
		return fmt.Errorf("update telegram chat: %w", err)
	}
	return nil
}

func (r *utilisateurRepository) Delete(id int) error {
	if _, err := r.DB.Exec(`DELETE FROM utilisateurs WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete utilisateur: %w", err)
	}
	return nil
}
