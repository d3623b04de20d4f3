package models

import "time"

// StatusCompte is the staff account state.
type StatusCompte string

const (
	CompteActif   StatusCompte = "ACTIF"
	CompteInactif StatusCompte = "INACTIF"
)

// Utilisateur is a staff member (agent, operator, administrator).
type Utilisateur struct {
	ID             int          `json:"id"`
	Nom            string       `json:"nom"`
	Prenom         string       `json:"prenom"`
	Email          string       `json:"email"`
	MotDePasseHash string       `json:"-"`
	Status         StatusCompte `json:"status"`
	RoleID         int          `json:"role_id"`
	OrganisationID int          `json:"organisation_id"`

	// Assignment to a civil-status centre, with audit trail.
	CentreID        *int       `json:"centre_id,omitempty"`
	AffecteParID    *int       `json:"affecte_par_id,omitempty"`
	DateAffectation *time.Time `json:"date_affectation,omitempty"`

	// Telegram chat linked for agent notifications (optional).
	TelegramChatID *int64 `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UtilisateurCreateRequest struct {
	Nom            string `json:"nom" binding:"required"`
	Prenom         string `json:"prenom" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	MotDePasse     string `json:"mot_de_passe" binding:"required,min=8"`
	RoleID         int    `json:"role_id" binding:"required"`
	OrganisationID int    `json:"organisation_id" binding:"required"`
	CentreID       *int   `json:"centre_id,omitempty"`
}

type UtilisateurUpdateRequest struct {
	Nom            string `json:"nom" binding:"required"`
	Prenom         string `json:"prenom" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	RoleID         int    `json:"role_id" binding:"required"`
	OrganisationID int    `json:"organisation_id" binding:"required"`
}

type LoginRequest struct {
	Email      string `json:"email" binding:"required"`
	MotDePasse string `json:"mot_de_passe" binding:"required"`
}
