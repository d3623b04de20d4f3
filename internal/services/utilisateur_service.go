package services

import (
	"errors"
	"log"
	"time"

	"etatcivil/internal/models"
	"etatcivil/internal/repositories"
)

var (
	ErrUtilisateurNotFound  = errors.New("utilisateur non trouvé")
	ErrEmailDejaUtilise     = errors.New("email déjà utilisé")
	ErrRoleInconnu          = errors.New("rôle inconnu")
	ErrOrganisationInconnue = errors.New("organisation inconnue")
)

type UtilisateurService struct {
	Repo          repositories.UtilisateurRepository
	Roles         *repositories.RoleRepository
	Organisations *repositories.OrganisationRepository
	Centres       *repositories.CentreRepository
	Permissions   repositories.PermissionRepository

	Now func() time.Time
}

func NewUtilisateurService(
	repo repositories.UtilisateurRepository,
	roles *repositories.RoleRepository,
	organisations *repositories.OrganisationRepository,
	centres *repositories.CentreRepository,
	permissions repositories.PermissionRepository,
) *UtilisateurService {
	return &UtilisateurService{
		Repo:          repo,
		Roles:         roles,
		Organisations: organisations,
		Centres:       centres,
		Permissions:   permissions,
		Now:           time.Now,
	}
}

// CreateUtilisateur registers a staff account. The account starts ACTIF and
// the password is stored as a bcrypt hash only.
func (s *UtilisateurService) CreateUtilisateur(req models.UtilisateurCreateRequest) (*models.Utilisateur, error) {
	existing, err := s.Repo.GetByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailDejaUtilise
	}
	if err := s.checkRole(req.RoleID); err != nil {
		return nil, err
	}
	if err := s.checkOrganisation(req.OrganisationID); err != nil {
		return nil, err
	}
	if req.CentreID != nil {
		if err := s.checkCentre(*req.CentreID); err != nil {
			return nil, err
		}
	}

	hash, err := HashPassword(req.MotDePasse)
	if err != nil {
		return nil, err
	}
	u := &models.Utilisateur{
		Nom:            req.Nom,
		Prenom:         req.Prenom,
		Email:          req.Email,
		MotDePasseHash: hash,
		Status:         models.CompteActif,
		RoleID:         req.RoleID,
		OrganisationID: req.OrganisationID,
		CentreID:       req.CentreID,
	}
	if err := s.Repo.Create(u); err != nil {
		return nil, err
	}
	log.Printf("[utilisateur][create] id=%d email=%s", u.ID, u.Email)
	return u, nil
}

func (s *UtilisateurService) GetUtilisateur(id int) (*models.Utilisateur, error) {
	u, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUtilisateurNotFound
	}
	return u, nil
}

func (s *UtilisateurService) ListUtilisateurs(limit, offset int) ([]*models.Utilisateur, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.List(limit, offset)
}

func (s *UtilisateurService) ListByCentre(centreID int) ([]*models.Utilisateur, error) {
	return s.Repo.ListByCentre(centreID)
}

func (s *UtilisateurService) ListByOrganisation(organisationID int) ([]*models.Utilisateur, error) {
	return s.Repo.ListByOrganisation(organisationID)
}

func (s *UtilisateurService) UpdateUtilisateur(id int, req models.UtilisateurUpdateRequest) (*models.Utilisateur, error) {
	u, err := s.GetUtilisateur(id)
	if err != nil {
		return nil, err
	}
	if req.Email != u.Email {
		other, err := s.Repo.GetByEmail(req.Email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, ErrEmailDejaUtilise
		}
	}
	if err := s.checkRole(req.RoleID); err != nil {
		return nil, err
	}
	if err := s.checkOrganisation(req.OrganisationID); err != nil {
		return nil, err
	}

	u.Nom = req.Nom
	u.Prenom = req.Prenom
	u.Email = req.Email
	u.RoleID = req.RoleID
	u.OrganisationID = req.OrganisationID
	if err := s.Repo.Update(u); err != nil {
		return nil, err
	}
	return u, nil
}

// SetStatus activates or deactivates an account. A deactivated account can
// no longer log in; already issued tokens die at their natural expiry or on
// logout.
func (s *UtilisateurService) SetStatus(id int, status models.StatusCompte) error {
	if status != models.CompteActif && status != models.CompteInactif {
		return errors.New("statut de compte inconnu")
	}
	if _, err := s.GetUtilisateur(id); err != nil {
		return err
	}
	return s.Repo.UpdateStatus(id, status)
}

// AffecterCentre assigns an agent to a centre and records who did it and
// when.
func (s *UtilisateurService) AffecterCentre(userID, centreID, affecteParID int) error {
	if _, err := s.GetUtilisateur(userID); err != nil {
		return err
	}
	if err := s.checkCentre(centreID); err != nil {
		return err
	}
	if _, err := s.GetUtilisateur(affecteParID); err != nil {
		return err
	}
	if err := s.Repo.AffecterCentre(userID, centreID, affecteParID, s.Now()); err != nil {
		return err
	}
	log.Printf("[utilisateur][affectation] user=%d centre=%d par=%d", userID, centreID, affecteParID)
	return nil
}

// PermissionCodes returns the effective permission codes of the user.
func (s *UtilisateurService) PermissionCodes(userID int) ([]string, error) {
	return s.Permissions.CodesForUser(userID)
}

func (s *UtilisateurService) DeleteUtilisateur(id int) error {
	if _, err := s.GetUtilisateur(id); err != nil {
		return err
	}
	return s.Repo.Delete(id)
}

func (s *UtilisateurService) checkRole(id int) error {
	role, err := s.Roles.GetByID(id)
	if err != nil {
		return err
	}
	if role == nil {
		return ErrRoleInconnu
	}
	return nil
}

func (s *UtilisateurService) checkOrganisation(id int) error {
	org, err := s.Organisations.GetByID(id)
	if err != nil {
		return err
	}
	if org == nil {
		return ErrOrganisationInconnue
	}
	return nil
}

func (s *UtilisateurService) checkCentre(id int) error {
	centre, err := s.Centres.GetByID(id)
	if err != nil {
		return err
	}
	if centre == nil {
		return ErrCentreInconnu
	}
	return nil
}
