package services

import (
	"errors"

	"github.com/google/uuid"

	"etatcivil/internal/models"
	"etatcivil/internal/repositories"
)

// Thin services over the reference data (centres, organisations, motifs,
// roles, permissions). Mostly pass-through with existence checks and
// reference generation.

var (
	ErrMotifNotFound           = errors.New("motif non trouvé")
	ErrPermissionNotFound      = errors.New("permission non trouvée")
	ErrNomOrganisationInvalide = errors.New("nom d'organisation invalide")
)

type CentreService struct {
	Repo *repositories.CentreRepository
}

func NewCentreService(repo *repositories.CentreRepository) *CentreService {
	return &CentreService{Repo: repo}
}

func (s *CentreService) CreateCentre(c *models.CentreEtatCivil) error {
	if c.Reference == "" {
		c.Reference = uuid.NewString()
	}
	return s.Repo.Create(c)
}

func (s *CentreService) GetCentre(id int) (*models.CentreEtatCivil, error) {
	c, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCentreInconnu
	}
	return c, nil
}

func (s *CentreService) GetCentreByReference(reference string) (*models.CentreEtatCivil, error) {
	c, err := s.Repo.GetByReference(reference)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCentreInconnu
	}
	return c, nil
}

func (s *CentreService) ListCentres(limit, offset int) ([]*models.CentreEtatCivil, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.List(limit, offset)
}

func (s *CentreService) UpdateCentre(c *models.CentreEtatCivil) error {
	if _, err := s.GetCentre(c.ID); err != nil {
		return err
	}
	return s.Repo.Update(c)
}

func (s *CentreService) DeleteCentre(id int) error {
	if _, err := s.GetCentre(id); err != nil {
		return err
	}
	return s.Repo.Delete(id)
}

type OrganisationService struct {
	Repo *repositories.OrganisationRepository
}

func NewOrganisationService(repo *repositories.OrganisationRepository) *OrganisationService {
	return &OrganisationService{Repo: repo}
}

func (s *OrganisationService) CreateOrganisation(nom models.NomOrganisation) (*models.Organisation, error) {
	if nom != models.OrganisationBUNEC && nom != models.OrganisationMinjustice {
		return nil, ErrNomOrganisationInvalide
	}
	o := &models.Organisation{Nom: nom, Reference: uuid.NewString()}
	if err := s.Repo.Create(o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrganisationService) GetOrganisation(id int) (*models.Organisation, error) {
	o, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrganisationInconnue
	}
	return o, nil
}

func (s *OrganisationService) ListOrganisations() ([]*models.Organisation, error) {
	return s.Repo.List()
}

func (s *OrganisationService) DeleteOrganisation(id int) error {
	if _, err := s.GetOrganisation(id); err != nil {
		return err
	}
	return s.Repo.Delete(id)
}

type MotifService struct {
	Repo *repositories.MotifRepository
}

func NewMotifService(repo *repositories.MotifRepository) *MotifService {
	return &MotifService{Repo: repo}
}

func (s *MotifService) CreateMotif(m *models.Motif) error {
	return s.Repo.Create(m)
}

func (s *MotifService) GetMotif(id int) (*models.Motif, error) {
	m, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMotifNotFound
	}
	return m, nil
}

func (s *MotifService) ListMotifs() ([]*models.Motif, error) {
	return s.Repo.List()
}

func (s *MotifService) UpdateMotif(m *models.Motif) error {
	if _, err := s.GetMotif(m.ID); err != nil {
		return err
	}
	return s.Repo.Update(m)
}

func (s *MotifService) DeleteMotif(id int) error {
	if _, err := s.GetMotif(id); err != nil {
		return err
	}
	return s.Repo.Delete(id)
}

type RoleService struct {
	Roles       *repositories.RoleRepository
	Permissions repositories.PermissionRepository
}

func NewRoleService(roles *repositories.RoleRepository, permissions repositories.PermissionRepository) *RoleService {
	return &RoleService{Roles: roles, Permissions: permissions}
}

func (s *RoleService) CreateRole(role *models.Role) error {
	return s.Roles.Create(role)
}

func (s *RoleService) GetRole(id int) (*models.Role, error) {
	role, err := s.Roles.GetByID(id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleInconnu
	}
	return role, nil
}

func (s *RoleService) ListRoles() ([]*models.Role, error) {
	return s.Roles.List()
}

func (s *RoleService) DeleteRole(id int) error {
	if _, err := s.GetRole(id); err != nil {
		return err
	}
	return s.Roles.Delete(id)
}

func (s *RoleService) CreatePermission(p *models.Permission) error {
	return s.Permissions.Create(p)
}

func (s *RoleService) ListPermissions() ([]*models.Permission, error) {
	return s.Permissions.List()
}

func (s *RoleService) GrantPermission(roleID, permissionID int) error {
	if _, err := s.GetRole(roleID); err != nil {
		return err
	}
	p, err := s.Permissions.GetByID(permissionID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrPermissionNotFound
	}
	return s.Roles.GrantPermission(roleID, permissionID)
}

func (s *RoleService) RevokePermission(roleID, permissionID int) error {
	return s.Roles.RevokePermission(roleID, permissionID)
}
