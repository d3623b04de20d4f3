package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"etatcivil/internal/models"
	"etatcivil/internal/services"
)

// ReferentielHandler exposes the reference data: centres, organisations,
// motifs de rejet, rôles et permissions.
type ReferentielHandler struct {
	Centres       *services.CentreService
	Organisations *services.OrganisationService
	Motifs        *services.MotifService
	Roles         *services.RoleService
}

type createCentreRequest struct {
	Nom       string `json:"nom" binding:"required"`
	Adresse   string `json:"adresse"`
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
}

type createOrganisationRequest struct {
	Nom models.NomOrganisation `json:"nom" binding:"required"`
}

type motifRequest struct {
	Code        string `json:"code" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type roleRequest struct {
	Nom string `json:"nom" binding:"required"`
}

type permissionRequest struct {
	Code    string `json:"code" binding:"required"`
	Libelle string `json:"libelle" binding:"required"`
}

type grantPermissionRequest struct {
	PermissionID int `json:"permission_id" binding:"required"`
}

func NewReferentielHandler(
	centres *services.CentreService,
	organisations *services.OrganisationService,
	motifs *services.MotifService,
	roles *services.RoleService,
) *ReferentielHandler {
	return &ReferentielHandler{
		Centres:       centres,
		Organisations: organisations,
		Motifs:        motifs,
		Roles:         roles,
	}
}

// ----- Centres -----

// @Summary      Créer un centre d'état civil
// @Tags         Référentiel
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        centre  body      createCentreRequest  true  "Centre"
// @Success      201     {object}  models.CentreEtatCivil
// @Router       /centres [post]
func (h *ReferentielHandler) CreateCentre(c *gin.Context) {
	var req createCentreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	centre := &models.CentreEtatCivil{
		Nom:       req.Nom,
		Adresse:   req.Adresse,
		Email:     req.Email,
		Telephone: req.Telephone,
	}
	if err := h.Centres.CreateCentre(centre); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, centre)
}

// @Summary      Consulter un centre
// @Tags         Référentiel
// @Produce      json
// @Param        centre_id  path  int  true  "ID du centre"
// @Success      200  {object}  models.CentreEtatCivil
// @Failure      404  {object}  map[string]string
// @Router       /centres/{centre_id} [get]
func (h *ReferentielHandler) GetCentre(c *gin.Context) {
	id, ok := pathID(c, "centre_id")
	if !ok {
		return
	}
	centre, err := h.Centres.GetCentre(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, centre)
}

// @Summary      Lister les centres
// @Tags         Référentiel
// @Produce      json
// @Success      200  {array}  models.CentreEtatCivil
// @Router       /centres [get]
func (h *ReferentielHandler) ListCentres(c *gin.Context) {
	limit, offset := pagination(c)
	centres, err := h.Centres.ListCentres(limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, centres)
}

// @Summary      Modifier un centre
// @Tags         Référentiel
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        centre_id  path      int                  true  "ID du centre"
// @Param        centre  body      createCentreRequest  true  "Champs modifiables"
// @Success      200     {object}  models.CentreEtatCivil
// @Failure      404     {object}  map[string]string
// @Router       /centres/{centre_id} [put]
func (h *ReferentielHandler) UpdateCentre(c *gin.Context) {
	id, ok := pathID(c, "centre_id")
	if !ok {
		return
	}
	centre, err := h.Centres.GetCentre(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	var req createCentreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	centre.Nom = req.Nom
	centre.Adresse = req.Adresse
	centre.Email = req.Email
	centre.Telephone = req.Telephone
	if err := h.Centres.UpdateCentre(centre); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, centre)
}

// @Summary      Supprimer un centre
// @Tags         Référentiel
// @Produce      json
// @Security     BearerAuth
// @Param        centre_id  path  int  true  "ID du centre"
// @Success      200  {object}  map[string]string
// @Router       /centres/{centre_id} [delete]
func (h *ReferentielHandler) DeleteCentre(c *gin.Context) {
	id, ok := pathID(c, "centre_id")
	if !ok {
		return
	}
	if err := h.Centres.DeleteCentre(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "centre supprimé"})
}

// ----- Organisations -----

// @Summary      Créer une organisation
// @Tags         Référentiel
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        organisation  body      createOrganisationRequest  true  "BUNEC ou MINJUSTICE"
// @Success      201           {object}  models.Organisation
// @Router       /organisations [post]
func (h *ReferentielHandler) CreateOrganisation(c *gin.Context) {
	var req createOrganisationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	org, err := h.Organisations.CreateOrganisation(req.Nom)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, org)
}

// @Summary      Lister les organisations
// @Tags         Référentiel
// @Produce      json
// @Success      200  {array}  models.Organisation
// @Router       /organisations [get]
func (h *ReferentielHandler) ListOrganisations(c *gin.Context) {
	orgs, err := h.Organisations.ListOrganisations()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orgs)
}

// ----- Motifs de rejet -----

// @Summary      Créer un motif de rejet
// @Tags         Référentiel
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        motif  body      motifRequest  true  "Motif"
// @Success      201    {object}  models.Motif
// @Router       /motifs [post]
func (h *ReferentielHandler) CreateMotif(c *gin.Context) {
	var req motifRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m := &models.Motif{Code: req.Code, Description: req.Description}
	if err := h.Motifs.CreateMotif(m); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// @Summary      Lister les motifs de rejet
// @Tags         Référentiel
// @Produce      json
// @Success      200  {array}  models.Motif
// @Router       /motifs [get]
func (h *ReferentielHandler) ListMotifs(c *gin.Context) {
	motifs, err := h.Motifs.ListMotifs()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, motifs)
}

// @Summary      Supprimer un motif de rejet
// @Tags         Référentiel
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "ID du motif"
// @Success      200  {object}  map[string]string
// @Router       /motifs/{id} [delete]
func (h *ReferentielHandler) DeleteMotif(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Motifs.DeleteMotif(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "motif supprimé"})
}

// ----- Rôles et permissions -----

// @Summary      Créer un rôle
// @Tags         Référentiel
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        role  body      roleRequest  true  "Rôle"
// @Success      201   {object}  models.Role
// @Router       /roles [post]
func (h *ReferentielHandler) CreateRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	role := &models.Role{Nom: req.Nom}
	if err := h.Roles.CreateRole(role); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, role)
}

// @Summary      Lister les rôles
// @Tags         Référentiel
// @Produce      json
// @Success      200  {array}  models.Role
// @Router       /roles [get]
func (h *ReferentielHandler) ListRoles(c *gin.Context) {
	roles, err := h.Roles.ListRoles()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, roles)
}

// @Summary      Créer une permission
// @Tags         Référentiel
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        permission  body      permissionRequest  true  "Permission"
// @Success      201         {object}  models.Permission
// @Router       /permissions [post]
func (h *ReferentielHandler) CreatePermission(c *gin.Context) {
	var req permissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := &models.Permission{Code: req.Code, Libelle: req.Libelle}
	if err := h.Roles.CreatePermission(p); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary      Lister les permissions
// @Tags         Référentiel
// @Produce      json
// @Success      200  {array}  models.Permission
// @Router       /permissions [get]
func (h *ReferentielHandler) ListPermissions(c *gin.Context) {
	perms, err := h.Roles.ListPermissions()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, perms)
}

// @Summary      Accorder une permission à un rôle
// @Tags         Référentiel
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id          path      int                     true  "ID du rôle"
// @Param        permission  body      grantPermissionRequest  true  "Permission à accorder"
// @Success      200         {object}  map[string]string
// @Router       /roles/{id}/permissions [post]
func (h *ReferentielHandler) GrantPermission(c *gin.Context) {
	roleID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req grantPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Roles.GrantPermission(roleID, req.PermissionID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "permission accordée"})
}

// @Summary      Retirer une permission d'un rôle
// @Tags         Référentiel
// @Produce      json
// @Security     BearerAuth
// @Param        id             path  int  true  "ID du rôle"
// @Param        permission_id  path  int  true  "ID de la permission"
// @Success      200  {object}  map[string]string
// @Router       /roles/{id}/permissions/{permission_id} [delete]
func (h *ReferentielHandler) RevokePermission(c *gin.Context) {
	roleID, ok := pathID(c, "id")
	if !ok {
		return
	}
	permissionID, ok := pathID(c, "permission_id")
	if !ok {
		return
	}
	if err := h.Roles.RevokePermission(roleID, permissionID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "permission retirée"})
}
