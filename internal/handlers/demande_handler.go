package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"etatcivil/internal/models"
	"etatcivil/internal/services"
)

type DemandeHandler struct {
	Service *services.DemandeService
}

type updateDemandeRequest struct {
	RaisonDemande models.RaisonDemande `json:"raison_demande" binding:"required"`
	Details       json.RawMessage      `json:"details" binding:"required"`
}

type rejeterDemandeRequest struct {
	Motif string `json:"motif" binding:"required"`
}

type transfererDemandeRequest struct {
	CentreID int `json:"centre_id" binding:"required"`
}

type affecterDemandesRequest struct {
	AgentID    int   `json:"agent_id" binding:"required"`
	DemandeIDs []int `json:"demande_ids" binding:"required,min=1"`
}

func NewDemandeHandler(service *services.DemandeService) *DemandeHandler {
	return &DemandeHandler{Service: service}
}

// @Summary      Déposer une demande
// @Description  Valide le détail selon le type de document, attribue un numéro unique (P0-AAAAMMJJ-NNNNN) et enregistre la demande en statut EN_COURS
// @Tags         Demandes
// @Accept       json
// @Produce      json
// @Param        demande  body      models.DemandeCreateRequest  true  "Demande"
// @Success      201      {object}  models.Demande
// @Failure      400      {object}  map[string]string
// @Router       /demandes [post]
func (h *DemandeHandler) Create(c *gin.Context) {
	var req models.DemandeCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, err := h.Service.CreateDemande(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// @Summary      Consulter une demande
// @Tags         Demandes
// @Produce      json
// @Param        id  path  int  true  "ID de la demande"
// @Success      200  {object}  models.Demande
// @Failure      404  {object}  map[string]string
// @Router       /demandes/{id} [get]
func (h *DemandeHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	d, err := h.Service.GetDemande(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// @Summary      Suivre une demande par numéro
// @Tags         Demandes
// @Produce      json
// @Param        numero  path  string  true  "Numéro de demande"
// @Success      200  {object}  models.Demande
// @Failure      404  {object}  map[string]string
// @Router       /suivi/{numero} [get]
func (h *DemandeHandler) GetByNumero(c *gin.Context) {
	numero := c.Param("numero")
	d, err := h.Service.GetDemandeByNumero(numero)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// @Summary      Lister les demandes
// @Tags         Demandes
// @Produce      json
// @Param        client_id      query  int     false  "Filtrer par client"
// @Param        status         query  string  false  "Filtrer par statut"
// @Param        type_document  query  string  false  "Filtrer par type de document"
// @Param        centre_id      query  int     false  "Filtrer par centre"
// @Param        agent_id       query  int     false  "Filtrer par agent affecté"
// @Param        limit          query  int     false  "Taille de page"
// @Param        offset         query  int     false  "Décalage"
// @Success      200  {array}  models.Demande
// @Router       /demandes [get]
func (h *DemandeHandler) List(c *gin.Context) {
	var filter models.DemandeFilter
	if v := c.Query("client_id"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			filter.ClientID = &id
		}
	}
	if v := c.Query("status"); v != "" {
		status := models.StatusDemande(v)
		filter.Status = &status
	}
	if v := c.Query("type_document"); v != "" {
		t := models.TypeDocument(v)
		filter.TypeDocument = &t
	}
	if v := c.Query("centre_id"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			filter.CentreID = &id
		}
	}
	if v := c.Query("agent_id"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			filter.AgentID = &id
		}
	}
	limit, offset := pagination(c)
	demandes, err := h.Service.ListDemandes(filter, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, demandes)
}

// @Summary      Lister les demandes d'une organisation
// @Description  BUNEC : actes de naissance, mariage et décès; MINJUSTICE : certificat de nationalité, casier judiciaire et plumitif
// @Tags         Demandes
// @Produce      json
// @Param        nom     path   string  true   "Nom de l'organisation (BUNEC ou MINJUSTICE)"
// @Param        limit   query  int     false  "Taille de page"
// @Param        offset  query  int     false  "Décalage"
// @Success      200  {array}   models.Demande
// @Failure      400  {object}  map[string]string
// @Router       /demandes/organisation/{nom} [get]
func (h *DemandeHandler) ListParOrganisation(c *gin.Context) {
	nom := models.NomOrganisation(strings.ToUpper(c.Param("nom")))
	limit, offset := pagination(c)
	demandes, err := h.Service.ListDemandesParOrganisation(nom, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, demandes)
}

// @Summary      Affecter des demandes à un agent
// @Description  Assigne en lot les demandes listées à l'agent pour instruction
// @Tags         Demandes
// @Accept       json
// @Produce      json
// @Param        affectation  body      affecterDemandesRequest  true  "Agent et demandes à affecter"
// @Success      200          {array}   models.Demande
// @Failure      400          {object}  map[string]string
// @Failure      404          {object}  map[string]string
// @Router       /demandes/affecter [post]
func (h *DemandeHandler) Affecter(c *gin.Context) {
	var req affecterDemandesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	demandes, err := h.Service.AffecterAgent(req.AgentID, req.DemandeIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, demandes)
}

// @Summary      Modifier une demande
// @Description  Seules les demandes EN_COURS sont modifiables
// @Tags         Demandes
// @Accept       json
// @Produce      json
// @Param        id       path      int                   true  "ID de la demande"
// @Param        demande  body      updateDemandeRequest  true  "Champs modifiables"
// @Success      200      {object}  models.Demande
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /demandes/{id} [put]
func (h *DemandeHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateDemandeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, err := h.Service.UpdateDemande(id, req.RaisonDemande, req.Details)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// @Summary      Valider une demande
// @Description  Génère le document PDF, passe la demande en VALIDE et notifie le client par email
// @Tags         Demandes
// @Produce      json
// @Param        id  path  int  true  "ID de la demande"
// @Success      200  {object}  models.Demande
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /demandes/{id}/valider [post]
func (h *DemandeHandler) Valider(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	d, err := h.Service.Valider(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// @Summary      Rejeter une demande
// @Tags         Demandes
// @Accept       json
// @Produce      json
// @Param        id     path      int                    true  "ID de la demande"
// @Param        motif  body      rejeterDemandeRequest  true  "Motif du rejet"
// @Success      200    {object}  models.Demande
// @Failure      400    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /demandes/{id}/rejeter [post]
func (h *DemandeHandler) Rejeter(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req rejeterDemandeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, err := h.Service.Rejeter(id, req.Motif)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// @Summary      Transférer une demande
// @Description  Route la demande vers un autre centre et notifie ses agents
// @Tags         Demandes
// @Accept       json
// @Produce      json
// @Param        id      path      int                       true  "ID de la demande"
// @Param        centre  body      transfererDemandeRequest  true  "Centre destinataire"
// @Success      200     {object}  models.Demande
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /demandes/{id}/transferer [post]
func (h *DemandeHandler) Transferer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req transfererDemandeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, err := h.Service.Transferer(id, req.CentreID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// @Summary      Supprimer une demande
// @Tags         Demandes
// @Produce      json
// @Param        id  path  int  true  "ID de la demande"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /demandes/{id} [delete]
func (h *DemandeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Service.DeleteDemande(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "demande supprimée"})
}
