package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"etatcivil/internal/middleware"
	"etatcivil/internal/models"
	"etatcivil/internal/services"
)

type UtilisateurHandler struct {
	Service  *services.UtilisateurService
	Telegram *services.TelegramService
}

type statusCompteRequest struct {
	Status models.StatusCompte `json:"status" binding:"required"`
}

type affectationRequest struct {
	CentreID int `json:"centre_id" binding:"required"`
}

func NewUtilisateurHandler(service *services.UtilisateurService, telegram *services.TelegramService) *UtilisateurHandler {
	return &UtilisateurHandler{Service: service, Telegram: telegram}
}

// @Summary      Créer un compte agent
// @Tags         Utilisateurs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        utilisateur  body      models.UtilisateurCreateRequest  true  "Nouveau compte"
// @Success      201          {object}  models.Utilisateur
// @Failure      400          {object}  map[string]string
// @Failure      409          {object}  map[string]string
// @Router       /utilisateurs [post]
func (h *UtilisateurHandler) Create(c *gin.Context) {
	var req models.UtilisateurCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.Service.CreateUtilisateur(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// @Summary      Consulter un compte agent
// @Tags         Utilisateurs
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "ID de l'utilisateur"
// @Success      200  {object}  models.Utilisateur
// @Failure      404  {object}  map[string]string
// @Router       /utilisateurs/{id} [get]
func (h *UtilisateurHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	u, err := h.Service.GetUtilisateur(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// @Summary      Lister les comptes agents
// @Tags         Utilisateurs
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query  int  false  "Taille de page"
// @Param        offset  query  int  false  "Décalage"
// @Success      200  {array}  models.Utilisateur
// @Router       /utilisateurs [get]
func (h *UtilisateurHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	users, err := h.Service.ListUtilisateurs(limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// @Summary      Agents d'un centre
// @Tags         Utilisateurs
// @Produce      json
// @Security     BearerAuth
// @Param        centre_id  path  int  true  "ID du centre"
// @Success      200  {array}  models.Utilisateur
// @Router       /centres/{centre_id}/utilisateurs [get]
func (h *UtilisateurHandler) ListByCentre(c *gin.Context) {
	centreID, ok := pathID(c, "centre_id")
	if !ok {
		return
	}
	users, err := h.Service.ListByCentre(centreID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// @Summary      Modifier un compte agent
// @Tags         Utilisateurs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id           path      int                              true  "ID de l'utilisateur"
// @Param        utilisateur  body      models.UtilisateurUpdateRequest  true  "Champs modifiables"
// @Success      200          {object}  models.Utilisateur
// @Failure      404          {object}  map[string]string
// @Router       /utilisateurs/{id} [put]
func (h *UtilisateurHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.UtilisateurUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.Service.UpdateUtilisateur(id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// @Summary      Activer ou désactiver un compte
// @Tags         Utilisateurs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      int                  true  "ID de l'utilisateur"
// @Param        status  body      statusCompteRequest  true  "Nouveau statut (ACTIF ou INACTIF)"
// @Success      200     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /utilisateurs/{id}/status [put]
func (h *UtilisateurHandler) SetStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req statusCompteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.SetStatus(id, req.Status); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "statut mis à jour"})
}

// @Summary      Affecter un agent à un centre
// @Description  L'affectation enregistre l'auteur et la date
// @Tags         Utilisateurs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id           path      int                 true  "ID de l'utilisateur"
// @Param        affectation  body      affectationRequest  true  "Centre d'affectation"
// @Success      200          {object}  map[string]string
// @Failure      404          {object}  map[string]string
// @Router       /utilisateurs/{id}/affectation [put]
func (h *UtilisateurHandler) AffecterCentre(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	affecteParID, authed := middleware.UserID(c)
	if !authed {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}
	var req affectationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.AffecterCentre(id, req.CentreID, affecteParID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "agent affecté"})
}

// @Summary      Lier son compte à Telegram
// @Description  Émet un code à envoyer au bot sous la forme /start <code>
// @Tags         Utilisateurs
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /utilisateurs/telegram-link [post]
func (h *UtilisateurHandler) RequestTelegramLink(c *gin.Context) {
	userID, authed := middleware.UserID(c)
	if !authed {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}
	code, err := h.Telegram.RequestLink(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"code": code, "message": "Envoyez /start " + code + " au bot"})
}

// @Summary      Supprimer un compte agent
// @Tags         Utilisateurs
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "ID de l'utilisateur"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /utilisateurs/{id} [delete]
func (h *UtilisateurHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Service.DeleteUtilisateur(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "utilisateur supprimé"})
}
