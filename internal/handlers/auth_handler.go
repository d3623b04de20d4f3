package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"etatcivil/internal/middleware"
	"etatcivil/internal/models"
	"etatcivil/internal/services"
)

type AuthHandler struct {
	Service *services.AuthService
	Users   *services.UtilisateurService
}

func NewAuthHandler(service *services.AuthService, users *services.UtilisateurService) *AuthHandler {
	return &AuthHandler{Service: service, Users: users}
}

// @Summary      Connexion agent
// @Description  Authentifie un membre du personnel et délivre un token d'accès
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Identifiants"
// @Success      200    {object}  map[string]interface{}
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token, user, err := h.Service.Login(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "utilisateur": user})
}

// @Summary      Déconnexion agent
// @Description  Révoque le token courant pour le reste de sa durée de vie
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenStr := middleware.TokenString(c)
	if tokenStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}
	if err := h.Service.Logout(c.Request.Context(), tokenStr); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Déconnecté"})
}

// @Summary      Profil de l'agent connecté
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}
	user, err := h.Users.GetUtilisateur(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	codes, err := h.Users.PermissionCodes(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"utilisateur": user, "permissions": codes})
}
