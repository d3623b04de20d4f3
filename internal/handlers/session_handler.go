package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"etatcivil/internal/models"
	"etatcivil/internal/services"
)

type SessionHandler struct {
	Service *services.SessionService
}

func NewSessionHandler(service *services.SessionService) *SessionHandler {
	return &SessionHandler{Service: service}
}

// @Summary      Ouvrir une session
// @Description  Réutilise la session active du client si elle existe, sinon expire les anciennes sessions et en crée une nouvelle avec un code de vérification
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        session  body      models.SessionCreateRequest  true  "Client concerné"
// @Success      200      {object}  map[string]interface{}
// @Success      201      {object}  map[string]interface{}
// @Failure      404      {object}  map[string]string
// @Router       /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	var req models.SessionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session, reused, err := h.Service.CreateSession(req.ClientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	status := http.StatusCreated
	message := "Session créée, un code de vérification a été envoyé"
	if reused {
		status = http.StatusOK
		message = "Session active existante réutilisée"
	}
	c.JSON(status, gin.H{"session": session, "message": message})
}

// @Summary      Activer une session
// @Description  Valide le code de vérification puis active la session et délivre le token d'accès
// @Tags         Sessions
// @Produce      json
// @Param        session_id  path   int     true  "ID de la session"
// @Param        otp_code    query  string  true  "Code de vérification"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /sessions/{session_id}/activate [post]
func (h *SessionHandler) Activate(c *gin.Context) {
	sessionID, ok := pathID(c, "session_id")
	if !ok {
		return
	}
	activateSession(c, h.Service, sessionID)
}

// activateSession is shared by the session route and the client-scoped
// activation route.
func activateSession(c *gin.Context, svc *services.SessionService, sessionID int) {
	code := c.Query("otp_code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "otp_code requis"})
		return
	}
	session, token, err := svc.ActivateSession(sessionID, code)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	resp := gin.H{"session": session, "message": "Session activée"}
	if token != "" {
		resp["token"] = token
	} else {
		resp["message"] = "Session déjà active"
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Consulter une session
// @Tags         Sessions
// @Produce      json
// @Param        session_id  path  int  true  "ID de la session"
// @Success      200  {object}  models.Session
// @Failure      404  {object}  map[string]string
// @Router       /sessions/{session_id} [get]
func (h *SessionHandler) GetByID(c *gin.Context) {
	sessionID, ok := pathID(c, "session_id")
	if !ok {
		return
	}
	session, err := h.Service.GetSessionByID(sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrSessionNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

// @Summary      Sessions d'un client
// @Description  Historique des sessions du client, groupées par état courant
// @Tags         Sessions
// @Produce      json
// @Param        client_id  path  int  true  "ID du client"
// @Success      200  {object}  services.GroupedSessions
// @Router       /clients/{client_id}/sessions [get]
func (h *SessionHandler) ListByClient(c *gin.Context) {
	clientID, ok := pathID(c, "client_id")
	if !ok {
		return
	}
	grouped, err := h.Service.GetSessionsByClient(clientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, grouped)
}

// @Summary      Désactiver toutes les sessions d'un client
// @Tags         Sessions
// @Produce      json
// @Param        client_id  path  int  true  "ID du client"
// @Success      200  {object}  map[string]interface{}
// @Router       /clients/{client_id}/sessions/deactivate [post]
func (h *SessionHandler) DeactivateAll(c *gin.Context) {
	clientID, ok := pathID(c, "client_id")
	if !ok {
		return
	}
	n, err := h.Service.DeactivateAllSessions(clientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "sessions désactivées", "count": n})
}

// @Summary      Supprimer une session
// @Tags         Sessions
// @Produce      json
// @Param        session_id  path  int  true  "ID de la session"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /sessions/{session_id} [delete]
func (h *SessionHandler) Delete(c *gin.Context) {
	sessionID, ok := pathID(c, "session_id")
	if !ok {
		return
	}
	if err := h.Service.DeleteSession(sessionID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session supprimée"})
}
