package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"etatcivil/internal/models"
	"etatcivil/internal/services"
)

type ClientHandler struct {
	Service  *services.ClientService
	Sessions *services.SessionService
}

func NewClientHandler(service *services.ClientService, sessions *services.SessionService) *ClientHandler {
	return &ClientHandler{Service: service, Sessions: sessions}
}

// @Summary      Créer un client et ouvrir une session
// @Description  Crée le client (ou le retrouve par email/téléphone) puis ouvre ou réutilise une session avec envoi d'un code de vérification
// @Tags         Clients
// @Accept       json
// @Produce      json
// @Param        client  body      models.ClientCreateRequest  true  "Coordonnées du client"
// @Success      200     {object}  map[string]interface{}
// @Success      201     {object}  map[string]interface{}
// @Failure      400     {object}  map[string]string
// @Router       /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var req models.ClientCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, session, clientCreated, sessionReused, err := h.Service.CreateClientAndSession(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	status := http.StatusOK
	if clientCreated {
		status = http.StatusCreated
	}
	message := "Un code de vérification a été envoyé"
	if sessionReused {
		message = "Session active existante réutilisée"
	}
	c.JSON(status, gin.H{
		"client":  client,
		"session": session,
		"message": message,
	})
}

// @Summary      Activer la session d'un client
// @Tags         Clients
// @Produce      json
// @Param        client_id   path   int     true  "ID du client"
// @Param        session_id  path   int     true  "ID de la session"
// @Param        otp_code    query  string  true  "Code de vérification"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /clients/{client_id}/session/{session_id}/activate [put]
func (h *ClientHandler) ActivateSession(c *gin.Context) {
	clientID, ok := pathID(c, "client_id")
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "session_id")
	if !ok {
		return
	}

	session, err := h.Sessions.GetSessionByID(sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if session == nil || session.ClientID != clientID {
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrSessionNotFound.Error()})
		return
	}

	activateSession(c, h.Sessions, sessionID)
}

// @Summary      Consulter un client
// @Tags         Clients
// @Produce      json
// @Param        client_id  path  int  true  "ID du client"
// @Success      200  {object}  models.Client
// @Failure      404  {object}  map[string]string
// @Router       /clients/{client_id} [get]
func (h *ClientHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "client_id")
	if !ok {
		return
	}
	client, err := h.Service.GetClientByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// @Summary      Lister les clients
// @Tags         Clients
// @Produce      json
// @Param        limit   query  int  false  "Taille de page"
// @Param        offset  query  int  false  "Décalage"
// @Success      200  {array}  models.Client
// @Router       /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	clients, err := h.Service.ListClients(limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// @Summary      Supprimer un client
// @Tags         Clients
// @Produce      json
// @Param        client_id  path  int  true  "ID du client"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /clients/{client_id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "client_id")
	if !ok {
		return
	}
	if err := h.Service.DeleteClient(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "client supprimé"})
}
