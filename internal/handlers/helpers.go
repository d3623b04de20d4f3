package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"etatcivil/internal/services"
)

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifiant invalide"})
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}

// respondServiceError maps service sentinels to HTTP statuses. Unknown
// errors become an opaque 500 so storage details never leak to clients.
func respondServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := "erreur interne"

	switch {
	case errors.Is(err, services.ErrClientNotFound),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrOTPNotFound),
		errors.Is(err, services.ErrDemandeNotFound),
		errors.Is(err, services.ErrDocumentNotFound),
		errors.Is(err, services.ErrUtilisateurNotFound),
		errors.Is(err, services.ErrCentreInconnu),
		errors.Is(err, services.ErrMotifNotFound),
		errors.Is(err, services.ErrRoleInconnu),
		errors.Is(err, services.ErrOrganisationInconnue),
		errors.Is(err, services.ErrPermissionNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrOTPInvalid),
		errors.Is(err, services.ErrOTPExpired),
		errors.Is(err, services.ErrDetailsInvalides),
		errors.Is(err, services.ErrRaisonInconnue),
		errors.Is(err, services.ErrTypeDocumentInconnu),
		errors.Is(err, services.ErrMotifRequis),
		errors.Is(err, services.ErrClientContactRequired),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrNomOrganisationInvalide):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrIdentifiantsInvalides),
		errors.Is(err, services.ErrTokenInvalide):
		status, msg = http.StatusUnauthorized, err.Error()
	case errors.Is(err, services.ErrCompteInactif):
		status, msg = http.StatusForbidden, err.Error()
	case errors.Is(err, services.ErrEmailDejaUtilise):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, services.ErrTelegramDisabled):
		status, msg = http.StatusServiceUnavailable, err.Error()
	}
	c.JSON(status, gin.H{"error": msg})
}
