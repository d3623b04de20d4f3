package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"etatcivil/internal/services"
)

type OTPHandler struct {
	Service *services.OTPService
}

func NewOTPHandler(service *services.OTPService) *OTPHandler {
	return &OTPHandler{Service: service}
}

// @Summary      Générer un nouveau code
// @Description  Expire le code courant de la session et en émet un nouveau; l'échec d'envoi de l'email n'annule pas l'émission
// @Tags         OTP
// @Produce      json
// @Param        session_id  path  int  true  "ID de la session"
// @Success      201  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /otp/{session_id} [post]
func (h *OTPHandler) Issue(c *gin.Context) {
	sessionID, ok := pathID(c, "session_id")
	if !ok {
		return
	}
	otp, message, err := h.Service.IssueOTP(sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"otp": otp, "message": message})
}

// @Summary      Code courant d'une session
// @Description  Métadonnées du code courant; la valeur du code n'est jamais renvoyée
// @Tags         OTP
// @Produce      json
// @Param        session_id  path  int  true  "ID de la session"
// @Success      200  {object}  models.OTP
// @Failure      404  {object}  map[string]string
// @Router       /otp/{session_id} [get]
func (h *OTPHandler) GetCurrent(c *gin.Context) {
	sessionID, ok := pathID(c, "session_id")
	if !ok {
		return
	}
	otp, err := h.Service.GetCurrentOTP(sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, otp)
}

// @Summary      Vérifier un code
// @Description  Vérification sans effet de bord: le code reste utilisable pour l'activation
// @Tags         OTP
// @Produce      json
// @Param        session_id  path   int     true  "ID de la session"
// @Param        otp_code    query  string  true  "Code à vérifier"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /otp/{session_id}/validate [post]
func (h *OTPHandler) Validate(c *gin.Context) {
	sessionID, ok := pathID(c, "session_id")
	if !ok {
		return
	}
	code := c.Query("otp_code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "otp_code requis"})
		return
	}
	if _, err := h.Service.ValidateOTP(sessionID, code); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "message": "Code valide"})
}
