package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"etatcivil/internal/services"
)

type DocumentHandler struct {
	Service *services.DocumentService
}

func NewDocumentHandler(service *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{Service: service}
}

// @Summary      Document d'une demande
// @Tags         Documents
// @Produce      json
// @Param        id  path  int  true  "ID de la demande"
// @Success      200  {object}  models.Document
// @Failure      404  {object}  map[string]string
// @Router       /demandes/{id}/document [get]
func (h *DocumentHandler) GetByDemande(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	doc, err := h.Service.GetDocumentByDemande(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// @Summary      Télécharger un document
// @Tags         Documents
// @Produce      application/pdf
// @Param        id  path  int  true  "ID du document"
// @Success      200  {file}    file
// @Failure      404  {object}  map[string]string
// @Router       /documents/{id}/download [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	doc, err := h.Service.GetDocument(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Type", doc.FileType)
	c.File(doc.FilePath)
}

// @Summary      Vérifier l'intégrité d'un document
// @Description  Recalcule l'empreinte sha256 du fichier et la compare à celle enregistrée
// @Tags         Documents
// @Produce      json
// @Param        id  path  int  true  "ID du document"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /documents/{id}/verifier [get]
func (h *DocumentHandler) Verify(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	doc, err := h.Service.GetDocument(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	valid, err := h.Service.VerifyChecksum(doc)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"document_id": doc.ID, "checksum_valide": valid})
}
