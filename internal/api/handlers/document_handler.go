package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sitegrid/sitegrid-backend/internal/api/middleware"
	"github.com/sitegrid/sitegrid-backend/internal/models"
	"github.com/sitegrid/sitegrid-backend/internal/service"
)

type DocumentHandler struct {
	documentService service.DocumentService
}

// Register records document metadata in the project register. The file
// itself lives in external storage under the given storage key.
func (h *DocumentHandler) Register(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.RegisterDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.documentService.Register(c.Request.Context(), userID, c.Param("id"), req.FileName, req.StorageKey, req.ContentType, req.SizeBytes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toDocumentResponse(doc))
}

// Get returns one document's metadata
func (h *DocumentHandler) Get(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	doc, err := h.documentService.GetByID(c.Request.Context(), userID, c.Param("documentId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toDocumentResponse(doc))
}

// ListByProject lists a project's document register
func (h *DocumentHandler) ListByProject(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	docs, err := h.documentService.ListByProject(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := make([]models.DocumentResponse, len(docs))
	for i, d := range docs {
		resp[i] = toDocumentResponse(d)
	}
	c.JSON(http.StatusOK, resp)
}

// Delete removes a document entry
func (h *DocumentHandler) Delete(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), userID, c.Param("documentId")); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}
