package api

import (
	"alcyxob/traindoc/internal/domain"
	"alcyxob/traindoc/internal/service"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DocumentHandler holds the document service dependency.
type DocumentHandler struct {
	documentService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// --- DTOs ---

// DocumentResponse is the DTO for returning document metadata.
type DocumentResponse struct {
	ID                   string     `json:"id"`
	OriginalName         string     `json:"originalName"`
	MimeType             string     `json:"mimeType"`
	SizeBytes            int64      `json:"sizeBytes"`
	UploadedAt           time.Time  `json:"uploadedAt"`
	PlatformOrigin       string     `json:"platformOrigin"`
	Processed            bool       `json:"processed"`
	ProcessedAt          *time.Time `json:"processedAt,omitempty"`
	LinkedTrainingPlanID *string    `json:"linkedTrainingPlanId,omitempty"`
	IntegrityStatus      *string    `json:"integrityStatus,omitempty"`
	IntegrityCheckedAt   *time.Time `json:"integrityCheckedAt,omitempty"`
}

// MapDocumentToResponse converts a domain.Document to DocumentResponse.
func MapDocumentToResponse(doc *domain.Document) DocumentResponse {
	if doc == nil {
		return DocumentResponse{}
	}
	resp := DocumentResponse{
		ID:             doc.ID.Hex(),
		OriginalName:   doc.OriginalName,
		MimeType:       doc.MimeType,
		SizeBytes:      doc.SizeBytes,
		UploadedAt:     doc.UploadedAt,
		PlatformOrigin: string(doc.PlatformOrigin),
		Processed:      doc.Processed,
		ProcessedAt:    doc.ProcessedAt,
	}
	if doc.LinkedTrainingPlanID != nil {
		id := doc.LinkedTrainingPlanID.Hex()
		resp.LinkedTrainingPlanID = &id
	}
	if doc.IntegrityCheck != nil {
		status := string(doc.IntegrityCheck.Status)
		resp.IntegrityStatus = &status
		ts := doc.IntegrityCheck.Timestamp
		resp.IntegrityCheckedAt = &ts
	}
	return resp
}

// --- Handler Methods ---

// Upload accepts a multipart file upload and stores it.
func (h *DocumentHandler) Upload(c *gin.Context) {
	ownerID, ok := requireUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "A 'file' form field is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Could not open the uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Could not read the uploaded file")
		return
	}

	mimeType := c.PostForm("mimeType")
	if mimeType == "" {
		mimeType = fileHeader.Header.Get("Content-Type")
	}

	doc, err := h.documentService.Upload(c.Request.Context(), ownerID, fileHeader.Filename, mimeType, data)
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			abortWithSuggestions(c, http.StatusBadRequest, vErr.Error(), vErr.Suggestions)
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to store the document")
		return
	}
	c.JSON(http.StatusCreated, MapDocumentToResponse(doc))
}

// List returns the caller's documents.
func (h *DocumentHandler) List(c *gin.Context) {
	ownerID, ok := requireUserID(c)
	if !ok {
		return
	}
	docs, err := h.documentService.List(c.Request.Context(), ownerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list documents")
		return
	}
	responses := make([]DocumentResponse, len(docs))
	for i := range docs {
		responses[i] = MapDocumentToResponse(&docs[i])
	}
	c.JSON(http.StatusOK, responses)
}

// Get returns one document's metadata.
func (h *DocumentHandler) Get(c *gin.Context) {
	ownerID, documentID, ok := requireDocumentIDs(c)
	if !ok {
		return
	}
	doc, err := h.documentService.Get(c.Request.Context(), ownerID, documentID)
	if err != nil {
		respondDocumentError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapDocumentToResponse(doc))
}

// Delete removes a document and releases its stored bytes.
func (h *DocumentHandler) Delete(c *gin.Context) {
	ownerID, documentID, ok := requireDocumentIDs(c)
	if !ok {
		return
	}
	if err := h.documentService.Delete(c.Request.Context(), ownerID, documentID); err != nil {
		respondDocumentError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Verify runs the integrity checker against a document.
func (h *DocumentHandler) Verify(c *gin.Context) {
	ownerID, documentID, ok := requireDocumentIDs(c)
	if !ok {
		return
	}
	result, err := h.documentService.Verify(c.Request.Context(), ownerID, documentID)
	if err != nil {
		respondDocumentError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Repair applies the narrow repair fixes to a document.
func (h *DocumentHandler) Repair(c *gin.Context) {
	ownerID, documentID, ok := requireDocumentIDs(c)
	if !ok {
		return
	}
	outcome, err := h.documentService.Repair(c.Request.Context(), ownerID, documentID)
	if err != nil {
		respondDocumentError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// --- shared helpers ---

func requireUserID(c *gin.Context) (primitive.ObjectID, bool) {
	idStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Invalid user ID in token")
		return primitive.NilObjectID, false
	}
	return id, true
}

func requireDocumentIDs(c *gin.Context) (ownerID, documentID primitive.ObjectID, ok bool) {
	ownerID, ok = requireUserID(c)
	if !ok {
		return
	}
	documentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid document ID")
		return ownerID, primitive.NilObjectID, false
	}
	return ownerID, documentID, true
}

func respondDocumentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDocumentNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDocumentNotOwned):
		abortWithError(c, http.StatusForbidden, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
