package api

import (
	"alcyxob/traindoc/internal/domain"
	"alcyxob/traindoc/internal/repository"
	"alcyxob/traindoc/internal/service"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanHandler holds the processing service dependency.
type PlanHandler struct {
	processingService service.ProcessingService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(processingService service.ProcessingService) *PlanHandler {
	return &PlanHandler{processingService: processingService}
}

// --- DTOs ---

// TrainingPlanResponse is the DTO for returning a full training plan.
type TrainingPlanResponse struct {
	ID               string                 `json:"id"`
	Title            string                 `json:"title"`
	SourceDocumentID string                 `json:"sourceDocumentId"`
	Category         string                 `json:"category"`
	DurationLabel    string                 `json:"durationLabel"`
	Difficulty       string                 `json:"difficulty"`
	SessionsCount    int                    `json:"sessionsCount"`
	Description      string                 `json:"description,omitempty"`
	Tags             []string               `json:"tags,omitempty"`
	Weeks            []domain.WeekSession   `json:"weeks"`
	Schedule         domain.ScheduleSummary `json:"schedule"`
	CreatedAt        time.Time              `json:"createdAt"`
	Version          int                    `json:"version"`
}

// MapPlanToResponse converts a domain.TrainingPlan to its DTO.
func MapPlanToResponse(plan *domain.TrainingPlan) TrainingPlanResponse {
	if plan == nil {
		return TrainingPlanResponse{}
	}
	return TrainingPlanResponse{
		ID:               plan.ID.Hex(),
		Title:            plan.Title,
		SourceDocumentID: plan.SourceDocumentID.Hex(),
		Category:         plan.Category,
		DurationLabel:    plan.DurationLabel,
		Difficulty:       plan.Difficulty,
		SessionsCount:    plan.SessionsCount,
		Description:      plan.Description,
		Tags:             plan.Tags,
		Weeks:            plan.Weeks,
		Schedule:         plan.Schedule,
		CreatedAt:        plan.CreatedAt,
		Version:          plan.Version,
	}
}

// --- Handler Methods ---

// Process converts a stored document into a training plan. Processing an
// already-processed document returns the existing plan.
func (h *PlanHandler) Process(c *gin.Context) {
	userID, documentID, ok := requireDocumentIDs(c)
	if !ok {
		return
	}
	plan, err := h.processingService.ProcessDocument(c.Request.Context(), documentID, userID)
	if err != nil {
		respondProcessingError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// Reprocess regenerates a document's plan in place, bumping its version.
func (h *PlanHandler) Reprocess(c *gin.Context) {
	userID, documentID, ok := requireDocumentIDs(c)
	if !ok {
		return
	}
	plan, err := h.processingService.ReprocessDocument(c.Request.Context(), documentID, userID)
	if err != nil {
		respondProcessingError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// List returns the caller's training plans.
func (h *PlanHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	plans, err := h.processingService.ListPlans(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list training plans")
		return
	}
	responses := make([]TrainingPlanResponse, len(plans))
	for i := range plans {
		responses[i] = MapPlanToResponse(&plans[i])
	}
	c.JSON(http.StatusOK, responses)
}

// Get returns one training plan.
func (h *PlanHandler) Get(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}
	planID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID")
		return
	}
	plan, err := h.processingService.GetPlan(c.Request.Context(), planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			abortWithError(c, http.StatusNotFound, "Training plan not found")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

func respondProcessingError(c *gin.Context, err error) {
	var pErr *service.ProcessingError
	if errors.As(err, &pErr) {
		status := http.StatusUnprocessableEntity
		if errors.Is(pErr, service.ErrDocumentNotFound) {
			status = http.StatusNotFound
		}
		abortWithSuggestions(c, status, pErr.Message, pErr.Suggestions)
		return
	}
	abortWithError(c, http.StatusInternalServerError, "Failed to process the document")
}
