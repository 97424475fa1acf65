package api

import (
	"errors"
	"net/http"
	"time"

	"arqueria/archery-app/internal/domain"
	"arqueria/archery-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs ---

// ExerciseRequest defines the expected JSON for creating or updating an exercise.
type ExerciseRequest struct {
	Name        string  `json:"name" binding:"required"`
	ArrowsCount int     `json:"arrows_count" binding:"min=0"`
	DistanceM   float64 `json:"distance_m" binding:"min=0"`
	Description string  `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// ExerciseResponse is the DTO for returning exercise details.
type ExerciseResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ArrowsCount int       `json:"arrows_count"`
	DistanceM   float64   `json:"distance_m"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	return ExerciseResponse{
		ID:          ex.ID.Hex(),
		Name:        ex.Name,
		ArrowsCount: ex.ArrowsCount,
		DistanceM:   ex.DistanceM,
		Description: ex.Description,
		IsActive:    ex.IsActive,
		CreatedAt:   ex.CreatedAt,
		UpdatedAt:   ex.UpdatedAt,
	}
}

// MapExercisesToResponse converts a slice of domain.Exercise to response DTOs.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i, ex := range exercises {
		responses[i] = MapExerciseToResponse(&ex)
	}
	return responses
}

func (r ExerciseRequest) toInput() service.ExerciseInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return service.ExerciseInput{
		Name:        r.Name,
		ArrowsCount: r.ArrowsCount,
		DistanceM:   r.DistanceM,
		Description: r.Description,
		IsActive:    active,
	}
}

// --- Handler Methods ---

// ListExercises returns the full exercise catalog.
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	exercises, err := h.exerciseService.ListExercises(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercises.")
		return
	}
	if exercises == nil {
		c.JSON(http.StatusOK, []ExerciseResponse{})
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// CreateExercise creates a new catalog exercise.
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) || errors.Is(err, service.ErrNegativeQuantities) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create exercise.")
		}
		return
	}

	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise))
}

// GetExercise returns a single catalog exercise.
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID.")
		return
	}

	exercise, err := h.exerciseService.GetExerciseByID(c.Request.Context(), exerciseID)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercise.")
		}
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// UpdateExercise modifies a catalog exercise.
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID.")
		return
	}

	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), exerciseID, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrValidationFailed), errors.Is(err, service.ErrNegativeQuantities):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update exercise.")
		}
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// DeleteExercise removes a catalog exercise.
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID.")
		return
	}

	err = h.exerciseService.DeleteExercise(c.Request.Context(), exerciseID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrExerciseInUse):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete exercise.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
