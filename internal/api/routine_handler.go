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

// RoutineHandler holds the routine service dependency.
type RoutineHandler struct {
	routineService service.RoutineService
}

// NewRoutineHandler creates a new RoutineHandler.
func NewRoutineHandler(routineService service.RoutineService) *RoutineHandler {
	return &RoutineHandler{routineService: routineService}
}

// --- DTOs ---

// RoutineDayExerciseRequest is one exercise slot inside a day payload.
type RoutineDayExerciseRequest struct {
	ExerciseID        string   `json:"exercise_id" binding:"required"`
	SortOrder         int      `json:"sort_order" binding:"omitempty,min=1"`
	ArrowsOverride    *int     `json:"arrows_override" binding:"omitempty,min=0"`
	DistanceOverrideM *float64 `json:"distance_override_m" binding:"omitempty,min=0"`
	Notes             string   `json:"notes"`
}

// RoutineDayRequest is one day inside a routine payload.
type RoutineDayRequest struct {
	DayNumber int                         `json:"day_number" binding:"required,min=1,max=7"`
	Name      string                      `json:"name"`
	Notes     string                      `json:"notes"`
	Exercises []RoutineDayExerciseRequest `json:"exercises"`
}

// RoutineRequest is the full create/update payload. The day tree is always
// submitted whole; the server never accepts partial day edits.
type RoutineRequest struct {
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description"`
	IsActive    *bool               `json:"is_active"`
	IsTemplate  *bool               `json:"is_template"`
	Days        []RoutineDayRequest `json:"days"`
}

type RoutineDayExerciseResponse struct {
	ID                string   `json:"id"`
	ExerciseID        string   `json:"exercise_id"`
	SortOrder         int      `json:"sort_order"`
	ArrowsOverride    *int     `json:"arrows_override,omitempty"`
	DistanceOverrideM *float64 `json:"distance_override_m,omitempty"`
	Notes             string   `json:"notes,omitempty"`
}

type RoutineDayResponse struct {
	ID        string                       `json:"id"`
	DayNumber int                          `json:"day_number"`
	Name      string                       `json:"name,omitempty"`
	Notes     string                       `json:"notes,omitempty"`
	Exercises []RoutineDayExerciseResponse `json:"exercises"`
}

type RoutineResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	IsActive    bool                 `json:"is_active"`
	IsTemplate  bool                 `json:"is_template"`
	Days        []RoutineDayResponse `json:"days"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// MapRoutineToResponse converts a domain.Routine to RoutineResponse DTO.
func MapRoutineToResponse(rt *domain.Routine) RoutineResponse {
	if rt == nil {
		return RoutineResponse{}
	}
	days := make([]RoutineDayResponse, len(rt.Days))
	for i, day := range rt.Days {
		exercises := make([]RoutineDayExerciseResponse, len(day.Exercises))
		for j, slot := range day.Exercises {
			exercises[j] = RoutineDayExerciseResponse{
				ID:                slot.ID.Hex(),
				ExerciseID:        slot.ExerciseID.Hex(),
				SortOrder:         slot.SortOrder,
				ArrowsOverride:    slot.ArrowsOverride,
				DistanceOverrideM: slot.DistanceOverrideM,
				Notes:             slot.Notes,
			}
		}
		days[i] = RoutineDayResponse{
			ID:        day.ID.Hex(),
			DayNumber: day.DayNumber,
			Name:      day.Name,
			Notes:     day.Notes,
			Exercises: exercises,
		}
	}
	return RoutineResponse{
		ID:          rt.ID.Hex(),
		Name:        rt.Name,
		Description: rt.Description,
		IsActive:    rt.IsActive,
		IsTemplate:  rt.IsTemplate,
		Days:        days,
		CreatedAt:   rt.CreatedAt,
		UpdatedAt:   rt.UpdatedAt,
	}
}

// MapRoutinesToResponse converts a slice of domain.Routine to response DTOs.
func MapRoutinesToResponse(routines []domain.Routine) []RoutineResponse {
	responses := make([]RoutineResponse, len(routines))
	for i, rt := range routines {
		responses[i] = MapRoutineToResponse(&rt)
	}
	return responses
}

func (r RoutineRequest) toInput() (service.RoutineInput, error) {
	active, template := true, true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	if r.IsTemplate != nil {
		template = *r.IsTemplate
	}

	days := make([]service.RoutineDayInput, len(r.Days))
	for i, day := range r.Days {
		exercises := make([]service.RoutineDayExerciseInput, len(day.Exercises))
		for j, slot := range day.Exercises {
			exerciseID, err := primitive.ObjectIDFromHex(slot.ExerciseID)
			if err != nil {
				return service.RoutineInput{}, errors.New("invalid exercise ID: " + slot.ExerciseID)
			}
			exercises[j] = service.RoutineDayExerciseInput{
				ExerciseID:        exerciseID,
				SortOrder:         slot.SortOrder,
				ArrowsOverride:    slot.ArrowsOverride,
				DistanceOverrideM: slot.DistanceOverrideM,
				Notes:             slot.Notes,
			}
		}
		days[i] = service.RoutineDayInput{
			DayNumber: day.DayNumber,
			Name:      day.Name,
			Notes:     day.Notes,
			Exercises: exercises,
		}
	}

	return service.RoutineInput{
		Name:        r.Name,
		Description: r.Description,
		IsActive:    active,
		IsTemplate:  template,
		Days:        days,
	}, nil
}

// routineErrorStatus maps routine service errors to HTTP statuses.
func routineErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrRoutineNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrValidationFailed),
		errors.Is(err, service.ErrDuplicateDayNumber),
		errors.Is(err, service.ErrDayNumberOutOfRange),
		errors.Is(err, service.ErrDuplicateSortOrder),
		errors.Is(err, service.ErrUnknownExercise):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrRoutineNameTaken),
		errors.Is(err, service.ErrRoutineHasAssignments):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// --- Handler Methods ---

// ListRoutines returns all routines with their day trees.
func (h *RoutineHandler) ListRoutines(c *gin.Context) {
	routines, err := h.routineService.ListRoutines(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve routines.")
		return
	}
	if routines == nil {
		c.JSON(http.StatusOK, []RoutineResponse{})
		return
	}
	c.JSON(http.StatusOK, MapRoutinesToResponse(routines))
}

// GetRoutine returns one routine.
func (h *RoutineHandler) GetRoutine(c *gin.Context) {
	routineID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid routine ID.")
		return
	}

	routine, err := h.routineService.GetRoutineByID(c.Request.Context(), routineID)
	if err != nil {
		if errors.Is(err, service.ErrRoutineNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve routine.")
		}
		return
	}
	c.JSON(http.StatusOK, MapRoutineToResponse(routine))
}

// CreateRoutine creates a routine from a full day-tree payload.
func (h *RoutineHandler) CreateRoutine(c *gin.Context) {
	var req RoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	input, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	routine, err := h.routineService.CreateRoutine(c.Request.Context(), input)
	if err != nil {
		status := routineErrorStatus(err)
		if status == http.StatusInternalServerError {
			abortWithError(c, status, "Failed to create routine.")
		} else {
			abortWithError(c, status, err.Error())
		}
		return
	}
	c.JSON(http.StatusCreated, MapRoutineToResponse(routine))
}

// UpdateRoutine replaces a routine and its day tree.
func (h *RoutineHandler) UpdateRoutine(c *gin.Context) {
	routineID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid routine ID.")
		return
	}

	var req RoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	input, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	routine, err := h.routineService.UpdateRoutine(c.Request.Context(), routineID, input)
	if err != nil {
		status := routineErrorStatus(err)
		if status == http.StatusInternalServerError {
			abortWithError(c, status, "Failed to update routine.")
		} else {
			abortWithError(c, status, err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, MapRoutineToResponse(routine))
}

// DeleteRoutine removes a routine.
func (h *RoutineHandler) DeleteRoutine(c *gin.Context) {
	routineID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid routine ID.")
		return
	}

	err = h.routineService.DeleteRoutine(c.Request.Context(), routineID)
	if err != nil {
		status := routineErrorStatus(err)
		if status == http.StatusInternalServerError {
			abortWithError(c, status, "Failed to delete routine.")
		} else {
			abortWithError(c, status, err.Error())
		}
		return
	}
	c.Status(http.StatusNoContent)
}
