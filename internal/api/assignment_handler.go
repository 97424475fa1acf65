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

// CodeActiveAssignmentConflict identifies the "student already has an active
// routine" condition in error responses. Clients branch on this code to offer
// the delete-and-replace remediation.
const CodeActiveAssignmentConflict = "active_assignment_conflict"

// AssignmentHandler holds the assignment service dependency.
type AssignmentHandler struct {
	assignmentService service.AssignmentService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(assignmentService service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

// --- DTOs ---

type AssignmentRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	RoutineID string `json:"routine_id" binding:"required"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status" binding:"omitempty,oneof=active paused finished"`
	Notes     string `json:"notes"`
}

type AssignmentResponse struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	RoutineID  string    `json:"routine_id"`
	AssignedAt time.Time `json:"assigned_at"`
	StartDate  string    `json:"start_date,omitempty"`
	EndDate    string    `json:"end_date,omitempty"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MapAssignmentToResponse converts a domain.Assignment to response DTO.
func MapAssignmentToResponse(a *domain.Assignment) AssignmentResponse {
	if a == nil {
		return AssignmentResponse{}
	}
	return AssignmentResponse{
		ID:         a.ID.Hex(),
		StudentID:  a.StudentID.Hex(),
		RoutineID:  a.RoutineID.Hex(),
		AssignedAt: a.AssignedAt,
		StartDate:  a.StartDate,
		EndDate:    a.EndDate,
		Status:     string(a.Status),
		Notes:      a.Notes,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// MapAssignmentsToResponse converts a slice of assignments to response DTOs.
func MapAssignmentsToResponse(assignments []domain.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, len(assignments))
	for i, a := range assignments {
		responses[i] = MapAssignmentToResponse(&a)
	}
	return responses
}

// --- Handler Methods ---

// ListAssignments returns all assignments.
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	assignments, err := h.assignmentService.ListAssignments(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve assignments.")
		return
	}
	if assignments == nil {
		c.JSON(http.StatusOK, []AssignmentResponse{})
		return
	}
	c.JSON(http.StatusOK, MapAssignmentsToResponse(assignments))
}

// CreateAssignment creates a new assignment, rejecting it with a structured
// conflict code when the student already holds an active routine that week.
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	var req AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	studentID, err := primitive.ObjectIDFromHex(req.StudentID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid student ID.")
		return
	}
	routineID, err := primitive.ObjectIDFromHex(req.RoutineID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid routine ID.")
		return
	}

	assignment, err := h.assignmentService.CreateAssignment(c.Request.Context(), service.AssignmentInput{
		StudentID: studentID,
		RoutineID: routineID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    domain.AssignmentStatus(req.Status),
		Notes:     req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrActiveAssignmentConflict):
			abortWithCode(c, http.StatusConflict, CodeActiveAssignmentConflict, err.Error())
		case errors.Is(err, service.ErrStudentNotFound), errors.Is(err, service.ErrRoutineNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrValidationFailed),
			errors.Is(err, service.ErrInvalidStatus),
			errors.Is(err, service.ErrInvalidDateRange):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create assignment.")
		}
		return
	}
	c.JSON(http.StatusCreated, MapAssignmentToResponse(assignment))
}

// DeleteAssignment removes an assignment.
func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	assignmentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid assignment ID.")
		return
	}

	err = h.assignmentService.DeleteAssignment(c.Request.Context(), assignmentID)
	if err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete assignment.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
