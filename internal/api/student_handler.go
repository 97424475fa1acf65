package api

import (
	"errors"
	"net/http"
	"time"

	"arqueria/archery-app/internal/domain"
	"arqueria/archery-app/internal/logging"
	"arqueria/archery-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// StudentHandler holds the student service dependencies.
type StudentHandler struct {
	studentService   service.StudentService
	retentionService service.RetentionService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(studentService service.StudentService, retentionService service.RetentionService) *StudentHandler {
	return &StudentHandler{studentService: studentService, retentionService: retentionService}
}

// --- DTOs ---

type StudentRequest struct {
	FullName        string   `json:"full_name" binding:"required"`
	DocumentNumber  string   `json:"document_number" binding:"required"`
	Contact         string   `json:"contact"`
	BowPounds       *float64 `json:"bow_pounds" binding:"omitempty,gt=0"`
	ArrowsAvailable *int     `json:"arrows_available" binding:"omitempty,min=0"`
	IsActive        *bool    `json:"is_active"`
}

type StudentStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type StudentResponse struct {
	ID              string     `json:"id"`
	FullName        string     `json:"full_name"`
	DocumentNumber  string     `json:"document_number"`
	Contact         string     `json:"contact,omitempty"`
	BowPounds       *float64   `json:"bow_pounds,omitempty"`
	ArrowsAvailable *int       `json:"arrows_available,omitempty"`
	IsActive        bool       `json:"is_active"`
	InactiveSince   *time.Time `json:"inactive_since,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// MapStudentToResponse converts a domain.Student to StudentResponse DTO.
func MapStudentToResponse(st *domain.Student) StudentResponse {
	if st == nil {
		return StudentResponse{}
	}
	return StudentResponse{
		ID:              st.ID.Hex(),
		FullName:        st.FullName,
		DocumentNumber:  st.DocumentNumber,
		Contact:         st.Contact,
		BowPounds:       st.BowPounds,
		ArrowsAvailable: st.ArrowsAvailable,
		IsActive:        st.IsActive,
		InactiveSince:   st.InactiveSince,
		CreatedAt:       st.CreatedAt,
		UpdatedAt:       st.UpdatedAt,
	}
}

// MapStudentsToResponse converts a slice of domain.Student to response DTOs.
func MapStudentsToResponse(students []domain.Student) []StudentResponse {
	responses := make([]StudentResponse, len(students))
	for i, st := range students {
		responses[i] = MapStudentToResponse(&st)
	}
	return responses
}

func (r StudentRequest) toInput() service.StudentInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return service.StudentInput{
		FullName:        r.FullName,
		DocumentNumber:  r.DocumentNumber,
		Contact:         r.Contact,
		BowPounds:       r.BowPounds,
		ArrowsAvailable: r.ArrowsAvailable,
		IsActive:        active,
	}
}

// --- Handler Methods ---

// ListStudents returns all students. Long-inactive students are reclaimed
// opportunistically before the roster is read, in addition to the scheduled
// purge; a failed purge only gets logged.
func (h *StudentHandler) ListStudents(c *gin.Context) {
	if _, err := h.retentionService.PurgeInactiveStudents(c.Request.Context()); err != nil {
		logging.L().Warn("inactive student purge failed", zap.Error(err))
	}

	students, err := h.studentService.ListStudents(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve students.")
		return
	}
	if students == nil {
		c.JSON(http.StatusOK, []StudentResponse{})
		return
	}
	c.JSON(http.StatusOK, MapStudentsToResponse(students))
}

// CreateStudent registers a new student.
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	student, err := h.studentService.CreateStudent(c.Request.Context(), req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateDocument):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create student.")
		}
		return
	}
	c.JSON(http.StatusCreated, MapStudentToResponse(student))
}

// GetStudent returns a single student.
func (h *StudentHandler) GetStudent(c *gin.Context) {
	studentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid student ID.")
		return
	}

	student, err := h.studentService.GetStudentByID(c.Request.Context(), studentID)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve student.")
		}
		return
	}
	c.JSON(http.StatusOK, MapStudentToResponse(student))
}

// UpdateStudent modifies a student record.
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	studentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid student ID.")
		return
	}

	var req StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	student, err := h.studentService.UpdateStudent(c.Request.Context(), studentID, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrDuplicateDocument):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update student.")
		}
		return
	}
	c.JSON(http.StatusOK, MapStudentToResponse(student))
}

// SetStudentStatus toggles a student's active flag.
func (h *StudentHandler) SetStudentStatus(c *gin.Context) {
	studentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid student ID.")
		return
	}

	var req StudentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	student, err := h.studentService.SetStudentStatus(c.Request.Context(), studentID, *req.IsActive)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update student status.")
		}
		return
	}
	c.JSON(http.StatusOK, MapStudentToResponse(student))
}

// DeleteStudent removes a student.
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	studentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid student ID.")
		return
	}

	err = h.studentService.DeleteStudent(c.Request.Context(), studentID)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete student.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
