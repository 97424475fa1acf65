package service

import (
	"context"
	"errors"
	"time"

	"arqueria/archery-app/internal/domain"
	"arqueria/archery-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrAssignmentNotFound = errors.New("assignment not found")
	// ErrActiveAssignmentConflict is the structured form of "the student
	// already has an active routine that week". Handlers expose it with a
	// machine-readable code so clients never have to match message text.
	ErrActiveAssignmentConflict = errors.New("student already has an active routine for that week")
	ErrInvalidStatus            = errors.New("invalid assignment status")
	ErrInvalidDateRange         = errors.New("end_date must not precede start_date")
)

// AssignmentInput carries the fields of a new assignment.
type AssignmentInput struct {
	StudentID primitive.ObjectID
	RoutineID primitive.ObjectID
	StartDate string // DateOnly layout, optional
	EndDate   string // DateOnly layout, optional
	Status    domain.AssignmentStatus
	Notes     string
}

type AssignmentService interface {
	CreateAssignment(ctx context.Context, input AssignmentInput) (*domain.Assignment, error)
	ListAssignments(ctx context.Context) ([]domain.Assignment, error)
	DeleteAssignment(ctx context.Context, assignmentID primitive.ObjectID) error
}

// assignmentService implements the AssignmentService interface.
type assignmentService struct {
	assignmentRepo repository.AssignmentRepository
	studentRepo    repository.StudentRepository
	routineRepo    repository.RoutineRepository
}

// NewAssignmentService creates a new instance of assignmentService.
func NewAssignmentService(
	assignmentRepo repository.AssignmentRepository,
	studentRepo repository.StudentRepository,
	routineRepo repository.RoutineRepository,
) AssignmentService {
	return &assignmentService{
		assignmentRepo: assignmentRepo,
		studentRepo:    studentRepo,
		routineRepo:    routineRepo,
	}
}

// weekBounds returns the Monday-aligned week containing the given date.
func weekBounds(start time.Time) (string, string) {
	offset := (int(start.Weekday()) + 6) % 7 // Monday = 0
	weekStart := start.AddDate(0, 0, -offset)
	weekEnd := weekStart.AddDate(0, 0, 6)
	return weekStart.Format(domain.DateOnly), weekEnd.Format(domain.DateOnly)
}

// CreateAssignment creates an assignment after verifying the student and
// routine exist and, for active assignments, that the student holds no other
// active assignment overlapping the same week.
func (s *assignmentService) CreateAssignment(ctx context.Context, input AssignmentInput) (*domain.Assignment, error) {
	if input.StudentID == primitive.NilObjectID || input.RoutineID == primitive.NilObjectID {
		return nil, ErrValidationFailed
	}

	switch input.Status {
	case domain.StatusActive, domain.StatusPaused, domain.StatusFinished:
	case "":
		input.Status = domain.StatusActive
	default:
		return nil, ErrInvalidStatus
	}

	if input.StartDate != "" {
		if _, err := time.Parse(domain.DateOnly, input.StartDate); err != nil {
			return nil, ErrValidationFailed
		}
	}
	if input.EndDate != "" {
		if _, err := time.Parse(domain.DateOnly, input.EndDate); err != nil {
			return nil, ErrValidationFailed
		}
	}
	if input.StartDate != "" && input.EndDate != "" && input.EndDate < input.StartDate {
		return nil, ErrInvalidDateRange
	}

	if _, err := s.studentRepo.GetByID(ctx, input.StudentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	if _, err := s.routineRepo.GetByID(ctx, input.RoutineID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, err
	}

	// Business rule: a student cannot hold more than one active routine in
	// the same week.
	if input.Status == domain.StatusActive {
		start := time.Now().UTC()
		if input.StartDate != "" {
			start, _ = time.Parse(domain.DateOnly, input.StartDate)
		}
		weekStart, weekEnd := weekBounds(start)
		existing, err := s.assignmentRepo.FindActiveOverlapping(ctx, input.StudentID, weekStart, weekEnd)
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			return nil, ErrActiveAssignmentConflict
		}
	}

	assignment := &domain.Assignment{
		StudentID: input.StudentID,
		RoutineID: input.RoutineID,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Status:    input.Status,
		Notes:     input.Notes,
	}

	assignmentID, err := s.assignmentRepo.Create(ctx, assignment)
	if err != nil {
		return nil, err
	}
	return s.assignmentRepo.GetByID(ctx, assignmentID)
}

// ListAssignments retrieves all assignments.
func (s *assignmentService) ListAssignments(ctx context.Context) ([]domain.Assignment, error) {
	return s.assignmentRepo.List(ctx)
}

// DeleteAssignment removes an assignment.
func (s *assignmentService) DeleteAssignment(ctx context.Context, assignmentID primitive.ObjectID) error {
	err := s.assignmentRepo.Delete(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}
	return nil
}
