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
	ErrStudentNotFound   = errors.New("student not found")
	ErrDuplicateDocument = errors.New("a student with this document number already exists")
)

// StudentInput carries the editable fields of a student record.
type StudentInput struct {
	FullName        string
	DocumentNumber  string
	Contact         string
	BowPounds       *float64
	ArrowsAvailable *int
	IsActive        bool
}

type StudentService interface {
	CreateStudent(ctx context.Context, input StudentInput) (*domain.Student, error)
	GetStudentByID(ctx context.Context, studentID primitive.ObjectID) (*domain.Student, error)
	ListStudents(ctx context.Context) ([]domain.Student, error)
	UpdateStudent(ctx context.Context, studentID primitive.ObjectID, input StudentInput) (*domain.Student, error)
	SetStudentStatus(ctx context.Context, studentID primitive.ObjectID, isActive bool) (*domain.Student, error)
	DeleteStudent(ctx context.Context, studentID primitive.ObjectID) error
}

// studentService implements the StudentService interface.
type studentService struct {
	studentRepo repository.StudentRepository
}

// NewStudentService creates a new instance of studentService.
func NewStudentService(studentRepo repository.StudentRepository) StudentService {
	return &studentService{studentRepo: studentRepo}
}

func validateStudentInput(input StudentInput) error {
	if input.FullName == "" || input.DocumentNumber == "" {
		return ErrValidationFailed
	}
	if input.BowPounds != nil && *input.BowPounds <= 0 {
		return ErrValidationFailed
	}
	if input.ArrowsAvailable != nil && *input.ArrowsAvailable < 0 {
		return ErrValidationFailed
	}
	return nil
}

// CreateStudent registers a new student.
func (s *studentService) CreateStudent(ctx context.Context, input StudentInput) (*domain.Student, error) {
	if err := validateStudentInput(input); err != nil {
		return nil, err
	}

	student := &domain.Student{
		FullName:        input.FullName,
		DocumentNumber:  input.DocumentNumber,
		Contact:         input.Contact,
		BowPounds:       input.BowPounds,
		ArrowsAvailable: input.ArrowsAvailable,
		IsActive:        input.IsActive,
	}
	if !input.IsActive {
		now := time.Now().UTC()
		student.InactiveSince = &now
	}

	studentID, err := s.studentRepo.Create(ctx, student)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicateDocument
		}
		return nil, err
	}
	return s.studentRepo.GetByID(ctx, studentID)
}

// GetStudentByID retrieves a single student.
func (s *studentService) GetStudentByID(ctx context.Context, studentID primitive.ObjectID) (*domain.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

// ListStudents retrieves all students.
func (s *studentService) ListStudents(ctx context.Context) ([]domain.Student, error) {
	return s.studentRepo.List(ctx)
}

// applyInactiveSince keeps the inactive_since marker consistent with the
// active flag: set on the active->inactive edge, cleared on reactivation.
func applyInactiveSince(student *domain.Student, wasActive bool) {
	switch {
	case student.IsActive:
		student.InactiveSince = nil
	case wasActive || student.InactiveSince == nil:
		now := time.Now().UTC()
		student.InactiveSince = &now
	}
}

// UpdateStudent modifies a student record.
func (s *studentService) UpdateStudent(ctx context.Context, studentID primitive.ObjectID, input StudentInput) (*domain.Student, error) {
	if err := validateStudentInput(input); err != nil {
		return nil, err
	}

	existing, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	wasActive := existing.IsActive
	existing.FullName = input.FullName
	existing.DocumentNumber = input.DocumentNumber
	existing.Contact = input.Contact
	existing.BowPounds = input.BowPounds
	existing.ArrowsAvailable = input.ArrowsAvailable
	existing.IsActive = input.IsActive
	applyInactiveSince(existing, wasActive)

	if err := s.studentRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicateDocument
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return existing, nil
}

// SetStudentStatus toggles the active flag only.
func (s *studentService) SetStudentStatus(ctx context.Context, studentID primitive.ObjectID, isActive bool) (*domain.Student, error) {
	existing, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	wasActive := existing.IsActive
	existing.IsActive = isActive
	applyInactiveSince(existing, wasActive)

	if err := s.studentRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return existing, nil
}

// DeleteStudent removes a student record.
func (s *studentService) DeleteStudent(ctx context.Context, studentID primitive.ObjectID) error {
	err := s.studentRepo.Delete(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrStudentNotFound
		}
		return err
	}
	return nil
}
