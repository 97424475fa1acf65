package repository

import (
	"context"
	"time"

	"arqueria/archery-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ExerciseRepository defines the interface for interacting with the exercise catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	List(ctx context.Context) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// StudentRepository defines the interface for interacting with student records.
type StudentRepository interface {
	Create(ctx context.Context, student *domain.Student) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Student, error)
	List(ctx context.Context) ([]domain.Student, error)
	Update(ctx context.Context, student *domain.Student) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// DeleteInactiveBefore removes students that have been inactive since
	// before the cutoff. Returns the number of students removed.
	DeleteInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RoutineRepository defines the interface for interacting with routines.
// A routine's embedded day tree is always written as one unit.
type RoutineRepository interface {
	Create(ctx context.Context, routine *domain.Routine) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Routine, error)
	List(ctx context.Context) ([]domain.Routine, error)
	// Replace overwrites name, description, flags and the whole day tree.
	Replace(ctx context.Context, routine *domain.Routine) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// ListNonTemplatesUpdatedBefore returns ad-hoc routines last touched
	// before the cutoff, for retention.
	ListNonTemplatesUpdatedBefore(ctx context.Context, cutoff time.Time) ([]domain.Routine, error)
}

// AssignmentRepository defines the interface for interacting with assignments.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.Assignment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Assignment, error)
	List(ctx context.Context) ([]domain.Assignment, error)
	// FindActiveOverlapping returns active assignments for the student whose
	// [start_date, end_date] window intersects [weekStart, weekEnd]
	// (DateOnly strings).
	FindActiveOverlapping(ctx context.Context, studentID primitive.ObjectID, weekStart, weekEnd string) ([]domain.Assignment, error)
	GetByRoutineID(ctx context.Context, routineID primitive.ObjectID) ([]domain.Assignment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
