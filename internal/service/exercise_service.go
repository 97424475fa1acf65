package service

import (
	"context"
	"errors"

	"arqueria/archery-app/internal/domain"
	"arqueria/archery-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound   = errors.New("exercise not found")
	ErrExerciseInUse      = errors.New("exercise is referenced by one or more routines")
	ErrValidationFailed   = errors.New("validation failed")
	ErrNegativeQuantities = errors.New("arrows count and distance must not be negative")
)

// ExerciseInput carries the editable fields of a catalog exercise.
type ExerciseInput struct {
	Name        string
	ArrowsCount int
	DistanceM   float64
	Description string
	IsActive    bool
}

type ExerciseService interface {
	CreateExercise(ctx context.Context, input ExerciseInput) (*domain.Exercise, error)
	GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, exerciseID primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, exerciseID primitive.ObjectID) error
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	routineRepo  repository.RoutineRepository
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, routineRepo repository.RoutineRepository) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		routineRepo:  routineRepo,
	}
}

func validateExerciseInput(input ExerciseInput) error {
	if input.Name == "" {
		return ErrValidationFailed
	}
	if input.ArrowsCount < 0 || input.DistanceM < 0 {
		return ErrNegativeQuantities
	}
	return nil
}

// CreateExercise adds a new exercise to the catalog.
func (s *exerciseService) CreateExercise(ctx context.Context, input ExerciseInput) (*domain.Exercise, error) {
	if err := validateExerciseInput(input); err != nil {
		return nil, err
	}

	exercise := &domain.Exercise{
		Name:        input.Name,
		ArrowsCount: input.ArrowsCount,
		DistanceM:   input.DistanceM,
		Description: input.Description,
		IsActive:    input.IsActive,
	}

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	return s.exerciseRepo.GetByID(ctx, exerciseID)
}

// GetExerciseByID retrieves a single exercise.
func (s *exerciseService) GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// ListExercises retrieves the full catalog.
func (s *exerciseService) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	return s.exerciseRepo.List(ctx)
}

// UpdateExercise modifies a catalog exercise.
func (s *exerciseService) UpdateExercise(ctx context.Context, exerciseID primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error) {
	if err := validateExerciseInput(input); err != nil {
		return nil, err
	}

	existing, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	existing.Name = input.Name
	existing.ArrowsCount = input.ArrowsCount
	existing.DistanceM = input.DistanceM
	existing.Description = input.Description
	existing.IsActive = input.IsActive

	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return existing, nil
}

// DeleteExercise removes an exercise unless a routine still references it.
func (s *exerciseService) DeleteExercise(ctx context.Context, exerciseID primitive.ObjectID) error {
	routines, err := s.routineRepo.List(ctx)
	if err != nil {
		return err
	}
	for _, routine := range routines {
		for _, day := range routine.Days {
			for _, dayExercise := range day.Exercises {
				if dayExercise.ExerciseID == exerciseID {
					return ErrExerciseInUse
				}
			}
		}
	}

	err = s.exerciseRepo.Delete(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	return nil
}
