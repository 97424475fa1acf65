package service

import (
	"context"
	"errors"
	"testing"

	"arqueria/archery-app/internal/domain"
)

func TestCreateExerciseValidation(t *testing.T) {
	svc := NewExerciseService(newStubExerciseRepo(), newStubRoutineRepo())
	ctx := context.Background()

	if _, err := svc.CreateExercise(ctx, ExerciseInput{ArrowsCount: 10}); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("missing name: %v", err)
	}
	if _, err := svc.CreateExercise(ctx, ExerciseInput{Name: "Tiro", ArrowsCount: -1}); !errors.Is(err, ErrNegativeQuantities) {
		t.Errorf("negative arrows: %v", err)
	}
	if _, err := svc.CreateExercise(ctx, ExerciseInput{Name: "Tiro", DistanceM: -1}); !errors.Is(err, ErrNegativeQuantities) {
		t.Errorf("negative distance: %v", err)
	}
}

func TestDeleteExerciseBlockedWhileReferenced(t *testing.T) {
	exercise := &domain.Exercise{Name: "Tiro a 18m", ArrowsCount: 30}
	exerciseRepo := newStubExerciseRepo(exercise)
	routineRepo := newStubRoutineRepo(&domain.Routine{
		Name: "Semana base",
		Days: []domain.RoutineDay{{
			DayNumber: 1,
			Exercises: []domain.RoutineDayExercise{{ExerciseID: exercise.ID, SortOrder: 1}},
		}},
	})
	svc := NewExerciseService(exerciseRepo, routineRepo)
	ctx := context.Background()

	if err := svc.DeleteExercise(ctx, exercise.ID); !errors.Is(err, ErrExerciseInUse) {
		t.Fatalf("err = %v, want ErrExerciseInUse", err)
	}

	// Drop the referencing routine; the delete now goes through.
	for id := range routineRepo.routines {
		delete(routineRepo.routines, id)
	}
	if err := svc.DeleteExercise(ctx, exercise.ID); err != nil {
		t.Fatalf("DeleteExercise: %v", err)
	}
	if err := svc.DeleteExercise(ctx, exercise.ID); !errors.Is(err, ErrExerciseNotFound) {
		t.Errorf("second delete: %v", err)
	}
}
