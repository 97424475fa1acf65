package workflow

import (
	"context"
	"fmt"

	"arqueria/archery-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Catalog is the local read model of the store: exercises, routines,
// students and assignments fetched whole and overwritten whole. It is never
// patched incrementally; after any mutation the affected list is re-fetched
// so the cache cannot drift from what the store accepted.
//
// The catalog is flow-independent: cancelling a flow leaves it intact.
type Catalog struct {
	exercises   []domain.Exercise
	routines    []domain.Routine
	students    []domain.Student
	assignments []domain.Assignment
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// RefreshAll re-fetches every list. On error the catalog keeps whatever it
// held before; lists fetched earlier in the same call are already replaced.
func (c *Catalog) RefreshAll(ctx context.Context, store Store) error {
	if err := c.RefreshExercises(ctx, store); err != nil {
		return err
	}
	if err := c.RefreshRoutines(ctx, store); err != nil {
		return err
	}
	if err := c.RefreshStudents(ctx, store); err != nil {
		return err
	}
	return c.RefreshAssignments(ctx, store)
}

func (c *Catalog) RefreshExercises(ctx context.Context, store Store) error {
	list, err := store.ListExercises(ctx)
	if err != nil {
		return fmt.Errorf("refreshing exercises: %w", err)
	}
	c.exercises = list
	return nil
}

func (c *Catalog) RefreshRoutines(ctx context.Context, store Store) error {
	list, err := store.ListRoutines(ctx)
	if err != nil {
		return fmt.Errorf("refreshing routines: %w", err)
	}
	c.routines = list
	return nil
}

func (c *Catalog) RefreshStudents(ctx context.Context, store Store) error {
	list, err := store.ListStudents(ctx)
	if err != nil {
		return fmt.Errorf("refreshing students: %w", err)
	}
	c.students = list
	return nil
}

func (c *Catalog) RefreshAssignments(ctx context.Context, store Store) error {
	list, err := store.ListAssignments(ctx)
	if err != nil {
		return fmt.Errorf("refreshing assignments: %w", err)
	}
	c.assignments = list
	return nil
}

// Exercises returns the cached exercise list. Callers must not mutate it.
func (c *Catalog) Exercises() []domain.Exercise { return c.exercises }

// Routines returns the cached routine list. Callers must not mutate it.
func (c *Catalog) Routines() []domain.Routine { return c.routines }

// Students returns the cached student list. Callers must not mutate it.
func (c *Catalog) Students() []domain.Student { return c.students }

// Assignments returns the cached assignment list. Callers must not mutate it.
func (c *Catalog) Assignments() []domain.Assignment { return c.assignments }

// ExerciseByID looks an exercise up in the cache.
func (c *Catalog) ExerciseByID(id primitive.ObjectID) (*domain.Exercise, bool) {
	for i := range c.exercises {
		if c.exercises[i].ID == id {
			return &c.exercises[i], true
		}
	}
	return nil, false
}

// RoutineByID looks a routine up in the cache.
func (c *Catalog) RoutineByID(id primitive.ObjectID) (*domain.Routine, bool) {
	for i := range c.routines {
		if c.routines[i].ID == id {
			return &c.routines[i], true
		}
	}
	return nil, false
}

// StudentByID looks a student up in the cache.
func (c *Catalog) StudentByID(id primitive.ObjectID) (*domain.Student, bool) {
	for i := range c.students {
		if c.students[i].ID == id {
			return &c.students[i], true
		}
	}
	return nil, false
}

// ActiveAssignmentForStudent returns the student's active assignment with
// the latest start date. Date-only strings compare lexicographically in
// chronological order, so a plain string comparison breaks ties.
func (c *Catalog) ActiveAssignmentForStudent(studentID primitive.ObjectID) (*domain.Assignment, bool) {
	var latest *domain.Assignment
	for i := range c.assignments {
		a := &c.assignments[i]
		if a.StudentID != studentID || a.Status != domain.StatusActive {
			continue
		}
		if latest == nil || a.StartDate > latest.StartDate {
			latest = a
		}
	}
	return latest, latest != nil
}
