// Package workflow implements the routine composition and assignment flows:
// the multi-step routine builder, the assignment-scoped override model, the
// active-assignment conflict resolver and the orchestrator tying them to the
// catalog cache.
//
// The package is written for a single-threaded, event-driven caller: one
// wizard and one assignment flow at most may be open at a time, and none of
// the types are safe for concurrent use.
package workflow

import (
	"context"
	"errors"
	"fmt"

	"arqueria/archery-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is the contract the flows consume from the external persistence
// collaborator. The current deployment implements it with REST over HTTP
// (internal/client), but any request/response transport satisfying these
// semantics works. Implementations carry their own credential; its absence
// or rejection is a terminal error for the call.
type Store interface {
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	ListRoutines(ctx context.Context) ([]domain.Routine, error)
	ListStudents(ctx context.Context) ([]domain.Student, error)
	ListAssignments(ctx context.Context) ([]domain.Assignment, error)

	CreateRoutine(ctx context.Context, payload RoutinePayload) (*domain.Routine, error)
	UpdateRoutine(ctx context.Context, id primitive.ObjectID, payload RoutinePayload) (*domain.Routine, error)
	DeleteRoutine(ctx context.Context, id primitive.ObjectID) error

	// CreateAssignment fails with a ConflictError carrying
	// CodeActiveAssignmentConflict when the student already holds an
	// active routine for the requested week.
	CreateAssignment(ctx context.Context, payload AssignmentPayload) (*domain.Assignment, error)
	DeleteAssignment(ctx context.Context, id primitive.ObjectID) error
}

// RoutinePayload is the wire shape of a routine create/update. The day tree
// is always submitted whole.
type RoutinePayload struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	IsActive    bool         `json:"is_active"`
	IsTemplate  bool         `json:"is_template"`
	Days        []DayPayload `json:"days"`
}

// DayPayload is one day of a routine payload.
type DayPayload struct {
	DayNumber int                  `json:"day_number"`
	Name      string               `json:"name,omitempty"`
	Exercises []DayExercisePayload `json:"exercises"`
}

// DayExercisePayload is one exercise slot; SortOrder is the 1-based position
// in the order the caller picked the exercise.
type DayExercisePayload struct {
	ExerciseID primitive.ObjectID `json:"exercise_id"`
	SortOrder  int                `json:"sort_order"`
}

// AssignmentPayload is the wire shape of an assignment create.
type AssignmentPayload struct {
	StudentID primitive.ObjectID      `json:"student_id"`
	RoutineID primitive.ObjectID      `json:"routine_id"`
	StartDate string                  `json:"start_date"`
	EndDate   string                  `json:"end_date"`
	Status    domain.AssignmentStatus `json:"status"`
	Notes     string                  `json:"notes,omitempty"`
}

// CodeActiveAssignmentConflict is the structured error code the collaborator
// returns for "student already has an active routine". Matching this code,
// not message text, drives the replace remediation.
const CodeActiveAssignmentConflict = "active_assignment_conflict"

// ConflictError is a structured rejection from the store. Unknown codes are
// treated as plain transport failures by the flows.
type ConflictError struct {
	Code    string
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict (%s): %s", e.Code, e.Message)
}

// IsActiveAssignmentConflict reports whether err is the structured
// active-assignment rejection.
func IsActiveAssignmentConflict(err error) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict) && conflict.Code == CodeActiveAssignmentConflict
}

// Validation errors: these block a transition, are never sent to the store,
// and are recoverable by correcting the input.
var (
	ErrNameRequired      = errors.New("routine name must not be empty")
	ErrNoDaysSelected    = errors.New("select at least one day")
	ErrNoExercisesForDay = errors.New("select at least one exercise for this day")
	ErrUnknownWeekday    = errors.New("unknown weekday key")
)

// Flow errors.
var (
	// ErrInvalidTransition means the call does not match the current state;
	// flows reject it instead of relying on callers disabling affordances.
	ErrInvalidTransition = errors.New("operation not valid in the current state")
	// ErrFlowInProgress means a wizard or assignment flow is already open.
	ErrFlowInProgress = errors.New("another flow is already in progress")
	// ErrReplaceCreateFailed means the replace remediation deleted the old
	// assignment but the follow-up create failed: the system is in a known
	// intermediate state and only the create needs retrying.
	ErrReplaceCreateFailed = errors.New("conflicting assignment was deleted but creating the new one failed; retry the creation")
)
