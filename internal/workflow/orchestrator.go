package workflow

import (
	"context"
	"errors"
	"time"

	"arqueria/archery-app/internal/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FlowStep is the assignment flow's position.
type FlowStep int

const (
	// StepConflictPrompt asks whether to replace the active assignment
	// found by the pre-check before anything else happens.
	StepConflictPrompt FlowStep = iota
	// StepChoice offers assigning an existing routine or building a new one.
	StepChoice
	// StepRoutineList picks a routine from the catalog.
	StepRoutineList
	// StepRoutinePreview shows the chosen routine and collects overrides.
	StepRoutinePreview
	// StepBuilder runs the routine wizard, either standalone or inside an
	// assignment flow.
	StepBuilder
	// StepReplacePrompt holds a submitted payload after the store rejected
	// it with the active-assignment conflict, awaiting replace-or-cancel.
	StepReplacePrompt
)

func (s FlowStep) String() string {
	switch s {
	case StepConflictPrompt:
		return "conflict_prompt"
	case StepChoice:
		return "choice"
	case StepRoutineList:
		return "routine_list"
	case StepRoutinePreview:
		return "routine_preview"
	case StepBuilder:
		return "builder"
	case StepReplacePrompt:
		return "replace_prompt"
	default:
		return "unknown"
	}
}

var (
	ErrUnknownStudent = errors.New("student not found in catalog")
	ErrUnknownRoutine = errors.New("routine not found in catalog")
	// ErrFlowClosed means the flow was cancelled while a store call was in
	// flight; the call's result was discarded.
	ErrFlowClosed = errors.New("flow was closed")
)

// flow is one open wizard or assignment flow. The id tags in-flight store
// calls so results arriving after Cancel are discarded instead of applied.
type flow struct {
	id          string
	step        FlowStep
	student     *domain.Student    // nil for a standalone wizard
	conflicting *domain.Assignment // pre-check hit awaiting confirmation
	routine     *domain.Routine    // chosen at StepRoutineList
	builder     *Builder           // present at StepBuilder
	overrides   *OverrideSet       // present from StepRoutinePreview on
	pending     *AssignmentPayload // held across StepReplacePrompt
}

// Orchestrator owns flow exclusivity and routes every flow action to the
// builder, override set, resolver and catalog. At most one flow is open at
// a time; not safe for concurrent use.
type Orchestrator struct {
	store    Store
	catalog  *Catalog
	resolver *Resolver
	now      func() time.Time
	flow     *flow
}

// NewOrchestrator wires an orchestrator over a store and catalog.
func NewOrchestrator(store Store, catalog *Catalog) *Orchestrator {
	return &Orchestrator{
		store:    store,
		catalog:  catalog,
		resolver: NewResolver(store, catalog),
		now:      time.Now,
	}
}

// Step reports the open flow's position. ok is false when no flow is open.
func (o *Orchestrator) Step() (FlowStep, bool) {
	if o.flow == nil {
		return 0, false
	}
	return o.flow.step, true
}

// Builder returns the open wizard, or nil outside StepBuilder.
func (o *Orchestrator) Builder() *Builder {
	if o.flow == nil {
		return nil
	}
	return o.flow.builder
}

// Overrides returns the open flow's override set, or nil when absent.
func (o *Orchestrator) Overrides() *OverrideSet {
	if o.flow == nil {
		return nil
	}
	return o.flow.overrides
}

// ConflictingAssignment returns the pre-check hit shown at
// StepConflictPrompt.
func (o *Orchestrator) ConflictingAssignment() *domain.Assignment {
	if o.flow == nil {
		return nil
	}
	return o.flow.conflicting
}

// SelectedRoutine returns the routine chosen for preview.
func (o *Orchestrator) SelectedRoutine() *domain.Routine {
	if o.flow == nil {
		return nil
	}
	return o.flow.routine
}

// Cancel discards the open flow and all of its draft state. The catalog is
// untouched. Cancelling with no flow open is a no-op.
func (o *Orchestrator) Cancel() {
	o.flow = nil
}

// alive reports whether the flow a store call was issued under is still the
// open one.
func (o *Orchestrator) alive(id string) bool {
	return o.flow != nil && o.flow.id == id
}

// Assign opens an assignment flow for a student. The pre-check runs first:
// if the student already holds an active assignment, the flow opens at
// StepConflictPrompt; otherwise at StepChoice.
func (o *Orchestrator) Assign(studentID primitive.ObjectID) (FlowStep, error) {
	if o.flow != nil {
		return 0, ErrFlowInProgress
	}
	student, ok := o.catalog.StudentByID(studentID)
	if !ok {
		return 0, ErrUnknownStudent
	}
	f := &flow{id: uuid.NewString(), student: student, step: StepChoice}
	if conflicting, found := o.resolver.ActiveAssignment(studentID); found {
		f.conflicting = conflicting
		f.step = StepConflictPrompt
	}
	o.flow = f
	return f.step, nil
}

// ConfirmReplaceActive resolves the pre-check conflict by deleting the
// active assignment, then moves to StepChoice. On failure the flow stays at
// the prompt.
func (o *Orchestrator) ConfirmReplaceActive(ctx context.Context) error {
	if o.flow == nil || o.flow.step != StepConflictPrompt {
		return ErrInvalidTransition
	}
	id := o.flow.id
	if err := o.resolver.DeleteAndRefresh(ctx, o.flow.conflicting.ID); err != nil {
		return err
	}
	if !o.alive(id) {
		return ErrFlowClosed
	}
	o.flow.conflicting = nil
	o.flow.step = StepChoice
	return nil
}

// ChooseExistingRoutine moves from the choice step to the routine list.
func (o *Orchestrator) ChooseExistingRoutine() error {
	if o.flow == nil || o.flow.step != StepChoice {
		return ErrInvalidTransition
	}
	o.flow.step = StepRoutineList
	return nil
}

// ChooseBuildRoutine moves from the choice step into a fresh wizard whose
// submission will also assign the routine to the flow's student.
func (o *Orchestrator) ChooseBuildRoutine() error {
	if o.flow == nil || o.flow.step != StepChoice {
		return ErrInvalidTransition
	}
	b := NewBuilder()
	// Quick-path routines exist for this one assignment, not the catalog;
	// leaving them out of the template set lets retention reclaim them.
	b.isTemplate = false
	o.flow.builder = b
	o.flow.step = StepBuilder
	return nil
}

// SelectRoutine picks a routine from the list and opens its preview with an
// empty override set.
func (o *Orchestrator) SelectRoutine(routineID primitive.ObjectID) error {
	if o.flow == nil || o.flow.step != StepRoutineList {
		return ErrInvalidTransition
	}
	routine, ok := o.catalog.RoutineByID(routineID)
	if !ok {
		return ErrUnknownRoutine
	}
	o.flow.routine = routine
	o.flow.overrides = NewOverrideSet()
	o.flow.step = StepRoutinePreview
	return nil
}

// SetOverride records a pending override for a previewed slot.
func (o *Orchestrator) SetOverride(slotID primitive.ObjectID, ov Override) error {
	if o.flow == nil || o.flow.step != StepRoutinePreview {
		return ErrInvalidTransition
	}
	o.flow.overrides.Set(slotID, ov)
	return nil
}

// EffectiveSlot resolves a previewed slot's display values through the
// pending-then-stored-then-catalog precedence.
func (o *Orchestrator) EffectiveSlot(slot domain.RoutineDayExercise) (EffectiveValues, error) {
	if o.flow == nil || o.flow.step != StepRoutinePreview {
		return EffectiveValues{}, ErrInvalidTransition
	}
	base, _ := o.catalog.ExerciseByID(slot.ExerciseID)
	return o.flow.overrides.Effective(slot, base), nil
}

// ConfirmExistingAssignment submits the previewed routine as an active
// assignment for the current week, pending overrides serialized into the
// notes. A structured conflict holds the payload and moves to
// StepReplacePrompt; any other failure leaves the preview open.
func (o *Orchestrator) ConfirmExistingAssignment(ctx context.Context) error {
	if o.flow == nil || o.flow.step != StepRoutinePreview {
		return ErrInvalidTransition
	}
	notes, err := o.flow.overrides.Serialize()
	if err != nil {
		return err
	}
	start, end := WeekRange(o.now())
	payload := AssignmentPayload{
		StudentID: o.flow.student.ID,
		RoutineID: o.flow.routine.ID,
		StartDate: start,
		EndDate:   end,
		Status:    domain.StatusActive,
		Notes:     notes,
	}
	return o.submitAssignment(ctx, payload)
}

// submitAssignment runs the shared create path: on a structured conflict
// the payload is held for StepReplacePrompt, on success the flow closes.
func (o *Orchestrator) submitAssignment(ctx context.Context, payload AssignmentPayload) error {
	id := o.flow.id
	err := o.resolver.Create(ctx, payload)
	if !o.alive(id) {
		return ErrFlowClosed
	}
	if err != nil {
		if IsActiveAssignmentConflict(err) {
			o.flow.pending = &payload
			o.flow.step = StepReplacePrompt
		}
		return err
	}
	o.flow = nil
	return nil
}

// ConfirmReplaceAndCreate retries the held payload after deleting the
// conflicting assignment. The payload stays held on failure so the caller
// can retry or cancel; in particular ErrReplaceCreateFailed means the old
// assignment is already gone and only the create is outstanding.
func (o *Orchestrator) ConfirmReplaceAndCreate(ctx context.Context) error {
	if o.flow == nil || o.flow.step != StepReplacePrompt {
		return ErrInvalidTransition
	}
	id := o.flow.id
	err := o.resolver.ReplaceAndCreate(ctx, *o.flow.pending)
	if !o.alive(id) {
		return ErrFlowClosed
	}
	if err != nil {
		return err
	}
	o.flow = nil
	return nil
}

// OpenRoutineBuilder opens the wizard standalone, outside any assignment.
func (o *Orchestrator) OpenRoutineBuilder() (*Builder, error) {
	if o.flow != nil {
		return nil, ErrFlowInProgress
	}
	b := NewBuilder()
	o.flow = &flow{id: uuid.NewString(), step: StepBuilder, builder: b}
	return b, nil
}

// OpenRoutineEditor opens the wizard pre-loaded with a catalog routine.
func (o *Orchestrator) OpenRoutineEditor(routineID primitive.ObjectID) (*Builder, error) {
	if o.flow != nil {
		return nil, ErrFlowInProgress
	}
	routine, ok := o.catalog.RoutineByID(routineID)
	if !ok {
		return nil, ErrUnknownRoutine
	}
	b := NewBuilderFromRoutine(routine)
	o.flow = &flow{id: uuid.NewString(), step: StepBuilder, builder: b}
	return b, nil
}

// AdvanceBuilder steps the open wizard forward and, when the last day
// validates, submits the draft: the routine is created or updated, and a
// wizard opened from an assignment flow then assigns it to the student for
// the current week. On any submission failure the wizard stays open at
// exercise selection with the draft intact.
func (o *Orchestrator) AdvanceBuilder(ctx context.Context) (done bool, err error) {
	if o.flow == nil || o.flow.step != StepBuilder {
		return false, ErrInvalidTransition
	}
	b := o.flow.builder
	done, err = b.Advance()
	if err != nil || !done {
		return done, err
	}

	id := o.flow.id
	payload := b.Payload()
	var routine *domain.Routine
	if editID, editing := b.Editing(); editing {
		routine, err = o.store.UpdateRoutine(ctx, editID, payload)
	} else {
		routine, err = o.store.CreateRoutine(ctx, payload)
	}
	if !o.alive(id) {
		return false, ErrFlowClosed
	}
	if err != nil {
		return false, err
	}
	if err := o.catalog.RefreshRoutines(ctx, o.store); err != nil {
		return false, err
	}
	if !o.alive(id) {
		return false, ErrFlowClosed
	}

	if o.flow.student == nil {
		o.flow = nil
		return true, nil
	}
	start, end := WeekRange(o.now())
	assignment := AssignmentPayload{
		StudentID: o.flow.student.ID,
		RoutineID: routine.ID,
		StartDate: start,
		EndDate:   end,
		Status:    domain.StatusActive,
		Notes:     `{"temporary_overrides":{}}`,
	}
	if err := o.submitAssignment(ctx, assignment); err != nil {
		return false, err
	}
	return true, nil
}
