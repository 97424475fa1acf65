package workflow

import (
	"strconv"
	"strings"

	"arqueria/archery-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BuilderState is the wizard's position. Transitions only ever happen
// through the Builder methods; every call made in the wrong state fails
// with ErrInvalidTransition.
type BuilderState int

const (
	// StateNaming captures the routine name and description.
	StateNaming BuilderState = iota
	// StateDaySelection toggles days of the fixed week table.
	StateDaySelection
	// StateExerciseSelection walks the selected days one at a time,
	// picking exercises per day.
	StateExerciseSelection
)

func (s BuilderState) String() string {
	switch s {
	case StateNaming:
		return "naming"
	case StateDaySelection:
		return "day_selection"
	case StateExerciseSelection:
		return "exercise_selection"
	default:
		return "unknown"
	}
}

// Builder drives routine composition from a blank name to a submittable
// payload. It holds draft state only; it never talks to the store. A
// builder is used once and discarded.
type Builder struct {
	state       BuilderState
	editingID   primitive.ObjectID // zero when creating
	name        string
	description string
	isActive    bool
	isTemplate  bool
	selected    map[string]bool
	// picksByDay keeps the exercise IDs per day key in the order they were
	// chosen; that order becomes the 1-based sort order on submit.
	picksByDay map[string][]primitive.ObjectID
	dayCursor  int
	days       []Weekday // ordered selection, frozen on entering exercise selection
	search     string
}

// NewBuilder starts a blank wizard at the naming step. New routines are
// active, reusable templates unless the caller marks them otherwise.
func NewBuilder() *Builder {
	return &Builder{
		isActive:   true,
		isTemplate: true,
		selected:   make(map[string]bool),
		picksByDay: make(map[string][]primitive.ObjectID),
	}
}

// NewBuilderFromRoutine starts the wizard pre-loaded with an existing
// routine for editing. Stored sort order determines the initial pick order,
// and the routine keeps its active and template flags on resubmit.
func NewBuilderFromRoutine(r *domain.Routine) *Builder {
	b := NewBuilder()
	b.editingID = r.ID
	b.name = r.Name
	b.description = r.Description
	b.isActive = r.IsActive
	b.isTemplate = r.IsTemplate
	for _, day := range r.Days {
		wd, ok := WeekdayByNumber(day.DayNumber)
		if !ok {
			continue
		}
		b.selected[wd.Key] = true
		slots := make([]domain.RoutineDayExercise, len(day.Exercises))
		copy(slots, day.Exercises)
		for i := 1; i < len(slots); i++ {
			for j := i; j > 0 && slots[j].SortOrder < slots[j-1].SortOrder; j-- {
				slots[j], slots[j-1] = slots[j-1], slots[j]
			}
		}
		for _, slot := range slots {
			b.picksByDay[wd.Key] = append(b.picksByDay[wd.Key], slot.ExerciseID)
		}
	}
	return b
}

// State reports the wizard's current step.
func (b *Builder) State() BuilderState { return b.state }

// Editing returns the routine being edited, or false when creating.
func (b *Builder) Editing() (primitive.ObjectID, bool) {
	return b.editingID, !b.editingID.IsZero()
}

// Name returns the draft name.
func (b *Builder) Name() string { return b.name }

// SetName records the draft name. Only valid at the naming step.
func (b *Builder) SetName(name string) error {
	if b.state != StateNaming {
		return ErrInvalidTransition
	}
	b.name = name
	return nil
}

// SetDescription records the draft description. Only valid at the naming step.
func (b *Builder) SetDescription(desc string) error {
	if b.state != StateNaming {
		return ErrInvalidTransition
	}
	b.description = desc
	return nil
}

// ContinueToDays moves from naming to day selection. The name must be
// non-empty after trimming whitespace.
func (b *Builder) ContinueToDays() error {
	if b.state != StateNaming {
		return ErrInvalidTransition
	}
	if strings.TrimSpace(b.name) == "" {
		return ErrNameRequired
	}
	b.state = StateDaySelection
	return nil
}

// ToggleDay flips a day's selection. Deselecting a day keeps its exercise
// picks so re-selecting it restores them.
func (b *Builder) ToggleDay(key string) error {
	if b.state != StateDaySelection {
		return ErrInvalidTransition
	}
	if _, ok := WeekdayByKey(key); !ok {
		return ErrUnknownWeekday
	}
	b.selected[key] = !b.selected[key]
	return nil
}

// DaySelected reports whether a day is currently selected.
func (b *Builder) DaySelected(key string) bool { return b.selected[key] }

// SelectedDays returns the selection in canonical week order.
func (b *Builder) SelectedDays() []Weekday {
	return orderedSelection(b.selected)
}

// ContinueToExercises freezes the day selection and enters exercise
// selection at the first selected day. At least one day is required.
func (b *Builder) ContinueToExercises() error {
	if b.state != StateDaySelection {
		return ErrInvalidTransition
	}
	days := orderedSelection(b.selected)
	if len(days) == 0 {
		return ErrNoDaysSelected
	}
	b.days = days
	b.dayCursor = 0
	b.search = ""
	b.state = StateExerciseSelection
	return nil
}

// CurrentDay returns the day under the cursor during exercise selection.
func (b *Builder) CurrentDay() (Weekday, error) {
	if b.state != StateExerciseSelection {
		return Weekday{}, ErrInvalidTransition
	}
	return b.days[b.dayCursor], nil
}

// SetSearch records the exercise filter term for the current day's picker.
func (b *Builder) SetSearch(term string) {
	b.search = term
}

// VisibleExercises filters the catalog by the search term: a
// case-insensitive substring match on the name, or on the arrow count
// rendered as a string.
func (b *Builder) VisibleExercises(catalog []domain.Exercise) []domain.Exercise {
	term := strings.ToLower(strings.TrimSpace(b.search))
	if term == "" {
		return catalog
	}
	var out []domain.Exercise
	for _, ex := range catalog {
		if strings.Contains(strings.ToLower(ex.Name), term) ||
			strings.Contains(strconv.Itoa(ex.ArrowsCount), term) {
			out = append(out, ex)
		}
	}
	return out
}

// ToggleExercise adds or removes an exercise for the day under the cursor.
// Picks keep the order they were first made in.
func (b *Builder) ToggleExercise(exerciseID primitive.ObjectID) error {
	if b.state != StateExerciseSelection {
		return ErrInvalidTransition
	}
	key := b.days[b.dayCursor].Key
	picks := b.picksByDay[key]
	for i, id := range picks {
		if id == exerciseID {
			b.picksByDay[key] = append(picks[:i], picks[i+1:]...)
			return nil
		}
	}
	b.picksByDay[key] = append(picks, exerciseID)
	return nil
}

// PicksForCurrentDay returns the current day's picks in pick order.
func (b *Builder) PicksForCurrentDay() ([]primitive.ObjectID, error) {
	if b.state != StateExerciseSelection {
		return nil, ErrInvalidTransition
	}
	return b.picksByDay[b.days[b.dayCursor].Key], nil
}

// Advance validates the day under the cursor and either moves to the next
// selected day or, on the last day, reports the wizard ready to submit. The
// builder stays in exercise selection either way; a failed submission must
// leave the draft editable.
func (b *Builder) Advance() (done bool, err error) {
	if b.state != StateExerciseSelection {
		return false, ErrInvalidTransition
	}
	if len(b.picksByDay[b.days[b.dayCursor].Key]) == 0 {
		return false, ErrNoExercisesForDay
	}
	if b.dayCursor < len(b.days)-1 {
		b.dayCursor++
		b.search = ""
		return false, nil
	}
	return true, nil
}

// Back moves the cursor to the previous day, or back to day selection from
// the first day. Picks survive the move.
func (b *Builder) Back() error {
	if b.state != StateExerciseSelection {
		return ErrInvalidTransition
	}
	if b.dayCursor > 0 {
		b.dayCursor--
		b.search = ""
		return nil
	}
	b.state = StateDaySelection
	return nil
}

// Payload assembles the routine to submit: trimmed name, the selected days
// in canonical order, and per-day slots numbered from 1 in pick order.
func (b *Builder) Payload() RoutinePayload {
	payload := RoutinePayload{
		Name:        strings.TrimSpace(b.name),
		Description: strings.TrimSpace(b.description),
		IsActive:    b.isActive,
		IsTemplate:  b.isTemplate,
	}
	for _, day := range b.days {
		dp := DayPayload{DayNumber: day.Number, Name: day.Label}
		for i, id := range b.picksByDay[day.Key] {
			dp.Exercises = append(dp.Exercises, DayExercisePayload{
				ExerciseID: id,
				SortOrder:  i + 1,
			})
		}
		payload.Days = append(payload.Days, dp)
	}
	return payload
}
