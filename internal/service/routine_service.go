package service

import (
	"context"
	"errors"
	"strings"

	"arqueria/archery-app/internal/domain"
	"arqueria/archery-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrRoutineNotFound       = errors.New("routine not found")
	ErrRoutineNameTaken      = errors.New("a routine with this name already exists")
	ErrDuplicateDayNumber    = errors.New("duplicate day_number in routine")
	ErrDayNumberOutOfRange   = errors.New("day_number must be between 1 and 7")
	ErrDuplicateSortOrder    = errors.New("duplicate sort_order within a day")
	ErrUnknownExercise       = errors.New("routine references an exercise that does not exist")
	ErrRoutineHasAssignments = errors.New("routine is referenced by existing assignments")
)

// RoutineDayExerciseInput is one exercise slot in a routine day payload.
type RoutineDayExerciseInput struct {
	ExerciseID        primitive.ObjectID
	SortOrder         int // 0 means "assign from position"
	ArrowsOverride    *int
	DistanceOverrideM *float64
	Notes             string
}

// RoutineDayInput is one day in a routine payload.
type RoutineDayInput struct {
	DayNumber int
	Name      string
	Notes     string
	Exercises []RoutineDayExerciseInput
}

// RoutineInput is the full routine payload. Days and their exercises are
// created or replaced as one unit, never partially.
type RoutineInput struct {
	Name        string
	Description string
	IsActive    bool
	IsTemplate  bool
	Days        []RoutineDayInput
}

type RoutineService interface {
	CreateRoutine(ctx context.Context, input RoutineInput) (*domain.Routine, error)
	GetRoutineByID(ctx context.Context, routineID primitive.ObjectID) (*domain.Routine, error)
	ListRoutines(ctx context.Context) ([]domain.Routine, error)
	UpdateRoutine(ctx context.Context, routineID primitive.ObjectID, input RoutineInput) (*domain.Routine, error)
	DeleteRoutine(ctx context.Context, routineID primitive.ObjectID) error
}

// routineService implements the RoutineService interface.
type routineService struct {
	routineRepo    repository.RoutineRepository
	exerciseRepo   repository.ExerciseRepository
	assignmentRepo repository.AssignmentRepository
}

// NewRoutineService creates a new instance of routineService.
func NewRoutineService(routineRepo repository.RoutineRepository, exerciseRepo repository.ExerciseRepository, assignmentRepo repository.AssignmentRepository) RoutineService {
	return &routineService{
		routineRepo:    routineRepo,
		exerciseRepo:   exerciseRepo,
		assignmentRepo: assignmentRepo,
	}
}

// validateRoutineInput checks the payload invariants: a non-empty name,
// day numbers in 1..7 and unique within the routine, unique sort orders
// within each day, and every referenced exercise present in the catalog.
func (s *routineService) validateRoutineInput(ctx context.Context, input RoutineInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrValidationFailed
	}

	seenDays := make(map[int]bool, len(input.Days))
	for _, day := range input.Days {
		if day.DayNumber < 1 || day.DayNumber > 7 {
			return ErrDayNumberOutOfRange
		}
		if seenDays[day.DayNumber] {
			return ErrDuplicateDayNumber
		}
		seenDays[day.DayNumber] = true
	}

	for _, day := range input.Days {
		seenOrders := make(map[int]bool, len(day.Exercises))
		for idx, slot := range day.Exercises {
			order := slot.SortOrder
			if order == 0 {
				order = idx + 1
			}
			if seenOrders[order] {
				return ErrDuplicateSortOrder
			}
			seenOrders[order] = true

			if _, err := s.exerciseRepo.GetByID(ctx, slot.ExerciseID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return ErrUnknownExercise
				}
				return err
			}
		}
	}
	return nil
}

// buildDays materializes the payload's day tree, sorted by day number, with
// sort orders resolved from position where the payload left them unset.
func buildDays(input RoutineInput) []domain.RoutineDay {
	days := make([]domain.RoutineDay, 0, len(input.Days))
	for _, dayInput := range input.Days {
		day := domain.RoutineDay{
			DayNumber: dayInput.DayNumber,
			Name:      dayInput.Name,
			Notes:     dayInput.Notes,
			Exercises: make([]domain.RoutineDayExercise, 0, len(dayInput.Exercises)),
		}
		for idx, slot := range dayInput.Exercises {
			order := slot.SortOrder
			if order == 0 {
				order = idx + 1
			}
			day.Exercises = append(day.Exercises, domain.RoutineDayExercise{
				ExerciseID:        slot.ExerciseID,
				SortOrder:         order,
				ArrowsOverride:    slot.ArrowsOverride,
				DistanceOverrideM: slot.DistanceOverrideM,
				Notes:             slot.Notes,
			})
		}
		days = append(days, day)
	}
	// Day order inside the document follows day number, not payload order.
	for i := 1; i < len(days); i++ {
		for j := i; j > 0 && days[j].DayNumber < days[j-1].DayNumber; j-- {
			days[j], days[j-1] = days[j-1], days[j]
		}
	}
	return days
}

// CreateRoutine creates a routine with its whole day tree.
func (s *routineService) CreateRoutine(ctx context.Context, input RoutineInput) (*domain.Routine, error) {
	if err := s.validateRoutineInput(ctx, input); err != nil {
		return nil, err
	}

	routine := &domain.Routine{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		IsActive:    input.IsActive,
		IsTemplate:  input.IsTemplate,
		Days:        buildDays(input),
	}

	routineID, err := s.routineRepo.Create(ctx, routine)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrRoutineNameTaken
		}
		return nil, err
	}
	return s.routineRepo.GetByID(ctx, routineID)
}

// GetRoutineByID retrieves one routine with its days and exercises.
func (s *routineService) GetRoutineByID(ctx context.Context, routineID primitive.ObjectID) (*domain.Routine, error) {
	routine, err := s.routineRepo.GetByID(ctx, routineID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, err
	}
	return routine, nil
}

// ListRoutines retrieves all routines.
func (s *routineService) ListRoutines(ctx context.Context) ([]domain.Routine, error) {
	return s.routineRepo.List(ctx)
}

// UpdateRoutine replaces a routine's fields and day tree atomically.
func (s *routineService) UpdateRoutine(ctx context.Context, routineID primitive.ObjectID, input RoutineInput) (*domain.Routine, error) {
	if err := s.validateRoutineInput(ctx, input); err != nil {
		return nil, err
	}

	existing, err := s.routineRepo.GetByID(ctx, routineID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, err
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.Description = input.Description
	existing.IsActive = input.IsActive
	existing.IsTemplate = input.IsTemplate
	existing.Days = buildDays(input)

	if err := s.routineRepo.Replace(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrRoutineNameTaken
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, err
	}
	return s.routineRepo.GetByID(ctx, routineID)
}

// DeleteRoutine removes a routine unless assignments still reference it.
func (s *routineService) DeleteRoutine(ctx context.Context, routineID primitive.ObjectID) error {
	referencing, err := s.assignmentRepo.GetByRoutineID(ctx, routineID)
	if err != nil {
		return err
	}
	if len(referencing) > 0 {
		return ErrRoutineHasAssignments
	}

	err = s.routineRepo.Delete(ctx, routineID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoutineNotFound
		}
		return err
	}
	return nil
}
