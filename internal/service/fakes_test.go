package service

import (
	"context"
	"time"

	"arqueria/archery-app/internal/domain"
	"arqueria/archery-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository stubs shared by the service tests.

type stubExerciseRepo struct {
	exercises map[primitive.ObjectID]*domain.Exercise
}

func newStubExerciseRepo(exercises ...*domain.Exercise) *stubExerciseRepo {
	r := &stubExerciseRepo{exercises: make(map[primitive.ObjectID]*domain.Exercise)}
	for _, ex := range exercises {
		if ex.ID.IsZero() {
			ex.ID = primitive.NewObjectID()
		}
		r.exercises[ex.ID] = ex
	}
	return r
}

func (r *stubExerciseRepo) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	exercise.ID = primitive.NewObjectID()
	r.exercises[exercise.ID] = exercise
	return exercise.ID, nil
}

func (r *stubExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	ex, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return ex, nil
}

func (r *stubExerciseRepo) List(context.Context) ([]domain.Exercise, error) {
	out := make([]domain.Exercise, 0, len(r.exercises))
	for _, ex := range r.exercises {
		out = append(out, *ex)
	}
	return out, nil
}

func (r *stubExerciseRepo) Update(_ context.Context, exercise *domain.Exercise) error {
	if _, ok := r.exercises[exercise.ID]; !ok {
		return repository.ErrNotFound
	}
	r.exercises[exercise.ID] = exercise
	return nil
}

func (r *stubExerciseRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.exercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.exercises, id)
	return nil
}

type stubStudentRepo struct {
	students map[primitive.ObjectID]*domain.Student
}

func newStubStudentRepo(students ...*domain.Student) *stubStudentRepo {
	r := &stubStudentRepo{students: make(map[primitive.ObjectID]*domain.Student)}
	for _, s := range students {
		if s.ID.IsZero() {
			s.ID = primitive.NewObjectID()
		}
		r.students[s.ID] = s
	}
	return r
}

func (r *stubStudentRepo) Create(_ context.Context, student *domain.Student) (primitive.ObjectID, error) {
	for _, existing := range r.students {
		if existing.DocumentNumber == student.DocumentNumber {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	student.ID = primitive.NewObjectID()
	r.students[student.ID] = student
	return student.ID, nil
}

func (r *stubStudentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (r *stubStudentRepo) List(context.Context) ([]domain.Student, error) {
	out := make([]domain.Student, 0, len(r.students))
	for _, s := range r.students {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubStudentRepo) Update(_ context.Context, student *domain.Student) error {
	if _, ok := r.students[student.ID]; !ok {
		return repository.ErrNotFound
	}
	r.students[student.ID] = student
	return nil
}

func (r *stubStudentRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.students[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.students, id)
	return nil
}

func (r *stubStudentRepo) DeleteInactiveBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	for id, s := range r.students {
		if !s.IsActive && s.InactiveSince != nil && s.InactiveSince.Before(cutoff) {
			delete(r.students, id)
			removed++
		}
	}
	return removed, nil
}

type stubRoutineRepo struct {
	routines map[primitive.ObjectID]*domain.Routine
}

func newStubRoutineRepo(routines ...*domain.Routine) *stubRoutineRepo {
	r := &stubRoutineRepo{routines: make(map[primitive.ObjectID]*domain.Routine)}
	for _, rt := range routines {
		if rt.ID.IsZero() {
			rt.ID = primitive.NewObjectID()
		}
		r.routines[rt.ID] = rt
	}
	return r
}

func (r *stubRoutineRepo) Create(_ context.Context, routine *domain.Routine) (primitive.ObjectID, error) {
	for _, existing := range r.routines {
		if existing.Name == routine.Name {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	routine.ID = primitive.NewObjectID()
	r.routines[routine.ID] = routine
	return routine.ID, nil
}

func (r *stubRoutineRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Routine, error) {
	rt, ok := r.routines[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return rt, nil
}

func (r *stubRoutineRepo) List(context.Context) ([]domain.Routine, error) {
	out := make([]domain.Routine, 0, len(r.routines))
	for _, rt := range r.routines {
		out = append(out, *rt)
	}
	return out, nil
}

func (r *stubRoutineRepo) Replace(_ context.Context, routine *domain.Routine) error {
	if _, ok := r.routines[routine.ID]; !ok {
		return repository.ErrNotFound
	}
	r.routines[routine.ID] = routine
	return nil
}

func (r *stubRoutineRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.routines[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.routines, id)
	return nil
}

func (r *stubRoutineRepo) ListNonTemplatesUpdatedBefore(_ context.Context, cutoff time.Time) ([]domain.Routine, error) {
	var out []domain.Routine
	for _, rt := range r.routines {
		if !rt.IsTemplate && rt.UpdatedAt.Before(cutoff) {
			out = append(out, *rt)
		}
	}
	return out, nil
}

type stubAssignmentRepo struct {
	assignments map[primitive.ObjectID]*domain.Assignment
}

func newStubAssignmentRepo(assignments ...*domain.Assignment) *stubAssignmentRepo {
	r := &stubAssignmentRepo{assignments: make(map[primitive.ObjectID]*domain.Assignment)}
	for _, a := range assignments {
		if a.ID.IsZero() {
			a.ID = primitive.NewObjectID()
		}
		r.assignments[a.ID] = a
	}
	return r
}

func (r *stubAssignmentRepo) Create(_ context.Context, assignment *domain.Assignment) (primitive.ObjectID, error) {
	assignment.ID = primitive.NewObjectID()
	assignment.AssignedAt = time.Now().UTC()
	r.assignments[assignment.ID] = assignment
	return assignment.ID, nil
}

func (r *stubAssignmentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Assignment, error) {
	a, ok := r.assignments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return a, nil
}

func (r *stubAssignmentRepo) List(context.Context) ([]domain.Assignment, error) {
	out := make([]domain.Assignment, 0, len(r.assignments))
	for _, a := range r.assignments {
		out = append(out, *a)
	}
	return out, nil
}

func (r *stubAssignmentRepo) FindActiveOverlapping(_ context.Context, studentID primitive.ObjectID, weekStart, weekEnd string) ([]domain.Assignment, error) {
	var out []domain.Assignment
	for _, a := range r.assignments {
		if a.StudentID != studentID || a.Status != domain.StatusActive {
			continue
		}
		if a.StartDate != "" && a.StartDate > weekEnd {
			continue
		}
		if a.EndDate != "" && a.EndDate < weekStart {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (r *stubAssignmentRepo) GetByRoutineID(_ context.Context, routineID primitive.ObjectID) ([]domain.Assignment, error) {
	var out []domain.Assignment
	for _, a := range r.assignments {
		if a.RoutineID == routineID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubAssignmentRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.assignments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.assignments, id)
	return nil
}
