package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"arqueria/archery-app/internal/domain"
)

func assignmentFixture(t *testing.T) (AssignmentService, *stubAssignmentRepo, *domain.Student, *domain.Routine) {
	t.Helper()
	student := &domain.Student{FullName: "Ana Suárez", DocumentNumber: "12345678", IsActive: true}
	routine := &domain.Routine{Name: "Semana base", IsActive: true}
	studentRepo := newStubStudentRepo(student)
	routineRepo := newStubRoutineRepo(routine)
	assignmentRepo := newStubAssignmentRepo()
	svc := NewAssignmentService(assignmentRepo, studentRepo, routineRepo)
	return svc, assignmentRepo, student, routine
}

func thisWeek() (string, string) {
	return weekBounds(time.Now().UTC())
}

func TestCreateAssignmentDefaultsToActive(t *testing.T) {
	svc, _, student, routine := assignmentFixture(t)

	created, err := svc.CreateAssignment(context.Background(), AssignmentInput{
		StudentID: student.ID,
		RoutineID: routine.ID,
	})
	if err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}
	if created.Status != domain.StatusActive {
		t.Errorf("status = %s, want active", created.Status)
	}
}

func TestCreateAssignmentRejectsSecondActiveInWeek(t *testing.T) {
	svc, _, student, routine := assignmentFixture(t)
	ctx := context.Background()
	start, end := thisWeek()

	if _, err := svc.CreateAssignment(ctx, AssignmentInput{
		StudentID: student.ID, RoutineID: routine.ID,
		StartDate: start, EndDate: end,
	}); err != nil {
		t.Fatalf("first CreateAssignment: %v", err)
	}

	_, err := svc.CreateAssignment(ctx, AssignmentInput{
		StudentID: student.ID, RoutineID: routine.ID,
		StartDate: start, EndDate: end,
	})
	if !errors.Is(err, ErrActiveAssignmentConflict) {
		t.Fatalf("err = %v, want ErrActiveAssignmentConflict", err)
	}
}

func TestCreateAssignmentAllowsPausedAlongsideActive(t *testing.T) {
	svc, _, student, routine := assignmentFixture(t)
	ctx := context.Background()
	start, end := thisWeek()

	if _, err := svc.CreateAssignment(ctx, AssignmentInput{
		StudentID: student.ID, RoutineID: routine.ID,
		StartDate: start, EndDate: end,
	}); err != nil {
		t.Fatalf("active CreateAssignment: %v", err)
	}
	if _, err := svc.CreateAssignment(ctx, AssignmentInput{
		StudentID: student.ID, RoutineID: routine.ID,
		StartDate: start, EndDate: end,
		Status:    domain.StatusPaused,
	}); err != nil {
		t.Fatalf("paused CreateAssignment: %v", err)
	}
}

func TestCreateAssignmentAllowsActiveInAnotherWeek(t *testing.T) {
	svc, repo, student, routine := assignmentFixture(t)
	ctx := context.Background()

	// A still-active assignment from a long-gone week does not collide.
	old := &domain.Assignment{
		StudentID: student.ID, RoutineID: routine.ID,
		StartDate: "2020-01-06", EndDate: "2020-01-12", Status: domain.StatusActive,
	}
	if _, err := repo.Create(ctx, old); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	start, end := thisWeek()
	if _, err := svc.CreateAssignment(ctx, AssignmentInput{
		StudentID: student.ID, RoutineID: routine.ID,
		StartDate: start, EndDate: end,
	}); err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}
}

func TestCreateAssignmentValidation(t *testing.T) {
	svc, _, student, routine := assignmentFixture(t)
	ctx := context.Background()

	if _, err := svc.CreateAssignment(ctx, AssignmentInput{
		StudentID: student.ID, RoutineID: routine.ID,
		Status: "archived",
	}); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("bad status: %v", err)
	}
	if _, err := svc.CreateAssignment(ctx, AssignmentInput{
		StudentID: student.ID, RoutineID: routine.ID,
		StartDate: "24/08/2026",
	}); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("bad date layout: %v", err)
	}
	if _, err := svc.CreateAssignment(ctx, AssignmentInput{
		StudentID: student.ID, RoutineID: routine.ID,
		StartDate: "2026-08-30", EndDate: "2026-08-24",
	}); !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("inverted range: %v", err)
	}
}

func TestCreateAssignmentUnknownReferences(t *testing.T) {
	svc, _, student, routine := assignmentFixture(t)
	ctx := context.Background()

	missing := routine.ID
	missing[0] ^= 0xff

	if _, err := svc.CreateAssignment(ctx, AssignmentInput{
		StudentID: student.ID, RoutineID: missing,
	}); !errors.Is(err, ErrRoutineNotFound) {
		t.Errorf("unknown routine: %v", err)
	}
	missingStudent := student.ID
	missingStudent[0] ^= 0xff
	if _, err := svc.CreateAssignment(ctx, AssignmentInput{
		StudentID: missingStudent, RoutineID: routine.ID,
	}); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("unknown student: %v", err)
	}
}

func TestDeleteAssignment(t *testing.T) {
	svc, repo, student, routine := assignmentFixture(t)
	ctx := context.Background()

	created, err := svc.CreateAssignment(ctx, AssignmentInput{
		StudentID: student.ID, RoutineID: routine.ID,
	})
	if err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}
	if err := svc.DeleteAssignment(ctx, created.ID); err != nil {
		t.Fatalf("DeleteAssignment: %v", err)
	}
	if len(repo.assignments) != 0 {
		t.Errorf("%d assignments left", len(repo.assignments))
	}
	if err := svc.DeleteAssignment(ctx, created.ID); !errors.Is(err, ErrAssignmentNotFound) {
		t.Errorf("second delete: %v", err)
	}
}

func TestWeekBoundsMondayAligned(t *testing.T) {
	cases := []struct {
		day        time.Time
		start, end string
	}{
		{time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), "2026-08-24", "2026-08-30"},  // Monday
		{time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC), "2026-08-24", "2026-08-30"}, // Wednesday
		{time.Date(2026, 8, 30, 23, 0, 0, 0, time.UTC), "2026-08-24", "2026-08-30"}, // Sunday
	}
	for _, tc := range cases {
		start, end := weekBounds(tc.day)
		if start != tc.start || end != tc.end {
			t.Errorf("weekBounds(%s) = %s..%s, want %s..%s", tc.day.Format(domain.DateOnly), start, end, tc.start, tc.end)
		}
	}
}
