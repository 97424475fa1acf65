package service

import (
	"context"
	"testing"
	"time"

	"arqueria/archery-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestPurgeInactiveStudents(t *testing.T) {
	old := time.Now().UTC().Add(-60 * 24 * time.Hour)
	recent := time.Now().UTC().Add(-2 * 24 * time.Hour)
	stale := &domain.Student{FullName: "Baja antigua", DocumentNumber: "1", InactiveSince: &old}
	fresh := &domain.Student{FullName: "Baja reciente", DocumentNumber: "2", InactiveSince: &recent}
	active := &domain.Student{FullName: "Activa", DocumentNumber: "3", IsActive: true}
	studentRepo := newStubStudentRepo(stale, fresh, active)

	svc := NewRetentionService(studentRepo, newStubRoutineRepo(), newStubAssignmentRepo(),
		30*24*time.Hour, 30*24*time.Hour, zap.NewNop())

	removed, err := svc.PurgeInactiveStudents(context.Background())
	if err != nil {
		t.Fatalf("PurgeInactiveStudents: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, ok := studentRepo.students[stale.ID]; ok {
		t.Error("stale student survived")
	}
	if _, ok := studentRepo.students[fresh.ID]; !ok {
		t.Error("recently inactive student purged too early")
	}
	if _, ok := studentRepo.students[active.ID]; !ok {
		t.Error("active student purged")
	}
}

func TestPurgeStaleRoutinesKeepsOnesInUse(t *testing.T) {
	cutoffPast := time.Now().UTC().Add(-90 * 24 * time.Hour)
	nextWeekEnd := time.Now().UTC().AddDate(0, 0, 7).Format(domain.DateOnly)

	inUse := &domain.Routine{Name: "Ad hoc vigente", UpdatedAt: cutoffPast}
	abandoned := &domain.Routine{Name: "Ad hoc abandonada", UpdatedAt: cutoffPast}
	template := &domain.Routine{Name: "Plantilla", IsTemplate: true, UpdatedAt: cutoffPast}
	routineRepo := newStubRoutineRepo(inUse, abandoned, template)

	current := &domain.Assignment{
		StudentID: primitive.NewObjectID(), RoutineID: inUse.ID,
		Status: domain.StatusActive, EndDate: nextWeekEnd,
	}
	expired := &domain.Assignment{
		StudentID: primitive.NewObjectID(), RoutineID: abandoned.ID,
		Status: domain.StatusFinished, EndDate: "2020-01-12",
	}
	assignmentRepo := newStubAssignmentRepo(current, expired)

	svc := NewRetentionService(newStubStudentRepo(), routineRepo, assignmentRepo,
		30*24*time.Hour, 30*24*time.Hour, zap.NewNop())

	removed, err := svc.PurgeStaleRoutines(context.Background())
	if err != nil {
		t.Fatalf("PurgeStaleRoutines: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, ok := routineRepo.routines[abandoned.ID]; ok {
		t.Error("abandoned ad-hoc routine survived")
	}
	if _, ok := routineRepo.routines[inUse.ID]; !ok {
		t.Error("routine with a current assignment purged")
	}
	if _, ok := routineRepo.routines[template.ID]; !ok {
		t.Error("template purged")
	}
	// The abandoned routine's assignments went with it.
	if _, ok := assignmentRepo.assignments[expired.ID]; ok {
		t.Error("orphaned assignment survived")
	}
}
