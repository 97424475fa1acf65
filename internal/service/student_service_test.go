package service

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCreateStudentValidation(t *testing.T) {
	svc := NewStudentService(newStubStudentRepo())
	ctx := context.Background()

	if _, err := svc.CreateStudent(ctx, StudentInput{DocumentNumber: "1"}); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("missing name: %v", err)
	}
	if _, err := svc.CreateStudent(ctx, StudentInput{FullName: "Ana"}); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("missing document: %v", err)
	}
	badPounds := -4.0
	if _, err := svc.CreateStudent(ctx, StudentInput{FullName: "Ana", DocumentNumber: "1", BowPounds: &badPounds}); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("negative bow pounds: %v", err)
	}
}

func TestCreateStudentDuplicateDocument(t *testing.T) {
	svc := NewStudentService(newStubStudentRepo())
	ctx := context.Background()

	if _, err := svc.CreateStudent(ctx, StudentInput{FullName: "Ana", DocumentNumber: "12345678", IsActive: true}); err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	if _, err := svc.CreateStudent(ctx, StudentInput{FullName: "Otra Ana", DocumentNumber: "12345678", IsActive: true}); !errors.Is(err, ErrDuplicateDocument) {
		t.Fatalf("err = %v, want ErrDuplicateDocument", err)
	}
}

func TestInactiveSinceTracksStatusEdges(t *testing.T) {
	svc := NewStudentService(newStubStudentRepo())
	ctx := context.Background()

	created, err := svc.CreateStudent(ctx, StudentInput{FullName: "Ana", DocumentNumber: "1", IsActive: true})
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	if created.InactiveSince != nil {
		t.Fatal("active student has inactive_since set")
	}

	deactivated, err := svc.SetStudentStatus(ctx, created.ID, false)
	if err != nil {
		t.Fatalf("SetStudentStatus: %v", err)
	}
	if deactivated.InactiveSince == nil {
		t.Fatal("deactivation did not stamp inactive_since")
	}
	firstStamp := *deactivated.InactiveSince

	// Re-saving an already inactive student keeps the original stamp.
	time.Sleep(time.Millisecond)
	resaved, err := svc.UpdateStudent(ctx, created.ID, StudentInput{FullName: "Ana", DocumentNumber: "1"})
	if err != nil {
		t.Fatalf("UpdateStudent: %v", err)
	}
	if resaved.InactiveSince == nil || !resaved.InactiveSince.Equal(firstStamp) {
		t.Errorf("inactive_since moved on a no-op save: %v -> %v", firstStamp, resaved.InactiveSince)
	}

	reactivated, err := svc.SetStudentStatus(ctx, created.ID, true)
	if err != nil {
		t.Fatalf("SetStudentStatus: %v", err)
	}
	if reactivated.InactiveSince != nil {
		t.Error("reactivation did not clear inactive_since")
	}
}
