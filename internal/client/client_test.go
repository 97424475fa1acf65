package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"arqueria/archery-app/internal/domain"
	"arqueria/archery-app/internal/workflow"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBearerTokenSentOnEveryRequest(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]domain.Exercise{})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok-123")
	if _, err := c.ListExercises(context.Background()); err != nil {
		t.Fatalf("ListExercises: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestConflictCodeBecomesConflictError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "student already has an active routine this week",
			"code":  "active_assignment_conflict",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	_, err := c.CreateAssignment(context.Background(), workflow.AssignmentPayload{
		StudentID: primitive.NewObjectID(),
		RoutineID: primitive.NewObjectID(),
		StartDate: "2026-08-24",
		EndDate:   "2026-08-30",
		Status:    domain.StatusActive,
	})
	if !workflow.IsActiveAssignmentConflict(err) {
		t.Fatalf("err = %v, want structured conflict", err)
	}
}

func TestUnauthorizedIsTerminal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "authorization header required"})
	}))
	defer srv.Close()

	c := New(srv.URL, "expired")
	_, err := c.ListRoutines(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestPlainErrorIsNotAConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid date range"})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	_, err := c.CreateAssignment(context.Background(), workflow.AssignmentPayload{})
	if err == nil {
		t.Fatal("expected error")
	}
	if workflow.IsActiveAssignmentConflict(err) {
		t.Fatal("message-only error misread as a conflict")
	}
}

func TestRoutinePayloadWireShape(t *testing.T) {
	exID := primitive.NewObjectID()
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(domain.Routine{ID: primitive.NewObjectID()})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	_, err := c.CreateRoutine(context.Background(), workflow.RoutinePayload{
		Name:     "Semana base",
		IsActive: true,
		Days: []workflow.DayPayload{{
			DayNumber: 1,
			Name:      "Lunes",
			Exercises: []workflow.DayExercisePayload{{ExerciseID: exID, SortOrder: 1}},
		}},
	})
	if err != nil {
		t.Fatalf("CreateRoutine: %v", err)
	}

	days, ok := body["days"].([]any)
	if !ok || len(days) != 1 {
		t.Fatalf("days = %v", body["days"])
	}
	day := days[0].(map[string]any)
	if day["day_number"] != float64(1) {
		t.Errorf("day_number = %v", day["day_number"])
	}
	slot := day["exercises"].([]any)[0].(map[string]any)
	// Object IDs must travel as plain hex strings.
	if slot["exercise_id"] != exID.Hex() {
		t.Errorf("exercise_id = %v, want %s", slot["exercise_id"], exID.Hex())
	}
}
