package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"arqueria/archery-app/internal/domain"
	"arqueria/archery-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubAssignmentService struct {
	createErr error
	created   *domain.Assignment
}

func (s *stubAssignmentService) CreateAssignment(context.Context, service.AssignmentInput) (*domain.Assignment, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if s.created == nil {
		s.created = &domain.Assignment{ID: primitive.NewObjectID(), Status: domain.StatusActive}
	}
	return s.created, nil
}

func (s *stubAssignmentService) ListAssignments(context.Context) ([]domain.Assignment, error) {
	return nil, nil
}

func (s *stubAssignmentService) DeleteAssignment(context.Context, primitive.ObjectID) error {
	return nil
}

func assignmentRouter(svc service.AssignmentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewAssignmentHandler(svc)
	router.POST("/assignments", handler.CreateAssignment)
	return router
}

func postAssignment(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/assignments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateAssignmentConflictCarriesCode(t *testing.T) {
	router := assignmentRouter(&stubAssignmentService{createErr: service.ErrActiveAssignmentConflict})

	body := `{"student_id":"` + primitive.NewObjectID().Hex() + `","routine_id":"` + primitive.NewObjectID().Hex() + `"}`
	rec := postAssignment(t, router, body)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	var resp struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if resp.Code != CodeActiveAssignmentConflict {
		t.Errorf("code = %q, want %q", resp.Code, CodeActiveAssignmentConflict)
	}
	if resp.Error == "" {
		t.Error("error message missing")
	}
}

func TestCreateAssignmentPlainErrorsHaveNoCode(t *testing.T) {
	router := assignmentRouter(&stubAssignmentService{createErr: service.ErrInvalidDateRange})

	body := `{"student_id":"` + primitive.NewObjectID().Hex() + `","routine_id":"` + primitive.NewObjectID().Hex() + `"}`
	rec := postAssignment(t, router, body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if _, ok := resp["code"]; ok {
		t.Errorf("plain validation error carries a code: %v", resp)
	}
}

func TestCreateAssignmentRejectsBadIDs(t *testing.T) {
	router := assignmentRouter(&stubAssignmentService{})
	rec := postAssignment(t, router, `{"student_id":"nope","routine_id":"nope"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateAssignmentSuccess(t *testing.T) {
	svc := &stubAssignmentService{}
	router := assignmentRouter(svc)

	body := `{"student_id":"` + primitive.NewObjectID().Hex() + `","routine_id":"` + primitive.NewObjectID().Hex() + `","status":"active"}`
	rec := postAssignment(t, router, body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var resp AssignmentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.ID != svc.created.ID.Hex() {
		t.Errorf("id = %s, want %s", resp.ID, svc.created.ID.Hex())
	}
}
