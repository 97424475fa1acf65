// Package client is the HTTP gateway to the archery backend. It implements
// workflow.Store over the REST API and translates the API's structured error
// body into the workflow error types.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"arqueria/archery-app/internal/domain"
	"arqueria/archery-app/internal/workflow"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrUnauthorized means the credential was missing, expired or rejected.
// It is terminal for the call; the caller must obtain a new token.
var ErrUnauthorized = errors.New("credential rejected")

// Client talks to one backend with one bearer token.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// New returns a client for baseURL authenticating every request with token.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// apiError is the backend's error body.
type apiError struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// do issues one request and decodes a 2xx body into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(method, path, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) decodeError(method, path string, resp *http.Response) error {
	var body apiError
	_ = json.NewDecoder(resp.Body).Decode(&body)
	msg := body.Error
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case body.Code != "":
		return &workflow.ConflictError{Code: body.Code, Message: msg}
	default:
		return fmt.Errorf("%s %s: %s (status %d)", method, path, msg, resp.StatusCode)
	}
}

func (c *Client) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	var out []domain.Exercise
	if err := c.do(ctx, http.MethodGet, "/exercises", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListRoutines(ctx context.Context) ([]domain.Routine, error) {
	var out []domain.Routine
	if err := c.do(ctx, http.MethodGet, "/routines", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListStudents(ctx context.Context) ([]domain.Student, error) {
	var out []domain.Student
	if err := c.do(ctx, http.MethodGet, "/students", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListAssignments(ctx context.Context) ([]domain.Assignment, error) {
	var out []domain.Assignment
	if err := c.do(ctx, http.MethodGet, "/assignments", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateRoutine(ctx context.Context, payload workflow.RoutinePayload) (*domain.Routine, error) {
	var out domain.Routine
	if err := c.do(ctx, http.MethodPost, "/routines", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateRoutine(ctx context.Context, id primitive.ObjectID, payload workflow.RoutinePayload) (*domain.Routine, error) {
	var out domain.Routine
	if err := c.do(ctx, http.MethodPut, "/routines/"+id.Hex(), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteRoutine(ctx context.Context, id primitive.ObjectID) error {
	return c.do(ctx, http.MethodDelete, "/routines/"+id.Hex(), nil, nil)
}

func (c *Client) CreateAssignment(ctx context.Context, payload workflow.AssignmentPayload) (*domain.Assignment, error) {
	var out domain.Assignment
	if err := c.do(ctx, http.MethodPost, "/assignments", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAssignment(ctx context.Context, id primitive.ObjectID) error {
	return c.do(ctx, http.MethodDelete, "/assignments/"+id.Hex(), nil, nil)
}
