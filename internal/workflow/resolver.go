package workflow

import (
	"context"
	"errors"
	"fmt"

	"arqueria/archery-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Resolver enforces the single-active-assignment rule on the client side:
// a pre-check against the cache before a flow opens, and remediation when
// the store rejects a create with the structured conflict code anyway.
type Resolver struct {
	store   Store
	catalog *Catalog
}

// NewResolver returns a resolver over the given store and cache.
func NewResolver(store Store, catalog *Catalog) *Resolver {
	return &Resolver{store: store, catalog: catalog}
}

// ActiveAssignment is the pre-check: the student's cached active assignment
// with the latest start date, if any.
func (r *Resolver) ActiveAssignment(studentID primitive.ObjectID) (*domain.Assignment, bool) {
	return r.catalog.ActiveAssignmentForStudent(studentID)
}

// DeleteAndRefresh removes an assignment and re-fetches the assignment
// list. A delete failure aborts before any refresh.
func (r *Resolver) DeleteAndRefresh(ctx context.Context, id primitive.ObjectID) error {
	if err := r.store.DeleteAssignment(ctx, id); err != nil {
		return fmt.Errorf("deleting assignment: %w", err)
	}
	return r.catalog.RefreshAssignments(ctx, r.store)
}

// Create submits an assignment and, on success, re-fetches the assignment
// list. A *ConflictError passes through unwrapped so callers can route it
// to remediation.
func (r *Resolver) Create(ctx context.Context, payload AssignmentPayload) error {
	if _, err := r.store.CreateAssignment(ctx, payload); err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			return err
		}
		return fmt.Errorf("creating assignment: %w", err)
	}
	return r.catalog.RefreshAssignments(ctx, r.store)
}

// ReplaceAndCreate remediates a submission-time conflict: re-fetch
// assignments, delete the student's current active one, then retry the
// create. A delete failure aborts with nothing changed. A create failure
// after a successful delete returns ErrReplaceCreateFailed, since at that
// point only the create remains to be retried.
func (r *Resolver) ReplaceAndCreate(ctx context.Context, payload AssignmentPayload) error {
	if err := r.catalog.RefreshAssignments(ctx, r.store); err != nil {
		return err
	}
	if current, ok := r.catalog.ActiveAssignmentForStudent(payload.StudentID); ok {
		if err := r.store.DeleteAssignment(ctx, current.ID); err != nil {
			return fmt.Errorf("deleting conflicting assignment: %w", err)
		}
	}
	if _, err := r.store.CreateAssignment(ctx, payload); err != nil {
		return fmt.Errorf("%w: %s", ErrReplaceCreateFailed, err)
	}
	return r.catalog.RefreshAssignments(ctx, r.store)
}
