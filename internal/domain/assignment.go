package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignmentStatus tracks the lifecycle of a routine assignment.
type AssignmentStatus string

const (
	StatusActive   AssignmentStatus = "active"
	StatusPaused   AssignmentStatus = "paused"
	StatusFinished AssignmentStatus = "finished"
)

// DateOnly is the calendar-date layout used for assignment week bounds.
// Dates are stored as strings in this layout so that comparing start dates
// lexicographically matches chronological order.
const DateOnly = "2006-01-02"

// Assignment binds a routine to a student for one calendar week.
// Invariant: at most one assignment with status=active per student at any
// time; the assignment service enforces it and the workflow resolver defends
// it client-side before submission.
type Assignment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID  primitive.ObjectID `bson:"studentId" json:"student_id"`
	RoutineID  primitive.ObjectID `bson:"routineId" json:"routine_id"`
	AssignedAt time.Time          `bson:"assignedAt" json:"assigned_at"`
	StartDate  string             `bson:"startDate,omitempty" json:"start_date,omitempty"` // DateOnly layout
	EndDate    string             `bson:"endDate,omitempty" json:"end_date,omitempty"`     // DateOnly layout
	Status     AssignmentStatus   `bson:"status" json:"status"`
	// Notes carries free text; assignment-scoped exercise overrides are
	// serialized here under a "temporary_overrides" key.
	Notes     string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updated_at"`
}
