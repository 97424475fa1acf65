package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Routine is a weekly training template. Its day tree is embedded in the
// routine document and is always created/replaced as one unit; days never
// exist outside a routine.
type Routine struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	IsActive    bool               `bson:"isActive" json:"is_active"`
	// IsTemplate distinguishes reusable routines from ones created ad hoc
	// while assigning a student; non-templates are reclaimed by retention.
	IsTemplate bool         `bson:"isTemplate" json:"is_template"`
	Days       []RoutineDay `bson:"days" json:"days"`
	CreatedAt  time.Time    `bson:"createdAt" json:"created_at"`
	UpdatedAt  time.Time    `bson:"updatedAt" json:"updated_at"`
}

// RoutineDay is one weekday inside a routine. DayNumber is 1 (Monday) to
// 7 (Sunday) and is unique within the routine.
type RoutineDay struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	DayNumber int                  `bson:"dayNumber" json:"day_number"`
	Name      string               `bson:"name,omitempty" json:"name,omitempty"`
	Notes     string               `bson:"notes,omitempty" json:"notes,omitempty"`
	Exercises []RoutineDayExercise `bson:"exercises" json:"exercises"`
}

// RoutineDayExercise places a catalog exercise into a day slot. SortOrder is
// the 1-based execution order within the day. The override fields permanently
// replace the catalog defaults for this slot only.
type RoutineDayExercise struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ExerciseID        primitive.ObjectID `bson:"exerciseId" json:"exercise_id"`
	SortOrder         int                `bson:"sortOrder" json:"sort_order"`
	ArrowsOverride    *int               `bson:"arrowsOverride,omitempty" json:"arrows_override,omitempty"`
	DistanceOverrideM *float64           `bson:"distanceOverrideM,omitempty" json:"distance_override_m,omitempty"`
	Notes             string             `bson:"notes,omitempty" json:"notes,omitempty"`
}
