package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Student is a member of the archery school.
type Student struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName        string             `bson:"fullName" json:"full_name"`
	DocumentNumber  string             `bson:"documentNumber" json:"document_number"` // unique
	Contact         string             `bson:"contact,omitempty" json:"contact,omitempty"`
	BowPounds       *float64           `bson:"bowPounds,omitempty" json:"bow_pounds,omitempty"`
	ArrowsAvailable *int               `bson:"arrowsAvailable,omitempty" json:"arrows_available,omitempty"`
	IsActive        bool               `bson:"isActive" json:"is_active"`
	// InactiveSince marks when the student was last deactivated; retention
	// purges students that stay inactive past the configured window.
	InactiveSince *time.Time `bson:"inactiveSince,omitempty" json:"inactive_since,omitempty"`
	CreatedAt     time.Time  `bson:"createdAt" json:"created_at"`
	UpdatedAt     time.Time  `bson:"updatedAt" json:"updated_at"`
}
