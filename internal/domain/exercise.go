package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise is a single catalog exercise (e.g. "30 arrows at 18m").
// The routine builder treats these as read-only reference data; per-routine
// and per-assignment overrides never mutate the catalog entry.
type Exercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	ArrowsCount int                `bson:"arrowsCount" json:"arrows_count"`
	DistanceM   float64            `bson:"distanceM" json:"distance_m"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	IsActive    bool               `bson:"isActive" json:"is_active"`
	CreatedAt   time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updated_at"`
}
