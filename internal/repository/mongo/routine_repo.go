package mongo

import (
	"context"
	"errors"
	"time"

	"arqueria/archery-app/internal/domain"
	"arqueria/archery-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const routineCollectionName = "routines"

// mongoRoutineRepository implements repository.RoutineRepository.
// The day tree is embedded in the routine document, so create and replace
// are naturally atomic: days and day-exercises are never written partially.
type mongoRoutineRepository struct {
	collection *mongo.Collection
}

// NewMongoRoutineRepository creates a new Routine repository backed by MongoDB.
func NewMongoRoutineRepository(db *mongo.Database) repository.RoutineRepository {
	return &mongoRoutineRepository{
		collection: db.Collection(routineCollectionName),
	}
}

// assignEmbeddedIDs gives fresh ObjectIDs to any day or day-exercise that
// does not carry one yet.
func assignEmbeddedIDs(routine *domain.Routine) {
	for i := range routine.Days {
		if routine.Days[i].ID == primitive.NilObjectID {
			routine.Days[i].ID = primitive.NewObjectID()
		}
		for j := range routine.Days[i].Exercises {
			if routine.Days[i].Exercises[j].ID == primitive.NilObjectID {
				routine.Days[i].Exercises[j].ID = primitive.NewObjectID()
			}
		}
	}
}

// Create inserts a new routine with its whole day tree.
func (r *mongoRoutineRepository) Create(ctx context.Context, routine *domain.Routine) (primitive.ObjectID, error) {
	if routine.Name == "" {
		return primitive.NilObjectID, errors.New("routine name is required")
	}

	routine.ID = primitive.NewObjectID()
	assignEmbeddedIDs(routine)
	now := time.Now().UTC()
	routine.CreatedAt = now
	routine.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, routine)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a routine with its embedded days and exercises.
func (r *mongoRoutineRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Routine, error) {
	var routine domain.Routine
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&routine)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &routine, nil
}

// List retrieves all routines ordered by name.
func (r *mongoRoutineRepository) List(ctx context.Context) ([]domain.Routine, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var routines []domain.Routine
	if err = cursor.All(ctx, &routines); err != nil {
		return nil, err
	}
	return routines, nil
}

// Replace overwrites the routine's fields and its whole day tree in one write.
func (r *mongoRoutineRepository) Replace(ctx context.Context, routine *domain.Routine) error {
	if routine.ID == primitive.NilObjectID {
		return errors.New("routine ID is required for replace")
	}
	if routine.Name == "" {
		return errors.New("routine name cannot be empty")
	}

	assignEmbeddedIDs(routine)
	update := bson.M{
		"$set": bson.M{
			"name":        routine.Name,
			"description": routine.Description,
			"isActive":    routine.IsActive,
			"isTemplate":  routine.IsTemplate,
			"days":        routine.Days,
			"updatedAt":   time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": routine.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateKey
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a routine and its embedded day tree.
func (r *mongoRoutineRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListNonTemplatesUpdatedBefore returns ad-hoc routines last touched before
// the cutoff, candidates for retention cleanup.
func (r *mongoRoutineRepository) ListNonTemplatesUpdatedBefore(ctx context.Context, cutoff time.Time) ([]domain.Routine, error) {
	filter := bson.M{
		"isTemplate": false,
		"updatedAt":  bson.M{"$lte": cutoff},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var routines []domain.Routine
	if err = cursor.All(ctx, &routines); err != nil {
		return nil, err
	}
	return routines, nil
}

// EnsureRoutineIndexes creates necessary indexes for the routines collection.
func EnsureRoutineIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "isTemplate", Value: 1}, {Key: "isActive", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
