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

const assignmentCollectionName = "assignments"

// mongoAssignmentRepository implements repository.AssignmentRepository
type mongoAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAssignmentRepository creates a new Assignment repository backed by MongoDB.
func NewMongoAssignmentRepository(db *mongo.Database) repository.AssignmentRepository {
	return &mongoAssignmentRepository{
		collection: db.Collection(assignmentCollectionName),
	}
}

// Create inserts a new assignment.
func (r *mongoAssignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) (primitive.ObjectID, error) {
	if assignment.StudentID == primitive.NilObjectID || assignment.RoutineID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("student ID and routine ID are required")
	}

	assignment.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	assignment.AssignedAt = now
	assignment.CreatedAt = now
	assignment.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, assignment)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves an assignment by ID.
func (r *mongoAssignmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Assignment, error) {
	var assignment domain.Assignment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&assignment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

// List retrieves all assignments, newest first.
func (r *mongoAssignmentRepository) List(ctx context.Context) ([]domain.Assignment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []domain.Assignment
	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// FindActiveOverlapping returns active assignments for the student whose date
// window intersects the given week. DateOnly strings compare correctly with
// plain string comparison, so the range filter works directly on the fields.
func (r *mongoAssignmentRepository) FindActiveOverlapping(ctx context.Context, studentID primitive.ObjectID, weekStart, weekEnd string) ([]domain.Assignment, error) {
	filter := bson.M{
		"studentId": studentID,
		"status":    domain.StatusActive,
		"startDate": bson.M{"$lte": weekEnd},
		"endDate":   bson.M{"$gte": weekStart},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []domain.Assignment
	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// GetByRoutineID retrieves all assignments referencing a routine.
func (r *mongoAssignmentRepository) GetByRoutineID(ctx context.Context, routineID primitive.ObjectID) ([]domain.Assignment, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"routineId": routineID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []domain.Assignment
	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// Delete removes an assignment.
func (r *mongoAssignmentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureAssignmentIndexes creates necessary indexes for the assignments collection.
func EnsureAssignmentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "studentId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "routineId", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
