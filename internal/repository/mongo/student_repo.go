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

const studentCollectionName = "students"

// mongoStudentRepository implements repository.StudentRepository
type mongoStudentRepository struct {
	collection *mongo.Collection
}

// NewMongoStudentRepository creates a new Student repository backed by MongoDB.
func NewMongoStudentRepository(db *mongo.Database) repository.StudentRepository {
	return &mongoStudentRepository{
		collection: db.Collection(studentCollectionName),
	}
}

// Create inserts a new student. The unique index on documentNumber turns
// duplicates into repository.ErrDuplicateKey.
func (r *mongoStudentRepository) Create(ctx context.Context, student *domain.Student) (primitive.ObjectID, error) {
	if student.FullName == "" || student.DocumentNumber == "" {
		return primitive.NilObjectID, errors.New("student full name and document number are required")
	}

	student.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, student)
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

// GetByID retrieves a student by ID.
func (r *mongoStudentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Student, error) {
	var student domain.Student
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&student)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &student, nil
}

// List retrieves all students ordered by full name.
func (r *mongoStudentRepository) List(ctx context.Context) ([]domain.Student, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "fullName", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var students []domain.Student
	if err = cursor.All(ctx, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// Update overwrites a student's editable fields.
func (r *mongoStudentRepository) Update(ctx context.Context, student *domain.Student) error {
	if student.ID == primitive.NilObjectID {
		return errors.New("student ID is required for update")
	}

	update := bson.M{
		"$set": bson.M{
			"fullName":        student.FullName,
			"documentNumber":  student.DocumentNumber,
			"contact":         student.Contact,
			"bowPounds":       student.BowPounds,
			"arrowsAvailable": student.ArrowsAvailable,
			"isActive":        student.IsActive,
			"inactiveSince":   student.InactiveSince,
			"updatedAt":       time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": student.ID}, update)
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

// Delete removes a student.
func (r *mongoStudentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteInactiveBefore removes students inactive since before the cutoff.
func (r *mongoStudentRepository) DeleteInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	filter := bson.M{
		"isActive":      false,
		"inactiveSince": bson.M{"$ne": nil, "$lte": cutoff},
	}
	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureStudentIndexes creates necessary indexes for the students collection.
func EnsureStudentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "documentNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "isActive", Value: 1}, {Key: "fullName", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "isActive", Value: 1}, {Key: "inactiveSince", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
