package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/noah-isme/aula-go-api/internal/models"
)

// AssignmentRepository defines persistence operations for assignments.
type AssignmentRepository interface {
	GetByID(ctx context.Context, id string) (models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id string) error
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Assignment, error)
	ListPublished(ctx context.Context) ([]models.Assignment, error)
	ListPublishedByTeachers(ctx context.Context, teacherIDs []string) ([]models.Assignment, error)
}

type assignmentRepository struct {
	col *mongo.Collection
}

// NewAssignmentRepository instantiates a MongoDB-backed assignment repository.
func NewAssignmentRepository(db *mongo.Database) AssignmentRepository {
	return &assignmentRepository{col: db.Collection(CollectionAssignments)}
}

func (r *assignmentRepository) GetByID(ctx context.Context, id string) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&assignment); err != nil {
		return models.Assignment{}, translateError(err)
	}
	return assignment, nil
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	now := time.Now().UTC()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now

	_, err := r.col.InsertOne(ctx, assignment)
	return translateError(err)
}

func (r *assignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	assignment.UpdatedAt = time.Now().UTC()

	result, err := r.col.ReplaceOne(ctx, bson.M{"_id": assignment.ID}, assignment)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *assignmentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translateError(err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *assignmentRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Assignment, error) {
	return r.list(ctx, bson.M{"teacherId": teacherID})
}

func (r *assignmentRepository) ListPublished(ctx context.Context) ([]models.Assignment, error) {
	return r.list(ctx, bson.M{"status": models.AssignmentStatusPublished})
}

func (r *assignmentRepository) ListPublishedByTeachers(ctx context.Context, teacherIDs []string) ([]models.Assignment, error) {
	var assignments []models.Assignment
	for _, chunk := range chunkIDs(teacherIDs) {
		filter := bson.M{
			"status":    models.AssignmentStatusPublished,
			"teacherId": bson.M{"$in": chunk},
		}
		partial, err := r.list(ctx, filter)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, partial...)
	}
	return assignments, nil
}

func (r *assignmentRepository) list(ctx context.Context, filter bson.M) ([]models.Assignment, error) {
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, translateError(err)
	}

	var assignments []models.Assignment
	if err := cursor.All(ctx, &assignments); err != nil {
		return nil, translateError(err)
	}
	return assignments, nil
}
