package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/noah-isme/aula-go-api/internal/models"
)

// GradeRepository defines persistence operations for grades.
type GradeRepository interface {
	GetByID(ctx context.Context, id string) (models.Grade, error)
	GetBySubmission(ctx context.Context, submissionID string) (models.Grade, error)
	Create(ctx context.Context, grade *models.Grade) error
	Update(ctx context.Context, grade *models.Grade) error
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Grade, error)
	SetPendingReview(ctx context.Context, gradeID, requestID string) error
	ClearPendingReview(ctx context.Context, gradeID, requestID string) error
}

type gradeRepository struct {
	col *mongo.Collection
}

// NewGradeRepository instantiates a MongoDB-backed grade repository.
func NewGradeRepository(db *mongo.Database) GradeRepository {
	return &gradeRepository{col: db.Collection(CollectionGrades)}
}

func (r *gradeRepository) GetByID(ctx context.Context, id string) (models.Grade, error) {
	var grade models.Grade
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&grade); err != nil {
		return models.Grade{}, translateError(err)
	}
	return grade, nil
}

func (r *gradeRepository) GetBySubmission(ctx context.Context, submissionID string) (models.Grade, error) {
	var grade models.Grade
	if err := r.col.FindOne(ctx, bson.M{"submissionId": submissionID}).Decode(&grade); err != nil {
		return models.Grade{}, translateError(err)
	}
	return grade, nil
}

func (r *gradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	now := time.Now().UTC()
	grade.CreatedAt = now
	grade.UpdatedAt = now

	_, err := r.col.InsertOne(ctx, grade)
	return translateError(err)
}

func (r *gradeRepository) Update(ctx context.Context, grade *models.Grade) error {
	grade.UpdatedAt = time.Now().UTC()

	result, err := r.col.ReplaceOne(ctx, bson.M{"_id": grade.ID}, grade)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gradeRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Grade, error) {
	cursor, err := r.col.Find(ctx, bson.M{"teacherId": teacherID})
	if err != nil {
		return nil, translateError(err)
	}

	var grades []models.Grade
	if err := cursor.All(ctx, &grades); err != nil {
		return nil, translateError(err)
	}
	return grades, nil
}

// SetPendingReview claims the single pending-review slot on the grade. The
// compare-and-set filter makes two concurrent requests race on one document
// update instead of a pre-check query.
func (r *gradeRepository) SetPendingReview(ctx context.Context, gradeID, requestID string) error {
	filter := bson.M{
		"_id":                    gradeID,
		"pendingReviewRequestId": bson.M{"$in": bson.A{nil, ""}},
	}
	update := bson.M{"$set": bson.M{"pendingReviewRequestId": requestID, "updatedAt": time.Now().UTC()}}

	result, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}

// ClearPendingReview releases the pending-review slot once the request has
// been responded to.
func (r *gradeRepository) ClearPendingReview(ctx context.Context, gradeID, requestID string) error {
	filter := bson.M{"_id": gradeID, "pendingReviewRequestId": requestID}
	update := bson.M{"$set": bson.M{"pendingReviewRequestId": "", "updatedAt": time.Now().UTC()}}

	result, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}
