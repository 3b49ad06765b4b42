package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/noah-isme/aula-go-api/internal/models"
)

// ReviewRequestRepository defines persistence operations for grade review requests.
type ReviewRequestRepository interface {
	GetByID(ctx context.Context, id string) (models.GradeReviewRequest, error)
	Create(ctx context.Context, request *models.GradeReviewRequest) error
	Update(ctx context.Context, request *models.GradeReviewRequest) error
	ListByStudent(ctx context.Context, studentID string) ([]models.GradeReviewRequest, error)
	ListByGrades(ctx context.Context, gradeIDs []string) ([]models.GradeReviewRequest, error)
}

type reviewRequestRepository struct {
	col *mongo.Collection
}

// NewReviewRequestRepository instantiates a MongoDB-backed review request repository.
func NewReviewRequestRepository(db *mongo.Database) ReviewRequestRepository {
	return &reviewRequestRepository{col: db.Collection(CollectionReviewRequest)}
}

func (r *reviewRequestRepository) GetByID(ctx context.Context, id string) (models.GradeReviewRequest, error) {
	var request models.GradeReviewRequest
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&request); err != nil {
		return models.GradeReviewRequest{}, translateError(err)
	}
	return request, nil
}

func (r *reviewRequestRepository) Create(ctx context.Context, request *models.GradeReviewRequest) error {
	now := time.Now().UTC()
	request.CreatedAt = now
	request.UpdatedAt = now

	_, err := r.col.InsertOne(ctx, request)
	return translateError(err)
}

func (r *reviewRequestRepository) Update(ctx context.Context, request *models.GradeReviewRequest) error {
	request.UpdatedAt = time.Now().UTC()

	result, err := r.col.ReplaceOne(ctx, bson.M{"_id": request.ID}, request)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *reviewRequestRepository) ListByStudent(ctx context.Context, studentID string) ([]models.GradeReviewRequest, error) {
	return r.list(ctx, bson.M{"studentId": studentID})
}

func (r *reviewRequestRepository) ListByGrades(ctx context.Context, gradeIDs []string) ([]models.GradeReviewRequest, error) {
	var requests []models.GradeReviewRequest
	for _, chunk := range chunkIDs(gradeIDs) {
		partial, err := r.list(ctx, bson.M{"gradeId": bson.M{"$in": chunk}})
		if err != nil {
			return nil, err
		}
		requests = append(requests, partial...)
	}
	return requests, nil
}

func (r *reviewRequestRepository) list(ctx context.Context, filter bson.M) ([]models.GradeReviewRequest, error) {
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, translateError(err)
	}

	var requests []models.GradeReviewRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, translateError(err)
	}
	return requests, nil
}
