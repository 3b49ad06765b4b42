package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/noah-isme/aula-go-api/internal/models"
)

// FeedbackRepository defines persistence operations for submission feedback.
type FeedbackRepository interface {
	GetByID(ctx context.Context, id string) (models.Feedback, error)
	GetBySubmission(ctx context.Context, submissionID string) (models.Feedback, error)
	Create(ctx context.Context, feedback *models.Feedback) error
	Update(ctx context.Context, feedback *models.Feedback) error
}

type feedbackRepository struct {
	col *mongo.Collection
}

// NewFeedbackRepository instantiates a MongoDB-backed feedback repository.
func NewFeedbackRepository(db *mongo.Database) FeedbackRepository {
	return &feedbackRepository{col: db.Collection(CollectionFeedback)}
}

func (r *feedbackRepository) GetByID(ctx context.Context, id string) (models.Feedback, error) {
	var feedback models.Feedback
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&feedback); err != nil {
		return models.Feedback{}, translateError(err)
	}
	return feedback, nil
}

func (r *feedbackRepository) GetBySubmission(ctx context.Context, submissionID string) (models.Feedback, error) {
	var feedback models.Feedback
	if err := r.col.FindOne(ctx, bson.M{"submissionId": submissionID}).Decode(&feedback); err != nil {
		return models.Feedback{}, translateError(err)
	}
	return feedback, nil
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	now := time.Now().UTC()
	feedback.CreatedAt = now
	feedback.UpdatedAt = now

	_, err := r.col.InsertOne(ctx, feedback)
	return translateError(err)
}

func (r *feedbackRepository) Update(ctx context.Context, feedback *models.Feedback) error {
	feedback.UpdatedAt = time.Now().UTC()

	result, err := r.col.ReplaceOne(ctx, bson.M{"_id": feedback.ID}, feedback)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
