package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/noah-isme/aula-go-api/internal/models"
)

// SubmissionRepository defines persistence operations for submissions.
type SubmissionRepository interface {
	GetByID(ctx context.Context, id string) (models.Submission, error)
	GetByAssignmentAndStudent(ctx context.Context, assignmentID, studentID string) (models.Submission, error)
	Create(ctx context.Context, submission *models.Submission) error
	Update(ctx context.Context, submission *models.Submission) error
	DeleteByAssignment(ctx context.Context, assignmentID string) (int64, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Submission, error)
	ListByAssignments(ctx context.Context, assignmentIDs []string) ([]models.Submission, error)
	SetGradeRef(ctx context.Context, submissionID, gradeID string) error
	SetFeedbackRef(ctx context.Context, submissionID, feedbackID string) error
}

type submissionRepository struct {
	col *mongo.Collection
}

// NewSubmissionRepository instantiates a MongoDB-backed submission repository.
func NewSubmissionRepository(db *mongo.Database) SubmissionRepository {
	return &submissionRepository{col: db.Collection(CollectionSubmissions)}
}

func (r *submissionRepository) GetByID(ctx context.Context, id string) (models.Submission, error) {
	var submission models.Submission
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&submission); err != nil {
		return models.Submission{}, translateError(err)
	}
	return submission, nil
}

func (r *submissionRepository) GetByAssignmentAndStudent(ctx context.Context, assignmentID, studentID string) (models.Submission, error) {
	filter := bson.M{"assignmentId": assignmentID, "studentId": studentID}

	var submission models.Submission
	if err := r.col.FindOne(ctx, filter).Decode(&submission); err != nil {
		return models.Submission{}, translateError(err)
	}
	return submission, nil
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	now := time.Now().UTC()
	submission.CreatedAt = now
	submission.UpdatedAt = now

	_, err := r.col.InsertOne(ctx, submission)
	return translateError(err)
}

func (r *submissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	submission.UpdatedAt = time.Now().UTC()

	result, err := r.col.ReplaceOne(ctx, bson.M{"_id": submission.ID}, submission)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *submissionRepository) DeleteByAssignment(ctx context.Context, assignmentID string) (int64, error) {
	result, err := r.col.DeleteMany(ctx, bson.M{"assignmentId": assignmentID})
	if err != nil {
		return 0, translateError(err)
	}
	return result.DeletedCount, nil
}

func (r *submissionRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Submission, error) {
	return r.list(ctx, bson.M{"studentId": studentID})
}

func (r *submissionRepository) ListByAssignments(ctx context.Context, assignmentIDs []string) ([]models.Submission, error) {
	var submissions []models.Submission
	for _, chunk := range chunkIDs(assignmentIDs) {
		partial, err := r.list(ctx, bson.M{"assignmentId": bson.M{"$in": chunk}})
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, partial...)
	}
	return submissions, nil
}

// SetGradeRef writes the grade back-reference, guarded so a submission can
// only ever reference one grade.
func (r *submissionRepository) SetGradeRef(ctx context.Context, submissionID, gradeID string) error {
	filter := bson.M{
		"_id":     submissionID,
		"gradeId": bson.M{"$in": bson.A{nil, ""}},
	}
	update := bson.M{"$set": bson.M{"gradeId": gradeID, "updatedAt": time.Now().UTC()}}

	result, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}

// SetFeedbackRef writes the feedback back-reference with the same guard.
func (r *submissionRepository) SetFeedbackRef(ctx context.Context, submissionID, feedbackID string) error {
	filter := bson.M{
		"_id":        submissionID,
		"feedbackId": bson.M{"$in": bson.A{nil, ""}},
	}
	update := bson.M{"$set": bson.M{"feedbackId": feedbackID, "updatedAt": time.Now().UTC()}}

	result, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}

func (r *submissionRepository) list(ctx context.Context, filter bson.M) ([]models.Submission, error) {
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, translateError(err)
	}

	var submissions []models.Submission
	if err := cursor.All(ctx, &submissions); err != nil {
		return nil, translateError(err)
	}
	return submissions, nil
}
