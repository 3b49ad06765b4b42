package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/noah-isme/aula-go-api/internal/models"
)

// AnnouncementRepository defines persistence operations for announcements and
// their per-user dismissal markers.
type AnnouncementRepository interface {
	GetByID(ctx context.Context, id string) (models.Announcement, error)
	Create(ctx context.Context, announcement *models.Announcement) error
	Update(ctx context.Context, announcement *models.Announcement) error
	Delete(ctx context.Context, id string) error
	ListGlobal(ctx context.Context) ([]models.Announcement, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Announcement, error)
	ListByAssignments(ctx context.Context, assignmentIDs []string) ([]models.Announcement, error)
	Dismiss(ctx context.Context, userID, announcementID string) error
	ListDismissedIDs(ctx context.Context, userID string) ([]string, error)
}

type announcementRepository struct {
	col        *mongo.Collection
	dismissals *mongo.Collection
}

// NewAnnouncementRepository instantiates a MongoDB-backed announcement repository.
func NewAnnouncementRepository(db *mongo.Database) AnnouncementRepository {
	return &announcementRepository{
		col:        db.Collection(CollectionAnnouncements),
		dismissals: db.Collection(CollectionDismissals),
	}
}

func (r *announcementRepository) GetByID(ctx context.Context, id string) (models.Announcement, error) {
	var announcement models.Announcement
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&announcement); err != nil {
		return models.Announcement{}, translateError(err)
	}
	return announcement, nil
}

func (r *announcementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	now := time.Now().UTC()
	announcement.CreatedAt = now
	announcement.UpdatedAt = now

	_, err := r.col.InsertOne(ctx, announcement)
	return translateError(err)
}

func (r *announcementRepository) Update(ctx context.Context, announcement *models.Announcement) error {
	announcement.UpdatedAt = time.Now().UTC()

	result, err := r.col.ReplaceOne(ctx, bson.M{"_id": announcement.ID}, announcement)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *announcementRepository) Delete(ctx context.Context, id string) error {
	result, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translateError(err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *announcementRepository) ListGlobal(ctx context.Context) ([]models.Announcement, error) {
	return r.list(ctx, bson.M{"scope": models.AnnouncementScopeGlobal})
}

func (r *announcementRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Announcement, error) {
	return r.list(ctx, bson.M{"teacherId": teacherID})
}

func (r *announcementRepository) ListByAssignments(ctx context.Context, assignmentIDs []string) ([]models.Announcement, error) {
	var announcements []models.Announcement
	for _, chunk := range chunkIDs(assignmentIDs) {
		filter := bson.M{
			"scope":        models.AnnouncementScopeAssignment,
			"assignmentId": bson.M{"$in": chunk},
		}
		partial, err := r.list(ctx, filter)
		if err != nil {
			return nil, err
		}
		announcements = append(announcements, partial...)
	}
	return announcements, nil
}

// Dismiss upserts the composite-keyed marker so repeated dismissals are
// idempotent.
func (r *announcementRepository) Dismiss(ctx context.Context, userID, announcementID string) error {
	marker := models.AnnouncementDismissal{
		ID:             fmt.Sprintf("%s:%s", userID, announcementID),
		UserID:         userID,
		AnnouncementID: announcementID,
		DismissedAt:    time.Now().UTC(),
	}

	opts := options.Replace().SetUpsert(true)
	_, err := r.dismissals.ReplaceOne(ctx, bson.M{"_id": marker.ID}, marker, opts)
	return translateError(err)
}

func (r *announcementRepository) ListDismissedIDs(ctx context.Context, userID string) ([]string, error) {
	cursor, err := r.dismissals.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, translateError(err)
	}

	var markers []models.AnnouncementDismissal
	if err := cursor.All(ctx, &markers); err != nil {
		return nil, translateError(err)
	}

	ids := make([]string, 0, len(markers))
	for _, marker := range markers {
		ids = append(ids, marker.AnnouncementID)
	}
	return ids, nil
}

func (r *announcementRepository) list(ctx context.Context, filter bson.M) ([]models.Announcement, error) {
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, translateError(err)
	}

	var announcements []models.Announcement
	if err := cursor.All(ctx, &announcements); err != nil {
		return nil, translateError(err)
	}
	return announcements, nil
}
