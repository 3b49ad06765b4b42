package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/noah-isme/aula-go-api/internal/models"
)

// UserRepository defines persistence operations for user profiles.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	ListTeachers(ctx context.Context) ([]models.User, error)
	AddEnrolledTeacher(ctx context.Context, studentID, teacherID string) error
	RemoveEnrolledTeacher(ctx context.Context, studentID, teacherID string) error
}

type userRepository struct {
	col *mongo.Collection
}

// NewUserRepository instantiates a MongoDB-backed user repository.
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{col: db.Collection(CollectionUsers)}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return models.User{}, translateError(err)
	}
	return user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.col.InsertOne(ctx, user)
	return translateError(err)
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()

	result, err := r.col.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) ListTeachers(ctx context.Context) ([]models.User, error) {
	cursor, err := r.col.Find(ctx, bson.M{"role": models.RoleTeacher})
	if err != nil {
		return nil, translateError(err)
	}

	var teachers []models.User
	if err := cursor.All(ctx, &teachers); err != nil {
		return nil, translateError(err)
	}
	return teachers, nil
}

func (r *userRepository) AddEnrolledTeacher(ctx context.Context, studentID, teacherID string) error {
	update := bson.M{
		"$addToSet": bson.M{"enrolledTeachers": teacherID},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	}

	result, err := r.col.UpdateOne(ctx, bson.M{"_id": studentID}, update)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) RemoveEnrolledTeacher(ctx context.Context, studentID, teacherID string) error {
	update := bson.M{
		"$pull": bson.M{"enrolledTeachers": teacherID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}

	result, err := r.col.UpdateOne(ctx, bson.M{"_id": studentID}, update)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
