package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/noah-isme/aula-go-api/internal/models"
)

// FileRepository defines persistence operations for stored file records.
type FileRepository interface {
	GetByPublicID(ctx context.Context, publicID string) (models.StoredFile, error)
	Create(ctx context.Context, file *models.StoredFile) error
	Delete(ctx context.Context, publicID string) error
}

type fileRepository struct {
	col *mongo.Collection
}

// NewFileRepository instantiates a MongoDB-backed file repository.
func NewFileRepository(db *mongo.Database) FileRepository {
	return &fileRepository{col: db.Collection(CollectionFiles)}
}

func (r *fileRepository) GetByPublicID(ctx context.Context, publicID string) (models.StoredFile, error) {
	var file models.StoredFile
	if err := r.col.FindOne(ctx, bson.M{"_id": publicID}).Decode(&file); err != nil {
		return models.StoredFile{}, translateError(err)
	}
	return file, nil
}

func (r *fileRepository) Create(ctx context.Context, file *models.StoredFile) error {
	file.CreatedAt = time.Now().UTC()

	_, err := r.col.InsertOne(ctx, file)
	return translateError(err)
}

func (r *fileRepository) Delete(ctx context.Context, publicID string) error {
	result, err := r.col.DeleteOne(ctx, bson.M{"_id": publicID})
	if err != nil {
		return translateError(err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
