package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// indexSpecs declares the secondary indexes per collection. Unique indexes
// back the invariants the services rely on: one submission per
// (assignment, student), one grade and one feedback per submission.
func indexSpecs() map[string][]mongo.IndexModel {
	unique := options.Index().SetUnique(true)

	return map[string][]mongo.IndexModel{
		CollectionUsers: {
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		CollectionAssignments: {
			{Keys: bson.D{{Key: "teacherId", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "teacherId", Value: 1}}},
		},
		CollectionSubmissions: {
			{Keys: bson.D{{Key: "assignmentId", Value: 1}, {Key: "studentId", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "studentId", Value: 1}}},
		},
		CollectionGrades: {
			{Keys: bson.D{{Key: "submissionId", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "teacherId", Value: 1}}},
		},
		CollectionFeedback: {
			{Keys: bson.D{{Key: "submissionId", Value: 1}}, Options: unique},
		},
		CollectionReviewRequest: {
			{Keys: bson.D{{Key: "gradeId", Value: 1}}},
			{Keys: bson.D{{Key: "studentId", Value: 1}}},
		},
		CollectionAnnouncements: {
			{Keys: bson.D{{Key: "scope", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "assignmentId", Value: 1}}},
		},
		CollectionDismissals: {
			{Keys: bson.D{{Key: "userId", Value: 1}}},
		},
		CollectionFiles: {
			{Keys: bson.D{{Key: "uploaderId", Value: 1}}},
		},
	}
}

// EnsureIndexes creates the declared indexes on startup. CreateMany is
// idempotent for identical specs, so repeated boots are safe.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for collection, models := range indexSpecs() {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}
	return nil
}
