package repository

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// Collection names. Relationships between collections are maintained by
// convention through ID fields; the store enforces no foreign keys.
const (
	CollectionUsers         = "users"
	CollectionAssignments   = "assignments"
	CollectionSubmissions   = "submissions"
	CollectionGrades        = "grades"
	CollectionFeedback      = "feedback"
	CollectionReviewRequest = "gradeReviewRequests"
	CollectionAnnouncements = "announcements"
	CollectionDismissals    = "announcementDismissals"
	CollectionFiles         = "files"
)

// ErrNotFound indicates the referenced document does not exist.
var ErrNotFound = errors.New("document not found")

// ErrDuplicate indicates a document with the same identity already exists.
var ErrDuplicate = errors.New("document already exists")

// ErrConflict indicates a conditional update matched no document because the
// guarded field no longer holds its expected value.
var ErrConflict = errors.New("conditional update conflict")

// maxInClause bounds the number of values placed in a single "in" filter;
// larger ID sets are chunked and the partial results concatenated.
const maxInClause = 10

// chunkIDs splits ids into groups of at most maxInClause values.
func chunkIDs(ids []string) [][]string {
	if len(ids) == 0 {
		return nil
	}

	chunks := make([][]string, 0, (len(ids)+maxInClause-1)/maxInClause)
	for start := 0; start < len(ids); start += maxInClause {
		end := start + maxInClause
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}
