package models

import "time"

// StoredFile records who uploaded an object and what the store returned for
// it. The public ID doubles as the document identity.
type StoredFile struct {
	ID         string    `bson:"_id" json:"public_id"`
	UploaderID string    `bson:"uploaderId" json:"uploader_id"`
	FileName   string    `bson:"fileName" json:"file_name"`
	Format     string    `bson:"format,omitempty" json:"format,omitempty"`
	Bytes      int       `bson:"bytes,omitempty" json:"bytes,omitempty"`
	URL        string    `bson:"url" json:"url"`
	CreatedAt  time.Time `bson:"createdAt" json:"created_at"`
}

// UploadedBy reports whether the file belongs to the given user.
func (f StoredFile) UploadedBy(userID string) bool {
	return f.UploaderID == userID
}
