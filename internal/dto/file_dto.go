package dto

// FileUploadResponse describes a stored object after a successful upload.
type FileUploadResponse struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
	Format   string `json:"format,omitempty"`
	Bytes    int    `json:"bytes,omitempty"`
}

// SignedURLResponse carries a time-limited delivery URL for a stored object.
type SignedURLResponse struct {
	PublicID  string `json:"public_id"`
	SignedURL string `json:"signed_url"`
	ExpiresIn int    `json:"expires_in_seconds"`
}
