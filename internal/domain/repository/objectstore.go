package repository

import "github.com/caffeinepub/anime-clip-gallery-1/internal/domain/entity"

// ProgressFunc receives incremental upload completion between 0 and 100.
type ProgressFunc func(percent int)

// ObjectStore accepts raw media bytes and returns durable retrievable URLs.
type ObjectStore interface {
	// Upload an entire payload and return its durable URL. The progress
	// callback, when non-nil, observes completion as bytes are consumed.
	Upload(key string, body []byte, contentType string, progress ProgressFunc) (string, error)
	// Initiates a multipart upload and return an upload ID.
	CreateMultipart(key, contentType string) (string, error)
	// Upload a file part of a multipart upload.
	UploadPart(key, uploadId string, body []byte, length, partNumber int64) (*entity.Part, error)
	// Mark the multipart upload as completed and return the durable URL.
	CompleteMultipart(key, uploadId string, parts []*entity.Part) (string, error)
}
