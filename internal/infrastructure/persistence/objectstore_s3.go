package persistence

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"github.com/caffeinepub/anime-clip-gallery-1/internal/domain/entity"
	"github.com/caffeinepub/anime-clip-gallery-1/internal/domain/repository"
)

// Payload bytes are handed to the uploader in chunks of this size so the
// progress callback sees intermediate percentages.
const uploadChunkSize = 256 << 10

// S3ObjectStore uploads media to AWS S3 and derives durable URLs from the
// bucket and object key.
type S3ObjectStore struct {
	s3Uploader *s3manager.Uploader
	bucket     string
}

func NewS3ObjectStore(sess *session.Session, bucket string) *S3ObjectStore {
	return &S3ObjectStore{s3manager.NewUploader(sess), bucket}
}

// Upload an entire payload and return its durable URL.
func (s *S3ObjectStore) Upload(key string, body []byte, contentType string, progress repository.ProgressFunc) (string, error) {
	_, err := s.s3Uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        newProgressReader(body, progress),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	if progress != nil {
		progress(100)
	}
	return s.URL(key), nil
}

// Initiates a multipart upload and return an upload ID.
func (s *S3ObjectStore) CreateMultipart(key, contentType string) (string, error) {
	out, err := s.s3Uploader.S3.CreateMultipartUpload(&s3.CreateMultipartUploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	return *out.UploadId, nil
}

// Upload a file part of a multipart upload.
func (s *S3ObjectStore) UploadPart(key, uploadId string, body []byte, length, partNumber int64) (*entity.Part, error) {
	out, err := s.s3Uploader.S3.UploadPart(&s3.UploadPartInput{
		Body:          bytes.NewReader(body),
		Bucket:        aws.String(s.bucket),
		ContentLength: aws.Int64(length),
		Key:           aws.String(key),
		PartNumber:    aws.Int64(partNumber),
		UploadId:      aws.String(uploadId),
	})
	if err != nil {
		return nil, err
	}
	return &entity.Part{ETag: *out.ETag, PartNumber: partNumber}, nil
}

// Mark the multipart upload as completed and return the durable URL.
func (s *S3ObjectStore) CompleteMultipart(key, uploadId string, parts []*entity.Part) (string, error) {
	var fileParts []*s3.CompletedPart
	for _, part := range parts {
		fileParts = append(fileParts, &s3.CompletedPart{
			ETag:       aws.String(part.ETag),
			PartNumber: aws.Int64(part.PartNumber),
		})
	}
	_, err := s.s3Uploader.S3.CompleteMultipartUpload(&s3.CompleteMultipartUploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		MultipartUpload: &s3.CompletedMultipartUpload{
			Parts: fileParts,
		},
		UploadId: aws.String(uploadId),
	})
	if err != nil {
		return "", err
	}
	return s.URL(key), nil
}

// URL returns the durable location of an object in the bucket.
func (s *S3ObjectStore) URL(key string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
}

// progressReader feeds the payload chunk by chunk and reports the
// percentage consumed. The reported value never decreases even when the
// uploader reads parts concurrently.
type progressReader struct {
	mu       sync.Mutex
	payload  *bytes.Reader
	total    int64
	read     int64
	last     int
	progress repository.ProgressFunc
}

func newProgressReader(body []byte, progress repository.ProgressFunc) io.Reader {
	return &progressReader{
		payload:  bytes.NewReader(body),
		total:    int64(len(body)),
		progress: progress,
	}
}

func (r *progressReader) Read(p []byte) (int, error) {
	if len(p) > uploadChunkSize {
		p = p[:uploadChunkSize]
	}
	r.mu.Lock()
	n, err := r.payload.Read(p)
	r.read += int64(n)
	percent := r.last
	if r.total > 0 {
		percent = int(r.read * 100 / r.total)
	}
	report := r.progress != nil && percent > r.last
	if report {
		r.last = percent
	}
	progress := r.progress
	r.mu.Unlock()
	if report {
		progress(percent)
	}
	return n, err
}
