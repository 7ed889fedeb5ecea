package persistence

import (
	"crypto/md5"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/caffeinepub/anime-clip-gallery-1/internal/domain/entity"
	"github.com/caffeinepub/anime-clip-gallery-1/internal/domain/repository"
)

// MemoryObjectStore keeps uploaded media in process memory. It backs tests
// and local development with the same contract as the S3 store.
type MemoryObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	parts   map[string][]*entity.Part
	pending map[string][]byte
}

func NewMemoryObjectStore() *MemoryObjectStore {
	return &MemoryObjectStore{
		objects: make(map[string][]byte),
		parts:   make(map[string][]*entity.Part),
		pending: make(map[string][]byte),
	}
}

// Upload stores an entire payload and returns its in-memory URL. Progress
// is reported in chunk-sized steps the way the S3 uploader would.
func (s *MemoryObjectStore) Upload(key string, body []byte, contentType string, progress repository.ProgressFunc) (string, error) {
	for read := 0; read < len(body) && progress != nil; {
		read += uploadChunkSize
		if read > len(body) {
			read = len(body)
		}
		progress(read * 100 / len(body))
	}
	s.mu.Lock()
	s.objects[key] = append([]byte(nil), body...)
	s.mu.Unlock()
	if progress != nil {
		progress(100)
	}
	return s.URL(key), nil
}

// CreateMultipart registers a pending multipart upload under a fresh ID.
func (s *MemoryObjectStore) CreateMultipart(key, contentType string) (string, error) {
	uploadId := uuid.New().String()
	s.mu.Lock()
	s.pending[uploadId] = nil
	s.mu.Unlock()
	return uploadId, nil
}

// UploadPart appends one part to a pending multipart upload.
func (s *MemoryObjectStore) UploadPart(key, uploadId string, body []byte, length, partNumber int64) (*entity.Part, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[uploadId]; !ok {
		return nil, fmt.Errorf("no multipart upload with ID %q", uploadId)
	}
	s.pending[uploadId] = append(s.pending[uploadId], body[:length]...)
	part := &entity.Part{ETag: fmt.Sprintf("%x", md5.Sum(body[:length])), PartNumber: partNumber}
	s.parts[uploadId] = append(s.parts[uploadId], part)
	return part, nil
}

// CompleteMultipart promotes the accumulated parts to a stored object.
func (s *MemoryObjectStore) CompleteMultipart(key, uploadId string, parts []*entity.Part) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.pending[uploadId]
	if !ok {
		return "", fmt.Errorf("no multipart upload with ID %q", uploadId)
	}
	if len(parts) != len(s.parts[uploadId]) {
		return "", fmt.Errorf("multipart upload %q completed with %d of %d parts", uploadId, len(parts), len(s.parts[uploadId]))
	}
	s.objects[key] = body
	delete(s.pending, uploadId)
	delete(s.parts, uploadId)
	return s.URL(key), nil
}

// Object returns the stored payload for a key.
func (s *MemoryObjectStore) Object(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.objects[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), body...), true
}

// URL returns the in-memory location of an object.
func (s *MemoryObjectStore) URL(key string) string {
	return "memory://clips/" + key
}
