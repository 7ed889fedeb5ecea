package uploader

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/caffeinepub/anime-clip-gallery-1/internal/domain/entity"
	"github.com/caffeinepub/anime-clip-gallery-1/internal/domain/repository"
	"github.com/caffeinepub/anime-clip-gallery-1/internal/httprange"
)

// ErrUnknownSession reports a chunk for a session that was never created.
var ErrUnknownSession = errors.New("unknown upload session")

// ErrSizeMismatch reports a chunk whose Content-Range size disagrees with
// the session.
var ErrSizeMismatch = errors.New("chunk size does not match upload session")

// Session tracks one resumable object-store upload. Url is set once the
// final part completes.
type Session struct {
	Id          string
	Size        int64
	ContentType string
	UploadId    string
	Parts       []*entity.Part
	Progress    int
	Url         string
}

// Percent reports how much of the payload has been received, per the byte
// window of the last accepted chunk.
func (s *Session) Percent() int { return s.Progress }

// Resumable hands out upload sessions and feeds their chunks to the
// object store, for files too large for a single-shot upload.
type Resumable struct {
	store repository.ObjectStore

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewResumable(store repository.ObjectStore) *Resumable {
	return &Resumable{store: store, sessions: make(map[string]*Session)}
}

// Create initiates a multipart upload and registers its session.
func (r *Resumable) Create(size int64, contentType string) (*Session, error) {
	id := uuid.New().String()
	uploadId, err := r.store.CreateMultipart(id, contentType)
	if err != nil {
		return nil, err
	}
	s := &Session{Id: id, Size: size, ContentType: contentType, UploadId: uploadId}
	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()
	copied := *s
	return &copied, nil
}

// Get returns a snapshot of the session, if it exists.
func (r *Resumable) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	copied := *s
	return &copied, true
}

// Put stores one chunk. When the chunk carries the last byte the upload
// is completed and the session's durable URL is recorded; completed
// reports that transition.
func (r *Resumable) Put(id string, body []byte, cr *httprange.ContentRange) (snapshot *Session, completed bool, err error) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return nil, false, ErrUnknownSession
	}
	if cr.Size != s.Size {
		return nil, false, ErrSizeMismatch
	}

	part, err := r.store.UploadPart(s.Id, s.UploadId, body, int64(len(body)), cr.CurrentPart())
	if err != nil {
		return nil, false, err
	}

	r.mu.Lock()
	s.Parts = append(s.Parts, part)
	if p := cr.Percent(); p > s.Progress {
		s.Progress = p
	}
	parts := append([]*entity.Part(nil), s.Parts...)
	r.mu.Unlock()

	if !cr.IsLastByte() {
		copied := *s
		return &copied, false, nil
	}

	url, err := r.store.CompleteMultipart(s.Id, s.UploadId, parts)
	if err != nil {
		return nil, false, err
	}
	r.mu.Lock()
	s.Url = url
	copied := *s
	r.mu.Unlock()
	return &copied, true, nil
}
