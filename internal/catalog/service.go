package catalog

import (
	"errors"

	"github.com/caffeinepub/anime-clip-gallery-1/internal/domain/entity"
	"github.com/caffeinepub/anime-clip-gallery-1/internal/domain/repository"
	"github.com/caffeinepub/anime-clip-gallery-1/internal/querycache"
)

// ErrGatewayNotReady reports a write attempted before the gateway handle
// was constructed, as opposed to a write the gateway rejected.
var ErrGatewayNotReady = errors.New("gateway not ready")

// Cache key prefixes shared by the reads and the writes that invalidate
// them.
const (
	keyClips      = "clips"
	keyCategories = "categories"
	keyRequests   = "requests"
)

// Service is the data-access layer: cached reads over the remote gateway
// and writes that invalidate the dependent reads.
type Service struct {
	gw    repository.Gateway // nil until the remote handle exists
	cache *querycache.Cache
}

func NewService(gw repository.Gateway, cache *querycache.Cache) *Service {
	return &Service{gw, cache}
}

// Ready reports whether the gateway handle has been constructed. Writes
// fail fast until it is; reads degrade to empty pending results.
func (s *Service) Ready() bool { return s.gw != nil }

func (s *Service) lookupClips(key string, fetch func() ([]entity.Clip, error)) ([]entity.Clip, bool, error) {
	v, pending, err := s.cache.Lookup(key, s.gw != nil, func() (interface{}, error) {
		return fetch()
	})
	if err != nil {
		return []entity.Clip{}, false, err
	}
	clips, _ := v.([]entity.Clip)
	if clips == nil {
		clips = []entity.Clip{}
	}
	return clips, pending, nil
}

// ListAllClips returns the full clip set, unordered. A missing gateway
// degrades to an empty result with pending set, never an error.
func (s *Service) ListAllClips() ([]entity.Clip, bool, error) {
	return s.lookupClips(keyClips, func() ([]entity.Clip, error) {
		return s.gw.GetAllClips()
	})
}

// ListClipsByCategory returns the gateway's exact-match filtered set. An
// empty category selects nothing and is answered locally.
func (s *Service) ListClipsByCategory(category string) ([]entity.Clip, bool, error) {
	if category == "" {
		return []entity.Clip{}, false, nil
	}
	return s.lookupClips(querycache.Key(keyClips, "category", category), func() ([]entity.Clip, error) {
		return s.gw.GetClipsByCategory(category)
	})
}

// SearchClips delegates full-text search to the gateway. An empty query is
// answered locally without a gateway call.
func (s *Service) SearchClips(query string) ([]entity.Clip, bool, error) {
	if query == "" {
		return []entity.Clip{}, false, nil
	}
	return s.lookupClips(querycache.Key(keyClips, "search", query), func() ([]entity.Clip, error) {
		return s.gw.SearchClips(query)
	})
}

// ListAllCategories returns the union of categories in use.
func (s *Service) ListAllCategories() ([]string, bool, error) {
	v, pending, err := s.cache.Lookup(keyCategories, s.gw != nil, func() (interface{}, error) {
		return s.gw.GetAllCategories()
	})
	if err != nil {
		return []string{}, false, err
	}
	categories, _ := v.([]string)
	if categories == nil {
		categories = []string{}
	}
	return categories, pending, nil
}

// ListAllClipRequests returns every clip request, unordered.
func (s *Service) ListAllClipRequests() ([]entity.ClipRequest, bool, error) {
	v, pending, err := s.cache.Lookup(keyRequests, s.gw != nil, func() (interface{}, error) {
		return s.gw.GetAllClipRequests()
	})
	if err != nil {
		return []entity.ClipRequest{}, false, err
	}
	requests, _ := v.([]entity.ClipRequest)
	if requests == nil {
		requests = []entity.ClipRequest{}
	}
	return requests, pending, nil
}

// CreateClip stores a new clip and invalidates the cached clip and
// category reads.
func (s *Service) CreateClip(title, animeName, category, videoUrl, thumbnailUrl string) (*entity.Clip, error) {
	if s.gw == nil {
		return nil, ErrGatewayNotReady
	}
	clip, err := s.gw.AddClip(title, animeName, category, videoUrl, thumbnailUrl)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(keyClips)
	s.cache.Invalidate(keyCategories)
	return clip, nil
}

// DeleteClip removes a clip, reporting whether it existed. Unknown IDs are
// a no-op, not an error.
func (s *Service) DeleteClip(id int64) (bool, error) {
	if s.gw == nil {
		return false, ErrGatewayNotReady
	}
	deleted, err := s.gw.DeleteClip(id)
	if err != nil {
		return false, err
	}
	s.cache.Invalidate(keyClips)
	return deleted, nil
}

// CreateClipRequest submits a wish-list entry and invalidates the cached
// request read.
func (s *Service) CreateClipRequest(title, animeName, description, contact string) (*entity.ClipRequest, error) {
	if s.gw == nil {
		return nil, ErrGatewayNotReady
	}
	request, err := s.gw.SubmitClipRequest(title, animeName, description, contact)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(keyRequests)
	return request, nil
}

// UpdateClipRequestStatus writes a new status string. Unknown IDs yield a
// nil request and no error.
func (s *Service) UpdateClipRequestStatus(id int64, newStatus string) (*entity.ClipRequest, error) {
	if s.gw == nil {
		return nil, ErrGatewayNotReady
	}
	request, err := s.gw.UpdateRequestStatus(id, newStatus)
	if err != nil {
		return nil, err
	}
	if request != nil {
		s.cache.Invalidate(keyRequests)
	}
	return request, nil
}

// DeleteClipRequest removes a wish-list entry, reporting whether it
// existed.
func (s *Service) DeleteClipRequest(id int64) (bool, error) {
	if s.gw == nil {
		return false, ErrGatewayNotReady
	}
	deleted, err := s.gw.DeleteClipRequest(id)
	if err != nil {
		return false, err
	}
	s.cache.Invalidate(keyRequests)
	return deleted, nil
}
