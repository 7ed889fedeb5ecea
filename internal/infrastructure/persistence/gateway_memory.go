package persistence

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/caffeinepub/anime-clip-gallery-1/internal/domain/entity"
)

// MemoryGateway keeps the catalog in process memory. It backs tests and
// local development with the same contract as the remote gateway.
type MemoryGateway struct {
	mu       sync.RWMutex
	clips    map[int64]*entity.Clip
	requests map[int64]*entity.ClipRequest
	nextId   int64
	now      func() time.Time
}

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{
		clips:    make(map[int64]*entity.Clip),
		requests: make(map[int64]*entity.ClipRequest),
		now:      time.Now,
	}
}

func (g *MemoryGateway) assignId() int64 {
	g.nextId++
	return g.nextId
}

// Add a new clip, assigning its ID and upload date.
func (g *MemoryGateway) AddClip(title, animeName, category, videoUrl, thumbnailUrl string) (*entity.Clip, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	clip := entity.NewClip(g.assignId(), title, animeName, category, videoUrl, thumbnailUrl, g.now().UnixNano())
	g.clips[clip.Id] = clip
	copied := *clip
	return &copied, nil
}

// Delete the clip by ID, reporting whether it existed.
func (g *MemoryGateway) DeleteClip(id int64) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.clips[id]; !ok {
		return false, nil
	}
	delete(g.clips, id)
	return true, nil
}

// Get every catalogued clip, unordered.
func (g *MemoryGateway) GetAllClips() ([]entity.Clip, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	clips := make([]entity.Clip, 0, len(g.clips))
	for _, clip := range g.clips {
		clips = append(clips, *clip)
	}
	return clips, nil
}

// Get the clips whose category matches exactly.
func (g *MemoryGateway) GetClipsByCategory(category string) ([]entity.Clip, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	clips := make([]entity.Clip, 0)
	for _, clip := range g.clips {
		if clip.Category == category {
			clips = append(clips, *clip)
		}
	}
	return clips, nil
}

// Search clips by case-insensitive substring over title, anime name and
// category.
func (g *MemoryGateway) SearchClips(searchText string) ([]entity.Clip, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	needle := strings.ToLower(searchText)
	clips := make([]entity.Clip, 0)
	for _, clip := range g.clips {
		haystack := strings.ToLower(clip.Title + " " + clip.AnimeName + " " + clip.Category)
		if strings.Contains(haystack, needle) {
			clips = append(clips, *clip)
		}
	}
	return clips, nil
}

// Get the distinct categories in use.
func (g *MemoryGateway) GetAllCategories() ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	distinct := make(map[string]struct{})
	for _, clip := range g.clips {
		distinct[clip.Category] = struct{}{}
	}
	categories := maps.Keys(distinct)
	slices.Sort(categories)
	return categories, nil
}

// Submit a clip request with pending status.
func (g *MemoryGateway) SubmitClipRequest(title, animeName, description, requesterContact string) (*entity.ClipRequest, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	request := entity.NewClipRequest(g.assignId(), title, animeName, description, requesterContact, g.now().UnixNano())
	g.requests[request.Id] = request
	copied := *request
	return &copied, nil
}

// Get every clip request, unordered.
func (g *MemoryGateway) GetAllClipRequests() ([]entity.ClipRequest, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	requests := make([]entity.ClipRequest, 0, len(g.requests))
	for _, request := range g.requests {
		requests = append(requests, *request)
	}
	return requests, nil
}

// Update the status of a request; nil when the ID is unknown.
func (g *MemoryGateway) UpdateRequestStatus(requestId int64, newStatus string) (*entity.ClipRequest, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	request, ok := g.requests[requestId]
	if !ok {
		return nil, nil
	}
	request.Status = newStatus
	copied := *request
	return &copied, nil
}

// Delete the clip request by ID, reporting whether it existed.
func (g *MemoryGateway) DeleteClipRequest(requestId int64) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.requests[requestId]; !ok {
		return false, nil
	}
	delete(g.requests, requestId)
	return true, nil
}
