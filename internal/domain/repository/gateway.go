package repository

import "github.com/caffeinepub/anime-clip-gallery-1/internal/domain/entity"

// Gateway is the remote service of record for clips, categories and clip
// requests.
type Gateway interface {
	// Add a new clip; the gateway assigns the ID and upload date.
	AddClip(title, animeName, category, videoUrl, thumbnailUrl string) (*entity.Clip, error)
	// Delete the clip by ID, reporting whether it existed.
	DeleteClip(id int64) (bool, error)
	// Get every catalogued clip, unordered.
	GetAllClips() ([]entity.Clip, error)
	// Get the clips whose category matches exactly.
	GetClipsByCategory(category string) ([]entity.Clip, error)
	// Search clips by free text; match semantics belong to the gateway.
	SearchClips(searchText string) ([]entity.Clip, error)
	// Get the distinct categories in use, unordered.
	GetAllCategories() ([]string, error)
	// Submit a clip request; the gateway assigns ID, pending status and date.
	SubmitClipRequest(title, animeName, description, requesterContact string) (*entity.ClipRequest, error)
	// Get every clip request, unordered.
	GetAllClipRequests() ([]entity.ClipRequest, error)
	// Update the status of a request; returns nil when the ID is unknown.
	UpdateRequestStatus(requestId int64, newStatus string) (*entity.ClipRequest, error)
	// Delete the clip request by ID, reporting whether it existed.
	DeleteClipRequest(requestId int64) (bool, error)
}
