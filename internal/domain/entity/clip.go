package entity

const (
	CategoryEnglish  = "english"
	CategoryJapanese = "japanese"
	// The reserved category excluded from the default browsing views.
	CategoryTwixtor = "twixtor"
)

const (
	RequestStatusPending    = "pending"
	RequestStatusInProgress = "in-progress"
	RequestStatusCompleted  = "completed"
)

// The entity of catalogued anime clip.
type Clip struct {
	Id           int64  `json:"id"`
	Title        string `json:"title"`
	AnimeName    string `json:"animeName"`
	Category     string `json:"category"`
	VideoUrl     string `json:"videoUrl"`
	ThumbnailUrl string `json:"thumbnailUrl"` // empty means no thumbnail
	UploadDate   int64  `json:"uploadDate"`   // creation time in nanoseconds
}

func NewClip(id int64, title, animeName, category, videoUrl, thumbnailUrl string, uploadDate int64) *Clip {
	return &Clip{
		Id:           id,
		Title:        title,
		AnimeName:    animeName,
		Category:     category,
		VideoUrl:     videoUrl,
		ThumbnailUrl: thumbnailUrl,
		UploadDate:   uploadDate,
	}
}

// A user-submitted wish for a clip not yet in the catalog. Status is an
// open string set; any value may be written by an update.
type ClipRequest struct {
	Id               int64  `json:"id"`
	Title            string `json:"title"`
	AnimeName        string `json:"animeName"`
	Description      string `json:"description"`
	RequesterContact string `json:"requesterContact"` // may be empty
	Status           string `json:"status"`
	RequestDate      int64  `json:"requestDate"`
}

func NewClipRequest(id int64, title, animeName, description, requesterContact string, requestDate int64) *ClipRequest {
	return &ClipRequest{
		Id:               id,
		Title:            title,
		AnimeName:        animeName,
		Description:      description,
		RequesterContact: requesterContact,
		Status:           RequestStatusPending,
		RequestDate:      requestDate,
	}
}
