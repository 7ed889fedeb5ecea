package app

import "github.com/caffeinepub/anime-clip-gallery-1/internal/domain/entity"

type ClipPayload struct {
	Title        string `json:"title"`
	AnimeName    string `json:"animeName"`
	Category     string `json:"category"`
	VideoUrl     string `json:"videoUrl"`
	ThumbnailUrl string `json:"thumbnailUrl"`
}

type RequestPayload struct {
	Title            string `json:"title"`
	AnimeName        string `json:"animeName"`
	Description      string `json:"description"`
	RequesterContact string `json:"requesterContact"`
}

type StatusPayload struct {
	Status string `json:"status"`
}

type ClipsResponse struct {
	Clips   []entity.Clip `json:"clips"`
	Pending bool          `json:"pending"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
	Pending    bool     `json:"pending"`
}

type RequestsResponse struct {
	Requests []entity.ClipRequest `json:"requests"`
	Pending  bool                 `json:"pending"`
}

type SearchPayload struct {
	Text string `json:"text"`
}

type SearchResponse struct {
	Text      string `json:"text"`
	Committed string `json:"committed"`
}

type DeletedResponse struct {
	Deleted bool `json:"deleted"`
}

type ProgressResponse struct {
	Video     int `json:"video"`
	Thumbnail int `json:"thumbnail"`
}

type UploadSessionResponse struct {
	Id      string `json:"id"`
	Percent int    `json:"percent"`
	Url     string `json:"url,omitempty"`
}
