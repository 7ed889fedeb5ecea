package app

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"

	"github.com/caffeinepub/anime-clip-gallery-1/internal/catalog"
	"github.com/caffeinepub/anime-clip-gallery-1/internal/httprange"
	"github.com/caffeinepub/anime-clip-gallery-1/internal/search"
	"github.com/caffeinepub/anime-clip-gallery-1/internal/uploader"
)

const (
	MinUploadChunkSize = 256 << 10
	MaxUploadChunkSize = 5 << 20
	MaxFormSize        = 64 << 20
)

type controller struct {
	catalog   *catalog.Service
	uploads   *uploader.Coordinator
	resumable *uploader.Resumable
	policy    catalog.DisplayPolicy

	searcher *search.Debouncer
	searchMu sync.Mutex
	searched string
}

func (c *controller) commitSearch(text string) {
	c.searchMu.Lock()
	c.searched = text
	c.searchMu.Unlock()
}

func (c *controller) committedSearch() string {
	c.searchMu.Lock()
	defer c.searchMu.Unlock()
	return c.searched
}

// List the clips for the primary view: search text wins over a selected
// category, newest first. Without an explicit search parameter the text
// committed through the debounced search session applies.
func (c *controller) listClips(w http.ResponseWriter, r *http.Request) error {
	searchText := r.URL.Query().Get("search")
	if searchText == "" {
		searchText = c.committedSearch()
	}
	category := r.URL.Query().Get("category")
	clips, pending, err := c.catalog.DisplayClips(searchText, category, c.policy)
	if err != nil {
		return err
	}
	return replyJSON(w, ClipsResponse{catalog.SortByUploadDate(clips), pending}, http.StatusOK)
}

// Create a clip from already-uploaded media URLs.
func (c *controller) createClip(w http.ResponseWriter, r *http.Request) error {
	var data ClipPayload
	if err := parseJSON(r, &data); err != nil {
		return &AppError{http.StatusBadRequest, "cannot parse JSON from request body"}
	}
	if data.Title == "" || data.AnimeName == "" || data.Category == "" || data.VideoUrl == "" {
		return &AppError{http.StatusBadRequest, "title, animeName, category and videoUrl must be required"}
	}
	clip, err := c.catalog.CreateClip(data.Title, data.AnimeName, data.Category, data.VideoUrl, data.ThumbnailUrl)
	if err != nil {
		return mapCatalogErr(err)
	}
	return replyJSON(w, clip, http.StatusCreated)
}

// Delete a clip; an unknown ID reports deleted=false, not an error.
func (c *controller) deleteClip(w http.ResponseWriter, r *http.Request) error {
	id, err := pathId(r)
	if err != nil {
		return err
	}
	deleted, err := c.catalog.DeleteClip(id)
	if err != nil {
		return mapCatalogErr(err)
	}
	return replyJSON(w, DeletedResponse{deleted}, http.StatusOK)
}

// List the categories in use; view=picker derives the picker list with the
// predefined values injected and the reserved value removed.
func (c *controller) listCategories(w http.ResponseWriter, r *http.Request) error {
	categories, pending, err := c.catalog.ListAllCategories()
	if err != nil {
		return err
	}
	if r.URL.Query().Get("view") == "picker" {
		categories = catalog.PickerCategories(categories, c.policy)
	}
	return replyJSON(w, CategoriesResponse{categories, pending}, http.StatusOK)
}

func (c *controller) listRequests(w http.ResponseWriter, r *http.Request) error {
	requests, pending, err := c.catalog.ListAllClipRequests()
	if err != nil {
		return err
	}
	return replyJSON(w, RequestsResponse{requests, pending}, http.StatusOK)
}

func (c *controller) createRequest(w http.ResponseWriter, r *http.Request) error {
	var data RequestPayload
	if err := parseJSON(r, &data); err != nil {
		return &AppError{http.StatusBadRequest, "cannot parse JSON from request body"}
	}
	if data.Title == "" || data.AnimeName == "" || data.Description == "" {
		return &AppError{http.StatusBadRequest, "title, animeName and description must be required"}
	}
	request, err := c.catalog.CreateClipRequest(data.Title, data.AnimeName, data.Description, data.RequesterContact)
	if err != nil {
		return mapCatalogErr(err)
	}
	return replyJSON(w, request, http.StatusCreated)
}

// Update the free-text status of a clip request.
func (c *controller) updateRequestStatus(w http.ResponseWriter, r *http.Request) error {
	id, err := pathId(r)
	if err != nil {
		return err
	}
	var data StatusPayload
	if err := parseJSON(r, &data); err != nil {
		return &AppError{http.StatusBadRequest, "cannot parse JSON from request body"}
	}
	if data.Status == "" {
		return &AppError{http.StatusBadRequest, "status must be required"}
	}
	request, err := c.catalog.UpdateClipRequestStatus(id, data.Status)
	if err != nil {
		return mapCatalogErr(err)
	}
	if request == nil {
		return &AppError{http.StatusNotFound, "clip request does not exist"}
	}
	return replyJSON(w, request, http.StatusOK)
}

func (c *controller) deleteRequest(w http.ResponseWriter, r *http.Request) error {
	id, err := pathId(r)
	if err != nil {
		return err
	}
	deleted, err := c.catalog.DeleteClipRequest(id)
	if err != nil {
		return mapCatalogErr(err)
	}
	return replyJSON(w, DeletedResponse{deleted}, http.StatusOK)
}

// Record a keystroke of the search box. The text commits and starts
// filtering the clip list once typing has settled.
func (c *controller) typeSearch(w http.ResponseWriter, r *http.Request) error {
	var data SearchPayload
	if err := parseJSON(r, &data); err != nil {
		return &AppError{http.StatusBadRequest, "cannot parse JSON from request body"}
	}
	c.searcher.Type(data.Text)
	return replyJSON(w, SearchResponse{Text: data.Text, Committed: c.committedSearch()}, http.StatusAccepted)
}

func (c *controller) getSearch(w http.ResponseWriter, r *http.Request) error {
	return replyJSON(w, SearchResponse{Text: c.searcher.Text(), Committed: c.committedSearch()}, http.StatusOK)
}

// Clear the search box, cancelling any commit still pending.
func (c *controller) clearSearch(w http.ResponseWriter, r *http.Request) error {
	c.searcher.Stop()
	c.searcher.Type("")
	c.commitSearch("")
	return replyJSON(w, SearchResponse{}, http.StatusOK)
}

// Upload a clip end to end: multipart form with the text fields plus the
// video and thumbnail files, driven through the upload coordinator.
func (c *controller) uploadClip(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseMultipartForm(MaxFormSize); err != nil {
		return &AppError{http.StatusBadRequest, "cannot parse multipart form"}
	}
	c.uploads.Open()
	c.uploads.SetFields(r.FormValue("title"), r.FormValue("animeName"), r.FormValue("category"))

	video, err := formFile(r, "video")
	if err != nil {
		return err
	}
	if video != nil {
		if err := c.uploads.SelectVideo(*video); err != nil {
			return &AppError{http.StatusBadRequest, err.Error()}
		}
	}
	thumbnail, err := formFile(r, "thumbnail")
	if err != nil {
		return err
	}
	if thumbnail != nil {
		if err := c.uploads.SelectThumbnail(*thumbnail); err != nil {
			return &AppError{http.StatusBadRequest, err.Error()}
		}
	}

	clip, err := c.uploads.Submit()
	if err != nil {
		if errors.Is(err, uploader.ErrMissingFields) {
			return &AppError{http.StatusBadRequest, err.Error()}
		}
		return mapCatalogErr(err)
	}
	return replyJSON(w, clip, http.StatusCreated)
}

// Report the two independent upload percentages.
func (c *controller) uploadProgress(w http.ResponseWriter, r *http.Request) error {
	video, thumbnail := c.uploads.Progress()
	return replyJSON(w, ProgressResponse{video, thumbnail}, http.StatusOK)
}

// Create a resumable upload session for a large media file.
func (c *controller) createUploadSession(w http.ResponseWriter, r *http.Request) error {
	if r.Header.Get("X-Upload-Content-Length") == "" {
		return &AppError{http.StatusBadRequest, "X-Upload-Content-Length header must be required"}
	}
	if r.Header.Get("X-Upload-Content-Type") == "" {
		return &AppError{http.StatusBadRequest, "X-Upload-Content-Type header must be required"}
	}
	size, err := strconv.ParseInt(r.Header.Get("X-Upload-Content-Length"), 10, 64)
	if err != nil || size <= 0 {
		return &AppError{http.StatusBadRequest, "cannot parse X-Upload-Content-Length header"}
	}
	session, err := c.resumable.Create(size, r.Header.Get("X-Upload-Content-Type"))
	if err != nil {
		return err
	}
	return replyJSON(w, UploadSessionResponse{Id: session.Id, Percent: session.Percent()}, http.StatusOK)
}

// Upload one chunk of a resumable session.
func (c *controller) uploadChunk(w http.ResponseWriter, r *http.Request) error {
	id := mux.Vars(r)["id"]
	if id == "" {
		return &AppError{http.StatusBadRequest, "upload session ID must be required"}
	}
	length, err := strconv.ParseInt(r.Header.Get("Content-Length"), 10, 64)
	if err != nil {
		return &AppError{http.StatusBadRequest, "cannot parse Content-Length header"}
	}
	cr, err := httprange.ParseContentRange(r.Header.Get("Content-Range"))
	if err != nil {
		return &AppError{http.StatusBadRequest, err.Error()}
	}
	if length != cr.Length() {
		return &AppError{http.StatusBadRequest, "invalid length of Content-Range header"}
	}
	if length > MaxUploadChunkSize {
		return &AppError{http.StatusBadRequest, "invalid chunk size"}
	}
	if !cr.IsLastByte() {
		if length < MinUploadChunkSize {
			return &AppError{http.StatusBadRequest, "invalid chunk size"}
		}
		if length%MinUploadChunkSize > 0 {
			return &AppError{http.StatusBadRequest, "chunk size must be a multiple of the minimum chunk size"}
		}
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxUploadChunkSize))
	if err != nil {
		return err
	}
	session, completed, err := c.resumable.Put(id, body, cr)
	if err != nil {
		if errors.Is(err, uploader.ErrUnknownSession) {
			return &AppError{http.StatusNotFound, err.Error()}
		}
		if errors.Is(err, uploader.ErrSizeMismatch) {
			return &AppError{http.StatusBadRequest, err.Error()}
		}
		return err
	}
	status := http.StatusPartialContent
	if completed {
		status = http.StatusCreated
	}
	return replyJSON(w, UploadSessionResponse{Id: session.Id, Percent: session.Percent(), Url: session.Url}, status)
}

func (c *controller) getUploadSession(w http.ResponseWriter, r *http.Request) error {
	session, ok := c.resumable.Get(mux.Vars(r)["id"])
	if !ok {
		return &AppError{http.StatusNotFound, "upload session does not exist"}
	}
	return replyJSON(w, UploadSessionResponse{Id: session.Id, Percent: session.Percent(), Url: session.Url}, http.StatusOK)
}

func pathId(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, &AppError{http.StatusBadRequest, "ID must be an integer"}
	}
	return id, nil
}

func formFile(r *http.Request, field string) (*uploader.File, error) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, &AppError{http.StatusBadRequest, "cannot read " + field + " file"}
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &uploader.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// A missing gateway handle is "still connecting", distinct from a write
// the gateway rejected.
func mapCatalogErr(err error) error {
	if errors.Is(err, catalog.ErrGatewayNotReady) {
		return &AppError{http.StatusServiceUnavailable, "gateway not ready, still connecting"}
	}
	return err
}

// Parse incoming request body as JSON object.
func parseJSON(r *http.Request, data interface{}) error {
	return json.NewDecoder(r.Body).Decode(data)
}

// Respond the output with JSON format to the client.
func replyJSON(w http.ResponseWriter, data interface{}, code int) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}
