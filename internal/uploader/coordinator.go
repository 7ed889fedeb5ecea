package uploader

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/caffeinepub/anime-clip-gallery-1/internal/domain/entity"
	"github.com/caffeinepub/anime-clip-gallery-1/internal/domain/repository"
)

var (
	// ErrMissingFields reports a submit before all five inputs were set;
	// nothing is sent over the network in that case.
	ErrMissingFields = errors.New("title, anime name, category and both files are required")
	// ErrNotVideo rejects a non-video file dropped on the video slot.
	ErrNotVideo = errors.New("video slot only accepts video files")
	// ErrNotImage rejects a non-image file dropped on the thumbnail slot.
	ErrNotImage = errors.New("thumbnail slot only accepts image files")
)

// File is a locally selected file waiting to be uploaded.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Form holds the text fields of the upload dialog.
type Form struct {
	Title     string
	AnimeName string
	Category  string
}

// ClipCreator is the downstream write invoked once both uploads resolve.
// Satisfied by catalog.Service.
type ClipCreator interface {
	CreateClip(title, animeName, category, videoUrl, thumbnailUrl string) (*entity.Clip, error)
}

// Notifier receives the single success or failure notification per submit.
type Notifier func(success bool, message string)

// Coordinator turns a selected video and thumbnail into durable URLs and
// creates the clip exactly once when both are available. The two uploads
// run independently; each feeds its own progress counter.
type Coordinator struct {
	store  repository.ObjectStore
	clips  ClipCreator
	notify Notifier

	mu           sync.Mutex
	form         Form
	video        *File
	thumbnail    *File
	videoPct     int
	thumbnailPct int
	open         bool
}

func NewCoordinator(store repository.ObjectStore, clips ClipCreator) *Coordinator {
	return &Coordinator{store: store, clips: clips}
}

// SetNotifier installs the notification callback.
func (c *Coordinator) SetNotifier(fn Notifier) {
	c.mu.Lock()
	c.notify = fn
	c.mu.Unlock()
}

// Open marks the upload dialog as visible.
func (c *Coordinator) Open() {
	c.mu.Lock()
	c.open = true
	c.mu.Unlock()
}

// IsOpen reports whether the upload dialog is visible.
func (c *Coordinator) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// SetFields records the text inputs as the user typed them.
func (c *Coordinator) SetFields(title, animeName, category string) {
	c.mu.Lock()
	c.form = Form{Title: title, AnimeName: animeName, Category: category}
	c.mu.Unlock()
}

// Fields returns the current text inputs.
func (c *Coordinator) Fields() Form {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// SelectVideo sets the video slot. Drag-and-drop and the file picker both
// land here; a non-video file is rejected without disturbing the current
// selection.
func (c *Coordinator) SelectVideo(f File) error {
	if !strings.HasPrefix(f.ContentType, "video/") {
		c.send(false, ErrNotVideo.Error())
		return ErrNotVideo
	}
	c.mu.Lock()
	c.video = &f
	c.mu.Unlock()
	return nil
}

// SelectThumbnail sets the thumbnail slot, rejecting non-image files.
func (c *Coordinator) SelectThumbnail(f File) error {
	if !strings.HasPrefix(f.ContentType, "image/") {
		c.send(false, ErrNotImage.Error())
		return ErrNotImage
	}
	c.mu.Lock()
	c.thumbnail = &f
	c.mu.Unlock()
	return nil
}

// Selected returns the files currently in the two slots.
func (c *Coordinator) Selected() (video, thumbnail *File) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.video, c.thumbnail
}

// Progress returns the two independent upload percentages.
func (c *Coordinator) Progress() (video, thumbnail int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.videoPct, c.thumbnailPct
}

// Submit validates the form, uploads both files concurrently and creates
// the clip once both URLs exist. On success the form is reset and the
// dialog closed; on any failure the state is left as the user had it so a
// manual retry can follow.
func (c *Coordinator) Submit() (*entity.Clip, error) {
	c.mu.Lock()
	form := c.form
	video := c.video
	thumbnail := c.thumbnail
	c.mu.Unlock()

	// Validation happens before any state is touched.
	if form.Title == "" || form.AnimeName == "" || form.Category == "" || video == nil || thumbnail == nil {
		c.send(false, ErrMissingFields.Error())
		return nil, ErrMissingFields
	}

	c.mu.Lock()
	c.videoPct = 0
	c.thumbnailPct = 0
	c.mu.Unlock()

	var videoUrl, thumbnailUrl string
	var g errgroup.Group
	g.Go(func() error {
		url, err := c.store.Upload(uuid.New().String(), video.Data, video.ContentType, c.setVideoPct)
		if err != nil {
			return err
		}
		videoUrl = url
		return nil
	})
	g.Go(func() error {
		url, err := c.store.Upload(uuid.New().String(), thumbnail.Data, thumbnail.ContentType, c.setThumbnailPct)
		if err != nil {
			return err
		}
		thumbnailUrl = url
		return nil
	})
	if err := g.Wait(); err != nil {
		c.send(false, "failed to upload clip, please try again")
		return nil, err
	}

	clip, err := c.clips.CreateClip(form.Title, form.AnimeName, form.Category, videoUrl, thumbnailUrl)
	if err != nil {
		c.send(false, "failed to upload clip, please try again")
		return nil, err
	}

	c.reset()
	c.send(true, "clip uploaded successfully")
	return clip, nil
}

// reset clears the whole dialog state after a successful submit.
func (c *Coordinator) reset() {
	c.mu.Lock()
	c.form = Form{}
	c.video = nil
	c.thumbnail = nil
	c.videoPct = 0
	c.thumbnailPct = 0
	c.open = false
	c.mu.Unlock()
}

// The counters never decrease, whatever order the store reports in.
func (c *Coordinator) setVideoPct(percent int) {
	c.mu.Lock()
	if percent > c.videoPct && percent <= 100 {
		c.videoPct = percent
	}
	c.mu.Unlock()
}

func (c *Coordinator) setThumbnailPct(percent int) {
	c.mu.Lock()
	if percent > c.thumbnailPct && percent <= 100 {
		c.thumbnailPct = percent
	}
	c.mu.Unlock()
}

func (c *Coordinator) send(success bool, message string) {
	c.mu.Lock()
	notify := c.notify
	c.mu.Unlock()
	if notify != nil {
		notify(success, message)
	}
}
