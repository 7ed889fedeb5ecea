package uploader

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/caffeinepub/anime-clip-gallery-1/internal/domain/entity"
	"github.com/caffeinepub/anime-clip-gallery-1/internal/domain/repository"
)

type fakeStore struct {
	mu        sync.Mutex
	uploads   int
	failVideo bool
}

func (s *fakeStore) Upload(key string, body []byte, contentType string, progress repository.ProgressFunc) (string, error) {
	s.mu.Lock()
	s.uploads++
	s.mu.Unlock()
	if s.failVideo && strings.HasPrefix(contentType, "video/") {
		return "", errors.New("store rejected the upload")
	}
	if progress != nil {
		for _, percent := range []int{25, 50, 75, 100} {
			progress(percent)
		}
	}
	return fmt.Sprintf("https://store/%s", key), nil
}

func (s *fakeStore) CreateMultipart(key, contentType string) (string, error) {
	return "upload-" + key, nil
}

func (s *fakeStore) UploadPart(key, uploadId string, body []byte, length, partNumber int64) (*entity.Part, error) {
	return &entity.Part{ETag: fmt.Sprintf("etag-%d", partNumber), PartNumber: partNumber}, nil
}

func (s *fakeStore) CompleteMultipart(key, uploadId string, parts []*entity.Part) (string, error) {
	return fmt.Sprintf("https://store/%s", key), nil
}

type spyCreator struct {
	mu    sync.Mutex
	calls int
	fail  bool
	last  []string
}

func (c *spyCreator) CreateClip(title, animeName, category, videoUrl, thumbnailUrl string) (*entity.Clip, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.last = []string{title, animeName, category, videoUrl, thumbnailUrl}
	if c.fail {
		return nil, errors.New("gateway rejected the clip")
	}
	return &entity.Clip{Id: 1, Title: title, AnimeName: animeName, Category: category, VideoUrl: videoUrl, ThumbnailUrl: thumbnailUrl}, nil
}

func videoFile() File {
	return File{Name: "clip.mp4", ContentType: "video/mp4", Data: []byte("video-bytes")}
}

func imageFile() File {
	return File{Name: "thumb.png", ContentType: "image/png", Data: []byte("image-bytes")}
}

func fillForm(c *Coordinator) {
	c.SetFields("Epic Battle", "Demon Slayer", "english")
	c.SelectVideo(videoFile())
	c.SelectThumbnail(imageFile())
}

func TestSubmitSuccess(t *testing.T) {
	store := &fakeStore{}
	creator := &spyCreator{}
	c := NewCoordinator(store, creator)
	c.Open()
	fillForm(c)

	clip, err := c.Submit()
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if clip == nil || clip.VideoUrl == "" || clip.ThumbnailUrl == "" {
		t.Fatalf("Submit() clip = %+v, want both URLs set", clip)
	}
	if creator.calls != 1 {
		t.Errorf("CreateClip called %d times, want exactly 1", creator.calls)
	}

	// Success resets the entire dialog state.
	if form := c.Fields(); form != (Form{}) {
		t.Errorf("form after success = %+v, want empty", form)
	}
	video, thumbnail := c.Selected()
	if video != nil || thumbnail != nil {
		t.Error("file selections must be cleared after success")
	}
	vp, tp := c.Progress()
	if vp != 0 || tp != 0 {
		t.Errorf("progress after success = %d/%d, want 0/0", vp, tp)
	}
	if c.IsOpen() {
		t.Error("dialog must close after success")
	}
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name string
		fill func(c *Coordinator)
	}{
		{"empty form", func(c *Coordinator) {}},
		{"missing title", func(c *Coordinator) {
			c.SetFields("", "Demon Slayer", "english")
			c.SelectVideo(videoFile())
			c.SelectThumbnail(imageFile())
		}},
		{"missing category", func(c *Coordinator) {
			c.SetFields("Epic Battle", "Demon Slayer", "")
			c.SelectVideo(videoFile())
			c.SelectThumbnail(imageFile())
		}},
		{"missing video", func(c *Coordinator) {
			c.SetFields("Epic Battle", "Demon Slayer", "english")
			c.SelectThumbnail(imageFile())
		}},
		{"missing thumbnail", func(c *Coordinator) {
			c.SetFields("Epic Battle", "Demon Slayer", "english")
			c.SelectVideo(videoFile())
		}},
	}
	for _, tt := range tests {
		store := &fakeStore{}
		creator := &spyCreator{}
		c := NewCoordinator(store, creator)
		tt.fill(c)

		_, err := c.Submit()
		if !errors.Is(err, ErrMissingFields) {
			t.Errorf("%s: Submit() error = %v, want ErrMissingFields", tt.name, err)
		}
		if store.uploads != 0 {
			t.Errorf("%s: %d uploads before validation passed", tt.name, store.uploads)
		}
		if creator.calls != 0 {
			t.Errorf("%s: CreateClip called on invalid form", tt.name)
		}
	}
}

func TestSubmitVideoFailureBlocksCreation(t *testing.T) {
	store := &fakeStore{failVideo: true}
	creator := &spyCreator{}
	c := NewCoordinator(store, creator)
	c.Open()
	fillForm(c)

	_, err := c.Submit()
	if err == nil {
		t.Fatal("Submit() must fail when the video upload fails")
	}
	// The thumbnail upload succeeding on its own must not create the clip.
	if creator.calls != 0 {
		t.Errorf("CreateClip called %d times after a failed video upload, want 0", creator.calls)
	}

	// Failure preserves the form for a manual retry.
	if form := c.Fields(); form.Title != "Epic Battle" {
		t.Errorf("form after failure = %+v, want preserved", form)
	}
	video, thumbnail := c.Selected()
	if video == nil || thumbnail == nil {
		t.Error("file selections must survive a failed submit")
	}
	if !c.IsOpen() {
		t.Error("dialog must stay open after a failed submit")
	}
}

func TestSubmitGatewayRejection(t *testing.T) {
	store := &fakeStore{}
	creator := &spyCreator{fail: true}
	c := NewCoordinator(store, creator)
	c.Open()
	fillForm(c)

	var failures int
	c.SetNotifier(func(success bool, message string) {
		if !success {
			failures++
		}
	})

	if _, err := c.Submit(); err == nil {
		t.Fatal("Submit() must surface the gateway rejection")
	}
	if failures != 1 {
		t.Errorf("failure notifications = %d, want a single one", failures)
	}
	if form := c.Fields(); form.AnimeName != "Demon Slayer" {
		t.Errorf("form after rejection = %+v, want preserved", form)
	}
}

func TestFailedValidationPreservesProgress(t *testing.T) {
	store := &fakeStore{failVideo: true}
	c := NewCoordinator(store, &spyCreator{})
	c.Open()
	fillForm(c)

	// A failed submit leaves the thumbnail counter where the upload got to.
	if _, err := c.Submit(); err == nil {
		t.Fatal("Submit() must fail when the video upload fails")
	}
	_, before := c.Progress()
	if before == 0 {
		t.Fatal("thumbnail progress = 0 after its upload succeeded")
	}

	// An invalid submit must not touch the counters either.
	c.SetFields("", "Demon Slayer", "english")
	if _, err := c.Submit(); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("Submit() error = %v, want ErrMissingFields", err)
	}
	if _, after := c.Progress(); after != before {
		t.Errorf("thumbnail progress = %d after a rejected submit, want %d", after, before)
	}
}

func TestSelectRejectsWrongMime(t *testing.T) {
	c := NewCoordinator(&fakeStore{}, &spyCreator{})
	c.SelectVideo(videoFile())
	c.SelectThumbnail(imageFile())

	if err := c.SelectVideo(File{Name: "poster.png", ContentType: "image/png"}); !errors.Is(err, ErrNotVideo) {
		t.Errorf("SelectVideo(image) error = %v, want ErrNotVideo", err)
	}
	if err := c.SelectThumbnail(File{Name: "clip.mp4", ContentType: "video/mp4"}); !errors.Is(err, ErrNotImage) {
		t.Errorf("SelectThumbnail(video) error = %v, want ErrNotImage", err)
	}

	// A rejected drop must not disturb the existing selection.
	video, thumbnail := c.Selected()
	if video == nil || video.Name != "clip.mp4" {
		t.Errorf("video selection = %+v, want the original file", video)
	}
	if thumbnail == nil || thumbnail.Name != "thumb.png" {
		t.Errorf("thumbnail selection = %+v, want the original file", thumbnail)
	}
}

func TestProgressMonotonic(t *testing.T) {
	c := NewCoordinator(&fakeStore{}, &spyCreator{})

	c.setVideoPct(40)
	c.setVideoPct(30)
	c.setVideoPct(101)
	if vp, _ := c.Progress(); vp != 40 {
		t.Errorf("video progress = %d, want 40 (never decreasing, capped at 100)", vp)
	}

	c.setThumbnailPct(100)
	c.setThumbnailPct(99)
	if _, tp := c.Progress(); tp != 100 {
		t.Errorf("thumbnail progress = %d, want 100", tp)
	}
}
