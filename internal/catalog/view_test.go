package catalog

import (
	"testing"

	"github.com/caffeinepub/anime-clip-gallery-1/internal/domain/entity"
	"github.com/caffeinepub/anime-clip-gallery-1/internal/infrastructure/persistence"
	"github.com/caffeinepub/anime-clip-gallery-1/internal/querycache"
)

func seededService(t *testing.T) *Service {
	t.Helper()
	s := NewService(persistence.NewMemoryGateway(), querycache.New())
	seeds := []struct{ title, anime, category string }{
		{"Epic Battle", "Demon Slayer", "english"},
		{"Water Breathing", "Demon Slayer", "twixtor"},
		{"Quiet Scene", "Your Name", "action"},
	}
	for _, seed := range seeds {
		if _, err := s.CreateClip(seed.title, seed.anime, seed.category, "v", "t"); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func titles(clips []entity.Clip) map[string]bool {
	set := make(map[string]bool, len(clips))
	for _, c := range clips {
		set[c.Title] = true
	}
	return set
}

func TestDisplayPrecedence(t *testing.T) {
	s := seededService(t)
	policy := DisplayPolicy{} // no hiding, precedence only

	// Search beats category beats the full set.
	clips, _, _ := s.DisplayClips("quiet", "english", policy)
	if got := titles(clips); len(clips) != 1 || !got["Quiet Scene"] {
		t.Errorf("search path = %v, want only the search match", got)
	}
	clips, _, _ = s.DisplayClips("", "english", policy)
	if got := titles(clips); len(clips) != 1 || !got["Epic Battle"] {
		t.Errorf("category path = %v, want only the english clip", got)
	}
	clips, _, _ = s.DisplayClips("", "", policy)
	if len(clips) != 3 {
		t.Errorf("default path = %d clips, want all 3", len(clips))
	}
}

func TestDisplayReservedCategoryPolicy(t *testing.T) {
	s := seededService(t)
	policy := DefaultDisplayPolicy()

	// Hidden from the default path.
	clips, _, _ := s.DisplayClips("", "", policy)
	if got := titles(clips); got["Water Breathing"] || len(clips) != 2 {
		t.Errorf("default path = %v, reserved category must be hidden", got)
	}

	// Hidden from the search path.
	clips, _, _ = s.DisplayClips("demon", "", policy)
	if got := titles(clips); got["Water Breathing"] || !got["Epic Battle"] {
		t.Errorf("search path = %v, reserved category must be hidden", got)
	}

	// Still reachable through an explicit category filter.
	clips, _, _ = s.DisplayClips("", entity.CategoryTwixtor, policy)
	if got := titles(clips); len(clips) != 1 || !got["Water Breathing"] {
		t.Errorf("explicit filter = %v, reserved category must stay reachable", got)
	}
}

func TestSortByUploadDate(t *testing.T) {
	clips := []entity.Clip{
		{Id: 1, Title: "oldest", UploadDate: 100},
		{Id: 2, Title: "newest", UploadDate: 300},
		{Id: 3, Title: "middle", UploadDate: 200},
	}
	sorted := SortByUploadDate(clips)

	want := []string{"newest", "middle", "oldest"}
	for i, title := range want {
		if sorted[i].Title != title {
			t.Fatalf("sorted order = %v, want %v", sorted, want)
		}
	}
	// The input order is untouched.
	if clips[0].Title != "oldest" {
		t.Error("SortByUploadDate must not mutate its input")
	}
}

func TestPickerCategories(t *testing.T) {
	policy := DefaultDisplayPolicy()

	got := PickerCategories([]string{"english", "action", "twixtor"}, policy)
	want := []string{"english", "japanese", "action"}
	if len(got) != len(want) {
		t.Fatalf("PickerCategories() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("PickerCategories() = %v, want %v", got, want)
		}
	}

	// Predefined values appear even with zero clips.
	got = PickerCategories(nil, policy)
	if len(got) != 2 || got[0] != entity.CategoryEnglish || got[1] != entity.CategoryJapanese {
		t.Errorf("PickerCategories(nil) = %v, want the predefined pair", got)
	}
}
