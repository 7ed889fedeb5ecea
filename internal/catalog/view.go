package catalog

import (
	"golang.org/x/exp/slices"

	"github.com/caffeinepub/anime-clip-gallery-1/internal/domain/entity"
)

// DisplayPolicy controls which display paths hide the reserved category.
type DisplayPolicy struct {
	Reserved       string
	HideInDefault  bool
	HideInSearch   bool
	HideInCategory bool
}

// DefaultDisplayPolicy hides the reserved category from the default and
// search paths but keeps it reachable through explicit category filtering.
func DefaultDisplayPolicy() DisplayPolicy {
	return DisplayPolicy{
		Reserved:      entity.CategoryTwixtor,
		HideInDefault: true,
		HideInSearch:  true,
	}
}

// DisplayClips resolves the composed read behind the primary view:
// committed search text wins over the selected category, which wins over
// the full set. The policy removes the reserved category from the paths
// it names; this is display policy, not a gateway capability.
func (s *Service) DisplayClips(search, category string, policy DisplayPolicy) ([]entity.Clip, bool, error) {
	switch {
	case search != "":
		clips, pending, err := s.SearchClips(search)
		if policy.HideInSearch {
			clips = withoutCategory(clips, policy.Reserved)
		}
		return clips, pending, err
	case category != "":
		clips, pending, err := s.ListClipsByCategory(category)
		if policy.HideInCategory {
			clips = withoutCategory(clips, policy.Reserved)
		}
		return clips, pending, err
	default:
		clips, pending, err := s.ListAllClips()
		if policy.HideInDefault {
			clips = withoutCategory(clips, policy.Reserved)
		}
		return clips, pending, err
	}
}

func withoutCategory(clips []entity.Clip, category string) []entity.Clip {
	if category == "" {
		return clips
	}
	kept := make([]entity.Clip, 0, len(clips))
	for _, clip := range clips {
		if clip.Category != category {
			kept = append(kept, clip)
		}
	}
	return kept
}

// SortByUploadDate orders clips newest first. Display order is a view
// concern; the gateway returns clips unordered.
func SortByUploadDate(clips []entity.Clip) []entity.Clip {
	sorted := slices.Clone(clips)
	slices.SortStableFunc(sorted, func(a, b entity.Clip) bool {
		return a.UploadDate > b.UploadDate
	})
	return sorted
}

// PickerCategories derives the category-picker list: the predefined
// categories first, then the gateway's categories with duplicates and the
// reserved value removed.
func PickerCategories(categories []string, policy DisplayPolicy) []string {
	merged := []string{entity.CategoryEnglish, entity.CategoryJapanese}
	for _, category := range categories {
		if category == policy.Reserved || slices.Contains(merged, category) {
			continue
		}
		merged = append(merged, category)
	}
	return merged
}
