package domain

import (
	"slices"
	"sort"
)

// Поля каталога, из которых собираются допустимые теги по категориям профиля.
var (
	interestFields = map[ContentType][]string{
		ContentActivity: {"Category"},
		ContentDish:     {"Type"},
	}
	travelStyleFields = map[ContentType][]string{
		ContentActivity:      {"TypeOfTraveler"},
		ContentAccommodation: {"Type"},
	}
	preferredActivityFields = map[ContentType][]string{
		ContentActivity: {"For"},
		ContentDish:     {"BestFor"},
	}
)

// TagCatalog хранит допустимые теги по трём категориям профиля.
// Собирается один раз при старте; пересечения между категориями допустимы.
type TagCatalog struct {
	Interests           []string
	TravelStyles        []string
	PreferredActivities []string
}

// HasInterest сообщает, входит ли тег в каталог интересов.
func (c TagCatalog) HasInterest(tag string) bool {
	return slices.Contains(c.Interests, tag)
}

// HasTravelStyle сообщает, входит ли тег в каталог стилей путешествий.
func (c TagCatalog) HasTravelStyle(tag string) bool {
	return slices.Contains(c.TravelStyles, tag)
}

// HasPreferredActivity сообщает, входит ли тег в каталог занятий.
func (c TagCatalog) HasPreferredActivity(tag string) bool {
	return slices.Contains(c.PreferredActivities, tag)
}

// BuildTagCatalog собирает каталог тегов из карточек контента.
// Значения-null и пустые строки не попадают в каталог.
func BuildTagCatalog(items []ContentItem) TagCatalog {
	return TagCatalog{
		Interests:           collectTags(items, interestFields),
		TravelStyles:        collectTags(items, travelStyleFields),
		PreferredActivities: collectTags(items, preferredActivityFields),
	}
}

func collectTags(items []ContentItem, fields map[ContentType][]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, item := range items {
		for _, field := range fields[item.Type] {
			val, ok := item.Fields[field].(string)
			if !ok || val == "" {
				continue
			}
			if _, dup := seen[val]; dup {
				continue
			}
			seen[val] = struct{}{}
			out = append(out, val)
		}
	}
	sort.Strings(out)
	return out
}
