package suggest

import (
	"context"
	"sort"

	"tender/internal/domain"
)

// SimpleSuggester применяет эвристику без LLM: считает, сколько лайкнутых
// карточек совпало с каждым допустимым тегом, и берёт самые частые.
// Используется когда ключ внешнего API не задан.
type SimpleSuggester struct {
	MaxTags int
}

// NewSimple создаёт эвристический синтезатор.
func NewSimple(maxTags int) *SimpleSuggester {
	if maxTags <= 0 {
		maxTags = 5
	}
	return &SimpleSuggester{MaxTags: maxTags}
}

// Suggest возвращает теги, упорядоченные по числу совпавших лайков.
// При равном счёте побеждает лексикографически первый тег.
func (s *SimpleSuggester) Suggest(_ context.Context, liked []domain.ContentItem, allowed domain.TagCatalog) ([]string, error) {
	if len(liked) == 0 {
		return nil, nil
	}

	counts := make(map[string]int)
	for _, group := range [][]string{allowed.Interests, allowed.TravelStyles, allowed.PreferredActivities} {
		for _, tag := range group {
			if _, dup := counts[tag]; dup {
				continue
			}
			n := 0
			for _, card := range liked {
				if card.MatchesTag(tag) {
					n++
				}
			}
			if n > 0 {
				counts[tag] = n
			}
		}
	}

	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})
	if len(tags) > s.MaxTags {
		tags = tags[:s.MaxTags]
	}
	return tags, nil
}
