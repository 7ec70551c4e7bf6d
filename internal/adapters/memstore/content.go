package memstore

import "tender/internal/domain"

// ContentStore хранит неизменяемые коллекции карточек по вариантам.
type ContentStore struct {
	byType map[domain.ContentType][]domain.ContentItem
}

// NewContentStore раскладывает карточки по вариантам.
func NewContentStore(items []domain.ContentItem) *ContentStore {
	byType := make(map[domain.ContentType][]domain.ContentItem, len(domain.ContentTypes))
	for _, item := range items {
		byType[item.Type] = append(byType[item.Type], item)
	}
	return &ContentStore{byType: byType}
}

// Items возвращает копию коллекции варианта: вызывающий может свободно
// перемешивать её, общий каталог остаётся нетронутым.
func (s *ContentStore) Items(t domain.ContentType) []domain.ContentItem {
	src := s.byType[t]
	if len(src) == 0 {
		return nil
	}
	out := make([]domain.ContentItem, len(src))
	copy(out, src)
	return out
}
