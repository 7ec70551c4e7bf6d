package memstore

import (
	"slices"
	"sync"

	"tender/internal/domain"
)

// ProfileStore хранит профили в памяти. Мутации сериализуются мьютексом,
// Get отдаёт копию со своими слайсами.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[int64]domain.UserProfile
}

// NewProfileStore создаёт хранилище с начальными профилями.
func NewProfileStore(profiles []domain.UserProfile) *ProfileStore {
	byID := make(map[int64]domain.UserProfile, len(profiles))
	for _, p := range profiles {
		byID[p.UserID] = p
	}
	return &ProfileStore{profiles: byID}
}

// Get возвращает профиль пользователя.
func (s *ProfileStore) Get(userID int64) (domain.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return domain.UserProfile{}, false
	}
	p.Interests = slices.Clone(p.Interests)
	p.PreferredActivities = slices.Clone(p.PreferredActivities)
	return p, true
}

// Put сохраняет профиль целиком.
func (s *ProfileStore) Put(profile domain.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile.Interests = slices.Clone(profile.Interests)
	profile.PreferredActivities = slices.Clone(profile.PreferredActivities)
	s.profiles[profile.UserID] = profile
}
