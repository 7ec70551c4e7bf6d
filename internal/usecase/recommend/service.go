package recommend

import (
	"math/rand"
	"strings"

	"tender/internal/domain"
	"tender/internal/infra/metrics"
)

// Config задаёт параметры чередования discovery/similarity.
type Config struct {
	// LikeStride — каждый такой по счёту последовательный лайк
	// вознаграждается discovery-карточкой.
	LikeStride int
	// MaxAttempts — бюджет случайных попыток на один подбор. Подбор с
	// ограниченным бюджетом может не найти карточку, даже когда она есть:
	// полнота сознательно разменяна на простоту.
	MaxAttempts int
}

func (c Config) withDefaults() Config {
	if c.LikeStride <= 0 {
		c.LikeStride = 5
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 50
	}
	return c
}

// randSource отделяет источник случайности ради воспроизводимых тестов.
type randSource interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

type globalRand struct{}

func (globalRand) Intn(n int) int                     { return rand.Intn(n) }
func (globalRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// Service выбирает следующую карточку для пользователя. Сам по себе движок
// не хранит показанные карточки: seenCards передаёт вызывающая сессия.
type Service struct {
	content  domain.ContentStore
	profiles domain.ProfileStore
	sessions domain.SessionTracker
	cfg      Config
	rng      randSource
}

// NewService создаёт движок рекомендаций.
func NewService(content domain.ContentStore, profiles domain.ProfileStore, sessions domain.SessionTracker, cfg Config) *Service {
	return &Service{
		content:  content,
		profiles: profiles,
		sessions: sessions,
		cfg:      cfg.withDefaults(),
		rng:      globalRand{},
	}
}

// NextCard возвращает следующую карточку либо ok=false, когда оба режима
// подбора исчерпаны — для сессии это терминальное состояние.
func (s *Service) NextCard(userID int64, seenCards []string) (domain.ContentItem, bool) {
	profile, _ := s.profiles.Get(userID)
	state := s.sessions.Get(userID)

	seen := make(map[string]struct{}, len(seenCards))
	for _, id := range seenCards {
		seen[id] = struct{}{}
	}

	switch {
	case state.DiscoveryStreak > 0:
		s.sessions.ConsumeDiscovery(userID)
		if card, ok := s.discoveryPick(seen); ok {
			metrics.CardsServedTotal.WithLabelValues("discovery").Inc()
			return card, true
		}
		if card, ok := s.similarityPick(profile, seen); ok {
			metrics.CardsServedTotal.WithLabelValues("similarity").Inc()
			return card, true
		}
	case state.ConsecutiveLikes > 0 && state.ConsecutiveLikes%s.cfg.LikeStride == 0:
		if card, ok := s.discoveryPick(seen); ok {
			metrics.CardsServedTotal.WithLabelValues("discovery").Inc()
			return card, true
		}
		if card, ok := s.similarityPick(profile, seen); ok {
			metrics.CardsServedTotal.WithLabelValues("similarity").Inc()
			return card, true
		}
	default:
		if card, ok := s.similarityPick(profile, seen); ok {
			metrics.CardsServedTotal.WithLabelValues("similarity").Inc()
			return card, true
		}
		if card, ok := s.discoveryPick(seen); ok {
			metrics.CardsServedTotal.WithLabelValues("discovery").Inc()
			return card, true
		}
	}
	return domain.ContentItem{}, false
}

// discoveryPick равновероятно выбирает вариант, затем карточку внутри него.
func (s *Service) discoveryPick(seen map[string]struct{}) (domain.ContentItem, bool) {
	variants := make(map[domain.ContentType][]domain.ContentItem, len(domain.ContentTypes))
	for attempt := 0; attempt < s.cfg.MaxAttempts; attempt++ {
		t := domain.ContentTypes[s.rng.Intn(len(domain.ContentTypes))]
		items, ok := variants[t]
		if !ok {
			items = s.content.Items(t)
			variants[t] = items
		}
		if len(items) == 0 {
			continue
		}
		card := items[s.rng.Intn(len(items))]
		if _, shown := seen[card.ID()]; shown {
			continue
		}
		return card, true
	}
	return domain.ContentItem{}, false
}

// similarityPick ищет непросмотренную карточку, в любое поле которой входит
// случайный тег профиля. Коллекции перемешиваются локально, общий каталог
// не мутируется; совпадение первое в текущем порядке перемешивания.
func (s *Service) similarityPick(profile domain.UserProfile, seen map[string]struct{}) (domain.ContentItem, bool) {
	tags := profile.PreferenceTags()
	if len(tags) == 0 {
		return domain.ContentItem{}, false
	}

	variants := make([][]domain.ContentItem, 0, len(domain.ContentTypes))
	for _, t := range domain.ContentTypes {
		variants = append(variants, s.content.Items(t))
	}

	for attempt := 0; attempt < s.cfg.MaxAttempts; attempt++ {
		tag := strings.ToLower(tags[s.rng.Intn(len(tags))])
		for _, items := range variants {
			s.rng.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
			for _, card := range items {
				if _, shown := seen[card.ID()]; shown {
					continue
				}
				if card.MatchesTag(tag) {
					return card, true
				}
			}
		}
	}
	return domain.ContentItem{}, false
}
