package preferences

import (
	"context"
	"slices"

	"github.com/rs/zerolog"

	"tender/internal/domain"
	"tender/internal/infra/metrics"
)

const defaultLikesWindow = 10

// Service реализует синтез предпочтений: собирает последние лайки,
// запрашивает кандидатов у Suggester и применяет подтверждённые теги
// к профилю.
type Service struct {
	profiles  domain.ProfileStore
	swipes    domain.SwipeLog
	suggester domain.Suggester
	catalog   domain.TagCatalog
	window    int
	log       zerolog.Logger
}

// NewService создаёт сервис синтеза предпочтений.
func NewService(profiles domain.ProfileStore, swipes domain.SwipeLog, suggester domain.Suggester, catalog domain.TagCatalog, window int, log zerolog.Logger) *Service {
	if window <= 0 {
		window = defaultLikesWindow
	}
	return &Service{profiles: profiles, swipes: swipes, suggester: suggester, catalog: catalog, window: window, log: log}
}

// Propose возвращает кандидатов тегов по последним лайкам пользователя.
// Без лайков внешний вызов не выполняется. Сбой деградирует до пустого
// списка: поток свайпов не прерывается.
func (s *Service) Propose(ctx context.Context, userID int64) []string {
	liked := s.swipes.RecentLikes(userID, s.window)
	if len(liked) == 0 {
		return nil
	}

	metrics.SuggestionRequestsTotal.Inc()
	tags, err := s.suggester.Suggest(ctx, liked, s.catalog)
	if err != nil {
		metrics.SuggestionFailuresTotal.Inc()
		s.log.Warn().Err(err).Int64("user_id", userID).Msg("preferences: синтез тегов не удался")
		return nil
	}
	return tags
}

// Confirm применяет подтверждённые пользователем теги к профилю.
// Тег действует в каждой категории каталога, куда он входит; теги вне
// каталога игнорируются. Повторное подтверждение не меняет профиль.
func (s *Service) Confirm(userID int64, confirmed []string) domain.UserProfile {
	profile, ok := s.profiles.Get(userID)
	if !ok {
		profile = domain.UserProfile{UserID: userID, Persona: domain.PersonaDefault}
	}

	changed := false
	for _, tag := range confirmed {
		if tag == "" {
			continue
		}
		if s.catalog.HasInterest(tag) && !slices.Contains(profile.Interests, tag) {
			profile.Interests = append(profile.Interests, tag)
			changed = true
		}
		if s.catalog.HasTravelStyle(tag) && profile.TravelStyle != tag {
			profile.TravelStyle = tag
			changed = true
		}
		if s.catalog.HasPreferredActivity(tag) && !slices.Contains(profile.PreferredActivities, tag) {
			profile.PreferredActivities = append(profile.PreferredActivities, tag)
			changed = true
		}
	}

	if changed {
		profile.Persona = domain.CalculatePersona(profile.Interests)
		s.profiles.Put(profile)
	}
	return profile
}
