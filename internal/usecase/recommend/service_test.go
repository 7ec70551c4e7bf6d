package recommend

import (
	"math/rand"
	"testing"

	"tender/internal/domain"
)

type fakeContent map[domain.ContentType][]domain.ContentItem

func (f fakeContent) Items(t domain.ContentType) []domain.ContentItem {
	src := f[t]
	out := make([]domain.ContentItem, len(src))
	copy(out, src)
	return out
}

type fakeProfiles map[int64]domain.UserProfile

func (f fakeProfiles) Get(userID int64) (domain.UserProfile, bool) {
	p, ok := f[userID]
	return p, ok
}

func (f fakeProfiles) Put(p domain.UserProfile) { f[p.UserID] = p }

type fakeTracker struct {
	state    domain.SessionState
	consumed int
}

func (f *fakeTracker) Get(int64) domain.SessionState { return f.state }
func (f *fakeTracker) RecordSwipe(int64, bool) domain.SessionState {
	return f.state
}
func (f *fakeTracker) ConsumeDiscovery(int64) {
	f.consumed++
	if f.state.DiscoveryStreak > 0 {
		f.state.DiscoveryStreak--
	}
}
func (f *fakeTracker) Reset(int64) { f.state = domain.SessionState{} }

func activity(name, category string) domain.ContentItem {
	return domain.ContentItem{Type: domain.ContentActivity, Fields: map[string]any{
		"Activity": name,
		"Category": category,
	}}
}

func dish(name, dishType string) domain.ContentItem {
	return domain.ContentItem{Type: domain.ContentDish, Fields: map[string]any{
		"Dish Name": name,
		"Type":      dishType,
	}}
}

func newTestService(content fakeContent, profiles fakeProfiles, tracker *fakeTracker) *Service {
	svc := NewService(content, profiles, tracker, Config{})
	svc.rng = rand.New(rand.NewSource(1))
	return svc
}

func TestNextCardNeverRepeatsSeen(t *testing.T) {
	content := fakeContent{
		domain.ContentActivity: {activity("Louvre Visit", "Museum Tour"), activity("Night Safari", "Safari")},
		domain.ContentDish:     {dish("Pad Thai", "Street Food"), dish("Ramen", "Soup")},
	}
	profiles := fakeProfiles{1: {UserID: 1, Interests: []string{"a"}}}
	tracker := &fakeTracker{state: domain.SessionState{DiscoveryStreak: 2}}
	svc := newTestService(content, profiles, tracker)

	var seen []string
	served := make(map[string]struct{})
	for i := 0; i < 10; i++ {
		card, ok := svc.NextCard(1, seen)
		if !ok {
			break
		}
		if _, dup := served[card.ID()]; dup {
			t.Fatalf("карточка %s выдана повторно", card.ID())
		}
		served[card.ID()] = struct{}{}
		seen = append(seen, card.ID())
	}
	if len(served) != 4 {
		t.Fatalf("ожидали выдачу всех 4 карточек, получили %d", len(served))
	}
	if _, ok := svc.NextCard(1, seen); ok {
		t.Fatal("после исчерпания каталога ожидали отсутствие карточки")
	}
}

func TestSimilarityMatchesSubstring(t *testing.T) {
	content := fakeContent{
		domain.ContentActivity: {activity("Louvre Visit", "Museum Tour")},
		domain.ContentDish:     {dish("Pad Thai", "Street Food")},
	}
	profiles := fakeProfiles{1: {UserID: 1, Interests: []string{"Museum"}}}
	// Серия discovery уже выработана: работает путь similarity.
	tracker := &fakeTracker{}
	svc := newTestService(content, profiles, tracker)

	card, ok := svc.NextCard(1, nil)
	if !ok {
		t.Fatal("ожидали карточку по совпадению подстроки")
	}
	if card.ID() != "activity:Louvre Visit" {
		t.Fatalf("ожидали музейную активность, получили %s", card.ID())
	}
}

func TestSimilarityWithoutTagsFallsBackToDiscovery(t *testing.T) {
	content := fakeContent{
		domain.ContentDish: {dish("Pad Thai", "Street Food")},
	}
	profiles := fakeProfiles{}
	tracker := &fakeTracker{}
	svc := newTestService(content, profiles, tracker)

	card, ok := svc.NextCard(1, nil)
	if !ok {
		t.Fatal("пустой профиль должен получать discovery-карточку")
	}
	if card.ID() != "dish:Pad Thai" {
		t.Fatalf("получили неожиданную карточку %s", card.ID())
	}
}

func TestAllSeenReturnsNoCard(t *testing.T) {
	content := fakeContent{
		domain.ContentActivity: {activity("Louvre Visit", "Museum Tour")},
		domain.ContentDish:     {dish("Pad Thai", "Street Food")},
	}
	profiles := fakeProfiles{1: {UserID: 1, Interests: []string{"Museum", "Street"}}}
	tracker := &fakeTracker{state: domain.SessionState{DiscoveryStreak: 1}}
	svc := newTestService(content, profiles, tracker)

	seen := []string{"activity:Louvre Visit", "dish:Pad Thai"}
	if _, ok := svc.NextCard(1, seen); ok {
		t.Fatal("все карточки просмотрены: ожидали отсутствие выдачи")
	}
}

func TestEmptyCatalogReturnsNoCard(t *testing.T) {
	svc := newTestService(fakeContent{}, fakeProfiles{}, &fakeTracker{})
	if _, ok := svc.NextCard(1, nil); ok {
		t.Fatal("пустой каталог не может выдать карточку")
	}
}

// countingRand считает вызовы Shuffle: перемешивание выполняет только
// путь similarity, по нему различимы режимы подбора.
type countingRand struct {
	src      *rand.Rand
	shuffles int
}

func (c *countingRand) Intn(n int) int { return c.src.Intn(n) }
func (c *countingRand) Shuffle(n int, swap func(i, j int)) {
	c.shuffles++
	c.src.Shuffle(n, swap)
}

// zeroRand всегда выбирает нулевой индекс.
type zeroRand struct{}

func (zeroRand) Intn(int) int                { return 0 }
func (zeroRand) Shuffle(int, func(i, j int)) {}

func TestEveryFifthConsecutiveLikeServesDiscovery(t *testing.T) {
	content := fakeContent{
		domain.ContentActivity: {activity("Louvre Visit", "Museum Tour"), activity("Night Safari", "Safari"), activity("Beach Day", "Beach")},
	}
	profiles := fakeProfiles{1: {UserID: 1, Interests: []string{"Museum"}}}
	tracker := &fakeTracker{state: domain.SessionState{ConsecutiveLikes: 5}}
	svc := newTestService(content, profiles, tracker)
	rng := &countingRand{src: rand.New(rand.NewSource(1))}
	svc.rng = rng

	if _, ok := svc.NextCard(1, nil); !ok {
		t.Fatal("на пятом лайке подряд ожидали карточку")
	}
	if rng.shuffles != 0 {
		t.Fatalf("пятый лайк подряд должен обслуживаться discovery, а не similarity: %d перемешиваний", rng.shuffles)
	}

	// Обычный такт (лайков не кратно пяти) идёт через similarity.
	tracker.state.ConsecutiveLikes = 4
	if _, ok := svc.NextCard(1, nil); !ok {
		t.Fatal("на четвёртом лайке подряд ожидали карточку")
	}
	if rng.shuffles == 0 {
		t.Fatal("обычный такт должен обслуживаться similarity")
	}
}

func TestLikeStrideFallsBackToSimilarityWhenDiscoveryMisses(t *testing.T) {
	content := fakeContent{
		domain.ContentActivity: {activity("Night Safari", "Safari"), activity("Louvre Visit", "Museum Tour")},
	}
	profiles := fakeProfiles{1: {UserID: 1, Interests: []string{"Museum"}}}
	tracker := &fakeTracker{state: domain.SessionState{ConsecutiveLikes: 5}}
	svc := newTestService(content, profiles, tracker)
	// Нулевой индекс всегда попадает в просмотренную карточку: бюджет
	// discovery-попыток выгорает, срабатывает откат на similarity.
	svc.rng = zeroRand{}

	card, ok := svc.NextCard(1, []string{"activity:Night Safari"})
	if !ok {
		t.Fatal("ожидали откат на similarity после промахов discovery")
	}
	if card.ID() != "activity:Louvre Visit" {
		t.Fatalf("ожидали музейную активность, получили %s", card.ID())
	}
}

func TestDiscoveryStreakConsumedPerServe(t *testing.T) {
	content := fakeContent{
		domain.ContentActivity: {activity("Louvre Visit", "Museum Tour"), activity("Night Safari", "Safari"), activity("Beach Day", "Beach")},
	}
	profiles := fakeProfiles{1: {UserID: 1}}
	tracker := &fakeTracker{state: domain.SessionState{DiscoveryStreak: 2}}
	svc := newTestService(content, profiles, tracker)

	var seen []string
	for i := 0; i < 3; i++ {
		card, ok := svc.NextCard(1, seen)
		if !ok {
			t.Fatalf("не ожидали исчерпания на шаге %d", i)
		}
		seen = append(seen, card.ID())
	}
	// Две подачи из серии, третья уже вне её.
	if tracker.consumed != 2 {
		t.Fatalf("ожидали 2 списания discovery-серии, получили %d", tracker.consumed)
	}
}
