package memstore

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"tender/internal/domain"
)

// SwipeLog — журнал свайпов, только добавление. Порядковый номер растёт
// монотонно на весь процесс; записи никогда не удаляются.
type SwipeLog struct {
	mu      sync.Mutex
	events  []domain.SwipeEvent
	nextSeq int64
}

// NewSwipeLog создаёт пустой журнал.
func NewSwipeLog() *SwipeLog {
	return &SwipeLog{nextSeq: 1}
}

// Record добавляет событие свайпа и возвращает его.
func (l *SwipeLog) Record(userID int64, card domain.ContentItem, liked bool) domain.SwipeEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	ev := domain.SwipeEvent{
		Seq:       l.nextSeq,
		EventID:   uuid.NewString(),
		UserID:    userID,
		CardType:  card.Type,
		CardID:    card.ID(),
		Card:      card,
		Liked:     liked,
		CreatedAt: time.Now().UTC(),
	}
	l.nextSeq++
	l.events = append(l.events, ev)
	return ev
}

// RecentLikes возвращает последние n лайкнутых карточек пользователя
// в порядке подачи.
func (l *SwipeLog) RecentLikes(userID int64, n int) []domain.ContentItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	var liked []domain.ContentItem
	for _, ev := range l.events {
		if ev.UserID == userID && ev.Liked {
			liked = append(liked, ev.Card)
		}
	}
	if n > 0 && len(liked) > n {
		liked = liked[len(liked)-n:]
	}
	return liked
}
