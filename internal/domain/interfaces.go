package domain

import "context"

// ContentStore отдаёт коллекции карточек, загруженные при старте.
// Items возвращает копию: вызывающий может перемешивать её локально,
// не трогая общий каталог.
type ContentStore interface {
	Items(t ContentType) []ContentItem
}

// ProfileStore управляет профилями пользователей.
type ProfileStore interface {
	Get(userID int64) (UserProfile, bool)
	Put(profile UserProfile)
}

// SwipeLog — журнал свайпов, только добавление.
type SwipeLog interface {
	Record(userID int64, card ContentItem, liked bool) SwipeEvent
	RecentLikes(userID int64, n int) []ContentItem
}

// SessionTracker управляет счётчиками сессий пользователей.
type SessionTracker interface {
	Get(userID int64) SessionState
	RecordSwipe(userID int64, liked bool) SessionState
	ConsumeDiscovery(userID int64)
	Reset(userID int64)
}

// Suggester предлагает теги предпочтений по лайкнутым карточкам.
// Теги ограничиваются каталогом на уровне запроса; жёсткая фильтрация
// происходит позже, при подтверждении.
type Suggester interface {
	Suggest(ctx context.Context, liked []ContentItem, allowed TagCatalog) ([]string, error)
}

// ImageFinder ищет обложку карточки. Любой сбой деградирует до заглушки,
// ошибка наружу не отдаётся.
type ImageFinder interface {
	FetchImage(ctx context.Context, query string, contentType ContentType) string
}
