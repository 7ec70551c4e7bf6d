package domain

import "time"

// ContentType различает варианты карточек контента.
type ContentType string

const (
	ContentActivity      ContentType = "activity"
	ContentDish          ContentType = "dish"
	ContentAccommodation ContentType = "accommodation"
)

// ContentTypes перечисляет варианты в фиксированном порядке.
var ContentTypes = []ContentType{ContentActivity, ContentDish, ContentAccommodation}

// nameFields задаёт поле-имя каждого варианта: из него выводится идентификатор карточки.
var nameFields = map[ContentType]string{
	ContentActivity:      "Activity",
	ContentDish:          "Dish Name",
	ContentAccommodation: "AccommodationName",
}

// ContentItem описывает одну карточку каталога. После загрузки поля не изменяются.
type ContentItem struct {
	Type   ContentType    `json:"type"`
	Fields map[string]any `json:"fields"`
}

// Name возвращает значение поля-имени варианта.
func (c ContentItem) Name() string {
	if v, ok := c.Fields[nameFields[c.Type]].(string); ok {
		return v
	}
	return ""
}

// ID возвращает идентификатор карточки: вариант плюс поле-имя.
func (c ContentItem) ID() string {
	return string(c.Type) + ":" + c.Name()
}

// UserProfile хранит предпочтения пользователя. Interests и
// PreferredActivities только растут, TravelStyle перезаписывается целиком.
type UserProfile struct {
	UserID              int64    `json:"userId"`
	Interests           []string `json:"interests"`
	TravelStyle         string   `json:"travelStyle,omitempty"`
	PreferredActivities []string `json:"preferredActivities"`
	Persona             string   `json:"persona,omitempty"`
}

// HasPreferences сообщает, задано ли в профиле хоть одно предпочтение.
func (p UserProfile) HasPreferences() bool {
	return len(p.Interests) > 0 || p.TravelStyle != "" || len(p.PreferredActivities) > 0
}

// PreferenceTags собирает все непустые теги профиля для поиска по сходству.
func (p UserProfile) PreferenceTags() []string {
	tags := make([]string, 0, len(p.Interests)+len(p.PreferredActivities)+1)
	for _, t := range p.Interests {
		if t != "" {
			tags = append(tags, t)
		}
	}
	for _, t := range p.PreferredActivities {
		if t != "" {
			tags = append(tags, t)
		}
	}
	if p.TravelStyle != "" {
		tags = append(tags, p.TravelStyle)
	}
	return tags
}

// SwipeEvent фиксирует один свайп. Записи не изменяются и не удаляются;
// CardID всегда выводим из снимка карточки.
type SwipeEvent struct {
	Seq       int64
	EventID   string
	UserID    int64
	CardType  ContentType
	CardID    string
	Card      ContentItem
	Liked     bool
	CreatedAt time.Time
}

// SessionState хранит счётчики сессии пользователя. Живёт до перезапуска
// процесса либо до явного Reset на границе сессии.
type SessionState struct {
	TotalSwipes         int
	ConsecutiveLikes    int
	ConsecutiveDislikes int
	DiscoveryStreak     int
}
