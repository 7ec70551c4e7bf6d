package memstore

import (
	"sync"

	"tender/internal/domain"
)

// TrackerConfig задаёт стартовые серии discovery-режима.
type TrackerConfig struct {
	// ColdStreak — стартовая серия для профиля без предпочтений.
	ColdStreak int
	// WarmStreak — стартовая серия для профиля с предпочтениями.
	WarmStreak int
	// DislikeBurst — серия, назначаемая после подряд идущих дизлайков.
	DislikeBurst int
	// DislikeTrigger — сколько дизлайков подряд включают discovery-всплеск.
	DislikeTrigger int
}

func (c TrackerConfig) withDefaults() TrackerConfig {
	if c.ColdStreak <= 0 {
		c.ColdStreak = 10
	}
	if c.WarmStreak <= 0 {
		c.WarmStreak = 5
	}
	if c.DislikeBurst <= 0 {
		c.DislikeBurst = 5
	}
	if c.DislikeTrigger <= 0 {
		c.DislikeTrigger = 3
	}
	return c
}

// SessionTracker хранит счётчики сессий по пользователям. Состояние
// создаётся лениво при первом обращении и живёт до явного Reset либо
// до перезапуска процесса. Все мутации сериализуются мьютексом.
type SessionTracker struct {
	mu       sync.Mutex
	profiles domain.ProfileStore
	states   map[int64]*domain.SessionState
	cfg      TrackerConfig
}

// NewSessionTracker создаёт трекер. Профили нужны для ленивой инициализации:
// холодному профилю достаётся длинная discovery-серия.
func NewSessionTracker(profiles domain.ProfileStore, cfg TrackerConfig) *SessionTracker {
	return &SessionTracker{
		profiles: profiles,
		states:   make(map[int64]*domain.SessionState),
		cfg:      cfg.withDefaults(),
	}
}

// Get возвращает снимок состояния сессии пользователя.
func (t *SessionTracker) Get(userID int64) domain.SessionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return *t.state(userID)
}

// RecordSwipe учитывает свайп и возвращает обновлённый снимок.
// Три дизлайка подряд включают discovery-всплеск.
func (t *SessionTracker) RecordSwipe(userID int64, liked bool) domain.SessionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := t.state(userID)
	st.TotalSwipes++
	if liked {
		st.ConsecutiveLikes++
		st.ConsecutiveDislikes = 0
	} else {
		st.ConsecutiveLikes = 0
		st.ConsecutiveDislikes++
		if st.ConsecutiveDislikes >= t.cfg.DislikeTrigger {
			st.DiscoveryStreak = t.cfg.DislikeBurst
			st.ConsecutiveDislikes = 0
		}
	}
	return *st
}

// ConsumeDiscovery списывает одну discovery-подачу.
func (t *SessionTracker) ConsumeDiscovery(userID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := t.state(userID)
	if st.DiscoveryStreak > 0 {
		st.DiscoveryStreak--
	}
}

// Reset сбрасывает состояние пользователя на границе сессии.
func (t *SessionTracker) Reset(userID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.states, userID)
}

// state лениво создаёт запись; вызывается под мьютексом.
func (t *SessionTracker) state(userID int64) *domain.SessionState {
	if st, ok := t.states[userID]; ok {
		return st
	}
	streak := t.cfg.ColdStreak
	if p, ok := t.profiles.Get(userID); ok && p.HasPreferences() {
		streak = t.cfg.WarmStreak
	}
	st := &domain.SessionState{DiscoveryStreak: streak}
	t.states[userID] = st
	return st
}
