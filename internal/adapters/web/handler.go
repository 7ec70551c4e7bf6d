package web

import (
	"context"
	"encoding/gob"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"

	"tender/internal/domain"
	"tender/internal/infra/metrics"
)

const sessionName = "tender_session"

func init() {
	// Срезы тегов и идентификаторов карточек живут в cookie-сессии.
	gob.Register([]string(nil))
}

type cardPicker interface {
	NextCard(userID int64, seenCards []string) (domain.ContentItem, bool)
}

type preferenceSynthesizer interface {
	Propose(ctx context.Context, userID int64) []string
	Confirm(userID int64, confirmed []string) domain.UserProfile
}

// Config задаёт параметры свайп-сессии.
type Config struct {
	TargetUserID int64
	MaxSwipes    int
	SuggestEvery int
}

func (c Config) withDefaults() Config {
	if c.TargetUserID == 0 {
		c.TargetUserID = 2
	}
	if c.MaxSwipes <= 0 {
		c.MaxSwipes = 20
	}
	if c.SuggestEvery <= 0 {
		c.SuggestEvery = 10
	}
	return c
}

// Handler обслуживает свайп-поток: выдачу карточек, приём свайпов,
// подтверждение предпочтений и завершение сессии.
type Handler struct {
	picker   cardPicker
	prefs    preferenceSynthesizer
	swipes   domain.SwipeLog
	tracker  domain.SessionTracker
	images   domain.ImageFinder
	profiles domain.ProfileStore
	store    *sessions.CookieStore
	cfg      Config
	log      zerolog.Logger
}

// NewHandler создаёт обработчик свайп-потока.
func NewHandler(picker cardPicker, prefs preferenceSynthesizer, swipes domain.SwipeLog, tracker domain.SessionTracker, images domain.ImageFinder, profiles domain.ProfileStore, store *sessions.CookieStore, cfg Config, log zerolog.Logger) *Handler {
	return &Handler{
		picker:   picker,
		prefs:    prefs,
		swipes:   swipes,
		tracker:  tracker,
		images:   images,
		profiles: profiles,
		store:    store,
		cfg:      cfg.withDefaults(),
		log:      log,
	}
}

// Routes регистрирует маршруты свайп-потока.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.home)
	r.Post("/swipe", h.swipe)
	r.Get("/preferences", h.preferences)
	r.Post("/update_preferences", h.updatePreferences)
	r.Get("/thank_you", h.thankYou)
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.store.Get(r, sessionName)

	if sessionInt(sess, "swipe_count") >= h.cfg.MaxSwipes {
		http.Redirect(w, r, "/thank_you", http.StatusSeeOther)
		return
	}

	seen := sessionStrings(sess, "seen_cards")
	card, ok := h.picker.NextCard(h.cfg.TargetUserID, seen)
	if !ok {
		metrics.SessionsExhaustedTotal.Inc()
		http.Redirect(w, r, "/thank_you", http.StatusSeeOther)
		return
	}

	sess.Values["seen_cards"] = append(seen, card.ID())
	if err := sess.Save(r, w); err != nil {
		h.log.Error().Err(err).Msg("web: сохранение сессии не удалось")
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}

	profile, _ := h.profiles.Get(h.cfg.TargetUserID)
	h.writeJSON(w, http.StatusOK, map[string]any{
		"card":      card,
		"card_id":   card.ID(),
		"image_url": h.images.FetchImage(r.Context(), card.Name(), card.Type),
		"profile":   profile,
	})
}

func (h *Handler) swipe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	action := r.PostFormValue("action")
	if action != "like" && action != "dislike" {
		http.Error(w, "action must be like or dislike", http.StatusBadRequest)
		return
	}
	var card domain.ContentItem
	if err := json.Unmarshal([]byte(r.PostFormValue("card_data")), &card); err != nil || card.Name() == "" {
		http.Error(w, "invalid card_data", http.StatusBadRequest)
		return
	}

	liked := action == "like"
	h.swipes.Record(h.cfg.TargetUserID, card, liked)
	h.tracker.RecordSwipe(h.cfg.TargetUserID, liked)
	metrics.SwipesTotal.WithLabelValues(action).Inc()

	sess, _ := h.store.Get(r, sessionName)
	count := sessionInt(sess, "swipe_count") + 1
	sess.Values["swipe_count"] = count

	redirect := "/"
	if count%h.cfg.SuggestEvery == 0 {
		if choices := h.prefs.Propose(r.Context(), h.cfg.TargetUserID); len(choices) > 0 {
			sess.Values["ai_choices"] = choices
			redirect = "/preferences"
		}
	}
	if err := sess.Save(r, w); err != nil {
		h.log.Error().Err(err).Msg("web: сохранение сессии не удалось")
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

func (h *Handler) preferences(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.store.Get(r, sessionName)
	choices := sessionStrings(sess, "ai_choices")
	if len(choices) == 0 {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"choices": choices})
}

func (h *Handler) updatePreferences(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	h.prefs.Confirm(h.cfg.TargetUserID, r.PostForm["confirmed_tags"])

	sess, _ := h.store.Get(r, sessionName)
	delete(sess.Values, "ai_choices")
	if err := sess.Save(r, w); err != nil {
		h.log.Error().Err(err).Msg("web: сохранение сессии не удалось")
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) thankYou(w http.ResponseWriter, r *http.Request) {
	profile, _ := h.profiles.Get(h.cfg.TargetUserID)
	h.tracker.Reset(h.cfg.TargetUserID)

	sess, _ := h.store.Get(r, sessionName)
	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		h.log.Warn().Err(err).Msg("web: очистка сессии не удалась")
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"profile": profile})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error().Err(err).Msg("web: запись ответа не удалась")
	}
}

func sessionInt(sess *sessions.Session, key string) int {
	if v, ok := sess.Values[key].(int); ok {
		return v
	}
	return 0
}

func sessionStrings(sess *sessions.Session, key string) []string {
	if v, ok := sess.Values[key].([]string); ok {
		return v
	}
	return nil
}
