package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"tender/internal/adapters/catalog"
	"tender/internal/adapters/images"
	"tender/internal/adapters/memstore"
	"tender/internal/adapters/suggest"
	"tender/internal/adapters/web"
	"tender/internal/domain"
	"tender/internal/infra/config"
	httpinfra "tender/internal/infra/http"
	applog "tender/internal/infra/log"
	"tender/internal/infra/metrics"
	openaiinfra "tender/internal/infra/openai"
	"tender/internal/usecase/preferences"
	"tender/internal/usecase/recommend"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader := catalog.NewLoader(logger.With().Str("component", "catalog").Logger())
	var items []domain.ContentItem
	for _, src := range []struct {
		t        domain.ContentType
		location string
	}{
		{domain.ContentActivity, cfg.Data.Activities},
		{domain.ContentDish, cfg.Data.Dishes},
		{domain.ContentAccommodation, cfg.Data.Accommodations},
	} {
		loaded, err := loader.LoadContent(ctx, src.t, src.location)
		if err != nil {
			logger.Fatal().Err(err).Msg("api: загрузка каталога не удалась")
		}
		items = append(items, loaded...)
	}
	profiles, err := loader.LoadProfiles(ctx, cfg.Data.Users)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: загрузка профилей не удалась")
	}

	tagCatalog := domain.BuildTagCatalog(items)
	contentStore := memstore.NewContentStore(items)
	profileStore := memstore.NewProfileStore(profiles)
	swipeLog := memstore.NewSwipeLog()
	tracker := memstore.NewSessionTracker(profileStore, memstore.TrackerConfig{
		ColdStreak:     cfg.Engine.ColdStreak,
		WarmStreak:     cfg.Engine.WarmStreak,
		DislikeBurst:   cfg.Engine.DislikeBurst,
		DislikeTrigger: cfg.Engine.DislikeTrigger,
	})

	recommender := recommend.NewService(contentStore, profileStore, tracker, recommend.Config{
		LikeStride:  cfg.Engine.LikeStride,
		MaxAttempts: cfg.Engine.MaxAttempts,
	})

	var suggester domain.Suggester
	if cfg.Groq.APIKey != "" {
		chatClient := openaiinfra.NewClient(cfg.Groq.APIKey, cfg.Groq.BaseURL, cfg.Groq.Timeout)
		suggester = suggest.NewLLM(chatClient, cfg.Groq.Model, cfg.Groq.Timeout, cfg.Groq.MaxTags)
	} else {
		logger.Warn().Msg("api: GROQ_API_KEY не задан, работает эвристический синтез предпочтений")
		suggester = suggest.NewSimple(cfg.Groq.MaxTags)
	}
	prefService := preferences.NewService(profileStore, swipeLog, suggester, tagCatalog, cfg.Session.LikesWindow,
		logger.With().Str("component", "preferences").Logger())

	imageFinder := images.NewClient(cfg.Pexels.APIKey, cfg.Pexels.BaseURL, cfg.Pexels.Timeout,
		logger.With().Str("component", "pexels").Logger())
	if cfg.Pexels.APIKey == "" {
		logger.Warn().Msg("api: PEXELS_API_KEY не задан, карточки получат заглушку вместо обложки")
	}

	sessionStore := sessions.NewCookieStore(sessionSecret(cfg.Session.Secret, logger))

	srv := httpinfra.NewServer(logger.With().Str("component", "http").Logger())
	handler := web.NewHandler(recommender, prefService, swipeLog, tracker, imageFinder, profileStore, sessionStore, web.Config{
		TargetUserID: cfg.TargetUserID,
		MaxSwipes:    cfg.Session.MaxSwipes,
		SuggestEvery: cfg.Session.SuggestEvery,
	}, logger.With().Str("component", "web").Logger())
	handler.Routes(srv.Router)

	metrics.StartServer(ctx, logger.With().Str("component", "metrics").Logger(), cfg.MetricsAddr)

	go func() {
		if err := srv.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("api: сервер остановлен")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("api: остановка")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("api: graceful shutdown не удался")
	}
}

// sessionSecret отдаёт ключ подписи cookie. Без SESSION_SECRET ключ
// генерируется на время жизни процесса: после перезапуска старые
// cookie-сессии перестают читаться.
func sessionSecret(secret string, logger zerolog.Logger) []byte {
	if secret != "" {
		return []byte(secret)
	}
	logger.Warn().Msg("api: SESSION_SECRET не задан, ключ сессии сгенерирован на время жизни процесса")
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		logger.Fatal().Err(err).Msg("api: генерация ключа сессии не удалась")
	}
	return key
}
