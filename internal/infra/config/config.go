package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig описывает конфигурацию сервиса.
type AppConfig struct {
	AppEnv      string `envconfig:"APP_ENV" default:"dev"`
	Port        int    `envconfig:"PORT" default:"8080"`
	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`

	// Демо-режим обслуживает одного смоделированного пользователя.
	TargetUserID int64 `envconfig:"TARGET_USER_ID" default:"2"`

	Data struct {
		Activities     string `envconfig:"ACTIVITIES_CSV" default:"data/tinder_data/activities.csv"`
		Dishes         string `envconfig:"DISHES_CSV" default:"data/tinder_data/dishes.csv"`
		Accommodations string `envconfig:"ACCOMMODATIONS_CSV" default:"data/tinder_data/accommodations.csv"`
		Users          string `envconfig:"USERS_CSV" default:"data/tinder_data/users.csv"`
	} `envconfig:""`

	Groq struct {
		APIKey  string        `envconfig:"GROQ_API_KEY"`
		BaseURL string        `envconfig:"GROQ_BASE_URL"`
		Model   string        `envconfig:"GROQ_MODEL" default:"llama3-8b-8192"`
		Timeout time.Duration `envconfig:"GROQ_TIMEOUT" default:"5s"`
		MaxTags int           `envconfig:"GROQ_MAX_TAGS" default:"5"`
	} `envconfig:""`

	Pexels struct {
		APIKey  string        `envconfig:"PEXELS_API_KEY"`
		BaseURL string        `envconfig:"PEXELS_BASE_URL"`
		Timeout time.Duration `envconfig:"PEXELS_TIMEOUT" default:"5s"`
	} `envconfig:""`

	Session struct {
		Secret       string `envconfig:"SESSION_SECRET"`
		MaxSwipes    int    `envconfig:"SESSION_MAX_SWIPES" default:"20"`
		SuggestEvery int    `envconfig:"SUGGEST_EVERY_SWIPES" default:"10"`
		LikesWindow  int    `envconfig:"LIKES_WINDOW" default:"10"`
	} `envconfig:""`

	// Пороги чередования discovery/similarity. Значения по умолчанию
	// сохраняют поведение исходного продукта.
	Engine struct {
		ColdStreak     int `envconfig:"ENGINE_COLD_STREAK" default:"10"`
		WarmStreak     int `envconfig:"ENGINE_WARM_STREAK" default:"5"`
		DislikeBurst   int `envconfig:"ENGINE_DISLIKE_BURST" default:"5"`
		DislikeTrigger int `envconfig:"ENGINE_DISLIKE_TRIGGER" default:"3"`
		LikeStride     int `envconfig:"ENGINE_LIKE_STRIDE" default:"5"`
		MaxAttempts    int `envconfig:"ENGINE_MAX_ATTEMPTS" default:"50"`
	} `envconfig:""`
}

// Load загружает конфиг из окружения.
func Load() AppConfig {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}
