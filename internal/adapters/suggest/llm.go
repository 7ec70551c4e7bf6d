package suggest

import (
	"context"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"tender/internal/domain"
	openai "tender/internal/infra/openai"
)

type chatCompletionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// LLMSuggester синтезирует теги предпочтений по лайкнутым карточкам
// через Chat Completions.
type LLMSuggester struct {
	client  chatCompletionClient
	model   string
	timeout time.Duration
	maxTags int
}

// NewLLM создаёт синтезатор предпочтений на базе LLM.
func NewLLM(client chatCompletionClient, model string, timeout time.Duration, maxTags int) *LLMSuggester {
	if maxTags <= 0 {
		maxTags = 5
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &LLMSuggester{client: client, model: model, timeout: timeout, maxTags: maxTags}
}

type likedCardPayload struct {
	Type   domain.ContentType `json:"type"`
	Fields map[string]any     `json:"fields"`
}

type allowedTagsPayload struct {
	Interests           []string `json:"interests"`
	TravelStyles        []string `json:"travel_styles"`
	PreferredActivities []string `json:"preferred_activities"`
}

type suggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// Suggest запрашивает у модели теги, объясняющие последние лайки.
// Модель ограничена списком допустимых тегов; пустые элементы ответа
// отбрасываются, результат усечён до maxTags.
func (s *LLMSuggester) Suggest(ctx context.Context, liked []domain.ContentItem, allowed domain.TagCatalog) ([]string, error) {
	cards := make([]likedCardPayload, 0, len(liked))
	for _, card := range liked {
		cards = append(cards, likedCardPayload{Type: card.Type, Fields: card.Fields})
	}
	cardsJSON, err := json.Marshal(cards)
	if err != nil {
		return nil, fmt.Errorf("marshal liked cards: %w", err)
	}
	allowedJSON, err := json.Marshal(allowedTagsPayload{
		Interests:           allowed.Interests,
		TravelStyles:        allowed.TravelStyles,
		PreferredActivities: allowed.PreferredActivities,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal allowed tags: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	userPrompt := fmt.Sprintf(`Analyze the travel cards a user recently liked and infer their travel preferences.
Rules:
1. You MUST choose suggestions only from the allowed tags below. Never invent new tags.
2. Suggest at most %d tags that best explain the pattern behind the likes.
3. Prefer tags that appear across several liked cards over one-off matches.
4. Return strictly JSON of the form {"suggestions": ["tag1", "tag2"]}.

Allowed tags:
%s

Liked cards:
%s`, s.maxTags, string(allowedJSON), string(cardsJSON))

	req := openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: 0.2,
		Messages: []openai.ChatMessage{
			{
				Role:    openai.RoleSystem,
				Content: "You are a travel preference analyst. You only answer with valid JSON and never suggest tags outside the provided list.",
			},
			{
				Role:    openai.RoleUser,
				Content: userPrompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ResponseFormatTypeJSONObject,
		},
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion: пустой ответ")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	var parsed suggestionsResponse
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("распаковка ответа LLM: %w", err)
	}

	out := make([]string, 0, len(parsed.Suggestions))
	for _, tag := range parsed.Suggestions {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		out = append(out, tag)
		if len(out) == s.maxTags {
			break
		}
	}
	return out, nil
}
