package suggest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tender/internal/domain"
	openai "tender/internal/infra/openai"
)

type fakeChatClient struct {
	lastReq openai.ChatCompletionRequest
	content string
	err     error
}

func (f *fakeChatClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatMessage{Role: openai.RoleUser, Content: f.content}}},
	}, nil
}

var likedCards = []domain.ContentItem{
	{Type: domain.ContentActivity, Fields: map[string]any{"Activity": "Louvre Visit", "Category": "Museum Tour"}},
	{Type: domain.ContentActivity, Fields: map[string]any{"Activity": "Prado Visit", "Category": "Museum Tour"}},
	{Type: domain.ContentDish, Fields: map[string]any{"Dish Name": "Pad Thai", "Type": "Street Food"}},
}

var allowedTags = domain.TagCatalog{
	Interests:           []string{"Museum Tour", "Street Food"},
	TravelStyles:        []string{"Solo"},
	PreferredActivities: []string{"Couples"},
}

func TestLLMSuggestParsesResponse(t *testing.T) {
	client := &fakeChatClient{content: `{"suggestions": ["Museum Tour", " ", "Street Food"]}`}
	s := NewLLM(client, "test-model", time.Second, 5)

	tags, err := s.Suggest(context.Background(), likedCards, allowedTags)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(tags) != 2 || tags[0] != "Museum Tour" || tags[1] != "Street Food" {
		t.Fatalf("получили неожиданные теги %v", tags)
	}
	if client.lastReq.ResponseFormat == nil || client.lastReq.ResponseFormat.Type != openai.ResponseFormatTypeJSONObject {
		t.Fatal("ожидали формат ответа json_object")
	}
	prompt := client.lastReq.Messages[1].Content
	if !strings.Contains(prompt, "Museum Tour") || !strings.Contains(prompt, "Pad Thai") {
		t.Fatal("промпт должен содержать допустимые теги и лайкнутые карточки")
	}
}

func TestLLMSuggestTruncatesToMaxTags(t *testing.T) {
	client := &fakeChatClient{content: `{"suggestions": ["Museum Tour", "Street Food", "Solo"]}`}
	s := NewLLM(client, "test-model", time.Second, 2)

	tags, err := s.Suggest(context.Background(), likedCards, allowedTags)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("ожидали усечение до 2 тегов, получили %v", tags)
	}
}

func TestLLMSuggestWrapsClientError(t *testing.T) {
	client := &fakeChatClient{err: errors.New("таймаут")}
	s := NewLLM(client, "test-model", time.Second, 5)

	if _, err := s.Suggest(context.Background(), likedCards, allowedTags); err == nil {
		t.Fatal("ожидали ошибку клиента")
	}
}

func TestLLMSuggestRejectsMalformedJSON(t *testing.T) {
	client := &fakeChatClient{content: "not json"}
	s := NewLLM(client, "test-model", time.Second, 5)

	if _, err := s.Suggest(context.Background(), likedCards, allowedTags); err == nil {
		t.Fatal("ожидали ошибку распаковки")
	}
}

func TestSimpleSuggestOrdersByFrequency(t *testing.T) {
	s := NewSimple(5)
	tags, err := s.Suggest(context.Background(), likedCards, allowedTags)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(tags) != 2 || tags[0] != "Museum Tour" || tags[1] != "Street Food" {
		t.Fatalf("ожидали [Museum Tour Street Food], получили %v", tags)
	}
}

func TestSimpleSuggestCountsListFieldsFromSwipeSnapshots(t *testing.T) {
	// Лайкнутые карточки приходят из журнала свайпов: их снимки прошли
	// через JSON формы и несут списочные поля как []any.
	liked := []domain.ContentItem{
		{Type: domain.ContentActivity, Fields: map[string]any{
			"Activity": "Louvre Visit",
			"For":      []any{"Couples", "Solo"},
		}},
		{Type: domain.ContentDish, Fields: map[string]any{
			"Dish Name": "Pad Thai",
			"BestFor":   []any{"Couples"},
		}},
	}
	allowed := domain.TagCatalog{PreferredActivities: []string{"Couples", "Solo"}}

	s := NewSimple(5)
	tags, err := s.Suggest(context.Background(), liked, allowed)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(tags) != 2 || tags[0] != "Couples" || tags[1] != "Solo" {
		t.Fatalf("ожидали теги из списочных полей, получили %v", tags)
	}
}

func TestSimpleSuggestEmptyLikes(t *testing.T) {
	s := NewSimple(5)
	tags, err := s.Suggest(context.Background(), nil, allowedTags)
	if err != nil || tags != nil {
		t.Fatalf("без лайков ожидали пустой результат, получили %v, %v", tags, err)
	}
}
