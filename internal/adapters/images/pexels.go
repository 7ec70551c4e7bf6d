package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"tender/internal/domain"
	"tender/internal/infra/metrics"
)

const defaultBaseURL = "https://api.pexels.com/v1"

// PlaceholderURL отдаётся при любом сбое поиска: карточка обязана
// показываться даже без внешнего API.
const PlaceholderURL = "https://images.pexels.com/photos/3408744/pexels-photo-3408744.jpeg"

// Client ищет обложки карточек в Pexels.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	breaker *gobreaker.CircuitBreaker[string]
	log     zerolog.Logger
}

// NewClient создаёт клиента поиска изображений.
func NewClient(apiKey, baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    "pexels",
		Timeout: 30 * time.Second,
	})
	return &Client{
		http:    &http.Client{Timeout: timeout + time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
		breaker: breaker,
		log:     log,
	}
}

var _ domain.ImageFinder = (*Client)(nil)

// FetchImage возвращает URL обложки для карточки. Ошибки не отдаются
// наружу: без ключа или при сбое возвращается заглушка.
func (c *Client) FetchImage(ctx context.Context, query string, contentType domain.ContentType) string {
	if c.apiKey == "" {
		return PlaceholderURL
	}
	imageURL, err := c.breaker.Execute(func() (string, error) {
		return c.search(ctx, query, contentType)
	})
	if err != nil {
		c.log.Warn().Err(err).Str("query", query).Msg("pexels: поиск обложки не удался")
		return PlaceholderURL
	}
	return imageURL
}

type searchResponse struct {
	Photos []struct {
		Src struct {
			Large string `json:"large"`
		} `json:"src"`
	} `json:"photos"`
}

func (c *Client) search(ctx context.Context, query string, contentType domain.ContentType) (string, error) {
	params := url.Values{}
	params.Set("query", fmt.Sprintf("%s %s travel", query, contentType))
	params.Set("per_page", "1")
	params.Set("orientation", "portrait")

	endpoint := c.baseURL + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("pexels: build request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveNetworkRequest("pexels", "search", string(contentType), start, err)
		return "", fmt.Errorf("pexels: do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveNetworkRequest("pexels", "search", string(contentType), start, err)
		return "", fmt.Errorf("pexels: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		err = fmt.Errorf("pexels: unexpected status %d", resp.StatusCode)
		metrics.ObserveNetworkRequest("pexels", "search", string(contentType), start, err)
		return "", err
	}
	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		metrics.ObserveNetworkRequest("pexels", "search", string(contentType), start, err)
		return "", fmt.Errorf("pexels: decode response: %w", err)
	}
	if len(parsed.Photos) == 0 {
		err = fmt.Errorf("pexels: пустая выдача по запросу %q", query)
		metrics.ObserveNetworkRequest("pexels", "search", string(contentType), start, err)
		return "", err
	}
	metrics.ObserveNetworkRequest("pexels", "search", string(contentType), start, nil)
	return parsed.Photos[0].Src.Large, nil
}
