package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tender/internal/domain"
)

// Loader читает каталоги контента и профили пользователей из CSV.
// Источником может быть как локальный путь, так и URL.
type Loader struct {
	http *http.Client
	log  zerolog.Logger
}

// NewLoader создаёт загрузчик каталогов.
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{
		http: &http.Client{Timeout: 30 * time.Second},
		log:  log,
	}
}

// LoadContent читает карточки одного варианта. Пустые ячейки не попадают
// в поля карточки, строки без поля-имени пропускаются.
func (l *Loader) LoadContent(ctx context.Context, t domain.ContentType, location string) ([]domain.ContentItem, error) {
	rows, header, err := l.readCSV(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("каталог %s: %w", t, err)
	}

	items := make([]domain.ContentItem, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		fields := make(map[string]any, len(header))
		for i, col := range header {
			if i >= len(row) {
				break
			}
			if val, ok := parseCell(row[i]); ok {
				fields[col] = val
			}
		}
		item := domain.ContentItem{Type: t, Fields: fields}
		if item.Name() == "" {
			skipped++
			continue
		}
		items = append(items, item)
	}
	if skipped > 0 {
		l.log.Warn().Str("type", string(t)).Int("skipped", skipped).Msg("catalog: строки без поля-имени пропущены")
	}
	l.log.Info().Str("type", string(t)).Int("count", len(items)).Msg("catalog: каталог загружен")
	return items, nil
}

// LoadProfiles читает профили пользователей. Колонка userId обязательна,
// строки с невалидным идентификатором пропускаются.
func (l *Loader) LoadProfiles(ctx context.Context, location string) ([]domain.UserProfile, error) {
	rows, header, err := l.readCSV(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("профили: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[col] = i
	}
	if _, ok := idx["userId"]; !ok {
		return nil, fmt.Errorf("профили: в CSV нет колонки userId")
	}

	cell := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	profiles := make([]domain.UserProfile, 0, len(rows))
	for _, row := range rows {
		userID, err := strconv.ParseInt(cell(row, "userId"), 10, 64)
		if err != nil {
			l.log.Warn().Str("userId", cell(row, "userId")).Msg("catalog: строка профиля с невалидным userId пропущена")
			continue
		}
		profile := domain.UserProfile{
			UserID:              userID,
			Interests:           parsePyList(cell(row, "interests")),
			TravelStyle:         cell(row, "travelStyle"),
			PreferredActivities: parsePyList(cell(row, "preferredActivities")),
		}
		profile.Persona = domain.PersonaDefault
		if len(profile.Interests) > 0 {
			profile.Persona = domain.CalculatePersona(profile.Interests)
		}
		profiles = append(profiles, profile)
	}
	l.log.Info().Int("count", len(profiles)).Msg("catalog: профили загружены")
	return profiles, nil
}

func (l *Loader) readCSV(ctx context.Context, location string) ([][]string, []string, error) {
	var src io.ReadCloser
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("build request: %w", err)
		}
		resp, err := l.http.Do(req)
		if err != nil {
			return nil, nil, fmt.Errorf("fetch %s: %w", location, err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, nil, fmt.Errorf("fetch %s: unexpected status %d", location, resp.StatusCode)
		}
		src = resp.Body
	} else {
		f, err := os.Open(location)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", location, err)
		}
		src = f
	}
	defer src.Close()

	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", location, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s: пустой CSV", location)
	}
	return records[1:], records[0], nil
}

// parseCell выводит тип значения ячейки: пустая ячейка отсутствует в
// полях, список в python-синтаксисе становится []string, число — float64,
// остальное остаётся строкой.
func parseCell(raw string) (any, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	if strings.HasPrefix(raw, "[") {
		if list := parsePyList(raw); list != nil {
			return list, true
		}
		return []string{}, true
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f, true
	}
	return raw, true
}

// parsePyList разбирает список строк в python-синтаксисе:
// ['Solo', "Family"]. На невалидном входе возвращает nil.
func parsePyList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if len(raw) < 2 || raw[0] != '[' || raw[len(raw)-1] != ']' {
		return nil
	}
	inner := strings.TrimSpace(raw[1 : len(raw)-1])
	if inner == "" {
		return []string{}
	}

	var out []string
	for i := 0; i < len(inner); {
		switch inner[i] {
		case ' ', ',':
			i++
		case '\'', '"':
			quote := inner[i]
			end := strings.IndexByte(inner[i+1:], quote)
			if end < 0 {
				return nil
			}
			out = append(out, inner[i+1:i+1+end])
			i += end + 2
		default:
			return nil
		}
	}
	return out
}
