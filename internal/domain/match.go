package domain

import (
	"strconv"
	"strings"
)

// MatchesTag проверяет вхождение тега в любое значение полей карточки.
// Сходство здесь — булево вхождение подстроки без учёта регистра, не
// численная релевантность. Поля-null не участвуют в сравнении.
func (c ContentItem) MatchesTag(tag string) bool {
	needle := strings.ToLower(strings.TrimSpace(tag))
	if needle == "" {
		return false
	}
	for _, v := range c.Fields {
		switch val := v.(type) {
		case string:
			if strings.Contains(strings.ToLower(val), needle) {
				return true
			}
		case []string:
			for _, item := range val {
				if strings.Contains(strings.ToLower(item), needle) {
					return true
				}
			}
		case []any:
			// Снимок карточки, прошедший через JSON, несёт списки как []any.
			for _, item := range val {
				s, ok := item.(string)
				if !ok {
					continue
				}
				if strings.Contains(strings.ToLower(s), needle) {
					return true
				}
			}
		case float64:
			if strings.Contains(strconv.FormatFloat(val, 'f', -1, 64), needle) {
				return true
			}
		}
	}
	return false
}
