package domain

import "sort"

// PersonaDefinitions связывает персону путешественника с ключевыми интересами.
var PersonaDefinitions = map[string][]string{
	"The Adventure Seeker":  {"Hike", "Mountain", "Safari", "Canyon", "River"},
	"The Cultured Explorer": {"Museum", "Art", "Gallery", "Historic", "Palace", "Temple", "Castle", "Church", "Mosque"},
	"The Urban Wanderer":    {"Market", "Shopping", "Food", "Tour"},
	"The Nature Lover":      {"Park", "Beach", "Island", "Lake", "Zoo", "Aquarium"},
}

const (
	// PersonaDefault присваивается профилю без интересов.
	PersonaDefault = "Wanderer"
	// PersonaEclectic присваивается, когда интересы не совпали ни с одной персоной.
	PersonaEclectic = "Eclectic Traveler"
)

// CalculatePersona подбирает персону по точным совпадениям интересов с
// ключевыми словами. При равном счёте побеждает лексикографически первая.
func CalculatePersona(interests []string) string {
	if len(interests) == 0 {
		return PersonaDefault
	}

	personas := make([]string, 0, len(PersonaDefinitions))
	for p := range PersonaDefinitions {
		personas = append(personas, p)
	}
	sort.Strings(personas)

	best := ""
	bestScore := 0
	for _, persona := range personas {
		score := 0
		for _, kw := range PersonaDefinitions[persona] {
			for _, interest := range interests {
				if interest == kw {
					score++
				}
			}
		}
		if score > bestScore {
			best, bestScore = persona, score
		}
	}
	if bestScore > 0 {
		return best
	}
	return PersonaEclectic
}
