package media

import "strings"

// moviePlatformAliases normalizes common shorthand for streaming services
// so "hbo" and "HBO Max" end up as the same platform value.
var moviePlatformAliases = map[string]string{
	"amazon":       "Amazon Prime",
	"amazon prime": "Amazon Prime",
	"netflix":      "Netflix",
	"apple tv":     "Apple TV+",
	"apple tv+":    "Apple TV+",
	"disney":       "Disney+",
	"disney+":      "Disney+",
	"hbo":          "HBO Max",
	"hbo max":      "HBO Max",
	"hulu":         "Hulu",
	"crunchyroll":  "Crunchyroll",
	"ororo":        "Ororo.tv",
	"ororo.tv":     "Ororo.tv",
	"cinema":       "Cinema",
	"blu-ray":      "Blu-ray",
	"bluray":       "Blu-ray",
	"dvd":          "DVD",
}

// NormalizePlatform trims the platform string and, for movies, resolves
// known streaming-service aliases. Game platforms pass through as typed.
func NormalizePlatform(t Type, platform string) string {
	cleaned := strings.TrimSpace(platform)
	if cleaned == "" {
		return ""
	}
	if t == TypeMovie {
		if canonical, ok := moviePlatformAliases[strings.ToLower(cleaned)]; ok {
			return canonical
		}
	}
	return cleaned
}
