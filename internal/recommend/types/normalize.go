package types

import "strings"

// Seasons accepted by the upstream catalog.
const (
	SeasonWinter = "WINTER"
	SeasonSpring = "SPRING"
	SeasonSummer = "SUMMER"
	SeasonFall   = "FALL"
)

// DefaultSort is applied whenever no recognizable sort hint is given.
const DefaultSort = "POPULARITY_DESC"

// acceptedSorts are the upstream sort tokens this client emits.
var acceptedSorts = map[string]bool{
	"POPULARITY_DESC": true,
	"POPULARITY":      true,
	"SCORE_DESC":      true,
	"SCORE":           true,
	"TRENDING_DESC":   true,
	"TRENDING":        true,
	"START_DATE_DESC": true,
	"START_DATE":      true,
	"TITLE_ROMAJI":    true,
	"FAVOURITES_DESC": true,
	"EPISODES_DESC":   true,
}

// sortHints maps free-text sort hints to the nearest accepted token.
var sortHints = map[string]string{
	"popularity": "POPULARITY_DESC",
	"popular":    "POPULARITY_DESC",
	"rating":     "SCORE_DESC",
	"score":      "SCORE_DESC",
	"best":       "SCORE_DESC",
	"top":        "SCORE_DESC",
	"trending":   "TRENDING_DESC",
	"newest":     "START_DATE_DESC",
	"recent":     "START_DATE_DESC",
	"latest":     "START_DATE_DESC",
	"oldest":     "START_DATE",
	"title":      "TITLE_ROMAJI",
	"name":       "TITLE_ROMAJI",
	"alphabetical": "TITLE_ROMAJI",
	"favourites": "FAVOURITES_DESC",
	"favorites":  "FAVOURITES_DESC",
	"episodes":   "EPISODES_DESC",
	"longest":    "EPISODES_DESC",
}

// NormalizeSeason maps a free-form season name to the upstream enum.
// Returns "" for unrecognized input.
func NormalizeSeason(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case SeasonWinter:
		return SeasonWinter
	case SeasonSpring:
		return SeasonSpring
	case SeasonSummer:
		return SeasonSummer
	case SeasonFall, "AUTUMN":
		return SeasonFall
	default:
		return ""
	}
}

// NormalizeSort maps a single sort hint to an accepted upstream token,
// defaulting to popularity-descending when nothing matches.
func NormalizeSort(s string) string {
	token := strings.ToUpper(strings.TrimSpace(s))
	if acceptedSorts[token] {
		return token
	}
	if mapped, ok := sortHints[strings.ToLower(strings.TrimSpace(s))]; ok {
		return mapped
	}
	return DefaultSort
}

// NormalizeSortList normalizes every hint in order, deduplicating while
// preserving order. An empty input yields the default sort.
func NormalizeSortList(hints []string) []string {
	if len(hints) == 0 {
		return []string{DefaultSort}
	}

	seen := make(map[string]bool, len(hints))
	out := make([]string, 0, len(hints))
	for _, h := range hints {
		token := NormalizeSort(h)
		if !seen[token] {
			seen[token] = true
			out = append(out, token)
		}
	}
	return out
}

// TitleCase renders a label in title case, the casing the catalog uses
// for genre and tag values ("school-life" -> "School Life").
func TitleCase(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "-", " "))
	words := strings.Fields(s)
	for i, w := range words {
		if len(w) == 0 {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
