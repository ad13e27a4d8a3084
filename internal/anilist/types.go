package anilist

// Media is one anime record as returned by the catalog. Produced only
// by this package; read-only downstream.
type Media struct {
	ID           int        `json:"id"`
	Title        MediaTitle `json:"title"`
	Genres       []string   `json:"genres"`
	Tags         []MediaTag `json:"tags"`
	AverageScore int        `json:"averageScore"`
	Episodes     int        `json:"episodes"`
	Format       string     `json:"format"`
	Status       string     `json:"status"`
	SeasonYear   int        `json:"seasonYear"`
	CoverImage   CoverImage `json:"coverImage"`
}

// MediaTitle holds the title variants; at least one is non-empty.
type MediaTitle struct {
	Romaji  string `json:"romaji"`
	English string `json:"english"`
}

// MediaTag is one catalog tag with its relevance rank.
type MediaTag struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Rank           int    `json:"rank"`
	IsMediaSpoiler bool   `json:"isMediaSpoiler"`
}

type CoverImage struct {
	Medium string `json:"medium"`
}

// DisplayTitle prefers the English title and falls back to romaji.
func (m *Media) DisplayTitle() string {
	if m.Title.English != "" {
		return m.Title.English
	}
	return m.Title.Romaji
}

// TagNames returns the tag labels in catalog order.
func (m *Media) TagNames() []string {
	names := make([]string, 0, len(m.Tags))
	for _, t := range m.Tags {
		names = append(names, t.Name)
	}
	return names
}
