package types

// RecommendationItem is one entry of the final pipeline output: a
// title, a one-sentence justification, and the cover-image URL taken
// verbatim from the matching catalog record.
type RecommendationItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}
