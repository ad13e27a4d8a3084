package types

// OfficialGenres is the fixed vocabulary of genres the catalog accepts.
// Any descriptive term outside this list must be routed to tags, never
// to genres.
var OfficialGenres = []string{
	"Action",
	"Adventure",
	"Comedy",
	"Drama",
	"Ecchi",
	"Fantasy",
	"Hentai",
	"Horror",
	"Mahou Shoujo",
	"Mecha",
	"Music",
	"Mystery",
	"Psychological",
	"Romance",
	"Sci-Fi",
	"Slice of Life",
	"Sports",
	"Supernatural",
	"Thriller",
}

var officialGenreSet = func() map[string]string {
	m := make(map[string]string, len(OfficialGenres))
	for _, g := range OfficialGenres {
		m[normalizeKey(g)] = g
	}
	return m
}()

// IsOfficialGenre reports whether term is a member of the genre
// vocabulary, ignoring case.
func IsOfficialGenre(term string) bool {
	_, ok := officialGenreSet[normalizeKey(term)]
	return ok
}

// CanonicalGenre returns the canonical casing for a vocabulary term and
// whether the term is in the vocabulary at all.
func CanonicalGenre(term string) (string, bool) {
	g, ok := officialGenreSet[normalizeKey(term)]
	return g, ok
}
