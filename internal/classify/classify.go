// Package classify decides fiction vs non-fiction from bibliographic
// metadata using a fixed keyword heuristic.
package classify

import "strings"

// fictionKeywords are category/genre terms that mark a book as fiction.
var fictionKeywords = []string{
	"fiction", "novel", "fantasy", "science fiction", "sci-fi", "mystery",
	"thriller", "romance", "horror", "adventure", "drama", "poetry", "comics",
	"fairy tales", "fables", "short stories", "young adult fiction",
	"children's fiction", "literary fiction", "historical fiction",
	"crime fiction", "detective",
}

// Signals carries the metadata fields the heuristic inspects, in trust
// order: structured categories first, free text last.
type Signals struct {
	Categories   []string
	MainCategory string
	Description  string
	Title        string
}

// IsFiction evaluates the fields of s in strict priority order and
// short-circuits on the first decisive match. Categories are trusted
// over the main category, which is trusted over description and title.
// An explicit non-fiction marker always wins within a field. When no
// field yields a signal the answer is non-fiction.
func IsFiction(s Signals) bool {
	for _, category := range s.Categories {
		if fiction, decided := scanField(category); decided {
			return fiction
		}
	}
	if fiction, decided := scanField(s.MainCategory); decided {
		return fiction
	}
	if fiction, decided := scanField(s.Description); decided {
		return fiction
	}
	if fiction, decided := scanField(s.Title); decided {
		return fiction
	}
	return false
}

// scanField inspects a single metadata field. The explicit non-fiction
// check runs first: "non-fiction" contains the substring "fiction", so
// the ordering is load-bearing.
func scanField(field string) (fiction, decided bool) {
	if field == "" {
		return false, false
	}
	lower := strings.ToLower(field)
	if strings.Contains(lower, "non-fiction") || strings.Contains(lower, "nonfiction") {
		return false, true
	}
	for _, keyword := range fictionKeywords {
		if strings.Contains(lower, keyword) {
			return true, true
		}
	}
	return false, false
}
