package document

import (
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`\b\w+\b`)

// Stopwords are query words too generic to discriminate between resumes.
// Role nouns like "developer" are included because nearly every resume in a
// technical pool contains them.
var stopwords = map[string]struct{}{
	"find":       {},
	"me":         {},
	"a":          {},
	"an":         {},
	"the":        {},
	"with":       {},
	"years":      {},
	"experience": {},
	"developer":  {},
	"engineer":   {},
	"for":        {},
	"of":         {},
}

// ExtractKeywords pulls the discriminating terms out of a search query.
// Words are lowercased and stopwords dropped.
func ExtractKeywords(query string) []string {
	words := wordPattern.FindAllString(strings.ToLower(query), -1)

	keywords := make([]string, 0, len(words))
	for _, word := range words {
		if _, skip := stopwords[word]; skip {
			continue
		}
		keywords = append(keywords, word)
	}

	return keywords
}

// containsAny reports whether the lowercased text contains at least one of
// the keywords.
func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
