package nsfw

import "strings"

var defaultBlocked = []string{
	"porn", "xxx", "sex", "nude", "nsfw", "hentai", "erotic",
}

// Checker is a boolean content predicate over candidate filenames.
type Checker struct {
	words map[string]struct{}
}

// NewChecker builds a checker from a word list; an empty list falls
// back to the built-in one.
func NewChecker(words []string) *Checker {
	if len(words) == 0 {
		words = defaultBlocked
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &Checker{words: set}
}

// IsBlocked reports whether the candidate name contains a blocked
// token. Matching is case-insensitive over word boundaries.
func (c *Checker) IsBlocked(name string) bool {
	for _, token := range tokenize(name) {
		if _, ok := c.words[token]; ok {
			return true
		}
	}
	return false
}

func tokenize(name string) []string {
	return strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
}
