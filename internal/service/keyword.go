package service

import (
	"strings"
	"unicode"

	"github.com/Anantaverma20/NovaIQ/internal/domain"
)

// stopwords are excluded from keyword matching so questions like
// "what is the latest on X" score on their content terms only.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "but": {}, "by": {}, "for": {}, "from": {}, "has": {},
	"have": {}, "how": {}, "in": {}, "is": {}, "it": {}, "its": {},
	"of": {}, "on": {}, "or": {}, "that": {}, "the": {}, "this": {},
	"to": {}, "was": {}, "were": {}, "what": {}, "when": {}, "where": {},
	"which": {}, "who": {}, "why": {}, "will": {}, "with": {},
}

const minTokenLength = 2

// Tokenize lower-cases the input, splits on non-alphanumeric runs, and drops
// stopwords and tokens shorter than minTokenLength. Duplicate tokens are kept;
// callers that need distinct terms build their own set.
func Tokenize(text string) []string {
	raw := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if len(t) < minTokenLength {
			continue
		}
		if _, stop := stopwords[t]; stop {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// termSet returns the distinct tokens of a text.
func termSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range Tokenize(text) {
		set[t] = struct{}{}
	}
	return set
}

// keywordScore counts how many distinct question terms appear in the
// article's title or body. Term frequency inside the article does not
// raise the score.
func keywordScore(questionTerms map[string]struct{}, article *domain.Article) int {
	if len(questionTerms) == 0 {
		return 0
	}
	articleTerms := termSet(article.Title + " " + article.Body)

	score := 0
	for term := range questionTerms {
		if _, ok := articleTerms[term]; ok {
			score++
		}
	}
	return score
}
