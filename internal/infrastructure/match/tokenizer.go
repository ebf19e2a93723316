package match

import (
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// stopwords dropped before scoring: articles, pronouns, politeness words.
// Deliberately small; aggressive stopword removal hurts short commands.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "is": {}, "it": {}, "i": {},
	"my": {}, "me": {}, "please": {}, "can": {}, "you": {},
	"could": {}, "would": {},
}

// Tokenize lowercases text and returns its alphanumeric tokens with
// stopwords removed. Pure and deterministic; empty or punctuation-only
// input yields an empty slice.
func Tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if _, skip := stopwords[t]; skip {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}
