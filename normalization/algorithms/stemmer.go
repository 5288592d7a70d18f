package algorithms

import (
	"strings"
	"sync"

	"github.com/kljensen/snowball"
)

// EnglishStemmer reduces English words to their stems using the Snowball
// algorithm, with a cache since organisation names repeat the same handful
// of words ("council", "services", "authority") thousands of times per run.
type EnglishStemmer struct {
	cache map[string]string
	mu    sync.RWMutex
}

// NewEnglishStemmer creates a caching English stemmer.
func NewEnglishStemmer() *EnglishStemmer {
	return &EnglishStemmer{cache: make(map[string]string)}
}

// Stem returns the stem of a single word. Words the algorithm cannot handle
// are returned unchanged.
func (es *EnglishStemmer) Stem(word string) string {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return ""
	}

	es.mu.RLock()
	cached, ok := es.cache[word]
	es.mu.RUnlock()
	if ok {
		return cached
	}

	stemmed, err := snowball.Stem(word, "english", false)
	if err != nil || stemmed == "" {
		stemmed = word
	}

	es.mu.Lock()
	es.cache[word] = stemmed
	es.mu.Unlock()
	return stemmed
}

// StemTokens stems every whitespace-separated token of text.
func (es *EnglishStemmer) StemTokens(text string) []string {
	fields := strings.Fields(text)
	stemmed := make([]string, 0, len(fields))
	for _, f := range fields {
		stemmed = append(stemmed, es.Stem(f))
	}
	return stemmed
}

// StemPhrase stems every token and rejoins them with single spaces.
func (es *EnglishStemmer) StemPhrase(text string) string {
	return strings.Join(es.StemTokens(text), " ")
}
