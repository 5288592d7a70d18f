package algorithms

// HybridMatcher scores free-text equivalence using several metrics at once.
// The merger uses it to decide whether two source values for the same field
// are genuine disagreement or mere phrasing variants ("Ministerial
// department" vs "ministerial departments").
type HybridMatcher struct {
	stemmer *EnglishStemmer
}

// NewHybridMatcher creates a matcher with its own stemmer cache.
func NewHybridMatcher() *HybridMatcher {
	return &HybridMatcher{stemmer: NewEnglishStemmer()}
}

// Score returns a similarity in [0,1] combining edit distance, Jaro-Winkler,
// character bigrams and stemmed token overlap with fixed weights. Weights
// sum to 1 so the result stays in range.
func (hm *HybridMatcher) Score(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}

	stemmed1 := hm.stemmer.StemPhrase(s1)
	stemmed2 := hm.stemmer.StemPhrase(s2)
	if stemmed1 == stemmed2 {
		return 1.0
	}

	edit := DamerauLevenshteinSimilarity(s1, s2)
	jw := JaroWinklerSimilarity(s1, s2)
	bigram := BigramSimilarity(s1, s2)
	jaccard := TokenJaccard(stemmed1, stemmed2)

	return 0.3*edit + 0.25*jw + 0.2*bigram + 0.25*jaccard
}
