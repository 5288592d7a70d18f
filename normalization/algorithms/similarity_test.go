package algorithms

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestJaroWinklerSimilarity checks the Winkler prefix boost against known
// anchor values.
func TestJaroWinklerSimilarity(t *testing.T) {
	tests := []struct {
		name string
		s1   string
		s2   string
		min  float64
		max  float64
	}{
		{"identical", "croydon", "croydon", 1.0, 1.0},
		{"both empty", "", "", 1.0, 1.0},
		{"one empty", "", "croydon", 0.0, 0.0},
		{"shared prefix boosted", "hampshire", "hampshyre", 0.9, 1.0},
		{"disjoint", "abc", "xyz", 0.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JaroWinklerSimilarity(tt.s1, tt.s2)
			if got < tt.min-1e-9 || got > tt.max+1e-9 {
				t.Errorf("JaroWinklerSimilarity(%q, %q) = %f, want in [%f, %f]", tt.s1, tt.s2, got, tt.min, tt.max)
			}
		})
	}
}

// TestJaroWinklerBeatsJaroOnPrefix checks the prefix boost actually raises
// the base Jaro score.
func TestJaroWinklerBeatsJaroOnPrefix(t *testing.T) {
	jaro := JaroSimilarity("lancashire", "lancaster")
	jw := JaroWinklerSimilarity("lancashire", "lancaster")
	if jw <= jaro {
		t.Errorf("expected Winkler boost: jaro=%f jw=%f", jaro, jw)
	}
}

// TestTokenJaccard checks set overlap over whitespace tokens.
func TestTokenJaccard(t *testing.T) {
	tests := []struct {
		name string
		s1   string
		s2   string
		want float64
	}{
		{"identical", "city of london", "city of london", 1.0},
		{"both empty", "", "", 1.0},
		{"one empty", "", "london", 0.0},
		{"half overlap", "london borough", "london council", 1.0 / 3.0},
		{"order independent", "borough london", "london borough", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TokenJaccard(tt.s1, tt.s2)
			if !almostEqual(got, tt.want) {
				t.Errorf("TokenJaccard(%q, %q) = %f, want %f", tt.s1, tt.s2, got, tt.want)
			}
		})
	}
}

// TestCharacterNGramSimilarity checks the Dice coefficient over character
// n-grams.
func TestCharacterNGramSimilarity(t *testing.T) {
	if got := BigramSimilarity("night", "night"); !almostEqual(got, 1.0) {
		t.Errorf("identical strings: got %f, want 1.0", got)
	}
	if got := BigramSimilarity("abc", "xyz"); !almostEqual(got, 0.0) {
		t.Errorf("disjoint strings: got %f, want 0.0", got)
	}
	partial := BigramSimilarity("night", "nacht")
	if partial <= 0.0 || partial >= 1.0 {
		t.Errorf("partial overlap should be strictly between 0 and 1, got %f", partial)
	}
}

// TestHybridMatcher_ExactAndStemmed checks the short-circuit paths: exact
// equality and stemmed-phrase equality both score 1.0.
func TestHybridMatcher_ExactAndStemmed(t *testing.T) {
	matcher := NewHybridMatcher()

	if got := matcher.Score("environment agency", "environment agency"); !almostEqual(got, 1.0) {
		t.Errorf("exact match: got %f, want 1.0", got)
	}
	// "agencies" and "agency" stem to the same token.
	if got := matcher.Score("environment agencies", "environment agency"); !almostEqual(got, 1.0) {
		t.Errorf("stemmed match: got %f, want 1.0", got)
	}
	if got := matcher.Score("environment agency", "food standards agency"); got >= 1.0 {
		t.Errorf("different names must score below 1.0, got %f", got)
	}
}

// TestHybridMatcher_BlendsBigrams checks that the non-shortcut path blends
// all four component similarities, including character bigrams, with weights
// summing to one.
func TestHybridMatcher_BlendsBigrams(t *testing.T) {
	matcher := NewHybridMatcher()
	stemmer := NewEnglishStemmer()

	a, b := "natural england", "historic england"
	want := 0.3*DamerauLevenshteinSimilarity(a, b) +
		0.25*JaroWinklerSimilarity(a, b) +
		0.2*BigramSimilarity(a, b) +
		0.25*TokenJaccard(stemmer.StemPhrase(a), stemmer.StemPhrase(b))
	if got := matcher.Score(a, b); !almostEqual(got, want) {
		t.Errorf("Score(%q, %q) = %f, want %f", a, b, got, want)
	}
}

// TestHybridMatcher_Bounds checks the blended score stays in [0,1].
func TestHybridMatcher_Bounds(t *testing.T) {
	matcher := NewHybridMatcher()
	pairs := [][2]string{
		{"", ""},
		{"a", ""},
		{"hm revenue and customs", "hm treasury"},
		{"natural england", "historic england"},
	}
	for _, pair := range pairs {
		got := matcher.Score(pair[0], pair[1])
		if got < 0.0 || got > 1.0 {
			t.Errorf("Score(%q, %q) = %f out of [0,1]", pair[0], pair[1], got)
		}
	}
}
