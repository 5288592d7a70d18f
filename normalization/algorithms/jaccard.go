package algorithms

import "strings"

// TokenJaccard computes the Jaccard index over whitespace-separated tokens.
// Returns 1.0 for two empty strings.
func TokenJaccard(s1, s2 string) float64 {
	set1 := tokenSet(s1)
	set2 := tokenSet(s2)

	if len(set1) == 0 && len(set2) == 0 {
		return 1.0
	}
	if len(set1) == 0 || len(set2) == 0 {
		return 0.0
	}

	intersection := 0
	for token := range set1 {
		if set2[token] {
			intersection++
		}
	}

	union := len(set1)
	for token := range set2 {
		if !set1[token] {
			union++
		}
	}

	return float64(intersection) / float64(union)
}

func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, token := range strings.Fields(text) {
		set[token] = true
	}
	return set
}
