package algorithms

import "math"

// JaroSimilarity computes the Jaro similarity between two strings.
// Returns a value in [0,1].
func JaroSimilarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}

	r1, r2 := []rune(s1), []rune(s2)
	len1, len2 := len(r1), len(r2)

	if len1 == 0 || len2 == 0 {
		return 0.0
	}

	matchWindow := maxInt(len1, len2)/2 - 1
	if matchWindow < 0 {
		matchWindow = 0
	}

	matches1 := make([]bool, len1)
	matches2 := make([]bool, len2)
	matches := 0

	for i := 0; i < len1; i++ {
		start := maxInt(0, i-matchWindow)
		end := i + matchWindow + 1
		if end > len2 {
			end = len2
		}
		for j := start; j < end; j++ {
			if matches2[j] || r1[i] != r2[j] {
				continue
			}
			matches1[i] = true
			matches2[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0.0
	}

	transpositions := 0
	k := 0
	for i := 0; i < len1; i++ {
		if !matches1[i] {
			continue
		}
		for !matches2[k] {
			k++
		}
		if r1[i] != r2[k] {
			transpositions++
		}
		k++
	}

	return (float64(matches)/float64(len1) +
		float64(matches)/float64(len2) +
		(float64(matches)-float64(transpositions)/2.0)/float64(matches)) / 3.0
}

// JaroWinklerSimilarity boosts the Jaro score for strings sharing a common
// prefix of up to four runes, which suits organisation names where the
// distinguishing part ("... NHS Foundation Trust") comes last.
func JaroWinklerSimilarity(s1, s2 string) float64 {
	jaro := JaroSimilarity(s1, s2)
	if jaro < 0.7 {
		return jaro
	}

	r1, r2 := []rune(s1), []rune(s2)
	minLen := len(r1)
	if len(r2) < minLen {
		minLen = len(r2)
	}

	prefixLen := 0
	for i := 0; i < minLen && i < 4; i++ {
		if r1[i] != r2[i] {
			break
		}
		prefixLen++
	}

	const scale = 0.1
	return math.Min(jaro+float64(prefixLen)*scale*(1.0-jaro), 1.0)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
