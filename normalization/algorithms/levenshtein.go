package algorithms

// DamerauLevenshteinDistance computes the Damerau-Levenshtein distance
// between two strings: the minimum number of insertions, deletions,
// substitutions and adjacent transpositions needed to turn one into the
// other. Operates on runes, not bytes.
func DamerauLevenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	len1 := len(r1)
	len2 := len(r2)

	if len1 == 0 {
		return len2
	}
	if len2 == 0 {
		return len1
	}

	// Dynamic programming matrix with an extra border row/column for the
	// transposition lookback.
	matrix := make([][]int, len1+2)
	for i := range matrix {
		matrix[i] = make([]int, len2+2)
	}

	maxDist := len1 + len2
	matrix[0][0] = maxDist
	for i := 0; i <= len1; i++ {
		matrix[i+1][0] = maxDist
		matrix[i+1][1] = i
	}
	for j := 0; j <= len2; j++ {
		matrix[0][j+1] = maxDist
		matrix[1][j+1] = j
	}

	// Last row where each rune was seen in r1.
	lastRow := make(map[rune]int)

	for i := 1; i <= len1; i++ {
		lastMatchCol := 0
		for j := 1; j <= len2; j++ {
			i1 := lastRow[r2[j-1]]
			j1 := lastMatchCol

			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
				lastMatchCol = j
			}

			substitution := matrix[i][j] + cost
			insertion := matrix[i+1][j] + 1
			deletion := matrix[i][j+1] + 1
			transposition := matrix[i1][j1] + (i - i1 - 1) + 1 + (j - j1 - 1)

			matrix[i+1][j+1] = minInt(substitution, insertion, deletion, transposition)
		}
		lastRow[r1[i-1]] = i
	}

	return matrix[len1+1][len2+1]
}

// DamerauLevenshteinSimilarity converts the distance into a similarity score
// in [0,1], where 1.0 means identical strings.
func DamerauLevenshteinSimilarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}

	len1 := len([]rune(s1))
	len2 := len([]rune(s2))
	maxLen := len1
	if len2 > maxLen {
		maxLen = len2
	}
	if maxLen == 0 {
		return 1.0
	}

	distance := DamerauLevenshteinDistance(s1, s2)
	return 1.0 - float64(distance)/float64(maxLen)
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
