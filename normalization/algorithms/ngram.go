package algorithms

// CharacterNGramSimilarity computes a Dice-style similarity over character
// n-grams. Works better than token sets for short strings.
func CharacterNGramSimilarity(s1, s2 string, n int) float64 {
	if n <= 0 {
		n = 2
	}
	if s1 == s2 {
		return 1.0
	}

	grams1 := characterNGrams(s1, n)
	grams2 := characterNGrams(s2, n)

	if len(grams1) == 0 && len(grams2) == 0 {
		return 1.0
	}
	if len(grams1) == 0 || len(grams2) == 0 {
		return 0.0
	}

	intersection := 0
	for gram, count1 := range grams1 {
		if count2, ok := grams2[gram]; ok {
			intersection += minCount(count1, count2)
		}
	}

	total1 := 0
	for _, c := range grams1 {
		total1 += c
	}
	total2 := 0
	for _, c := range grams2 {
		total2 += c
	}

	return 2.0 * float64(intersection) / float64(total1+total2)
}

// BigramSimilarity is CharacterNGramSimilarity with n=2, the usual choice
// for organisation names.
func BigramSimilarity(s1, s2 string) float64 {
	return CharacterNGramSimilarity(s1, s2, 2)
}

func characterNGrams(text string, n int) map[string]int {
	runes := []rune(text)
	grams := make(map[string]int)
	if len(runes) < n {
		if len(runes) > 0 {
			grams[string(runes)]++
		}
		return grams
	}
	for i := 0; i+n <= len(runes); i++ {
		grams[string(runes[i:i+n])]++
	}
	return grams
}

func minCount(a, b int) int {
	if a < b {
		return a
	}
	return b
}
