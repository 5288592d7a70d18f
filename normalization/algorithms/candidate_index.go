package algorithms

import "sort"

// CandidateIndex narrows the pairs a fuzzy scan must score, without ever
// changing the scan's outcome. Stored strings are screened with two cheap
// lower bounds on Damerau-Levenshtein distance: the rune-length difference,
// and half the rune-histogram difference (one edit moves the length by at
// most one and the histogram by at most two entries; a transposition moves
// neither). When even the resulting similarity upper bound stays below the
// threshold the pair cannot score at or above it, so skipping it leaves the
// clustering result identical to a full pairwise scan.
type CandidateIndex struct {
	threshold float64
	entries   []candidateEntry
}

type candidateEntry struct {
	id     int
	length int
	bag    map[rune]int
}

// NewCandidateIndex creates an index screening at the given similarity
// threshold.
func NewCandidateIndex(threshold float64) *CandidateIndex {
	return &CandidateIndex{threshold: threshold}
}

// Add registers a string under the caller's id.
func (ci *CandidateIndex) Add(id int, text string) {
	length, bag := runeBag(text)
	ci.entries = append(ci.entries, candidateEntry{id: id, length: length, bag: bag})
}

// Candidates returns the ids that could still reach the threshold against
// text, in ascending id order.
func (ci *CandidateIndex) Candidates(text string) []int {
	length, bag := runeBag(text)

	candidates := make([]int, 0, len(ci.entries))
	for _, entry := range ci.entries {
		if ci.plausible(length, bag, entry) {
			candidates = append(candidates, entry.id)
		}
	}
	sort.Ints(candidates)
	return candidates
}

// plausible keeps an entry when its similarity upper bound reaches the
// threshold. Uses the same arithmetic as DamerauLevenshteinSimilarity so the
// screen can never be stricter than the real score.
func (ci *CandidateIndex) plausible(length int, bag map[rune]int, entry candidateEntry) bool {
	maxLen := length
	if entry.length > maxLen {
		maxLen = entry.length
	}
	if maxLen == 0 {
		return true
	}

	lower := length - entry.length
	if lower < 0 {
		lower = -lower
	}
	if half := (bagDifference(bag, entry.bag) + 1) / 2; half > lower {
		lower = half
	}

	return 1.0-float64(lower)/float64(maxLen) >= ci.threshold
}

func runeBag(text string) (int, map[rune]int) {
	length := 0
	bag := make(map[rune]int)
	for _, r := range text {
		bag[r]++
		length++
	}
	return length, bag
}

// bagDifference sums the per-rune count differences of two histograms.
func bagDifference(a, b map[rune]int) int {
	diff := 0
	for r, ca := range a {
		cb := b[r]
		if ca > cb {
			diff += ca - cb
		} else {
			diff += cb - ca
		}
	}
	for r, cb := range b {
		if _, seen := a[r]; !seen {
			diff += cb
		}
	}
	return diff
}
