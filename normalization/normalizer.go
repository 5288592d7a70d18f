package normalization

import (
	"strings"
	"unicode"
)

// NameNormalizer turns display names into comparison keys. The steps run in
// a fixed order so the transform is deterministic and idempotent:
//
//  1. lowercase
//  2. fold typographic quotes and dashes
//  3. strip diacritics
//  4. replace ampersands with "and"
//  5. drop punctuation
//  6. collapse whitespace
//  7. strip organisational prefixes, then suffixes
type NameNormalizer struct {
	prefixes []string
	suffixes []string
}

// Organisational noise words stripped from comparison keys. Suffix order
// matters: multi-word forms come before their last word ("foundation trust"
// before "trust") so one pass removes the longest form first.
var (
	defaultPrefixes = []string{
		"the",
	}
	defaultSuffixes = []string{
		"nhs foundation trust",
		"foundation trust",
		"nhs trust",
		"trust",
		"metropolitan borough council",
		"borough council",
		"county council",
		"district council",
		"city council",
		"town council",
		"parish council",
		"community council",
		"council",
		"limited",
		"ltd",
		"plc",
		"cic",
		"uk",
	}
)

// NewNameNormalizer creates a normalizer with the default prefix/suffix
// lists.
func NewNameNormalizer() *NameNormalizer {
	return &NameNormalizer{
		prefixes: defaultPrefixes,
		suffixes: defaultSuffixes,
	}
}

// Normalise produces the comparison key for a display name. Applying it to
// its own output returns the same string.
func (nn *NameNormalizer) Normalise(name string) string {
	text := strings.ToLower(name)
	text = foldQuotesAndDashes(text)
	text = stripDiacritics(text)
	text = strings.ReplaceAll(text, "&", " and ")
	text = stripPunctuation(text)
	text = strings.Join(strings.Fields(text), " ")
	text = nn.stripAffixes(text)
	return strings.TrimSpace(text)
}

// stripAffixes removes prefixes and suffixes to a fixpoint, which keeps
// Normalise idempotent even for names like "The The Stationery Office".
func (nn *NameNormalizer) stripAffixes(text string) string {
	for {
		stripped := nn.stripOnce(text)
		if stripped == text {
			return text
		}
		text = stripped
	}
}

func (nn *NameNormalizer) stripOnce(text string) string {
	for _, prefix := range nn.prefixes {
		if strings.HasPrefix(text, prefix+" ") {
			text = strings.TrimSpace(strings.TrimPrefix(text, prefix+" "))
			break
		}
	}
	for _, suffix := range nn.suffixes {
		if text == suffix {
			// Never strip a name down to nothing: a body literally named
			// "Trust" keeps its name.
			return text
		}
		if strings.HasSuffix(text, " "+suffix) {
			text = strings.TrimSpace(strings.TrimSuffix(text, " "+suffix))
			break
		}
	}
	return text
}

func foldQuotesAndDashes(text string) string {
	replacements := map[rune]rune{
		'“': '"',
		'”': '"',
		'‘': '\'',
		'’': '\'',
		'«': '"',
		'»': '"',
		'—': '-',
		'–': '-',
		'−': '-',
	}
	var builder strings.Builder
	for _, r := range text {
		if replacement, ok := replacements[r]; ok {
			builder.WriteRune(replacement)
		} else {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// stripDiacritics maps accented Latin letters onto their base letter so
// "Môn" and "Mon" normalise identically.
func stripDiacritics(text string) string {
	replacements := map[rune]rune{
		'á': 'a', 'à': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a', 'å': 'a',
		'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e',
		'í': 'i', 'ì': 'i', 'î': 'i', 'ï': 'i',
		'ó': 'o', 'ò': 'o', 'ô': 'o', 'õ': 'o', 'ö': 'o',
		'ú': 'u', 'ù': 'u', 'û': 'u', 'ü': 'u',
		'ý': 'y', 'ÿ': 'y',
		'ñ': 'n', 'ç': 'c',
		'ŵ': 'w', 'ŷ': 'y',
	}
	var builder strings.Builder
	for _, r := range text {
		if replacement, ok := replacements[r]; ok {
			builder.WriteRune(replacement)
		} else {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

func stripPunctuation(text string) string {
	var builder strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			builder.WriteRune(r)
		} else {
			builder.WriteRune(' ')
		}
	}
	return builder.String()
}
