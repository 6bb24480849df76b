package wordcloud

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"commentlens/internal/utils/text"
)

// Two or more word characters; apostrophes allowed after the first.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_][\p{L}\p{N}_']+`)

// WordCount is a word with its number of occurrences.
type WordCount struct {
	Text  string
	Count int
}

// Frequencies counts the words of input, lower-cased, without stopwords,
// possessive "'s" suffixes or pure numbers.
func Frequencies(input string) map[string]int {
	freqs := make(map[string]int)
	for _, w := range wordPattern.FindAllString(input, -1) {
		w = strings.ToLower(w)
		w = strings.TrimSuffix(w, "'s")
		w = strings.Trim(w, "'")
		if text.CountRunes(w) < 2 || isNumber(w) || IsStopword(w) {
			continue
		}
		freqs[w]++
	}
	return freqs
}

// TopWords returns at most n words ordered by count, then alphabetically.
func TopWords(freqs map[string]int, n int) []WordCount {
	out := make([]WordCount, 0, len(freqs))
	for w, c := range freqs {
		out = append(out, WordCount{Text: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Text < out[j].Text
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func isNumber(w string) bool {
	return strings.IndexFunc(w, func(r rune) bool { return !unicode.IsDigit(r) }) == -1
}
