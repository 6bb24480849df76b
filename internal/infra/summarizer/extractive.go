package summarizer

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"commentlens/internal/usecase/summarize"
	"commentlens/internal/usecase/wordcloud"
)

var sentenceEnd = regexp.MustCompile(`[.!?。！？]+\s+|\n+`)

// Extractive picks the most representative sentences of the input.
// It runs in process and never fails, which makes it the offline fallback engine.
type Extractive struct {
	metricsRecorder SummaryMetricsRecorder
}

// NewExtractive creates an extractive engine.
func NewExtractive() *Extractive {
	return &Extractive{metricsRecorder: NewPrometheusSummaryMetrics()}
}

// Name returns the engine name.
func (e *Extractive) Name() string { return "extractive" }

type scoredSentence struct {
	pos   int
	text  string
	words int
	score float64
}

// Summarize scores sentences by the document frequency of their content words
// and keeps the best ones, in original order, within p.MaxLength words.
func (e *Extractive) Summarize(ctx context.Context, input string, p summarize.Params) (summarize.Result, error) {
	if err := ctx.Err(); err != nil {
		return summarize.Result{}, err
	}
	start := time.Now()
	res := extract(input, p.MaxLength)
	observe(e.metricsRecorder, e.Name(), res, time.Since(start))
	return res, nil
}

func extract(input string, maxWords int) summarize.Result {
	sentences := splitSentences(input)
	if len(sentences) == 0 {
		return summarize.NoOutput()
	}

	freqs := wordcloud.Frequencies(input)
	scored := make([]scoredSentence, 0, len(sentences))
	for i, s := range sentences {
		words := len(strings.Fields(s))
		var score float64
		for w, n := range wordcloud.Frequencies(s) {
			score += float64(freqs[w] * n)
		}
		scored = append(scored, scoredSentence{pos: i, text: s, words: words, score: score / float64(words)})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	var picked []scoredSentence
	budget := maxWords
	for _, s := range scored {
		if budget > 0 && s.words > budget && len(picked) > 0 {
			continue
		}
		picked = append(picked, s)
		budget -= s.words
		if budget <= 0 {
			break
		}
	}

	sort.Slice(picked, func(i, j int) bool { return picked[i].pos < picked[j].pos })
	out := make([]string, len(picked))
	for i, s := range picked {
		out[i] = s.text
	}
	return summarize.Output(strings.Join(out, " "))
}

func splitSentences(text string) []string {
	var out []string
	last := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[last:loc[1]]); s != "" {
			out = append(out, s)
		}
		last = loc[1]
	}
	if s := strings.TrimSpace(text[last:]); s != "" {
		out = append(out, s)
	}
	return out
}
