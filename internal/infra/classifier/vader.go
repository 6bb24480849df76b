package classifier

import (
	"context"
	"html"
	"math"
	"regexp"
	"strings"

	"commentlens/internal/domain/entity"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
)

// Compound score thresholds for a polar label.
const (
	vaderPositive = 0.20
	vaderNegative = -0.20
)

var (
	markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern          = regexp.MustCompile(`https?://\S+|www\.\S+`)
	htmlTagPattern      = regexp.MustCompile(`<[^>]*>`)
)

// Vader is a lexicon-based classifier that runs in process.
type Vader struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVader creates a VADER classifier.
func NewVader() *Vader {
	return &Vader{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Name returns the backend name.
func (v *Vader) Name() string { return "vader" }

// Classify scores each text. The score is the confidence of the chosen label:
// |compound| for polar labels and 1-|compound| for neutral.
func (v *Vader) Classify(ctx context.Context, texts []string) ([]entity.RawClassification, error) {
	out := make([]entity.RawClassification, len(texts))
	for i, t := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = vaderLabel(v.analyzer.PolarityScores(PlainText(t)).Compound)
	}
	return out, nil
}

func vaderLabel(compound float64) entity.RawClassification {
	switch {
	case compound >= vaderPositive:
		return entity.RawClassification{Label: "POSITIVE", Score: compound}
	case compound <= vaderNegative:
		return entity.RawClassification{Label: "NEGATIVE", Score: -compound}
	default:
		return entity.RawClassification{Label: "NEUTRAL", Score: 1 - math.Abs(compound)}
	}
}

// PlainText renders markdown and drops markup and links, keeping link text.
func PlainText(input string) string {
	rendered := string(blackfriday.Run([]byte(input), blackfriday.WithNoExtensions()))
	rendered = htmlTagPattern.ReplaceAllString(rendered, " ")
	rendered = html.UnescapeString(rendered)
	rendered = markdownLinkPattern.ReplaceAllString(rendered, "$1")
	rendered = urlPattern.ReplaceAllString(rendered, "")
	return strings.Join(strings.Fields(rendered), " ")
}
