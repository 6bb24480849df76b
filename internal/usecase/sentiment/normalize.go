package sentiment

import (
	"strings"

	"commentlens/internal/domain/entity"
)

// Scores in this band are too close to a coin flip to trust the label.
const (
	ambiguousScoreLow  = 0.50
	ambiguousScoreHigh = 0.60
)

// labelTable maps the vocabularies of supported classifiers onto the canonical labels.
// LABEL_n is the index order of cardiffnlp/twitter-roberta-base-sentiment.
var labelTable = map[string]entity.Label{
	"LABEL_0":  entity.LabelNegative,
	"LABEL_1":  entity.LabelNeutral,
	"LABEL_2":  entity.LabelPositive,
	"NEGATIVE": entity.LabelNegative,
	"NEUTRAL":  entity.LabelNeutral,
	"POSITIVE": entity.LabelPositive,
}

// NormalizeLabel maps a raw classifier label onto positive, negative or neutral.
// Lookup is case-insensitive. Labels outside the table are returned lower-cased.
func NormalizeLabel(label string) entity.Label {
	if l, ok := labelTable[strings.ToUpper(label)]; ok {
		return l
	}
	return entity.Label(strings.ToLower(label))
}

// NormalizeScored is NormalizeLabel with the low-confidence override:
// a score in [0.50, 0.60] always yields neutral.
func NormalizeScored(label string, score float64) entity.Label {
	if score >= ambiguousScoreLow && score <= ambiguousScoreHigh {
		return entity.LabelNeutral
	}
	return NormalizeLabel(label)
}

// Normalize turns a raw classification into the API-facing sentiment.
func Normalize(raw entity.RawClassification) entity.Sentiment {
	return entity.Sentiment{
		Label: NormalizeScored(raw.Label, raw.Score),
		Score: raw.Score,
	}
}
