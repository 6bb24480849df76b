//go:build !ORT

package classifier

import "commentlens/internal/usecase/sentiment"

func newHugotClassifier(string, string) (sentiment.Classifier, error) {
	return nil, ErrHugotUnavailable
}
