package sentiment

import (
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"commentlens/internal/domain/entity"
	"commentlens/internal/handler/http/respond"
	"commentlens/internal/observability/metrics"
	"commentlens/internal/observability/tracing"
	sentimentUC "commentlens/internal/usecase/sentiment"
)

// MaxBatchTexts bounds one batch request; the whole batch is a single classifier call.
const MaxBatchTexts = 512

var errNoText = &entity.ValidationError{Field: "text", Message: "either text or texts is required"}

type AnalyzeHandler struct{ Svc *sentimentUC.Service }

// ServeHTTP classifies one text or a batch of texts.
// @Summary      Classify sentiment
// @Description  Single {"text"} returns one result; batch {"texts"} returns {"results": [...]}, in input order.
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        request body Request true "Text or texts"
// @Success      200 {object} Result "Single text"
// @Success      200 {object} BatchResponse "Batch"
// @Failure      400 {object} respond.ErrorResponse "Malformed JSON or neither text nor texts"
// @Failure      429 {object} respond.ErrorResponse "Rate limit exceeded"
// @Failure      500 {object} respond.ErrorResponse "Classifier failure"
// @Failure      504 {object} respond.ErrorResponse "Request timeout"
// @Router       /sentiment [post]
func (h AnalyzeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.SafeError(r.Context(), w, err)
		return
	}

	switch {
	case req.Text != nil:
		h.single(w, r, *req.Text)
	case req.Texts != nil:
		h.batch(w, r, req.Texts)
	default:
		respond.SafeError(r.Context(), w, errNoText)
	}
}

func (h AnalyzeHandler) single(w http.ResponseWriter, r *http.Request, text string) {
	ctx, span := tracing.StartSpan(r.Context(), "sentiment.analyze",
		attribute.String("sentiment.backend", h.Svc.Backend()),
		attribute.Int("sentiment.texts", 1))
	res, err := h.Svc.Analyze(ctx, text)
	tracing.EndSpan(span, err)
	if err != nil {
		respond.SafeError(ctx, w, err)
		return
	}

	metrics.RecordComments(metrics.OperationSentiment, 1)
	metrics.RecordSentiments([]entity.Sentiment{res})
	respond.JSON(ctx, w, http.StatusOK, toResult(res))
}

func (h AnalyzeHandler) batch(w http.ResponseWriter, r *http.Request, texts []string) {
	if len(texts) > MaxBatchTexts {
		respond.SafeError(r.Context(), w, &entity.ValidationError{
			Field:   "texts",
			Message: fmt.Sprintf("must not contain more than %d entries", MaxBatchTexts),
		})
		return
	}

	ctx, span := tracing.StartSpan(r.Context(), "sentiment.analyze_batch",
		attribute.String("sentiment.backend", h.Svc.Backend()),
		attribute.Int("sentiment.texts", len(texts)))
	res, err := h.Svc.AnalyzeBatch(ctx, texts)
	tracing.EndSpan(span, err)
	if err != nil {
		respond.SafeError(ctx, w, err)
		return
	}

	out := BatchResponse{Results: make([]Result, len(res))}
	for i, s := range res {
		out.Results[i] = toResult(s)
	}
	metrics.RecordComments(metrics.OperationSentiment, len(texts))
	metrics.RecordSentiments(res)
	respond.JSON(ctx, w, http.StatusOK, out)
}
