package summary

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"commentlens/internal/domain/entity"
	"commentlens/internal/handler/http/respond"
	"commentlens/internal/observability/metrics"
	"commentlens/internal/observability/tracing"
	"commentlens/internal/usecase/summarize"
)

type Handler struct{ Svc *summarize.Service }

// ServeHTTP summarizes a list of comments.
// @Summary      Summarize comments
// @Description  Blank fragments are dropped; long input is summarized in chunks and the partial summaries merged.
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        request body Request true "Comments and token budget"
// @Success      200 {object} Response
// @Failure      400 {object} respond.ErrorResponse "Malformed JSON or missing texts"
// @Failure      429 {object} respond.ErrorResponse "Rate limit exceeded"
// @Failure      500 {object} respond.ErrorResponse "Summarization backend failure"
// @Failure      504 {object} respond.ErrorResponse "Request timeout"
// @Router       /summarize [post]
func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.SafeError(r.Context(), w, err)
		return
	}
	if req.Texts == nil {
		respond.SafeError(r.Context(), w, &entity.ValidationError{Field: "texts", Message: "is required"})
		return
	}
	maxTokens := 0
	if req.MaxSummaryTokens != nil {
		maxTokens = *req.MaxSummaryTokens
	}
	if err := entity.ValidateMaxTokens("max_summary_tokens", maxTokens); err != nil {
		respond.SafeError(r.Context(), w, err)
		return
	}

	ctx, span := tracing.StartSpan(r.Context(), "summarize.comments",
		attribute.String("summarize.backend", h.Svc.Backend()),
		attribute.Int("summarize.texts", len(req.Texts)),
		attribute.Int("summarize.max_tokens", maxTokens))
	text, err := h.Svc.SummarizeComments(ctx, req.Texts, maxTokens)
	tracing.EndSpan(span, err)
	if err != nil {
		respond.SafeError(ctx, w, err)
		return
	}

	metrics.RecordComments(metrics.OperationSummarize, len(req.Texts))
	metrics.RecordSummary(text)
	respond.JSON(ctx, w, http.StatusOK, Response{Summary: text})
}
