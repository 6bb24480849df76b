package wordcloud

import (
	"errors"
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"commentlens/internal/domain/entity"
	"commentlens/internal/handler/http/respond"
	"commentlens/internal/observability/metrics"
	"commentlens/internal/observability/tracing"
	wordcloudUC "commentlens/internal/usecase/wordcloud"
)

type Handler struct{ Svc *wordcloudUC.Service }

// ServeHTTP renders a word cloud.
// @Summary      Generate a word cloud
// @Description  Stopwords and one-letter words are dropped. image_base64 is null when no words remain.
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        request body Request true "Comments and canvas settings"
// @Success      200 {object} Response
// @Failure      400 {object} respond.ErrorResponse "Malformed JSON, bad dimensions or unknown color"
// @Failure      429 {object} respond.ErrorResponse "Rate limit exceeded"
// @Failure      500 {object} respond.ErrorResponse "Rendering failure"
// @Failure      504 {object} respond.ErrorResponse "Request timeout"
// @Router       /wordcloud [post]
func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.SafeError(r.Context(), w, err)
		return
	}
	if err := validate(req); err != nil {
		respond.SafeError(r.Context(), w, err)
		return
	}

	ctx, span := tracing.StartSpan(r.Context(), "wordcloud.generate",
		attribute.Int("wordcloud.texts", len(req.Texts)),
		attribute.Int("wordcloud.width", req.Width),
		attribute.Int("wordcloud.height", req.Height))
	res, err := h.Svc.Generate(ctx, req.Texts, wordcloudUC.Options{
		Width:      req.Width,
		Height:     req.Height,
		Background: req.BackgroundColor,
	})
	tracing.EndSpan(span, err)
	if err != nil {
		respond.SafeError(ctx, w, err)
		return
	}

	words := make([]string, len(res.TopWords))
	for i, wc := range res.TopWords {
		words[i] = wc.Text
	}
	metrics.RecordComments(metrics.OperationWordCloud, len(req.Texts))
	metrics.RecordWordCloud(res.ImageBase64 != nil)
	respond.JSON(ctx, w, http.StatusOK, Response{ImageBase64: res.ImageBase64, TopWords: words})
}

func validate(req Request) error {
	if req.Texts == nil {
		return &entity.ValidationError{Field: "texts", Message: "is required"}
	}
	return errors.Join(
		entity.ValidateDimension("width", req.Width),
		entity.ValidateDimension("height", req.Height),
		entity.ValidateColor("background_color", req.BackgroundColor),
	)
}
