package sentiment

import (
	"net/http"

	sentimentUC "commentlens/internal/usecase/sentiment"
)

// Register mounts the sentiment endpoint on mux, wrapping it with mw.
func Register(mux *http.ServeMux, svc *sentimentUC.Service, mw func(http.Handler) http.Handler) {
	mux.Handle("POST /sentiment", mw(AnalyzeHandler{Svc: svc}))
}
