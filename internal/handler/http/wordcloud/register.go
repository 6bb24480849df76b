package wordcloud

import (
	"net/http"

	wordcloudUC "commentlens/internal/usecase/wordcloud"
)

// Register mounts the word-cloud endpoint on mux, wrapping it with mw.
func Register(mux *http.ServeMux, svc *wordcloudUC.Service, mw func(http.Handler) http.Handler) {
	mux.Handle("POST /wordcloud", mw(Handler{Svc: svc}))
}
