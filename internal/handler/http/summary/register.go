package summary

import (
	"net/http"

	"commentlens/internal/usecase/summarize"
)

// Register mounts the summarize endpoint on mux, wrapping it with mw.
func Register(mux *http.ServeMux, svc *summarize.Service, mw func(http.Handler) http.Handler) {
	mux.Handle("POST /summarize", mw(Handler{Svc: svc}))
}
