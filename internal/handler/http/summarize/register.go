package summarize

import (
	"net/http"
)

// Register adds the summarization routes to mux. limit, when non-nil, wraps
// both routes since each request can reach paid upstream APIs.
func Register(mux *http.ServeMux, svc Service, extractor Extractor, limit func(http.Handler) http.Handler) {
	wrap := func(h http.Handler) http.Handler {
		if limit == nil {
			return h
		}
		return limit(h)
	}

	mux.Handle("POST /summarize", wrap(SummarizeHandler{Svc: svc}))
	if extractor != nil {
		mux.Handle("POST /extract_article", wrap(ExtractHandler{Fetcher: extractor}))
	}
}
