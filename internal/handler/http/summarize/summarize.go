// Package summarize serves the summarization and article extraction endpoints.
package summarize

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"polysum/internal/domain/entity"
	"polysum/internal/handler/http/respond"
	"polysum/internal/infra/fetcher"
)

// Service is the routed summarization entry point.
type Service interface {
	RouteAndSummarize(ctx context.Context, raw string, target entity.LanguageTag, mode entity.LengthMode) (*entity.SummaryResult, error)
}

// Extractor downloads a page and returns its readable article.
type Extractor interface {
	Extract(ctx context.Context, url string) (*fetcher.Article, error)
}

// SummarizeHandler serves POST /summarize.
type SummarizeHandler struct{ Svc Service }

// ServeHTTP summarizes the request text.
//
// mode defaults to "medium"; target_lang defaults to the summarization
// language, in which case no final translation happens.
//
// Responses:
//   - 200 entity.SummaryResult
//   - 400 invalid JSON, empty text or unknown mode
//   - 502 translation provider failure
//   - 503 translation not configured or backend circuit open
func (h SummarizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req SummarizeRequest
	if err := decode(r, &req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	target, mode, err := req.Params()
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, classify(err))
		return
	}

	result, err := h.Svc.RouteAndSummarize(r.Context(), req.Text, target, mode)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, classify(err))
		return
	}

	respond.JSON(w, http.StatusOK, result)
}

// ExtractHandler serves POST /extract_article.
type ExtractHandler struct{ Fetcher Extractor }

// ServeHTTP extracts the readable article behind the given URL.
//
// Responses:
//   - 200 ExtractResponse
//   - 400 invalid JSON, missing, malformed or private URL
//   - 422 page has no readable text
//   - 502/504 remote site failure or timeout
func (h ExtractHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := decode(r, &req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		respond.SafeError(w, http.StatusBadRequest,
			&entity.ValidationError{Field: "url", Message: "is required"})
		return
	}

	article, err := h.Fetcher.Extract(r.Context(), strings.TrimSpace(req.URL))
	if err != nil {
		respond.SafeError(w, http.StatusBadGateway, classifyFetch(err))
		return
	}

	respond.JSON(w, http.StatusOK, ExtractResponse{
		URL:   article.URL,
		Title: article.Title,
		Text:  article.Text,
	})
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if mapped := classify(err); mapped.Code == http.StatusRequestEntityTooLarge {
			return mapped
		}
		return respond.NewAppError(http.StatusBadRequest, "invalid JSON body", err)
	}
	return nil
}
